package boilerscore

import (
	"sort"
	"strings"
)

const (
	// NeutralScore is the score every block starts with. Scores at or above
	// it are considered content.
	NeutralScore = 50

	MinScore = 0
	MaxScore = 100

	// NoParent is the ParentIndex of blocks not contained by another block.
	NoParent = -1
)

// A Block is a candidate content region backed by one element of the tree.
type Block struct {
	Element      NodeID
	ElementIndex int
	ParentIndex  int
	ElementType  string
	Depth        int

	TextLength       int
	AnchorTextLength int
	ListItemCount    int
	ParagraphCount   int
	FieldCount       int
	LineCount        int
	ImageArea        int

	AttributeTokens map[string]bool

	Score int
}

func newBlock(element NodeID, elementIndex int, elementType string) *Block {
	return &Block{
		Element:         element,
		ElementIndex:    elementIndex,
		ParentIndex:     NoParent,
		ElementType:     elementType,
		AttributeTokens: make(map[string]bool),
		Score:           NeutralScore,
	}
}

// SetScore stores score clamped to [MinScore, MaxScore].
func (b *Block) SetScore(score int) {
	b.Score = clampInt(score, MinScore, MaxScore)
}

// IsContent reports whether the block scores at or above the neutral score.
func (b *Block) IsContent() bool { return b.Score >= NeutralScore }

// Category returns the boilerplate likelihood of the block's current score.
func (b *Block) Category() Category { return CategoryOf(b.Score) }

// Tokens returns the attribute tokens in sorted order.
func (b *Block) Tokens() []string {
	tokens := make([]string, 0, len(b.AttributeTokens))
	for tok := range b.AttributeTokens {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

func (b *Block) String() string {
	return b.ElementType + "[" + strings.Join(b.Tokens(), " ") + "]"
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
