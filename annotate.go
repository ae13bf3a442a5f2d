package boilerscore

import (
	"strconv"
)

// Category is the likelihood that a block is boilerplate. It is the inverse
// of the score: high scoring blocks have the lowest boilerplate likelihood.
type Category string

const (
	CategoryLowest  Category = "lowest"
	CategoryLow     Category = "low"
	CategoryHigh    Category = "high"
	CategoryHighest Category = "highest"
)

// Attributes written onto annotated elements.
const (
	AttrCategory = "data-boilerplate"
	AttrScore    = "data-boilerplate-score"
)

// CategoryOf maps a score to its category.
func CategoryOf(score int) Category {
	switch {
	case score > 74:
		return CategoryLowest
	case score > 50:
		return CategoryLow
	case score > 25:
		return CategoryHigh
	}
	return CategoryHighest
}

// Annotate writes the category and score of each block onto its element.
// Every block is validated first so that an error leaves the tree untouched.
func Annotate(tree Annotator, blocks []*Block) error {
	if tree == nil {
		return invalidArgumentf("annotate: nil tree")
	}
	for i, b := range blocks {
		if b == nil {
			return invalidArgumentf("annotate: block %d is nil", i)
		}
		if b.Score < MinScore || b.Score > MaxScore {
			return invalidArgumentf("annotate: block %d score %d out of range", i, b.Score)
		}
		if int(b.Element) < 0 || int(b.Element) >= tree.Len() {
			return invalidArgumentf("annotate: block %d references unknown element %d", i, b.Element)
		}
	}

	for _, b := range blocks {
		tree.SetAttr(b.Element, AttrCategory, string(b.Category()))
		tree.SetAttr(b.Element, AttrScore, strconv.Itoa(b.Score))
	}
	return nil
}
