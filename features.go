package boilerscore

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches the same characters strings.TrimSpace removes.
	reWhitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{85}]{2,}`)
	reTokenSplit    = regexp.MustCompile(`[\s\-_0-9]+`)
)

var (
	listItemTags  = atomSet(atom.Li, atom.Dd, atom.Dt)
	paragraphTags = atomSet(atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)
	fieldTags     = atomSet(atom.Input, atom.Select, atom.Button, atom.Textarea)
	lineTags      = atomSet(atom.Br, atom.Dt, atom.Dd, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Hr, atom.Li, atom.Menuitem, atom.P, atom.Tr)
)

// tokenAttributes are concatenated to form a block's attribute tokens.
var tokenAttributes = []string{"id", "name", "class", "itemprop", "role"}

func atomSet(atoms ...atom.Atom) map[atom.Atom]bool {
	m := make(map[atom.Atom]bool, len(atoms))
	for _, a := range atoms {
		m[a] = true
	}
	return m
}

func tagIn(tree Tree, n NodeID, set map[atom.Atom]bool) bool {
	return set[atom.Lookup([]byte(tree.Tag(n)))]
}

// TextLength returns the length in runes of s after trimming, collapsing
// whitespace runs and NFC normalisation.
func TextLength(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = reWhitespaceRun.ReplaceAllString(s, " ")
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// ExtractFeatures fills in the structural features of b from tree.
func ExtractFeatures(tree Tree, b *Block, maxTokenLength int) {
	el := b.Element
	text := tree.Text(el)

	b.Depth = depth(tree, el)
	b.TextLength = TextLength(text)
	b.AttributeTokens = AttributeTokens(tree, el, maxTokenLength)
	b.ParagraphCount = 0
	for _, c := range tree.Children(el) {
		if tagIn(tree, c, paragraphTags) {
			b.ParagraphCount++
		}
	}

	b.AnchorTextLength = 0
	b.ListItemCount = 0
	b.FieldCount = 0
	b.ImageArea = 0
	lines := 0
	for _, d := range tree.Elements(el) {
		a := atom.Lookup([]byte(tree.Tag(d)))

		switch {
		case a == atom.A:
			if _, ok := tree.Attr(d, "href"); ok {
				b.AnchorTextLength += TextLength(tree.Text(d))
			}
		case a == atom.Img:
			w, h := tree.Dimensions(d)
			b.ImageArea += w * h
		case fieldTags[a]:
			b.FieldCount++
		}

		if listItemTags[a] {
			b.ListItemCount++
		}
		if lineTags[a] {
			lines++
		}
	}

	if b.ElementType == "pre" || b.ElementType == "code" {
		lines += len(strings.Split(text, "\n"))
	}
	if lines == 0 {
		lines = 1
	}
	b.LineCount = lines
}

func depth(tree Tree, n NodeID) int {
	d := 0
	for p, ok := tree.Parent(n); ok; p, ok = tree.Parent(p) {
		d++
	}
	return d
}

// AttributeTokens splits the identifying attributes of n into a set of
// lowercase tokens. Tokens longer than maxLength are dropped when maxLength
// is positive.
func AttributeTokens(tree Tree, n NodeID, maxLength int) map[string]bool {
	values := make([]string, 0, len(tokenAttributes))
	for _, key := range tokenAttributes {
		if val, ok := tree.Attr(n, key); ok && val != "" {
			values = append(values, val)
		}
	}
	return Tokenize(strings.Join(values, " "), maxLength)
}

// Tokenize lowercases s and splits it on whitespace, '-', '_' and digits.
func Tokenize(s string, maxLength int) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range reTokenSplit.Split(strings.ToLower(s), -1) {
		if tok == "" {
			continue
		}
		if maxLength > 0 && utf8.RuneCountInString(tok) > maxLength {
			continue
		}
		tokens[tok] = true
	}
	return tokens
}
