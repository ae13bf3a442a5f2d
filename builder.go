package boilerscore

import (
	"golang.org/x/net/html/atom"
)

// BlockTags is the set of elements that become blocks.
var BlockTags = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Code:       true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.Header:     true,
	atom.Main:       true,
	atom.Menu:       true,
	atom.Nav:        true,
	atom.Ol:         true,
	atom.Picture:    true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Tr:         true,
	atom.Ul:         true,
}

func isBlockTag(tag string) bool {
	return BlockTags[atom.Lookup([]byte(tag))]
}

// BuildBlocks selects the block-like elements below the body of tree in
// document order. Each block's ParentIndex points at the nearest preceding
// block whose element contains it.
func BuildBlocks(tree Tree) []*Block {
	body, ok := tree.Body()
	if !ok {
		return []*Block{}
	}

	blocks := make([]*Block, 0)
	for i, el := range tree.Elements(body) {
		tag := tree.Tag(el)
		if !isBlockTag(tag) {
			continue
		}

		b := newBlock(el, i, tag)
		b.ParentIndex = findParentBlock(tree, blocks, el)
		blocks = append(blocks, b)
	}

	return blocks
}

// findParentBlock scans backward since ancestors tend to be near the end.
func findParentBlock(tree Tree, blocks []*Block, el NodeID) int {
	for i := len(blocks) - 1; i >= 0; i-- {
		if tree.Contains(blocks[i].Element, el) {
			return i
		}
	}
	return NoParent
}
