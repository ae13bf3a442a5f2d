package boilerscore

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeID is an index into the element arena of a Tree.
type NodeID int

// Tree is the read-only view of a parsed document the classifier consumes.
// Element indices are stable for the lifetime of the tree.
type Tree interface {
	// Body returns the element whose descendants are classified.
	Body() (NodeID, bool)

	// Elements returns every element below root in document order. The root
	// itself is not included.
	Elements(root NodeID) []NodeID

	// Children returns the direct element children of n.
	Children(n NodeID) []NodeID

	// Parent returns the parent element of n, if any.
	Parent(n NodeID) (NodeID, bool)

	// Tag returns the lowercase tag name of n.
	Tag(n NodeID) string

	// Attr returns the value of the attribute key on n.
	Attr(n NodeID, key string) (string, bool)

	// Contains reports whether b is a or one of its descendants.
	Contains(a, b NodeID) bool

	// Text returns the visible text content of n.
	Text(n NodeID) string

	// Dimensions returns the declared width and height of n, zero when unknown.
	Dimensions(n NodeID) (width, height int)

	// Len returns the number of elements in the arena.
	Len() int
}

// Annotator is implemented by trees that accept the classification result.
type Annotator interface {
	Tree

	SetAttr(n NodeID, key, val string)
}

// HTMLTree adapts a golang.org/x/net/html node tree. Elements are stored in
// preorder so that every subtree occupies a contiguous range of the arena.
type HTMLTree struct {
	root *html.Node

	nodes  []*html.Node
	parent []NodeID
	end    []NodeID // exclusive end of the subtree range
	ids    map[*html.Node]NodeID
	body   NodeID
}

// Statically check that *HTMLTree satisfies the Annotator interface.
var _ Annotator = (*HTMLTree)(nil)

// NewHTMLTree parses an HTML document.
func NewHTMLTree(r io.Reader) (*HTMLTree, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewHTMLTreeFromNode(root), nil
}

// NewHTMLTreeFromNode indexes an already parsed document or fragment.
func NewHTMLTreeFromNode(root *html.Node) *HTMLTree {
	t := &HTMLTree{
		root: root,
		ids:  make(map[*html.Node]NodeID),
		body: -1,
	}
	t.index(root, -1)

	// Fragments without a <body> are classified from their first element.
	if t.body == -1 && len(t.nodes) > 0 {
		t.body = 0
	}
	return t
}

func (t *HTMLTree) index(n *html.Node, parent NodeID) {
	if n.Type == html.ElementNode {
		id := NodeID(len(t.nodes))
		t.nodes = append(t.nodes, n)
		t.parent = append(t.parent, parent)
		t.end = append(t.end, 0)
		t.ids[n] = id

		if n.DataAtom == atom.Body && t.body == -1 {
			t.body = id
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.index(c, id)
		}
		t.end[id] = NodeID(len(t.nodes))
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.index(c, parent)
	}
}

func (t *HTMLTree) valid(n NodeID) bool { return n >= 0 && int(n) < len(t.nodes) }

func (t *HTMLTree) Len() int { return len(t.nodes) }

func (t *HTMLTree) Body() (NodeID, bool) {
	if t.body < 0 {
		return 0, false
	}
	return t.body, true
}

func (t *HTMLTree) Elements(root NodeID) []NodeID {
	if !t.valid(root) {
		return nil
	}
	ids := make([]NodeID, 0, t.end[root]-root-1)
	for id := root + 1; id < t.end[root]; id++ {
		ids = append(ids, id)
	}
	return ids
}

func (t *HTMLTree) Children(n NodeID) []NodeID {
	if !t.valid(n) {
		return nil
	}
	children := make([]NodeID, 0)
	for c := t.nodes[n].FirstChild; c != nil; c = c.NextSibling {
		if id, ok := t.ids[c]; ok {
			children = append(children, id)
		}
	}
	return children
}

func (t *HTMLTree) Parent(n NodeID) (NodeID, bool) {
	if !t.valid(n) || t.parent[n] < 0 {
		return 0, false
	}
	return t.parent[n], true
}

func (t *HTMLTree) Tag(n NodeID) string {
	if !t.valid(n) {
		return ""
	}
	node := t.nodes[n]
	if node.DataAtom != 0 {
		return node.DataAtom.String()
	}
	return strings.ToLower(node.Data)
}

func (t *HTMLTree) Attr(n NodeID, key string) (string, bool) {
	if !t.valid(n) {
		return "", false
	}
	for _, attr := range t.nodes[n].Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

func (t *HTMLTree) Contains(a, b NodeID) bool {
	if !t.valid(a) || !t.valid(b) {
		return false
	}
	return a <= b && b < t.end[a]
}

func (t *HTMLTree) Text(n NodeID) string {
	if !t.valid(n) {
		return ""
	}
	var b strings.Builder
	collectText(&b, t.nodes[n])
	return b.String()
}

// collectText concatenates text nodes, skipping elements whose text is never
// rendered.
func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func (t *HTMLTree) Dimensions(n NodeID) (width, height int) {
	return t.dimension(n, "width"), t.dimension(n, "height")
}

// maxDimension caps width and height so their product cannot overflow.
const maxDimension = 1 << 20

// dimension parses attributes like "300" or "300px"; anything else is 0.
func (t *HTMLTree) dimension(n NodeID, key string) int {
	val, ok := t.Attr(n, key)
	if !ok {
		return 0
	}
	val = strings.TrimSuffix(strings.TrimSpace(val), "px")
	d, err := strconv.Atoi(val)
	if err != nil || d < 0 {
		return 0
	}
	return min(d, maxDimension)
}

// SetAttr sets or replaces an attribute on n.
func (t *HTMLTree) SetAttr(n NodeID, key, val string) {
	if !t.valid(n) {
		return
	}
	node := t.nodes[n]
	for i := range node.Attr {
		if node.Attr[i].Namespace == "" && node.Attr[i].Key == key {
			node.Attr[i].Val = val
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: val})
}

// Node returns the underlying html node for n.
func (t *HTMLTree) Node(n NodeID) *html.Node {
	if !t.valid(n) {
		return nil
	}
	return t.nodes[n]
}

// Render writes the document, including any annotations, as HTML.
func (t *HTMLTree) Render(w io.Writer) error {
	return html.Render(w, t.root)
}
