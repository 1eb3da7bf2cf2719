// Package cst provides a lossless concrete syntax tree for kbd configuration
// files.
//
// Every node owns the trivia (whitespace and comments) immediately before and
// after it, so rendering a tree reproduces the source byte for byte. Spans are
// dropped once the tree is built; the tree holds owned strings only.
package cst

// MetadataKind classifies trivia attached to a node.
type MetadataKind uint8

const (
	Whitespace MetadataKind = iota
	LineComment
	BlockComment
)

// String returns a readable kind name.
func (k MetadataKind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	default:
		return "Unknown"
	}
}

// Metadata is a single piece of trivia. Comments keep their delimiters and a
// line comment keeps its trailing newline when the source had one.
type Metadata struct {
	Kind MetadataKind
	Text string
}

// IsComment reports whether m is a line or block comment.
func (m Metadata) IsComment() bool {
	return m.Kind == LineComment || m.Kind == BlockComment
}

// Expr is either an *Atom or a *List.
type Expr interface {
	isExpr()
}

// Atom is a leaf token. Its text is opaque to the tree.
type Atom struct {
	Text string
}

// List is a parenthesized sequence of nodes.
type List struct {
	Items NodeList
}

func (*Atom) isExpr() {}
func (*List) isExpr() {}

// Node is an expression with its leading and trailing trivia.
type Node struct {
	Pre  []Metadata
	Expr Expr
	Post []Metadata
}

// NewAtom returns a node holding an atom with no trivia.
func NewAtom(text string) *Node {
	return &Node{Expr: &Atom{Text: text}}
}

// NewList returns a node holding an empty list with no trivia.
func NewList() *Node {
	return &Node{Expr: &List{}}
}

// Atom returns the node's atom, if it holds one.
func (n *Node) Atom() (*Atom, bool) {
	a, ok := n.Expr.(*Atom)
	return a, ok
}

// List returns the node's list, if it holds one.
func (n *Node) List() (*List, bool) {
	l, ok := n.Expr.(*List)
	return l, ok
}

// NodeList is the body of a list or of the document root.
//
// It has two states. While empty it collects the trivia found between its
// delimiters; the first pushed node takes that trivia as its leading
// metadata and the list switches to holding nodes.
type NodeList struct {
	nodes  []*Node
	trivia []Metadata
}

// Len returns the number of nodes.
func (l *NodeList) Len() int {
	return len(l.nodes)
}

// IsEmpty reports whether the list holds no nodes.
func (l *NodeList) IsEmpty() bool {
	return len(l.nodes) == 0
}

// Nodes returns the nodes in order. The slice is shared with the list.
func (l *NodeList) Nodes() []*Node {
	return l.nodes
}

// At returns the i-th node, or nil when i is out of range.
func (l *NodeList) At(i int) *Node {
	if i < 0 || i >= len(l.nodes) {
		return nil
	}
	return l.nodes[i]
}

// Last returns the final node, or nil for an empty list.
func (l *NodeList) Last() *Node {
	if len(l.nodes) == 0 {
		return nil
	}
	return l.nodes[len(l.nodes)-1]
}

// Trivia returns the metadata held by an empty list.
func (l *NodeList) Trivia() []Metadata {
	return l.trivia
}

// Push appends n. Trivia accumulated while the list was empty moves in
// front of n's own leading metadata.
func (l *NodeList) Push(n *Node) {
	if len(l.nodes) == 0 && len(l.trivia) > 0 {
		pre := make([]Metadata, 0, len(l.trivia)+len(n.Pre))
		pre = append(pre, l.trivia...)
		n.Pre = append(pre, n.Pre...)
		l.trivia = nil
	}
	l.nodes = append(l.nodes, n)
}

// PushMetadata appends m as trailing metadata of the last node, or to the
// list's own trivia when it is empty.
func (l *NodeList) PushMetadata(m Metadata) {
	if last := l.Last(); last != nil {
		last.Post = append(last.Post, m)
		return
	}
	l.trivia = append(l.trivia, m)
}

// Tree is a parsed document: the top-level sequence of nodes, not wrapped
// in delimiters.
type Tree struct {
	Root NodeList
}

// NodeAt follows a path of child indices from the root. Every index except
// the last must select a list.
func (t *Tree) NodeAt(path []int) (*Node, bool) {
	if len(path) == 0 {
		return nil, false
	}

	list := &t.Root
	var node *Node
	for depth, idx := range path {
		node = list.At(idx)
		if node == nil {
			return nil, false
		}
		if depth == len(path)-1 {
			break
		}
		inner, ok := node.List()
		if !ok {
			return nil, false
		}
		list = &inner.Items
	}
	return node, true
}
