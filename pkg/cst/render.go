package cst

import (
	"io"
	"strings"
)

// String renders the tree back to source text.
func (t *Tree) String() string {
	var sb strings.Builder
	writeList(&sb, &t.Root)
	return sb.String()
}

// WriteTo renders the tree to w.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

// String renders the node with its trivia.
func (n *Node) String() string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

// ExprString renders only the node's expression, without its own trivia.
func (n *Node) ExprString() string {
	var sb strings.Builder
	writeExpr(&sb, n.Expr)
	return sb.String()
}

func writeList(sb *strings.Builder, l *NodeList) {
	if l.IsEmpty() {
		writeMetadata(sb, l.trivia)
		return
	}
	for _, n := range l.nodes {
		writeNode(sb, n)
	}
}

func writeNode(sb *strings.Builder, n *Node) {
	writeMetadata(sb, n.Pre)
	writeExpr(sb, n.Expr)
	writeMetadata(sb, n.Post)
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Atom:
		sb.WriteString(e.Text)
	case *List:
		sb.WriteByte('(')
		writeList(sb, &e.Items)
		sb.WriteByte(')')
	}
}

func writeMetadata(sb *strings.Builder, md []Metadata) {
	for _, m := range md {
		sb.WriteString(m.Text)
	}
}
