package cst

import (
	"math"

	"github.com/yaklabco/kbdfmt/pkg/sexpr"
	"github.com/yaklabco/kbdfmt/pkg/span"
)

// Parse parses src and builds its tree. Parser failures are returned
// unchanged as *sexpr.ParseError.
func Parse(src string) (*Tree, span.Span, error) {
	res, err := sexpr.Parse(src)
	if err != nil {
		return nil, span.Span{}, err
	}
	tree, root := FromRaw(res)
	return tree, root, nil
}

// FromRaw merges a raw expression tree with its trivia stream.
//
// Trivia starting before an expression is attached at the current depth
// before that expression is pushed. Trivia inside a list is drained before
// its closing parenthesis. Whatever is left trails the document.
func FromRaw(res *sexpr.Result) (*Tree, span.Span) {
	b := &treeBuilder{trivia: res.Trivia}
	tree := &Tree{}
	b.build(res.Exprs, &tree.Root, math.MaxInt)

	return tree, span.Span{End: res.End()}
}

type treeBuilder struct {
	trivia []sexpr.Trivia
	next   int
}

func (b *treeBuilder) build(exprs []sexpr.Expr, into *NodeList, end int) {
	for i := range exprs {
		expr := &exprs[i]
		b.drainBefore(expr.Span.Start.Absolute, into)

		switch expr.Kind {
		case sexpr.ExprAtom:
			into.Push(NewAtom(expr.Text))
		case sexpr.ExprList:
			node := NewList()
			into.Push(node)
			list, _ := node.List()
			// The closing parenthesis is the final byte of the list span.
			b.build(expr.Children, &list.Items, expr.Span.End.Absolute-1)
		default:
			panic("cst: unknown expression kind")
		}
	}
	b.drainBefore(end, into)
}

func (b *treeBuilder) drainBefore(offset int, into *NodeList) {
	for b.next < len(b.trivia) && b.trivia[b.next].Span.Start.Absolute < offset {
		into.PushMetadata(metadataFrom(b.trivia[b.next]))
		b.next++
	}
}

func metadataFrom(t sexpr.Trivia) Metadata {
	switch t.Kind {
	case sexpr.TriviaLineComment:
		return Metadata{Kind: LineComment, Text: t.Text}
	case sexpr.TriviaBlockComment:
		return Metadata{Kind: BlockComment, Text: t.Text}
	default:
		return Metadata{Kind: Whitespace, Text: t.Text}
	}
}
