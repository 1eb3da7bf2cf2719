package sexpr

import (
	"fmt"

	"github.com/yaklabco/kbdfmt/pkg/span"
)

// ExprKind distinguishes atoms from lists.
type ExprKind uint8

const (
	ExprAtom ExprKind = iota
	ExprList
)

// Expr is a node of the raw expression tree.
type Expr struct {
	Kind ExprKind

	// Text is the atom's source text. Empty for lists.
	Text string

	// Children holds list elements in source order. Nil for atoms.
	Children []Expr

	// Span covers the atom, or the list including both parentheses.
	Span span.Span
}

// TriviaKind classifies a trivia token.
type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaLineComment
	TriviaBlockComment
)

// Trivia is a whitespace or comment token.
type Trivia struct {
	Kind TriviaKind
	Text string
	Span span.Span
}

// Result is the parser output.
type Result struct {
	// Exprs are the top-level lists in source order.
	Exprs []Expr

	// Trivia are all whitespace and comment tokens, sorted by start offset.
	Trivia []Trivia
}

// ParseError is an upstream syntax failure.
type ParseError struct {
	Message string

	// Span locates the failure when HasSpan is set.
	Span    span.Span
	HasSpan bool
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if !e.HasSpan {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s",
		e.Span.Start.Line+1, e.Span.Start.ByteColumn()+1, e.Message)
}

// Parse tokenizes and parses src.
func Parse(src string) (*Result, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	// stack holds the lists currently open; the bottom entry collects
	// top-level expressions.
	stack := []*Expr{{Kind: ExprList}}

	for _, tok := range tokens {
		switch tok.Kind {
		case TokWhitespace:
			result.Trivia = append(result.Trivia, Trivia{Kind: TriviaWhitespace, Text: tok.Text(src), Span: tok.Span})
		case TokLineComment:
			result.Trivia = append(result.Trivia, Trivia{Kind: TriviaLineComment, Text: tok.Text(src), Span: tok.Span})
		case TokBlockComment:
			result.Trivia = append(result.Trivia, Trivia{Kind: TriviaBlockComment, Text: tok.Text(src), Span: tok.Span})
		case TokAtom:
			if len(stack) == 1 {
				return nil, &ParseError{
					Message: "everything must be in a list: unexpected top-level atom",
					Span:    tok.Span,
					HasSpan: true,
				}
			}
			top := stack[len(stack)-1]
			top.Children = append(top.Children, Expr{Kind: ExprAtom, Text: tok.Text(src), Span: tok.Span})
		case TokOpen:
			stack = append(stack, &Expr{Kind: ExprList, Span: tok.Span})
		case TokClose:
			if len(stack) == 1 {
				return nil, &ParseError{
					Message: "unexpected closing parenthesis",
					Span:    tok.Span,
					HasSpan: true,
				}
			}
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closed.Span.End = tok.Span.End
			if closed.Children == nil {
				closed.Children = []Expr{}
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, *closed)
		}
	}

	if len(stack) > 1 {
		unclosed := stack[len(stack)-1]
		return nil, &ParseError{
			Message: "unclosed opening parenthesis",
			Span:    unclosed.Span,
			HasSpan: true,
		}
	}

	result.Exprs = stack[0].Children
	return result, nil
}

// End returns the later of the last expression end and the last trivia end,
// which is where the document's root span ends.
func (r *Result) End() span.Position {
	var end span.Position
	if n := len(r.Exprs); n > 0 {
		end = r.Exprs[n-1].Span.End
	}
	if n := len(r.Trivia); n > 0 && end.Before(r.Trivia[n-1].Span.End) {
		end = r.Trivia[n-1].Span.End
	}
	return end
}
