// Package sexpr is the grammar front end for kbd configuration files.
//
// It produces the two streams the CST builder consumes: a raw expression tree
// (atoms and lists with spans, trivia stripped) and a chronological stream of
// trivia tokens (whitespace and comments with spans). Both are addressed
// against the same source text.
package sexpr

import "github.com/yaklabco/kbdfmt/pkg/span"

// TokenKind classifies a lexical token.
type TokenKind uint8

// Token kinds. Every byte of the source belongs to exactly one token.
const (
	TokOpen         TokenKind = iota // '('
	TokClose                         // ')'
	TokAtom                          // identifier, number, quoted or raw string
	TokWhitespace                    // run of ' ', '\t', '\r', '\n'
	TokLineComment                   // ';;' through the end of the line, newline included
	TokBlockComment                  // '#|' ... '|#'
)

// String returns a readable token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokOpen:
		return "Open"
	case TokClose:
		return "Close"
	case TokAtom:
		return "Atom"
	case TokWhitespace:
		return "Whitespace"
	case TokLineComment:
		return "LineComment"
	case TokBlockComment:
		return "BlockComment"
	default:
		return "Unknown"
	}
}

// IsTrivia returns true for tokens that carry no meaning.
func (k TokenKind) IsTrivia() bool {
	return k == TokWhitespace || k == TokLineComment || k == TokBlockComment
}

// Token is a classified span of the source.
type Token struct {
	Kind TokenKind
	Span span.Span
}

// Text returns the source text of the token.
func (t Token) Text(src string) string {
	return t.Span.Text(src)
}
