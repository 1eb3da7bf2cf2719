package sexpr

import (
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/span"
)

// tokenizer performs a single pass over the source.
// It produces a contiguous, non-overlapping token stream covering [0, len(src)).
type tokenizer struct {
	src       string
	tokens    []Token
	pos       int
	line      int
	lineStart int
}

// Tokenize splits src into tokens. It fails on unterminated strings and
// block comments.
func Tokenize(src string) ([]Token, error) {
	const initialCapacityDivisor = 3
	tok := &tokenizer{
		src:    src,
		tokens: make([]Token, 0, len(src)/initialCapacityDivisor+1),
	}

	if err := tok.tokenize(); err != nil {
		return nil, err
	}

	return tok.tokens, nil
}

func (t *tokenizer) tokenize() error {
	for t.pos < len(t.src) {
		start := t.position()

		switch c := t.src[t.pos]; {
		case c == '(':
			t.advance(1)
			t.emit(TokOpen, start)
		case c == ')':
			t.advance(1)
			t.emit(TokClose, start)
		case isSpace(c):
			for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
				t.advance(1)
			}
			t.emit(TokWhitespace, start)
		case strings.HasPrefix(t.src[t.pos:], ";;"):
			end := strings.IndexByte(t.src[t.pos:], '\n')
			if end < 0 {
				t.advance(len(t.src) - t.pos)
			} else {
				t.advance(end + 1)
			}
			t.emit(TokLineComment, start)
		case strings.HasPrefix(t.src[t.pos:], "#|"):
			end := strings.Index(t.src[t.pos+2:], "|#")
			if end < 0 {
				return t.errorFrom(start, "unterminated block comment")
			}
			t.advance(2 + end + 2)
			t.emit(TokBlockComment, start)
		case c == '"':
			end := strings.IndexByte(t.src[t.pos+1:], '"')
			if end < 0 {
				return t.errorFrom(start, "unterminated string")
			}
			t.advance(1 + end + 1)
			t.emit(TokAtom, start)
		case strings.HasPrefix(t.src[t.pos:], `r#"`):
			end := strings.Index(t.src[t.pos+3:], `"#`)
			if end < 0 {
				return t.errorFrom(start, "unterminated raw string")
			}
			t.advance(3 + end + 2)
			t.emit(TokAtom, start)
		default:
			for t.pos < len(t.src) && !isAtomTerminator(t.src[t.pos]) {
				t.advance(1)
			}
			t.emit(TokAtom, start)
		}
	}
	return nil
}

// advance moves the cursor n bytes forward, tracking line starts.
func (t *tokenizer) advance(n int) {
	end := t.pos + n
	for ; t.pos < end; t.pos++ {
		if t.src[t.pos] == '\n' {
			t.line++
			t.lineStart = t.pos + 1
		}
	}
}

func (t *tokenizer) position() span.Position {
	return span.Position{Absolute: t.pos, Line: t.line, LineStart: t.lineStart}
}

func (t *tokenizer) emit(kind TokenKind, start span.Position) {
	t.tokens = append(t.tokens, Token{
		Kind: kind,
		Span: span.Span{Start: start, End: t.position()},
	})
}

func (t *tokenizer) errorFrom(start span.Position, msg string) error {
	t.advance(len(t.src) - t.pos)
	return &ParseError{
		Message: msg,
		Span:    span.Span{Start: start, End: t.position()},
		HasSpan: true,
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isAtomTerminator(c byte) bool {
	return isSpace(c) || c == '(' || c == ')'
}
