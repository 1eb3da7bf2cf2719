package cst

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/kbdfmt/pkg/span"
)

// Position lookup errors.
var (
	// ErrPositionInTrivia indicates the position falls inside whitespace or a comment.
	ErrPositionInTrivia = errors.New("position is inside metadata")

	// ErrPositionNotFound indicates no atom starts at or covers the position.
	ErrPositionNotFound = errors.New("no atom at position")
)

// PathAt returns the child indices leading to the atom that covers pos.
// Columns are counted in UTF-16 code units. The walk re-derives line and
// column from the text since the tree keeps no spans.
func (t *Tree) PathAt(pos span.LSPPosition) ([]int, error) {
	c := &cursor{target: pos}
	path, err := c.find(&t.Root)
	if err != nil {
		return nil, fmt.Errorf("%d:%d: %w", pos.Line, pos.Character, err)
	}
	if path == nil {
		return nil, fmt.Errorf("%d:%d: %w", pos.Line, pos.Character, ErrPositionNotFound)
	}
	return path, nil
}

type cursor struct {
	target span.LSPPosition
	line   int
	col    int
}

// find returns a nil path and nil error when the list was fully consumed
// without a match.
func (c *cursor) find(l *NodeList) ([]int, error) {
	if err := c.skip(l.trivia); err != nil {
		return nil, err
	}

	for i, n := range l.nodes {
		if err := c.skip(n.Pre); err != nil {
			return nil, err
		}

		switch e := n.Expr.(type) {
		case *Atom:
			width := span.UTF16Len(e.Text)
			if c.line == c.target.Line && c.col <= c.target.Character && c.target.Character < c.col+width {
				return []int{i}, nil
			}
			c.advance(e.Text)
		case *List:
			c.col++
			inner, err := c.find(&e.Items)
			if err != nil {
				return nil, err
			}
			if inner != nil {
				return append([]int{i}, inner...), nil
			}
			c.col++
		}

		if err := c.skip(n.Post); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (c *cursor) skip(md []Metadata) error {
	for _, m := range md {
		c.advance(m.Text)
	}
	if c.line > c.target.Line {
		return ErrPositionInTrivia
	}
	return nil
}

func (c *cursor) advance(text string) {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '\n' {
			c.line++
			c.col = 0
			continue
		}
		c.col += span.UTF16Len(string(r))
	}
}
