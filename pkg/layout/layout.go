// Package layout extracts the column layout of a defsrc block and applies it
// to the deflayer blocks of the same file.
package layout

import (
	"fmt"
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/query"
)

// Layout holds one entry per defsrc key. The first value of an entry is the
// visual width from the key's start to the next key on the same line. Each
// further value is the indentation of a new line begun inside the key's
// trailing trivia, by a newline or a line comment.
type Layout [][]int

// Len returns the number of keys.
func (l Layout) Len() int {
	return len(l)
}

// Clone returns a deep copy.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	for i, entry := range l {
		out[i] = append([]int(nil), entry...)
	}
	return out
}

// LineEnding is the sequence used for synthesized line breaks.
type LineEnding string

// Supported line endings.
const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// ParseLineEnding converts a configuration name ("lf" or "crlf").
func ParseLineEnding(name string) (LineEnding, error) {
	switch strings.ToLower(name) {
	case "", "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	default:
		return "", fmt.Errorf("unknown line ending %q (expected lf or crlf)", name)
	}
}

// Name returns the configuration name of e.
func (e LineEnding) Name() string {
	if e == CRLF {
		return "crlf"
	}
	return "lf"
}

// FromTree finds the defsrc block of tree and extracts its layout. found is
// false when the file has no defsrc block.
func FromTree(tree *cst.Tree, tabWidth int) (l Layout, found bool, err error) {
	block, found, err := query.TemplateBlock(tree)
	if err != nil || !found {
		return nil, found, err
	}
	return Extract(block, tabWidth), true, nil
}

// Extract computes the layout of a validated defsrc block. Tabs count as
// tabWidth columns, carriage returns as nothing and every other character
// as one.
func Extract(block query.Block, tabWidth int) Layout {
	slots := block.Items.Nodes()[1:]
	out := make(Layout, 0, len(slots))

	for _, n := range slots {
		m := &measure{entry: []int{0}, tabWidth: tabWidth}
		m.scan(n.ExprString())
		for _, md := range n.Post {
			switch md.Kind {
			case cst.LineComment:
				m.entry = append(m.entry, 0)
			case cst.BlockComment:
			case cst.Whitespace:
				m.scan(md.Text)
			}
		}
		out = append(out, m.entry)
	}
	return out
}

type measure struct {
	entry    []int
	tabWidth int
}

func (m *measure) scan(text string) {
	for _, r := range text {
		switch r {
		case '\r':
		case '\n':
			m.entry = append(m.entry, 0)
		case '\t':
			m.entry[len(m.entry)-1] += m.tabWidth
		default:
			m.entry[len(m.entry)-1]++
		}
	}
}
