package format

import (
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/cst"
)

// CollapseNewlines limits every run of consecutive newline characters in the
// whitespace trivia of tree to at most limit. Comments are not modified. Any
// other character, carriage returns included, ends a run.
func CollapseNewlines(tree *cst.Tree, limit int) {
	cst.WalkMetadata(tree, func(m *cst.Metadata) {
		if m.Kind == cst.Whitespace {
			m.Text = collapse(m.Text, limit)
		}
	})
}

func collapse(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if !strings.Contains(text, strings.Repeat("\n", limit+1)) {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))

	run := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\n' {
			run = 0
			sb.WriteByte(c)
			continue
		}
		run++
		if run <= limit {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
