// Package diff renders unified diffs between a file and its formatted text.
package diff

import (
	"fmt"
	"strings"
)

// Op is the kind of a diff line.
type Op int

const (
	// Equal is a context line present on both sides.
	Equal Op = iota

	// Insert is a line only present in the formatted text.
	Insert

	// Delete is a line only present in the original text.
	Delete
)

// Line is one line of a hunk.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	// OldStart and NewStart are 1-based line numbers.
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []Line
}

// Diff is a unified diff of one file.
type Diff struct {
	Path       string
	Hunks      []Hunk
	Insertions int
	Deletions  int
}

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// Compute returns the line diff between before and after, or nil when no
// line differs.
func Compute(path, before, after string) *Diff {
	if before == after {
		return nil
	}

	a, b := split(before), split(after)
	script := editScript(a, b)

	d := &Diff{Path: path, Hunks: hunks(script)}
	for _, e := range script {
		switch e.op {
		case Insert:
			d.Insertions++
		case Delete:
			d.Deletions++
		}
	}
	if len(d.Hunks) == 0 {
		return nil
	}
	return d
}

// HasChanges reports whether d contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders d in unified format with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	name := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", rangeSpec(h.OldStart, h.OldLines), rangeSpec(h.NewStart, h.NewLines))
		for _, l := range h.Lines {
			sb.WriteByte(" +-"[l.Op])
			sb.WriteString(strings.TrimSuffix(l.Text, "\r"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func rangeSpec(start, count int) string {
	if count == 0 {
		// An empty range names the line before it.
		return fmt.Sprintf("%d,0", start-1)
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// split breaks text into lines without their trailing newline. A final line
// without a newline is kept.
func split(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

type edit struct {
	op     Op
	text   string
	oldIdx int
	newIdx int
}

// editScript aligns a and b on their longest common subsequence.
func editScript(a, b []string) []edit {
	// suffix[i][j] is the LCS length of a[i:] and b[j:].
	suffix := make([][]int, len(a)+1)
	for i := range suffix {
		suffix[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				suffix[i][j] = suffix[i+1][j+1] + 1
			} else {
				suffix[i][j] = max(suffix[i+1][j], suffix[i][j+1])
			}
		}
	}

	script := make([]edit, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			script = append(script, edit{Equal, a[i], i, j})
			i++
			j++
		case j >= len(b) || (i < len(a) && suffix[i+1][j] >= suffix[i][j+1]):
			script = append(script, edit{Delete, a[i], i, j})
			i++
		default:
			script = append(script, edit{Insert, b[j], i, j})
			j++
		}
	}
	return script
}

// hunks groups changes whose context windows overlap.
func hunks(script []edit) []Hunk {
	var out []Hunk

	idx := 0
	for idx < len(script) {
		for idx < len(script) && script[idx].op == Equal {
			idx++
		}
		if idx == len(script) {
			break
		}

		start := max(idx-ContextLines, 0)
		end := idx
		for end < len(script) {
			if script[end].op != Equal {
				end++
				continue
			}
			run := end
			for run < len(script) && script[run].op == Equal {
				run++
			}
			if run == len(script) || run-end > 2*ContextLines {
				end = min(end+ContextLines, len(script))
				break
			}
			end = run
		}

		h := Hunk{OldStart: script[start].oldIdx + 1, NewStart: script[start].newIdx + 1}
		for _, e := range script[start:end] {
			h.Lines = append(h.Lines, Line{Op: e.op, Text: e.text})
			if e.op != Insert {
				h.OldLines++
			}
			if e.op != Delete {
				h.NewLines++
			}
		}
		out = append(out, h)
		idx = end
	}
	return out
}
