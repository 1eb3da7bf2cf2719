// Package format orchestrates the formatting transforms of a kbd document:
// newline collapsing followed by defsrc alignment of deflayer blocks.
package format

import (
	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/span"
)

// Default option values.
const (
	DefaultTabWidth    = 4
	DefaultMaxNewlines = 2
)

// Options controls which transforms run.
type Options struct {
	// Enable turns the whole formatter on or off.
	Enable bool

	// AlignLayers applies the defsrc layout to deflayer blocks.
	AlignLayers bool

	// TabWidth is the column width of a tab in the defsrc block.
	TabWidth int

	// CollapseNewlines limits runs of newlines to MaxNewlines.
	CollapseNewlines bool
	MaxNewlines      int

	// LineEnding is used for line breaks the formatter inserts.
	LineEnding layout.LineEnding
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Enable:           true,
		AlignLayers:      true,
		TabWidth:         DefaultTabWidth,
		CollapseNewlines: true,
		MaxNewlines:      DefaultMaxNewlines,
		LineEnding:       layout.LF,
	}
}

// Formatter applies the configured transforms.
type Formatter struct {
	opts Options
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	if opts.LineEnding == "" {
		opts.LineEnding = layout.LF
	}
	return &Formatter{opts: opts}
}

// Options returns the formatter's options.
func (f *Formatter) Options() Options {
	return f.opts
}

// Format mutates tree in place. A nil layout skips alignment; this is the
// case when no defsrc block could be resolved.
func (f *Formatter) Format(tree *cst.Tree, l layout.Layout) layout.Result {
	if !f.opts.Enable {
		return layout.Result{}
	}

	if f.opts.CollapseNewlines {
		CollapseNewlines(tree, f.opts.MaxNewlines)
	}

	if f.opts.AlignLayers && l != nil {
		return layout.Apply(tree, l, f.opts.LineEnding)
	}
	return layout.Result{}
}

// FormatString parses src, formats it and renders the result.
func (f *Formatter) FormatString(src string, l layout.Layout) (string, layout.Result, error) {
	tree, _, err := cst.Parse(src)
	if err != nil {
		return "", layout.Result{}, err
	}
	res := f.Format(tree, l)
	return tree.String(), res, nil
}

// Edit replaces the text in Range with NewText.
type Edit struct {
	Range   span.LSPRange `json:"range"`
	NewText string        `json:"newText"`
}

// FormatDocument formats src and returns a single edit replacing the whole
// document. It returns no edits when the formatter is disabled.
func (f *Formatter) FormatDocument(src string, l layout.Layout) ([]Edit, error) {
	if !f.opts.Enable {
		return nil, nil
	}

	tree, root, err := cst.Parse(src)
	if err != nil {
		return nil, err
	}
	f.Format(tree, l)

	return []Edit{{
		Range:   span.RangeToLSP(src, root),
		NewText: tree.String(),
	}}, nil
}
