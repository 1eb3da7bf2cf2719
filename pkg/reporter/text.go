package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/kbdfmt/internal/ui/pretty"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

// TextReporter lists files that need or received formatting as styled
// terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	for i := range result.Files {
		r.reportFile(&result.Files[i])
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.FilesChanged, nil
}

func (r *TextReporter) reportFile(file *runner.FileOutcome) {
	path := r.styles.FilePath.Render(displayPath(file))

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		return
	}

	var status string
	switch {
	case file.Stale:
		status = r.styles.Warning.Render("modified during formatting, not written")
	case file.Written:
		status = r.styles.Success.Render("formatted")
		if file.BackupCreated {
			status += r.styles.Dim.Render(" (backup created)")
		}
	case file.Changed:
		status = r.styles.Changed.Render("needs formatting")
	case r.opts.ShowUnchanged || len(file.Skipped) > 0 || len(file.Warnings) > 0:
		status = r.styles.Dim.Render("unchanged")
	default:
		return
	}

	if file.Template != "" && len(file.Aligned) > 0 {
		status += r.styles.Template.Render(" [template: " + file.Template + "]")
	}
	fmt.Fprintf(r.bw, "%s: %s\n", path, status)

	for _, layer := range file.Skipped {
		fmt.Fprintf(r.bw, "  %s %s %s\n",
			r.styles.Warning.Render("skipped"),
			r.styles.Layer.Render(layerName(layer.Name, layer.Index)),
			r.styles.Dim.Render(fmt.Sprintf("(%d keys, defsrc has %d)", layer.Keys, layer.Expected)),
		)
	}
	for _, w := range file.Warnings {
		fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Warning.Render("warning:"), w)
	}
}

// layerName labels a deflayer block, falling back to its position when the
// block has no name.
func layerName(name string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("#%d", index)
}
