package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/kbdfmt/internal/ui/pretty"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90 // Width of table separators.
	fileColWidth      = 50 // Width of the file path column.
	statusColWidth    = 12 // Width of the status column.
	numColWidth       = 8  // Width of numeric columns.
	maxFilePathLength = 48 // Maximum characters for file path before truncation.
)

// Status labels used in the file table.
const (
	statusFormatted = "formatted"
	statusChanged   = "changed"
	statusStale     = "stale"
	statusError     = "error"
	statusOK        = "ok"
)

// padRight pads a string to the given display width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	w := uniseg.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// padLeft pads a string to the given display width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	w := uniseg.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// truncatePath keeps the tail of path within limit display cells.
func truncatePath(path string, limit int) string {
	if uniseg.StringWidth(path) <= limit {
		return path
	}

	var clusters []string
	gr := uniseg.NewGraphemes(path)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	width := 1 // leading ellipsis
	start := len(clusters)
	for start > 0 {
		w := uniseg.StringWidth(clusters[start-1])
		if width+w > limit {
			break
		}
		width += w
		start--
	}
	return "…" + strings.Join(clusters[start:], "")
}

// SummaryReporter formats results as a per-file table with totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil || len(result.Files) == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No files to format"))
		return 0, nil
	}

	r.renderFileTable(result.Files)

	if r.opts.ShowSummary {
		fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats))
	}

	return result.Stats.FilesChanged, nil
}

func (r *SummaryReporter) renderFileTable(files []runner.FileOutcome) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padRight("Status", statusColWidth)),
		r.styles.TableHeader.Render(padLeft("Aligned", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Skipped", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Lines", numColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	for i := range files {
		file := &files[i]

		// Pad first, then style
		paddedPath := padRight(truncatePath(displayPath(file), maxFilePathLength), fileColWidth)
		status := fileStatus(file)
		paddedStatus := padRight(status, statusColWidth)

		var styledPath, styledStatus string
		switch status {
		case statusError:
			styledPath = r.styles.TableErrorRow.Render(paddedPath)
			styledStatus = r.styles.Error.Render(paddedStatus)
		case statusChanged, statusStale:
			styledPath = r.styles.TableChanged.Render(paddedPath)
			styledStatus = r.styles.Changed.Render(paddedStatus)
		case statusFormatted:
			styledPath = paddedPath
			styledStatus = r.styles.Success.Render(paddedStatus)
		default:
			styledPath = paddedPath
			styledStatus = r.styles.Dim.Render(paddedStatus)
		}

		lines := ""
		if file.Diff != nil {
			lines = fmt.Sprintf("+%d/-%d", file.Diff.Insertions, file.Diff.Deletions)
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			styledPath,
			styledStatus,
			padLeft(strconv.Itoa(len(file.Aligned)), numColWidth),
			padLeft(strconv.Itoa(len(file.Skipped)), numColWidth),
			padLeft(lines, numColWidth),
		)
	}
}

func fileStatus(file *runner.FileOutcome) string {
	switch {
	case file.Error != nil:
		return statusError
	case file.Stale:
		return statusStale
	case file.Written:
		return statusFormatted
	case file.Changed:
		return statusChanged
	default:
		return statusOK
	}
}
