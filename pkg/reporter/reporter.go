// Package reporter writes the outcome of a formatting run in several output
// formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/kbdfmt/pkg/runner"
)

// Reporter formats and writes formatting results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files whose formatting differs and any write
	// errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = DefaultOptions().ErrorWriter
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath returns the path shown to users for a file outcome.
func displayPath(file *runner.FileOutcome) string {
	if file.DisplayPath != "" {
		return file.DisplayPath
	}
	return file.Path
}
