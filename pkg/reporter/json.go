package reporter

import (
	"bufio"
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/yaklabco/kbdfmt/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string             `json:"path"`
	Changed    bool               `json:"changed"`
	Written    bool               `json:"written,omitempty"`
	Stale      bool               `json:"stale,omitempty"`
	Backup     bool               `json:"backup,omitempty"`
	Template   string             `json:"template,omitempty"`
	Aligned    []string           `json:"aligned"`
	Skipped    []JSONSkippedLayer `json:"skipped"`
	Insertions int                `json:"insertions,omitempty"`
	Deletions  int                `json:"deletions,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// JSONSkippedLayer represents a deflayer block left unaligned.
type JSONSkippedLayer struct {
	Name     string `json:"name"`
	Index    int    `json:"index"`
	Keys     int    `json:"keys"`
	Expected int    `json:"expected"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked  int `json:"filesChecked"`
	FilesChanged  int `json:"filesChanged"`
	FilesWritten  int `json:"filesWritten"`
	FilesStale    int `json:"filesStale"`
	FilesErrored  int `json:"filesErrored"`
	LayersAligned int `json:"layersAligned"`
	LayersSkipped int `json:"layersSkipped"`
	Warnings      int `json:"warnings"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildJSONOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.EncodeContext(ctx, output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

// BuildJSONOutput converts a runner result into its JSON representation.
func BuildJSONOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for i := range result.Files {
		file := &result.Files[i]

		fileResult := JSONFileResult{
			Path:     displayPath(file),
			Changed:  file.Changed,
			Written:  file.Written,
			Stale:    file.Stale,
			Backup:   file.BackupCreated,
			Template: file.Template,
			Aligned:  make([]string, 0, len(file.Aligned)),
			Skipped:  make([]JSONSkippedLayer, 0, len(file.Skipped)),
			Warnings: file.Warnings,
		}
		fileResult.Aligned = append(fileResult.Aligned, file.Aligned...)

		for _, layer := range file.Skipped {
			fileResult.Skipped = append(fileResult.Skipped, JSONSkippedLayer{
				Name:     layer.Name,
				Index:    layer.Index,
				Keys:     layer.Keys,
				Expected: layer.Expected,
			})
		}

		if file.Diff != nil {
			fileResult.Insertions = file.Diff.Insertions
			fileResult.Deletions = file.Diff.Deletions
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:  stats.FilesProcessed + stats.FilesErrored,
		FilesChanged:  stats.FilesChanged,
		FilesWritten:  stats.FilesWritten,
		FilesStale:    stats.FilesStale,
		FilesErrored:  stats.FilesErrored,
		LayersAligned: stats.LayersAligned,
		LayersSkipped: stats.LayersSkipped,
		Warnings:      stats.Warnings,
	}

	return output
}
