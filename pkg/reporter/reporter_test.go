package reporter_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/pkg/diff"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/reporter"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

const (
	unaligned = "(defsrc caps a)\n(deflayer base 1 2)\n"
	aligned   = "(defsrc caps a)\n(deflayer base 1    2)\n"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatJSON, true},
		{reporter.FormatDiff, true},
		{reporter.FormatSummary, true},
		{reporter.Format("unknown"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "diff reporter", format: reporter.FormatDiff},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := reporter.DefaultOptions()
	assert.NotNil(t, opts.Writer)
	assert.NotNil(t, opts.ErrorWriter)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowSummary)
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to format.")
}

func TestTextReporter_Outcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "base.kbd: needs formatting [template: file:///cfg/base.kbd]")
	assert.Contains(t, out, "written.kbd: formatted (backup created)")
	assert.Contains(t, out, "skipped.kbd: unchanged")
	assert.Contains(t, out, "  skipped nav (3 keys, defsrc has 2)")
	assert.Contains(t, out, "  skipped #2 (1 keys, defsrc has 2)")
	assert.Contains(t, out, "  warning: template not applied")
	assert.Contains(t, out, "broken.kbd: error: parse failed")
	assert.NotContains(t, out, "clean.kbd", "already formatted files are not listed by default")
	assert.Contains(t, out, "1 file formatted, 1 file needs formatting, 1 file failed in 5 files")
}

func TestTextReporter_ShowUnchanged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowUnchanged: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "clean.kbd: unchanged")
	assert.NotContains(t, buf.String(), "in 5 files", "summary is disabled")
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_Outcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 5)

	base := output.Files[0]
	assert.Equal(t, "base.kbd", base.Path)
	assert.True(t, base.Changed)
	assert.False(t, base.Written)
	assert.Equal(t, []string{"base"}, base.Aligned)
	assert.Equal(t, 1, base.Insertions)
	assert.Equal(t, 1, base.Deletions)
	assert.Equal(t, "file:///cfg/base.kbd", base.Template)

	skipped := output.Files[3]
	require.Len(t, skipped.Skipped, 2)
	assert.Equal(t, reporter.JSONSkippedLayer{Name: "nav", Index: 1, Keys: 3, Expected: 2}, skipped.Skipped[0])
	assert.Equal(t, []string{"template not applied"}, skipped.Warnings)

	assert.Equal(t, "parse failed", output.Files[4].Error)

	assert.Equal(t, reporter.JSONSummary{
		FilesChecked:  5,
		FilesChanged:  2,
		FilesWritten:  1,
		FilesErrored:  1,
		LayersAligned: 2,
		LayersSkipped: 2,
		Warnings:      1,
	}, output.Summary)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "compact output is a single line")
}

func TestDiffReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestDiffReporter_WritesDiffs(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer:      &out,
		ErrorWriter: &errOut,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got := out.String()
	assert.Contains(t, got, "diff --git a/base.kbd b/base.kbd\n--- a/base.kbd\n+++ b/base.kbd\n")
	assert.Contains(t, got, "-(deflayer base 1 2)\n+(deflayer base 1    2)\n")
	assert.Contains(t, got, "2 files changed, 2 insertions(+), 2 deletions(-)")
	assert.Contains(t, errOut.String(), "broken.kbd: error: parse failed")
	assert.NotContains(t, got, "broken.kbd")
}

func TestDiffReporter_NoDiffs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, ShowSummary: true})

	result := &runner.Result{Files: []runner.FileOutcome{{Path: "/cfg/clean.kbd", Original: aligned, Formatted: aligned}}}
	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &buf,
		Format:      reporter.FormatSummary,
		Color:       "never",
		ShowSummary: true,
	})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "Files Summary")
	assert.Contains(t, out, "base.kbd")
	assert.Contains(t, out, "changed")
	assert.Contains(t, out, "formatted")
	assert.Contains(t, out, "+1/-1")
	assert.Contains(t, out, "Formatting failed with errors")
}

// createTestResult returns a result covering each kind of file outcome.
func createTestResult() *runner.Result {
	changed := diff.Compute("base.kbd", unaligned, aligned)
	written := diff.Compute("written.kbd", unaligned, aligned)

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/cfg/base.kbd", DisplayPath: "base.kbd",
				Original: unaligned, Formatted: aligned, Changed: true,
				Diff: changed, Template: "file:///cfg/base.kbd", Aligned: []string{"base"},
			},
			{
				Path: "/cfg/clean.kbd", DisplayPath: "clean.kbd",
				Original: aligned, Formatted: aligned,
			},
			{
				Path: "/cfg/written.kbd", DisplayPath: "written.kbd",
				Original: unaligned, Formatted: aligned, Changed: true, Written: true,
				BackupCreated: true, Diff: written, Aligned: []string{"base"},
			},
			{
				Path: "/cfg/skipped.kbd", DisplayPath: "skipped.kbd",
				Original: aligned, Formatted: aligned,
				Skipped: []layout.SkippedLayer{
					{Name: "nav", Index: 1, Keys: 3, Expected: 2},
					{Index: 2, Keys: 1, Expected: 2},
				},
				Warnings: []string{"template not applied"},
			},
			{
				Path: "/cfg/broken.kbd", DisplayPath: "broken.kbd",
				Error: errors.New("parse failed"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 5,
			FilesProcessed:  4,
			FilesChanged:    2,
			FilesWritten:    1,
			FilesErrored:    1,
			LayersAligned:   2,
			LayersSkipped:   2,
			Warnings:        1,
		},
	}
	return result
}
