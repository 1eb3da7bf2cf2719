package runner

import (
	"errors"

	"github.com/yaklabco/kbdfmt/pkg/diff"
	"github.com/yaklabco/kbdfmt/pkg/layout"
)

// Sentinel errors for errors.Is checks.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failed")
	ErrWriteFailure     = errors.New("write failed")
)

// FileOutcome is the result of formatting one file.
type FileOutcome struct {
	// Path is the absolute file path that was processed.
	Path string

	// DisplayPath is Path relative to the working directory.
	DisplayPath string

	// Original and Formatted are the file text before and after formatting.
	Original  string
	Formatted string

	// Changed is true when formatting altered the text.
	Changed bool

	// Written is true when the formatted text was saved.
	Written bool

	// Stale is true when the file changed on disk while it was being
	// formatted; it is then left untouched.
	Stale bool

	// BackupCreated is true when a backup was made before writing.
	BackupCreated bool

	// Diff is the unified diff of the change, nil when unchanged.
	Diff *diff.Diff

	// Template is the URI of the file whose defsrc block was applied.
	Template string

	// Aligned lists the layers that were aligned.
	Aligned []string

	// Skipped lists layers left alone because their size did not match.
	Skipped []layout.SkippedLayer

	// Warnings are non-fatal problems, such as an unresolvable template.
	Warnings []string

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesChanged is the number of files whose formatting differs.
	FilesChanged int

	// FilesWritten is the number of files rewritten.
	FilesWritten int

	// FilesStale is the number of files skipped due to concurrent modification.
	FilesStale int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// LayersAligned and LayersSkipped count deflayer blocks across all files.
	LayersAligned int
	LayersSkipped int

	// Warnings is the number of warnings across all files.
	Warnings int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasChanges reports whether any file needs formatting.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.LayersAligned += len(outcome.Aligned)
	r.Stats.LayersSkipped += len(outcome.Skipped)
	r.Stats.Warnings += len(outcome.Warnings)

	if outcome.Changed {
		r.Stats.FilesChanged++
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Stale {
		r.Stats.FilesStale++
	}
}
