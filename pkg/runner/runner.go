package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/kbdfmt/internal/logging"
)

// Runner orchestrates multi-file formatting using a Pipeline.
type Runner struct {
	// Pipeline handles per-file processing.
	Pipeline *Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and formats them concurrently.
// Outcomes are returned in path order regardless of completion order. Files
// not started before ctx is cancelled are left out of the result.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logging.FromContext(ctx).Debug("formatting files",
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs,
		logging.FieldWrite, opts.Write)

	// Each worker writes only the slots of the indices it receives.
	outcomes := make([]*FileOutcome, len(files))
	indices := make(chan int)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				outcomes[i] = r.process(ctx, files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// process formats one file, or returns nil when ctx is already done.
func (r *Runner) process(ctx context.Context, path string) *FileOutcome {
	if ctx.Err() != nil {
		return nil
	}

	outcome, err := r.Pipeline.ProcessFile(ctx, path)
	if err != nil {
		return &FileOutcome{Path: path, DisplayPath: relTo(r.Pipeline.workDir, path), Error: err}
	}
	return outcome
}
