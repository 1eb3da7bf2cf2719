// Package runner provides multi-file formatting orchestration.
package runner

import (
	"fmt"
	"path/filepath"

	"github.com/yaklabco/kbdfmt/pkg/config"
	"github.com/yaklabco/kbdfmt/pkg/format"
	"github.com/yaklabco/kbdfmt/pkg/fsutil"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/workspace"
)

// Options controls a formatting run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered kbd files. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories,
	// relative to WorkingDir.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Write rewrites changed files in place. Otherwise nothing is written.
	Write bool

	// Format configures the formatter.
	Format format.Options

	// Workspace configures template resolution.
	Workspace workspace.Settings

	// Backups controls backups made before rewriting a file.
	Backups fsutil.BackupConfig
}

// DefaultExtensions returns the default set of kbd file extensions.
func DefaultExtensions() []string {
	return []string{".kbd"}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// OptionsFromConfig builds run options from a resolved configuration.
// Relative workspace roots are resolved against workDir.
func OptionsFromConfig(cfg *config.Config, paths []string, workDir string) (Options, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	workDir, err := resolveWorkDir(workDir)
	if err != nil {
		return Options{}, err
	}

	eol, err := layout.ParseLineEnding(cfg.Format.LineEnding)
	if err != nil {
		return Options{}, fmt.Errorf("format.line_ending: %w", err)
	}

	mode, err := workspace.ParseMode(cfg.Workspace.Mode)
	if err != nil {
		return Options{}, fmt.Errorf("workspace.mode: %w", err)
	}

	rootDir := cfg.Workspace.Root
	switch {
	case rootDir == "":
		rootDir = workDir
	case !filepath.IsAbs(rootDir):
		rootDir = filepath.Join(workDir, rootDir)
	}
	rootURI, err := workspace.DirURI(rootDir)
	if err != nil {
		return Options{}, fmt.Errorf("workspace.root: %w", err)
	}

	return Options{
		Paths:        paths,
		WorkingDir:   workDir,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Write:        cfg.Write,
		Format: format.Options{
			Enable:           cfg.Format.IsEnabled(),
			AlignLayers:      cfg.Format.AlignsLayers(),
			TabWidth:         cfg.Format.Tabs(),
			CollapseNewlines: cfg.Format.CollapsesNewlines(),
			MaxNewlines:      cfg.Format.NewlineLimit(),
			LineEnding:       eol,
		},
		Workspace: workspace.Settings{
			Mode:     mode,
			MainFile: cfg.Workspace.MainFile,
			Root:     rootURI,
		},
		Backups: fsutil.BackupConfig{
			Enabled: cfg.BackupsActive(),
			Mode:    fsutil.BackupMode(cfg.Backups.Mode),
		},
	}, nil
}
