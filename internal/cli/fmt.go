package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/kbdfmt/internal/logging"
	"github.com/yaklabco/kbdfmt/pkg/config"
	"github.com/yaklabco/kbdfmt/pkg/reporter"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

type fmtFlags struct {
	write         bool
	check         bool
	diff          bool
	format        string
	jobs          int
	ignore        []string
	backup        bool
	noBackups     bool
	mode          string
	mainFile      string
	root          string
	lineEnding    string
	tabWidth      int
	maxNewlines   int
	noAlign       bool
	noCollapse    bool
	compact       bool
	showUnchanged bool
}

func newFmtCommand() *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format kanata configuration files",
		Long:  fmtLongDescription,
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags, false)
		},
	}

	addFormatFlags(cmd, flags, true)

	return cmd
}

func newCheckCommand() *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files that are not formatted",
		Long: `Check that kanata configuration files are formatted, without changing them.

Exits with status 1 when any file would be reformatted or cannot be parsed.
Equivalent to "kbdfmt fmt --check".

Examples:
  kbdfmt check                     # Check current directory
  kbdfmt check --format diff       # Show what would change
  kbdfmt check --format json       # Machine-readable report for CI`,
		Args: usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags, true)
		},
	}

	addFormatFlags(cmd, flags, false)

	return cmd
}

const fmtLongDescription = `Format kanata .kbd configuration files.

By default, formats all .kbd files in the current directory and
subdirectories and reports which ones need formatting. Specify paths to
format specific files or directories. A single file given without --write
is printed to stdout in its formatted form.

Examples:
  kbdfmt fmt                       # Report unformatted files in current directory
  kbdfmt fmt main.kbd              # Print formatted main.kbd to stdout
  kbdfmt fmt --write               # Rewrite files in place
  kbdfmt fmt --write --backup      # Keep a .kbdfmt.bak copy of each rewritten file
  kbdfmt fmt --diff                # Show changes as unified diffs
  kbdfmt fmt --check               # Exit 1 if any file needs formatting
  kbdfmt fmt --mode workspace --main-file main.kbd
                                   # Resolve defsrc across included files`

func addFormatFlags(cmd *cobra.Command, flags *fmtFlags, withModes bool) {
	if withModes {
		cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place")
		cmd.Flags().BoolVar(&flags.check, "check", false, "exit with status 1 if any file needs formatting")
		cmd.Flags().BoolVar(&flags.diff, "diff", false, "print unified diffs instead of a file list")
		cmd.Flags().BoolVar(&flags.backup, "backup", false, "create a backup before rewriting a file")
		cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "never create backups, even if configured")
	}
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "template resolution: single, workspace")
	cmd.Flags().StringVar(&flags.mainFile, "main-file", "", "workspace entry point, relative to --root")
	cmd.Flags().StringVar(&flags.root, "root", "", "directory include paths are resolved against")
	cmd.Flags().StringVar(&flags.lineEnding, "line-ending", "", "line ending for inserted breaks: lf, crlf")
	cmd.Flags().IntVar(&flags.tabWidth, "tab-width", config.DefaultTabWidth, "visual width of a tab")
	cmd.Flags().IntVar(&flags.maxNewlines, "max-newlines", config.DefaultMaxNewlines,
		"maximum consecutive newlines kept")
	cmd.Flags().BoolVar(&flags.noAlign, "no-align", false, "do not align deflayer blocks to defsrc")
	cmd.Flags().BoolVar(&flags.noCollapse, "no-collapse", false, "do not collapse runs of blank lines")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.showUnchanged, "show-unchanged", false, "also list files that are already formatted")
}

// toConfig maps flags to a CLI configuration layer. Only explicitly set
// flags override lower layers.
func (f *fmtFlags) toConfig(cmd *cobra.Command, checkOnly bool) *config.Config {
	changed := cmd.Flags().Changed

	cfg := &config.Config{
		Write:     f.write,
		Check:     f.check || checkOnly,
		Jobs:      f.jobs,
		NoBackups: f.noBackups,
		Ignore:    f.ignore,
		Output:    config.OutputFormat(f.format),
	}
	if f.diff && f.format == "" {
		cfg.Output = config.FormatDiff
	}

	cfg.Workspace = config.WorkspaceConfig{
		Mode:     f.mode,
		MainFile: f.mainFile,
		Root:     f.root,
	}

	cfg.Format.LineEnding = f.lineEnding
	if changed("tab-width") {
		cfg.Format.TabWidth = config.Ptr(f.tabWidth)
	}
	if changed("max-newlines") {
		cfg.Format.MaxNewlines = config.Ptr(f.maxNewlines)
	}
	if f.noAlign {
		cfg.Format.AlignLayers = config.Ptr(false)
	}
	if f.noCollapse {
		cfg.Format.CollapseNewlines = config.Ptr(false)
	}
	if f.backup {
		cfg.Backups.Enabled = config.Ptr(true)
	}

	return cfg
}

func runFormat(cmd *cobra.Command, args []string, flags *fmtFlags, checkOnly bool) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cfg, opts, pipeline, err := newPipeline(ctx, cmd, flags.toConfig(cmd, checkOnly), args)
	if err != nil {
		return err
	}

	if path, ok := stdoutTarget(cfg, opts, args); ok {
		return printFormatted(ctx, cmd, pipeline, path)
	}

	logger.Debug("starting format run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := runner.New(pipeline).Run(ctx, opts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	// Parse output format.
	format, err := reporter.ParseFormat(string(cfg.Output))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:        cmd.OutOrStdout(),
		ErrorWriter:   cmd.ErrOrStderr(),
		Format:        format,
		Color:         flagString(cmd, "color", "auto"),
		ShowSummary:   true,
		ShowUnchanged: flags.showUnchanged,
		Compact:       flags.compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, cfg.Check)
}

// stdoutTarget reports whether the run formats one file to stdout: a single
// regular file, no write or check, and the default text output.
func stdoutTarget(cfg *config.Config, opts runner.Options, args []string) (string, bool) {
	if len(args) != 1 || cfg.Write || cfg.Check {
		return "", false
	}
	if cfg.Output != "" && cfg.Output != config.FormatText {
		return "", false
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.WorkingDir, path)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

func printFormatted(ctx context.Context, cmd *cobra.Command, pipeline *runner.Pipeline, path string) error {
	outcome, err := pipeline.ProcessFile(ctx, path)
	if err != nil {
		logging.FromContext(ctx).Error("cannot format file", logging.FieldPath, path, logging.FieldError, err)
		return fmt.Errorf("%w: %w", ErrFilesFailed, err)
	}

	if _, err := fmt.Fprint(cmd.OutOrStdout(), outcome.Formatted); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
