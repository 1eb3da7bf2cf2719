// Package cli provides the Cobra command structure for kbdfmt.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/kbdfmt/internal/logging"
	"github.com/yaklabco/kbdfmt/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root kbdfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var logLevel string
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "kbdfmt",
		Short: "A layout-preserving formatter for kanata configuration files",
		Long: `kbdfmt formats kanata .kbd configuration files without losing a single
comment or blank line.

Every deflayer block is aligned to the column layout of the defsrc block, so
layers line up with the physical keyboard drawn in defsrc. Runs of blank lines
are collapsed, and in workspace mode the defsrc block may live in any file
included by the main configuration.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := pretty.ValidateColorMode(color); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
			}
			if debug {
				logLevel = "debug"
			}
			if err := logging.SetLevel(logLevel); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: "+strings.Join(logging.Levels, ", "))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	installHelp(rootCmd)

	for _, sub := range []*cobra.Command{newFmtCommand(), newCheckCommand()} {
		sub.GroupID = groupFormat
		rootCmd.AddCommand(sub)
	}
	for _, sub := range []*cobra.Command{newLayoutCommand(), newKeysCommand(), newLocateCommand()} {
		sub.GroupID = groupInspect
		rootCmd.AddCommand(sub)
	}
	rootCmd.AddCommand(newInitCommand(), newVersionCommand(info))

	return rootCmd
}

// usageArgs wraps a positional argument validator so its failures map to the
// usage exit code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		return nil
	}
}

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// flagString returns the value of a string flag, or def when it is missing.
func flagString(cmd *cobra.Command, name, def string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return def
	}
	return value
}
