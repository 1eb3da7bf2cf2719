package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/kbdfmt/internal/configloader"
	"github.com/yaklabco/kbdfmt/internal/logging"
	"github.com/yaklabco/kbdfmt/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new kbdfmt configuration file",
		Long: `Create a new .kbdfmt.yml configuration file in the current directory
with sensible defaults. The file can be customized to change the tab width,
the blank line limit, the line ending, or to resolve defsrc across a
workspace of included files.

Examples:
  kbdfmt init                       Create commented .kbdfmt.yml
  kbdfmt init --full                Write every setting with its default value
  kbdfmt init --output custom.yml   Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), flags, configloader.IsInteractive())
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write all settings with their default values")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .kbdfmt.yml)")

	return cmd
}

func runInit(in io.Reader, out io.Writer, flags *initFlags, interactive bool) error {
	logger := logging.NewInteractive()

	// Determine output path
	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigName
	}

	// Make path absolute
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); err == nil {
		switch {
		case flags.force:
			logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
		case interactive:
			ok, err := configloader.Confirm(in, out, fmt.Sprintf("%s already exists. Overwrite?", outputPath), false)
			if err != nil {
				return err
			}
			if !ok {
				logger.Info("aborted; existing file left unchanged", logging.FieldPath, outputPath)
				return nil
			}
		default:
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(absPath, content); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'kbdfmt fmt --check' to see which files need formatting")

	return nil
}
