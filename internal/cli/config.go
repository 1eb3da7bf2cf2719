package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/kbdfmt/internal/configloader"
	"github.com/yaklabco/kbdfmt/internal/logging"
	"github.com/yaklabco/kbdfmt/pkg/config"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

// loadConfig resolves the configuration for a command, with cliCfg taking
// precedence over every other source. It returns the working directory the
// configuration was discovered from.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(ctx)

	// Get the explicit config path from the root command's persistent flag.
	configPath := flagString(cmd, "config", "")

	// Get working directory for config discovery.
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	// Log warnings from config loading.
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldMode, cfg.Workspace.Mode,
		logging.FieldMain, cfg.Workspace.MainFile,
		logging.FieldWrite, cfg.Write,
		logging.FieldCheck, cfg.Check,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// newPipeline loads the configuration and builds the run options and
// pipeline for paths.
func newPipeline(
	ctx context.Context, cmd *cobra.Command, cliCfg *config.Config, paths []string,
) (*config.Config, runner.Options, *runner.Pipeline, error) {
	cfg, workDir, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return nil, runner.Options{}, nil, err
	}

	opts, err := runner.OptionsFromConfig(cfg, paths, workDir)
	if err != nil {
		return nil, runner.Options{}, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	pipeline, err := runner.NewPipeline(ctx, opts)
	if err != nil {
		return nil, runner.Options{}, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return cfg, opts, pipeline, nil
}
