package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/internal/cli"
	"github.com/yaklabco/kbdfmt/internal/configloader"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "kbdfmt", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"fmt", "check", "layout", "keys", "locate", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestFmtCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	fmtCmd, _, err := cmd.Find([]string{"fmt"})
	require.NoError(t, err)

	expectedFlags := []string{
		"write", "check", "diff", "backup", "no-backups", "format", "jobs", "ignore",
		"mode", "main-file", "root", "line-ending", "tab-width", "max-newlines",
		"no-align", "no-collapse", "compact", "show-unchanged",
	}
	for _, flagName := range expectedFlags {
		assert.NotNil(t, fmtCmd.Flags().Lookup(flagName), "expected flag %q on fmt", flagName)
	}

	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)
	assert.Nil(t, checkCmd.Flags().Lookup("write"), "check never writes")
	assert.NotNil(t, checkCmd.Flags().Lookup("format"))
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "log-level", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flagName), "expected global flag %q", flagName)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestFmtCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	fmtCmd, _, err := cmd.Find([]string{"fmt"})
	require.NoError(t, err)

	assert.NoError(t, fmtCmd.Args(fmtCmd, []string{"main.kbd", "layers.kbd", "configs/"}))
}

func TestHelpGroupsCommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help", "--color", "never"})
	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "kbdfmt formats kanata .kbd configuration files")
	assert.Contains(t, help, "Formatting Commands:")
	assert.Contains(t, help, "Inspection Commands:")
	assert.Contains(t, help, "Additional Commands:")
	assert.Less(t, strings.Index(help, "Formatting Commands:"), strings.Index(help, "Inspection Commands:"))
	assert.Contains(t, help, "  locate ")
	assert.Contains(t, help, "--color string")
	assert.NotContains(t, help, "\x1b[", "no escape codes with --color never")
}

func TestSubcommandHelpListsFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"fmt", "--help", "--color", "never"})
	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "Usage:\n  kbdfmt fmt")
	assert.Contains(t, help, "Flags:")
	assert.Contains(t, help, "-w, --write")
	assert.Contains(t, help, "Global Flags:")
	assert.Contains(t, help, "--debug")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"fmt", "--bogus"}},
		{name: "layout without file", args: []string{"layout"}},
		{name: "locate with two args", args: []string{"locate", "main.kbd", "1"}},
		{name: "version with args", args: []string{"version", "extra"}},
		{name: "unknown color mode", args: []string{"version", "--color", "rainbow"}},
		{name: "unknown log level", args: []string{"version", "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()
			require.ErrorIs(t, err, cli.ErrInvalidUsage)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))
		})
	}
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "needs formatting", err: cli.ErrFilesNeedFormatting, want: cli.ExitFailure},
		{name: "file failures", err: fmt.Errorf("wrapped: %w", cli.ErrFilesFailed), want: cli.ExitFailure},
		{name: "no match", err: cli.ErrNoMatch, want: cli.ExitFailure},
		{name: "usage", err: fmt.Errorf("%w: bad", cli.ErrInvalidUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: fmt.Errorf("%w: bad", cli.ErrConfig), want: cli.ExitConfigError},
		{
			name: "validation error",
			err:  &configloader.ValidationError{Field: "format.tab_width", Message: "must be >= 0"},
			want: cli.ExitConfigError,
		},
		{name: "anything else", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	changed := &runner.Result{Stats: runner.Stats{FilesProcessed: 1, FilesChanged: 1}}
	failed := &runner.Result{Stats: runner.Stats{FilesErrored: 1}}
	clean := &runner.Result{Stats: runner.Stats{FilesProcessed: 3}}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(clean, true))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(changed, false))
	assert.Equal(t, cli.ExitFailure, cli.ExitCodeFromResult(changed, true))
	assert.Equal(t, cli.ExitFailure, cli.ExitCodeFromResult(failed, false))
}

func TestIsReported(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsReported(cli.ErrFilesNeedFormatting))
	assert.True(t, cli.IsReported(fmt.Errorf("x: %w", cli.ErrFilesFailed)))
	assert.False(t, cli.IsReported(cli.ErrConfig))
}
