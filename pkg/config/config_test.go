package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/pkg/config"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.True(t, cfg.Format.IsEnabled())
	assert.True(t, cfg.Format.AlignsLayers())
	assert.True(t, cfg.Format.CollapsesNewlines())
	assert.Equal(t, 4, cfg.Format.Tabs())
	assert.Equal(t, 2, cfg.Format.NewlineLimit())
	assert.Equal(t, "lf", cfg.Format.LineEnding)
	assert.False(t, cfg.Workspace.IsWorkspace())
	assert.False(t, cfg.BackupsActive())
	assert.Equal(t, config.FormatText, cfg.Output)
}

func TestUnsetFieldsFallBackToDefaults(t *testing.T) {
	t.Parallel()

	var f config.FormatConfig
	assert.True(t, f.IsEnabled())
	assert.Equal(t, config.DefaultTabWidth, f.Tabs())
	assert.Equal(t, config.DefaultMaxNewlines, f.NewlineLimit())

	f.TabWidth = config.Ptr(0)
	assert.Equal(t, 0, f.Tabs(), "explicit zero is kept")
}

func TestBackupsActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		enabled   bool
		mode      string
		noBackups bool
		expected  bool
	}{
		{"enabled sidecar", true, "sidecar", false, true},
		{"disabled", false, "sidecar", false, false},
		{"mode none", true, "none", false, false},
		{"cli override", true, "sidecar", true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Backups = config.BackupsConfig{Enabled: config.Ptr(tc.enabled), Mode: tc.mode}
			cfg.NoBackups = tc.noBackups
			assert.Equal(t, tc.expected, cfg.BackupsActive())
		})
	}
}

func TestOutputFormatIsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []config.OutputFormat{config.FormatText, config.FormatJSON, config.FormatDiff, config.FormatSummary} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("sarif").IsValid())
}

func TestFromYAMLLeavesUnsetFieldsNil(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte("format:\n  tab_width: 8\nworkspace:\n  mode: workspace\n  main_file: main.kbd\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Format.TabWidth)
	assert.Equal(t, 8, *cfg.Format.TabWidth)
	assert.Nil(t, cfg.Format.Enable)
	assert.Nil(t, cfg.Format.MaxNewlines)
	assert.True(t, cfg.Workspace.IsWorkspace())
	assert.Equal(t, "main.kbd", cfg.Workspace.MainFile)
}

func TestFromYAMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("format: [unclosed"))
	require.Error(t, err)
}

func TestToYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"vendor/**"}
	cfg.Write = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "align_layers: true")
	assert.NotContains(t, string(data), "write")

	back, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Format, back.Format)
	assert.Equal(t, cfg.Ignore, back.Ignore)
	assert.False(t, back.Write)
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	data, err := config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\nformat:")

	var nilCfg *config.Config
	data, err = nilCfg.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFromYAMLStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty document", "", ""},
		{"comments only", "# nothing here\n", ""},
		{"unknown key", "format:\n  tab-width: 2\n", "tab-width"},
		{"cli-only field", "write: true\n", "write"},
		{"two documents", "format:\n  tab_width: 2\n---\nignore: []\n", "single document"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.FromYAML([]byte(tc.data))
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Nil(t, cfg.Format.TabWidth)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: full})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err, "template must parse (full=%v)", full)
		assert.True(t, cfg.Format.AlignsLayers())
		assert.Equal(t, "single", cfg.Workspace.Mode)
	}
}
