package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, 4, result.Config.Format.Tabs())
	assert.True(t, result.Config.Format.AlignsLayers())
	assert.Equal(t, "single", result.Config.Workspace.Mode)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), `
format:
  align_layers: false
  tab_width: 2
workspace:
  mode: workspace
  main_file: main.kbd
`)

	sub := filepath.Join(tmpDir, "layers", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	cfg := result.Config
	assert.False(t, cfg.Format.AlignsLayers())
	assert.Equal(t, 2, cfg.Format.Tabs())
	assert.True(t, cfg.Format.CollapsesNewlines(), "unset fields keep defaults")
	assert.True(t, cfg.Workspace.IsWorkspace())
	assert.Equal(t, []string{filepath.Join(tmpDir, ".kbdfmt.yml")}, result.LoadedFrom)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), "format:\n  tab_width: 8\n")
	repo := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(repo))
	require.NoError(t, err)
	assert.Equal(t, 4, result.Config.Format.Tabs())
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), "format:\n  tab_width: 2\n  max_newlines: 1\n")
	explicit := filepath.Join(tmpDir, "custom.yml")
	writeFile(t, explicit, "format:\n  tab_width: 6\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Config.Format.Tabs())
	assert.Equal(t, 1, result.Config.Format.NewlineLimit())
	assert.Equal(t, explicit, result.LoadedFrom[len(result.LoadedFrom)-1])
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), "format:\n  collapse_newlines: true\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Format: config.FormatConfig{CollapseNewlines: config.Ptr(false)},
		Check:  true,
		Output: config.FormatJSON,
		Jobs:   2,
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Config.Format.CollapsesNewlines())
	assert.True(t, result.Config.Check)
	assert.Equal(t, config.FormatJSON, result.Config.Output)
	assert.Equal(t, 2, result.Config.Jobs)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), "format:\n  tab_width: 2\n")
	writeFile(t, filepath.Join(tmpDir, ".env"), "KBDFMT_TAB_WIDTH=3\nKBDFMT_LINE_ENDING=crlf\n")

	opts := isolated(tmpDir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".env"), result.Paths.DotEnv)
	assert.Equal(t, 3, result.Config.Format.Tabs(), "environment beats project config")
	assert.Equal(t, "crlf", result.Config.Format.LineEnding)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"negative tab width", "format:\n  tab_width: -1\n", "format.tab_width"},
		{"negative max newlines", "format:\n  max_newlines: -2\n", "format.max_newlines"},
		{"bad line ending", "format:\n  line_ending: cr\n", "format.line_ending"},
		{"bad mode", "workspace:\n  mode: multi\n", "workspace.mode"},
		{"workspace without main", "workspace:\n  mode: workspace\n", "workspace.main_file"},
		{"bad backup mode", "backups:\n  mode: xdg\n", "backups.mode"},
		{"bad ignore glob", "ignore:\n  - \"[\"\n", "ignore[0]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
			writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), tc.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), "format: [")

	_, err := Load(context.Background(), isolated(tmpDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load project config")
}

func TestLoad_MainFileWarningInSingleMode(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".kbdfmt.yml"), "workspace:\n  main_file: main.kbd\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ignored in single mode")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	user := &config.Config{Format: config.FormatConfig{TabWidth: config.Ptr(8)}, Ignore: []string{"a"}}
	project := &config.Config{
		Format:  config.FormatConfig{AlignLayers: config.Ptr(false), TabWidth: config.Ptr(0)},
		Backups: config.BackupsConfig{Enabled: config.Ptr(true)},
	}

	merged := MergeAll(base, user, project)
	assert.Equal(t, 0, merged.Format.Tabs(), "explicit zero overrides")
	assert.False(t, merged.Format.AlignsLayers())
	assert.True(t, merged.Format.IsEnabled())
	assert.Equal(t, []string{"a"}, merged.Ignore)
	assert.True(t, merged.Backups.IsEnabled())
	assert.Equal(t, "sidecar", merged.Backups.Mode)

	assert.Nil(t, MergeAll())
	assert.Same(t, base, merge(base, nil))
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"KBDFMT_ENABLE":       "false",
		"KBDFMT_MAX_NEWLINES": " 1 ",
		"KBDFMT_MODE":         "workspace",
		"KBDFMT_MAIN_FILE":    "main.kbd",
		"KBDFMT_IGNORE":       "vendor/**, ,build/*",
		"KBDFMT_JOBS":         "3",
		"KBDFMT_NO_BACKUPS":   "1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.NewConfig()
	require.NoError(t, applyEnv(cfg, lookup))
	assert.False(t, cfg.Format.IsEnabled())
	assert.Equal(t, 1, cfg.Format.NewlineLimit())
	assert.True(t, cfg.Workspace.IsWorkspace())
	assert.Equal(t, "main.kbd", cfg.Workspace.MainFile)
	assert.Equal(t, []string{"vendor/**", "build/*"}, cfg.Ignore)
	assert.Equal(t, 3, cfg.Jobs)
	assert.True(t, cfg.NoBackups)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"KBDFMT_ALIGN_LAYERS": "maybe",
		"KBDFMT_TAB_WIDTH":    "wide",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			err := applyEnv(config.NewConfig(), func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	for name := range vars {
		assert.True(t, strings.HasPrefix(name, envVarPrefix), name)
	}
	assert.Equal(t, "KBDFMT_TAB_WIDTH", GetEnvVarName("format.tab_width"))
	assert.Empty(t, GetEnvVarName("nope"))
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		def      bool
		expected bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"y", false, true},
	}

	for _, tc := range tests {
		var out strings.Builder
		got, err := Confirm(strings.NewReader(tc.input), &out, "Overwrite?", tc.def)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
		assert.True(t, strings.HasPrefix(out.String(), "Overwrite? ["))
	}

	_, err := Confirm(strings.NewReader(""), &strings.Builder{}, "Overwrite?", false)
	require.Error(t, err)
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ProjectConfigName)
	require.NoError(t, WriteConfig(path, []byte("format: {}\n")))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Format.TabWidth)
}
