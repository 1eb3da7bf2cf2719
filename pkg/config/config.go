// Package config defines core configuration types for kbdfmt.
// These types are pure data structures; resolving them from files and the
// environment is the job of internal/configloader.
package config

import "strings"

// Defaults applied by NewConfig.
const (
	DefaultTabWidth    = 4
	DefaultMaxNewlines = 2
	DefaultLineEnding  = "lf"
	DefaultMode        = "single"
	DefaultBackupMode  = "sidecar"
)

// FormatConfig controls the formatter. Pointer fields distinguish "unset"
// from a zero value so configuration layers can be merged.
type FormatConfig struct {
	// Enable turns the whole formatter on or off.
	Enable *bool `yaml:"enable,omitempty"`

	// AlignLayers applies the defsrc layout to deflayer blocks.
	AlignLayers *bool `yaml:"align_layers,omitempty"`

	// TabWidth is the column width of a tab inside defsrc.
	TabWidth *int `yaml:"tab_width,omitempty"`

	// CollapseNewlines enables the blank line normalizer.
	CollapseNewlines *bool `yaml:"collapse_newlines,omitempty"`

	// MaxNewlines bounds consecutive newlines when collapsing.
	MaxNewlines *int `yaml:"max_newlines,omitempty"`

	// LineEnding is "lf" or "crlf".
	LineEnding string `yaml:"line_ending,omitempty"`
}

// IsEnabled reports whether the formatter is on.
func (f FormatConfig) IsEnabled() bool { return boolValue(f.Enable, true) }

// AlignsLayers reports whether layer alignment is on.
func (f FormatConfig) AlignsLayers() bool { return boolValue(f.AlignLayers, true) }

// CollapsesNewlines reports whether the newline normalizer is on.
func (f FormatConfig) CollapsesNewlines() bool { return boolValue(f.CollapseNewlines, true) }

// Tabs returns the effective tab width.
func (f FormatConfig) Tabs() int { return intValue(f.TabWidth, DefaultTabWidth) }

// NewlineLimit returns the effective newline limit.
func (f FormatConfig) NewlineLimit() int { return intValue(f.MaxNewlines, DefaultMaxNewlines) }

// WorkspaceConfig selects how the defsrc block is located.
type WorkspaceConfig struct {
	// Mode is "single" or "workspace".
	Mode string `yaml:"mode,omitempty"`

	// MainFile is the workspace entry point, relative to Root.
	MainFile string `yaml:"main_file,omitempty"`

	// Root is the directory include paths resolve against. Empty means the
	// working directory.
	Root string `yaml:"root,omitempty"`
}

// IsWorkspace reports whether workspace mode is selected.
func (w WorkspaceConfig) IsWorkspace() bool {
	return strings.EqualFold(w.Mode, "workspace")
}

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Mode    string `yaml:"mode,omitempty"` // "sidecar" or "none"
}

// IsEnabled reports whether backups are on.
func (b BackupsConfig) IsEnabled() bool { return boolValue(b.Enabled, false) }

// OutputFormat specifies the output format for results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for kbdfmt.
type Config struct {
	// Format configures the formatter.
	Format FormatConfig `yaml:"format"`

	// Workspace configures template resolution across files.
	Workspace WorkspaceConfig `yaml:"workspace"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Write rewrites files in place.
	Write bool `yaml:"-"`

	// Check reports files that would change without writing them.
	Check bool `yaml:"-"`

	// Output specifies the output format.
	Output OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Enable:           Ptr(true),
			AlignLayers:      Ptr(true),
			TabWidth:         Ptr(DefaultTabWidth),
			CollapseNewlines: Ptr(true),
			MaxNewlines:      Ptr(DefaultMaxNewlines),
			LineEnding:       DefaultLineEnding,
		},
		Workspace: WorkspaceConfig{
			Mode: DefaultMode,
		},
		Backups: BackupsConfig{
			Enabled: Ptr(false),
			Mode:    DefaultBackupMode,
		},
		Output: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// BackupsActive reports whether a write should create a backup.
func (c *Config) BackupsActive() bool {
	return c.Backups.IsEnabled() && !c.NoBackups && c.Backups.Mode != "none"
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intValue(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
