package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/config"
	"github.com/yaklabco/kbdfmt/pkg/fsutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "format.tab_width").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownLineEndings lists valid line ending values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLineEndings = map[string]bool{
	"lf":   true,
	"crlf": true,
}

// knownModes lists valid workspace mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownModes = map[string]bool{
	"single":    true,
	"workspace": true,
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	addErr := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if w := cfg.Format.TabWidth; w != nil && *w < 0 {
		addErr("format.tab_width", *w, "tab width must be >= 0")
	}
	if n := cfg.Format.MaxNewlines; n != nil && *n < 0 {
		addErr("format.max_newlines", *n, "max newlines must be >= 0")
	}
	if le := cfg.Format.LineEnding; le != "" && !knownLineEndings[strings.ToLower(le)] {
		addErr("format.line_ending", le, "invalid line ending %q; must be one of: lf, crlf", le)
	}

	mode := strings.ToLower(cfg.Workspace.Mode)
	if mode != "" && !knownModes[mode] {
		addErr("workspace.mode", cfg.Workspace.Mode,
			"invalid mode %q; must be one of: single, workspace", cfg.Workspace.Mode)
	}
	switch {
	case mode == "workspace" && cfg.Workspace.MainFile == "":
		addErr("workspace.main_file", "", "workspace mode requires a main file")
	case mode != "workspace" && cfg.Workspace.MainFile != "":
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "workspace.main_file",
			Value:   cfg.Workspace.MainFile,
			Message: "main file is ignored in single mode",
		})
	}

	if cfg.Output != "" && !cfg.Output.IsValid() {
		addErr("output", cfg.Output,
			"invalid format %q; must be one of: text, json, diff, summary", cfg.Output)
	}

	if cfg.Jobs < 0 {
		addErr("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		addErr("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	if cfg.Write && cfg.Check {
		addErr("write", true, "--write and --check are mutually exclusive")
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateIgnorePatterns compiles each ignore pattern the way discovery does.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := fsutil.CompilePatterns([]string{pattern}); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
