package configloader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/yaklabco/kbdfmt/pkg/config"
)

// envVarPrefix is the prefix for all kbdfmt environment variables.
const envVarPrefix = "KBDFMT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"ENABLE":            {"format.enable", envTypeBool, "Enable the formatter: true or false"},
	"ALIGN_LAYERS":      {"format.align_layers", envTypeBool, "Align deflayer blocks to defsrc: true or false"},
	"TAB_WIDTH":         {"format.tab_width", envTypeInt, "Column width of a tab inside defsrc"},
	"COLLAPSE_NEWLINES": {"format.collapse_newlines", envTypeBool, "Collapse runs of blank lines: true or false"},
	"MAX_NEWLINES":      {"format.max_newlines", envTypeInt, "Maximum consecutive newlines"},
	"LINE_ENDING":       {"format.line_ending", envTypeString, "Line ending for aligned rows: lf or crlf"},
	"MODE":              {"workspace.mode", envTypeString, "Template resolution: single or workspace"},
	"MAIN_FILE":         {"workspace.main_file", envTypeString, "Workspace main file"},
	"ROOT":              {"workspace.root", envTypeString, "Directory include paths resolve against"},
	"IGNORE":            {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"BACKUPS_ENABLED":   {"backups.enabled", envTypeBool, "Enable backups when writing: true or false"},
	"BACKUPS_MODE":      {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"OUTPUT":            {"output", envTypeString, "Output format: text, json, diff, or summary"},
	"JOBS":              {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"NO_BACKUPS":        {"no_backups", envTypeBool, "Disable backups: true or false"},
}

// lookupFunc returns the value of an environment variable.
type lookupFunc func(key string) (string, bool)

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with KBDFMT_ (e.g., KBDFMT_TAB_WIDTH).
// When dotEnvPath is set, the file seeds values the process environment
// does not define.
func LoadFromEnv(cfg *config.Config, dotEnvPath string) error {
	if cfg == nil {
		return nil
	}

	var seeded map[string]string
	if dotEnvPath != "" {
		var err error
		seeded, err = godotenv.Read(dotEnvPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", dotEnvPath, err)
		}
	}

	return applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := seeded[key]
		return v, ok
	})
}

func applyEnv(cfg *config.Config, lookup lookupFunc) error {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	for _, suffix := range suffixes {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := cast.ToIntE(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		cfg.Ignore = parseSliceValue(value)
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format.line_ending":
		cfg.Format.LineEnding = value
	case "workspace.mode":
		cfg.Workspace.Mode = value
	case "workspace.main_file":
		cfg.Workspace.MainFile = value
	case "workspace.root":
		cfg.Workspace.Root = value
	case "backups.mode":
		cfg.Backups.Mode = value
	case "output":
		cfg.Output = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "format.enable":
		cfg.Format.Enable = config.Ptr(value)
	case "format.align_layers":
		cfg.Format.AlignLayers = config.Ptr(value)
	case "format.collapse_newlines":
		cfg.Format.CollapseNewlines = config.Ptr(value)
	case "backups.enabled":
		cfg.Backups.Enabled = config.Ptr(value)
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "format.tab_width":
		cfg.Format.TabWidth = config.Ptr(value)
	case "format.max_newlines":
		cfg.Format.MaxNewlines = config.Ptr(value)
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
