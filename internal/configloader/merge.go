package configloader

import "github.com/yaklabco/kbdfmt/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Pointer values: override overwrites base if override is non-nil
//   - Strings and numbers: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - CLI booleans: only true in override has an effect
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	result.Format = mergeFormat(base.Format, override.Format)

	if override.Workspace.Mode != "" {
		result.Workspace.Mode = override.Workspace.Mode
	}
	if override.Workspace.MainFile != "" {
		result.Workspace.MainFile = override.Workspace.MainFile
	}
	if override.Workspace.Root != "" {
		result.Workspace.Root = override.Workspace.Root
	}

	if override.Backups.Enabled != nil {
		result.Backups.Enabled = override.Backups.Enabled
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Write {
		result.Write = true
	}
	if override.Check {
		result.Check = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	return &result
}

func mergeFormat(base, override config.FormatConfig) config.FormatConfig {
	result := base

	if override.Enable != nil {
		result.Enable = override.Enable
	}
	if override.AlignLayers != nil {
		result.AlignLayers = override.AlignLayers
	}
	if override.TabWidth != nil {
		result.TabWidth = override.TabWidth
	}
	if override.CollapseNewlines != nil {
		result.CollapseNewlines = override.CollapseNewlines
	}
	if override.MaxNewlines != nil {
		result.MaxNewlines = override.MaxNewlines
	}
	if override.LineEnding != "" {
		result.LineEnding = override.LineEnding
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
