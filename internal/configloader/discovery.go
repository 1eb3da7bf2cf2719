package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Scope names a configuration layer.
type Scope string

// Configuration scopes, lowest precedence first.
const (
	ScopeSystem   Scope = "system"
	ScopeUser     Scope = "user"
	ScopeProject  Scope = "project"
	ScopeExplicit Scope = "explicit"
)

// ProjectConfigName is the file written by `kbdfmt init`.
const ProjectConfigName = ".kbdfmt.yml"

// Project config names in order of preference.
//
//nolint:gochecknoglobals // read-only lookup table
var projectConfigNames = []string{ProjectConfigName, ".kbdfmt.yaml", "kbdfmt.yml", "kbdfmt.yaml"}

// ConfigPaths holds the configuration files found for a working directory.
// Missing files are empty strings.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string

	// DotEnv is the .env file of the working directory.
	DotEnv string
}

// Layer is one configuration file to merge.
type Layer struct {
	Scope Scope
	Path  string
}

// Layers returns the files that exist, lowest precedence first, leaving out
// the scopes in skip.
func (p *ConfigPaths) Layers(skip ...Scope) []Layer {
	all := []Layer{
		{ScopeSystem, p.System},
		{ScopeUser, p.User},
		{ScopeProject, p.Project},
		{ScopeExplicit, p.Explicit},
	}

	layers := make([]Layer, 0, len(all))
outer:
	for _, l := range all {
		if l.Path == "" {
			continue
		}
		for _, s := range skip {
			if l.Scope == s {
				continue outer
			}
		}
		layers = append(layers, l)
	}
	return layers
}

// DiscoverPaths finds the system, user and project configuration files and
// the .env file for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{
		System:  firstFile(systemConfigDir(), "config.yaml", "config.yml"),
		User:    userConfig(),
		Project: project,
	}
	if env := filepath.Join(workDir, ".env"); isFile(env) {
		paths.DotEnv = env
	}
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/kbdfmt"
	}
	if dir := os.Getenv("ProgramData"); dir != "" {
		return filepath.Join(dir, "kbdfmt")
	}
	return `C:\ProgramData\kbdfmt`
}

// userConfig looks in $XDG_CONFIG_HOME/kbdfmt, then next to the kanata
// configuration in $XDG_CONFIG_HOME/kanata.
func userConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}

	if path := firstFile(filepath.Join(configHome, "kbdfmt"), "config.yaml", "config.yml"); path != "" {
		return path
	}
	return firstFile(filepath.Join(configHome, "kanata"), projectConfigNames...)
}

// FindProjectConfig walks up from startDir and returns the first project
// config file. The walk ends at a repository root, the home directory or the
// filesystem root; the empty string means nothing was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstFile(dir, projectConfigNames...); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isRepoRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isRepoRoot(dir string) bool {
	for _, marker := range []string{".git", ".hg", ".svn", ".jj"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names ...string) string {
	for _, name := range names {
		if path := filepath.Join(dir, name); isFile(path) {
			return path
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
