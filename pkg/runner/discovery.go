package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/fsutil"
)

// Discover returns the sorted absolute paths of the kbd files selected by
// opts. Directories are walked recursively, skipping hidden entries and
// ignored paths. A file named explicitly is kept whatever its extension or
// name, unless an ignore pattern matches it.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ignore, err := fsutil.CompilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("ignore: %w", err)
	}

	w := &walker{
		workDir:    workDir,
		ignore:     ignore,
		extensions: opts.effectiveExtensions(),
		follow:     opts.FollowSymlinks,
		found:      make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, classifyPathError(input, err)
		}
		if !info.IsDir() {
			if !ignore.Match(relTo(workDir, abs)) {
				w.add(abs)
			}
			continue
		}
		if err := w.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(w.found))
	for f := range w.found {
		files = append(files, f)
	}
	slices.Sort(files)
	return files, nil
}

type walker struct {
	workDir    string
	ignore     *fsutil.PatternSet
	extensions []string
	follow     bool
	found      map[string]struct{}
}

func (w *walker) add(path string) {
	w.found[path] = struct{}{}
}

func (w *walker) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := relTo(w.workDir, path)
		hidden := strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if path != root && (hidden || w.ignore.MatchDir(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := resolveLink(path)
			if !ok {
				return nil
			}
			if target.isDir {
				if !w.follow {
					return nil
				}
				// WalkDir does not descend into symlinked directories.
				return w.walk(ctx, target.path)
			}
		}

		if w.matchesExtension(path) && !w.ignore.Match(rel) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) matchesExtension(path string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(w.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

type linkTarget struct {
	path  string
	isDir bool
}

// resolveLink follows a symlink. Broken and inaccessible links report false.
func resolveLink(path string) (linkTarget, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return linkTarget{}, false
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return linkTarget{}, false
	}
	return linkTarget{path: resolved, isDir: info.IsDir()}, true
}

// resolveWorkDir returns the absolute form of workDir, or the process
// working directory when it is empty.
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func relTo(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
