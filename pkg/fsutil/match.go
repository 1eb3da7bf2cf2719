package fsutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// PatternSet matches relative paths against ignore patterns.
//
// Patterns use '/' as separator: '*' stays within one segment and '**'
// spans segments, including none. A pattern without a slash is also
// matched against the base name, so "*.bak.kbd" applies in every
// directory. The zero value and nil match nothing.
type PatternSet struct {
	full []glob.Glob
	base []glob.Glob
}

// CompilePatterns compiles patterns, failing on the first malformed one.
func CompilePatterns(patterns []string) (*PatternSet, error) {
	set := &PatternSet{}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if !strings.Contains(pattern, "/") {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			set.base = append(set.base, g)
		}

		for _, variant := range expandDoubleStar(pattern) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			set.full = append(set.full, g)
		}
	}
	return set, nil
}

// expandDoubleStar adds the variants in which a "**" segment matches no
// segment at all, since the compiled glob still requires the separators
// around it.
func expandDoubleStar(pattern string) []string {
	variants := []string{pattern}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		variants = append(variants, rest)
	}
	if strings.Contains(pattern, "/**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "/**/", "/"))
	}
	return variants
}

// Match reports whether the file at rel is ignored.
func (s *PatternSet) Match(rel string) bool {
	if s == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	for _, g := range s.base {
		if g.Match(base) {
			return true
		}
	}
	for _, g := range s.full {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// MatchDir reports whether the directory at rel is ignored. "vendor/**"
// ignores the vendor directory itself.
func (s *PatternSet) MatchDir(rel string) bool {
	return s.Match(rel) || s.Match(strings.TrimSuffix(filepath.ToSlash(rel), "/")+"/")
}
