// Package workspace locates the defsrc block that governs a document, either
// within the document itself or across the main file of a workspace and the
// files it includes.
package workspace

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/query"
)

// Resolution errors.
var (
	// ErrIncludesInSingleMode indicates include blocks in a file resolved without a workspace.
	ErrIncludesInSingleMode = errors.New("includes are not supported in single-file mode")

	// ErrDocumentNotLoaded indicates a referenced document missing from the document set.
	ErrDocumentNotLoaded = errors.New("document is not loaded")

	// ErrDuplicateInclude indicates the same file included more than once.
	ErrDuplicateInclude = errors.New("file is included more than once")

	// ErrInvalidMode indicates an unknown resolution mode.
	ErrInvalidMode = errors.New("invalid workspace mode")
)

// Mode selects how the defsrc block is located.
type Mode int

const (
	// ModeSingle only looks at the current file, which may not include others.
	ModeSingle Mode = iota

	// ModeWorkspace looks at the main file and its direct includes.
	ModeWorkspace
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "single":
		return ModeSingle, nil
	case "workspace":
		return ModeWorkspace, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected single or workspace)", ErrInvalidMode, name)
	}
}

// Settings configures a Resolver.
type Settings struct {
	Mode Mode

	// MainFile is the workspace entry point, relative to Root or absolute.
	MainFile string

	// Root is the URI relative include paths resolve against.
	Root string
}

// Documents maps document URIs to their current text.
type Documents map[string]string

// Resolution describes where a defsrc-derived value came from.
type Resolution[T any] struct {
	Value T

	// Found is false when no file defines a defsrc block.
	Found bool

	// Source is the URI of the file that supplied Value.
	Source string

	// Shadowed lists files whose defsrc block was superseded by a later one.
	Shadowed []string
}

// DefaultCacheSize is the number of parsed documents kept by a Resolver.
const DefaultCacheSize = 128

// Resolver finds the defsrc block for a document. It is safe for concurrent
// use; parsed documents are cached by URI and content.
type Resolver struct {
	settings Settings
	tabWidth int
	cache    *lru.Cache[cacheKey, *cst.Tree]
}

type cacheKey struct {
	uri  string
	hash [sha256.Size]byte
}

// Option configures a Resolver.
type Option func(*resolverOptions)

type resolverOptions struct {
	tabWidth  int
	cacheSize int
}

// WithTabWidth sets the tab width used for layout extraction.
func WithTabWidth(n int) Option {
	return func(o *resolverOptions) { o.tabWidth = n }
}

// WithCacheSize sets the number of parsed documents kept in memory.
func WithCacheSize(n int) Option {
	return func(o *resolverOptions) { o.cacheSize = n }
}

// NewResolver creates a Resolver.
func NewResolver(settings Settings, opts ...Option) (*Resolver, error) {
	o := resolverOptions{tabWidth: 4, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	if settings.Mode != ModeSingle && settings.Mode != ModeWorkspace {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(settings.Mode))
	}
	if settings.Mode == ModeWorkspace && settings.MainFile == "" {
		return nil, fmt.Errorf("%w: workspace mode requires a main file", ErrInvalidPath)
	}

	cache, err := lru.New[cacheKey, *cst.Tree](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}

	return &Resolver{settings: settings, tabWidth: o.tabWidth, cache: cache}, nil
}

// Settings returns the resolver's settings.
func (r *Resolver) Settings() Settings {
	return r.settings
}

// ResolveLayout returns the defsrc layout that applies to the document uri
// whose parsed tree is current.
func (r *Resolver) ResolveLayout(uri string, current *cst.Tree, docs Documents) (Resolution[layout.Layout], error) {
	return resolve(r, uri, current, docs, func(t *cst.Tree) (layout.Layout, bool, error) {
		return layout.FromTree(t, r.tabWidth)
	})
}

// ResolveKeys returns the defsrc key names that apply to the document uri.
func (r *Resolver) ResolveKeys(uri string, current *cst.Tree, docs Documents) (Resolution[[]string], error) {
	return resolve(r, uri, current, docs, query.TemplateKeys)
}

type templateQuery[T any] func(*cst.Tree) (T, bool, error)

func resolve[T any](r *Resolver, uri string, current *cst.Tree, docs Documents, q templateQuery[T]) (Resolution[T], error) {
	var res Resolution[T]

	var files []parsedFile
	if r.settings.Mode == ModeSingle {
		includes, err := query.Includes(current)
		if err != nil {
			return res, fmt.Errorf("%s: %w", uri, err)
		}
		if len(includes) > 0 {
			return res, fmt.Errorf("%w: %s includes %s",
				ErrIncludesInSingleMode, uri, strings.Join(includes, ", "))
		}
		files = []parsedFile{{uri: uri, tree: current}}
	} else {
		var err error
		files, err = r.workspaceFiles(uri, current, docs)
		if err != nil {
			return res, err
		}
	}

	for _, f := range files {
		value, found, err := q(f.tree)
		if err != nil {
			return Resolution[T]{}, fmt.Errorf("%s: %w", f.uri, err)
		}
		if !found {
			continue
		}
		if res.Found {
			res.Shadowed = append(res.Shadowed, res.Source)
		}
		res.Value, res.Found, res.Source = value, true, f.uri
	}
	return res, nil
}

type parsedFile struct {
	uri  string
	tree *cst.Tree
}

// workspaceFiles returns the main file's includes in order followed by the
// main file itself.
func (r *Resolver) workspaceFiles(uri string, current *cst.Tree, docs Documents) ([]parsedFile, error) {
	mainURI, err := PathToURI(r.settings.MainFile, r.settings.Root)
	if err != nil {
		return nil, err
	}

	mainTree, err := r.tree(mainURI, uri, current, docs)
	if err != nil {
		return nil, err
	}

	includes, err := query.Includes(mainTree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mainURI, err)
	}

	files := make([]parsedFile, 0, len(includes)+1)
	seen := make(map[string]bool, len(includes))
	for _, inc := range includes {
		incURI, err := PathToURI(inc, r.settings.Root)
		if err != nil {
			return nil, err
		}
		if seen[incURI] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateInclude, incURI)
		}
		seen[incURI] = true

		t, err := r.tree(incURI, uri, current, docs)
		if err != nil {
			return nil, err
		}
		files = append(files, parsedFile{uri: incURI, tree: t})
	}

	return append(files, parsedFile{uri: mainURI, tree: mainTree}), nil
}

// tree returns the parsed document target. The current document's tree is
// used as is; others are parsed from docs through the cache.
func (r *Resolver) tree(target, currentURI string, current *cst.Tree, docs Documents) (*cst.Tree, error) {
	if target == currentURI && current != nil {
		return current, nil
	}

	text, ok := docs[target]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrDocumentNotLoaded, target)
	}

	key := cacheKey{uri: target, hash: sha256.Sum256([]byte(text))}
	if t, ok := r.cache.Get(key); ok {
		return t, nil
	}

	t, _, err := cst.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}
	r.cache.Add(key, t)
	return t, nil
}
