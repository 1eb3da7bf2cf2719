package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/yaklabco/kbdfmt/internal/logging"
	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/diff"
	"github.com/yaklabco/kbdfmt/pkg/format"
	"github.com/yaklabco/kbdfmt/pkg/fsutil"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/query"
	"github.com/yaklabco/kbdfmt/pkg/workspace"
)

// Pipeline formats single files. It is safe for concurrent use once built.
type Pipeline struct {
	formatter *format.Formatter
	resolver  *workspace.Resolver
	docs      workspace.Documents
	write     bool
	backups   fsutil.BackupConfig
	workDir   string
}

// NewPipeline creates a Pipeline for opts. In workspace mode the main file
// and the files it includes are loaded from disk so every processed file
// can see them. Files that cannot be loaded are left out; resolution then
// reports them per file.
func NewPipeline(ctx context.Context, opts Options) (*Pipeline, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	resolver, err := workspace.NewResolver(opts.Workspace, workspace.WithTabWidth(opts.Format.TabWidth))
	if err != nil {
		return nil, fmt.Errorf("create resolver: %w", err)
	}

	p := &Pipeline{
		formatter: format.New(opts.Format),
		resolver:  resolver,
		docs:      workspace.Documents{},
		write:     opts.Write,
		backups:   opts.Backups,
		workDir:   workDir,
	}

	if opts.Workspace.Mode == workspace.ModeWorkspace {
		if err := p.loadWorkspace(ctx, opts.Workspace); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Pipeline) loadWorkspace(ctx context.Context, settings workspace.Settings) error {
	logger := logging.FromContext(ctx)

	mainURI, err := workspace.PathToURI(settings.MainFile, settings.Root)
	if err != nil {
		return fmt.Errorf("workspace main file: %w", err)
	}

	mainText, ok := p.loadDocument(ctx, mainURI)
	if !ok {
		return nil
	}

	tree, _, err := cst.Parse(mainText)
	if err != nil {
		logger.Debug("workspace main file does not parse", logging.FieldPath, mainURI, logging.FieldError, err)
		return nil
	}
	includes, err := query.Includes(tree)
	if err != nil {
		logger.Debug("workspace main file has malformed includes", logging.FieldPath, mainURI, logging.FieldError, err)
		return nil
	}

	for _, inc := range includes {
		incURI, err := workspace.PathToURI(inc, settings.Root)
		if err != nil {
			logger.Debug("cannot resolve include", logging.FieldPath, inc, logging.FieldError, err)
			continue
		}
		p.loadDocument(ctx, incURI)
	}
	return nil
}

func (p *Pipeline) loadDocument(ctx context.Context, uri string) (string, bool) {
	logger := logging.FromContext(ctx)

	path, err := workspace.URIToPath(uri)
	if err != nil {
		logger.Debug("not a local document", logging.FieldPath, uri, logging.FieldError, err)
		return "", false
	}
	content, _, err := fsutil.Read(ctx, path)
	if err != nil {
		logger.Debug("cannot load workspace document", logging.FieldPath, path, logging.FieldError, err)
		return "", false
	}
	text := string(content)
	p.docs[uri] = text
	return text, true
}

// Formatter returns the pipeline's formatter.
func (p *Pipeline) Formatter() *format.Formatter {
	return p.formatter
}

// ResolveLayout returns the template layout governing the file at path.
func (p *Pipeline) ResolveLayout(path string, tree *cst.Tree) (workspace.Resolution[layout.Layout], error) {
	uri, err := workspace.FileURI(path)
	if err != nil {
		return workspace.Resolution[layout.Layout]{}, err
	}
	return p.resolver.ResolveLayout(uri, tree, p.docs)
}

// ResolveKeys returns the template key names governing the file at path.
func (p *Pipeline) ResolveKeys(path string, tree *cst.Tree) (workspace.Resolution[[]string], error) {
	uri, err := workspace.FileURI(path)
	if err != nil {
		return workspace.Resolution[[]string]{}, err
	}
	return p.resolver.ResolveKeys(uri, tree, p.docs)
}

// ProcessFile reads, formats and, in write mode, saves the file at path.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*FileOutcome, error) {
	ctx = logging.With(ctx, logging.FieldPath, relTo(p.workDir, path))
	logger := logging.FromContext(ctx)

	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, classifyReadError(err)
	}

	outcome := &FileOutcome{
		Path:        path,
		DisplayPath: relTo(p.workDir, path),
		Original:    string(content),
	}

	formatted, err := p.formatText(ctx, outcome)
	if err != nil {
		return nil, err
	}
	outcome.Formatted = formatted
	outcome.Changed = formatted != outcome.Original

	for _, s := range outcome.Skipped {
		logger.Debug("layer size does not match template",
			logging.FieldLayer, s.Name,
			logging.FieldSlots, s.Keys,
			logging.FieldExpected, s.Expected)
	}
	for _, w := range outcome.Warnings {
		logger.Warn(w)
	}

	if !outcome.Changed {
		return outcome, nil
	}
	outcome.Diff = diff.Compute(outcome.DisplayPath, outcome.Original, outcome.Formatted)

	if !p.write {
		return outcome, nil
	}

	stale, err := snap.Changed(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	if stale {
		logger.Warn("file changed during formatting; not written")
		outcome.Stale = true
		return outcome, nil
	}

	backedUp, err := fsutil.Backup(ctx, path, p.backups)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	outcome.BackupCreated = backedUp
	if backedUp {
		logger.Debug("backup created", logging.FieldBackup, fsutil.BackupPath(path, p.backups.Mode))
	}

	if err := fsutil.WriteAtomic(ctx, path, []byte(formatted), snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	outcome.Written = true

	return outcome, nil
}

// formatText formats outcome.Original and records template and layer
// information on outcome. A template that cannot be resolved only costs
// alignment; newline normalization still runs.
func (p *Pipeline) formatText(ctx context.Context, outcome *FileOutcome) (string, error) {
	tree, _, err := cst.Parse(outcome.Original)
	if err != nil {
		return "", fmt.Errorf("%w: %s:%w", ErrParseFailure, outcome.DisplayPath, err)
	}

	opts := p.formatter.Options()
	if !opts.Enable {
		return outcome.Original, nil
	}

	var l layout.Layout
	if opts.AlignLayers {
		res, err := p.ResolveLayout(outcome.Path, tree)
		switch {
		case err != nil:
			outcome.Warnings = append(outcome.Warnings, "template not applied: "+err.Error())
		case res.Found:
			l = res.Value
			outcome.Template = res.Source
			if len(res.Shadowed) > 0 {
				logging.FromContext(ctx).Debug("defsrc defined more than once; last one wins",
					logging.FieldTemplate, res.Source,
					logging.FieldShadowed, strings.Join(res.Shadowed, ", "))
			}
		}
	}

	result := p.formatter.Format(tree, l)
	outcome.Aligned = result.Aligned
	outcome.Skipped = result.Skipped

	return tree.String(), nil
}

func classifyReadError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

func classifyPathError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}
