package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/yaklabco/kbdfmt/internal/logging"
	"github.com/yaklabco/kbdfmt/pkg/config"
	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/fsutil"
	"github.com/yaklabco/kbdfmt/pkg/runner"
	"github.com/yaklabco/kbdfmt/pkg/span"
	"github.com/yaklabco/kbdfmt/pkg/workspace"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type inspectFlags struct {
	format   string
	mode     string
	mainFile string
	root     string
	tabWidth int
}

func addInspectFlags(cmd *cobra.Command, flags *inspectFlags) {
	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "template resolution: single, workspace")
	cmd.Flags().StringVar(&flags.mainFile, "main-file", "", "workspace entry point, relative to --root")
	cmd.Flags().StringVar(&flags.root, "root", "", "directory include paths are resolved against")
	cmd.Flags().IntVar(&flags.tabWidth, "tab-width", config.DefaultTabWidth, "visual width of a tab")
}

func (f *inspectFlags) toConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Workspace: config.WorkspaceConfig{
			Mode:     f.mode,
			MainFile: f.mainFile,
			Root:     f.root,
		},
	}
	if cmd.Flags().Changed("tab-width") {
		cfg.Format.TabWidth = config.Ptr(f.tabWidth)
	}
	return cfg
}

func (f *inspectFlags) validate() error {
	if f.format != formatText && f.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, f.format)
	}
	return nil
}

// inspectedFile is a parsed file together with the pipeline that resolves
// its template.
type inspectedFile struct {
	path     string
	workDir  string
	tree     *cst.Tree
	pipeline *runner.Pipeline
}

func loadInspectedFile(ctx context.Context, cmd *cobra.Command, flags *inspectFlags, file string) (*inspectedFile, error) {
	if err := flags.validate(); err != nil {
		return nil, err
	}

	_, opts, pipeline, err := newPipeline(ctx, cmd, flags.toConfig(cmd), []string{file})
	if err != nil {
		return nil, err
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.WorkingDir, path)
	}

	tree, err := parseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return &inspectedFile{path: path, workDir: opts.WorkingDir, tree: tree, pipeline: pipeline}, nil
}

func parseFile(ctx context.Context, path string) (*cst.Tree, error) {
	content, _, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesFailed, err)
	}

	tree, _, err := cst.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %w", ErrFilesFailed, runner.ErrParseFailure, path, err)
	}
	return tree, nil
}

// sourcePath converts a template source URI to a path relative to workDir.
func sourcePath(uri, workDir string) string {
	p, err := workspace.URIToPath(uri)
	if err != nil {
		return uri
	}
	if rel, err := filepath.Rel(workDir, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// layoutEntry is one defsrc key in JSON output.
type layoutEntry struct {
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Breaks []int  `json:"breaks,omitempty"`
}

// layoutOutput is the JSON form of the layout command.
type layoutOutput struct {
	Found    bool          `json:"found"`
	Template string        `json:"template,omitempty"`
	Shadowed []string      `json:"shadowed,omitempty"`
	Keys     []layoutEntry `json:"keys"`
}

func newLayoutCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Print the defsrc layout that governs a file",
		Long: `Print the column layout every deflayer block of a file is aligned to.

Each row lists a defsrc key, the visual width from the key to the next key
on its line, and the indentation of any line breaks that follow the key.

Examples:
  kbdfmt layout main.kbd
  kbdfmt layout --mode workspace --main-file main.kbd layers/nav.kbd
  kbdfmt layout --format json main.kbd`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], flags)
		},
	}

	addInspectFlags(cmd, flags)

	return cmd
}

func runLayout(cmd *cobra.Command, file string, flags *inspectFlags) error {
	ctx := commandContext(cmd)

	f, err := loadInspectedFile(ctx, cmd, flags, file)
	if err != nil {
		return err
	}

	layoutRes, err := f.pipeline.ResolveLayout(f.path, f.tree)
	if err != nil {
		return fmt.Errorf("resolve template: %w", err)
	}
	keysRes, err := f.pipeline.ResolveKeys(f.path, f.tree)
	if err != nil {
		return fmt.Errorf("resolve template: %w", err)
	}

	out := layoutOutput{Found: layoutRes.Found, Keys: make([]layoutEntry, 0, len(layoutRes.Value))}
	if layoutRes.Found {
		out.Template = sourcePath(layoutRes.Source, f.workDir)
		for _, s := range layoutRes.Shadowed {
			out.Shadowed = append(out.Shadowed, sourcePath(s, f.workDir))
		}
	}
	for i, entry := range layoutRes.Value {
		var e layoutEntry
		if len(entry) > 0 {
			e.Width, e.Breaks = entry[0], entry[1:]
		}
		if i < len(keysRes.Value) {
			e.Key = keysRes.Value[i]
		}
		out.Keys = append(out.Keys, e)
	}

	w := cmd.OutOrStdout()
	if flags.format == formatJSON {
		return writeJSON(w, out)
	}

	if !out.Found {
		logging.FromContext(ctx).Warn("no defsrc block found", logging.FieldPath, file)
		return ErrNoMatch
	}

	keyWidth := len("key")
	for _, e := range out.Keys {
		keyWidth = max(keyWidth, uniseg.StringWidth(e.Key))
	}

	fmt.Fprintf(w, "defsrc: %s\n", out.Template)
	for _, e := range out.Keys {
		line := e.Key + strings.Repeat(" ", keyWidth-uniseg.StringWidth(e.Key)) +
			"  " + strconv.Itoa(e.Width)
		if len(e.Breaks) > 0 {
			indents := make([]string, len(e.Breaks))
			for i, b := range e.Breaks {
				indents[i] = strconv.Itoa(b)
			}
			line += "  breaks: " + strings.Join(indents, ", ")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// keysOutput is the JSON form of the keys command.
type keysOutput struct {
	Found    bool     `json:"found"`
	Template string   `json:"template,omitempty"`
	Keys     []string `json:"keys"`
}

func newKeysCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "keys <file>",
		Short: "Print the defsrc keys that govern a file",
		Long: `Print the key names of the defsrc block that governs a file, in order.

Examples:
  kbdfmt keys main.kbd
  kbdfmt keys --format json main.kbd`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd, args[0], flags)
		},
	}

	addInspectFlags(cmd, flags)

	return cmd
}

func runKeys(cmd *cobra.Command, file string, flags *inspectFlags) error {
	ctx := commandContext(cmd)

	f, err := loadInspectedFile(ctx, cmd, flags, file)
	if err != nil {
		return err
	}

	res, err := f.pipeline.ResolveKeys(f.path, f.tree)
	if err != nil {
		return fmt.Errorf("resolve template: %w", err)
	}

	out := keysOutput{Found: res.Found, Keys: res.Value}
	if out.Keys == nil {
		out.Keys = []string{}
	}
	if res.Found {
		out.Template = sourcePath(res.Source, f.workDir)
	}

	w := cmd.OutOrStdout()
	if flags.format == formatJSON {
		return writeJSON(w, out)
	}

	if !out.Found {
		logging.FromContext(ctx).Warn("no defsrc block found", logging.FieldPath, file)
		return ErrNoMatch
	}
	for _, key := range out.Keys {
		fmt.Fprintln(w, key)
	}
	return nil
}

// locateOutput is the JSON form of the locate command.
type locateOutput struct {
	Path []int  `json:"path"`
	Text string `json:"text"`
}

func newLocateCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "locate <file> <line> <character>",
		Short: "Print the tree path of the atom at a position",
		Long: `Print the child-index path of the atom covering a position in a file.

Line and character are 0-based; characters count UTF-16 code units, as
editors speaking the language server protocol do.

Examples:
  kbdfmt locate main.kbd 3 10
  kbdfmt locate --format json main.kbd 3 10`,
		Args: usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, args, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")

	return cmd
}

func runLocate(cmd *cobra.Command, args []string, format string) error {
	ctx := commandContext(cmd)

	if format != formatText && format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, format)
	}

	line, err := strconv.Atoi(args[1])
	if err != nil || line < 0 {
		return fmt.Errorf("%w: line %q is not a non-negative integer", ErrInvalidUsage, args[1])
	}
	character, err := strconv.Atoi(args[2])
	if err != nil || character < 0 {
		return fmt.Errorf("%w: character %q is not a non-negative integer", ErrInvalidUsage, args[2])
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	tree, err := parseFile(ctx, path)
	if err != nil {
		return err
	}

	nodePath, err := tree.PathAt(span.LSPPosition{Line: line, Character: character})
	if err != nil {
		if errors.Is(err, cst.ErrPositionInTrivia) || errors.Is(err, cst.ErrPositionNotFound) {
			logging.FromContext(ctx).Warn("no atom at position", logging.FieldError, err)
			return ErrNoMatch
		}
		return fmt.Errorf("locate: %w", err)
	}

	node, ok := tree.NodeAt(nodePath)
	if !ok {
		return fmt.Errorf("locate: path %v does not resolve", nodePath)
	}
	out := locateOutput{Path: nodePath, Text: node.ExprString()}

	w := cmd.OutOrStdout()
	if format == formatJSON {
		return writeJSON(w, out)
	}

	indices := make([]string, len(out.Path))
	for i, idx := range out.Path {
		indices[i] = strconv.Itoa(idx)
	}
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(indices, "."), out.Text)
	return nil
}
