package format_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/format"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/query"
)

func loadTestdata(t *testing.T) map[string]string {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join("testdata", "*.kbd"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	files := make(map[string]string, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		require.NoError(t, err)
		files[filepath.Base(p)] = string(content)
	}
	return files
}

func resolveLayout(t *testing.T, tree *cst.Tree) layout.Layout {
	t.Helper()
	l, found, err := layout.FromTree(tree, format.DefaultTabWidth)
	require.NoError(t, err)
	require.True(t, found)
	return l
}

func countComments(tree *cst.Tree) int {
	n := 0
	cst.WalkMetadata(tree, func(m *cst.Metadata) {
		if m.IsComment() {
			n++
		}
	})
	return n
}

func TestTestdataRoundTrip(t *testing.T) {
	t.Parallel()

	for name, src := range loadTestdata(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, src, parse(t, src).String())
		})
	}
}

func TestTestdataIdempotent(t *testing.T) {
	t.Parallel()

	f := format.New(format.DefaultOptions())
	for name, src := range loadTestdata(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			once, _, err := f.FormatString(src, resolveLayout(t, parse(t, src)))
			require.NoError(t, err)

			twice, _, err := f.FormatString(once, resolveLayout(t, parse(t, once)))
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestTestdataOnlyLayersChange(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.CollapseNewlines = false
	f := format.New(opts)

	for name, src := range loadTestdata(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			before := parse(t, src)
			after := parse(t, src)
			res := f.Format(after, resolveLayout(t, after))

			skipped := make(map[int]bool, len(res.Skipped))
			for _, s := range res.Skipped {
				skipped[s.Index] = true
			}

			layers := make(map[int]bool)
			for _, b := range query.LayerBlocks(before) {
				layers[b.Index] = true
			}

			beforeNodes, afterNodes := before.Root.Nodes(), after.Root.Nodes()
			require.Len(t, afterNodes, len(beforeNodes))
			for i := range beforeNodes {
				if layers[i] && !skipped[i] {
					continue
				}
				assert.Equal(t, beforeNodes[i].String(), afterNodes[i].String(), "top-level node %d", i)
			}
			assert.Equal(t, countComments(before), countComments(after))
		})
	}
}

func TestTestdataExpectedLayers(t *testing.T) {
	t.Parallel()

	files := loadTestdata(t)
	f := format.New(format.DefaultOptions())

	tests := []struct {
		file    string
		aligned []string
		skipped []string
	}{
		{"full.kbd", []string{"base", "nav"}, []string{"broken"}},
		{"unicode.kbd", []string{"symbols", "lists"}, nil},
		{"crlf.kbd", []string{"crlf"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			t.Parallel()

			src, ok := files[tc.file]
			require.True(t, ok)

			tree := parse(t, src)
			res := f.Format(tree, resolveLayout(t, tree))
			assert.Equal(t, tc.aligned, res.Aligned)

			var skipped []string
			for _, s := range res.Skipped {
				skipped = append(skipped, s.Name)
			}
			assert.Equal(t, tc.skipped, skipped)
		})
	}
}
