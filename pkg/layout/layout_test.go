package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/layout"
	"github.com/yaklabco/kbdfmt/pkg/query"
)

const tabWidth = 4

func parse(t *testing.T, src string) *cst.Tree {
	t.Helper()
	tree, _, err := cst.Parse(src)
	require.NoError(t, err)
	return tree
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected layout.Layout
	}{
		{
			name:     "single space",
			src:      "(defsrc 1 2)",
			expected: layout.Layout{{2}, {1}},
		},
		{
			name:     "double space",
			src:      "(defsrc 1  2)",
			expected: layout.Layout{{3}, {1}},
		},
		{
			name:     "crlf and tab",
			src:      "(defsrc 1 \r\n 2\t 3)",
			expected: layout.Layout{{2, 1}, {6}, {1}},
		},
		{
			name:     "line comment starts a row",
			src:      "(defsrc a ;; row one\n  b)",
			expected: layout.Layout{{2, 2}, {1}},
		},
		{
			name:     "block comment has no width",
			src:      "(defsrc a #| x |# b)",
			expected: layout.Layout{{3}, {1}},
		},
		{
			name:     "trailing newline",
			src:      "(defsrc \n 0 1  2\n)",
			expected: layout.Layout{{2}, {3}, {1, 0}},
		},
		{
			name:     "empty",
			src:      "(defsrc)",
			expected: layout.Layout{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			l, found, err := layout.FromTree(parse(t, tc.src), tabWidth)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tc.expected, l)
		})
	}
}

func TestFromTreeNoTemplate(t *testing.T) {
	t.Parallel()

	l, found, err := layout.FromTree(parse(t, "(deflayer base a)"), tabWidth)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, l)
}

func TestFromTreeErrors(t *testing.T) {
	t.Parallel()

	_, _, err := layout.FromTree(parse(t, "(defsrc 1) (defsrc 2)"), tabWidth)
	require.ErrorIs(t, err, query.ErrMultipleTemplates)

	_, _, err = layout.FromTree(parse(t, "(defsrc (1) 2)"), tabWidth)
	require.ErrorIs(t, err, query.ErrNestedList)
}

func TestParseLineEnding(t *testing.T) {
	t.Parallel()

	eol, err := layout.ParseLineEnding("CRLF")
	require.NoError(t, err)
	assert.Equal(t, layout.CRLF, eol)
	assert.Equal(t, "crlf", eol.Name())

	eol, err = layout.ParseLineEnding("")
	require.NoError(t, err)
	assert.Equal(t, layout.LF, eol)

	_, err = layout.ParseLineEnding("cr")
	assert.Error(t, err)
}
