package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/internal/ui/pretty"
)

func allStyles(s *pretty.Styles) map[string]lipgloss.Style {
	return map[string]lipgloss.Style{
		"Error": s.Error, "Warning": s.Warning,
		"FilePath": s.FilePath, "Layer": s.Layer, "Changed": s.Changed, "Template": s.Template,
		"DiffHeader": s.DiffHeader, "DiffHunk": s.DiffHunk, "DiffAdd": s.DiffAdd,
		"DiffRemove": s.DiffRemove, "DiffContext": s.DiffContext,
		"SummaryTitle": s.SummaryTitle, "SummaryValue": s.SummaryValue,
		"Success": s.Success, "Failure": s.Failure,
		"TableHeader": s.TableHeader, "TableChanged": s.TableChanged,
		"TableErrorRow": s.TableErrorRow, "TableSeparator": s.TableSeparator,
		"Heading": s.Heading, "Command": s.Command, "Flag": s.Flag,
		"Dim": s.Dim, "Bold": s.Bold,
	}
}

func TestNewStylesNoColorRendersPlainText(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for name, style := range allStyles(styles) {
		assert.Equal(t, "caps", style.Render("caps"), name)
	}
}

func TestNewStylesColorKeepsText(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss drops ANSI codes when not attached to a terminal, so only
	// the text itself is checked.
	for name, style := range allStyles(styles) {
		assert.Contains(t, style.Render("caps"), "caps", name)
	}
}

func TestIsColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{"always", pretty.ColorAlways, true},
		{"always uppercase", "ALWAYS", true},
		{"never", pretty.ColorNever, false},
		{"auto on buffer", pretty.ColorAuto, false},
		{"empty on buffer", "", false},
		{"unknown on buffer", "sometimes", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pretty.IsColorEnabled(tc.mode, &buf))
		})
	}
}

func TestIsColorEnabledNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, os.Stdout))
	assert.True(t, pretty.IsColorEnabled(pretty.ColorAlways, os.Stdout), "explicit always wins over NO_COLOR")
}

func TestValidateColorMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"", "auto", "always", "never", "Never"} {
		require.NoError(t, pretty.ValidateColorMode(mode), mode)
	}

	err := pretty.ValidateColorMode("rainbow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rainbow")
}
