// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ANSI palette shared by every style.
const (
	colorRed     = lipgloss.Color("9")
	colorGreen   = lipgloss.Color("10")
	colorYellow  = lipgloss.Color("11")
	colorBlue    = lipgloss.Color("12")
	colorMagenta = lipgloss.Color("13")
	colorCyan    = lipgloss.Color("14")
	colorWhite   = lipgloss.Color("7")
	colorGray    = lipgloss.Color("8")
)

// Styles holds the renderers used by reporters and help output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Per-file output.
	FilePath lipgloss.Style
	Layer    lipgloss.Style
	Changed  lipgloss.Style
	Template lipgloss.Style

	// Unified diffs.
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableChanged   lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableSeparator lipgloss.Style

	// Command help.
	Heading lipgloss.Style
	Command lipgloss.Style
	Flag    lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or styles that render text unchanged
// when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		if !colorEnabled {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	bold := func(s lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return s
		}
		return s.Bold(true)
	}

	return &Styles{
		Error:   bold(fg(colorRed)),
		Warning: bold(fg(colorYellow)),

		FilePath: bold(lipgloss.NewStyle()),
		Layer:    fg(colorMagenta),
		Changed:  fg(colorYellow),
		Template: fg(colorGray),

		DiffHeader:  bold(lipgloss.NewStyle()),
		DiffHunk:    fg(colorCyan),
		DiffAdd:     fg(colorGreen),
		DiffRemove:  fg(colorRed),
		DiffContext: fg(colorGray),

		SummaryTitle: bold(lipgloss.NewStyle()),
		SummaryValue: lipgloss.NewStyle(),
		Success:      bold(fg(colorGreen)),
		Failure:      bold(fg(colorRed)),

		TableHeader:    bold(fg(colorWhite)),
		TableChanged:   fg(colorYellow),
		TableErrorRow:  fg(colorRed),
		TableSeparator: fg(colorGray),

		Heading: bold(fg(colorYellow)),
		Command: bold(fg(colorCyan)),
		Flag:    fg(colorBlue),

		Dim:  fg(colorGray),
		Bold: bold(lipgloss.NewStyle()),
	}
}

// ValidateColorMode checks a --color value. The empty string means auto.
func ValidateColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case "", ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("invalid color mode %q (want %s, %s or %s)", mode, ColorAuto, ColorAlways, ColorNever)
	}
}

// IsColorEnabled reports whether output to writer should be colored.
// Unknown modes behave like auto: color only on a terminal and only when
// NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
