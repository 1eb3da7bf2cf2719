package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
	wordLayer           = "layer"
	wordLayers          = "layers"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files need formatting in 5 files, 1 layer skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := stats.FilesProcessed + stats.FilesErrored

	if stats.FilesChanged == 0 && stats.FilesErrored == 0 {
		msg := s.Success.Render("All files formatted") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", checked, plural(checked, wordFile, wordFiles)))
		if stats.LayersSkipped > 0 {
			msg += ", " + s.Warning.Render(fmt.Sprintf("%d %s skipped",
				stats.LayersSkipped, plural(stats.LayersSkipped, wordLayer, wordLayers)))
		}
		return msg + "\n"
	}

	var parts []string

	pending := stats.FilesChanged - stats.FilesWritten
	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s formatted",
			stats.FilesWritten, plural(stats.FilesWritten, wordFile, wordFiles))))
	}
	if pending > 0 {
		verb := "need"
		if pending == 1 {
			verb = "needs"
		}
		parts = append(parts, s.Changed.Render(fmt.Sprintf("%d %s %s formatting",
			pending, plural(pending, wordFile, wordFiles), verb)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	line := strings.Join(parts, ", ") + fmt.Sprintf(" in %d %s", checked, plural(checked, wordFile, wordFiles))

	if stats.LayersSkipped > 0 {
		line += ", " + s.Warning.Render(fmt.Sprintf("%d %s skipped",
			stats.LayersSkipped, plural(stats.LayersSkipped, wordLayer, wordLayers)))
	}
	if stats.FilesStale > 0 {
		line += ", " + s.Warning.Render(fmt.Sprintf("%d modified during run", stats.FilesStale))
	}

	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed+stats.FilesErrored)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.Changed.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}

	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}

	if stats.FilesStale > 0 {
		builder.WriteString("  Files stale:       " +
			s.Warning.Render(strconv.Itoa(stats.FilesStale)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Layers
	builder.WriteString("  Layers aligned:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.LayersAligned)) + "\n")

	if stats.LayersSkipped > 0 {
		builder.WriteString("  Layers skipped:    " +
			s.Warning.Render(strconv.Itoa(stats.LayersSkipped)) + "\n")
	}

	if stats.Warnings > 0 {
		builder.WriteString("  Warnings:          " +
			s.Warning.Render(strconv.Itoa(stats.Warnings)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed with errors"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
