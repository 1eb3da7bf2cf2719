package span

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// LineInfo holds offsets for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of text).
	EndOffset int
}

// LineIndex maps byte offsets of a text to lines and columns.
type LineIndex struct {
	src   string
	lines []LineInfo
}

// NewLineIndex builds the line table for src.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func NewLineIndex(src string) *LineIndex {
	idx := &LineIndex{src: src}
	lineStart := 0

	for i := 0; i < len(src); i++ {
		if src[i] != '\n' {
			continue
		}
		newlineStart := i
		if i > 0 && src[i-1] == '\r' {
			newlineStart = i - 1
		}
		idx.lines = append(idx.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    i + 1,
		})
		lineStart = i + 1
	}

	// Last line (may be empty, may not have a trailing newline).
	idx.lines = append(idx.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(src),
		EndOffset:    len(src),
	})

	return idx
}

// LineCount returns the number of lines. An empty text has one empty line.
func (idx *LineIndex) LineCount() int {
	return len(idx.lines)
}

// Line returns metadata for a 0-based line number.
func (idx *LineIndex) Line(line int) (LineInfo, bool) {
	if line < 0 || line >= len(idx.lines) {
		return LineInfo{}, false
	}
	return idx.lines[line], true
}

// PositionAt converts a byte offset to a Position.
// Offsets past the end of the text are clamped to the end.
func (idx *LineIndex) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.src) {
		offset = len(idx.src)
	}

	lineIdx := sort.Search(len(idx.lines), func(i int) bool {
		return idx.lines[i].EndOffset > offset
	})
	if lineIdx >= len(idx.lines) {
		lineIdx = len(idx.lines) - 1
	}

	return Position{
		Absolute:  offset,
		Line:      lineIdx,
		LineStart: idx.lines[lineIdx].StartOffset,
	}
}

// ToLSP converts a Position to an editor position, counting UTF-16 code units
// between the start of the line and the position.
func ToLSP(src string, pos Position) LSPPosition {
	start, end := pos.LineStart, pos.Absolute
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start > end {
		start = end
	}
	return LSPPosition{Line: pos.Line, Character: UTF16Len(src[start:end])}
}

// RangeToLSP converts a Span to an editor range.
func RangeToLSP(src string, s Span) LSPRange {
	return LSPRange{Start: ToLSP(src, s.Start), End: ToLSP(src, s.End)}
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
// Invalid UTF-8 bytes count as one unit each, matching their replacement rune.
func UTF16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
