// Package span provides source locations for kbd configuration text.
// Positions are produced once by the parser and never mutated; the CST drops
// them after construction and only the root span survives.
package span

// Position is a location in a file's text.
type Position struct {
	// Absolute is the byte offset from the start of the text.
	Absolute int

	// Line is the 0-based line number.
	Line int

	// LineStart is the byte offset where Line begins.
	LineStart int
}

// Before reports whether p is located before other.
func (p Position) Before(other Position) bool {
	return p.Absolute < other.Absolute
}

// ByteColumn returns the 0-based byte column of p within its line.
func (p Position) ByteColumn() int {
	return p.Absolute - p.LineStart
}

// Span is a half-open [Start, End) range of text.
type Span struct {
	Start Position
	End   Position
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End.Absolute - s.Start.Absolute
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start.Absolute == s.End.Absolute
}

// Contains returns true if the given byte offset is within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Absolute && offset < s.End.Absolute
}

// Text returns the slice of src covered by s.
// Returns an empty string if s lies outside src.
func (s Span) Text(src string) string {
	if s.Start.Absolute < 0 || s.End.Absolute > len(src) || s.Start.Absolute > s.End.Absolute {
		return ""
	}
	return src[s.Start.Absolute:s.End.Absolute]
}

// LSPPosition is an editor position: 0-based line and UTF-16 code unit offset.
type LSPPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// LSPRange is a half-open range of editor positions.
type LSPRange struct {
	Start LSPPosition `json:"start"`
	End   LSPPosition `json:"end"`
}
