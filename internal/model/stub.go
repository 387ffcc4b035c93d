// Package model defines the data structures for stub insertion.
package model

// Path represents a file system path.
type Path string

// Format identifies which anchor grammar produced a stub point.
type Format string

const (
	// FormatNew represents three-token anchors resolved against the
	// fragment table ("// TC001 STEP1 segment1").
	FormatNew Format = "new"

	// FormatTraditional represents anchors with the code embedded in the
	// source file ("// TC001 STEP1:" followed by a code directive).
	FormatTraditional Format = "traditional"
)

// TraceMarker is appended (after two spaces) to every non-blank inserted
// line so stubbed code can be told apart from original code and stripped
// back out by the extractor.
const TraceMarker = "// inserted via stub"

// StubPoint is one pending code insertion detected in a source file.
// TargetLine is 1-based and means "insert immediately after this line";
// zero means document start.
type StubPoint struct {
	ID         string // human-readable identifier, e.g. "TC001 STEP1 segment1"
	Code       string // resolved code text; empty when no fragment matched
	TargetLine int
	AnchorLine int // line the anchor marker itself was found on (1-based)
	File       Path
	Format     Format
}

// MissingAnchor records a well-formed new-format anchor that had no
// matching fragment in the table. It never fails the file.
type MissingAnchor struct {
	File   Path
	Line   int
	Anchor string
}
