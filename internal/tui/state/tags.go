package state

// TagKind enumerates the status chips shown next to the document.
type TagKind int

const (
	// Stable ordering for display: Save failed, External, Compact, Range, Preview, Lines, Chars
	SAVE_FAILED TagKind = iota
	EXTERNAL
	COMPACT
	RANGE
	PREVIEW
	LINES
	CHARS
)

// Tag represents a single status chip. Value is used for numeric counters
// (line and character counts). Non-numeric tags use Value = 0.
type Tag struct {
	Kind  TagKind
	Value int
}
