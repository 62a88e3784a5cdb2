package util

import (
	"strings"
	"unicode/utf8"

	"codepad/internal/tui/state"
)

// TagInput is everything ComputeTags looks at.
type TagInput struct {
	Text       string
	SaveFailed bool
	External   bool
	Compact    bool
	RangeEdit  bool
	Preview    bool
}

// ComputeTags calculates the status chips for the current document.
//
// The returned slice preserves a stable order:
//   Save failed, External, Compact, Range, Preview, Lines, Chars
//
// Rules:
// - Flags appear only when set.
// - Lines and Chars are always included (counters). An empty document has
//   one line, like the editor shows it.
func ComputeTags(in TagInput) []state.Tag {
	tags := make([]state.Tag, 0, 7)
	if in.SaveFailed {
		tags = append(tags, state.Tag{Kind: state.SAVE_FAILED})
	}
	if in.External {
		tags = append(tags, state.Tag{Kind: state.EXTERNAL})
	}
	if in.Compact {
		tags = append(tags, state.Tag{Kind: state.COMPACT})
	}
	if in.RangeEdit {
		tags = append(tags, state.Tag{Kind: state.RANGE})
	}
	if in.Preview {
		tags = append(tags, state.Tag{Kind: state.PREVIEW})
	}
	tags = append(tags, state.Tag{Kind: state.LINES, Value: lineCount(in.Text)})
	tags = append(tags, state.Tag{Kind: state.CHARS, Value: runeLen(in.Text)})
	return tags
}

func lineCount(s string) int { return strings.Count(s, "\n") + 1 }

// runeLen returns the length of s in runes (Unicode code points).
func runeLen(s string) int { return utf8.RuneCountInString(s) }
