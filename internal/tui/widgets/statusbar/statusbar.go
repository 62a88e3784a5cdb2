package statusbar

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"codepad/internal/tui/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// Info is the document side of the status line.
type Info struct {
	Language   string
	Filename   string
	ThemeLabel string
	WrapLabel  string
	Selection  string // "" when nothing is selected
}

// View composes a concise status line reflecting key UI state, cut to the
// screen width. The notice goes last and is the first thing to be cut.
func (StatusBar) View(s state.UIState, in Info) string {
	mode := "[" + s.Mode.String() + "]"
	pos := fmt.Sprintf("%d:%d", s.Line, s.Column)

	parts := []string{mode, in.Language, in.Filename, pos}
	if in.Selection != "" {
		parts = append(parts, in.Selection)
	}
	parts = append(parts, in.ThemeLabel, in.WrapLabel)
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}
	line := strings.Join(nonEmpty(parts), "  ")
	if s.Width > 0 && runewidth.StringWidth(line) > s.Width {
		line = runewidth.Truncate(line, s.Width, "…")
	}
	return line
}

// Fit pads or cuts s to exactly width cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	s = runewidth.Truncate(s, width, "…")
	return runewidth.FillRight(s, width)
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
