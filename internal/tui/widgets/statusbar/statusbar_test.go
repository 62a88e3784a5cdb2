package statusbar

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"codepad/internal/tui/state"
)

func TestViewContainsState(t *testing.T) {
	s := state.UIState{Mode: state.Find, Line: 3, Column: 7, Notice: "saved"}
	out := NewStatusBar().View(s, Info{Language: "python", Filename: "a.py", ThemeLabel: "🌙 Dark", WrapLabel: "↩ Wrap: ON"})
	for _, want := range []string{"[FIND]", "python", "a.py", "3:7", "🌙 Dark", "↩ Wrap: ON", "saved"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestViewFitsWidth(t *testing.T) {
	s := state.UIState{Width: 20, Notice: strings.Repeat("long notice ", 5)}
	out := NewStatusBar().View(s, Info{Language: "javascript", Filename: "ファイル名.js"})
	if w := runewidth.StringWidth(out); w > 20 {
		t.Fatalf("status line is %d cells wide", w)
	}
}

func TestFit(t *testing.T) {
	if got := Fit("ab", 4); got != "ab  " {
		t.Fatalf("pad: %q", got)
	}
	if got := Fit("日本語テキスト", 6); runewidth.StringWidth(got) != 6 {
		t.Fatalf("cut: %q", got)
	}
}
