package diff

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"codepad/internal/tui/state"
)

func TestUnifiedSnapshot(t *testing.T) {
	v := NewDiffView()
	s := state.UIState{View: state.Unified}
	out := ansi.Strip(v.View(s, "a\nb", "a\nc"))
	if !strings.Contains(out, "BEFORE vs AFTER (Unified)") {
		t.Fatalf("missing unified header:\n%s", out)
	}
	if !strings.Contains(out, "  a") || !strings.Contains(out, "- b") || !strings.Contains(out, "+ c") {
		t.Fatalf("expected context and +/- lines in unified output:\n%s", out)
	}
}

func TestUnifiedInsertion(t *testing.T) {
	out := ansi.Strip(NewDiffView().View(state.UIState{}, "one\nthree", "one\ntwo\nthree"))
	if !strings.Contains(out, "+ two") || strings.Contains(out, "- three") {
		t.Fatalf("an insertion should not show later lines as changed:\n%s", out)
	}
}

func TestSideBySideSnapshot(t *testing.T) {
	v := NewDiffView()
	s := state.UIState{View: state.SideBySide, Width: 60}
	out := ansi.Strip(v.View(s, "left", "right"))
	if !strings.HasPrefix(out, "BEFORE") || !strings.Contains(out, "AFTER") {
		t.Fatalf("missing sbs header:\n%s", out)
	}
	if !strings.Contains(out, " │ ") {
		t.Fatalf("missing separator")
	}
}

func TestNoChanges(t *testing.T) {
	if out := NewDiffView().View(state.UIState{}, "same", "same"); out != "No changes\n" {
		t.Fatalf("got %q", out)
	}
}
