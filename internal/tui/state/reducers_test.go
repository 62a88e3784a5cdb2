package state

import "testing"

func TestEnterAndLeave(t *testing.T) {
	s := UIState{Notice: "old"}
	s = Enter(s, Find)
	if s.Mode != Find || s.Notice != "" {
		t.Fatalf("expected Find mode and cleared notice, got %+v", s)
	}
	s = ToggleDiff(s)
	s = Leave(s)
	if s.Mode != Editing || s.ShowDiff {
		t.Fatalf("expected Editing without diff, got %+v", s)
	}
}

func TestToggleView(t *testing.T) {
	s := UIState{View: Unified, Width: 120}
	s = ToggleView(s)
	if s.View != SideBySide {
		t.Fatalf("expected SideBySide view")
	}
	s = ToggleView(s)
	if s.View != Unified {
		t.Fatalf("expected Unified view")
	}
}

func TestToggleViewRefusedWhenNarrow(t *testing.T) {
	s := UIState{View: Unified, Width: 30, MinCol: 20}
	s = ToggleView(s)
	if s.View != Unified || s.Notice == "" {
		t.Fatalf("expected unified view with notice, got %+v", s)
	}
}

func TestResizeFallbackToUnified(t *testing.T) {
	s := UIState{View: SideBySide, MinCol: 20}
	s = Resize(s, 30, 10) // threshold = 2*20+3 = 43; 30 < 43 => unified
	if s.View != Unified {
		t.Fatalf("expected Unified after resize fallback")
	}
	if s.Notice == "" {
		t.Fatalf("expected fallback notice to be set")
	}
	if s.Width != 30 || s.Height != 10 {
		t.Fatalf("size not recorded: %dx%d", s.Width, s.Height)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	a := Resize(UIState{}, 100, 40)
	b := Resize(a, 100, 40)
	if a != b {
		t.Fatalf("resize to the same size changed state: %+v vs %+v", a, b)
	}
}

func TestModeString(t *testing.T) {
	if ReplaceWith.String() != "REPLACE" || Editing.String() != "EDIT" {
		t.Fatalf("unexpected mode names")
	}
}
