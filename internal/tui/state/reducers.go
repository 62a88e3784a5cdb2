package state

// Enter switches to mode m and clears any stale notice.
func Enter(s UIState, m Mode) UIState {
	s.Mode = m
	s.Notice = ""
	return s
}

// Leave returns to plain editing.
func Leave(s UIState) UIState {
	s.Mode = Editing
	s.ShowDiff = false
	return s
}

// ToggleView switches between Unified and SideBySide diff views. Side by
// side is refused when the screen is too narrow for it.
func ToggleView(s UIState) UIState {
	if s.View == Unified {
		if s.Width > 0 && s.Width < sideBySideWidth(s) {
			s.Notice, s.NoticeKind = "Narrow width: using unified view", Info
			return s
		}
		s.View = SideBySide
	} else {
		s.View = Unified
	}
	return s
}

func ToggleDiff(s UIState) UIState {
	s.ShowDiff = !s.ShowDiff
	return s
}

func TogglePreview(s UIState) UIState {
	s.Preview = !s.Preview
	return s
}

// Resize updates the size and sets a fallback notice if too narrow for side-by-side.
// Threshold heuristic: need at least 2*MinCol plus 3 chars for separator/gutters.
func Resize(s UIState, width, height int) UIState {
	s.Width, s.Height = width, height
	if s.View == SideBySide && s.Width < sideBySideWidth(s) {
		s.View = Unified
		s.Notice, s.NoticeKind = "Narrow width: using unified view", Info
	}
	return s
}

func sideBySideWidth(s UIState) int {
	minCol := s.MinCol
	if minCol <= 0 {
		minCol = 20
	}
	return 2*minCol + 3
}

func SetNotice(s UIState, kind NoticeKind, msg string) UIState {
	s.Notice, s.NoticeKind = msg, kind
	return s
}

func ClearNotice(s UIState) UIState {
	s.Notice, s.NoticeKind = "", Info
	return s
}

// MoveCursor records the editor cursor for the status bar.
func MoveCursor(s UIState, line, col int) UIState {
	s.Line, s.Column = line, col
	return s
}

func MarkExternal(s UIState, changed bool) UIState {
	s.External = changed
	return s
}
