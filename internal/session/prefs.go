package session

// Preferences are the session-scoped UI toggles. They are not persisted.
type Preferences struct {
	Dark bool
	Wrap bool
}

func DefaultPreferences() Preferences { return Preferences{Dark: true, Wrap: true} }

func (p Preferences) ThemeID() string {
	if p.Dark {
		return ThemeDark
	}
	return ThemeLight
}

// Labeler produces the button/label text for the toggles in the active locale.
type Labeler interface {
	ThemeLabel(dark bool) string
	WrapLabel(on bool) string
}

// Labels is the label text currently shown for each toggle.
type Labels struct {
	Theme string
	Wrap  string
}

type plainLabels struct{}

func (plainLabels) ThemeLabel(dark bool) string {
	if dark {
		return "🌙 Dark"
	}
	return "☀ Light"
}

func (plainLabels) WrapLabel(on bool) string {
	if on {
		return "↩ Wrap: ON"
	}
	return "↩ Wrap: OFF"
}

// Viewport is what the host knows about the screen.
type Viewport struct {
	Width  int
	Height int
	Touch  bool
}

// DefaultCompactWidth is the column count below which the compact layout is used.
const DefaultCompactWidth = 80

// IsCompact is the single small-screen predicate: narrow, or a touch device.
func IsCompact(v Viewport, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultCompactWidth
	}
	return v.Touch || (v.Width > 0 && v.Width < threshold)
}

// LayoutFor is the widget configuration for a layout class.
func LayoutFor(compact bool) Options {
	return Options{
		Compact:     Bool(compact),
		LineNumbers: Bool(!compact),
	}
}
