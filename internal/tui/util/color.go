package util

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
	if explicit {
		return true
	}
	return os.Getenv("NO_COLOR") != ""
}

// Palette defines a small set of colors used across widgets.
type Palette struct {
	Primary    lipgloss.Color
	Success    lipgloss.Color
	Danger     lipgloss.Color
	Warning    lipgloss.Color
	Muted      lipgloss.Color
	MutedDark  lipgloss.Color
	Foreground lipgloss.Color
	Background lipgloss.Color
	CursorLine lipgloss.Color
	Chroma     string // chroma style name for the preview pane
}

// DefaultPalette returns the default (dark) palette.
func DefaultPalette() Palette { return ThemePalette(true) }

// ThemePalette returns the palette for the dark or light theme.
func ThemePalette(dark bool) Palette {
	p := Palette{
		Primary:   lipgloss.Color("#3D6DFF"),
		Success:   lipgloss.Color("#2AA876"),
		Danger:    lipgloss.Color("#D9534F"),
		Warning:   lipgloss.Color("#F0AD4E"),
		Muted:     lipgloss.Color("#6C757D"),
		MutedDark: lipgloss.Color("#5A5A5A"),
	}
	if dark {
		p.Foreground = lipgloss.Color("#D4D4D4")
		p.Background = lipgloss.Color("#1E1E1E")
		p.CursorLine = lipgloss.Color("#2A2D2E")
		p.Chroma = "monokai"
	} else {
		p.Foreground = lipgloss.Color("#1E1E1E")
		p.Background = lipgloss.Color("#FFFFFF")
		p.CursorLine = lipgloss.Color("#F0F0F0")
		p.Chroma = "github"
	}
	return p
}
