package tagchips

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codepad/internal/tui/state"
	"codepad/internal/tui/util"
)

// View renders status tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool, p util.Palette) string {
	if len(tags) == 0 {
		return ""
	}
	// Honor NO_COLOR env var in addition to explicit param
	if !noColor && os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, noColor, p))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool, p util.Palette) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	return chipStyle(t, p).Render(label)
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.SAVE_FAILED:
		return "Not saved"
	case state.EXTERNAL:
		return "Changed on disk"
	case state.COMPACT:
		return "Compact"
	case state.RANGE:
		return "Selection"
	case state.PREVIEW:
		return "Preview"
	case state.LINES:
		return fmt.Sprintf("Ln %d", t.Value)
	case state.CHARS:
		return fmt.Sprintf("Ch %d", t.Value)
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag, p util.Palette) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	white := lipgloss.Color("#FFFFFF")
	switch t.Kind {
	case state.SAVE_FAILED:
		return base.Background(p.Danger).Foreground(white)
	case state.EXTERNAL:
		return base.Background(p.Warning).Foreground(lipgloss.Color("#111111"))
	case state.COMPACT:
		return base.Background(p.Primary).Foreground(white)
	case state.RANGE:
		return base.Background(p.Success).Foreground(white)
	case state.PREVIEW:
		return base.Background(p.Primary).Foreground(white)
	case state.LINES:
		return base.Background(p.Muted).Foreground(white)
	case state.CHARS:
		return base.Background(p.MutedDark).Foreground(white)
	default:
		return base
	}
}
