package helpoverlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"codepad/internal/tui/state"
)

// Section is a titled group of key bindings.
type Section struct {
	Title string
	Keys  []key.Binding
}

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current mode indicated. Disabled
// bindings are left out.
func (HelpOverlay) View(s state.UIState, sections []Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Help (Mode: %s)\n", s.Mode)
	for _, sec := range sections {
		var lines []string
		for _, k := range sec.Keys {
			if !k.Enabled() {
				continue
			}
			h := k.Help()
			lines = append(lines, fmt.Sprintf("  %s: %s", h.Key, h.Desc))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", sec.Title)
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\nesc/F1: close help\n")
	return b.String()
}
