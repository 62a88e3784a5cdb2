package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"codepad/internal/session"
	"codepad/internal/tui/widgets/editor"
)

// overlayModal is the plain text box shown over the editor while an
// overlay session is open. It has no line numbers or highlighting.
type overlayModal struct {
	box  *editor.Editor
	sess session.EditSession
}

func newOverlayModal(sess session.EditSession, theme string, width, height int) overlayModal {
	box := editor.New()
	box.UpdateOptions(session.Options{LineNumbers: session.Bool(false), Compact: session.Bool(true)})
	box.SetTheme(theme)
	box.SetSize(width, height)
	box.SetValue(sess.Seed)
	box.Focus()
	return overlayModal{box: box, sess: sess}
}

func (o *overlayModal) setSize(width, height int) { o.box.SetSize(width, height) }

func (o *overlayModal) value() string { return o.box.GetValue() }

func (o *overlayModal) update(msg tea.Msg) tea.Cmd { return o.box.Update(msg) }

func (o overlayModal) view() string { return o.box.View() }
