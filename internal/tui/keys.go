package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"codepad/internal/tui/widgets/helpoverlay"
)

type keyMap struct {
	Language key.Binding
	Open     key.Binding
	Download key.Binding
	Copy     key.Binding
	Filename key.Binding
	Theme    key.Binding
	Wrap     key.Binding
	Find     key.Binding
	FindNext key.Binding
	Replace  key.Binding
	Mark     key.Binding
	Overlay  key.Binding
	Preview  key.Binding
	Help     key.Binding
	Quit     key.Binding

	// prompts and modals
	Accept     key.Binding
	Cancel     key.Binding
	Complete   key.Binding
	Up         key.Binding
	Down       key.Binding
	Apply      key.Binding
	ToggleDiff key.Binding
	DiffView   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Language: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "choose language")),
		Open:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open file")),
		Download: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "download")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy to clipboard")),
		Filename: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "edit file name")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "dark/light theme")),
		Wrap:     key.NewBinding(key.WithKeys("alt+z"), key.WithHelp("alt+z", "word wrap")),
		Find:     key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find")),
		FindNext: key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "find next")),
		Replace:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "replace all")),
		Mark:     key.NewBinding(key.WithKeys("ctrl+@", "ctrl+ "), key.WithHelp("ctrl+space", "start/clear selection")),
		Overlay:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit selection in overlay")),
		Preview:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "highlighted preview")),
		Help:     key.NewBinding(key.WithKeys("f1", "ctrl+g"), key.WithHelp("F1", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "save and quit")),

		Accept:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Complete:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete path")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Apply:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "apply overlay")),
		ToggleDiff: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "show changes")),
		DiffView:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "unified/side-by-side")),
	}
}

func (k keyMap) sections() []helpoverlay.Section {
	return []helpoverlay.Section{
		{Title: "File", Keys: []key.Binding{k.Language, k.Open, k.Download, k.Copy, k.Filename, k.Quit}},
		{Title: "Edit", Keys: []key.Binding{k.Find, k.FindNext, k.Replace, k.Mark, k.Overlay}},
		{Title: "View", Keys: []key.Binding{k.Theme, k.Wrap, k.Preview, k.Help}},
		{Title: "Overlay", Keys: []key.Binding{k.Apply, k.Cancel, k.ToggleDiff, k.DiffView}},
		{Title: "Prompts", Keys: []key.Binding{k.Accept, k.Cancel, k.Complete}},
	}
}
