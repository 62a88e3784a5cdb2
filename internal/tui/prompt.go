package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// prompt is a one-line input. For file paths it also offers directory
// based suggestions; tab takes the first one.
type prompt struct {
	input   textinput.Model
	paths   bool
	suggest []string
}

func newPrompt(label string, paths bool) prompt {
	in := textinput.New()
	in.Prompt = label + " "
	in.CharLimit = 0
	return prompt{input: in, paths: paths}
}

// open focuses the prompt with a seed value.
func (p *prompt) open(seed string) tea.Cmd {
	p.input.SetValue(seed)
	p.input.CursorEnd()
	p.computeSuggestions()
	return p.input.Focus()
}

// submit returns the value and resets the prompt, so the same value can be
// entered again next time.
func (p *prompt) submit() string {
	v := p.input.Value()
	p.reset()
	return v
}

func (p *prompt) reset() {
	p.input.SetValue("")
	p.input.Blur()
	p.suggest = nil
}

func (p *prompt) complete() {
	if len(p.suggest) > 0 {
		p.input.SetValue(p.suggest[0])
		p.input.CursorEnd()
		p.computeSuggestions()
	}
}

func (p *prompt) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.computeSuggestions()
	return cmd
}

func (p *prompt) computeSuggestions() {
	if !p.paths {
		return
	}
	// Provide simple directory-based suggestions for current input buffer
	in := p.input.Value()
	if strings.TrimSpace(in) == "" {
		p.suggest = nil
		return
	}
	expanded := expandPath(in)
	dir := expanded
	base := ""
	if fi, err := os.Stat(expanded); err != nil || !fi.IsDir() {
		dir = filepath.Dir(expanded)
		base = filepath.Base(expanded)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.suggest = nil
		return
	}
	home, _ := os.UserHomeDir()
	var out []string
	for _, e := range entries {
		name := e.Name()
		if base != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(base)) {
			continue
		}
		cand := filepath.Join(dir, name)
		if e.IsDir() {
			cand += string(filepath.Separator)
		}
		// Present with ~/ when within home
		if home != "" && strings.HasPrefix(cand, home+string(filepath.Separator)) {
			cand = "~" + strings.TrimPrefix(cand, home)
		}
		out = append(out, cand)
		if len(out) >= 8 {
			break
		}
	}
	p.suggest = out
}

func (p prompt) view() string {
	var b strings.Builder
	b.WriteString(p.input.View())
	for _, s := range p.suggest {
		b.WriteString("\n" + faintStyle.Render("  • ") + s)
	}
	return b.String()
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, strings.TrimPrefix(p, "~"))
		}
	}
	p = os.ExpandEnv(p)
	if p != "" && !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}
