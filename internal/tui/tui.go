package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codepad/internal/i18n"
	"codepad/internal/session"
	"codepad/internal/store"
	"codepad/internal/transfer"
	"codepad/internal/tui/state"
	"codepad/internal/tui/util"
	"codepad/internal/tui/widgets/diff"
	"codepad/internal/tui/widgets/editor"
	"codepad/internal/tui/widgets/helpoverlay"
	"codepad/internal/tui/widgets/preview"
	"codepad/internal/tui/widgets/statusbar"
	"codepad/internal/tui/widgets/tagchips"
)

// Options wires the terminal host to an already constructed session.
type Options struct {
	Controller *session.Controller
	Editor     *editor.Editor // the controller's widget
	Localizer  *i18n.Localizer
	Downloads  *transfer.Gateway
	Clipboard  *transfer.Gateway
	Importer   transfer.Importer
	Watch      *store.FileBackend // nil disables the change watcher
	OpenPath   string             // imported as soon as the UI starts
	NoColor    bool
	Logf       func(format string, args ...any)
}

// Run shows the editor until the user quits. Everything is flushed to the
// store on the way out, whatever the reason.
func Run(ctx context.Context, opts Options) error {
	m := newModel(opts)
	defer m.ctrl.Unload()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Watch != nil {
		notify := func() { p.Send(externalChangeMsg{}) }
		if err := store.Watch(ctx, opts.Watch, notify, m.log); err != nil {
			m.log("[tui] store watcher disabled: %v", err)
		}
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ===== Messages =====

type fileReadMsg struct {
	path string
	file transfer.File
	err  error
}

type externalChangeMsg struct{}

// readFileCmd reads path off the event loop. Reads are not cancelled: when
// several are in flight the last one to finish wins.
func readFileCmd(im transfer.Importer, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := im.Read(context.Background(), path)
		return fileReadMsg{path: path, file: f, err: err}
	}
}

// ===== Model =====

type model struct {
	ctrl      *session.Controller
	ed        *editor.Editor
	loc       *i18n.Localizer
	downloads *transfer.Gateway
	clipboard *transfer.Gateway
	importer  transfer.Importer
	openPath  string
	noColor   bool
	log       func(string, ...any)

	keys   keyMap
	st     state.UIState
	status statusbar.StatusBar
	help   helpoverlay.HelpOverlay
	diff   diff.DiffView
	pv     preview.Preview

	languages []string
	pick      int

	namePrompt    prompt
	openPrompt    prompt
	findPrompt    prompt
	replacePrompt prompt
	withPrompt    prompt
	lastQuery     string
	replaceQuery  string

	modal *overlayModal
}

func newModel(opts Options) *model {
	loc := opts.Localizer
	if loc == nil {
		loc = i18n.New("")
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	m := &model{
		ctrl:      opts.Controller,
		ed:        opts.Editor,
		loc:       loc,
		downloads: opts.Downloads,
		clipboard: opts.Clipboard,
		importer:  opts.Importer,
		openPath:  opts.OpenPath,
		noColor:   util.NoColor(opts.NoColor),
		log:       logf,
		keys:      defaultKeys(),
		st:        state.UIState{MinCol: 20},
		status:    statusbar.NewStatusBar(),
		help:      helpoverlay.NewHelpOverlay(),
		diff:      diff.NewDiffView(),
		pv:        preview.New(40, 10),
		languages: opts.Controller.Registry().IDs(),

		namePrompt:    newPrompt(loc.T(i18n.FilenameLabel), false),
		openPrompt:    newPrompt(loc.T(i18n.OpenPrompt), true),
		findPrompt:    newPrompt(loc.T(i18n.FindPrompt), false),
		replacePrompt: newPrompt(loc.T(i18n.ReplacePrompt), false),
		withPrompt:    newPrompt(loc.T(i18n.WithPrompt), false),
	}
	m.ctrl.SetLabeler(loc)
	m.ed.Focus()
	m.syncCursor()
	return m
}

func (m *model) Init() tea.Cmd {
	if strings.TrimSpace(m.openPath) != "" {
		return readFileCmd(m.importer, m.openPath)
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.st = state.Resize(m.st, msg.Width, msg.Height)
		m.ctrl.Resize(session.Viewport{Width: msg.Width, Height: msg.Height})
		m.layout()
		return m, nil

	case fileReadMsg:
		m.fileRead(msg)
		return m, nil

	case externalChangeMsg:
		m.st = state.MarkExternal(m.st, true)
		m.notice(state.Warn, m.loc.T(i18n.ExternalChange))
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.syncCursor()
		return m, cmd
	}

	// blink, paste and other widget messages
	var cmd tea.Cmd
	if m.st.Mode == state.Overlay && m.modal != nil {
		cmd = m.modal.update(msg)
	} else {
		cmd = m.ed.Update(msg)
	}
	m.syncCursor()
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.st.Mode {
	case state.Help:
		if key.Matches(msg, m.keys.Cancel, m.keys.Help) {
			m.st = state.Leave(m.st)
		}
		return nil
	case state.PickLanguage:
		return m.pickKey(msg)
	case state.EditFilename, state.OpenPath, state.Find, state.ReplaceFind, state.ReplaceWith:
		return m.promptKey(msg)
	case state.Overlay:
		return m.overlayKey(msg)
	}
	return m.editKey(msg)
}

func (m *model) editKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.ctrl.Unload()
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.st = state.Enter(m.st, state.Help)
	case key.Matches(msg, k.Language):
		m.pick = indexOf(m.languages, m.ctrl.Language())
		m.st = state.Enter(m.st, state.PickLanguage)
	case key.Matches(msg, k.Open):
		m.st = state.Enter(m.st, state.OpenPath)
		return m.openPrompt.open("")
	case key.Matches(msg, k.Filename):
		m.st = state.Enter(m.st, state.EditFilename)
		return m.namePrompt.open(m.ctrl.Filename())
	case key.Matches(msg, k.Download):
		m.export(m.downloads)
	case key.Matches(msg, k.Copy):
		m.export(m.clipboard)
	case key.Matches(msg, k.Theme):
		m.ctrl.ToggleTheme()
		m.refreshPreview()
	case key.Matches(msg, k.Wrap):
		m.ctrl.ToggleWrap()
		m.layout()
	case key.Matches(msg, k.Find):
		m.runAction(m.ctrl.Find)
		return m.takeActions()
	case key.Matches(msg, k.Replace):
		m.runAction(m.ctrl.Replace)
		return m.takeActions()
	case key.Matches(msg, k.FindNext):
		if m.lastQuery != "" && !m.ed.FindNext(m.lastQuery) {
			m.notice(state.Info, m.loc.T(i18n.NotFound, map[string]any{"Query": m.lastQuery}))
		}
	case key.Matches(msg, k.Mark):
		m.ed.ToggleMark()
	case key.Matches(msg, k.Overlay):
		m.openOverlay()
	case key.Matches(msg, k.Preview):
		m.st = state.TogglePreview(m.st)
		m.layout()
	default:
		if msg.Type == tea.KeyEsc {
			m.ed.ClearMark()
			m.st = state.ClearNotice(m.st)
			return nil
		}
		cmd := m.ed.Update(msg)
		m.refreshPreview()
		return cmd
	}
	return nil
}

func (m *model) pickKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.st = state.Leave(m.st)
	case key.Matches(msg, m.keys.Up):
		if m.pick > 0 {
			m.pick--
		}
	case key.Matches(msg, m.keys.Down):
		if m.pick < len(m.languages)-1 {
			m.pick++
		}
	case key.Matches(msg, m.keys.Accept):
		m.st = state.Leave(m.st)
		if len(m.languages) == 0 {
			return nil
		}
		prev := m.ctrl.Language()
		changed, err := m.ctrl.SwitchLanguage(m.languages[m.pick])
		if err != nil {
			m.notice(state.Error, err.Error())
			return nil
		}
		if changed {
			m.reportSaved(prev)
		}
		m.refreshPreview()
	}
	return nil
}

func (m *model) promptKey(msg tea.KeyMsg) tea.Cmd {
	p := m.activePrompt()
	switch {
	case key.Matches(msg, m.keys.Cancel):
		p.reset()
		m.st = state.Leave(m.st)
		return nil
	case key.Matches(msg, m.keys.Complete) && p.paths:
		p.complete()
		return nil
	case key.Matches(msg, m.keys.Accept):
		return m.submitPrompt(p.submit())
	}
	return p.update(msg)
}

func (m *model) submitPrompt(v string) tea.Cmd {
	mode := m.st.Mode
	m.st = state.Leave(m.st)
	switch mode {
	case state.EditFilename:
		m.ctrl.SetFilename(v)
	case state.OpenPath:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return readFileCmd(m.importer, expandPath(v))
	case state.Find:
		m.lastQuery = v
		if v != "" && !m.ed.FindNext(v) {
			m.notice(state.Info, m.loc.T(i18n.NotFound, map[string]any{"Query": v}))
		}
	case state.ReplaceFind:
		if v == "" {
			return nil
		}
		m.replaceQuery = v
		m.st = state.Enter(m.st, state.ReplaceWith)
		return m.withPrompt.open("")
	case state.ReplaceWith:
		n := m.ed.ReplaceAll(m.replaceQuery, v)
		m.notice(state.Info, m.loc.T(i18n.Replaced, map[string]any{"Count": n}))
		m.refreshPreview()
	}
	return nil
}

func (m *model) activePrompt() *prompt {
	switch m.st.Mode {
	case state.EditFilename:
		return &m.namePrompt
	case state.OpenPath:
		return &m.openPrompt
	case state.Find:
		return &m.findPrompt
	case state.ReplaceFind:
		return &m.replacePrompt
	default:
		return &m.withPrompt
	}
}

func (m *model) overlayKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Overlay().Cancel()
		m.closeOverlay()
	case key.Matches(msg, m.keys.Apply):
		if _, err := m.ctrl.Overlay().Apply(m.modal.value()); err != nil {
			m.notice(state.Error, err.Error())
		} else {
			m.reportSaved(m.ctrl.Language())
		}
		m.closeOverlay()
		m.refreshPreview()
	case key.Matches(msg, m.keys.ToggleDiff):
		m.st = state.ToggleDiff(m.st)
	case key.Matches(msg, m.keys.DiffView):
		m.st = state.ToggleView(m.st)
	default:
		return m.modal.update(msg)
	}
	return nil
}

func (m *model) openOverlay() {
	sess, err := m.ctrl.Overlay().Open()
	if errors.Is(err, session.ErrOverlayOpen) {
		m.notice(state.Warn, m.loc.T(i18n.OverlayBusy))
		return
	}
	w, h := m.bodySize()
	modal := newOverlayModal(sess, m.ed.Theme(), w, h-2)
	m.modal = &modal
	m.ed.Blur()
	m.st = state.Enter(m.st, state.Overlay)
}

func (m *model) closeOverlay() {
	m.modal = nil
	m.st = state.Leave(m.st)
	m.ed.Focus()
}

// runAction runs a controller action and reports failures. The widget
// queues the action id; takeActions opens the matching prompt.
func (m *model) runAction(fn func() error) {
	if err := fn(); err != nil {
		m.notice(state.Error, err.Error())
	}
}

func (m *model) takeActions() tea.Cmd {
	var cmd tea.Cmd
	for _, id := range m.ed.TakeActions() {
		switch id {
		case session.ActionFind:
			m.st = state.Enter(m.st, state.Find)
			cmd = m.findPrompt.open(m.lastQuery)
		case session.ActionReplace:
			m.st = state.Enter(m.st, state.ReplaceFind)
			cmd = m.replacePrompt.open(m.lastQuery)
		}
	}
	return cmd
}

func (m *model) export(gw *transfer.Gateway) {
	if gw == nil {
		m.notice(state.Error, m.loc.T(i18n.ExportFailed, map[string]any{"Reason": "not configured"}))
		return
	}
	name, err := m.ctrl.Export(gw)
	if err != nil {
		m.notice(state.Error, m.loc.T(i18n.ExportFailed, map[string]any{"Reason": err.Error()}))
		return
	}
	if gw == m.clipboard {
		m.notice(state.Info, m.loc.T(i18n.Copied))
		return
	}
	m.notice(state.Info, m.loc.T(i18n.Exported, map[string]any{"Name": name, "Where": gw.LastDestination()}))
}

func (m *model) fileRead(msg fileReadMsg) {
	if errors.Is(msg.err, transfer.ErrNoFile) {
		return
	}
	if msg.err != nil {
		m.log("[tui] open %s: %v", msg.path, msg.err)
		m.notice(state.Error, m.loc.T(i18n.OpenFailed, map[string]any{"Reason": msg.err.Error()}))
		return
	}
	if m.modal != nil {
		m.ctrl.Overlay().Cancel()
		m.closeOverlay()
	}
	id := m.ctrl.OpenFile(msg.file.Name, msg.file.Content)
	m.layout()
	m.notice(state.Info, m.loc.T(i18n.Opened, map[string]any{"Name": msg.file.Name, "Language": m.ctrl.Registry().Label(id)}))
	m.reportFlush()
	m.refreshPreview()
}

// reportFlush surfaces a failed store write without interrupting anything.
// It reports whether the last write went through.
func (m *model) reportFlush() bool {
	if res := m.ctrl.State().LastFlush; res.Failed() {
		m.notice(state.Warn, m.loc.T(i18n.SaveFailed, map[string]any{"Reason": res.Reason()}))
		return false
	}
	return true
}

// reportSaved confirms that language id was checkpointed.
func (m *model) reportSaved(id string) {
	if m.reportFlush() {
		m.notice(state.Info, m.loc.T(i18n.Saved, map[string]any{"Language": m.ctrl.Registry().Label(id)}))
	}
}

func (m *model) notice(kind state.NoticeKind, msg string) {
	m.st = state.SetNotice(m.st, kind, msg)
}

func (m *model) syncCursor() {
	c := m.ed.Cursor()
	m.st = state.MoveCursor(m.st, c.Line, c.Column)
}

// ===== Layout =====

const chromeLines = 3 // header, prompt/hint, status

func (m *model) bodySize() (int, int) {
	w, h := m.st.Width, m.st.Height-chromeLines
	if w <= 0 {
		w = 80
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m *model) split() bool {
	return m.st.Preview && !m.ctrl.State().Compact
}

func (m *model) layout() {
	w, h := m.bodySize()
	switch {
	case m.split():
		left := w / 2
		m.ed.SetSize(left, h)
		m.pv.SetSize(w-left-1, max(1, h-1))
	case m.st.Preview:
		m.pv.SetSize(w, max(1, h-1))
	default:
		m.ed.SetSize(w, h)
	}
	if m.modal != nil {
		m.modal.setSize(w, h-2)
	}
	m.refreshPreview()
}

func (m *model) refreshPreview() {
	if !m.st.Preview {
		return
	}
	pal := util.ThemePalette(m.ctrl.State().Prefs.Dark)
	m.pv.SetContent(m.ed.GetValue(), m.ctrl.Language(), pal.Chroma, m.noColor)
	m.pv.ScrollTo(m.st.Line)
}

// ===== Views =====

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
)

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader() + "\n")
	b.WriteString(m.viewBody() + "\n")
	b.WriteString(m.viewPromptLine() + "\n")
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m *model) viewHeader() string {
	cs := m.ctrl.State()
	title := titleStyle.Render("codepad") + " " + m.ctrl.Filename()
	_, rangeEdit := m.overlayRange()
	tags := util.ComputeTags(util.TagInput{
		Text:       m.ed.GetValue(),
		SaveFailed: cs.LastFlush.Failed(),
		External:   m.st.External,
		Compact:    cs.Compact,
		RangeEdit:  rangeEdit,
		Preview:    m.st.Preview,
	})
	chips := tagchips.View(tags, m.noColor, util.ThemePalette(cs.Prefs.Dark))
	gap := m.st.Width - lipgloss.Width(title) - lipgloss.Width(chips)
	if gap < 1 {
		return statusbar.Fit(title, m.st.Width)
	}
	return title + strings.Repeat(" ", gap) + chips
}

func (m *model) overlayRange() (session.EditSession, bool) {
	sess, open := m.ctrl.Overlay().Session()
	return sess, open && sess.Mode == session.OverlayRange
}

func (m *model) viewBody() string {
	switch m.st.Mode {
	case state.Help:
		return m.help.View(m.st, m.keys.sections())
	case state.PickLanguage:
		return m.viewLanguages()
	case state.Overlay:
		return m.viewOverlay()
	}
	switch {
	case m.split():
		sep := faintStyle.Render(strings.Repeat("│\n", max(0, m.st.Height-chromeLines-1)) + "│")
		return lipgloss.JoinHorizontal(lipgloss.Top, m.ed.View(), sep, m.viewPreview())
	case m.st.Preview:
		return m.viewPreview()
	}
	return m.ed.View()
}

func (m *model) viewPreview() string {
	return titleStyle.Render(m.loc.T(i18n.PreviewTitle)) + "\n" + m.pv.View()
}

func (m *model) viewLanguages() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.loc.T(i18n.LanguageTitle)) + "\n")
	reg := m.ctrl.Registry()
	for i, id := range m.languages {
		label := reg.Label(id)
		if id == m.ctrl.Language() {
			label += " •"
		}
		line := "  " + label
		if i == m.pick {
			line = selStyle.Render("> " + label)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n↑/↓: move   enter: select   esc: back\n")
	return b.String()
}

func (m *model) viewOverlay() string {
	if m.modal == nil {
		return ""
	}
	title := m.loc.T(i18n.OverlayTitle)
	if m.modal.sess.Mode == session.OverlayRange {
		r := m.modal.sess.Range
		title = fmt.Sprintf("%s %d:%d–%d:%d", m.loc.T(i18n.OverlayRange), r.StartLine, r.StartColumn, r.EndLine, r.EndColumn)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	if m.st.ShowDiff {
		b.WriteString(m.diff.View(m.st, m.modal.sess.Seed, m.modal.value()))
	} else {
		b.WriteString(m.modal.view())
	}
	b.WriteString("\n" + faintStyle.Render(m.loc.T(i18n.OverlayHint)))
	return b.String()
}

func (m *model) viewPromptLine() string {
	switch m.st.Mode {
	case state.EditFilename, state.OpenPath, state.Find, state.ReplaceFind, state.ReplaceWith:
		return m.activePrompt().view()
	}
	hint := "F1 help  ctrl+l language  ctrl+o open  ctrl+s download  ctrl+q quit"
	if m.ctrl.State().Compact {
		hint = "F1 help  ctrl+e edit  ctrl+q quit"
	}
	return faintStyle.Render(statusbar.Fit(hint, m.st.Width))
}

func (m *model) viewStatus() string {
	cs := m.ctrl.State()
	in := statusbar.Info{
		Language:   m.ctrl.Registry().Label(m.ctrl.Language()),
		Filename:   m.ctrl.Filename(),
		ThemeLabel: cs.Labels.Theme,
		WrapLabel:  cs.Labels.Wrap,
	}
	if sel, ok := m.ed.GetSelection(); ok {
		sel = sel.Normalized()
		in.Selection = fmt.Sprintf("sel %d:%d–%d:%d", sel.StartLine, sel.StartColumn, sel.EndLine, sel.EndColumn)
	}
	line := m.status.View(m.st, in)
	switch m.st.NoticeKind {
	case state.Warn:
		return warnStyle.Render(line)
	case state.Error:
		return errStyle.Render(line)
	}
	return line
}

// ===== helpers =====

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}
