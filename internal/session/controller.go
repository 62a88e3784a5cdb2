package session

import (
	"errors"
	"fmt"
	"strings"

	"codepad/internal/doccache"
	"codepad/internal/filename"
	"codepad/internal/lang"
	"codepad/internal/store"
)

// MIMEText is the type exported documents are tagged with.
const MIMEText = "text/plain;charset=utf-8"

// DefaultLanguage is active when a session starts without a preference.
const DefaultLanguage = "javascript"

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrNoExporter      = errors.New("no exporter")
)

// Exporter hands a finished document to whatever performs the download.
type Exporter interface {
	Export(text, mime, filename string) error
}

// Config wires a Controller to its collaborators.
type Config struct {
	Widget    DocumentWidget
	Documents *doccache.Cache
	Filename  *filename.State
	Registry  *lang.Registry
	Labeler   Labeler

	Language     string
	Preferences  *Preferences
	CompactWidth int
	Viewport     Viewport

	Logf func(format string, args ...any)
}

// State is the whole mutable session: active language, UI toggles and what
// the host last reported about the screen.
type State struct {
	Language  string
	Prefs     Preferences
	Labels    Labels
	Viewport  Viewport
	Compact   bool
	LastFlush store.Result
}

// Controller mediates every transition between languages, files and the
// widget. It is driven from a single event loop and is not safe for
// concurrent use.
type Controller struct {
	widget       DocumentWidget
	docs         *doccache.Cache
	names        *filename.State
	registry     *lang.Registry
	labeler      Labeler
	compactWidth int
	log          func(string, ...any)

	state   State
	overlay *Overlay
}

func New(cfg Config) (*Controller, error) {
	switch {
	case cfg.Widget == nil:
		return nil, fmt.Errorf("session: widget is required")
	case cfg.Documents == nil:
		return nil, fmt.Errorf("session: document cache is required")
	case cfg.Filename == nil:
		return nil, fmt.Errorf("session: filename state is required")
	case cfg.Registry == nil:
		return nil, fmt.Errorf("session: language registry is required")
	}
	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}
	if !cfg.Registry.Has(language) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, language)
	}
	prefs := DefaultPreferences()
	if cfg.Preferences != nil {
		prefs = *cfg.Preferences
	}
	c := &Controller{
		widget:       cfg.Widget,
		docs:         cfg.Documents,
		names:        cfg.Filename,
		registry:     cfg.Registry,
		labeler:      cfg.Labeler,
		compactWidth: cfg.CompactWidth,
		log:          cfg.Logf,
		state:        State{Language: language, Prefs: prefs, Viewport: cfg.Viewport},
	}
	if c.labeler == nil {
		c.labeler = plainLabels{}
	}
	if c.log == nil {
		c.log = func(string, ...any) {}
	}
	c.overlay = &Overlay{c: c}

	c.names.Restore(language)
	c.widget.SetModelLanguage(language)
	c.widget.SetValue(c.docs.Load(language))
	c.widget.SetTheme(prefs.ThemeID())
	c.widget.UpdateOptions(Options{WordWrap: Bool(prefs.Wrap)})
	c.state.Compact = IsCompact(cfg.Viewport, c.compactWidth)
	c.widget.UpdateOptions(LayoutFor(c.state.Compact))
	c.relabel()
	return c, nil
}

func (c *Controller) State() State                   { return c.state }
func (c *Controller) Language() string               { return c.state.Language }
func (c *Controller) Registry() *lang.Registry       { return c.registry }
func (c *Controller) Widget() DocumentWidget         { return c.widget }
func (c *Controller) Overlay() *Overlay              { return c.overlay }
func (c *Controller) Filename() string               { return c.names.Get() }
func (c *Controller) SetFilename(name string)        { c.names.Set(name) }
func (c *Controller) Documents() *doccache.Cache     { return c.docs }
func (c *Controller) FilenameState() *filename.State { return c.names }

// SwitchLanguage makes id the active language. Switching to the language
// that is already active does nothing at all: no flush, no reload, no scroll.
func (c *Controller) SwitchLanguage(id string) (changed bool, err error) {
	if id == c.state.Language {
		return false, nil
	}
	if !c.registry.Has(id) {
		return false, fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
	}
	c.flush(c.state.Language, c.widget.GetValue())

	c.state.Language = id
	text := c.docs.Load(id)
	c.widget.SetModelLanguage(id)
	c.widget.SetValue(text)
	c.widget.SetScrollTop(0)

	if c.names.Empty() {
		c.names.Set(c.names.DefaultFor(id))
	}
	c.log("[session] language %s", id)
	return true, nil
}

// OpenFile replaces the document with a file's content. The language comes
// from the file name; the previous language's text is saved first. An open
// overlay session is dropped since its range belongs to the old document.
func (c *Controller) OpenFile(name, content string) string {
	if c.overlay.IsOpen() {
		c.overlay.Cancel()
		c.log("[session] overlay dropped by open of %s", name)
	}
	c.flush(c.state.Language, c.widget.GetValue())

	id := c.registry.Detect(name)
	c.names.Set(name)
	c.names.Persist(name)

	c.state.Language = id
	c.widget.SetModelLanguage(id)
	c.widget.SetValue(content)
	c.widget.SetScrollTop(0)
	c.flush(id, content)

	c.applyLayout()
	c.log("[session] opened %s as %s (%d bytes)", name, id, len(content))
	return id
}

// Export resolves the filename, remembers it, and hands the document to ex.
func (c *Controller) Export(ex Exporter) (string, error) {
	if ex == nil {
		return "", ErrNoExporter
	}
	name := c.names.ResolveForExport(c.names.Get(), c.state.Language)
	c.names.Set(name)
	c.names.Persist(name)
	if err := ex.Export(c.widget.GetValue(), MIMEText, name); err != nil {
		c.log("[session] export %s failed: %v", name, err)
		return name, fmt.Errorf("export %s: %w", name, err)
	}
	c.log("[session] exported %s", name)
	return name, nil
}

// Unload saves everything that would otherwise be lost when the host exits.
// Safe to call more than once.
func (c *Controller) Unload() {
	c.flush(c.state.Language, c.widget.GetValue())
	if name := strings.TrimSpace(c.names.Get()); name != "" {
		c.names.Persist(name)
	}
}

// FlushCurrent saves the widget's text under the active language.
func (c *Controller) FlushCurrent() store.Result {
	return c.flush(c.state.Language, c.widget.GetValue())
}

func (c *Controller) ToggleTheme() {
	c.state.Prefs.Dark = !c.state.Prefs.Dark
	c.widget.SetTheme(c.state.Prefs.ThemeID())
	c.relabel()
}

func (c *Controller) ToggleWrap() {
	c.state.Prefs.Wrap = !c.state.Prefs.Wrap
	c.widget.UpdateOptions(Options{WordWrap: Bool(c.state.Prefs.Wrap)})
	c.relabel()
}

// Resize records the new viewport and re-applies the layout for it.
// Applying the same viewport repeatedly is harmless.
func (c *Controller) Resize(v Viewport) {
	c.state.Viewport = v
	c.applyLayout()
}

func (c *Controller) Find() error {
	c.widget.Focus()
	return c.widget.RunAction(ActionFind)
}

func (c *Controller) Replace() error {
	c.widget.Focus()
	return c.widget.RunAction(ActionReplace)
}

// SetLabeler swaps the label source (a locale change) and relabels.
func (c *Controller) SetLabeler(l Labeler) {
	if l == nil {
		l = plainLabels{}
	}
	c.labeler = l
	c.relabel()
}

func (c *Controller) applyLayout() {
	c.state.Compact = IsCompact(c.state.Viewport, c.compactWidth)
	c.widget.UpdateOptions(LayoutFor(c.state.Compact))
}

func (c *Controller) relabel() {
	c.state.Labels = Labels{
		Theme: c.labeler.ThemeLabel(c.state.Prefs.Dark),
		Wrap:  c.labeler.WrapLabel(c.state.Prefs.Wrap),
	}
}

func (c *Controller) flush(id, text string) store.Result {
	res := c.docs.Flush(id, text)
	c.state.LastFlush = res
	return res
}
