package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"codepad/internal/doccache"
	"codepad/internal/filename"
	"codepad/internal/lang"
	"codepad/internal/session"
	"codepad/internal/store"
)

func rng(sl, sc, el, ec int) session.Range {
	return session.Range{StartLine: sl, StartColumn: sc, EndLine: el, EndColumn: ec}
}

func TestSetValueResetsCursorAndSelection(t *testing.T) {
	e := New()
	e.SetValue("one\ntwo\nthree")
	if e.GetValue() != "one\ntwo\nthree" {
		t.Fatalf("value = %q", e.GetValue())
	}
	if got := e.Cursor(); got != (session.Position{Line: 1, Column: 1}) {
		t.Fatalf("cursor = %+v", got)
	}
	if _, ok := e.GetSelection(); ok {
		t.Fatalf("no selection expected")
	}
}

func TestSelectAndRead(t *testing.T) {
	e := New()
	e.SetValue("one\ntwo\nthree")
	e.Select(rng(2, 2, 3, 3))
	sel, ok := e.GetSelection()
	if !ok {
		t.Fatalf("expected selection")
	}
	if diff := cmp.Diff(rng(2, 2, 3, 3), sel); diff != "" {
		t.Fatalf("selection (-want +got):\n%s", diff)
	}
	if got := e.GetValueInRange(sel); got != "wo\nth" {
		t.Fatalf("value in range = %q", got)
	}
}

func TestOverlayStyleEdit(t *testing.T) {
	e := New()
	e.SetValue("abcdef")
	e.Select(rng(1, 3, 1, 5))
	sel, _ := e.GetSelection()
	want := session.SpanOf(sel.Start(), "XY\nZ")
	e.PushEditOperations([]session.Range{sel},
		[]session.EditOperation{{Range: sel, Text: "XY\nZ"}},
		func([]session.Range) []session.Range { return []session.Range{want} })
	if e.GetValue() != "abXY\nZef" {
		t.Fatalf("value = %q", e.GetValue())
	}
	got, ok := e.GetSelection()
	if !ok {
		t.Fatalf("expected selection over inserted text")
	}
	if diff := cmp.Diff(rng(1, 3, 2, 2), got); diff != "" {
		t.Fatalf("selection (-want +got):\n%s", diff)
	}
}

func TestFindAndReplace(t *testing.T) {
	e := New()
	e.SetValue("foo bar\nfoo baz")
	if !e.FindNext("foo") {
		t.Fatalf("first foo not found")
	}
	sel, _ := e.GetSelection()
	if diff := cmp.Diff(rng(1, 1, 1, 4), sel); diff != "" {
		t.Fatalf("first match (-want +got):\n%s", diff)
	}
	e.FindNext("foo")
	sel, _ = e.GetSelection()
	if diff := cmp.Diff(rng(2, 1, 2, 4), sel); diff != "" {
		t.Fatalf("second match (-want +got):\n%s", diff)
	}
	e.FindNext("foo")
	sel, _ = e.GetSelection()
	if sel.StartLine != 1 {
		t.Fatalf("search should wrap around, got %+v", sel)
	}
	if e.FindNext("nope") {
		t.Fatalf("found something that is not there")
	}

	if n := e.ReplaceAll("foo", "qux"); n != 2 {
		t.Fatalf("replaced %d", n)
	}
	if e.GetValue() != "qux bar\nqux baz" {
		t.Fatalf("value = %q", e.GetValue())
	}
}

func TestOptionsAndActions(t *testing.T) {
	e := New()
	e.UpdateOptions(session.LayoutFor(true))
	if !e.Compact() || e.LineNumbers() {
		t.Fatalf("compact layout not applied")
	}
	e.UpdateOptions(session.Options{WordWrap: session.Bool(false)})
	if e.Wrap() {
		t.Fatalf("wrap should be off")
	}
	if err := e.RunAction(session.ActionReplace); err != nil {
		t.Fatal(err)
	}
	if err := e.RunAction("editor.action.nope"); err == nil {
		t.Fatalf("unknown action accepted")
	}
	if diff := cmp.Diff([]string{session.ActionReplace}, e.TakeActions()); diff != "" {
		t.Fatalf("actions (-want +got):\n%s", diff)
	}
	if len(e.TakeActions()) != 0 {
		t.Fatalf("actions should be drained")
	}
}

func TestUnwrappedViewIsCut(t *testing.T) {
	e := New()
	e.SetSize(20, 3)
	e.UpdateOptions(session.Options{WordWrap: session.Bool(false)})
	e.SetValue(strings.Repeat("x", 100))
	for _, l := range strings.Split(e.View(), "\n") {
		if w := ansi.StringWidth(l); w > 20 {
			t.Fatalf("line wider than the editor: %d", w)
		}
	}
}

func TestMarkToggle(t *testing.T) {
	e := New()
	e.SetValue("hello")
	if !e.ToggleMark() || !e.HasMark() {
		t.Fatalf("mark should be set")
	}
	e.Select(rng(1, 1, 1, 3))
	if got := e.GetValueInRange(mustSel(t, e)); got != "he" {
		t.Fatalf("selected %q", got)
	}
	if e.ToggleMark() || e.HasMark() {
		t.Fatalf("mark should be cleared")
	}
}

func mustSel(t *testing.T, e *Editor) session.Range {
	t.Helper()
	r, ok := e.GetSelection()
	if !ok {
		t.Fatalf("no selection")
	}
	return r
}

// opaque holds content that a sanitizing text box would rewrite.
var opaque = map[string]string{
	"tab":       "def f():\n\treturn 1\n",
	"crlf":      "a\r\nb\r\n",
	"escape":    "x\x1by\n",
	"delete":    "x\x7fy",
	"nul":       "a\x00b",
	"c1":        "a\u0085b",
	"fffd":      "a\uFFFDb\n",
	"invalid":   "a\xffb",
	"wide":      "日本語\tx",
	"manyLines": strings.Repeat("x\n", 10001),
}

func TestValueIsKeptExactly(t *testing.T) {
	for name, text := range opaque {
		t.Run(name, func(t *testing.T) {
			e := New()
			e.SetSize(20, 5)
			e.SetValue(text)
			if got := e.GetValue(); got != text {
				t.Fatalf("value = %q, want %q", got, text)
			}
			e.Focus()
			for _, l := range strings.Split(ansi.Strip(e.View()), "\n") {
				if w := ansi.StringWidth(l); w > 20 {
					t.Fatalf("line wider than the editor: %d %q", w, l)
				}
			}
		})
	}
}

func TestManyLinesAreReachable(t *testing.T) {
	e := New()
	e.SetSize(40, 10)
	e.SetValue(opaque["manyLines"])
	if e.LineCount() != 10002 {
		t.Fatalf("line count = %d", e.LineCount())
	}
	e.Focus()
	e.Update(tea.KeyMsg{Type: tea.KeyCtrlEnd})
	if got := e.Cursor(); got != (session.Position{Line: 10002, Column: 1}) {
		t.Fatalf("cursor = %+v", got)
	}
	if !strings.Contains(ansi.Strip(e.View()), "10001") {
		t.Fatalf("last lines not scrolled into view:\n%s", ansi.Strip(e.View()))
	}
}

func TestTypingLeavesTheRestUntouched(t *testing.T) {
	text := "a\tb\x1bc\r\n\td\uFFFD"
	e := New()
	e.SetValue(text)
	e.Focus()
	e.Update(tea.KeyMsg{Type: tea.KeyCtrlEnd})
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	if got := e.GetValue(); got != text+"!" {
		t.Fatalf("value = %q", got)
	}
	e.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := e.GetValue(); got != text {
		t.Fatalf("after backspace = %q", got)
	}
}

func TestControlCharactersAreVisible(t *testing.T) {
	e := New()
	e.SetValue("x\x1by\tz\r")
	v := ansi.Strip(e.View())
	if !strings.Contains(v, "x␛y z") {
		t.Fatalf("view = %q", strings.SplitN(v, "\n", 2)[0])
	}
	if strings.Contains(v, "␍") {
		t.Fatalf("a carriage return ending the line should not be drawn")
	}
}

type captured struct{ text, mime, name string }

func (c *captured) Export(text, mime, name string) error {
	c.text, c.mime, c.name = text, mime, name
	return nil
}

func TestControllerRoundTrip(t *testing.T) {
	for name, text := range opaque {
		t.Run(name, func(t *testing.T) {
			mem := store.NewMemoryBackend()
			st := store.New(mem, nil)
			reg := lang.Default()
			docs := doccache.New(st, reg, doccache.DefaultPrefix, nil)
			ctrl, err := session.New(session.Config{
				Widget:    New(),
				Documents: docs,
				Filename:  filename.New(st, reg, doccache.Key(doccache.DefaultPrefix, "filename"), nil),
				Registry:  reg,
			})
			if err != nil {
				t.Fatal(err)
			}
			id := ctrl.OpenFile("f.py", text)
			var out captured
			if _, err := ctrl.Export(&out); err != nil {
				t.Fatal(err)
			}
			if out.text != text {
				t.Fatalf("exported %q, want %q", out.text, text)
			}
			ctrl.Unload()
			if got := docs.Load(id); got != text {
				t.Fatalf("stored %q, want %q", got, text)
			}
		})
	}
}

func TestEditingKeys(t *testing.T) {
	e := New()
	e.SetValue("one two\nthree")
	e.Focus()
	press := func(ts ...tea.KeyType) {
		for _, k := range ts {
			e.Update(tea.KeyMsg{Type: k})
		}
	}

	press(tea.KeyEnd, tea.KeyDelete)
	if e.GetValue() != "one twothree" {
		t.Fatalf("delete at line end = %q", e.GetValue())
	}
	press(tea.KeyEnter)
	if e.GetValue() != "one two\nthree" || e.Cursor() != (session.Position{Line: 2, Column: 1}) {
		t.Fatalf("enter = %q at %+v", e.GetValue(), e.Cursor())
	}
	press(tea.KeyBackspace)
	if e.GetValue() != "one twothree" {
		t.Fatalf("backspace at line start = %q", e.GetValue())
	}
	press(tea.KeyHome, tea.KeyCtrlRight, tea.KeyCtrlK)
	if e.GetValue() != "one" {
		t.Fatalf("kill line = %q", e.GetValue())
	}
	press(tea.KeyCtrlW)
	if e.GetValue() != "" {
		t.Fatalf("delete word = %q", e.GetValue())
	}
	press(tea.KeyTab)
	if e.GetValue() != "    " {
		t.Fatalf("tab = %q", e.GetValue())
	}
}

func TestPasteNormalizesLineBreaks(t *testing.T) {
	e := New()
	e.Focus()
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\r\nb\rc"), Paste: true})
	if e.GetValue() != "a\nb\nc" {
		t.Fatalf("pasted = %q", e.GetValue())
	}
}

func TestVerticalMoveKeepsColumn(t *testing.T) {
	e := New()
	e.SetValue("hello\nhi\nworld")
	e.Focus()
	e.Update(tea.KeyMsg{Type: tea.KeyEnd})
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := e.Cursor(); got != (session.Position{Line: 2, Column: 3}) {
		t.Fatalf("short line = %+v", got)
	}
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := e.Cursor(); got != (session.Position{Line: 3, Column: 6}) {
		t.Fatalf("goal column lost: %+v", got)
	}
}

func TestWrappedLineMovesByRow(t *testing.T) {
	e := New()
	e.SetSize(10, 5) // prompt and gutter leave five columns
	e.SetValue("abcdefghij\nz")
	e.Focus()
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := e.Cursor(); got != (session.Position{Line: 1, Column: 6}) {
		t.Fatalf("down inside a wrapped line = %+v", got)
	}
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := e.Cursor(); got != (session.Position{Line: 2, Column: 1}) {
		t.Fatalf("down to the next line = %+v", got)
	}
}

func TestBlurredEditorIgnoresKeys(t *testing.T) {
	e := New()
	e.SetValue("abc")
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if e.GetValue() != "abc" {
		t.Fatalf("unfocused editor took input")
	}
}
