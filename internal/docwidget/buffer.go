// Package docwidget provides an in-memory session.DocumentWidget. It backs
// the headless CLI commands and stands in for the terminal widget in tests.
package docwidget

import (
	"fmt"
	"strings"

	"codepad/internal/session"
)

type Buffer struct {
	value     string
	language  string
	theme     string
	wrap      bool
	lineNums  bool
	compact   bool
	scrollTop int
	selection session.Range
	revealed  session.Range
	focused   bool
	actions   []string
}

func New() *Buffer {
	return &Buffer{wrap: true, lineNums: true}
}

func (b *Buffer) GetValue() string { return b.value }

func (b *Buffer) SetValue(text string) {
	b.value = text
	b.selection = session.Range{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1}
}

func (b *Buffer) SetModelLanguage(id string) { b.language = id }
func (b *Buffer) SetTheme(theme string)      { b.theme = theme }

func (b *Buffer) UpdateOptions(o session.Options) {
	if o.WordWrap != nil {
		b.wrap = *o.WordWrap
	}
	if o.LineNumbers != nil {
		b.lineNums = *o.LineNumbers
	}
	if o.Compact != nil {
		b.compact = *o.Compact
	}
}

func (b *Buffer) SetScrollTop(top int) { b.scrollTop = top }

func (b *Buffer) GetSelection() (session.Range, bool) {
	if b.selection.Empty() {
		return b.selection, false
	}
	return b.selection, true
}

// Select sets the selection, clamped to the document.
func (b *Buffer) Select(r session.Range) {
	start := session.PositionAt(b.value, session.Offset(b.value, r.Start()))
	end := session.PositionAt(b.value, session.Offset(b.value, r.End()))
	b.selection = session.RangeOf(start, end)
}

func (b *Buffer) GetValueInRange(r session.Range) string { return session.Slice(b.value, r) }

// PushEditOperations applies edits from the last one backwards so earlier
// ranges stay valid, then adopts the computed selection.
func (b *Buffer) PushEditOperations(_ []session.Range, edits []session.EditOperation, compute session.SelectionComputer) {
	inserted := make([]session.Range, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		b.value = session.Splice(b.value, e.Range, e.Text)
		inserted[i] = session.SpanOf(e.Range.Normalized().Start(), e.Text)
	}
	if compute != nil {
		if sels := compute(inserted); len(sels) > 0 {
			b.selection = sels[0]
		}
	}
}

func (b *Buffer) RevealRangeInCenter(r session.Range) { b.revealed = r }
func (b *Buffer) Focus()                              { b.focused = true }

func (b *Buffer) RunAction(id string) error {
	switch id {
	case session.ActionFind, session.ActionReplace:
		b.actions = append(b.actions, id)
		return nil
	}
	return fmt.Errorf("unknown action %q", id)
}

// Inspection helpers.

func (b *Buffer) Language() string         { return b.language }
func (b *Buffer) Theme() string            { return b.theme }
func (b *Buffer) Wrap() bool               { return b.wrap }
func (b *Buffer) LineNumbers() bool        { return b.lineNums }
func (b *Buffer) Compact() bool            { return b.compact }
func (b *Buffer) ScrollTop() int           { return b.scrollTop }
func (b *Buffer) Revealed() session.Range  { return b.revealed }
func (b *Buffer) Focused() bool            { return b.focused }
func (b *Buffer) Actions() []string        { return append([]string(nil), b.actions...) }
func (b *Buffer) Selection() session.Range { return b.selection }

// Scroll simulates the user scrolling down.
func (b *Buffer) Scroll(lines int) {
	b.scrollTop += lines
	if max := strings.Count(b.value, "\n"); b.scrollTop > max {
		b.scrollTop = max
	}
}
