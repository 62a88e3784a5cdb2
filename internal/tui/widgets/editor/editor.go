package editor

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codepad/internal/session"
)

const (
	tabSpaces     = "    "
	defaultPrompt = "┃ "
)

// Editor is the terminal session.DocumentWidget. It owns the document as a
// line buffer, so GetValue returns exactly what SetValue was given until the
// user edits it. The selection runs from a mark to the cursor.
type Editor struct {
	buf      *buffer
	language string
	theme    string
	wrap     bool
	compact  bool
	focused  bool
	styles   styles

	lineNumbers bool
	prompt      string

	width, height int
	top, topSeg   int // first visible line and visual row within it
	hscroll       int
	goal          int // display column kept by vertical moves, -1 when unset

	mark     *session.Position
	revealed session.Range
	pending  []string // actions requested through RunAction
}

func New() *Editor {
	e := &Editor{
		buf:         newBuffer(),
		wrap:        true,
		theme:       session.ThemeDark,
		lineNumbers: true,
		prompt:      defaultPrompt,
		goal:        -1,
	}
	e.styles = newStyles(e.theme, e.focused)
	e.SetSize(80, 20)
	return e
}

// session.DocumentWidget

func (e *Editor) GetValue() string { return e.buf.text() }

// SetValue replaces the text and puts the cursor at the top, clearing any
// selection.
func (e *Editor) SetValue(text string) {
	e.buf.setText(text)
	e.mark = nil
	e.top, e.topSeg, e.hscroll = 0, 0, 0
	e.moveTo(session.Position{Line: 1, Column: 1})
}

func (e *Editor) SetModelLanguage(id string) { e.language = id }

func (e *Editor) SetTheme(theme string) {
	e.theme = theme
	e.styles = newStyles(e.theme, e.focused)
}

func (e *Editor) UpdateOptions(o session.Options) {
	if o.WordWrap != nil {
		e.wrap = *o.WordWrap
		e.hscroll = 0
		e.topSeg = 0
	}
	if o.LineNumbers != nil {
		e.lineNumbers = *o.LineNumbers
	}
	if o.Compact != nil {
		e.compact = *o.Compact
		if e.compact {
			e.prompt = ""
		} else {
			e.prompt = defaultPrompt
		}
	}
	e.followCursor()
}

// SetScrollTop makes line top+1 the first visible line and moves the cursor
// there.
func (e *Editor) SetScrollTop(top int) {
	e.moveTo(session.Position{Line: top + 1, Column: 1})
	e.top, e.topSeg, e.hscroll = e.buf.cur.row, 0, 0
}

func (e *Editor) GetSelection() (session.Range, bool) {
	cur := e.Cursor()
	if e.mark == nil {
		return session.RangeOf(cur, cur), false
	}
	r := session.RangeOf(*e.mark, cur)
	return r, !r.Empty()
}

func (e *Editor) GetValueInRange(r session.Range) string {
	return session.Slice(e.GetValue(), r)
}

func (e *Editor) PushEditOperations(_ []session.Range, edits []session.EditOperation, compute session.SelectionComputer) {
	text := e.GetValue()
	inserted := make([]session.Range, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		text = session.Splice(text, edits[i].Range, edits[i].Text)
		inserted[i] = session.SpanOf(edits[i].Range.Normalized().Start(), edits[i].Text)
	}
	e.buf.setText(text)
	e.mark = nil
	if compute != nil {
		if sels := compute(inserted); len(sels) > 0 {
			e.Select(sels[0])
			return
		}
	}
	e.followCursor()
}

// RevealRangeInCenter moves the cursor to the end of r and scrolls it to
// the middle of the screen. The selection is left alone.
func (e *Editor) RevealRangeInCenter(r session.Range) {
	e.revealed = r
	e.moveTo(r.Start())
	e.moveTo(r.End())
	e.top, e.topSeg = max(0, e.buf.cur.row-e.height/2), 0
	e.followCursor()
}

func (e *Editor) Focus() {
	e.focused = true
	e.styles = newStyles(e.theme, true)
}

func (e *Editor) RunAction(id string) error {
	switch id {
	case session.ActionFind, session.ActionReplace:
		e.pending = append(e.pending, id)
		return nil
	}
	return fmt.Errorf("unknown action %q", id)
}

// Host side

func (e *Editor) Blur() {
	e.focused = false
	e.styles = newStyles(e.theme, false)
}

// TakeActions returns and clears the actions requested since the last call.
func (e *Editor) TakeActions() []string {
	out := e.pending
	e.pending = nil
	return out
}

func (e *Editor) Language() string        { return e.language }
func (e *Editor) Theme() string           { return e.theme }
func (e *Editor) Wrap() bool              { return e.wrap }
func (e *Editor) Compact() bool           { return e.compact }
func (e *Editor) LineNumbers() bool       { return e.lineNumbers }
func (e *Editor) Focused() bool           { return e.focused }
func (e *Editor) Revealed() session.Range { return e.revealed }
func (e *Editor) HasMark() bool           { return e.mark != nil }
func (e *Editor) LineCount() int          { return len(e.buf.lines) }

// Cursor is the 1-based logical cursor position.
func (e *Editor) Cursor() session.Position {
	return session.Position{Line: e.buf.cur.row + 1, Column: e.buf.cur.col + 1}
}

// Select makes r the selection: the mark goes to its start and the cursor
// to its end.
func (e *Editor) Select(r session.Range) {
	start := e.buf.clampPos(pos{r.StartLine - 1, r.StartColumn - 1})
	e.mark = &session.Position{Line: start.row + 1, Column: start.col + 1}
	e.moveTo(r.End())
}

// ToggleMark starts a selection at the cursor, or drops the current one.
func (e *Editor) ToggleMark() bool {
	if e.mark != nil {
		e.mark = nil
		return false
	}
	cur := e.Cursor()
	e.mark = &cur
	return true
}

func (e *Editor) ClearMark() { e.mark = nil }

func (e *Editor) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.followCursor()
}

// Update applies one key to the document. Other messages are ignored.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok || !e.focused {
		return nil
	}
	b := e.buf
	keepGoal := false
	edited := true
	switch k.Type {
	case tea.KeyRunes:
		text := string(k.Runes)
		if k.Paste {
			// terminals send pasted line breaks as '\r'
			text = strings.ReplaceAll(text, "\r\n", "\n")
			text = strings.ReplaceAll(text, "\r", "\n")
		}
		b.insert(text)
	case tea.KeySpace:
		b.insert(" ")
	case tea.KeyEnter:
		b.insert("\n")
	case tea.KeyTab:
		b.insert(tabSpaces)
	case tea.KeyBackspace, tea.KeyCtrlH:
		if k.Alt {
			b.deleteWordBack()
		} else {
			b.backspace()
		}
	case tea.KeyDelete:
		b.deleteForward()
	case tea.KeyCtrlW:
		b.deleteWordBack()
	case tea.KeyCtrlK:
		b.killLine()
	case tea.KeyCtrlU:
		b.killToStart()
	default:
		edited = false
		switch k.Type {
		case tea.KeyLeft:
			if k.Alt {
				b.cur = b.wordLeft()
			} else {
				b.cur = b.left()
			}
		case tea.KeyRight:
			if k.Alt {
				b.cur = b.wordRight()
			} else {
				b.cur = b.right()
			}
		case tea.KeyCtrlLeft:
			b.cur = b.wordLeft()
		case tea.KeyCtrlRight:
			b.cur = b.wordRight()
		case tea.KeyUp:
			e.moveRows(-1)
			keepGoal = true
		case tea.KeyDown:
			e.moveRows(1)
			keepGoal = true
		case tea.KeyPgUp:
			e.moveRows(-e.height)
			keepGoal = true
		case tea.KeyPgDown:
			e.moveRows(e.height)
			keepGoal = true
		case tea.KeyHome, tea.KeyCtrlA:
			b.cur.col = 0
		case tea.KeyEnd:
			b.cur.col = b.lineLen(b.cur.row)
		case tea.KeyCtrlHome:
			b.cur = pos{}
		case tea.KeyCtrlEnd:
			b.cur = b.end()
		default:
			return nil
		}
	}
	if edited {
		e.mark = nil
	}
	if !keepGoal {
		e.goal = -1
	}
	e.followCursor()
	return nil
}

// View draws the visible rows, each exactly the editor's width when the
// width leaves room for the text.
func (e *Editor) View() string {
	width := e.textWidth()
	wrapAt := 0
	if e.wrap {
		wrapAt = width
	}
	digits := len(strconv.Itoa(len(e.buf.lines)))
	out := make([]string, 0, e.height)
	seg := e.topSeg
	for row := e.top; row < len(e.buf.lines) && len(out) < e.height; row++ {
		rows := layoutLine(e.buf.lines[row], wrapAt)
		for ; seg < len(rows) && len(out) < e.height; seg++ {
			out = append(out, e.renderRow(row, seg, rows, digits, width))
		}
		seg = 0
	}
	for len(out) < e.height {
		out = append(out, strings.Repeat(" ", e.gutterWidth()+width))
	}
	return strings.Join(out, "\n")
}

// FindNext selects the next occurrence of query after the cursor, wrapping
// around to the top. It reports whether anything was found.
func (e *Editor) FindNext(query string) bool {
	if query == "" {
		return false
	}
	text := e.GetValue()
	runes := []rune(text)
	q := []rune(query)
	from := session.Offset(text, e.Cursor())
	idx := indexRunes(runes, q, from)
	if idx < 0 {
		idx = indexRunes(runes, q, 0)
	}
	if idx < 0 {
		return false
	}
	e.Select(session.RangeOf(session.PositionAt(text, idx), session.PositionAt(text, idx+len(q))))
	return true
}

// ReplaceAll replaces every occurrence of query and returns the count. The
// cursor stays where it was, clamped to the new text.
func (e *Editor) ReplaceAll(query, repl string) int {
	if query == "" {
		return 0
	}
	text := e.GetValue()
	n := strings.Count(text, query)
	if n == 0 {
		return 0
	}
	e.buf.setText(strings.ReplaceAll(text, query, repl))
	e.mark = nil
	e.followCursor()
	return n
}

func indexRunes(s, q []rune, from int) int {
	for i := from; i+len(q) <= len(s); i++ {
		match := true
		for j := range q {
			if s[i+j] != q[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// moveTo puts the cursor at p, clamped to the text.
func (e *Editor) moveTo(p session.Position) {
	e.buf.cur = e.buf.clampPos(pos{p.Line - 1, p.Column - 1})
	e.goal = -1
	e.followCursor()
}

// layout is line row split into the visual rows it is drawn on.
func (e *Editor) layout(row int) [][]cell {
	if !e.wrap {
		return layoutLine(e.buf.lines[row], 0)
	}
	return layoutLine(e.buf.lines[row], e.textWidth())
}

// moveRows moves the cursor n visual rows down, or up when n is negative,
// keeping the display column it started from.
func (e *Editor) moveRows(n int) {
	b := e.buf
	rows := e.layout(b.cur.row)
	seg := rowOf(rows, b.cur.col)
	if e.goal < 0 {
		e.goal = xOf(rows[seg], b.cur.col)
	}
	for ; n < 0 && (seg > 0 || b.cur.row > 0); n++ {
		if seg > 0 {
			seg--
			continue
		}
		b.cur.row--
		rows = e.layout(b.cur.row)
		seg = len(rows) - 1
	}
	for ; n > 0 && (seg < len(rows)-1 || b.cur.row < b.last()); n-- {
		if seg < len(rows)-1 {
			seg++
			continue
		}
		b.cur.row++
		rows = e.layout(b.cur.row)
		seg = 0
	}
	b.cur.col = colAt(rows, seg, e.goal, b.lineLen(b.cur.row))
}

// followCursor scrolls so the cursor is visible.
func (e *Editor) followCursor() {
	if e.height <= 0 {
		return
	}
	b := e.buf
	b.clamp()
	rows := e.layout(b.cur.row)
	seg := rowOf(rows, b.cur.col)

	if !e.wrap {
		width := e.textWidth()
		x := xOf(rows[0], b.cur.col)
		if x < e.hscroll {
			e.hscroll = x
		}
		if x >= e.hscroll+width {
			e.hscroll = x - width + 1
		}
	}

	e.top = clampInt(e.top, 0, b.last())
	e.topSeg = clampInt(e.topSeg, 0, len(e.layout(e.top))-1)
	if b.cur.row < e.top || (b.cur.row == e.top && seg < e.topSeg) {
		e.top, e.topSeg = b.cur.row, seg
		return
	}
	if b.cur.row-e.top >= e.height {
		e.top, e.topSeg = b.cur.row-e.height+1, 0
	}
	// visual rows from the top of the screen to the cursor, inclusive
	n := seg + 1 - e.topSeg
	for r := e.top; r < b.cur.row; r++ {
		n += len(e.layout(r))
	}
	for ; n > e.height; n-- {
		if e.topSeg+1 < len(e.layout(e.top)) {
			e.topSeg++
		} else {
			e.top, e.topSeg = e.top+1, 0
		}
	}
}

func (e *Editor) gutterWidth() int {
	w := lipgloss.Width(e.prompt)
	if e.lineNumbers {
		w += len(strconv.Itoa(len(e.buf.lines))) + 2
	}
	return w
}

// textWidth is the number of columns left for text after the gutter.
func (e *Editor) textWidth() int {
	return max(1, e.width-e.gutterWidth())
}
