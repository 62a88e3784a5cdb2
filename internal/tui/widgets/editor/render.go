package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"codepad/internal/session"
	"codepad/internal/tui/util"
)

const tabWidth = 4

// glyph is how rune r is drawn when it starts at display column x. Tabs
// expand to the next stop, control characters show as control pictures and
// a '\r' ending the line is not drawn. ctrl marks the substituted glyphs.
func glyph(r rune, x int, last bool) (text string, width int, ctrl bool) {
	switch {
	case r == '\t':
		n := tabWidth - x%tabWidth
		return strings.Repeat(" ", n), n, false
	case r == '\r' && last:
		return "", 0, false
	case r < 0x20:
		return string(0x2400 + r), 1, true
	case r == 0x7f:
		return "␡", 1, true
	case unicode.IsControl(r):
		return "␦", 1, true
	}
	return string(r), runewidth.RuneWidth(r), false
}

// cell is one drawn rune of a line.
type cell struct {
	text string
	col  int // rune column in the line
	x    int // display column from the start of its visual row
	w    int
	ctrl bool
}

// layoutLine splits a line into visual rows of at most width cells. A width
// of zero or less keeps the line on one row.
func layoutLine(line string, width int) [][]cell {
	rows := [][]cell{nil}
	n := utf8.RuneCountInString(line)
	x, col := 0, 0
	for _, r := range line {
		text, w, ctrl := glyph(r, x, col == n-1)
		if width > 0 && x > 0 && x+w > width {
			rows = append(rows, nil)
			x = 0
			text, w, ctrl = glyph(r, 0, col == n-1)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], cell{text: text, col: col, x: x, w: w, ctrl: ctrl})
		x += w
		col++
	}
	// a full last row leaves no room for the cursor after the line
	if width > 0 && x >= width {
		rows = append(rows, nil)
	}
	return rows
}

// rowOf is the visual row that holds column col.
func rowOf(rows [][]cell, col int) int {
	for i := len(rows) - 1; i > 0; i-- {
		if len(rows[i]) == 0 || rows[i][0].col <= col {
			return i
		}
	}
	return 0
}

// xOf is the display column of col within one visual row.
func xOf(cells []cell, col int) int {
	for _, c := range cells {
		if c.col == col {
			return c.x
		}
	}
	if len(cells) == 0 {
		return 0
	}
	l := cells[len(cells)-1]
	return l.x + l.w
}

// colAt is the rune column drawn at display column x of visual row seg.
func colAt(rows [][]cell, seg, x, lineLen int) int {
	cells := rows[seg]
	for _, c := range cells {
		if x < c.x+c.w {
			return c.col
		}
	}
	if seg == len(rows)-1 || len(cells) == 0 {
		return lineLen
	}
	return cells[len(cells)-1].col
}

type styles struct {
	text             lipgloss.Style
	cursorLine       lipgloss.Style
	lineNumber       lipgloss.Style
	cursorLineNumber lipgloss.Style
	prompt           lipgloss.Style
	ctrl             lipgloss.Style
	selected         lipgloss.Style
	cursor           lipgloss.Style
}

func newStyles(theme string, focused bool) styles {
	p := util.ThemePalette(theme != session.ThemeLight)
	text := lipgloss.NewStyle().Foreground(p.Foreground)
	s := styles{
		text:             text,
		cursorLine:       text.Background(p.CursorLine),
		lineNumber:       lipgloss.NewStyle().Foreground(p.Muted),
		cursorLineNumber: lipgloss.NewStyle().Foreground(p.Primary).Background(p.CursorLine),
		prompt:           lipgloss.NewStyle().Foreground(p.Primary),
		ctrl:             lipgloss.NewStyle().Foreground(p.Warning),
		selected:         text.Background(p.MutedDark),
		cursor:           text.Reverse(true),
	}
	if !focused {
		s.cursorLine = text
		s.cursorLineNumber = s.lineNumber
		s.prompt = lipgloss.NewStyle().Foreground(p.Muted)
	}
	return s
}

type kind int

const (
	plain kind = iota
	ctrlGlyph
	selection
	cursorCell
)

type span struct {
	kind kind
	text string
}

// renderRow draws visual row seg of line row: the gutter, then the cells
// that fit in width columns starting at the horizontal scroll offset.
func (e *Editor) renderRow(row, seg int, rows [][]cell, digits, width int) string {
	st := e.styles
	onCursor := row == e.buf.cur.row
	base := st.text
	if onCursor {
		base = st.cursorLine
	}

	var b strings.Builder
	if e.prompt != "" {
		b.WriteString(st.prompt.Render(e.prompt))
	}
	if e.lineNumbers {
		num := strings.Repeat(" ", digits+2)
		if seg == 0 {
			num = fmt.Sprintf(" %*d ", digits, row+1)
		}
		if onCursor {
			b.WriteString(st.cursorLineNumber.Render(num))
		} else {
			b.WriteString(st.lineNumber.Render(num))
		}
	}

	from, selTo, hasSel := e.selectionPos()
	cursorHere := e.focused && onCursor && rowOf(rows, e.buf.cur.col) == seg
	left, right := e.hscroll, e.hscroll+width
	var spans []span
	add := func(k kind, text string) {
		if n := len(spans); n > 0 && spans[n-1].kind == k {
			spans[n-1].text += text
			return
		}
		spans = append(spans, span{k, text})
	}
	drawn := 0
	cursorDrawn := false
	for _, c := range rows[seg] {
		if c.x < left && c.x+c.w <= left {
			continue
		}
		if c.x >= right {
			break
		}
		k := plain
		switch p := (pos{row, c.col}); {
		case cursorHere && c.col == e.buf.cur.col:
			k = cursorCell
			cursorDrawn = true
		case hasSel && !p.before(from) && p.before(selTo):
			k = selection
		case c.ctrl:
			k = ctrlGlyph
		}
		text := c.text
		if c.x < left || c.x+c.w > right {
			// wide or tab cell cut by the edge
			w := min(c.x+c.w, right) - max(c.x, left)
			text = strings.Repeat(" ", w)
		}
		if k == cursorCell && c.w == 0 {
			text = " "
		}
		add(k, text)
		drawn += lipgloss.Width(text)
	}
	if cursorHere && !cursorDrawn && drawn < width {
		add(cursorCell, " ")
		drawn++
	}
	if drawn < width {
		add(plain, strings.Repeat(" ", width-drawn))
	}
	for _, sp := range spans {
		style := base
		switch sp.kind {
		case ctrlGlyph:
			style = st.ctrl.Background(base.GetBackground())
		case selection:
			style = st.selected
		case cursorCell:
			style = st.cursor
		}
		b.WriteString(style.Render(sp.text))
	}
	return b.String()
}

// selectionPos is the selection as ordered buffer positions.
func (e *Editor) selectionPos() (from, to pos, ok bool) {
	if e.mark == nil {
		return pos{}, pos{}, false
	}
	m := e.buf.clampPos(pos{e.mark.Line - 1, e.mark.Column - 1})
	c := e.buf.cur
	if c.before(m) {
		return c, m, true
	}
	return m, c, m != c
}
