package editor

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// pos is a zero-based line and rune column.
type pos struct{ row, col int }

func (p pos) before(o pos) bool {
	return p.row < o.row || (p.row == o.row && p.col < o.col)
}

// buffer is the document as lines plus a cursor. Lines are split on '\n'
// only and otherwise stored untouched, so tabs, '\r', control characters
// and invalid UTF-8 read back exactly as they were set.
type buffer struct {
	lines []string
	cur   pos
}

func newBuffer() *buffer { return &buffer{lines: []string{""}} }

func (b *buffer) setText(text string) {
	b.lines = strings.Split(text, "\n")
	b.clamp()
}

func (b *buffer) text() string { return strings.Join(b.lines, "\n") }

func (b *buffer) lineLen(row int) int { return utf8.RuneCountInString(b.lines[row]) }

func (b *buffer) last() int { return len(b.lines) - 1 }

func (b *buffer) end() pos { return pos{b.last(), b.lineLen(b.last())} }

// clampPos moves p to the nearest position inside the text.
func (b *buffer) clampPos(p pos) pos {
	p.row = clampInt(p.row, 0, b.last())
	p.col = clampInt(p.col, 0, b.lineLen(p.row))
	return p
}

func (b *buffer) clamp() { b.cur = b.clampPos(b.cur) }

// byteIndex is the byte offset of rune column col in s. Invalid bytes count
// as one column each, as they do in a []rune conversion.
func byteIndex(s string, col int) int {
	i := 0
	for n := 0; n < col && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// insert puts s at the cursor and leaves the cursor after it.
func (b *buffer) insert(s string) {
	line := b.lines[b.cur.row]
	at := byteIndex(line, b.cur.col)
	parts := strings.Split(s, "\n")
	n := len(parts) - 1
	col := utf8.RuneCountInString(parts[n])
	if n == 0 {
		col += b.cur.col
	}
	parts[0] = line[:at] + parts[0]
	parts[n] += line[at:]
	b.lines = slices.Replace(b.lines, b.cur.row, b.cur.row+1, parts...)
	b.cur = pos{b.cur.row + n, col}
}

// remove deletes the text between two positions, in either order, and puts
// the cursor where it was.
func (b *buffer) remove(from, to pos) {
	from, to = b.clampPos(from), b.clampPos(to)
	if to.before(from) {
		from, to = to, from
	}
	head := b.lines[from.row][:byteIndex(b.lines[from.row], from.col)]
	tail := b.lines[to.row][byteIndex(b.lines[to.row], to.col):]
	b.lines = slices.Replace(b.lines, from.row, to.row+1, head+tail)
	b.cur = from
}

func (b *buffer) backspace() {
	if b.cur == (pos{}) {
		return
	}
	b.remove(b.left(), b.cur)
}

func (b *buffer) deleteForward() {
	if b.cur == b.end() {
		return
	}
	b.remove(b.cur, b.right())
}

// killLine deletes to the end of the line, or joins the next line when the
// cursor is already there.
func (b *buffer) killLine() {
	if b.cur.col < b.lineLen(b.cur.row) {
		b.remove(b.cur, pos{b.cur.row, b.lineLen(b.cur.row)})
		return
	}
	b.deleteForward()
}

func (b *buffer) killToStart() { b.remove(pos{b.cur.row, 0}, b.cur) }

func (b *buffer) deleteWordBack() { b.remove(b.wordLeft(), b.cur) }

// left is the position one rune before the cursor, crossing line breaks.
func (b *buffer) left() pos {
	switch {
	case b.cur.col > 0:
		return pos{b.cur.row, b.cur.col - 1}
	case b.cur.row > 0:
		return pos{b.cur.row - 1, b.lineLen(b.cur.row - 1)}
	}
	return b.cur
}

func (b *buffer) right() pos {
	switch {
	case b.cur.col < b.lineLen(b.cur.row):
		return pos{b.cur.row, b.cur.col + 1}
	case b.cur.row < b.last():
		return pos{b.cur.row + 1, 0}
	}
	return b.cur
}

func (b *buffer) wordLeft() pos {
	if b.cur.col == 0 {
		return b.left()
	}
	r := []rune(b.lines[b.cur.row])
	col := b.cur.col
	for col > 0 && unicode.IsSpace(r[col-1]) {
		col--
	}
	for col > 0 && !unicode.IsSpace(r[col-1]) {
		col--
	}
	return pos{b.cur.row, col}
}

func (b *buffer) wordRight() pos {
	r := []rune(b.lines[b.cur.row])
	if b.cur.col == len(r) {
		return b.right()
	}
	col := b.cur.col
	for col < len(r) && unicode.IsSpace(r[col]) {
		col++
	}
	for col < len(r) && !unicode.IsSpace(r[col]) {
		col++
	}
	return pos{b.cur.row, col}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
