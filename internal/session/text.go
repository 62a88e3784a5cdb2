package session

import "strings"

// Helpers for mapping between 1-based positions and rune offsets in a text.
// Out-of-range positions are clamped to the nearest valid position.

// Offset returns the rune offset of p in text.
func Offset(text string, p Position) int {
	lines := strings.Split(text, "\n")
	line := clamp(p.Line, 1, len(lines))
	off := 0
	for i := 0; i < line-1; i++ {
		off += len([]rune(lines[i])) + 1
	}
	col := clamp(p.Column, 1, len([]rune(lines[line-1]))+1)
	return off + col - 1
}

// PositionAt is the inverse of Offset.
func PositionAt(text string, off int) Position {
	r := []rune(text)
	off = clamp(off, 0, len(r))
	p := Position{Line: 1, Column: 1}
	for _, c := range r[:off] {
		if c == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}

// Slice returns the text covered by rng.
func Slice(text string, rng Range) string {
	rng = rng.Normalized()
	r := []rune(text)
	return string(r[Offset(text, rng.Start()):Offset(text, rng.End())])
}

// Splice replaces the text covered by rng with repl.
func Splice(text string, rng Range, repl string) string {
	rng = rng.Normalized()
	r := []rune(text)
	a, b := Offset(text, rng.Start()), Offset(text, rng.End())
	return string(r[:a]) + repl + string(r[b:])
}

// FullRange covers the whole text.
func FullRange(text string) Range {
	return RangeOf(Position{1, 1}, PositionAt(text, len([]rune(text))))
}

// SpanOf is the range that inserted occupies once placed at start. The end
// line advances by the number of newlines; on a single line the end column
// is start column + length, otherwise it is one past the final line.
func SpanOf(start Position, inserted string) Range {
	lines := strings.Split(inserted, "\n")
	end := Position{Line: start.Line + len(lines) - 1}
	last := len([]rune(lines[len(lines)-1]))
	if len(lines) == 1 {
		end.Column = start.Column + last
	} else {
		end.Column = last + 1
	}
	return RangeOf(start, end)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
