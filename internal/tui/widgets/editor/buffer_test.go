package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInsertMultiline(t *testing.T) {
	b := newBuffer()
	b.setText("head|tail")
	b.cur = pos{0, 5}
	b.insert("one\ntwo\nthree")
	if got := b.text(); got != "head|one\ntwo\nthreetail" {
		t.Fatalf("text = %q", got)
	}
	if diff := cmp.Diff(pos{2, 5}, b.cur, cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("cursor (-want +got):\n%s", diff)
	}
}

func TestRemoveAcrossLines(t *testing.T) {
	b := newBuffer()
	b.setText("abc\ndef\nghi")
	b.remove(pos{2, 1}, pos{0, 2})
	if got := b.text(); got != "abhi" {
		t.Fatalf("text = %q", got)
	}
	if diff := cmp.Diff(pos{0, 2}, b.cur, cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("cursor (-want +got):\n%s", diff)
	}
}

func TestInvalidBytesCountAsColumns(t *testing.T) {
	b := newBuffer()
	b.setText("a\xff\xfeb")
	if n := b.lineLen(0); n != 4 {
		t.Fatalf("line length = %d", n)
	}
	b.cur = pos{0, 3}
	b.insert("-")
	if got := b.text(); got != "a\xff\xfe-b" {
		t.Fatalf("text = %q", got)
	}
}

func TestWordMotion(t *testing.T) {
	b := newBuffer()
	b.setText("foo  bar\nbaz")
	b.cur = pos{0, 8}
	if diff := cmp.Diff(pos{0, 5}, b.wordLeft(), cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("word left (-want +got):\n%s", diff)
	}
	b.cur = pos{0, 3}
	if diff := cmp.Diff(pos{0, 8}, b.wordRight(), cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("word right (-want +got):\n%s", diff)
	}
	b.cur = pos{1, 0}
	if diff := cmp.Diff(pos{0, 8}, b.wordLeft(), cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("word left across lines (-want +got):\n%s", diff)
	}
}

func TestEdgesAreNoops(t *testing.T) {
	b := newBuffer()
	b.setText("x")
	b.backspace()
	b.cur = b.end()
	b.deleteForward()
	if b.text() != "x" {
		t.Fatalf("text = %q", b.text())
	}
	b.cur = pos{5, 9}
	b.clamp()
	if diff := cmp.Diff(pos{0, 1}, b.cur, cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("clamped cursor (-want +got):\n%s", diff)
	}
}
