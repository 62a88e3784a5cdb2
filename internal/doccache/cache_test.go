package doccache

import (
	"errors"
	"testing"

	"codepad/internal/lang"
	"codepad/internal/store"
)

func newCache(t *testing.T) (*Cache, *store.MemoryBackend) {
	t.Helper()
	mb := store.NewMemoryBackend()
	return New(store.New(mb, nil), lang.Default(), "", nil), mb
}

func TestLoadDefaultsToSnippet(t *testing.T) {
	c, _ := newCache(t)
	reg := lang.Default()
	for _, id := range reg.IDs() {
		want, _ := reg.Snippet(id)
		if got := c.Load(id); got != want {
			t.Errorf("Load(%s) = %q, want snippet %q", id, got, want)
		}
	}
	if got := c.Load("cobol"); got != "" {
		t.Fatalf("unknown language should resolve to empty, got %q", got)
	}
}

func TestFlushLoadRoundTrip(t *testing.T) {
	c, _ := newCache(t)
	for _, text := range []string{"print(1)\n", "", "  \n\t", "日本語のテキスト"} {
		if r := c.Flush("python", text); r.Failed() {
			t.Fatalf("flush: %v", r.Err)
		}
		if got := c.Load("python"); got != text {
			t.Fatalf("round trip: got %q want %q", got, text)
		}
	}
}

func TestKeysAreIsolatedPerLanguage(t *testing.T) {
	c, _ := newCache(t)
	c.Flush("javascript", "js text")
	snippet, _ := lang.Default().Snippet("python")
	if got := c.Load("python"); got != snippet {
		t.Fatalf("python must not see javascript's text, got %q", got)
	}
	if c.Key("python") != "codepad-v1-python" {
		t.Fatalf("unexpected key %q", c.Key("python"))
	}
}

func TestResolveOrder(t *testing.T) {
	none := func(string) (string, bool) { return "", false }
	empty := func(string) (string, bool) { return "", true }
	val := func(v string) Source { return func(string) (string, bool) { return v, true } }

	cases := []struct {
		name    string
		sources []Source
		want    string
	}{
		{"first wins", []Source{val("a"), val("b")}, "a"},
		{"skips absent", []Source{none, val("b")}, "b"},
		{"empty is a value", []Source{empty, val("b")}, ""},
		{"nil source skipped", []Source{nil, val("c")}, "c"},
		{"nothing", []Source{none, none}, ""},
		{"no sources", nil, ""},
	}
	for _, tc := range cases {
		if got := Resolve("x", tc.sources...); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestFlushFailsOpen(t *testing.T) {
	c, mb := newCache(t)
	c.Flush("python", "kept")
	mb.Fail(store.ErrQuotaExceeded)

	r := c.Flush("python", "lost")
	if !errors.Is(r.Err, store.ErrQuotaExceeded) {
		t.Fatalf("expected quota failure, got %v", r.Err)
	}
	// Reads fail too; the policy falls back to the snippet.
	snippet, _ := lang.Default().Snippet("python")
	if got := c.Load("python"); got != snippet {
		t.Fatalf("expected snippet fallback while store is down, got %q", got)
	}
	mb.Fail(nil)
	if got := c.Load("python"); got != "kept" {
		t.Fatalf("expected last successful write, got %q", got)
	}
}
