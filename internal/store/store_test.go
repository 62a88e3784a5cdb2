package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLookupDistinguishesEmptyFromAbsent(t *testing.T) {
	s := New(NewMemoryBackend(), nil)
	if l := s.Get("k"); l.Found || l.Failed() {
		t.Fatalf("expected absent key, got %+v", l)
	}
	if r := s.Set("k", ""); r.Failed() {
		t.Fatalf("set: %v", r.Err)
	}
	l := s.Get("k")
	if !l.Found || l.Value != "" {
		t.Fatalf("expected stored empty string, got %+v", l)
	}
}

func TestFailuresBecomeResults(t *testing.T) {
	mb := NewMemoryBackend()
	var logged []string
	s := New(mb, func(format string, args ...any) { logged = append(logged, format) })

	mb.Fail(ErrUnavailable)
	r := s.Set("k", "v")
	if !r.Failed() || !errors.Is(r.Err, ErrUnavailable) {
		t.Fatalf("expected unavailable failure, got %+v", r)
	}
	if r.Reason() == "" {
		t.Fatalf("expected a reason")
	}
	if l := s.Get("k"); !l.Failed() || l.Found {
		t.Fatalf("expected failed lookup, got %+v", l)
	}
	if len(logged) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(logged))
	}

	mb.Fail(nil)
	if r := s.Set("k", "v"); !r.OK() {
		t.Fatalf("expected healed backend, got %v", r.Err)
	}
}

type panicky struct{}

func (panicky) GetItem(string) (string, bool, error) { panic("boom") }
func (panicky) SetItem(string, string) error         { panic("boom") }

func TestPanickingBackendDoesNotEscape(t *testing.T) {
	s := New(panicky{}, nil)
	if r := s.Set("k", "v"); !errors.Is(r.Err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", r.Err)
	}
	if l := s.Get("k"); !errors.Is(l.Err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", l.Err)
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if r := s.Set("k", "v"); !errors.Is(r.Err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", r.Err)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	fb := NewFileBackend(path, 0)

	if _, ok, err := fb.GetItem("codepad-v1-python"); ok || err != nil {
		t.Fatalf("missing file should read as empty, ok=%v err=%v", ok, err)
	}
	items := map[string]string{
		"codepad-v1-python":   "def f():\n    return \"x\"\n",
		"codepad-v1-filename": "my.notes.txt",
		"dotted.key":          "v",
		"codepad-v1-json":     "",
	}
	for k, v := range items {
		if err := fb.SetItem(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	got := map[string]string{}
	for k := range items {
		v, ok, err := fb.GetItem(k)
		if err != nil || !ok {
			t.Fatalf("get %s: ok=%v err=%v", k, ok, err)
		}
		got[k] = v
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	// A second backend on the same file sees the data.
	other := NewFileBackend(path, 0)
	if v, ok, _ := other.GetItem("codepad-v1-filename"); !ok || v != "my.notes.txt" {
		t.Fatalf("expected persisted filename, got %q ok=%v", v, ok)
	}
	keys, err := other.Keys()
	if err != nil || len(keys) != len(items) {
		t.Fatalf("keys: %v err=%v", keys, err)
	}
}

func TestFileBackendQuota(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	fb := NewFileBackend(path, 64)
	if err := fb.SetItem("a", "small"); err != nil {
		t.Fatalf("small write: %v", err)
	}
	err := fb.SetItem("b", strings.Repeat("x", 100))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if _, ok, _ := fb.GetItem("b"); ok {
		t.Fatalf("rejected write must not be stored")
	}
	if v, _, _ := fb.GetItem("a"); v != "small" {
		t.Fatalf("earlier value lost: %q", v)
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(NewFileBackend(path, 0), nil)
	if l := s.Get("k"); !errors.Is(l.Err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", l.Err)
	}
	if r := s.Set("k", "v"); !errors.Is(r.Err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", r.Err)
	}
}

func TestChangedExternally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	fb := NewFileBackend(path, 0)
	if err := fb.SetItem("k", "v"); err != nil {
		t.Fatal(err)
	}
	if fb.changedExternally() {
		t.Fatalf("own write must not count as external")
	}
	if err := os.WriteFile(path, []byte(`{"k":"other"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fb.changedExternally() {
		t.Fatalf("expected external change")
	}
	if fb.changedExternally() {
		t.Fatalf("change should be reported once")
	}
}

func TestWatchReportsOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	mine := NewFileBackend(path, 0)
	other := NewFileBackend(path, 0)
	if err := mine.SetItem("k", "v"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 8)
	if err := Watch(ctx, mine, func() { changed <- struct{}{} }, nil); err != nil {
		t.Fatal(err)
	}
	if err := other.SetItem("k", "theirs"); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}
}
