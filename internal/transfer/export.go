// Package transfer moves documents in and out of the editor: exports go
// through a transient blob reference to a Sink, imports read a local file as
// text.
package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// Blob is an export payload.
type Blob struct {
	Data []byte
	MIME string
}

// Ref is a transient handle to a Blob, valid between Acquire and Release.
type Ref string

// RefAllocator hands out references to blobs. Every acquired reference must
// be released exactly once.
type RefAllocator interface {
	Acquire(b Blob) Ref
	Release(r Ref)
}

// RefTable is the default allocator. References look like blob:<uuid>.
type RefTable struct {
	mu   sync.Mutex
	live map[Ref]Blob
}

func NewRefTable() *RefTable {
	return &RefTable{live: map[Ref]Blob{}}
}

func (t *RefTable) Acquire(b Blob) Ref {
	r := Ref("blob:" + uuid.NewString())
	t.mu.Lock()
	t.live[r] = b
	t.mu.Unlock()
	return r
}

func (t *RefTable) Release(r Ref) {
	t.mu.Lock()
	delete(t.live, r)
	t.mu.Unlock()
}

// Resolve returns the blob behind a live reference.
func (t *RefTable) Resolve(r Ref) (Blob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.live[r]
	return b, ok
}

// Live is the number of references acquired and not yet released.
func (t *RefTable) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Sink performs the actual download of a blob under a suggested name.
type Sink interface {
	Deliver(ref Ref, b Blob, filename string) (string, error)
}

// DirSink saves downloads into a directory. An existing file is never
// overwritten; the name gets a " (n)" counter before the extension instead.
type DirSink struct {
	Dir string
}

func (s DirSink) Deliver(_ Ref, b Blob, filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid download name %q", filename)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Dir, err)
	}
	path, err := freePath(s.Dir, name)
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b.Data)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func freePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// dotfiles like ".bashrc" keep their whole name as the stem
		stem, ext = name, ""
	}
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		p := filepath.Join(dir, candidate)
		if _, err := os.Lstat(p); errors.Is(err, os.ErrNotExist) {
			return p, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free name for %s in %s", name, dir)
}

// ClipboardSink copies the text to the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Deliver(_ Ref, b Blob, filename string) (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("clipboard not supported on this system")
	}
	if err := clipboard.WriteAll(string(b.Data)); err != nil {
		return "", fmt.Errorf("clipboard: %w", err)
	}
	return "clipboard", nil
}

// Gateway exports documents: acquire a reference, deliver, release.
type Gateway struct {
	Refs RefAllocator
	Sink Sink
	Logf func(format string, args ...any)

	last string
}

func NewGateway(refs RefAllocator, sink Sink, logger func(string, ...any)) *Gateway {
	if refs == nil {
		refs = NewRefTable()
	}
	return &Gateway{Refs: refs, Sink: sink, Logf: logger}
}

// Export satisfies session.Exporter. The reference is released whether or
// not delivery succeeded.
func (g *Gateway) Export(text, mime, filename string) error {
	if g.Sink == nil {
		return errors.New("no download sink configured")
	}
	b := Blob{Data: []byte(text), MIME: mime}
	ref := g.Refs.Acquire(b)
	defer g.Refs.Release(ref)

	where, err := g.Sink.Deliver(ref, b, filename)
	if err != nil {
		g.logf("[transfer] deliver %s failed: %v", filename, err)
		return err
	}
	g.last = where
	g.logf("[transfer] %s -> %s (%d bytes, %s)", filename, where, len(b.Data), mime)
	return nil
}

// LastDestination is where the most recent successful export ended up.
func (g *Gateway) LastDestination() string { return g.last }

func (g *Gateway) logf(format string, args ...any) {
	if g.Logf != nil {
		g.Logf(format, args...)
	}
}
