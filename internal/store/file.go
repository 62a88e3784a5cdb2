package store

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileBackend keeps every key in one JSON object on disk:
//
//	{"codepad-v1-python": "print(1)\n", "codepad-v1-filename": "code.py"}
//
// Reads pick single keys out of the document and writes patch single keys in,
// so unknown keys written by other versions survive.
type FileBackend struct {
	mu    sync.Mutex
	path  string
	quota int // bytes; 0 = unlimited

	// digest of the file as this process last wrote or observed it
	digest [sha256.Size]byte
}

func NewFileBackend(path string, quota int) *FileBackend {
	return &FileBackend{path: path, quota: quota}
}

func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	r := gjson.GetBytes(data, escapePath(key))
	if !r.Exists() {
		return "", false, nil
	}
	return r.String(), true, nil
}

func (f *FileBackend) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	out, err := sjson.SetBytes(data, escapePath(key), value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if f.quota > 0 && len(out) > f.quota {
		return fmt.Errorf("%w: %d > %d bytes", ErrQuotaExceeded, len(out), f.quota)
	}
	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.digest = sha256.Sum256(out)
	return nil
}

// Keys lists every key currently stored, in file order.
func (f *FileBackend) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys, nil
}

func (f *FileBackend) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: %s is not a JSON object", ErrUnavailable, f.path)
	}
	return data, nil
}

// escapePath turns a raw key into a gjson/sjson path addressing exactly that
// top-level member.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (f *FileBackend) snapshot() {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, _ := os.ReadFile(f.path)
	f.digest = sha256.Sum256(raw)
}

func (f *FileBackend) changedExternally() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(raw)
	if sum == f.digest {
		return false
	}
	f.digest = sum
	return true
}
