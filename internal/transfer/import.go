package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoFile means nothing was chosen. Callers treat it as a no-op.
	ErrNoFile   = errors.New("no file selected")
	ErrTooLarge = errors.New("file too large")
)

// DefaultMaxBytes bounds imports so a stray binary cannot swamp the store.
const DefaultMaxBytes = 4 << 20

var bom = []byte{0xEF, 0xBB, 0xBF}

// File is an imported file decoded as text.
type File struct {
	Name    string // base name, used for language detection
	Path    string
	Content string
}

type Importer struct {
	MaxBytes int64
}

// Read loads path as UTF-8 text. A leading byte order mark is dropped and
// invalid sequences become U+FFFD.
func (im Importer) Read(ctx context.Context, path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, ErrNoFile
	}
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	limit := im.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	path = expandHome(path)

	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if st, err := f.Stat(); err == nil && st.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return File{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, limit)
	}
	return File{Name: filepath.Base(path), Path: path, Content: decodeText(data)}, nil
}

func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, bom)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
