package lang

import (
	"fmt"
	"sort"
	"strings"
)

// PlainText is the language every unmatched filename falls back to.
const PlainText = "plaintext"

// Descriptor describes one supported language. Descriptors are static data.
type Descriptor struct {
	ID        string
	Label     string
	Extension string   // without the dot
	Suffixes  []string // lower case, with the dot
	Snippet   string   // starter text shown when nothing is stored
}

// Registry enumerates the supported languages in display order.
type Registry struct {
	order []string
	byID  map[string]Descriptor
}

// reservedIDs cannot be language ids because the store uses them as keys
// next to the per-language documents.
var reservedIDs = map[string]bool{"filename": true}

// NewRegistry validates descriptors and builds a registry. A plaintext
// descriptor is required: it is the detection fallback.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{byID: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		id := strings.TrimSpace(d.ID)
		switch {
		case id == "":
			return nil, fmt.Errorf("language with empty id")
		case reservedIDs[id]:
			return nil, fmt.Errorf("language id %q is reserved", id)
		case strings.TrimSpace(d.Extension) == "":
			return nil, fmt.Errorf("language %s has no extension", id)
		}
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("duplicate language %s", id)
		}
		cp := d
		cp.ID = id
		cp.Extension = strings.TrimPrefix(strings.TrimSpace(d.Extension), ".")
		cp.Suffixes = make([]string, 0, len(d.Suffixes))
		for _, s := range d.Suffixes {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if !strings.HasPrefix(s, ".") {
				s = "." + s
			}
			cp.Suffixes = append(cp.Suffixes, s)
		}
		r.byID[id] = cp
		r.order = append(r.order, id)
	}
	if _, ok := r.byID[PlainText]; !ok {
		return nil, fmt.Errorf("registry needs a %s language", PlainText)
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := NewRegistry(builtin...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) IDs() []string { return append([]string(nil), r.order...) }

func (r *Registry) Lookup(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Extension returns the default file extension for id; unknown ids get the
// plaintext extension.
func (r *Registry) Extension(id string) string {
	if d, ok := r.byID[id]; ok {
		return d.Extension
	}
	return r.byID[PlainText].Extension
}

func (r *Registry) Label(id string) string {
	if d, ok := r.byID[id]; ok && d.Label != "" {
		return d.Label
	}
	return id
}

// Snippet reports the default snippet for id, if the language has one.
func (r *Registry) Snippet(id string) (string, bool) {
	d, ok := r.byID[id]
	if !ok || d.Snippet == "" {
		return "", false
	}
	return d.Snippet, true
}

// DefaultFilename is "code.<ext>" for the language.
func (r *Registry) DefaultFilename(id string) string {
	return "code." + r.Extension(id)
}

// Detect maps a filename to a language by case-insensitive suffix match.
// Languages are tried in registry order and the first match wins; no match
// yields PlainText.
func (r *Registry) Detect(filename string) string {
	lower := strings.ToLower(strings.TrimSpace(filename))
	for _, id := range r.order {
		for _, s := range r.byID[id].Suffixes {
			if strings.HasSuffix(lower, s) {
				return id
			}
		}
	}
	return PlainText
}

// SuffixTable lists every (suffix, language) pair, sorted by suffix.
func (r *Registry) SuffixTable() [][2]string {
	var out [][2]string
	for _, id := range r.order {
		for _, s := range r.byID[id].Suffixes {
			out = append(out, [2]string{s, id})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
