// Package doccache keeps one document per language in the durable store.
package doccache

import (
	"codepad/internal/lang"
	"codepad/internal/store"
)

// DefaultPrefix namespaces every document key.
const DefaultPrefix = "codepad-v1"

// Key is the store key for a language's document. It only depends on its
// inputs, so the same language maps to the same key in every session.
func Key(prefix, languageID string) string {
	return prefix + "-" + languageID
}

// Source is one step of the resolution policy. ok=false means "no opinion,
// ask the next source".
type Source func(languageID string) (text string, ok bool)

// Resolve returns the text from the first source that has one, or "".
func Resolve(languageID string, sources ...Source) string {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if text, ok := src(languageID); ok {
			return text
		}
	}
	return ""
}

type Cache struct {
	store    *store.Store
	registry *lang.Registry
	prefix   string
	log      func(string, ...any)
}

func New(s *store.Store, r *lang.Registry, prefix string, logger func(string, ...any)) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &Cache{store: s, registry: r, prefix: prefix, log: logger}
}

func (c *Cache) Prefix() string { return c.prefix }

func (c *Cache) Key(languageID string) string { return Key(c.prefix, languageID) }

// Stored is the store step of the policy. A stored empty string counts as a
// value; read failures count as absence.
func (c *Cache) Stored(languageID string) (string, bool) {
	l := c.store.Get(c.Key(languageID))
	if l.Failed() || !l.Found {
		return "", false
	}
	return l.Value, true
}

// Snippet is the default-snippet step of the policy.
func (c *Cache) Snippet(languageID string) (string, bool) {
	if c.registry == nil {
		return "", false
	}
	return c.registry.Snippet(languageID)
}

// Load resolves stored text, then the default snippet, then "".
func (c *Cache) Load(languageID string) string {
	return Resolve(languageID, c.Stored, c.Snippet)
}

// Flush writes text for languageID. Failures are logged and returned so the
// caller can carry on with in-memory state.
func (c *Cache) Flush(languageID, text string) store.Result {
	if languageID == "" {
		return store.Result{}
	}
	res := c.store.Set(c.Key(languageID), text)
	if res.Failed() {
		c.log("[doccache] could not save %s: %s", languageID, res.Reason())
	}
	return res
}
