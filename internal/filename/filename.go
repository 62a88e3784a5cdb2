package filename

import (
	"strings"

	"codepad/internal/lang"
	"codepad/internal/store"
)

// State is the filename field: an in-memory value plus a durable copy stored
// under its own key, independent of which language is active.
type State struct {
	store    *store.Store
	registry *lang.Registry
	key      string
	value    string
	log      func(string, ...any)
}

func New(s *store.Store, r *lang.Registry, key string, logger func(string, ...any)) *State {
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &State{store: s, registry: r, key: key, log: logger}
}

func (s *State) Key() string { return s.key }

// Restore initialises the field from the store, or from the default name for
// languageID when nothing usable is stored.
func (s *State) Restore(languageID string) string {
	l := s.store.Get(s.key)
	if !l.Failed() && l.Found && l.Value != "" {
		s.value = l.Value
	} else {
		s.value = s.DefaultFor(languageID)
	}
	return s.value
}

func (s *State) Get() string  { return s.value }
func (s *State) Set(v string) { s.value = v }

// Empty reports whether the field is blank after trimming.
func (s *State) Empty() bool { return strings.TrimSpace(s.value) == "" }

// Persist stores name. Failures are logged and returned.
func (s *State) Persist(name string) store.Result {
	res := s.store.Set(s.key, name)
	if res.Failed() {
		s.log("[filename] could not save %q: %s", name, res.Reason())
	}
	return res
}

func (s *State) DefaultFor(languageID string) string {
	return s.registry.DefaultFilename(languageID)
}

// ResolveForExport turns the raw field value into a download name.
func (s *State) ResolveForExport(raw, languageID string) string {
	return ResolveForExport(s.registry, raw, languageID)
}

// ResolveForExport trims raw once, then: empty -> "code.<ext>"; no dot ->
// raw + ".<ext>"; otherwise raw as is. The result is only ever a suggested
// download name, so no character validation happens here.
func ResolveForExport(r *lang.Registry, raw, languageID string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return r.DefaultFilename(languageID)
	case !strings.Contains(name, "."):
		return name + "." + r.Extension(languageID)
	default:
		return name
	}
}
