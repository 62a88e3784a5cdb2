package store

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded is returned when a write would grow the store past its quota.
	ErrQuotaExceeded = errors.New("store quota exceeded")
	// ErrUnavailable is returned by backends that cannot be read or written at all.
	ErrUnavailable = errors.New("store unavailable")
)

// Backend is a flat key -> string mapping with durable semantics.
// Values are plain strings; there is no structured storage.
type Backend interface {
	GetItem(key string) (value string, found bool, err error)
	SetItem(key, value string) error
}

// Result reports the outcome of a single store operation.
// The zero value is a success.
type Result struct {
	Key string
	Err error
}

func (r Result) OK() bool     { return r.Err == nil }
func (r Result) Failed() bool { return r.Err != nil }

// Reason is a short human readable failure reason ("" on success).
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Lookup is the outcome of a read. Found distinguishes a stored empty string
// from a key that was never written.
type Lookup struct {
	Value string
	Found bool
	Result
}

// Store adapts a Backend so that no failure ever escapes as a panic or a bare
// error: callers receive a Result and decide whether to care.
type Store struct {
	backend Backend
	log     func(format string, args ...any)
}

func New(b Backend, logger func(string, ...any)) *Store {
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &Store{backend: b, log: logger}
}

func (s *Store) Get(key string) (l Lookup) {
	l.Key = key
	if s == nil || s.backend == nil {
		l.Err = ErrUnavailable
		return l
	}
	defer func() {
		if r := recover(); r != nil {
			l = Lookup{Result: Result{Key: key, Err: fmt.Errorf("%w: %v", ErrUnavailable, r)}}
			s.log("[store] read %s failed: %v", key, r)
		}
	}()
	v, ok, err := s.backend.GetItem(key)
	if err != nil {
		s.log("[store] read %s failed: %v", key, err)
		l.Err = err
		return l
	}
	l.Value, l.Found = v, ok
	return l
}

func (s *Store) Set(key, value string) (res Result) {
	res.Key = key
	if s == nil || s.backend == nil {
		res.Err = ErrUnavailable
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%w: %v", ErrUnavailable, r)
			s.log("[store] write %s failed: %v", key, r)
		}
	}()
	if err := s.backend.SetItem(key, value); err != nil {
		s.log("[store] write %s failed: %v", key, err)
		res.Err = err
		return res
	}
	s.log("[debug] store write %s (%d bytes)", key, len(value))
	return res
}
