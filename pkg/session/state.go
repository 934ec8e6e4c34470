// Package session holds the bot's mutable translation settings.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dasmlab/kotoba/pkg/language"
)

// ErrInvalidLanguageCode is returned by SetPair when either code is not supported.
var ErrInvalidLanguageCode = errors.New("invalid language code")

const (
	// DefaultFrom is the initial source language of the pair.
	DefaultFrom = "ja"
	// DefaultTo is the initial target language of the pair.
	DefaultTo = "en"
)

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	AutoTranslate bool
	From          string
	To            string
}

// State is the process-wide translation session: the auto-translate flag and
// the current language pair. All access goes through one mutex.
type State struct {
	mu            sync.RWMutex
	autoTranslate bool
	from          string
	to            string
}

// New returns a State with auto-translate off and the default ja-en pair.
func New() *State {
	return &State{from: DefaultFrom, to: DefaultTo}
}

// Pair returns the current (from, to) language pair.
func (s *State) Pair() (from, to string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.from, s.to
}

// AutoTranslate reports whether auto-translate mode is on.
func (s *State) AutoTranslate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoTranslate
}

// SetPair replaces the language pair. Both codes must be supported; otherwise
// the state is left unchanged. from == to is allowed.
func (s *State) SetPair(from, to string) error {
	for _, code := range []string{from, to} {
		if !language.IsSupported(code) {
			return fmt.Errorf("%w: %q", ErrInvalidLanguageCode, code)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.from, s.to = from, to
	return nil
}

// ToggleAutoTranslate flips auto-translate mode and returns the new value.
func (s *State) ToggleAutoTranslate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoTranslate = !s.autoTranslate
	return s.autoTranslate
}

// Snapshot returns both fields read under a single lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{AutoTranslate: s.autoTranslate, From: s.from, To: s.to}
}
