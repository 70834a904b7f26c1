// Package state holds the in-memory Auth State shared by the request
// pipeline, the services and the CLI.
//
// The store is a single mutable value guarded by a RWMutex. Mutations are
// exposed as action methods; subscribers receive the new snapshot after
// every mutation.
package state

import (
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/session"
)

// State is an immutable snapshot of the Auth State.
type State struct {
	AccessToken     string
	RefreshToken    string
	FingerprintHash string
	Language        models.Locale

	// User is nil for guests once Bootstrapped is true.
	User *models.User

	// Bootstrapped turns true once the initial session restore finished.
	Bootstrapped bool
}

// IsAuthenticated reports whether a user is known.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Listener receives the state after a mutation.
type Listener func(State)

type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns an empty, not yet bootstrapped store using lang.
func NewStore(lang models.Locale) *Store {
	return &Store{
		state:     State{Language: lang.OrDefault()},
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Hydrate replaces the session part of the state with d.
func (s *Store) Hydrate(d session.Data) {
	s.update(func(st *State) {
		st.AccessToken = d.AccessToken
		st.RefreshToken = d.RefreshToken
		st.FingerprintHash = d.FingerprintHash
		st.Language = d.Language.OrDefault()
	})
}

// SetCredentials stores a fresh token pair. An empty fingerprint keeps the
// previous one.
func (s *Store) SetCredentials(c models.Credentials) {
	s.update(func(st *State) {
		st.AccessToken = c.AccessToken
		st.RefreshToken = c.RefreshToken
		if c.FingerprintHash != "" {
			st.FingerprintHash = c.FingerprintHash
		}
	})
}

// SetUser records the resolved identity; nil means guest.
func (s *Store) SetUser(u *models.User) {
	s.update(func(st *State) {
		if u == nil {
			st.User = nil
			return
		}
		cp := *u
		st.User = &cp
	})
}

// ClearAuth drops tokens, fingerprint and user. The language and the
// bootstrapped flag survive.
func (s *Store) ClearAuth() {
	s.update(func(st *State) {
		st.AccessToken = ""
		st.RefreshToken = ""
		st.FingerprintHash = ""
		st.User = nil
	})
}

// SetBootstrapped marks the initial restore as finished. It never reverts.
func (s *Store) SetBootstrapped() {
	s.update(func(st *State) {
		st.Bootstrapped = true
	})
}

// SetLanguage switches the locale; invalid values are ignored.
func (s *Store) SetLanguage(l models.Locale) {
	if !l.Valid() {
		return
	}
	s.update(func(st *State) {
		st.Language = l
	})
}

// update applies fn and hands every listener the state it produced. The
// snapshot is taken under the lock; listeners run after it is released.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
