package session

import (
	"errors"
	"sync"
)

// ErrRegistryFull is returned when the session cap has been reached.
var ErrRegistryFull = errors.New("session registry is full")

// Registry tracks live sessions by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cap      int

	created uint64
}

// NewRegistry constructs a Registry holding at most cap sessions.
func NewRegistry(cap int) *Registry {
	if cap <= 0 {
		cap = 1000
	}
	return &Registry{sessions: make(map[string]*Session), cap: cap}
}

// Put registers a session, failing when the registry is at capacity.
func (r *Registry) Put(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) >= r.cap {
		return ErrRegistryFull
	}
	r.sessions[s.ID] = s
	r.created++
	return nil
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops the session with the given ID, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Created returns the total number of sessions ever registered.
func (r *Registry) Created() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.created
}
