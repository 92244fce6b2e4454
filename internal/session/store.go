package session

import (
	"sync"

	"go-workwise-backend/internal/domain"
)

// State is the session lifecycle position. BOOTSTRAPPING is entered once at
// process start and exited exactly once; afterwards the store moves between
// ANONYMOUS and AUTHENTICATED on sign-in/sign-out events only.
type State string

const (
	StateBootstrapping State = "BOOTSTRAPPING"
	StateAnonymous     State = "ANONYMOUS"
	StateAuthenticated State = "AUTHENTICATED"
)

// Snapshot is a consistent read of the store.
type Snapshot struct {
	State    State
	Identity *domain.Identity
}

// Store holds the current authenticated identity. It has exactly one writer,
// the Controller, and any number of concurrent readers. Mutating methods are
// unexported so nothing outside this package can write to it.
type Store struct {
	mu       sync.RWMutex
	state    State
	identity *domain.Identity
}

func NewStore() *Store {
	return &Store{state: StateBootstrapping}
}

// Snapshot returns the current state and identity.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{State: s.state, Identity: s.identity}
}

// IsLoading reports whether the initial bootstrap check is still pending.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateBootstrapping
}

// Identity returns the cached identity, nil when anonymous.
func (s *Store) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// applyIdentity records the gateway's most recent report. Writes during
// bootstrap update the identity but never clear the loading state; only
// completeBootstrap does that.
func (s *Store) applyIdentity(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	if s.state != StateBootstrapping {
		s.state = stateFor(identity)
	}
}

// completeBootstrap exits BOOTSTRAPPING. Returns false when bootstrap had
// already completed, making the transition single-shot.
func (s *Store) completeBootstrap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateBootstrapping {
		return false
	}
	s.state = stateFor(s.identity)
	return true
}

func stateFor(identity *domain.Identity) State {
	if identity == nil {
		return StateAnonymous
	}
	return StateAuthenticated
}
