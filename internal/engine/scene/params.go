package scene

import (
	"sync"

	"github.com/Beygs/Waves/pkg/ocean"
)

// ParamStore holds the live wave parameters. Readers get value snapshots
// so a frame never observes a half-applied edit.
type ParamStore struct {
	mu      sync.RWMutex
	params  ocean.Params
	version uint64
}

// NewParamStore creates a store holding p.
func NewParamStore(p ocean.Params) *ParamStore {
	return &ParamStore{params: p}
}

// Snapshot returns a copy of the current parameters.
func (s *ParamStore) Snapshot() ocean.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Version increments on every change. Consumers compare it to skip work
// when nothing moved.
func (s *ParamStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set replaces the parameters.
func (s *ParamStore) Set(p ocean.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p != s.params {
		s.params = p
		s.version++
	}
}

// Update applies fn to the parameters atomically. If fn returns an error
// the store is left unchanged.
func (s *ParamStore) Update(fn func(p *ocean.Params) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.params
	if err := fn(&p); err != nil {
		return err
	}
	if p != s.params {
		s.params = p
		s.version++
	}
	return nil
}
