package history

import (
	"errors"
	"sync"

	"github.com/inquiro/inquiro/core"
)

// ErrNotFound is returned when no run exists under the requested ID.
var ErrNotFound = errors.New("history: run not found")

// Store persists completed intelligence results by run ID. Results are
// immutable once synthesized, so implementations may store them directly.
type Store interface {
	Save(runID string, result core.SynthesizedIntelligence) error
	Get(runID string) (core.SynthesizedIntelligence, error)
	// RunIDs returns stored run IDs in insertion order.
	RunIDs() []string
}

// InMemoryStore is a volatile Store implementation holding runs in a process
// local map. Safe for concurrent access.
type InMemoryStore struct {
	mu    sync.RWMutex
	order []string
	runs  map[string]core.SynthesizedIntelligence
}

// NewInMemoryStore constructs an empty in-memory run store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[string]core.SynthesizedIntelligence)}
}

// Save stores a result under its run ID. Saving the same ID again overwrites
// the stored result without duplicating the ID in the insertion order.
func (s *InMemoryStore) Save(runID string, result core.SynthesizedIntelligence) error {
	if runID == "" {
		return errors.New("history: empty run id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[runID]; !exists {
		s.order = append(s.order, runID)
	}
	s.runs[runID] = result
	return nil
}

// Get returns the stored result for a run ID.
func (s *InMemoryStore) Get(runID string) (core.SynthesizedIntelligence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.runs[runID]
	if !ok {
		return core.SynthesizedIntelligence{}, ErrNotFound
	}
	return result, nil
}

// RunIDs implements Store.
func (s *InMemoryStore) RunIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len returns the number of stored runs.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
