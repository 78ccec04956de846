package memory

import (
	"context"
	"sort"
	"sync"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// InstrumentStore is an in-memory implementation of storage.InstrumentStore.
type InstrumentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.InstrumentSpec
}

// NewInstrumentStore creates a new in-memory instrument store.
func NewInstrumentStore() *InstrumentStore {
	return &InstrumentStore{data: make(map[string]*domain.InstrumentSpec)}
}

// Compile-time interface check.
var _ storage.InstrumentStore = (*InstrumentStore)(nil)

// Insert adds a spec. Returns ErrDuplicateKey if instrument_id exists.
func (s *InstrumentStore) Insert(_ context.Context, spec *domain.InstrumentSpec) error {
	if spec == nil || spec.InstrumentID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[spec.InstrumentID]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *spec
	s.data[spec.InstrumentID] = &cp
	return nil
}

// GetByID retrieves a spec. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetByID(_ context.Context, instrumentID string) (*domain.InstrumentSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, exists := s.data[instrumentID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *spec
	return &cp, nil
}

// List retrieves all specs ordered by instrument_id ASC.
func (s *InstrumentStore) List(_ context.Context) ([]*domain.InstrumentSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.InstrumentSpec, 0, len(s.data))
	for _, spec := range s.data {
		cp := *spec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InstrumentID < out[j].InstrumentID
	})
	return out, nil
}
