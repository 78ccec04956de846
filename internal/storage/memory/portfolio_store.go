package memory

import (
	"context"
	"sort"
	"sync"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// PortfolioStore is an in-memory implementation of storage.PortfolioStore.
type PortfolioStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Portfolio
}

// NewPortfolioStore creates a new in-memory portfolio store.
func NewPortfolioStore() *PortfolioStore {
	return &PortfolioStore{data: make(map[string]*domain.Portfolio)}
}

// Compile-time interface check.
var _ storage.PortfolioStore = (*PortfolioStore)(nil)

// Insert adds a portfolio. Returns ErrDuplicateKey if id or name exists.
func (s *PortfolioStore) Insert(_ context.Context, p *domain.Portfolio) error {
	if p == nil || p.ID == "" || p.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	for _, existing := range s.data {
		if existing.Name == p.Name {
			return storage.ErrDuplicateKey
		}
	}
	cp := *p
	s.data[p.ID] = &cp
	return nil
}

// GetByID retrieves a portfolio. Returns ErrNotFound if not exists.
func (s *PortfolioStore) GetByID(_ context.Context, portfolioID string) (*domain.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[portfolioID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// List retrieves all portfolios ordered by created_at ASC.
func (s *PortfolioStore) List(_ context.Context) ([]*domain.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Portfolio, 0, len(s.data))
	for _, p := range s.data {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a portfolio. Returns ErrNotFound if not exists.
func (s *PortfolioStore) Delete(_ context.Context, portfolioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[portfolioID]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, portfolioID)
	return nil
}
