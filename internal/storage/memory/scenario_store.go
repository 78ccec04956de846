package memory

import (
	"context"
	"sort"
	"sync"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// ScenarioStore is an in-memory implementation of storage.ScenarioStore.
type ScenarioStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Scenario // keyed by scenario_id
}

// NewScenarioStore creates a new in-memory scenario store.
func NewScenarioStore() *ScenarioStore {
	return &ScenarioStore{data: make(map[string]*domain.Scenario)}
}

// Compile-time interface check.
var _ storage.ScenarioStore = (*ScenarioStore)(nil)

// Insert adds a scenario. Returns ErrDuplicateKey if id exists and
// ErrScenarioCapacity when the portfolio already holds the cap.
func (s *ScenarioStore) Insert(_ context.Context, sc *domain.Scenario) error {
	if sc == nil || sc.ID == "" || sc.PortfolioID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sc.ID]; exists {
		return storage.ErrDuplicateKey
	}

	count := 0
	for _, existing := range s.data {
		if existing.PortfolioID == sc.PortfolioID {
			count++
		}
	}
	if count >= domain.MaxScenariosPerPortfolio {
		return storage.ErrScenarioCapacity
	}

	cp := *sc
	s.data[sc.ID] = &cp
	return nil
}

// GetByID retrieves a scenario. Returns ErrNotFound if not exists.
func (s *ScenarioStore) GetByID(_ context.Context, scenarioID string) (*domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, exists := s.data[scenarioID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *sc
	return &cp, nil
}

// GetByPortfolio retrieves a portfolio's scenarios, created_at ASC.
func (s *ScenarioStore) GetByPortfolio(_ context.Context, portfolioID string) ([]*domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Scenario, 0, domain.MaxScenariosPerPortfolio)
	for _, sc := range s.data {
		if sc.PortfolioID != portfolioID {
			continue
		}
		cp := *sc
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

// Delete removes a scenario. Returns ErrNotFound if not exists.
func (s *ScenarioStore) Delete(_ context.Context, scenarioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[scenarioID]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, scenarioID)
	return nil
}
