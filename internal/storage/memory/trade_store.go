package memory

import (
	"context"
	"sort"
	"sync"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.Trade // keyed by portfolio_id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{data: make(map[string][]*domain.Trade)}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk adds trades for a portfolio atomically.
func (s *TradeStore) InsertBulk(_ context.Context, portfolioID string, trades []*domain.Trade) error {
	if portfolioID == "" {
		return storage.ErrInvalidInput
	}
	for _, t := range trades {
		if t == nil || t.InstrumentID == "" {
			return storage.ErrInvalidInput
		}
	}
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range trades {
		cp := *t
		s.data[portfolioID] = append(s.data[portfolioID], &cp)
	}
	return nil
}

// GetByPortfolio retrieves all trades of a portfolio, entry_time ASC.
func (s *TradeStore) GetByPortfolio(_ context.Context, portfolioID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySorted(s.data[portfolioID], nil), nil
}

// GetByInstrument retrieves a portfolio's trades for one instrument,
// entry_time ASC.
func (s *TradeStore) GetByInstrument(_ context.Context, portfolioID, instrumentID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := func(t *domain.Trade) bool { return t.InstrumentID == instrumentID }
	return copySorted(s.data[portfolioID], filter), nil
}

// copySorted copies matching trades and orders them by entry time.
func copySorted(trades []*domain.Trade, match func(*domain.Trade) bool) []*domain.Trade {
	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if match != nil && !match(t) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryTime.Before(out[j].EntryTime)
	})
	return out
}
