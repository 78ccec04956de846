package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

type barKey struct {
	instrumentID string
	timeframe    string
}

// PriceBarStore is an in-memory implementation of storage.PriceBarStore.
type PriceBarStore struct {
	mu   sync.RWMutex
	data map[barKey][]*domain.PriceBar
}

// NewPriceBarStore creates a new in-memory price bar store.
func NewPriceBarStore() *PriceBarStore {
	return &PriceBarStore{data: make(map[barKey][]*domain.PriceBar)}
}

// Compile-time interface check.
var _ storage.PriceBarStore = (*PriceBarStore)(nil)

// InsertBulk adds bars. Fails the entire batch on any duplicate
// (instrument_id, timeframe, timestamp).
func (s *PriceBarStore) InsertBulk(_ context.Context, timeframe string, bars []*domain.PriceBar) error {
	if timeframe == "" {
		return storage.ErrInvalidInput
	}
	for _, b := range bars {
		if b == nil || b.InstrumentID == "" || b.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check the whole batch before mutating anything.
	seen := make(map[barKey]map[int64]struct{})
	for _, b := range bars {
		key := barKey{instrumentID: b.InstrumentID, timeframe: timeframe}
		ts := b.Timestamp.UnixNano()
		if _, dup := seen[key][ts]; dup {
			return storage.ErrDuplicateKey
		}
		for _, existing := range s.data[key] {
			if existing.Timestamp.Equal(b.Timestamp) {
				return storage.ErrDuplicateKey
			}
		}
		if seen[key] == nil {
			seen[key] = make(map[int64]struct{})
		}
		seen[key][ts] = struct{}{}
	}

	for _, b := range bars {
		key := barKey{instrumentID: b.InstrumentID, timeframe: timeframe}
		cp := *b
		s.data[key] = append(s.data[key], &cp)
	}
	return nil
}

// GetByInstrument retrieves all bars for an instrument and timeframe,
// timestamp ASC.
func (s *PriceBarStore) GetByInstrument(_ context.Context, instrumentID, timeframe string) ([]*domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := barKey{instrumentID: instrumentID, timeframe: timeframe}
	return copyBarsSorted(s.data[key], nil), nil
}

// GetByTimeRange retrieves bars within [start, end] inclusive, timestamp ASC.
func (s *PriceBarStore) GetByTimeRange(_ context.Context, instrumentID, timeframe string, start, end time.Time) ([]*domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := barKey{instrumentID: instrumentID, timeframe: timeframe}
	filter := func(b *domain.PriceBar) bool {
		return !b.Timestamp.Before(start) && !b.Timestamp.After(end)
	}
	return copyBarsSorted(s.data[key], filter), nil
}

// copyBarsSorted copies matching bars and orders them by timestamp.
func copyBarsSorted(bars []*domain.PriceBar, match func(*domain.PriceBar) bool) []*domain.PriceBar {
	out := make([]*domain.PriceBar, 0, len(bars))
	for _, b := range bars {
		if match != nil && !match(b) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
