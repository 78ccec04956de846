package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// PriceBarStore implements storage.PriceBarStore using ClickHouse.
// Bar history is append-only and read back in timestamp order, which is
// what MergeTree ordered by (instrument_id, timeframe, timestamp) gives us.
type PriceBarStore struct {
	conn *Conn
}

// NewPriceBarStore creates a new PriceBarStore.
func NewPriceBarStore(conn *Conn) *PriceBarStore {
	return &PriceBarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceBarStore = (*PriceBarStore)(nil)

// InsertBulk adds bars. Fails the entire batch on any duplicate
// (instrument_id, timeframe, timestamp). MergeTree does not enforce
// uniqueness, so duplicates are checked explicitly before the batch send.
func (s *PriceBarStore) InsertBulk(ctx context.Context, timeframe string, bars []*domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		instrumentID string
		timestamp    int64
	}
	seen := make(map[key]struct{})
	for _, b := range bars {
		k := key{b.InstrumentID, b.Timestamp.UnixNano()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, b := range bars {
		exists, err := s.exists(ctx, b.InstrumentID, timeframe, b.Timestamp)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_bars (
			instrument_id, timeframe, timestamp, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.InstrumentID, timeframe, b.Timestamp,
			b.Open, b.High, b.Low, b.Close, uint64(b.Volume),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByInstrument retrieves all bars for an instrument and timeframe,
// timestamp ASC.
func (s *PriceBarStore) GetByInstrument(ctx context.Context, instrumentID, timeframe string) ([]*domain.PriceBar, error) {
	query := `
		SELECT instrument_id, timestamp, open, high, low, close, volume
		FROM price_bars
		WHERE instrument_id = ? AND timeframe = ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, instrumentID, timeframe)
	if err != nil {
		return nil, fmt.Errorf("query bars by instrument: %w", err)
	}
	defer rows.Close()

	return scanPriceBars(rows)
}

// GetByTimeRange retrieves bars within [start, end] inclusive, timestamp ASC.
func (s *PriceBarStore) GetByTimeRange(ctx context.Context, instrumentID, timeframe string, start, end time.Time) ([]*domain.PriceBar, error) {
	query := `
		SELECT instrument_id, timestamp, open, high, low, close, volume
		FROM price_bars
		WHERE instrument_id = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, instrumentID, timeframe, start, end)
	if err != nil {
		return nil, fmt.Errorf("query bars by time range: %w", err)
	}
	defer rows.Close()

	return scanPriceBars(rows)
}

// exists checks if a bar with the given key exists.
func (s *PriceBarStore) exists(ctx context.Context, instrumentID, timeframe string, ts time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM price_bars
		WHERE instrument_id = ? AND timeframe = ? AND timestamp = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, instrumentID, timeframe, ts).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPriceBars scans multiple rows into a slice of PriceBar.
func scanPriceBars(rows driver.Rows) ([]*domain.PriceBar, error) {
	var bars []*domain.PriceBar

	for rows.Next() {
		var (
			b      domain.PriceBar
			volume uint64
		)
		err := rows.Scan(
			&b.InstrumentID, &b.Timestamp,
			&b.Open, &b.High, &b.Low, &b.Close, &volume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price bar row: %w", err)
		}
		b.Volume = int64(volume)
		bars = append(bars, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bar rows: %w", err)
	}

	return bars, nil
}
