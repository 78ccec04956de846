package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk adds trades for a portfolio atomically.
func (s *TradeStore) InsertBulk(ctx context.Context, portfolioID string, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			portfolio_id, instrument_id, direction,
			entry_time, exit_time, entry_price, exit_price,
			pnl, holding_minutes, r_multiple, initial_risk
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, t := range trades {
		_, err := tx.Exec(ctx, query,
			portfolioID, t.InstrumentID, string(t.Direction),
			t.EntryTime, t.ExitTime, t.EntryPrice, t.ExitPrice,
			t.PnL, t.HoldingMinutes, t.RMultiple, t.InitialRisk,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByPortfolio retrieves all trades of a portfolio, entry_time ASC.
func (s *TradeStore) GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Trade, error) {
	query := `
		SELECT instrument_id, direction, entry_time, exit_time,
			entry_price, exit_price, pnl, holding_minutes, r_multiple, initial_risk
		FROM trades
		WHERE portfolio_id = $1
		ORDER BY entry_time ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("get trades by portfolio: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByInstrument retrieves a portfolio's trades for one instrument,
// entry_time ASC.
func (s *TradeStore) GetByInstrument(ctx context.Context, portfolioID, instrumentID string) ([]*domain.Trade, error) {
	query := `
		SELECT instrument_id, direction, entry_time, exit_time,
			entry_price, exit_price, pnl, holding_minutes, r_multiple, initial_risk
		FROM trades
		WHERE portfolio_id = $1 AND instrument_id = $2
		ORDER BY entry_time ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, portfolioID, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("get trades by instrument: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		var t domain.Trade
		err := rows.Scan(
			&t.InstrumentID, &t.Direction, &t.EntryTime, &t.ExitTime,
			&t.EntryPrice, &t.ExitPrice, &t.PnL, &t.HoldingMinutes,
			&t.RMultiple, &t.InitialRisk,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
