// Package storage defines the persistence boundary around the simulation
// core. The core itself performs no I/O; these stores belong to the callers
// that feed it trades and bars and keep its scenario bundles.
package storage

import (
	"context"
	"time"

	"trade-scenario-lab/internal/domain"
)

// InstrumentStore provides access to instrument contract specs.
type InstrumentStore interface {
	// Insert adds a spec. Returns ErrDuplicateKey if instrument_id exists.
	Insert(ctx context.Context, spec *domain.InstrumentSpec) error

	// GetByID retrieves a spec. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, instrumentID string) (*domain.InstrumentSpec, error)

	// List retrieves all specs ordered by instrument_id ASC.
	List(ctx context.Context) ([]*domain.InstrumentSpec, error)
}

// PortfolioStore provides access to portfolios.
type PortfolioStore interface {
	// Insert adds a portfolio. Returns ErrDuplicateKey if id or name exists.
	Insert(ctx context.Context, p *domain.Portfolio) error

	// GetByID retrieves a portfolio. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error)

	// List retrieves all portfolios ordered by created_at ASC.
	List(ctx context.Context) ([]*domain.Portfolio, error)

	// Delete removes a portfolio. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, portfolioID string) error
}

// TradeStore provides access to baseline trades, keyed by portfolio.
type TradeStore interface {
	// InsertBulk adds trades for a portfolio atomically.
	InsertBulk(ctx context.Context, portfolioID string, trades []*domain.Trade) error

	// GetByPortfolio retrieves all trades of a portfolio, entry_time ASC.
	GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Trade, error)

	// GetByInstrument retrieves a portfolio's trades for one instrument,
	// entry_time ASC.
	GetByInstrument(ctx context.Context, portfolioID, instrumentID string) ([]*domain.Trade, error)
}

// ScenarioStore provides access to scenario bundles. Implementations
// enforce the per-portfolio cap: inserting beyond
// domain.MaxScenariosPerPortfolio returns ErrScenarioCapacity and leaves the
// existing scenarios unchanged.
type ScenarioStore interface {
	// Insert adds a scenario. Returns ErrDuplicateKey if id exists and
	// ErrScenarioCapacity when the portfolio is full.
	Insert(ctx context.Context, sc *domain.Scenario) error

	// GetByID retrieves a scenario. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, scenarioID string) (*domain.Scenario, error)

	// GetByPortfolio retrieves a portfolio's scenarios, created_at ASC.
	GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Scenario, error)

	// Delete removes a scenario. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, scenarioID string) error
}

// PriceBarStore provides access to OHLCV bars per instrument and timeframe.
type PriceBarStore interface {
	// InsertBulk adds bars. Fails the entire batch on any duplicate
	// (instrument_id, timeframe, timestamp).
	InsertBulk(ctx context.Context, timeframe string, bars []*domain.PriceBar) error

	// GetByInstrument retrieves all bars for an instrument and timeframe,
	// timestamp ASC.
	GetByInstrument(ctx context.Context, instrumentID, timeframe string) ([]*domain.PriceBar, error)

	// GetByTimeRange retrieves bars within [start, end] inclusive,
	// timestamp ASC.
	GetByTimeRange(ctx context.Context, instrumentID, timeframe string, start, end time.Time) ([]*domain.PriceBar, error)
}
