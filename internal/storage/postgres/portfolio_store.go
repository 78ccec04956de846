package postgres

import (
	"context"
	"fmt"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// PortfolioStore implements storage.PortfolioStore using PostgreSQL.
type PortfolioStore struct {
	pool *Pool
}

// NewPortfolioStore creates a new PortfolioStore.
func NewPortfolioStore(pool *Pool) *PortfolioStore {
	return &PortfolioStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PortfolioStore = (*PortfolioStore)(nil)

// Insert adds a portfolio. Returns ErrDuplicateKey if id or name exists.
func (s *PortfolioStore) Insert(ctx context.Context, p *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (portfolio_id, name, starting_capital, timeframe, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.StartingCapital, p.Timeframe, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert portfolio: %w", err)
	}
	return nil
}

// GetByID retrieves a portfolio. Returns ErrNotFound if not exists.
func (s *PortfolioStore) GetByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	query := `
		SELECT portfolio_id, name, starting_capital, timeframe, status, created_at
		FROM portfolios
		WHERE portfolio_id = $1
	`

	var p domain.Portfolio
	err := s.pool.QueryRow(ctx, query, portfolioID).Scan(
		&p.ID, &p.Name, &p.StartingCapital, &p.Timeframe, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get portfolio by id: %w", err)
	}
	return &p, nil
}

// List retrieves all portfolios ordered by created_at ASC.
func (s *PortfolioStore) List(ctx context.Context) ([]*domain.Portfolio, error) {
	query := `
		SELECT portfolio_id, name, starting_capital, timeframe, status, created_at
		FROM portfolios
		ORDER BY created_at ASC, portfolio_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*domain.Portfolio
	for rows.Next() {
		var p domain.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.StartingCapital, &p.Timeframe, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan portfolio row: %w", err)
		}
		portfolios = append(portfolios, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portfolio rows: %w", err)
	}
	return portfolios, nil
}

// Delete removes a portfolio. Returns ErrNotFound if not exists.
// Trades and scenarios cascade via foreign keys.
func (s *PortfolioStore) Delete(ctx context.Context, portfolioID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM portfolios WHERE portfolio_id = $1`, portfolioID)
	if err != nil {
		return fmt.Errorf("delete portfolio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
