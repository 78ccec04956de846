package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// ScenarioStore implements storage.ScenarioStore using PostgreSQL.
// Params are stored as a JSONB document.
type ScenarioStore struct {
	pool *Pool
}

// NewScenarioStore creates a new ScenarioStore.
func NewScenarioStore(pool *Pool) *ScenarioStore {
	return &ScenarioStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScenarioStore = (*ScenarioStore)(nil)

// Insert adds a scenario. Returns ErrDuplicateKey if id exists and
// ErrScenarioCapacity when the portfolio is full. The count and insert run
// in one transaction with the portfolio row locked so concurrent inserts
// cannot slip past the cap.
func (s *ScenarioStore) Insert(ctx context.Context, sc *domain.Scenario) error {
	params, err := json.Marshal(sc.Params)
	if err != nil {
		return fmt.Errorf("marshal scenario params: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	err = tx.QueryRow(ctx, `
		SELECT count(*) FROM scenarios
		WHERE portfolio_id = (
			SELECT portfolio_id FROM portfolios WHERE portfolio_id = $1 FOR UPDATE
		)
	`, sc.PortfolioID).Scan(&count)
	if err != nil {
		return fmt.Errorf("count scenarios: %w", err)
	}
	if count >= domain.MaxScenariosPerPortfolio {
		return storage.ErrScenarioCapacity
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO scenarios (scenario_id, portfolio_id, name, params, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sc.ID, sc.PortfolioID, sc.Name, params, sc.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scenario: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a scenario. Returns ErrNotFound if not exists.
func (s *ScenarioStore) GetByID(ctx context.Context, scenarioID string) (*domain.Scenario, error) {
	query := `
		SELECT scenario_id, portfolio_id, name, params, created_at
		FROM scenarios
		WHERE scenario_id = $1
	`

	var (
		sc     domain.Scenario
		params []byte
	)
	err := s.pool.QueryRow(ctx, query, scenarioID).Scan(
		&sc.ID, &sc.PortfolioID, &sc.Name, &params, &sc.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scenario by id: %w", err)
	}
	if err := json.Unmarshal(params, &sc.Params); err != nil {
		return nil, fmt.Errorf("unmarshal scenario params: %w", err)
	}
	return &sc, nil
}

// GetByPortfolio retrieves a portfolio's scenarios, created_at ASC.
func (s *ScenarioStore) GetByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Scenario, error) {
	query := `
		SELECT scenario_id, portfolio_id, name, params, created_at
		FROM scenarios
		WHERE portfolio_id = $1
		ORDER BY created_at ASC, scenario_id ASC
	`

	rows, err := s.pool.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("get scenarios by portfolio: %w", err)
	}
	defer rows.Close()

	var scenarios []*domain.Scenario
	for rows.Next() {
		var (
			sc     domain.Scenario
			params []byte
		)
		if err := rows.Scan(&sc.ID, &sc.PortfolioID, &sc.Name, &params, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scenario row: %w", err)
		}
		if err := json.Unmarshal(params, &sc.Params); err != nil {
			return nil, fmt.Errorf("unmarshal scenario params: %w", err)
		}
		scenarios = append(scenarios, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario rows: %w", err)
	}
	return scenarios, nil
}

// Delete removes a scenario. Returns ErrNotFound if not exists.
func (s *ScenarioStore) Delete(ctx context.Context, scenarioID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE scenario_id = $1`, scenarioID)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
