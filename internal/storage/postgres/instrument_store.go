package postgres

import (
	"context"
	"fmt"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

// InstrumentStore implements storage.InstrumentStore using PostgreSQL.
type InstrumentStore struct {
	pool *Pool
}

// NewInstrumentStore creates a new InstrumentStore.
func NewInstrumentStore(pool *Pool) *InstrumentStore {
	return &InstrumentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InstrumentStore = (*InstrumentStore)(nil)

// Insert adds a spec. Returns ErrDuplicateKey if instrument_id exists.
func (s *InstrumentStore) Insert(ctx context.Context, spec *domain.InstrumentSpec) error {
	query := `
		INSERT INTO instruments (instrument_id, tick_size, tick_value, margin_requirement)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		spec.InstrumentID, spec.TickSize, spec.TickValue, spec.MarginRequirement,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert instrument: %w", err)
	}
	return nil
}

// GetByID retrieves a spec. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetByID(ctx context.Context, instrumentID string) (*domain.InstrumentSpec, error) {
	query := `
		SELECT instrument_id, tick_size, tick_value, margin_requirement
		FROM instruments
		WHERE instrument_id = $1
	`

	var spec domain.InstrumentSpec
	err := s.pool.QueryRow(ctx, query, instrumentID).Scan(
		&spec.InstrumentID, &spec.TickSize, &spec.TickValue, &spec.MarginRequirement,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get instrument by id: %w", err)
	}
	return &spec, nil
}

// List retrieves all specs ordered by instrument_id ASC.
func (s *InstrumentStore) List(ctx context.Context) ([]*domain.InstrumentSpec, error) {
	query := `
		SELECT instrument_id, tick_size, tick_value, margin_requirement
		FROM instruments
		ORDER BY instrument_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	defer rows.Close()

	var specs []*domain.InstrumentSpec
	for rows.Next() {
		var spec domain.InstrumentSpec
		if err := rows.Scan(&spec.InstrumentID, &spec.TickSize, &spec.TickValue, &spec.MarginRequirement); err != nil {
			return nil, fmt.Errorf("scan instrument row: %w", err)
		}
		specs = append(specs, &spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instrument rows: %w", err)
	}
	return specs, nil
}
