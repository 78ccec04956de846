package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/storage"
)

func testPortfolio(id, name string) *domain.Portfolio {
	return &domain.Portfolio{
		ID:              id,
		Name:            name,
		StartingCapital: 50000,
		Timeframe:       domain.Timeframe5Min,
		Status:          domain.PortfolioStatusSimulated,
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPortfolioStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPortfolioStore(pool)

	p := testPortfolio("pf-1", "ES scalps")
	require.NoError(t, store.Insert(ctx, p))

	got, err := store.GetByID(ctx, "pf-1")
	require.NoError(t, err)

	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.StartingCapital, got.StartingCapital)
	assert.Equal(t, p.Timeframe, got.Timeframe)
	assert.Equal(t, p.Status, got.Status)
}

func TestPortfolioStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPortfolioStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPortfolioStore_InsertDuplicateID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPortfolioStore(pool)

	require.NoError(t, store.Insert(ctx, testPortfolio("pf-1", "first")))

	err := store.Insert(ctx, testPortfolio("pf-1", "second"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPortfolioStore_InsertDuplicateName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPortfolioStore(pool)

	require.NoError(t, store.Insert(ctx, testPortfolio("pf-1", "same name")))

	err := store.Insert(ctx, testPortfolio("pf-2", "same name"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPortfolioStore_ListOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPortfolioStore(pool)

	older := testPortfolio("pf-old", "older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	newer := testPortfolio("pf-new", "newer")

	require.NoError(t, store.Insert(ctx, newer))
	require.NoError(t, store.Insert(ctx, older))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "pf-old", list[0].ID)
	assert.Equal(t, "pf-new", list[1].ID)
}

func TestPortfolioStore_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPortfolioStore(pool)

	require.NoError(t, store.Insert(ctx, testPortfolio("pf-1", "doomed")))
	require.NoError(t, store.Delete(ctx, "pf-1"))

	_, err := store.GetByID(ctx, "pf-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "pf-1"), storage.ErrNotFound)
}

func TestPortfolioStore_DeleteCascadesTradesAndScenarios(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	portfolios := NewPortfolioStore(pool)
	trades := NewTradeStore(pool)
	scenarios := NewScenarioStore(pool)

	require.NoError(t, portfolios.Insert(ctx, testPortfolio("pf-1", "cascade")))
	require.NoError(t, trades.InsertBulk(ctx, "pf-1", []*domain.Trade{testTrade("MES", 0)}))

	sc, err := domain.NewScenario("pf-1", "tight stop", domain.ScenarioParams{})
	require.NoError(t, err)
	require.NoError(t, scenarios.Insert(ctx, sc))

	require.NoError(t, portfolios.Delete(ctx, "pf-1"))

	remaining, err := trades.GetByPortfolio(ctx, "pf-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	scs, err := scenarios.GetByPortfolio(ctx, "pf-1")
	require.NoError(t, err)
	assert.Empty(t, scs)
}
