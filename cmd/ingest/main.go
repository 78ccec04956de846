// Command ingest loads a portfolio's baseline trades, price bars and
// scenario bundles into storage. Trades and scenarios go to PostgreSQL,
// bars to ClickHouse. With USE_MEMORY_STORAGE=true everything is loaded
// into in-memory stores instead, a dry run that validates the input files
// without touching a database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"trade-scenario-lab/internal/config"
	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/logging"
	"trade-scenario-lab/internal/scenario"
	"trade-scenario-lab/internal/storage"
	chstore "trade-scenario-lab/internal/storage/clickhouse"
	"trade-scenario-lab/internal/storage/memory"
	"trade-scenario-lab/internal/storage/migrations"
	pgstore "trade-scenario-lab/internal/storage/postgres"
	"trade-scenario-lab/internal/validate"
)

func main() {
	var (
		name          = flag.String("name", "", "portfolio name")
		capital       = flag.Float64("capital", 0, "starting capital (default STARTING_CAPITAL)")
		timeframe     = flag.String("timeframe", domain.Timeframe5Min, "portfolio and bar timeframe")
		tradesPath    = flag.String("trades", "", "JSON file with baseline trades")
		barsPath      = flag.String("bars", "", "JSON file with price bars")
		scenarioFiles = flag.String("scenarios", "", "comma-separated scenario YAML files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging).WithComponent("ingest")

	if *name == "" {
		logger.Fatal("portfolio name is required (-name)")
	}
	if *tradesPath == "" {
		logger.Fatal("a trades file is required (-trades)")
	}

	startingCapital := cfg.StartingCapital
	if *capital > 0 {
		startingCapital = *capital
	}

	ctx := context.Background()

	stores, err := openStores(ctx, cfg, *barsPath != "")
	if err != nil {
		logger.WithError(err).Fatal("open storage")
	}
	defer stores.close()
	if cfg.UseMemory {
		logger.Warn("using in-memory storage: nothing will be persisted")
	}

	portfolio := domain.NewPortfolio(*name, startingCapital, *timeframe, domain.PortfolioStatusSimulated)
	if err := stores.portfolios.Insert(ctx, portfolio); err != nil {
		logger.WithError(err).Fatal("insert portfolio")
	}
	logger.WithFields(logrus.Fields{
		"portfolio": portfolio.ID,
		"name":      portfolio.Name,
	}).Info("portfolio created")

	for _, spec := range []domain.InstrumentSpec{domain.SpecMES, domain.SpecMNQ} {
		s := spec
		if err := stores.instruments.Insert(ctx, &s); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			logger.WithError(err).WithField("instrument", s.InstrumentID).Fatal("insert instrument spec")
		}
	}

	trades, err := loadTrades(*tradesPath)
	if err != nil {
		logger.WithError(err).Fatal("load trades file")
	}
	if err := validate.Trades(trades); err != nil {
		logger.WithError(err).Fatal("validate trades")
	}
	if err := stores.trades.InsertBulk(ctx, portfolio.ID, trades); err != nil {
		logger.WithError(err).Fatal("insert trades")
	}
	logger.WithField("trades", len(trades)).Info("trades ingested")

	if *barsPath != "" {
		bars, err := loadBars(*barsPath)
		if err != nil {
			logger.WithError(err).Fatal("load bars file")
		}
		for _, b := range bars {
			if err := validate.Bar(b); err != nil {
				logger.WithError(err).Fatal("validate bars")
			}
		}
		if err := stores.bars.InsertBulk(ctx, *timeframe, bars); err != nil {
			logger.WithError(err).Fatal("insert bars")
		}
		logger.WithField("bars", len(bars)).Info("bars ingested")
	}

	for _, path := range strings.Split(*scenarioFiles, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		pf, err := scenario.LoadParamsFile(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("load scenario file")
		}
		sc, err := domain.NewScenario(portfolio.ID, pf.Name, pf.Params)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("build scenario")
		}
		if err := stores.scenarios.Insert(ctx, sc); err != nil {
			logger.WithError(err).WithField("scenario", pf.Name).Fatal("insert scenario")
		}
		logger.WithField("scenario", pf.Name).Info("scenario stored")
	}

	logger.WithField("portfolio", portfolio.ID).Info("ingest complete")
}

// stores bundles the storage handles behind their interfaces so the load
// path does not care which backend was selected.
type stores struct {
	portfolios  storage.PortfolioStore
	instruments storage.InstrumentStore
	trades      storage.TradeStore
	scenarios   storage.ScenarioStore
	bars        storage.PriceBarStore

	pool   *pgstore.Pool
	chConn *chstore.Conn
}

func (s *stores) close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.chConn != nil {
		s.chConn.Close()
	}
}

// openStores selects memory or database-backed stores and runs migrations
// for the latter.
func openStores(ctx context.Context, cfg *config.Config, needBars bool) (*stores, error) {
	if cfg.UseMemory {
		return &stores{
			portfolios:  memory.NewPortfolioStore(),
			instruments: memory.NewInstrumentStore(),
			trades:      memory.NewTradeStore(),
			scenarios:   memory.NewScenarioStore(),
			bars:        memory.NewPriceBarStore(),
		}, nil
	}

	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required unless USE_MEMORY_STORAGE=true")
	}
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	s := &stores{
		portfolios:  pgstore.NewPortfolioStore(pool),
		instruments: pgstore.NewInstrumentStore(pool),
		trades:      pgstore.NewTradeStore(pool),
		scenarios:   pgstore.NewScenarioStore(pool),
		pool:        pool,
	}

	if needBars {
		if cfg.ClickhouseDSN == "" {
			pool.Close()
			return nil, fmt.Errorf("CLICKHOUSE_DSN is required to ingest bars")
		}
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		s.bars = chstore.NewPriceBarStore(conn)
		s.chConn = conn
	}
	return s, nil
}

// loadTrades reads baseline trades from a JSON array.
func loadTrades(path string) ([]*domain.Trade, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trades file: %w", err)
	}
	var trades []*domain.Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		return nil, fmt.Errorf("parse trades file: %w", err)
	}
	return trades, nil
}

// loadBars reads price bars from a JSON array.
func loadBars(path string) ([]*domain.PriceBar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bars file: %w", err)
	}
	var bars []*domain.PriceBar
	if err := json.Unmarshal(data, &bars); err != nil {
		return nil, fmt.Errorf("parse bars file: %w", err)
	}
	return bars, nil
}
