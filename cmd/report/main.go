// Command report evaluates every stored scenario of a portfolio against its
// stored trades and renders the comparison matrix.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trade-scenario-lab/internal/config"
	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/logging"
	"trade-scenario-lab/internal/reporting"
	"trade-scenario-lab/internal/scenario"
	chstore "trade-scenario-lab/internal/storage/clickhouse"
	"trade-scenario-lab/internal/storage/migrations"
	pgstore "trade-scenario-lab/internal/storage/postgres"
)

func main() {
	var (
		portfolioID = flag.String("portfolio", "", "portfolio ID to report on")
		timeframe   = flag.String("timeframe", "", "bar timeframe (default: the portfolio's)")
		format      = flag.String("format", "markdown", "output format: markdown or csv")
		outPath     = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging).WithComponent("report")

	if *portfolioID == "" {
		logger.Fatal("-portfolio is required")
	}
	if cfg.PostgresDSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.WithError(err).Fatal("run postgres migrations")
	}

	p, err := pgstore.NewPortfolioStore(pool).GetByID(ctx, *portfolioID)
	if err != nil {
		logger.WithError(err).Fatal("load portfolio")
	}

	trades, err := pgstore.NewTradeStore(pool).GetByPortfolio(ctx, *portfolioID)
	if err != nil {
		logger.WithError(err).Fatal("load trades")
	}
	if len(trades) == 0 {
		logger.Warn("portfolio has no trades; metrics will be empty")
	}

	scenarios, err := pgstore.NewScenarioStore(pool).GetByPortfolio(ctx, *portfolioID)
	if err != nil {
		logger.WithError(err).Fatal("load scenarios")
	}
	if len(scenarios) == 0 {
		logger.Fatal("portfolio has no scenarios to report on")
	}

	specs := []domain.InstrumentSpec{domain.SpecMES, domain.SpecMNQ}
	stored, err := pgstore.NewInstrumentStore(pool).List(ctx)
	if err != nil {
		logger.WithError(err).Fatal("load instruments")
	}
	for _, spec := range stored {
		specs = append(specs, *spec)
	}

	tf := *timeframe
	if tf == "" {
		tf = p.Timeframe
	}

	var bars map[string][]*domain.PriceBar
	if cfg.ClickhouseDSN != "" {
		bars, err = loadBars(ctx, cfg.ClickhouseDSN, tf, trades)
		if err != nil {
			logger.WithError(err).Fatal("load bars from clickhouse")
		}
	} else {
		logger.Warn("CLICKHOUSE_DSN not set; trades keep their original exits")
	}

	engine := scenario.NewEngine(specs...)

	baseline, err := engine.Baseline(trades, p.StartingCapital)
	if err != nil {
		logger.WithError(err).Fatal("evaluate baseline")
	}

	var results []*scenario.Result
	for _, sc := range scenarios {
		res, err := engine.Evaluate(trades, bars, sc, p.StartingCapital)
		if err != nil {
			logger.WithError(err).WithField("scenario", sc.Name).Fatal("evaluate scenario")
		}
		logger.WithField("scenario", sc.Name).
			WithField("trades", len(res.SimulatedTrades)).
			Info("scenario evaluated")
		results = append(results, res)
	}

	comparison := reporting.BuildComparison(p.Name, baseline, results)

	var out string
	switch *format {
	case "markdown":
		out = reporting.RenderMarkdown(comparison)
	case "csv":
		out = reporting.RenderCSV(comparison)
	default:
		logger.WithField("format", *format).Fatal("unknown format")
	}

	if *outPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*outPath, []byte(out), 0o644); err != nil {
		logger.WithError(err).Fatal("write output file")
	}
	logger.WithField("path", *outPath).Info("report written")
}

// loadBars fetches bar history for every instrument the trades reference.
func loadBars(ctx context.Context, dsn, timeframe string, trades []*domain.Trade) (map[string][]*domain.PriceBar, error) {
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	store := chstore.NewPriceBarStore(conn)

	instruments := make(map[string]struct{})
	for _, t := range trades {
		instruments[t.InstrumentID] = struct{}{}
	}

	bars := make(map[string][]*domain.PriceBar, len(instruments))
	for id := range instruments {
		series, err := store.GetByInstrument(ctx, id, timeframe)
		if err != nil {
			return nil, fmt.Errorf("load bars for %s: %w", id, err)
		}
		bars[id] = series
	}
	return bars, nil
}
