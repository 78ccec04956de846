// Command evaluate replays a portfolio's baseline trades under one or more
// what-if scenarios and prints the comparison against the baseline.
//
// Trades come either from a JSON file (-trades) or from the portfolio's
// stored records (-portfolio with POSTGRES_DSN). Price bars come from a JSON
// file (-bars) or from ClickHouse when CLICKHOUSE_DSN is set; without bars
// every trade keeps its original exit.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"trade-scenario-lab/internal/config"
	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/logging"
	"trade-scenario-lab/internal/metrics"
	"trade-scenario-lab/internal/reporting"
	"trade-scenario-lab/internal/scenario"
	chstore "trade-scenario-lab/internal/storage/clickhouse"
	"trade-scenario-lab/internal/storage/migrations"
	pgstore "trade-scenario-lab/internal/storage/postgres"
)

func main() {
	var (
		portfolioID   = flag.String("portfolio", "", "portfolio ID to load trades for")
		tradesPath    = flag.String("trades", "", "JSON file with baseline trades")
		barsPath      = flag.String("bars", "", "JSON file with price bars")
		scenarioFiles = flag.String("scenarios", "", "comma-separated scenario YAML files")
		timeframe     = flag.String("timeframe", domain.Timeframe5Min, "bar timeframe for ClickHouse lookups")
		format        = flag.String("format", "markdown", "output format: markdown, csv or json")
		outPath       = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging).WithComponent("evaluate")

	if *scenarioFiles == "" {
		logger.Fatal("at least one scenario file is required (-scenarios)")
	}
	if *tradesPath == "" && *portfolioID == "" {
		logger.Fatal("either -trades or -portfolio is required")
	}

	ctx := context.Background()

	startingCapital := cfg.StartingCapital
	portfolioName := "ad-hoc"

	var trades []*domain.Trade
	var bars map[string][]*domain.PriceBar
	specs := []domain.InstrumentSpec{domain.SpecMES, domain.SpecMNQ}

	if *tradesPath != "" {
		trades, err = loadTradesFile(*tradesPath)
		if err != nil {
			logger.WithError(err).Fatal("load trades file")
		}
	} else {
		if cfg.PostgresDSN == "" {
			logger.Fatal("POSTGRES_DSN is required when loading trades with -portfolio")
		}
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
		startingCapital = p.StartingCapital
		portfolioName = p.Name

		trades, err = pgstore.NewTradeStore(pool).GetByPortfolio(ctx, *portfolioID)
		if err != nil {
			logger.WithError(err).Fatal("load trades")
		}

		stored, err := pgstore.NewInstrumentStore(pool).List(ctx)
		if err != nil {
			logger.WithError(err).Fatal("load instruments")
		}
		for _, spec := range stored {
			specs = append(specs, *spec)
		}
	}

	if *barsPath != "" {
		bars, err = loadBarsFile(*barsPath)
		if err != nil {
			logger.WithError(err).Fatal("load bars file")
		}
	} else if cfg.ClickhouseDSN != "" {
		bars, err = loadBarsClickhouse(ctx, cfg.ClickhouseDSN, *timeframe, trades)
		if err != nil {
			logger.WithError(err).Fatal("load bars from clickhouse")
		}
	}

	engine := scenario.NewEngine(specs...)

	baseline, err := engine.Baseline(trades, startingCapital)
	if err != nil {
		logger.WithError(err).Fatal("evaluate baseline")
	}

	var results []*scenario.Result
	for _, path := range strings.Split(*scenarioFiles, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		pf, err := scenario.LoadParamsFile(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("load scenario file")
		}
		sc, err := domain.NewScenario(*portfolioID, pf.Name, pf.Params)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("build scenario")
		}
		res, err := engine.Evaluate(trades, bars, sc, startingCapital)
		if err != nil {
			logger.WithError(err).WithField("scenario", pf.Name).Fatal("evaluate scenario")
		}
		logger.WithField("scenario", pf.Name).
			WithField("trades", len(res.SimulatedTrades)).
			Info("scenario evaluated")
		results = append(results, res)
	}

	out, err := render(portfolioName, baseline, results, *format)
	if err != nil {
		logger.WithError(err).Fatal("render output")
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

// render formats the comparison in the requested output format.
func render(portfolioName string, baseline *metrics.Report, results []*scenario.Result, format string) (string, error) {
	comparison := reporting.BuildComparison(portfolioName, baseline, results)

	switch format {
	case "markdown":
		return reporting.RenderMarkdown(comparison), nil
	case "csv":
		return reporting.RenderCSV(comparison), nil
	case "json":
		payload := struct {
			Portfolio string         `json:"portfolio"`
			Baseline  map[string]any `json:"baseline"`
			Scenarios []jsonScenario `json:"scenarios"`
		}{
			Portfolio: portfolioName,
			Baseline:  jsonSafeMetrics(baseline.Mapping()),
		}
		for _, res := range results {
			payload.Scenarios = append(payload.Scenarios, jsonScenario{
				Name:    res.ScenarioName,
				Metrics: jsonSafeMetrics(res.Metrics),
				Trades:  res.SimulatedTrades,
			})
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal json output: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

type jsonScenario struct {
	Name    string                   `json:"name"`
	Metrics map[string]any           `json:"metrics"`
	Trades  []*domain.SimulatedTrade `json:"trades"`
}

// jsonSafeMetrics nulls out NaN and infinite sentinels, which encoding/json
// refuses to marshal. A loss-free set legitimately carries profit_factor
// +Inf and sortino_ratio NaN.
func jsonSafeMetrics(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}

// loadTradesFile reads baseline trades from a JSON array.
func loadTradesFile(path string) ([]*domain.Trade, error) {
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

// loadBarsFile reads price bars from a JSON array and groups them by
// instrument.
func loadBarsFile(path string) (map[string][]*domain.PriceBar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bars file: %w", err)
	}
	var flat []*domain.PriceBar
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("parse bars file: %w", err)
	}
	bars := make(map[string][]*domain.PriceBar)
	for _, b := range flat {
		bars[b.InstrumentID] = append(bars[b.InstrumentID], b)
	}
	return bars, nil
}

// loadBarsClickhouse fetches bar history for every instrument the trades
// reference.
func loadBarsClickhouse(ctx context.Context, dsn, timeframe string, trades []*domain.Trade) (map[string][]*domain.PriceBar, error) {
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
