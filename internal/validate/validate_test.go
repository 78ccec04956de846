package validate

import (
	"errors"
	"testing"
	"time"

	"trade-scenario-lab/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// validParams returns a defaulted parameter bundle.
func validParams(t *testing.T) domain.ScenarioParams {
	t.Helper()
	p := domain.ScenarioParams{}
	if err := p.ApplyDefaults(); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}
	return p
}

func validTrade() *domain.Trade {
	entry := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	return &domain.Trade{
		InstrumentID:   "MES",
		Direction:      domain.DirectionLong,
		EntryTime:      entry,
		ExitTime:       entry.Add(time.Hour),
		EntryPrice:     5000,
		ExitPrice:      5010,
		PnL:            50,
		HoldingMinutes: 60,
	}
}

func TestParams_DefaultsAreValid(t *testing.T) {
	p := validParams(t)
	if err := Params(&p); err != nil {
		t.Errorf("defaulted params must validate, got %v", err)
	}
}

func TestParams_StopPctAndTicksMutuallyExclusive(t *testing.T) {
	p := validParams(t)
	p.StopLossPct = ptr(0.02)
	p.StopLossTicks = ptr(2.0)

	err := Params(&p)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParams_TakeProfitPctAndTicksMutuallyExclusive(t *testing.T) {
	p := validParams(t)
	p.TakeProfitPct = ptr(0.04)
	p.TakeProfitTicks = ptr(4.0)

	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParams_StopLossPctBounds(t *testing.T) {
	p := validParams(t)
	p.StopLossPct = ptr(1.5) // >= 1 is malformed

	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for stop >= 100%%, got %v", err)
	}

	p = validParams(t)
	p.StopLossPct = ptr(-0.02)
	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative stop, got %v", err)
	}
}

func TestParams_TradeHoursSetTogether(t *testing.T) {
	p := validParams(t)
	p.TradeHoursStart = ptr(9)

	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for lone hour bound, got %v", err)
	}

	p = validParams(t)
	p.TradeHoursStart = ptr(18)
	p.TradeHoursEnd = ptr(2) // wrap past midnight is legal
	if err := Params(&p); err != nil {
		t.Errorf("expected wrap window to validate, got %v", err)
	}
}

func TestParams_MaxHoldBelowMinHold(t *testing.T) {
	p := validParams(t)
	p.MinHoldingMinutes = 60
	p.MaxHoldingMinutes = ptr(30.0)

	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParams_MultiplierBounds(t *testing.T) {
	p := validParams(t)
	p.CapitalMultiplier = 11

	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for multiplier > 10, got %v", err)
	}

	p = validParams(t)
	p.CapitalMultiplier = 0.05
	if err := Params(&p); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for multiplier < 0.1, got %v", err)
	}
}

func TestTrade_Valid(t *testing.T) {
	if err := Trade(validTrade()); err != nil {
		t.Errorf("expected valid trade, got %v", err)
	}
}

func TestTrade_EntryMustPrecedeExit(t *testing.T) {
	tr := validTrade()
	tr.ExitTime = tr.EntryTime

	if err := Trade(tr); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTrade_NonPositivePrice(t *testing.T) {
	tr := validTrade()
	tr.EntryPrice = 0

	if err := Trade(tr); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTrades_FirstBadTradeRejectsBatch(t *testing.T) {
	bad := validTrade()
	bad.Direction = "Sideways"

	err := Trades([]*domain.Trade{validTrade(), bad, validTrade()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := Trades([]*domain.Trade{validTrade(), nil}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil trade, got %v", err)
	}
}

func TestBar_OHLCEnvelope(t *testing.T) {
	good := &domain.PriceBar{
		InstrumentID: "MES",
		Timestamp:    time.Now(),
		Open:         100, High: 101, Low: 99, Close: 100.5,
		Volume: 10,
	}
	if err := Bar(good); err != nil {
		t.Errorf("expected valid bar, got %v", err)
	}

	bad := *good
	bad.Low = 100.8 // above open
	if err := Bar(&bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for envelope violation, got %v", err)
	}

	inverted := *good
	inverted.High = 98
	if err := Bar(&inverted); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for high < low, got %v", err)
	}
}

func TestInstrument(t *testing.T) {
	if err := Instrument(&domain.SpecMES); err != nil {
		t.Errorf("expected valid spec, got %v", err)
	}

	bad := domain.SpecMES
	bad.TickValue = 0
	if err := Instrument(&bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
