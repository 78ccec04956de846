package domain

import (
	"time"

	"github.com/creasty/defaults"
	"github.com/google/uuid"
)

// SameBarPolicy decides which level wins when a stop-loss and a take-profit
// are both touched inside a single bar. Intraperiod data cannot order the
// two touches, so the resolution is a documented policy choice, not an
// inferred broker behavior.
type SameBarPolicy string

// Same-bar resolution policies. StopFirst is the conservative default.
const (
	SameBarStopFirst       SameBarPolicy = "STOP_FIRST"
	SameBarTakeProfitFirst SameBarPolicy = "TAKE_PROFIT_FIRST"
)

// ScenarioParams is a named, immutable bundle of what-if constraints.
// Optional constraints are pointers; nil means "not active". Percentages
// named *Pct are fractions of entry price or capital (0.02 = 2%), while
// *Ticks fields are expressed in points of price.
type ScenarioParams struct {
	StopLossPct     *float64 `yaml:"stop_loss_pct" json:"stop_loss_pct,omitempty" validate:"omitempty,gt=0,lt=1"`
	StopLossTicks   *float64 `yaml:"stop_loss_ticks" json:"stop_loss_ticks,omitempty" validate:"omitempty,gt=0"`
	TakeProfitPct   *float64 `yaml:"take_profit_pct" json:"take_profit_pct,omitempty" validate:"omitempty,gt=0"`
	TakeProfitTicks *float64 `yaml:"take_profit_ticks" json:"take_profit_ticks,omitempty" validate:"omitempty,gt=0"`

	MinHoldingMinutes float64  `yaml:"min_holding_minutes" json:"min_holding_minutes" validate:"gte=0"`
	MaxHoldingMinutes *float64 `yaml:"max_holding_minutes" json:"max_holding_minutes,omitempty" validate:"omitempty,gt=0"`

	// AllowedWeekdays restricts trade entries; empty means all weekdays.
	AllowedWeekdays []time.Weekday `yaml:"allowed_weekdays" json:"allowed_weekdays,omitempty" validate:"dive,gte=0,lte=6"`

	// Entry-hour window [start, end). When start > end the window wraps
	// past midnight. Both nil means no hour filter.
	TradeHoursStart *int `yaml:"trade_hours_start" json:"trade_hours_start,omitempty" validate:"omitempty,gte=0,lte=23"`
	TradeHoursEnd   *int `yaml:"trade_hours_end" json:"trade_hours_end,omitempty" validate:"omitempty,gte=0,lte=24"`

	CapitalMultiplier  float64 `yaml:"capital_multiplier" json:"capital_multiplier" default:"1.0" validate:"gte=0.1,lte=10"`
	AllocationPct      float64 `yaml:"allocation_pct" json:"allocation_pct" default:"0.4" validate:"gt=0,lte=1"`
	InstrumentSplitPct float64 `yaml:"instrument_split_pct" json:"instrument_split_pct" default:"1.0" validate:"gt=0,lte=1"`

	SlippageTicks         float64 `yaml:"slippage_ticks" json:"slippage_ticks" default:"0.25" validate:"gte=0"`
	CommissionPerContract float64 `yaml:"commission_per_contract" json:"commission_per_contract" validate:"gte=0"` // round-trip dollars

	MaxConcurrentPositions *int `yaml:"max_concurrent_positions" json:"max_concurrent_positions,omitempty" validate:"omitempty,gt=0"`

	SameBarPolicy SameBarPolicy `yaml:"same_bar_policy" json:"same_bar_policy" default:"STOP_FIRST" validate:"oneof=STOP_FIRST TAKE_PROFIT_FIRST"`
}

// ApplyDefaults fills zero-valued tunables with their documented defaults.
func (p *ScenarioParams) ApplyDefaults() error {
	return defaults.Set(p)
}

// StopLossActive reports whether any stop-loss constraint is configured.
func (p *ScenarioParams) StopLossActive() bool {
	return p.StopLossPct != nil || p.StopLossTicks != nil
}

// TakeProfitActive reports whether any take-profit constraint is configured.
func (p *ScenarioParams) TakeProfitActive() bool {
	return p.TakeProfitPct != nil || p.TakeProfitTicks != nil
}

// Scenario is a named parameter bundle owned by a portfolio.
type Scenario struct {
	ID          string
	PortfolioID string
	Name        string
	Params      ScenarioParams
	CreatedAt   time.Time
}

// MaxScenariosPerPortfolio caps live scenarios per portfolio. Creation
// beyond the cap is rejected, never silently truncated.
const MaxScenariosPerPortfolio = 10

// NewScenario builds a scenario with a fresh ID and defaulted params.
func NewScenario(portfolioID, name string, params ScenarioParams) (*Scenario, error) {
	if err := params.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &Scenario{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Name:        name,
		Params:      params,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
