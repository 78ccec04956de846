package domain

import "time"

// Direction is the side of a trade.
type Direction string

// Direction constants
const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Sign returns +1 for long trades and -1 for short trades.
func (d Direction) Sign() float64 {
	if d == DirectionShort {
		return -1
	}
	return 1
}

// Trade is an immutable baseline trade record. The simulation core borrows
// trades read-only and never mutates them.
type Trade struct {
	InstrumentID   string    `json:"instrument_id" validate:"required"`
	Direction      Direction `json:"direction" validate:"required,oneof=Long Short"`
	EntryTime      time.Time `json:"entry_time" validate:"required"`
	ExitTime       time.Time `json:"exit_time" validate:"required"`
	EntryPrice     float64   `json:"entry_price" validate:"gt=0"`
	ExitPrice      float64   `json:"exit_price" validate:"gt=0"`
	PnL            float64   `json:"pnl"`
	HoldingMinutes float64   `json:"holding_minutes" validate:"gte=0"`

	// RMultiple is the risk-normalized return where the caller recorded one.
	RMultiple *float64 `json:"r_multiple,omitempty"`

	// InitialRisk is the dollar distance to the original protective stop,
	// used to recompute R on simulated trades.
	InitialRisk *float64 `json:"initial_risk,omitempty"`
}

// ExitReason identifies which rule closed a simulated trade.
type ExitReason string

// Exit reason codes
const (
	ExitReasonStopLoss     ExitReason = "StopLoss"
	ExitReasonTakeProfit   ExitReason = "TakeProfit"
	ExitReasonMaxHoldTime  ExitReason = "MaxHoldTime"
	ExitReasonOriginalExit ExitReason = "OriginalExit"
)

// SimulatedTrade is the ephemeral output of one scenario evaluation.
// EntryPrice and ExitPrice are fill prices, already adjusted for slippage.
// Owned by the caller for the duration of one evaluation; never persisted
// by the core.
type SimulatedTrade struct {
	InstrumentID   string    `json:"instrument_id"`
	Direction      Direction `json:"direction"`
	EntryTime      time.Time `json:"entry_time"`
	ExitTime       time.Time `json:"exit_time"`
	EntryPrice     float64   `json:"entry_price"`
	ExitPrice      float64   `json:"exit_price"`
	HoldingMinutes float64   `json:"holding_minutes"`

	ExitReason     ExitReason `json:"exit_reason"`
	Contracts      int        `json:"contracts"`
	SlippageCost   float64    `json:"slippage_cost"`
	CommissionCost float64    `json:"commission_cost"`
	NetPnL         float64    `json:"net_pnl"`
	RMultiple      *float64   `json:"r_multiple,omitempty"`
}

// FromBaseline converts an unmodified trade into the simulated shape so the
// metrics engine can reduce baseline and scenario sets identically. Costs are
// zero and the recorded P&L is carried as-is.
func FromBaseline(t *Trade) *SimulatedTrade {
	return &SimulatedTrade{
		InstrumentID:   t.InstrumentID,
		Direction:      t.Direction,
		EntryTime:      t.EntryTime,
		ExitTime:       t.ExitTime,
		EntryPrice:     t.EntryPrice,
		ExitPrice:      t.ExitPrice,
		HoldingMinutes: t.HoldingMinutes,
		ExitReason:     ExitReasonOriginalExit,
		Contracts:      1,
		NetPnL:         t.PnL,
		RMultiple:      t.RMultiple,
	}
}
