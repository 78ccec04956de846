// Package validate performs boundary validation of trades, bars and
// scenario parameters. Validation happens once here, before simulation;
// the engines downstream assume well-formed input.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"trade-scenario-lab/internal/domain"
)

// ErrInvalidInput wraps every validation failure so callers can match the
// whole taxonomy with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

var v = validator.New()

// Params validates a scenario parameter bundle. Structural errors reject
// the whole evaluation; nothing is partially applied.
func Params(p *domain.ScenarioParams) error {
	if err := v.Struct(p); err != nil {
		return wrap("scenario params", err)
	}
	if p.StopLossPct != nil && p.StopLossTicks != nil {
		return fmt.Errorf("%w: scenario params: stop_loss_pct and stop_loss_ticks are mutually exclusive", ErrInvalidInput)
	}
	if p.TakeProfitPct != nil && p.TakeProfitTicks != nil {
		return fmt.Errorf("%w: scenario params: take_profit_pct and take_profit_ticks are mutually exclusive", ErrInvalidInput)
	}
	if (p.TradeHoursStart == nil) != (p.TradeHoursEnd == nil) {
		return fmt.Errorf("%w: scenario params: trade_hours_start and trade_hours_end must be set together", ErrInvalidInput)
	}
	if p.MaxHoldingMinutes != nil && *p.MaxHoldingMinutes < p.MinHoldingMinutes {
		return fmt.Errorf("%w: scenario params: max_holding_minutes below min_holding_minutes", ErrInvalidInput)
	}
	return nil
}

// Trade validates a single baseline trade.
func Trade(t *domain.Trade) error {
	if err := v.Struct(t); err != nil {
		return wrap("trade", err)
	}
	if !t.EntryTime.Before(t.ExitTime) {
		return fmt.Errorf("%w: trade %s: entry_time must precede exit_time", ErrInvalidInput, t.InstrumentID)
	}
	return nil
}

// Trades validates a baseline batch. The first malformed trade rejects the
// batch; per-trade data gaps are a simulation concern, not a validation one.
func Trades(trades []*domain.Trade) error {
	for i, t := range trades {
		if t == nil {
			return fmt.Errorf("%w: trade %d is nil", ErrInvalidInput, i)
		}
		if err := Trade(t); err != nil {
			return fmt.Errorf("trade %d: %w", i, err)
		}
	}
	return nil
}

// Bar validates a single price bar, including the OHLC envelope invariant.
func Bar(b *domain.PriceBar) error {
	if err := v.Struct(b); err != nil {
		return wrap("price bar", err)
	}
	if b.Low > b.Open || b.Low > b.Close || b.High < b.Open || b.High < b.Close || b.Low > b.High {
		return fmt.Errorf("%w: price bar %s@%s: OHLC envelope violated", ErrInvalidInput, b.InstrumentID, b.Timestamp)
	}
	return nil
}

// Instrument validates an instrument spec.
func Instrument(s *domain.InstrumentSpec) error {
	if err := v.Struct(s); err != nil {
		return wrap("instrument spec", err)
	}
	return nil
}

// wrap flattens validator field errors behind ErrInvalidInput.
func wrap(subject string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s: field %s failed %q", ErrInvalidInput, subject, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidInput, subject, err)
}
