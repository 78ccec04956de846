package scenario

import (
	"trade-scenario-lab/internal/domain"
)

// entryAllowed applies the scenario's weekday and entry-hour filters.
// A filtered trade is excluded from the simulated set entirely, not exited
// early.
func entryAllowed(t *domain.Trade, params *domain.ScenarioParams) bool {
	if len(params.AllowedWeekdays) > 0 {
		allowed := false
		for _, wd := range params.AllowedWeekdays {
			if t.EntryTime.Weekday() == wd {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if params.TradeHoursStart != nil && params.TradeHoursEnd != nil {
		if !hourInWindow(t.EntryTime.Hour(), *params.TradeHoursStart, *params.TradeHoursEnd) {
			return false
		}
	}

	return true
}

// hourInWindow checks the half-open window [start, end), wrapping past
// midnight when start > end. Equal bounds mean the filter is a no-op.
func hourInWindow(hour, start, end int) bool {
	switch {
	case start == end:
		return true
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}
