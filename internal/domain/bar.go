package domain

import "time"

// PriceBar is one OHLCV bar. Bars are ordered by Timestamp per instrument
// and immutable once ingested. Invariant: Low <= Open,Close <= High.
type PriceBar struct {
	InstrumentID string    `json:"instrument_id" validate:"required"`
	Timestamp    time.Time `json:"timestamp" validate:"required"` // bar open
	Open         float64   `json:"open" validate:"gt=0"`
	High         float64   `json:"high" validate:"gt=0"`
	Low          float64   `json:"low" validate:"gt=0"`
	Close        float64   `json:"close" validate:"gt=0"`
	Volume       int64     `json:"volume" validate:"gte=0"`
}

// Supported bar timeframes.
const (
	Timeframe5Min  = "5min"
	Timeframe15Min = "15min"
	Timeframe1Hour = "1hr"
)
