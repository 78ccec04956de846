package domain

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioStatus marks whether a portfolio trades live or is simulated.
type PortfolioStatus string

// Portfolio status constants
const (
	PortfolioStatusLive      PortfolioStatus = "live"
	PortfolioStatusSimulated PortfolioStatus = "simulated"
)

// Portfolio is the owning container for trades and scenarios: one trading
// strategy over one or more instruments at a fixed timeframe.
type Portfolio struct {
	ID              string          `validate:"required"`
	Name            string          `validate:"required"`
	StartingCapital float64         `validate:"gt=0"`
	Timeframe       string          `validate:"required"`
	Status          PortfolioStatus `validate:"oneof=live simulated"`
	CreatedAt       time.Time
}

// NewPortfolio builds a portfolio with a fresh ID.
func NewPortfolio(name string, startingCapital float64, timeframe string, status PortfolioStatus) *Portfolio {
	return &Portfolio{
		ID:              uuid.NewString(),
		Name:            name,
		StartingCapital: startingCapital,
		Timeframe:       timeframe,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
	}
}
