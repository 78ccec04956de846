package domain

// InstrumentSpec carries the contract economics the cost model and position
// sizer need. TickValue is dollars per full point of price movement per
// contract; SlippageTicks on ScenarioParams is expressed in points of price,
// so one exchange tick of MES (0.25 points) costs 0.25 * TickValue.
type InstrumentSpec struct {
	InstrumentID      string  `validate:"required"`
	TickSize          float64 `validate:"gt=0"` // minimum price increment in points
	TickValue         float64 `validate:"gt=0"` // dollars per point per contract
	MarginRequirement float64 `validate:"gt=0"` // dollars per contract
}

// Default micro futures contract specs.
var (
	SpecMES = InstrumentSpec{
		InstrumentID:      "MES",
		TickSize:          0.25,
		TickValue:         5,
		MarginRequirement: 1000,
	}

	SpecMNQ = InstrumentSpec{
		InstrumentID:      "MNQ",
		TickSize:          0.25,
		TickValue:         2,
		MarginRequirement: 1500,
	}
)
