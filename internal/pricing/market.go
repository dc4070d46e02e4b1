// Package pricing holds the value types shared by the option pricers:
// market inputs, contract specs, their enums and the DomainError every
// pricer fails with.
//
// All types are immutable inputs built once per pricing call. Nothing in
// this package keeps state between calls.
package pricing

import (
	"math"
)

// OptionKind selects the payoff direction of a contract.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// ExerciseStyle controls whether a lattice node may be exercised early.
type ExerciseStyle string

const (
	European ExerciseStyle = "european"
	American ExerciseStyle = "american"
)

// Direction is the side of the spot the barrier sits on.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Knock tells whether touching the barrier activates or extinguishes the option.
type Knock string

const (
	In  Knock = "in"
	Out Knock = "out"
)

// PayoutMode is what a binary option pays when it finishes in the money.
type PayoutMode string

const (
	Cash  PayoutMode = "cash"  // fixed amount
	Asset PayoutMode = "asset" // one unit of the underlying
)

// SpreadPosition names a two-leg vertical spread.
type SpreadPosition string

const (
	BullCall SpreadPosition = "bull_call"
	BullPut  SpreadPosition = "bull_put"
	BearCall SpreadPosition = "bear_call"
	BearPut  SpreadPosition = "bear_put"
)

// MarketParameters is the input shared by every pricer.
//
// Fields:
//   - Spot: spot price of the underlying (> 0)
//   - Strike: strike price (> 0 where the contract has a single strike)
//   - Rate: continuously compounded risk-free rate
//   - Volatility: annualized volatility (>= 0)
//   - Maturity: time to expiry in years (> 0)
//   - DividendYield: continuous dividend yield (>= 0, default 0)
type MarketParameters struct {
	Spot          float64 `json:"spot" toml:"spot"`
	Strike        float64 `json:"strike,omitempty" toml:"strike"`
	Rate          float64 `json:"rate" toml:"rate"`
	Volatility    float64 `json:"volatility" toml:"volatility"`
	Maturity      float64 `json:"maturity" toml:"maturity"`
	DividendYield float64 `json:"dividend_yield,omitempty" toml:"dividend_yield"`
}

// LatticeSpec describes a vanilla option priced on a binomial tree.
type LatticeSpec struct {
	MarketParameters
	Steps int
	Style ExerciseStyle
	Kind  OptionKind
}

// BarrierSpec describes a single continuously monitored barrier option.
type BarrierSpec struct {
	MarketParameters
	Barrier   float64
	Direction Direction
	Knock     Knock
	Kind      OptionKind
}

// BinarySpec describes a cash-or-nothing or asset-or-nothing option.
// Amount is the cash paid per contract; zero means one unit. It is ignored
// for asset payouts.
type BinarySpec struct {
	MarketParameters
	Payout PayoutMode
	Kind   OptionKind
	Amount float64
}

// SpreadSpec describes a vertical spread. MarketParameters.Strike is not
// used; the legs are struck at StrikeLow and StrikeHigh.
type SpreadSpec struct {
	MarketParameters
	StrikeLow  float64
	StrikeHigh float64
	Position   SpreadPosition
}

// ValidateUnderlying checks every invariant except the strike. It is used
// directly by contracts that carry their own strikes.
func (m MarketParameters) ValidateUnderlying(op string) error {
	switch {
	case !finite(m.Spot, m.Rate, m.Volatility, m.Maturity, m.DividendYield):
		return domainErrorf(op, "market parameters must be finite")
	case m.Spot <= 0:
		return domainErrorf(op, "spot must be positive, got %g", m.Spot)
	case m.Volatility < 0:
		return domainErrorf(op, "volatility must be non-negative, got %g", m.Volatility)
	case m.Maturity <= 0:
		return domainErrorf(op, "maturity must be positive, got %g", m.Maturity)
	case m.DividendYield < 0:
		return domainErrorf(op, "dividend yield must be non-negative, got %g", m.DividendYield)
	}
	return nil
}

// Validate checks the market invariants including a positive finite strike.
func (m MarketParameters) Validate(op string) error {
	if err := m.ValidateUnderlying(op); err != nil {
		return err
	}
	if !finite(m.Strike) || m.Strike <= 0 {
		return domainErrorf(op, "strike must be positive, got %g", m.Strike)
	}
	return nil
}

// WithStrike returns a copy of m struck at k.
func (m MarketParameters) WithStrike(k float64) MarketParameters {
	m.Strike = k
	return m
}

// Validate checks the option kind.
func (k OptionKind) Validate(op string) error {
	switch k {
	case Call, Put:
		return nil
	}
	return domainErrorf(op, "unknown option kind %q", string(k))
}

// Intrinsic returns the exercise value of the option at asset price s.
func (k OptionKind) Intrinsic(s, strike float64) float64 {
	if k == Put {
		return math.Max(strike-s, 0)
	}
	return math.Max(s-strike, 0)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
