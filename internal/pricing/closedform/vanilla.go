package closedform

import (
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Vanilla calculates the price of a European call or put using the
// Black-Scholes model with a continuous dividend yield.
//
// Parameters:
//   - m: market inputs (spot, strike, rate, volatility, maturity, dividend yield)
//   - kind: pricing.Call or pricing.Put
//
// Returns:
//
//	The theoretical option price, or a *pricing.DomainError if m violates
//	the market invariants or kind is unknown. Zero volatility is allowed
//	and yields the discounted intrinsic value of the forward.
func (e *Evaluator) Vanilla(m pricing.MarketParameters, kind pricing.OptionKind) (float64, error) {
	const op = "closedform.Vanilla"
	if err := m.Validate(op); err != nil {
		return 0, err
	}
	if err := kind.Validate(op); err != nil {
		return 0, err
	}
	return e.vanilla(m, kind), nil
}

// Call prices a European call.
func (e *Evaluator) Call(m pricing.MarketParameters) (float64, error) {
	return e.Vanilla(m, pricing.Call)
}

// Put prices a European put.
func (e *Evaluator) Put(m pricing.MarketParameters) (float64, error) {
	return e.Vanilla(m, pricing.Put)
}

// vanilla assumes validated inputs.
func (e *Evaluator) vanilla(m pricing.MarketParameters, kind pricing.OptionKind) float64 {
	mo := newMoments(m.Spot, m.Strike, m.Rate, m.Volatility, m.Maturity, m.DividendYield)
	if kind == pricing.Put {
		return mo.strikeDisc*e.cdf(-mo.d2) - mo.spotDisc*e.cdf(-mo.d1)
	}
	return mo.spotDisc*e.cdf(mo.d1) - mo.strikeDisc*e.cdf(mo.d2)
}
