package closedform

import (
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Spread prices a vertical spread as the signed sum of two vanilla legs
// struck at s.StrikeLow and s.StrikeHigh:
//
//	bull_call: +C(low) - C(high)
//	bull_put:  +P(low) - P(high)
//	bear_call: -C(low) + C(high)
//	bear_put:  -P(low) + P(high)
//
// The value is from the holder's side, so credit spreads come out negative.
func (e *Evaluator) Spread(s pricing.SpreadSpec) (float64, error) {
	const op = "closedform.Spread"
	if err := s.Validate(op); err != nil {
		return 0, err
	}

	kind, sign := pricing.Call, 1.0
	switch s.Position {
	case pricing.BullPut:
		kind = pricing.Put
	case pricing.BearCall:
		sign = -1
	case pricing.BearPut:
		kind, sign = pricing.Put, -1
	}

	low := e.vanilla(s.WithStrike(s.StrikeLow), kind)
	high := e.vanilla(s.WithStrike(s.StrikeHigh), kind)
	return sign * (low - high), nil
}

// BullCall prices long call(low) short call(high).
func (e *Evaluator) BullCall(m pricing.MarketParameters, low, high float64) (float64, error) {
	return e.Spread(spreadOf(m, low, high, pricing.BullCall))
}

// BullPut prices long put(low) short put(high).
func (e *Evaluator) BullPut(m pricing.MarketParameters, low, high float64) (float64, error) {
	return e.Spread(spreadOf(m, low, high, pricing.BullPut))
}

// BearCall prices short call(low) long call(high).
func (e *Evaluator) BearCall(m pricing.MarketParameters, low, high float64) (float64, error) {
	return e.Spread(spreadOf(m, low, high, pricing.BearCall))
}

// BearPut prices short put(low) long put(high).
func (e *Evaluator) BearPut(m pricing.MarketParameters, low, high float64) (float64, error) {
	return e.Spread(spreadOf(m, low, high, pricing.BearPut))
}

func spreadOf(m pricing.MarketParameters, low, high float64, pos pricing.SpreadPosition) pricing.SpreadSpec {
	return pricing.SpreadSpec{MarketParameters: m, StrikeLow: low, StrikeHigh: high, Position: pos}
}
