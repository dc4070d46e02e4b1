package closedform

import (
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Binary prices a European digital option.
//
//	cash call:  A·e^(-rT)·N(d2)
//	cash put:   A·e^(-rT)·N(-d2)
//	asset call: S·e^(-qT)·N(d1)
//	asset put:  S·e^(-qT)·N(-d1)
//
// A is s.CashAmount().
func (e *Evaluator) Binary(s pricing.BinarySpec) (float64, error) {
	const op = "closedform.Binary"
	if err := s.Validate(op); err != nil {
		return 0, err
	}

	mo := newMoments(s.Spot, s.Strike, s.Rate, s.Volatility, s.Maturity, s.DividendYield)
	sign := 1.0
	if s.Kind == pricing.Put {
		sign = -1
	}

	if s.Payout == pricing.Asset {
		return mo.spotDisc * e.cdf(sign*mo.d1), nil
	}
	return s.CashAmount() * mo.rateDisc * e.cdf(sign*mo.d2), nil
}

// CashCall pays one unit of cash if S_T > K.
func (e *Evaluator) CashCall(m pricing.MarketParameters) (float64, error) {
	return e.Binary(pricing.BinarySpec{MarketParameters: m, Payout: pricing.Cash, Kind: pricing.Call})
}

// CashPut pays one unit of cash if S_T < K.
func (e *Evaluator) CashPut(m pricing.MarketParameters) (float64, error) {
	return e.Binary(pricing.BinarySpec{MarketParameters: m, Payout: pricing.Cash, Kind: pricing.Put})
}

// AssetCall pays the asset if S_T > K.
func (e *Evaluator) AssetCall(m pricing.MarketParameters) (float64, error) {
	return e.Binary(pricing.BinarySpec{MarketParameters: m, Payout: pricing.Asset, Kind: pricing.Call})
}

// AssetPut pays the asset if S_T < K.
func (e *Evaluator) AssetPut(m pricing.MarketParameters) (float64, error) {
	return e.Binary(pricing.BinarySpec{MarketParameters: m, Payout: pricing.Asset, Kind: pricing.Put})
}
