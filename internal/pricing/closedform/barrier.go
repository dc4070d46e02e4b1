package closedform

import (
	"math"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Barrier prices a single continuously monitored barrier option with the
// reflection-principle closed form (Hull, ch. 26).
//
// For each direction and kind one side (in or out) is computed directly and
// the other is vanilla minus it, so in + out equals the vanilla price.
//
// When the spot is already on or beyond the barrier the option is settled:
// a knock-in is worth the vanilla price and a knock-out is worth zero.
func (e *Evaluator) Barrier(s pricing.BarrierSpec) (float64, error) {
	const op = "closedform.Barrier"
	if err := s.Validate(op); err != nil {
		return 0, err
	}

	vanilla := e.vanilla(s.MarketParameters, s.Kind)
	if s.Breached() {
		if s.Knock == pricing.In {
			return vanilla, nil
		}
		return 0, nil
	}

	if sigma2 := s.Volatility * s.Volatility; sigma2 == 0 || math.IsInf((s.Rate-s.DividendYield)/sigma2, 0) {
		return 0, pricing.NewDomainError(op, "volatility %g too small for the reflection terms", s.Volatility)
	}

	in, out := e.barrierPair(s, vanilla)
	v := out
	if s.Knock == pricing.In {
		v = in
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, pricing.NewDomainError(op, "value not finite (volatility %g too small for barrier %g)", s.Volatility, s.Barrier)
	}
	return v, nil
}

// DownCall prices a down-and-in or down-and-out call.
func (e *Evaluator) DownCall(m pricing.MarketParameters, barrier float64, knock pricing.Knock) (float64, error) {
	return e.Barrier(barrierOf(m, barrier, pricing.Down, knock, pricing.Call))
}

// UpCall prices an up-and-in or up-and-out call.
func (e *Evaluator) UpCall(m pricing.MarketParameters, barrier float64, knock pricing.Knock) (float64, error) {
	return e.Barrier(barrierOf(m, barrier, pricing.Up, knock, pricing.Call))
}

// DownPut prices a down-and-in or down-and-out put.
func (e *Evaluator) DownPut(m pricing.MarketParameters, barrier float64, knock pricing.Knock) (float64, error) {
	return e.Barrier(barrierOf(m, barrier, pricing.Down, knock, pricing.Put))
}

// UpPut prices an up-and-in or up-and-out put.
func (e *Evaluator) UpPut(m pricing.MarketParameters, barrier float64, knock pricing.Knock) (float64, error) {
	return e.Barrier(barrierOf(m, barrier, pricing.Up, knock, pricing.Put))
}

func barrierOf(m pricing.MarketParameters, h float64, dir pricing.Direction, knock pricing.Knock, kind pricing.OptionKind) pricing.BarrierSpec {
	return pricing.BarrierSpec{MarketParameters: m, Barrier: h, Direction: dir, Knock: knock, Kind: kind}
}

// reflection holds the auxiliary terms of the barrier formulas.
type reflection struct {
	volT       float64 // σ√T
	spotDisc   float64 // S·e^(-qT)
	strikeDisc float64 // K·e^(-rT)
	logPow     float64 // ln (H/S)^(2λ)
	logPowLess float64 // ln (H/S)^(2λ-2)
	x1, y, y1  float64
}

func newReflection(s pricing.BarrierSpec) reflection {
	sigma, t, h := s.Volatility, s.Maturity, s.Barrier
	volT := sigma * math.Sqrt(t)
	lambda := (s.Rate-s.DividendYield)/(sigma*sigma) + 0.5
	logRatio := math.Log(h / s.Spot)

	return reflection{
		volT:       volT,
		spotDisc:   s.Spot * math.Exp(-s.DividendYield*t),
		strikeDisc: s.Strike * math.Exp(-s.Rate*t),
		logPow:     2 * lambda * logRatio,
		logPowLess: (2*lambda - 2) * logRatio,
		x1:         math.Log(s.Spot/h)/volT + lambda*volT,
		y:          math.Log(h*h/(s.Spot*s.Strike))/volT + lambda*volT,
		y1:         math.Log(h/s.Spot)/volT + lambda*volT,
	}
}

// scaled returns e^logScale · p without forming e^logScale on its own, which
// overflows for small volatility while p underflows to zero.
func scaled(logScale, p float64) float64 {
	if p == 0 {
		return 0
	}
	return math.Copysign(math.Exp(logScale+math.Log(math.Abs(p))), p)
}

// barrierPair returns the knock-in and knock-out values of an active
// (not yet breached) barrier option.
func (e *Evaluator) barrierPair(s pricing.BarrierSpec, vanilla float64) (in, out float64) {
	n := e.cdf
	rf := newReflection(s)
	h, k, v := s.Barrier, s.Strike, rf.volT

	switch {
	case s.Direction == pricing.Down && s.Kind == pricing.Call:
		if h <= k {
			in = rf.spotDisc*scaled(rf.logPow, n(rf.y)) - rf.strikeDisc*scaled(rf.logPowLess, n(rf.y-v))
			return in, vanilla - in
		}
		out = rf.spotDisc*n(rf.x1) - rf.strikeDisc*n(rf.x1-v) -
			rf.spotDisc*scaled(rf.logPow, n(rf.y1)) + rf.strikeDisc*scaled(rf.logPowLess, n(rf.y1-v))
		return vanilla - out, out

	case s.Direction == pricing.Up && s.Kind == pricing.Call:
		// finishing above K >= H requires crossing H first
		if h <= k {
			return vanilla, 0
		}
		in = rf.spotDisc*n(rf.x1) - rf.strikeDisc*n(rf.x1-v) -
			rf.spotDisc*scaled(rf.logPow, n(-rf.y)-n(-rf.y1)) +
			rf.strikeDisc*scaled(rf.logPowLess, n(-rf.y+v)-n(-rf.y1+v))
		return in, vanilla - in

	case s.Direction == pricing.Up && s.Kind == pricing.Put:
		if h >= k {
			in = -rf.spotDisc*scaled(rf.logPow, n(-rf.y)) + rf.strikeDisc*scaled(rf.logPowLess, n(-rf.y+v))
			return in, vanilla - in
		}
		out = -rf.spotDisc*n(-rf.x1) + rf.strikeDisc*n(-rf.x1+v) +
			rf.spotDisc*scaled(rf.logPow, n(-rf.y1)) - rf.strikeDisc*scaled(rf.logPowLess, n(-rf.y1+v))
		return vanilla - out, out

	default: // down put
		if h >= k {
			return vanilla, 0
		}
		in = -rf.spotDisc*n(-rf.x1) + rf.strikeDisc*n(-rf.x1+v) +
			rf.spotDisc*scaled(rf.logPow, n(rf.y)-n(rf.y1)) -
			rf.strikeDisc*scaled(rf.logPowLess, n(rf.y-v)-n(rf.y1-v))
		return in, vanilla - in
	}
}
