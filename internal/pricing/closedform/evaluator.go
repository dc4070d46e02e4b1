// Package closedform implements the analytical Black-Scholes family of
// European option formulas with a continuous dividend yield: vanilla
// calls and puts, vertical spreads, cash/asset binaries and single
// barrier knock-in/knock-out options.
//
// Every formula is a pure function of its inputs. An Evaluator only holds
// the normal CDF it was built with, so one value may be shared freely
// between goroutines.
package closedform

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CDF is a standard normal cumulative distribution function.
type CDF func(x float64) float64

// StandardNormal returns the gonum unit normal CDF.
func StandardNormal() CDF {
	n := distuv.UnitNormal
	return n.CDF
}

// Evaluator prices options with closed-form formulas using an injected CDF.
type Evaluator struct {
	cdf CDF
}

// NewEvaluator builds an Evaluator. A nil cdf selects StandardNormal.
func NewEvaluator(cdf CDF) *Evaluator {
	if cdf == nil {
		cdf = StandardNormal()
	}
	return &Evaluator{cdf: cdf}
}

// moments carries the per-call quantities every formula shares.
type moments struct {
	d1, d2     float64
	spotDisc   float64 // S·e^(-qT)
	strikeDisc float64 // K·e^(-rT)
	rateDisc   float64 // e^(-rT)
}

// newMoments computes d1, d2 and the discount factors for strike k.
//
// When σ√T is zero the d-terms collapse to their limits: +Inf or -Inf by the
// sign of ln(S/K) + (r-q)T, and 0 exactly at the forward. The formulas then
// reduce to the discounted intrinsic value of the forward.
func newMoments(spot, k, r, sigma, t, q float64) moments {
	m := moments{
		spotDisc:   spot * math.Exp(-q*t),
		strikeDisc: k * math.Exp(-r*t),
		rateDisc:   math.Exp(-r * t),
	}

	volT := sigma * math.Sqrt(t)
	drift := math.Log(spot/k) + (r-q)*t

	if volT == 0 {
		switch {
		case drift > 0:
			m.d1, m.d2 = math.Inf(1), math.Inf(1)
		case drift < 0:
			m.d1, m.d2 = math.Inf(-1), math.Inf(-1)
		}
		return m
	}

	m.d1 = (drift + 0.5*volT*volT) / volT
	m.d2 = m.d1 - volT
	return m
}
