// Package lattice prices vanilla options on a recombining Cox-Ross-Rubinstein
// binomial tree, with or without early exercise.
package lattice

import (
	"math"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Params are the per-step tree parameters derived from a spec.
type Params struct {
	Dt       float64 // length of one step in years
	Up       float64 // up multiplier u = e^(σ√dt)
	Down     float64 // down multiplier d = 1/u
	Prob     float64 // risk-neutral probability of an up move
	Discount float64 // one-step discount factor e^(-r·dt)
}

// Derive computes the tree parameters for spec.
//
// It fails with a *pricing.DomainError when u == d (zero volatility), when u
// overflows, or when the risk-neutral probability falls outside [0, 1], which
// happens when the step is too coarse for the carry (r - q) relative to the
// volatility.
func Derive(spec pricing.LatticeSpec) (Params, error) {
	const op = "lattice.Derive"
	if err := spec.Validate(op); err != nil {
		return Params{}, err
	}
	return derive(op, spec)
}

func derive(op string, spec pricing.LatticeSpec) (Params, error) {
	dt := spec.Maturity / float64(spec.Steps)
	u := math.Exp(spec.Volatility * math.Sqrt(dt))
	d := 1 / u

	if u-d == 0 {
		return Params{}, pricing.NewDomainError(op, "up and down factors coincide (volatility %g): probability undefined", spec.Volatility)
	}
	if math.IsInf(u, 0) || d == 0 {
		return Params{}, pricing.NewDomainError(op, "up factor overflows (volatility %g over %d steps)", spec.Volatility, spec.Steps)
	}

	p := (math.Exp((spec.Rate-spec.DividendYield)*dt) - d) / (u - d)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Params{}, pricing.NewDomainError(op, "risk-neutral probability %g outside [0,1]; increase steps or volatility", p)
	}

	return Params{Dt: dt, Up: u, Down: d, Prob: p, Discount: math.Exp(-spec.Rate * dt)}, nil
}

// Price returns the fair value of the option described by spec by backward
// induction over spec.Steps time steps.
//
// American options take the larger of continuation and immediate exercise at
// every node including the root. Memory is O(steps), time is O(steps²).
func Price(spec pricing.LatticeSpec) (float64, error) {
	const op = "lattice.Price"
	if err := spec.Validate(op); err != nil {
		return 0, err
	}
	tp, err := derive(op, spec)
	if err != nil {
		return 0, err
	}

	n := spec.Steps
	american := spec.Style == pricing.American

	// node i at step j has asset price S·u^(j-i)·d^i
	prices := make([]float64, n+1)
	values := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		prices[i] = spec.Spot * math.Pow(tp.Up, float64(n-i)) * math.Pow(tp.Down, float64(i))
		values[i] = spec.Kind.Intrinsic(prices[i], spec.Strike)
	}

	q := 1 - tp.Prob
	for j := n - 1; j >= 0; j-- {
		for i := 0; i <= j; i++ {
			v := tp.Discount * (tp.Prob*values[i] + q*values[i+1])
			if american {
				// one step back from (j+1, i) divides by u
				prices[i] *= tp.Down
				v = math.Max(v, spec.Kind.Intrinsic(prices[i], spec.Strike))
			}
			values[i] = v
		}
	}
	if math.IsNaN(values[0]) || math.IsInf(values[0], 0) {
		return 0, pricing.NewDomainError(op, "tree value not finite (volatility %g over %d steps)", spec.Volatility, spec.Steps)
	}
	return values[0], nil
}
