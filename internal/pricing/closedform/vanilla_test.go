package closedform

import (
	"errors"
	"math"
	"testing"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

var (
	eval = NewEvaluator(nil)

	// textbook at-the-money case
	atm = pricing.MarketParameters{Spot: 100, Strike: 100, Rate: 0.05, Volatility: 0.2, Maturity: 1}
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestVanilla_ReferenceCase(t *testing.T) {
	call, err := eval.Call(atm)
	if err != nil {
		t.Fatalf("call err: %v", err)
	}
	put, err := eval.Put(atm)
	if err != nil {
		t.Fatalf("put err: %v", err)
	}

	if !almostEqual(call, 10.450583572185565, 1e-9) {
		t.Fatalf("call price mismatch: got=%v", call)
	}
	if !almostEqual(put, 5.573526022256971, 1e-9) {
		t.Fatalf("put price mismatch: got=%v", put)
	}
}

func TestVanilla_PutCallParity(t *testing.T) {
	cases := []pricing.MarketParameters{
		atm,
		{Spot: 100, Strike: 90, Rate: 0.03, Volatility: 0.25, Maturity: 45.0 / 365.0},
		{Spot: 42, Strike: 50, Rate: 0.01, Volatility: 0.6, Maturity: 2, DividendYield: 0.03},
		{Spot: 250, Strike: 200, Rate: -0.005, Volatility: 0.15, Maturity: 0.25, DividendYield: 0.01},
		{Spot: 100, Strike: 120, Rate: 0.05, Volatility: 0, Maturity: 1},
	}

	for _, m := range cases {
		call, err := eval.Call(m)
		if err != nil {
			t.Fatalf("call err for %+v: %v", m, err)
		}
		put, err := eval.Put(m)
		if err != nil {
			t.Fatalf("put err for %+v: %v", m, err)
		}

		lhs := call - put
		rhs := m.Spot*math.Exp(-m.DividendYield*m.Maturity) - m.Strike*math.Exp(-m.Rate*m.Maturity)
		if !almostEqual(lhs, rhs, 1e-9) {
			t.Fatalf("put-call parity violated for %+v: LHS=%f RHS=%f", m, lhs, rhs)
		}
	}
}

func TestVanilla_MonotoneInSpot(t *testing.T) {
	prevCall, prevPut := -1.0, math.Inf(1)
	for s := 50.0; s <= 150; s += 2.5 {
		m := atm
		m.Spot = s
		m.DividendYield = 0.02

		call, _ := eval.Call(m)
		put, _ := eval.Put(m)
		if call < prevCall {
			t.Fatalf("call decreased at spot %v: %v < %v", s, call, prevCall)
		}
		if put > prevPut {
			t.Fatalf("put increased at spot %v: %v > %v", s, put, prevPut)
		}
		prevCall, prevPut = call, put
	}
}

func TestVanilla_ShortMaturityIntrinsic(t *testing.T) {
	tests := []struct {
		spot, want float64
	}{
		{110, 10},
		{90, 0},
		{100.5, 0.5},
	}

	for _, test := range tests {
		m := atm
		m.Spot = test.spot
		m.Maturity = 1e-10

		call, err := eval.Call(m)
		if err != nil {
			t.Fatalf("call err: %v", err)
		}
		if !almostEqual(call, test.want, 1e-6) {
			t.Fatalf("spot %v: expected call -> %v, got %v", test.spot, test.want, call)
		}
	}
}

func TestVanilla_ZeroVolDeterministic(t *testing.T) {
	m := pricing.MarketParameters{Spot: 100, Strike: 90, Rate: 0.05, Volatility: 0, Maturity: 1, DividendYield: 0.01}

	call, err := eval.Call(m)
	if err != nil {
		t.Fatalf("call err: %v", err)
	}
	want := math.Max(m.Spot*math.Exp(-m.DividendYield)-m.Strike*math.Exp(-m.Rate), 0)
	if !almostEqual(call, want, 1e-12) {
		t.Fatalf("sigma0 call mismatch: got=%v want=%v", call, want)
	}

	put, _ := eval.Put(m)
	if !almostEqual(put, 0, 1e-12) {
		t.Fatalf("sigma0 put should be worthless, got=%v", put)
	}
}

func TestVanilla_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		m    pricing.MarketParameters
		kind pricing.OptionKind
	}{
		{"negative spot", pricing.MarketParameters{Spot: -1, Strike: 100, Rate: 0.05, Volatility: 0.2, Maturity: 1}, pricing.Call},
		{"zero strike", pricing.MarketParameters{Spot: 100, Strike: 0, Rate: 0.05, Volatility: 0.2, Maturity: 1}, pricing.Put},
		{"negative vol", pricing.MarketParameters{Spot: 100, Strike: 100, Rate: 0.05, Volatility: -0.1, Maturity: 1}, pricing.Call},
		{"zero maturity", pricing.MarketParameters{Spot: 100, Strike: 100, Rate: 0.05, Volatility: 0.2, Maturity: 0}, pricing.Call},
		{"negative dividend", pricing.MarketParameters{Spot: 100, Strike: 100, Rate: 0.05, Volatility: 0.2, Maturity: 1, DividendYield: -0.01}, pricing.Call},
		{"nan rate", pricing.MarketParameters{Spot: 100, Strike: 100, Rate: math.NaN(), Volatility: 0.2, Maturity: 1}, pricing.Call},
		{"unknown kind", atm, pricing.OptionKind("straddle")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := eval.Vanilla(test.m, test.kind)
			if err == nil {
				t.Fatalf("expected domain error")
			}
			if !errors.Is(err, pricing.ErrDomain) {
				t.Fatalf("expected ErrDomain, got %v", err)
			}
			var de *pricing.DomainError
			if !errors.As(err, &de) || de.Op != "closedform.Vanilla" {
				t.Fatalf("expected *DomainError from closedform.Vanilla, got %#v", err)
			}
		})
	}
}

func TestNewEvaluator_CustomCDF(t *testing.T) {
	calls := 0
	std := StandardNormal()
	e := NewEvaluator(func(x float64) float64 {
		calls++
		return std(x)
	})

	call, err := e.Call(atm)
	if err != nil {
		t.Fatalf("call err: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected the injected cdf to be called twice, got %d", calls)
	}
	if !almostEqual(call, 10.450583572185565, 1e-9) {
		t.Fatalf("call price mismatch: got=%v", call)
	}
}
