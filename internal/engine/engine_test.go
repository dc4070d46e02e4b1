package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/pricing/closedform"
	"github.com/contactkeval/option-pricer/internal/pricing/lattice"
)

func baseJob(id string, model config.Model) Job {
	return Job{
		ID:         id,
		Model:      model,
		Kind:       "call",
		Spot:       100,
		Strike:     100,
		Rate:       0.05,
		Volatility: 0.2,
		Maturity:   1,
	}
}

func testConfig(jobs ...Job) *config.Config {
	cfg := config.Defaults()
	cfg.Workers = 3
	cfg.DefaultSteps = 50
	cfg.Jobs = jobs
	return &cfg
}

func TestPrice_RoutesEachModel(t *testing.T) {
	eval := closedform.NewEvaluator(nil)
	e := New(testConfig(), eval)
	m := pricing.MarketParameters{Spot: 100, Strike: 100, Rate: 0.05, Volatility: 0.2, Maturity: 1}

	vanilla := baseJob("v", config.ModelVanilla)
	got, err := e.Price(vanilla)
	want, _ := eval.Call(m)
	if err != nil || got != want {
		t.Fatalf("vanilla: got %v, %v want %v", got, err, want)
	}

	spread := baseJob("s", config.ModelSpread)
	spread.StrikeLow, spread.StrikeHigh, spread.Position = 95, 105, "bull_call"
	got, err = e.Price(spread)
	want, _ = eval.BullCall(m, 95, 105)
	if err != nil || got != want {
		t.Fatalf("spread: got %v, %v want %v", got, err, want)
	}

	binary := baseJob("b", config.ModelBinary)
	binary.Payout, binary.Amount = "cash", 10
	got, err = e.Price(binary)
	want, _ = eval.Binary(pricing.BinarySpec{MarketParameters: m, Payout: pricing.Cash, Kind: pricing.Call, Amount: 10})
	if err != nil || got != want {
		t.Fatalf("binary: got %v, %v want %v", got, err, want)
	}

	barrier := baseJob("h", config.ModelBarrier)
	barrier.Barrier, barrier.Direction, barrier.Knock = 90, "down", "out"
	got, err = e.Price(barrier)
	want, _ = eval.DownCall(m, 90, pricing.Out)
	if err != nil || got != want {
		t.Fatalf("barrier: got %v, %v want %v", got, err, want)
	}
}

func TestPrice_LatticeDefaults(t *testing.T) {
	e := New(testConfig(), nil)
	job := baseJob("l", config.ModelLattice)

	got, err := e.Price(job)
	if err != nil {
		t.Fatalf("lattice: %v", err)
	}
	want, _ := lattice.Price(pricing.LatticeSpec{
		MarketParameters: market(job),
		Steps:            50,
		Style:            pricing.European,
		Kind:             pricing.Call,
	})
	if got != want {
		t.Fatalf("expected default steps and european style: got %v want %v", got, want)
	}

	job.Steps, job.Style, job.Kind = 100, "american", "put"
	got, err = e.Price(job)
	if err != nil {
		t.Fatalf("lattice american: %v", err)
	}
	want, _ = lattice.Price(pricing.LatticeSpec{
		MarketParameters: market(job),
		Steps:            100,
		Style:            pricing.American,
		Kind:             pricing.Put,
	})
	if got != want {
		t.Fatalf("american put: got %v want %v", got, want)
	}
}

func TestPrice_Errors(t *testing.T) {
	e := New(testConfig(), nil)

	_, err := e.Price(baseJob("x", "montecarlo"))
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}

	bad := baseJob("neg", config.ModelVanilla)
	bad.Spot = -1
	_, err = e.Price(bad)
	if !errors.Is(err, pricing.ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}
}

func TestRun_KeepsOrderAndRecordsFailures(t *testing.T) {
	bad := baseJob("bad", config.ModelVanilla)
	bad.Volatility = math.NaN()

	jobs := []Job{
		baseJob("j0", config.ModelVanilla),
		bad,
		baseJob("j2", config.ModelLattice),
		baseJob("j3", "unknown"),
		baseJob("j4", config.ModelVanilla),
	}
	e := New(testConfig(jobs...), nil)

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Quotes) != len(jobs) {
		t.Fatalf("expected %d quotes, got %d", len(jobs), len(res.Quotes))
	}
	for i, q := range res.Quotes {
		if q.JobID != jobs[i].ID || q.Model != jobs[i].Model {
			t.Fatalf("quote %d out of order: %+v", i, q)
		}
	}
	if res.Failures() != 2 {
		t.Fatalf("expected 2 failures, got %d", res.Failures())
	}
	if !res.Quotes[1].Failed() || !strings.HasPrefix(res.Quotes[1].Error, "pricing:") {
		t.Fatalf("expected domain failure on job 1, got %+v", res.Quotes[1])
	}
	if !strings.Contains(res.Quotes[3].Error, "unknown model") {
		t.Fatalf("expected unknown model failure, got %+v", res.Quotes[3])
	}
	if res.Quotes[0].Price != res.Quotes[4].Price || res.Quotes[0].Price <= 0 {
		t.Fatalf("identical jobs should price identically: %+v %+v", res.Quotes[0], res.Quotes[4])
	}
	if res.Elapsed < 0 || res.Started.IsZero() {
		t.Fatalf("timing not recorded: %+v", res)
	}
}

func TestRun_DistinctRunIDs(t *testing.T) {
	e := New(testConfig(baseJob("a", config.ModelVanilla)), nil)
	r1, err1 := e.Run(context.Background())
	r2, err2 := e.Run(context.Background())
	if err1 != nil || err2 != nil {
		t.Fatalf("run failed: %v %v", err1, err2)
	}
	if r1.RunID == r2.RunID {
		t.Fatal("expected a fresh run id per run")
	}
}

func TestRun_Cancelled(t *testing.T) {
	e := New(testConfig(baseJob("a", config.ModelVanilla), baseJob("b", config.ModelLattice)), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result on cancellation, got %+v", res)
	}
}

func TestPrice_NonFiniteBecomesDomainError(t *testing.T) {
	nan := closedform.NewEvaluator(func(float64) float64 { return math.NaN() })
	job := baseJob("nan", config.ModelVanilla)

	e := New(testConfig(job), nan)
	if _, err := e.Price(job); !errors.Is(err, pricing.ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	q := res.Quotes[0]
	if !q.Failed() || q.Price != 0 || !strings.Contains(q.Error, "not finite") {
		t.Fatalf("expected failed quote, got %+v", q)
	}
}

func TestRun_SmallVolatilityBarrier(t *testing.T) {
	job := baseJob("tight", config.ModelBarrier)
	job.Volatility, job.Barrier, job.Direction, job.Knock = 1e-4, 110, "up", "in"

	res, err := New(testConfig(job), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if q := res.Quotes[0]; q.Failed() || math.IsNaN(q.Price) || math.Abs(q.Price) > 1e-9 {
		t.Fatalf("expected a zero knock-in quote, got %+v", q)
	}
}
