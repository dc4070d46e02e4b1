// Package engine prices a batch of configured jobs concurrently and collects
// one quote per job.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/pricing/closedform"
	"github.com/contactkeval/option-pricer/internal/pricing/lattice"
)

// ErrUnknownModel is returned by Price for a job whose model has no pricer.
var ErrUnknownModel = errors.New("engine: unknown model")

// Job is one pricing request as read from the configuration.
type Job = config.Job

type Engine struct {
	cfg  *config.Config
	eval *closedform.Evaluator
}

// Quote is the outcome of one job. Error is empty on success.
type Quote struct {
	JobID string       `json:"job_id"`
	Model config.Model `json:"model"`
	Price float64      `json:"price"`
	Error string       `json:"error,omitempty"`
}

// Failed reports whether the job produced no price.
func (q Quote) Failed() bool { return q.Error != "" }

// Result holds the quotes of one run, in job order.
type Result struct {
	RunID   uuid.UUID     `json:"run_id"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed"`
	Quotes  []Quote       `json:"quotes"`
}

// Failures counts the quotes that carry an error.
func (r *Result) Failures() int {
	n := 0
	for _, q := range r.Quotes {
		if q.Failed() {
			n++
		}
	}
	return n
}

// New returns an engine for cfg. A nil eval uses the standard normal CDF.
func New(cfg *config.Config, eval *closedform.Evaluator) *Engine {
	if eval == nil {
		eval = closedform.NewEvaluator(nil)
	}
	return &Engine{cfg: cfg, eval: eval}
}

// Run prices every configured job with at most cfg.Workers goroutines.
// A job that fails is recorded in its quote and does not stop the batch;
// only cancellation of ctx does.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:   uuid.New(),
		Started: time.Now(),
		Quotes:  make([]Quote, len(e.cfg.Jobs)),
	}
	logger.Infof("run %s: pricing %d jobs with %d workers", res.RunID, len(e.cfg.Jobs), e.workers())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i, job := range e.cfg.Jobs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q := Quote{JobID: job.ID, Model: job.Model}
			price, err := e.Price(job)
			if err != nil {
				q.Error = err.Error()
				logger.WithField("job", job.ID).Errorf("pricing failed: %v", err)
			} else {
				q.Price = price
				logger.Debugf("job=%s model=%s price=%.6f", job.ID, job.Model, price)
			}
			res.Quotes[i] = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(res.Started)
	logger.Infof("run %s: %d quotes, %d failed, elapsed %s", res.RunID, len(res.Quotes), res.Failures(), res.Elapsed)
	return res, nil
}

func (e *Engine) workers() int {
	if e.cfg.Workers < 1 {
		return 1
	}
	return e.cfg.Workers
}

// Price routes a single job to its pricer and returns the value. A pricer
// result that is not finite is reported as a domain error.
func (e *Engine) Price(job Job) (float64, error) {
	price, err := e.route(job)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: job %s: %s price %v is not finite", pricing.ErrDomain, job.ID, job.Model, price)
	}
	return price, nil
}

func (e *Engine) route(job Job) (float64, error) {
	m := market(job)
	kind := pricing.OptionKind(job.Kind)

	switch job.Model {
	case config.ModelVanilla:
		return e.eval.Vanilla(m, kind)

	case config.ModelSpread:
		return e.eval.Spread(pricing.SpreadSpec{
			MarketParameters: m,
			StrikeLow:        job.StrikeLow,
			StrikeHigh:       job.StrikeHigh,
			Position:         pricing.SpreadPosition(job.Position),
		})

	case config.ModelBinary:
		return e.eval.Binary(pricing.BinarySpec{
			MarketParameters: m,
			Payout:           pricing.PayoutMode(job.Payout),
			Kind:             kind,
			Amount:           job.Amount,
		})

	case config.ModelBarrier:
		return e.eval.Barrier(pricing.BarrierSpec{
			MarketParameters: m,
			Barrier:          job.Barrier,
			Direction:        pricing.Direction(job.Direction),
			Knock:            pricing.Knock(job.Knock),
			Kind:             kind,
		})

	case config.ModelLattice:
		steps := job.Steps
		if steps == 0 {
			steps = e.cfg.DefaultSteps
		}
		style := pricing.ExerciseStyle(job.Style)
		if style == "" {
			style = pricing.European
		}
		logger.Tracef("job=%s lattice steps=%d style=%s", job.ID, steps, style)
		return lattice.Price(pricing.LatticeSpec{
			MarketParameters: m,
			Steps:            steps,
			Style:            style,
			Kind:             kind,
		})
	}

	return 0, fmt.Errorf("%w %q for job %s", ErrUnknownModel, job.Model, job.ID)
}

func market(job Job) pricing.MarketParameters {
	return pricing.MarketParameters{
		Spot:          job.Spot,
		Strike:        job.Strike,
		Rate:          job.Rate,
		Volatility:    job.Volatility,
		Maturity:      job.Maturity,
		DividendYield: job.DividendYield,
	}
}
