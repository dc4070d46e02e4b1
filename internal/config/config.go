// Package config defines the batch pricing configuration: run settings plus
// the list of pricing jobs, decoded from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoJobs is returned by Validate when the configuration lists no jobs.
var ErrNoJobs = errors.New("config: no jobs configured")

// Model names the pricer a job is routed to.
type Model string

const (
	ModelVanilla Model = "vanilla"
	ModelSpread  Model = "spread"
	ModelBinary  Model = "binary"
	ModelBarrier Model = "barrier"
	ModelLattice Model = "lattice"
)

// Config is the top-level run configuration.
type Config struct {
	Verbosity    int    `toml:"verbosity"`     // 0=errors,1=info,2=debug,3=trace
	ReportDir    string `toml:"report_dir"`    // where quotes.json / quotes.csv are written
	Workers      int    `toml:"workers"`       // concurrent pricing goroutines
	DefaultSteps int    `toml:"default_steps"` // lattice steps when a job leaves steps unset
	PricePlaces  int32  `toml:"price_places"`  // decimals kept in reports
	Jobs         []Job  `toml:"job"`
}

// Job is one pricing request. Only the fields relevant to Model are read.
type Job struct {
	ID    string `toml:"id"`
	Model Model  `toml:"model"`
	Kind  string `toml:"kind"` // "call" or "put"

	Spot          float64 `toml:"spot"`
	Strike        float64 `toml:"strike"`
	Rate          float64 `toml:"rate"`
	Volatility    float64 `toml:"volatility"`
	Maturity      float64 `toml:"maturity"` // years
	DividendYield float64 `toml:"dividend_yield"`

	// lattice
	Steps int    `toml:"steps"`
	Style string `toml:"style"` // "american" or "european"

	// spread
	StrikeLow  float64 `toml:"strike_low"`
	StrikeHigh float64 `toml:"strike_high"`
	Position   string  `toml:"position"` // bull_call, bull_put, bear_call, bear_put

	// binary
	Payout string  `toml:"payout"` // "cash" or "asset"
	Amount float64 `toml:"amount"`

	// barrier
	Barrier   float64 `toml:"barrier"`
	Direction string  `toml:"direction"` // "up" or "down"
	Knock     string  `toml:"knock"`     // "in" or "out"
}

// Defaults returns the built-in configuration that a TOML file is merged onto.
func Defaults() Config {
	return Config{
		Verbosity:    1,
		ReportDir:    "./out",
		Workers:      4,
		DefaultSteps: 200,
		PricePlaces:  4,
	}
}

var validModels = map[Model]bool{
	ModelVanilla: true,
	ModelSpread:  true,
	ModelBinary:  true,
	ModelBarrier: true,
	ModelLattice: true,
}

// Validate checks run settings and job identity. Pricing inputs are checked
// by the pricers themselves, per job.
func (c *Config) Validate() error {
	if len(c.Jobs) == 0 {
		return ErrNoJobs
	}

	var errs []string
	if c.Workers < 1 {
		errs = append(errs, fmt.Sprintf("workers must be >= 1, got %d", c.Workers))
	}
	if c.DefaultSteps < 1 {
		errs = append(errs, fmt.Sprintf("default_steps must be >= 1, got %d", c.DefaultSteps))
	}
	if c.PricePlaces < 0 {
		errs = append(errs, fmt.Sprintf("price_places must be >= 0, got %d", c.PricePlaces))
	}
	if strings.TrimSpace(c.ReportDir) == "" {
		errs = append(errs, "report_dir must not be empty")
	}

	seen := make(map[string]bool, len(c.Jobs))
	for i, j := range c.Jobs {
		if j.ID == "" {
			errs = append(errs, fmt.Sprintf("job[%d]: id must not be empty", i))
		} else if seen[j.ID] {
			errs = append(errs, fmt.Sprintf("job[%d]: duplicate id %q", i, j.ID))
		}
		seen[j.ID] = true

		if !validModels[j.Model] {
			errs = append(errs, fmt.Sprintf("job[%d]: unknown model %q (valid: vanilla, spread, binary, barrier, lattice)", i, j.Model))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
