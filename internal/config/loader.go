package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, loads ./.env when present, applies OPTPRICER_*
// environment variable overrides, and returns the final Config. The returned
// Config has NOT been validated; the caller should invoke Config.Validate()
// after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown keys in %s: %v", path, undecoded)
	}

	// Load .env file if present; only a missing file is ignored.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides overwrites run settings from the environment when the
// corresponding variable is set. Jobs are never taken from the environment.
func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.Verbosity, "OPTPRICER_VERBOSITY")
	setStr(&cfg.ReportDir, "OPTPRICER_REPORT_DIR")
	setInt(&cfg.Workers, "OPTPRICER_WORKERS")
	setInt(&cfg.DefaultSteps, "OPTPRICER_DEFAULT_STEPS")
	setInt32(&cfg.PricePlaces, "OPTPRICER_PRICE_PLACES")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}
