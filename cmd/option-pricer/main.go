package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/engine"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/report"
)

func main() {
	configPath := flag.String("config", "jobs.toml", "path to TOML job file")
	verbosity := flag.Int("verbosity", -1, "override config verbosity (0=errors,1=info,2=debug,3=trace)")
	rest := flag.Bool("rest", false, "run as REST server (price the configured jobs on demand)")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("loading config: %v", err)
		os.Exit(1)
	}
	if *verbosity >= 0 {
		cfg.Verbosity = *verbosity
	}
	logger.SetVerbosity(cfg.Verbosity)

	if err := cfg.Validate(); err != nil {
		logger.Errorf("invalid config: %v", err)
		os.Exit(1)
	}

	eng := engine.New(cfg, nil)

	if *rest {
		serve(eng, cfg, *port)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := eng.Run(ctx)
	if err != nil {
		logger.Errorf("pricing run failed: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		logger.Errorf("could not create output dir %s: %v", cfg.ReportDir, err)
		os.Exit(1)
	}
	if err := report.WriteJSON(res, cfg.ReportDir, cfg.PricePlaces); err != nil {
		logger.Errorf("writing %s: %v", report.JSONFile, err)
		os.Exit(1)
	}
	if err := report.WriteCSV(res, cfg.ReportDir, cfg.PricePlaces); err != nil {
		logger.Errorf("writing %s: %v", report.CSVFile, err)
		os.Exit(1)
	}
	logger.Infof("[done] priced %d jobs (%d failed) in %v, wrote quotes to %s",
		len(res.Quotes), res.Failures(), res.Elapsed, cfg.ReportDir)
}

func serve(eng *engine.Engine, cfg *config.Config, addr string) {
	logger.Infof("starting REST server on %s", addr)
	if err := http.ListenAndServe(addr, newMux(eng, cfg)); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func newMux(eng *engine.Engine, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		logger.Infof("received /run request")
		res, err := eng.Run(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report.Build(res, cfg.PricePlaces)); err != nil {
			logger.Errorf("writing /run response: %v", err)
		}
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Errorf("writing /health response: %v", err)
		}
	})
	return mux
}
