// Package report writes the quotes of a pricing run to disk as JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-pricer/internal/engine"
)

const (
	JSONFile = "quotes.json"
	CSVFile  = "quotes.csv"
)

// Document is the JSON layout of a run report.
type Document struct {
	RunID     string  `json:"run_id"`
	Started   string  `json:"started"`
	ElapsedMS int64   `json:"elapsed_ms"`
	Count     int     `json:"count"`
	Failures  int     `json:"failures"`
	Quotes    []Entry `json:"quotes"`
}

// Entry is one quote with its price rounded for display.
type Entry struct {
	JobID string           `json:"job_id"`
	Model string           `json:"model"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

const errNotFinite = "price is not finite"

// rounded returns the display price of a successful quote. It reports false
// for failed quotes and for prices decimal cannot represent.
func rounded(q engine.Quote, places int32) (decimal.Decimal, bool) {
	if q.Failed() || math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
		return decimal.Decimal{}, false
	}
	return Round(q.Price, places), true
}

// Build converts a run result into its report document.
func Build(res *engine.Result, places int32) Document {
	doc := Document{
		RunID:     res.RunID.String(),
		Started:   res.Started.UTC().Format(time.RFC3339),
		ElapsedMS: res.Elapsed.Milliseconds(),
		Count:     len(res.Quotes),
		Failures:  res.Failures(),
		Quotes:    make([]Entry, 0, len(res.Quotes)),
	}
	for _, q := range res.Quotes {
		e := Entry{JobID: q.JobID, Model: string(q.Model), Error: q.Error}
		if p, ok := rounded(q, places); ok {
			e.Price = &p
		} else if e.Error == "" {
			e.Error = errNotFinite
		}
		doc.Quotes = append(doc.Quotes, e)
	}
	return doc
}

func WriteJSON(res *engine.Result, outdir string, places int32) error {
	b, err := json.MarshalIndent(Build(res, places), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, JSONFile), b, 0644)
}

func WriteCSV(res *engine.Result, outdir string, places int32) error {
	f, err := os.Create(filepath.Join(outdir, CSVFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	headers := []string{"run_id", "job_id", "model", "price", "error"}
	if err := w.Write(headers); err != nil {
		return err
	}
	runID := res.RunID.String()
	for _, q := range res.Quotes {
		price, msg := "", q.Error
		if p, ok := rounded(q, places); ok {
			price = p.StringFixed(places)
		} else if msg == "" {
			msg = errNotFinite
		}
		row := []string{runID, q.JobID, string(q.Model), price, msg}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("report: write row %s: %w", q.JobID, err)
		}
	}
	w.Flush()
	return w.Error()
}
