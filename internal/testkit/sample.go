package testkit

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"kalpha/adapters/rng"
	"kalpha/domain/reliability"
)

var nan = math.NaN()

// Agreement levels and the probability that a rater departs from the item's base value
var disagreementProb = map[string]float64{
	"high":   0.1,
	"medium": 0.3,
	"low":    0.6,
}

// SampleConfig configures the synthetic ratings generator
type SampleConfig struct {
	Items       int       `json:"items"`
	Raters      int       `json:"raters"`
	Scale       []float64 `json:"scale"`        // Values raters choose from
	Agreement   string    `json:"agreement"`    // high, medium or low
	MissingRate float64   `json:"missing_rate"` // Share of cells blanked after generation
	Seed        int64     `json:"seed"`
}

// DefaultSampleConfig returns a reproducible 10 x 4 medium-agreement sample on a 1-5 scale
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Items:     10,
		Raters:    4,
		Scale:     []float64{1, 2, 3, 4, 5},
		Agreement: "medium",
		Seed:      42,
	}
}

// Sample is a generated ratings matrix with its tabular rendering
type Sample struct {
	Headers []string
	Rows    [][]string // already formatted strings; "" marks missing
	Matrix  reliability.Matrix
}

// GenerateSample draws a base value per item and lets each rater deviate to a
// random scale value with the agreement level's probability.
func GenerateSample(cfg SampleConfig) (*Sample, error) {
	if cfg.Items <= 0 {
		return nil, fmt.Errorf("items must be > 0")
	}
	if cfg.Raters <= 0 {
		return nil, fmt.Errorf("raters must be > 0")
	}
	if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
		return nil, fmt.Errorf("missing rate must be in [0, 1)")
	}
	scale := cfg.Scale
	if len(scale) == 0 {
		scale = DefaultSampleConfig().Scale
	}
	agreement := cfg.Agreement
	if agreement == "" {
		agreement = "medium"
	}
	p, ok := disagreementProb[agreement]
	if !ok {
		return nil, fmt.Errorf("unknown agreement level %q (use high, medium or low)", cfg.Agreement)
	}

	r, err := rng.NewAdapter().SeededStream(context.Background(), "sample", cfg.Seed)
	if err != nil {
		return nil, err
	}

	sample := &Sample{
		Headers: make([]string, cfg.Raters),
		Rows:    make([][]string, cfg.Items),
		Matrix:  make(reliability.Matrix, cfg.Items),
	}
	for j := range sample.Headers {
		sample.Headers[j] = "rater_" + strconv.Itoa(j+1)
	}

	for i := 0; i < cfg.Items; i++ {
		base := scale[r.Intn(len(scale))]
		row := make([]string, cfg.Raters)
		values := make([]reliability.Value, cfg.Raters)

		for j := 0; j < cfg.Raters; j++ {
			rating := base
			if r.Float64() < p {
				rating = scale[r.Intn(len(scale))]
			}
			if cfg.MissingRate > 0 && r.Float64() < cfg.MissingRate {
				values[j] = reliability.Missing()
				continue
			}
			values[j] = reliability.Num(rating)
			row[j] = strconv.FormatFloat(rating, 'f', -1, 64)
		}

		sample.Rows[i] = row
		sample.Matrix[i] = values
	}
	return sample, nil
}

// WriteCSV writes the sample with a header row
func WriteCSV(path string, s *Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.Headers); err != nil {
		return err
	}
	for _, row := range s.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes the sample to Sheet1 with a header row
func WriteXLSX(path string, s *Sample) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, h := range s.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, values := range s.Matrix {
		for c, v := range values {
			if v.IsMissing() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v.N); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
