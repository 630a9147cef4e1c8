// Package export persists alpha results as JSON, CSV, text, XLSX or HTML reports.
package export

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"kalpha/domain/reliability"
	"kalpha/internal/krippendorff"
)

// Bundle is one exported computation: the result plus run metadata
type Bundle struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Source         string
	Result         *reliability.Result
	Interpretation reliability.Interpretation
	Bootstrap      *krippendorff.BootstrapSummary // Set when the result carries bootstrap samples
	Quality        *krippendorff.QualityReport    // Optional pre-computation data check
	RaterLabels    []string
}

// NewBundle wraps a result with a fresh run ID and timestamp
func NewBundle(source string, res *reliability.Result) *Bundle {
	b := &Bundle{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC(),
		Source:         source,
		Result:         res,
		Interpretation: reliability.Interpret(res.Alpha),
	}
	if res.Requested.Bootstrap {
		summary := krippendorff.SummarizeBootstrap(res.Bootstrap)
		b.Bootstrap = &summary
	}
	return b
}

// WithQuality attaches a data-quality report
func (b *Bundle) WithQuality(q krippendorff.QualityReport) *Bundle {
	b.Quality = &q
	return b
}

// nullable maps NaN and infinities to nil for JSON
func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// cell renders a float for CSV and spreadsheet cells; NaN is an empty cell
func cell(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// fixed renders a float with four decimals for human-readable output
func fixed(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}
