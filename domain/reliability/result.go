package reliability

import (
	"fmt"
	"strings"
)

// IntervalMethod selects how bootstrap confidence bounds are read
type IntervalMethod uint8

const (
	// IntervalBiasCorrected shifts percentile positions by z0 when the observed
	// alpha sits comfortably inside its bootstrap distribution, else falls back
	// to plain percentiles.
	IntervalBiasCorrected IntervalMethod = iota
	IntervalPercentile
)

func (m IntervalMethod) String() string {
	if m == IntervalPercentile {
		return "percentile"
	}
	return "bias-corrected"
}

// Normalization selects the expected-disagreement denominator
type Normalization uint8

const (
	// NormalizeCanonical divides by n_total*(n_total-1), the published coefficient
	NormalizeCanonical Normalization = iota
	// NormalizePairable divides by n_total-1 only, matching legacy outputs bit for bit
	NormalizePairable
)

func (n Normalization) String() string {
	if n == NormalizePairable {
		return "pairable"
	}
	return "canonical"
}

// ItemStats holds per-item diagnostics. NaN marks a statistic that is undefined for the item.
type ItemStats struct {
	Index        int     `json:"index"`
	Label        string  `json:"label,omitempty"`
	Ratings      int     `json:"num_ratings"`           // Non-missing ratings
	Unique       int     `json:"num_unique"`            // Distinct values among them
	StdDev       float64 `json:"std_dev"`               // Population SD (numeric ratings only)
	Disagreement float64 `json:"pairwise_disagreement"` // Fraction of unordered pairs that differ
	Agreement    float64 `json:"agreement_ratio"`       // 1 - Disagreement; 1.0 for a single rating
}

// ConfidenceInterval is a bootstrap interval around alpha
type ConfidenceInterval struct {
	Low    float64        `json:"low"`
	High   float64        `json:"high"`
	Level  float64        `json:"level"`  // e.g. 0.95
	Method IntervalMethod `json:"method"` // Method actually applied
}

// Features records which optional parts of a Result were requested
type Features struct {
	Items     bool `json:"items"`
	Bootstrap bool `json:"bootstrap"`
}

// Result is the outcome of one alpha computation.
// INVARIANTS:
// - ItemStats != nil iff Requested.Items
// - Interval != nil and Bootstrap != nil iff Requested.Bootstrap
// - Alpha is NaN only when Expected == 0 and Observed > 0
type Result struct {
	Alpha          float64             `json:"alpha"`
	Observed       float64             `json:"observed_disagreement"`
	Expected       float64             `json:"expected_disagreement"`
	Level          Level               `json:"level"`
	Normalization  Normalization       `json:"normalization"`
	Items          int                 `json:"items"`
	Raters         int                 `json:"raters"`
	PairableItems  int                 `json:"pairable_items"`
	PairableValues int                 `json:"pairable_values"`
	Transposed     bool                `json:"transposed"`
	Requested      Features            `json:"requested"`
	ItemStats      []ItemStats         `json:"item_stats,omitempty"`
	Interval       *ConfidenceInterval `json:"interval,omitempty"`
	Bootstrap      []float64           `json:"bootstrap,omitempty"`
	Iterations     int                 `json:"iterations,omitempty"` // Bootstrap iterations requested
	Warnings       []string            `json:"warnings,omitempty"`
}

func (m IntervalMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (n Normalization) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// ParseNormalization maps "canonical" or "pairable" to a Normalization
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "canonical":
		return NormalizeCanonical, nil
	case "pairable", "legacy":
		return NormalizePairable, nil
	default:
		return NormalizeCanonical, fmt.Errorf("unknown normalization %q (use canonical or pairable)", s)
	}
}

// ParseIntervalMethod maps "bias-corrected" or "percentile" to an IntervalMethod
func ParseIntervalMethod(s string) (IntervalMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bias-corrected", "bc":
		return IntervalBiasCorrected, nil
	case "percentile":
		return IntervalPercentile, nil
	default:
		return IntervalBiasCorrected, fmt.Errorf("unknown interval method %q (use bias-corrected or percentile)", s)
	}
}
