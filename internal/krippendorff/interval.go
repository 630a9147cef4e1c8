package krippendorff

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"kalpha/domain/reliability"
)

// ConfidenceBounds reads a two-sided interval at level ci from bootstrap
// samples. The bias-corrected method only applies while the observed alpha
// sits strictly between the 10th and 90th sample fractiles and the corrected
// positions stay inside (0, 1); otherwise plain percentiles are reported.
func ConfidenceBounds(samples []float64, alpha, ci float64, method reliability.IntervalMethod) reliability.ConfidenceInterval {
	out := reliability.ConfidenceInterval{
		Low:    math.NaN(),
		High:   math.NaN(),
		Level:  ci,
		Method: reliability.IntervalPercentile,
	}
	n := len(samples)
	if n == 0 {
		return out
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	lowerP := (1 - ci) / 2
	upperP := (1 + ci) / 2
	out.Low = sorted[clampIndex(int(math.Floor(lowerP*float64(n))), n)]
	out.High = sorted[clampIndex(int(math.Floor(upperP*float64(n))), n)]

	if method != reliability.IntervalBiasCorrected || math.IsNaN(alpha) {
		return out
	}

	below := 0
	for _, s := range sorted {
		if s < alpha {
			below++
		}
	}
	f := float64(below) / float64(n)
	if f <= 0.1 || f >= 0.9 {
		return out
	}

	z0 := distuv.UnitNormal.Quantile(f)
	bcLow := distuv.UnitNormal.CDF(2*z0 + distuv.UnitNormal.Quantile(lowerP))
	bcHigh := distuv.UnitNormal.CDF(2*z0 + distuv.UnitNormal.Quantile(upperP))
	if !(0 < bcLow && bcLow < bcHigh && bcHigh < 1) {
		return out
	}

	out.Low = sorted[clampIndex(int(bcLow*float64(n)), n)]
	out.High = sorted[clampIndex(int(bcHigh*float64(n)), n)]
	out.Method = reliability.IntervalBiasCorrected
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// BootstrapSummary describes the distribution of bootstrap alphas
type BootstrapSummary struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// SummarizeBootstrap computes descriptive statistics of the bootstrap sample.
// An empty sample yields NaN statistics.
func SummarizeBootstrap(samples []float64) BootstrapSummary {
	summary := BootstrapSummary{
		Samples: len(samples),
		Mean:    math.NaN(),
		Median:  math.NaN(),
		StdDev:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
	}
	if len(samples) == 0 {
		return summary
	}

	summary.Mean, _ = stats.Mean(samples)
	summary.Median, _ = stats.Median(samples)
	summary.StdDev, _ = stats.StandardDeviation(samples)
	summary.Min, _ = stats.Min(samples)
	summary.Max, _ = stats.Max(samples)
	return summary
}
