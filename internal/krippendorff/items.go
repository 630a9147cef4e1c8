package krippendorff

import (
	"math"

	"github.com/montanaflynn/stats"

	"kalpha/domain/reliability"
)

// ItemStatistics reports per-row diagnostics for every item, pairable or not.
// labels, when long enough, names the rows in the output.
func ItemStatistics(m reliability.Matrix, mask [][]bool, labels []string) []reliability.ItemStats {
	out := make([]reliability.ItemStats, len(m))

	for i := range m {
		ratings := ratingsOf(m, mask, i)
		st := reliability.ItemStats{
			Index:        i,
			Ratings:      len(ratings),
			StdDev:       math.NaN(),
			Disagreement: math.NaN(),
			Agreement:    math.NaN(),
		}
		if i < len(labels) {
			st.Label = labels[i]
		}

		distinct := make(map[reliability.Value]struct{}, len(ratings))
		for _, v := range ratings {
			distinct[v] = struct{}{}
		}
		st.Unique = len(distinct)

		if nums, ok := numericRatings(ratings); ok && len(nums) > 0 {
			if len(nums) == 1 {
				st.StdDev = 0
			} else if sd, err := stats.StandardDeviation(nums); err == nil {
				st.StdDev = sd
			}
		}

		switch {
		case len(ratings) == 1:
			st.Agreement = 1.0
		case len(ratings) >= 2:
			st.Disagreement = pairwiseDisagreement(ratings)
			st.Agreement = 1.0 - st.Disagreement
		}

		out[i] = st
	}
	return out
}

// numericRatings converts ratings to floats; ok is false if any is not numeric
func numericRatings(ratings []reliability.Value) ([]float64, bool) {
	nums := make([]float64, 0, len(ratings))
	for _, v := range ratings {
		f, ok := v.Float()
		if !ok {
			return nil, false
		}
		nums = append(nums, f)
	}
	return nums, true
}

// pairwiseDisagreement is the share of unordered rating pairs that differ
func pairwiseDisagreement(ratings []reliability.Value) float64 {
	differ, total := 0, 0
	for a := 0; a < len(ratings); a++ {
		for b := a + 1; b < len(ratings); b++ {
			total++
			if ratings[a] != ratings[b] {
				differ++
			}
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(differ) / float64(total)
}
