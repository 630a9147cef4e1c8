package krippendorff

import (
	"kalpha/domain/reliability"
)

// observedDisagreement averages δ over every ordered pair of rating positions
// within each pairable item. An item with m ratings contributes m(m-1) pairs.
func observedDisagreement(m reliability.Matrix, mask [][]bool, valid []int, dist Distance) float64 {
	sum := 0.0
	pairs := 0

	for _, i := range valid {
		ratings := ratingsOf(m, mask, i)
		for a := range ratings {
			for b := range ratings {
				if a == b {
					continue
				}
				sum += dist.Delta(ratings[a], ratings[b])
				pairs++
			}
		}
	}

	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// expectedDisagreement weights δ over every ordered pair of distinct values of
// the marginal distribution by count(v)*count(v') / denominator.
func expectedDisagreement(table *reliability.FrequencyTable, dist Distance, norm reliability.Normalization) float64 {
	n := float64(table.Total)
	denominator := n * (n - 1)
	if norm == reliability.NormalizePairable {
		denominator = n - 1
	}
	if denominator <= 0 {
		return 0
	}

	values := table.Values
	if dist.Level() == reliability.Ordinal {
		values = table.Sorted()
	}

	sum := 0.0
	for _, v := range values {
		cv := float64(table.Count(v))
		for _, w := range values {
			if v == w {
				continue
			}
			cw := float64(table.Count(w))
			sum += (cv * cw / denominator) * dist.Delta(v, w)
		}
	}
	return sum
}
