package krippendorff

import (
	"kalpha/domain/reliability"
	"kalpha/internal/errors"
)

// collectPairable gathers the ratings of every item rated at least twice.
// It returns the global value pool and the indexes of those items.
func collectPairable(m reliability.Matrix, mask [][]bool) ([]reliability.Value, []int, error) {
	var pool []reliability.Value
	var valid []int

	for i := range m {
		ratings := ratingsOf(m, mask, i)
		if len(ratings) < 2 {
			continue
		}
		valid = append(valid, i)
		pool = append(pool, ratings...)
	}

	if len(valid) == 0 {
		return nil, nil, errors.DataInsufficient("no item has ratings from at least two raters (no pairable data)")
	}
	return pool, valid, nil
}
