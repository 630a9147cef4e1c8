package krippendorff

import "kalpha/domain/reliability"

// MissingMask flags absent cells. A cell is missing when it carries no rating
// (empty or NaN) or equals any of the extra sentinels; both rules always apply.
func MissingMask(m reliability.Matrix, missing []reliability.Value) [][]bool {
	sentinels := make(map[reliability.Value]struct{}, len(missing))
	for _, v := range missing {
		sentinels[v] = struct{}{}
	}

	mask := make([][]bool, len(m))
	for i, row := range m {
		mask[i] = make([]bool, len(row))
		for j, v := range row {
			if v.IsMissing() {
				mask[i][j] = true
				continue
			}
			if _, ok := sentinels[v]; ok {
				mask[i][j] = true
			}
		}
	}
	return mask
}

// ratingsOf returns the non-missing ratings of row i in column order
func ratingsOf(m reliability.Matrix, mask [][]bool, i int) []reliability.Value {
	out := make([]reliability.Value, 0, len(m[i]))
	for j, v := range m[i] {
		if !mask[i][j] {
			out = append(out, v)
		}
	}
	return out
}
