package krippendorff

import (
	"kalpha/domain/reliability"
)

// Distance is the difference function δ(v, v') for one computation. It is a
// closed variant over the four measurement levels; the ordinal variant carries
// the rank order and marginal probabilities of the global frequency table.
type Distance struct {
	level reliability.Level
	ranks map[reliability.Value]int // ordinal only
	probs []float64                 // ordinal only, marginal probability by rank
}

// NewDistance builds the difference function for level. It must be built after
// the frequency table of the pairable values is known.
func NewDistance(level reliability.Level, table *reliability.FrequencyTable) Distance {
	d := Distance{level: level}
	if level != reliability.Ordinal {
		return d
	}

	sorted := table.Sorted()
	d.ranks = make(map[reliability.Value]int, len(sorted))
	d.probs = make([]float64, len(sorted))
	for i, v := range sorted {
		d.ranks[v] = i
		d.probs[i] = float64(table.Count(v)) / float64(table.Total)
	}
	return d
}

// Level returns the measurement level this distance serves
func (d Distance) Level() reliability.Level {
	return d.level
}

// Delta evaluates δ(a, b). δ(v, v) is always 0.
func (d Distance) Delta(a, b reliability.Value) float64 {
	switch d.level {
	case reliability.Interval:
		return intervalDelta(a, b)
	case reliability.Ratio:
		return ratioDelta(a, b)
	case reliability.Ordinal:
		return d.ordinalDelta(a, b)
	default:
		return nominalDelta(a, b)
	}
}

func nominalDelta(a, b reliability.Value) float64 {
	if a == b {
		return 0
	}
	return 1
}

func intervalDelta(a, b reliability.Value) float64 {
	x, okA := a.Float()
	y, okB := b.Float()
	if !okA || !okB {
		return nominalDelta(a, b)
	}
	diff := x - y
	return diff * diff
}

func ratioDelta(a, b reliability.Value) float64 {
	x, okA := a.Float()
	y, okB := b.Float()
	if !okA || !okB || x < 0 || y < 0 {
		return nominalDelta(a, b)
	}
	if x == 0 && y == 0 {
		return 0
	}
	// an absolute zero against any positive value is maximal disagreement
	if x == 0 || y == 0 {
		return 1
	}
	r := (x - y) / (x + y)
	return r * r
}

// ordinalDelta sums squared marginal probabilities over ranks (i, j], always
// walking from the lower rank so the result does not depend on argument order.
func (d Distance) ordinalDelta(a, b reliability.Value) float64 {
	if a == b {
		return 0
	}
	i, okA := d.ranks[a]
	j, okB := d.ranks[b]
	if !okA || !okB {
		return 0
	}
	if i > j {
		i, j = j, i
	}

	distance := 0.0
	for k := i + 1; k <= j; k++ {
		distance += d.probs[k] * d.probs[k]
	}
	return distance
}
