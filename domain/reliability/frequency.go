package reliability

import "sort"

// FrequencyTable counts the distinct values drawn from pairable items.
// INVARIANTS:
// - Values holds each distinct value once, in first-seen order
// - Counts[i] is the frequency of Values[i]
// - sum(Counts) == Total
type FrequencyTable struct {
	Values []Value
	Counts []int
	Total  int
	index  map[Value]int
}

// NewFrequencyTable tallies a pool of non-missing values
func NewFrequencyTable(pool []Value) *FrequencyTable {
	t := &FrequencyTable{index: make(map[Value]int)}
	for _, v := range pool {
		i, ok := t.index[v]
		if !ok {
			i = len(t.Values)
			t.index[v] = i
			t.Values = append(t.Values, v)
			t.Counts = append(t.Counts, 0)
		}
		t.Counts[i]++
		t.Total++
	}
	return t
}

// Count returns the frequency of v (0 when absent)
func (t *FrequencyTable) Count(v Value) int {
	if i, ok := t.index[v]; ok {
		return t.Counts[i]
	}
	return 0
}

// Len returns the number of distinct values
func (t *FrequencyTable) Len() int {
	return len(t.Values)
}

// AllNumeric reports whether every distinct value converts to a number
func (t *FrequencyTable) AllNumeric() bool {
	for _, v := range t.Values {
		if _, ok := v.Float(); !ok {
			return false
		}
	}
	return true
}

// Sorted returns the distinct values in rank order: ascending numerically when
// every value converts to a number, lexicographically by text otherwise.
func (t *FrequencyTable) Sorted() []Value {
	out := append([]Value(nil), t.Values...)
	if t.AllNumeric() {
		sort.SliceStable(out, func(a, b int) bool {
			x, _ := out[a].Float()
			y, _ := out[b].Float()
			return x < y
		})
		return out
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].String() < out[b].String()
	})
	return out
}
