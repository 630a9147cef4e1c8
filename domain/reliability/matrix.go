package reliability

// Matrix holds ratings with one row per item and one column per rater
type Matrix [][]Value

// FromFloats builds a matrix from plain numbers; NaN cells become missing
func FromFloats(rows [][]float64) Matrix {
	m := make(Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]Value, len(row))
		for j, f := range row {
			m[i][j] = Num(f)
		}
	}
	return m
}

// FromStrings builds a matrix of labels; empty strings become missing
func FromStrings(rows [][]string) Matrix {
	m := make(Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]Value, len(row))
		for j, s := range row {
			if s == "" {
				m[i][j] = Missing()
				continue
			}
			m[i][j] = Label(s)
		}
	}
	return m
}

// Dims returns (items, raters). Raters is the width of the first row.
func (m Matrix) Dims() (int, int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Rectangular reports whether every row has the same width
func (m Matrix) Rectangular() bool {
	if len(m) == 0 {
		return false
	}
	width := len(m[0])
	for _, row := range m[1:] {
		if len(row) != width {
			return false
		}
	}
	return true
}

// Transpose swaps items and raters. The matrix must be rectangular.
func (m Matrix) Transpose() Matrix {
	items, raters := m.Dims()
	out := make(Matrix, raters)
	for j := 0; j < raters; j++ {
		out[j] = make([]Value, items)
		for i := 0; i < items; i++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Clone returns a deep copy so callers can hand the engine data it may own
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]Value(nil), row...)
	}
	return out
}
