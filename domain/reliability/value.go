package reliability

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind defines the storage kind of a rating cell
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindNumeric
	KindLabel
)

func (k ValueKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindLabel:
		return "label"
	default:
		return "missing"
	}
}

// Value is a single rating cell. It is comparable and safe to use as a map key.
// INVARIANTS:
// - a numeric NaN is never stored; Num(NaN) yields a missing value
// - Text is only set for KindLabel
type Value struct {
	Kind ValueKind
	N    float64
	Text string
}

// Num creates a numeric value. NaN is the canonical not-a-value and becomes missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	if f == 0 {
		f = 0 // fold -0 so it renders as 0
	}
	return Value{Kind: KindNumeric, N: f}
}

// Label creates a categorical value
func Label(s string) Value {
	return Value{Kind: KindLabel, Text: s}
}

// Missing creates an absent value
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the cell carries no rating
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// IsNumeric reports whether the value is stored as a number
func (v Value) IsNumeric() bool {
	return v.Kind == KindNumeric
}

// Float converts the value to a number. Labels convert when their text parses
// as a finite float.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumeric:
		return v.N, true
	case KindLabel:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal reports whether two values are the same rating
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumeric:
		return strconv.FormatFloat(v.N, 'g', -1, 64)
	case KindLabel:
		return v.Text
	default:
		return "NA"
	}
}
