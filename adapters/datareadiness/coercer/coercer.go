package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"kalpha/domain/reliability"
)

// DefaultMissingTokens are the cell spellings read as "no rating"
var DefaultMissingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "none", "."}

// CellCoercer converts raw tabular cells into rating values with fixed rules
type CellCoercer struct {
	config  CoercionConfig
	missing map[string]struct{}
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingTokens    []string `json:"missing_tokens"`    // Exact (trimmed) spellings treated as missing
	KeepLabels       bool     `json:"keep_labels"`       // Keep non-numeric cells as categorical labels instead of missing
	NormalizeLabels  bool     `json:"normalize_labels"`  // Lower-case and collapse whitespace in labels
	NumericThreshold float64  `json:"numeric_threshold"` // Share of present cells that must parse for a column to count as numeric
}

// DefaultCoercionConfig returns the loader defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens:    DefaultMissingTokens,
		KeepLabels:       false,
		NormalizeLabels:  false,
		NumericThreshold: 0.8, // 80% must parse as numbers
	}
}

// NewCellCoercer creates a coercer with the given config
func NewCellCoercer(config CoercionConfig) *CellCoercer {
	missing := make(map[string]struct{}, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[strings.TrimSpace(tok)] = struct{}{}
	}
	return &CellCoercer{config: config, missing: missing}
}

// Coerce converts one raw cell. Numbers win over labels; anything that is
// neither a number nor a kept label is missing.
func (c *CellCoercer) Coerce(raw string) reliability.Value {
	trimmed := strings.TrimSpace(raw)
	if c.IsMissingToken(trimmed) {
		return reliability.Missing()
	}

	if f, ok := c.tryParseNumeric(trimmed); ok {
		return reliability.Num(f)
	}

	if !c.config.KeepLabels {
		return reliability.Missing()
	}
	return c.coerceToLabel(trimmed)
}

// CoerceRow converts a row of raw cells
func (c *CellCoercer) CoerceRow(raw []string) []reliability.Value {
	out := make([]reliability.Value, len(raw))
	for i, cell := range raw {
		out[i] = c.Coerce(cell)
	}
	return out
}

// IsMissingToken reports whether a trimmed cell spells "no rating"
func (c *CellCoercer) IsMissingToken(trimmed string) bool {
	if trimmed == "" {
		return true
	}
	_, ok := c.missing[trimmed]
	return ok
}

// Analyze counts how the cells of a column would coerce
func (c *CellCoercer) Analyze(cells []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}

	for _, raw := range cells {
		trimmed := strings.TrimSpace(raw)
		if c.IsMissingToken(trimmed) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		if _, ok := c.tryParseNumeric(trimmed); ok {
			analysis.NumericCount++
		} else {
			analysis.LabelCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.Numeric = analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold
	return analysis
}

// coerceToLabel converts to an optionally normalized label
func (c *CellCoercer) coerceToLabel(s string) reliability.Value {
	if c.config.NormalizeLabels {
		s = normalizeString(s)
	}
	if s == "" {
		return reliability.Missing()
	}
	return reliability.Label(s)
}

// tryParseNumeric parses a rating with lenient formatting rules.
// Handles parentheses for negatives, European decimals, currency and percent signs.
func (c *CellCoercer) tryParseNumeric(strVal string) (float64, bool) {
	if strVal == "" {
		return 0, false
	}

	cleanVal := strings.TrimSpace(strVal)

	// (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	// European (1.234,5) and French (1 234,5) formats use the comma as decimal mark
	if hasComma && (hasPeriod || hasSpace) {
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 && isDigits(afterComma) && strings.LastIndex(cleanVal, ".") < commaIdx {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	} else if hasComma {
		// A lone comma is a decimal mark in semicolon-separated European exports
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	} else {
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var whitespace = regexp.MustCompile(`\s+`)

// normalizeString applies deterministic label normalization
func normalizeString(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespace.ReplaceAllString(s, " ")

	// Remove control characters
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// TypeAnalysis contains the results of a column scan
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	MissingCount int     `json:"missing_count"`
	ValidCount   int     `json:"valid_count"`
	NumericCount int     `json:"numeric_count"`
	LabelCount   int     `json:"label_count"`
	NumericRatio float64 `json:"numeric_ratio"`
	Numeric      bool    `json:"numeric"` // NumericRatio reached the configured threshold
}
