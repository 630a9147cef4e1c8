package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSummary renders the short human-readable report printed by the CLI
func FormatSummary(b *Bundle) string {
	res := b.Result
	var sb strings.Builder

	sb.WriteString("Krippendorff's Alpha Results\n")
	sb.WriteString(strings.Repeat("=", 30) + "\n")
	fmt.Fprintf(&sb, "Measurement Scale: %s\n", capitalize(res.Level.String()))
	fmt.Fprintf(&sb, "Items: %d\n", res.Items)
	fmt.Fprintf(&sb, "Raters: %d\n", res.Raters)
	if res.Transposed {
		sb.WriteString("Orientation: transposed from raters x items\n")
	}
	fmt.Fprintf(&sb, "Alpha: %s\n", fixed(res.Alpha))

	if ci := res.Interval; ci != nil {
		fmt.Fprintf(&sb, "%s CI: [%s, %s] (%s, %d/%d samples)\n",
			ConfidenceLabel(ci.Level), fixed(ci.Low), fixed(ci.High), ci.Method, len(res.Bootstrap), res.Iterations)
	}

	in := b.Interpretation
	fmt.Fprintf(&sb, "Reliability: %s (%s)\n", in.Tier, in.Range)
	fmt.Fprintf(&sb, "Interpretation: %s\n", in.Description)
	fmt.Fprintf(&sb, "Recommendation: %s\n", in.Recommendation)

	for _, w := range res.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	return sb.String()
}

// ConfidenceLabel renders an interval level such as 0.95 as "95%"
func ConfidenceLabel(level float64) string {
	pct := math.Round(level*1000) / 10
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
