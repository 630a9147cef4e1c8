package reliability

import "math"

// Tier boundaries for reliability decisions
const (
	AcceptableThreshold = 0.80
	TentativeThreshold  = 0.67
)

// Tier is a qualitative reliability grade
type Tier string

const (
	TierAcceptable   Tier = "Acceptable"
	TierTentative    Tier = "Tentative"
	TierUnacceptable Tier = "Unacceptable"
	TierUndefined    Tier = "Undefined"
)

// Interpretation translates a coefficient into guidance for the analyst
type Interpretation struct {
	Tier           Tier   `json:"level"`
	Range          string `json:"range"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Color          string `json:"color"`
}

// Interpret maps alpha onto the tiers at 0.80 and 0.67. NaN is Undefined.
func Interpret(alpha float64) Interpretation {
	switch {
	case math.IsNaN(alpha):
		return Interpretation{
			Tier:           TierUndefined,
			Range:          "NaN",
			Description:    "Disagreement observed without any expected disagreement",
			Recommendation: "Inspect the data; a single category was used with conflicting ratings",
			Color:          "gray",
		}
	case alpha >= AcceptableThreshold:
		return Interpretation{
			Tier:           TierAcceptable,
			Range:          "≥0.80",
			Description:    "Reliable for most research purposes",
			Recommendation: "Proceed with analysis",
			Color:          "green",
		}
	case alpha >= TentativeThreshold:
		return Interpretation{
			Tier:           TierTentative,
			Range:          "0.67-0.80",
			Description:    "Draw only tentative conclusions",
			Recommendation: "Consider additional data collection",
			Color:          "orange",
		}
	default:
		return Interpretation{
			Tier:           TierUnacceptable,
			Range:          "<0.67",
			Description:    "Insufficient reliability for research",
			Recommendation: "Improve coding scheme or rater training",
			Color:          "red",
		}
	}
}
