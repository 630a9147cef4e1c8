package excel

import (
	"kalpha/adapters/datareadiness/coercer"
)

// SeparatorAuto asks the reader to sniff the delimiter from the first line
const SeparatorAuto = "auto"

// ReadOptions holds configuration for a tabular ratings source
type ReadOptions struct {
	Separator       string                 `json:"separator"`         // "auto", ",", ";", "\t" or "|" (CSV only)
	Header          bool                   `json:"header"`            // First row holds rater names
	ItemLabelColumn bool                   `json:"item_label_column"` // First column holds item names
	Sheet           string                 `json:"sheet"`             // XLSX sheet; empty means the first sheet
	Coercion        coercer.CoercionConfig `json:"coercion"`
}

// DefaultReadOptions returns sensible defaults for rating files
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Separator: SeparatorAuto,
		Coercion:  coercer.DefaultCoercionConfig(),
	}
}
