package krippendorff

import (
	"fmt"

	"kalpha/domain/reliability"
)

// QualityReport summarises missingness and coverage of a ratings matrix
// before any coefficient is computed.
type QualityReport struct {
	Items             int     `json:"num_items"`
	Raters            int     `json:"num_raters"`
	TotalCells        int     `json:"total_cells"`
	MissingCells      int     `json:"missing_cells"`
	MissingPercent    float64 `json:"missing_percentage"`
	SufficientItems   int     `json:"items_with_sufficient_data"` // Rated by at least two raters
	InsufficientItems int     `json:"items_with_insufficient_data"`
	UniqueValues      int     `json:"unique_values"`
	ValueRange        string  `json:"value_range"`
}

// CheckQuality inspects m without transposing it. missing adds sentinels to
// the built-in missing detection, exactly as in Options.Missing.
func CheckQuality(m reliability.Matrix, missing []reliability.Value) QualityReport {
	mask := MissingMask(m, missing)
	report := QualityReport{ValueRange: "N/A"}
	report.Items, report.Raters = m.Dims()

	var present []reliability.Value
	for i, row := range m {
		report.TotalCells += len(row)
		rated := 0
		for j, v := range row {
			if mask[i][j] {
				report.MissingCells++
				continue
			}
			rated++
			present = append(present, v)
		}
		if rated >= 2 {
			report.SufficientItems++
		} else {
			report.InsufficientItems++
		}
	}

	if report.TotalCells > 0 {
		report.MissingPercent = float64(report.MissingCells) / float64(report.TotalCells) * 100
	}

	table := reliability.NewFrequencyTable(present)
	report.UniqueValues = table.Len()
	if sorted := table.Sorted(); len(sorted) > 0 {
		report.ValueRange = fmt.Sprintf("%s - %s", sorted[0], sorted[len(sorted)-1])
	}
	return report
}
