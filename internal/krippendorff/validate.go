package krippendorff

import (
	"kalpha/domain/reliability"
	"kalpha/internal/errors"
	"kalpha/ports"
)

// validateScale checks the pairable values against the measurement scale
func validateScale(pool []reliability.Value, level reliability.Level, diag ports.Diagnostics) error {
	switch level {
	case reliability.Ratio:
		for _, v := range pool {
			f, ok := v.Float()
			if !ok {
				return errors.ScaleViolation("ratio scale requires numeric data; found " + v.String())
			}
			if f < 0 {
				return errors.ScaleViolation("ratio scale requires non-negative values; found negative values in data")
			}
		}
		diag.Debug("data validation passed: all values are non-negative for ratio scale")

	case reliability.Interval:
		for _, v := range pool {
			if _, ok := v.Float(); !ok {
				return errors.ScaleViolation("interval scale requires numeric data; found " + v.String())
			}
		}
		diag.Debug("data validation passed: all values are numeric for interval scale")

	case reliability.Ordinal:
		for _, v := range pool {
			if _, ok := v.Float(); !ok {
				diag.Info("using non-numeric ordinal data; ranks follow lexicographic order")
				return nil
			}
		}
		diag.Debug("data validation passed: all values are numeric for ordinal scale")
	}
	return nil
}
