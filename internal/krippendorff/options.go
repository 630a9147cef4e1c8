// Package krippendorff computes Krippendorff's alpha over an items x raters
// matrix, with per-item diagnostics and bootstrap confidence intervals.
package krippendorff

import (
	"fmt"
	"math"

	"kalpha/domain/reliability"
	"kalpha/internal/errors"
)

// DefaultConfidence is the interval level used when callers start from DefaultOptions
const DefaultConfidence = 0.95

// Options configures one alpha computation
type Options struct {
	Level           reliability.Level          // Required measurement scale
	Missing         []reliability.Value        // Extra sentinels treated as missing (added to NaN/empty detection)
	ReturnItems     bool                       // Emit per-item statistics
	ItemLabels      []string                   // Optional labels for item statistics, indexed like rows after orientation fix
	Bootstrap       int                        // Bootstrap iterations; 0 disables resampling
	Confidence      float64                    // Interval level in (0, 1)
	Seed            *int64                     // Resampling seed; nil draws one from the clock
	Workers         int                        // Parallel bootstrap workers; 0 means GOMAXPROCS
	Validate        bool                       // Check values against the scale before computing
	Normalization   reliability.Normalization  // Expected-disagreement denominator
	Interval        reliability.IntervalMethod // How bounds are read from the bootstrap sample
	KeepOrientation bool                       // Disable the 2 x N transpose heuristic
}

// DefaultOptions returns options for level with validation on and a 95% interval
func DefaultOptions(level reliability.Level) Options {
	return Options{
		Level:      level,
		Confidence: DefaultConfidence,
		Validate:   true,
	}
}

// WithSeed is a helper for setting the optional seed inline
func WithSeed(seed int64) *int64 {
	return &seed
}

func (o Options) validate() error {
	if o.Level == reliability.LevelUnset {
		return errors.ConfigInvalid("parameter 'level' is required; choose from nominal, ordinal, interval, ratio")
	}
	if !o.Level.Valid() {
		return errors.ConfigInvalid(fmt.Sprintf("invalid level %d; must be one of nominal, ordinal, interval, ratio", o.Level))
	}
	if math.IsNaN(o.Confidence) || o.Confidence <= 0 || o.Confidence >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("confidence interval must be between 0 and 1, got %v", o.Confidence))
	}
	if o.Bootstrap < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("bootstrap iterations must be positive, got %d", o.Bootstrap))
	}
	if o.Workers < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("workers must be non-negative, got %d", o.Workers))
	}
	if o.Normalization > reliability.NormalizePairable {
		return errors.ConfigInvalid(fmt.Sprintf("unknown normalization %d", o.Normalization))
	}
	if o.Interval > reliability.IntervalPercentile {
		return errors.ConfigInvalid(fmt.Sprintf("unknown interval method %d", o.Interval))
	}
	return nil
}
