package krippendorff

import (
	"context"
	"math"

	"kalpha/adapters/logging"
	"kalpha/adapters/rng"
	"kalpha/domain/reliability"
	"kalpha/internal/errors"
	"kalpha/ports"
)

// Estimator runs the alpha pipeline. It holds no per-computation state and is
// safe for concurrent use when its collaborators are.
type Estimator struct {
	streams ports.RNGPort
	diag    ports.Diagnostics
}

// NewEstimator creates an estimator. Nil collaborators fall back to the
// derived-seed stream adapter and a silent diagnostics sink.
func NewEstimator(streams ports.RNGPort, diag ports.Diagnostics) *Estimator {
	if streams == nil {
		streams = rng.NewAdapter()
	}
	if diag == nil {
		diag = logging.Nop()
	}
	return &Estimator{streams: streams, diag: diag}
}

// Alpha computes the coefficient with default options and no collaborators
func Alpha(m reliability.Matrix, level reliability.Level) (float64, error) {
	res, err := NewEstimator(nil, nil).Compute(context.Background(), m, DefaultOptions(level))
	if err != nil {
		return math.NaN(), err
	}
	return res.Alpha, nil
}

// Compute runs the full pipeline on a private copy of m: orientation fix,
// missing-value classification, pairable-value collection, scale validation,
// distance construction, disagreement, coefficient, then the optional
// item statistics and bootstrap interval.
func (e *Estimator) Compute(ctx context.Context, m reliability.Matrix, opts Options) (*reliability.Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(m) == 0 || !m.Rectangular() {
		return nil, errors.ShapeInvalid("input data must be a rectangular 2D matrix (items x raters)")
	}

	work := m.Clone()
	transposed := false
	if items, raters := work.Dims(); !opts.KeepOrientation && items == 2 && raters > 2 {
		work = work.Transpose()
		transposed = true
		e.diag.Info("data transposed from 2xN to Nx2 format", "raters", items, "items", raters)
	}

	res, mask, valid, err := e.estimate(work, opts)
	if err != nil {
		return nil, err
	}
	res.Transposed = transposed

	if opts.ReturnItems {
		res.Requested.Items = true
		res.ItemStats = ItemStatistics(work, mask, opts.ItemLabels)
	}

	if opts.Bootstrap > 0 {
		res.Requested.Bootstrap = true
		res.Iterations = opts.Bootstrap
		e.diag.Info("performing bootstrap iterations", "iterations", opts.Bootstrap)

		samples, warnings, err := e.bootstrap(ctx, work, valid, opts)
		if err != nil {
			return nil, err
		}
		ci := ConfidenceBounds(samples, res.Alpha, opts.Confidence, opts.Interval)
		res.Bootstrap = samples
		res.Interval = &ci
		res.Warnings = append(res.Warnings, warnings...)

		e.diag.Info("bootstrap confidence interval",
			"confidence", opts.Confidence,
			"low", ci.Low,
			"high", ci.High,
			"method", ci.Method.String(),
			"samples", len(samples),
		)
	}

	return res, nil
}

// estimate computes the coefficient of an already oriented matrix
func (e *Estimator) estimate(work reliability.Matrix, opts Options) (*reliability.Result, [][]bool, []int, error) {
	items, raters := work.Dims()
	e.diag.Debug("processing ratings", "items", items, "raters", raters, "level", opts.Level.String())

	mask := MissingMask(work, opts.Missing)
	pool, valid, err := collectPairable(work, mask)
	if err != nil {
		return nil, nil, nil, err
	}

	if opts.Validate {
		if err := validateScale(pool, opts.Level, e.diag); err != nil {
			return nil, nil, nil, err
		}
	}

	table := reliability.NewFrequencyTable(pool)
	e.diag.Debug("collected pairable values", "unique", table.Len(), "pairable", table.Total)

	dist := NewDistance(opts.Level, table)
	observed := observedDisagreement(work, mask, valid, dist)
	expected := expectedDisagreement(table, dist, opts.Normalization)
	alpha := e.coefficient(observed, expected)

	res := &reliability.Result{
		Alpha:          alpha,
		Observed:       observed,
		Expected:       expected,
		Level:          opts.Level,
		Normalization:  opts.Normalization,
		Items:          items,
		Raters:         raters,
		PairableItems:  len(valid),
		PairableValues: table.Total,
	}
	if math.IsNaN(alpha) {
		res.Warnings = append(res.Warnings, "observed disagreement without expected disagreement: alpha is undefined (NaN)")
	}
	return res, mask, valid, nil
}

// coefficient combines observed and expected disagreement. Zero expected
// disagreement yields 1.0 when nothing disagrees and NaN otherwise.
func (e *Estimator) coefficient(observed, expected float64) float64 {
	if expected == 0 {
		if observed == 0 {
			e.diag.Debug("perfect agreement: alpha = 1.0")
			return 1.0
		}
		e.diag.Warn("no expected disagreement but observed disagreement exists: alpha = NaN")
		return math.NaN()
	}
	alpha := 1.0 - observed/expected
	e.diag.Debug("krippendorff's alpha", "alpha", alpha)
	return alpha
}
