package krippendorff

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalpha/domain/reliability"
)

// noisyRatings builds a deterministic items x 3 matrix where two raters agree
// and the third drifts by one point on a fixed pattern.
func noisyRatings(items int) reliability.Matrix {
	rows := make([][]float64, items)
	for i := range rows {
		base := float64(i%5 + 1)
		drift := base + float64((i*7)%3-1)
		if drift < 1 {
			drift = 1
		}
		if drift > 5 {
			drift = 5
		}
		rows[i] = []float64{base, base, drift}
	}
	return reliability.FromFloats(rows)
}

func bootstrapOptions(level reliability.Level, iterations, workers int, seed int64) Options {
	opts := DefaultOptions(level)
	opts.Bootstrap = iterations
	opts.Workers = workers
	opts.Seed = WithSeed(seed)
	return opts
}

func TestBootstrap_SameSeedIsReproducible(t *testing.T) {
	m := noisyRatings(40)
	opts := bootstrapOptions(reliability.Interval, 200, 4, 42)

	first := compute(t, m, opts)
	second := compute(t, m, opts)

	assert.Equal(t, first.Bootstrap, second.Bootstrap)
	assert.Equal(t, first.Interval, second.Interval)
	assert.Equal(t, 200, first.Iterations)
	assert.True(t, first.Requested.Bootstrap)
}

func TestBootstrap_IndependentOfWorkerCount(t *testing.T) {
	m := noisyRatings(30)

	sequential := compute(t, m, bootstrapOptions(reliability.Ordinal, 150, 1, 7))
	parallel := compute(t, m, bootstrapOptions(reliability.Ordinal, 150, 8, 7))

	require.NotEmpty(t, sequential.Bootstrap)
	assert.Equal(t, sequential.Bootstrap, parallel.Bootstrap)
	assert.Equal(t, sequential.Interval, parallel.Interval)
}

func TestBootstrap_DifferentSeedsDiffer(t *testing.T) {
	m := noisyRatings(30)

	a := compute(t, m, bootstrapOptions(reliability.Interval, 100, 2, 1))
	b := compute(t, m, bootstrapOptions(reliability.Interval, 100, 2, 2))

	assert.NotEqual(t, a.Bootstrap, b.Bootstrap)
	assert.Equal(t, a.Alpha, b.Alpha)
}

func TestBootstrap_IntervalBracketsAlpha(t *testing.T) {
	m := noisyRatings(60)

	for _, level := range []reliability.Level{reliability.Nominal, reliability.Interval} {
		res := compute(t, m, bootstrapOptions(level, 500, 0, 2024))
		require.NotNil(t, res.Interval, level.String())

		ci := res.Interval
		assert.Equal(t, DefaultConfidence, ci.Level)
		assert.LessOrEqual(t, ci.Low, ci.High, level.String())
		assert.LessOrEqual(t, ci.Low, res.Alpha, level.String())
		assert.GreaterOrEqual(t, ci.High, res.Alpha, level.String())
		assert.LessOrEqual(t, len(res.Bootstrap), 500)
		assert.Greater(t, len(res.Bootstrap), 250)
	}
}

func TestBootstrap_NoSeedStillProducesInterval(t *testing.T) {
	opts := DefaultOptions(reliability.Interval)
	opts.Bootstrap = 50

	res := compute(t, noisyRatings(20), opts)
	require.NotNil(t, res.Interval)
	assert.False(t, math.IsNaN(res.Interval.Low))
}

func TestBootstrap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEstimator(nil, nil).Compute(ctx, noisyRatings(10), bootstrapOptions(reliability.Nominal, 100, 2, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfidenceBounds(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		// reversed so the function has to sort
		samples[i] = float64(99-i) / 100
	}

	t.Run("percentile when alpha is outside the central window", func(t *testing.T) {
		ci := ConfidenceBounds(samples, -1, 0.95, reliability.IntervalBiasCorrected)
		assert.Equal(t, reliability.IntervalPercentile, ci.Method)
		assert.InDelta(t, 0.02, ci.Low, 1e-12)
		assert.InDelta(t, 0.97, ci.High, 1e-12)
	})

	t.Run("bias corrected for a centred alpha", func(t *testing.T) {
		ci := ConfidenceBounds(samples, 0.5, 0.95, reliability.IntervalBiasCorrected)
		assert.Equal(t, reliability.IntervalBiasCorrected, ci.Method)
		assert.InDelta(t, 0.02, ci.Low, 0.011)
		assert.InDelta(t, 0.97, ci.High, 0.011)
	})

	t.Run("bias correction shifts bounds toward the observed alpha", func(t *testing.T) {
		ci := ConfidenceBounds(samples, 0.7, 0.90, reliability.IntervalBiasCorrected)
		plain := ConfidenceBounds(samples, 0.7, 0.90, reliability.IntervalPercentile)
		assert.Equal(t, reliability.IntervalBiasCorrected, ci.Method)
		assert.Greater(t, ci.Low, plain.Low)
		assert.GreaterOrEqual(t, ci.High, plain.High)
	})

	t.Run("percentile requested", func(t *testing.T) {
		ci := ConfidenceBounds(samples, 0.5, 0.95, reliability.IntervalPercentile)
		assert.Equal(t, reliability.IntervalPercentile, ci.Method)
	})

	t.Run("empty sample", func(t *testing.T) {
		ci := ConfidenceBounds(nil, 0.5, 0.95, reliability.IntervalBiasCorrected)
		assert.True(t, math.IsNaN(ci.Low))
		assert.True(t, math.IsNaN(ci.High))
	})

	t.Run("does not reorder caller samples", func(t *testing.T) {
		ConfidenceBounds(samples, 0.5, 0.95, reliability.IntervalPercentile)
		assert.Equal(t, 0.99, samples[0])
	})
}

func TestSummarizeBootstrap(t *testing.T) {
	s := SummarizeBootstrap([]float64{0.2, 0.4, 0.6})
	assert.Equal(t, 3, s.Samples)
	assert.InDelta(t, 0.4, s.Mean, 1e-12)
	assert.InDelta(t, 0.4, s.Median, 1e-12)
	assert.InDelta(t, 0.2, s.Min, 1e-12)
	assert.InDelta(t, 0.6, s.Max, 1e-12)
	assert.InDelta(t, math.Sqrt(0.08/3), s.StdDev, 1e-12)

	empty := SummarizeBootstrap(nil)
	assert.Equal(t, 0, empty.Samples)
	assert.True(t, math.IsNaN(empty.Mean))
}
