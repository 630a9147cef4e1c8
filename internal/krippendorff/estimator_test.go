package krippendorff

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalpha/adapters/logging"
	"kalpha/adapters/rng"
	"kalpha/domain/reliability"
	"kalpha/internal/errors"
)

var na = math.NaN()

func compute(t *testing.T, m reliability.Matrix, opts Options) *reliability.Result {
	t.Helper()
	res, err := NewEstimator(rng.NewAdapter(), logging.Nop()).Compute(context.Background(), m, opts)
	require.NoError(t, err)
	return res
}

func TestCompute_PerfectAgreementEveryLevel(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, 1}, {2, 2}, {3, 3}})

	for _, level := range reliability.Levels {
		t.Run(level.String(), func(t *testing.T) {
			res := compute(t, m, DefaultOptions(level))
			assert.Equal(t, 1.0, res.Alpha)
			assert.Equal(t, 0.0, res.Observed)
			assert.Greater(t, res.Expected, 0.0)
		})
	}
}

func TestCompute_PerfectAgreementManyRaters(t *testing.T) {
	m := reliability.FromFloats([][]float64{
		{1, 1, 1, 1},
		{2, 2, 2, 2},
		{3, 3, 3, 3},
	})

	res := compute(t, m, DefaultOptions(reliability.Nominal))
	assert.Equal(t, 1.0, res.Alpha)
	assert.Equal(t, 3, res.Items)
	assert.Equal(t, 4, res.Raters)
	assert.Equal(t, 12, res.PairableValues)
	assert.False(t, res.Transposed)
}

func TestCompute_SystematicDisagreement(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, 2}, {2, 1}})

	for _, level := range []reliability.Level{reliability.Nominal, reliability.Interval} {
		res := compute(t, m, DefaultOptions(level))
		assert.False(t, math.IsNaN(res.Alpha), level.String())
		assert.LessOrEqual(t, res.Alpha, 0.0, level.String())
		assert.InDelta(t, -0.5, res.Alpha, 1e-12, level.String())
	}
}

func TestCompute_Normalization(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, 1}, {1, 2}})

	canonical := compute(t, m, DefaultOptions(reliability.Nominal))
	assert.InDelta(t, 0.5, canonical.Observed, 1e-12)
	assert.InDelta(t, 0.5, canonical.Expected, 1e-12)
	assert.InDelta(t, 0.0, canonical.Alpha, 1e-12)
	assert.Equal(t, reliability.NormalizeCanonical, canonical.Normalization)

	opts := DefaultOptions(reliability.Nominal)
	opts.Normalization = reliability.NormalizePairable
	pairable := compute(t, m, opts)
	assert.InDelta(t, 0.5, pairable.Observed, 1e-12)
	assert.InDelta(t, 2.0, pairable.Expected, 1e-12)
	assert.InDelta(t, 0.75, pairable.Alpha, 1e-12)
}

func TestCompute_MoreDisagreementLowersAlpha(t *testing.T) {
	base := reliability.FromFloats([][]float64{{1, 1}, {2, 2}, {3, 3}, {1, 2}})
	worse := reliability.FromFloats([][]float64{{1, 1}, {2, 2}, {3, 1}, {1, 2}})

	a := compute(t, base, DefaultOptions(reliability.Nominal))
	b := compute(t, worse, DefaultOptions(reliability.Nominal))

	assert.InDelta(t, 2.0/3.0, a.Alpha, 1e-12)
	assert.Less(t, b.Alpha, a.Alpha)
}

func TestCompute_SingletonItemIgnored(t *testing.T) {
	base := reliability.FromFloats([][]float64{{1, 1}, {2, 2}, {3, 3}, {1, 2}})
	withSingleton := reliability.FromFloats([][]float64{{1, 1}, {2, 2}, {3, 3}, {1, 2}, {5, na}})

	for _, level := range reliability.Levels {
		a := compute(t, base, DefaultOptions(level))
		b := compute(t, withSingleton, DefaultOptions(level))
		assert.Equal(t, a.Alpha, b.Alpha, level.String())
		assert.Equal(t, 4, b.PairableItems)
		assert.Equal(t, 5, b.Items)
	}
}

func TestCompute_CustomMissingSentinel(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, 1}, {1, 2}, {9, 9}})

	without := compute(t, m, DefaultOptions(reliability.Nominal))

	opts := DefaultOptions(reliability.Nominal)
	opts.Missing = []reliability.Value{reliability.Num(9)}
	with := compute(t, m, opts)

	assert.InDelta(t, 0.0, with.Alpha, 1e-12)
	assert.Equal(t, 2, with.PairableItems)
	assert.NotEqual(t, without.Alpha, with.Alpha)
}

func TestCompute_Labels(t *testing.T) {
	m := reliability.FromStrings([][]string{
		{"yes", "yes", "yes"},
		{"no", "no", ""},
		{"yes", "no", "yes"},
		{"maybe", "maybe", "maybe"},
	})

	res := compute(t, m, DefaultOptions(reliability.Nominal))
	assert.Greater(t, res.Alpha, 0.0)
	assert.Less(t, res.Alpha, 1.0)
	assert.Equal(t, 11, res.PairableValues)

	ordinal := compute(t, m, DefaultOptions(reliability.Ordinal))
	assert.False(t, math.IsNaN(ordinal.Alpha))
}

func TestCompute_TransposesTwoRowInput(t *testing.T) {
	m := reliability.FromFloats([][]float64{
		{1, 2, 3, 4, 5},
		{1, 2, 3, 4, 5},
	})
	rec := &logging.Recorder{}

	res, err := NewEstimator(nil, rec).Compute(context.Background(), m, DefaultOptions(reliability.Interval))
	require.NoError(t, err)
	assert.True(t, res.Transposed)
	assert.Equal(t, 5, res.Items)
	assert.Equal(t, 2, res.Raters)
	assert.Equal(t, 1.0, res.Alpha)
	assert.Contains(t, rec.Messages(0), "data transposed from 2xN to Nx2 format")

	opts := DefaultOptions(reliability.Interval)
	opts.KeepOrientation = true
	kept := compute(t, m, opts)
	assert.False(t, kept.Transposed)
	assert.Equal(t, 2, kept.Items)
	assert.Equal(t, 5, kept.Raters)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, 2, 3}, {1, 2, 4}})
	before := m.Clone()

	compute(t, m, DefaultOptions(reliability.Ordinal))
	assert.Equal(t, before, m)
}

func TestCompute_Errors(t *testing.T) {
	ok := reliability.FromFloats([][]float64{{1, 1}, {1, 2}})

	tests := []struct {
		name   string
		matrix reliability.Matrix
		mutate func(*Options)
		want   error
	}{
		{
			name:   "missing level",
			matrix: ok,
			mutate: func(o *Options) { o.Level = reliability.LevelUnset },
			want:   errors.ErrConfigInvalid,
		},
		{
			name:   "unknown level",
			matrix: ok,
			mutate: func(o *Options) { o.Level = reliability.Level(42) },
			want:   errors.ErrConfigInvalid,
		},
		{
			name:   "confidence out of range",
			matrix: ok,
			mutate: func(o *Options) { o.Confidence = 1.5 },
			want:   errors.ErrConfigInvalid,
		},
		{
			name:   "negative bootstrap",
			matrix: ok,
			mutate: func(o *Options) { o.Bootstrap = -1 },
			want:   errors.ErrConfigInvalid,
		},
		{
			name:   "empty matrix",
			matrix: reliability.Matrix{},
			want:   errors.ErrShapeInvalid,
		},
		{
			name: "ragged matrix",
			matrix: reliability.Matrix{
				{reliability.Num(1), reliability.Num(2)},
				{reliability.Num(1)},
			},
			want: errors.ErrShapeInvalid,
		},
		{
			name:   "no pairable item",
			matrix: reliability.FromFloats([][]float64{{1, na}, {na, 2}}),
			want:   errors.ErrDataInsufficient,
		},
		{
			name:   "negative ratio value",
			matrix: reliability.FromFloats([][]float64{{1, -2}, {3, 3}}),
			mutate: func(o *Options) { o.Level = reliability.Ratio },
			want:   errors.ErrScaleViolation,
		},
		{
			name:   "label on interval scale",
			matrix: reliability.FromStrings([][]string{{"low", "high"}, {"low", "low"}}),
			mutate: func(o *Options) { o.Level = reliability.Interval },
			want:   errors.ErrScaleViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions(reliability.Nominal)
			if tt.mutate != nil {
				tt.mutate(&opts)
			}
			_, err := NewEstimator(nil, nil).Compute(context.Background(), tt.matrix, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompute_ValidationCanBeDisabled(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, -2}, {3, 3}})
	opts := DefaultOptions(reliability.Ratio)
	opts.Validate = false

	res := compute(t, m, opts)
	assert.False(t, math.IsNaN(res.Alpha))
}

func TestCoefficient(t *testing.T) {
	e := NewEstimator(nil, nil)

	assert.Equal(t, 1.0, e.coefficient(0, 0))
	assert.True(t, math.IsNaN(e.coefficient(0.5, 0)))
	assert.InDelta(t, 0.75, e.coefficient(0.5, 2), 1e-12)
}

func TestAlpha(t *testing.T) {
	alpha, err := Alpha(reliability.FromFloats([][]float64{{1, 2}, {2, 1}}), reliability.Nominal)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, alpha, 1e-12)

	alpha, err = Alpha(reliability.FromFloats([][]float64{{1, 2}}), reliability.LevelUnset)
	assert.ErrorIs(t, err, errors.ErrConfigInvalid)
	assert.True(t, math.IsNaN(alpha))
}

func TestCompute_OptionalFeatures(t *testing.T) {
	m := reliability.FromFloats([][]float64{{1, 1}, {2, 2}, {3, 2}, {1, na}})

	plain := compute(t, m, DefaultOptions(reliability.Ordinal))
	assert.Nil(t, plain.ItemStats)
	assert.Nil(t, plain.Interval)
	assert.Nil(t, plain.Bootstrap)
	assert.False(t, plain.Requested.Items)
	assert.False(t, plain.Requested.Bootstrap)

	opts := DefaultOptions(reliability.Ordinal)
	opts.ReturnItems = true
	opts.ItemLabels = []string{"a", "b", "c", "d"}
	withItems := compute(t, m, opts)
	require.Len(t, withItems.ItemStats, 4)
	assert.True(t, withItems.Requested.Items)
	assert.Equal(t, "d", withItems.ItemStats[3].Label)
	assert.Equal(t, 1, withItems.ItemStats[3].Ratings)
	assert.Equal(t, plain.Alpha, withItems.Alpha)
}
