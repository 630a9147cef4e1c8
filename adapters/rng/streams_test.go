package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter()

	r1, err := a.Stream(ctx, "bootstrap", 7, 42)
	require.NoError(t, err)
	r2, err := a.Stream(ctx, "bootstrap", 7, 42)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, r1.Int63(), r2.Int63())
	}
}

func TestStreamsDifferByIndexNameAndSeed(t *testing.T) {
	base := DeriveSeed("bootstrap", 0, 42)

	assert.NotEqual(t, base, DeriveSeed("bootstrap", 1, 42))
	assert.NotEqual(t, base, DeriveSeed("jackknife", 0, 42))
	assert.NotEqual(t, base, DeriveSeed("bootstrap", 0, 43))
	assert.GreaterOrEqual(t, base, int64(0))
}

func TestStreamHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter().Stream(ctx, "bootstrap", 0, 1)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewAdapter().SeededStream(ctx, "sample", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
