package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates an independent deterministic stream for one unit of work
	// (e.g. a single bootstrap iteration). Streams for different indexes must not
	// depend on the order in which they are requested, so parallel workers
	// reproduce the sequential result.
	Stream(ctx context.Context, name string, index int, baseSeed int64) (*rand.Rand, error)
}
