package rng

import (
	"context"
	"math/rand"
)

// Adapter implements ports.RNGPort with math/rand sources derived from a base seed
type Adapter struct{}

// NewAdapter creates a stream adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(seed)), nil
}

// Stream derives an independent generator for unit index of the named operation.
// The derived seed depends only on (name, index, baseSeed).
func (a *Adapter) Stream(ctx context.Context, name string, index int, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(DeriveSeed(name, index, baseSeed))), nil
}

// DeriveSeed mixes the operation name, unit index and base seed into a sub-seed
func DeriveSeed(name string, index int, baseSeed int64) int64 {
	x := uint64(baseSeed) ^ uint64(hashString(name))<<32
	x += uint64(index+1) * 0x9E3779B97F4A7C15
	return int64(splitmix64(x) >> 1)
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
