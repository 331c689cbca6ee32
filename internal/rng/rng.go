// Package rng provides deterministic per-run RNG derivation for the
// simulation engine. Grounded on the teacher's PartitionedRNG (cached,
// subsystem-keyed derivation from a master seed) and on the splitmix64 seed
// mixer used by the legacy engine to assign each run an independent seed.
package rng

import "math/rand"

// SeedForRun derives a run's seed from a master seed and its run index via a
// fixed, deterministic mixer (splitmix64 on baseSeed XOR runIndex). Every
// run gets an independent seed regardless of execution order or
// parallelism — no cross-run state leakage.
func SeedForRun(baseSeed int64, runIndex int) int64 {
	x := uint64(baseSeed) ^ uint64(runIndex)
	return int64(splitmix64(x))
}

// splitmix64 is the classic SplitMix64 finalizer, used purely as a
// deterministic bit mixer (not as the simulation's actual random stream).
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// New returns a freshly seeded, independent RNG for the given run index,
// derived from the batch's master seed.
func New(baseSeed int64, runIndex int) *rand.Rand {
	return rand.New(rand.NewSource(SeedForRun(baseSeed, runIndex)))
}
