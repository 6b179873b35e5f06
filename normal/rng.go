// SPDX-License-Identifier: MIT
// Package normal - random sources shared by RandomPoint and Sample.
//
// Goals:
//   - Determinism: same seed ⇒ identical draws across platforms (PCG).
//   - A single process-wide source, reseedable with Seed, used by every
//     manifold that was not given its own stream (WithRand / WithSeed).
//
// Concurrency:
//   - The process-wide source is guarded by a mutex and safe to share.
//   - A *rand.Rand passed through WithRand is NOT goroutine-safe.
package normal

import (
	"math/rand/v2"
	"sync"
)

// defaultRNGSeed is the seed of the process-wide source before any Seed call.
const defaultRNGSeed uint64 = 1

// mixSeed is a SplitMix64 finalizer used to derive the second PCG word.
func mixSeed(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb

	return x ^ (x >> 31)
}

// rngFromSeed returns a deterministic PCG-backed *rand.Rand.
func rngFromSeed(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, mixSeed(seed)))
}

// lockedSource serializes access to a PCG so one stream can be shared.
type lockedSource struct {
	mu  sync.Mutex
	src *rand.PCG
}

// Uint64 implements rand.Source.
func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	v := s.src.Uint64()
	s.mu.Unlock()

	return v
}

func (s *lockedSource) seed(seed uint64) {
	s.mu.Lock()
	s.src.Seed(seed, mixSeed(seed))
	s.mu.Unlock()
}

var (
	globalSource = &lockedSource{src: rand.NewPCG(defaultRNGSeed, mixSeed(defaultRNGSeed))}
	globalRNG    = rand.New(globalSource)
)

// Seed resets the process-wide random source. Manifolds built with WithRand
// or WithSeed are unaffected.
func Seed(seed uint64) { globalSource.seed(seed) }

// uniform draws from [-bound, bound).
func uniform(r *rand.Rand, bound float64) float64 {
	return bound * (2*r.Float64() - 1)
}
