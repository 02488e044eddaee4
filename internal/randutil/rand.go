// Package randutil derives the deterministic random streams used for
// shuffling. Every deck in the engine draws from a source built here,
// so a round can be replayed from nothing but its int64 seed.
package randutil

import rand "math/rand/v2"

// splitmix64 finalizer constants.
const (
	mixA  = 0xbf58476d1ce4e5b9
	mixB  = 0x94d049bb133111eb
	gamma = 0x9e3779b97f4a7c15
)

// New builds a *rand.Rand whose stream is fully determined by seed.
// PCG wants two 64-bit words; both are run through a splitmix64
// finalizer so the sequential seeds the registry hands out do not
// yield correlated shuffles.
func New(seed int64) *rand.Rand {
	lo := finalize(uint64(seed))
	hi := finalize(uint64(seed) + gamma)
	return rand.New(rand.NewPCG(lo, hi))
}

func finalize(x uint64) uint64 {
	x ^= x >> 30
	x *= mixA
	x ^= x >> 27
	x *= mixB
	x ^= x >> 31
	return x
}
