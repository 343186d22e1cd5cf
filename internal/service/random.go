package service

import "math/rand/v2"

// RandomSource is the randomness the services draw from. *rand.Rand from math/rand/v2
// satisfies it, so tests can pass rand.New(rand.NewPCG(seed, seed)).
type RandomSource interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the package-level math/rand/v2 functions, which are safe for
// concurrent use and give every call an independent draw.
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Float64() float64                   { return rand.Float64() }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRandom returns the shared, goroutine-safe source.
func DefaultRandom() RandomSource {
	return globalRand{}
}
