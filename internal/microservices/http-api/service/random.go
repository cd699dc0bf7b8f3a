package service

import "math/rand/v2"

// Randomizer is the source of randomness behind quote selection.
type Randomizer interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRandomizer uses the runtime-seeded math/rand/v2 generator, safe for concurrent use.
func DefaultRandomizer() Randomizer {
	return globalRand{}
}
