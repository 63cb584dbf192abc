package random

import "math/rand/v2"

// Source picks uniformly from [0, n). Injected so plant variant choices are
// reproducible under a fixed seed.
type Source interface {
	IntN(n int) int
}

func New(seed1, seed2 uint64) Source {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// System is seeded from the runtime's entropy source.
type System struct{}

func (System) IntN(n int) int {
	return rand.IntN(n)
}
