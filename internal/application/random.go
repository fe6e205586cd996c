package application

import "math/rand/v2"

// Random is the source of roaming and search choices.
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// between returns a value in [lo, hi].
func between(r Random, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
