package router

import "math/rand"

// All random tie-breaks in the router draw from one process-level
// generator so that a fixed seed reproduces a run exactly.
var rng = rand.New(rand.NewSource(1))

// SetSeed reseeds the tie-break generator.
func SetSeed(seed int64) {
	rng = rand.New(rand.NewSource(seed))
}

// FlipCoin returns true with probability one half.
func FlipCoin() bool {
	return rng.Intn(2) == 1
}

// Intn returns a uniform integer in [0, n).
func Intn(n int) int {
	return rng.Intn(n)
}
