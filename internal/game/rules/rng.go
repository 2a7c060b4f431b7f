package rules

import "math/rand"

// countingSource counts every step taken by the underlying source so the
// stream can be restored to the same position later.
type countingSource struct {
	src rand.Source64
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.n++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.n = 0
	c.src.Seed(seed)
}

// RNG is a seeded pseudo-random stream with position tracking. Every
// nondeterministic choice in a match draws from exactly one RNG.
type RNG struct {
	seed int64
	src  *countingSource
	r    *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	return &RNG{seed: seed, src: src, r: rand.New(src)}
}

// RestoreRNG creates an RNG and advances it to the given position.
func RestoreRNG(seed, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	return rng
}

// Seed returns the seed the stream was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source steps consumed since creation.
func (r *RNG) Position() int64 {
	return r.src.n
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	return r.r.Intn(n)
}

// Shuffle shuffles n elements using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.r.Shuffle(n, swap)
}

// Perm returns a random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	return r.r.Perm(n)
}
