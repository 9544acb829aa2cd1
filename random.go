package reactfx

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// rng is the deterministic generator handed to renderers. Two renders with
// the same descriptor and context seed draw the same sequence, which keeps
// Render a pure function of its inputs.
type rng struct {
	r *rand.Rand
}

// newRNG seeds a PCG stream from the descriptor contents and the context seed.
func newRNG(d Descriptor, seed uint64) rng {
	return rng{r: rand.New(rand.NewPCG(fingerprint(d), seed))}
}

// fingerprint hashes a descriptor's printed form.
func fingerprint(d Descriptor) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%T%+v", d, d)
	return h.Sum64()
}

// Float returns a value in [0, 1).
func (g rng) Float() float64 { return g.r.Float64() }

// In returns a value drawn uniformly from rg.
func (g rng) In(rg Range) float64 {
	if rg.Min == rg.Max {
		return rg.Min
	}
	return rg.Min + g.r.Float64()*(rg.Max-rg.Min)
}

// Signed returns a value in [-1, 1).
func (g rng) Signed() float64 { return g.r.Float64()*2 - 1 }

// Intn returns a value in [0, n).
func (g rng) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}
