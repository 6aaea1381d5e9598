// Package grooverand implements the deterministic random source the groove
// engine uses for jitter, velocity humanization, ghost notes, and the
// hardware emulator's crackle. It is Mulberry32 for uniforms plus a
// Box-Muller transform for Gaussians — chosen for the same reason the
// teacher's fixture generator (internal/fixtures) uses a fixed-constant LCG
// for its club-noise fixtures: bit-identical output from a seed, with no
// dependency on math/rand's stream guarantees.
package grooverand

import "math"

const mulberryIncrement uint32 = 0x6D2B79F5

// RNG is a Mulberry32 generator over 32 bits of state. It is not safe for
// concurrent use; callers that need independent streams construct
// independent RNGs.
type RNG struct {
	state uint32
}

// New constructs an RNG reset to seed.
func New(seed int64) *RNG {
	r := &RNG{}
	r.Reset(seed)
	return r
}

// Reset restores the generator's state to seed (truncated to 32 bits),
// exactly reproducing the sequence a fresh New(seed) would produce.
func (r *RNG) Reset(seed int64) {
	r.state = uint32(seed)
}

// Next returns a uniform value in [0, 1) using the Mulberry32 bit mixer.
func (r *RNG) Next() float64 {
	r.state += mulberryIncrement
	a := r.state
	t := (a ^ (a >> 15)) * (a | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296
}

// Gaussian draws one standard-normal sample via Box-Muller, consuming
// exactly two uniforms from Next in order (u1 then u2). u1 is floored at
// 1e-10 to keep the logarithm finite.
func (r *RNG) Gaussian() float64 {
	u1 := r.Next()
	if u1 < 1e-10 {
		u1 = 1e-10
	}
	u2 := r.Next()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
