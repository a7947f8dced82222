// Package rng implements the seedable linear-congruential generator the
// lattice world uses for Gibbs sampling and randomized quadrant dispatch.
// It matches the recurrence used by C++'s std::minstd_rand so that a seed
// produces the same sequence regardless of which language drives it.
package rng

import (
	"fmt"
	"strconv"
)

const (
	multiplier = 48271
	modulus    = 2147483647 // 2^31 - 1, a Mersenne prime
)

// LCG is a Lehmer / Park-Miller minimal-standard generator:
// state_{n+1} = (multiplier * state_n) mod modulus.
type LCG struct {
	state uint64
}

// NewLCG seeds a generator. Seed 0 is remapped to 1: the recurrence has a
// fixed point at zero and would otherwise generate nothing but zeroes.
func NewLCG(seed uint32) *LCG {
	g := &LCG{}
	g.Seed(seed)
	return g
}

// Seed resets the generator's state.
func (g *LCG) Seed(seed uint32) {
	s := uint64(seed) % modulus
	if s == 0 {
		s = 1
	}
	g.state = s
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint32 {
	g.state = (g.state * multiplier) % modulus
	return uint32(g.state)
}

// IntN returns a uniform value in [0, n). n must be positive.
func (g *LCG) IntN(n uint32) uint32 {
	return g.Next() % n
}

// String renders the generator's state the way std::minstd_rand's
// operator<< renders it: a bare decimal integer, no delimiters. This is
// the textual form persisted in snapshots.
func (g *LCG) String() string {
	return strconv.FormatUint(g.state, 10)
}

// ParseLCG reconstructs a generator from its String form.
func ParseLCG(s string) (*LCG, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("rng: invalid state %q: %w", s, err)
	}
	if v == 0 || v >= modulus {
		return nil, fmt.Errorf("rng: state %d out of range [1, %d)", v, modulus)
	}
	return &LCG{state: v}, nil
}
