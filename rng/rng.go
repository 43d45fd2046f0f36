// Package rng provides the seeded pseudo-random stream that drives every simulation.
//
// A Generator is a mulberry32 stream: 32 bits of state, one addition and a few
// multiply/xor-shift steps per draw. Two generators created from the same seed
// produce identical sequences, and the full period is 2^32 draws.
//
// Generators are not safe for concurrent use. Each simulation call owns its own
// instance; nothing in this package keeps shared state.
package rng

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	exprand "golang.org/x/exp/rand"
)

const (
	increment = 0x6D2B79F5
	scale     = 1 << 32
)

// Source produces uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// Generator is a mulberry32 stream.
type Generator struct {
	state uint32
}

// New returns a generator seeded with seed. A nil seed draws one from the
// operating system's entropy source.
func New(seed *uint32) *Generator {
	if seed == nil {
		return &Generator{state: entropySeed()}
	}
	return &Generator{state: *seed}
}

// NewSeeded returns a generator seeded with seed.
func NewSeeded(seed uint32) *Generator {
	return &Generator{state: seed}
}

// SeedValue returns a pointer to v for the optional seed arguments used across the module.
func SeedValue(v uint32) *uint32 {
	return &v
}

// Next advances the stream and returns the raw 32-bit output.
func (g *Generator) Next() uint32 {
	g.state += increment
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 {
	return float64(g.Next()) / scale
}

// Uint64 joins two consecutive 32-bit outputs, high word first.
// Together with Seed it makes Generator an x/exp/rand Source.
func (g *Generator) Uint64() uint64 {
	hi := uint64(g.Next())
	return hi<<32 | uint64(g.Next())
}

// Seed resets the stream. Only the low 32 bits of seed are used.
func (g *Generator) Seed(seed uint64) {
	g.state = uint32(seed)
}

// NewRand wraps g in an x/exp/rand.Rand for helpers that need integer ranges or
// shuffles. The returned Rand consumes g's stream.
func NewRand(g *Generator) *exprand.Rand {
	return exprand.New(g)
}

// DeriveSeed converts one draw in [0, 1) into a 32-bit seed, floor(r * 0xFFFFFFFF).
func DeriveSeed(r float64) uint32 {
	return uint32(r * 0xFFFFFFFF)
}

func entropySeed() uint32 {
	var buf [4]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// fall back to the runtime-seeded generator
		return rand.Uint32()
	}
	return binary.LittleEndian.Uint32(buf[:])
}
