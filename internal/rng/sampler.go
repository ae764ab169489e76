// internal/rng/sampler.go

package rng

import (
	"encoding/binary"
	"errors"
	"math"
)

// Uint32 returns a single 32-bit random word.
func (g *Generator) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := g.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// Uint64 returns a single 64-bit random word.
func (g *Generator) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := g.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// Uint64n returns a uniform integer in [0, n). Words that fall in the
// incomplete final range are rejected, so there is no modulo bias.
func (g *Generator) Uint64n(n uint64) (uint64, error) {
	if n == 0 {
		return 0, errors.New("rng: n must be > 0")
	}
	if n&(n-1) == 0 {
		v, err := g.Uint64()
		return v & (n - 1), err
	}
	// limit is the largest multiple of n that fits, minus one.
	limit := math.MaxUint64 - (math.MaxUint64%n+1)%n
	for {
		v, err := g.Uint64()
		if err != nil {
			return 0, err
		}
		if v <= limit {
			return v % n, nil
		}
	}
}

// Intn returns a uniform integer in [0, n).
func (g *Generator) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("rng: n must be > 0")
	}
	v, err := g.Uint64n(uint64(n))
	return int(v), err
}
