package drbg

import (
	"fmt"
	"math/big"
)

// Counter is a fixed-width big-endian unsigned integer. Its width never
// changes after construction and Increment wraps modulo 2^(8*width).
type Counter struct {
	b []byte
}

// NewCounter returns a zero counter of the given byte width.
func NewCounter(width int) Counter {
	return Counter{b: make([]byte, width)}
}

// CounterFromBytes returns a counter holding a copy of b.
func CounterFromBytes(b []byte) Counter {
	c := Counter{b: make([]byte, len(b))}
	copy(c.b, b)
	return c
}

// CounterFromInt returns a width-byte counter holding value.
func CounterFromInt(value *big.Int, width int) (Counter, error) {
	if value.Sign() < 0 || value.BitLen() > 8*width {
		return Counter{}, fmt.Errorf("%w: %s does not fit in %d bytes", ErrRange, value, width)
	}
	c := NewCounter(width)
	value.FillBytes(c.b)
	return c, nil
}

// Increment adds one, carrying from the least significant byte leftwards.
// All 0xff wraps to all zero.
func (c *Counter) Increment() {
	for i := len(c.b) - 1; i >= 0; i-- {
		c.b[i]++
		if c.b[i] != 0 {
			return
		}
	}
}

// Bytes returns a copy of the big-endian byte image.
func (c Counter) Bytes() []byte {
	out := make([]byte, len(c.b))
	copy(out, c.b)
	return out
}

// Int returns the counter value as an integer.
func (c Counter) Int() *big.Int {
	return new(big.Int).SetBytes(c.b)
}

// Len returns the width in bytes.
func (c Counter) Len() int {
	return len(c.b)
}

func (c *Counter) zero() {
	for i := range c.b {
		c.b[i] = 0
	}
}
