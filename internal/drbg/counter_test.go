package drbg

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterIncrementCarries(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"zero", []byte{0x00, 0x00, 0x00}, []byte{0x00, 0x00, 0x01}},
		{"low byte", []byte{0x00, 0x00, 0xfe}, []byte{0x00, 0x00, 0xff}},
		{"single carry", []byte{0x00, 0x00, 0xff}, []byte{0x00, 0x01, 0x00}},
		{"double carry", []byte{0x01, 0xff, 0xff}, []byte{0x02, 0x00, 0x00}},
		{"wraps", []byte{0xff, 0xff, 0xff}, []byte{0x00, 0x00, 0x00}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := CounterFromBytes(tc.in)
			c.Increment()
			assert.Equal(t, tc.want, c.Bytes())
		})
	}
}

func TestCounterWrapsAtFullWidth(t *testing.T) {
	c := CounterFromBytes(bytes.Repeat([]byte{0xff}, BlockLen))
	c.Increment()
	assert.Equal(t, make([]byte, BlockLen), c.Bytes())
	assert.Equal(t, BlockLen, c.Len())
}

func TestCounterFromBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	c := CounterFromBytes(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, c.Bytes())

	out := c.Bytes()
	out[2] = 9
	assert.Equal(t, []byte{1, 2, 3}, c.Bytes())
}

func TestCounterFromInt(t *testing.T) {
	c, err := CounterFromInt(big.NewInt(0x0102), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x02}, c.Bytes())
	assert.Equal(t, int64(0x0102), c.Int().Int64())

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	c, err = CounterFromInt(max, BlockLen)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, BlockLen), c.Bytes())
	assert.Equal(t, 0, max.Cmp(c.Int()))
}

func TestCounterFromIntRange(t *testing.T) {
	_, err := CounterFromInt(big.NewInt(256), 1)
	assert.ErrorIs(t, err, ErrRange)

	_, err = CounterFromInt(big.NewInt(-1), 16)
	assert.ErrorIs(t, err, ErrRange)

	_, err = CounterFromInt(big.NewInt(255), 1)
	assert.NoError(t, err)
}
