package entropy

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/ArowuTest/ctrdrbg/internal/drbg"
)

// Fixed serves a finite list of seeds, one per ReadSeed call, in order.
// It is meant for known-answer runs where every seed is given up front.
type Fixed struct {
	mu    sync.Mutex
	seeds [][]byte
}

// NewFixed decodes hex-encoded seeds.
func NewFixed(hexSeeds ...string) (*Fixed, error) {
	f := &Fixed{}
	for i, s := range hexSeeds {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("entropy: seed %d is not valid hex: %w", i, err)
		}
		f.seeds = append(f.seeds, b)
	}
	return f, nil
}

// Remaining returns the number of unused seeds.
func (f *Fixed) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seeds)
}

// ReadSeed implements Source. The next seed must be exactly len(p) bytes;
// a seed of any other length fails with drbg.ErrInvalidInputLength and is
// not consumed.
func (f *Fixed) ReadSeed(_ context.Context, p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.seeds) == 0 {
		return fmt.Errorf("%w: no seeds left", ErrEndOfStream)
	}
	next := f.seeds[0]
	if len(next) != len(p) {
		return fmt.Errorf("%w: seed is %d bytes, want %d", drbg.ErrInvalidInputLength, len(next), len(p))
	}
	f.seeds = f.seeds[1:]
	copy(p, next)
	return nil
}
