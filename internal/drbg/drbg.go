// Package drbg implements the CTR_DRBG mechanism of NIST SP 800-90A
// (section 10.2.1) for AES-128 without a derivation function, without
// additional input and without prediction resistance.
//
// A DRBG is owned by a single caller. None of its methods are safe for
// concurrent use; callers that share one instance must serialize access.
package drbg

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

const (
	// KeyLen is the cipher key length in bytes (keylen / 8).
	KeyLen = 16
	// BlockLen is the cipher block length in bytes (outlen / 8).
	BlockLen = 16
	// SeedLen is the seed material length in bytes (seedlen / 8).
	SeedLen = KeyLen + BlockLen

	// DefaultReseedInterval is the number of Generate calls allowed between
	// reseeds.
	DefaultReseedInterval = 1000
)

// CipherFunc returns a block cipher keyed with key. It is invoked after
// every update, so the key schedule always matches the current key.
type CipherFunc func(key []byte) (cipher.Block, error)

// Option configures a DRBG.
type Option func(*DRBG)

// WithReseedInterval overrides DefaultReseedInterval. Zero is ignored.
func WithReseedInterval(n uint64) Option {
	return func(d *DRBG) {
		if n > 0 {
			d.reseedInterval = n
		}
	}
}

// WithCipher replaces aes.NewCipher as the block cipher constructor.
func WithCipher(fn CipherFunc) Option {
	return func(d *DRBG) {
		if fn != nil {
			d.newCipher = fn
		}
	}
}

// DRBG is the internal state of one CTR_DRBG instance: the key, the
// counter vector V and the reseed counter.
type DRBG struct {
	newCipher      CipherFunc
	reseedInterval uint64

	block         cipher.Block
	key           []byte
	v             Counter
	reseedCounter uint64
	instantiated  bool
}

// New returns an uninstantiated DRBG. Instantiate must be called before
// Generate.
func New(opts ...Option) *DRBG {
	d := &DRBG{
		newCipher:      aes.NewCipher,
		reseedInterval: DefaultReseedInterval,
		key:            make([]byte, KeyLen),
		v:              NewCounter(BlockLen),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Instantiate discards any previous state and seeds the DRBG with seed,
// which must be exactly SeedLen bytes.
func (d *DRBG) Instantiate(seed []byte) error {
	if err := checkSeed(seed); err != nil {
		return err
	}

	key := make([]byte, KeyLen)
	block, err := d.cipherFor(key)
	if err != nil {
		return err
	}

	// Key = 0^keylen, V = 0^blocklen.
	next := state{block: block, key: key, v: NewCounter(BlockLen)}
	if err := d.update(&next, seed); err != nil {
		return err
	}

	d.commit(next)
	d.reseedCounter = 1
	d.instantiated = true
	return nil
}

// Reseed mixes seed, which must be exactly SeedLen bytes, into the current
// state and resets the reseed counter.
func (d *DRBG) Reseed(seed []byte) error {
	if !d.instantiated {
		return ErrNotInstantiated
	}
	if err := checkSeed(seed); err != nil {
		return err
	}

	next := d.current()
	if err := d.update(&next, seed); err != nil {
		return err
	}

	d.commit(next)
	d.reseedCounter = 1
	return nil
}

// Generate returns nbits pseudorandom bits packed into ceil(nbits/8) bytes.
// When nbits is not a multiple of 8, the unused low-order bits of the last
// byte are zero.
//
// Generate fails with ErrReseedRequired, before producing any output, once
// the reseed interval is exhausted.
func (d *DRBG) Generate(nbits int) ([]byte, error) {
	if !d.instantiated {
		return nil, ErrNotInstantiated
	}
	if nbits < 0 {
		return nil, fmt.Errorf("%w: negative output length %d", ErrInvalidInputLength, nbits)
	}
	if d.reseedCounter > d.reseedInterval {
		return nil, ErrReseedRequired
	}

	next := d.current()

	nbytes := (nbits + 7) / 8
	nblocks := (nbytes + BlockLen - 1) / BlockLen
	temp := make([]byte, nblocks*BlockLen)
	for off := 0; off < len(temp); off += BlockLen {
		next.v.Increment()
		next.block.Encrypt(temp[off:off+BlockLen], next.v.b)
	}

	out := temp[:nbytes]
	if rem := nbits % 8; rem != 0 {
		out[nbytes-1] &= byte(0xff << (8 - rem))
	}

	// Backtracking resistance: additional_input is always 0^seedlen here.
	if err := d.update(&next, make([]byte, SeedLen)); err != nil {
		return nil, err
	}

	d.commit(next)
	d.reseedCounter++
	return out, nil
}

// Uninstantiate zeroizes the key and vector and returns the DRBG to the
// uninstantiated state.
func (d *DRBG) Uninstantiate() {
	for i := range d.key {
		d.key[i] = 0
	}
	d.v.zero()
	d.block = nil
	d.reseedCounter = 0
	d.instantiated = false
}

// ReseedCounter returns the number of Generate calls since the last
// Instantiate or Reseed, plus one.
func (d *DRBG) ReseedCounter() uint64 {
	return d.reseedCounter
}

// ReseedInterval returns the configured reseed interval.
func (d *DRBG) ReseedInterval() uint64 {
	return d.reseedInterval
}

// Instantiated reports whether Instantiate has succeeded since construction
// or the last Uninstantiate.
func (d *DRBG) Instantiated() bool {
	return d.instantiated
}

func checkSeed(seed []byte) error {
	if len(seed) != SeedLen {
		return fmt.Errorf("%w: seed is %d bytes, want %d", ErrInvalidInputLength, len(seed), SeedLen)
	}
	return nil
}

func (d *DRBG) cipherFor(key []byte) (cipher.Block, error) {
	block, err := d.newCipher(key)
	if err != nil {
		return nil, fmt.Errorf("drbg: cannot create cipher: %w", err)
	}
	if block.BlockSize() != BlockLen {
		return nil, ErrBlockSize
	}
	return block, nil
}
