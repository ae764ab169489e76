package drbg

import "errors"

var (
	// ErrInvalidInputLength is returned when seed material is not SeedLen
	// bytes long or a negative output length is requested.
	ErrInvalidInputLength = errors.New("drbg: invalid input length")

	// ErrReseedRequired is returned by Generate once the reseed counter has
	// passed the reseed interval. Reseed and retry.
	ErrReseedRequired = errors.New("drbg: reseed required")

	// ErrRange is returned when an integer does not fit the requested width.
	ErrRange = errors.New("drbg: value out of range")

	// ErrNotInstantiated is returned when Generate or Reseed is called before
	// Instantiate.
	ErrNotInstantiated = errors.New("drbg: not instantiated")

	// ErrBlockSize is returned when the configured cipher does not have a
	// 128-bit block.
	ErrBlockSize = errors.New("drbg: cipher block size must be 16 bytes")
)
