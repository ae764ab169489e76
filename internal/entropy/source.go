// Package entropy supplies seed material to a DRBG. Every Source fills the
// requested buffer completely or fails; a partial seed is never returned.
package entropy

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrEndOfStream is returned when a source cannot supply the requested
// number of bytes because its input has ended.
var ErrEndOfStream = errors.New("entropy: end of stream")

// Source fills p with seed bytes.
type Source interface {
	ReadSeed(ctx context.Context, p []byte) error
}

// Stream reads seed bytes from an io.Reader such as stdin or a pipe. Reads
// block until len(p) bytes are available.
type Stream struct {
	r io.Reader
}

// NewStream returns a Source reading from r.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: r}
}

// ReadSeed implements Source.
func (s *Stream) ReadSeed(_ context.Context, p []byte) error {
	if _, err := io.ReadFull(s.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %v", ErrEndOfStream, err)
		}
		return fmt.Errorf("entropy: read failed: %w", err)
	}
	return nil
}

// System returns a Source backed by the operating system's entropy source.
func System() *Stream {
	return NewStream(rand.Reader)
}
