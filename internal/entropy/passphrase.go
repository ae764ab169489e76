package entropy

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfInfo binds the expansion to this use.
var hkdfInfo = []byte("ctrdrbg seed stream v1")

// NewPassphrase returns a deterministic Source that expands passphrase with
// HKDF-SHA256. The same passphrase and salt always yield the same seeds,
// which makes runs reproducible. It is not an entropy source.
//
// HKDF expands to at most 255*32 bytes, so the stream ends after 255 seeds
// of 32 bytes.
func NewPassphrase(passphrase string, salt []byte) (*Stream, error) {
	if passphrase == "" {
		return nil, errors.New("entropy: empty passphrase")
	}
	return NewStream(hkdfReader{hkdf.New(sha256.New, []byte(passphrase), salt, hkdfInfo)}), nil
}

// hkdfReader reports the HKDF output limit as io.EOF.
type hkdfReader struct {
	r io.Reader
}

func (h hkdfReader) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	if err != nil {
		return n, io.EOF
	}
	return n, nil
}
