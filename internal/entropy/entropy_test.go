package entropy

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/ctrdrbg/internal/drbg"
)

func TestStreamReadsExactly(t *testing.T) {
	src := NewStream(iotest.OneByteReader(bytes.NewReader(bytes.Repeat([]byte{0xab}, 40))))

	p := make([]byte, 32)
	require.NoError(t, src.ReadSeed(context.Background(), p))
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 32), p)

	// 8 bytes left: a short read is fatal.
	err := src.ReadSeed(context.Background(), p)
	assert.ErrorIs(t, err, ErrEndOfStream)

	err = src.ReadSeed(context.Background(), p)
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestStreamReadError(t *testing.T) {
	boom := errors.New("boom")
	src := NewStream(iotest.ErrReader(boom))
	err := src.ReadSeed(context.Background(), make([]byte, 4))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrEndOfStream)
}

func TestSystem(t *testing.T) {
	a, b := make([]byte, 32), make([]byte, 32)
	require.NoError(t, System().ReadSeed(context.Background(), a))
	require.NoError(t, System().ReadSeed(context.Background(), b))
	assert.NotEqual(t, a, b)
}

func TestFixed(t *testing.T) {
	f, err := NewFixed("000102", "ffeedd")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Remaining())

	p := make([]byte, 3)
	require.NoError(t, f.ReadSeed(context.Background(), p))
	assert.Equal(t, []byte{0, 1, 2}, p)

	err = f.ReadSeed(context.Background(), make([]byte, 4))
	assert.ErrorIs(t, err, drbg.ErrInvalidInputLength)
	assert.NotErrorIs(t, err, ErrEndOfStream)
	assert.Equal(t, 1, f.Remaining())

	require.NoError(t, f.ReadSeed(context.Background(), p))
	assert.Equal(t, []byte{0xff, 0xee, 0xdd}, p)

	assert.ErrorIs(t, f.ReadSeed(context.Background(), p), ErrEndOfStream)
}

func TestFixedRejectsBadHex(t *testing.T) {
	_, err := NewFixed("00", "zz")
	assert.Error(t, err)
}

func TestPassphraseIsDeterministic(t *testing.T) {
	a, err := NewPassphrase("correct horse", nil)
	require.NoError(t, err)
	b, err := NewPassphrase("correct horse", nil)
	require.NoError(t, err)
	c, err := NewPassphrase("battery staple", nil)
	require.NoError(t, err)

	pa, pb, pc := make([]byte, 32), make([]byte, 32), make([]byte, 32)
	require.NoError(t, a.ReadSeed(context.Background(), pa))
	require.NoError(t, b.ReadSeed(context.Background(), pb))
	require.NoError(t, c.ReadSeed(context.Background(), pc))
	assert.Equal(t, pa, pb)
	assert.NotEqual(t, pa, pc)

	// Successive seeds differ.
	require.NoError(t, a.ReadSeed(context.Background(), pb))
	assert.NotEqual(t, pa, pb)

	_, err = NewPassphrase("", nil)
	assert.Error(t, err)
}

func TestPassphraseEnds(t *testing.T) {
	src, err := NewPassphrase("limit", []byte("salt"))
	require.NoError(t, err)

	p := make([]byte, 32)
	for i := 0; i < 255; i++ {
		require.NoError(t, src.ReadSeed(context.Background(), p), "seed %d", i)
	}
	assert.ErrorIs(t, src.ReadSeed(context.Background(), p), ErrEndOfStream)
}

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("nbytes"))
		if err != nil {
			http.Error(w, "bad nbytes", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("short") != "" {
			n--
		}
		w.Write(bytes.Repeat([]byte{0x5a}, n))
	}))
	defer srv.Close()

	src, err := NewHTTP(srv.URL+"/api/v1/random", srv.Client())
	require.NoError(t, err)
	p := make([]byte, 32)
	require.NoError(t, src.ReadSeed(context.Background(), p))
	assert.Equal(t, bytes.Repeat([]byte{0x5a}, 32), p)

	short, err := NewHTTP(srv.URL+"/api/v1/random?short=1", srv.Client())
	require.NoError(t, err)
	assert.ErrorIs(t, short.ReadSeed(context.Background(), p), ErrEndOfStream)
}

func TestHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src, err := NewHTTP(srv.URL, srv.Client())
	require.NoError(t, err)
	err = src.ReadSeed(context.Background(), make([]byte, 32))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEndOfStream)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPRejectsScheme(t *testing.T) {
	_, err := NewHTTP("ftp://example.com", nil)
	assert.Error(t, err)
}
