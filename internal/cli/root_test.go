package cli

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/ctrdrbg/internal/drbg"
)

var zeroSeed = strings.Repeat("00", 32)

func execute(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(bytes.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return hex.EncodeToString(out.Bytes()), errOut.String(), err
}

func TestEntropyFlag(t *testing.T) {
	out, _, err := execute(t, nil, "--entropy", zeroSeed, "--bytes", "16", "--blocks", "1")
	require.NoError(t, err)
	assert.Equal(t, "d40e25d386f068ba00cd8671f3478932", out)
}

func TestStdinUntilEndOfStream(t *testing.T) {
	out, _, err := execute(t, make([]byte, 32), "--blocks", "1", "--reseed-interval", "2")
	require.NoError(t, err)
	assert.Equal(t, "d40e25d386f068ba00cd8671f3478932"+"bc6f12b1fb5943742ddfc0392c94f993", out)
}

func TestDefaultBlocks(t *testing.T) {
	out, _, err := execute(t, nil, "-e", zeroSeed)
	require.NoError(t, err)
	require.Len(t, out, 2*511*16)
	assert.True(t, strings.HasPrefix(out, "d40e25d386f068ba00cd8671f3478932"))
	assert.True(t, strings.HasSuffix(out, "5f0adca652657c58dc776cd30f1721c1"))
}

func TestReseedEachCall(t *testing.T) {
	out, _, err := execute(t, make([]byte, 96), "--blocks", "1", "-n", "40")
	require.NoError(t, err)
	require.Len(t, out, 80)
	assert.True(t, strings.HasPrefix(out, "d40e25d386f068ba00cd8671f3478932"))
}

func TestFipsFilter(t *testing.T) {
	out, logs, err := execute(t, nil, "-e", zeroSeed, "--fips")
	require.NoError(t, err)
	// 511 blocks minus the priming word leave three whole test blocks.
	assert.Len(t, out, 2*3*2500)
	assert.Contains(t, logs, "FIPS 140-2 statistics")
	assert.Contains(t, logs, `"good"=3`)
	assert.Contains(t, logs, `"bad"=0`)
}

func TestNoSeed(t *testing.T) {
	out, logs, err := execute(t, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, logs, "no seed on input")

	// A partial seed is the end of the stream too.
	out, _, err = execute(t, make([]byte, 20))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPassphrase(t *testing.T) {
	a, _, err := execute(t, nil, "--passphrase", "correct horse", "-n", "64")
	require.NoError(t, err)
	b, _, err := execute(t, nil, "--passphrase", "correct horse", "-n", "64")
	require.NoError(t, err)
	c, _, err := execute(t, nil, "--passphrase", "battery staple", "-n", "64")
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFlagValidation(t *testing.T) {
	for _, args := range [][]string{
		{"--blocks", "0"},
		{"--blocks", "4097"},
		{"--bytes", "-1"},
		{"--reseed-interval", "0"},
		{"--reseed-entropy", zeroSeed},
		{"--entropy", zeroSeed, "--passphrase", "x"},
		{"--entropy", "zz"},
		{"extra-arg"},
	} {
		_, _, err := execute(t, nil, args...)
		assert.Error(t, err, args)
	}
}

func TestWrongLengthEntropy(t *testing.T) {
	out, _, err := execute(t, nil, "--entropy", "00")
	assert.ErrorIs(t, err, drbg.ErrInvalidInputLength)
	assert.Empty(t, out)

	// A bad reseed seed fails once the first seed period is over.
	out, _, err = execute(t, nil, "-e", zeroSeed, "--reseed-entropy", "0011", "--blocks", "1")
	assert.ErrorIs(t, err, drbg.ErrInvalidInputLength)
	assert.Equal(t, "d40e25d386f068ba00cd8671f3478932", out)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	cmd := NewRootCmd(bytes.NewReader(nil), failWriter{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"-e", zeroSeed})
	err := cmd.Execute()
	assert.ErrorContains(t, err, "disk full")
}
