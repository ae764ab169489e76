// Package cli implements the ctrdrbg pipe tool: seeds in, random bytes out.
package cli

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ArowuTest/ctrdrbg/internal/drbg"
	"github.com/ArowuTest/ctrdrbg/internal/entropy"
	"github.com/ArowuTest/ctrdrbg/internal/fips"
	"github.com/ArowuTest/ctrdrbg/internal/log"
	"github.com/ArowuTest/ctrdrbg/internal/rng"
)

const (
	defaultBlocks = 511

	// maxBlocks keeps one generate call within 2^19 bits.
	maxBlocks = (1 << 19) / (8 * drbg.BlockLen)
)

type options struct {
	entropy        string
	reseedEntropy  []string
	passphrase     string
	bytes          int64
	blocks         int
	reseedInterval uint64
	fips           bool
	verbose        int
}

// NewRootCmd returns the ctrdrbg command reading seeds from in (unless given
// by flags), writing random bytes to out and logging to errOut.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "ctrdrbg",
		Short: "Stream CTR_DRBG output (AES-128, no derivation function)",
		Long: `Reads 32-byte seeds from standard input, instantiates a CTR_DRBG with the
first one and writes its output to standard output. The DRBG reseeds from the
next seed whenever its reseed interval is used up; the program ends when the
seed stream does.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFlags(cmd.Flags(), o); err != nil {
				return err
			}
			logger := log.NewLogger(errOut, o.verbose)
			src, err := o.source(in)
			if err != nil {
				return err
			}
			return run(cmd.Context(), o, src, out, logger)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	addFlags(cmd.Flags(), o)
	cmd.MarkFlagsMutuallyExclusive("entropy", "passphrase")
	return cmd
}

func addFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.entropy, "entropy", "e", "", "hex seed to instantiate with instead of reading standard input")
	fs.StringSliceVar(&o.reseedEntropy, "reseed-entropy", nil, "hex seeds used for reseeding, in order (with --entropy)")
	fs.StringVar(&o.passphrase, "passphrase", "", "derive a reproducible seed stream from this passphrase")
	fs.Int64VarP(&o.bytes, "bytes", "n", 0, "bytes to write, 0 for no limit")
	fs.IntVarP(&o.blocks, "blocks", "b", defaultBlocks, "128-bit blocks per generate call")
	fs.Uint64Var(&o.reseedInterval, "reseed-interval", 1, "generate calls per seed")
	fs.BoolVarP(&o.fips, "fips", "f", false, "write only 2500-byte blocks passing the FIPS 140-2 tests")
	fs.CountVarP(&o.verbose, "verbose", "v", "increase log verbosity")
}

func validateFlags(fs *pflag.FlagSet, o *options) error {
	var errs *multierror.Error
	if o.bytes < 0 {
		errs = multierror.Append(errs, errors.New("--bytes must not be negative"))
	}
	if o.blocks < 1 || o.blocks > maxBlocks {
		errs = multierror.Append(errs, fmt.Errorf("--blocks must be between 1 and %d", maxBlocks))
	}
	if o.reseedInterval == 0 {
		errs = multierror.Append(errs, errors.New("--reseed-interval must be positive"))
	}
	if fs.Changed("reseed-entropy") && o.entropy == "" {
		errs = multierror.Append(errs, errors.New("--reseed-entropy needs --entropy"))
	}
	if fs.Changed("passphrase") && o.passphrase == "" {
		errs = multierror.Append(errs, errors.New("--passphrase must not be empty"))
	}
	return errs.ErrorOrNil()
}

func (o *options) source(in io.Reader) (entropy.Source, error) {
	switch {
	case o.entropy != "":
		return entropy.NewFixed(append([]string{o.entropy}, o.reseedEntropy...)...)
	case o.passphrase != "":
		return entropy.NewPassphrase(o.passphrase, nil)
	}
	return entropy.NewStream(in), nil
}

// output writes at most limit bytes (0 means unlimited) to w.
type output struct {
	w       io.Writer
	limit   int64
	written int64
}

// write reports whether the limit has been reached.
func (o *output) write(p []byte) (bool, error) {
	if o.limit > 0 && int64(len(p)) > o.limit-o.written {
		p = p[:o.limit-o.written]
	}
	n, err := o.w.Write(p)
	o.written += int64(n)
	if err != nil {
		return false, fmt.Errorf("write output: %w", err)
	}
	return o.limit > 0 && o.written >= o.limit, nil
}

func run(ctx context.Context, o *options, src entropy.Source, w io.Writer, logger logr.Logger) error {
	gen, err := rng.New(ctx, src,
		rng.WithLogger(logger.WithName("rng")),
		rng.WithReseedInterval(o.reseedInterval),
	)
	if errors.Is(err, entropy.ErrEndOfStream) {
		logger.Info("no seed on input")
		return nil
	}
	if err != nil {
		return err
	}
	defer gen.Close()

	out := &output{w: w, limit: o.bytes}
	var (
		tester  *fips.Tester
		pending []byte
	)
	defer func() {
		if tester != nil {
			logStats(logger, tester.Stats())
		}
		logger.V(1).Info("done", "bytesWritten", out.written, "status", gen.Status())
	}()

	nbits := o.blocks * drbg.BlockLen * 8
	for ctx.Err() == nil {
		chunk, err := gen.Generate(ctx, nbits)
		if errors.Is(err, entropy.ErrEndOfStream) {
			logger.V(1).Info("end of seed stream")
			return nil
		}
		if err != nil {
			return err
		}

		if !o.fips {
			if done, err := out.write(chunk); err != nil || done {
				return err
			}
			continue
		}

		// The first word only primes the continuous run test.
		if tester == nil {
			tester = fips.NewTester(binary.BigEndian.Uint32(chunk))
			chunk = chunk[4:]
		}
		pending = append(pending, chunk...)
		for len(pending) >= fips.BlockSize {
			block := pending[:fips.BlockSize]
			r, err := tester.Run(block)
			if err != nil {
				return err
			}
			if r != 0 {
				logger.V(1).Info("block failed FIPS 140-2 tests", "failed", r.String())
			} else if done, err := out.write(block); err != nil || done {
				return err
			}
			pending = pending[fips.BlockSize:]
		}
	}
	return nil
}

func logStats(logger logr.Logger, s fips.Stats) {
	kv := []interface{}{"good", s.GoodBlocks, "bad", s.BadBlocks}
	for _, t := range fips.Tests {
		kv = append(kv, t.String(), s.Failures[t])
	}
	logger.Info("FIPS 140-2 statistics", kv...)
}
