// Package fips runs the FIPS 140-2 statistical random number generator
// tests (as amended by the 2001-10-10 change notice) on 20000-bit blocks.
package fips

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// BlockSize is the size in bytes of one test block (20000 bits).
const BlockSize = 2500

// Result is a bitmask of failed tests. Zero means the block passed.
type Result uint

const (
	// Monobit fails unless 9725 < ones < 10275.
	Monobit Result = 1 << iota
	// Poker fails unless 2.16 < X < 46.17 over the 4-bit nibble counts.
	Poker
	// Runs fails when a run length count of either bit value is outside
	// its interval.
	Runs
	// LongRun fails on any run of 26 or more equal bits.
	LongRun
	// ContinuousRun fails when a 32-bit word repeats its predecessor,
	// including across blocks.
	ContinuousRun
)

// Tests lists every test in bit order.
var Tests = []Result{Monobit, Poker, Runs, LongRun, ContinuousRun}

var names = map[Result]string{
	Monobit:       "monobit",
	Poker:         "poker",
	Runs:          "runs",
	LongRun:       "long run",
	ContinuousRun: "continuous run",
}

func (r Result) String() string {
	if r == 0 {
		return "pass"
	}
	var failed []string
	for _, t := range Tests {
		if r&t != 0 {
			failed = append(failed, names[t])
		}
	}
	return strings.Join(failed, ",")
}

// Run-length acceptance intervals for runs of length 1..5 and 6+.
var (
	runsLow  = [6]int{2315, 1114, 527, 240, 103, 103}
	runsHigh = [6]int{2685, 1386, 723, 384, 209, 209}
)

const longRunLength = 26

// Stats accumulates results over many blocks.
type Stats struct {
	GoodBlocks uint64
	BadBlocks  uint64
	Failures   map[Result]uint64
}

// Tester carries the state of the continuous run test between blocks.
type Tester struct {
	last32 uint32
	stats  Stats
}

// NewTester returns a Tester whose continuous run test compares the first
// word of the first block against last32, which should be 32 bits of
// generator output that are not part of any tested block.
func NewTester(last32 uint32) *Tester {
	return &Tester{last32: last32, stats: Stats{Failures: make(map[Result]uint64)}}
}

// Run tests one block of exactly BlockSize bytes.
func (t *Tester) Run(block []byte) (Result, error) {
	if len(block) != BlockSize {
		return 0, fmt.Errorf("fips: block is %d bytes, want %d", len(block), BlockSize)
	}

	var r Result
	if !monobit(block) {
		r |= Monobit
	}
	if !poker(block) {
		r |= Poker
	}
	runsOK, longOK := runs(block)
	if !runsOK {
		r |= Runs
	}
	if !longOK {
		r |= LongRun
	}
	if !t.continuous(block) {
		r |= ContinuousRun
	}

	if r == 0 {
		t.stats.GoodBlocks++
	} else {
		t.stats.BadBlocks++
		for _, test := range Tests {
			if r&test != 0 {
				t.stats.Failures[test]++
			}
		}
	}
	return r, nil
}

// Stats returns a copy of the accumulated statistics.
func (t *Tester) Stats() Stats {
	s := Stats{GoodBlocks: t.stats.GoodBlocks, BadBlocks: t.stats.BadBlocks, Failures: make(map[Result]uint64)}
	for k, v := range t.stats.Failures {
		s.Failures[k] = v
	}
	return s
}

func monobit(block []byte) bool {
	ones := 0
	for _, b := range block {
		for ; b != 0; b &= b - 1 {
			ones++
		}
	}
	return ones > 9725 && ones < 10275
}

func poker(block []byte) bool {
	var f [16]int
	for _, b := range block {
		f[b>>4]++
		f[b&0x0f]++
	}
	sum := 0
	for _, n := range f {
		sum += n * n
	}
	x := 16.0/5000.0*float64(sum) - 5000.0
	return x > 2.16 && x < 46.17
}

// runs scans bits most significant first and reports whether the run counts
// are within bounds and whether no run reached longRunLength.
func runs(block []byte) (bool, bool) {
	var counts [2][6]int
	longOK := true

	current := block[0] >> 7
	length := 0
	record := func() {
		i := length
		if i > 6 {
			i = 6
		}
		counts[current][i-1]++
		if length >= longRunLength {
			longOK = false
		}
	}

	for _, b := range block {
		for i := 7; i >= 0; i-- {
			bit := (b >> uint(i)) & 1
			if bit == current {
				length++
				continue
			}
			record()
			current, length = bit, 1
		}
	}
	record()

	runsOK := true
	for bit := range counts {
		for i, n := range counts[bit] {
			if n < runsLow[i] || n > runsHigh[i] {
				runsOK = false
			}
		}
	}
	return runsOK, longOK
}

func (t *Tester) continuous(block []byte) bool {
	ok := true
	for i := 0; i < len(block); i += 4 {
		w := binary.BigEndian.Uint32(block[i:])
		if w == t.last32 {
			ok = false
		}
		t.last32 = w
	}
	return ok
}
