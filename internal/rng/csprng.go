// internal/rng/csprng.go

// Package rng serves random bytes from one CTR_DRBG instance. A Generator
// owns its DRBG and its seed source and serializes every call with a mutex,
// so it can be shared between request handlers.
package rng

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ArowuTest/ctrdrbg/internal/drbg"
	"github.com/ArowuTest/ctrdrbg/internal/entropy"
)

// MaxBytesPerRequest bounds one Generate call made by Read (2^19 bits, the
// SP 800-90A limit per request for AES).
const MaxBytesPerRequest = 1 << 16

// Reseed reasons.
const (
	ReasonInstantiate = "instantiate"
	ReasonInterval    = "interval"
	ReasonManual      = "manual"
)

// ReseedInfo describes a completed instantiate or reseed.
type ReseedInfo struct {
	GeneratorID uuid.UUID
	Reason      string
	PrevCounter uint64
	At          time.Time
}

// Status is a point-in-time snapshot of a Generator.
type Status struct {
	ID             uuid.UUID `json:"id"`
	ReseedCounter  uint64    `json:"reseed_counter"`
	ReseedInterval uint64    `json:"reseed_interval"`
	Generates      uint64    `json:"generates"`
	Reseeds        uint64    `json:"reseeds"`
	BytesServed    uint64    `json:"bytes_served"`
	InstantiatedAt time.Time `json:"instantiated_at"`
	LastReseedAt   time.Time `json:"last_reseed_at"`
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards.
func WithLogger(l logr.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithReseedInterval sets the DRBG reseed interval.
func WithReseedInterval(n uint64) Option {
	return func(g *Generator) { g.drbgOpts = append(g.drbgOpts, drbg.WithReseedInterval(n)) }
}

// WithOnReseed registers fn to be called after every instantiate and
// reseed with the context of the call that caused it. fn runs outside the
// generator lock.
func WithOnReseed(fn func(context.Context, ReseedInfo)) Option {
	return func(g *Generator) { g.onReseed = fn }
}

// Generator is a locked, auto-reseeding CTR_DRBG.
type Generator struct {
	mu       sync.Mutex
	d        *drbg.DRBG
	source   entropy.Source
	drbgOpts []drbg.Option
	onReseed func(context.Context, ReseedInfo)
	log      logr.Logger

	id             uuid.UUID
	generates      uint64
	reseeds        uint64
	bytesServed    uint64
	instantiatedAt time.Time
	lastReseedAt   time.Time
	now            func() time.Time
}

// New reads one seed from src and instantiates a Generator.
func New(ctx context.Context, src entropy.Source, opts ...Option) (*Generator, error) {
	g := &Generator{
		source: src,
		log:    logr.Discard(),
		id:     uuid.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.d = drbg.New(g.drbgOpts...)
	g.log = g.log.WithValues("generator", g.id.String())

	seed := make([]byte, drbg.SeedLen)
	if err := src.ReadSeed(ctx, seed); err != nil {
		return nil, fmt.Errorf("rng: cannot read instantiate seed: %w", err)
	}
	if err := g.d.Instantiate(seed); err != nil {
		return nil, fmt.Errorf("rng: instantiate failed: %w", err)
	}
	g.instantiatedAt = g.now()
	g.lastReseedAt = g.instantiatedAt
	g.log.V(1).Info("instantiated", "reseedInterval", g.d.ReseedInterval())

	g.notify(ctx, ReseedInfo{GeneratorID: g.id, Reason: ReasonInstantiate, At: g.instantiatedAt})
	return g, nil
}

// ID returns the generator's identifier.
func (g *Generator) ID() uuid.UUID {
	return g.id
}

// Generate returns nbits bits. When the reseed interval is exhausted it
// reseeds from the source and retries once.
func (g *Generator) Generate(ctx context.Context, nbits int) ([]byte, error) {
	g.mu.Lock()
	out, info, err := g.generateLocked(ctx, nbits)
	g.mu.Unlock()

	if info != nil {
		g.notify(ctx, *info)
	}
	return out, err
}

func (g *Generator) generateLocked(ctx context.Context, nbits int) ([]byte, *ReseedInfo, error) {
	out, err := g.d.Generate(nbits)
	if errors.Is(err, drbg.ErrReseedRequired) {
		g.log.V(1).Info("reseed interval exhausted", "reseedCounter", g.d.ReseedCounter())
		info, rerr := g.reseedLocked(ctx, ReasonInterval)
		if rerr != nil {
			return nil, nil, rerr
		}
		out, err = g.d.Generate(nbits)
		if err != nil {
			return nil, &info, fmt.Errorf("rng: generate after reseed: %w", err)
		}
		g.account(len(out))
		return out, &info, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("rng: generate: %w", err)
	}
	g.account(len(out))
	return out, nil, nil
}

func (g *Generator) account(n int) {
	g.generates++
	g.bytesServed += uint64(n)
}

// Reseed reads a fresh seed from the source and reseeds the DRBG.
func (g *Generator) Reseed(ctx context.Context, reason string) error {
	g.mu.Lock()
	info, err := g.reseedLocked(ctx, reason)
	g.mu.Unlock()

	if err != nil {
		return err
	}
	g.notify(ctx, info)
	return nil
}

func (g *Generator) reseedLocked(ctx context.Context, reason string) (ReseedInfo, error) {
	seed := make([]byte, drbg.SeedLen)
	if err := g.source.ReadSeed(ctx, seed); err != nil {
		return ReseedInfo{}, fmt.Errorf("rng: cannot read reseed seed: %w", err)
	}
	prev := g.d.ReseedCounter()
	if err := g.d.Reseed(seed); err != nil {
		return ReseedInfo{}, fmt.Errorf("rng: reseed failed: %w", err)
	}
	g.reseeds++
	g.lastReseedAt = g.now()
	g.log.Info("reseeded", "reason", reason, "prevCounter", prev)
	return ReseedInfo{GeneratorID: g.id, Reason: reason, PrevCounter: prev, At: g.lastReseedAt}, nil
}

func (g *Generator) notify(ctx context.Context, info ReseedInfo) {
	if g.onReseed != nil {
		g.onReseed(ctx, info)
	}
}

// Read fills p with random bytes, one Generate call per MaxBytesPerRequest
// bytes. It implements io.Reader.
func (g *Generator) Read(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		n := len(p)
		if n > MaxBytesPerRequest {
			n = MaxBytesPerRequest
		}
		out, err := g.Generate(context.Background(), 8*n)
		if err != nil {
			return total, err
		}
		copy(p, out)
		total += n
		p = p[n:]
	}
	return total, nil
}

// Status returns a snapshot of the generator counters.
func (g *Generator) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		ID:             g.id,
		ReseedCounter:  g.d.ReseedCounter(),
		ReseedInterval: g.d.ReseedInterval(),
		Generates:      g.generates,
		Reseeds:        g.reseeds,
		BytesServed:    g.bytesServed,
		InstantiatedAt: g.instantiatedAt,
		LastReseedAt:   g.lastReseedAt,
	}
}

// Close zeroizes the DRBG state. Further calls fail.
func (g *Generator) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.d.Uninstantiate()
}
