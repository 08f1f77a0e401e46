package core

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"xray/fingerprint"
	"xray/operator"
)

var ErrNoValues = errors.New("column has no value stream")

// Column is one profiling job: the values of a field, or of a pair of
// fields as fingerprint.Pair items.
type Column struct {
	// Key identifies the column in the cache. Columns without a key are
	// always profiled.
	Key    string
	Fields []fingerprint.Field
	Values iter.Seq[any]
}

type Result struct {
	Key         string
	Fingerprint fingerprint.Fingerprint
	Cached      bool
	Duration    time.Duration
}

// Run is the outcome of ProfileColumns. Results follow the order of the
// columns.
type Run struct {
	ID      uuid.UUID
	Results []Result
}

// Profiler runs independent fingerprint passes over many columns.
type Profiler struct {
	opts        fingerprint.Options
	parallelism int
	cache       *FingerprintCache
	logger      Logger
}

type Option func(*Profiler) error

func WithLogger(logger Logger) Option {
	return func(p *Profiler) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		p.logger = logger
		return nil
	}
}

// WithCache replaces the cache built from the config.
func WithCache(cache *FingerprintCache) Option {
	return func(p *Profiler) error {
		p.cache = cache
		return nil
	}
}

func NewProfiler(cfg *Config, options ...Option) (*Profiler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	p := &Profiler{
		opts:        opts,
		parallelism: cfg.Parallelism,
		logger:      discardLogger(),
	}
	if cfg.Cache.Enabled {
		if p.cache, err = NewFingerprintCache(cfg.Cache.MaxEntries); err != nil {
			return nil, err
		}
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Profile fingerprints one column. A pass is never interrupted once
// started; ctx is only checked before it begins.
func (p *Profiler) Profile(ctx context.Context, col Column) (Result, error) {
	return p.profile(ctx, uuid.New(), col)
}

func (p *Profiler) profile(ctx context.Context, runID uuid.UUID, col Column) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if col.Values == nil {
		return Result{}, fmt.Errorf("column %q: %w", col.Key, ErrNoValues)
	}

	if p.cache != nil && col.Key != "" {
		if fp, ok := p.cache.Get(col.Key); ok {
			p.logger.Debug("fingerprint cache hit", "run", runID.String(), "column", col.Key)
			return Result{Key: col.Key, Fingerprint: fp, Cached: true}, nil
		}
	}

	start := time.Now()
	op, err := fingerprint.BuildAggregator(p.opts, col.Fields...)
	if err != nil {
		return Result{}, fmt.Errorf("column %q: %w", col.Key, err)
	}
	fp, err := operator.Reduce(op, col.Values)
	if err != nil {
		p.logger.Error("fingerprint pass failed", "run", runID.String(), "column", col.Key, "error", err)
		return Result{}, fmt.Errorf("column %q: %w", col.Key, err)
	}
	elapsed := time.Since(start)
	p.logger.Debug("fingerprint pass completed",
		"run", runID.String(),
		"column", col.Key,
		"variant", string(fp.Variant()),
		"duration", elapsed)

	if p.cache != nil && col.Key != "" && !p.cache.Put(col.Key, fp) {
		p.logger.Warn("fingerprint cache rejected entry", "run", runID.String(), "column", col.Key)
	}
	return Result{Key: col.Key, Fingerprint: fp, Duration: elapsed}, nil
}

// ProfileColumns fingerprints cols concurrently, at most parallelism at a
// time. The first failure cancels the columns that have not started yet.
func (p *Profiler) ProfileColumns(ctx context.Context, cols []Column) (Run, error) {
	run := Run{ID: uuid.New(), Results: make([]Result, len(cols))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, col := range cols {
		g.Go(func() error {
			result, err := p.profile(ctx, run.ID, col)
			if err != nil {
				return err
			}
			run.Results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Run{ID: run.ID}, err
	}

	hits := 0
	for _, r := range run.Results {
		if r.Cached {
			hits++
		}
	}
	p.logger.Info("profiling run completed", "run", run.ID.String(), "columns", len(cols), "cache_hits", hits)
	return run, nil
}

func (p *Profiler) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}
