package core

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xray/fingerprint"
)

type logEntry struct {
	level string
	msg   string
}

type spyLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *spyLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *spyLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *spyLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *spyLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *spyLogger) Error(msg string, _ ...any) { l.record("error", msg) }

func (l *spyLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func numbers(key string, values ...any) Column {
	return Column{
		Key:    key,
		Fields: []fingerprint.Field{{Name: key, BaseType: fingerprint.TypeFloat}},
		Values: slices.Values(values),
	}
}

func newTestProfiler(t *testing.T, cfg *Config, options ...Option) *Profiler {
	t.Helper()
	p, err := NewProfiler(cfg, options...)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestProfileColumns(t *testing.T) {
	logger := &spyLogger{}
	cfg := DefaultConfig()
	cfg.Parallelism = 2
	p := newTestProfiler(t, cfg, WithLogger(logger))

	cols := []Column{
		numbers("a", 1.0, 2.0, nil),
		{
			Key:    "b",
			Fields: []fingerprint.Field{{Name: "b", BaseType: fingerprint.TypeText, SpecialType: fingerprint.TypeCategory}},
			Values: slices.Values([]any{"x", "y", "x"}),
		},
		numbers("c", 5.0),
	}

	run, err := p.ProfileColumns(context.Background(), cols)
	require.NoError(t, err)
	require.Len(t, run.Results, 3)
	for i, key := range []string{"a", "b", "c"} {
		assert.Equal(t, key, run.Results[i].Key)
		assert.False(t, run.Results[i].Cached)
	}
	assert.Equal(t, fingerprint.VariantNumber, run.Results[0].Fingerprint.Variant())
	assert.Equal(t, fingerprint.VariantCategory, run.Results[1].Fingerprint.Variant())
	assert.Equal(t, int64(3), run.Results[0].Fingerprint.Summary().Count)
	assert.Equal(t, 3, logger.count("debug"))
	assert.Equal(t, 1, logger.count("info"))
}

func TestProfile_CacheHit(t *testing.T) {
	logger := &spyLogger{}
	p := newTestProfiler(t, DefaultConfig(), WithLogger(logger))

	first, err := p.Profile(context.Background(), numbers("a", 1.0, 2.0))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := p.Profile(context.Background(), numbers("a", 7.0))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	uncached, err := p.Profile(context.Background(), numbers("", 7.0))
	require.NoError(t, err)
	assert.False(t, uncached.Cached)
}

func TestProfile_CacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	p := newTestProfiler(t, cfg)

	_, err := p.Profile(context.Background(), numbers("a", 1.0))
	require.NoError(t, err)
	again, err := p.Profile(context.Background(), numbers("a", 1.0))
	require.NoError(t, err)
	assert.False(t, again.Cached)
}

func TestProfileColumns_Failure(t *testing.T) {
	logger := &spyLogger{}
	p := newTestProfiler(t, DefaultConfig(), WithLogger(logger))

	bad := Column{
		Key:    "when",
		Fields: []fingerprint.Field{{Name: "when", BaseType: fingerprint.TypeDateTime}},
		Values: slices.Values([]any{"2024-01-01", "whenever"}),
	}
	_, err := p.ProfileColumns(context.Background(), []Column{numbers("a", 1.0), bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fingerprint.ErrUnparseableTime))
	assert.Contains(t, err.Error(), `"when"`)
	assert.Equal(t, 1, logger.count("error"))

	_, err = p.Profile(context.Background(), Column{Key: "empty"})
	assert.True(t, errors.Is(err, ErrNoValues))
}

func TestProfile_Cancelled(t *testing.T) {
	p := newTestProfiler(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Profile(ctx, numbers("a", 1.0))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFingerprintCache(t *testing.T) {
	cache, err := NewFingerprintCache(16)
	require.NoError(t, err)
	defer cache.Close()

	fp, err := fingerprint.Profile(fingerprint.DefaultOptions(), []any{1, 2}, fingerprint.Field{Name: "x", BaseType: fingerprint.TypeInteger})
	require.NoError(t, err)

	_, ok := cache.Get("x")
	assert.False(t, ok)
	require.True(t, cache.Put("x", fp))
	got, ok := cache.Get("x")
	require.True(t, ok)
	assert.Equal(t, fp, got)

	cache.Delete("x")
	_, ok = cache.Get("x")
	assert.False(t, ok)
}
