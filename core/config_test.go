package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xray/fingerprint"
	"xray/window"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
parallelism: 3
cache:
  enabled: false
budget: unbounded
scale: month
timezone: Europe/Oslo
percentiles: [0.1, 0.9]
`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, int64(1024), cfg.Cache.MaxEntries)
	assert.Equal(t, fingerprint.BudgetUnbounded, cfg.Budget)
	assert.Equal(t, window.Month, cfg.Scale)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.True(t, opts.Budget.AllowsUnboundedComputation())
	assert.Equal(t, window.Month, opts.Scale)
	assert.Equal(t, "Europe/Oslo", opts.Location.String())
	assert.Equal(t, []float64{0.1, 0.9}, opts.Percentiles)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, opts.Location)
	assert.True(t, opts.Budget.AllowsFullScan())
	assert.False(t, opts.Budget.AllowsUnboundedComputation())
}

func TestParseConfig_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"budget":      "budget: lavish",
		"scale":       "scale: fortnight",
		"parallelism": "parallelism: 0",
		"cache":       "cache: {enabled: true, max_entries: 0}",
		"timezone":    "timezone: Mars/Olympus",
		"percentile":  "percentiles: [1.5]",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xray.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scale: week\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, window.Week, cfg.Scale)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
