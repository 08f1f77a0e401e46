package fingerprint

import (
	"fmt"
	"strings"
	"time"

	"xray/stats"
	"xray/window"
)

// CostPolicy decides which expensive statistics a pass may compute.
type CostPolicy interface {
	// AllowsFullScan gates statistics that need every row, like sums.
	AllowsFullScan() bool
	// AllowsUnboundedComputation gates work that grows faster than the
	// input, like seasonal decomposition.
	AllowsUnboundedComputation() bool
}

// Budget is the stock CostPolicy, ordered from cheapest to most expensive.
type Budget int

const (
	BudgetSample Budget = iota
	BudgetFullScan
	BudgetUnbounded
)

func ParseBudget(s string) (Budget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sample":
		return BudgetSample, nil
	case "", "full-scan", "full_scan":
		return BudgetFullScan, nil
	case "unbounded":
		return BudgetUnbounded, nil
	}
	return BudgetSample, fmt.Errorf("unknown budget %q", s)
}

func (b Budget) String() string {
	switch b {
	case BudgetSample:
		return "sample"
	case BudgetUnbounded:
		return "unbounded"
	}
	return "full-scan"
}

func (b Budget) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Budget) UnmarshalText(text []byte) error {
	parsed, err := ParseBudget(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b Budget) AllowsFullScan() bool {
	return b >= BudgetFullScan
}

func (b Budget) AllowsUnboundedComputation() bool {
	return b >= BudgetUnbounded
}

// DefaultPercentiles are the quartiles.
func DefaultPercentiles() []float64 {
	return []float64{0.25, 0.5, 0.75}
}

type Options struct {
	Budget CostPolicy
	// Scale buckets temporal series; Raw keeps every instant.
	Scale window.Scale
	// Location is the zone instants are read and bucketed in.
	Location    *time.Location
	Percentiles []float64
	Decomposer  stats.Decomposer
}

func DefaultOptions() Options {
	return Options{
		Budget:      BudgetFullScan,
		Scale:       window.Raw,
		Location:    time.UTC,
		Percentiles: DefaultPercentiles(),
		Decomposer:  stats.ClassicalDecomposer{},
	}
}

func (opts Options) withDefaults() Options {
	defaults := DefaultOptions()
	if opts.Budget == nil {
		opts.Budget = defaults.Budget
	}
	if opts.Location == nil {
		opts.Location = defaults.Location
	}
	if opts.Percentiles == nil {
		opts.Percentiles = defaults.Percentiles
	}
	if opts.Decomposer == nil {
		opts.Decomposer = defaults.Decomposer
	}
	return opts
}
