// Package sketch holds the bounded-memory streaming structures fingerprints
// are built from: a numeric histogram, a categorical histogram and a
// HyperLogLog cardinality estimator.
package sketch

import "xray/stats"

// ErrorRate is the target relative error of cardinality estimates.
const ErrorRate = 0.01

// Compression of the t-digest behind NumericHistogram.
const Compression = 200

// Histogram is the part of the histogram contract shared by both modes.
type Histogram interface {
	Insert(value any) error
	TotalCount() int64
	NilCount() int64
}

// Numeric is a histogram over numbers.
type Numeric interface {
	Histogram
	Min() stats.Float
	Max() stats.Float
	Mean() stats.Float
	Median() stats.Float
	Variance() stats.Float
	Percentiles(ps []float64) []Percentile
	CDF(x float64) stats.Float
	CumulativeSumAt(x float64) float64
}

// Categorical is a histogram over discrete values.
type Categorical interface {
	Histogram
	Buckets() []Bucket
}

// Cardinality is an approximate distinct counter.
type Cardinality interface {
	Insert(value any) error
	Estimate() uint64
}

type Percentile struct {
	P     float64     `json:"p"`
	Value stats.Float `json:"value"`
}

type Bucket struct {
	Value any   `json:"value"`
	Count int64 `json:"count"`
}

var (
	_ Numeric     = (*NumericHistogram)(nil)
	_ Categorical = (*CategoricalHistogram)(nil)
	_ Cardinality = (*HLL)(nil)
)
