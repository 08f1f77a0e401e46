// Package fingerprint profiles a column, or a pair of columns, in one
// streaming pass.
//
// A Signature built from the column types picks a profiling Strategy from
// Rules(). The strategy's aggregator consumes the column values and completes
// with a Fingerprint, which renders either for display (ToDisplay) or as a
// comparison vector for similarity computations (ToComparisonVector).
package fingerprint

import (
	"sort"

	jsoniter "github.com/json-iterator/go"
	"xray/binning"
	"xray/sketch"
	"xray/stats"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Fingerprint is the immutable result of one profiling pass.
type Fingerprint interface {
	Variant() Variant
	Summary() Base
	display() Display
	features() Features
}

// Display is the presentation record of a fingerprint.
type Display map[string]any

// Features is the comparison vector of a fingerprint. It never holds the
// fields, the type signature or presentation flags.
type Features map[string]any

// Base holds what every variant reports.
type Base struct {
	Fields     []Field     `json:"fields"`
	Type       Signature   `json:"type"`
	Count      int64       `json:"count"`
	NilPercent stats.Float `json:"nil_percent"`
	HasNils    bool        `json:"has_nils"`
}

func newBase(fields []Field, count, nils int64) Base {
	return Base{
		Fields:     fields,
		Type:       SignatureOf(fields...),
		Count:      count,
		NilPercent: stats.SafeDivide(stats.Some(float64(nils)), stats.Some(float64(count))),
		HasNils:    nils > 0,
	}
}

func (b Base) Summary() Base {
	return b
}

func (b Base) display() Display {
	return Display{
		"fields":      b.Fields,
		"type":        b.Type,
		"count":       b.Count,
		"nil_percent": b.NilPercent,
		"has_nils":    b.HasNils,
	}
}

func (b Base) features() Features {
	return Features{
		"count":       b.Count,
		"nil_percent": b.NilPercent,
	}
}

// Table is a two column dataset of bucket value and share of the total.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func newTable(name string) Table {
	return Table{Columns: []string{name, "share"}, Rows: [][]any{}}
}

func (t *Table) add(value any, share stats.Float) {
	t.Rows = append(t.Rows, []any{value, share})
}

// sharePlaces is the number of significant places shares are rendered with.
const sharePlaces = 4

func share(count, total float64) stats.Float {
	s := stats.SafeDivide(stats.Some(count), stats.Some(total))
	if s.Valid {
		s.Value = stats.RoundTo(s.Value, sharePlaces)
	}
	return s
}

// binTable renders the niceified bins of a numeric sketch. label converts a
// bin start into its presentation value.
func binTable(name string, h sketch.Numeric, label func(float64) any) Table {
	table := newTable(name)
	_, bins, ok := binning.Histogram(h)
	if !ok {
		return table
	}
	total := float64(h.TotalCount())
	for _, bin := range bins {
		table.add(label(bin.Start), share(bin.Count, total))
	}
	return table
}

// bucketTable renders categorical buckets in their histogram order.
func bucketTable(name string, h sketch.Categorical) Table {
	table := newTable(name)
	total := float64(h.TotalCount())
	for _, bucket := range h.Buckets() {
		table.add(bucket.Value, share(float64(bucket.Count), total))
	}
	return table
}

// cyclicTable renders integer buckets ordered by key, normalized by the sum
// of their values.
func cyclicTable(name string, values map[int]float64) Table {
	keys := make([]int, 0, len(values))
	total := 0.0
	for k, v := range values {
		keys = append(keys, k)
		total += v
	}
	sort.Ints(keys)

	table := newTable(name)
	for _, k := range keys {
		table.add(k, share(values[k], total))
	}
	return table
}

// bucketEntropy is the entropy of a categorical histogram's non-nil buckets.
func bucketEntropy(h sketch.Categorical) stats.Float {
	buckets := h.Buckets()
	counts := make([]float64, len(buckets))
	for i, b := range buckets {
		counts[i] = float64(b.Count)
	}
	return stats.Some(stats.Entropy(counts))
}

// binEntropy is the entropy of a numeric sketch over its niceified bins.
func binEntropy(h sketch.Numeric) stats.Float {
	_, bins, ok := binning.Histogram(h)
	if !ok {
		return stats.Missing
	}
	counts := make([]float64, len(bins))
	for i, b := range bins {
		counts[i] = b.Count
	}
	return stats.Some(stats.Entropy(counts))
}

func ToDisplay(fp Fingerprint) Display {
	return fp.display()
}

func ToComparisonVector(fp Fingerprint) Features {
	return fp.features()
}

func MarshalDisplay(fp Fingerprint) ([]byte, error) {
	return jsonAPI.Marshal(ToDisplay(fp))
}

func MarshalComparisonVector(fp Fingerprint) ([]byte, error) {
	return jsonAPI.Marshal(ToComparisonVector(fp))
}
