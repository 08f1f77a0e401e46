package sketch

import (
	"math"

	"github.com/influxdata/tdigest"
	"xray/stats"
)

// NumericHistogram approximates the distribution of a numeric stream with a
// t-digest. Count, extrema and moments are tracked exactly alongside.
type NumericHistogram struct {
	digest  *tdigest.TDigest
	moments *stats.Welford
	min     float64
	max     float64
	nils    int64
}

func NewNumericHistogram() *NumericHistogram {
	return &NumericHistogram{
		digest:  tdigest.NewWithCompression(Compression),
		moments: stats.NewWelford(),
		min:     math.Inf(1),
		max:     math.Inf(-1),
		nils:    0,
	}
}

// Insert adds a value; nil counts towards NilCount only.
func (h *NumericHistogram) Insert(value any) error {
	if value == nil {
		h.nils++
		return nil
	}
	f, err := ToFloat(value)
	if err != nil {
		return err
	}
	h.InsertFloat(f)
	return nil
}

func (h *NumericHistogram) InsertFloat(f float64) {
	h.digest.Add(f, 1)
	h.moments.Update(f)
	h.min = math.Min(h.min, f)
	h.max = math.Max(h.max, f)
}

func (h *NumericHistogram) InsertNil() {
	h.nils++
}

func (h *NumericHistogram) TotalCount() int64 {
	return h.nonNilCount() + h.nils
}

func (h *NumericHistogram) NilCount() int64 {
	return h.nils
}

func (h *NumericHistogram) nonNilCount() int64 {
	return int64(h.moments.Count())
}

func (h *NumericHistogram) empty() bool {
	return h.moments.Count() == 0
}

func (h *NumericHistogram) Min() stats.Float {
	if h.empty() {
		return stats.Missing
	}
	return stats.Some(h.min)
}

func (h *NumericHistogram) Max() stats.Float {
	if h.empty() {
		return stats.Missing
	}
	return stats.Some(h.max)
}

func (h *NumericHistogram) Mean() stats.Float {
	if h.empty() {
		return stats.Missing
	}
	return stats.Some(h.moments.GetMean())
}

func (h *NumericHistogram) Median() stats.Float {
	return h.quantile(0.5)
}

// Variance is the population variance.
func (h *NumericHistogram) Variance() stats.Float {
	if h.empty() {
		return stats.Missing
	}
	return stats.Some(h.moments.GetVariance())
}

func (h *NumericHistogram) quantile(p float64) stats.Float {
	if h.empty() {
		return stats.Missing
	}
	switch {
	case p <= 0:
		return stats.Some(h.min)
	case p >= 1:
		return stats.Some(h.max)
	}
	q := h.digest.Quantile(p)
	return stats.Some(math.Max(h.min, math.Min(h.max, q)))
}

func (h *NumericHistogram) Percentiles(ps []float64) []Percentile {
	percentiles := make([]Percentile, len(ps))
	for i, p := range ps {
		percentiles[i] = Percentile{P: p, Value: h.quantile(p)}
	}
	return percentiles
}

// CDF is the share of non-nil values <= x.
func (h *NumericHistogram) CDF(x float64) stats.Float {
	if h.empty() {
		return stats.Missing
	}
	switch {
	case x < h.min:
		return stats.Some(0)
	case x >= h.max:
		return stats.Some(1)
	}
	return stats.Some(h.digest.CDF(x))
}

// CumulativeSumAt is the (approximate) number of non-nil values <= x.
func (h *NumericHistogram) CumulativeSumAt(x float64) float64 {
	return h.CDF(x).Or(0) * float64(h.nonNilCount())
}
