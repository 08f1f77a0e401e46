package binning

import (
	"math"

	"github.com/shopspring/decimal"
	"xray/sketch"
)

// Bin is the count of values in [Start, Start + width).
type Bin struct {
	Start float64 `json:"start"`
	Count float64 `json:"count"`
}

// MaxBins bounds SturgesBins for very long streams.
const MaxBins = 100

// SturgesBins is ceil(log2(n)) + 1, at least 1 and at most MaxBins.
func SturgesBins(n int64) int {
	if n < 2 {
		return 1
	}
	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	return min(bins, MaxBins)
}

// EquidistantBins reads r.NumBins bins of width r.BinWidth starting at
// r.MinValue off a numeric sketch. The first bin also holds values equal to
// its lower bound.
func EquidistantBins(h sketch.Numeric, r BinnedRange) []Bin {
	if r.NumBins < 1 {
		return nil
	}
	lo := decimal.NewFromFloat(r.MinValue)
	width := decimal.NewFromFloat(r.BinWidth)

	points := make([]float64, r.NumBins+1)
	for i := range points {
		points[i], _ = lo.Add(width.Mul(decimal.NewFromInt(int64(i)))).Float64()
	}

	bins := make([]Bin, r.NumBins)
	previous := 0.0
	for i := 0; i < r.NumBins; i++ {
		cumulative := h.CumulativeSumAt(points[i+1])
		bins[i] = Bin{Start: points[i], Count: math.Max(0, cumulative-previous)}
		previous = math.Max(previous, cumulative)
	}
	return bins
}

// Histogram bins a numeric sketch with a niceified Sturges bin count. ok is
// false when the sketch holds no values.
func Histogram(h sketch.Numeric) (BinnedRange, []Bin, bool) {
	minValue, okMin := h.Min().Get()
	maxValue, okMax := h.Max().Get()
	if !okMin || !okMax {
		return BinnedRange{}, nil, false
	}
	r, err := Niceify(BinnedRange{
		MinValue: minValue,
		MaxValue: maxValue,
		NumBins:  SturgesBins(h.TotalCount() - h.NilCount()),
		Strategy: ByCount,
	})
	if err != nil {
		return BinnedRange{}, nil, false
	}
	return r, EquidistantBins(h, r), true
}
