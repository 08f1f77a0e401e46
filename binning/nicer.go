// Package binning turns raw histogram bin widths into round, human-friendly
// boundaries and extracts equal-width bins from a numeric sketch.
package binning

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"xray/stats"
)

// Strategy selects how BinWidth is chosen. ByWidth holds the given width;
// ByCount derives a pleasing width from NumBins. Either way NumBins is then
// recomputed so the bins cover the snapped bounds.
type Strategy int

const (
	ByWidth Strategy = iota
	ByCount
)

func (s Strategy) String() string {
	if s == ByCount {
		return "num-bins"
	}
	return "bin-width"
}

// MaxSteps caps Niceify when consecutive refinements keep disagreeing.
const MaxSteps = 10

// PleasingNumbers are the allowed bin widths, up to a power of ten.
var PleasingNumbers = []float64{1, 1.25, 2, 2.5, 3, 5, 7.5, 10}

var ErrInvalidRange = errors.New("invalid binned range")

type BinnedRange struct {
	MinValue float64  `json:"min_value"`
	MaxValue float64  `json:"max_value"`
	BinWidth float64  `json:"bin_width"`
	NumBins  int      `json:"num_bins"`
	Strategy Strategy `json:"-"`
}

// RawBinWidth is (max - min) / numBins rounded to 5 decimal places.
func RawBinWidth(min, max float64, numBins int) float64 {
	width := decimal.NewFromFloat(max - min).Div(decimal.NewFromInt(int64(numBins))).Round(5)
	f, _ := width.Float64()
	return f
}

// NumBins is the number of width-wide bins needed to cover [lo, hi], and
// at least one.
func NumBins(lo, hi, width float64) int {
	span := decimal.NewFromFloat(hi).Sub(decimal.NewFromFloat(lo))
	n := span.Div(decimal.NewFromFloat(width)).Ceil().IntPart()
	return max(1, int(n))
}

// NicerBinWidth is the smallest pleasing width at least as wide as the raw
// width of numBins bins over [min, max].
func NicerBinWidth(min, max float64, numBins int) float64 {
	raw := RawBinWidth(min, max, numBins)
	scale := decimal.New(1, int32(stats.OrderOfMagnitude(raw)))
	for _, p := range PleasingNumbers {
		candidate, _ := decimal.NewFromFloat(p).Mul(scale).Float64()
		if candidate >= raw {
			return candidate
		}
	}
	// unreachable: raw < 10 * scale
	f, _ := scale.Mul(decimal.NewFromInt(10)).Float64()
	return f
}

// NicerBounds snaps min down and max up to multiples of width.
func NicerBounds(min, max, width float64) (float64, float64) {
	w := decimal.NewFromFloat(width)
	lo, _ := decimal.NewFromFloat(min).Div(w).Floor().Mul(w).Float64()
	hi, _ := decimal.NewFromFloat(max).Div(w).Ceil().Mul(w).Float64()
	return lo, hi
}

func refine(r BinnedRange) BinnedRange {
	width := r.BinWidth
	if r.Strategy == ByCount {
		width = NicerBinWidth(r.MinValue, r.MaxValue, r.NumBins)
	}
	lo, hi := NicerBounds(r.MinValue, r.MaxValue, width)
	return BinnedRange{
		MinValue: lo,
		MaxValue: hi,
		BinWidth: width,
		NumBins:  NumBins(lo, hi, width),
		Strategy: r.Strategy,
	}
}

// Niceify refines r until two consecutive refinements agree, or MaxSteps
// refinements have been made, in which case the last one is returned.
func Niceify(r BinnedRange) (BinnedRange, error) {
	if !isFinite(r.MinValue) || !isFinite(r.MaxValue) || r.MaxValue < r.MinValue {
		return r, ErrInvalidRange
	}
	switch r.Strategy {
	case ByCount:
		if r.NumBins < 1 {
			return r, ErrInvalidRange
		}
	case ByWidth:
		if !(r.BinWidth > 0) {
			return r, ErrInvalidRange
		}
	default:
		return r, ErrInvalidRange
	}

	current := refine(r)
	for step := 1; step < MaxSteps; step++ {
		next := refine(current)
		if next == current {
			return current, nil
		}
		current = next
	}
	return current, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
