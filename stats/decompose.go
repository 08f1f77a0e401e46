package stats

import (
	"errors"
	"fmt"
)

var ErrShortSeries = errors.New("series shorter than two periods")

// Decomposition splits a series into trend + seasonal + remainder.
type Decomposition struct {
	Trend     []float64 `json:"trend"`
	Seasonal  []float64 `json:"seasonal"`
	Remainder []float64 `json:"remainder"`
}

// Decomposer is a seasonal-trend decomposition routine.
type Decomposer interface {
	Decompose(period int, series []float64) (*Decomposition, error)
}

// ClassicalDecomposer is the additive moving-average decomposition. The trend
// is a centred moving average over one period; positions within half a
// period of either end take the nearest defined trend value.
type ClassicalDecomposer struct{}

func (ClassicalDecomposer) Decompose(period int, series []float64) (*Decomposition, error) {
	n := len(series)
	if period < 2 {
		return nil, fmt.Errorf("decompose: period %d too small", period)
	}
	if n < 2*period {
		return nil, fmt.Errorf("decompose: %d points for period %d: %w", n, period, ErrShortSeries)
	}

	trend, first, last := centredMovingAverage(series, period)

	// Seasonal indices only use positions with a fully defined trend.
	sums := make([]float64, period)
	counts := make([]int, period)
	for i := first; i <= last; i++ {
		sums[i%period] += series[i] - trend[i]
		counts[i%period]++
	}
	seasonIndex := make([]float64, period)
	mean := 0.0
	for i := range seasonIndex {
		seasonIndex[i] = sums[i] / float64(counts[i])
		mean += seasonIndex[i]
	}
	mean /= float64(period)

	seasonal := make([]float64, n)
	remainder := make([]float64, n)
	for i, v := range series {
		seasonal[i] = seasonIndex[i%period] - mean
		remainder[i] = v - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:     trend,
		Seasonal:  seasonal,
		Remainder: remainder,
	}, nil
}

func centredMovingAverage(series []float64, period int) ([]float64, int, int) {
	n := len(series)
	half := period / 2
	trend := make([]float64, n)
	first, last := half, n-1-half

	for i := first; i <= last; i++ {
		sum := 0.0
		if period%2 == 1 {
			for j := i - half; j <= i+half; j++ {
				sum += series[j]
			}
			trend[i] = sum / float64(period)
			continue
		}
		// 2 x period moving average: half weight on both ends.
		sum += 0.5 * series[i-half]
		sum += 0.5 * series[i+half]
		for j := i - half + 1; j < i+half; j++ {
			sum += series[j]
		}
		trend[i] = sum / float64(period)
	}

	for i := 0; i < first; i++ {
		trend[i] = trend[first]
	}
	for i := last + 1; i < n; i++ {
		trend[i] = trend[last]
	}
	return trend, first, last
}
