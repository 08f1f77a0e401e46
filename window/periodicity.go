package window

import (
	"math"
	"time"
)

// Quarter is the quarter of the year of t, 1 to 4.
func Quarter(t time.Time) int {
	return (int(t.Month()) + 2) / 3
}

// MonthFrequencies counts how often each month of the year (1 to 12) occurs
// among the calendar months spanned by [earliest, latest], both ends
// included.
func MonthFrequencies(earliest, latest time.Time) map[int]int {
	freqs := make(map[int]int, 12)
	if latest.Before(earliest) {
		return freqs
	}
	start := Month.Truncate(earliest)
	end := Month.Truncate(latest)
	for t := start; !t.After(end); t = Month.Next(t) {
		freqs[int(t.Month())]++
	}
	return freqs
}

// QuarterFrequencies is MonthFrequencies for quarters of the year.
func QuarterFrequencies(earliest, latest time.Time) map[int]int {
	freqs := make(map[int]int, 4)
	if latest.Before(earliest) {
		return freqs
	}
	startYear, startQuarter := earliest.Year(), Quarter(earliest)
	endYear, endQuarter := latest.Year(), Quarter(latest)
	for y, q := startYear, startQuarter; y < endYear || (y == endYear && q <= endQuarter); {
		freqs[q]++
		if q++; q > 4 {
			q = 1
			y++
		}
	}
	return freqs
}

// Reweigh rescales cyclical bucket values by baseline / expected[bucket],
// where baseline is the smallest expected count. Buckets covered by more
// calendar cycles than others are scaled down to the same footing. Buckets
// absent from expected are treated as expected once.
func Reweigh(values map[int]float64, expected map[int]int) map[int]float64 {
	baseline := math.MaxInt
	for _, count := range expected {
		baseline = min(baseline, count)
	}

	weighted := make(map[int]float64, len(values))
	for bucket, v := range values {
		if len(expected) == 0 {
			weighted[bucket] = v
			continue
		}
		count, ok := expected[bucket]
		if !ok || count == 0 {
			count = 1
		}
		weighted[bucket] = v * float64(baseline) / float64(count)
	}
	return weighted
}
