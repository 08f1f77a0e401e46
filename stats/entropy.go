package stats

import "math"

// Entropy is the Shannon entropy, in bits, of the distribution given by
// counts. Non-positive counts are ignored.
func Entropy(counts []float64) float64 {
	total := 0.0
	for _, c := range counts {
		if c > 0 {
			total += c
		}
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, c := range counts {
		if c > 0 {
			p := c / total
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
