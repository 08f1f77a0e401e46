package stats

import "math"

// Welford tracks the first four central moments of a stream in one pass.
// Terriberry's extension of Welford's update keeps skewness and kurtosis
// numerically stable without a second pass.
type Welford struct {
	count uint64
	mean  float64
	m2    float64
	m3    float64
	m4    float64
}

func NewWelford() *Welford {
	return &Welford{
		count: 0,
		mean:  0,
		m2:    0,
		m3:    0,
		m4:    0,
	}
}

func (welford *Welford) Update(value float64) {
	n1 := float64(welford.count)
	welford.count++
	n := float64(welford.count)

	delta := value - welford.mean
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * n1

	welford.mean += deltaN
	welford.m4 += term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*welford.m2 - 4*deltaN*welford.m3
	welford.m3 += term1*deltaN*(n-2) - 3*deltaN*welford.m2
	welford.m2 += term1
}

// Merge folds other into welford. The result is the same as if every value
// of other had been passed to Update.
func (welford *Welford) Merge(other *Welford) {
	if other.count == 0 {
		return
	}
	if welford.count == 0 {
		*welford = *other
		return
	}

	na := float64(welford.count)
	nb := float64(other.count)
	n := na + nb
	delta := other.mean - welford.mean
	delta2 := delta * delta
	delta3 := delta2 * delta
	delta4 := delta2 * delta2

	m2 := welford.m2 + other.m2 + delta2*na*nb/n
	m3 := welford.m3 + other.m3 +
		delta3*na*nb*(na-nb)/(n*n) +
		3*delta*(na*other.m2-nb*welford.m2)/n
	m4 := welford.m4 + other.m4 +
		delta4*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6*delta2*(na*na*other.m2+nb*nb*welford.m2)/(n*n) +
		4*delta*(na*other.m3-nb*welford.m3)/n

	welford.mean = (na*welford.mean + nb*other.mean) / n
	welford.m2 = m2
	welford.m3 = m3
	welford.m4 = m4
	welford.count += other.count
}

func (welford *Welford) Count() uint64 {
	return welford.count
}

func (welford *Welford) GetMean() float64 {
	return welford.mean
}

func (welford *Welford) GetVariance() float64 {
	if welford.count < 2 {
		return 0
	}
	return welford.m2 / float64(welford.count)
}

// GetSkewness is the population skewness; missing for fewer than two values
// or a constant stream.
func (welford *Welford) GetSkewness() Float {
	if welford.count < 2 || welford.m2 == 0 {
		return Missing
	}
	n := float64(welford.count)
	return Some(math.Sqrt(n) * welford.m3 / math.Pow(welford.m2, 1.5))
}

// GetKurtosis is the excess kurtosis (0 for a normal distribution).
func (welford *Welford) GetKurtosis() Float {
	if welford.count < 2 || welford.m2 == 0 {
		return Missing
	}
	n := float64(welford.count)
	return Some(n*welford.m4/(welford.m2*welford.m2) - 3)
}
