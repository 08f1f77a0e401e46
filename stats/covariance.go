package stats

import "math"

// Comoments tracks paired (x, y) observations for covariance, Pearson
// correlation and ordinary least squares regression in one pass.
type Comoments struct {
	count uint64
	meanX float64
	meanY float64
	m2x   float64
	m2y   float64
	cxy   float64
}

func NewComoments() *Comoments {
	return &Comoments{}
}

func (c *Comoments) Update(x, y float64) {
	c.count++
	n := float64(c.count)
	dx := x - c.meanX
	dy := y - c.meanY
	c.meanX += dx / n
	c.meanY += dy / n
	c.m2x += dx * (x - c.meanX)
	c.m2y += dy * (y - c.meanY)
	c.cxy += dx * (y - c.meanY)
}

func (c *Comoments) Merge(other *Comoments) {
	if other.count == 0 {
		return
	}
	if c.count == 0 {
		*c = *other
		return
	}
	na := float64(c.count)
	nb := float64(other.count)
	n := na + nb
	dx := other.meanX - c.meanX
	dy := other.meanY - c.meanY

	c.m2x += other.m2x + dx*dx*na*nb/n
	c.m2y += other.m2y + dy*dy*na*nb/n
	c.cxy += other.cxy + dx*dy*na*nb/n
	c.meanX += dx * nb / n
	c.meanY += dy * nb / n
	c.count += other.count
}

func (c *Comoments) Count() uint64 {
	return c.count
}

// Covariance is the sample covariance.
func (c *Comoments) Covariance() Float {
	if c.count < 2 {
		return Missing
	}
	return Some(c.cxy / float64(c.count-1))
}

func (c *Comoments) Correlation() Float {
	return SafeDivide(Some(c.cxy), Some(math.Sqrt(c.m2x*c.m2y)))
}

// Regression is the least squares fit y = Slope*x + Intercept.
type Regression struct {
	Slope     Float `json:"slope"`
	Intercept Float `json:"intercept"`
}

func (c *Comoments) Regression() Regression {
	slope := SafeDivide(Some(c.cxy), Some(c.m2x))
	if !slope.Valid {
		return Regression{Slope: Missing, Intercept: Missing}
	}
	return Regression{
		Slope:     slope,
		Intercept: Some(c.meanY - slope.Value*c.meanX),
	}
}
