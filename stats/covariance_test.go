package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"xray/utils"
)

func TestComoments_Linear(t *testing.T) {
	c := NewComoments()
	for i := 0; i < 10; i++ {
		x := float64(i)
		c.Update(x, 3*x+2)
	}

	reg := c.Regression()
	utils.AssertClose(t, reg.Slope.Value, 3, 1e-9)
	utils.AssertClose(t, reg.Intercept.Value, 2, 1e-9)
	utils.AssertClose(t, c.Correlation().Value, 1, 1e-9)
	// var(x) = 55/6 for 0..9, cov = 3 * var(x)
	utils.AssertClose(t, c.Covariance().Value, 27.5, 1e-9)
}

func TestComoments_Degenerate(t *testing.T) {
	c := NewComoments()
	assert.False(t, c.Covariance().Valid)
	assert.False(t, c.Correlation().Valid)

	c.Update(1, 1)
	c.Update(1, 5)
	assert.False(t, c.Regression().Slope.Valid)
	assert.False(t, c.Correlation().Valid)
}

func TestComoments_Merge(t *testing.T) {
	whole := NewComoments()
	left := NewComoments()
	right := NewComoments()
	for i := 0; i < 30; i++ {
		x := float64(i)
		y := float64(i*7%11) - x/2
		whole.Update(x, y)
		if i%3 == 0 {
			left.Update(x, y)
		} else {
			right.Update(x, y)
		}
	}
	left.Merge(right)

	utils.AssertClose(t, left.Covariance().Value, whole.Covariance().Value, 1e-9)
	utils.AssertClose(t, left.Correlation().Value, whole.Correlation().Value, 1e-9)
	utils.AssertClose(t, left.Regression().Slope.Value, whole.Regression().Slope.Value, 1e-9)
}

func TestEntropy(t *testing.T) {
	utils.AssertEqual(t, Entropy(nil), 0.0)
	utils.AssertEqual(t, Entropy([]float64{5}), 0.0)
	utils.AssertClose(t, Entropy([]float64{1, 1}), 1, 1e-12)
	utils.AssertClose(t, Entropy([]float64{2, 2, 2, 2, 0}), 2, 1e-12)
}
