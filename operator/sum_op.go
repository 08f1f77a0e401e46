package operator

import "xray/stats"

// SumOp adds up f(x) for every x. Kahan summation keeps long streams of
// small values accurate.
type SumOp struct {
	f func(float64) float64
}

func NewSumOp() *SumOp {
	return &SumOp{f: func(x float64) float64 { return x }}
}

func NewSumOfSquaresOp() *SumOp {
	return &SumOp{f: func(x float64) float64 { return x * x }}
}

func (op *SumOp) Init() Accumulator[float64, float64] {
	return &sumAccumulator{f: op.f}
}

type sumAccumulator struct {
	f            func(float64) float64
	sum          float64
	compensation float64
}

func (acc *sumAccumulator) Step(x float64) error {
	y := acc.f(x) - acc.compensation
	t := acc.sum + y
	acc.compensation = (t - acc.sum) - y
	acc.sum = t
	return nil
}

func (acc *sumAccumulator) Complete() float64 {
	return acc.sum
}

// NewMomentsOp tracks mean, variance, skewness and kurtosis.
func NewMomentsOp() Op[float64, *stats.Welford] {
	return Funcs[float64, *stats.Welford, *stats.Welford]{
		InitFn: stats.NewWelford,
		StepFn: func(w *stats.Welford, x float64) (*stats.Welford, error) {
			w.Update(x)
			return w, nil
		},
		CompleteFn: func(w *stats.Welford) *stats.Welford { return w },
	}
}

// Point is a paired observation.
type Point struct {
	X, Y float64
}

// NewComomentsOp tracks covariance, correlation and regression of points.
func NewComomentsOp() Op[Point, *stats.Comoments] {
	return Funcs[Point, *stats.Comoments, *stats.Comoments]{
		InitFn: stats.NewComoments,
		StepFn: func(c *stats.Comoments, p Point) (*stats.Comoments, error) {
			c.Update(p.X, p.Y)
			return c, nil
		},
		CompleteFn: func(c *stats.Comoments) *stats.Comoments { return c },
	}
}
