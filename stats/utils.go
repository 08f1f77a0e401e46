package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a statistic that may be absent. Absent values are never zero:
// a ratio over an empty or degenerate denominator is Missing, not 0.
type Float struct {
	Value float64
	Valid bool
}

var Missing = Float{}

func Some(value float64) Float {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Missing
	}
	return Float{Value: value, Valid: true}
}

func (f Float) Get() (float64, bool) {
	return f.Value, f.Valid
}

// Or returns the value, or fallback when it is missing.
func (f Float) Or(fallback float64) float64 {
	if !f.Valid {
		return fallback
	}
	return f.Value
}

func (f Float) String() string {
	if !f.Valid {
		return "missing"
	}
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Float) UnmarshalJSON(buf []byte) error {
	if string(buf) == "null" {
		*f = Missing
		return nil
	}
	var value float64
	if err := json.Unmarshal(buf, &value); err != nil {
		return err
	}
	*f = Some(value)
	return nil
}

// SafeDivide divides numerator by each denominator in turn. The result is
// missing when any operand is missing or any denominator is zero.
func SafeDivide(numerator, denominator Float, more ...Float) Float {
	if !numerator.Valid {
		return Missing
	}
	result := numerator.Value
	for _, d := range append([]Float{denominator}, more...) {
		if !d.Valid || d.Value == 0 {
			return Missing
		}
		result /= d.Value
	}
	return Some(result)
}

// Growth is the relative change from x1 to x2, multiplied by the sign of x1
// so that an increase is positive growth for negative baselines as well:
// Growth(-90, -100) == 0.1.
func Growth(x2, x1 Float) Float {
	if !x1.Valid || !x2.Valid {
		return Missing
	}
	sign := 1.0
	if x1.Value < 0 {
		sign = -1
	}
	return SafeDivide(Some(sign*(x2.Value-x1.Value)), x1)
}

// OrderOfMagnitude is floor(log10(|x|)), with 0 for x == 0.
func OrderOfMagnitude(x float64) int {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(math.Log10(math.Abs(x))))
}

// RoundTo rounds x to the given number of significant power-of-ten places,
// e.g. RoundTo(1234, 2) == 1200 and RoundTo(0.01234, 2) == 0.012.
func RoundTo(x float64, places int) float64 {
	if x == 0 || places <= 0 {
		return x
	}
	scale := math.Pow(10, float64(places-1-OrderOfMagnitude(x)))
	return math.Round(x*scale) / scale
}
