package sketch

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xray/utils"
)

func TestNumericHistogram(t *testing.T) {
	h := NewNumericHistogram()
	for _, v := range []any{1, 2.0, int64(3), "4", decimal.NewFromInt(5), nil} {
		require.NoError(t, h.Insert(v))
	}

	utils.AssertEqual(t, h.TotalCount(), int64(6))
	utils.AssertEqual(t, h.NilCount(), int64(1))
	utils.AssertEqual(t, h.Min().Value, 1.0)
	utils.AssertEqual(t, h.Max().Value, 5.0)
	utils.AssertEqual(t, h.Mean().Value, 3.0)
	utils.AssertClose(t, h.Variance().Value, 2.0, 1e-12)
	utils.AssertClose(t, h.Median().Value, 3.0, 0.5)

	utils.AssertEqual(t, h.CumulativeSumAt(0), 0.0)
	utils.AssertEqual(t, h.CumulativeSumAt(5), 5.0)
	utils.AssertEqual(t, h.CumulativeSumAt(100), 5.0)
	mid := h.CumulativeSumAt(3)
	assert.True(t, mid > 1 && mid < 4)

	ps := h.Percentiles([]float64{0, 0.5, 1})
	require.Len(t, ps, 3)
	utils.AssertEqual(t, ps[0].Value.Value, 1.0)
	utils.AssertEqual(t, ps[2].Value.Value, 5.0)
}

func TestNumericHistogram_Empty(t *testing.T) {
	h := NewNumericHistogram()
	require.NoError(t, h.Insert(nil))

	utils.AssertEqual(t, h.TotalCount(), int64(1))
	assert.False(t, h.Min().Valid)
	assert.False(t, h.Mean().Valid)
	assert.False(t, h.CDF(1).Valid)
	utils.AssertEqual(t, h.CumulativeSumAt(1), 0.0)
}

func TestNumericHistogram_RejectsNonNumeric(t *testing.T) {
	h := NewNumericHistogram()
	assert.ErrorIs(t, h.Insert("abc"), ErrNotNumeric)
	assert.ErrorIs(t, h.Insert(math.NaN()), ErrNotNumeric)
	assert.ErrorIs(t, h.Insert(struct{}{}), ErrNotNumeric)
	utils.AssertEqual(t, h.TotalCount(), int64(0))
}

func TestToFloat(t *testing.T) {
	tests := map[string]struct {
		in   any
		want float64
	}{
		"int":         {7, 7},
		"uint8":       {uint8(3), 3},
		"float32":     {float32(0.5), 0.5},
		"json number": {json.Number("1.25"), 1.25},
		"string":      {" 12.5 ", 12.5},
		"decimal":     {decimal.RequireFromString("3.75"), 3.75},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ToFloat(test.in)
			require.NoError(t, err)
			utils.AssertEqual(t, got, test.want)
		})
	}
}

func TestCategoricalHistogram(t *testing.T) {
	h := NewCategoricalHistogram()
	for _, v := range []any{"b", "a", "b", nil, "c", "b", "a"} {
		require.NoError(t, h.Insert(v))
	}

	utils.AssertEqual(t, h.TotalCount(), int64(7))
	utils.AssertEqual(t, h.NilCount(), int64(1))
	utils.AssertEqual(t, h.Count("b"), int64(3))
	utils.AssertEqual(t, h.Count("zzz"), int64(0))
	assert.Equal(t, []Bucket{{"b", 3}, {"a", 2}, {"c", 1}}, h.Buckets())

	other := NewCategoricalHistogram()
	require.NoError(t, other.Insert("c"))
	require.NoError(t, other.Insert("d"))
	h.Merge(other)
	utils.AssertEqual(t, h.TotalCount(), int64(9))
	utils.AssertEqual(t, h.Count("c"), int64(2))
	utils.AssertEqual(t, h.Count("d"), int64(1))
}

func TestHLL_ErrorBound(t *testing.T) {
	for _, n := range []int{100, 1000, 5000} {
		h := NewHLL(ErrorRate)
		for i := 0; i < n; i++ {
			require.NoError(t, h.Insert(fmt.Sprintf("value-%d", i)))
			// duplicates must not count
			require.NoError(t, h.Insert(fmt.Sprintf("value-%d", i/2)))
		}
		require.NoError(t, h.Insert(nil))

		estimate := float64(h.Estimate())
		assert.LessOrEqual(t, math.Abs(estimate-float64(n)), 2*ErrorRate*float64(n), "n=%d", n)
	}
}

func TestHLL_Merge(t *testing.T) {
	a := NewHLL(ErrorRate)
	b := NewHLL(ErrorRate)
	for i := 0; i < 500; i++ {
		require.NoError(t, a.Insert(i))
		require.NoError(t, b.Insert(i+250))
	}
	require.NoError(t, a.Merge(b))
	assert.InDelta(t, 750, float64(a.Estimate()), 2*ErrorRate*750)
}
