package operator

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xray/utils"
)

func TestFuncs_Reduce(t *testing.T) {
	product := Funcs[int, int, int]{
		InitFn:     func() int { return 1 },
		StepFn:     func(acc, x int) (int, error) { return acc * x, nil },
		CompleteFn: func(acc int) int { return acc },
	}

	got, err := ReduceSlice[int, int](product, []int{1, 2, 3, 4})
	require.NoError(t, err)
	utils.AssertEqual(t, got, 24)

	// Every Init starts an independent pass.
	got, err = ReduceSlice[int, int](product, []int{5})
	require.NoError(t, err)
	utils.AssertEqual(t, got, 5)
}

func TestOpSet_FanOut(t *testing.T) {
	set := NewOpSet[float64]().
		Add("count", Erase[float64, int64](NewCountOp[float64]())).
		Add("sum", Erase[float64, float64](NewSumOp())).
		Add("sum-of-squares", Erase[float64, float64](NewSumOfSquaresOp())).
		Add("positive", Erase[float64, int64](NewCountIfOp(func(x float64) bool { return x > 0 })))

	assert.Equal(t, []string{"count", "positive", "sum", "sum-of-squares"}, set.Names())

	rec, err := ReduceSlice[float64, Record](set, []float64{-1, 2, 3})
	require.NoError(t, err)
	utils.AssertEqual(t, Get[int64](rec, "count"), int64(3))
	utils.AssertEqual(t, Get[int64](rec, "positive"), int64(2))
	utils.AssertEqual(t, Get[float64](rec, "sum"), 4.0)
	utils.AssertEqual(t, Get[float64](rec, "sum-of-squares"), 14.0)
	assert.True(t, rec.Has("sum"))
	assert.False(t, rec.Has("missing"))
	utils.AssertEqual(t, Get[string](rec, "sum"), "")
}

func TestMapInputAndOutput(t *testing.T) {
	parse := func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	op := MapOutput(func(sum float64) string {
		return strconv.FormatFloat(sum, 'f', 1, 64)
	}, MapInput[string, float64, float64](parse, NewSumOp()))

	got, err := ReduceSlice[string, string](op, []string{"1.5", "2", "0.5"})
	require.NoError(t, err)
	utils.AssertEqual(t, got, "4.0")

	_, err = ReduceSlice[string, string](op, []string{"1", "x"})
	assert.Error(t, err)
}

func TestOpSet_StepErrorFailsPass(t *testing.T) {
	boom := errors.New("boom")
	failing := Funcs[int, int, int]{
		InitFn: func() int { return 0 },
		StepFn: func(acc, x int) (int, error) {
			if x < 0 {
				return acc, boom
			}
			return acc + x, nil
		},
		CompleteFn: func(acc int) int { return acc },
	}
	set := NewOpSet[int]().Add("checked", Erase[int, int](failing))

	_, err := ReduceSlice[int, Record](set, []int{1, -1, 2})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "checked")
}

func TestFilter(t *testing.T) {
	op := Filter(func(x float64) bool { return x > 1 }, Op[float64, float64](NewSumOp()))
	got, err := ReduceSlice(op, []float64{1, 2, 3})
	require.NoError(t, err)
	utils.AssertEqual(t, got, 5.0)
}

func TestMomentsAndComoments(t *testing.T) {
	w, err := ReduceSlice(NewMomentsOp(), []float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	utils.AssertClose(t, w.GetMean(), 5.0, 1e-12)
	utils.AssertClose(t, w.GetVariance(), 4.0, 1e-12)

	c, err := ReduceSlice(NewComomentsOp(), []Point{{1, 2}, {2, 4}, {3, 6}})
	require.NoError(t, err)
	utils.AssertClose(t, c.Regression().Slope.Value, 2, 1e-12)
	utils.AssertClose(t, c.Correlation().Value, 1, 1e-12)
}

type bag struct {
	items []string
}

func (b *bag) Insert(s string) error {
	if s == "" {
		return errors.New("empty")
	}
	b.items = append(b.items, s)
	return nil
}

func TestInto(t *testing.T) {
	op := Into[string](func() *bag { return &bag{} })
	b, err := ReduceSlice[string, *bag](op, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, b.items)

	_, err = ReduceSlice[string, *bag](op, []string{"a", ""})
	assert.Error(t, err)
}

func TestLastByKey(t *testing.T) {
	type obs struct {
		day   int
		value float64
	}
	op := NewLastByKeyOp(func(o obs) (int, float64, bool) {
		return o.day, o.value, o.day >= 0
	})

	entries, err := ReduceSlice[obs, []Entry[int, float64]](op, []obs{{3, 1}, {1, 2}, {3, 5}, {-1, 9}, {2, 4}})
	require.NoError(t, err)
	assert.Equal(t, []Entry[int, float64]{{1, 2}, {2, 4}, {3, 5}}, entries)
}
