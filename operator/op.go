// Package operator composes single-pass streaming aggregations.
//
// An Op describes an aggregation and starts independent passes with Init.
// Each pass owns an Accumulator: items go in through Step, the result comes
// out of Complete. Accumulators are not safe for concurrent use; run one
// accumulator per goroutine and combine results afterwards.
package operator

import (
	"iter"
	"slices"
)

type Op[T, R any] interface {
	Init() Accumulator[T, R]
}

type Accumulator[T, R any] interface {
	// Step observes one item. An error fails the whole pass.
	Step(item T) error
	// Complete finalizes the pass. Step must not be called afterwards.
	Complete() R
}

// Funcs is an Op given as init/step/complete functions over explicit state.
type Funcs[T, S, R any] struct {
	InitFn     func() S
	StepFn     func(S, T) (S, error)
	CompleteFn func(S) R
}

func (f Funcs[T, S, R]) Init() Accumulator[T, R] {
	return &funcsAccumulator[T, S, R]{funcs: f, state: f.InitFn()}
}

type funcsAccumulator[T, S, R any] struct {
	funcs Funcs[T, S, R]
	state S
}

func (acc *funcsAccumulator[T, S, R]) Step(item T) error {
	state, err := acc.funcs.StepFn(acc.state, item)
	if err != nil {
		return err
	}
	acc.state = state
	return nil
}

func (acc *funcsAccumulator[T, S, R]) Complete() R {
	return acc.funcs.CompleteFn(acc.state)
}

// Reduce runs one full pass of op over items.
func Reduce[T, R any](op Op[T, R], items iter.Seq[T]) (R, error) {
	acc := op.Init()
	for item := range items {
		if err := acc.Step(item); err != nil {
			var zero R
			return zero, err
		}
	}
	return acc.Complete(), nil
}

func ReduceSlice[T, R any](op Op[T, R], items []T) (R, error) {
	return Reduce(op, slices.Values(items))
}

// MapInput applies f to every item before op sees it.
func MapInput[T, U, R any](f func(T) (U, error), op Op[U, R]) Op[T, R] {
	return mapInputOp[T, U, R]{f: f, op: op}
}

type mapInputOp[T, U, R any] struct {
	f  func(T) (U, error)
	op Op[U, R]
}

func (m mapInputOp[T, U, R]) Init() Accumulator[T, R] {
	return &mapInputAccumulator[T, U, R]{f: m.f, acc: m.op.Init()}
}

type mapInputAccumulator[T, U, R any] struct {
	f   func(T) (U, error)
	acc Accumulator[U, R]
}

func (m *mapInputAccumulator[T, U, R]) Step(item T) error {
	u, err := m.f(item)
	if err != nil {
		return err
	}
	return m.acc.Step(u)
}

func (m *mapInputAccumulator[T, U, R]) Complete() R {
	return m.acc.Complete()
}

// Filter only passes items matching keep to op.
func Filter[T, R any](keep func(T) bool, op Op[T, R]) Op[T, R] {
	return filterOp[T, R]{keep: keep, op: op}
}

type filterOp[T, R any] struct {
	keep func(T) bool
	op   Op[T, R]
}

func (f filterOp[T, R]) Init() Accumulator[T, R] {
	return &filterAccumulator[T, R]{keep: f.keep, acc: f.op.Init()}
}

type filterAccumulator[T, R any] struct {
	keep func(T) bool
	acc  Accumulator[T, R]
}

func (f *filterAccumulator[T, R]) Step(item T) error {
	if !f.keep(item) {
		return nil
	}
	return f.acc.Step(item)
}

func (f *filterAccumulator[T, R]) Complete() R {
	return f.acc.Complete()
}

// MapOutput applies g to the finalized result of op.
func MapOutput[T, R, V any](g func(R) V, op Op[T, R]) Op[T, V] {
	return mapOutputOp[T, R, V]{g: g, op: op}
}

type mapOutputOp[T, R, V any] struct {
	g  func(R) V
	op Op[T, R]
}

func (m mapOutputOp[T, R, V]) Init() Accumulator[T, V] {
	return &mapOutputAccumulator[T, R, V]{g: m.g, acc: m.op.Init()}
}

type mapOutputAccumulator[T, R, V any] struct {
	g   func(R) V
	acc Accumulator[T, R]
}

func (m *mapOutputAccumulator[T, R, V]) Step(item T) error {
	return m.acc.Step(item)
}

func (m *mapOutputAccumulator[T, R, V]) Complete() V {
	return m.g(m.acc.Complete())
}

// Erase hides the result type of op so it can join an OpSet.
func Erase[T, R any](op Op[T, R]) Op[T, any] {
	return MapOutput(func(r R) any { return r }, op)
}
