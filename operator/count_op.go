package operator

// CountOp counts the items matching its predicate; every item when the
// predicate is nil.
type CountOp[T any] struct {
	match func(T) bool
}

func NewCountOp[T any]() *CountOp[T] {
	return &CountOp[T]{}
}

func NewCountIfOp[T any](match func(T) bool) *CountOp[T] {
	return &CountOp[T]{match: match}
}

func (op *CountOp[T]) Init() Accumulator[T, int64] {
	return &countAccumulator[T]{match: op.match}
}

type countAccumulator[T any] struct {
	match func(T) bool
	count int64
}

func (acc *countAccumulator[T]) Step(item T) error {
	if acc.match == nil || acc.match(item) {
		acc.count++
	}
	return nil
}

func (acc *countAccumulator[T]) Complete() int64 {
	return acc.count
}
