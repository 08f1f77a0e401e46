package operator

// Inserter is any sketch that accepts items one at a time.
type Inserter[T any] interface {
	Insert(item T) error
}

// IntoOp feeds items into a fresh sketch per pass and completes with it.
type IntoOp[T any, S Inserter[T]] struct {
	create func() S
}

func Into[T any, S Inserter[T]](create func() S) *IntoOp[T, S] {
	return &IntoOp[T, S]{create: create}
}

func (op *IntoOp[T, S]) Init() Accumulator[T, S] {
	return &intoAccumulator[T, S]{sketch: op.create()}
}

type intoAccumulator[T any, S Inserter[T]] struct {
	sketch S
}

func (acc *intoAccumulator[T, S]) Step(item T) error {
	return acc.sketch.Insert(item)
}

func (acc *intoAccumulator[T, S]) Complete() S {
	return acc.sketch
}
