package operator

import (
	"fmt"
	"sort"
)

// Record holds the finalized results of an OpSet by name.
type Record map[string]any

// Get returns the result stored under name, or the zero value when it is
// absent or of another type.
func Get[R any](rec Record, name string) R {
	r, _ := rec[name].(R)
	return r
}

// Has reports whether the record holds a result named name.
func (rec Record) Has(name string) bool {
	_, ok := rec[name]
	return ok
}

// OpSet fans every item out to a named set of ops in one pass. Each op sees
// exactly the same items in the same order, independent of the others.
type OpSet[T any] struct {
	ops map[string]Op[T, any]
}

func NewOpSet[T any]() *OpSet[T] {
	return &OpSet[T]{ops: make(map[string]Op[T, any])}
}

// Add registers op under name, replacing any op of the same name.
func (set *OpSet[T]) Add(name string, op Op[T, any]) *OpSet[T] {
	set.ops[name] = op
	return set
}

// Names are sorted so passes step children in a stable order.
func (set *OpSet[T]) Names() []string {
	names := make([]string, 0, len(set.ops))
	for name := range set.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (set *OpSet[T]) Init() Accumulator[T, Record] {
	names := set.Names()
	children := make([]Accumulator[T, any], len(names))
	for i, name := range names {
		children[i] = set.ops[name].Init()
	}
	return &opSetAccumulator[T]{names: names, children: children}
}

type opSetAccumulator[T any] struct {
	names    []string
	children []Accumulator[T, any]
}

func (acc *opSetAccumulator[T]) Step(item T) error {
	for i, child := range acc.children {
		if err := child.Step(item); err != nil {
			return fmt.Errorf("%s: %w", acc.names[i], err)
		}
	}
	return nil
}

func (acc *opSetAccumulator[T]) Complete() Record {
	rec := make(Record, len(acc.children))
	for i, child := range acc.children {
		rec[acc.names[i]] = child.Complete()
	}
	return rec
}
