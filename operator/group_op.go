package operator

import (
	"cmp"
	"slices"
)

type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// LastByKeyOp groups items by key and keeps the last value seen for each
// key. Items for which split returns false are skipped. The result is
// ordered by key.
type LastByKeyOp[T any, K cmp.Ordered, V any] struct {
	split func(T) (K, V, bool)
}

func NewLastByKeyOp[T any, K cmp.Ordered, V any](split func(T) (K, V, bool)) *LastByKeyOp[T, K, V] {
	return &LastByKeyOp[T, K, V]{split: split}
}

func (op *LastByKeyOp[T, K, V]) Init() Accumulator[T, []Entry[K, V]] {
	return &lastByKeyAccumulator[T, K, V]{split: op.split, groups: make(map[K]V)}
}

type lastByKeyAccumulator[T any, K cmp.Ordered, V any] struct {
	split  func(T) (K, V, bool)
	groups map[K]V
}

func (acc *lastByKeyAccumulator[T, K, V]) Step(item T) error {
	if k, v, ok := acc.split(item); ok {
		acc.groups[k] = v
	}
	return nil
}

func (acc *lastByKeyAccumulator[T, K, V]) Complete() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, len(acc.groups))
	for k, v := range acc.groups {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	slices.SortFunc(entries, func(a, b Entry[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	acc.groups = nil
	return entries
}
