package sketch

import (
	"sort"
	"strings"
)

// CategoricalHistogram counts occurrences of each distinct value exactly.
// Values are identified by their Key encoding; the first value seen for a
// key is the one reported.
type CategoricalHistogram struct {
	buckets map[string]*Bucket
	total   int64
	nils    int64
}

func NewCategoricalHistogram() *CategoricalHistogram {
	return &CategoricalHistogram{
		buckets: make(map[string]*Bucket),
	}
}

func (h *CategoricalHistogram) Insert(value any) error {
	h.total++
	if value == nil {
		h.nils++
		return nil
	}
	key := string(Key(value))
	bucket, ok := h.buckets[key]
	if !ok {
		bucket = &Bucket{Value: value}
		h.buckets[key] = bucket
	}
	bucket.Count++
	return nil
}

func (h *CategoricalHistogram) TotalCount() int64 {
	return h.total
}

func (h *CategoricalHistogram) NilCount() int64 {
	return h.nils
}

// Buckets are ordered by descending count, ties broken by key.
func (h *CategoricalHistogram) Buckets() []Bucket {
	keys := make([]string, 0, len(h.buckets))
	for k := range h.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := h.buckets[keys[i]], h.buckets[keys[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return strings.Compare(keys[i], keys[j]) < 0
	})

	buckets := make([]Bucket, len(keys))
	for i, k := range keys {
		buckets[i] = *h.buckets[k]
	}
	return buckets
}

// Count returns the occurrences of value.
func (h *CategoricalHistogram) Count(value any) int64 {
	if bucket, ok := h.buckets[string(Key(value))]; ok {
		return bucket.Count
	}
	return 0
}

func (h *CategoricalHistogram) Merge(other *CategoricalHistogram) {
	for k, b := range other.buckets {
		bucket, ok := h.buckets[k]
		if !ok {
			bucket = &Bucket{Value: b.Value}
			h.buckets[k] = bucket
		}
		bucket.Count += b.Count
	}
	h.total += other.total
	h.nils += other.nils
}
