package sketch

import "github.com/axiomhq/hyperloglog"

// HLL is a HyperLogLog distinct counter. Precision 14 has a standard error
// of about 0.8%, precision 16 about 0.4%.
type HLL struct {
	sketch *hyperloglog.Sketch
}

func NewHLL(errorRate float64) *HLL {
	if errorRate < 0.008 {
		return &HLL{sketch: hyperloglog.New16()}
	}
	return &HLL{sketch: hyperloglog.New14()}
}

// Insert ignores nil values.
func (h *HLL) Insert(value any) error {
	if value == nil {
		return nil
	}
	h.sketch.Insert(Key(value))
	return nil
}

func (h *HLL) Estimate() uint64 {
	return h.sketch.Estimate()
}

func (h *HLL) Merge(other *HLL) error {
	return h.sketch.Merge(other.sketch)
}
