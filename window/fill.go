package window

import "time"

type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// FillGaps returns one point per period from the first point's period to the
// last point's, with 0 for periods missing from series. series must be
// sorted and hold at most one point per period; if several points share a
// period the last one wins. Raw series are returned as a copy.
func FillGaps(series []Point, scale Scale) []Point {
	if scale == Raw || len(series) == 0 {
		return append([]Point(nil), series...)
	}

	values := make(map[int64]float64, len(series))
	for _, p := range series {
		values[scale.Truncate(p.Time).Unix()] = p.Value
	}

	first := scale.Truncate(series[0].Time)
	last := scale.Truncate(series[len(series)-1].Time)
	filled := make([]Point, 0, len(series))
	for t := first; !t.After(last); t = scale.Next(t) {
		filled = append(filled, Point{Time: t, Value: values[t.Unix()]})
	}
	return filled
}
