package fingerprint

import (
	"time"

	"xray/operator"
	"xray/sketch"
	"xray/stats"
	"xray/window"
)

// DateTimeFingerprint profiles a temporal column. Instants are kept as
// epoch milliseconds and turned back into times on display.
type DateTimeFingerprint struct {
	Base
	Earliest    stats.Float                  `json:"earliest"`
	Latest      stats.Float                  `json:"latest"`
	Percentiles []sketch.Percentile          `json:"percentiles"`
	Entropy     stats.Float                  `json:"entropy"`
	Histogram   sketch.Numeric               `json:"-"`
	HourOfDay   *sketch.CategoricalHistogram `json:"-"`
	DayOfWeek   *sketch.CategoricalHistogram `json:"-"`
	Month       *sketch.CategoricalHistogram `json:"-"`
	Quarter     *sketch.CategoricalHistogram `json:"-"`
	Location    *time.Location               `json:"-"`
}

func (DateTimeFingerprint) Variant() Variant {
	return VariantDateTime
}

// isoWeekday numbers days from Monday = 1 to Sunday = 7.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// timeParser returns the input transform turning raw values into instants.
// nil passes through.
func timeParser(opts Options, field Field) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return ParseTime(v, field.Tags(), opts.Location)
	}
}

// calendar sends the component part of each instant into its own
// categorical histogram.
func calendar(part func(time.Time) int) operator.Op[any, any] {
	extract := func(v any) (any, error) {
		if t, ok := v.(time.Time); ok {
			return part(t), nil
		}
		return nil, nil
	}
	return operator.Erase(operator.MapInput(extract,
		operator.Op[any, *sketch.CategoricalHistogram](operator.Into[any](sketch.NewCategoricalHistogram))))
}

func newDateTimeOp(opts Options, fields []Field) operator.Op[any, Fingerprint] {
	toEpoch := func(v any) (any, error) {
		if t, ok := v.(time.Time); ok {
			return epoch(t), nil
		}
		return nil, nil
	}
	set := operator.NewOpSet[any]().
		Add("histogram", operator.Erase(operator.MapInput(toEpoch,
			operator.Op[any, *sketch.NumericHistogram](operator.Into[any](sketch.NewNumericHistogram))))).
		Add("hour", calendar(time.Time.Hour)).
		Add("weekday", calendar(isoWeekday)).
		Add("month", calendar(func(t time.Time) int { return int(t.Month()) })).
		Add("quarter", calendar(window.Quarter))

	parsed := operator.MapInput(timeParser(opts, fields[0]), operator.Op[any, operator.Record](set))
	return operator.MapOutput(func(rec operator.Record) Fingerprint {
		h := operator.Get[*sketch.NumericHistogram](rec, "histogram")
		return DateTimeFingerprint{
			Base:        newBase(fields, h.TotalCount(), h.NilCount()),
			Earliest:    h.Min(),
			Latest:      h.Max(),
			Percentiles: h.Percentiles(opts.Percentiles),
			Entropy:     binEntropy(h),
			Histogram:   h,
			HourOfDay:   operator.Get[*sketch.CategoricalHistogram](rec, "hour"),
			DayOfWeek:   operator.Get[*sketch.CategoricalHistogram](rec, "weekday"),
			Month:       operator.Get[*sketch.CategoricalHistogram](rec, "month"),
			Quarter:     operator.Get[*sketch.CategoricalHistogram](rec, "quarter"),
			Location:    opts.Location,
		}
	}, parsed)
}

func (fp DateTimeFingerprint) instant(ms stats.Float) any {
	if !ms.Valid {
		return nil
	}
	return fromEpoch(ms.Value, fp.Location)
}

func bucketCounts(h *sketch.CategoricalHistogram) map[int]float64 {
	counts := make(map[int]float64)
	for _, b := range h.Buckets() {
		if k, ok := b.Value.(int); ok {
			counts[k] = float64(b.Count)
		}
	}
	return counts
}

// cyclicTables renders the calendar histograms. Month and quarter buckets
// are reweighted by how often each occurs between the earliest and latest
// instants.
func (fp DateTimeFingerprint) cyclicTables() map[string]Table {
	months, quarters := bucketCounts(fp.Month), bucketCounts(fp.Quarter)
	if fp.Earliest.Valid && fp.Latest.Valid {
		earliest, latest := fromEpoch(fp.Earliest.Value, fp.Location), fromEpoch(fp.Latest.Value, fp.Location)
		months = window.Reweigh(months, window.MonthFrequencies(earliest, latest))
		quarters = window.Reweigh(quarters, window.QuarterFrequencies(earliest, latest))
	}
	return map[string]Table{
		"histogram_hour_of_day":     cyclicTable("hour", bucketCounts(fp.HourOfDay)),
		"histogram_day_of_week":     cyclicTable("day", bucketCounts(fp.DayOfWeek)),
		"histogram_month_of_year":   cyclicTable("month", months),
		"histogram_quarter_of_year": cyclicTable("quarter", quarters),
	}
}

func (fp DateTimeFingerprint) display() Display {
	d := fp.Base.display()
	d["earliest"] = fp.instant(fp.Earliest)
	d["latest"] = fp.instant(fp.Latest)
	percentiles := make(map[string]any, len(fp.Percentiles))
	for _, p := range fp.Percentiles {
		percentiles[percentileKey(p.P)] = fp.instant(p.Value)
	}
	d["percentiles"] = percentiles
	d["entropy"] = fp.Entropy
	d["histogram"] = binTable(fp.Fields[0].Name, fp.Histogram, func(x float64) any {
		return fromEpoch(x, fp.Location)
	})
	for k, table := range fp.cyclicTables() {
		d[k] = table
	}
	return d
}

func (fp DateTimeFingerprint) features() Features {
	f := fp.Base.features()
	f["earliest"] = fp.Earliest
	f["latest"] = fp.Latest
	f["entropy"] = fp.Entropy
	f["histogram"] = binTable(fp.Fields[0].Name, fp.Histogram, func(x float64) any { return x })
	for k, table := range fp.cyclicTables() {
		f[k] = table
	}
	return f
}
