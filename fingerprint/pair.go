package fingerprint

import (
	"fmt"
	"slices"
	"time"

	"xray/operator"
	"xray/sketch"
	"xray/stats"
	"xray/window"
)

func asPair(item any) (Pair, error) {
	switch x := item.(type) {
	case Pair:
		return x, nil
	case *Pair:
		if x != nil {
			return *x, nil
		}
	}
	return Pair{}, fmt.Errorf("%T: %w", item, ErrArity)
}

// pairCounts adds the item and nil counters every two-field pass reports.
func pairCounts(set *operator.OpSet[any]) *operator.OpSet[any] {
	return set.
		Add("count", operator.Erase(operator.NewCountOp[any]())).
		Add("nils", operator.Erase(operator.NewCountIfOp(isNil)))
}

type NumberPairFingerprint struct {
	Base
	Regression  stats.Regression `json:"regression"`
	Correlation stats.Float      `json:"correlation"`
	Covariance  stats.Float      `json:"covariance"`
}

func (NumberPairFingerprint) Variant() Variant {
	return VariantNumberPair
}

func toPoint(item any) (operator.Point, error) {
	pair, err := asPair(item)
	if err != nil {
		return operator.Point{}, err
	}
	x, err := sketch.ToFloat(pair.X)
	if err != nil {
		return operator.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := sketch.ToFloat(pair.Y)
	if err != nil {
		return operator.Point{}, fmt.Errorf("y: %w", err)
	}
	return operator.Point{X: x, Y: y}, nil
}

// points adapts a comoments op to pair items, skipping pairs with a nil side.
func points[R any](g func(*stats.Comoments) R) operator.Op[any, any] {
	return operator.Erase(operator.Filter(notNil,
		operator.MapInput(toPoint, operator.MapOutput(g, operator.NewComomentsOp()))))
}

func newNumberPairOp(_ Options, fields []Field) operator.Op[any, Fingerprint] {
	set := pairCounts(operator.NewOpSet[any]()).
		Add("regression", points((*stats.Comoments).Regression)).
		Add("correlation", points((*stats.Comoments).Correlation)).
		Add("covariance", points((*stats.Comoments).Covariance))

	return operator.MapOutput(func(rec operator.Record) Fingerprint {
		return NumberPairFingerprint{
			Base:        newBase(fields, operator.Get[int64](rec, "count"), operator.Get[int64](rec, "nils")),
			Regression:  operator.Get[stats.Regression](rec, "regression"),
			Correlation: operator.Get[stats.Float](rec, "correlation"),
			Covariance:  operator.Get[stats.Float](rec, "covariance"),
		}
	}, operator.Op[any, operator.Record](set))
}

func (fp NumberPairFingerprint) display() Display {
	d := fp.Base.display()
	d["regression"] = fp.Regression
	d["correlation"] = fp.Correlation
	d["covariance"] = fp.Covariance
	return d
}

func (fp NumberPairFingerprint) features() Features {
	f := fp.Base.features()
	f["slope"] = fp.Regression.Slope
	f["intercept"] = fp.Regression.Intercept
	f["correlation"] = fp.Correlation
	f["covariance"] = fp.Covariance
	return f
}

// DateTimeNumberFingerprint profiles a value over time. Series holds one
// point per instant at Raw scale, or one per period with gaps filled by 0.
type DateTimeNumberFingerprint struct {
	Base
	Scale         window.Scale           `json:"scale"`
	Series        []window.Point         `json:"series"`
	Regression    stats.Regression       `json:"regression"`
	Growth        map[string]stats.Float `json:"growth,omitempty"`
	Decomposition *stats.Decomposition   `json:"decomposition,omitempty"`
	Location      *time.Location         `json:"-"`
}

func (DateTimeNumberFingerprint) Variant() Variant {
	return VariantDateTimeNumber
}

func newDateTimeNumberOp(opts Options, fields []Field) operator.Op[any, Fingerprint] {
	toPoint := func(item any) (window.Point, error) {
		return toTimePoint(item, fields[0], opts)
	}
	set := pairCounts(operator.NewOpSet[any]()).
		Add("series", operator.Erase(operator.Filter(notNil, operator.MapInput(toPoint, seriesOp(opts.Scale)))))

	return operator.MapOutput(func(rec operator.Record) Fingerprint {
		return completeDateTimeNumber(opts, fields, rec)
	}, operator.Op[any, operator.Record](set))
}

// seriesOp collects points in time order. At Raw scale every point is kept,
// ties in insertion order; otherwise the last value seen for a period wins.
func seriesOp(scale window.Scale) operator.Op[window.Point, []window.Point] {
	if scale == window.Raw {
		return operator.Funcs[window.Point, []window.Point, []window.Point]{
			InitFn: func() []window.Point { return nil },
			StepFn: func(series []window.Point, p window.Point) ([]window.Point, error) {
				return append(series, p), nil
			},
			CompleteFn: func(series []window.Point) []window.Point {
				slices.SortStableFunc(series, func(a, b window.Point) int { return a.Time.Compare(b.Time) })
				return series
			},
		}
	}

	byPeriod := operator.NewLastByKeyOp(func(p window.Point) (int64, window.Point, bool) {
		return p.Time.UnixNano(), p, true
	})
	return operator.MapOutput(func(entries []operator.Entry[int64, window.Point]) []window.Point {
		series := make([]window.Point, len(entries))
		for i, e := range entries {
			series[i] = e.Value
		}
		return series
	}, operator.Op[window.Point, []operator.Entry[int64, window.Point]](byPeriod))
}

// toTimePoint reads a pair as an instant truncated to the scale's period
// and a number.
func toTimePoint(item any, field Field, opts Options) (window.Point, error) {
	pair, err := asPair(item)
	if err != nil {
		return window.Point{}, err
	}
	t, err := ParseTime(pair.X, field.Tags(), opts.Location)
	if err != nil {
		return window.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := sketch.ToFloat(pair.Y)
	if err != nil {
		return window.Point{}, fmt.Errorf("y: %w", err)
	}
	return window.Point{Time: opts.Scale.Truncate(t), Value: y}, nil
}

func completeDateTimeNumber(opts Options, fields []Field, rec operator.Record) DateTimeNumberFingerprint {
	series := operator.Get[[]window.Point](rec, "series")
	if opts.Scale != window.Raw {
		series = window.FillGaps(series, opts.Scale)
	}

	fp := DateTimeNumberFingerprint{
		Base:       newBase(fields, operator.Get[int64](rec, "count"), operator.Get[int64](rec, "nils")),
		Scale:      opts.Scale,
		Series:     series,
		Regression: seriesRegression(series),
		Growth:     growthMetrics(series, opts.Scale),
		Location:   opts.Location,
	}
	if opts.Scale != window.Raw && opts.Budget.AllowsUnboundedComputation() && len(series) >= opts.Scale.MinDecompositionPoints() {
		values := make([]float64, len(series))
		for i, p := range series {
			values[i] = p.Value
		}
		if decomposition, err := opts.Decomposer.Decompose(opts.Scale.SeasonLength(), values); err == nil {
			fp.Decomposition = decomposition
		}
	}
	return fp
}

const secondsPerDay = 24 * 60 * 60

// seriesRegression fits the series against days since the UNIX epoch.
func seriesRegression(series []window.Point) stats.Regression {
	c := stats.NewComoments()
	for _, p := range series {
		c.Update(float64(p.Time.Unix())/secondsPerDay, p.Value)
	}
	return c.Regression()
}

// growthMetrics compares the latest periods of the series with the ones
// before them, and with the same period a year earlier where the scale has
// one.
func growthMetrics(series []window.Point, scale window.Scale) map[string]stats.Float {
	// back(i) is the value i periods before the latest.
	back := func(i int) stats.Float {
		if i >= len(series) {
			return stats.Missing
		}
		return stats.Some(series[len(series)-1-i].Value)
	}
	growth := func(since int) (stats.Float, stats.Float) {
		return stats.Growth(back(0), back(since)), stats.Growth(back(1), back(1+since))
	}

	metrics := make(map[string]stats.Float)
	switch scale {
	case window.Month:
		metrics["yoy"], metrics["yoy_previous"] = growth(12)
		metrics["mom"], metrics["mom_previous"] = growth(1)
	case window.Week:
		metrics["yoy"], metrics["yoy_previous"] = growth(52)
		metrics["wow"], metrics["wow_previous"] = growth(1)
	case window.Day:
		metrics["dod"], metrics["dod_previous"] = growth(1)
	default:
		return nil
	}
	return metrics
}

func (fp DateTimeNumberFingerprint) seriesTable() Table {
	table := Table{Columns: []string{fp.Fields[0].Name, fp.Fields[1].Name}, Rows: make([][]any, len(fp.Series))}
	for i, p := range fp.Series {
		table.Rows[i] = []any{p.Time.In(fp.Location), p.Value}
	}
	return table
}

func (fp DateTimeNumberFingerprint) display() Display {
	d := fp.Base.display()
	d["scale"] = fp.Scale
	d["series"] = fp.seriesTable()
	d["regression"] = fp.Regression
	for k, v := range fp.Growth {
		d[k] = v
	}
	if fp.Decomposition != nil {
		d["decomposition"] = fp.Decomposition
	}
	return d
}

func (fp DateTimeNumberFingerprint) features() Features {
	f := fp.Base.features()
	f["slope"] = fp.Regression.Slope
	f["intercept"] = fp.Regression.Intercept
	for k, v := range fp.Growth {
		f[k] = v
	}
	return f
}
