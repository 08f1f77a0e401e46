package fingerprint

import (
	"math"

	"xray/operator"
	"xray/sketch"
	"xray/stats"
)

// NumberStats are the statistics of a numeric column with at least one
// value.
type NumberStats struct {
	Min              stats.Float         `json:"min"`
	Max              stats.Float         `json:"max"`
	Mean             stats.Float         `json:"mean"`
	Median           stats.Float         `json:"median"`
	Variance         stats.Float         `json:"variance"`
	SD               stats.Float         `json:"sd"`
	Range            stats.Float         `json:"range"`
	Percentiles      []sketch.Percentile `json:"percentiles"`
	Cardinality      uint64              `json:"cardinality"`
	Uniqueness       stats.Float         `json:"uniqueness"`
	AllDistinct      bool                `json:"all_distinct"`
	PercentAboveMean stats.Float         `json:"percent_above_mean"`
	PositiveDefinite bool                `json:"positive_definite"`
	UnitInterval     bool                `json:"unit_interval"`
	SignedUnit       bool                `json:"signed_unit_interval"`
	CV               stats.Float         `json:"cv"`
	SpreadSD         stats.Float         `json:"spread_sd"`
	SpreadMedian     stats.Float         `json:"spread_mean_median"`
	Skewness         stats.Float         `json:"skewness"`
	Kurtosis         stats.Float         `json:"kurtosis"`
	Entropy          stats.Float         `json:"entropy"`
	Sum              *float64            `json:"sum,omitempty"`
	SumOfSquares     *float64            `json:"sum_of_squares,omitempty"`
	Histogram        sketch.Numeric      `json:"-"`
}

// NumberFingerprint profiles a numeric column. NumberStats is nil when the
// column held no values at all.
type NumberFingerprint struct {
	Base
	*NumberStats
}

func (NumberFingerprint) Variant() Variant {
	return VariantNumber
}

// numbers adapts a float op to raw column values, skipping nils.
func numbers[R any](op operator.Op[float64, R]) operator.Op[any, any] {
	return operator.Erase(operator.Filter(notNil, operator.MapInput(sketch.ToFloat, op)))
}

func newHLL() *sketch.HLL {
	return sketch.NewHLL(sketch.ErrorRate)
}

// distinct caps the HLL estimate at the non-nil count, so uniqueness never
// exceeds 1.
func distinct(h *sketch.HLL, nonNil int64) (uint64, stats.Float) {
	cardinality := min(h.Estimate(), uint64(max(nonNil, 0)))
	return cardinality, stats.SafeDivide(stats.Some(float64(cardinality)), stats.Some(float64(nonNil)))
}

func newNumberOp(opts Options, fields []Field) operator.Op[any, Fingerprint] {
	moments := operator.NewMomentsOp()
	set := operator.NewOpSet[any]().
		Add("histogram", operator.Erase(operator.Into[any](sketch.NewNumericHistogram))).
		Add("cardinality", operator.Erase(operator.Into[any](newHLL))).
		Add("skewness", numbers(operator.MapOutput((*stats.Welford).GetSkewness, moments))).
		Add("kurtosis", numbers(operator.MapOutput((*stats.Welford).GetKurtosis, moments)))
	if opts.Budget.AllowsFullScan() {
		set.Add("sum", numbers(operator.NewSumOp())).
			Add("sum_of_squares", numbers(operator.NewSumOfSquaresOp()))
	}

	return operator.MapOutput(func(rec operator.Record) Fingerprint {
		return completeNumber(opts, fields, rec)
	}, operator.Op[any, operator.Record](set))
}

func completeNumber(opts Options, fields []Field, rec operator.Record) NumberFingerprint {
	h := operator.Get[*sketch.NumericHistogram](rec, "histogram")
	total, nils := h.TotalCount(), h.NilCount()
	fp := NumberFingerprint{Base: newBase(fields, total, nils)}
	if total == 0 {
		return fp
	}

	cardinality, uniqueness := distinct(operator.Get[*sketch.HLL](rec, "cardinality"), total-nils)
	minimum, maximum, mean, median := h.Min(), h.Max(), h.Mean(), h.Median()
	sd := stats.Missing
	if v, ok := h.Variance().Get(); ok {
		sd = stats.Some(math.Sqrt(v))
	}
	spread := stats.Missing
	if lo, ok := minimum.Get(); ok {
		spread = stats.Some(maximum.Value - lo)
	}
	aboveMean := stats.Missing
	if m, ok := mean.Get(); ok {
		aboveMean = stats.Some(1 - h.CDF(m).Value)
	}
	meanMedian := stats.Missing
	if mean.Valid && median.Valid {
		meanMedian = stats.Some(mean.Value - median.Value)
	}

	ns := &NumberStats{
		Min:              minimum,
		Max:              maximum,
		Mean:             mean,
		Median:           median,
		Variance:         h.Variance(),
		SD:               sd,
		Range:            spread,
		Percentiles:      h.Percentiles(opts.Percentiles),
		Cardinality:      cardinality,
		Uniqueness:       uniqueness,
		AllDistinct:      uniqueness.Valid && uniqueness.Value >= 1-sketch.ErrorRate,
		PercentAboveMean: aboveMean,
		PositiveDefinite: minimum.Valid && minimum.Value >= 0,
		UnitInterval:     minimum.Valid && minimum.Value >= 0 && maximum.Value <= 1,
		SignedUnit:       minimum.Valid && minimum.Value >= -1 && maximum.Value <= 1,
		CV:               stats.SafeDivide(sd, mean),
		SpreadSD:         stats.SafeDivide(sd, spread),
		SpreadMedian:     stats.SafeDivide(meanMedian, spread),
		Skewness:         operator.Get[stats.Float](rec, "skewness"),
		Kurtosis:         operator.Get[stats.Float](rec, "kurtosis"),
		Entropy:          binEntropy(h),
		Histogram:        h,
	}
	if rec.Has("sum") {
		sum, squares := operator.Get[float64](rec, "sum"), operator.Get[float64](rec, "sum_of_squares")
		ns.Sum, ns.SumOfSquares = &sum, &squares
	}
	fp.NumberStats = ns
	return fp
}

func percentileMap(ps []sketch.Percentile) map[string]stats.Float {
	m := make(map[string]stats.Float, len(ps))
	for _, p := range ps {
		m[percentileKey(p.P)] = p.Value
	}
	return m
}

func percentileKey(p float64) string {
	return "p" + stats.Some(math.Round(p*1000)/10).String()
}

// display drops the internal range flags.
func (fp NumberFingerprint) display() Display {
	d := fp.Base.display()
	if fp.NumberStats == nil {
		return d
	}
	ns := fp.NumberStats
	for k, v := range map[string]any{
		"min":                ns.Min,
		"max":                ns.Max,
		"mean":               ns.Mean,
		"median":             ns.Median,
		"variance":           ns.Variance,
		"sd":                 ns.SD,
		"range":              ns.Range,
		"percentiles":        percentileMap(ns.Percentiles),
		"cardinality":        ns.Cardinality,
		"uniqueness":         ns.Uniqueness,
		"percent_above_mean": ns.PercentAboveMean,
		"cv":                 ns.CV,
		"spread_sd":          ns.SpreadSD,
		"spread_mean_median": ns.SpreadMedian,
		"skewness":           ns.Skewness,
		"kurtosis":           ns.Kurtosis,
		"entropy":            ns.Entropy,
		"histogram":          binTable(fp.Fields[0].Name, ns.Histogram, func(x float64) any { return x }),
	} {
		d[k] = v
	}
	if ns.Sum != nil {
		d["sum"], d["sum_of_squares"] = *ns.Sum, *ns.SumOfSquares
	}
	return d
}

func (fp NumberFingerprint) features() Features {
	f := fp.Base.features()
	if fp.NumberStats == nil {
		return f
	}
	ns := fp.NumberStats
	for k, v := range map[string]any{
		"min":                ns.Min,
		"max":                ns.Max,
		"mean":               ns.Mean,
		"median":             ns.Median,
		"sd":                 ns.SD,
		"range":              ns.Range,
		"uniqueness":         ns.Uniqueness,
		"percent_above_mean": ns.PercentAboveMean,
		"cv":                 ns.CV,
		"skewness":           ns.Skewness,
		"kurtosis":           ns.Kurtosis,
		"entropy":            ns.Entropy,
		"histogram":          binTable(fp.Fields[0].Name, ns.Histogram, func(x float64) any { return x }),
	} {
		f[k] = v
	}
	if ns.Sum != nil {
		f["sum"], f["sum_of_squares"] = stats.Some(*ns.Sum), stats.Some(*ns.SumOfSquares)
	}
	return f
}
