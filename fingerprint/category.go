package fingerprint

import (
	"fmt"
	"unicode/utf8"

	"xray/operator"
	"xray/sketch"
	"xray/stats"
)

type CategoryFingerprint struct {
	Base
	Cardinality uint64                       `json:"cardinality"`
	Uniqueness  stats.Float                  `json:"uniqueness"`
	Entropy     stats.Float                  `json:"entropy"`
	Histogram   *sketch.CategoricalHistogram `json:"-"`
}

func (CategoryFingerprint) Variant() Variant {
	return VariantCategory
}

func newCategoryOp(_ Options, fields []Field) operator.Op[any, Fingerprint] {
	set := operator.NewOpSet[any]().
		Add("histogram", operator.Erase(operator.Into[any](sketch.NewCategoricalHistogram))).
		Add("cardinality", operator.Erase(operator.Into[any](newHLL)))

	return operator.MapOutput(func(rec operator.Record) Fingerprint {
		h := operator.Get[*sketch.CategoricalHistogram](rec, "histogram")
		total, nils := h.TotalCount(), h.NilCount()
		cardinality, uniqueness := distinct(operator.Get[*sketch.HLL](rec, "cardinality"), total-nils)
		return CategoryFingerprint{
			Base:        newBase(fields, total, nils),
			Cardinality: cardinality,
			Uniqueness:  uniqueness,
			Entropy:     bucketEntropy(h),
			Histogram:   h,
		}
	}, operator.Op[any, operator.Record](set))
}

func (fp CategoryFingerprint) display() Display {
	d := fp.Base.display()
	d["cardinality"] = fp.Cardinality
	d["uniqueness"] = fp.Uniqueness
	d["entropy"] = fp.Entropy
	d["histogram"] = bucketTable(fp.Fields[0].Name, fp.Histogram)
	return d
}

func (fp CategoryFingerprint) features() Features {
	f := fp.Base.features()
	f["uniqueness"] = fp.Uniqueness
	f["entropy"] = fp.Entropy
	f["histogram"] = bucketTable(fp.Fields[0].Name, fp.Histogram)
	return f
}

// TextFingerprint profiles the lengths of free text values.
type TextFingerprint struct {
	Base
	MinLength     stats.Float    `json:"min_length"`
	MaxLength     stats.Float    `json:"max_length"`
	AverageLength stats.Float    `json:"average_length"`
	Histogram     sketch.Numeric `json:"-"`
}

func (TextFingerprint) Variant() Variant {
	return VariantText
}

// textLength is the length of v in characters; nil stays nil.
func textLength(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return utf8.RuneCountInString(x), nil
	case []byte:
		return utf8.RuneCount(x), nil
	case fmt.Stringer:
		return utf8.RuneCountInString(x.String()), nil
	}
	return utf8.RuneCountInString(fmt.Sprint(v)), nil
}

func newTextOp(_ Options, fields []Field) operator.Op[any, Fingerprint] {
	lengths := operator.MapInput(textLength, operator.Op[any, *sketch.NumericHistogram](operator.Into[any](sketch.NewNumericHistogram)))

	return operator.MapOutput(func(h *sketch.NumericHistogram) Fingerprint {
		return TextFingerprint{
			Base:          newBase(fields, h.TotalCount(), h.NilCount()),
			MinLength:     h.Min(),
			MaxLength:     h.Max(),
			AverageLength: h.Mean(),
			Histogram:     h,
		}
	}, lengths)
}

func (fp TextFingerprint) display() Display {
	d := fp.Base.display()
	d["min_length"] = fp.MinLength
	d["max_length"] = fp.MaxLength
	d["average_length"] = fp.AverageLength
	d["histogram"] = binTable(fp.Fields[0].Name+" length", fp.Histogram, func(x float64) any { return x })
	return d
}

func (fp TextFingerprint) features() Features {
	f := fp.Base.features()
	f["min_length"] = fp.MinLength
	f["max_length"] = fp.MaxLength
	f["average_length"] = fp.AverageLength
	return f
}
