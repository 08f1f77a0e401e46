package fingerprint

import (
	"errors"
	"fmt"
	"slices"

	"xray/operator"
)

var ErrArity = errors.New("fingerprints cover one field or a pair of fields")

type Variant string

const (
	VariantNumber         Variant = "Number"
	VariantCategory       Variant = "Category"
	VariantText           Variant = "Text"
	VariantDateTime       Variant = "DateTime"
	VariantNumberPair     Variant = "Number x Number"
	VariantDateTimeNumber Variant = "DateTime x Number"
	VariantDefault        Variant = "Default"
)

// Pair is one item of a two-field pass: the x and y values of a row.
type Pair struct {
	X, Y any
}

// Strategy builds the aggregator for the signatures it matches.
type Strategy struct {
	Variant Variant
	Matches func(Signature) bool
	build   func(opts Options, fields []Field) operator.Op[any, Fingerprint]
}

func (s Strategy) Build(opts Options, fields ...Field) operator.Op[any, Fingerprint] {
	return s.build(opts.withDefaults(), fields)
}

func isTemporal(t Tags) bool {
	return t.IsA(TypeDateTime)
}

func isNumeric(t Tags) bool {
	return t.Base.IsA(TypeNumber)
}

func isCategorical(t Tags) bool {
	return t.IsA(TypeCategory)
}

func isText(t Tags) bool {
	return t.Base.IsA(TypeText)
}

func univariate(pred func(Tags) bool) func(Signature) bool {
	return func(sig Signature) bool {
		return len(sig) == 1 && pred(sig[0])
	}
}

func bivariate(x, y func(Tags) bool) func(Signature) bool {
	return func(sig Signature) bool {
		return len(sig) == 2 && x(sig[0]) && y(sig[1])
	}
}

// rules are evaluated in order and the first match wins. Type tags overlap,
// so the order is part of the contract:
//
//   - Temporal before Numeric, so integers tagged as UNIX timestamps
//     profile as instants.
//   - Numeric before Categorical before Text.
//   - DateTime x Number before Number x Number, for the same reason.
//   - Default matches every signature.
var rules = []Strategy{
	{Variant: VariantDateTime, Matches: univariate(isTemporal), build: newDateTimeOp},
	{Variant: VariantNumber, Matches: univariate(isNumeric), build: newNumberOp},
	{Variant: VariantCategory, Matches: univariate(isCategorical), build: newCategoryOp},
	{Variant: VariantText, Matches: univariate(isText), build: newTextOp},
	{Variant: VariantDateTimeNumber, Matches: bivariate(isTemporal, isNumeric), build: newDateTimeNumberOp},
	{Variant: VariantNumberPair, Matches: bivariate(isNumeric, isNumeric), build: newNumberPairOp},
	{Variant: VariantDefault, Matches: func(Signature) bool { return true }, build: newDefaultOp},
}

// Rules returns a copy of the dispatch table in evaluation order.
func Rules() []Strategy {
	return slices.Clone(rules)
}

// Resolve picks the strategy for sig, falling back to Default.
func Resolve(sig Signature) Strategy {
	for _, rule := range rules {
		if rule.Matches(sig) {
			return rule
		}
	}
	return rules[len(rules)-1]
}

// BuildAggregator resolves the strategy for fields and builds its
// aggregator. One field takes raw values, two fields take Pair items.
func BuildAggregator(opts Options, fields ...Field) (operator.Op[any, Fingerprint], error) {
	if len(fields) != 1 && len(fields) != 2 {
		return nil, fmt.Errorf("%d fields: %w", len(fields), ErrArity)
	}
	return Resolve(SignatureOf(fields...)).Build(opts, fields...), nil
}

// Profile runs one full pass of the aggregator for fields over values.
func Profile(opts Options, values []any, fields ...Field) (Fingerprint, error) {
	op, err := BuildAggregator(opts, fields...)
	if err != nil {
		return nil, err
	}
	return operator.ReduceSlice(op, values)
}

func isNil(item any) bool {
	switch x := item.(type) {
	case nil:
		return true
	case Pair:
		return x.X == nil || x.Y == nil
	}
	return false
}

func notNil(item any) bool {
	return !isNil(item)
}

// DefaultFingerprint is the profile of signatures no other variant handles.
type DefaultFingerprint struct {
	Base
}

func (DefaultFingerprint) Variant() Variant {
	return VariantDefault
}

func (fp DefaultFingerprint) display() Display {
	return fp.Base.display()
}

func (fp DefaultFingerprint) features() Features {
	return fp.Base.features()
}

func newDefaultOp(_ Options, fields []Field) operator.Op[any, Fingerprint] {
	set := operator.NewOpSet[any]().
		Add("count", operator.Erase(operator.NewCountOp[any]())).
		Add("nils", operator.Erase(operator.NewCountIfOp(isNil)))

	return operator.MapOutput(func(rec operator.Record) Fingerprint {
		return DefaultFingerprint{Base: newBase(fields, operator.Get[int64](rec, "count"), operator.Get[int64](rec, "nils"))}
	}, operator.Op[any, operator.Record](set))
}
