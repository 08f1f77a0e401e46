// Package source streams Arrow columns into fingerprint passes.
package source

import (
	"errors"
	"fmt"
	"iter"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"xray/fingerprint"
)

// SpecialTypeKey is the field metadata key read as the special type tag.
const SpecialTypeKey = "special_type"

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrLengthMismatch = errors.New("columns differ in length")
)

// Value returns row i of arr as a Go value, nil for nulls. Timestamps and
// dates become time.Time in UTC.
func Value(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch c := arr.(type) {
	case *array.Float64:
		return c.Value(i)
	case *array.Float32:
		return c.Value(i)
	case *array.Int64:
		return c.Value(i)
	case *array.Int32:
		return c.Value(i)
	case *array.Int16:
		return c.Value(i)
	case *array.Int8:
		return c.Value(i)
	case *array.Uint64:
		return c.Value(i)
	case *array.Uint32:
		return c.Value(i)
	case *array.Uint16:
		return c.Value(i)
	case *array.Uint8:
		return c.Value(i)
	case *array.Boolean:
		return c.Value(i)
	case *array.String:
		return c.Value(i)
	case *array.LargeString:
		return c.Value(i)
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(i).ToTime(unit).UTC()
	case *array.Date32:
		return c.Value(i).ToTime().UTC()
	case *array.Date64:
		return c.Value(i).ToTime().UTC()
	}
	return arr.ValueStr(i)
}

// Values streams every row of arr.
func Values(arr arrow.Array) iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := 0; i < arr.Len(); i++ {
			if !yield(Value(arr, i)) {
				return
			}
		}
	}
}

// Pairs streams the rows of two equally long arrays as fingerprint pairs.
func Pairs(x, y arrow.Array) (iter.Seq[any], error) {
	if x.Len() != y.Len() {
		return nil, fmt.Errorf("%d and %d rows: %w", x.Len(), y.Len(), ErrLengthMismatch)
	}
	return func(yield func(any) bool) {
		for i := 0; i < x.Len(); i++ {
			if !yield(fingerprint.Pair{X: Value(x, i), Y: Value(y, i)}) {
				return
			}
		}
	}, nil
}

// FieldFor maps an Arrow field to fingerprint type tags. The special type
// comes from the field's SpecialTypeKey metadata, if any.
func FieldFor(f arrow.Field) fingerprint.Field {
	field := fingerprint.Field{Name: f.Name, BaseType: baseType(f.Type)}
	if i := f.Metadata.FindKey(SpecialTypeKey); i >= 0 {
		field.SpecialType = fingerprint.Type(f.Metadata.Values()[i])
	}
	return field
}

func baseType(dt arrow.DataType) fingerprint.Type {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.UINT8, arrow.UINT16, arrow.UINT32:
		return fingerprint.TypeInteger
	case arrow.INT64, arrow.UINT64:
		return fingerprint.TypeBigInteger
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return fingerprint.TypeFloat
	case arrow.DECIMAL128, arrow.DECIMAL256:
		return fingerprint.TypeDecimal
	case arrow.BOOL:
		return fingerprint.TypeBoolean
	case arrow.STRING, arrow.LARGE_STRING:
		return fingerprint.TypeText
	case arrow.TIMESTAMP:
		return fingerprint.TypeDateTime
	case arrow.DATE32, arrow.DATE64:
		return fingerprint.TypeDate
	}
	return fingerprint.Type("type/" + dt.Name())
}

// Column looks up a column of rec by name.
func Column(rec arrow.Record, name string) (arrow.Array, fingerprint.Field, error) {
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fingerprint.Field{}, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}
	i := indices[0]
	return rec.Column(i), FieldFor(rec.Schema().Field(i)), nil
}
