package fingerprint

import "strings"

// Type is a column type tag. Tags form a tree: every tag except TypeAll has
// one parent, and a tag IsA each of its ancestors.
type Type string

const (
	TypeAll Type = "type/*"

	TypeNumber     Type = "type/Number"
	TypeInteger    Type = "type/Integer"
	TypeBigInteger Type = "type/BigInteger"
	TypeFloat      Type = "type/Float"
	TypeDecimal    Type = "type/Decimal"
	TypeCurrency   Type = "type/Currency"
	TypeScore      Type = "type/Score"
	TypeCoordinate Type = "type/Coordinate"
	TypeLatitude   Type = "type/Latitude"
	TypeLongitude  Type = "type/Longitude"

	TypeText  Type = "type/Text"
	TypeEmail Type = "type/Email"
	TypeURL   Type = "type/URL"

	TypeCategory Type = "type/Category"
	TypeBoolean  Type = "type/Boolean"
	TypeEnum     Type = "type/Enum"
	TypeName     Type = "type/Name"
	TypeCity     Type = "type/City"
	TypeState    Type = "type/State"
	TypeCountry  Type = "type/Country"

	TypeDateTime                  Type = "type/DateTime"
	TypeDate                      Type = "type/Date"
	TypeTime                      Type = "type/Time"
	TypeUNIXTimestamp             Type = "type/UNIXTimestamp"
	TypeUNIXTimestampSeconds      Type = "type/UNIXTimestampSeconds"
	TypeUNIXTimestampMilliseconds Type = "type/UNIXTimestampMilliseconds"
)

var parents = map[Type]Type{
	TypeNumber:     TypeAll,
	TypeInteger:    TypeNumber,
	TypeBigInteger: TypeInteger,
	TypeFloat:      TypeNumber,
	TypeDecimal:    TypeFloat,
	TypeCurrency:   TypeDecimal,
	TypeScore:      TypeNumber,
	TypeCoordinate: TypeFloat,
	TypeLatitude:   TypeCoordinate,
	TypeLongitude:  TypeCoordinate,

	TypeText:  TypeAll,
	TypeEmail: TypeText,
	TypeURL:   TypeText,

	TypeCategory: TypeAll,
	TypeBoolean:  TypeCategory,
	TypeEnum:     TypeCategory,
	TypeName:     TypeCategory,
	TypeCity:     TypeCategory,
	TypeState:    TypeCategory,
	TypeCountry:  TypeCategory,

	TypeDateTime:                  TypeAll,
	TypeDate:                      TypeDateTime,
	TypeTime:                      TypeDateTime,
	TypeUNIXTimestamp:             TypeDateTime,
	TypeUNIXTimestampSeconds:      TypeUNIXTimestamp,
	TypeUNIXTimestampMilliseconds: TypeUNIXTimestamp,
}

// IsA reports whether t is ancestor or one of its descendants. The empty
// tag is nothing, not even TypeAll.
func (t Type) IsA(ancestor Type) bool {
	if t == "" {
		return false
	}
	for {
		if t == ancestor {
			return true
		}
		parent, ok := parents[t]
		if !ok {
			// Unknown tags still sit under the root.
			return ancestor == TypeAll
		}
		t = parent
	}
}

// Field describes the column a fingerprint is computed for. It is carried
// through to the output untouched.
type Field struct {
	Name        string `json:"name"`
	BaseType    Type   `json:"base_type"`
	SpecialType Type   `json:"special_type,omitempty"`
}

// Tags is the dispatch key of one field.
type Tags struct {
	Base    Type `json:"base"`
	Special Type `json:"special,omitempty"`
}

func (f Field) Tags() Tags {
	return Tags{Base: f.BaseType, Special: f.SpecialType}
}

func (t Tags) IsA(ancestor Type) bool {
	return t.Base.IsA(ancestor) || t.Special.IsA(ancestor)
}

func (t Tags) String() string {
	if t.Special == "" {
		return string(t.Base)
	}
	return string(t.Base) + "+" + string(t.Special)
}

// Signature is the dispatch key of a fingerprint: the tags of one field, or
// of an (x, y) pair of fields.
type Signature []Tags

func SignatureOf(fields ...Field) Signature {
	sig := make(Signature, len(fields))
	for i, f := range fields {
		sig[i] = f.Tags()
	}
	return sig
}

func (sig Signature) String() string {
	parts := make([]string, len(sig))
	for i, tags := range sig {
		parts[i] = tags.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
