package sketch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotNumeric = errors.New("value is not numeric")

// ToFloat coerces a numeric value. Numeric strings are accepted; NaN and
// infinities are rejected.
func ToFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case decimal.Decimal:
		f, _ = x.Float64()
	case *decimal.Decimal:
		if x == nil {
			return 0, fmt.Errorf("nil %T: %w", v, ErrNotNumeric)
		}
		f, _ = x.Float64()
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q: %w", x, ErrNotNumeric)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", x, ErrNotNumeric)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%T: %w", v, ErrNotNumeric)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v: %w", f, ErrNotNumeric)
	}
	return f, nil
}

// Key is the byte encoding used to identify a value in sketches.
func Key(v any) []byte {
	switch x := v.(type) {
	case string:
		return []byte(x)
	case []byte:
		return x
	case float64:
		return strconv.AppendFloat(nil, x, 'g', -1, 64)
	case float32:
		return strconv.AppendFloat(nil, float64(x), 'g', -1, 32)
	case int:
		return strconv.AppendInt(nil, int64(x), 10)
	case int64:
		return strconv.AppendInt(nil, x, 10)
	case int32:
		return strconv.AppendInt(nil, int64(x), 10)
	case bool:
		return strconv.AppendBool(nil, x)
	case time.Time:
		return strconv.AppendInt(nil, x.UnixNano(), 10)
	case decimal.Decimal:
		return []byte(x.String())
	default:
		return fmt.Appendf(nil, "%v", v)
	}
}
