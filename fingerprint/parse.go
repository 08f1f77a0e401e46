package fingerprint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"xray/sketch"
)

var ErrUnparseableTime = errors.New("value is not a point in time")

var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05Z07:00",
	}

	dateLayouts = []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"01/02/06",
		"1/2/06",
	}
)

// ParseTime reads v as an instant in loc. Strings are tried against the
// RFC 3339 and common date layouts; layouts without a zone are read in loc.
// Numbers are epoch offsets, accepted only when the base or special tag is a
// UNIX timestamp type: milliseconds for TypeUNIXTimestampMilliseconds,
// seconds otherwise.
func ParseTime(v any, tags Tags, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch x := v.(type) {
	case time.Time:
		return x.In(loc), nil
	case *time.Time:
		if x != nil {
			return x.In(loc), nil
		}
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateTimeLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t.In(loc), nil
			}
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, nil
			}
		}
	default:
		if !tags.IsA(TypeUNIXTimestamp) {
			break
		}
		f, err := sketch.ToFloat(v)
		if err != nil {
			break
		}
		if tags.IsA(TypeUNIXTimestampMilliseconds) {
			return time.UnixMilli(int64(f)).In(loc), nil
		}
		return time.Unix(int64(f), 0).In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%v: %w", v, ErrUnparseableTime)
}

// epoch is the numeric form instants take inside sketches.
func epoch(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func fromEpoch(ms float64, loc *time.Location) time.Time {
	return time.UnixMilli(int64(ms)).In(loc)
}
