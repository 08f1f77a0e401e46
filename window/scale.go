// Package window aligns time series to calendar periods: truncation,
// stepping, gap filling and the cyclical bookkeeping needed to compare
// month and quarter buckets fairly.
package window

import (
	"fmt"
	"strings"
	"time"
)

// Scale is the calendar period temporal values are bucketed into.
type Scale int

const (
	Raw Scale = iota
	Day
	Week
	Month
)

func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return Raw, nil
	case "day":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	}
	return Raw, fmt.Errorf("unknown scale %q", s)
}

func (s Scale) String() string {
	switch s {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return "raw"
}

func (s Scale) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scale) UnmarshalText(text []byte) error {
	parsed, err := ParseScale(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Truncate returns the start of the period containing t, in t's location.
// Weeks start on Monday. Raw returns t unchanged.
func (s Scale) Truncate(t time.Time) time.Time {
	year, month, day := t.Date()
	switch s {
	case Day:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	case Week:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(year, month, day-offset, 0, 0, 0, 0, t.Location())
	case Month:
		return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	}
	return t
}

// Next steps a period start to the following period start.
func (s Scale) Next(t time.Time) time.Time {
	switch s {
	case Day:
		return t.AddDate(0, 0, 1)
	case Week:
		return t.AddDate(0, 0, 7)
	case Month:
		return t.AddDate(0, 1, 0)
	}
	return t
}

// SeasonLength is the number of periods in one seasonal cycle (a year).
func (s Scale) SeasonLength() int {
	switch s {
	case Day:
		return 365
	case Week:
		return 52
	case Month:
		return 12
	}
	return 0
}

// MinDecompositionPoints is two full seasonal cycles.
func (s Scale) MinDecompositionPoints() int {
	return 2 * s.SeasonLength()
}
