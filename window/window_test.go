package window

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScale_Truncate(t *testing.T) {
	ts := time.Date(2024, time.January, 10, 15, 4, 5, 0, time.UTC) // Wednesday

	assert.Equal(t, ts, Raw.Truncate(ts))
	assert.Equal(t, date(2024, time.January, 10), Day.Truncate(ts))
	assert.Equal(t, date(2024, time.January, 8), Week.Truncate(ts))
	assert.Equal(t, date(2024, time.January, 8), Week.Truncate(date(2024, time.January, 14)))
	assert.Equal(t, date(2024, time.January, 1), Week.Truncate(date(2024, time.January, 1)))
	assert.Equal(t, date(2024, time.January, 1), Month.Truncate(ts))
}

func TestScale_Truncate_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := time.Date(2024, time.March, 1, 1, 0, 0, 0, loc)

	got := Month.Truncate(ts)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestScale_Next(t *testing.T) {
	assert.Equal(t, date(2024, time.March, 1), Month.Next(date(2024, time.February, 1)))
	assert.Equal(t, date(2024, time.January, 15), Week.Next(date(2024, time.January, 8)))
	assert.Equal(t, date(2024, time.March, 1), Day.Next(date(2024, time.February, 29)))
}

func TestParseScale(t *testing.T) {
	for text, want := range map[string]Scale{"raw": Raw, "": Raw, "Day": Day, " week ": Week, "MONTH": Month} {
		got, err := ParseScale(text)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseScale("fortnight")
	assert.Error(t, err)

	var s Scale
	require.NoError(t, s.UnmarshalText([]byte("week")))
	assert.Equal(t, Week, s)
	assert.Equal(t, "week", s.String())
}

func TestSeasonLength(t *testing.T) {
	assert.Equal(t, 12, Month.SeasonLength())
	assert.Equal(t, 52, Week.SeasonLength())
	assert.Equal(t, 365, Day.SeasonLength())
	assert.Equal(t, 24, Month.MinDecompositionPoints())
	assert.Equal(t, 104, Week.MinDecompositionPoints())
	assert.Equal(t, 730, Day.MinDecompositionPoints())
	assert.Equal(t, 0, Raw.MinDecompositionPoints())
}

func TestFillGaps_Month(t *testing.T) {
	series := []Point{
		{Time: date(2024, time.January, 1), Value: 1},
		{Time: date(2024, time.March, 1), Value: 3},
		{Time: date(2024, time.April, 1), Value: 4},
	}

	want := []Point{
		{Time: date(2024, time.January, 1), Value: 1},
		{Time: date(2024, time.February, 1), Value: 0},
		{Time: date(2024, time.March, 1), Value: 3},
		{Time: date(2024, time.April, 1), Value: 4},
	}
	if diff := cmp.Diff(want, FillGaps(series, Month)); diff != "" {
		t.Errorf("FillGaps() mismatch (-want +got):\n%s", diff)
	}
}

func TestFillGaps_Day(t *testing.T) {
	series := []Point{
		{Time: date(2024, time.February, 27), Value: 2},
		{Time: date(2024, time.March, 2), Value: 5},
	}

	filled := FillGaps(series, Day)
	require.Len(t, filled, 5)
	assert.Equal(t, 2.0, filled[0].Value)
	assert.Equal(t, date(2024, time.February, 29), filled[2].Time)
	assert.Equal(t, 0.0, filled[2].Value)
	assert.Equal(t, 5.0, filled[4].Value)
}

func TestFillGaps_Raw(t *testing.T) {
	series := []Point{{Time: date(2024, time.January, 1), Value: 1}, {Time: date(2024, time.June, 1), Value: 2}}
	assert.Equal(t, series, FillGaps(series, Raw))
	assert.Empty(t, FillGaps(nil, Month))
}

func TestFrequencies(t *testing.T) {
	earliest := date(2023, time.January, 15)
	latest := date(2024, time.March, 2)

	months := MonthFrequencies(earliest, latest)
	assert.Len(t, months, 12)
	for m := 1; m <= 12; m++ {
		want := 1
		if m <= 3 {
			want = 2
		}
		assert.Equal(t, want, months[m], "month %d", m)
	}

	assert.Equal(t, map[int]int{1: 2, 2: 1, 3: 1, 4: 1}, QuarterFrequencies(earliest, latest))
	assert.Empty(t, MonthFrequencies(latest, earliest))
}

func TestQuarter(t *testing.T) {
	assert.Equal(t, 1, Quarter(date(2024, time.March, 31)))
	assert.Equal(t, 2, Quarter(date(2024, time.April, 1)))
	assert.Equal(t, 4, Quarter(date(2024, time.December, 31)))
}

func TestReweigh(t *testing.T) {
	expected := MonthFrequencies(date(2023, time.January, 15), date(2024, time.March, 2))
	got := Reweigh(map[int]float64{1: 10, 4: 5}, expected)
	assert.Equal(t, map[int]float64{1: 5, 4: 5}, got)

	got = Reweigh(map[int]float64{1: 10}, nil)
	assert.Equal(t, map[int]float64{1: 10}, got)
}
