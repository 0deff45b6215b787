package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"club-service/internal/calendar"
)

func mustCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.NewFromName("Europe/Paris")
	require.NoError(t, err)
	return cal
}

func civil(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, loc)
	require.NoError(t, err)
	return ts
}

func TestToCivil_ConvertsUTC(t *testing.T) {
	cal := mustCalendar(t)

	// 16:00 UTC in September is 18:00 in Paris (CEST, UTC+2).
	utc := time.Date(2025, 9, 8, 16, 0, 0, 0, time.UTC)
	got := cal.ToCivil(utc)

	require.Equal(t, 18, got.Hour())
	require.Equal(t, 8, got.Day())
}

func TestISOWeek(t *testing.T) {
	cal := mustCalendar(t)

	tests := []struct {
		name     string
		ts       string
		wantYear int
		wantWeek int
	}{
		{"september monday", "2025-09-08 18:00:00", 2025, 37},
		{"following week", "2025-09-15 18:00:00", 2025, 38},
		{"year boundary belongs to next iso year", "2025-12-29 10:00:00", 2026, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := cal.ISOWeek(civil(t, tt.ts))
			require.Equal(t, tt.wantYear, year)
			require.Equal(t, tt.wantWeek, week)
		})
	}
}

func TestWeekParity(t *testing.T) {
	cal := mustCalendar(t)

	require.Equal(t, calendar.ParityOdd, cal.WeekParity(civil(t, "2025-09-08 18:00:00")))  // week 37
	require.Equal(t, calendar.ParityEven, cal.WeekParity(civil(t, "2025-09-15 18:00:00"))) // week 38
}

func TestSameISOWeek(t *testing.T) {
	cal := mustCalendar(t)

	require.True(t, cal.SameISOWeek(civil(t, "2025-09-08 09:00:00"), civil(t, "2025-09-14 23:00:00")))
	require.False(t, cal.SameISOWeek(civil(t, "2025-09-08 09:00:00"), civil(t, "2025-09-15 09:00:00")))
}

func TestSameCivilDate_UsesCivilZoneNotUTC(t *testing.T) {
	cal := mustCalendar(t)

	// 23:30 UTC is already the next day in Paris.
	late := time.Date(2025, 9, 8, 23, 30, 0, 0, time.UTC)
	require.False(t, cal.SameCivilDate(late, civil(t, "2025-09-08 12:00:00")))
	require.True(t, cal.SameCivilDate(late, civil(t, "2025-09-09 12:00:00")))
}

func TestWithTimeOfDay(t *testing.T) {
	cal := mustCalendar(t)

	target := civil(t, "2025-09-15 09:30:00")
	source := civil(t, "2025-09-08 18:45:30")

	got := cal.WithTimeOfDay(target, source)

	require.Equal(t, civil(t, "2025-09-15 18:45:30"), got)
}

func TestWithTimeOfDay_AcrossDSTBoundary(t *testing.T) {
	cal := mustCalendar(t)

	// Paris leaves DST on 2025-10-26; the transform works on civil
	// clocks, so the hour carries over unchanged.
	target := civil(t, "2025-10-27 18:00:00")
	source := civil(t, "2025-10-20 20:15:00")

	got := cal.WithTimeOfDay(target, source)

	require.Equal(t, 20, got.Hour())
	require.Equal(t, 15, got.Minute())
	require.Equal(t, 27, got.Day())
}

func TestNextWeekdayOnOrAfter(t *testing.T) {
	cal := mustCalendar(t)

	from := civil(t, "2025-09-08 00:00:00") // Monday, ISO week 37 (odd)

	got, err := cal.NextWeekdayOnOrAfter(time.Tuesday, from, nil)
	require.NoError(t, err)
	require.Equal(t, civil(t, "2025-09-09 00:00:00"), got)

	// Same weekday counts when the date itself matches.
	got, err = cal.NextWeekdayOnOrAfter(time.Monday, from, nil)
	require.NoError(t, err)
	require.Equal(t, civil(t, "2025-09-08 00:00:00"), got)
}

func TestNextWeekdayOnOrAfter_WithParity(t *testing.T) {
	cal := mustCalendar(t)

	from := civil(t, "2025-09-08 00:00:00") // ISO week 37, odd

	even := calendar.ParityEven
	got, err := cal.NextWeekdayOnOrAfter(time.Tuesday, from, &even)
	require.NoError(t, err)
	// The first even-week Tuesday is in week 38.
	require.Equal(t, civil(t, "2025-09-16 00:00:00"), got)

	odd := calendar.ParityOdd
	got, err = cal.NextWeekdayOnOrAfter(time.Tuesday, from, &odd)
	require.NoError(t, err)
	require.Equal(t, civil(t, "2025-09-09 00:00:00"), got)
}

func TestSeasonEnd(t *testing.T) {
	cal := mustCalendar(t)

	tests := []struct {
		name string
		from string
		want string
	}{
		{"after july rolls to next year", "2025-09-08 18:00:00", "2026-07-31 00:00:00"},
		{"spring stays in season", "2026-03-01 10:00:00", "2026-07-31 00:00:00"},
		{"july 31 itself", "2026-07-31 09:00:00", "2026-07-31 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, civil(t, tt.want), cal.SeasonEnd(civil(t, tt.from)))
		})
	}
}
