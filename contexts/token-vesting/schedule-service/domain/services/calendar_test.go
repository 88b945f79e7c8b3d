package services

import (
	"errors"
	"testing"
	"time"

	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
)

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampedEndOfMonth(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"jan31 plus one leap year", utc(2024, time.January, 31, 0), 1, utc(2024, time.February, 29, 0)},
		{"jan31 plus one common year", utc(2023, time.January, 31, 0), 1, utc(2023, time.February, 28, 0)},
		{"jan31 plus two lands on mar31", utc(2023, time.January, 31, 0), 2, utc(2023, time.March, 31, 0)},
		{"mar31 plus one clamps to apr30", utc(2023, time.March, 31, 0), 1, utc(2023, time.April, 30, 0)},
		{"dec15 crosses year", utc(2023, time.December, 15, 0), 1, utc(2024, time.January, 15, 0)},
		{"twelve months full horizon", utc(2024, time.February, 29, 0), 12, utc(2025, time.February, 28, 0)},
		{"mid month unaffected", utc(2024, time.June, 10, 0), 3, utc(2024, time.September, 10, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AddMonthsClamped(tc.start, tc.months)
			if !got.Equal(tc.want) {
				t.Fatalf("AddMonthsClamped(%v, %d) = %v, want %v", tc.start, tc.months, got, tc.want)
			}
		})
	}
}

func TestAddMonthsClampedPreservesTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 31, 14, 30, 45, 7, time.UTC)
	got := AddMonthsClamped(start, 1)
	want := time.Date(2024, time.February, 29, 14, 30, 45, 7, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMonthIndexBeforeStart(t *testing.T) {
	start := utc(2025, time.March, 1, 0)
	if _, err := MonthIndex(start.Add(-time.Second), start); !errors.Is(err, domainerrors.ErrBeforeStart) {
		t.Fatalf("expected ErrBeforeStart, got %v", err)
	}
}

func TestMonthIndexBoundaries(t *testing.T) {
	start := utc(2025, time.January, 31, 0)
	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"at start", start, 0},
		{"one second before first boundary", utc(2025, time.February, 28, 0).Add(-time.Second), 0},
		{"exactly at first boundary", utc(2025, time.February, 28, 0), 1},
		{"between first and second", utc(2025, time.March, 15, 0), 1},
		{"exactly at third boundary", utc(2025, time.April, 30, 0), 3},
		{"exactly at twelfth boundary", utc(2026, time.January, 31, 0), 12},
		{"years past the horizon", utc(2030, time.June, 1, 0), 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MonthIndex(tc.now, start)
			if err != nil {
				t.Fatalf("MonthIndex: %v", err)
			}
			if got != tc.want {
				t.Fatalf("MonthIndex(%v) = %d, want %d", tc.now, got, tc.want)
			}
		})
	}
}

func TestAfterHorizon(t *testing.T) {
	start := utc(2025, time.January, 31, 0)
	twelfth := utc(2026, time.January, 31, 0)

	if AfterHorizon(twelfth.Add(-time.Second), start) {
		t.Fatalf("one second before the twelfth boundary is inside the horizon")
	}
	if !AfterHorizon(twelfth, start) {
		t.Fatalf("the twelfth boundary instant is past the horizon")
	}
	if AfterHorizon(start.Add(-time.Hour), start) {
		t.Fatalf("before start is never past the horizon")
	}
}
