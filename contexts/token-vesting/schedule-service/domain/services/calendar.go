package services

import (
	"time"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
)

// Calendar-month accrual math. All arithmetic is UTC; adding months clamps
// the day-of-month to the target month's last valid day and never rolls into
// the following month (Jan 31 + 1 month = Feb 28/29, not Mar 2).
//
// time.AddDate cannot be used here: it normalizes overflowing days instead of
// clamping them.

// AddMonthsClamped returns t shifted by the given number of calendar months,
// with clamped day-of-month and the time of day preserved.
func AddMonthsClamped(t time.Time, months int) time.Time {
	t = t.UTC()
	year, month, day := t.Date()

	total := year*12 + int(month) - 1 + months
	targetYear := total / 12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		targetYear--
		targetMonth = time.Month(total%12 + 12 + 1)
	}

	if max := daysInMonth(targetYear, targetMonth); day > max {
		day = max
	}
	return time.Date(targetYear, targetMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Boundary returns the k-th vesting boundary instant (start + k months).
func Boundary(start time.Time, k int) time.Time {
	return AddMonthsClamped(start, k)
}

// MonthIndex counts the vesting boundaries (k = 1..12) reached at now,
// inclusive at the boundary instant. It is 0 in [start, boundary 1) and
// saturates at 12. now before start is a caller error.
func MonthIndex(now, start time.Time) (int, error) {
	now = now.UTC()
	start = start.UTC()
	if now.Before(start) {
		return 0, domainerrors.ErrBeforeStart
	}
	reached := 0
	for k := 1; k <= entities.DurationMonths; k++ {
		if now.Before(Boundary(start, k)) {
			break
		}
		reached = k
	}
	return reached, nil
}

// AfterHorizon reports whether now is at or past the 12th boundary.
func AfterHorizon(now, start time.Time) bool {
	now = now.UTC()
	if now.Before(start.UTC()) {
		return false
	}
	return !now.Before(Boundary(start.UTC(), entities.DurationMonths))
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
