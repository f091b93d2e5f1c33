package compliance

import (
	"math"
	"time"
)

const hoursPerDay = 24

// CalculateExpiry adds validityYears to the calendar year of issueDate, keeping month and day.
// A day that does not exist in the target year (29 Feb) is clamped to the last day of that month.
// The result depends only on its inputs.
func CalculateExpiry(issueDate time.Time, validityYears int) time.Time {
	y, m, d := issueDate.Date()
	year := y + validityYears
	if last := daysIn(year, m); d > last {
		d = last
	}
	return time.Date(year, m, d, 0, 0, 0, 0, issueDate.Location())
}

// DaysUntil returns the whole days from now until expiry, rounded up. It is negative once
// expiry has passed by at least a day.
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / hoursPerDay))
}

func daysIn(year int, m time.Month) int {
	// Day 0 of the next month normalizes to the last day of m.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
