package portfolio

import (
	"time"

	"github.com/bobmcallan/planlens/internal/models"
)

// postingDate returns the date a schedule contributes in the given month, if any.
// Lump sums post once, in the month of their start date. SIPs post on the start
// day-of-month (clamped to the month length) unless that date is before the
// start, after the end, or after today.
func postingDate(s models.ContributionSchedule, year int, month time.Month, today time.Time) (time.Time, bool) {
	start := models.Day(s.StartDate)

	if s.Type == models.ContributionLumpsum {
		if start.Year() == year && start.Month() == month {
			return start, true
		}
		return time.Time{}, false
	}

	candidate := models.ClampedDay(year, month, start.Day())
	if candidate.Before(start) {
		return time.Time{}, false
	}
	if s.HasEnd() && candidate.After(models.Day(s.EndDate)) {
		return time.Time{}, false
	}
	if candidate.After(models.Day(today)) {
		return time.Time{}, false
	}
	return candidate, true
}

// eachMonth calls fn for the first day of every month from the month of from
// through the month of to, inclusive.
func eachMonth(from, to time.Time, fn func(month time.Time)) {
	last := models.MonthStart(to)
	for m := models.MonthStart(from); !m.After(last); m = m.AddDate(0, 1, 0) {
		fn(m)
	}
}
