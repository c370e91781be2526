package semantic

import "time"

// AddBusinessDays advances start by n business days, skipping Saturdays,
// Sundays, and the Florida state-holiday set. The result is always a
// business day.
func AddBusinessDays(start time.Time, n int) time.Time {
	current := start
	remaining := n
	for remaining > 0 {
		current = current.AddDate(0, 0, 1)
		if IsBusinessDay(current) {
			remaining--
		}
	}
	return current
}

// IsBusinessDay reports whether date is neither a weekend nor a listed
// Florida state holiday.
func IsBusinessDay(date time.Time) bool {
	return !isWeekend(date) && !IsHoliday(date)
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether date is a Florida state holiday — the fixed set
// {Jan 1, Jul 4, Nov 11, Dec 25} or a floating holiday (MLK Day, Memorial
// Day, Labor Day, Thanksgiving, day-after-Thanksgiving).
func IsHoliday(date time.Time) bool {
	if isFixedHoliday(date.Month(), date.Day()) {
		return true
	}
	return isFloatingHoliday(date)
}

func isFixedHoliday(month time.Month, day int) bool {
	switch {
	case month == time.January && day == 1:
		return true
	case month == time.July && day == 4:
		return true
	case month == time.November && day == 11:
		return true
	case month == time.December && day == 25:
		return true
	default:
		return false
	}
}

func isFloatingHoliday(date time.Time) bool {
	year := date.Year()

	if sameDate(date, nthWeekdayOfMonth(year, time.January, time.Monday, 3)) {
		return true // MLK Day
	}
	if sameDate(date, lastWeekdayOfMonth(year, time.May, time.Monday)) {
		return true // Memorial Day
	}
	if sameDate(date, nthWeekdayOfMonth(year, time.September, time.Monday, 1)) {
		return true // Labor Day
	}
	thanksgiving := nthWeekdayOfMonth(year, time.November, time.Thursday, 4)
	if sameDate(date, thanksgiving) {
		return true // Thanksgiving
	}
	if sameDate(date, thanksgiving.AddDate(0, 0, 1)) {
		return true // day after Thanksgiving
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// nthWeekdayOfMonth returns the nth occurrence of weekday in month/year.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			count++
			if count == n {
				return d
			}
		}
	}
	return time.Time{}
}

// lastWeekdayOfMonth returns the last occurrence of weekday in month/year.
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	nextMonth := month + 1
	nextYear := year
	if nextMonth > time.December {
		nextMonth = time.January
		nextYear++
	}
	lastDay := time.Date(nextYear, nextMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d := lastDay; d.Month() == month; d = d.AddDate(0, 0, -1) {
		if d.Weekday() == weekday {
			return d
		}
	}
	return time.Time{}
}
