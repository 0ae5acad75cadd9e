package schedule

import "time"

const day = 24 * time.Hour

// civil strips the clock and location from t, keeping its calendar date
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date returns the civil date used throughout the engine
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Sunday on or before January 1 of year
func WeekStart(year int) time.Time {
	jan1 := Date(year, time.January, 1)
	return jan1.AddDate(0, 0, -int(jan1.Weekday()))
}

// WeekNumber counts Sunday-based weeks, the week holding January 1 being week 1
func WeekNumber(date time.Time) int {
	d := civil(date)
	days := int(d.Sub(WeekStart(d.Year())) / day)
	return days/7 + 1
}

// IsRecyclingWeek reports whether date falls in a trash and recycling week.
// Week 1 is trash-only and the weeks alternate from there.
func IsRecyclingWeek(date time.Time) bool {
	return WeekNumber(date)%2 == 0
}
