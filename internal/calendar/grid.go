package calendar

import "time"

// GenerateGrid returns the 6-week window shown for a month: GridDays consecutive
// local days starting on the Sunday on or before the 1st. Out-of-range month
// indexes roll over into the adjacent year.
func GenerateGrid(year, monthIndex int) []time.Time {
	first := Month{Year: year, Index: monthIndex}.First()
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]time.Time, GridDays)
	for i := range days {
		// AddDate keeps wall-clock midnight across DST changes
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// IsInMonth reports whether date falls inside the (normalized) target month
func IsInMonth(date time.Time, year, monthIndex int) bool {
	return MonthOf(date) == Month{Year: year, Index: monthIndex}.Normalize()
}

// IsToday reports whether date is on the current local day
func IsToday(date time.Time) bool {
	return IsSameDay(date, time.Now())
}

// IsSameDay compares wall-clock calendar days, ignoring time of day
func IsSameDay(a, b time.Time) bool {
	return KeyOf(a) == KeyOf(b)
}
