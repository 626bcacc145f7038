package calendar

import (
	"fmt"
	"time"
)

// DayProgress holds the checked state of each period; index 0 is period 1
type DayProgress [PeriodsPerDay]bool

// Checked reports whether period p is marked. Invalid periods are never checked.
func (d DayProgress) Checked(p Period) bool {
	if !p.Valid() {
		return false
	}
	return d[p-1]
}

// Count returns the number of checked periods
func (d DayProgress) Count() int {
	n := 0
	for _, checked := range d {
		if checked {
			n++
		}
	}
	return n
}

// Empty reports whether no period is checked
func (d DayProgress) Empty() bool {
	return d.Count() == 0
}

// ProgressMap maps a day to its progress. Entries are never empty.
type ProgressMap map[DateKey]DayProgress

// Clone returns a shallow copy; DayProgress is a value type so the copy is independent
func (m ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Day returns the progress recorded for date (zero value if absent)
func (m ProgressMap) Day(date time.Time) DayProgress {
	return m[KeyOf(date)]
}

// Equal reports whether both maps hold the same checked periods
func (m ProgressMap) Equal(o ProgressMap) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Toggle flips (date, period) and returns a new map. The input is not modified.
// A day left with no checked period is removed.
func Toggle(m ProgressMap, date time.Time, period Period) (ProgressMap, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidPeriod, int(period), PeriodsPerDay)
	}

	key := KeyOf(date)
	day := m[key]
	day[period-1] = !day[period-1]

	out := m.Clone()
	if day.Empty() {
		delete(out, key)
	} else {
		out[key] = day
	}
	return out, nil
}

// CompletionCount returns how many periods of date are checked, in [0, PeriodsPerDay]
func CompletionCount(m ProgressMap, date time.Time) int {
	return m.Day(date).Count()
}

// CompletionRate returns CompletionCount as a fraction of PeriodsPerDay
func CompletionRate(m ProgressMap, date time.Time) float64 {
	return float64(CompletionCount(m, date)) / PeriodsPerDay
}

// Stats summarises a progress map
type Stats struct {
	StudiedDays    int `json:"studied_days"`
	CheckedPeriods int `json:"checked_periods"`
	FullDays       int `json:"full_days"`
}

// Summarize computes Stats over every entry. If month is non-nil only that month is counted.
func Summarize(m ProgressMap, month *Month) Stats {
	var s Stats
	var target Month
	if month != nil {
		target = month.Normalize()
	}
	for k, day := range m {
		if month != nil && (k.Year != target.Year || k.Month != target.Index) {
			continue
		}
		n := day.Count()
		if n == 0 {
			continue
		}
		s.StudiedDays++
		s.CheckedPeriods += n
		if n == PeriodsPerDay {
			s.FullDays++
		}
	}
	return s
}
