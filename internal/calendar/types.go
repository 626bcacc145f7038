package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Constants
const (
	PeriodsPerDay = 6
	GridDays      = 42
	DaysPerWeek   = 7

	// StorageKey is the key the progress map is persisted under
	StorageKey = "study_diary_progress"
)

var (
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrInvalidDateKey = errors.New("invalid date key")
	ErrMalformedData  = errors.New("malformed persisted data")
)

// Period is one of the six daily class periods (1..PeriodsPerDay)
type Period int

// Valid reports whether p is inside [1, PeriodsPerDay]
func (p Period) Valid() bool {
	return p >= 1 && p <= PeriodsPerDay
}

// Label returns the display label, e.g. "3교시"
func (p Period) Label() string {
	return fmt.Sprintf("%d교시", int(p))
}

// Periods returns all valid periods in order
func Periods() []Period {
	periods := make([]Period, PeriodsPerDay)
	for i := range periods {
		periods[i] = Period(i + 1)
	}
	return periods
}

// DateKey identifies a local calendar day. Month is zero-based.
type DateKey struct {
	Year  int
	Month int
	Day   int
}

// KeyOf returns the DateKey of t in t's own location
func KeyOf(t time.Time) DateKey {
	return DateKey{Year: t.Year(), Month: int(t.Month()) - 1, Day: t.Day()}
}

// Time returns local midnight of the day
func (k DateKey) Time() time.Time {
	return time.Date(k.Year, time.Month(k.Month+1), k.Day, 0, 0, 0, 0, time.Local)
}

// String returns the persisted form "<year>-<monthIndex>-<day>"
func (k DateKey) String() string {
	return fmt.Sprintf("%d-%d-%d", k.Year, k.Month, k.Day)
}

// Compare orders keys by year, month, day
func (k DateKey) Compare(o DateKey) int {
	switch {
	case k.Year != o.Year:
		return cmpInt(k.Year, o.Year)
	case k.Month != o.Month:
		return cmpInt(k.Month, o.Month)
	default:
		return cmpInt(k.Day, o.Day)
	}
}

// Valid reports whether the key names a real calendar day
func (k DateKey) Valid() bool {
	if k.Month < 0 || k.Month > 11 || k.Day < 1 {
		return false
	}
	return KeyOf(k.Time()) == k
}

// MarshalText implements encoding.TextMarshaler
func (k DateKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *DateKey) UnmarshalText(b []byte) error {
	parsed, err := ParseDateKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseDateKey parses "<year>-<monthIndex>-<day>". The year may be negative.
func ParseDateKey(s string) (DateKey, error) {
	neg := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimPrefix(s, "-"), "-")
	if len(parts) != 3 {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || strings.HasPrefix(part, "+") {
			return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
		}
		nums[i] = n
	}
	if neg {
		nums[0] = -nums[0]
	}

	k := DateKey{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !k.Valid() {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}
	return k, nil
}

// ParseISODate parses "2006-01-02" (one-based month) into a DateKey
func ParseISODate(s string) (DateKey, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}
	return KeyOf(t), nil
}

// ISO formats the key as "2006-01-02"
func (k DateKey) ISO() string {
	return k.Time().Format("2006-01-02")
}

// Month is a displayed calendar month. Index is zero-based.
type Month struct {
	Year  int `json:"year"`
	Index int `json:"month"`
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Index: int(t.Month()) - 1}
}

// Normalize carries an out-of-range index into adjacent years
func (m Month) Normalize() Month {
	return MonthOf(m.First())
}

// First returns local midnight of the first day of the month
func (m Month) First() time.Time {
	return time.Date(m.Year, time.Month(m.Index+1), 1, 0, 0, 0, 0, time.Local)
}

// Previous returns the month before m
func (m Month) Previous() Month {
	return Month{Year: m.Year, Index: m.Index - 1}.Normalize()
}

// Next returns the month after m
func (m Month) Next() Month {
	return Month{Year: m.Year, Index: m.Index + 1}.Normalize()
}

// Title returns the header label, e.g. "2024년 3월"
func (m Month) Title() string {
	n := m.Normalize()
	return fmt.Sprintf("%d년 %s", n.Year, MonthNames[n.Index])
}

// MonthNames and WeekdayNames are the display labels, Sunday first
var (
	MonthNames   = []string{"1월", "2월", "3월", "4월", "5월", "6월", "7월", "8월", "9월", "10월", "11월", "12월"}
	WeekdayNames = []string{"일", "월", "화", "수", "목", "금", "토"}
)

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
