package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGrid(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := -13; month <= 24; month++ {
			days := GenerateGrid(year, month)
			require.Len(t, days, GridDays)

			assert.Equal(t, time.Sunday, days[0].Weekday(), "grid %d/%d must start on Sunday", year, month)
			for i := 1; i < len(days); i++ {
				want := days[i-1].AddDate(0, 0, 1)
				if !assert.Equal(t, KeyOf(want), KeyOf(days[i]), "grid %d/%d day %d", year, month, i) {
					return
				}
			}

			first := Month{Year: year, Index: month}.First()
			assert.Contains(t, keysOf(days), KeyOf(first), "grid %d/%d must contain the 1st", year, month)
		}
	}
}

func TestGenerateGridFebruary2024(t *testing.T) {
	days := GenerateGrid(2024, 1)

	assert.Equal(t, DateKey{Year: 2024, Month: 0, Day: 28}, KeyOf(days[0]))
	assert.Equal(t, time.Thursday, days[4].Weekday())
	assert.Equal(t, DateKey{Year: 2024, Month: 1, Day: 1}, KeyOf(days[4]))
	assert.Equal(t, DateKey{Year: 2024, Month: 2, Day: 9}, KeyOf(days[41]))
}

func TestGenerateGridRollover(t *testing.T) {
	assert.Equal(t, GenerateGrid(2025, 0), GenerateGrid(2024, 12))
	assert.Equal(t, GenerateGrid(2023, 11), GenerateGrid(2024, -1))
	assert.Equal(t, GenerateGrid(2022, 10), GenerateGrid(2024, -14))
}

func TestIsInMonth(t *testing.T) {
	days := GenerateGrid(2024, 1)

	assert.False(t, IsInMonth(days[0], 2024, 1), "Jan 28 is not in February")
	assert.True(t, IsInMonth(days[4], 2024, 1))
	assert.True(t, IsInMonth(days[4], 2023, 13), "index 13 of 2023 is February 2024")
	assert.False(t, IsInMonth(days[4], 2023, 1), "same month, different year")

	inMonth := 0
	for _, d := range days {
		if IsInMonth(d, 2024, 1) {
			inMonth++
		}
	}
	assert.Equal(t, 29, inMonth)
}

func TestIsToday(t *testing.T) {
	now := time.Now()
	assert.True(t, IsToday(now))
	assert.True(t, IsToday(time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, time.Local)))
	assert.False(t, IsToday(now.AddDate(0, 0, -1)))
	assert.False(t, IsToday(now.AddDate(1, 0, 0)))
}

func TestIsSameDay(t *testing.T) {
	morning := time.Date(2024, 3, 15, 0, 0, 1, 0, time.Local)
	evening := time.Date(2024, 3, 15, 23, 59, 59, 0, time.Local)
	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(morning, morning.Add(-2*time.Second)))
}

func TestMonthNavigation(t *testing.T) {
	tests := []struct {
		name string
		in   Month
		prev Month
		next Month
	}{
		{"January", Month{2024, 0}, Month{2023, 11}, Month{2024, 1}},
		{"December", Month{2024, 11}, Month{2024, 10}, Month{2025, 0}},
		{"Mid year", Month{2024, 5}, Month{2024, 4}, Month{2024, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.prev, tt.in.Previous())
			assert.Equal(t, tt.next, tt.in.Next())
		})
	}
}

func TestMonthTitle(t *testing.T) {
	assert.Equal(t, "2024년 3월", Month{2024, 2}.Title())
	assert.Equal(t, "2025년 1월", Month{2024, 12}.Title())
}

func keysOf(days []time.Time) []DateKey {
	keys := make([]DateKey, len(days))
	for i, d := range days {
		keys[i] = KeyOf(d)
	}
	return keys
}
