package calendar

import (
	"fmt"
	"time"
)

// Cell is the read-only view of one grid day
type Cell struct {
	Date      string  `json:"date"`
	Key       DateKey `json:"key"`
	Day       int     `json:"day"`
	Weekday   int     `json:"weekday"`
	InMonth   bool    `json:"in_month"`
	Today     bool    `json:"today"`
	Expanded  bool    `json:"expanded"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
	Holiday   string  `json:"holiday,omitempty"`
}

// PeriodItem is one row of the expanded checklist
type PeriodItem struct {
	Period  Period `json:"period"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Panel is the detail view of the expanded date
type Panel struct {
	Date      string       `json:"date"`
	Key       DateKey      `json:"key"`
	Title     string       `json:"title"`
	Periods   []PeriodItem `json:"periods"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
}

// View is everything a renderer needs for one month
type View struct {
	Title    string   `json:"title"`
	Month    Month    `json:"month"`
	Weekdays []string `json:"weekdays"`
	Cells    []Cell   `json:"cells"`
	Panel    *Panel   `json:"panel,omitempty"`
}

// BuildView derives the view model of s; now decides which cell is today
func BuildView(s State, now time.Time) View {
	month := s.View.Month.Normalize()
	grid := GenerateGrid(month.Year, month.Index)

	v := View{
		Title:    month.Title(),
		Month:    month,
		Weekdays: WeekdayNames,
		Cells:    make([]Cell, 0, len(grid)),
	}

	for _, date := range grid {
		key := KeyOf(date)
		count := CompletionCount(s.Progress, date)
		v.Cells = append(v.Cells, Cell{
			Date:      key.ISO(),
			Key:       key,
			Day:       date.Day(),
			Weekday:   int(date.Weekday()),
			InMonth:   IsInMonth(date, month.Year, month.Index),
			Today:     IsSameDay(date, now),
			Expanded:  s.View.IsExpanded(key),
			Completed: count,
			Rate:      float64(count) / PeriodsPerDay,
			Holiday:   HolidayName(key),
		})
	}

	if s.View.Expanded != nil {
		panel := BuildPanel(s.Progress, *s.View.Expanded)
		v.Panel = &panel
	}
	return v
}

// BuildPanel returns the six-period checklist of k
func BuildPanel(m ProgressMap, k DateKey) Panel {
	day := m[k]
	p := Panel{
		Date:      k.ISO(),
		Key:       k,
		Title:     fmt.Sprintf("%d월 %d일 학습 현황", k.Month+1, k.Day),
		Periods:   make([]PeriodItem, 0, PeriodsPerDay),
		Completed: day.Count(),
		Total:     PeriodsPerDay,
	}
	for _, period := range Periods() {
		p.Periods = append(p.Periods, PeriodItem{
			Period:  period,
			Label:   period.Label(),
			Checked: day.Checked(period),
		})
	}
	return p
}
