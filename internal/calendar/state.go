package calendar

import "time"

// ViewState is the transient per-session UI state. It is never persisted.
type ViewState struct {
	Month    Month
	Expanded *DateKey
}

// NewViewState shows the month containing now with the panel collapsed
func NewViewState(now time.Time) ViewState {
	return ViewState{Month: MonthOf(now)}
}

// IsExpanded reports whether k is the expanded date
func (v ViewState) IsExpanded(k DateKey) bool {
	return v.Expanded != nil && *v.Expanded == k
}

// ExpandedKeyFor applies a click on clicked to the single-panel state:
// clicking the expanded date collapses it, any other date replaces it.
func ExpandedKeyFor(current *DateKey, clicked time.Time) *DateKey {
	key := KeyOf(clicked)
	if current != nil && *current == key {
		return nil
	}
	return &key
}

// State is the whole model: persisted progress plus view state.
// Every transition returns a new State and leaves the receiver untouched.
type State struct {
	Progress ProgressMap
	View     ViewState
}

// NewState starts a session on the month containing now
func NewState(progress ProgressMap, now time.Time) State {
	if progress == nil {
		progress = ProgressMap{}
	}
	return State{Progress: progress, View: NewViewState(now)}
}

// Toggle flips one period of date
func (s State) Toggle(date time.Time, period Period) (State, error) {
	progress, err := Toggle(s.Progress, date, period)
	if err != nil {
		return s, err
	}
	s.Progress = progress
	return s, nil
}

// Click expands or collapses the detail panel of date
func (s State) Click(date time.Time) State {
	s.View.Expanded = ExpandedKeyFor(s.View.Expanded, date)
	return s
}

// PreviousMonth shows the previous month and collapses the panel
func (s State) PreviousMonth() State {
	return s.GoTo(s.View.Month.Previous())
}

// NextMonth shows the next month and collapses the panel
func (s State) NextMonth() State {
	return s.GoTo(s.View.Month.Next())
}

// GoTo shows month m and collapses the panel
func (s State) GoTo(m Month) State {
	s.View.Month = m.Normalize()
	s.View.Expanded = nil
	return s
}
