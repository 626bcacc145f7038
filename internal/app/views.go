package app

import (
	"sync"
	"time"

	"github.com/klabast/wb-services/study-diary/internal/calendar"
)

// Views keeps the transient calendar view of each session in memory
type Views struct {
	mu    sync.Mutex
	views map[string]viewEntry
	ttl   time.Duration
}

type viewEntry struct {
	view     calendar.ViewState
	lastSeen time.Time
}

func NewViews(ttl time.Duration) *Views {
	return &Views{views: make(map[string]viewEntry), ttl: ttl}
}

// Get returns the view of session sid, starting on now's month for new sessions
func (v *Views) Get(sid string, now time.Time) calendar.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.getLocked(sid, now)
}

func (v *Views) getLocked(sid string, now time.Time) calendar.ViewState {
	entry, ok := v.views[sid]
	if !ok {
		v.pruneLocked(now)
		entry = viewEntry{view: calendar.NewViewState(now)}
	}
	entry.lastSeen = now
	v.views[sid] = entry
	return entry.view
}

// Update applies fn to the session's state and stores the resulting view
func (v *Views) Update(sid string, now time.Time, progress calendar.ProgressMap, fn func(calendar.State) calendar.State) calendar.State {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := fn(calendar.State{Progress: progress, View: v.getLocked(sid, now)})
	v.views[sid] = viewEntry{view: state.View, lastSeen: now}
	return state
}

// Delete forgets a session's view
func (v *Views) Delete(sid string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.views, sid)
}

// Len returns the number of tracked sessions
func (v *Views) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}

func (v *Views) pruneLocked(now time.Time) {
	if v.ttl <= 0 {
		return
	}
	for sid, entry := range v.views {
		if now.Sub(entry.lastSeen) > v.ttl {
			delete(v.views, sid)
		}
	}
}
