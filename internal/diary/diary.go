// Package diary keeps the in-memory progress map and persists it to a store
// after every change. Persistence failures never reach the caller: the diary
// keeps working from memory and logs the problem.
package diary

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/klabast/wb-services/study-diary/internal/calendar"
	"github.com/klabast/wb-services/study-diary/internal/store"
)

var ErrStoreUnavailable = errors.New("progress store unavailable")

// Diary owns the progress map of one user
type Diary struct {
	mu       sync.RWMutex
	store    store.Store
	logger   *log.Logger
	key      string
	progress calendar.ProgressMap

	// storeDown is set while the store keeps failing; it keeps the log to one line per outage
	storeDown bool
}

// Option configures a Diary
type Option func(*Diary)

// WithKey overrides the storage key (default calendar.StorageKey)
func WithKey(key string) Option {
	return func(d *Diary) { d.key = key }
}

// Open loads the progress map once. It never fails: a missing store entry,
// an unavailable store or unreadable data all start from an empty map.
func Open(s store.Store, logger *log.Logger, opts ...Option) *Diary {
	if logger == nil {
		logger = log.Default()
	}
	d := &Diary{
		store:    s,
		logger:   logger,
		key:      calendar.StorageKey,
		progress: calendar.ProgressMap{},
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.load(); err != nil {
		d.logger.Printf("⚠️  Starting with empty progress: %v", err)
	}
	return d
}

func (d *Diary) load() error {
	if d.store == nil {
		d.storeDown = true
		return ErrStoreUnavailable
	}

	data, err := d.store.Load(d.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		d.storeDown = true
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	progress, dropped, err := calendar.DecodeProgress(data)
	if err != nil {
		return err
	}
	if dropped > 0 {
		d.logger.Printf("Dropped %d malformed progress entries", dropped)
	}
	d.progress = progress
	d.logger.Printf("✅ Loaded progress for %d days", len(progress))
	return nil
}

// Progress returns a copy of the current map
func (d *Diary) Progress() calendar.ProgressMap {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.progress.Clone()
}

// Toggle flips one period and saves the whole map. Only ErrInvalidPeriod is
// returned; a failed save is logged and the new state is kept.
func (d *Diary) Toggle(date time.Time, period calendar.Period) (calendar.ProgressMap, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	progress, err := calendar.Toggle(d.progress, date, period)
	if err != nil {
		return nil, err
	}
	d.progress = progress

	if err := d.save(); err != nil {
		d.logger.Printf("Error saving progress: %v", err)
	}
	return progress.Clone(), nil
}

// save writes the map; caller must hold the lock
func (d *Diary) save() error {
	data, err := calendar.EncodeProgress(d.progress)
	if err != nil {
		return err
	}

	if d.store == nil {
		return nil
	}
	if err := d.store.Save(d.key, data); err != nil {
		if d.storeDown {
			// already reported
			return nil
		}
		d.storeDown = true
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if d.storeDown {
		d.storeDown = false
		d.logger.Printf("✅ Progress store available again")
	}
	return nil
}

// Available reports whether the last store access succeeded
func (d *Diary) Available() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.storeDown
}

// Stats summarises all progress, or one month when month is non-nil
func (d *Diary) Stats(month *calendar.Month) calendar.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return calendar.Summarize(d.progress, month)
}
