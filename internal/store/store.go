// Package store provides the durable key-value stores the study diary is
// persisted in. Every store holds plain strings under string keys.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
)

// ErrNotFound is returned by Load when a key has never been saved
var ErrNotFound = errors.New("key not found")

// Store is a synchronous string-keyed store
type Store interface {
	Load(key string) (string, error)
	Save(key, value string) error
}

// Drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the store selected by driver. path is a directory for the file
// driver and a database file for sqlite.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverFile, "":
		return NewFileStore(osfs.New(path)), nil
	case DriverSQLite:
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "study_diary.db")
		}
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// LastSaved returns when key was last written, if s records it
func LastSaved(s Store, key string) (time.Time, bool) {
	ts, ok := s.(interface {
		UpdatedAt(key string) (time.Time, error)
	})
	if !ok {
		return time.Time{}, false
	}
	t, err := ts.UpdatedAt(key)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Close closes s if it holds resources
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
