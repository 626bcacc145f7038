package store

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// File naming
const (
	FileSuffix      = ".json"
	TmpSuffix       = ".tmp.json"
	BackupSuffix    = ".backup"
	FilePermissions = 0644
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one file per key on a billy filesystem. Writes go to a
// temporary file first and the previous version is kept as a backup.
type FileStore struct {
	mu sync.Mutex
	fs billy.Filesystem
}

// NewFileStore stores files at the root of fs
func NewFileStore(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

// Path returns the file name used for key
func (s *FileStore) Path(key string) string {
	return key + FileSuffix
}

// Load reads the value of key
func (s *FileStore) Load(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.fs.Open(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		// a save interrupted between its two renames leaves only the backup
		if rerr := s.restoreLocked(key); rerr != nil {
			return "", ErrNotFound
		}
		file, err = s.fs.Open(s.Path(key))
	}
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing %s: %v", s.Path(key), err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save writes value for key with backup
func (s *FileStore) Save(key, value string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)

	// Write to temp file first
	tmpFile := key + TmpSuffix
	if err := util.WriteFile(s.fs, tmpFile, []byte(value), FilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", tmpFile, err)
	}

	// Keep the previous version
	if _, err := s.fs.Stat(path); err == nil {
		backupFile := path + BackupSuffix
		_ = s.fs.Remove(backupFile)
		if err := s.fs.Rename(path, backupFile); err != nil {
			log.Printf("Warning: failed to create backup: %v", err)
		}
	}

	// Rename temp file to actual file
	if err := s.fs.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// UpdatedAt returns the modification time of key's file
func (s *FileStore) UpdatedAt(key string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.fs.Stat(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Restore replaces the value of key with its backup, if one exists
func (s *FileStore) Restore(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreLocked(key)
}

func (s *FileStore) restoreLocked(key string) error {
	path := s.Path(key)
	backupFile := path + BackupSuffix
	if _, err := s.fs.Stat(backupFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no backup for %q", key)
		}
		return err
	}

	_ = s.fs.Remove(path)
	if err := s.fs.Rename(backupFile, path); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	log.Printf("✅ Restored %s from backup", path)
	return nil
}
