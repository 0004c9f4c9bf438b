package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SlotStore is the key-value persistence capability the engine writes
// through. Read failures of any kind surface as "absent", never as engine
// errors.
type SlotStore interface {
	Get(slot string, v any) (bool, error)
	Put(slot string, v any) error
	Delete(slot string) error
}

// fileSlotStore keeps one JSON file per slot in a per-session directory.
type fileSlotStore struct {
	dir string
}

// sessionSlotStore returns the slot store for a browser session. Session IDs
// must be UUIDs so a cookie value can never traverse outside the base dir.
func sessionSlotStore(baseDir, sessionID string) (SlotStore, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, errors.New("invalid session ID format")
	}
	dir := filepath.Join(baseDir, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &fileSlotStore{dir: dir}, nil
}

func (s *fileSlotStore) slotPath(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

// Get loads a slot into v. A missing or corrupt file reports absent; corrupt
// files are removed on the way out.
func (s *fileSlotStore) Get(slot string, v any) (bool, error) {
	data, err := os.ReadFile(s.slotPath(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		logWarn("Slot file %s is corrupt, removing: %v", s.slotPath(slot), err)
		_ = os.Remove(s.slotPath(slot))
		return false, nil
	}
	return true, nil
}

func (s *fileSlotStore) Put(slot string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.slotPath(slot), data, 0644)
}

func (s *fileSlotStore) Delete(slot string) error {
	err := os.Remove(s.slotPath(slot))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// memorySlotStore is the process-lifetime fallback when a session directory
// cannot be created, and the store used by engine tests.
type memorySlotStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func newMemorySlotStore() *memorySlotStore {
	return &memorySlotStore{slots: make(map[string][]byte)}
}

func (s *memorySlotStore) Get(slot string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[slot]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		delete(s.slots, slot)
		return false, nil
	}
	return true, nil
}

func (s *memorySlotStore) Put(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.slots[slot] = data
	s.mu.Unlock()
	return nil
}

func (s *memorySlotStore) Delete(slot string) error {
	s.mu.Lock()
	delete(s.slots, slot)
	s.mu.Unlock()
	return nil
}

// cleanupOldSessions removes session directories untouched for longer than
// maxAge.
func cleanupOldSessions(baseDir string, maxAge time.Duration) error {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			logInfo("Sessions directory doesn't exist, skipping cleanup")
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	removedCount := 0
	errorCount := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(baseDir, entry.Name())
		if newestModTime(dir).After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logWarn("Failed to remove old session dir %s: %v", dir, err)
			errorCount++
		} else {
			removedCount++
		}
	}
	logInfo("Session cleanup completed: removed %d directories, %d errors", removedCount, errorCount)
	return nil
}

// newestModTime returns the most recent modification time under dir, or the
// zero time when the directory is empty or unreadable.
func newestModTime(dir string) time.Time {
	var newest time.Time
	entries, err := os.ReadDir(dir)
	if err != nil {
		return newest
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest
}
