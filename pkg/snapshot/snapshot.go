package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is the last successful raw response from one source.
type Entry struct {
	Body      json.RawMessage `json:"body"`
	Total     int             `json:"total"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store keeps the last response per source name on disk so the dashboard can
// still be rendered when the source is unreachable.
type Store struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	mu      sync.RWMutex
	dirty   bool
}

// NewStore opens the store in the user's config directory.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(home, ".config", "tablero", "snapshots.json"))
}

// Open loads the store at path, starting empty when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{
		Entries: make(map[string]Entry),
		Path:    path,
	}
	if _, err := os.Stat(path); err == nil {
		if err := s.Load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Load() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.NewDecoder(f).Decode(&s.Entries); err != nil {
		return fmt.Errorf("failed to decode snapshots: %w", err)
	}
	if s.Entries == nil {
		s.Entries = make(map[string]Entry)
	}
	return nil
}

// Save writes the store if anything changed since the last save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(s.Entries); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Get returns the entry stored under key, if any.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.Entries[key]
	return e, ok
}

// Put records body as the latest response stored under key. Callers key
// entries by source and request so a filtered response never stands in for
// an unfiltered one. Bodies that are not valid JSON are not stored.
func (s *Store) Put(key string, body []byte, total int, at time.Time) {
	if !json.Valid(body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries[key] = Entry{
		Body:      append(json.RawMessage(nil), body...),
		Total:     total,
		FetchedAt: at,
	}
	s.dirty = true
}

// Prune drops the entries fetched before cutoff and reports how many went.
func (s *Store) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, e := range s.Entries {
		if e.FetchedAt.Before(cutoff) {
			delete(s.Entries, key)
			n++
		}
	}
	if n > 0 {
		s.dirty = true
	}
	return n
}
