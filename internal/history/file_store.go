package history

import (
	"encoding/json"
	"os"
	"sync"

	"parquetry/internal/errors"
)

// FileStore keeps history in a single JSON file, newest entry first.
// Good enough for the desktop/single-node deployment; the Postgres store
// covers anything shared.
type FileStore struct {
	path       string
	maxEntries int
	mu         sync.Mutex
}

// NewFileStore creates a JSON-file-backed history store
func NewFileStore(path string, maxEntries int) *FileStore {
	return &FileStore{path: path, maxEntries: maxEntries}
}

// Add prepends the entry and trims the list to the configured maximum
func (s *FileStore) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	entries = append([]Entry{entry}, entries...)
	if len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}
	return s.save(entries)
}

// List returns all retained entries, newest first
func (s *FileStore) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Delete removes the entry with the given id if present
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

func (s *FileStore) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeHistoryStore, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WithCode(errors.CodeHistoryStore, err)
	}
	return entries, nil
}

func (s *FileStore) save(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.WithCode(errors.CodeHistoryStore, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.WithCode(errors.CodeHistoryStore, err)
	}
	return nil
}
