package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists token records as a single JSON mapping from client id
// to record. The whole file is rewritten on every Put; writes go to a temp
// file in the same directory followed by a rename, so readers never see a
// partial file. A mutex serializes read-modify-write cycles.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed token store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the record for id, or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, id string) (*TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Put stores or replaces the record for id.
func (s *FileStore) Put(ctx context.Context, id string, rec *TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records[id] = rec
	return s.save(records)
}

func (s *FileStore) load() (map[string]*TokenRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]*TokenRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	if len(data) == 0 {
		return map[string]*TokenRecord{}, nil
	}

	var records map[string]*TokenRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	return records, nil
}

func (s *FileStore) save(records map[string]*TokenRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}
