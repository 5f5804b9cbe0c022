package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"family-backend/internal/models"
)

// JSONFileStore persists the member collection as a single pretty-printed
// JSON array, the same format the sync server keeps in uploads/. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// half-written data file behind.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a file store at the given path, creating the
// parent directory and an empty data file if they don't exist yet.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]\n"), 0644); err != nil {
			return nil, fmt.Errorf("create data file: %w", err)
		}
	}
	return &JSONFileStore{path: path}, nil
}

// Path returns the data file location.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads the full member collection. A missing or empty file counts as an
// empty collection.
func (s *JSONFileStore) Load(_ context.Context) ([]models.Member, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Member{}, nil
		}
		return nil, fmt.Errorf("read family data: %w", err)
	}
	if len(data) == 0 {
		return []models.Member{}, nil
	}

	var members []models.Member
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("parse family data: %w", err)
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// Save overwrites the data file with the given members atomically.
func (s *JSONFileStore) Save(_ context.Context, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}

	data, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return fmt.Errorf("encode family data: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write family data: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace family data: %w", err)
	}
	return nil
}
