package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/nba-rank/internal/player"
)

// FileStore keeps the table as a JSON array of records.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the saved table. It returns ErrNoData if the file does not exist.
func (s *FileStore) Load(_ context.Context) (*player.Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("reading player data: %w", err)
	}

	var records []*player.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing player data: %w", err)
	}
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("parsing player data: record %d is null", i)
		}
	}
	return &player.Table{Records: records}, nil
}

// Save writes t to a temporary file in the same directory and renames it
// over the previous data.
func (s *FileStore) Save(_ context.Context, t *player.Table) error {
	records := []*player.Record{}
	if t != nil && t.Records != nil {
		records = t.Records
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding player data: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing player data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing player data: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing player data: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
