package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/nba-rank/internal/player"
)

const (
	// DefaultDataDir holds the persisted player table.
	DefaultDataDir = "~/.local/share/nba-rank"
	// FileName is the JSON table inside the data directory.
	FileName = "NBA_player_info.json"
	// DatabaseName is the SQLite database inside the data directory.
	DatabaseName = "nba_players.db"
)

// ErrNoData is returned by Load when nothing has been saved yet.
var ErrNoData = errors.New("no saved player data")

// Store persists a player table.
type Store interface {
	Save(ctx context.Context, t *player.Table) error
	Load(ctx context.Context) (*player.Table, error)
	Close() error
}

// Kind names a Store implementation.
type Kind string

const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
)

// Open returns the store of the given kind rooted at dataDir.
func Open(kind Kind, dataDir string) (Store, error) {
	dir, err := prepareDir(dataDir)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindJSON, "":
		return NewFileStore(filepath.Join(dir, FileName)), nil
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, DatabaseName))
	default:
		return nil, fmt.Errorf("unknown store %q (must be 'json' or 'sqlite')", kind)
	}
}

// prepareDir expands a leading ~/ and creates the directory.
func prepareDir(dataDir string) (string, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dataDir, nil
}
