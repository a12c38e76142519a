package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stadiumwatch/twick-events/internal/event"
)

const snapshotFile = "upcoming_events.json"

// StoredSnapshot is the on-disk snapshot envelope.
type StoredSnapshot struct {
	Events    event.Snapshot `json:"events"`
	UpdatedAt string         `json:"updated_at"`
}

// Storage persists event snapshots between scrape cycles.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if
// needed. A leading "~/" expands to the user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadStored loads the snapshot envelope including its timestamp. A
// missing file is not an error: it returns an empty envelope, which
// the change detector treats as "no previous events".
func (s *Storage) LoadStored() (*StoredSnapshot, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &StoredSnapshot{Events: event.Snapshot{}}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var stored StoredSnapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if stored.Events == nil {
		stored.Events = event.Snapshot{}
	}
	return &stored, nil
}

// LoadSnapshot loads the previous cycle's events.
func (s *Storage) LoadSnapshot() (event.Snapshot, error) {
	stored, err := s.LoadStored()
	if err != nil {
		return nil, err
	}
	return stored.Events, nil
}

// SaveSnapshot writes the new snapshot with an updated timestamp.
func (s *Storage) SaveSnapshot(snap event.Snapshot) error {
	stored := StoredSnapshot{
		Events:    snap,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
