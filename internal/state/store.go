package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// Snapshot is the persisted state blob. Key names are a compatibility
// contract with earlier deployments' data.json and must not change.
type Snapshot struct {
	WeatherHistory []weather.Record `json:"WeatherHistory"`
	Users          []int64          `json:"Users"`
}

// Store persists the snapshot to a single JSON file.
//
// Every save rewrites the whole file: the blob is small (tail-read history
// plus a subscriber list) and wholesale rewrite keeps the format trivially
// recoverable. Writes go through a temp file and rename so a crash
// mid-write never leaves a truncated blob. A mutex serializes writers;
// handlers run on independent goroutines.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot from disk.
//
// A missing file is not an error: it yields an empty snapshot, covering
// first launch. Any other read or decode failure is returned.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding state file: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot to disk, replacing any previous contents.
// Parent directories are created as needed.
func (s *Store) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.WeatherHistory == nil {
		snap.WeatherHistory = []weather.Record{}
	}
	if snap.Users == nil {
		snap.Users = []int64{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
