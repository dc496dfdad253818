package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/turnify/pkg/core/model"
)

const (
	rosterFileName  = "roster.yaml"
	planningsDir    = "plannings"
	planningFileExt = ".json"
)

// DB provides storage operations on a local directory. The roster is kept as
// YAML so it can be edited by hand; plannings are JSON documents.
type DB struct {
	dir string
	mu  sync.RWMutex
}

var _ Database = (*DB)(nil)

// NewDB creates the data directory if needed and returns a store rooted at it
func NewDB(dir string) (*DB, error) {
	if err := os.MkdirAll(filepath.Join(dir, planningsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &DB{dir: dir}, nil
}

// Close is a no-op for the file store
func (db *DB) Close() error {
	return nil
}

// GetRoster reads the stored roster
func (db *DB) GetRoster(ctx context.Context) (*model.Roster, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(db.dir, rosterFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("roster: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var roster model.Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return &roster, nil
}

// SaveRoster replaces the stored roster
func (db *DB) SaveRoster(ctx context.Context, roster *model.Roster) error {
	data, err := yaml.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := writeFileAtomic(filepath.Join(db.dir, rosterFileName), data); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

// InsertPlanning stores a new planning record
func (db *DB) InsertPlanning(ctx context.Context, record *PlanningRecord) error {
	if record.ID == "" {
		return fmt.Errorf("planning record has no id")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode planning: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	path := filepath.Join(db.dir, planningsDir, record.ID+planningFileExt)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to insert planning: %w", err)
	}
	return nil
}

// GetLatestPlanning returns the most recently generated planning
func (db *DB) GetLatestPlanning(ctx context.Context) (*PlanningRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(db.dir, planningsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list plannings: %w", err)
	}

	var latest *PlanningRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), planningFileExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(db.dir, planningsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read planning %s: %w", entry.Name(), err)
		}
		var record PlanningRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to parse planning %s: %w", entry.Name(), err)
		}
		if latest == nil || record.GeneratedAt.After(latest.GeneratedAt) {
			latest = &record
		}
	}

	if latest == nil {
		return nil, fmt.Errorf("planning: %w", ErrNotFound)
	}
	return latest, nil
}

// ClearPlannings removes every stored planning
func (db *DB) ClearPlannings(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	dir := filepath.Join(db.dir, planningsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list plannings: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), planningFileExt) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove planning %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// writeFileAtomic writes to a temporary file and renames it over the target
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
