// Package canonical persists the authoritative baseline task list for a
// project. The snapshot is replaced wholesale on every valid write; it is
// never appended to or patched in place.
package canonical

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"specguard/internal/task"
)

// FileName is the snapshot file name inside the project state directory.
const FileName = "todo-canonical.json"

// ErrCorrupt marks a snapshot that exists on disk but cannot be parsed.
// The validation flow turns this into an immediate block; recovery is an
// explicit regenerate, never an auto-repair.
var ErrCorrupt = errors.New("canonical snapshot unreadable")

// Snapshot is the last validated baseline task-list state.
type Snapshot struct {
	CreatedAt     time.Time   `json:"created_at"`
	SpecFile      string      `json:"spec_file,omitempty"`
	ExpectedCount *int        `json:"expected_count,omitempty"`
	TaskCount     int         `json:"task_count"`
	TaskIDs       []string    `json:"task_ids"`
	Todos         []task.Item `json:"todos"`
}

// IDSet returns the snapshot's task identifiers as a set.
func (s *Snapshot) IDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.TaskIDs))
	for _, id := range s.TaskIDs {
		ids[id] = struct{}{}
	}
	return ids
}

// Store reads and writes the snapshot file under a state directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at stateDir (the project's state
// directory, e.g. <project>/.specguard).
func NewStore(stateDir string) *Store {
	return &Store{dir: stateDir}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load reads the snapshot. Returns (nil, nil) when no snapshot exists and
// an ErrCorrupt-wrapped error when the file exists but cannot be parsed.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &snap, nil
}

// Save replaces the snapshot wholesale with items. TaskCount and TaskIDs
// are recomputed from the items; specFile and expectedCount are carried
// from whatever baseline context the caller is preserving.
func (s *Store) Save(items []task.Item, specFile string, expectedCount *int) (*Snapshot, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	idSet := task.IDs(items)
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	task.SortIDs(ids)

	snap := &Snapshot{
		CreatedAt:     time.Now().UTC(),
		SpecFile:      specFile,
		ExpectedCount: expectedCount,
		TaskCount:     len(items),
		TaskIDs:       ids,
		Todos:         items,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	return snap, nil
}

// Clear removes the snapshot file. Missing files are not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}
