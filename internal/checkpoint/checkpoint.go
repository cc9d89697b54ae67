// Package checkpoint is the durable progress ledger for a long per-item
// loop inside a SPEC execution ("process item 7 of 40"). It lets an
// interrupted execution resume at its cursor instead of replaying
// completed work.
//
// Lifecycle is one-way: a checkpoint is created by Init, mutated by
// Update/Complete/Fail, and destroyed by Clear. The completed and failed
// ledgers are append-only for the life of a checkpoint, and status moves
// in_progress -> completed exactly once, when the completed ledger reaches
// the total, never back.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"specguard/internal/debug"
)

// DirName is the checkpoints directory inside the project state directory.
const DirName = "checkpoints"

// ErrNotInitialized is returned when update/complete/fail is called for a
// spec that has no checkpoint on disk. The caller must init first.
var ErrNotInitialized = errors.New("no checkpoint exists; run init first")

// Status is the checkpoint lifecycle state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// CompletedItem is one entry in the append-only completion ledger.
type CompletedItem struct {
	Index       int       `json:"index"`
	ItemID      string    `json:"item_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// FailedItem is one entry in the append-only failure ledger. Failures are
// informational; they never terminate the checkpoint.
type FailedItem struct {
	Index    int       `json:"index"`
	ItemID   string    `json:"item_id,omitempty"`
	FailedAt time.Time `json:"failed_at"`
	Reason   string    `json:"reason,omitempty"`
}

// Checkpoint is the durable cursor and ledgers for one SPEC's loop phase.
type Checkpoint struct {
	SpecName        string          `json:"spec_name"`
	SpecFile        string          `json:"spec_file,omitempty"`
	RunID           string          `json:"run_id"`
	StartedAt       time.Time       `json:"started_at"`
	LastUpdated     time.Time       `json:"last_updated"`
	LoopPhase       string          `json:"loop_phase"`
	TotalItems      int             `json:"total_items"`
	CurrentIndex    int             `json:"current_index"`
	CurrentItemID   string          `json:"current_item_id,omitempty"`
	CurrentItemName string          `json:"current_item_name,omitempty"`
	CurrentTask     string          `json:"current_task,omitempty"`
	CompletedItems  []CompletedItem `json:"completed_items"`
	FailedItems     []FailedItem    `json:"failed_items"`
	Status          Status          `json:"status"`
}

// Remaining returns how many items have not yet completed.
func (c *Checkpoint) Remaining() int {
	r := c.TotalItems - len(c.CompletedItems)
	if r < 0 {
		return 0
	}
	return r
}

// Store reads and writes checkpoint files under <stateDir>/checkpoints.
type Store struct {
	dir string
}

// NewStore returns a store rooted at the project state directory.
func NewStore(stateDir string) *Store {
	return &Store{dir: filepath.Join(stateDir, DirName)}
}

// Path returns the checkpoint file path for a spec name.
func (s *Store) Path(specName string) string {
	return filepath.Join(s.dir, specName+".json")
}

// DecisionsPath returns the companion decision-log path for a spec name.
func (s *Store) DecisionsPath(specName string) string {
	return filepath.Join(s.dir, specName+"-decisions.md")
}

// Init creates a fresh checkpoint with a zeroed cursor and empty ledgers,
// overwriting any prior checkpoint of the same name.
func (s *Store) Init(specName string, total int, loopPhase, specFile string) (*Checkpoint, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating checkpoints dir: %w", err)
	}

	now := time.Now().UTC()
	cp := &Checkpoint{
		SpecName:       specName,
		SpecFile:       specFile,
		RunID:          uuid.NewString(),
		StartedAt:      now,
		LastUpdated:    now,
		LoopPhase:      loopPhase,
		TotalItems:     total,
		CompletedItems: []CompletedItem{},
		FailedItems:    []FailedItem{},
		Status:         StatusInProgress,
	}
	if err := s.write(cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// Read loads a checkpoint. Returns (nil, nil) when none exists.
func (s *Store) Read(specName string) (*Checkpoint, error) {
	data, err := os.ReadFile(s.Path(specName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", s.Path(specName), err)
	}
	return &cp, nil
}

// Update moves the cursor. It touches LastUpdated and the current-* fields
// only; the ledgers are untouched.
func (s *Store) Update(specName string, index int, currentTask, itemID, itemName string) (*Checkpoint, error) {
	cp, err := s.mustRead(specName)
	if err != nil {
		return nil, err
	}

	cp.CurrentIndex = index
	cp.CurrentTask = currentTask
	cp.LastUpdated = time.Now().UTC()
	if itemID != "" {
		cp.CurrentItemID = itemID
	}
	if itemName != "" {
		cp.CurrentItemName = itemName
	}

	s.persist(cp)
	return cp, nil
}

// Complete appends to the completion ledger and recomputes status. Status
// becomes completed exactly when the ledger reaches TotalItems; it never
// reverts. The ledger has no deduplication; callers serialize completes.
func (s *Store) Complete(specName string, index int, itemID string) (*Checkpoint, error) {
	cp, err := s.mustRead(specName)
	if err != nil {
		return nil, err
	}

	if itemID == "" {
		itemID = cp.CurrentItemID
	}
	now := time.Now().UTC()
	cp.CompletedItems = append(cp.CompletedItems, CompletedItem{
		Index:       index,
		ItemID:      itemID,
		CompletedAt: now,
	})
	cp.LastUpdated = now
	if len(cp.CompletedItems) >= cp.TotalItems {
		cp.Status = StatusCompleted
	}

	s.persist(cp)
	return cp, nil
}

// Fail appends to the failure ledger. Failures never change status;
// execution is expected to continue or retry.
func (s *Store) Fail(specName string, index int, itemID, reason string) (*Checkpoint, error) {
	cp, err := s.mustRead(specName)
	if err != nil {
		return nil, err
	}

	if itemID == "" {
		itemID = cp.CurrentItemID
	}
	now := time.Now().UTC()
	cp.FailedItems = append(cp.FailedItems, FailedItem{
		Index:    index,
		ItemID:   itemID,
		FailedAt: now,
		Reason:   reason,
	})
	cp.LastUpdated = now

	s.persist(cp)
	return cp, nil
}

// Clear deletes the checkpoint file and its companion decision log.
// Clearing the paired canonical snapshot is composed by the caller, which
// owns that store.
func (s *Store) Clear(specName string) error {
	if err := os.Remove(s.Path(specName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing checkpoint: %w", err)
	}
	if err := os.Remove(s.DecisionsPath(specName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing decision log: %w", err)
	}
	return nil
}

// LogDecision appends a timestamped entry to the spec's decision log.
func (s *Store) LogDecision(specName, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoints dir: %w", err)
	}

	f, err := os.OpenFile(s.DecisionsPath(specName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("- %s: %s\n", time.Now().UTC().Format(time.RFC3339), strings.TrimSpace(text))
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("appending decision: %w", err)
	}
	return nil
}

// HasAny reports whether any checkpoint file exists in the store.
func (s *Store) HasAny() bool {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	return err == nil && len(matches) > 0
}

func (s *Store) mustRead(specName string) (*Checkpoint, error) {
	cp, err := s.Read(specName)
	if err != nil {
		return nil, err
	}
	if cp == nil {
		return nil, fmt.Errorf("%w (spec %q)", ErrNotInitialized, specName)
	}
	return cp, nil
}

// persist writes the checkpoint back, best-effort. A failed write is a
// warning, not an error: losing one progress save must not stop the loop.
func (s *Store) persist(cp *Checkpoint) {
	if err := s.write(cp); err != nil {
		debug.Warnf("checkpoint save failed for %s: %v", cp.SpecName, err)
	}
}

func (s *Store) write(cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}
	if err := os.WriteFile(s.Path(cp.SpecName), data, 0o600); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}
