// Package expectation manages the one-shot task-count artifact an external
// caller plants before the first task-list write of a session.
//
// The artifact is a single-tenant resource: one outstanding expectation
// process-wide, created by Set, consumed exactly once by Consume on the
// first write whose item count matches. There is no namespacing and no
// queueing; a second Set simply overwrites the first.
package expectation

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Artifact is a handle to the durable expectation value. The zero value is
// not usable; construct with Default or an explicit path.
type Artifact struct {
	Path string
}

// Default returns the well-known process-wide artifact location.
func Default() Artifact {
	return Artifact{Path: filepath.Join(os.TempDir(), "specguard-expected-todo-count")}
}

// Set writes the expected count, replacing any outstanding expectation.
func (a Artifact) Set(count int) error {
	if count <= 0 {
		return fmt.Errorf("expected count must be positive, got %d", count)
	}
	if err := os.WriteFile(a.Path, []byte(strconv.Itoa(count)), 0o600); err != nil {
		return fmt.Errorf("writing expectation: %w", err)
	}
	return nil
}

// Peek reads the outstanding expectation without consuming it. A missing
// or unparseable artifact reads as absent; a stale malformed file must not
// wedge the validation path.
func (a Artifact) Peek() (int, bool) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Consume deletes the artifact. Called exactly once, on the first write
// whose count matches.
func (a Artifact) Consume() error {
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("consuming expectation: %w", err)
	}
	return nil
}

// Clear is Consume for operator use: it discards any outstanding
// expectation without caring whether one exists.
func (a Artifact) Clear() error {
	return a.Consume()
}
