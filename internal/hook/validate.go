package hook

import (
	"errors"
	"fmt"
	"strings"

	"specguard/internal/canonical"
	"specguard/internal/config"
	"specguard/internal/debug"
	"specguard/internal/expectation"
	"specguard/internal/reconcile"
	"specguard/internal/specfile"
)

// Info is the non-blocking status a handler reports on stderr.
type Info struct {
	Status         string `json:"status"`
	TaskCount      int    `json:"task_count"`
	CanonicalCount int    `json:"canonical_count,omitempty"`
}

// Validator checks TodoWrite calls against the canonical snapshot.
type Validator struct {
	Store    *canonical.Store
	Artifact expectation.Artifact

	// ProjectDir is used for spec file discovery when a snapshot is
	// first recorded.
	ProjectDir string
}

// NewValidator builds a Validator rooted at projectDir.
func NewValidator(projectDir string) *Validator {
	return &Validator{
		Store:      canonical.NewStore(config.StateDir(projectDir)),
		Artifact:   expectation.Artifact{Path: config.ExpectFile()},
		ProjectDir: projectDir,
	}
}

// ValidateTodoWrite runs the full validation flow for one hook event.
// A nil Decision means the write proceeds. Info is non-nil when the
// write was accepted and recorded.
func (v *Validator) ValidateTodoWrite(ev *Event) (*Decision, *Info, error) {
	if ev.ToolName != "TodoWrite" {
		return nil, nil, nil
	}
	items := ev.ToolInput.Todos
	if len(items) == 0 {
		return nil, nil, nil
	}

	// One-shot count gate placed by the spec executor before the
	// first write.
	stateDir := config.StateDir(v.ProjectDir)

	result, mismatch := reconcile.CheckGate(items, v.Artifact)
	switch result {
	case reconcile.GateBlocked:
		debug.LogEvent(stateDir, "count_gate_blocked", mismatch.Error())
		return Block(countMismatchReason(mismatch)), nil, nil
	case reconcile.GateMatched:
		expected := len(items)
		specFile, _ := specfile.Find(v.ProjectDir)
		if _, err := v.Store.Save(items, specFile, &expected); err != nil {
			debug.Warnf("recording canonical snapshot: %v", err)
		}
		debug.LogEvent(stateDir, "canonical_created", fmt.Sprintf("%d items", len(items)))
		return nil, &Info{Status: "canonical_created", TaskCount: len(items)}, nil
	}

	snap, err := v.Store.Load()
	if errors.Is(err, canonical.ErrCorrupt) {
		return Block(fmt.Sprintf(
			"Canonical snapshot at %s is unreadable: %v. Inspect or remove it before writing todos.",
			v.Store.Path(), err)), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if snap == nil {
		// No gate and no snapshot. Adopt this write as the baseline.
		specFile, _ := specfile.Find(v.ProjectDir)
		if _, err := v.Store.Save(items, specFile, nil); err != nil {
			debug.Warnf("recording canonical snapshot: %v", err)
		}
		return nil, &Info{Status: "canonical_created_implicit", TaskCount: len(items)}, nil
	}

	outcome := reconcile.Reconcile(items, snap)
	switch outcome.Verdict {
	case reconcile.VerdictBlock:
		debug.LogEvent(stateDir, "todo_write_blocked", outcome.Err.Error())
		return Block(v.blockReason(outcome.Err, snap, len(items))), nil, nil

	case reconcile.VerdictReplace:
		specFile, _ := specfile.Find(v.ProjectDir)
		if _, err := v.Store.Save(items, specFile, nil); err != nil {
			debug.Warnf("replacing canonical snapshot: %v", err)
		}
		debug.LogEvent(stateDir, "canonical_replaced", fmt.Sprintf("%d items", len(items)))
		return nil, &Info{Status: "canonical_replaced", TaskCount: len(items)}, nil

	default:
		if _, err := v.Store.Save(items, snap.SpecFile, snap.ExpectedCount); err != nil {
			debug.Warnf("updating canonical snapshot: %v", err)
		}
		return nil, &Info{
			Status:         "validated",
			TaskCount:      len(items),
			CanonicalCount: snap.TaskCount,
		}, nil
	}
}

func countMismatchReason(e *reconcile.CountMismatchError) string {
	var b strings.Builder
	b.WriteString("=== TODO COUNT VALIDATION FAILED ===\n")
	fmt.Fprintf(&b, "Expected: %d items\n", e.Expected)
	fmt.Fprintf(&b, "Actual: %d items\n\n", e.Actual)
	fmt.Fprintf(&b, "You MUST recreate the TODO with EXACTLY %d items.\n", e.Expected)
	b.WriteString("Each logical task must be a separate item; do not group tasks together.\n")
	b.WriteString("Do NOT proceed until counts match.\n")
	b.WriteString("=====================================")
	return b.String()
}

func (v *Validator) blockReason(err error, snap *canonical.Snapshot, newCount int) string {
	specFile := snap.SpecFile
	if specFile == "" {
		specFile = "SPEC.json"
	}

	var b strings.Builder
	b.WriteString("=== TODO VALIDATION FAILED ===\n\n")
	fmt.Fprintf(&b, "%v\n\n", err)
	fmt.Fprintf(&b, "Original task count: %d\n", snap.TaskCount)
	fmt.Fprintf(&b, "Current task count: %d\n\n", newCount)
	b.WriteString("TO RECOVER, regenerate the TODO from the spec file:\n\n")
	fmt.Fprintf(&b, "  # Option 1: regenerate\n")
	fmt.Fprintf(&b, "  specguard todo generate --spec %s --base --format json\n\n", specFile)
	fmt.Fprintf(&b, "  # Option 2: read the canonical snapshot directly\n")
	fmt.Fprintf(&b, "  cat %s\n\n", v.Store.Path())
	b.WriteString("Then recreate TodoWrite with ALL original task IDs.\n")
	b.WriteString("===============================")
	return b.String()
}
