// Package reconcile decides whether a task-list write may replace the
// canonical baseline.
//
// Identifiers, not items, are the unit of continuity: renumbering display
// text or adding progress annotations ("[5/40]") never changes an
// identifier prefix, so cosmetic churn never blocks. Only the disappearance
// of a tracked identifier without a declared phase collapse does.
package reconcile

import (
	"specguard/internal/canonical"
	"specguard/internal/task"
)

// Verdict is the reconciliation decision for one write.
type Verdict int

const (
	// VerdictAllow accepts the write; the caller replaces the canonical
	// snapshot wholesale, preserving the prior spec file reference and
	// expected count.
	VerdictAllow Verdict = iota
	// VerdictReplace accepts the write as an unrelated fresh start; the
	// canonical snapshot is overwritten with no context carried over.
	VerdictReplace
	// VerdictBlock rejects the write; Outcome.Err names the violation.
	VerdictBlock
)

// Outcome is the result of reconciling one write against the baseline.
type Outcome struct {
	Verdict Verdict
	Err     error // *RemovalError or *ShrinkError when Verdict is VerdictBlock
}

// Reconcile compares a new task-list write against the canonical baseline.
//
// Fresh start is checked first, unconditionally: when the old and new id
// sets are both non-empty and share nothing, the write is an unrelated new
// task context and replaces the baseline even if collapse markers are
// present. Otherwise every canonical id must be covered, either present
// verbatim or standing under a declared collapse of its phase, and the count
// may only shrink when a collapse is declared.
func Reconcile(newItems []task.Item, snap *canonical.Snapshot) Outcome {
	newIDs := task.IDs(newItems)

	collapsedPhases := make(map[string]struct{})
	for _, it := range newItems {
		if !task.IsCollapsedPhase(it.Content) {
			continue
		}
		id, ok := task.ExtractID(it.Content)
		if !ok {
			continue
		}
		if phase := task.Phase(id); phase != "" {
			collapsedPhases[phase] = struct{}{}
		}
	}

	if len(snap.TaskIDs) > 0 && len(newIDs) > 0 && !intersects(snap.IDSet(), newIDs) {
		return Outcome{Verdict: VerdictReplace}
	}

	var missing []string
	for _, id := range snap.TaskIDs {
		if _, ok := newIDs[id]; ok {
			continue
		}
		phase := task.Phase(id)
		if phase != "" {
			if _, ok := collapsedPhases[phase]; ok {
				continue
			}
			if _, ok := newIDs[phase+".x"]; ok {
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		task.SortIDs(missing)
		return Outcome{Verdict: VerdictBlock, Err: &RemovalError{Missing: missing}}
	}

	if len(newItems) < snap.TaskCount && len(collapsedPhases) == 0 {
		return Outcome{Verdict: VerdictBlock, Err: &ShrinkError{Before: snap.TaskCount, After: len(newItems)}}
	}

	return Outcome{Verdict: VerdictAllow}
}

func intersects(a, b map[string]struct{}) bool {
	for id := range a {
		if _, ok := b[id]; ok {
			return true
		}
	}
	return false
}
