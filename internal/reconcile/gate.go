package reconcile

import (
	"specguard/internal/expectation"
	"specguard/internal/task"
)

// GateResult is the outcome of evaluating the expected-count gate.
type GateResult int

const (
	// GateNotApplicable means no expectation is outstanding; ordinary
	// reconciliation proceeds.
	GateNotApplicable GateResult = iota
	// GateMatched means the write satisfied the expectation; the artifact
	// has been consumed and this write becomes the new baseline, bypassing
	// reconciliation for this call.
	GateMatched
	// GateBlocked means the count did not match; the artifact is preserved
	// for retry.
	GateBlocked
)

// CheckGate evaluates an outstanding expectation artifact against the
// write's item count. Strict equality: each logical task must be its own
// item, so grouping cannot satisfy the gate. The gate is one-shot: a
// match consumes the artifact exactly once. Consume failure degrades to
// the implicit-bootstrap path on the next write rather than failing this
// one; the caller is told the gate matched either way.
func CheckGate(newItems []task.Item, art expectation.Artifact) (GateResult, *CountMismatchError) {
	expected, ok := art.Peek()
	if !ok {
		return GateNotApplicable, nil
	}

	if len(newItems) != expected {
		return GateBlocked, &CountMismatchError{Expected: expected, Actual: len(newItems)}
	}

	_ = art.Consume()
	return GateMatched, nil
}
