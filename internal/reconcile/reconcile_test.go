package reconcile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specguard/internal/canonical"
	"specguard/internal/expectation"
	"specguard/internal/reconcile"
	"specguard/internal/task"
)

func items(contents ...string) []task.Item {
	out := make([]task.Item, len(contents))
	for i, c := range contents {
		out[i] = task.Item{Content: c, Status: task.StatusPending}
	}
	return out
}

func snapshotOf(t *testing.T, contents ...string) *canonical.Snapshot {
	t.Helper()
	store := canonical.NewStore(t.TempDir())
	snap, err := store.Save(items(contents...), "", nil)
	require.NoError(t, err)
	return snap
}

func TestReconcileIdenticalWrite(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup", "0.2: Config", "1.1: Build")

	out := reconcile.Reconcile(items("0.1: Setup", "0.2: Config", "1.1: Build"), snap)
	assert.Equal(t, reconcile.VerdictAllow, out.Verdict)
	assert.NoError(t, out.Err)
}

func TestReconcileStatusChangeAllowed(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup", "0.2: Config", "1.1: Build")

	newItems := []task.Item{
		{Content: "0.1: Setup", Status: task.StatusCompleted},
		{Content: "0.2: Config", Status: task.StatusInProgress},
		{Content: "1.1: Build", Status: task.StatusPending},
	}
	out := reconcile.Reconcile(newItems, snap)
	assert.Equal(t, reconcile.VerdictAllow, out.Verdict)
}

func TestReconcileRemovalBlocked(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup", "0.2: Config", "1.1: Build")

	out := reconcile.Reconcile(items("0.1: Setup", "1.1: Build"), snap)
	require.Equal(t, reconcile.VerdictBlock, out.Verdict)

	var removal *reconcile.RemovalError
	require.ErrorAs(t, out.Err, &removal)
	assert.Equal(t, []string{"0.2"}, removal.Missing)
}

func TestReconcileMissingIDsSorted(t *testing.T) {
	snap := snapshotOf(t,
		"0.2: B", "10.1: K", "2.1: E", "phase-3: Loop", "0.1: A")

	out := reconcile.Reconcile(items("unrelated note without id"), snap)
	require.Equal(t, reconcile.VerdictBlock, out.Verdict)

	var removal *reconcile.RemovalError
	require.ErrorAs(t, out.Err, &removal)
	assert.Equal(t, []string{"0.1", "0.2", "2.1", "10.1", "phase-3"}, removal.Missing)
}

func TestReconcilePhaseCollapseAllowed(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup", "0.2: Config", "0.3: Verify", "1.1: Build", "1.2: Test")

	newItems := []task.Item{
		{Content: "0.x: Pre-Flight completed ✓", Status: task.StatusCompleted},
		{Content: "1.1: Build", Status: task.StatusInProgress},
		{Content: "1.2: Test", Status: task.StatusPending},
	}
	out := reconcile.Reconcile(newItems, snap)
	assert.Equal(t, reconcile.VerdictAllow, out.Verdict)
}

func TestReconcileLoopMarkerCollapse(t *testing.T) {
	snap := snapshotOf(t, "2.1: Fetch", "2.2: Transform", "3.1: Verify")

	newItems := []task.Item{
		{Content: "2.loop: Process items (5/40)", Status: task.StatusInProgress},
		{Content: "3.1: Verify", Status: task.StatusPending},
	}
	out := reconcile.Reconcile(newItems, snap)
	assert.Equal(t, reconcile.VerdictAllow, out.Verdict)
}

func TestReconcileShrinkWithoutCollapseBlocked(t *testing.T) {
	// Untracked items dropped from the list: no ids go missing, but the
	// count shrank with no collapse declared.
	store := canonical.NewStore(t.TempDir())
	snap, err := store.Save([]task.Item{
		{Content: "0.1: Setup", Status: task.StatusPending},
		{Content: "free-form note", Status: task.StatusPending},
		{Content: "another note", Status: task.StatusPending},
	}, "", nil)
	require.NoError(t, err)

	out := reconcile.Reconcile(items("0.1: Setup"), snap)
	require.Equal(t, reconcile.VerdictBlock, out.Verdict)

	var shrink *reconcile.ShrinkError
	require.ErrorAs(t, out.Err, &shrink)
	assert.Equal(t, 3, shrink.Before)
	assert.Equal(t, 1, shrink.After)
}

func TestReconcileLoopExpansionAllowed(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup", "2.0: Update checkpoint", "2.1: Process item", "3.1: Verify")

	newItems := []task.Item{
		{Content: "0.1: Setup", Status: task.StatusCompleted},
		{Content: "2.0: [1/40] Update checkpoint", Status: task.StatusInProgress},
		{Content: "2.1: [1/40] Process item", Status: task.StatusPending},
		{Content: "3.1: Verify", Status: task.StatusPending},
	}
	out := reconcile.Reconcile(newItems, snap)
	assert.Equal(t, reconcile.VerdictAllow, out.Verdict)
}

func TestReconcileGrowthAllowed(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup")

	out := reconcile.Reconcile(items("0.1: Setup", "0.2: New sub-task", "0.3: Another"), snap)
	assert.Equal(t, reconcile.VerdictAllow, out.Verdict)
}

func TestReconcileFreshStartReplaces(t *testing.T) {
	snap := snapshotOf(t, "0.1: Setup", "0.2: Config")

	out := reconcile.Reconcile(items("7.1: Entirely new work", "7.2: More new work"), snap)
	assert.Equal(t, reconcile.VerdictReplace, out.Verdict)
	assert.NoError(t, out.Err)
}

func TestReconcileFreshStartPrecedesCollapse(t *testing.T) {
	// Zero overlap with a collapse marker present: fresh start is checked
	// first, unconditionally, so this replaces rather than reconciles.
	snap := snapshotOf(t, "0.1: Setup", "0.2: Config")

	newItems := []task.Item{
		{Content: "9.x: Old phase completed ✓", Status: task.StatusCompleted},
		{Content: "9.1: New task", Status: task.StatusPending},
	}
	out := reconcile.Reconcile(newItems, snap)
	assert.Equal(t, reconcile.VerdictReplace, out.Verdict)
}

func TestReconcileNoIDsInWriteIsNotFreshStart(t *testing.T) {
	// A write with no extractable ids has an empty new id set, so the
	// fresh-start override does not apply and removal detection runs.
	snap := snapshotOf(t, "0.1: Setup")

	out := reconcile.Reconcile(items("no identifier here"), snap)
	assert.Equal(t, reconcile.VerdictBlock, out.Verdict)
}

func TestCheckGateNotApplicable(t *testing.T) {
	art := expectation.Artifact{Path: filepath.Join(t.TempDir(), "count")}

	result, mismatch := reconcile.CheckGate(items("0.1: A"), art)
	assert.Equal(t, reconcile.GateNotApplicable, result)
	assert.Nil(t, mismatch)
}

func TestCheckGateMismatchPreservesArtifact(t *testing.T) {
	art := expectation.Artifact{Path: filepath.Join(t.TempDir(), "count")}
	require.NoError(t, art.Set(5))

	result, mismatch := reconcile.CheckGate(items("0.1: A", "0.2: B", "0.3: C"), art)
	require.Equal(t, reconcile.GateBlocked, result)
	require.NotNil(t, mismatch)
	assert.Equal(t, 5, mismatch.Expected)
	assert.Equal(t, 3, mismatch.Actual)

	// Artifact survives for retry.
	n, ok := art.Peek()
	require.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestCheckGateMatchConsumesOnce(t *testing.T) {
	art := expectation.Artifact{Path: filepath.Join(t.TempDir(), "count")}
	require.NoError(t, art.Set(2))

	result, mismatch := reconcile.CheckGate(items("0.1: A", "0.2: B"), art)
	assert.Equal(t, reconcile.GateMatched, result)
	assert.Nil(t, mismatch)

	_, ok := art.Peek()
	assert.False(t, ok, "artifact should be consumed on match")

	// Second evaluation sees no expectation.
	result, _ = reconcile.CheckGate(items("0.1: A", "0.2: B"), art)
	assert.Equal(t, reconcile.GateNotApplicable, result)
}
