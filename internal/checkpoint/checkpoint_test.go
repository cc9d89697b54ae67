package checkpoint_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specguard/internal/checkpoint"
)

func TestInitCreatesFreshCheckpoint(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())

	cp, err := store.Init("re-enrichment", 40, "phase-2", "SPEC.json")
	require.NoError(t, err)

	assert.Equal(t, "re-enrichment", cp.SpecName)
	assert.Equal(t, "SPEC.json", cp.SpecFile)
	assert.Equal(t, 40, cp.TotalItems)
	assert.Equal(t, "phase-2", cp.LoopPhase)
	assert.Equal(t, 0, cp.CurrentIndex)
	assert.Empty(t, cp.CompletedItems)
	assert.Empty(t, cp.FailedItems)
	assert.Equal(t, checkpoint.StatusInProgress, cp.Status)
	assert.NotEmpty(t, cp.RunID)
}

func TestInitOverwritesExisting(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())

	first, err := store.Init("spec", 10, "phase-2", "")
	require.NoError(t, err)
	_, err = store.Complete("spec", 0, "item-0")
	require.NoError(t, err)

	second, err := store.Init("spec", 20, "phase-3", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 20, second.TotalItems)
	assert.Empty(t, second.CompletedItems)
}

func TestReadMissingReturnsNil(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())

	cp, err := store.Read("nothing")
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestUpdateRequiresInit(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())

	_, err := store.Update("ghost", 3, "2.5", "", "")
	require.ErrorIs(t, err, checkpoint.ErrNotInitialized)

	_, err = store.Complete("ghost", 3, "")
	require.ErrorIs(t, err, checkpoint.ErrNotInitialized)

	_, err = store.Fail("ghost", 3, "", "boom")
	require.ErrorIs(t, err, checkpoint.ErrNotInitialized)
}

func TestUpdateMovesCursorOnly(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 40, "phase-2", "")
	require.NoError(t, err)

	cp, err := store.Update("spec", 7, "2.3", "acme-corp", "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, 7, cp.CurrentIndex)
	assert.Equal(t, "2.3", cp.CurrentTask)
	assert.Equal(t, "acme-corp", cp.CurrentItemID)
	assert.Equal(t, "Acme Corp", cp.CurrentItemName)
	assert.Empty(t, cp.CompletedItems)
	assert.Empty(t, cp.FailedItems)

	// Omitted item fields keep their previous values.
	cp, err = store.Update("spec", 8, "2.4", "", "")
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", cp.CurrentItemID)
	assert.Equal(t, "Acme Corp", cp.CurrentItemName)
}

func TestCompleteDefaultsToCurrentItem(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 40, "phase-2", "")
	require.NoError(t, err)
	_, err = store.Update("spec", 0, "2.1", "acme-corp", "Acme Corp")
	require.NoError(t, err)

	cp, err := store.Complete("spec", 0, "")
	require.NoError(t, err)

	require.Len(t, cp.CompletedItems, 1)
	assert.Equal(t, "acme-corp", cp.CompletedItems[0].ItemID)
	assert.Equal(t, 0, cp.CompletedItems[0].Index)
}

func TestStatusFlipsExactlyAtTotal(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 40, "phase-2", "")
	require.NoError(t, err)

	for i := 0; i < 39; i++ {
		cp, err := store.Complete("spec", i, fmt.Sprintf("item-%d", i))
		require.NoError(t, err)
		assert.Equal(t, checkpoint.StatusInProgress, cp.Status, "status must stay in_progress at %d/40", i+1)
	}

	cp, err := store.Complete("spec", 39, "item-39")
	require.NoError(t, err)
	assert.Equal(t, checkpoint.StatusCompleted, cp.Status)
	assert.Equal(t, 0, cp.Remaining())
}

func TestStatusNeverReverts(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 1, "phase-2", "")
	require.NoError(t, err)

	_, err = store.Complete("spec", 0, "only")
	require.NoError(t, err)

	// Failures and further completes after completion keep the status.
	cp, err := store.Fail("spec", 0, "only", "late failure report")
	require.NoError(t, err)
	assert.Equal(t, checkpoint.StatusCompleted, cp.Status)

	cp, err = store.Complete("spec", 0, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, checkpoint.StatusCompleted, cp.Status)
	assert.Len(t, cp.CompletedItems, 2, "ledger is append-only, no dedup")
}

func TestFailIsInformational(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 10, "phase-2", "")
	require.NoError(t, err)

	cp, err := store.Fail("spec", 4, "bad-item", "schema mismatch")
	require.NoError(t, err)

	require.Len(t, cp.FailedItems, 1)
	assert.Equal(t, "schema mismatch", cp.FailedItems[0].Reason)
	assert.Equal(t, checkpoint.StatusInProgress, cp.Status)
	assert.Empty(t, cp.CompletedItems)
}

func TestLedgersPersistAcrossReads(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 3, "phase-2", "")
	require.NoError(t, err)

	_, err = store.Complete("spec", 0, "a")
	require.NoError(t, err)
	_, err = store.Fail("spec", 1, "b", "flaky")
	require.NoError(t, err)
	_, err = store.Complete("spec", 1, "b")
	require.NoError(t, err)

	cp, err := store.Read("spec")
	require.NoError(t, err)
	assert.Len(t, cp.CompletedItems, 2)
	assert.Len(t, cp.FailedItems, 1)
	assert.Equal(t, 1, cp.Remaining())
}

func TestClearRemovesCheckpointAndDecisions(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())
	_, err := store.Init("spec", 3, "phase-2", "")
	require.NoError(t, err)
	require.NoError(t, store.LogDecision("spec", "skipped item 2: missing source data"))

	require.FileExists(t, store.Path("spec"))
	require.FileExists(t, store.DecisionsPath("spec"))

	require.NoError(t, store.Clear("spec"))

	assert.NoFileExists(t, store.Path("spec"))
	assert.NoFileExists(t, store.DecisionsPath("spec"))

	// Clearing again is not an error.
	assert.NoError(t, store.Clear("spec"))
}

func TestLogDecisionAppends(t *testing.T) {
	store := checkpoint.NewStore(t.TempDir())

	require.NoError(t, store.LogDecision("spec", "first entry"))
	require.NoError(t, store.LogDecision("spec", "second entry"))

	data, err := os.ReadFile(store.DecisionsPath("spec"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first entry")
	assert.Contains(t, string(data), "second entry")

	// Each entry is a plain markdown bullet: "- <timestamp>: <text>".
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		assert.Regexp(t, `^- \d{4}-\d{2}-\d{2}T[0-9:]+Z: `, line)
	}
}

func TestHasAny(t *testing.T) {
	dir := t.TempDir()
	store := checkpoint.NewStore(dir)

	assert.False(t, store.HasAny())

	_, err := store.Init("spec", 1, "phase-2", "")
	require.NoError(t, err)
	assert.True(t, store.HasAny())
}
