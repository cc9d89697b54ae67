package hook_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specguard/internal/checkpoint"
	"specguard/internal/hook"
)

func isolateExpectFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expected-count")
	t.Setenv("SPECGUARD_EXPECT_FILE", path)
	return path
}

func TestInExecutionContextEmptyProject(t *testing.T) {
	isolateExpectFile(t)
	dir := t.TempDir()

	assert.False(t, hook.InExecutionContext(dir))
}

func TestInExecutionContextExpectationArmed(t *testing.T) {
	path := isolateExpectFile(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path, []byte("12\n"), 0o600))

	assert.True(t, hook.InExecutionContext(dir))
}

func TestInExecutionContextCheckpointPresent(t *testing.T) {
	isolateExpectFile(t)
	dir := t.TempDir()
	store := checkpoint.NewStore(filepath.Join(dir, ".specguard"))
	_, err := store.Init("profiles", 40, "phase-2", "SPEC.json")
	require.NoError(t, err)

	assert.True(t, hook.InExecutionContext(dir))
}

func TestInExecutionContextSpecFilePresent(t *testing.T) {
	isolateExpectFile(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPEC.json"), []byte(`{"phases":[]}`), 0o600))

	assert.True(t, hook.InExecutionContext(dir))
}
