package specfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specguard/internal/specfile"
)

const jsonSpec = `{
  "name": "re-enrichment",
  "phases": [
    {
      "id": "phase-0",
      "name": "Pre-Flight",
      "tasks": [
        {"id": "0.1", "task": "Verify environment"},
        {"id": "0.2", "task": "Load configuration"}
      ]
    },
    {
      "id": "phase-2",
      "name": "Process profiles",
      "loop": {
        "description": "per profile",
        "tasks": [
          {"id": "2.1", "task": "Fetch profile"},
          {"id": "2.2", "task": "Enrich profile"}
        ]
      }
    }
  ]
}`

const yamlSpec = `name: re-enrichment
phases:
  - id: phase-0
    name: Pre-Flight
    tasks:
      - id: "0.1"
        task: Verify environment
  - id: phase-2
    name: Process profiles
    loop:
      tasks:
        - id: "2.1"
          task: Fetch profile
`

const mdSpec = `# Plan

### 0.1 Verify environment

Some prose.

#### 0.2 Load configuration

| ID | Task |
|----|------|
| 1.1 | Build |
| 1.2 | Test |
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "SPEC.json", jsonSpec)

	doc, err := specfile.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "re-enrichment", doc.Name)
	require.Len(t, doc.Phases, 2)
	assert.False(t, doc.Phases[0].IsLoop())
	assert.True(t, doc.Phases[1].IsLoop())
	assert.Equal(t, []string{"0.1", "0.2", "2.1", "2.2"}, doc.TaskIDs())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "SPEC.yaml", yamlSpec)

	doc, err := specfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.1", "2.1"}, doc.TaskIDs())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "SPEC.toml", "")

	_, err := specfile.Load(path)
	assert.Error(t, err)
}

func TestCountStructured(t *testing.T) {
	path := writeFile(t, t.TempDir(), "SPEC.json", jsonSpec)

	count, ids, err := specfile.Count(path)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{"0.1", "0.2", "2.1", "2.2"}, ids)
}

func TestCountMixedPhase(t *testing.T) {
	// A phase may declare setup tasks alongside its loop block; both
	// count toward the expected total.
	mixed := `{
  "phases": [
    {
      "id": "phase-2",
      "name": "Process profiles",
      "tasks": [
        {"id": "2.0", "task": "Open batch"}
      ],
      "loop": {
        "tasks": [
          {"id": "2.1", "task": "Fetch profile"},
          {"id": "2.2", "task": "Enrich profile"}
        ]
      }
    }
  ]
}`
	path := writeFile(t, t.TempDir(), "SPEC.json", mixed)

	count, ids, err := specfile.Count(path)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"2.0", "2.1", "2.2"}, ids)
}

func TestCountMarkdown(t *testing.T) {
	path := writeFile(t, t.TempDir(), "SPEC.md", mdSpec)

	count, ids, err := specfile.Count(path)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{"0.1", "0.2", "1.1", "1.2"}, ids)
}

func TestCountMarkdownCheckboxes(t *testing.T) {
	// Checklist items count toward the total even without numeric ids.
	plan := `# Plan

### 1.1 Build

- [ ] wire the config
- [ ] add the handler
- [x] already done, not counted
`
	path := writeFile(t, t.TempDir(), "SPEC.md", plan)

	count, ids, err := specfile.Count(path)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"1.1"}, ids)
}

func TestFindPrefersRootCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SPEC.json", jsonSpec)

	rel, ok := specfile.Find(dir)
	require.True(t, ok)
	assert.Equal(t, "SPEC.json", rel)
}

func TestFindSearchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	writeFile(t, filepath.Join(dir, "docs"), "SPEC-v2.json", jsonSpec)

	rel, ok := specfile.Find(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("docs", "SPEC-v2.json"), rel)
}

func TestFindSkipsHiddenAndNodeModules(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{".git", "node_modules"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
		writeFile(t, filepath.Join(dir, sub), "SPEC.json", jsonSpec)
	}

	_, ok := specfile.Find(dir)
	assert.False(t, ok)
}

func TestFindNothing(t *testing.T) {
	_, ok := specfile.Find(t.TempDir())
	assert.False(t, ok)
}
