// Package specfile reads multi-phase SPEC documents and extracts the
// ordered task identifiers the validation core reconciles against.
//
// SPECs are structured JSON or YAML documents (phases holding tasks, with
// an optional per-item loop), or Markdown plans whose tasks appear as
// "#### N.M Title" headings or "| N.M |" table rows.
package specfile

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Doc is a parsed structured SPEC document.
type Doc struct {
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Phases      []Phase    `json:"phases" yaml:"phases"`
	Expansion   *Expansion `json:"_expansion,omitempty" yaml:"_expansion,omitempty"`
}

// Expansion marks a document that has already been expanded, so a second
// expansion pass does not double the subtasks.
type Expansion struct {
	Expanded bool     `json:"expanded" yaml:"expanded"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Phase is one named group of tasks. A loop phase holds its tasks under
// Loop; they are repeated once per processed item.
type Phase struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Tasks []Task `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Loop  *Loop  `json:"loop,omitempty" yaml:"loop,omitempty"`
}

// Loop describes the per-item task block of a loop phase.
type Loop struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Tasks       []Task `json:"tasks" yaml:"tasks"`
}

// Task is a single SPEC task: an identifier plus its instruction text.
// Compact documents may tag tasks with a Type that drives expansion;
// expanded subtasks carry ParentID back to the task they came from.
type Task struct {
	ID       string   `json:"id" yaml:"id"`
	Task     string   `json:"task" yaml:"task"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Files    []string `json:"files,omitempty" yaml:"files,omitempty"`
	ParentID string   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// IsLoop reports whether the phase carries a per-item loop.
func (p *Phase) IsLoop() bool {
	return p.Loop != nil
}

// PhaseTasks returns the task block a renderer iterates: the loop block
// when present, the plain tasks otherwise.
func (p *Phase) PhaseTasks() []Task {
	if p.Loop != nil {
		return p.Loop.Tasks
	}
	return p.Tasks
}

// AllTasks returns every task the phase declares. A phase may carry both
// a plain tasks block and a loop block; counting covers both.
func (p *Phase) AllTasks() []Task {
	if p.Loop == nil {
		return p.Tasks
	}
	all := make([]Task, 0, len(p.Tasks)+len(p.Loop.Tasks))
	all = append(all, p.Tasks...)
	all = append(all, p.Loop.Tasks...)
	return all
}

// TaskIDs returns every task identifier in document order.
func (d *Doc) TaskIDs() []string {
	var ids []string
	for i := range d.Phases {
		for _, t := range d.Phases[i].AllTasks() {
			if t.ID != "" {
				ids = append(ids, t.ID)
			}
		}
	}
	return ids
}

// Load parses a structured SPEC file by extension (.json, .yaml, .yml).
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}

	var doc Doc
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing spec %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing spec %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported spec format %q", filepath.Ext(path))
	}
	return &doc, nil
}

// WriteJSON writes a document to disk as indented JSON.
func WriteJSON(path string, doc *Doc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding spec: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// mdHeading matches "### N.M Title" / "#### N.M Title" task headings.
var mdHeading = regexp.MustCompile(`#{3,4}\s+(\d+\.\d+)\s+`)

// mdTableRow matches "| N.M | ... |" task table rows.
var mdTableRow = regexp.MustCompile(`\|\s*(\d+\.\d+)\s*\|`)

// mdCheckbox matches "- [ ] Task description" checklist lines.
var mdCheckbox = regexp.MustCompile(`- \[ \] (.+)`)

// Count returns the task count and ordered identifiers of a SPEC file.
// Markdown plans are scanned textually; structured formats go through
// Load. Checklist items without a numeric identifier count toward the
// total but contribute no id.
func Count(path string) (int, []string, error) {
	if strings.EqualFold(filepath.Ext(path), ".md") {
		return countMarkdown(path)
	}

	doc, err := Load(path)
	if err != nil {
		return 0, nil, err
	}
	ids := doc.TaskIDs()
	return len(ids), ids, nil
}

func countMarkdown(path string) (int, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("reading spec: %w", err)
	}
	content := string(data)

	var ids []string
	seen := make(map[string]struct{})
	for _, m := range mdHeading.FindAllStringSubmatch(content, -1) {
		if _, ok := seen[m[1]]; !ok {
			seen[m[1]] = struct{}{}
			ids = append(ids, m[1])
		}
	}
	for _, m := range mdTableRow.FindAllStringSubmatch(content, -1) {
		if _, ok := seen[m[1]]; !ok {
			seen[m[1]] = struct{}{}
			ids = append(ids, m[1])
		}
	}

	checkboxes := 0
	boxSeen := make(map[string]struct{})
	for _, m := range mdCheckbox.FindAllStringSubmatch(content, -1) {
		text := strings.TrimSpace(m[1])
		if _, ok := boxSeen[text]; !ok {
			boxSeen[text] = struct{}{}
			checkboxes++
		}
	}
	return len(ids) + checkboxes, ids, nil
}

// Find locates the project's SPEC file. Fixed candidates are checked
// first, then any SPEC*.json anywhere under the project, skipping hidden
// directories and node_modules. The returned path is project-relative.
func Find(projectDir string) (string, bool) {
	candidates := []string{
		"SPEC.json",
		"spec.json",
		filepath.Join(".specguard", "SPEC.json"),
	}
	for _, rel := range candidates {
		if info, err := os.Stat(filepath.Join(projectDir, rel)); err == nil && !info.IsDir() {
			return rel, true
		}
	}

	var found string
	_ = filepath.WalkDir(projectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != projectDir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if found == "" && strings.HasPrefix(name, "SPEC") && strings.HasSuffix(name, ".json") {
			if rel, relErr := filepath.Rel(projectDir, path); relErr == nil {
				found = rel
			}
			return filepath.SkipAll
		}
		return nil
	})
	return found, found != ""
}
