package specfile

import (
	"fmt"
	"strings"
)

const maxWarnPatternParts = 6

// Expand rewrites a compact document into its executable form by
// expanding typed tasks into subtask sequences:
//
//	ui:      design-skill pre-task + main + visual-QA post-task
//	backend: main + test post-task
//	func:    main + test post-task
//	docs:    main + verify post-task
//
// Untyped tasks pass through unchanged. Returns the expanded document
// and advisory warnings (alternating UI tasks inside a phase). An
// already-expanded document is returned as-is with no warnings.
func Expand(doc *Doc) (*Doc, []string) {
	if doc.Expansion != nil && doc.Expansion.Expanded {
		return doc, nil
	}

	var warnings []string
	out := &Doc{Name: doc.Name, Description: doc.Description}
	for i := range doc.Phases {
		phase := doc.Phases[i]

		if w := alternatingUIWarning(phase.Tasks, phase.ID); w != "" {
			warnings = append(warnings, w)
		}
		phase.Tasks = expandTasks(phase.Tasks)

		if phase.Loop != nil {
			if w := alternatingUIWarning(phase.Loop.Tasks, phase.ID+" (loop)"); w != "" {
				warnings = append(warnings, w)
			}
			loop := *phase.Loop
			loop.Tasks = expandTasks(phase.Loop.Tasks)
			phase.Loop = &loop
		}

		out.Phases = append(out.Phases, phase)
	}

	out.Expansion = &Expansion{Expanded: true, Warnings: warnings}
	return out, warnings
}

func expandTasks(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		out = append(out, expandTask(t)...)
	}
	return out
}

func expandTask(t Task) []Task {
	switch t.Type {
	case "ui":
		name := subjectOf(t)
		return []Task{
			{
				ID:       t.ID + "a",
				Task:     fmt.Sprintf("Run /frontend-design and /vercel-design-guidelines for %s", name),
				Type:     "_expanded_pre",
				ParentID: t.ID,
			},
			plain(t),
			{
				ID:       t.ID + "b",
				Task:     fmt.Sprintf("Visual QA for %s - run /visual-qa for new components, skip for minor edits", name),
				Type:     "_expanded_post",
				ParentID: t.ID,
			},
		}
	case "backend":
		return []Task{plain(t), {
			ID:       t.ID + "a",
			Task:     fmt.Sprintf("Test %s - verify returns correct data and handles errors", subjectOf(t)),
			Type:     "_expanded_post",
			ParentID: t.ID,
		}}
	case "func":
		return []Task{plain(t), {
			ID:       t.ID + "a",
			Task:     fmt.Sprintf("Test %s - run tests and verify passes", subjectOf(t)),
			Type:     "_expanded_post",
			ParentID: t.ID,
		}}
	case "docs":
		file := "file"
		if len(t.Files) > 0 {
			parts := strings.Split(t.Files[0], "/")
			file = parts[len(parts)-1]
		}
		return []Task{plain(t), {
			ID:       t.ID + "a",
			Task:     fmt.Sprintf("Verify %s exists and is properly updated", file),
			Type:     "_expanded_post",
			ParentID: t.ID,
			Files:    t.Files,
		}}
	default:
		return []Task{t}
	}
}

// plain strips the type tag so a later pass never re-expands the task.
func plain(t Task) Task {
	t.Type = ""
	return t
}

// subjectOf pulls a short subject out of the instruction text, the word
// after a leading verb ("Create ProfileCard component" -> "ProfileCard").
func subjectOf(t Task) string {
	words := strings.Fields(t.Task)
	for i, w := range words {
		switch w {
		case "Create", "Implement", "Build", "Add", "Update", "Write":
			if i+1 < len(words) {
				return strings.TrimRight(words[i+1], ",.:;")
			}
		}
	}
	if len(words) > 1 {
		return words[1]
	}
	if len(t.Task) > 20 {
		return t.Task[:20]
	}
	return t.Task
}

// alternatingUIWarning flags phases that interleave UI work with other
// task types, which forces a visual validation per switch. Advisory only.
func alternatingUIWarning(tasks []Task, phaseID string) string {
	if len(tasks) < 4 {
		return ""
	}

	alternations := 0
	var parts []string
	first := true
	lastWasUI := false
	for _, t := range tasks {
		isUI := t.Type == "ui"
		if !first && isUI != lastWasUI {
			alternations++
		}
		switch t.Type {
		case "ui", "backend", "func":
			parts = append(parts, fmt.Sprintf("%s(%s)", t.ID, t.Type))
		}
		lastWasUI = isUI
		first = false
	}

	if alternations < 3 {
		return ""
	}
	pattern := strings.Join(truncateParts(parts), " -> ")
	return fmt.Sprintf(
		"Phase %s has alternating UI tasks: %s\nConsider grouping UI tasks together to reduce repeated visual validations.\nThis is a suggestion, not a blocker.",
		phaseID, pattern)
}

func truncateParts(parts []string) []string {
	if len(parts) <= maxWarnPatternParts {
		return parts
	}
	return append(parts[:maxWarnPatternParts:maxWarnPatternParts], "...")
}
