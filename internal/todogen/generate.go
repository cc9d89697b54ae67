// Package todogen renders the task list an agent should report, from a
// SPEC document and the current checkpoint state. Completed phases
// collapse to summary items, the active loop phase expands to the tasks
// of the item currently being processed, and later phases keep their
// individual pending tasks.
package todogen

import (
	"fmt"
	"strings"

	"specguard/internal/checkpoint"
	"specguard/internal/specfile"
	"specguard/internal/task"
)

const (
	maxBaseTaskText = 60
	maxLoopTaskText = 50
)

// Base renders every SPEC task as its own pending item. This is the
// initial list, created before the loop starts, and the shape an
// expected-count gate is asserted against.
func Base(doc *specfile.Doc) []task.Item {
	var items []task.Item
	for i := range doc.Phases {
		for _, t := range doc.Phases[i].PhaseTasks() {
			desc := truncate(t.Task, maxBaseTaskText)
			items = append(items, task.Item{
				Content:    fmt.Sprintf("%s: %s", t.ID, desc),
				Status:     task.StatusPending,
				ActiveForm: fmt.Sprintf("Working on %s", desc),
			})
		}
	}
	return items
}

// Generate renders the task list for the checkpoint's position in the
// execution. With no active checkpoint it behaves like Base.
func Generate(doc *specfile.Doc, cp *checkpoint.Checkpoint) []task.Item {
	inLoop := cp != nil && cp.Status == checkpoint.StatusInProgress
	if !inLoop {
		return Base(doc)
	}

	// Phases ahead of the loop phase are complete once the loop is active.
	completedPhases := make(map[string]struct{})
	for i := range doc.Phases {
		if doc.Phases[i].IsLoop() {
			break
		}
		completedPhases[doc.Phases[i].ID] = struct{}{}
	}

	done := len(cp.CompletedItems)
	itemNum := cp.CurrentIndex + 1

	var items []task.Item
	for i := range doc.Phases {
		phase := &doc.Phases[i]
		tasks := phase.PhaseTasks()

		switch {
		case phase.IsLoop():
			items = append(items, task.Item{
				Content:    fmt.Sprintf("%s: %s (%d/%d)", phase.ID, phase.Name, done, cp.TotalItems),
				Status:     task.StatusInProgress,
				ActiveForm: fmt.Sprintf("Processing item %d/%d", itemNum, cp.TotalItems),
			})
			for _, t := range tasks {
				desc := truncate(t.Task, maxLoopTaskText)
				items = append(items, task.Item{
					Content:    fmt.Sprintf("  %s: [%d/%d] %s", t.ID, itemNum, cp.TotalItems, desc),
					Status:     loopTaskStatus(t.ID, cp.CurrentTask),
					ActiveForm: fmt.Sprintf("%s for %s", desc, itemName(cp)),
				})
			}

		case contains(completedPhases, phase.ID):
			items = append(items, task.Item{
				Content:    fmt.Sprintf("%s.x: %s (%d/%d) ✓", phaseNum(phase), phase.Name, len(tasks), len(tasks)),
				Status:     task.StatusCompleted,
				ActiveForm: fmt.Sprintf("Completed %s", phase.Name),
			})

		default:
			// Pending non-loop phases keep their per-task items so the
			// rendered list still covers every canonical identifier.
			for _, t := range tasks {
				desc := truncate(t.Task, maxBaseTaskText)
				items = append(items, task.Item{
					Content:    fmt.Sprintf("%s: %s", t.ID, desc),
					Status:     task.StatusPending,
					ActiveForm: fmt.Sprintf("Working on %s", desc),
				})
			}
		}
	}
	return items
}

// loopTaskStatus derives a loop task's status from the checkpoint cursor
// using natural identifier order, so 2.10 counts as after 2.2.
func loopTaskStatus(id, currentTask string) task.Status {
	if currentTask == "" {
		return task.StatusPending
	}
	switch {
	case id == currentTask:
		return task.StatusInProgress
	case task.NaturalLess(id, currentTask):
		return task.StatusCompleted
	default:
		return task.StatusPending
	}
}

// phaseNum extracts the numeric phase prefix from a phase's first task id
// ("10.1" -> "10"), falling back to the phase id.
func phaseNum(p *specfile.Phase) string {
	tasks := p.PhaseTasks()
	if len(tasks) == 0 {
		return p.ID
	}
	first := tasks[0].ID
	if head, _, found := strings.Cut(first, "."); found {
		return head
	}
	return first
}

func itemName(cp *checkpoint.Checkpoint) string {
	if cp.CurrentItemName != "" {
		return cp.CurrentItemName
	}
	if cp.CurrentItemID != "" {
		return cp.CurrentItemID
	}
	return "current item"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
