// Package task defines the task-list item model shared by the validation
// hook, the canonical store, and the TODO renderer, plus the identifier
// parsing that ties an item back to its SPEC task.
package task

// Status is the lifecycle state of a single task item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Item is one entry in a reported task list. Content carries the task
// identifier as a prefix before the first colon ("2.3: Process item");
// ActiveForm is the display text shown while the item is in progress.
type Item struct {
	Content    string `json:"content"`
	Status     Status `json:"status"`
	ActiveForm string `json:"activeForm,omitempty"`
}

// IDs returns the set of task identifiers extractable from items. Items
// whose content carries no recognizable identifier are skipped; they are
// untracked, not invalid.
func IDs(items []Item) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, it := range items {
		if id, ok := ExtractID(it.Content); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}
