package hook

import (
	"fmt"
	"strings"

	"specguard/internal/canonical"
	"specguard/internal/config"
	"specguard/internal/task"
)

// Approve is the explicit non-blocking Stop decision.
func Approve() *Decision {
	return &Decision{Decision: "approve"}
}

// CheckPending decides whether the session may stop. It blocks only
// while a spec run is active, marked by an expected count on the
// canonical snapshot, and work remains. Read errors allow the stop so
// a damaged state file can never trap the session.
func CheckPending(projectDir string) *Decision {
	store := canonical.NewStore(config.StateDir(projectDir))

	snap, err := store.Load()
	if err != nil || snap == nil {
		return Approve()
	}
	if snap.ExpectedCount == nil {
		return Approve()
	}

	var pending []string
	for _, item := range snap.Todos {
		if item.Status != task.StatusCompleted {
			content := item.Content
			if content == "" {
				content = "Unknown task"
			}
			pending = append(pending, content)
		}
	}
	if len(pending) == 0 {
		return Approve()
	}

	return Block(fmt.Sprintf(
		"%d tasks still pending: %s. Continue execution with the next pending task. "+
			"If you are blocked or need clarification, use AskUserQuestion.",
		len(pending), pendingExamples(pending)))
}

func pendingExamples(pending []string) string {
	examples := pending
	if len(examples) > 3 {
		examples = examples[:3]
	}
	quoted := make([]string, len(examples))
	for i, t := range examples {
		// Truncation counts runes so a multibyte content boundary
		// never yields invalid UTF-8 in the reason string.
		if r := []rune(t); len(r) > 40 {
			quoted[i] = fmt.Sprintf("%q", string(r[:40])+"...")
		} else {
			quoted[i] = fmt.Sprintf("%q", t)
		}
	}
	s := strings.Join(quoted, ", ")
	if len(pending) > 3 {
		s += fmt.Sprintf(" and %d more", len(pending)-3)
	}
	return s
}
