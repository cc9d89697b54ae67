// Package hook implements Claude Code hook handlers for TodoWrite
// validation and end-of-session pending-work checks.
//
// Handlers read a hook event from stdin and emit a JSON decision on
// stdout. An empty decision means the event proceeds unmodified.
package hook

import (
	"encoding/json"
	"fmt"
	"io"

	"specguard/internal/task"
)

// Event is the hook payload Claude Code delivers on stdin.
type Event struct {
	SessionID     string    `json:"session_id,omitempty"`
	HookEventName string    `json:"hook_event_name,omitempty"`
	ToolName      string    `json:"tool_name,omitempty"`
	CWD           string    `json:"cwd,omitempty"`
	ToolInput     ToolInput `json:"tool_input,omitempty"`
}

// ToolInput carries the TodoWrite arguments.
type ToolInput struct {
	Todos []task.Item `json:"todos,omitempty"`
}

// Decision is the hook response. A "block" decision stops the tool
// call or session and surfaces Reason to the agent.
type Decision struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Block builds a blocking decision with the given reason.
func Block(reason string) *Decision {
	return &Decision{Decision: "block", Reason: reason}
}

// ParseEvent decodes a hook event from r.
func ParseEvent(r io.Reader) (*Event, error) {
	var ev Event
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("parsing hook event: %w", err)
	}
	return &ev, nil
}
