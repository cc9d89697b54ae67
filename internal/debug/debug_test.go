package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogEventAppends(t *testing.T) {
	dir := t.TempDir()

	LogEvent(dir, "todo_write_blocked", "missing: [0.2]")
	LogEvent(dir, "canonical_created", "5 items")

	data, err := os.ReadFile(filepath.Join(dir, "events.log"))
	if err != nil {
		t.Fatalf("reading events.log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "|todo_write_blocked|missing: [0.2]") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "|canonical_created|5 items") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestLogEventNoStateDir(t *testing.T) {
	// Empty state dir is a no-op, not a panic.
	LogEvent("", "event", "detail")
}
