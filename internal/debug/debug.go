// Package debug provides env-gated diagnostic logging and an event
// trail for hook invocations.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	enabled  = os.Getenv("SPECGUARD_DEBUG") != ""
	logMutex sync.Mutex
)

// Enabled reports whether diagnostic output is on.
func Enabled() bool {
	return enabled
}

// Logf writes a diagnostic line to stderr when debugging is enabled.
func Logf(format string, args ...interface{}) {
	if enabled {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Warnf always writes to stderr. Used for degraded-but-continuing
// conditions such as a failed best-effort state save.
func Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// LogEvent appends a line to <stateDir>/events.log.
// Format: TIMESTAMP|EVENT_CODE|DETAILS
func LogEvent(stateDir, eventCode, details string) {
	if stateDir == "" {
		return
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	entry := fmt.Sprintf("%s|%s|%s\n", timestamp, eventCode, details)

	logMutex.Lock()
	defer logMutex.Unlock()

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "events.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(entry)
}
