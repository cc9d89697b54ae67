package reconcile

import (
	"fmt"
	"strings"
)

// RemovalError reports canonical task identifiers that the new write
// neither carries nor covers with a declared phase collapse.
type RemovalError struct {
	Missing []string // sorted by (numeric phase, id)
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("task removal not allowed; missing: [%s]", strings.Join(e.Missing, ", "))
}

// ShrinkError reports an item-count drop with no collapse marker declared
// anywhere in the new write.
type ShrinkError struct {
	Before, After int
}

func (e *ShrinkError) Error() string {
	return fmt.Sprintf("task count decreased from %d to %d without a declared phase collapse", e.Before, e.After)
}

// CountMismatchError reports a write whose item count does not equal an
// outstanding expectation. The expectation artifact survives the block so
// the caller can retry with a corrected list.
type CountMismatchError struct {
	Expected, Actual int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected exactly %d task items, got %d", e.Expected, e.Actual)
}
