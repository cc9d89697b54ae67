package task

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ExtractID parses the task identifier out of item content.
//
// The identifier is the segment before the first colon, after trimming
// whitespace. It qualifies iff it is non-empty and contains a '.', starts
// with "phase-", or begins with a digit:
//
//	"0.1: Verify environment"       -> "0.1"
//	"  2.3: [5/40] Process item"    -> "2.3"
//	"1.x: Phase completed"          -> "1.x"
//	"phase-2: Loop (5/40)"          -> "phase-2"
//	"just a note"                   -> no identifier
func ExtractID(content string) (string, bool) {
	content = strings.TrimSpace(content)

	before, _, found := strings.Cut(content, ":")
	if !found {
		return "", false
	}
	prefix := strings.TrimSpace(before)
	if prefix == "" {
		return "", false
	}
	if strings.Contains(prefix, ".") || strings.HasPrefix(prefix, "phase-") || unicode.IsDigit(rune(prefix[0])) {
		return prefix, true
	}
	return "", false
}

// Phase returns the phase part of an identifier: the segment before the
// first '.', or the N of a "phase-N" identifier. Empty when the identifier
// has no phase structure.
func Phase(id string) string {
	if before, _, found := strings.Cut(id, "."); found {
		return before
	}
	if rest, ok := strings.CutPrefix(id, "phase-"); ok {
		return rest
	}
	return ""
}

// IsCollapsedPhase reports whether item content is a phase summary standing
// in for all individually tracked tasks of that phase:
//
//	"0.x: Pre-Flight completed"      -> true
//	"2.loop: Process items (5/40)"   -> true
//	"1.x: Discovery (5/5) ✓"         -> true
//	"0.1: Verify environment"        -> false
func IsCollapsedPhase(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))

	if strings.Contains(lower, ".x:") || strings.Contains(lower, ".loop:") {
		return true
	}
	return strings.Contains(lower, "completed") && strings.Contains(lower, "✓")
}

// SortIDs orders identifiers by (numeric phase, id), with non-numeric
// phases sorted last. This is the order block reasons enumerate missing
// tasks in, so "0.2" reads before "10.1" and before "phase-2".
func SortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := phaseSortKey(ids[i]), phaseSortKey(ids[j])
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
}

func phaseSortKey(id string) int {
	head, _, _ := strings.Cut(id, ".")
	if n, err := strconv.Atoi(head); err == nil {
		return n
	}
	return 999
}

// NaturalLess compares two dot-separated numeric identifiers in natural
// order, so "1.10" sorts after "1.2". Non-numeric segments are ignored.
func NaturalLess(a, b string) bool {
	na, nb := numericParts(a), numericParts(b)
	for i := 0; i < len(na) && i < len(nb); i++ {
		if na[i] != nb[i] {
			return na[i] < nb[i]
		}
	}
	return len(na) < len(nb)
}

func numericParts(id string) []int {
	var parts []int
	for _, seg := range strings.Split(id, ".") {
		if n, err := strconv.Atoi(seg); err == nil {
			parts = append(parts, n)
		}
	}
	return parts
}
