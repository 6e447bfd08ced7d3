// File path: internal/section/section.go

// Package section isolates the slice of a destination-catalog corpus that
// belongs to a single department. The corpora are pipe-delimited table dumps
// in which every department opens with a header row carrying the literal
// "n° borse" ("number of places") marker, so boundary detection is a plain
// line scan rather than anything structural.
//
// Known failure modes: a department whose header was split across two table
// rows by the PDF extractor is only caught by the loose fallback predicate,
// and two departments with overlapping names resolve to whichever header
// appears first.
package section

import (
	"errors"
	"fmt"
	"strings"
)

// headerMarker is the literal phrase that department header rows carry in the
// source documents.
const headerMarker = "n° borse"

// looseMarker is accepted by the fallback predicate when the extractor
// mangled the full marker.
const looseMarker = "borse"

var (
	// ErrDepartmentNotFound is returned when no line of the corpus can be
	// attributed to the requested department.
	ErrDepartmentNotFound = errors.New("department not found in corpus")
	// ErrEmptySection is returned when the detected boundaries enclose only
	// blank text.
	ErrEmptySection = errors.New("department section is empty")
)

// Section is a contiguous line range of a corpus belonging to one department.
type Section struct {
	Department string
	RawText    string
}

// Extract returns the contiguous block of corpus lines that belongs to the
// named department. The start boundary is the first line containing both the
// department name and the header marker; the end boundary is the next line
// matching the generic header pattern, or end of corpus. Single pass over the
// lines, case-insensitive.
func Extract(corpus, department string) (Section, error) {
	dept := strings.ToLower(strings.TrimSpace(department))
	if dept == "" {
		return Section{}, fmt.Errorf("%w: empty department name", ErrDepartmentNotFound)
	}
	lines := strings.Split(corpus, "\n")

	start := findHeader(lines, dept)
	if start < 0 {
		return Section{}, fmt.Errorf("%w: %q", ErrDepartmentNotFound, department)
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(lines[i]), headerMarker) {
			end = i
			break
		}
	}

	raw := strings.Join(lines[start:end], "\n")
	if strings.TrimSpace(raw) == "" {
		return Section{}, fmt.Errorf("%w: %q", ErrEmptySection, department)
	}
	return Section{Department: department, RawText: raw}, nil
}

// findHeader locates the department's header line. The strict predicate
// requires the full marker; the fallback accepts a table row or the loose
// keyword, which recovers headers the PDF extractor flattened.
func findHeader(lines []string, dept string) int {
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, dept) && strings.Contains(lower, headerMarker) {
			return i
		}
	}
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, dept) {
			continue
		}
		if strings.Contains(line, "|") || strings.Contains(lower, looseMarker) {
			return i
		}
	}
	return -1
}
