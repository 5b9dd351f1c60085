package cli

import (
	"fmt"
	"strings"
	"time"
)

// timeNow is swappable in tests.
var timeNow = time.Now

// resolveID matches user input against a set of known IDs: exact match
// first, then unique prefix.
func resolveID(input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("ID is required")
	}

	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no match for %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseDateFlag parses an optional YYYY-MM-DD flag, returning the zero
// time when unset so services apply their defaults.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
