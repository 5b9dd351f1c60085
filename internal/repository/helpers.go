package repository

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// nullableFloatToValue converts a *float64 to a value suitable for SQLite storage.
func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// intsToCSV joins ints as a comma-separated string for storage.
func intsToCSV(vals []int) string {
	if len(vals) == 0 {
		return ""
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// csvToInts parses a comma-separated string back into ints, skipping
// malformed entries.
func csvToInts(s string) []int {
	if s == "" {
		return nil
	}
	var vals []int
	for _, part := range strings.Split(s, ",") {
		if v, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			vals = append(vals, v)
		}
	}
	return vals
}

// datesToCSV joins dates as a comma-separated string of YYYY-MM-DD.
func datesToCSV(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(dateLayout)
	}
	return strings.Join(parts, ",")
}

// csvToDates parses a comma-separated string of YYYY-MM-DD dates.
func csvToDates(s string) []time.Time {
	if s == "" {
		return nil
	}
	var dates []time.Time
	for _, part := range strings.Split(s, ",") {
		if t, err := time.Parse(dateLayout, strings.TrimSpace(part)); err == nil {
			dates = append(dates, t)
		}
	}
	return dates
}
