package tools

import (
	"fmt"
	"time"
)

// defaultCalendarID is the partition used when no calendar_id is supplied.
// The memory backend ignores it; the Google backend treats it as the user's
// primary calendar.
const defaultCalendarID = "primary"

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch n := args[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return fallback
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// limitArg reads an optional result cap. Absent means the fallback; an
// explicitly provided value must be positive, so a limit of N always bounds
// the result to at most N entries.
func limitArg(args map[string]any, key string, fallback int) (int, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	n := intArg(args, key, fallback)
	if n <= 0 {
		return 0, fmt.Errorf("%w: field %q must be a positive integer", ErrInvalidArguments, key)
	}
	return n, nil
}

func calendarArg(args map[string]any) string {
	if id := stringArg(args, "calendar_id", ""); id != "" {
		return id
	}
	return defaultCalendarID
}

// timeArg parses a timestamp argument. RFC 3339 is canonical; a bare
// YYYY-MM-DD date is accepted for the list filter bounds.
func timeArg(args map[string]any, key string) (time.Time, error) {
	s, ok := args[key].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: field %q must be a string timestamp", ErrInvalidArguments, key)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: field %q is not a valid ISO 8601 timestamp: %q", ErrInvalidArguments, key, s)
}
