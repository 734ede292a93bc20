// Package parsing provides defensive parsing for the loosely-typed fields
// that arrive from upstream sources: free-form dates and numeric text.
// Parse failures never error; callers get a (value, ok) pair and fall back
// to neutral defaults.
package parsing

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Upstream sources emit a mix of RFC3339
// timestamps, plain dates, and year-month strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseFlexibleDate parses a free-form date string. The second return is
// false when no known layout matches.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LatestDate parses each value and returns the most recent one. The second
// return is false when none of the values parse.
func LatestDate(values ...string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, v := range values {
		t, ok := ParseFlexibleDate(v)
		if !ok {
			continue
		}
		if !found || t.After(best) {
			best = t
			found = true
		}
	}
	return best, found
}

// DaysBetween returns the whole days from older to newer, never negative.
func DaysBetween(older, newer time.Time) int {
	if newer.Before(older) {
		return 0
	}
	return int(newer.Sub(older).Hours() / 24)
}
