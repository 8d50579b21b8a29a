package util

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the wall-clock format the EIP API expects for every datetime column.
const TimestampLayout = "2006-01-02 15:04:05"

var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	TimestampLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime tries RFC3339 variants, the common naive layouts, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// NormalizeTimestamp parses s and re-formats it with TimestampLayout.
// Zoned inputs are converted to UTC first.
func NormalizeTimestamp(s string) (string, bool) {
	t, ok := ParseTime(s)
	if !ok {
		return "", false
	}
	return t.UTC().Format(TimestampLayout), true
}
