package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	cases := map[string]string{
		"2024-01-02 03:04:05":           "2024-01-02 03:04:05",
		"2024-01-02T03:04:05":           "2024-01-02 03:04:05",
		"2024-01-02T03:04:05Z":          "2024-01-02 03:04:05",
		"2024-01-02T05:04:05+02:00":     "2024-01-02 03:04:05",
		"2024-01-02 03:04:05.250":       "2024-01-02 03:04:05",
		"2024-01-02":                    "2024-01-02 00:00:00",
		"2024-01-02 03:04":              "2024-01-02 03:04:00",
	}
	for in, want := range cases {
		got, ok := NormalizeTimestamp(in)
		if !ok {
			t.Fatalf("%q: expected ok", in)
		}
		if got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}

func TestNormalizeTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2024-13-45"} {
		if _, ok := NormalizeTimestamp(in); ok {
			t.Fatalf("%q: expected failure", in)
		}
	}
}
