package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// ParseDue accepts a bare date (midnight UTC) or an RFC 3339 timestamp.
func ParseDue(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", v)
}

// NormalizeDue validates a user-entered due date. Empty input clears it.
func NormalizeDue(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if _, err := ParseDue(v); err != nil {
		return "", err
	}
	return v, nil
}

// ParseReminder reads an absolute reminder time. RFC 3339 is tried first,
// then YYYY-MM-DD HH:MM and YYYY-MM-DDTHH:MM in loc, finally a Go duration
// relative to now ("90m", "2h").
func ParseReminder(v string, now time.Time, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("reminder time is empty")
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range []string{DateTimeLayout, "2006-01-02T15:04", DateLayout} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	if d, err := time.ParseDuration(v); err == nil {
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("invalid reminder time %q (want YYYY-MM-DD HH:MM, RFC 3339 or a duration)", v)
}
