package repository

import (
	"strings"
	"time"
)

// Precision is the timestamp resolution both backings store. Postgres keeps
// microseconds, so the memory store truncates to the same.
const Precision = time.Microsecond

// Now is the clock used for timestamps. Tests may replace it.
var Now = func() time.Time { return time.Now() }

// Stamp returns the current time in UTC at store precision.
func Stamp() time.Time {
	return Now().UTC().Truncate(Precision)
}

// NextStamp returns a timestamp strictly after prev, even when the clock has
// not advanced past it.
func NextStamp(prev time.Time) time.Time {
	now := Stamp()
	if !now.After(prev) {
		return prev.UTC().Truncate(Precision).Add(Precision)
	}
	return now
}

// NormalizeEmail lowercases and trims an address for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeTime converts an optional caller-supplied time to UTC at store
// precision.
func NormalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(Precision)
	return &v
}
