// Package energy implements the daily energy-budget accounting rule.
//
// The accounting day starts at a configured reset time ("HH:MM") rather
// than midnight. A task charges against the day's budget while it is
// active, and a completed task keeps charging until the next reset
// boundary passes it.
//
// Everything here is a pure function of its inputs; the package never
// touches storage or the clock.
package energy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseResetTime parses a "HH:MM" 24-hour reset time.
func ParseResetTime(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("parse reset time %q: expected \"HH:MM\"", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse reset time %q: bad hour: %w", value, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse reset time %q: bad minute: %w", value, err)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("parse reset time %q: hour out of range", value)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("parse reset time %q: minute out of range", value)
	}
	return hour, minute, nil
}

// ResetBoundary returns the most recent reset boundary at or before now:
// today's date at the given reset time, or one calendar day earlier when the
// clock hasn't reached today's reset yet.
//
// Callers must pass a reset time that already passed validation at
// settings-save time; a malformed value here is a programming error and is
// returned as such.
func ResetBoundary(resetTime string, now time.Time) (time.Time, error) {
	hour, minute, err := ParseResetTime(resetTime)
	if err != nil {
		return time.Time{}, err
	}

	todayReset := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Before(todayReset) {
		return todayReset.AddDate(0, 0, -1), nil
	}
	return todayReset, nil
}
