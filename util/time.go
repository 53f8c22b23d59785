package util

import "time"

const DateLayout = "2006-01-02"

// ParseDate parses a string like "2006-01-02" to the start of that day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
