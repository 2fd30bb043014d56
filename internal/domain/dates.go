package domain

import "time"

// DateLayout is the storage and CLI layout for calendar dates.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
