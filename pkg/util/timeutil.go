package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// MinutesOfDay returns the minute offset of t within its calendar day.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
