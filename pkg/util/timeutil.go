package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FileStamp formats a time the way report filenames expect it.
func FileStamp(t time.Time) string {
	return t.UTC().Format("20060102_150405")
}
