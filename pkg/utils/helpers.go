package utils

import "time"

// ParseDuration safely parses a duration string like "5m", falling
// back to five minutes on empty or malformed input.
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}
