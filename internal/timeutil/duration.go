package timeutil

import "fmt"

// FormatDuration renders an event duration in minutes: "30 min" under
// an hour, "2h" on the hour, "1h 30m" otherwise.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}
