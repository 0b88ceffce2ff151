package listing

import (
	"fmt"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// PostedAgo is the coarse form shown to appliers: "N days ago" or "Today".
func PostedAgo(created types.Timestamp, now time.Time) string {
	if created.IsZero() {
		return "Unknown"
	}
	days := int(now.Sub(created.Time) / (24 * time.Hour))
	if days > 0 {
		return plural(days, "day")
	}
	return "Today"
}

// SinceAgo is the fine form shown to recruiters, from weeks down to minutes.
func SinceAgo(created types.Timestamp, now time.Time) string {
	if created.IsZero() {
		return "Unknown"
	}
	diff := now.Sub(created.Time)
	mins := int(diff / time.Minute)
	hours := mins / 60
	days := hours / 24
	weeks := days / 7

	switch {
	case weeks > 0:
		return plural(weeks, "week")
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case mins > 0:
		return plural(mins, "minute")
	default:
		return "Just now"
	}
}
