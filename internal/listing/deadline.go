// Package listing derives the job listing views: deadline buckets, posted
// times, text and status filters, and the expiry reconcile that closes
// postings whose deadline has passed.
package listing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Bucket classifies a deadline relative to today.
type Bucket int

const (
	BucketUnset Bucket = iota
	BucketInvalid
	BucketExpired
	BucketToday
	BucketTomorrow
	BucketWithinWeek
	BucketLater
)

// LaterLayout formats deadlines more than a week away.
const LaterLayout = "Jan 2, 2006"

var bucketNames = map[Bucket]string{
	BucketUnset:      "unset",
	BucketInvalid:    "invalid",
	BucketExpired:    "expired",
	BucketToday:      "today",
	BucketTomorrow:   "tomorrow",
	BucketWithinWeek: "within_week",
	BucketLater:      "later",
}

func (b Bucket) String() string {
	return bucketNames[b]
}

// MarshalText implements encoding.TextMarshaler
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Deadline is the display form of a job deadline.
type Deadline struct {
	Bucket   Bucket `json:"bucket"`
	DaysLeft int    `json:"daysLeft"`
	Label    string `json:"label"`
	Urgent   bool   `json:"urgent"`
}

// Listable reports whether a job with this deadline may appear in active listings.
func (d Deadline) Listable() bool {
	return d.Bucket != BucketExpired && d.Bucket != BucketInvalid
}

// Urgent reports whether the deadline is at most a week away.
func (b Bucket) Urgent() bool {
	return b == BucketToday || b == BucketTomorrow || b == BucketWithinWeek
}

// ParseDeadline reads a stored deadline as a calendar day in loc. Full
// RFC 3339 timestamps are accepted and reduced to their day in loc.
func ParseDeadline(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(types.DateLayout, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q", raw)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DaysUntil returns the number of calendar days from now's day to the
// deadline's day, in now's location.
func DaysUntil(raw string, now time.Time) (int, error) {
	d, err := ParseDeadline(raw, now.Location())
	if err != nil {
		return 0, err
	}
	return calendarDays(startOfDay(now), d), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDays counts days between two midnights. Rounding absorbs DST shifts.
func calendarDays(from, to time.Time) int {
	hours := to.Sub(from).Hours()
	if hours < 0 {
		return -int(-hours/24 + 0.5)
	}
	return int(hours/24 + 0.5)
}

// ClassifyDeadline buckets a deadline against now.
func ClassifyDeadline(raw string, now time.Time) Deadline {
	if strings.TrimSpace(raw) == "" {
		return Deadline{Bucket: BucketUnset, Label: "Not set"}
	}
	d, err := ParseDeadline(raw, now.Location())
	if err != nil {
		return Deadline{Bucket: BucketInvalid, Label: "Invalid date"}
	}
	days := calendarDays(startOfDay(now), d)

	var out Deadline
	out.DaysLeft = days
	switch {
	case days < 0:
		out.Bucket, out.Label = BucketExpired, "Expired"
	case days == 0:
		out.Bucket, out.Label = BucketToday, "Today"
	case days == 1:
		out.Bucket, out.Label = BucketTomorrow, "Tomorrow"
	case days <= 7:
		out.Bucket, out.Label = BucketWithinWeek, fmt.Sprintf("%d days left", days)
	default:
		out.Bucket, out.Label = BucketLater, d.Format(LaterLayout)
	}
	out.Urgent = out.Bucket.Urgent()
	return out
}
