package metrics

import "time"

// Bucket granularities for time-series aggregation.
const (
	BucketWeek  = "week"
	BucketMonth = "month"
)

// SnapToStart normalizes a date to the beginning of its bucket.
func SnapToStart(t time.Time, bucket string) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default: // week
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday -> 7
		}
		daysToSubtract := weekday - 1
		return time.Date(t.Year(), t.Month(), t.Day()-daysToSubtract, 0, 0, 0, 0, t.Location())
	}
}

// PeriodLabel returns the canonical label for a bucket start: the ISO week
// start date for weeks, "2006-01" for months. Labels sort chronologically.
func PeriodLabel(start time.Time, bucket string) string {
	switch bucket {
	case BucketMonth:
		return start.Format("2006-01")
	default:
		return start.Format("2006-01-02")
	}
}
