package metrics

import (
	"time"

	"daflow/internal/record"
)

// Layouts accepted for date fields. Upstream sheets mix plain dates with
// stringified timestamps, so both forms are tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02.01.2006",
	"01/02/2006",
}

// ParseDate coerces a raw cell value to a calendar date. Blank or unparseable
// values report ok=false; they are never an error and never default to now.
func ParseDate(value string) (time.Time, bool) {
	if record.IsBlank(value) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			// Truncate to the calendar day; durations are whole days.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// CoerceDateColumn maps every value of field to an optional date. The result
// has the same length and order as rs; unknown values are nil. The input is
// never mutated.
func CoerceDateColumn(rs record.RecordSet, field string) []*time.Time {
	out := make([]*time.Time, len(rs))
	for i, r := range rs {
		raw, ok := r.Get(field)
		if !ok {
			continue
		}
		if t, ok := ParseDate(raw); ok {
			t := t
			out[i] = &t
		}
	}
	return out
}

// fieldDate resolves one record's field to a date, if present and parseable.
func fieldDate(r record.Record, field string) (time.Time, bool) {
	raw, ok := r.Get(field)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(raw)
}

// daysBetween returns the whole-day span from a to b. Negative when b
// precedes a; callers decide whether a negative span is a data-quality signal.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
