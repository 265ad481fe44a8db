package metrics

import (
	"slices"
	"time"

	"daflow/internal/record"
)

// BreakdownOptions names the fields driving the time-series aggregation.
// StatusField may be empty when per-status counts are not wanted.
type BreakdownOptions struct {
	Bucket          string
	ReceivedField   string
	CompletionField string
	StatusField     string
}

// Breakdown buckets records by the calendar week or month of their received
// date and counts, per bucket, total submitted, records with a defined
// completion date, records without one, and per-status counts when a status
// field is configured. Records whose received date does not parse are
// excluded from every bucket but still count toward whole-set totals
// elsewhere. The result is strictly chronological regardless of input order.
func Breakdown(rs record.RecordSet, opts BreakdownOptions) []PeriodBucket {
	withStatus := opts.StatusField != "" && rs.HasField(opts.StatusField)

	buckets := make(map[time.Time]*PeriodBucket)
	for _, r := range rs {
		received, ok := fieldDate(r, opts.ReceivedField)
		if !ok {
			continue
		}

		start := SnapToStart(received, opts.Bucket)
		b, ok := buckets[start]
		if !ok {
			b = &PeriodBucket{
				Period: PeriodLabel(start, opts.Bucket),
				Start:  start,
			}
			if withStatus {
				b.StatusCounts = make(map[string]int)
			}
			buckets[start] = b
		}

		b.Submitted++
		if _, done := fieldDate(r, opts.CompletionField); done {
			b.Completed++
		} else {
			b.InProgress++
		}
		if withStatus {
			if status, ok := r.Get(opts.StatusField); ok {
				b.StatusCounts[status]++
			}
		}
	}

	out := make([]PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b PeriodBucket) int {
		return a.Start.Compare(b.Start)
	})
	return out
}
