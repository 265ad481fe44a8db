package metrics

import "daflow/internal/record"

// ApprovalDurationStats computes the whole-day span between the received and
// granted date for every record where both parse, then aggregates mean and
// median over that same sample. An unknown duration is excluded, never zero.
func ApprovalDurationStats(rs record.RecordSet, receivedField, grantedField string) DurationStats {
	var durations []int
	for _, r := range rs {
		received, ok := fieldDate(r, receivedField)
		if !ok {
			continue
		}
		granted, ok := fieldDate(r, grantedField)
		if !ok {
			continue
		}
		durations = append(durations, daysBetween(received, granted))
	}

	if len(durations) == 0 {
		return DurationStats{}
	}

	mean := meanDiscrete(durations)
	median := medianDiscrete(durations)
	return DurationStats{
		Mean:   &mean,
		Median: &median,
		Count:  len(durations),
	}
}
