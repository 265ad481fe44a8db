package metrics

import (
	"time"

	"daflow/internal/record"
)

// CountOverdue counts records whose status is not terminal and whose age
// since the received date exceeds thresholdDays at the given reference date.
// The reference is an explicit input so the count is re-evaluable at any
// point in time. Records without a parseable received date cannot be
// determined overdue and are counted as not overdue. If either field is
// absent from the vocabulary the count degrades to zero.
func CountOverdue(rs record.RecordSet, today time.Time, thresholdDays int, terminal map[string]bool, statusField, receivedField string) int {
	if !rs.HasField(statusField) || !rs.HasField(receivedField) {
		return 0
	}

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	count := 0
	for _, r := range rs {
		if status, ok := r.Get(statusField); ok && terminal[status] {
			continue
		}
		received, ok := fieldDate(r, receivedField)
		if !ok {
			continue
		}
		if daysBetween(received, today) > thresholdDays {
			count++
		}
	}
	return count
}
