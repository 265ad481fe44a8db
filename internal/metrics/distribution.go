package metrics

import (
	"slices"

	"daflow/internal/record"
)

// Distribution produces a frequency table over a categorical field, ordered
// by descending count with ties broken by first appearance. Blank values are
// excluded rather than grouped into an artificial "unknown" category; charts
// show the distribution of known values only.
func Distribution(rs record.RecordSet, field string) []ValueCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, r := range rs {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		if _, seen := counts[v]; !seen {
			firstSeen[v] = i
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]ValueCount, 0, len(order))
	for _, v := range order {
		out = append(out, ValueCount{Value: v, Count: counts[v]})
	}

	slices.SortStableFunc(out, func(a, b ValueCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return firstSeen[a.Value] - firstSeen[b.Value]
	})

	return out
}
