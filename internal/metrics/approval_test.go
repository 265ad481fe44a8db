package metrics

import (
	"testing"

	"daflow/internal/record"
)

func TestApprovalDurationStats(t *testing.T) {
	// Scenario: one record with both dates (10 days), one still open.
	rs := record.RecordSet{
		{"RECEIVED": "2024-01-01", "GRANTED": "2024-01-11", "STATUS": "Approved"},
		{"RECEIVED": "2024-01-01", "STATUS": "In Review"},
	}

	stats := ApprovalDurationStats(rs, "RECEIVED", "GRANTED")
	if stats.Count != 1 {
		t.Fatalf("Expected 1 defined duration, got %d", stats.Count)
	}
	if stats.Mean == nil || *stats.Mean != 10.0 {
		t.Errorf("Expected mean 10.0, got %v", stats.Mean)
	}
	if stats.Median == nil || *stats.Median != 10.0 {
		t.Errorf("Expected median 10.0, got %v", stats.Median)
	}
}

func TestApprovalDurationStatsNoDefinedDurations(t *testing.T) {
	rs := record.RecordSet{
		{"RECEIVED": "2024-01-01"},
		{"GRANTED": "2024-01-11"},
		{"RECEIVED": "junk", "GRANTED": "2024-01-11"},
	}

	stats := ApprovalDurationStats(rs, "RECEIVED", "GRANTED")
	if stats.Mean != nil || stats.Median != nil {
		t.Errorf("Expected nil mean/median with no defined durations, got %+v", stats)
	}
	if stats.Count != 0 {
		t.Errorf("Expected count 0, got %d", stats.Count)
	}
}

func TestApprovalDurationStatsZeroDayDuration(t *testing.T) {
	// A same-day approval is a real zero, distinct from "no data".
	rs := record.RecordSet{
		{"RECEIVED": "2024-03-05", "GRANTED": "2024-03-05"},
	}

	stats := ApprovalDurationStats(rs, "RECEIVED", "GRANTED")
	if stats.Mean == nil || *stats.Mean != 0.0 {
		t.Errorf("Expected mean 0.0, got %v", stats.Mean)
	}
	if stats.Count != 1 {
		t.Errorf("Expected count 1, got %d", stats.Count)
	}
}

func TestApprovalDurationStatsMedianEvenSample(t *testing.T) {
	rs := record.RecordSet{
		{"RECEIVED": "2024-01-01", "GRANTED": "2024-01-03"},  // 2
		{"RECEIVED": "2024-01-01", "GRANTED": "2024-01-05"},  // 4
		{"RECEIVED": "2024-01-01", "GRANTED": "2024-01-11"},  // 10
		{"RECEIVED": "2024-01-01", "GRANTED": "2024-01-21"},  // 20
	}

	stats := ApprovalDurationStats(rs, "RECEIVED", "GRANTED")
	if stats.Mean == nil || *stats.Mean != 9.0 {
		t.Errorf("Expected mean 9.0, got %v", stats.Mean)
	}
	if stats.Median == nil || *stats.Median != 7.0 {
		t.Errorf("Expected median 7.0, got %v", stats.Median)
	}
}

func TestApprovalDurationStatsEmptySet(t *testing.T) {
	stats := ApprovalDurationStats(record.RecordSet{}, "RECEIVED", "GRANTED")
	if stats.Mean != nil || stats.Median != nil || stats.Count != 0 {
		t.Errorf("Expected empty result for empty set, got %+v", stats)
	}
}
