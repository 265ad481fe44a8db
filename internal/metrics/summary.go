package metrics

import (
	"math"
	"time"

	"daflow/internal/record"
)

// SummaryConfig names the fields and business rules the dashboard summary is
// computed against. Field semantics are declared here once, at the
// collaborator boundary, instead of being re-derived from naming conventions
// at every use.
type SummaryConfig struct {
	RequestIDField     string
	DatasetIDField     string
	StatusField        string
	DatasetStatusField string
	ReceivedField      string
	GrantedField       string

	OverdueThresholdDays int
	TerminalStatuses     map[string]bool
}

// SummaryResult is the full dashboard snapshot: headline counts plus the
// derived cycle-time and overdue metrics. All values are plain aggregates
// with no embedded formatting.
type SummaryResult struct {
	TotalRows     int     `json:"totalRows"`
	TotalRequests int     `json:"totalRequests"`
	TotalDatasets int     `json:"totalDatasets"`
	ApprovedRows  int     `json:"approvedRows"`
	ApprovalRate  float64 `json:"approvalRate"`
	OverdueCount  int     `json:"overdueCount"`

	Approval DurationStats `json:"approval"`

	StatusDistribution        []ValueCount `json:"statusDistribution"`
	DatasetStatusDistribution []ValueCount `json:"datasetStatusDistribution,omitempty"`

	MonthlyTrend []PeriodBucket `json:"monthlyTrend"`
}

// Summary recomputes the dashboard metrics from a stable snapshot of the
// table. The snapshot is never mutated; every view calls this afresh.
func Summary(rs record.RecordSet, cfg SummaryConfig, today time.Time) SummaryResult {
	res := SummaryResult{
		TotalRows:     len(rs),
		TotalRequests: countUnique(rs, cfg.RequestIDField),
		TotalDatasets: countUnique(rs, cfg.DatasetIDField),
	}

	for _, r := range rs {
		if status, ok := r.Get(cfg.StatusField); ok && cfg.TerminalStatuses[status] {
			res.ApprovedRows++
		}
	}
	if res.TotalRows > 0 {
		res.ApprovalRate = math.Round(float64(res.ApprovedRows)/float64(res.TotalRows)*1000) / 1000
	}

	res.Approval = ApprovalDurationStats(rs, cfg.ReceivedField, cfg.GrantedField)
	res.OverdueCount = CountOverdue(rs, today, cfg.OverdueThresholdDays, cfg.TerminalStatuses, cfg.StatusField, cfg.ReceivedField)
	res.StatusDistribution = Distribution(rs, cfg.StatusField)
	if cfg.DatasetStatusField != "" {
		res.DatasetStatusDistribution = Distribution(rs, cfg.DatasetStatusField)
	}
	res.MonthlyTrend = Breakdown(rs, BreakdownOptions{
		Bucket:          BucketMonth,
		ReceivedField:   cfg.ReceivedField,
		CompletionField: cfg.GrantedField,
		StatusField:     cfg.StatusField,
	})

	return res
}

func countUnique(rs record.RecordSet, field string) int {
	seen := make(map[string]bool)
	for _, r := range rs {
		if v, ok := r.Get(field); ok {
			seen[v] = true
		}
	}
	return len(seen)
}
