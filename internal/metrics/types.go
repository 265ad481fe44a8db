package metrics

import "time"

// MilestoneStage declares one phase of the review pipeline as a pair of date
// field names. The ordered catalogue of stages is configuration: adding a new
// pipeline phase means adding a tuple, not new code.
type MilestoneStage struct {
	Label      string `json:"label" yaml:"label"`
	StartField string `json:"startField" yaml:"start_field"`
	EndField   string `json:"endField" yaml:"end_field"`
}

// DurationStats aggregates whole-day durations over the records where both
// endpoint dates are known. Mean and Median are nil when zero records have a
// defined duration, which is distinct from a true zero-day duration.
type DurationStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Count  int      `json:"count"`
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// PeriodBucket holds per-period intake counts for time-series charts.
type PeriodBucket struct {
	Period       string         `json:"period"`
	Start        time.Time      `json:"start"`
	Submitted    int            `json:"submitted"`
	Completed    int            `json:"completed"`
	InProgress   int            `json:"inProgress"`
	StatusCounts map[string]int `json:"statusCounts,omitempty"`
}

// StagePoint is one bucket of a per-stage duration series.
type StagePoint struct {
	Period  string    `json:"period"`
	Start   time.Time `json:"start"`
	AvgDays float64   `json:"avgDays"`
	Count   int       `json:"count"`
}
