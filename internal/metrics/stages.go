package metrics

import (
	"slices"
	"time"

	"daflow/internal/record"
)

// StageDurations computes, for each declared milestone stage, the per-record
// whole-day duration between the stage's start and end fields, then averages
// those durations per calendar bucket of the stage start date. Every stage
// label gets an entry: a stage whose field pair is absent from the
// vocabulary, or with zero records carrying both dates, contributes an empty
// series rather than an error.
//
// A record whose end date precedes its start date yields a negative duration
// that is surfaced as-is. Dropping or clamping it would hide systemic
// data-entry errors; flagging is the caller's job.
func StageDurations(rs record.RecordSet, stages []MilestoneStage, bucket string) map[string][]StagePoint {
	out := make(map[string][]StagePoint, len(stages))

	for _, stage := range stages {
		out[stage.Label] = []StagePoint{}
		if !rs.HasField(stage.StartField) || !rs.HasField(stage.EndField) {
			continue
		}

		perBucket := make(map[time.Time][]int)
		for _, r := range rs {
			start, ok := fieldDate(r, stage.StartField)
			if !ok {
				continue
			}
			end, ok := fieldDate(r, stage.EndField)
			if !ok {
				continue
			}
			bucketStart := SnapToStart(start, bucket)
			perBucket[bucketStart] = append(perBucket[bucketStart], daysBetween(start, end))
		}

		series := make([]StagePoint, 0, len(perBucket))
		for bucketStart, durations := range perBucket {
			series = append(series, StagePoint{
				Period:  PeriodLabel(bucketStart, bucket),
				Start:   bucketStart,
				AvgDays: meanDiscrete(durations),
				Count:   len(durations),
			})
		}
		slices.SortFunc(series, func(a, b StagePoint) int {
			return a.Start.Compare(b.Start)
		})
		out[stage.Label] = series
	}

	return out
}

// StageDurationValues returns the raw per-record durations for a single
// stage, in record order, skipping records where either endpoint is unknown.
func StageDurationValues(rs record.RecordSet, stage MilestoneStage) []int {
	var durations []int
	for _, r := range rs {
		start, ok := fieldDate(r, stage.StartField)
		if !ok {
			continue
		}
		end, ok := fieldDate(r, stage.EndField)
		if !ok {
			continue
		}
		durations = append(durations, daysBetween(start, end))
	}
	return durations
}
