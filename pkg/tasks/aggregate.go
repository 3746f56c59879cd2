package tasks

import (
	"fmt"
	"slices"
)

// ChunkState holds the snapshot of every task run over one chunk. A nil field
// means the task was not requested.
type ChunkState struct {
	AverageLength *AverageLengthState
	SeverityCount *SeverityCountState
	TimeRange     *TimeRangeState
}

func (s ChunkState) Kinds() []Kind {
	var kinds []Kind
	if s.AverageLength != nil {
		kinds = append(kinds, AverageLength)
	}
	if s.SeverityCount != nil {
		kinds = append(kinds, SeverityCount)
	}
	if s.TimeRange != nil {
		kinds = append(kinds, TimeRange)
	}
	return kinds
}

// Results holds one merged result per requested task.
type Results struct {
	AverageLength *AverageLengthResult
	SeverityCount *SeverityCountResult
	TimeRange     *TimeRangeResult
}

// Aggregate transposes per-chunk states into per-task lists and merges each
// list. Order of chunks does not affect the result. It fails if chunks is
// empty or if chunks disagree on which tasks ran.
func Aggregate(chunks []ChunkState) (Results, error) {
	if len(chunks) == 0 {
		return Results{}, ErrNothingToAggregate
	}

	want := chunks[0].Kinds()
	for i, c := range chunks[1:] {
		if got := c.Kinds(); !slices.Equal(got, want) {
			return Results{}, fmt.Errorf("%w: chunk %d has %v, chunk 0 has %v", ErrInconsistentTasks, i+1, got, want)
		}
	}

	var res Results
	if chunks[0].AverageLength != nil {
		r := MergeAverageLength(collect(chunks, func(c ChunkState) *AverageLengthState { return c.AverageLength })...)
		res.AverageLength = &r
	}
	if chunks[0].SeverityCount != nil {
		r := MergeSeverityCount(collect(chunks, func(c ChunkState) *SeverityCountState { return c.SeverityCount })...)
		res.SeverityCount = &r
	}
	if chunks[0].TimeRange != nil {
		r := MergeTimeRange(collect(chunks, func(c ChunkState) *TimeRangeState { return c.TimeRange })...)
		res.TimeRange = &r
	}
	return res, nil
}

func collect[S any](chunks []ChunkState, pick func(ChunkState) *S) []S {
	states := make([]S, 0, len(chunks))
	for _, c := range chunks {
		states = append(states, *pick(c))
	}
	return states
}
