package tasks

import (
	"maps"
	"time"

	"github.com/nemanja-m/chunkstat/pkg/syslog"
)

type Span struct {
	Oldest time.Time
	Newest time.Time
}

func spanOf(ts time.Time) Span {
	return Span{Oldest: ts, Newest: ts}
}

func (s Span) union(o Span) Span {
	if o.Oldest.Before(s.Oldest) {
		s.Oldest = o.Oldest
	}
	if o.Newest.After(s.Newest) {
		s.Newest = o.Newest
	}
	return s
}

type TimeRangeState struct {
	PerHost map[string]Span
}

type TimeRangeTask struct {
	perHost map[string]Span
}

func NewTimeRange() *TimeRangeTask {
	return &TimeRangeTask{perHost: make(map[string]Span)}
}

func (t *TimeRangeTask) Kind() Kind { return TimeRange }

func (t *TimeRangeTask) Process(rec syslog.Record) {
	if s, ok := t.perHost[rec.Host]; ok {
		t.perHost[rec.Host] = s.union(spanOf(rec.Timestamp))
		return
	}
	t.perHost[rec.Host] = spanOf(rec.Timestamp)
}

func (t *TimeRangeTask) State() TimeRangeState {
	return TimeRangeState{PerHost: maps.Clone(t.perHost)}
}

func (t *TimeRangeTask) snapshot(dst *ChunkState) {
	s := t.State()
	dst.TimeRange = &s
}

// TimeRangeResult is empty (zero Oldest and Newest) when no host was seen.
type TimeRangeResult struct {
	Span
	PerHost map[string]Span
}

func (r TimeRangeResult) Empty() bool {
	return len(r.PerHost) == 0
}

func MergeTimeRange(states ...TimeRangeState) TimeRangeResult {
	perHost := make([]map[string]Span, 0, len(states))
	for _, s := range states {
		perHost = append(perHost, s.PerHost)
	}

	res := TimeRangeResult{PerHost: mergeHosts(perHost, Span.union)}
	first := true
	for _, s := range res.PerHost {
		if first {
			res.Span = s
			first = false
			continue
		}
		res.Span = res.Span.union(s)
	}
	return res
}
