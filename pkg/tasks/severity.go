package tasks

import (
	"maps"

	"github.com/nemanja-m/chunkstat/pkg/syslog"
)

// SeverityCounts counts emergency (0) and alert (1) records.
type SeverityCounts struct {
	Emergency int64
	Alert     int64
}

func (c SeverityCounts) add(o SeverityCounts) SeverityCounts {
	return SeverityCounts{Emergency: c.Emergency + o.Emergency, Alert: c.Alert + o.Alert}
}

type SeverityCountState struct {
	PerHost map[string]SeverityCounts
}

// SeverityCountTask only tracks hosts that produced at least one emergency
// or alert record.
type SeverityCountTask struct {
	perHost map[string]SeverityCounts
}

func NewSeverityCount() *SeverityCountTask {
	return &SeverityCountTask{perHost: make(map[string]SeverityCounts)}
}

func (t *SeverityCountTask) Kind() Kind { return SeverityCount }

func (t *SeverityCountTask) Process(rec syslog.Record) {
	switch rec.Severity {
	case syslog.SeverityEmergency:
		c := t.perHost[rec.Host]
		c.Emergency++
		t.perHost[rec.Host] = c
	case syslog.SeverityAlert:
		c := t.perHost[rec.Host]
		c.Alert++
		t.perHost[rec.Host] = c
	}
}

func (t *SeverityCountTask) State() SeverityCountState {
	return SeverityCountState{PerHost: maps.Clone(t.perHost)}
}

func (t *SeverityCountTask) snapshot(dst *ChunkState) {
	s := t.State()
	dst.SeverityCount = &s
}

type SeverityCountResult struct {
	Emergency int64
	Alert     int64
	PerHost   map[string]SeverityCounts
}

func MergeSeverityCount(states ...SeverityCountState) SeverityCountResult {
	perHost := make([]map[string]SeverityCounts, 0, len(states))
	for _, s := range states {
		perHost = append(perHost, s.PerHost)
	}

	res := SeverityCountResult{PerHost: mergeHosts(perHost, SeverityCounts.add)}
	for _, c := range res.PerHost {
		res.Emergency += c.Emergency
		res.Alert += c.Alert
	}
	return res
}
