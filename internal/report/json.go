package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nemanja-m/chunkstat/pkg/local"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Name() string {
	return "json"
}

type jsonReport struct {
	RunID         string             `json:"run_id"`
	Inputs        []string           `json:"inputs"`
	Chunks        int                `json:"chunks"`
	Lines         int                `json:"lines"`
	ElapsedMillis int64              `json:"elapsed_ms"`
	AverageLength *jsonAverageLength `json:"average_length,omitempty"`
	SeverityCount *jsonSeverityCount `json:"severity_count,omitempty"`
	TimeRange     *jsonTimeRange     `json:"time_range,omitempty"`
}

type jsonAverageLength struct {
	// Average is null when no records were processed.
	Average *float64           `json:"average"`
	PerHost map[string]float64 `json:"per_host"`
}

type jsonSeverityCount struct {
	Emergency int64                       `json:"emergency"`
	Alert     int64                       `json:"alert"`
	PerHost   map[string]jsonHostSeverity `json:"per_host"`
}

type jsonHostSeverity struct {
	Emergency int64 `json:"emergency"`
	Alert     int64 `json:"alert"`
}

type jsonTimeRange struct {
	Oldest  *time.Time          `json:"oldest"`
	Newest  *time.Time          `json:"newest"`
	PerHost map[string]jsonSpan `json:"per_host"`
}

type jsonSpan struct {
	Oldest time.Time `json:"oldest"`
	Newest time.Time `json:"newest"`
}

func (f *JSONFormatter) Format(w io.Writer, r *local.Report) error {
	out := jsonReport{
		RunID:         r.RunID.String(),
		Inputs:        r.Inputs,
		Chunks:        r.Chunks,
		Lines:         r.Lines,
		ElapsedMillis: r.Elapsed.Milliseconds(),
	}

	if res := r.Results.AverageLength; res != nil {
		a := &jsonAverageLength{PerHost: res.HostAverages()}
		if avg, err := res.Average(); err == nil {
			a.Average = &avg
		}
		out.AverageLength = a
	}

	if res := r.Results.SeverityCount; res != nil {
		s := &jsonSeverityCount{
			Emergency: res.Emergency,
			Alert:     res.Alert,
			PerHost:   make(map[string]jsonHostSeverity, len(res.PerHost)),
		}
		for host, c := range res.PerHost {
			s.PerHost[host] = jsonHostSeverity{Emergency: c.Emergency, Alert: c.Alert}
		}
		out.SeverityCount = s
	}

	if res := r.Results.TimeRange; res != nil {
		tr := &jsonTimeRange{PerHost: make(map[string]jsonSpan, len(res.PerHost))}
		if !res.Empty() {
			tr.Oldest, tr.Newest = &res.Oldest, &res.Newest
		}
		for host, s := range res.PerHost {
			tr.PerHost[host] = jsonSpan{Oldest: s.Oldest, Newest: s.Newest}
		}
		out.TimeRange = tr
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

