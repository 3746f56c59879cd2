package remote

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nemanja-m/chunkstat/pkg/chunk"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

// Chunk requests and states travel as google.protobuf.Struct. Struct
// numbers are doubles, so line counts and byte lengths are sent as decimal
// strings to stay exact past 2^53. Timestamps are RFC 3339 strings.

// chunkRequest is a local.Request with the source reduced to its path. Zero
// Year and BufferSize fall back to the worker's configuration.
type chunkRequest struct {
	Path       string
	Range      chunk.Range
	Kinds      []tasks.Kind
	Year       int
	BufferSize int
}

func encodeRequest(req chunkRequest) (*structpb.Struct, error) {
	kinds := make([]any, 0, len(req.Kinds))
	for _, k := range req.Kinds {
		kinds = append(kinds, k.String())
	}
	return structpb.NewStruct(map[string]any{
		"path":        req.Path,
		"start":       req.Range.Start,
		"end":         req.Range.End,
		"tasks":       kinds,
		"year":        req.Year,
		"buffer_size": req.BufferSize,
	})
}

func decodeRequest(s *structpb.Struct) (chunkRequest, error) {
	f := s.GetFields()

	req := chunkRequest{
		Path: f["path"].GetStringValue(),
		Range: chunk.Range{
			Start: int(f["start"].GetNumberValue()),
			End:   int(f["end"].GetNumberValue()),
		},
		Year:       int(f["year"].GetNumberValue()),
		BufferSize: int(f["buffer_size"].GetNumberValue()),
	}
	if req.Path == "" {
		return chunkRequest{}, errors.New("missing path")
	}
	if req.Range.Start < 0 || req.Range.End <= req.Range.Start {
		return chunkRequest{}, fmt.Errorf("invalid range %s", req.Range)
	}
	if req.Year < 0 || req.Year > 9999 {
		return chunkRequest{}, fmt.Errorf("invalid year %d", req.Year)
	}
	if req.BufferSize < 0 {
		return chunkRequest{}, fmt.Errorf("invalid buffer size %d", req.BufferSize)
	}

	var names []string
	for _, v := range f["tasks"].GetListValue().GetValues() {
		names = append(names, v.GetStringValue())
	}
	if len(names) == 0 {
		return chunkRequest{}, errors.New("no tasks requested")
	}
	kinds, err := tasks.ParseKinds(names)
	if err != nil {
		return chunkRequest{}, err
	}
	req.Kinds = kinds
	return req, nil
}

func encodeState(state tasks.ChunkState) (*structpb.Struct, error) {
	m := make(map[string]any)
	if s := state.AverageLength; s != nil {
		hosts := make(map[string]any, len(s.PerHost))
		for host, h := range s.PerHost {
			hosts[host] = map[string]any{"lines": formatCount(h.Lines), "length": formatCount(h.Length)}
		}
		m[tasks.AverageLength.String()] = hosts
	}
	if s := state.SeverityCount; s != nil {
		hosts := make(map[string]any, len(s.PerHost))
		for host, c := range s.PerHost {
			hosts[host] = map[string]any{"emergency": formatCount(c.Emergency), "alert": formatCount(c.Alert)}
		}
		m[tasks.SeverityCount.String()] = hosts
	}
	if s := state.TimeRange; s != nil {
		hosts := make(map[string]any, len(s.PerHost))
		for host, span := range s.PerHost {
			hosts[host] = map[string]any{
				"oldest": span.Oldest.Format(time.RFC3339Nano),
				"newest": span.Newest.Format(time.RFC3339Nano),
			}
		}
		m[tasks.TimeRange.String()] = hosts
	}
	return structpb.NewStruct(m)
}

func decodeState(s *structpb.Struct) (tasks.ChunkState, error) {
	var state tasks.ChunkState
	f := s.GetFields()

	if v, ok := f[tasks.AverageLength.String()]; ok {
		perHost := make(map[string]tasks.HostLength)
		for host, h := range v.GetStructValue().GetFields() {
			hf := h.GetStructValue().GetFields()
			lines, err := parseCount(hf["lines"])
			if err != nil {
				return tasks.ChunkState{}, fmt.Errorf("host %q lines: %w", host, err)
			}
			length, err := parseCount(hf["length"])
			if err != nil {
				return tasks.ChunkState{}, fmt.Errorf("host %q length: %w", host, err)
			}
			perHost[host] = tasks.HostLength{Lines: lines, Length: length}
		}
		state.AverageLength = &tasks.AverageLengthState{PerHost: perHost}
	}

	if v, ok := f[tasks.SeverityCount.String()]; ok {
		perHost := make(map[string]tasks.SeverityCounts)
		for host, c := range v.GetStructValue().GetFields() {
			cf := c.GetStructValue().GetFields()
			emergency, err := parseCount(cf["emergency"])
			if err != nil {
				return tasks.ChunkState{}, fmt.Errorf("host %q emergency: %w", host, err)
			}
			alert, err := parseCount(cf["alert"])
			if err != nil {
				return tasks.ChunkState{}, fmt.Errorf("host %q alert: %w", host, err)
			}
			perHost[host] = tasks.SeverityCounts{Emergency: emergency, Alert: alert}
		}
		state.SeverityCount = &tasks.SeverityCountState{PerHost: perHost}
	}

	if v, ok := f[tasks.TimeRange.String()]; ok {
		perHost := make(map[string]tasks.Span)
		for host, span := range v.GetStructValue().GetFields() {
			sf := span.GetStructValue().GetFields()
			oldest, err := time.Parse(time.RFC3339Nano, sf["oldest"].GetStringValue())
			if err != nil {
				return tasks.ChunkState{}, fmt.Errorf("host %q oldest: %w", host, err)
			}
			newest, err := time.Parse(time.RFC3339Nano, sf["newest"].GetStringValue())
			if err != nil {
				return tasks.ChunkState{}, fmt.Errorf("host %q newest: %w", host, err)
			}
			perHost[host] = tasks.Span{Oldest: oldest.UTC(), Newest: newest.UTC()}
		}
		state.TimeRange = &tasks.TimeRangeState{PerHost: perHost}
	}

	return state, nil
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

func parseCount(v *structpb.Value) (int64, error) {
	return strconv.ParseInt(v.GetStringValue(), 10, 64)
}
