package tasks

import (
	"maps"

	"github.com/nemanja-m/chunkstat/pkg/syslog"
)

// HostLength is the number of records and the summed message length in bytes.
type HostLength struct {
	Lines  int64
	Length int64
}

func (h HostLength) add(o HostLength) HostLength {
	return HostLength{Lines: h.Lines + o.Lines, Length: h.Length + o.Length}
}

type AverageLengthState struct {
	PerHost map[string]HostLength
}

type AverageLengthTask struct {
	perHost map[string]HostLength
}

func NewAverageLength() *AverageLengthTask {
	return &AverageLengthTask{perHost: make(map[string]HostLength)}
}

func (t *AverageLengthTask) Kind() Kind { return AverageLength }

func (t *AverageLengthTask) Process(rec syslog.Record) {
	h := t.perHost[rec.Host]
	h.Lines++
	h.Length += int64(len(rec.Message))
	t.perHost[rec.Host] = h
}

func (t *AverageLengthTask) State() AverageLengthState {
	return AverageLengthState{PerHost: maps.Clone(t.perHost)}
}

func (t *AverageLengthTask) snapshot(dst *ChunkState) {
	s := t.State()
	dst.AverageLength = &s
}

type AverageLengthResult struct {
	Lines   int64
	Length  int64
	PerHost map[string]HostLength
}

// Average is the global average message length.
func (r AverageLengthResult) Average() (float64, error) {
	return ratio(HostLength{Lines: r.Lines, Length: r.Length})
}

func (r AverageLengthResult) HostAverage(host string) (float64, error) {
	return ratio(r.PerHost[host])
}

// HostAverages returns the average per host. Every host present has at least
// one record, so no entry is undefined.
func (r AverageLengthResult) HostAverages() map[string]float64 {
	averages := make(map[string]float64, len(r.PerHost))
	for host, h := range r.PerHost {
		if avg, err := ratio(h); err == nil {
			averages[host] = avg
		}
	}
	return averages
}

func ratio(h HostLength) (float64, error) {
	if h.Lines == 0 {
		return 0, ErrDivisionUndefined
	}
	return float64(h.Length) / float64(h.Lines), nil
}

// MergeAverageLength sums line counts and lengths per host.
func MergeAverageLength(states ...AverageLengthState) AverageLengthResult {
	perHost := make([]map[string]HostLength, 0, len(states))
	for _, s := range states {
		perHost = append(perHost, s.PerHost)
	}

	res := AverageLengthResult{PerHost: mergeHosts(perHost, HostLength.add)}
	for _, h := range res.PerHost {
		res.Lines += h.Lines
		res.Length += h.Length
	}
	return res
}
