// Package tasks holds the per-chunk statistics computed over syslog records
// and the merge laws that fold independent chunk states into one result.
//
// The set of tasks is closed: every Kind has a concrete accumulator, a state
// snapshot type, a result type and a Merge function. Merging the states of any
// partition of a record stream yields the same result as processing the whole
// stream in one chunk.
package tasks

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nemanja-m/chunkstat/pkg/syslog"
)

var (
	ErrUnknownTask        = errors.New("unknown task")
	ErrDivisionUndefined  = errors.New("division undefined: no records")
	ErrNothingToAggregate = errors.New("nothing to aggregate")
	ErrInconsistentTasks  = errors.New("inconsistent task sets across chunks")
)

type Kind int

const (
	AverageLength Kind = iota + 1
	SeverityCount
	TimeRange
)

var kindNames = map[Kind]string{
	AverageLength: "average-length",
	SeverityCount: "severity-count",
	TimeRange:     "time-range",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AllKinds returns every task kind in declaration order.
func AllKinds() []Kind {
	return []Kind{AverageLength, SeverityCount, TimeRange}
}

func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTask, name, strings.Join(Names(), ", "))
}

// ParseKinds resolves task names, dropping duplicates and returning kinds in
// declaration order. An empty list selects every task.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return AllKinds(), nil
	}
	var kinds []Kind
	for _, name := range names {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(kinds, kind) {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds, nil
}

func Names() []string {
	names := make([]string, 0, len(kindNames))
	for _, kind := range AllKinds() {
		names = append(names, kind.String())
	}
	return names
}

// Task is a per-chunk accumulator. Process is never called concurrently on
// the same instance.
type Task interface {
	Kind() Kind
	Process(rec syslog.Record)

	// snapshot copies the current state into its slot of dst.
	snapshot(dst *ChunkState)
}

// New returns a fresh, empty accumulator for kind.
func New(kind Kind) (Task, error) {
	switch kind {
	case AverageLength:
		return NewAverageLength(), nil
	case SeverityCount:
		return NewSeverityCount(), nil
	case TimeRange:
		return NewTimeRange(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, kind)
	}
}

// NewSet creates one fresh accumulator per kind.
func NewSet(kinds []Kind) ([]Task, error) {
	set := make([]Task, 0, len(kinds))
	for _, kind := range kinds {
		t, err := New(kind)
		if err != nil {
			return nil, err
		}
		set = append(set, t)
	}
	return set, nil
}

// Snapshot collects the states of ts. The returned value shares no storage
// with the live tasks.
func Snapshot(ts []Task) ChunkState {
	var state ChunkState
	for _, t := range ts {
		t.snapshot(&state)
	}
	return state
}

// mergeHosts folds per-host maps from many states with fold.
func mergeHosts[V any](maps []map[string]V, fold func(acc, v V) V) map[string]V {
	merged := make(map[string]V)
	for _, m := range maps {
		for host, v := range m {
			if acc, ok := merged[host]; ok {
				merged[host] = fold(acc, v)
			} else {
				merged[host] = v
			}
		}
	}
	return merged
}
