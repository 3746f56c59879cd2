// Package report renders the aggregated results of a run.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/nemanja-m/chunkstat/pkg/local"
)

const timeLayout = "Jan _2 15:04:05"

// Formatter renders a run report.
type Formatter interface {
	Format(w io.Writer, r *local.Report) error

	// Name returns the format name (text, json).
	Name() string
}

func New(format string) (Formatter, error) {
	switch format {
	case "text":
		return NewTextFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

func sortedHosts[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
