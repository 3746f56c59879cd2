package local

import (
	"context"
	"fmt"

	"github.com/nemanja-m/chunkstat/pkg/chunk"
	"github.com/nemanja-m/chunkstat/pkg/syslog"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

// Request describes one chunk to process. A zero Year or BufferSize leaves
// the choice to the Runner.
type Request struct {
	Source     chunk.Source
	Range      chunk.Range
	Kinds      []tasks.Kind
	Year       int
	BufferSize int
}

// Runner processes one chunk of a source and returns the state of every
// requested task.
type Runner interface {
	Run(ctx context.Context, req Request) (tasks.ChunkState, error)
}

// Worker is the in-process Runner. Every Run opens the source on its own and
// builds fresh tasks, so concurrent runs share nothing.
type Worker struct {
	year       int
	bufferSize int
}

// NewWorker returns a Worker using year and bufferSize for requests that
// leave them unset.
func NewWorker(year, bufferSize int) *Worker {
	return &Worker{year: year, bufferSize: bufferSize}
}

func (w *Worker) Run(ctx context.Context, req Request) (tasks.ChunkState, error) {
	set, err := tasks.NewSet(req.Kinds)
	if err != nil {
		return tasks.ChunkState{}, err
	}

	year := req.Year
	if year == 0 {
		year = w.year
	}
	bufferSize := req.BufferSize
	if bufferSize == 0 {
		bufferSize = w.bufferSize
	}
	parser := syslog.NewParser(year)

	err = chunk.ReadRange(ctx, req.Source, req.Range, bufferSize, func(i int, line []byte) error {
		rec, err := parser.Parse(line)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", req.Source.Name(), i+1, err)
		}
		for _, t := range set {
			t.Process(rec)
		}
		return nil
	})
	if err != nil {
		return tasks.ChunkState{}, err
	}

	return tasks.Snapshot(set), nil
}
