package local

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/chunkstat/internal/shared/logging"
	"github.com/nemanja-m/chunkstat/pkg/chunk"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

var ErrNoInput = errors.New("no input files matched")

type Config struct {
	// Inputs are file paths or doublestar patterns.
	Inputs     []string
	Kinds      []tasks.Kind
	NumWorkers int
	ChunkSize  int
	Year       int
	BufferSize int

	// Runner processes chunks. Defaults to an in-process Worker.
	Runner Runner
	Logger logging.Logger
}

type Report struct {
	RunID   uuid.UUID
	Inputs  []string
	Chunks  int
	Lines   int
	Elapsed time.Duration
	Results tasks.Results
}

// Unit is one chunk of one source.
type Unit struct {
	Source chunk.Source
	Range  chunk.Range
}

type Engine struct {
	config Config
}

func NewEngine(config Config) *Engine {
	if config.Runner == nil {
		config.Runner = NewWorker(config.Year, config.BufferSize)
	}
	if config.Logger == nil {
		config.Logger = logging.Nop()
	}
	if len(config.Kinds) == 0 {
		config.Kinds = tasks.AllKinds()
	}
	return &Engine{config: config}
}

// Run plans every input, processes all chunks on the pool and merges the
// chunk states. Chunks are dispatched while planning is still in progress.
// The first failure cancels the remaining chunks.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.New()
	log := e.config.Logger

	files, err := chunk.FindFiles(e.config.Inputs...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoInput, e.config.Inputs)
	}

	pool := NewPool(ctx, e.config.NumWorkers)
	log.Info("Starting run",
		"run_id", runID.String(),
		"inputs", files,
		"workers", pool.NumWorkers(),
		"chunk_size", e.config.ChunkSize,
		"tasks", e.config.Kinds,
	)

	c := &collector{}
	pool.Start()
	planErr := e.dispatch(pool, files, c)
	poolErr := pool.Close()
	if err := errors.Join(poolErr, ignoreCanceled(planErr, poolErr)); err != nil {
		log.Error("Run failed", "run_id", runID.String(), "error", err)
		return nil, err
	}

	results, err := tasks.Aggregate(c.states)
	if err != nil {
		return nil, fmt.Errorf("aggregating %d chunks: %w", len(c.states), err)
	}

	report := &Report{
		RunID:   runID,
		Inputs:  files,
		Chunks:  len(c.states),
		Lines:   c.lines,
		Elapsed: time.Since(start),
		Results: results,
	}
	log.Info("Run completed",
		"run_id", runID.String(),
		"chunks", report.Chunks,
		"lines", report.Lines,
		"elapsed", report.Elapsed.String(),
	)
	return report, nil
}

func (e *Engine) dispatch(pool *Pool, files []string, c *collector) error {
	for _, file := range files {
		source := chunk.NewFileSource(file)
		planner := chunk.NewPlanner(source, e.config.ChunkSize)
		for r, err := range planner.Ranges(pool.ctx) {
			if err != nil {
				return err
			}
			req := Request{
				Source:     source,
				Range:      r,
				Kinds:      e.config.Kinds,
				Year:       e.config.Year,
				BufferSize: e.config.BufferSize,
			}
			if err := pool.Submit(chunkJob(e.config.Runner, req, e.config.Logger, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

// chunkJob runs req and hands its state to c. A successful run has read
// every line of req.Range, so the range length is the line count.
func chunkJob(runner Runner, req Request, log logging.Logger, c *collector) Job {
	return func(ctx context.Context) error {
		state, err := runner.Run(ctx, req)
		if err != nil {
			return fmt.Errorf("chunk %s of %s: %w", req.Range, req.Source.Name(), err)
		}
		c.add(state, req.Range.Len())
		log.Debug("Chunk processed", "source", req.Source.Name(), "range", req.Range.String())
		return nil
	}
}

// Execute runs every unit on a pool of numWorkers and returns one state per
// unit in completion order.
func Execute(ctx context.Context, runner Runner, units []Unit, kinds []tasks.Kind, numWorkers int) ([]tasks.ChunkState, error) {
	pool := NewPool(ctx, numWorkers)
	c := &collector{}
	log := logging.Nop()

	pool.Start()
	var submitErr error
	for _, unit := range units {
		req := Request{Source: unit.Source, Range: unit.Range, Kinds: kinds}
		if submitErr = pool.Submit(chunkJob(runner, req, log, c)); submitErr != nil {
			break
		}
	}
	closeErr := pool.Close()
	if err := errors.Join(closeErr, ignoreCanceled(submitErr, closeErr)); err != nil {
		return nil, err
	}
	return c.states, nil
}

// collector is the join point of the pool: jobs hand over finished states.
type collector struct {
	mu     sync.Mutex
	states []tasks.ChunkState
	lines  int
}

func (c *collector) add(state tasks.ChunkState, lines int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, state)
	c.lines += lines
}

// ignoreCanceled drops a planning or submit error caused by the pool
// canceling itself after a job failure; the job error is reported instead.
func ignoreCanceled(err, poolErr error) error {
	if poolErr != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
