package local

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of goroutines. The first failing job
// cancels the pool context; jobs still queued see a canceled context and
// Submit stops accepting work.
type Pool struct {
	numWorkers int
	jobs       chan Job
	once       sync.Once
	group      *errgroup.Group
	ctx        context.Context
}

// NewPool returns a pool bound to ctx. A non-positive numWorkers selects
// runtime.NumCPU().
func NewPool(ctx context.Context, numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	group, gctx := errgroup.WithContext(ctx)
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers),
		group:      group,
		ctx:        gctx,
	}
}

func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

func (p *Pool) Start() {
	p.once.Do(func() {
		for range p.numWorkers {
			p.group.Go(func() error {
				for job := range p.jobs {
					if job == nil {
						continue
					}
					if err := p.ctx.Err(); err != nil {
						return err
					}
					if err := job(p.ctx); err != nil {
						return err
					}
				}
				return nil
			})
		}
	})
}

// Submit queues job, blocking while all workers are busy. It returns the
// context error once the pool has failed or its parent was canceled.
func (p *Pool) Submit(job Job) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// Close stops accepting jobs, waits for the workers and returns the first
// job error.
func (p *Pool) Close() error {
	close(p.jobs)
	return p.group.Wait()
}
