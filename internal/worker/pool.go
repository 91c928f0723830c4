// worker/pool.go
package worker

import (
	"context"
	"sync"
)

// Job produces one result. Jobs should honor ctx and return early when
// it is cancelled.
type Job[T any] func(ctx context.Context) T

// Result pairs a job's output with the id it was submitted under.
type Result[T any] struct {
	JobID  string
	Output T
}

// Pool runs submitted jobs on a fixed set of workers and delivers
// results on a channel. Close the pool after the last Submit; the
// results channel closes once every in-flight job has finished.
type Pool[T any] struct {
	ctx     context.Context
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](ctx context.Context, workerCount, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		ctx:     ctx,
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		if p.ctx.Err() != nil {
			return
		}
		p.results <- Result[T]{
			JobID:  job.id,
			Output: job.fn(p.ctx),
		}
	}
}

// Submit queues a job. It must not be called after Close.
func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

// Close stops accepting jobs. Pending jobs still run.
func (p *Pool[T]) Close() {
	close(p.jobs)
}

// Results delivers job outputs. The channel closes after Close once all
// workers have drained.
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}
