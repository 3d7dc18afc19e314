package pipeline

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
)

// ResultCallback is invoked on completion from a worker goroutine. Cancelled
// requests invoke no callback at all.
type ResultCallback func(res *Result, err error)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict
// back-pressure). The pipeline itself has no queue; overlapping requests
// are the caller's problem to serialize or cancel.
type Pool struct {
	pipeline *Pipeline
	jobs     chan job
	wg       sync.WaitGroup
}

type job struct {
	ctx context.Context
	req Request
	cb  ResultCallback
}

// NewPool creates a worker pool over one pipeline. Size defaults to NumCPU
// when size<=0. Queue is 1 slot.
func NewPool(p *Pipeline, size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	pool := &Pool{pipeline: p, jobs: make(chan job, 1)}
	pool.start(size)
	return pool
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: starting request for region %dx%d", j.req.Region.Width, j.req.Region.Height)
				res, err := p.pipeline.Run(j.ctx, j.req)
				if errors.Is(err, context.Canceled) {
					// A cancelled request emits no result.
					log.Printf("Worker: request cancelled, dropping result")
					continue
				}
				j.cb(res, err)
			}
		}()
	}
}

// Submit enqueues a request if the single-slot queue is free. Returns false
// if dropped.
func (p *Pool) Submit(ctx context.Context, req Request, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, req: req, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
