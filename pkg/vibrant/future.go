package vibrant

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPoolClosed is returned when work is submitted to a closed pool.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrWorkerFailed is returned when an extraction panics on a worker.
	ErrWorkerFailed = errors.New("palette worker failed")
)

// Future is the handle for an asynchronous extraction. It completes exactly
// once, after the work was submitted.
type Future struct {
	done    chan struct{}
	once    sync.Once
	palette *Palette
	err     error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// run executes fn and completes the future with its result. A panic in fn
// completes the future with ErrWorkerFailed.
func (f *Future) run(fn func() (*Palette, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.complete(nil, fmt.Errorf("%w: %v", ErrWorkerFailed, r))
		}
	}()
	p, err := fn()
	f.complete(p, err)
}

func (f *Future) complete(p *Palette, err error) {
	f.once.Do(func() {
		f.palette = p
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed when the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx is done. Cancelling ctx
// stops the wait, not the extraction.
func (f *Future) Wait(ctx context.Context) (*Palette, error) {
	select {
	case <-f.done:
		return f.palette, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result blocks until the extraction finishes and returns its outcome.
func (f *Future) Result() (*Palette, error) {
	<-f.done
	return f.palette, f.err
}

// Then calls cb with the result once it is available. cb runs on its own
// goroutine; callers that need a specific context should receive from Done
// instead.
func (f *Future) Then(cb func(*Palette, error)) {
	go func() {
		<-f.done
		cb(f.palette, f.err)
	}()
}

// Pool is a fixed-size set of workers for asynchronous extractions.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool with the given number of workers (minimum 1).
func NewPool(workers int) *Pool {
	workers = max(workers, 1)
	p := &Pool{jobs: make(chan func(), workers*4)}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit queues fn for execution. It blocks while the queue is full.
func (p *Pool) Submit(fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- fn
	return nil
}

// Close stops accepting work and waits for queued work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
