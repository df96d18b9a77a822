// Package host drives a dispatch context from concurrent callers: a worker
// goroutine serializes access, a handle store keeps objects alive between
// requests, and a runner executes manifest scenarios.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/dispex/vm"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("dispex.host")

// ErrStopped is returned by Do after Stop.
var ErrStopped = errors.New("worker stopped")

// request represents a unit of work to be executed on the worker goroutine.
type request struct {
	fn   func(*vm.Context) (any, error)
	done chan result
}

// result holds the return value from a context operation.
type result struct {
	value any
	err   error
}

// Worker serializes all access to a vm.Context through a single goroutine.
// Property tables are not safe for concurrent use, so every caller must go
// through Do.
type Worker struct {
	ctx      *vm.Context
	requests chan request
	quit     chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a Worker and starts the processing goroutine.
func NewWorker(c *vm.Context) *Worker {
	w := &Worker{
		ctx:      c,
		requests: make(chan request, 64),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// loop processes requests sequentially on a dedicated goroutine.
func (w *Worker) loop() {
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(req.fn)
		case <-w.quit:
			return
		}
	}
}

// execute runs fn on the context, recovering from panics.
func (w *Worker) execute(fn func(*vm.Context) (any, error)) (res result) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered panic: %v", r)
			res = result{err: fmt.Errorf("%w: panic: %v", vm.ErrInternal, r)}
		}
	}()
	res.value, res.err = fn(w.ctx)
	return res
}

// Do submits fn for execution on the worker goroutine and blocks until it
// completes, ctx is done, or the worker stops. A panic in fn is returned as
// an error wrapping vm.ErrInternal.
func (w *Worker) Do(ctx context.Context, fn func(*vm.Context) (any, error)) (any, error) {
	req := request{
		fn:   fn,
		done: make(chan result, 1),
	}
	select {
	case w.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.quit:
		return nil, ErrStopped
	}
	select {
	case res := <-req.done:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.quit:
		return nil, ErrStopped
	}
}

// Stop shuts down the worker goroutine. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

// Context returns the underlying context, for read-only metadata such as
// Options, Classes and Live that doesn't touch property tables.
func (w *Worker) Context() *vm.Context {
	return w.ctx
}
