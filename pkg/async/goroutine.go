package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SafeGo runs fn on its own goroutine under a deadline, with panic
// recovery. Failures are logged, never fatal. Catalog background work
// goes through here instead of a bare go statement.
//
//	async.SafeGo(ctx, 2*time.Minute, "details cache warmup", func(ctx context.Context) error {
//		return warmDetails(ctx)
//	})
func SafeGo(parentCtx context.Context, timeout time.Duration, taskName string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("task", taskName).
					Errorf("Recovered panic: %v\n%s", r, debug.Stack())
			}
		}()

		if err := fn(ctx); err != nil {
			logrus.WithField("task", taskName).WithError(err).Error("Background task failed")
		}
	}()
}

// workerPool fans tasks out to a fixed number of goroutines. Batch is
// the only way in; keeping the pool internal means nothing outside this
// package can touch its channels mid-flight.
type workerPool struct {
	taskName string
	timeout  time.Duration
	workCh   chan func(context.Context) error
	doneCh   chan struct{}
	errCh    chan error
	ctx      context.Context
	cancel   context.CancelFunc
}

func newWorkerPool(ctx context.Context, workers int, taskName string, timeout time.Duration) *workerPool {
	ctx, cancel := context.WithCancel(ctx)

	pool := &workerPool{
		taskName: taskName,
		timeout:  timeout,
		workCh:   make(chan func(context.Context) error, workers*2),
		doneCh:   make(chan struct{}),
		errCh:    make(chan error, workers*10),
		ctx:      ctx,
		cancel:   cancel,
	}

	go func() {
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pool.worker()
			}()
		}
		wg.Wait()
		close(pool.doneCh)
	}()

	return pool
}

func (p *workerPool) submit(fn func(context.Context) error) error {
	select {
	case p.workCh <- fn:
		return nil
	case <-p.doneCh:
		return fmt.Errorf("worker pool shut down")
	}
}

// drain closes intake, waits for the workers to finish, and returns
// everything they reported.
func (p *workerPool) drain() []error {
	close(p.workCh)
	<-p.doneCh
	p.cancel()

	var errs []error
	for {
		select {
		case err := <-p.errCh:
			errs = append(errs, err)
		default:
			return errs
		}
	}
}

func (p *workerPool) worker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case fn, ok := <-p.workCh:
			if !ok {
				return
			}
			p.run(fn)
		}
	}
}

// run executes one task under the per-task deadline, converting a panic
// into a reported error.
func (p *workerPool) run(fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.report(fmt.Errorf("panic in %s: %v", p.taskName, r))
		}
	}()

	if err := fn(ctx); err != nil {
		p.report(err)
	}
}

func (p *workerPool) report(err error) {
	select {
	case p.errCh <- err:
	default:
		logrus.WithField("task", p.taskName).WithError(err).Warn("Error channel full, dropping error")
	}
}

// Batch runs fn over every item on a bounded number of workers, blocks
// until all items are processed, and returns the collected errors. The
// details cache warmup pushes one task per catalog variant through here.
//
//	errs := async.Batch(ctx, variantIDs, 4, "details cache warmup", time.Minute, warmOne)
func Batch[T any](ctx context.Context, items []T, workers int, taskName string, timeout time.Duration,
	fn func(context.Context, T) error) []error {

	pool := newWorkerPool(ctx, workers, taskName, timeout)

	for _, item := range items {
		item := item
		if err := pool.submit(func(ctx context.Context) error {
			return fn(ctx, item)
		}); err != nil {
			pool.cancel()
			return []error{err}
		}
	}

	return pool.drain()
}
