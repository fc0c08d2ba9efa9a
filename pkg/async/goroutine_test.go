package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeGoRuns(t *testing.T) {
	executed := atomic.Bool{}

	SafeGo(context.Background(), time.Second, "warmup", func(ctx context.Context) error {
		executed.Store(true)
		return nil
	})

	assert.Eventually(t, executed.Load, time.Second, 10*time.Millisecond)
}

func TestSafeGoSwallowsErrorAndPanic(t *testing.T) {
	failed := atomic.Bool{}
	panicked := atomic.Bool{}

	SafeGo(context.Background(), time.Second, "warmup", func(ctx context.Context) error {
		failed.Store(true)
		return errors.New("boom")
	})
	SafeGo(context.Background(), time.Second, "warmup", func(ctx context.Context) error {
		panicked.Store(true)
		panic("boom")
	})

	// Neither failure mode reaches the test goroutine.
	assert.Eventually(t, failed.Load, time.Second, 10*time.Millisecond)
	assert.Eventually(t, panicked.Load, time.Second, 10*time.Millisecond)
}

func TestSafeGoTimeout(t *testing.T) {
	timedOut := atomic.Bool{}

	SafeGo(context.Background(), 30*time.Millisecond, "warmup", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			timedOut.Store(true)
			return ctx.Err()
		}
	})

	assert.Eventually(t, timedOut.Load, time.Second, 10*time.Millisecond)
}

func TestSafeGoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	canceled := atomic.Bool{}

	SafeGo(ctx, 5*time.Second, "warmup", func(ctx context.Context) error {
		<-ctx.Done()
		canceled.Store(true)
		return ctx.Err()
	})

	cancel()
	assert.Eventually(t, canceled.Load, time.Second, 10*time.Millisecond)
}

func TestBatch(t *testing.T) {
	executed := atomic.Int32{}

	errs := Batch(context.Background(), []int{1, 2, 3, 4, 5}, 2, "warmup", time.Second,
		func(ctx context.Context, item int) error {
			executed.Add(1)
			return nil
		})

	assert.Empty(t, errs)
	assert.Equal(t, int32(5), executed.Load())
}

func TestBatchCollectsErrors(t *testing.T) {
	errs := Batch(context.Background(), []int{1, 2, 3, 4, 5}, 2, "warmup", time.Second,
		func(ctx context.Context, item int) error {
			if item%2 == 0 {
				return errors.New("even item")
			}
			return nil
		})

	assert.Len(t, errs, 2)
}

func TestBatchRecoversTaskPanic(t *testing.T) {
	executed := atomic.Int32{}

	errs := Batch(context.Background(), []int{1, 2, 3}, 2, "warmup", time.Second,
		func(ctx context.Context, item int) error {
			executed.Add(1)
			if item == 2 {
				panic("boom")
			}
			return nil
		})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "panic")
	assert.Equal(t, int32(3), executed.Load())
}

func TestBatchTaskTimeout(t *testing.T) {
	errs := Batch(context.Background(), []int{1}, 1, "warmup", 30*time.Millisecond,
		func(ctx context.Context, item int) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.DeadlineExceeded)
}

func TestBatchContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	once := sync.Once{}
	go func() {
		<-started
		cancel()
	}()

	errs := Batch(ctx, []int{1, 2, 3, 4, 5, 6, 7, 8}, 2, "warmup", time.Second,
		func(ctx context.Context, item int) error {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return ctx.Err()
		})

	assert.NotEmpty(t, errs)
}
