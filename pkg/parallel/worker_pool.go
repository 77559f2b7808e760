// Package parallel runs independent jobs on a fixed set of goroutines.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-malsim/pkg/logging"
)

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// ErrClosed is returned by ForEach on a closed pool.
var ErrClosed = fmt.Errorf("worker pool is closed")

// MaxWorkers bounds pool size. Ensemble trials are CPU-bound, so more
// goroutines than this only add scheduling overhead.
const MaxWorkers = 1024

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // guards closed against a concurrent Close during send
	closed    bool
	logger    logging.Logger
}

// NewWorkerPool creates a pool of the given size. A non-positive size
// means one worker per CPU.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logger.With(logging.Component("worker_pool")),
	}
	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}
	return pool, nil
}

// Workers returns the pool size
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.run(id, task)
	}
}

// run executes one task; a panicking task is logged and does not kill the worker.
func (wp *WorkerPool) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("task panicked",
				logging.Int("worker", id),
				logging.Any("panic", r),
			)
		}
	}()
	task()
}

// Submit queues a task. It returns false if the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// ForEach runs fn(i) for every i in [0, n) on the pool and waits for them
// all. Indexes not yet started when ctx is cancelled are skipped and the
// context error is returned.
func (wp *WorkerPool) ForEach(ctx context.Context, n int, fn func(i int)) error {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		ok := wp.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn(i)
		})
		if !ok {
			wg.Done()
			wg.Wait()
			return ErrClosed
		}
	}
	wg.Wait()
	return ctx.Err()
}

// Close stops accepting tasks and waits for queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
