package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Queue fans file paths out to a fixed pool of extraction workers and
// collects their results. Enqueue after Shutdown is a logged no-op.
type Queue struct {
	proc    *Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan string
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool

	resMu   sync.Mutex
	results []FileResult
	stats   BatchStats
}

type QueueOption func(*Queue)

func WithWorkers(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan string, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(proc *Processor, logger *slog.Logger, opts ...QueueOption) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan string, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for path := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					rec, err := q.proc.ProcessFile(ctx, path)
					cancel()

					q.resMu.Lock()
					if err != nil {
						q.results = append(q.results, FileResult{Path: path, Err: err.Error()})
						q.stats.Failed++
					} else {
						q.results = append(q.results, FileResult{Path: path, Record: &rec})
						q.stats.Succeeded++
					}
					q.resMu.Unlock()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "file", path, "error", err)
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) Enqueue(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "file", path)
		return
	}
	select {
	case q.ch <- path:
	default:
		q.logger.Warn("queue full, applying backpressure", "file", path)
		q.ch <- path
	}
}

// Shutdown closes intake and waits for the workers to drain, or for ctx.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
	}
}

// Results returns what the workers produced so far. Call after Shutdown for
// the complete set.
func (q *Queue) Results() ([]FileResult, BatchStats) {
	q.resMu.Lock()
	defer q.resMu.Unlock()
	return append([]FileResult(nil), q.results...), q.stats
}
