package loader

import (
	"context"
	"runtime"
	"sync"
	"time"

	"asset-core/core/asset"
	"asset-core/core/metrics"
	"asset-core/core/registry"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader dispatches registry loads to a bounded worker pool.
type Loader struct {
	reg     *registry.Registry
	logger  *zap.Logger
	metrics *metrics.Collector

	workers      int
	queueSize    int
	pollInterval time.Duration

	mu        sync.Mutex
	pending   map[asset.ID]*Job
	completed []*Job
	queue     chan *Job
	started   bool
	closed    bool

	cancel context.CancelFunc
	group  *errgroup.Group

	// delivering serializes Update.
	delivering sync.Mutex
}

// New creates a loader over reg. It loads synchronously until Start is called.
func New(reg *registry.Registry, cfg Config, logger *zap.Logger, m *metrics.Collector) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		reg:          reg,
		logger:       logger,
		metrics:      m,
		workers:      cfg.Workers,
		queueSize:    cfg.QueueSize,
		pollInterval: cfg.PollInterval,
		pending:      make(map[asset.ID]*Job),
	}
	if l.workers <= 0 {
		l.workers = runtime.NumCPU()
	}
	if l.queueSize <= 0 {
		l.queueSize = DefaultQueueSize
	}
	if l.pollInterval <= 0 {
		l.pollInterval = DefaultPollInterval
	}
	return l
}

// Registry returns the registry the loader loads into.
func (l *Loader) Registry() *registry.Registry {
	return l.reg
}

// Start launches the worker pool. Workers stop when ctx is canceled or
// Shutdown is called. Starting twice is a no-op.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	l.queue = make(chan *Job, l.queueSize)
	l.cancel = cancel
	l.group = g
	l.started = true

	for i := 0; i < l.workers; i++ {
		g.Go(func() error {
			l.work(gctx)
			return nil
		})
	}
	l.logger.Info("Async loader started", zap.Int("workers", l.workers), zap.Int("queue_size", l.queueSize))
}

// IsStarted reports whether Start has been called.
func (l *Loader) IsStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// Shutdown stops the workers after their current job. Jobs still queued
// complete with ErrClosed and are delivered by the next Update.
func (l *Loader) Shutdown() {
	l.mu.Lock()
	if !l.started || l.closed {
		l.closed = true
		l.mu.Unlock()
		return
	}
	l.closed = true
	cancel, g := l.cancel, l.group
	l.mu.Unlock()

	cancel()
	_ = g.Wait()

	l.mu.Lock()
	n := 0
drain:
	for {
		select {
		case job := <-l.queue:
			if !job.canceled {
				l.finishLocked(job, nil, ErrClosed)
				n++
			}
		default:
			break drain
		}
	}
	l.metrics.SetQueueDepth(0)
	l.mu.Unlock()

	l.logger.Info("Async loader stopped", zap.Int("abandoned", n))
}

func (l *Loader) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-l.queue:
			l.run(job)
		}
	}
}

func (l *Loader) run(job *Job) {
	l.mu.Lock()
	l.metrics.SetQueueDepth(len(l.queue))
	if job.canceled {
		l.mu.Unlock()
		return
	}
	job.started = true
	l.mu.Unlock()

	a, err := job.load()
	if err != nil {
		l.logger.Debug("Async load failed", zap.String("path", job.Path), zap.Error(err))
	}

	l.mu.Lock()
	l.finishLocked(job, a, err)
	l.mu.Unlock()
}

// submit queues job, or runs it inline when the loader has not been started.
func (l *Loader) submit(job *Job) (asset.ID, error) {
	job.submitted = time.Now()

	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		a, err := job.load()
		l.metrics.JobDone(statusOf(err), time.Since(job.submitted))
		job.deliver(a, err)
		return job.ID, nil
	}

	l.pending[job.ID] = job
	if l.closed {
		l.finishLocked(job, nil, ErrClosed)
		l.mu.Unlock()
		return job.ID, ErrClosed
	}

	select {
	case l.queue <- job:
		l.metrics.SetQueueDepth(len(l.queue))
		l.mu.Unlock()
		return job.ID, nil
	default:
		l.finishLocked(job, nil, ErrQueueFull)
		l.mu.Unlock()
		l.logger.Warn("Async load rejected, queue is full", zap.String("path", job.Path), zap.Int("queue_size", l.queueSize))
		return job.ID, ErrQueueFull
	}
}

func (l *Loader) finishLocked(job *Job, a asset.Asset, err error) {
	job.result = a
	job.err = err
	job.done = true
	l.completed = append(l.completed, job)
	l.metrics.JobDone(job.status(), time.Since(job.submitted))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Update delivers every completed job's callback on the calling goroutine
// and returns how many were delivered. Call it from one goroutine only.
func (l *Loader) Update() int {
	l.delivering.Lock()
	defer l.delivering.Unlock()

	l.mu.Lock()
	done := l.completed
	l.completed = nil
	l.mu.Unlock()

	for _, job := range done {
		job.deliver(job.result, job.err)
		job.result = nil
	}

	l.mu.Lock()
	for id, job := range l.pending {
		if job.done {
			delete(l.pending, id)
		}
	}
	l.mu.Unlock()

	return len(done)
}

// CancelLoad withdraws a job that no worker has started. It returns false
// for unknown, running or finished jobs.
func (l *Loader) CancelLoad(id asset.ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	job, ok := l.pending[id]
	if !ok || job.started || job.done {
		return false
	}
	job.canceled = true
	delete(l.pending, id)
	l.metrics.JobDone(job.status(), time.Since(job.submitted))
	return true
}

// WaitForAll blocks until no job is pending or ctx is done.
func (l *Loader) WaitForAll(ctx context.Context) error {
	if l.PendingCount() == 0 {
		return nil
	}
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.PendingCount() == 0 {
				return nil
			}
		}
	}
}

// PendingCount returns the number of jobs not yet finished.
func (l *Loader) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingLocked()
}

func (l *Loader) pendingLocked() int {
	n := 0
	for _, job := range l.pending {
		if !job.done {
			n++
		}
	}
	return n
}

// CompletedCount returns the number of finished jobs awaiting Update.
func (l *Loader) CompletedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.completed)
}

// Progress returns completed / (pending + completed), or 1 when both are zero.
func (l *Loader) Progress() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending, completed := l.pendingLocked(), len(l.completed)
	if pending+completed == 0 {
		return 1
	}
	return float64(completed) / float64(pending+completed)
}
