package tasks

import (
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultWorkers is the number of goroutines of a pool created with a
// non-positive worker count.
const DefaultWorkers = 4

// Pool runs task handlers on a bounded set of goroutines.
type Pool struct {
	workers int
	logger  *zap.Logger
	metrics *Metrics

	mu     sync.RWMutex
	pool   *pool.Pool
	closed bool
}

// NewPool creates a pool with at most workers concurrent handlers.
func NewPool(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		workers: workers,
		logger:  logger,
		metrics: NewMetrics(),
		pool:    pool.New().WithMaxGoroutines(workers),
	}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int { return p.workers }

// Metrics returns the statistics collected by the pool.
func (p *Pool) Metrics() *Metrics { return p.metrics }

// Submit schedules fn under kind. It blocks while every worker is busy and
// reports false once the pool is closed.
func (p *Pool) Submit(kind string, fn func() error) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("task submitted to closed pool", zap.String("kind", kind))
		return false
	}

	p.pool.Go(func() {
		start := time.Now()
		err := fn()
		d := time.Since(start)
		if err != nil {
			p.logger.Warn("task failed",
				zap.String("kind", kind),
				zap.Duration("duration", d),
				zap.Error(err))
			p.metrics.RecordFailure(kind, d)
			return
		}
		p.logger.Debug("task completed", zap.String("kind", kind), zap.Duration("duration", d))
		p.metrics.RecordSuccess(kind, d)
	})
	return true
}

// Close waits for all submitted tasks. Later submissions are rejected.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	cp := p.pool
	p.mu.Unlock()

	cp.Wait()
	p.logger.Debug("task pool stopped", zap.Int("workers", p.workers))
}
