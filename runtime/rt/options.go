package rt

import (
	"time"

	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

// DefaultShutdownTimeout bounds the wait for module goroutines in Stop.
const DefaultShutdownTimeout = 2 * time.Second

type options struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration
	snoopWait       time.Duration
	lockOSThread    bool
	runLimit        int
	logDataCapacity int
	taskWorkers     int
}

func defaultOptions() options {
	return options{
		logger:          zap.NewNop(),
		shutdownTimeout: DefaultShutdownTimeout,
		snoopWait:       channels.DefaultSnoopWait,
		runLimit:        -1,
		logDataCapacity: DefaultLogDataCapacity,
		taskWorkers:     tasks.DefaultWorkers,
	}
}

// Option configures a Kernel.
type Option func(*options)

// WithLogger sets the kernel logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithShutdownTimeout bounds how long Stop waits for module goroutines.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { o.shutdownTimeout = d }
}

// WithSnoopWait bounds how long event inputs block in WaitWhileEmpty.
func WithSnoopWait(d time.Duration) Option {
	return func(o *options) { o.snoopWait = d }
}

// WithLockOSThread pins every module goroutine to its own OS thread.
func WithLockOSThread(lock bool) Option {
	return func(o *options) { o.lockOSThread = lock }
}

// WithRunLimit stops every module loop after n cycles. Negative means no
// limit.
func WithRunLimit(n int) Option {
	return func(o *options) { o.runLimit = n }
}

// WithLogDataCapacity bounds each output's log data queue.
func WithLogDataCapacity(n int) Option {
	return func(o *options) { o.logDataCapacity = n }
}

// WithTaskWorkers sets the concurrency of the task pool.
func WithTaskWorkers(n int) Option {
	return func(o *options) { o.taskWorkers = n }
}
