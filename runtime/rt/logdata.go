package rt

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// DefaultLogDataCapacity bounds each output's log data queue.
const DefaultLogDataCapacity = 1000

// LogData is one value written to a logged output.
type LogData struct {
	Module string    `json:"module"`
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
	Value  any       `json:"value"`
}

// LogDataContext buffers the values of all logged outputs until the logger
// module drains them.
type LogDataContext struct {
	capacity int

	mu     sync.RWMutex
	queues []*logQueue

	notify  chan struct{}
	dropped atomic.Uint64
}

type logQueue struct {
	ctx    *LogDataContext
	module string
	name   string
	items  chan LogData
}

func newLogDataContext(capacity int) *LogDataContext {
	if capacity <= 0 {
		capacity = DefaultLogDataCapacity
	}
	return &LogDataContext{
		capacity: capacity,
		notify:   make(chan struct{}, 1),
	}
}

func (c *LogDataContext) addQueue(module, typeName string) *logQueue {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := &logQueue{
		ctx:    c,
		module: module,
		name:   typeName,
		items:  make(chan LogData, c.capacity),
	}
	c.queues = append(c.queues, q)
	return q
}

func (q *logQueue) push(v any) {
	select {
	case q.items <- LogData{Module: q.module, Type: q.name, Time: time.Now(), Value: v}:
	default:
		q.ctx.dropped.Add(1)
		return
	}
	select {
	case q.ctx.notify <- struct{}{}:
	default:
	}
}

// Outputs returns the number of logged outputs.
func (c *LogDataContext) Outputs() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.queues)
}

// Dropped counts values discarded because a queue was full.
func (c *LogDataContext) Dropped() uint64 { return c.dropped.Load() }

// Wait blocks until a value is pending or d elapses.
func (c *LogDataContext) Wait(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for !c.pending() {
		select {
		case <-c.notify:
		case <-timer.C:
			return
		}
	}
}

func (c *LogDataContext) pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.queues {
		if len(q.items) > 0 {
			return true
		}
	}
	return false
}

// Drain passes every pending value to fn, queue by queue, and returns how
// many it passed.
func (c *LogDataContext) Drain(fn func(LogData)) int {
	c.mu.RLock()
	queues := c.queues
	c.mu.RUnlock()

	n := 0
	for _, q := range queues {
		for drained := false; !drained; {
			select {
			case d := <-q.items:
				fn(d)
				n++
			default:
				drained = true
			}
		}
	}
	return n
}

// LogDataReader declares read access to the log data of all outputs. Only
// the module tagged Logger may call it.
func LogDataReader(l *Linker) *LogDataContext {
	mustBeLogger(l)
	l.addEndpoint(reflect.TypeFor[LogDataContext](), metadata.KindContext, metadata.In, false, l.kernel.logData)
	return l.kernel.logData
}
