package channels

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSnoopWait bounds WaitWhileEmpty.
const DefaultSnoopWait = time.Millisecond

type listenerCtx[T any] struct {
	mu    sync.Mutex
	value T
	full  bool
}

type snoopCtx[T any] struct {
	mu     sync.Mutex
	queue  []T
	notify chan struct{}
}

// MessageChannel delivers values of T from one producer to many listeners.
type MessageChannel[T any] struct {
	mu        sync.RWMutex
	listeners []*listenerCtx[T]
	snoopers  []*snoopCtx[T]
	taps      []func(T)

	snoopWait time.Duration
	writes    atomic.Uint64
}

// NewMessageChannel creates a channel without listeners.
func NewMessageChannel[T any]() *MessageChannel[T] {
	return &MessageChannel[T]{snoopWait: DefaultSnoopWait}
}

// SetSnoopWait changes the bound of WaitWhileEmpty.
func (c *MessageChannel[T]) SetSnoopWait(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snoopWait = d
}

// AddListener registers a single-slot mailbox and returns its id.
func (c *MessageChannel[T]) AddListener() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, &listenerCtx[T]{})
	return len(c.listeners) - 1
}

// AddSnoopingListener registers a queue that receives every write.
func (c *MessageChannel[T]) AddSnoopingListener() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snoopers = append(c.snoopers, &snoopCtx[T]{notify: make(chan struct{}, 1)})
	return len(c.snoopers) - 1
}

// AddTap registers fn to observe every write synchronously.
func (c *MessageChannel[T]) AddTap(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taps = append(c.taps, fn)
}

// Write delivers data. Plain listeners holding an unfetched value get data
// squashed into it; snooping listeners get data appended.
func (c *MessageChannel[T]) Write(data T) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, tap := range c.taps {
		tap(data)
	}

	for _, ctx := range c.listeners {
		ctx.mu.Lock()
		if ctx.full {
			Squash(&ctx.value, data)
		} else {
			ctx.value = data
			ctx.full = true
		}
		ctx.mu.Unlock()
	}

	for _, ctx := range c.snoopers {
		ctx.mu.Lock()
		ctx.queue = append(ctx.queue, data)
		ctx.mu.Unlock()
		select {
		case ctx.notify <- struct{}{}:
		default:
		}
	}

	c.writes.Add(1)
}

// Writes returns the number of values written so far.
func (c *MessageChannel[T]) Writes() uint64 {
	return c.writes.Load()
}

// HasNewData reports whether listener id holds an unfetched value.
func (c *MessageChannel[T]) HasNewData(id int) bool {
	ctx := c.listener(id)
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.full
}

// Fetch moves the pending value of listener id into out. The mailbox must
// not be empty.
func (c *MessageChannel[T]) Fetch(id int, out *T) {
	ctx := c.listener(id)
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if !ctx.full {
		panic(fmt.Sprintf("channels: fetch on empty mailbox %d of %T", id, *out))
	}
	*out = ctx.take()
}

// MaybeFetch moves the pending value of listener id into out if there is
// one and reports whether it did.
func (c *MessageChannel[T]) MaybeFetch(id int, out *T) bool {
	ctx := c.listener(id)
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if !ctx.full {
		return false
	}
	*out = ctx.take()
	return true
}

// WaitWhileEmpty blocks until snooping listener id has queued values or the
// snoop wait elapses.
func (c *MessageChannel[T]) WaitWhileEmpty(id int) {
	ctx := c.snooper(id)

	c.mu.RLock()
	wait := c.snoopWait
	c.mu.RUnlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	for !ctx.pending() {
		select {
		case <-ctx.notify:
		case <-timer.C:
			return
		}
	}
}

func (ctx *snoopCtx[T]) pending() bool {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return len(ctx.queue) > 0
}

// SnoopFetch drains the queue of snooping listener id in write order.
func (c *MessageChannel[T]) SnoopFetch(id int) []T {
	ctx := c.snooper(id)
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	out := ctx.queue
	ctx.queue = nil
	return out
}

func (ctx *listenerCtx[T]) take() T {
	v := ctx.value
	var zero T
	ctx.value = zero
	ctx.full = false
	return v
}

func (c *MessageChannel[T]) listener(id int) *listenerCtx[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 0 || id >= len(c.listeners) {
		panic(fmt.Sprintf("channels: invalid listener id %d (have %d)", id, len(c.listeners)))
	}
	return c.listeners[id]
}

func (c *MessageChannel[T]) snooper(id int) *snoopCtx[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 0 || id >= len(c.snoopers) {
		panic(fmt.Sprintf("channels: invalid snooping listener id %d (have %d)", id, len(c.snoopers)))
	}
	return c.snoopers[id]
}
