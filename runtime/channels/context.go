package channels

import "sync"

// ContextChannel guards a shared record of T.
type ContextChannel[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewContextChannel creates a channel holding the zero value of T.
func NewContextChannel[T any]() *ContextChannel[T] {
	return &ContextChannel[T]{}
}

// Read runs fn with shared access. fn must not modify the record.
func (c *ContextChannel[T]) Read(fn func(*T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(&c.value)
}

// Write runs fn with exclusive access.
func (c *ContextChannel[T]) Write(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.value)
}

// Get returns a copy of the record.
func (c *ContextChannel[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the record.
func (c *ContextChannel[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
}
