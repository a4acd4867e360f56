package rt

import (
	"reflect"
	"sync"
)

// ContextPool owns every channel object of a kernel, one per channel type.
type ContextPool struct {
	mu   sync.Mutex
	objs map[reflect.Type]any
}

// NewContextPool creates an empty pool.
func NewContextPool() *ContextPool {
	return &ContextPool{objs: make(map[reflect.Type]any)}
}

// Len returns the number of channel objects.
func (p *ContextPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objs)
}

// getOrCreate returns the pool's instance of T, creating it with ctor on
// first use.
func getOrCreate[T any](p *ContextPool, ctor func() T) T {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := reflect.TypeFor[T]()
	if obj, ok := p.objs[key]; ok {
		return obj.(T)
	}
	obj := ctor()
	p.objs[key] = obj
	return obj
}
