package rt

import (
	"reflect"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// ContextReader gives shared access to a pool-owned record.
type ContextReader[T any] struct {
	ch *channels.ContextChannel[T]
}

// Read runs fn while holding a read lock.
func (c *ContextReader[T]) Read(fn func(*T)) { c.ch.Read(fn) }

// Get returns a copy of the record.
func (c *ContextReader[T]) Get() T { return c.ch.Get() }

// ContextWriter gives exclusive access to a pool-owned record.
type ContextWriter[T any] struct {
	ContextReader[T]
}

// Write runs fn while holding the write lock.
func (c *ContextWriter[T]) Write(fn func(*T)) { c.ch.Write(fn) }

// ReadContext declares read access to the record T.
func ReadContext[T any](l *Linker) *ContextReader[T] {
	r := &ContextReader[T]{ch: contextChannel[T](l)}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindContext, metadata.In, false, r)
	return r
}

// WriteContext declares write access to the record T.
func WriteContext[T any](l *Linker) *ContextWriter[T] {
	w := &ContextWriter[T]{ContextReader[T]{ch: contextChannel[T](l)}}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindContext, metadata.Out, false, w)
	return w
}
