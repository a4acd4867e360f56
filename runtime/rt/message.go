package rt

import (
	"reflect"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// Input holds the last value fetched from a message channel.
type Input[T any] struct {
	ch      *channels.MessageChannel[T]
	id      int
	value   T
	updated bool
}

// Get returns the current value.
func (in *Input[T]) Get() T { return in.value }

// Ptr returns the current value for in-place reads.
func (in *Input[T]) Ptr() *T { return &in.value }

// Updated reports whether the value was refreshed in this cycle.
func (in *Input[T]) Updated() bool { return in.updated }

// Require declares an input that gates the module: it only runs after a new
// value of T was written.
func Require[T any](l *Linker) *Input[T] {
	ch := messageChannel[T](l)
	in := &Input[T]{ch: ch, id: ch.AddListener()}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindMessage, metadata.In, true, in)
	l.onReady(func() bool { return ch.HasNewData(in.id) })
	l.onPre(func() {
		ch.Fetch(in.id, &in.value)
		in.updated = true
	})
	return in
}

// Listen declares an input that picks up new values of T when there are
// any and keeps the previous value otherwise.
func Listen[T any](l *Linker) *Input[T] {
	ch := messageChannel[T](l)
	in := &Input[T]{ch: ch, id: ch.AddListener()}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindMessage, metadata.In, false, in)
	l.onPre(func() { in.updated = ch.MaybeFetch(in.id, &in.value) })
	return in
}

// EventInput receives every value written to a message channel.
type EventInput[T any] struct {
	ch *channels.MessageChannel[T]
	id int
}

// Fetch drains all values written since the previous call, oldest first.
func (in *EventInput[T]) Fetch() []T { return in.ch.SnoopFetch(in.id) }

// WaitWhileEmpty blocks briefly while no value is pending.
func (in *EventInput[T]) WaitWhileEmpty() { in.ch.WaitWhileEmpty(in.id) }

// Snoop declares an input that sees every value of T in write order.
func Snoop[T any](l *Linker) *EventInput[T] {
	ch := messageChannel[T](l)
	in := &EventInput[T]{ch: ch, id: ch.AddSnoopingListener()}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindMessage, metadata.In, false, in)
	return in
}

// Output publishes its value after every cycle of the module.
type Output[T any] struct {
	ch    *channels.MessageChannel[T]
	value T
}

// Set replaces the value to publish.
func (out *Output[T]) Set(v T) { out.value = v }

// Get returns the value to publish.
func (out *Output[T]) Get() T { return out.value }

// Ptr returns the value to publish for in-place updates.
func (out *Output[T]) Ptr() *T { return &out.value }

// Provide declares the module as the producer of T.
func Provide[T any](l *Linker, opts ...OutputOption) *Output[T] {
	ch := messageChannel[T](l)
	out := &Output[T]{ch: ch}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindMessage, metadata.Out, false, out)
	tapLogData(l, ch, opts)
	l.onPost(func() { ch.Write(out.value) })
	return out
}

// EventOutput publishes values as soon as they are emitted.
type EventOutput[T any] struct {
	ch *channels.MessageChannel[T]
}

// Emit writes v to the channel immediately.
func (out *EventOutput[T]) Emit(v T) { out.ch.Write(v) }

// Emit declares the module as the producer of T, publishing on demand.
func Emit[T any](l *Linker, opts ...OutputOption) *EventOutput[T] {
	ch := messageChannel[T](l)
	out := &EventOutput[T]{ch: ch}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindMessage, metadata.Out, false, out)
	tapLogData(l, ch, opts)
	return out
}

// BatchOutput collects values until Send.
type BatchOutput[T any] struct {
	ch     *channels.MessageChannel[T]
	staged []T
}

// Stage appends v to the pending batch.
func (out *BatchOutput[T]) Stage(v T) { out.staged = append(out.staged, v) }

// Pending returns the number of staged values.
func (out *BatchOutput[T]) Pending() int { return len(out.staged) }

// Send publishes all staged values in order and clears the batch.
func (out *BatchOutput[T]) Send() {
	for _, v := range out.staged {
		out.ch.Write(v)
	}
	clear(out.staged)
	out.staged = out.staged[:0]
}

// Batch declares the module as the producer of T, publishing staged values
// on Send.
func Batch[T any](l *Linker, opts ...OutputOption) *BatchOutput[T] {
	ch := messageChannel[T](l)
	out := &BatchOutput[T]{ch: ch}
	l.addEndpoint(reflect.TypeFor[T](), metadata.KindMessage, metadata.Out, false, out)
	tapLogData(l, ch, opts)
	return out
}
