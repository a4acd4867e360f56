package channels

import (
	"fmt"
	"reflect"
	"sync"
)

// Command is implemented by every command type of group G. The marker method
// binds a command type to exactly one group at compile time:
//
//	type MotionCommands struct{}
//	type WalkTo struct{ X, Y float32 }
//	func (WalkTo) InGroup(MotionCommands) {}
type Command[G any] interface {
	InGroup(G)
}

// CommandChannel queues commands of group G and dispatches them to the
// handler bound for each concrete command type.
type CommandChannel[G any] struct {
	mu      sync.Mutex
	queue   []Command[G]
	sinks   map[reflect.Type]func(Command[G])
	dropped uint64
}

// NewCommandChannel creates a channel without handlers.
func NewCommandChannel[G any]() *CommandChannel[G] {
	return &CommandChannel[G]{sinks: make(map[reflect.Type]func(Command[G]))}
}

// Connect binds fn as the handler of command type C. Binding a second
// handler for the same type panics.
func Connect[G any, C Command[G]](ch *CommandChannel[G], fn func(C)) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	t := reflect.TypeFor[C]()
	if _, ok := ch.sinks[t]; ok {
		panic(fmt.Sprintf("channels: command %s already has a handler", t))
	}
	ch.sinks[t] = func(cmd Command[G]) { fn(cmd.(C)) }
}

// Enqueue buffers cmd until the next Update.
func (ch *CommandChannel[G]) Enqueue(cmd Command[G]) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.queue = append(ch.queue, cmd)
}

// Update invokes the handlers of all buffered commands in enqueue order on
// the calling goroutine and returns how many were dispatched. Commands
// enqueued by a handler are kept for the next Update. Commands without a
// handler are dropped.
func (ch *CommandChannel[G]) Update() int {
	ch.mu.Lock()
	queue := ch.queue
	ch.queue = nil
	sinks := make([]func(Command[G]), len(queue))
	for i, cmd := range queue {
		sinks[i] = ch.sinks[reflect.TypeOf(cmd)]
		if sinks[i] == nil {
			ch.dropped++
		}
	}
	ch.mu.Unlock()

	n := 0
	for i, cmd := range queue {
		if sinks[i] == nil {
			continue
		}
		sinks[i](cmd)
		n++
	}
	return n
}

// Pending returns the number of buffered commands.
func (ch *CommandChannel[G]) Pending() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.queue)
}

// Dropped returns the number of commands discarded for lack of a handler.
func (ch *CommandChannel[G]) Dropped() uint64 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.dropped
}
