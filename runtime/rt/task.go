package rt

import (
	"reflect"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

// Dispatcher emits tasks with context C and collects results R.
type Dispatcher[C, R any] struct {
	out     *EventOutput[*tasks.Task[C]]
	results *EventInput[tasks.Result[C, R]]
	pending []*tasks.Task[C]
}

// Emit creates a task for ctx and hands it to the handler.
func (d *Dispatcher[C, R]) Emit(ctx C) *tasks.Task[C] {
	t := tasks.NewTask(ctx)
	d.pending = append(d.pending, t)
	d.out.Emit(t)
	return t
}

// Fetch drains the results that arrived since the previous call.
func (d *Dispatcher[C, R]) Fetch() []tasks.Result[C, R] { return d.results.Fetch() }

// WaitWhileEmpty blocks briefly while no result is pending.
func (d *Dispatcher[C, R]) WaitWhileEmpty() { d.results.WaitWhileEmpty() }

// Pending returns the number of emitted tasks not yet reported complete.
func (d *Dispatcher[C, R]) Pending() int { return len(d.pending) }

// FetchComplete removes and returns every emitted task that reached a final
// state.
func (d *Dispatcher[C, R]) FetchComplete() []*tasks.Task[C] {
	var done []*tasks.Task[C]
	kept := d.pending[:0]
	for _, t := range d.pending {
		if t.Done() {
			done = append(done, t)
		} else {
			kept = append(kept, t)
		}
	}
	clear(d.pending[len(kept):])
	d.pending = kept
	return done
}

// Dispatch declares the module as the dispatcher of tasks with context C.
func Dispatch[C, R any](l *Linker) *Dispatcher[C, R] {
	d := &Dispatcher[C, R]{
		out:     Emit[*tasks.Task[C]](l, NoLog()),
		results: Snoop[tasks.Result[C, R]](l),
	}
	return d
}

// TaskHandle receives tasks with context C and emits results R.
type TaskHandle[C, R any] struct {
	in     *EventInput[*tasks.Task[C]]
	out    *EventOutput[tasks.Result[C, R]]
	kernel *Kernel
	kind   string
}

// Fetch drains the tasks emitted since the previous call.
func (h *TaskHandle[C, R]) Fetch() []*tasks.Task[C] { return h.in.Fetch() }

// WaitWhileEmpty blocks briefly while no task is pending.
func (h *TaskHandle[C, R]) WaitWhileEmpty() { h.in.WaitWhileEmpty() }

// EmitResult publishes the result of t, then marks t complete. A task seen
// as done by FetchComplete always has its result queued for Fetch.
func (h *TaskHandle[C, R]) EmitResult(t *tasks.Task[C], r R) {
	h.out.Emit(tasks.Result[C, R]{Task: t, Value: r})
	t.Complete()
}

// Go runs fn for t on the kernel's task pool. A successful run emits its
// result, a failed one marks t failed. It reports false if the task was
// already started or the pool is closed.
func (h *TaskHandle[C, R]) Go(t *tasks.Task[C], fn func(C) (R, error)) bool {
	if !t.Start() {
		return false
	}
	ok := h.kernel.taskPool().Submit(h.kind, func() error {
		r, err := fn(t.Context)
		if err != nil {
			t.Fail()
			return err
		}
		h.EmitResult(t, r)
		return nil
	})
	if !ok {
		t.Fail()
	}
	return ok
}

// TaskHandler declares the module as the handler of tasks with context C.
func TaskHandler[C, R any](l *Linker) *TaskHandle[C, R] {
	return &TaskHandle[C, R]{
		in:     Snoop[*tasks.Task[C]](l),
		out:    Emit[tasks.Result[C, R]](l, NoLog()),
		kernel: l.kernel,
		kind:   metadata.PrettyTypeName(reflect.TypeFor[C]()),
	}
}
