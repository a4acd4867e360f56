package rt

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

// ModuleID identifies a loaded module. IDs follow load order.
type ModuleID = metadata.ModuleID

// State is the lifecycle state of a Kernel.
type State int32

const (
	StateSetup State = iota
	StateReady
	StateRunningSeq
	StateRunningAsync
	StateShutdown
	StateFinished
	StateError
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "SETUP"
	case StateReady:
		return "READY"
	case StateRunningSeq:
		return "RUNNING_SEQ"
	case StateRunningAsync:
		return "RUNNING_ASYNC"
	case StateShutdown:
		return "SHUTDOWN"
	case StateFinished:
		return "FINISHED"
	case StateError:
		return "ERROR"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

var (
	// ErrInvalidState is returned when a lifecycle method is called in the
	// wrong kernel state.
	ErrInvalidState = errors.New("rt: invalid kernel state")
	// ErrShutdownTimeout is returned by Stop when module goroutines did not
	// finish within the shutdown timeout.
	ErrShutdownTimeout = errors.New("rt: shutdown timed out")
)

type slot struct {
	module  Module
	hook    func(*Linker)
	name    string
	tags    Tag
	mu      sync.Mutex
	cond    *sync.Cond
	runs    atomic.Uint64
	running atomic.Bool
}

func newSlot(name string, tags Tag) *slot {
	s := &slot{name: name, tags: tags}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *slot) threaded() bool { return !s.tags.Has(NoThread) }

// Kernel loads modules, links them into a graph and runs them.
//
// Lifecycle methods (Load, Hook, Compile, Setup, Start, Step, Stop) must be
// called from a single goroutine. Fetch and Dump may be called by the host
// of a hook while the kernel runs.
type Kernel struct {
	opts    options
	logger  *zap.Logger
	state   atomic.Int32
	meta    *metadata.Metadata
	pool    *ContextPool
	logData *LogDataContext
	slots   []*slot
	loaders []Loader
	isSetup bool

	wg         sync.WaitGroup
	numRunning atomic.Int32

	tasks *tasks.Pool
}

// NewKernel creates a kernel in state SETUP.
func NewKernel(opts ...Option) *Kernel {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Kernel{
		opts:    o,
		logger:  o.logger,
		meta:    metadata.New(),
		pool:    NewContextPool(),
		logData: newLogDataContext(o.logDataCapacity),
	}
}

// State returns the current lifecycle state.
func (k *Kernel) State() State { return State(k.state.Load()) }

func (k *Kernel) setState(s State) { k.state.Store(int32(s)) }

func (k *Kernel) expect(allowed ...State) error {
	cur := k.State()
	for _, s := range allowed {
		if cur == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, cur)
}

// Load adds modules to the kernel. Disabled modules are skipped. A module
// implementing Loader may load further modules from its Load method.
func (k *Kernel) Load(modules ...Module) error {
	if err := k.expect(StateSetup); err != nil {
		return err
	}
	for _, m := range modules {
		if err := k.load(m); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kernel) load(m Module) error {
	name := moduleName(m)
	if d, ok := m.(Disabler); ok && d.Disabled() {
		k.logger.Debug("module disabled", zap.String("module", name))
		return nil
	}

	s := newSlot(name, moduleTags(m))
	s.module = m
	k.slots = append(k.slots, s)
	k.logger.Debug("module loaded",
		zap.String("module", name),
		zap.Stringer("tags", s.tags),
		zap.Int("id", len(k.slots)-1))

	if ld, ok := m.(Loader); ok {
		if err := ld.Load(k); err != nil {
			return fmt.Errorf("rt: loading module %s: %w", name, err)
		}
	}
	return nil
}

// Use runs loaders that only register other modules. Unlike modules
// implementing Loader, they never become part of the graph.
func (k *Kernel) Use(loaders ...Loader) error {
	if err := k.expect(StateSetup); err != nil {
		return err
	}
	for _, ld := range loaders {
		name := moduleName(ld)
		k.loaders = append(k.loaders, ld)
		k.logger.Debug("running loader", zap.String("loader", name))
		if err := ld.Load(k); err != nil {
			return fmt.Errorf("rt: running loader %s: %w", name, err)
		}
	}
	return nil
}

// Hook adds a module without a body. Its host drives it with Fetch and Dump.
func (k *Kernel) Hook(name string, connect func(*Linker)) (ModuleID, error) {
	if err := k.expect(StateSetup); err != nil {
		return metadata.InvalidID, err
	}
	if name == "" {
		return metadata.InvalidID, errors.New("rt: hook name must not be empty")
	}
	s := newSlot(name, NoThread|Hook)
	s.hook = connect
	k.slots = append(k.slots, s)
	return ModuleID(len(k.slots) - 1), nil
}

func (k *Kernel) hasLogger() bool {
	for _, s := range k.slots {
		if s.tags.Has(Logger) {
			return true
		}
	}
	return false
}

// Compile links all modules and validates the graph. It returns a
// *CompileError listing every problem found and moves the kernel to ERROR,
// or moves it to READY.
func (k *Kernel) Compile() error {
	if err := k.expect(StateSetup); err != nil {
		return err
	}

	k.link()
	if err := k.resolve(); err != nil {
		k.setState(StateError)
		k.logger.Error("module graph has errors", zap.Error(err))
		return err
	}

	k.setState(StateReady)
	k.logger.Debug("module graph compiled",
		zap.Int("modules", len(k.meta.Modules)),
		zap.Int("channels", len(k.meta.Channels)),
		zap.Int("endpoints", len(k.meta.Endpoints)))
	return nil
}

func (k *Kernel) link() {
	for i, s := range k.slots {
		l := newLinker(k, s.name, s.tags)
		if s.module != nil {
			s.module.Connect(l)
		} else if s.hook != nil {
			s.hook(l)
		}
		s.name = l.name

		id := k.meta.InsertModule(l.meta(), l.endpoints)
		if int(id) != i {
			panic(fmt.Sprintf("rt: module %q linked as %d, expected %d", s.name, id, i))
		}
	}
}

// Setup calls Setup on every module once. It is a no-op after the first
// call.
func (k *Kernel) Setup() error {
	if err := k.expect(StateReady, StateRunningSeq); err != nil {
		return err
	}
	if k.isSetup {
		return nil
	}

	k.tasks = tasks.NewPool(k.opts.taskWorkers, k.logger.Named("tasks"))

	var errs error
	for _, s := range k.slots {
		if su, ok := s.module.(Setupper); ok {
			if err := su.Setup(); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("rt: setting up module %s: %w", s.name, err))
			}
		}
	}
	k.isSetup = true
	return errs
}

// Start spawns one goroutine per threaded module.
func (k *Kernel) Start() error {
	if err := k.expect(StateReady); err != nil {
		return err
	}
	if err := k.Setup(); err != nil {
		return err
	}

	k.setState(StateRunningAsync)
	threads := 0
	for i, s := range k.slots {
		if !s.threaded() {
			continue
		}
		threads++
		k.wg.Add(1)
		k.numRunning.Add(1)
		s.running.Store(true)
		go k.moduleLoop(ModuleID(i))
	}
	k.logger.Info("kernel started", zap.Int("modules", len(k.slots)), zap.Int("threads", threads))
	return nil
}

func (k *Kernel) moduleLoop(id ModuleID) {
	defer k.wg.Done()
	if k.opts.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	s := k.slots[id]
	k.logger.Debug("module thread started", zap.String("module", s.name))

	for it := 0; k.opts.runLimit < 0 || it < k.opts.runLimit; it++ {
		k.fetch(id)
		if k.stopping() {
			break
		}
		k.run(id)
		k.dump(id)
	}

	if st, ok := s.module.(Stopper); ok {
		st.Stop()
	}
	k.logger.Debug("module thread stopped", zap.String("module", s.name), zap.Uint64("runs", s.runs.Load()))
	s.running.Store(false)
	k.numRunning.Add(-1)
}

// Step runs one cycle of module id on the calling goroutine. The kernel
// moves to RUNNING_SEQ and never spawns goroutines afterwards.
func (k *Kernel) Step(id ModuleID) error {
	if err := k.expect(StateReady, StateRunningSeq); err != nil {
		return err
	}
	k.slot(id)
	if err := k.Setup(); err != nil {
		return err
	}
	k.setState(StateRunningSeq)

	k.fetch(id)
	k.run(id)
	k.dump(id)
	return nil
}

// Fetch waits until module id is ready and pulls its inputs. While running
// asynchronously it blocks until the module is ready or the kernel shuts
// down.
func (k *Kernel) Fetch(id ModuleID) { k.fetch(id) }

// Dump publishes the outputs of module id and wakes modules that became
// ready.
func (k *Kernel) Dump(id ModuleID) { k.dump(id) }

// IsReady reports whether every required input of module id is fresh.
func (k *Kernel) IsReady(id ModuleID) bool {
	return k.meta.Module(id).Ready()
}

func (k *Kernel) fetch(id ModuleID) {
	s := k.slot(id)
	switch st := k.State(); st {
	case StateSetup, StateReady, StateError:
		panic(fmt.Sprintf("rt: module %q fetched in state %s", s.name, st))
	}

	m := k.meta.Module(id)
	if st := k.State(); st == StateRunningAsync || st == StateShutdown {
		s.mu.Lock()
		for !m.Ready() && !k.stopping() {
			s.cond.Wait()
		}
		s.mu.Unlock()
	}

	if k.stopping() {
		return
	}
	if !m.Ready() {
		panic(fmt.Sprintf("rt: module %q is not ready\nmodule graph:\n%s", s.name, k.PrintModules()))
	}
	m.DoPreProcess()
}

// stopping reports whether module loops should exit.
func (k *Kernel) stopping() bool {
	st := k.State()
	return st == StateShutdown || st == StateFinished
}

func (k *Kernel) run(id ModuleID) {
	if p, ok := k.slot(id).module.(Processor); ok {
		p.Process()
	}
}

func (k *Kernel) dump(id ModuleID) {
	s := k.slot(id)
	switch st := k.State(); st {
	case StateSetup, StateError:
		panic(fmt.Sprintf("rt: module %q dumped in state %s", s.name, st))
	}

	m := k.meta.Module(id)
	m.DoPostProcess()
	s.runs.Add(1)

	if st := k.State(); st != StateRunningAsync && st != StateShutdown {
		return
	}
	for _, other := range m.RequiredBy {
		if !k.meta.Module(other).Ready() {
			continue
		}
		o := k.slots[other]
		o.mu.Lock()
		o.cond.Broadcast()
		o.mu.Unlock()
	}
}

// Stop shuts the kernel down. It wakes all waiting modules, waits up to the
// shutdown timeout for their goroutines, stops modules without a goroutine
// and moves to FINISHED. Goroutines still running after the timeout are
// abandoned and reported through ErrShutdownTimeout.
func (k *Kernel) Stop() error {
	prev := k.State()
	if err := k.expect(StateRunningAsync, StateRunningSeq); err != nil {
		return err
	}

	k.setState(StateShutdown)
	for _, s := range k.slots {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	}

	var stalled []string
	if prev == StateRunningAsync {
		stalled = k.waitForModules()
	}

	for _, s := range k.slots {
		if s.threaded() && prev == StateRunningAsync {
			continue
		}
		if st, ok := s.module.(Stopper); ok {
			st.Stop()
		}
	}
	if k.tasks != nil {
		k.tasks.Close()
	}

	k.setState(StateFinished)
	if len(stalled) > 0 {
		k.logger.Warn("abandoning module threads that did not stop in time",
			zap.Strings("modules", stalled),
			zap.Duration("timeout", k.opts.shutdownTimeout))
		return fmt.Errorf("%w: %s", ErrShutdownTimeout, strings.Join(stalled, ", "))
	}
	k.logger.Info("kernel stopped")
	return nil
}

func (k *Kernel) waitForModules() []string {
	done := make(chan struct{})
	go func() {
		k.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(k.opts.shutdownTimeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
	}

	var stalled []string
	for _, s := range k.slots {
		if s.running.Load() {
			stalled = append(stalled, s.name)
		}
	}
	return stalled
}

// Running returns the number of module goroutines that have not finished.
func (k *Kernel) Running() int { return int(k.numRunning.Load()) }

func (k *Kernel) slot(id ModuleID) *slot {
	if id < 0 || int(id) >= len(k.slots) {
		panic(fmt.Sprintf("rt: invalid module id %d (have %d)", id, len(k.slots)))
	}
	return k.slots[id]
}

func (k *Kernel) taskPool() *tasks.Pool {
	if k.tasks == nil {
		panic("rt: task submitted before setup")
	}
	return k.tasks
}
