package rt

import (
	"errors"
	"sync"
	"time"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
)

type intMsg struct{ N int }

type xMsg struct{ V int }

type yMsg struct{ V int }

// producer publishes 1, 2, 3, ... one value per cycle. With ack set it waits
// for the previous value to be consumed first.
type producer struct {
	out   *Output[intMsg]
	ack   chan struct{}
	delay time.Duration
	n     int
}

func (p *producer) Connect(l *Linker) { p.out = Provide[intMsg](l) }

func (p *producer) Process() {
	if p.ack != nil && p.n > 0 {
		<-p.ack
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.n++
	p.out.Set(intMsg{N: p.n})
}

type consumer struct {
	in  *Input[intMsg]
	ack chan struct{}

	mu   sync.Mutex
	seen []int
}

func (c *consumer) Connect(l *Linker) { c.in = Require[intMsg](l) }

func (c *consumer) Process() {
	c.mu.Lock()
	c.seen = append(c.seen, c.in.Get().N)
	c.mu.Unlock()
	if c.ack != nil {
		c.ack <- struct{}{}
	}
}

func (c *consumer) values() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.seen...)
}

// relay requires I and provides O.
type relay[I, O any] struct {
	name string
	in   *Input[I]
	out  *Output[O]
}

func (r *relay[I, O]) Name() string { return r.name }

func (r *relay[I, O]) Connect(l *Linker) {
	r.in = Require[I](l)
	r.out = Provide[O](l)
}

func (r *relay[I, O]) Process() {}

type motionCmds struct{}

type walk struct{ Speed float32 }

type sit struct{}

func (walk) InGroup(motionCmds) {}
func (sit) InGroup(motionCmds)  {}

type gameState struct{ Playing bool }

type planner struct {
	cmds *Issuer[motionCmds]
	game *ContextReader[gameState]
}

func (p *planner) Connect(l *Linker) {
	p.cmds = Issue[motionCmds](l)
	p.game = ReadContext[gameState](l)
}

func (p *planner) Process() {
	if p.game.Get().Playing {
		p.cmds.Issue(walk{Speed: 1})
	} else {
		p.cmds.Issue(sit{})
	}
}

type walker struct {
	cmds  *Handler[motionCmds]
	game  *ContextWriter[gameState]
	walks int
	sits  int
}

func (w *walker) Connect(l *Linker) {
	w.cmds = Handle[motionCmds](l)
	On(w.cmds, func(c walk) { w.walks++ })
	On(w.cmds, func(sit) { w.sits++ })
	w.game = WriteContext[gameState](l)
}

func (w *walker) Process() {}

// issuer issues motion commands without anyone handling them.
type issuer struct{ cmds *Issuer[motionCmds] }

func (i *issuer) Connect(l *Linker) { i.cmds = Issue[motionCmds](l) }

type handler struct {
	name string
	cmds *Handler[motionCmds]
}

func (h *handler) Name() string      { return h.name }
func (h *handler) Connect(l *Linker) { h.cmds = Handle[motionCmds](l) }

type recorder struct {
	name string
	data *LogDataContext
	got  []LogData
}

func (r *recorder) Name() string { return r.name }
func (r *recorder) Tags() Tag    { return Logger }

func (r *recorder) Connect(l *Linker) { r.data = LogDataReader(l) }

func (r *recorder) Process() {
	r.data.Drain(func(d LogData) { r.got = append(r.got, d) })
}

// quiet provides yMsg without logging it.
type quiet struct{ out *Output[yMsg] }

func (q *quiet) Tags() Tag         { return Normal | DisableLogging }
func (q *quiet) Connect(l *Linker) { q.out = Provide[yMsg](l) }
func (q *quiet) Process()          {}

type frameInfo struct{ Seq int }

type camera struct {
	out *BlobOutput[uint8, frameInfo]
	seq int
}

func (c *camera) Connect(l *Linker) {
	c.out = ProvideBlob[uint8, frameInfo](l, channels.NewDim(4, 2))
}

func (c *camera) Process() {
	if !c.out.Writable() {
		return
	}
	c.seq++
	b := c.out.Blob()
	for i := range b.Data {
		b.Data[i] = uint8(c.seq)
	}
	b.Info = frameInfo{Seq: c.seq}
}

type vision struct {
	in    *BlobInput[uint8, frameInfo]
	seen  []int
	first []uint8
}

func (v *vision) Connect(l *Linker) { v.in = RequireBlob[uint8, frameInfo](l) }

func (v *vision) Process() {
	b := v.in.Blob()
	v.seen = append(v.seen, b.Info.Seq)
	v.first = append(v.first, b.Data[0])
}

// lifecycle counts the optional hooks the kernel calls.
type lifecycle struct {
	name     string
	setupErr error

	mu     sync.Mutex
	setups int
	stops  int
}

func (m *lifecycle) Name() string      { return m.name }
func (m *lifecycle) Connect(l *Linker) {}
func (m *lifecycle) Process()          { time.Sleep(time.Millisecond) }

func (m *lifecycle) Setup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setups++
	return m.setupErr
}

func (m *lifecycle) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *lifecycle) counts() (setups, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setups, m.stops
}

// passive is driven by its host.
type passive struct{ lifecycle }

func (p *passive) Tags() Tag { return NoThread }

type disabled struct{}

func (disabled) Connect(l *Linker) { panic("disabled module must not connect") }
func (disabled) Disabled() bool    { return true }

// bundle loads its children.
type bundle struct {
	children []Module
	fail     bool
}

func (b *bundle) Connect(l *Linker) {}

func (b *bundle) Load(k *Kernel) error {
	if b.fail {
		return errors.New("missing config")
	}
	return k.Load(b.children...)
}

// stuck blocks in Process until released.
type stuck struct {
	entered chan struct{}
	release chan struct{}
}

func (s *stuck) Connect(l *Linker) {}

func (s *stuck) Process() {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
}

// team only loads its players.
type team struct {
	players []Module
	err     error
}

func (tm *team) Load(k *Kernel) error {
	if tm.err != nil {
		return tm.err
	}
	return k.Load(tm.players...)
}
