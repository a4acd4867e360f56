package demo

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// stepLength is the distance walked per cycle.
const stepLength = 0.05

// Motion executes motion commands and reports the executed motion as
// odometry.
type Motion struct {
	Period time.Duration

	cmds     *rt.Handler[MotionCommands]
	odometry *rt.Output[OdometryDelta]
	game     *rt.ContextReader[GameState]

	walking bool
	target  WalkTo
	pos     RobotPose

	kicks  atomic.Uint64
	stands atomic.Uint64
}

func (m *Motion) Connect(l *rt.Linker) {
	m.cmds = rt.Handle[MotionCommands](l)
	m.odometry = rt.Provide[OdometryDelta](l)
	m.game = rt.ReadContext[GameState](l)

	rt.On(m.cmds, func(c WalkTo) {
		m.walking = true
		m.target = c
	})
	rt.On(m.cmds, func(Kick) { m.kicks.Add(1) })
	rt.On(m.cmds, func(Stand) {
		m.walking = false
		m.stands.Add(1)
	})
}

func (m *Motion) Process() {
	if m.Period > 0 {
		time.Sleep(m.Period)
	}

	var delta OdometryDelta
	if m.walking && !m.game.Get().Penalized {
		dx, dy := m.target.X-m.pos.X, m.target.Y-m.pos.Y
		dist := math.Hypot(dx, dy)
		if dist <= stepLength {
			delta.DX, delta.DY = dx, dy
			m.walking = false
		} else {
			delta.DX, delta.DY = dx/dist*stepLength, dy/dist*stepLength
		}
		m.pos.X += delta.DX
		m.pos.Y += delta.DY
	}
	m.odometry.Set(delta)
}

// Kicks returns the number of kicks executed.
func (m *Motion) Kicks() uint64 { return m.kicks.Load() }

// Stands returns the number of stand commands executed.
func (m *Motion) Stands() uint64 { return m.stands.Load() }
