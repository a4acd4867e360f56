package demo

import (
	"math"
	"sync"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// kickDistance is the ball distance at which the robot kicks.
const kickDistance = 0.3

// Behavior decides what the robot does: stand while not playing, kick a
// close ball and otherwise walk along a planned path to the ball.
type Behavior struct {
	pose  *rt.Input[RobotPose]
	ball  *rt.Input[BallPercept]
	game  *rt.ContextReader[GameState]
	cmds  *rt.Issuer[MotionCommands]
	paths *rt.Dispatcher[PathRequest, Path]

	standing bool

	mu   sync.Mutex
	path Path
}

func (b *Behavior) Connect(l *rt.Linker) {
	b.pose = rt.Require[RobotPose](l)
	b.ball = rt.Listen[BallPercept](l)
	b.game = rt.ReadContext[GameState](l)
	b.cmds = rt.Issue[MotionCommands](l)
	b.paths = rt.Dispatch[PathRequest, Path](l)
}

func (b *Behavior) Process() {
	for _, r := range b.paths.Fetch() {
		b.follow(r.Value)
	}
	b.paths.FetchComplete()

	game := b.game.Get()
	if game.Phase != PhasePlaying || game.Penalized {
		if !b.standing {
			b.cmds.Issue(Stand{})
			b.standing = true
		}
		return
	}
	b.standing = false

	if !b.ball.Updated() {
		return
	}
	ball := b.ball.Get()
	switch {
	case !ball.Seen:
	case ball.Distance < kickDistance:
		b.cmds.Issue(Kick{Strength: 1})
	case b.paths.Pending() == 0:
		pose := b.pose.Get()
		target := RobotPose{
			X: pose.X + ball.Distance*math.Cos(pose.Theta+ball.Bearing),
			Y: pose.Y + ball.Distance*math.Sin(pose.Theta+ball.Bearing),
		}
		b.paths.Emit(PathRequest{From: pose, To: target})
	}
}

func (b *Behavior) follow(p Path) {
	b.mu.Lock()
	b.path = p
	b.mu.Unlock()

	if len(p.Waypoints) > 0 {
		next := p.Waypoints[0]
		b.cmds.Issue(WalkTo{X: next.X, Y: next.Y})
	}
}

// Path returns the most recent planned path.
func (b *Behavior) Path() Path {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}
