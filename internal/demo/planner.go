package demo

import (
	"errors"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

const waypointSpacing = 0.25

// ErrAtTarget is returned when a path is requested to the current pose.
var ErrAtTarget = errors.New("demo: already at target")

// PathPlanner plans paths on the task pool.
type PathPlanner struct {
	tasks *rt.TaskHandle[PathRequest, Path]
}

func (p *PathPlanner) Connect(l *rt.Linker) {
	p.tasks = rt.TaskHandler[PathRequest, Path](l)
}

func (p *PathPlanner) Process() {
	p.tasks.WaitWhileEmpty()
	for _, t := range p.tasks.Fetch() {
		p.tasks.Go(t, Plan)
	}
}

// Plan returns evenly spaced waypoints on the straight line from req.From to
// req.To. The last waypoint is the target.
func Plan(req PathRequest) (Path, error) {
	dist := req.From.DistanceTo(req.To)
	if dist < 1e-9 {
		return Path{}, ErrAtTarget
	}

	n := max(1, int(dist/waypointSpacing))
	path := Path{Waypoints: make([]RobotPose, 0, n)}
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n)
		path.Waypoints = append(path.Waypoints, RobotPose{
			X:     req.From.X + f*(req.To.X-req.From.X),
			Y:     req.From.Y + f*(req.To.Y-req.From.Y),
			Theta: req.To.Theta,
		})
	}
	return path, nil
}
