package demo

import (
	"sync"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// Localization integrates odometry into the robot pose.
type Localization struct {
	odometry *rt.Input[OdometryDelta]
	out      *rt.Output[RobotPose]

	mu   sync.Mutex
	pose RobotPose
}

func (l *Localization) Connect(lk *rt.Linker) {
	l.odometry = rt.Require[OdometryDelta](lk)
	l.out = rt.Provide[RobotPose](lk)
}

func (l *Localization) Process() {
	d := l.odometry.Get()

	l.mu.Lock()
	l.pose.X += d.DX
	l.pose.Y += d.DY
	l.pose.Theta += d.DTheta
	pose := l.pose
	l.mu.Unlock()

	l.out.Set(pose)
}

// Pose returns the current pose estimate.
func (l *Localization) Pose() RobotPose {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pose
}
