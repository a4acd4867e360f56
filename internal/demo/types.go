package demo

import (
	"math"
	"time"
)

// FrameInfo is the per-image metadata of a camera blob.
type FrameInfo struct {
	Frame     uint64
	Timestamp time.Time
}

// BallPercept is the ball as seen in the newest camera image, relative to
// the robot.
type BallPercept struct {
	Seen     bool
	Distance float64 // meters
	Bearing  float64 // radians, positive to the left
	Frame    uint64
}

// OdometryDelta is the motion executed since the previous delta. Deltas
// that were not fetched accumulate.
type OdometryDelta struct {
	DX, DY, DTheta float64
}

func (d *OdometryDelta) Squash(newer OdometryDelta) {
	d.DX += newer.DX
	d.DY += newer.DY
	d.DTheta += newer.DTheta
}

// RobotPose is the robot's position on the field.
type RobotPose struct {
	X, Y, Theta float64
}

// DistanceTo returns the euclidean distance between two poses.
func (p RobotPose) DistanceTo(o RobotPose) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Phase is the game phase announced by the game controller.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseReady
	PhaseSet
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseReady:
		return "ready"
	case PhaseSet:
		return "set"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// GameState is shared game information.
type GameState struct {
	Phase     Phase
	Team      int
	Penalized bool
}

// MotionCommands groups the commands executed by the motion module.
type MotionCommands struct{}

// WalkTo walks to a field position.
type WalkTo struct{ X, Y float64 }

// Kick kicks the ball in front of the robot.
type Kick struct{ Strength float64 }

// Stand stops walking.
type Stand struct{}

func (WalkTo) InGroup(MotionCommands) {}
func (Kick) InGroup(MotionCommands)   {}
func (Stand) InGroup(MotionCommands)  {}

// PathRequest asks the planner for a path between two poses.
type PathRequest struct {
	From, To RobotPose
}

// Path is a planned sequence of waypoints, excluding the start.
type Path struct {
	Waypoints []RobotPose
}
