package demo

import (
	"math"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

const (
	// maxBallDistance is the distance of a ball at the left image border.
	maxBallDistance = 3.0
	fieldOfView     = math.Pi / 3
	ballThreshold   = 200
)

// Vision detects the ball in every new camera image.
type Vision struct {
	image *rt.BlobInput[uint8, FrameInfo]
	ball  *rt.Output[BallPercept]
}

func (v *Vision) Connect(l *rt.Linker) {
	v.image = rt.RequireBlob[uint8, FrameInfo](l)
	v.ball = rt.Provide[BallPercept](l)
}

func (v *Vision) Process() {
	v.ball.Set(detectBall(v.image.Blob()))
}

// detectBall returns the brightest pixel above the ball threshold.
func detectBall(img *Image) BallPercept {
	p := BallPercept{Frame: img.Info.Frame}
	w, h := img.Size.X, img.Size.Y
	if w == 0 || h == 0 {
		return p
	}

	best := -1
	var bestValue uint8
	for i, px := range img.Data[:w*h] {
		if px >= ballThreshold && px > bestValue {
			best, bestValue = i, px
		}
	}
	if best < 0 {
		return p
	}

	x, y := best%w, best/w
	p.Seen = true
	p.Distance = maxBallDistance * float64(w-x) / float64(w)
	p.Bearing = fieldOfView * (0.5 - float64(y)/float64(h))
	return p
}
