package demo

import (
	"time"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// Image is the camera blob: grayscale pixels with frame metadata.
type Image = channels.Blob[uint8, FrameInfo]

// ballBrightness is the gray value of the ball in synthetic images.
const ballBrightness = 255

// Camera publishes synthetic grayscale images with a bright ball moving
// towards the robot, one image per period.
type Camera struct {
	Width, Height int
	Period        time.Duration

	out   *rt.BlobOutput[uint8, FrameInfo]
	frame uint64
}

func (c *Camera) Connect(l *rt.Linker) {
	c.out = rt.ProvideBlob[uint8, FrameInfo](l, channels.NewDim(c.Width, c.Height))
}

func (c *Camera) Process() {
	if c.Period > 0 {
		time.Sleep(c.Period)
	}
	if !c.out.Writable() {
		return
	}

	img := c.out.Blob()
	clear(img.Data)
	c.frame++

	// The ball enters at the far left edge and rolls towards the robot.
	x := int(c.frame % uint64(c.Width))
	y := c.Height / 2
	img.Data[y*c.Width+x] = ballBrightness
	img.Info = FrameInfo{Frame: c.frame, Timestamp: time.Now()}
}

// Dropped reports the number of frames skipped for lack of a free cell.
func (c *Camera) Dropped() uint64 { return c.out.Dropped() }
