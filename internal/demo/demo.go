// Package demo wires a small robot soccer pipeline onto the runtime: a
// camera publishing image blobs, ball detection, odometry based
// localization, a behavior issuing motion commands and planning paths on the
// task pool, and a data logger forwarding logged outputs.
package demo

import (
	"fmt"
	"time"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// Config configures the demo pipeline.
type Config struct {
	FrameWidth  int           `mapstructure:"frame_width"`
	FrameHeight int           `mapstructure:"frame_height"`
	Period      time.Duration `mapstructure:"period"`
}

// DefaultConfig returns a camera resolution and cycle period suitable for
// running on a laptop.
func DefaultConfig() Config {
	return Config{FrameWidth: 64, FrameHeight: 48, Period: 20 * time.Millisecond}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("demo frame size must be positive, got: %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.Period < 0 {
		return fmt.Errorf("demo.period must not be negative, got: %s", c.Period)
	}
	return nil
}

// Pipeline loads every demo module. Modules are exposed for inspection.
type Pipeline struct {
	Camera       *Camera
	Vision       *Vision
	Motion       *Motion
	Localization *Localization
	Behavior     *Behavior
	Planner      *PathPlanner
	Game         *GameController
	Logger       *DataLogger
}

// New creates the pipeline. A nil sink disables the data logger.
func New(cfg Config, sink func(rt.LogData)) *Pipeline {
	return &Pipeline{
		Camera:       &Camera{Width: cfg.FrameWidth, Height: cfg.FrameHeight, Period: cfg.Period},
		Vision:       &Vision{},
		Motion:       &Motion{Period: cfg.Period},
		Localization: &Localization{},
		Behavior:     &Behavior{},
		Planner:      &PathPlanner{},
		Game:         &GameController{},
		Logger:       &DataLogger{Sink: sink, Period: cfg.Period},
	}
}

// Load loads the pipeline's modules.
func (p *Pipeline) Load(k *rt.Kernel) error {
	return k.Load(
		p.Game,
		p.Camera,
		p.Vision,
		p.Motion,
		p.Localization,
		p.Behavior,
		p.Planner,
		p.Logger,
	)
}
