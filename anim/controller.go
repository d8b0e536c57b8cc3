package anim

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Controller plays back one animation.
type Controller struct {
	animation *Animation
	duration  int64
	elapsed   int64

	Speed   float32
	Looping bool
	// Interpolate between keyframes instead of holding the previous one.
	Blend bool
}

func NewController(a *Animation) *Controller {
	return &Controller{
		animation: a,
		duration:  a.Duration(),
		Speed:     1,
		Looping:   true,
	}
}

func (c *Controller) Animation() *Animation { return c.animation }
func (c *Controller) Duration() int64       { return c.duration }
func (c *Controller) Elapsed() int64        { return c.elapsed }

func (c *Controller) Reset() {
	c.elapsed = 0
}

func (c *Controller) SetElapsed(ticks int64) error {
	if ticks < 0 || ticks > c.duration {
		return errors.Errorf("elapsed %d outside of animation %q range [0, %d]",
			ticks, c.animation.Name, c.duration)
	}
	c.elapsed = ticks
	return nil
}

// Advance moves playback forward by delta scaled by Speed.
// Returns true when the end of the animation was passed during this step.
func (c *Controller) Advance(delta time.Duration) bool {
	c.elapsed += int64(float64(delta/100) * float64(c.Speed))
	if c.elapsed < 0 {
		c.elapsed = 0
	}
	if c.elapsed <= c.duration {
		return false
	}
	if c.Looping {
		c.elapsed %= c.duration + 1
	} else {
		c.elapsed = c.duration
	}
	return true
}

// BoneTransform returns the local transform of bone at the current time,
// or def when the animation does not drive that bone.
func (c *Controller) BoneTransform(bone string, def mgl32.Mat4) mgl32.Mat4 {
	channel := c.animation.Channel(bone)
	if channel == nil {
		return def
	}
	var m mgl32.Mat4
	var ok bool
	if c.Blend {
		m, ok = channel.SampleBlended(c.elapsed)
	} else {
		m, ok = channel.Sample(c.elapsed)
	}
	if !ok {
		return def
	}
	return m
}
