package anim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/skinpack/utils"
)

// IndexByTime returns the index of the last keyframe with Time <= ticks,
// or -1 when ticks is before the first keyframe (or there are none).
// Keyframes are usually baked at 60 fps, so the search starts at that guess.
func (c *Channel) IndexByTime(ticks int64) int {
	count := len(c.Keyframes)
	if count == 0 || ticks < c.Keyframes[0].Time {
		return -1
	}

	index := count - 1
	if guess := ticks / TICKS_PER_60FPS; guess >= 0 && guess < int64(count) {
		index = int(guess)
	}
	for index > 0 && c.Keyframes[index].Time > ticks {
		index--
	}
	for index < count-1 && c.Keyframes[index+1].Time <= ticks {
		index++
	}
	return index
}

// Sample returns the transform of the nearest previous keyframe, clamped to the
// first and last keyframe. ok is false for an empty channel.
func (c *Channel) Sample(ticks int64) (m mgl32.Mat4, ok bool) {
	if len(c.Keyframes) == 0 {
		return mgl32.Ident4(), false
	}
	index := c.IndexByTime(ticks)
	if index < 0 {
		index = 0
	}
	return c.Keyframes[index].Transform, true
}

// SampleBlended interpolates between the two keyframes around ticks.
// Matrices are decomposed first, rotation is slerped.
func (c *Channel) SampleBlended(ticks int64) (m mgl32.Mat4, ok bool) {
	count := len(c.Keyframes)
	if count == 0 {
		return mgl32.Ident4(), false
	}
	index := c.IndexByTime(ticks)
	if index < 0 {
		return c.Keyframes[0].Transform, true
	}
	if index == count-1 {
		return c.Keyframes[index].Transform, true
	}

	prev, next := c.Keyframes[index], c.Keyframes[index+1]
	span := next.Time - prev.Time
	if span <= 0 {
		return next.Transform, true
	}
	return BlendPoses(prev.Transform, next.Transform, float32(ticks-prev.Time)/float32(span)), true
}

// BlendPoses mixes two local bone transforms, factor 0 gives a and 1 gives b.
func BlendPoses(a, b mgl32.Mat4, factor float32) mgl32.Mat4 {
	if factor <= 0 {
		return a
	}
	if factor >= 1 {
		return b
	}
	return utils.LerpTRS(utils.DecomposeMat4(a), utils.DecomposeMat4(b), factor).Mat4()
}
