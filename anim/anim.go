package anim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ticks are 100ns units, as stored in the stream.
const (
	TICKS_PER_SECOND = 10000000
	TICKS_PER_60FPS  = TICKS_PER_SECOND / 60
)

// Keyframe is a local bone pose at an absolute tick time.
// Transform is stored in the column-vector convention of mgl32.
type Keyframe struct {
	Transform mgl32.Mat4
	Time      int64
}

type Channel struct {
	Bone      string
	Keyframes []Keyframe
}

type Animation struct {
	Name     string
	Channels []*Channel
}

// Set maps animation names to animations. A name added twice replaces the
// earlier animation but keeps its first position in Names.
type Set struct {
	animations map[string]*Animation
	names      []string
}

func NewSet() *Set {
	return &Set{animations: make(map[string]*Animation)}
}

// Add inserts a, returning true when an animation with the same name was replaced.
func (s *Set) Add(a *Animation) bool {
	if _, exists := s.animations[a.Name]; exists {
		s.animations[a.Name] = a
		return true
	}
	s.animations[a.Name] = a
	s.names = append(s.names, a.Name)
	return false
}

func (s *Set) Get(name string) (*Animation, bool) {
	a, ok := s.animations[name]
	return a, ok
}

func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the animation names in stream order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Animations returns the animations in stream order.
func (s *Set) Animations() []*Animation {
	result := make([]*Animation, len(s.names))
	for i, name := range s.names {
		result[i] = s.animations[name]
	}
	return result
}

// Duration is the time of the last keyframe.
func (c *Channel) Duration() int64 {
	if len(c.Keyframes) == 0 {
		return 0
	}
	return c.Keyframes[len(c.Keyframes)-1].Time
}

func (a *Animation) Duration() int64 {
	var duration int64
	for _, c := range a.Channels {
		if d := c.Duration(); d > duration {
			duration = d
		}
	}
	return duration
}

func (a *Animation) Channel(bone string) *Channel {
	for _, c := range a.Channels {
		if c.Bone == bone {
			return c
		}
	}
	return nil
}

func (a *Animation) AffectsBone(bone string) bool {
	return a.Channel(bone) != nil
}

func (a *Animation) AffectedBones() []string {
	bones := make([]string, len(a.Channels))
	for i, c := range a.Channels {
		bones[i] = c.Bone
	}
	return bones
}

// KeyframeCount is the total number of keyframes over all channels.
func (a *Animation) KeyframeCount() int {
	count := 0
	for _, c := range a.Channels {
		count += len(c.Keyframes)
	}
	return count
}
