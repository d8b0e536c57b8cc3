package anim

import (
	"gopkg.in/yaml.v3"
)

type ChannelSummary struct {
	Bone      string `yaml:"bone" json:"bone"`
	Keyframes int    `yaml:"keyframes" json:"keyframes"`
	Duration  int64  `yaml:"duration" json:"duration"`
}

type AnimationSummary struct {
	Name      string           `yaml:"name" json:"name"`
	Duration  int64            `yaml:"duration" json:"duration"`
	Seconds   float64          `yaml:"seconds" json:"seconds"`
	Keyframes int              `yaml:"keyframes" json:"keyframes"`
	Channels  []ChannelSummary `yaml:"channels" json:"channels"`
}

func (a *Animation) Summary() AnimationSummary {
	duration := a.Duration()
	sum := AnimationSummary{
		Name:      a.Name,
		Duration:  duration,
		Seconds:   float64(duration) / TICKS_PER_SECOND,
		Keyframes: a.KeyframeCount(),
		Channels:  make([]ChannelSummary, len(a.Channels)),
	}
	for i, c := range a.Channels {
		sum.Channels[i] = ChannelSummary{
			Bone:      c.Bone,
			Keyframes: len(c.Keyframes),
			Duration:  c.Duration(),
		}
	}
	return sum
}

func (s *Set) Summary() []AnimationSummary {
	result := make([]AnimationSummary, 0, s.Len())
	for _, a := range s.Animations() {
		result = append(result, a.Summary())
	}
	return result
}

func (s *Set) MarshalSummaryYAML() ([]byte, error) {
	return yaml.Marshal(s.Summary())
}
