package anim

// Validate checks that keyframe times never decrease inside a channel.
func Validate(s *Set) error {
	for _, a := range s.Animations() {
		for _, c := range a.Channels {
			for i := 1; i < len(c.Keyframes); i++ {
				if c.Keyframes[i].Time < c.Keyframes[i-1].Time {
					return &StructuralError{
						Animation: a.Name,
						Bone:      c.Bone,
						Keyframe:  i,
						Time:      c.Keyframes[i].Time,
						Previous:  c.Keyframes[i-1].Time,
					}
				}
			}
		}
	}
	return nil
}
