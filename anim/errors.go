package anim

import (
	"fmt"
)

// FormatError reports a malformed or truncated animation stream.
type FormatError struct {
	Offset  int64
	Element string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("anim: bad %s at offset 0x%x: %v", e.Element, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// StructuralError reports keyframes that are out of time order.
type StructuralError struct {
	Animation string
	Bone      string
	Keyframe  int
	Time      int64
	Previous  int64
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("anim: animation %q bone %q keyframe %d time %d is before previous time %d",
		e.Animation, e.Bone, e.Keyframe, e.Time, e.Previous)
}
