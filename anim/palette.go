package anim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Bone struct {
	Name string
	// Index of the parent bone, -1 for roots. Always lower than the bone index.
	Parent int
	// Local transform used when no animation drives the bone.
	BindPose    mgl32.Mat4
	InverseBind mgl32.Mat4
}

// Skeleton is a flattened bone hierarchy, parents before children.
type Skeleton struct {
	Bones []Bone
	index map[string]int
}

type yamlBone struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`
	// 16 floats in stream order, identity when omitted
	Bind []float32 `yaml:"bind,flow,omitempty"`
}

// ParseSkeleton reads a yaml list of bones. Parents are referenced by name
// and must be listed before their children. Inverse bind matrices are computed.
func ParseSkeleton(data []byte) (*Skeleton, error) {
	var ybones []yamlBone
	if err := yaml.Unmarshal(data, &ybones); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal skeleton")
	}

	index := make(map[string]int, len(ybones))
	bones := make([]Bone, len(ybones))
	for i, yb := range ybones {
		b := Bone{Name: yb.Name, Parent: -1, BindPose: mgl32.Ident4()}
		if yb.Parent != "" {
			parent, ok := index[yb.Parent]
			if !ok {
				return nil, errors.Errorf("bone %q: parent %q is not defined before it", yb.Name, yb.Parent)
			}
			b.Parent = parent
		}
		if yb.Bind != nil {
			if len(yb.Bind) != 16 {
				return nil, errors.Errorf("bone %q: bind has %d values, expected 16", yb.Name, len(yb.Bind))
			}
			var f [16]float32
			copy(f[:], yb.Bind)
			b.BindPose = Mat4FromRowMajor(f)
		}
		index[yb.Name] = i
		bones[i] = b
	}

	s, err := NewSkeleton(bones)
	if err != nil {
		return nil, err
	}
	if err := s.ComputeInverseBind(); err != nil {
		return nil, err
	}
	return s, nil
}

func NewSkeleton(bones []Bone) (*Skeleton, error) {
	s := &Skeleton{Bones: bones}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// init checks the hierarchy and indexes bone names. The index is kept only for a valid skeleton.
func (s *Skeleton) init() error {
	index := make(map[string]int, len(s.Bones))
	for i, b := range s.Bones {
		if b.Parent < -1 || b.Parent >= i {
			return errors.Errorf("bone %d %q has parent %d, expected -1..%d", i, b.Name, b.Parent, i-1)
		}
		if _, exists := index[b.Name]; exists {
			return errors.Errorf("bone name %q used twice", b.Name)
		}
		index[b.Name] = i
	}
	s.index = index
	return nil
}

// BoneIndex returns -1 for an unknown bone.
func (s *Skeleton) BoneIndex(name string) (int, error) {
	if s.index == nil {
		if err := s.init(); err != nil {
			return -1, err
		}
	}
	if i, ok := s.index[name]; ok {
		return i, nil
	}
	return -1, nil
}

// ComputeInverseBind fills InverseBind of every bone from the bind poses.
func (s *Skeleton) ComputeInverseBind() error {
	if err := s.init(); err != nil {
		return err
	}
	local := make([]mgl32.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		local[i] = b.BindPose
	}
	for i, abs := range s.Absolute(local) {
		s.Bones[i].InverseBind = abs.Inv()
	}
	return nil
}

// LocalPose samples every bone from the controller, falling back to the bind pose.
func (s *Skeleton) LocalPose(c *Controller) []mgl32.Mat4 {
	local := make([]mgl32.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		local[i] = c.BoneTransform(b.Name, b.BindPose)
	}
	return local
}

// Absolute concatenates local transforms down the hierarchy.
func (s *Skeleton) Absolute(local []mgl32.Mat4) []mgl32.Mat4 {
	abs := make([]mgl32.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		if b.Parent < 0 {
			abs[i] = local[i]
		} else {
			abs[i] = abs[b.Parent].Mul4(local[i])
		}
	}
	return abs
}

// BuildPalette produces exactly paletteSize skinning matrices: the absolute
// transform of every bone applied after its inverse bind matrix.
// Slots past the last bone are identity.
func BuildPalette(s *Skeleton, local []mgl32.Mat4, paletteSize int) ([]mgl32.Mat4, error) {
	if len(local) != len(s.Bones) {
		return nil, errors.Errorf("got %d local transforms for %d bones", len(local), len(s.Bones))
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	if len(s.Bones) > paletteSize {
		return nil, errors.Errorf("skeleton has %d bones, palette holds %d", len(s.Bones), paletteSize)
	}

	palette := make([]mgl32.Mat4, paletteSize)
	for i, abs := range s.Absolute(local) {
		palette[i] = abs.Mul4(s.Bones[i].InverseBind)
	}
	for i := len(s.Bones); i < paletteSize; i++ {
		palette[i] = mgl32.Ident4()
	}
	return palette, nil
}
