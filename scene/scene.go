package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Well known channel names.
const (
	CHANNEL_COLOR0    = "Color0"
	CHANNEL_NORMAL    = "Normal0"
	CHANNEL_TEXCOORD0 = "TextureCoordinate0"
	CHANNEL_WEIGHTS   = "Weights0"
	CHANNEL_JOINTS    = "BlendIndices0"
)

type ChannelKind int

const (
	KIND_VEC2 ChannelKind = 2
	KIND_VEC3 ChannelKind = 3
	KIND_VEC4 ChannelKind = 4
)

func (k ChannelKind) String() string {
	switch k {
	case KIND_VEC2, KIND_VEC3, KIND_VEC4:
		return fmt.Sprintf("vec%d", int(k))
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseChannelKind(s string) (ChannelKind, error) {
	for _, k := range []ChannelKind{KIND_VEC2, KIND_VEC3, KIND_VEC4} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown channel kind %q", s)
}

// Channel is one named per-vertex attribute stream.
// Components past Kind are ignored.
type Channel struct {
	Name string
	Kind ChannelKind
	Data []mgl32.Vec4
}

type Vertices struct {
	// Indices into the owning mesh position pool, one per vertex.
	PositionIndices []int
	Channels        []*Channel
}

func (v *Vertices) Count() int {
	return len(v.PositionIndices)
}

// Channel returns the channel with the given name and its position, or nil and -1.
func (v *Vertices) Channel(name string) (*Channel, int) {
	for i, c := range v.Channels {
		if c.Name == name {
			return c, i
		}
	}
	return nil, -1
}

// Geometry is one drawable part of a mesh with a single material.
type Geometry struct {
	Name         string
	MaterialName string
	Vertices     Vertices
	// Triangle list, indexing Vertices.
	Indices    []int
	OpaqueData map[string]interface{}
}

type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Parts     []*Geometry
}

type Node struct {
	Name       string
	Children   []*Node
	Mesh       *Mesh
	OpaqueData map[string]interface{}
}

// Walk visits nodes depth first, parents before children. Returning an error stops the walk.
func Walk(root *Node, fn func(n *Node) error) error {
	if root == nil {
		return nil
	}
	if err := fn(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Meshes lists every mesh in the graph in walk order.
func (n *Node) Meshes() []*Mesh {
	meshes := make([]*Mesh, 0)
	Walk(n, func(node *Node) error {
		if node.Mesh != nil {
			meshes = append(meshes, node.Mesh)
		}
		return nil
	})
	return meshes
}

// Verify checks that every index of every part is inside its range.
func (m *Mesh) Verify() error {
	for _, part := range m.Parts {
		count := part.Vertices.Count()
		for i, pi := range part.Vertices.PositionIndices {
			if pi < 0 || pi >= len(m.Positions) {
				return errors.Errorf("mesh %q part %q vertex %d: position index %d out of %d",
					m.Name, part.Name, i, pi, len(m.Positions))
			}
		}
		for _, c := range part.Vertices.Channels {
			if len(c.Data) != count {
				return errors.Errorf("mesh %q part %q channel %q has %d values for %d vertices",
					m.Name, part.Name, c.Name, len(c.Data), count)
			}
		}
		if len(part.Indices)%3 != 0 {
			return errors.Errorf("mesh %q part %q: %d indices is not a triangle list",
				m.Name, part.Name, len(part.Indices))
		}
		for i, index := range part.Indices {
			if index < 0 || index >= count {
				return errors.Errorf("mesh %q part %q index %d: %d out of %d vertices",
					m.Name, part.Name, i, index, count)
			}
		}
	}
	return nil
}
