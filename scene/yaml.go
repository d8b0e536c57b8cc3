package scene

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlChannel struct {
	Name string      `yaml:"name"`
	Kind string      `yaml:"kind"`
	Data [][]float32 `yaml:"data,flow"`
}

type yamlPart struct {
	Name            string                 `yaml:"name"`
	Material        string                 `yaml:"material,omitempty"`
	PositionIndices []int                  `yaml:"position_indices,flow"`
	Channels        []yamlChannel          `yaml:"channels,omitempty"`
	Indices         []int                  `yaml:"indices,flow"`
	Opaque          map[string]interface{} `yaml:"opaque,omitempty"`
}

type yamlMesh struct {
	Positions [][]float32 `yaml:"positions,flow"`
	Parts     []yamlPart  `yaml:"parts"`
}

type yamlNode struct {
	Name     string                 `yaml:"name"`
	Mesh     *yamlMesh              `yaml:"mesh,omitempty"`
	Opaque   map[string]interface{} `yaml:"opaque,omitempty"`
	Children []*yamlNode            `yaml:"children,omitempty"`
}

// LoadYAML reads a scene description and verifies every mesh in it.
func LoadYAML(r io.Reader) (*Node, error) {
	var yn yamlNode
	if err := yaml.NewDecoder(r).Decode(&yn); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode scene yaml")
	}
	return yn.toNode()
}

func (yn *yamlNode) toNode() (*Node, error) {
	n := &Node{Name: yn.Name, OpaqueData: yn.Opaque}
	if yn.Mesh != nil {
		m, err := yn.Mesh.toMesh(yn.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "Node %q", yn.Name)
		}
		n.Mesh = m
	}
	for _, ychild := range yn.Children {
		child, err := ychild.toNode()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (ym *yamlMesh) toMesh(name string) (*Mesh, error) {
	m := &Mesh{Name: name, Positions: make([]mgl32.Vec3, len(ym.Positions))}
	for i, p := range ym.Positions {
		if len(p) != 3 {
			return nil, errors.Errorf("position %d has %d components", i, len(p))
		}
		m.Positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}

	for _, yp := range ym.Parts {
		part := &Geometry{
			Name:         yp.Name,
			MaterialName: yp.Material,
			Vertices:     Vertices{PositionIndices: yp.PositionIndices},
			Indices:      yp.Indices,
			OpaqueData:   yp.Opaque,
		}
		if part.OpaqueData == nil {
			part.OpaqueData = make(map[string]interface{})
		}
		for _, yc := range yp.Channels {
			kind, err := ParseChannelKind(yc.Kind)
			if err != nil {
				return nil, errors.Wrapf(err, "part %q channel %q", yp.Name, yc.Name)
			}
			c := &Channel{Name: yc.Name, Kind: kind, Data: make([]mgl32.Vec4, len(yc.Data))}
			for i, v := range yc.Data {
				if len(v) != int(kind) {
					return nil, errors.Errorf("part %q channel %q value %d has %d components, expected %d",
						yp.Name, yc.Name, i, len(v), int(kind))
				}
				copy(c.Data[i][:], v)
			}
			part.Vertices.Channels = append(part.Vertices.Channels, c)
		}
		m.Parts = append(m.Parts, part)
	}

	if err := m.Verify(); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeYAML writes the graph in the format LoadYAML reads.
func EncodeYAML(w io.Writer, root *Node) error {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(fromNode(root)); err != nil {
		return errors.Wrapf(err, "Failed to encode scene yaml")
	}
	return e.Close()
}

func fromNode(n *Node) *yamlNode {
	yn := &yamlNode{Name: n.Name, Opaque: n.OpaqueData}
	if n.Mesh != nil {
		ym := &yamlMesh{Positions: make([][]float32, len(n.Mesh.Positions))}
		for i, p := range n.Mesh.Positions {
			ym.Positions[i] = []float32{p[0], p[1], p[2]}
		}
		for _, part := range n.Mesh.Parts {
			yp := yamlPart{
				Name:            part.Name,
				Material:        part.MaterialName,
				PositionIndices: part.Vertices.PositionIndices,
				Indices:         part.Indices,
			}
			if len(part.OpaqueData) != 0 {
				yp.Opaque = part.OpaqueData
			}
			for _, c := range part.Vertices.Channels {
				yc := yamlChannel{Name: c.Name, Kind: c.Kind.String(), Data: make([][]float32, len(c.Data))}
				for i, v := range c.Data {
					yc.Data[i] = append([]float32(nil), v[:int(c.Kind)]...)
				}
				yp.Channels = append(yp.Channels, yc)
			}
			ym.Parts = append(ym.Parts, yp)
		}
		yn.Mesh = ym
	}
	for _, child := range n.Children {
		yn.Children = append(yn.Children, fromNode(child))
	}
	return yn
}
