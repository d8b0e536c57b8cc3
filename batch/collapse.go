package batch

import (
	"github.com/mogaika/skinpack/scene"
	"github.com/mogaika/skinpack/utils"
)

type channelLayout struct {
	name string
	kind scene.ChannelKind
}

type materialGroup struct {
	name  string
	parts []*scene.Geometry
	// material index per part
	indices []int
}

// layoutAfterColoring is the channel list a part will have once Color0 is written.
func layoutAfterColoring(part *scene.Geometry) []channelLayout {
	layout := make([]channelLayout, 0, len(part.Vertices.Channels)+1)
	hasColor := false
	for _, c := range part.Vertices.Channels {
		if c.Name == scene.CHANNEL_COLOR0 {
			hasColor = true
		}
		layout = append(layout, channelLayout{name: c.Name, kind: c.Kind})
	}
	if !hasColor {
		layout = append(layout, channelLayout{name: scene.CHANNEL_COLOR0, kind: scene.KIND_VEC4})
	}
	return layout
}

func sameLayout(a, b []channelLayout) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// plan parses and checks every part without touching the mesh.
func plan(m *scene.Mesh) ([]*materialGroup, error) {
	if err := m.Verify(); err != nil {
		return nil, &StructuralError{Mesh: m.Name, Reason: err.Error()}
	}

	groups := make([]*materialGroup, 0)
	byName := make(map[string]*materialGroup)
	for _, part := range m.Parts {
		name, index, err := ParseMaterialName(part.MaterialName)
		if err != nil {
			return nil, &StructuralError{Mesh: m.Name, Part: part.Name, Reason: err.Error()}
		}
		g, ok := byName[name]
		if !ok {
			g = &materialGroup{name: name}
			byName[name] = g
			groups = append(groups, g)
		}
		g.parts = append(g.parts, part)
		g.indices = append(g.indices, index)
	}

	for _, g := range groups {
		expected := layoutAfterColoring(g.parts[0])
		for _, part := range g.parts[1:] {
			if !sameLayout(expected, layoutAfterColoring(part)) {
				return nil, &StructuralError{
					Mesh:   m.Name,
					Part:   part.Name,
					Reason: "channel layout differs from part " + g.parts[0].Name + " of group " + g.name,
				}
			}
		}
	}
	return groups, nil
}

// ColorMaterials writes the material index color into every part without merging.
func ColorMaterials(m *scene.Mesh) error {
	groups, err := plan(m)
	if err != nil {
		return err
	}
	colorGroups(groups)
	return nil
}

func colorGroups(groups []*materialGroup) {
	for _, g := range groups {
		for i, part := range g.parts {
			fillColor(part, MaterialColor(g.indices[i]))
		}
	}
}

// Collapse encodes the material index of every part into Color0 and merges
// all parts of a material group into the first one, renamed to the group name.
// On error the mesh is not modified.
func Collapse(m *scene.Mesh, log *utils.Logger) error {
	groups, err := plan(m)
	if err != nil {
		return err
	}

	colorGroups(groups)
	parts := make([]*scene.Geometry, 0, len(groups))
	for _, g := range groups {
		dst := g.parts[0]
		dst.Name = g.name
		dst.MaterialName = g.name
		for _, src := range g.parts[1:] {
			merge(dst, src)
		}
		log.Printf("mesh %q: group %q merged %d parts into %d vertices, %d indices",
			m.Name, g.name, len(g.parts), dst.Vertices.Count(), len(dst.Indices))
		parts = append(parts, dst)
	}
	m.Parts = parts
	return nil
}

func merge(dst, src *scene.Geometry) {
	offset := dst.Vertices.Count()

	dst.Vertices.PositionIndices = append(dst.Vertices.PositionIndices, src.Vertices.PositionIndices...)
	for i, c := range dst.Vertices.Channels {
		c.Data = append(c.Data, src.Vertices.Channels[i].Data...)
	}
	for _, index := range src.Indices {
		dst.Indices = append(dst.Indices, index+offset)
	}

	if dst.OpaqueData == nil {
		dst.OpaqueData = make(map[string]interface{})
	}
	for k, v := range src.OpaqueData {
		if _, exists := dst.OpaqueData[k]; !exists {
			dst.OpaqueData[k] = v
		}
	}
}
