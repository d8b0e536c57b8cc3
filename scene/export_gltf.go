package scene

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/skinpack/utils"
	"github.com/mogaika/skinpack/utils/gltfutils"
)

// ExportGLTF converts the graph into a glTF document. Every geometry part is a
// primitive of its node mesh. Channels without a glTF counterpart are skipped.
func ExportGLTF(root *Node, log *utils.Logger) *gltf.Document {
	doc := gltfutils.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})
	exportNode(doc, root, nil, log)
	return doc
}

// WriteGLB exports the graph as binary glTF.
func WriteGLB(w io.Writer, root *Node, log *utils.Logger) error {
	return gltfutils.ExportBinary(w, ExportGLTF(root, log))
}

func exportNode(doc *gltf.Document, n *Node, parent *uint32, log *utils.Logger) {
	gnode := &gltf.Node{Name: n.Name}
	if n.Mesh != nil && len(n.Mesh.Parts) != 0 {
		gnode.Mesh = gltf.Index(exportMesh(doc, n.Mesh, log))
	}

	var index uint32
	if parent == nil {
		index = gltfutils.AddRootNode(doc, gnode)
	} else {
		index = gltfutils.AddChildNode(doc, *parent, gnode)
	}
	for _, child := range n.Children {
		exportNode(doc, child, &index, log)
	}
}

func exportMesh(doc *gltf.Document, m *Mesh, log *utils.Logger) uint32 {
	gmesh := &gltf.Mesh{Name: m.Name}

	for _, part := range m.Parts {
		attributes := make(map[string]uint32)

		positions := make([][3]float32, part.Vertices.Count())
		for i, pi := range part.Vertices.PositionIndices {
			positions[i] = m.Positions[pi]
		}
		attributes["POSITION"] = modeler.WritePosition(doc, positions)

		for _, c := range part.Vertices.Channels {
			switch c.Name {
			case CHANNEL_NORMAL:
				attributes["NORMAL"] = modeler.WriteNormal(doc, vec3s(c.Data))
			case CHANNEL_TEXCOORD0:
				uvs := make([][2]float32, len(c.Data))
				for i, v := range c.Data {
					uvs[i] = [2]float32{v[0], v[1]}
				}
				attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
			case CHANNEL_COLOR0:
				colors := make([][4]uint8, len(c.Data))
				for i, v := range c.Data {
					nrgba := utils.ColorFloat(v).NRGBA8()
					colors[i] = [4]uint8{nrgba.R, nrgba.G, nrgba.B, nrgba.A}
				}
				attributes["COLOR_0"] = modeler.WriteColor(doc, colors)
			case CHANNEL_WEIGHTS:
				weights := make([][4]float32, len(c.Data))
				for i, v := range c.Data {
					weights[i] = v
				}
				attributes["WEIGHTS_0"] = modeler.WriteWeights(doc, weights)
			case CHANNEL_JOINTS:
				joints := make([][4]uint16, len(c.Data))
				for i, v := range c.Data {
					joints[i] = [4]uint16{uint16(v[0]), uint16(v[1]), uint16(v[2]), uint16(v[3])}
				}
				attributes["JOINTS_0"] = modeler.WriteJoints(doc, joints)
			default:
				log.Printf("mesh %q part %q: channel %q has no gltf attribute, skipped", m.Name, part.Name, c.Name)
			}
		}

		indices := make([]uint32, len(part.Indices))
		for i, index := range part.Indices {
			indices[i] = uint32(index)
		}
		indicesAccessor := modeler.WriteIndices(doc, indices)

		gmesh.Primitives = append(gmesh.Primitives, &gltf.Primitive{
			Indices:    &indicesAccessor,
			Attributes: attributes,
			Material:   gltf.Index(0),
		})
	}

	doc.Meshes = append(doc.Meshes, gmesh)
	return uint32(len(doc.Meshes) - 1)
}

func vec3s(data []mgl32.Vec4) [][3]float32 {
	result := make([][3]float32, len(data))
	for i, v := range data {
		result[i] = v.Vec3()
	}
	return result
}
