package gltfutils

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// AddRootNode appends a node and references it from the default scene.
func AddRootNode(doc *gltf.Document, node *gltf.Node) uint32 {
	index := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, index)
	return index
}

// AddChildNode appends a node under parent without touching the scene roots.
func AddChildNode(doc *gltf.Document, parent uint32, node *gltf.Node) uint32 {
	index := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	doc.Nodes[parent].Children = append(doc.Nodes[parent].Children, index)
	return index
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Failed to encode glb")
	}
	return nil
}
