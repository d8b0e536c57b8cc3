package batch

import (
	"strings"

	"github.com/mogaika/skinpack/scene"
	"github.com/mogaika/skinpack/utils"
)

const (
	TAG_KEY     = "Tag"
	DEFAULT_TAG = "Default"
)

// PreProcess collapses every mesh whose name contains marker.
// Returns true when at least one mesh was collapsed.
func PreProcess(root *scene.Node, marker string, log *utils.Logger) (bool, error) {
	collapsed := false
	err := scene.Walk(root, func(n *scene.Node) error {
		if n.Mesh == nil || !strings.Contains(n.Mesh.Name, marker) {
			return nil
		}
		if err := Collapse(n.Mesh, log); err != nil {
			return err
		}
		collapsed = true
		return nil
	})
	return collapsed, err
}

// EnsureVertexColors adds an opaque white Color0 channel to every part that has none.
// Returns the number of parts changed.
func EnsureVertexColors(root *scene.Node) int {
	changed := 0
	for _, m := range root.Meshes() {
		for _, part := range m.Parts {
			if c, _ := part.Vertices.Channel(scene.CHANNEL_COLOR0); c == nil {
				fillColor(part, utils.ColorWhite)
				changed++
			}
		}
	}
	return changed
}

// TagParts stores the material name of every part under TAG_KEY.
// With dropMaterials the material name is cleared afterwards.
func TagParts(root *scene.Node, dropMaterials bool) {
	for _, m := range root.Meshes() {
		for _, part := range m.Parts {
			tag := part.MaterialName
			if tag == "" {
				tag = DEFAULT_TAG
			}
			if part.OpaqueData == nil {
				part.OpaqueData = make(map[string]interface{})
			}
			part.OpaqueData[TAG_KEY] = tag
			if dropMaterials {
				part.MaterialName = ""
			}
		}
	}
}
