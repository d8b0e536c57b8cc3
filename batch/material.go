package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/skinpack/scene"
	"github.com/mogaika/skinpack/utils"
)

const MAX_MATERIAL_INDEX = 7

// StructuralError reports a mesh that cannot be collapsed. The mesh is left untouched.
type StructuralError struct {
	Mesh   string
	Part   string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("batch: mesh %q: %s", e.Mesh, e.Reason)
	}
	return fmt.Sprintf("batch: mesh %q part %q: %s", e.Mesh, e.Part, e.Reason)
}

// ParseMaterialName splits "<group>_..._<index>" into the text before the first
// underscore and the number after the last one.
func ParseMaterialName(name string) (group string, index int, err error) {
	first := strings.IndexByte(name, '_')
	if first < 0 {
		return "", 0, errors.Errorf("material name %q has no '_'", name)
	}
	last := strings.LastIndexByte(name, '_')

	index, err = strconv.Atoi(name[last+1:])
	if err != nil {
		return "", 0, errors.Errorf("material name %q has no numeric index", name)
	}
	if index < 0 || index > MAX_MATERIAL_INDEX {
		return "", 0, errors.Errorf("material index %d out of range 0..%d", index, MAX_MATERIAL_INDEX)
	}
	return name[:first], index, nil
}

// MaterialColor encodes a material index into a vertex color:
// bit 2 is red, bit 1 green, bit 0 blue.
func MaterialColor(index int) utils.ColorFloat {
	bit := func(b uint) float32 {
		if index&(1<<b) != 0 {
			return 1
		}
		return 0
	}
	return utils.ColorFloat{bit(2), bit(1), bit(0), 1}
}

// MaterialIndexFromColor is the inverse of MaterialColor.
func MaterialIndexFromColor(c mgl32.Vec4) int {
	index := 0
	for i, b := range []int{4, 2, 1} {
		if c[i] >= 0.5 {
			index |= b
		}
	}
	return index
}

func fillColor(part *scene.Geometry, color utils.ColorFloat) {
	c, _ := part.Vertices.Channel(scene.CHANNEL_COLOR0)
	if c == nil {
		c = &scene.Channel{Name: scene.CHANNEL_COLOR0, Kind: scene.KIND_VEC4}
		part.Vertices.Channels = append(part.Vertices.Channels, c)
	}
	c.Data = make([]mgl32.Vec4, part.Vertices.Count())
	for i := range c.Data {
		c.Data[i] = color.Vec4()
	}
}
