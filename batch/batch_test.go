package batch

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/skinpack/scene"
	"github.com/mogaika/skinpack/utils"
)

func testPart(name, material string, firstPosition, vertices int, indices []int) *scene.Geometry {
	part := &scene.Geometry{
		Name:         name,
		MaterialName: material,
		Indices:      indices,
		OpaqueData:   map[string]interface{}{"source": name},
	}
	normals := &scene.Channel{Name: scene.CHANNEL_NORMAL, Kind: scene.KIND_VEC3}
	for i := 0; i < vertices; i++ {
		part.Vertices.PositionIndices = append(part.Vertices.PositionIndices, firstPosition+i)
		normals.Data = append(normals.Data, mgl32.Vec4{0, 0, 1, 0})
	}
	part.Vertices.Channels = []*scene.Channel{normals}
	return part
}

func testMesh(parts ...*scene.Geometry) *scene.Mesh {
	return &scene.Mesh{
		Name:      "Robot_VC_",
		Positions: make([]mgl32.Vec3, 16),
		Parts:     parts,
	}
}

func TestParseMaterialName(t *testing.T) {
	for _, test := range []struct {
		in    string
		group string
		index int
		ok    bool
	}{
		{"Arm_0", "Arm", 0, true},
		{"Arm_7", "Arm", 7, true},
		{"Leg_shiny_5", "Leg", 5, true},
		{"Arm_8", "", 0, false},
		{"Arm_-1", "", 0, false},
		{"Arm", "", 0, false},
		{"Arm_x", "", 0, false},
	} {
		group, index, err := ParseMaterialName(test.in)
		if (err == nil) != test.ok || group != test.group || index != test.index {
			t.Errorf("ParseMaterialName(%q)=%q,%d,%v; expected %q,%d,ok=%v",
				test.in, group, index, err, test.group, test.index, test.ok)
		}
	}
}

func TestMaterialColor(t *testing.T) {
	for _, test := range []struct {
		index int
		color utils.ColorFloat
	}{
		{0, utils.ColorFloat{0, 0, 0, 1}},
		{7, utils.ColorFloat{1, 1, 1, 1}},
		{5, utils.ColorFloat{1, 0, 1, 1}},
		{4, utils.ColorFloat{1, 0, 0, 1}},
		{2, utils.ColorFloat{0, 1, 0, 1}},
		{1, utils.ColorFloat{0, 0, 1, 1}},
	} {
		if got := MaterialColor(test.index); got != test.color {
			t.Errorf("MaterialColor(%d)=%v; expected %v", test.index, got, test.color)
		}
		if got := MaterialIndexFromColor(test.color.Vec4()); got != test.index {
			t.Errorf("MaterialIndexFromColor(%v)=%d; expected %d", test.color, got, test.index)
		}
	}
}

func TestCollapseArm(t *testing.T) {
	arm0 := testPart("p0", "Arm_0", 0, 4, []int{0, 1, 2, 0, 2, 3})
	arm3 := testPart("p1", "Arm_3", 4, 3, []int{0, 1, 2})
	m := testMesh(arm0, arm3)

	if err := Collapse(m, nil); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if len(m.Parts) != 1 {
		t.Fatalf("len(Parts)=%d; expected 1", len(m.Parts))
	}
	part := m.Parts[0]
	if part.Name != "Arm" || part.MaterialName != "Arm" {
		t.Errorf("part named %q/%q; expected Arm/Arm", part.Name, part.MaterialName)
	}
	if part.Vertices.Count() != 7 {
		t.Errorf("vertex count=%d; expected 7", part.Vertices.Count())
	}
	expectedIndices := []int{0, 1, 2, 0, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(part.Indices, expectedIndices) {
		t.Errorf("indices=%v; expected %v", part.Indices, expectedIndices)
	}
	if !reflect.DeepEqual(part.Vertices.PositionIndices, []int{0, 1, 2, 3, 4, 5, 6}) {
		t.Errorf("position indices=%v", part.Vertices.PositionIndices)
	}

	colors, index := part.Vertices.Channel(scene.CHANNEL_COLOR0)
	if colors == nil || index != 1 || len(colors.Data) != 7 {
		t.Fatalf("Color0 channel=%v at %d", colors, index)
	}
	for i, c := range colors.Data {
		expected := MaterialColor(0).Vec4()
		if i >= 4 {
			expected = MaterialColor(3).Vec4()
		}
		if c != expected {
			t.Errorf("color[%d]=%v; expected %v", i, c, expected)
		}
	}
	if normals, _ := part.Vertices.Channel(scene.CHANNEL_NORMAL); len(normals.Data) != 7 {
		t.Errorf("normals length=%d; expected 7", len(normals.Data))
	}
	if part.OpaqueData["source"] != "p0" {
		t.Errorf("opaque source=%v; expected first writer p0", part.OpaqueData["source"])
	}
	if err := m.Verify(); err != nil {
		t.Errorf("collapsed mesh does not verify: %v", err)
	}
}

func TestCollapseCounts(t *testing.T) {
	m := testMesh(
		testPart("a", "Leg_1", 0, 3, []int{0, 1, 2}),
		testPart("b", "Arm_2", 3, 4, []int{0, 1, 2, 2, 3, 0}),
		testPart("c", "Leg_6", 7, 5, []int{4, 3, 2, 0, 1, 2}),
		testPart("d", "Leg_0", 12, 4, []int{3, 2, 1}),
	)
	if err := Collapse(m, nil); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if len(m.Parts) != 2 || m.Parts[0].Name != "Leg" || m.Parts[1].Name != "Arm" {
		t.Fatalf("parts=%v; expected [Leg Arm]", []string{m.Parts[0].Name, m.Parts[len(m.Parts)-1].Name})
	}
	leg := m.Parts[0]
	if leg.Vertices.Count() != 12 || len(leg.Indices) != 12 {
		t.Errorf("Leg has %d vertices %d indices; expected 12 12", leg.Vertices.Count(), len(leg.Indices))
	}
	expected := []int{0, 1, 2, 7, 6, 5, 3, 4, 5, 11, 10, 9}
	if !reflect.DeepEqual(leg.Indices, expected) {
		t.Errorf("Leg indices=%v; expected %v", leg.Indices, expected)
	}
}

func TestCollapseOverwritesColor(t *testing.T) {
	part := testPart("a", "Body_6", 0, 2, []int{})
	part.Vertices.Channels = append(part.Vertices.Channels, &scene.Channel{
		Name: scene.CHANNEL_COLOR0,
		Kind: scene.KIND_VEC4,
		Data: []mgl32.Vec4{{0.3, 0.3, 0.3, 0.5}, {0.1, 0.1, 0.1, 0.1}},
	})
	m := testMesh(part)
	if err := Collapse(m, nil); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if len(part.Vertices.Channels) != 2 {
		t.Errorf("channel count=%d; expected 2", len(part.Vertices.Channels))
	}
	for i, c := range part.Vertices.Channels[1].Data {
		if c != (mgl32.Vec4{1, 1, 0, 1}) {
			t.Errorf("color[%d]=%v; expected [1 1 0 1]", i, c)
		}
	}
}

func TestCollapseMismatchUntouched(t *testing.T) {
	arm0 := testPart("p0", "Arm_0", 0, 4, []int{0, 1, 2, 0, 2, 3})
	arm3 := testPart("p1", "Arm_3", 4, 3, []int{0, 1, 2})
	arm3.Vertices.Channels = append(arm3.Vertices.Channels, &scene.Channel{
		Name: scene.CHANNEL_TEXCOORD0,
		Kind: scene.KIND_VEC2,
		Data: make([]mgl32.Vec4, 3),
	})
	m := testMesh(arm0, arm3)
	before := utils.SDump(m)

	err := Collapse(m, nil)
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("Collapse err=%v; expected *StructuralError", err)
	}
	if serr.Part != "p1" {
		t.Errorf("error part=%q; expected p1", serr.Part)
	}
	if after := utils.SDump(m); after != before {
		t.Errorf("mesh modified on error:\nbefore %s\nafter %s", before, after)
	}
}

func TestCollapseBadNameUntouched(t *testing.T) {
	m := testMesh(
		testPart("p0", "Arm_0", 0, 3, []int{0, 1, 2}),
		testPart("p1", "Arm_9", 3, 3, []int{0, 1, 2}),
	)
	before := utils.SDump(m)
	var serr *StructuralError
	if err := Collapse(m, nil); !errors.As(err, &serr) {
		t.Fatalf("Collapse err=%v; expected *StructuralError", err)
	}
	if utils.SDump(m) != before {
		t.Errorf("mesh modified on error")
	}
}

func TestColorMaterials(t *testing.T) {
	arm0 := testPart("p0", "Arm_0", 0, 2, []int{0, 1, 0})
	leg5 := testPart("p1", "Leg_5", 2, 3, []int{0, 1, 2})
	arm3 := testPart("p2", "Arm_3", 5, 1, []int{0, 0, 0})
	m := testMesh(arm0, leg5, arm3)

	if err := ColorMaterials(m); err != nil {
		t.Fatalf("ColorMaterials: %v", err)
	}
	if len(m.Parts) != 3 || m.Parts[0] != arm0 || m.Parts[1] != leg5 || m.Parts[2] != arm3 {
		t.Fatalf("ColorMaterials changed the part list")
	}
	for _, test := range []struct {
		part     *scene.Geometry
		name     string
		material string
		color    mgl32.Vec4
		vertices int
	}{
		{arm0, "p0", "Arm_0", mgl32.Vec4{0, 0, 0, 1}, 2},
		{leg5, "p1", "Leg_5", mgl32.Vec4{1, 0, 1, 1}, 3},
		{arm3, "p2", "Arm_3", mgl32.Vec4{0, 1, 1, 1}, 1},
	} {
		if test.part.Name != test.name || test.part.MaterialName != test.material {
			t.Errorf("part renamed to %q/%q; expected %q/%q", test.part.Name, test.part.MaterialName, test.name, test.material)
		}
		c, _ := test.part.Vertices.Channel(scene.CHANNEL_COLOR0)
		if c == nil || len(c.Data) != test.vertices {
			t.Errorf("%s: Color0=%v; expected %d values", test.name, c, test.vertices)
			continue
		}
		for i, v := range c.Data {
			if v != test.color {
				t.Errorf("%s: color[%d]=%v; expected %v", test.name, i, v, test.color)
			}
		}
	}

	bad := testMesh(
		testPart("p0", "Arm_0", 0, 3, []int{0, 1, 2}),
		testPart("p1", "Arm", 3, 3, []int{0, 1, 2}),
	)
	before := utils.SDump(bad)
	var serr *StructuralError
	if err := ColorMaterials(bad); !errors.As(err, &serr) {
		t.Fatalf("ColorMaterials err=%v; expected *StructuralError", err)
	}
	if utils.SDump(bad) != before {
		t.Errorf("mesh modified on error")
	}
}

func TestPreProcess(t *testing.T) {
	collapsed := &scene.Node{Name: "Robot_VC_", Mesh: testMesh(
		testPart("p0", "Arm_0", 0, 3, []int{0, 1, 2}),
		testPart("p1", "Arm_1", 3, 3, []int{0, 1, 2}),
	)}
	plain := &scene.Node{Name: "Prop", Mesh: &scene.Mesh{
		Name:      "Prop",
		Positions: make([]mgl32.Vec3, 3),
		Parts:     []*scene.Geometry{testPart("p0", "", 0, 3, []int{0, 1, 2})},
	}}
	root := &scene.Node{Name: "root", Children: []*scene.Node{{Name: "group", Children: []*scene.Node{collapsed}}, plain}}

	changed, err := PreProcess(root, "_VC_", nil)
	if err != nil || !changed {
		t.Fatalf("PreProcess=%v,%v; expected true,nil", changed, err)
	}
	if len(collapsed.Mesh.Parts) != 1 {
		t.Errorf("marked mesh has %d parts; expected 1", len(collapsed.Mesh.Parts))
	}
	if c, _ := plain.Mesh.Parts[0].Vertices.Channel(scene.CHANNEL_COLOR0); c != nil {
		t.Errorf("unmarked mesh got a color channel")
	}

	if n := EnsureVertexColors(root); n != 1 {
		t.Errorf("EnsureVertexColors changed %d parts; expected 1", n)
	}
	c, _ := plain.Mesh.Parts[0].Vertices.Channel(scene.CHANNEL_COLOR0)
	if c == nil || c.Data[0] != utils.ColorWhite.Vec4() {
		t.Errorf("ensured color=%v; expected white", c)
	}

	changed, err = PreProcess(root, "_NOPE_", nil)
	if err != nil || changed {
		t.Errorf("PreProcess(no match)=%v,%v; expected false,nil", changed, err)
	}
}

func TestTagParts(t *testing.T) {
	root := &scene.Node{Name: "root", Mesh: testMesh(
		testPart("p0", "Skin", 0, 3, []int{0, 1, 2}),
		testPart("p1", "", 3, 3, []int{0, 1, 2}),
	)}
	TagParts(root, true)
	for i, expected := range []string{"Skin", DEFAULT_TAG} {
		part := root.Mesh.Parts[i]
		if part.OpaqueData[TAG_KEY] != expected {
			t.Errorf("part %d tag=%v; expected %q", i, part.OpaqueData[TAG_KEY], expected)
		}
		if part.MaterialName != "" {
			t.Errorf("part %d material=%q; expected dropped", i, part.MaterialName)
		}
	}
}
