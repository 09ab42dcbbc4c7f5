package mechlib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/materials"
	"github.com/mechres/zbd/mesh"
	"github.com/mechres/zbd/nodes"
	"github.com/mechres/zbd/prim"
)

func TestFormatAndVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFormat(iox.NewWriter(&buf)))
	require.NoError(t, ReadFormat(iox.NewReader(bytes.NewReader(buf.Bytes()))))

	buf.Reset()
	require.NoError(t, WriteVersion(iox.NewWriter(&buf), nodes.VariantMW))
	require.NoError(t, ReadVersion(iox.NewReader(bytes.NewReader(buf.Bytes())), nodes.VariantMW))
	require.Error(t, ReadVersion(iox.NewReader(bytes.NewReader(buf.Bytes())), nodes.VariantPM))
}

func TestMaterialsRoundtrip(t *testing.T) {
	mats := []materials.Material{
		{Textured: &materials.TexturedMaterial{Texture: "hull01", Pointer: 0x1234, Unk32: 2}},
		{Colored: &materials.ColoredMaterial{Color: prim.Color{R: 255, G: 0, B: 0}, Unk00: 0}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMaterials(iox.NewWriter(&buf), mats))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := ReadMaterials(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.Equal(t, mats, out)

	var second bytes.Buffer
	require.NoError(t, WriteMaterials(iox.NewWriter(&second), out))
	require.Equal(t, first, second.Bytes())
}

func mechlibObject3dInfo(name string, meshPtr int32, children uint32) nodes.NodeInfo {
	info := nodes.NodeInfo{
		Name:        name,
		Flags:       nodes.FlagsBase | nodes.FlagAltitudeSurface | nodes.FlagIntersectSurface,
		UpdateFlags: 1,
		ZoneID:      nodes.ZoneDefault,
		Class:       nodes.ClassObject3d,
		DataPtr:     0xCAFE,
		MeshIndex:   meshPtr,
		Field196:    160,
	}
	if meshPtr != 0 {
		info.Flags |= nodes.FlagHasMesh
	}
	if children > 0 {
		info.ChildrenCount = children
		info.ChildrenArrayPtr = 0x3333
	}
	return info
}

func TestModelRoundtrip(t *testing.T) {
	leafMesh := mesh.Mesh{
		Vertices:    []prim.Vec3{{X: 1}, {Y: 1}, {Z: 1}},
		VerticesPtr: 0x10,
		Polygons: []mesh.Polygon{{
			VertexIndices: []uint32{0, 1, 2},
			VertexColors:  []prim.Vec3{{}, {}, {}},
			VerticesPtr:   0x20,
			ColorsPtr:     0x30,
			UnkPtr:        0x40,
		}},
		PolygonsPtr: 0x50,
		ParentCount: 1,
	}
	model := &Model{
		Root: Node{
			Node:      nodes.Node{Info: mechlibObject3dInfo("chassis", 0, 1), Object3d: &nodes.Object3d{}},
			MeshIndex: -1,
			Children: []Node{{
				Node:      nodes.Node{Info: mechlibObject3dInfo("torso", 0x7777, 0), Object3d: &nodes.Object3d{}},
				MeshIndex: 0,
				Children:  []Node{},
			}},
		},
		Meshes:   []mesh.Mesh{leafMesh},
		MeshPtrs: []int32{0x7777},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteModel(iox.NewWriter(&buf), nodes.VariantMW, model))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := ReadModel(iox.NewReader(bytes.NewReader(first)), nodes.VariantMW)
	require.NoError(t, err)
	require.Equal(t, model.MeshPtrs, out.MeshPtrs)
	require.Equal(t, "chassis", out.Root.Info.Name)
	require.Equal(t, int32(-1), out.Root.MeshIndex)
	require.Equal(t, "torso", out.Root.Children[0].Info.Name)
	require.Equal(t, int32(0), out.Root.Children[0].MeshIndex)
	require.Equal(t, model.Meshes, out.Meshes)

	var second bytes.Buffer
	require.NoError(t, WriteModel(iox.NewWriter(&second), nodes.VariantMW, out))
	require.Equal(t, first, second.Bytes())
}
