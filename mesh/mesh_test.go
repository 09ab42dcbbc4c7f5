package mesh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

func testMesh() *Mesh {
	return &Mesh{
		Vertices: []prim.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Normals:  []prim.Vec3{{X: 0, Y: 0, Z: 1}},
		Polygons: []Polygon{{
			VertexIndices: []uint32{0, 1, 2},
			VertexColors:  []prim.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}},
			NormalIndices: []uint32{0, 0, 0},
			UvCoords:      []prim.Vec2{{U: 0, V: 0}, {U: 1, V: 0}, {U: 0, V: 1}},
			TextureIndex:  2,
			Unk04:         5,
			VtxBit:        true,
			VerticesPtr:   0x10,
			NormalsPtr:    0x20,
			UvsPtr:        0x30,
			ColorsPtr:     0x40,
			UnkPtr:        0x50,
		}},
		PolygonsPtr: 0x100,
		VerticesPtr: 0x200,
		NormalsPtr:  0x300,
		ParentCount: 1,
		Unk40:       1.5,
	}
}

func roundtripMesh(t *testing.T, variant Variant, m *Mesh) *Mesh {
	t.Helper()
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, WriteMeshInfo(w, variant, m))
	require.NoError(t, WriteMeshData(w, variant, m))
	first := append([]byte(nil), buf.Bytes()...)
	require.Equal(t, MeshInfoSize(variant)+SizeMeshData(variant, m), uint32(len(first)))

	r := iox.NewReader(bytes.NewReader(first))
	wrapped, err := ReadMeshInfo(r, variant)
	require.NoError(t, err)
	out, err := ReadMeshData(r, variant, wrapped)
	require.NoError(t, err)
	require.NoError(t, r.AssertEnd())

	var second bytes.Buffer
	w2 := iox.NewWriter(&second)
	require.NoError(t, WriteMeshInfo(w2, variant, out))
	require.NoError(t, WriteMeshData(w2, variant, out))
	require.Equal(t, first, second.Bytes())
	return out
}

func TestMeshRoundtripMW(t *testing.T) {
	m := testMesh()
	out := roundtripMesh(t, VariantMW, m)
	require.Equal(t, m, out)
}

func TestMeshRoundtripPM(t *testing.T) {
	m := testMesh()
	// PM polygons carry a texture table with per-texture UV sets
	m.Polygons[0].TextureIndex = 0
	m.Polygons[0].UvCoords = nil
	m.Polygons[0].Textures = []PolygonTexture{
		{TextureIndex: 2, UvCoords: []prim.Vec2{{U: 0, V: 0}, {U: 1, V: 0}, {U: 0, V: 1}}},
		{TextureIndex: 5, UvCoords: []prim.Vec2{{U: 0.5, V: 0.5}, {U: 1, V: 1}, {U: 0, V: 1}}},
	}
	m.TextureInfoCount = 2
	m.TextureInfoPtr = 0x600
	out := roundtripMesh(t, VariantPM, m)
	require.Equal(t, m, out)
}

func TestMeshRoundtripRC(t *testing.T) {
	m := testMesh()
	// RC polygons have no unknown pointer
	m.Polygons[0].UnkPtr = 0
	m.Polygons[0].TextureInfo = 0
	m.Unk80 = 0
	m.Unk84 = 0
	out := roundtripMesh(t, VariantRC, m)
	require.Equal(t, m, out)
}

func TestMeshLightsOnly(t *testing.T) {
	m := &Mesh{
		Lights: []Light{{
			Unk00: 1,
			Extra: []prim.Vec3{{X: 1, Y: 2, Z: 3}},
			Ptr:   0x99,
		}},
		LightsPtr:   0x400,
		ParentCount: 1,
	}
	out := roundtripMesh(t, VariantMW, m)
	require.Equal(t, m, out)
}

func TestMeshCountPointerAgreement(t *testing.T) {
	m := testMesh()
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, WriteMeshInfo(w, VariantMW, m))
	raw := buf.Bytes()

	// vertex count non-zero but vertices pointer null
	le.PutUint32(raw[56:], 0)
	_, err := ReadMeshInfo(iox.NewReader(bytes.NewReader(raw)), VariantMW)
	require.Error(t, err)
}

func TestMeshZeroSlots(t *testing.T) {
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, WriteMeshInfoZero(w, VariantMW, 2, 5))

	r := iox.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, ReadMeshInfoZero(r, VariantMW, 2, 5))
	require.NoError(t, r.AssertEnd())
}
