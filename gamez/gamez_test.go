package gamez

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/materials"
	"github.com/mechres/zbd/prim"
)

func TestTextureRefsRoundtrip(t *testing.T) {
	refs := []TextureRef{
		{Name: "rock01"},
		{Name: "grass", Pad: []byte{0xDE, 0xAD}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeTextureRefs(iox.NewWriter(&buf), refs))
	require.Equal(t, sizeTextureRefs(2), uint32(buf.Len()))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := readTextureRefs(iox.NewReader(bytes.NewReader(first)), 2)
	require.NoError(t, err)
	require.Equal(t, "rock01", out[0].Name)
	require.Equal(t, []byte{0xDE, 0xAD}, out[1].Pad[0:2])

	var second bytes.Buffer
	require.NoError(t, writeTextureRefs(iox.NewWriter(&second), out))
	require.Equal(t, first, second.Bytes())
}

func TestMaterialsSectionRoundtrip(t *testing.T) {
	refs := []TextureRef{{Name: "rock01"}, {Name: "grass"}, {Name: "lava"}}
	mats := []materials.Material{
		{Textured: &materials.TexturedMaterial{Texture: "grass", Unk32: 9}},
		{Colored: &materials.ColoredMaterial{Color: prim.Color{R: 128, G: 64, B: 32}, Unk00: 0xFF}},
		{Textured: &materials.TexturedMaterial{
			Texture: "lava",
			Cycle: &materials.CycleData{
				Textures: []string{"lava", "rock01"},
				Unk00:    true,
				Unk04:    2,
				Unk12:    4.0,
				InfoPtr:  0x111,
				DataPtr:  0x222,
			},
		}},
	}
	const arraySize = int16(5)

	var buf bytes.Buffer
	require.NoError(t, writeMaterials(iox.NewWriter(&buf), refs, mats, arraySize))
	require.Equal(t, sizeMaterials(arraySize, mats), uint32(buf.Len()))
	first := append([]byte(nil), buf.Bytes()...)

	outMats, outArraySize, err := readMaterials(iox.NewReader(bytes.NewReader(first)), refs)
	require.NoError(t, err)
	require.Equal(t, arraySize, outArraySize)
	require.Equal(t, mats, outMats)

	var second bytes.Buffer
	require.NoError(t, writeMaterials(iox.NewWriter(&second), refs, outMats, outArraySize))
	require.Equal(t, first, second.Bytes())
}

func TestMeshesSectionEmpty(t *testing.T) {
	// an all-padding mesh array: zero used slots, three chained free slots
	var buf bytes.Buffer
	require.NoError(t, writeMeshes(iox.NewWriter(&buf), nil, 3, 0))
	require.Equal(t, sizeMeshes(3, nil), uint32(buf.Len()))

	out, arraySize, err := readMeshes(iox.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Equal(t, int32(3), arraySize)
	require.Empty(t, out)
}
