package materials

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

func writeMaterialBytes(t *testing.T, material *Material, pointer *uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteMaterial(iox.NewWriter(&buf), material, pointer))
	require.Len(t, buf.Bytes(), MaterialSize)
	return buf.Bytes()
}

func TestMaterialRoundtrip(t *testing.T) {
	t.Run("textured", func(t *testing.T) {
		material := &Material{Textured: &TexturedMaterial{
			Texture: "hull01",
			Pointer: 0x1234,
			Unk32:   7,
		}}
		data := writeMaterialBytes(t, material, nil)

		raw, err := ReadMaterial(iox.NewReader(bytes.NewReader(data)))
		require.NoError(t, err)
		require.True(t, raw.Textured)
		require.Equal(t, prim.Ptr(0x1234), raw.Pointer)
		require.Equal(t, uint32(7), raw.Unk32)
		require.Nil(t, raw.CyclePtr)
	})

	t.Run("textured with pointer override", func(t *testing.T) {
		// gamez data stores the texture name index in the pointer field
		material := &Material{Textured: &TexturedMaterial{Texture: "hull01", Pointer: 0x1234}}
		index := uint32(3)
		data := writeMaterialBytes(t, material, &index)

		raw, err := ReadMaterial(iox.NewReader(bytes.NewReader(data)))
		require.NoError(t, err)
		require.Equal(t, prim.Ptr(3), raw.Pointer)
	})

	t.Run("textured cycled", func(t *testing.T) {
		material := &Material{Textured: &TexturedMaterial{
			Texture: "lava",
			Cycle:   &CycleData{InfoPtr: 0x111, DataPtr: 0x222},
		}}
		data := writeMaterialBytes(t, material, nil)

		raw, err := ReadMaterial(iox.NewReader(bytes.NewReader(data)))
		require.NoError(t, err)
		require.NotNil(t, raw.CyclePtr)
		require.Equal(t, prim.Ptr(0x111), *raw.CyclePtr)
	})

	t.Run("colored", func(t *testing.T) {
		material := &Material{Colored: &ColoredMaterial{
			Color: prim.Color{R: 128, G: 64, B: 32},
			Unk00: 0xFF,
		}}
		data := writeMaterialBytes(t, material, nil)

		raw, err := ReadMaterial(iox.NewReader(bytes.NewReader(data)))
		require.NoError(t, err)
		require.False(t, raw.Textured)
		require.Equal(t, *material.Colored, raw.Colored)

		// writing the decoded form again must be byte-identical
		out := Material{Colored: &raw.Colored}
		require.Equal(t, data, writeMaterialBytes(t, &out, nil))
	})
}

func TestMaterialFlagViolations(t *testing.T) {
	material := &Material{Textured: &TexturedMaterial{Texture: "hull01"}}
	base := writeMaterialBytes(t, material, nil)

	cases := []struct {
		name string
		mod  func(data []byte)
	}{
		{"unknown flag bit", func(data []byte) { data[1] |= 0x80 }},
		{"free flag set", func(data []byte) { data[1] |= flagFree }},
		{"always flag clear", func(data []byte) { data[1] &^= flagAlways }},
		{"textured rgb tampered", func(data []byte) { data[2] = 0 }},
		{"field 24 tampered", func(data []byte) { data[27] = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := append([]byte(nil), base...)
			tc.mod(data)
			_, err := ReadMaterial(iox.NewReader(bytes.NewReader(data)))
			require.Error(t, err)
		})
	}
}

func TestMaterialsZeroRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMaterialsZero(iox.NewWriter(&buf), 2, 6))
	// each free slot is a 40-byte record plus the two chain indices
	require.Len(t, buf.Bytes(), 4*(MaterialSize+4))

	r := iox.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, ReadMaterialsZero(r, 2, 6))
	require.NoError(t, r.AssertEnd())
}

func TestMaterialsZeroChainValidation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMaterialsZero(iox.NewWriter(&buf), 0, 3))
	raw := buf.Bytes()

	t.Run("broken backward chain", func(t *testing.T) {
		data := append([]byte(nil), raw...)
		// second slot's backward index should be 0
		le.PutUint16(data[MaterialSize+4+MaterialSize:], 9)
		require.Error(t, ReadMaterialsZero(iox.NewReader(bytes.NewReader(data)), 0, 3))
	})

	t.Run("slot not marked free", func(t *testing.T) {
		data := append([]byte(nil), raw...)
		data[1] = 0
		require.Error(t, ReadMaterialsZero(iox.NewReader(bytes.NewReader(data)), 0, 3))
	})

	t.Run("slot not zeroed", func(t *testing.T) {
		data := append([]byte(nil), raw...)
		data[16] = 0xAB
		require.Error(t, ReadMaterialsZero(iox.NewReader(bytes.NewReader(data)), 0, 3))
	})
}
