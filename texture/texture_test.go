package texture

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
)

// palette colors must survive the 565 round-trip, so channels use the
// bit-replication fixed points 0 and 255
func testPalette(entries int) []byte {
	palette := make([]byte, entries*3)
	for i := 0; i < entries; i++ {
		if i%2 == 1 {
			palette[i*3] = 255
			palette[i*3+2] = 255
		}
	}
	return palette
}

func TestPalettedTextureRoundtrip(t *testing.T) {
	indices := make([]byte, 16)
	for i := range indices {
		indices[i] = byte(i % 4)
	}
	manifest := &Manifest{Textures: []Image{{
		Info: Info{
			Name:    "foo",
			Alpha:   AlphaNone,
			Width:   4,
			Height:  4,
			Palette: Palette{Local: testPalette(4)},
		},
		Indices: indices,
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&buf), manifest))

	// 24-byte header, 40-byte entry, 16-byte info, 16 index bytes,
	// 8 palette bytes
	first := append([]byte(nil), buf.Bytes()...)
	require.Len(t, first, 104)

	out, err := ReadTextures(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.Equal(t, manifest, out)

	var second bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&second), out))
	require.Equal(t, first, second.Bytes())
}

func TestTrueColorTextureRoundtrip(t *testing.T) {
	// 2x2 true color, full alpha
	data := make([]byte, 0, 12)
	for i := 0; i < 4; i++ {
		if i%2 == 0 {
			data = append(data, 255, 255, 255)
		} else {
			data = append(data, 0, 0, 0)
		}
	}
	manifest := &Manifest{Textures: []Image{{
		Info: Info{
			Name:   "bar",
			Alpha:  AlphaFull,
			Width:  2,
			Height: 2,
		},
		Data:      data,
		AlphaData: []byte{255, 0, 255, 0},
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&buf), manifest))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := ReadTextures(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.Equal(t, manifest, out)

	var second bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&second), out))
	require.Equal(t, first, second.Bytes())
}

func TestGlobalPaletteTexture(t *testing.T) {
	indices := []byte{0, 1, 2, 3}
	globalPalette := testPalette(256)
	manifest := &Manifest{
		GlobalPalettes: [][]byte{globalPalette},
		Textures: []Image{{
			Info: Info{
				Name:    "baz",
				Alpha:   AlphaNone,
				Width:   2,
				Height:  2,
				Palette: Palette{Global: &GlobalPalette{Index: 0, Count: 16}},
			},
			Indices: indices,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&buf), manifest))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := ReadTextures(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.Equal(t, manifest, out)
}

func TestDuplicateNameRename(t *testing.T) {
	image := Image{
		Info: Info{
			Name:    "dup",
			Alpha:   AlphaNone,
			Width:   2,
			Height:  2,
			Palette: Palette{Local: testPalette(2)},
		},
		Indices: []byte{0, 1, 0, 1},
	}
	manifest := &Manifest{Textures: []Image{image, image}}

	var buf bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&buf), manifest))

	out, err := ReadTextures(iox.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Equal(t, "", out.Textures[0].Info.Rename)
	require.Equal(t, "dup-1", out.Textures[1].Info.Rename)
	// the in-container name is preserved for both
	require.Equal(t, "dup", out.Textures[1].Info.Name)
}

func TestAlphaModeCoherence(t *testing.T) {
	manifest := &Manifest{Textures: []Image{{
		Info: Info{
			Name:    "foo",
			Alpha:   AlphaNone,
			Width:   2,
			Height:  2,
			Palette: Palette{Local: testPalette(2)},
		},
		Indices: []byte{0, 1, 0, 1},
	}}}
	var buf bytes.Buffer
	require.NoError(t, WriteTextures(iox.NewWriter(&buf), manifest))
	raw := buf.Bytes()

	// no-alpha and has-alpha are mutually exclusive
	infoOffset := 24 + 40
	flags := le.Uint32(raw[infoOffset:])
	le.PutUint32(raw[infoOffset:], flags|flagHasAlpha)
	_, err := ReadTextures(iox.NewReader(bytes.NewReader(raw)))
	require.Error(t, err)
}
