package zbd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/anim"
	"github.com/mechres/zbd/archive"
	"github.com/mechres/zbd/compress"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/motion"
	"github.com/mechres/zbd/prim"
	"github.com/mechres/zbd/texture"
)

// extractRestoreRoundtrip checks Restore(Extract(F)) == F byte-for-byte.
func extractRestoreRoundtrip(
	t *testing.T,
	original []byte,
	extract func(r *bytes.Reader, w *bytes.Buffer, compression compress.Type) error,
	restore func(r *bytes.Reader, w *bytes.Buffer) error,
) {
	t.Helper()
	for _, compression := range []compress.Type{compress.TypeNone, compress.TypeS2, compress.TypeZstd, compress.TypeLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			var sink bytes.Buffer
			require.NoError(t, extract(bytes.NewReader(original), &sink, compression))

			var restored bytes.Buffer
			require.NoError(t, restore(bytes.NewReader(sink.Bytes()), &restored))
			require.Equal(t, original, restored.Bytes())
		})
	}
}

func TestExtractRestoreTextures(t *testing.T) {
	// palette values are 565 fixed points so the container round-trips
	palette := make([]byte, 4*3)
	palette[3] = 255
	palette[5] = 255
	manifest := &texture.Manifest{Textures: []texture.Image{{
		Info: texture.Info{
			Name:    "rock01",
			Alpha:   texture.AlphaNone,
			Width:   4,
			Height:  4,
			Palette: texture.Palette{Local: palette},
		},
		Indices: []byte{0, 1, 2, 3, 3, 2, 1, 0, 0, 1, 2, 3, 3, 2, 1, 0},
	}}}
	var original bytes.Buffer
	require.NoError(t, WriteTextures(&original, manifest))

	extractRestoreRoundtrip(t, original.Bytes(),
		func(r *bytes.Reader, w *bytes.Buffer, compression compress.Type) error {
			return ExtractTextures(r, w, compression)
		},
		func(r *bytes.Reader, w *bytes.Buffer) error {
			return RestoreTextures(r, w)
		})
}

func TestExtractRestoreMotion(t *testing.T) {
	loop := motion.Frame{
		Translation: prim.Vec3{X: 1, Y: 2.5, Z: -3},
		Rotation:    prim.Vec4{W: 1},
	}
	m := &motion.Motion{
		LoopTime:   1.25,
		FrameCount: 2,
		Parts:      []motion.Part{{Name: "torso", Frames: []motion.Frame{loop, loop}}},
	}
	var original bytes.Buffer
	require.NoError(t, WriteMotion(&original, m))

	extractRestoreRoundtrip(t, original.Bytes(),
		func(r *bytes.Reader, w *bytes.Buffer, compression compress.Type) error {
			return ExtractMotion(r, w, compression)
		},
		func(r *bytes.Reader, w *bytes.Buffer) error {
			return RestoreMotion(r, w)
		})
}

func TestExtractRestoreAnimDef(t *testing.T) {
	def := &anim.AnimDef{
		Name:       "impact.flt",
		AnimName:   prim.NamePad{Name: "impact"},
		AnimRoot:   prim.NamePad{Name: "impact.flt"},
		Activation: anim.ActivationOnCall,
		Health:     100,
		Nodes:      []prim.NamePtr{{Name: "mech1", Pointer: 0x1000}},
		StaticSounds: []prim.NamePad{
			{Name: "explode"},
		},
		Sequences: []anim.SeqDef{{
			Name:    "seq1",
			Pointer: 0x2000,
			Events: []anim.Event{
				{Data: &anim.Sound{Name: "explode", AtNode: anim.AtNode{Node: "mech1"}}},
				{Data: &anim.Loop{Start: 1, LoopCount: -1}},
			},
		}},
	}
	ptrs := &anim.AnimPtr{
		AnimPtr:         0x4000,
		AnimRootPtr:     0x4000,
		NodesPtr:        0x6000,
		StaticSoundsPtr: 0x7000,
		SeqDefsPtr:      0x8000,
	}
	var original bytes.Buffer
	require.NoError(t, WriteAnimDef(&original, def, ptrs))

	extractRestoreRoundtrip(t, original.Bytes(),
		func(r *bytes.Reader, w *bytes.Buffer, compression compress.Type) error {
			return ExtractAnimDef(r, w, compression)
		},
		func(r *bytes.Reader, w *bytes.Buffer) error {
			return RestoreAnimDef(r, w)
		})
}

func TestExtractRestoreArchive(t *testing.T) {
	garbage := make([]byte, 76)
	for i := range garbage {
		garbage[i] = byte(i)
	}
	entries := []archive.Entry{
		{Name: "mech.flt", Garbage: garbage},
		{Name: "reader.zrd", Garbage: make([]byte, 76)},
	}
	contents := map[string][]byte{
		"mech.flt":   []byte("first file body"),
		"reader.zrd": []byte("second"),
	}
	var original bytes.Buffer
	require.NoError(t, WriteArchive(&original, entries, func(name string) ([]byte, error) {
		return contents[name], nil
	}))

	extractRestoreRoundtrip(t, original.Bytes(),
		func(r *bytes.Reader, w *bytes.Buffer, compression compress.Type) error {
			return ExtractArchive(r, w, compression)
		},
		func(r *bytes.Reader, w *bytes.Buffer) error {
			return RestoreArchive(r, w)
		})
}

func TestFacadeReadersMatchPackages(t *testing.T) {
	// the facade wraps the package codecs over plain io streams
	m := &motion.Motion{
		LoopTime:   1,
		FrameCount: 1,
		Parts:      []motion.Part{{Name: "torso", Frames: []motion.Frame{{}}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMotion(&buf, m))

	direct, err := motion.ReadMotion(iox.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	viaFacade, err := ReadMotion(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, direct, viaFacade)
}
