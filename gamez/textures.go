// Package gamez implements the top-level scene file codec, combining the
// texture-reference, material, mesh and node codecs into one container
// with declared section offsets.
package gamez

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

// textureInfoSize: zero00 u32, zero04 u32, name [20]u8, used u32,
// index u32, unk36 i32.
const textureInfoSize = 40

// TextureRef is one texture-name record. The name field was not memset,
// so bytes after the terminator are preserved.
type TextureRef = prim.NamePad

func readTextureRefs(r *iox.Reader, count uint32) ([]TextureRef, error) {
	refs := make([]TextureRef, count)
	for i := range refs {
		data, err := r.ReadBytes(textureInfoSize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		// a non-zero value here causes additional dynamic code to run
		if err := assert.Equal("texture ref field 00", uint32(0), le.Uint32(data[0:]), base+0); err != nil {
			return nil, err
		}
		if err := assert.Equal("texture ref field 04", uint32(0), le.Uint32(data[4:]), base+4); err != nil {
			return nil, err
		}
		var pad []byte
		name, err := assert.Ascii("texture ref name", base+8, func() (string, error) {
			n, p, err := prim.FromPartition(data[8:28])
			pad = p
			return n, err
		})
		if err != nil {
			return nil, err
		}
		// 2 = used; 0 unused, 1/3 while being processed
		if err := assert.Equal("texture ref used", uint32(2), le.Uint32(data[28:]), base+28); err != nil {
			return nil, err
		}
		// the texture's index in the global array, not set on disk
		if err := assert.Equal("texture ref index", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		if err := assert.Equal("texture ref field 36", int32(-1), int32(le.Uint32(data[36:])), base+36); err != nil {
			return nil, err
		}
		refs[i] = TextureRef{Name: name, Pad: pad}
	}
	return refs, nil
}

func writeTextureRefs(w *iox.Writer, refs []TextureRef) error {
	for _, ref := range refs {
		data := make([]byte, textureInfoSize)
		if err := prim.ToPartition(ref.Name, ref.Pad, data[8:28]); err != nil {
			return err
		}
		le.PutUint32(data[28:], 2)
		le.PutUint32(data[36:], uint32(0xFFFFFFFF))
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

func sizeTextureRefs(count uint32) uint32 {
	return textureInfoSize * count
}
