// Package materials implements the material codec shared by gamez and
// mechlib files: 40-byte records that are either textured (color fields
// fixed at white) or colored (no texture), plus the zero-filled free-list
// slots padding the material array.
package materials

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

func f32(b []byte) float32 {
	return endian.Float32(le, b)
}

func putF32(b []byte, v float32) {
	endian.PutFloat32(le, b, v)
}

// Material flag byte.
const (
	flagTextured uint8 = 1 << 0
	flagUnknown  uint8 = 1 << 1
	flagCycled   uint8 = 1 << 2
	flagAlways   uint8 = 1 << 4
	flagFree     uint8 = 1 << 5
)

const flagsValid = flagTextured | flagUnknown | flagCycled | flagAlways | flagFree

// MaterialSize is the fixed record size.
//
//	unk00    u8  // 00
//	flags    u8  // 01
//	rgb      u16 // 02, 0x7FFF textured, 0x0000 colored
//	red      f32 // 04
//	green    f32 // 08
//	blue     f32 // 12
//	pointer  u32 // 16, texture name index (gamez) or pointer (mechlib)
//	unk20    f32 // 20, must be 0.0
//	unk24    f32 // 24, must be 0.5
//	unk28    f32 // 28, must be 0.5
//	unk32    u32 // 32
//	cyclePtr u32 // 36
const MaterialSize = 40

// CycleData is a textured material's texture-cycling info.
type CycleData struct {
	Textures []string `json:"textures"`
	Unk00    bool     `json:"unk00"`
	Unk04    uint32   `json:"unk04"`
	Unk12    float32  `json:"unk12"`
	InfoPtr  prim.Ptr `json:"info_ptr"`
	DataPtr  prim.Ptr `json:"data_ptr"`
}

// TexturedMaterial references a texture by name.
type TexturedMaterial struct {
	Texture string `json:"texture"`
	// Pointer is unused by gamez data (which stores the texture name
	// index) but preserved for mechlib.
	Pointer prim.Ptr   `json:"pointer,omitempty"`
	Cycle   *CycleData `json:"cycle,omitempty"`
	Unk32   uint32     `json:"unk32"`
}

// ColoredMaterial is an untextured flat color.
type ColoredMaterial struct {
	Color prim.Color `json:"color"`
	Unk00 uint8      `json:"unk00"`
}

// Material is either textured or colored.
type Material struct {
	Textured *TexturedMaterial `json:"textured,omitempty"`
	Colored  *ColoredMaterial  `json:"colored,omitempty"`
}

// RawMaterial is the partially decoded form before texture-name
// resolution, which differs between gamez and mechlib.
type RawMaterial struct {
	Textured bool
	Pointer  prim.Ptr
	CyclePtr *prim.Ptr
	Unk32    uint32
	Colored  ColoredMaterial
}

// ReadMaterial reads one 40-byte record.
func ReadMaterial(r *iox.Reader) (*RawMaterial, error) {
	data, err := r.ReadBytes(MaterialSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("material flags", flagsValid, data[1], base+1)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("material flag unknown", uint8(0), flags&flagUnknown, base+1); err != nil {
		return nil, err
	}
	if err := assert.Equal("material flag always", flagAlways, flags&flagAlways, base+1); err != nil {
		return nil, err
	}
	if err := assert.Equal("material flag free", uint8(0), flags&flagFree, base+1); err != nil {
		return nil, err
	}
	if err := assert.Equal("material field 20", float32(0.0), f32(data[20:]), base+20); err != nil {
		return nil, err
	}
	if err := assert.Equal("material field 24", float32(0.5), f32(data[24:]), base+24); err != nil {
		return nil, err
	}
	if err := assert.Equal("material field 28", float32(0.5), f32(data[28:]), base+28); err != nil {
		return nil, err
	}

	raw := &RawMaterial{}
	if flags&flagTextured != 0 {
		raw.Textured = true
		if err := assert.Equal("material field 00", uint8(0xFF), data[0], base+0); err != nil {
			return nil, err
		}
		if err := assert.Equal("material rgb", uint16(0x7FFF), le.Uint16(data[2:]), base+2); err != nil {
			return nil, err
		}
		if err := assert.Equal("material color r", float32(255.0), f32(data[4:]), base+4); err != nil {
			return nil, err
		}
		if err := assert.Equal("material color g", float32(255.0), f32(data[8:]), base+8); err != nil {
			return nil, err
		}
		if err := assert.Equal("material color b", float32(255.0), f32(data[12:]), base+12); err != nil {
			return nil, err
		}
		raw.Pointer = prim.Ptr(le.Uint32(data[16:]))
		raw.Unk32 = le.Uint32(data[32:])
		cyclePtr := prim.Ptr(le.Uint32(data[36:]))
		if flags&flagCycled != 0 {
			raw.CyclePtr = &cyclePtr
		} else if err := assert.Equal("material cycle ptr", prim.PtrNull, cyclePtr, base+36); err != nil {
			return nil, err
		}
	} else {
		if err := assert.Equal("material flag cycled", uint8(0), flags&flagCycled, base+1); err != nil {
			return nil, err
		}
		if err := assert.Equal("material rgb", uint16(0x0000), le.Uint16(data[2:]), base+2); err != nil {
			return nil, err
		}
		if err := assert.Equal("material pointer", uint32(0), le.Uint32(data[16:]), base+16); err != nil {
			return nil, err
		}
		if err := assert.Equal("material field 32", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		if err := assert.Equal("material cycle ptr", uint32(0), le.Uint32(data[36:]), base+36); err != nil {
			return nil, err
		}
		raw.Colored = ColoredMaterial{
			Color: prim.Color{R: f32(data[4:]), G: f32(data[8:]), B: f32(data[12:])},
			Unk00: data[0],
		}
	}
	return raw, nil
}

// WriteMaterial writes one 40-byte record. For gamez data, pointer
// overrides the textured material's preserved pointer with the texture
// name index; pass nil for mechlib.
func WriteMaterial(w *iox.Writer, material *Material, pointer *uint32) error {
	data := make([]byte, MaterialSize)
	switch {
	case material.Textured != nil:
		mat := material.Textured
		flags := flagAlways | flagTextured
		cyclePtr := prim.PtrNull
		if mat.Cycle != nil {
			flags |= flagCycled
			cyclePtr = mat.Cycle.InfoPtr
		}
		data[0] = 0xFF
		data[1] = flags
		le.PutUint16(data[2:], 0x7FFF)
		putF32(data[4:], 255.0)
		putF32(data[8:], 255.0)
		putF32(data[12:], 255.0)
		if pointer != nil {
			le.PutUint32(data[16:], *pointer)
		} else {
			le.PutUint32(data[16:], uint32(mat.Pointer))
		}
		le.PutUint32(data[32:], mat.Unk32)
		le.PutUint32(data[36:], uint32(cyclePtr))
	case material.Colored != nil:
		mat := material.Colored
		data[0] = mat.Unk00
		data[1] = flagAlways
		putF32(data[4:], mat.Color.R)
		putF32(data[8:], mat.Color.G)
		putF32(data[12:], mat.Color.B)
	default:
		return errs.New("material", "to be textured or colored", w.Offset)
	}
	putF32(data[24:], 0.5)
	putF32(data[28:], 0.5)
	return w.WriteAll(data)
}

// ReadMaterialsZero validates the zero-filled slots padding the material
// array. Each slot is marked free and chained into a doubly linked free
// list via two i16 indices.
func ReadMaterialsZero(r *iox.Reader, start, end int16) error {
	for index := start; index < end; index++ {
		data, err := r.ReadBytes(MaterialSize)
		if err != nil {
			return err
		}
		base := r.Prev
		if err := assert.Equal("material zero flags", flagFree, data[1], base+1); err != nil {
			return err
		}
		data[1] = 0
		if err := assert.AllZero("material zero slot", data, base); err != nil {
			return err
		}

		expected1 := index - 1
		if expected1 < start {
			expected1 = -1
		}
		actual1, err := r.ReadI16()
		if err != nil {
			return err
		}
		if err := assert.Equal("material zero index 1", expected1, actual1, r.Prev); err != nil {
			return err
		}

		expected2 := index + 1
		if expected2 >= end {
			expected2 = -1
		}
		actual2, err := r.ReadI16()
		if err != nil {
			return err
		}
		if err := assert.Equal("material zero index 2", expected2, actual2, r.Prev); err != nil {
			return err
		}
	}
	return nil
}

// WriteMaterialsZero writes the zero-filled material slots.
func WriteMaterialsZero(w *iox.Writer, start, end int16) error {
	for index := start; index < end; index++ {
		data := make([]byte, MaterialSize)
		data[1] = flagFree
		if err := w.WriteAll(data); err != nil {
			return err
		}
		index1 := index - 1
		if index1 < start {
			index1 = -1
		}
		if err := w.WriteI16(index1); err != nil {
			return err
		}
		index2 := index + 1
		if index2 >= end {
			index2 = -1
		}
		if err := w.WriteI16(index2); err != nil {
			return err
		}
	}
	return nil
}
