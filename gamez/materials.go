package gamez

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/materials"
	"github.com/mechres/zbd/prim"
)

// materialInfoSize: arraySize i32, count i32, indexMax i32, unknown i32.
const materialInfoSize = 16

// cycleInfoSize: unk00 u32, unk04 u32, zero08 u32, unk12 f32, count1 u32,
// count2 u32, dataPtr u32.
const cycleInfoSize = 28

func fi32(b []byte) float32 {
	return endian.Float32(le, b)
}

func findTexture(refs []TextureRef, name string) (uint32, error) {
	for i := range refs {
		if refs[i].Name == name {
			return uint32(i), nil
		}
	}
	return 0, errs.Newf(0, "texture name", "to be known, but was %q", name)
}

func readMaterialCycle(r *iox.Reader, raw *materials.RawMaterial, refs []TextureRef) (materials.Material, error) {
	if !raw.Textured {
		colored := raw.Colored
		return materials.Material{Colored: &colored}, nil
	}
	// gamez stores the texture name index in the pointer field
	textureIndex := uint32(raw.Pointer)
	if err := assert.Less("material texture index", uint32(len(refs)), textureIndex, r.Offset); err != nil {
		return materials.Material{}, err
	}
	textured := &materials.TexturedMaterial{
		Texture: refs[textureIndex].Name,
		Unk32:   raw.Unk32,
	}
	if raw.CyclePtr != nil {
		if err := assert.Unequal("material cycle info ptr", prim.PtrNull, *raw.CyclePtr, r.Prev); err != nil {
			return materials.Material{}, err
		}
		data, err := r.ReadBytes(cycleInfoSize)
		if err != nil {
			return materials.Material{}, err
		}
		base := r.Prev
		unk00, err := assert.Bool("material cycle field 00", le.Uint32(data[0:]), base+0)
		if err != nil {
			return materials.Material{}, err
		}
		if err := assert.Equal("material cycle field 08", uint32(0), le.Uint32(data[8:]), base+8); err != nil {
			return materials.Material{}, err
		}
		unk12 := fi32(data[12:])
		if err := assert.Between("material cycle field 12", float32(2.0), float32(16.0), unk12, base+12); err != nil {
			return materials.Material{}, err
		}
		count := le.Uint32(data[16:])
		if err := assert.Equal("material cycle count", count, le.Uint32(data[20:]), base+20); err != nil {
			return materials.Material{}, err
		}
		dataPtr := prim.Ptr(le.Uint32(data[24:]))
		if err := assert.Unequal("material cycle data ptr", prim.PtrNull, dataPtr, base+24); err != nil {
			return materials.Material{}, err
		}

		cycleTextures := make([]string, count)
		for i := range cycleTextures {
			index, err := r.ReadU32()
			if err != nil {
				return materials.Material{}, err
			}
			if err := assert.Less("material cycle texture index", uint32(len(refs)), index, r.Prev); err != nil {
				return materials.Material{}, err
			}
			cycleTextures[i] = refs[index].Name
		}
		textured.Cycle = &materials.CycleData{
			Textures: cycleTextures,
			Unk00:    unk00,
			Unk04:    le.Uint32(data[4:]),
			Unk12:    unk12,
			InfoPtr:  *raw.CyclePtr,
			DataPtr:  dataPtr,
		}
	}
	return materials.Material{Textured: textured}, nil
}

func readMaterials(r *iox.Reader, refs []TextureRef) ([]materials.Material, int16, error) {
	data, err := r.ReadBytes(materialInfoSize)
	if err != nil {
		return nil, 0, err
	}
	base := r.Prev
	arraySize := int32(le.Uint32(data[0:]))
	count := int32(le.Uint32(data[4:]))
	if err := assert.Between("material array size", int32(0), int32(0x7FFF), arraySize, base+0); err != nil {
		return nil, 0, err
	}
	if err := assert.Between("material count", int32(0), arraySize, count, base+4); err != nil {
		return nil, 0, err
	}
	if err := assert.Equal("material index max", count, int32(le.Uint32(data[8:])), base+8); err != nil {
		return nil, 0, err
	}
	if err := assert.Equal("material field 12", count-1, int32(le.Uint32(data[12:])), base+12); err != nil {
		return nil, 0, err
	}

	// materials first, without cycle data; used slots chain forward, the
	// zero slots that follow chain backward
	raws := make([]*materials.RawMaterial, count)
	for index := int16(0); index < int16(count); index++ {
		raw, err := materials.ReadMaterial(r)
		if err != nil {
			return nil, 0, err
		}
		raws[index] = raw

		expected1 := index + 1
		if expected1 >= int16(count) {
			expected1 = -1
		}
		actual1, err := r.ReadI16()
		if err != nil {
			return nil, 0, err
		}
		if err := assert.Equal("material index 1", expected1, actual1, r.Prev); err != nil {
			return nil, 0, err
		}

		expected2 := index - 1
		if expected2 < 0 {
			expected2 = -1
		}
		actual2, err := r.ReadI16()
		if err != nil {
			return nil, 0, err
		}
		if err := assert.Equal("material index 2", expected2, actual2, r.Prev); err != nil {
			return nil, 0, err
		}
	}
	if err := materials.ReadMaterialsZero(r, int16(count), int16(arraySize)); err != nil {
		return nil, 0, err
	}

	result := make([]materials.Material, count)
	for i, raw := range raws {
		if result[i], err = readMaterialCycle(r, raw, refs); err != nil {
			return nil, 0, err
		}
	}
	return result, int16(arraySize), nil
}

func writeMaterials(w *iox.Writer, refs []TextureRef, mats []materials.Material, arraySize int16) error {
	data := make([]byte, materialInfoSize)
	count := int32(len(mats))
	le.PutUint32(data[0:], uint32(int32(arraySize)))
	le.PutUint32(data[4:], uint32(count))
	le.PutUint32(data[8:], uint32(count))
	le.PutUint32(data[12:], uint32(count-1))
	if err := w.WriteAll(data); err != nil {
		return err
	}

	for i := range mats {
		material := &mats[i]
		var pointer *uint32
		if material.Textured != nil {
			index, err := findTexture(refs, material.Textured.Texture)
			if err != nil {
				return err
			}
			pointer = &index
		}
		if err := materials.WriteMaterial(w, material, pointer); err != nil {
			return err
		}

		index := int16(i)
		index1 := index + 1
		if index1 >= int16(count) {
			index1 = -1
		}
		if err := w.WriteI16(index1); err != nil {
			return err
		}
		index2 := index - 1
		if index2 < 0 {
			index2 = -1
		}
		if err := w.WriteI16(index2); err != nil {
			return err
		}
	}
	if err := materials.WriteMaterialsZero(w, int16(count), arraySize); err != nil {
		return err
	}

	for i := range mats {
		material := &mats[i]
		if material.Textured == nil || material.Textured.Cycle == nil {
			continue
		}
		cycle := material.Textured.Cycle
		data := make([]byte, cycleInfoSize)
		if cycle.Unk00 {
			le.PutUint32(data[0:], 1)
		}
		le.PutUint32(data[4:], cycle.Unk04)
		endian.PutFloat32(le, data[12:], cycle.Unk12)
		le.PutUint32(data[16:], uint32(len(cycle.Textures)))
		le.PutUint32(data[20:], uint32(len(cycle.Textures)))
		le.PutUint32(data[24:], uint32(cycle.DataPtr))
		if err := w.WriteAll(data); err != nil {
			return err
		}
		for _, texture := range cycle.Textures {
			index, err := findTexture(refs, texture)
			if err != nil {
				return err
			}
			if err := w.WriteU32(index); err != nil {
				return err
			}
		}
	}
	return nil
}

func sizeMaterials(arraySize int16, mats []materials.Material) uint32 {
	size := uint32(materialInfoSize) + uint32(materials.MaterialSize+4)*uint32(arraySize)
	for i := range mats {
		if mats[i].Textured != nil && mats[i].Textured.Cycle != nil {
			size += cycleInfoSize + uint32(len(mats[i].Textured.Cycle.Textures))*4
		}
	}
	return size
}
