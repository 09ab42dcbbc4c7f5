// Package mesh implements the geometry codec: variable-length mesh records
// containing vertex, normal, morph-target, light and polygon arrays, with
// back-references preserved as original pointer values.
//
// Three layouts exist: MW (92-byte header, 36-byte polygons), PM/CS
// (100-byte header with a texture-info table, 40-byte polygons with
// per-texture UV sets) and RC (84-byte header, 28-byte polygons). A mesh is
// read in two steps: the fixed header first (ReadMeshInfo), then the data
// block (ReadMeshData), because scene files interleave headers and data.
package mesh

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
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

// Variant selects the mesh layout.
type Variant uint8

// Mesh layout variants.
const (
	VariantMW Variant = iota
	VariantPM
	VariantRC
)

// Header sizes per variant.
const (
	meshInfoSizeMW = 92
	meshInfoSizePM = 100
	meshInfoSizeRC = 84
)

// MeshInfoSize returns the fixed header size for a variant.
func MeshInfoSize(variant Variant) uint32 {
	switch variant {
	case VariantPM:
		return meshInfoSizePM
	case VariantRC:
		return meshInfoSizeRC
	}
	return meshInfoSizeMW
}

// Light is one mesh light record (76 bytes) plus its extra vector array.
// The numeric fields are not interpretable and are preserved verbatim.
type Light struct {
	Unk00 uint32      `json:"unk00"`
	Unk04 uint32      `json:"unk04"`
	Unk08 uint32      `json:"unk08"`
	Extra []prim.Vec3 `json:"extra"`
	Unk16 uint32      `json:"unk16"`
	Unk20 uint32      `json:"unk20"`
	Unk24 uint32      `json:"unk24"`
	Unk28 float32     `json:"unk28"`
	Unk32 float32     `json:"unk32"`
	Unk36 float32     `json:"unk36"`
	Unk40 float32     `json:"unk40"`
	Ptr   prim.Ptr    `json:"ptr"`
	Unk48 float32     `json:"unk48"`
	Unk52 float32     `json:"unk52"`
	Unk56 float32     `json:"unk56"`
	Unk60 float32     `json:"unk60"`
	Unk64 float32     `json:"unk64"`
	Unk68 float32     `json:"unk68"`
	Unk72 float32     `json:"unk72"`
}

const lightSize = 76

// PolygonTexture is one texture reference of a PM/CS polygon with its
// per-texture UV set.
type PolygonTexture struct {
	TextureIndex uint32      `json:"texture_index"`
	UvCoords     []prim.Vec2 `json:"uv_coords"`
}

// Polygon is one polygon record. The MW/RC layouts carry a single texture
// index and at most one UV set; the PM/CS layout carries a texture table.
type Polygon struct {
	VertexIndices []uint32    `json:"vertex_indices"`
	VertexColors  []prim.Vec3 `json:"vertex_colors"`
	NormalIndices []uint32    `json:"normal_indices,omitempty"`
	UvCoords      []prim.Vec2 `json:"uv_coords,omitempty"`
	// PM/CS only
	Textures []PolygonTexture `json:"textures,omitempty"`

	TextureIndex uint32 `json:"texture_index"`
	TextureInfo  uint32 `json:"texture_info"`
	Unk04        uint32 `json:"unk04"`
	UnkBit       bool   `json:"unk_bit"`
	VtxBit       bool   `json:"vtx_bit"`

	VerticesPtr prim.Ptr `json:"vertices_ptr"`
	NormalsPtr  prim.Ptr `json:"normals_ptr"`
	UvsPtr      prim.Ptr `json:"uvs_ptr"`
	ColorsPtr   prim.Ptr `json:"colors_ptr"`
	UnkPtr      prim.Ptr `json:"unk_ptr"`
}

// Polygon record sizes per variant.
const (
	polygonSizeMW = 36
	polygonSizePM = 40
	polygonSizeRC = 28
)

// Mesh is one geometry record.
type Mesh struct {
	Vertices []prim.Vec3 `json:"vertices"`
	Normals  []prim.Vec3 `json:"normals"`
	Morphs   []prim.Vec3 `json:"morphs"`
	Lights   []Light     `json:"lights"`
	Polygons []Polygon   `json:"polygons"`

	PolygonsPtr prim.Ptr `json:"polygons_ptr"`
	VerticesPtr prim.Ptr `json:"vertices_ptr"`
	NormalsPtr  prim.Ptr `json:"normals_ptr"`
	LightsPtr   prim.Ptr `json:"lights_ptr"`
	MorphsPtr   prim.Ptr `json:"morphs_ptr"`

	FilePtr     bool    `json:"file_ptr"`
	Unk04       bool    `json:"unk04"`
	Unk08       uint32  `json:"unk08"`
	ParentCount uint32  `json:"parent_count"`
	Unk40       float32 `json:"unk40"`
	Unk44       float32 `json:"unk44"`
	Unk72       float32 `json:"unk72"`
	Unk76       float32 `json:"unk76"`
	Unk80       float32 `json:"unk80"`
	Unk84       float32 `json:"unk84"`

	// PM/CS only
	TextureInfoCount uint32   `json:"texture_info_count,omitempty"`
	TextureInfoPtr   prim.Ptr `json:"texture_info_ptr,omitempty"`
}

// Wrapped carries the counts between the header and data reads.
type Wrapped struct {
	Mesh         Mesh
	PolygonCount uint32
	VertexCount  uint32
	NormalCount  uint32
	MorphCount   uint32
	LightCount   uint32
}

// ReadMeshInfo reads and validates the fixed mesh header.
//
// Layout (MW; RC drops the two floats at 80/84, PM/CS append a
// texture-info count and pointer):
//
//	filePtr      u32 // 00, bool
//	unk04        u32 // 04, bool
//	unk08        u32 // 08
//	parentCount  u32 // 12, > 0
//	polygonCount u32 // 16
//	vertexCount  u32 // 20
//	normalCount  u32 // 24
//	morphCount   u32 // 28
//	lightCount   u32 // 32
//	zero36       u32 // 36
//	unk40        f32 // 40
//	unk44        f32 // 44
//	zero48       u32 // 48
//	polygonsPtr  u32 // 52
//	verticesPtr  u32 // 56
//	normalsPtr   u32 // 60
//	lightsPtr    u32 // 64
//	morphsPtr    u32 // 68
//	unk72        f32 // 72
//	unk76        f32 // 76
//	unk80        f32 // 80, not RC
//	unk84        f32 // 84, not RC
//	zero88       u32 // 88/80 (RC)
func ReadMeshInfo(r *iox.Reader, variant Variant) (*Wrapped, error) {
	data, err := r.ReadBytes(int(MeshInfoSize(variant)))
	if err != nil {
		return nil, err
	}
	base := r.Prev

	filePtr, err := assert.Bool("mesh file ptr", le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	unk04, err := assert.Bool("mesh field 04", le.Uint32(data[4:]), base+4)
	if err != nil {
		return nil, err
	}
	parentCount := le.Uint32(data[12:])
	if err := assert.Greater("mesh parent count", uint32(0), parentCount, base+12); err != nil {
		return nil, err
	}
	if err := assert.Equal("mesh field 36", uint32(0), le.Uint32(data[36:]), base+36); err != nil {
		return nil, err
	}
	if err := assert.Equal("mesh field 48", uint32(0), le.Uint32(data[48:]), base+48); err != nil {
		return nil, err
	}

	wrapped := &Wrapped{
		PolygonCount: le.Uint32(data[16:]),
		VertexCount:  le.Uint32(data[20:]),
		NormalCount:  le.Uint32(data[24:]),
		MorphCount:   le.Uint32(data[28:]),
		LightCount:   le.Uint32(data[32:]),
	}
	mesh := &wrapped.Mesh
	mesh.FilePtr = filePtr
	mesh.Unk04 = unk04
	mesh.Unk08 = le.Uint32(data[8:])
	mesh.ParentCount = parentCount
	mesh.Unk40 = f32(data[40:])
	mesh.Unk44 = f32(data[44:])
	mesh.PolygonsPtr = prim.Ptr(le.Uint32(data[52:]))
	mesh.VerticesPtr = prim.Ptr(le.Uint32(data[56:]))
	mesh.NormalsPtr = prim.Ptr(le.Uint32(data[60:]))
	mesh.LightsPtr = prim.Ptr(le.Uint32(data[64:]))
	mesh.MorphsPtr = prim.Ptr(le.Uint32(data[68:]))
	mesh.Unk72 = f32(data[72:])
	mesh.Unk76 = f32(data[76:])

	zero88 := 88
	if variant == VariantRC {
		zero88 = 80
	} else {
		mesh.Unk80 = f32(data[80:])
		mesh.Unk84 = f32(data[84:])
	}
	if err := assert.Equal("mesh trailing zero", uint32(0), le.Uint32(data[zero88:]), base+uint32(zero88)); err != nil {
		return nil, err
	}
	if variant == VariantPM {
		mesh.TextureInfoCount = le.Uint32(data[92:])
		mesh.TextureInfoPtr = prim.Ptr(le.Uint32(data[96:]))
		if mesh.TextureInfoCount == 0 {
			if err := assert.Equal("mesh texture info ptr", prim.PtrNull, mesh.TextureInfoPtr, base+96); err != nil {
				return nil, err
			}
		} else if err := assert.Unequal("mesh texture info ptr", prim.PtrNull, mesh.TextureInfoPtr, base+96); err != nil {
			return nil, err
		}
	}

	// count = 0 iff pointer = 0 for every array
	if wrapped.PolygonCount == 0 {
		if err := assert.Equal("mesh polygons ptr", prim.PtrNull, mesh.PolygonsPtr, base+52); err != nil {
			return nil, err
		}
		// a lights-only mesh: no geometry at all, just light info
		if err := assert.Equal("mesh vertex count", uint32(0), wrapped.VertexCount, base+20); err != nil {
			return nil, err
		}
		if err := assert.Equal("mesh normal count", uint32(0), wrapped.NormalCount, base+24); err != nil {
			return nil, err
		}
		if err := assert.Equal("mesh morph count", uint32(0), wrapped.MorphCount, base+28); err != nil {
			return nil, err
		}
		if err := assert.Greater("mesh light count", uint32(0), wrapped.LightCount, base+32); err != nil {
			return nil, err
		}
	} else if err := assert.Unequal("mesh polygons ptr", prim.PtrNull, mesh.PolygonsPtr, base+52); err != nil {
		return nil, err
	}
	pairs := []struct {
		name  string
		count uint32
		ptr   prim.Ptr
		off   uint32
	}{
		{"mesh vertices ptr", wrapped.VertexCount, mesh.VerticesPtr, 56},
		{"mesh normals ptr", wrapped.NormalCount, mesh.NormalsPtr, 60},
		{"mesh lights ptr", wrapped.LightCount, mesh.LightsPtr, 64},
		{"mesh morphs ptr", wrapped.MorphCount, mesh.MorphsPtr, 68},
	}
	for _, pair := range pairs {
		if pair.count == 0 {
			if err := assert.Equal(pair.name, prim.PtrNull, pair.ptr, base+pair.off); err != nil {
				return nil, err
			}
		} else if err := assert.Unequal(pair.name, prim.PtrNull, pair.ptr, base+pair.off); err != nil {
			return nil, err
		}
	}
	return wrapped, nil
}

// WriteMeshInfo writes the fixed mesh header.
func WriteMeshInfo(w *iox.Writer, variant Variant, mesh *Mesh) error {
	data := make([]byte, MeshInfoSize(variant))
	if mesh.FilePtr {
		le.PutUint32(data[0:], 1)
	}
	if mesh.Unk04 {
		le.PutUint32(data[4:], 1)
	}
	le.PutUint32(data[8:], mesh.Unk08)
	le.PutUint32(data[12:], mesh.ParentCount)
	le.PutUint32(data[16:], uint32(len(mesh.Polygons)))
	le.PutUint32(data[20:], uint32(len(mesh.Vertices)))
	le.PutUint32(data[24:], uint32(len(mesh.Normals)))
	le.PutUint32(data[28:], uint32(len(mesh.Morphs)))
	le.PutUint32(data[32:], uint32(len(mesh.Lights)))
	putF32(data[40:], mesh.Unk40)
	putF32(data[44:], mesh.Unk44)
	le.PutUint32(data[52:], uint32(mesh.PolygonsPtr))
	le.PutUint32(data[56:], uint32(mesh.VerticesPtr))
	le.PutUint32(data[60:], uint32(mesh.NormalsPtr))
	le.PutUint32(data[64:], uint32(mesh.LightsPtr))
	le.PutUint32(data[68:], uint32(mesh.MorphsPtr))
	putF32(data[72:], mesh.Unk72)
	putF32(data[76:], mesh.Unk76)
	if variant != VariantRC {
		putF32(data[80:], mesh.Unk80)
		putF32(data[84:], mesh.Unk84)
	}
	if variant == VariantPM {
		le.PutUint32(data[92:], mesh.TextureInfoCount)
		le.PutUint32(data[96:], uint32(mesh.TextureInfoPtr))
	}
	return w.WriteAll(data)
}

// ReadMeshInfoZero validates the zero-filled mesh array slots of a scene
// file, each followed by its free-list chain index.
func ReadMeshInfoZero(r *iox.Reader, variant Variant, start, end int32) error {
	size := int(MeshInfoSize(variant))
	for index := start; index < end; index++ {
		data, err := r.ReadBytes(size)
		if err != nil {
			return err
		}
		if err := assert.AllZero("mesh zero slot", data, r.Prev); err != nil {
			return err
		}
		expected := index + 1
		if expected == end {
			expected = -1
		}
		actual, err := r.ReadI32()
		if err != nil {
			return err
		}
		if err := assert.Equal("mesh zero index", expected, actual, r.Prev); err != nil {
			return err
		}
	}
	return nil
}

// WriteMeshInfoZero writes the zero-filled mesh array slots.
func WriteMeshInfoZero(w *iox.Writer, variant Variant, start, end int32) error {
	size := int(MeshInfoSize(variant))
	for index := start; index < end; index++ {
		if err := w.WriteZeros(size); err != nil {
			return err
		}
		expected := index + 1
		if expected == end {
			expected = -1
		}
		if err := w.WriteI32(expected); err != nil {
			return err
		}
	}
	return nil
}

func readVec3s(r *iox.Reader, count uint32) ([]prim.Vec3, error) {
	if count == 0 {
		return nil, nil
	}
	vecs := make([]prim.Vec3, count)
	for i := range vecs {
		data, err := r.ReadBytes(prim.Vec3Size)
		if err != nil {
			return nil, err
		}
		vecs[i] = prim.GetVec3(data)
	}
	return vecs, nil
}

func writeVec3s(w *iox.Writer, vecs []prim.Vec3) error {
	for _, vec := range vecs {
		data := make([]byte, prim.Vec3Size)
		prim.PutVec3(data, vec)
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

func readU32s(r *iox.Reader, count uint32) ([]uint32, error) {
	if count == 0 {
		return nil, nil
	}
	values := make([]uint32, count)
	for i := range values {
		value, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func writeU32s(w *iox.Writer, values []uint32) error {
	for _, value := range values {
		if err := w.WriteU32(value); err != nil {
			return err
		}
	}
	return nil
}

// UVs are stored V-flipped relative to the neutral form.
func readUvs(r *iox.Reader, count uint32) ([]prim.Vec2, error) {
	if count == 0 {
		return nil, nil
	}
	uvs := make([]prim.Vec2, count)
	for i := range uvs {
		data, err := r.ReadBytes(prim.Vec2Size)
		if err != nil {
			return nil, err
		}
		uv := prim.GetVec2(data)
		uv.V = 1.0 - uv.V
		uvs[i] = uv
	}
	return uvs, nil
}

func writeUvs(w *iox.Writer, uvs []prim.Vec2) error {
	for _, uv := range uvs {
		data := make([]byte, prim.Vec2Size)
		prim.PutVec2(data, prim.Vec2{U: uv.U, V: 1.0 - uv.V})
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

func readLights(r *iox.Reader, count uint32) ([]Light, error) {
	if count == 0 {
		return nil, nil
	}
	lights := make([]Light, count)
	extraCounts := make([]uint32, count)
	for i := range lights {
		data, err := r.ReadBytes(lightSize)
		if err != nil {
			return nil, err
		}
		extraCounts[i] = le.Uint32(data[12:])
		lights[i] = Light{
			Unk00: le.Uint32(data[0:]),
			Unk04: le.Uint32(data[4:]),
			Unk08: le.Uint32(data[8:]),
			Unk16: le.Uint32(data[16:]),
			Unk20: le.Uint32(data[20:]),
			Unk24: le.Uint32(data[24:]),
			Unk28: f32(data[28:]),
			Unk32: f32(data[32:]),
			Unk36: f32(data[36:]),
			Unk40: f32(data[40:]),
			Ptr:   prim.Ptr(le.Uint32(data[44:])),
			Unk48: f32(data[48:]),
			Unk52: f32(data[52:]),
			Unk56: f32(data[56:]),
			Unk60: f32(data[60:]),
			Unk64: f32(data[64:]),
			Unk68: f32(data[68:]),
			Unk72: f32(data[72:]),
		}
	}
	// the extra vec arrays follow after all light headers
	for i := range lights {
		extra, err := readVec3s(r, extraCounts[i])
		if err != nil {
			return nil, err
		}
		lights[i].Extra = extra
	}
	return lights, nil
}

func writeLights(w *iox.Writer, lights []Light) error {
	for i := range lights {
		light := &lights[i]
		data := make([]byte, lightSize)
		le.PutUint32(data[0:], light.Unk00)
		le.PutUint32(data[4:], light.Unk04)
		le.PutUint32(data[8:], light.Unk08)
		le.PutUint32(data[12:], uint32(len(light.Extra)))
		le.PutUint32(data[16:], light.Unk16)
		le.PutUint32(data[20:], light.Unk20)
		le.PutUint32(data[24:], light.Unk24)
		putF32(data[28:], light.Unk28)
		putF32(data[32:], light.Unk32)
		putF32(data[36:], light.Unk36)
		putF32(data[40:], light.Unk40)
		le.PutUint32(data[44:], uint32(light.Ptr))
		putF32(data[48:], light.Unk48)
		putF32(data[52:], light.Unk52)
		putF32(data[56:], light.Unk56)
		putF32(data[60:], light.Unk60)
		putF32(data[64:], light.Unk64)
		putF32(data[68:], light.Unk68)
		putF32(data[72:], light.Unk72)
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	for i := range lights {
		if err := writeVec3s(w, lights[i].Extra); err != nil {
			return err
		}
	}
	return nil
}

// ReadMeshData reads the mesh data block following a header.
func ReadMeshData(r *iox.Reader, variant Variant, wrapped *Wrapped) (*Mesh, error) {
	mesh := wrapped.Mesh
	var err error
	if mesh.Vertices, err = readVec3s(r, wrapped.VertexCount); err != nil {
		return nil, err
	}
	if mesh.Normals, err = readVec3s(r, wrapped.NormalCount); err != nil {
		return nil, err
	}
	if mesh.Morphs, err = readVec3s(r, wrapped.MorphCount); err != nil {
		return nil, err
	}
	if mesh.Lights, err = readLights(r, wrapped.LightCount); err != nil {
		return nil, err
	}
	if mesh.Polygons, err = readPolygons(r, variant, wrapped.PolygonCount); err != nil {
		return nil, err
	}
	return &mesh, nil
}

// WriteMeshData writes the mesh data block.
func WriteMeshData(w *iox.Writer, variant Variant, mesh *Mesh) error {
	if err := writeVec3s(w, mesh.Vertices); err != nil {
		return err
	}
	if err := writeVec3s(w, mesh.Normals); err != nil {
		return err
	}
	if err := writeVec3s(w, mesh.Morphs); err != nil {
		return err
	}
	if err := writeLights(w, mesh.Lights); err != nil {
		return err
	}
	return writePolygons(w, variant, mesh.Polygons)
}

// SizeMeshData returns the byte size of a mesh's data block.
func SizeMeshData(variant Variant, mesh *Mesh) uint32 {
	size := uint32(prim.Vec3Size) * uint32(len(mesh.Vertices)+len(mesh.Normals)+len(mesh.Morphs))
	for i := range mesh.Lights {
		size += lightSize + uint32(prim.Vec3Size)*uint32(len(mesh.Lights[i].Extra))
	}
	for i := range mesh.Polygons {
		size += sizePolygon(variant, &mesh.Polygons[i])
	}
	return size
}

func polygonSize(variant Variant) int {
	switch variant {
	case VariantPM:
		return polygonSizePM
	case VariantRC:
		return polygonSizeRC
	}
	return polygonSizeMW
}

func sizePolygon(variant Variant, polygon *Polygon) uint32 {
	size := uint32(polygonSize(variant))
	size += 4 * uint32(len(polygon.VertexIndices))
	size += 4 * uint32(len(polygon.NormalIndices))
	if variant == VariantPM {
		for _, tex := range polygon.Textures {
			size += 4 + uint32(prim.Vec2Size)*uint32(len(tex.UvCoords))
		}
	} else {
		size += uint32(prim.Vec2Size) * uint32(len(polygon.UvCoords))
	}
	size += uint32(prim.Vec3Size) * uint32(len(polygon.VertexColors))
	return size
}
