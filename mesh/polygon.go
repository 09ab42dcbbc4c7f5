package mesh

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// vertex_info bit layout. MW and RC store the vertex count in the low 8
// bits; PM/CS use 9 bits. The bits above the count are flags.
const (
	vertexCountMaskMW = 0x0FF
	vertexInfoUnkMW   = 0x100
	vertexInfoVtxMW   = 0x200
	vertexInfoMaxMW   = 0x3FF

	vertexCountMaskPM  = 0x1FF
	vertexInfoNormalPM = 0x200
	vertexInfoStripPM  = 0x400
	vertexInfoMaxPM    = 0x7FF
)

type wrappedPolygon struct {
	polygon      Polygon
	vertsInPoly  uint32
	hasNormals   bool
	hasUvs       bool
	textureCount uint32
}

func readPolygonHeader(r *iox.Reader, variant Variant) (wrappedPolygon, error) {
	data, err := r.ReadBytes(polygonSize(variant))
	if err != nil {
		return wrappedPolygon{}, err
	}
	base := r.Prev
	vertexInfo := le.Uint32(data[0:])
	unk04 := le.Uint32(data[4:])
	if err := assert.Between("polygon field 04", uint32(0), uint32(20), unk04, base+4); err != nil {
		return wrappedPolygon{}, err
	}

	var wrapped wrappedPolygon
	polygon := &wrapped.polygon
	polygon.Unk04 = unk04
	polygon.VerticesPtr = prim.Ptr(le.Uint32(data[8:]))
	polygon.NormalsPtr = prim.Ptr(le.Uint32(data[12:]))
	polygon.UvsPtr = prim.Ptr(le.Uint32(data[16:]))
	polygon.ColorsPtr = prim.Ptr(le.Uint32(data[20:]))
	if err := assert.Unequal("polygon vertices ptr", prim.PtrNull, polygon.VerticesPtr, base+8); err != nil {
		return wrappedPolygon{}, err
	}
	if err := assert.Unequal("polygon colors ptr", prim.PtrNull, polygon.ColorsPtr, base+20); err != nil {
		return wrappedPolygon{}, err
	}

	switch variant {
	case VariantPM:
		if err := assert.Less("polygon vertex info", uint32(vertexInfoMaxPM), vertexInfo, base+0); err != nil {
			return wrappedPolygon{}, err
		}
		wrapped.vertsInPoly = vertexInfo & vertexCountMaskPM
		polygon.VtxBit = vertexInfo&vertexInfoNormalPM != 0
		polygon.UnkBit = vertexInfo&vertexInfoStripPM != 0
		polygon.UnkPtr = prim.Ptr(le.Uint32(data[24:]))
		if err := assert.Unequal("polygon unknown ptr", prim.PtrNull, polygon.UnkPtr, base+24); err != nil {
			return wrappedPolygon{}, err
		}
		wrapped.textureCount = le.Uint32(data[28:])
		if err := assert.Greater("polygon texture count", uint32(0), wrapped.textureCount, base+28); err != nil {
			return wrappedPolygon{}, err
		}
		polygon.TextureInfo = le.Uint32(data[32:])
		if err := assert.Equal("polygon field 36", uint32(0), le.Uint32(data[36:]), base+36); err != nil {
			return wrappedPolygon{}, err
		}
	case VariantRC:
		if err := assert.Less("polygon vertex info", uint32(vertexInfoMaxMW), vertexInfo, base+0); err != nil {
			return wrappedPolygon{}, err
		}
		wrapped.vertsInPoly = vertexInfo & vertexCountMaskMW
		polygon.UnkBit = vertexInfo&vertexInfoUnkMW != 0
		polygon.VtxBit = vertexInfo&vertexInfoVtxMW != 0
		polygon.TextureIndex = le.Uint32(data[24:])
	default:
		if err := assert.Less("polygon vertex info", uint32(vertexInfoMaxMW), vertexInfo, base+0); err != nil {
			return wrappedPolygon{}, err
		}
		wrapped.vertsInPoly = vertexInfo & vertexCountMaskMW
		polygon.UnkBit = vertexInfo&vertexInfoUnkMW != 0
		polygon.VtxBit = vertexInfo&vertexInfoVtxMW != 0
		polygon.UnkPtr = prim.Ptr(le.Uint32(data[24:]))
		if err := assert.Unequal("polygon unknown ptr", prim.PtrNull, polygon.UnkPtr, base+24); err != nil {
			return wrappedPolygon{}, err
		}
		polygon.TextureIndex = le.Uint32(data[28:])
		polygon.TextureInfo = le.Uint32(data[32:])
	}
	if err := assert.Greater("polygon vertex count", uint32(0), wrapped.vertsInPoly, base+0); err != nil {
		return wrappedPolygon{}, err
	}
	wrapped.hasNormals = polygon.VtxBit && !polygon.NormalsPtr.IsNull()
	wrapped.hasUvs = !polygon.UvsPtr.IsNull()
	return wrapped, nil
}

func readPolygons(r *iox.Reader, variant Variant, count uint32) ([]Polygon, error) {
	if count == 0 {
		return nil, nil
	}
	wrappeds := make([]wrappedPolygon, count)
	for i := range wrappeds {
		wrapped, err := readPolygonHeader(r, variant)
		if err != nil {
			return nil, err
		}
		wrappeds[i] = wrapped
	}

	polygons := make([]Polygon, count)
	for i := range wrappeds {
		wrapped := &wrappeds[i]
		polygon := &wrapped.polygon
		var err error
		if polygon.VertexIndices, err = readU32s(r, wrapped.vertsInPoly); err != nil {
			return nil, err
		}
		if wrapped.hasNormals {
			if polygon.NormalIndices, err = readU32s(r, wrapped.vertsInPoly); err != nil {
				return nil, err
			}
		}
		if variant == VariantPM {
			textureIndices, err := readU32s(r, wrapped.textureCount)
			if err != nil {
				return nil, err
			}
			polygon.Textures = make([]PolygonTexture, wrapped.textureCount)
			for t := range polygon.Textures {
				polygon.Textures[t].TextureIndex = textureIndices[t]
			}
			for t := range polygon.Textures {
				if polygon.Textures[t].UvCoords, err = readUvs(r, wrapped.vertsInPoly); err != nil {
					return nil, err
				}
			}
		} else if wrapped.hasUvs {
			if polygon.UvCoords, err = readUvs(r, wrapped.vertsInPoly); err != nil {
				return nil, err
			}
		}
		if polygon.VertexColors, err = readVec3s(r, wrapped.vertsInPoly); err != nil {
			return nil, err
		}
		polygons[i] = *polygon
	}
	return polygons, nil
}

func writePolygonHeader(w *iox.Writer, variant Variant, polygon *Polygon) error {
	data := make([]byte, polygonSize(variant))
	vertexInfo := uint32(len(polygon.VertexIndices))
	switch variant {
	case VariantPM:
		if polygon.VtxBit {
			vertexInfo |= vertexInfoNormalPM
		}
		if polygon.UnkBit {
			vertexInfo |= vertexInfoStripPM
		}
	default:
		if polygon.UnkBit {
			vertexInfo |= vertexInfoUnkMW
		}
		if polygon.VtxBit {
			vertexInfo |= vertexInfoVtxMW
		}
	}
	le.PutUint32(data[0:], vertexInfo)
	le.PutUint32(data[4:], polygon.Unk04)
	le.PutUint32(data[8:], uint32(polygon.VerticesPtr))
	le.PutUint32(data[12:], uint32(polygon.NormalsPtr))
	le.PutUint32(data[16:], uint32(polygon.UvsPtr))
	le.PutUint32(data[20:], uint32(polygon.ColorsPtr))
	switch variant {
	case VariantPM:
		le.PutUint32(data[24:], uint32(polygon.UnkPtr))
		le.PutUint32(data[28:], uint32(len(polygon.Textures)))
		le.PutUint32(data[32:], polygon.TextureInfo)
	case VariantRC:
		le.PutUint32(data[24:], polygon.TextureIndex)
	default:
		le.PutUint32(data[24:], uint32(polygon.UnkPtr))
		le.PutUint32(data[28:], polygon.TextureIndex)
		le.PutUint32(data[32:], polygon.TextureInfo)
	}
	return w.WriteAll(data)
}

func writePolygons(w *iox.Writer, variant Variant, polygons []Polygon) error {
	for i := range polygons {
		if err := writePolygonHeader(w, variant, &polygons[i]); err != nil {
			return err
		}
	}
	for i := range polygons {
		polygon := &polygons[i]
		if err := writeU32s(w, polygon.VertexIndices); err != nil {
			return err
		}
		if polygon.NormalIndices != nil {
			if err := writeU32s(w, polygon.NormalIndices); err != nil {
				return err
			}
		}
		if variant == VariantPM {
			for t := range polygon.Textures {
				if err := w.WriteU32(polygon.Textures[t].TextureIndex); err != nil {
					return err
				}
			}
			for t := range polygon.Textures {
				if err := writeUvs(w, polygon.Textures[t].UvCoords); err != nil {
					return err
				}
			}
		} else if polygon.UvCoords != nil {
			if err := writeUvs(w, polygon.UvCoords); err != nil {
				return err
			}
		}
		if err := writeVec3s(w, polygon.VertexColors); err != nil {
			return err
		}
	}
	return nil
}
