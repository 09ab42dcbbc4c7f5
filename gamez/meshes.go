package gamez

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/mesh"
)

// meshesInfoSize: arraySize i32, count i32, indexMax i32.
const meshesInfoSize = 12

// readMeshes reads the mesh section: the array info, the used slots (each
// header followed by the u32 offset of its data block), the zero-filled
// slots, then the data blocks in order.
func readMeshes(r *iox.Reader) ([]mesh.Mesh, int32, error) {
	data, err := r.ReadBytes(meshesInfoSize)
	if err != nil {
		return nil, 0, err
	}
	base := r.Prev
	arraySize := int32(le.Uint32(data[0:]))
	count := int32(le.Uint32(data[4:]))
	if err := assert.Between("mesh count", int32(0), arraySize, count, base+4); err != nil {
		return nil, 0, err
	}
	if err := assert.Equal("mesh index max", count, int32(le.Uint32(data[8:])), base+8); err != nil {
		return nil, 0, err
	}

	wrappeds := make([]*mesh.Wrapped, count)
	offsets := make([]uint32, count)
	for i := range wrappeds {
		wrapped, err := mesh.ReadMeshInfo(r, mesh.VariantMW)
		if err != nil {
			return nil, 0, err
		}
		wrappeds[i] = wrapped
		if offsets[i], err = r.ReadU32(); err != nil {
			return nil, 0, err
		}
	}
	if err := mesh.ReadMeshInfoZero(r, mesh.VariantMW, count, arraySize); err != nil {
		return nil, 0, err
	}

	meshes := make([]mesh.Mesh, count)
	for i, wrapped := range wrappeds {
		if err := assert.Equal("mesh data offset", offsets[i], r.Offset, r.Offset); err != nil {
			return nil, 0, err
		}
		m, err := mesh.ReadMeshData(r, mesh.VariantMW, wrapped)
		if err != nil {
			return nil, 0, err
		}
		meshes[i] = *m
	}
	return meshes, arraySize, nil
}

func writeMeshes(w *iox.Writer, meshes []mesh.Mesh, arraySize int32, sectionOffset uint32) error {
	data := make([]byte, meshesInfoSize)
	count := int32(len(meshes))
	le.PutUint32(data[0:], uint32(arraySize))
	le.PutUint32(data[4:], uint32(count))
	le.PutUint32(data[8:], uint32(count))
	if err := w.WriteAll(data); err != nil {
		return err
	}

	// data blocks start after all slots
	offset := sectionOffset + meshesInfoSize +
		uint32(arraySize)*(mesh.MeshInfoSize(mesh.VariantMW)+4)
	for i := range meshes {
		if err := mesh.WriteMeshInfo(w, mesh.VariantMW, &meshes[i]); err != nil {
			return err
		}
		if err := w.WriteU32(offset); err != nil {
			return err
		}
		offset += mesh.SizeMeshData(mesh.VariantMW, &meshes[i])
	}
	if err := mesh.WriteMeshInfoZero(w, mesh.VariantMW, count, arraySize); err != nil {
		return err
	}
	for i := range meshes {
		if err := mesh.WriteMeshData(w, mesh.VariantMW, &meshes[i]); err != nil {
			return err
		}
	}
	return nil
}

func sizeMeshes(arraySize int32, meshes []mesh.Mesh) uint32 {
	size := uint32(meshesInfoSize) + uint32(arraySize)*(mesh.MeshInfoSize(mesh.VariantMW)+4)
	for i := range meshes {
		size += mesh.SizeMeshData(mesh.VariantMW, &meshes[i])
	}
	return size
}
