package gamez

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/materials"
	"github.com/mechres/zbd/mesh"
)

const (
	signature uint32 = 0x02971222
	version   uint32 = 27
)

// Header (36 bytes):
//
//	signature       u32 // 00, 0x02971222
//	version         u32 // 04, 27
//	textureCount    u32 // 08, < 4096
//	texturesOffset  u32 // 12
//	materialsOffset u32 // 16
//	meshesOffset    u32 // 20
//	nodeArraySize   u32 // 24
//	nodeCount       u32 // 28, < nodeArraySize
//	nodesOffset     u32 // 32
const headerSize = 36

const maxTextures = 4096

// Metadata preserves the array sizes needed to reproduce the file.
type Metadata struct {
	MaterialArraySize int16  `json:"material_array_size"`
	MeshArraySize     int32  `json:"mesh_array_size"`
	NodeArraySize     uint32 `json:"node_array_size"`
	NodeDataCount     uint32 `json:"node_data_count"`
}

// GameZ is one decoded scene file.
type GameZ struct {
	Metadata  Metadata             `json:"metadata"`
	Textures  []TextureRef         `json:"textures"`
	Materials []materials.Material `json:"materials"`
	Meshes    []mesh.Mesh          `json:"meshes"`
	Nodes     []GamezNode          `json:"nodes"`
}

// ReadGameZ reads a scene file. Sections appear in the declared order at
// the declared offsets.
func ReadGameZ(r *iox.Reader) (*GameZ, error) {
	data, err := r.ReadBytes(headerSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("gamez signature", signature, le.Uint32(data[0:]), base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("gamez version", version, le.Uint32(data[4:]), base+4); err != nil {
		return nil, err
	}
	textureCount := le.Uint32(data[8:])
	if err := assert.Less("gamez texture count", uint32(maxTextures), textureCount, base+8); err != nil {
		return nil, err
	}
	nodeArraySize := le.Uint32(data[24:])
	nodeCount := le.Uint32(data[28:])
	if err := assert.Less("gamez node count", nodeArraySize, nodeCount, base+28); err != nil {
		return nil, err
	}

	if err := assert.Equal("gamez textures offset", le.Uint32(data[12:]), r.Offset, r.Offset); err != nil {
		return nil, err
	}
	textures, err := readTextureRefs(r, textureCount)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("gamez materials offset", le.Uint32(data[16:]), r.Offset, r.Offset); err != nil {
		return nil, err
	}
	mats, materialArraySize, err := readMaterials(r, textures)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("gamez meshes offset", le.Uint32(data[20:]), r.Offset, r.Offset); err != nil {
		return nil, err
	}
	meshes, meshArraySize, err := readMeshes(r)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("gamez nodes offset", le.Uint32(data[32:]), r.Offset, r.Offset); err != nil {
		return nil, err
	}
	gamezNodes, err := readNodes(r, nodeArraySize)
	if err != nil {
		return nil, err
	}

	return &GameZ{
		Metadata: Metadata{
			MaterialArraySize: materialArraySize,
			MeshArraySize:     meshArraySize,
			NodeArraySize:     nodeArraySize,
			NodeDataCount:     nodeCount,
		},
		Textures:  textures,
		Materials: mats,
		Meshes:    meshes,
		Nodes:     gamezNodes,
	}, nil
}

// WriteGameZ writes a scene file, recomputing the section offsets.
func WriteGameZ(w *iox.Writer, gamez *GameZ) error {
	texturesOffset := uint32(headerSize)
	materialsOffset := texturesOffset + sizeTextureRefs(uint32(len(gamez.Textures)))
	meshesOffset := materialsOffset + sizeMaterials(gamez.Metadata.MaterialArraySize, gamez.Materials)
	nodesOffset := meshesOffset + sizeMeshes(gamez.Metadata.MeshArraySize, gamez.Meshes)

	data := make([]byte, headerSize)
	le.PutUint32(data[0:], signature)
	le.PutUint32(data[4:], version)
	le.PutUint32(data[8:], uint32(len(gamez.Textures)))
	le.PutUint32(data[12:], texturesOffset)
	le.PutUint32(data[16:], materialsOffset)
	le.PutUint32(data[20:], meshesOffset)
	le.PutUint32(data[24:], gamez.Metadata.NodeArraySize)
	le.PutUint32(data[28:], gamez.Metadata.NodeDataCount)
	le.PutUint32(data[32:], nodesOffset)
	if err := w.WriteAll(data); err != nil {
		return err
	}

	if err := writeTextureRefs(w, gamez.Textures); err != nil {
		return err
	}
	if err := writeMaterials(w, gamez.Textures, gamez.Materials, gamez.Metadata.MaterialArraySize); err != nil {
		return err
	}
	if err := writeMeshes(w, gamez.Meshes, gamez.Metadata.MeshArraySize, meshesOffset); err != nil {
		return err
	}
	return writeNodes(w, gamez.Nodes, gamez.Metadata.NodeArraySize, nodesOffset)
}
