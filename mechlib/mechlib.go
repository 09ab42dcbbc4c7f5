// Package mechlib implements the model-library codec. Unlike scene files,
// a mechlib model embeds each object3d node's mesh directly after the node
// and recurses through children inline; parent/child index arrays are not
// serialized. Materials store their texture name inline instead of an
// index.
package mechlib

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/materials"
	"github.com/mechres/zbd/mesh"
	"github.com/mechres/zbd/nodes"
)

// Format and version sentinels stored in the library's companion entries.
const (
	Format    uint32 = 1
	VersionMW uint32 = 27
	VersionPM uint32 = 41
)

// Node is one model node: the scene-graph node plus its children and an
// optional mesh index into the model's mesh list.
type Node struct {
	nodes.Node
	// MeshIndex is the index into Model.Meshes, or -1.
	MeshIndex int32  `json:"mesh_index"`
	Children  []Node `json:"children"`
}

// Model is one decoded mechlib model: the node tree plus the flattened
// mesh list and the original mesh pointers for round-tripping.
type Model struct {
	Root     Node        `json:"root"`
	Meshes   []mesh.Mesh `json:"meshes"`
	MeshPtrs []int32     `json:"mesh_ptrs"`
}

// ReadFormat validates the library's format entry.
func ReadFormat(r *iox.Reader) error {
	format, err := r.ReadU32()
	if err != nil {
		return err
	}
	if err := assert.Equal("mechlib format", Format, format, r.Prev); err != nil {
		return err
	}
	return r.AssertEnd()
}

// WriteFormat writes the format entry.
func WriteFormat(w *iox.Writer) error {
	return w.WriteU32(Format)
}

// ReadVersion validates the library's version entry.
func ReadVersion(r *iox.Reader, variant nodes.Variant) error {
	actual, err := r.ReadU32()
	if err != nil {
		return err
	}
	expected := VersionMW
	if variant != nodes.VariantMW {
		expected = VersionPM
	}
	if err := assert.Equal("mechlib version", expected, actual, r.Prev); err != nil {
		return err
	}
	return r.AssertEnd()
}

// WriteVersion writes the version entry.
func WriteVersion(w *iox.Writer, variant nodes.Variant) error {
	if variant != nodes.VariantMW {
		return w.WriteU32(VersionPM)
	}
	return w.WriteU32(VersionMW)
}

// ReadMaterials reads the library's material list. Mechlib materials
// cannot have cycled textures; textured ones store the texture name
// immediately after the record.
func ReadMaterials(r *iox.Reader) ([]materials.Material, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	result := make([]materials.Material, 0, count)
	for i := uint32(0); i < count; i++ {
		raw, err := materials.ReadMaterial(r)
		if err != nil {
			return nil, err
		}
		if raw.Textured {
			if raw.CyclePtr != nil {
				return nil, errs.New("mechlib material cycle ptr", "to be absent", r.Prev+36)
			}
			texture, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			result = append(result, materials.Material{Textured: &materials.TexturedMaterial{
				Texture: texture,
				Pointer: raw.Pointer,
				Unk32:   raw.Unk32,
			}})
		} else {
			colored := raw.Colored
			result = append(result, materials.Material{Colored: &colored})
		}
	}
	if err := r.AssertEnd(); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteMaterials writes the library's material list.
func WriteMaterials(w *iox.Writer, mats []materials.Material) error {
	if err := w.WriteU32(uint32(len(mats))); err != nil {
		return err
	}
	for i := range mats {
		material := &mats[i]
		if material.Textured != nil && material.Textured.Cycle != nil {
			return errs.New("mechlib material cycle", "to be absent", w.Offset)
		}
		if err := materials.WriteMaterial(w, material, nil); err != nil {
			return err
		}
		if material.Textured != nil {
			if err := w.WriteString(material.Textured.Texture); err != nil {
				return err
			}
		}
	}
	return nil
}

func readNodeAndMesh(r *iox.Reader, variant nodes.Variant, model *Model) (Node, error) {
	base, err := nodes.ReadNodeMechlib(r, variant)
	if err != nil {
		return Node{}, err
	}
	node := Node{Node: *base, MeshIndex: -1}

	// the mesh-index field carries the mesh pointer; preserve it and
	// store the flattened index instead
	meshPtr := node.Info.MeshIndex
	if meshPtr != 0 {
		node.MeshIndex = int32(len(model.Meshes))
		model.MeshPtrs = append(model.MeshPtrs, meshPtr)
		wrapped, err := mesh.ReadMeshInfo(r, meshVariant(variant))
		if err != nil {
			return Node{}, err
		}
		m, err := mesh.ReadMeshData(r, meshVariant(variant), wrapped)
		if err != nil {
			return Node{}, err
		}
		model.Meshes = append(model.Meshes, *m)
	}

	node.Children = make([]Node, 0, node.Info.ChildrenCount)
	for i := uint32(0); i < node.Info.ChildrenCount; i++ {
		child, err := readNodeAndMesh(r, variant, model)
		if err != nil {
			return Node{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func meshVariant(variant nodes.Variant) mesh.Variant {
	if variant == nodes.VariantMW {
		return mesh.VariantMW
	}
	return mesh.VariantPM
}

// ReadModel reads one model file.
func ReadModel(r *iox.Reader, variant nodes.Variant) (*Model, error) {
	model := &Model{}
	root, err := readNodeAndMesh(r, variant, model)
	if err != nil {
		return nil, err
	}
	model.Root = root
	if err := r.AssertEnd(); err != nil {
		return nil, err
	}
	return model, nil
}

func writeNodeAndMesh(w *iox.Writer, variant nodes.Variant, node *Node, model *Model) error {
	// restore the original mesh pointer before the header is written
	info := node.Info
	if node.MeshIndex > -1 {
		info.MeshIndex = model.MeshPtrs[node.MeshIndex]
	} else {
		info.MeshIndex = 0
	}
	if err := nodes.WriteNodeInfo(w, variant, &info); err != nil {
		return err
	}
	if err := nodes.WriteNodeData(w, &node.Node); err != nil {
		return err
	}
	if node.MeshIndex > -1 {
		m := &model.Meshes[node.MeshIndex]
		if err := mesh.WriteMeshInfo(w, meshVariant(variant), m); err != nil {
			return err
		}
		if err := mesh.WriteMeshData(w, meshVariant(variant), m); err != nil {
			return err
		}
	}
	for i := range node.Children {
		if err := writeNodeAndMesh(w, variant, &node.Children[i], model); err != nil {
			return err
		}
	}
	return nil
}

// WriteModel writes one model file.
func WriteModel(w *iox.Writer, variant nodes.Variant, model *Model) error {
	return writeNodeAndMesh(w, variant, &model.Root, model)
}
