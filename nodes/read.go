package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// AssertNodeInfo runs the class-specific constant-expectation table over a
// freshly read header. base is the header's file offset.
func AssertNodeInfo(info *NodeInfo, base uint32) error {
	switch info.Class {
	case ClassEmpty:
		return assertEmptyInfo(info, base)
	case ClassCamera:
		return assertCameraInfo(info, base)
	case ClassWorld:
		return assertWorldInfo(info, base)
	case ClassWindow:
		return assertWindowInfo(info, base)
	case ClassDisplay:
		return assertDisplayInfo(info, base)
	case ClassObject3d:
		return assertObject3dInfo(info, base)
	case ClassLod:
		return assertLodInfo(info, base)
	case ClassLight:
		return assertLightInfo(info, base)
	}
	return errs.Newf(base+52, "node class", "to be a valid variant, but was %d", uint32(info.Class))
}

// ReadNodeData reads the class payload following a node's header and
// attaches it to node.
func ReadNodeData(r *iox.Reader, node *Node) error {
	var err error
	switch node.Info.Class {
	case ClassEmpty:
		// empty nodes carry no data block
	case ClassCamera:
		node.Camera, err = readCamera(r)
	case ClassWorld:
		node.World, err = readWorld(r)
	case ClassWindow:
		node.Window, err = readWindow(r)
	case ClassDisplay:
		node.Display, err = readDisplay(r)
	case ClassObject3d:
		node.Object3d, err = readObject3d(r)
	case ClassLod:
		node.Lod, err = readLod(r)
	case ClassLight:
		node.Light, err = readLight(r)
	}
	return err
}

// WriteNodeData writes the class payload.
func WriteNodeData(w *iox.Writer, node *Node) error {
	switch node.Info.Class {
	case ClassEmpty:
		return nil
	case ClassCamera:
		return writeCamera(w, node.Camera)
	case ClassWorld:
		return writeWorld(w, node.World)
	case ClassWindow:
		return writeWindow(w, node.Window)
	case ClassDisplay:
		return writeDisplay(w, node.Display)
	case ClassObject3d:
		return writeObject3d(w, node.Object3d)
	case ClassLod:
		return writeLod(w, node.Lod)
	case ClassLight:
		return writeLight(w, node.Light)
	}
	return errs.Newf(w.Offset, "node class", "to be a valid variant, but was %d", uint32(node.Info.Class))
}

// ReadNodeIndices reads a node's parent and child index arrays, which
// follow the class payload in scene files. The counts come from the
// header; the array pointers were validated against them on read.
func ReadNodeIndices(r *iox.Reader, node *Node) error {
	if node.Info.HasParent {
		parent, err := r.ReadU32()
		if err != nil {
			return err
		}
		node.Parent = &parent
	}
	if node.Info.ChildrenCount > 0 {
		node.Children = make([]uint32, node.Info.ChildrenCount)
		for i := range node.Children {
			child, err := r.ReadU32()
			if err != nil {
				return err
			}
			node.Children[i] = child
		}
	}
	return nil
}

// WriteNodeIndices writes a node's parent and child index arrays.
func WriteNodeIndices(w *iox.Writer, node *Node) error {
	if node.Info.HasParent {
		if node.Parent == nil {
			return errs.New("node parent", "to be set when the header has a parent", w.Offset)
		}
		if err := w.WriteU32(*node.Parent); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := w.WriteU32(child); err != nil {
			return err
		}
	}
	return nil
}

// ReadNodeInfoZero validates one zero-filled padding slot of a scene
// file's node array, including its free-list index chain value.
func ReadNodeInfoZero(r *iox.Reader, variant Variant) error {
	data, err := r.ReadBytes(int(NodeInfoSize(variant)))
	if err != nil {
		return err
	}
	return assert.AllZero("node zero slot", data, r.Prev)
}

// WriteNodeInfoZero writes one zero-filled padding slot.
func WriteNodeInfoZero(w *iox.Writer, variant Variant) error {
	return w.WriteZeros(int(NodeInfoSize(variant)))
}

// ReadNodeMechlib reads a mechlib node header. Mechlib files carry only
// object3d nodes; the mesh-index field holds a pointer to the embedded
// mesh instead of an array index, and parent/child arrays are not
// serialized (the tree recurses inline through the children count).
func ReadNodeMechlib(r *iox.Reader, variant Variant) (*Node, error) {
	base := r.Offset
	info, err := ReadNodeInfo(r, variant)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("mechlib node class", ClassObject3d, info.Class, base+52); err != nil {
		return nil, err
	}
	if err := assertObject3dInfo(&info, base); err != nil {
		return nil, err
	}
	node := &Node{Info: info}
	if err := ReadNodeData(r, node); err != nil {
		return nil, err
	}
	return node, nil
}

// MeshPointer is the mechlib interpretation of the mesh-index field.
func (n *Node) MeshPointer() prim.Ptr {
	return prim.Ptr(uint32(n.Info.MeshIndex))
}
