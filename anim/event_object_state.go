package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// ObjectActiveState activates or deactivates a node.
//
// On disk (8 bytes):
//
//	nodeIndex u32 // 0, 0 allows INPUT_NODE
//	state     u32 // 4, bool
type ObjectActiveState struct {
	Node  string `json:"node"`
	State bool   `json:"state"`
}

const objectActiveStateSize = 8

func (*ObjectActiveState) Kind() uint8         { return KindObjectActiveState }
func (*ObjectActiveState) PayloadSize() uint32 { return objectActiveStateSize }

func readObjectActiveState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectActiveStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	node, err := ctx.NodeFromIndexOrInput(int(le.Uint32(data[0:])), base+0)
	if err != nil {
		return nil, err
	}
	state, err := assert.Bool("object active state", le.Uint32(data[4:]), base+4)
	if err != nil {
		return nil, err
	}
	return &ObjectActiveState{Node: node, State: state}, nil
}

func (s *ObjectActiveState) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndexOrInput(s.Node)
	if err != nil {
		return err
	}
	data := make([]byte, objectActiveStateSize)
	le.PutUint32(data[0:], uint32(nodeIndex))
	le.PutUint32(data[4:], boolToU32(s.State))
	return w.WriteAll(data)
}

// ObjectTranslateState repositions a node.
//
// On disk (20 bytes):
//
//	atNodeMatrix u32  // 0, must be 0
//	translate    Vec3 // 4
//	nodeIndex    u32  // 16, < 1 decodes as INPUT_NODE
//
// The raw node index is preserved because values below 1 vary between files.
type ObjectTranslateState struct {
	Node      string    `json:"node"`
	Translate prim.Vec3 `json:"translate"`
	NodeIndex int32     `json:"node_index"`
}

const objectTranslateStateSize = 20

func (*ObjectTranslateState) Kind() uint8         { return KindObjectTranslateState }
func (*ObjectTranslateState) PayloadSize() uint32 { return objectTranslateStateSize }

func readObjectTranslateState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectTranslateStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("object translate state field 00", uint32(0), le.Uint32(data[0:]), base+0); err != nil {
		return nil, err
	}
	nodeIndex := int32(le.Uint32(data[16:]))
	var node string
	if nodeIndex < 1 {
		node = InputNode
	} else {
		node, err = ctx.NodeFromIndex(int(nodeIndex), base+16)
		if err != nil {
			return nil, err
		}
	}
	return &ObjectTranslateState{
		Node:      node,
		Translate: prim.GetVec3(data[4:]),
		NodeIndex: nodeIndex,
	}, nil
}

func (s *ObjectTranslateState) write(w *iox.Writer, _ *AnimDef) error {
	data := make([]byte, objectTranslateStateSize)
	prim.PutVec3(data[4:], s.Translate)
	le.PutUint32(data[16:], uint32(s.NodeIndex))
	return w.WriteAll(data)
}

// ObjectScaleState rescales a node.
//
// On disk (16 bytes):
//
//	nodeIndex u32  // 0
//	scale     Vec3 // 4
type ObjectScaleState struct {
	Node  string    `json:"node"`
	Scale prim.Vec3 `json:"scale"`
}

const objectScaleStateSize = 16

func (*ObjectScaleState) Kind() uint8         { return KindObjectScaleState }
func (*ObjectScaleState) PayloadSize() uint32 { return objectScaleStateSize }

func readObjectScaleState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectScaleStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[0:])), base+0)
	if err != nil {
		return nil, err
	}
	return &ObjectScaleState{Node: node, Scale: prim.GetVec3(data[4:])}, nil
}

func (s *ObjectScaleState) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(s.Node)
	if err != nil {
		return err
	}
	data := make([]byte, objectScaleStateSize)
	le.PutUint32(data[0:], uint32(nodeIndex))
	prim.PutVec3(data[4:], s.Scale)
	return w.WriteAll(data)
}

// RotateBasis selects what an ObjectRotateState rotation is relative to.
type RotateBasis uint32

// Rotate basis variants, in on-disk tag order.
const (
	RotateBasisAbsolute     RotateBasis = 0
	RotateBasisRelative     RotateBasis = 1
	RotateBasisAtNodeMatrix RotateBasis = 2
	RotateBasisAtNodeXYZ    RotateBasis = 4
)

// ObjectRotateState rotates a camera or object3d node.
//
// On disk (24 bytes):
//
//	basis       u32  // 0
//	rotation    Vec3 // 4, radians
//	nodeIndex   u32  // 16, the rotated node
//	atNodeIndex u32  // 20, only for the at-node bases, else 0
type ObjectRotateState struct {
	Node  string      `json:"node"`
	State prim.Vec3   `json:"state"`
	Basis RotateBasis `json:"basis"`
	// AtNode is the reference node for the at-node bases.
	AtNode string `json:"at_node,omitempty"`
}

const objectRotateStateSize = 24

func (*ObjectRotateState) Kind() uint8         { return KindObjectRotateState }
func (*ObjectRotateState) PayloadSize() uint32 { return objectRotateStateSize }

func readObjectRotateState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectRotateStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	basis := le.Uint32(data[0:])
	if err := assert.In("object rotate state basis", []uint32{0, 1, 2, 4}, basis, base+0); err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[16:])), base+16)
	if err != nil {
		return nil, err
	}
	state := &ObjectRotateState{
		Node:  node,
		State: prim.GetVec3(data[4:]),
		Basis: RotateBasis(basis),
	}
	atNodeIndex := le.Uint32(data[20:])
	switch state.Basis {
	case RotateBasisAtNodeMatrix, RotateBasisAtNodeXYZ:
		state.AtNode, err = ctx.NodeFromIndexOrInput(int(atNodeIndex), base+20)
		if err != nil {
			return nil, err
		}
	default:
		if err := assert.Equal("object rotate state at node index", uint32(0), atNodeIndex, base+20); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *ObjectRotateState) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(s.Node)
	if err != nil {
		return err
	}
	data := make([]byte, objectRotateStateSize)
	le.PutUint32(data[0:], uint32(s.Basis))
	prim.PutVec3(data[4:], s.State)
	le.PutUint32(data[16:], uint32(nodeIndex))
	switch s.Basis {
	case RotateBasisAtNodeMatrix, RotateBasisAtNodeXYZ:
		atNodeIndex, err := ctx.NodeToIndexOrInput(s.AtNode)
		if err != nil {
			return err
		}
		le.PutUint32(data[20:], uint32(atNodeIndex))
	}
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindObjectActiveState, objectActiveStateSize, readObjectActiveState)
	registerEvent(KindObjectTranslateState, objectTranslateStateSize, readObjectTranslateState)
	registerEvent(KindObjectScaleState, objectScaleStateSize, readObjectScaleState)
	registerEvent(KindObjectRotateState, objectRotateStateSize, readObjectRotateState)
}
