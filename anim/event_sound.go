package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Sound plays a static sound at a node.
//
// On disk (16 bytes):
//
//	soundIndex  u16  // 0, 1-based into the static-sound table
//	nodeIndex   u16  // 2, 1-based into the node table
//	translation Vec3 // 4
type Sound struct {
	Name   string `json:"name"`
	AtNode AtNode `json:"at_node"`
}

const soundSize = 16

func (*Sound) Kind() uint8         { return KindSound }
func (*Sound) PayloadSize() uint32 { return soundSize }

func readSound(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(soundSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := ctx.SoundFromIndex(int(le.Uint16(data[0:])), base+0)
	if err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint16(data[2:])), base+2)
	if err != nil {
		return nil, err
	}
	return &Sound{
		Name:   name,
		AtNode: AtNode{Node: node, Translation: prim.GetVec3(data[4:])},
	}, nil
}

func (s *Sound) write(w *iox.Writer, ctx *AnimDef) error {
	soundIndex, err := ctx.SoundToIndex(s.Name)
	if err != nil {
		return err
	}
	nodeIndex, err := ctx.NodeToIndex(s.AtNode.Node)
	if err != nil {
		return err
	}
	data := make([]byte, soundSize)
	le.PutUint16(data[0:], uint16(soundIndex))
	le.PutUint16(data[2:], uint16(nodeIndex))
	prim.PutVec3(data[4:], s.AtNode.Translation)
	return w.WriteAll(data)
}

// SoundNode activates or deactivates a named sound node, optionally
// re-parenting it to a node.
//
// On disk (60 bytes):
//
//	name               [32]u8 // 0, padded
//	one32              u32    // 32, must be 1
//	inheritTranslation u32    // 36, 0 = none, 2 = at node
//	activeState        u32    // 40, bool
//	nodeIndex          u32    // 44
//	translation        Vec3   // 48
type SoundNode struct {
	Name        string  `json:"name"`
	ActiveState bool    `json:"active_state"`
	AtNode      *AtNode `json:"at_node,omitempty"`
}

const soundNodeSize = 60

func (*SoundNode) Kind() uint8         { return KindSoundNode }
func (*SoundNode) PayloadSize() uint32 { return soundNodeSize }

func readSoundNode(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(soundNodeSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("sound node name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("sound node field 32", uint32(1), le.Uint32(data[32:]), base+32); err != nil {
		return nil, err
	}
	inherit := le.Uint32(data[36:])
	if err := assert.In("sound node field 36", []uint32{0, 2}, inherit, base+36); err != nil {
		return nil, err
	}
	activeState, err := assert.Bool("sound node active state", le.Uint32(data[40:]), base+40)
	if err != nil {
		return nil, err
	}

	var atNode *AtNode
	if inherit == 0 {
		if err := assert.Equal("sound node at node index", uint32(0), le.Uint32(data[44:]), base+44); err != nil {
			return nil, err
		}
		if err := assert.Equal("sound node translation", prim.Vec3Default, prim.GetVec3(data[48:]), base+48); err != nil {
			return nil, err
		}
	} else {
		node, err := ctx.NodeFromIndex(int(le.Uint32(data[44:])), base+44)
		if err != nil {
			return nil, err
		}
		atNode = &AtNode{Node: node, Translation: prim.GetVec3(data[48:])}
	}
	return &SoundNode{Name: name, ActiveState: activeState, AtNode: atNode}, nil
}

func (s *SoundNode) write(w *iox.Writer, ctx *AnimDef) error {
	data := make([]byte, soundNodeSize)
	if err := prim.ToPadded(s.Name, data[0:32]); err != nil {
		return err
	}
	le.PutUint32(data[32:], 1)
	le.PutUint32(data[40:], boolToU32(s.ActiveState))
	if s.AtNode != nil {
		nodeIndex, err := ctx.NodeToIndex(s.AtNode.Node)
		if err != nil {
			return err
		}
		le.PutUint32(data[36:], 2)
		le.PutUint32(data[44:], uint32(nodeIndex))
		prim.PutVec3(data[48:], s.AtNode.Translation)
	}
	return w.WriteAll(data)
}

// Effect triggers a named effect at a node.
//
// On disk (48 bytes):
//
//	name        [32]u8 // 0, padded
//	nodeIndex   u32    // 32, 0 allows INPUT_NODE
//	translation Vec3   // 36
type Effect struct {
	Name   string `json:"name"`
	AtNode AtNode `json:"at_node"`
}

const effectSize = 48

func (*Effect) Kind() uint8         { return KindEffect }
func (*Effect) PayloadSize() uint32 { return effectSize }

func readEffect(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(effectSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("effect name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndexOrInput(int(le.Uint32(data[32:])), base+32)
	if err != nil {
		return nil, err
	}
	return &Effect{
		Name:   name,
		AtNode: AtNode{Node: node, Translation: prim.GetVec3(data[36:])},
	}, nil
}

func (e *Effect) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndexOrInput(e.AtNode.Node)
	if err != nil {
		return err
	}
	data := make([]byte, effectSize)
	if err := prim.ToPadded(e.Name, data[0:32]); err != nil {
		return err
	}
	le.PutUint32(data[32:], uint32(nodeIndex))
	prim.PutVec3(data[36:], e.AtNode.Translation)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindSound, soundSize, readSound)
	registerEvent(KindSoundNode, soundNodeSize, readSoundNode)
	registerEvent(KindEffect, effectSize, readEffect)
}
