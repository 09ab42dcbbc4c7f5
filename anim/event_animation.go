package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// namedEventSize covers the events whose payload is a single padded 32-byte
// name: CallSequence, StopSequence, StopAnimation, ResetAnimation and
// InvalidateAnimation.
const namedEventSize = 32

func readEventName(r *iox.Reader, field string) (string, error) {
	data, err := r.ReadBytes(namedEventSize)
	if err != nil {
		return "", err
	}
	return assert.Ascii(field, r.Prev, func() (string, error) {
		return prim.FromPadded(data)
	})
}

func writeEventName(w *iox.Writer, name string) error {
	data := make([]byte, namedEventSize)
	if err := prim.ToPadded(name, data); err != nil {
		return err
	}
	return w.WriteAll(data)
}

// CallSequence starts a named sequence of the same animation definition.
type CallSequence struct {
	Name string `json:"name"`
}

func (*CallSequence) Kind() uint8         { return KindCallSequence }
func (*CallSequence) PayloadSize() uint32 { return namedEventSize }

func readCallSequence(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	name, err := readEventName(r, "call sequence name")
	if err != nil {
		return nil, err
	}
	return &CallSequence{Name: name}, nil
}

func (c *CallSequence) write(w *iox.Writer, _ *AnimDef) error {
	return writeEventName(w, c.Name)
}

// StopSequence stops a named sequence.
type StopSequence struct {
	Name string `json:"name"`
}

func (*StopSequence) Kind() uint8         { return KindStopSequence }
func (*StopSequence) PayloadSize() uint32 { return namedEventSize }

func readStopSequence(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	name, err := readEventName(r, "stop sequence name")
	if err != nil {
		return nil, err
	}
	return &StopSequence{Name: name}, nil
}

func (s *StopSequence) write(w *iox.Writer, _ *AnimDef) error {
	return writeEventName(w, s.Name)
}

// inputNodeIndex is the sentinel CallAnimation uses to address INPUT_NODE.
const inputNodeIndex uint32 = 65336

// CallAnimation flag word.
const (
	caAtNode      uint16 = 1 << 0
	caTranslation uint16 = 1 << 1
	caRotation    uint16 = 1 << 2
	caWithNode    uint16 = 1 << 3
	caWaitFor     uint16 = 1 << 4
)

const caValid = caAtNode | caTranslation | caRotation | caWithNode | caWaitFor

// CallAnimationParameters is the tagged call-site parameter set: at most one
// of the fields is set.
type CallAnimationParameters struct {
	// AtNode calls with position (and optionally rotation) at a node.
	AtNode *CallAnimationAtNode `json:"at_node,omitempty"`
	// WithNode calls with a node operand and optional position.
	WithNode *CallAnimationWithNode `json:"with_node,omitempty"`
	// TargetNode calls with an operand node only.
	TargetNode string `json:"target_node,omitempty"`
}

// CallAnimationAtNode is the AT_NODE parameter block.
type CallAnimationAtNode struct {
	Node     string     `json:"node"`
	Position *prim.Vec3 `json:"position,omitempty"`
	Rotation *prim.Vec3 `json:"rotation,omitempty"`
}

// CallAnimationWithNode is the WITH_NODE parameter block.
type CallAnimationWithNode struct {
	Node     string     `json:"node"`
	Position *prim.Vec3 `json:"position,omitempty"`
}

// CallAnimation calls another animation definition by name.
//
// On disk (68 bytes):
//
//	name              [32]u8 // 00, padded anim name
//	operandIndex      u16    // 32, node table index, only without AT/WITH
//	flags             u16    // 34
//	animIndex         u16    // 36, runtime cache, must be zero
//	waitForCompletion u16    // 38, anim ref index or 0xFFFF
//	nodeIndex         u32    // 40, 65336 selects INPUT_NODE
//	translation       Vec3   // 44, gated
//	rotation          Vec3   // 56, gated
type CallAnimation struct {
	Name              string                  `json:"name"`
	WaitForCompletion *uint16                 `json:"wait_for_completion,omitempty"`
	Parameters        CallAnimationParameters `json:"parameters"`
}

const callAnimationSize = 68

func (*CallAnimation) Kind() uint8         { return KindCallAnimation }
func (*CallAnimation) PayloadSize() uint32 { return callAnimationSize }

func readCallAnimation(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(callAnimationSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("call animation name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return nil, err
	}
	operandIndex := le.Uint16(data[32:])
	flags, err := assert.Flags("call animation flags", caValid, le.Uint16(data[34:]), base+34)
	if err != nil {
		return nil, err
	}
	// this is used to store the index of the animation to call once loaded
	if err := assert.Equal("call animation anim index", uint16(0), le.Uint16(data[36:]), base+36); err != nil {
		return nil, err
	}

	call := &CallAnimation{Name: name}
	waitFor := le.Uint16(data[38:])
	if flags&caWaitFor != 0 {
		maxPrevRef := len(ctx.AnimRefs)
		if maxPrevRef == 0 {
			return nil, errs.New("call animation wait for", "to have anim refs", base+38)
		}
		if err := assert.Less("call animation wait for", uint16(maxPrevRef), waitFor, base+38); err != nil {
			return nil, err
		}
		call.WaitForCompletion = &waitFor
	} else if err := assert.Equal("call animation wait for", uint16(0xFFFF), waitFor, base+38); err != nil {
		return nil, err
	}

	var translation, rotation *prim.Vec3
	if translation, err = gatedVec3("call animation translation",
		flags&caTranslation != 0, prim.GetVec3(data[44:]), base+44); err != nil {
		return nil, err
	}
	if rotation, err = gatedVec3("call animation rotation",
		flags&caRotation != 0, prim.GetVec3(data[56:]), base+56); err != nil {
		return nil, err
	}

	nodeIndex := le.Uint32(data[40:])
	withNode := flags&caWithNode != 0
	switch {
	case flags&caAtNode != 0:
		if err := assert.Equal("call animation with node", false, withNode, base+34); err != nil {
			return nil, err
		}
		if err := assert.Equal("call animation operand index", uint16(0), operandIndex, base+32); err != nil {
			return nil, err
		}
		var node string
		if nodeIndex == inputNodeIndex {
			node = InputNode
		} else if node, err = ctx.NodeFromIndex(int(nodeIndex), base+40); err != nil {
			return nil, err
		}
		call.Parameters.AtNode = &CallAnimationAtNode{Node: node, Position: translation, Rotation: rotation}
	case withNode:
		if rotation != nil {
			return nil, errs.New("call animation rotation", "to be absent with WITH_NODE", base+34)
		}
		if err := assert.Equal("call animation operand index", uint16(0), operandIndex, base+32); err != nil {
			return nil, err
		}
		node, err := ctx.NodeFromIndex(int(nodeIndex), base+40)
		if err != nil {
			return nil, err
		}
		call.Parameters.WithNode = &CallAnimationWithNode{Node: node, Position: translation}
	default:
		if translation != nil {
			return nil, errs.New("call animation translation", "to be absent without AT_NODE/WITH_NODE", base+34)
		}
		if rotation != nil {
			return nil, errs.New("call animation rotation", "to be absent without AT_NODE/WITH_NODE", base+34)
		}
		if err := assert.Equal("call animation node index", uint32(0), nodeIndex, base+40); err != nil {
			return nil, err
		}
		// OPERAND_NODE may be used but doesn't need to be
		if operandIndex != 0 {
			operand, err := ctx.NodeFromIndex(int(operandIndex), base+32)
			if err != nil {
				return nil, err
			}
			call.Parameters.TargetNode = operand
		}
	}
	return call, nil
}

func (c *CallAnimation) write(w *iox.Writer, ctx *AnimDef) error {
	data := make([]byte, callAnimationSize)
	if err := prim.ToPadded(c.Name, data[0:32]); err != nil {
		return err
	}
	var flags uint16
	if c.WaitForCompletion != nil {
		flags |= caWaitFor
		le.PutUint16(data[38:], *c.WaitForCompletion)
	} else {
		le.PutUint16(data[38:], 0xFFFF)
	}

	switch {
	case c.Parameters.AtNode != nil:
		flags |= caAtNode
		at := c.Parameters.AtNode
		var nodeIndex uint32
		if at.Node == InputNode {
			nodeIndex = inputNodeIndex
		} else {
			index, err := ctx.NodeToIndex(at.Node)
			if err != nil {
				return err
			}
			nodeIndex = uint32(index)
		}
		le.PutUint32(data[40:], nodeIndex)
		if at.Position != nil {
			flags |= caTranslation
			prim.PutVec3(data[44:], *at.Position)
		}
		if at.Rotation != nil {
			flags |= caRotation
			prim.PutVec3(data[56:], *at.Rotation)
		}
	case c.Parameters.WithNode != nil:
		flags |= caWithNode
		with := c.Parameters.WithNode
		index, err := ctx.NodeToIndex(with.Node)
		if err != nil {
			return err
		}
		le.PutUint32(data[40:], uint32(index))
		if with.Position != nil {
			flags |= caTranslation
			prim.PutVec3(data[44:], *with.Position)
		}
	case c.Parameters.TargetNode != "":
		index, err := ctx.NodeToIndex(c.Parameters.TargetNode)
		if err != nil {
			return err
		}
		le.PutUint16(data[32:], uint16(index))
	}
	le.PutUint16(data[34:], flags)
	return w.WriteAll(data)
}

// StopAnimation stops a named animation.
type StopAnimation struct {
	Name string `json:"name"`
}

func (*StopAnimation) Kind() uint8         { return KindStopAnimation }
func (*StopAnimation) PayloadSize() uint32 { return namedEventSize }

func readStopAnimation(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	name, err := readEventName(r, "stop animation name")
	if err != nil {
		return nil, err
	}
	return &StopAnimation{Name: name}, nil
}

func (s *StopAnimation) write(w *iox.Writer, _ *AnimDef) error {
	return writeEventName(w, s.Name)
}

// ResetAnimation resets a named animation.
type ResetAnimation struct {
	Name string `json:"name"`
}

func (*ResetAnimation) Kind() uint8         { return KindResetAnimation }
func (*ResetAnimation) PayloadSize() uint32 { return namedEventSize }

func readResetAnimation(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	name, err := readEventName(r, "reset animation name")
	if err != nil {
		return nil, err
	}
	return &ResetAnimation{Name: name}, nil
}

func (s *ResetAnimation) write(w *iox.Writer, _ *AnimDef) error {
	return writeEventName(w, s.Name)
}

// InvalidateAnimation invalidates a named animation.
type InvalidateAnimation struct {
	Name string `json:"name"`
}

func (*InvalidateAnimation) Kind() uint8         { return KindInvalidateAnimation }
func (*InvalidateAnimation) PayloadSize() uint32 { return namedEventSize }

func readInvalidateAnimation(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	name, err := readEventName(r, "invalidate animation name")
	if err != nil {
		return nil, err
	}
	return &InvalidateAnimation{Name: name}, nil
}

func (s *InvalidateAnimation) write(w *iox.Writer, _ *AnimDef) error {
	return writeEventName(w, s.Name)
}

func init() {
	registerEvent(KindCallSequence, namedEventSize, readCallSequence)
	registerEvent(KindStopSequence, namedEventSize, readStopSequence)
	registerEvent(KindCallAnimation, callAnimationSize, readCallAnimation)
	registerEvent(KindStopAnimation, namedEventSize, readStopAnimation)
	registerEvent(KindResetAnimation, namedEventSize, readResetAnimation)
	registerEvent(KindInvalidateAnimation, namedEventSize, readInvalidateAnimation)
}
