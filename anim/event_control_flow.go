package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
)

// Loop repeats the enclosed events.
//
// On disk (8 bytes):
//
//	start     i32 // 0, must be 1
//	loopCount i32 // 4, -1 = forever
type Loop struct {
	Start     int32 `json:"start"`
	LoopCount int32 `json:"loop_count"`
}

const loopSize = 8

func (*Loop) Kind() uint8         { return KindLoop }
func (*Loop) PayloadSize() uint32 { return loopSize }

func readLoop(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(loopSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	start := int32(le.Uint32(data[0:]))
	if err := assert.Equal("loop start", int32(1), start, base+0); err != nil {
		return nil, err
	}
	return &Loop{Start: start, LoopCount: int32(le.Uint32(data[4:]))}, nil
}

func (l *Loop) write(w *iox.Writer, _ *AnimDef) error {
	data := make([]byte, loopSize)
	le.PutUint32(data[0:], uint32(l.Start))
	le.PutUint32(data[4:], uint32(l.LoopCount))
	return w.WriteAll(data)
}

// ConditionKind selects how an If/ElseIf condition's 4 value bytes decode.
type ConditionKind uint32

// Condition variants, in on-disk tag order.
const (
	ConditionRandomWeight      ConditionKind = 1
	ConditionPlayerRange       ConditionKind = 2
	ConditionAnimationLod      ConditionKind = 4
	ConditionNodeUndercover    ConditionKind = 8
	ConditionHwRender          ConditionKind = 32
	ConditionPlayerFirstPerson ConditionKind = 64
)

// NodeUndercover is the node-undercover condition payload: a packed node
// index and distance in the 4 value bytes.
type NodeUndercover struct {
	NodeIndex uint16 `json:"node_index"`
	Distance  uint16 `json:"distance"`
}

// Condition is the decoded condition of an If or ElseIf: exactly one field
// is set, selected by Kind.
type Condition struct {
	Kind              ConditionKind   `json:"kind"`
	RandomWeight      *float32        `json:"random_weight,omitempty"`
	PlayerRange       *float32        `json:"player_range,omitempty"`
	AnimationLod      *uint32         `json:"animation_lod,omitempty"`
	NodeUndercover    *NodeUndercover `json:"node_undercover,omitempty"`
	HwRender          *bool           `json:"hw_render,omitempty"`
	PlayerFirstPerson *bool           `json:"player_first_person,omitempty"`
}

// ifSize covers If and ElseIf:
//
//	condition u32   // 0
//	zero4     u32   // 4
//	value     [4]u8 // 8, decoded per condition
const ifSize = 12

func readCondition(r *iox.Reader, field string) (Condition, error) {
	data, err := r.ReadBytes(ifSize)
	if err != nil {
		return Condition{}, err
	}
	base := r.Prev
	if err := assert.Equal(field+" field 4", uint32(0), le.Uint32(data[4:]), base+4); err != nil {
		return Condition{}, err
	}
	cond := Condition{Kind: ConditionKind(le.Uint32(data[0:]))}
	value := data[8:12]
	switch cond.Kind {
	case ConditionRandomWeight:
		v := f32(value)
		cond.RandomWeight = &v
	case ConditionPlayerRange:
		v := f32(value)
		cond.PlayerRange = &v
	case ConditionAnimationLod:
		v := le.Uint32(value)
		cond.AnimationLod = &v
	case ConditionNodeUndercover:
		cond.NodeUndercover = &NodeUndercover{
			NodeIndex: le.Uint16(value[0:]),
			Distance:  le.Uint16(value[2:]),
		}
	case ConditionHwRender:
		v, err := assert.Bool(field+" value", le.Uint32(value), base+8)
		if err != nil {
			return Condition{}, err
		}
		cond.HwRender = &v
	case ConditionPlayerFirstPerson:
		v, err := assert.Bool(field+" value", le.Uint32(value), base+8)
		if err != nil {
			return Condition{}, err
		}
		cond.PlayerFirstPerson = &v
	default:
		return Condition{}, errs.Newf(base+0, field+" condition", "to be a valid variant, but was %d", uint32(cond.Kind))
	}
	return cond, nil
}

func writeCondition(w *iox.Writer, cond Condition) error {
	data := make([]byte, ifSize)
	le.PutUint32(data[0:], uint32(cond.Kind))
	value := data[8:12]
	switch cond.Kind {
	case ConditionRandomWeight:
		putF32(value, *cond.RandomWeight)
	case ConditionPlayerRange:
		putF32(value, *cond.PlayerRange)
	case ConditionAnimationLod:
		le.PutUint32(value, *cond.AnimationLod)
	case ConditionNodeUndercover:
		le.PutUint16(value[0:], cond.NodeUndercover.NodeIndex)
		le.PutUint16(value[2:], cond.NodeUndercover.Distance)
	case ConditionHwRender:
		le.PutUint32(value, boolToU32(*cond.HwRender))
	case ConditionPlayerFirstPerson:
		le.PutUint32(value, boolToU32(*cond.PlayerFirstPerson))
	default:
		return errs.Newf(w.Offset, "condition", "to be a valid variant, but was %d", uint32(cond.Kind))
	}
	return w.WriteAll(data)
}

// If opens a conditional block.
type If struct {
	Condition Condition `json:"condition"`
}

func (*If) Kind() uint8         { return KindIf }
func (*If) PayloadSize() uint32 { return ifSize }

func readIf(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	cond, err := readCondition(r, "if")
	if err != nil {
		return nil, err
	}
	return &If{Condition: cond}, nil
}

func (i *If) write(w *iox.Writer, _ *AnimDef) error {
	return writeCondition(w, i.Condition)
}

// ElseIf continues a conditional block. Same layout as If.
type ElseIf struct {
	Condition Condition `json:"condition"`
}

func (*ElseIf) Kind() uint8         { return KindElseIf }
func (*ElseIf) PayloadSize() uint32 { return ifSize }

func readElseIf(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	cond, err := readCondition(r, "else if")
	if err != nil {
		return nil, err
	}
	return &ElseIf{Condition: cond}, nil
}

func (e *ElseIf) write(w *iox.Writer, _ *AnimDef) error {
	return writeCondition(w, e.Condition)
}

// Else has no payload.
type Else struct{}

func (*Else) Kind() uint8                       { return KindElse }
func (*Else) PayloadSize() uint32               { return 0 }
func (*Else) write(*iox.Writer, *AnimDef) error { return nil }

// EndIf closes a conditional block; no payload.
type EndIf struct{}

func (*EndIf) Kind() uint8                       { return KindEndIf }
func (*EndIf) PayloadSize() uint32               { return 0 }
func (*EndIf) write(*iox.Writer, *AnimDef) error { return nil }

// Callback invokes an engine callback. Only legal when the enclosing
// animation definition has callbacks enabled.
type Callback struct {
	Value uint32 `json:"value"`
}

const callbackSize = 4

func (*Callback) Kind() uint8         { return KindCallback }
func (*Callback) PayloadSize() uint32 { return callbackSize }

func readCallback(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	if err := assert.Equal("anim def has callbacks", true, ctx.HasCallbacks, r.Offset); err != nil {
		return nil, err
	}
	value, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return &Callback{Value: value}, nil
}

func (c *Callback) write(w *iox.Writer, _ *AnimDef) error {
	return w.WriteU32(c.Value)
}

func init() {
	registerEvent(KindLoop, loopSize, readLoop)
	registerEvent(KindIf, ifSize, readIf)
	registerEvent(KindElse, 0, func(*iox.Reader, *AnimDef, uint32) (EventData, error) {
		return &Else{}, nil
	})
	registerEvent(KindElseIf, ifSize, readElseIf)
	registerEvent(KindEndIf, 0, func(*iox.Reader, *AnimDef, uint32) (EventData, error) {
		return &EndIf{}, nil
	})
	registerEvent(KindCallback, callbackSize, readCallback)
}
