package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
)

// ObjectOpacityState sets a node's opacity and its is-set tracking state.
//
// On disk (12 bytes):
//
//	isSet     u16 // 0, bool
//	state     u16 // 2, bool
//	opacity   f32 // 4, 0..=1 when set, else zero
//	nodeIndex u32 // 8, 0 allows INPUT_NODE
type ObjectOpacityState struct {
	Name    string   `json:"name"`
	State   bool     `json:"state"`
	Opacity *float32 `json:"opacity,omitempty"`
}

const objectOpacityStateSize = 12

func (*ObjectOpacityState) Kind() uint8         { return KindObjectOpacityState }
func (*ObjectOpacityState) PayloadSize() uint32 { return objectOpacityStateSize }

func readObjectOpacityState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectOpacityStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	isSet, err := assert.Bool("object opacity is set", le.Uint16(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	state, err := assert.Bool("object opacity state", le.Uint16(data[2:]), base+2)
	if err != nil {
		return nil, err
	}
	opacity := f32(data[4:])
	var opacityOpt *float32
	if isSet {
		if err := assert.Between("object opacity", float32(0), float32(1), opacity, base+4); err != nil {
			return nil, err
		}
		opacityOpt = &opacity
	} else if err := assert.Equal("object opacity", float32(0), opacity, base+4); err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndexOrInput(int(le.Uint32(data[8:])), base+8)
	if err != nil {
		return nil, err
	}
	return &ObjectOpacityState{Name: node, State: state, Opacity: opacityOpt}, nil
}

func (s *ObjectOpacityState) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndexOrInput(s.Name)
	if err != nil {
		return err
	}
	data := make([]byte, objectOpacityStateSize)
	if s.Opacity != nil {
		le.PutUint16(data[0:], 1)
		putF32(data[4:], *s.Opacity)
	}
	le.PutUint16(data[2:], boolToU16(s.State))
	le.PutUint32(data[8:], uint32(nodeIndex))
	return w.WriteAll(data)
}

// ObjectOpacityFromTo fades a node between two opacities.
//
// On disk (24 bytes):
//
//	nodeIndex u32 // 0
//	fromState i16 // 4, -1, 0 or 1
//	toState   i16 // 6, -1, 0 or 1
//	fromValue f32 // 8, 0..=1
//	toValue   f32 // 12, 0..=1
//	delta     f32 // 16, preserved verbatim
//	runTime   f32 // 20, > 0
//
// The on-disk delta is only roughly (to-from)/runTime, so it is preserved
// rather than recomputed.
type ObjectOpacityFromTo struct {
	Node        string  `json:"node"`
	FromState   int16   `json:"from_state"`
	ToState     int16   `json:"to_state"`
	FromOpacity float32 `json:"from_opacity"`
	ToOpacity   float32 `json:"to_opacity"`
	Delta       float32 `json:"delta"`
	RunTime     float32 `json:"run_time"`
}

const objectOpacityFromToSize = 24

func (*ObjectOpacityFromTo) Kind() uint8         { return KindObjectOpacityFromTo }
func (*ObjectOpacityFromTo) PayloadSize() uint32 { return objectOpacityFromToSize }

func readObjectOpacityFromTo(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectOpacityFromToSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[0:])), base+0)
	if err != nil {
		return nil, err
	}
	fromState := int16(le.Uint16(data[4:]))
	toState := int16(le.Uint16(data[6:]))
	if err := assert.In("object opacity from state", []int16{-1, 0, 1}, fromState, base+4); err != nil {
		return nil, err
	}
	if err := assert.In("object opacity to state", []int16{-1, 0, 1}, toState, base+6); err != nil {
		return nil, err
	}
	fromValue := f32(data[8:])
	toValue := f32(data[12:])
	if err := assert.Between("object opacity from value", float32(0), float32(1), fromValue, base+8); err != nil {
		return nil, err
	}
	if err := assert.Between("object opacity to value", float32(0), float32(1), toValue, base+12); err != nil {
		return nil, err
	}
	runTime := f32(data[20:])
	if err := assert.Greater("object opacity run time", float32(0), runTime, base+20); err != nil {
		return nil, err
	}
	return &ObjectOpacityFromTo{
		Node:        node,
		FromState:   fromState,
		ToState:     toState,
		FromOpacity: fromValue,
		ToOpacity:   toValue,
		Delta:       f32(data[16:]),
		RunTime:     runTime,
	}, nil
}

func (o *ObjectOpacityFromTo) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(o.Node)
	if err != nil {
		return err
	}
	data := make([]byte, objectOpacityFromToSize)
	le.PutUint32(data[0:], uint32(nodeIndex))
	le.PutUint16(data[4:], uint16(o.FromState))
	le.PutUint16(data[6:], uint16(o.ToState))
	putF32(data[8:], o.FromOpacity)
	putF32(data[12:], o.ToOpacity)
	putF32(data[16:], o.Delta)
	putF32(data[20:], o.RunTime)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindObjectOpacityState, objectOpacityStateSize, readObjectOpacityState)
	registerEvent(KindObjectOpacityFromTo, objectOpacityFromToSize, readObjectOpacityFromTo)
}
