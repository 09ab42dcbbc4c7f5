package anim

import (
	"math"

	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

func boolToU32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

func boolToU16(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}

func f32(b []byte) float32 {
	return endian.Float32(le, b)
}

func putF32(b []byte, v float32) {
	endian.PutFloat32(le, b, v)
}

// AtNode is a node reference with a translation, shared by several events.
type AtNode struct {
	Node        string    `json:"node"`
	Translation prim.Vec3 `json:"translation"`
}

// FloatFromTo is a from/to pair of f32.
type FloatFromTo struct {
	From float32 `json:"from"`
	To   float32 `json:"to"`
}

// Vec3FromTo is a from/to pair of Vec3.
type Vec3FromTo struct {
	From prim.Vec3 `json:"from"`
	To   prim.Vec3 `json:"to"`
}

// delta computes the on-disk animation delta (to-from)/runtime in single
// precision, matching the original engine's arithmetic order.
func delta(to, from, runtime float32) float32 {
	return (to - from) / runtime
}

// decF32 returns the next representable float towards negative infinity.
// It reproduces the off-by-one-ULP runtime used by the historic alpha-delta
// exception in FbfxColorFromTo.
func decF32(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) - 1)
}

// Flag-gated optional field helpers. When the gate bit is clear the payload
// region must be all zero; when set, the region is decoded as present.

func gatedBool(name string, gated bool, raw uint32, offset uint32) (*bool, error) {
	if !gated {
		if err := assert.Equal(name, uint32(0), raw, offset); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := assert.Bool(name, raw, offset)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func gatedF32(name string, gated bool, raw float32, offset uint32) (*float32, error) {
	if !gated {
		if err := assert.Equal(name, float32(0), raw, offset); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v := raw
	return &v, nil
}

func gatedVec3(name string, gated bool, raw prim.Vec3, offset uint32) (*prim.Vec3, error) {
	if !gated {
		if err := assert.Equal(name, prim.Vec3Default, raw, offset); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v := raw
	return &v, nil
}

func gatedRange(name string, gated bool, raw prim.Range, offset uint32) (*prim.Range, error) {
	if !gated {
		if err := assert.Equal(name, prim.RangeDefault, raw, offset); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v := raw
	return &v, nil
}

func gatedColor(name string, gated bool, raw prim.Color, offset uint32) (*prim.Color, error) {
	if !gated {
		if err := assert.Equal(name, prim.ColorBlack, raw, offset); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v := raw
	return &v, nil
}
