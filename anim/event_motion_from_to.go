package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// ObjectMotionFromTo flag word.
const (
	omftMorph     uint32 = 1 << 0
	omftTranslate uint32 = 1 << 1
	omftRotate    uint32 = 1 << 2
	omftScale     uint32 = 1 << 3
)

const omftValid = omftMorph | omftTranslate | omftRotate | omftScale

// ObjectMotionFromTo interpolates a node between two states over a run time.
//
// On disk (128 bytes):
//
//	flags          u32  // 000
//	nodeIndex      u32  // 004
//	runTime        f32  // 008, > 0
//	morphFrom      f32  // 012, gated
//	morphTo        f32  // 016, gated
//	translateFrom  Vec3 // 020, gated
//	translateTo    Vec3 // 032, gated
//	translateDelta Vec3 // 044, = (to-from)/runTime
//	rotateFrom     Vec3 // 056, gated, radians
//	rotateTo       Vec3 // 068, gated
//	rotateDelta    Vec3 // 080
//	scaleFrom      Vec3 // 092, gated
//	scaleTo        Vec3 // 104, gated
//	scaleDelta     Vec3 // 116
//
// The deltas are normally recomputed on write. Three delta overrides
// (translate, rotate, scale) are kept when historic files carry deltas that
// differ in the last bit.
type ObjectMotionFromTo struct {
	Name      string       `json:"name"`
	RunTime   float32      `json:"run_time"`
	Morph     *FloatFromTo `json:"morph,omitempty"`
	Translate *Vec3FromTo  `json:"translate,omitempty"`
	Rotate    *Vec3FromTo  `json:"rotate,omitempty"`
	Scale     *Vec3FromTo  `json:"scale,omitempty"`
	// Delta overrides, only set when the on-disk delta differs from the
	// recomputed value. Preserved for binary accuracy.
	TranslateDelta *prim.Vec3 `json:"translate_delta,omitempty"`
	RotateDelta    *prim.Vec3 `json:"rotate_delta,omitempty"`
	ScaleDelta     *prim.Vec3 `json:"scale_delta,omitempty"`
}

const objectMotionFromToSize = 128

func (*ObjectMotionFromTo) Kind() uint8         { return KindObjectMotionFromTo }
func (*ObjectMotionFromTo) PayloadSize() uint32 { return objectMotionFromToSize }

func deltaVec3(to, from prim.Vec3, runTime float32) prim.Vec3 {
	return prim.Vec3{
		X: delta(to.X, from.X, runTime),
		Y: delta(to.Y, from.Y, runTime),
		Z: delta(to.Z, from.Z, runTime),
	}
}

func readFromToBlock(name string, data []byte, base uint32, off int, gated bool, runTime float32) (*Vec3FromTo, *prim.Vec3, error) {
	from := prim.GetVec3(data[off:])
	to := prim.GetVec3(data[off+12:])
	actualDelta := prim.GetVec3(data[off+24:])
	if !gated {
		if err := assert.Equal(name+" from", prim.Vec3Default, from, base+uint32(off)); err != nil {
			return nil, nil, err
		}
		if err := assert.Equal(name+" to", prim.Vec3Default, to, base+uint32(off+12)); err != nil {
			return nil, nil, err
		}
		if err := assert.Equal(name+" delta", prim.Vec3Default, actualDelta, base+uint32(off+24)); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
	var override *prim.Vec3
	if expected := deltaVec3(to, from, runTime); expected != actualDelta {
		v := actualDelta
		override = &v
	}
	return &Vec3FromTo{From: from, To: to}, override, nil
}

func readObjectMotionFromTo(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectMotionFromToSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("motion from to flags", omftValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[4:])), base+4)
	if err != nil {
		return nil, err
	}
	runTime := f32(data[8:])
	if err := assert.Greater("motion from to run time", float32(0), runTime, base+8); err != nil {
		return nil, err
	}

	motion := &ObjectMotionFromTo{Name: node, RunTime: runTime}
	if flags&omftMorph != 0 {
		motion.Morph = &FloatFromTo{From: f32(data[12:]), To: f32(data[16:])}
	} else {
		if err := assert.Equal("motion from to morph from", float32(0), f32(data[12:]), base+12); err != nil {
			return nil, err
		}
		if err := assert.Equal("motion from to morph to", float32(0), f32(data[16:]), base+16); err != nil {
			return nil, err
		}
	}
	if motion.Translate, motion.TranslateDelta, err = readFromToBlock(
		"motion from to translate", data, base, 20, flags&omftTranslate != 0, runTime); err != nil {
		return nil, err
	}
	if motion.Rotate, motion.RotateDelta, err = readFromToBlock(
		"motion from to rotate", data, base, 56, flags&omftRotate != 0, runTime); err != nil {
		return nil, err
	}
	if motion.Scale, motion.ScaleDelta, err = readFromToBlock(
		"motion from to scale", data, base, 92, flags&omftScale != 0, runTime); err != nil {
		return nil, err
	}
	return motion, nil
}

func (m *ObjectMotionFromTo) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(m.Name)
	if err != nil {
		return err
	}
	data := make([]byte, objectMotionFromToSize)
	var flags uint32
	le.PutUint32(data[4:], uint32(nodeIndex))
	putF32(data[8:], m.RunTime)

	if m.Morph != nil {
		flags |= omftMorph
		putF32(data[12:], m.Morph.From)
		putF32(data[16:], m.Morph.To)
	}
	putBlock := func(off int, ft *Vec3FromTo, override *prim.Vec3) {
		prim.PutVec3(data[off:], ft.From)
		prim.PutVec3(data[off+12:], ft.To)
		d := deltaVec3(ft.To, ft.From, m.RunTime)
		if override != nil {
			d = *override
		}
		prim.PutVec3(data[off+24:], d)
	}
	if m.Translate != nil {
		flags |= omftTranslate
		putBlock(20, m.Translate, m.TranslateDelta)
	}
	if m.Rotate != nil {
		flags |= omftRotate
		putBlock(56, m.Rotate, m.RotateDelta)
	}
	if m.Scale != nil {
		flags |= omftScale
		putBlock(92, m.Scale, m.ScaleDelta)
	}
	le.PutUint32(data[0:], flags)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindObjectMotionFromTo, objectMotionFromToSize, readObjectMotionFromTo)
}
