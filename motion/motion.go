// Package motion implements the skeletal-motion codec: a fixed header,
// then per-part frame data. Each part stores frameCount+1 translations and
// rotations; the extra frame closes the loop, so the first and last frames
// must be equal.
package motion

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

const version uint32 = 4

// Header (24 bytes):
//
//	version    u32 // 00, must be 4
//	loopTime   f32 // 04, > 0
//	frameCount u32 // 08
//	partCount  u32 // 12
//	minusOne   f32 // 16, must be -1.0
//	plusOne    f32 // 20, must be 1.0
const headerSize = 24

// partFlags: 8 = translation, 4 = rotation, 2 = scaling (never stored).
const partFlags uint32 = 12

// Frame is one part's pose at one frame.
type Frame struct {
	Translation prim.Vec3 `json:"translation"`
	Rotation    prim.Vec4 `json:"rotation"`
}

// Part is one named body part with its frames.
type Part struct {
	Name   string  `json:"name"`
	Frames []Frame `json:"frames"`
}

// Motion is one decoded motion file.
type Motion struct {
	LoopTime float32 `json:"loop_time"`
	// Parts preserve file order.
	Parts      []Part `json:"parts"`
	FrameCount uint32 `json:"frame_count"`
}

// ReadMotion reads a motion file.
func ReadMotion(r *iox.Reader) (*Motion, error) {
	data, err := r.ReadBytes(headerSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("motion version", version, le.Uint32(data[0:]), base+0); err != nil {
		return nil, err
	}
	loopTime := endian.Float32(le, data[4:])
	if err := assert.Greater("motion loop time", float32(0), loopTime, base+4); err != nil {
		return nil, err
	}
	if err := assert.Equal("motion field 16", float32(-1.0), endian.Float32(le, data[16:]), base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("motion field 20", float32(1.0), endian.Float32(le, data[20:]), base+20); err != nil {
		return nil, err
	}

	// one extra frame closes the loop
	frameCount := le.Uint32(data[8:]) + 1
	partCount := le.Uint32(data[12:])

	parts := make([]Part, 0, partCount)
	for i := uint32(0); i < partCount; i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("motion part flags", partFlags, flags, r.Prev); err != nil {
			return nil, err
		}

		frames := make([]Frame, frameCount)
		for f := range frames {
			raw, err := r.ReadBytes(prim.Vec3Size)
			if err != nil {
				return nil, err
			}
			frames[f].Translation = prim.GetVec3(raw)
		}
		for f := range frames {
			raw, err := r.ReadBytes(prim.Vec4Size)
			if err != nil {
				return nil, err
			}
			frames[f].Rotation = prim.GetVec4(raw)
		}
		if frameCount > 1 {
			if err := assert.Equal("motion part loop frame", frames[0], frames[frameCount-1], r.Prev); err != nil {
				return nil, err
			}
		}
		parts = append(parts, Part{Name: name, Frames: frames})
	}
	if err := r.AssertEnd(); err != nil {
		return nil, err
	}
	return &Motion{LoopTime: loopTime, Parts: parts, FrameCount: frameCount}, nil
}

// WriteMotion writes a motion file.
func WriteMotion(w *iox.Writer, motion *Motion) error {
	data := make([]byte, headerSize)
	le.PutUint32(data[0:], version)
	endian.PutFloat32(le, data[4:], motion.LoopTime)
	le.PutUint32(data[8:], motion.FrameCount-1)
	le.PutUint32(data[12:], uint32(len(motion.Parts)))
	endian.PutFloat32(le, data[16:], -1.0)
	endian.PutFloat32(le, data[20:], 1.0)
	if err := w.WriteAll(data); err != nil {
		return err
	}
	for _, part := range motion.Parts {
		if err := w.WriteString(part.Name); err != nil {
			return err
		}
		if err := w.WriteU32(partFlags); err != nil {
			return err
		}
		for _, frame := range part.Frames {
			raw := make([]byte, prim.Vec3Size)
			prim.PutVec3(raw, frame.Translation)
			if err := w.WriteAll(raw); err != nil {
				return err
			}
		}
		for _, frame := range part.Frames {
			raw := make([]byte, prim.Vec4Size)
			prim.PutVec4(raw, frame.Rotation)
			if err := w.WriteAll(raw); err != nil {
				return err
			}
		}
	}
	return nil
}
