package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
)

// Frame data gate bits of an ObjectMotionSiScript frame.
const (
	siFrameTranslate uint32 = 1 << 0
	siFrameRotate    uint32 = 1 << 1
	siFrameScale     uint32 = 1 << 2
)

const siFrameValid = siFrameTranslate | siFrameRotate | siFrameScale

// siDataSize is the size of each translate/rotate/scale block. The contents
// are opaque and preserved verbatim.
const siDataSize = 76

// ObjectMotionSiFrame is one keyframe of an SI script.
//
// On disk: {flags u32, startTime f32, endTime f32} followed by 0-3 gated
// 76-byte data blocks. endTime must be >= startTime unless it is zero,
// which occurs in a handful of files and is accepted verbatim.
type ObjectMotionSiFrame struct {
	StartTime   float32 `json:"start_time"`
	EndTime     float32 `json:"end_time"`
	Translation []byte  `json:"translation,omitempty"`
	Rotation    []byte  `json:"rotation,omitempty"`
	Scale       []byte  `json:"scale,omitempty"`
}

// ObjectMotionSiScript is the only variable-size event.
//
// On disk: a 24-byte header {nodeIndex u32, count u32, 16 bytes of zero}
// followed by count frames. The node index is preserved raw.
type ObjectMotionSiScript struct {
	NodeIndex uint32                `json:"node_index"`
	Frames    []ObjectMotionSiFrame `json:"frames"`
}

const siScriptHeaderSize = 24
const siFrameHeaderSize = 12

func (*ObjectMotionSiScript) Kind() uint8 { return KindObjectMotionSiScript }

// PayloadSize walks the frame structure.
func (s *ObjectMotionSiScript) PayloadSize() uint32 {
	size := uint32(siScriptHeaderSize) + uint32(len(s.Frames))*siFrameHeaderSize
	for _, frame := range s.Frames {
		if frame.Translation != nil {
			size += siDataSize
		}
		if frame.Rotation != nil {
			size += siDataSize
		}
		if frame.Scale != nil {
			size += siDataSize
		}
	}
	return size
}

func readSiFrame(r *iox.Reader) (ObjectMotionSiFrame, error) {
	data, err := r.ReadBytes(siFrameHeaderSize)
	if err != nil {
		return ObjectMotionSiFrame{}, err
	}
	base := r.Prev
	flags, err := assert.Flags("si script frame flags", siFrameValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return ObjectMotionSiFrame{}, err
	}
	frame := ObjectMotionSiFrame{
		StartTime: f32(data[4:]),
		EndTime:   f32(data[8:]),
	}
	if err := assert.GreaterEq("si script frame start", float32(0), frame.StartTime, base+4); err != nil {
		return ObjectMotionSiFrame{}, err
	}
	if frame.EndTime > 0 {
		if err := assert.GreaterEq("si script frame end", frame.StartTime, frame.EndTime, base+8); err != nil {
			return ObjectMotionSiFrame{}, err
		}
	}
	if flags&siFrameTranslate != 0 {
		if frame.Translation, err = r.ReadBytes(siDataSize); err != nil {
			return ObjectMotionSiFrame{}, err
		}
	}
	if flags&siFrameRotate != 0 {
		if frame.Rotation, err = r.ReadBytes(siDataSize); err != nil {
			return ObjectMotionSiFrame{}, err
		}
	}
	if flags&siFrameScale != 0 {
		if frame.Scale, err = r.ReadBytes(siDataSize); err != nil {
			return ObjectMotionSiFrame{}, err
		}
	}
	return frame, nil
}

func readObjectMotionSiScript(r *iox.Reader, _ *AnimDef, size uint32) (EventData, error) {
	endOffset := r.Offset + size
	header, err := r.ReadBytes(siScriptHeaderSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	count := le.Uint32(header[4:])
	if err := assert.AllZero("si script header zeros", header[8:24], base+8); err != nil {
		return nil, err
	}

	script := &ObjectMotionSiScript{NodeIndex: le.Uint32(header[0:])}
	for i := uint32(0); i < count; i++ {
		frame, err := readSiFrame(r)
		if err != nil {
			return nil, err
		}
		script.Frames = append(script.Frames, frame)
	}
	if err := assert.Equal("si script end", endOffset, r.Offset, r.Offset); err != nil {
		return nil, err
	}
	return script, nil
}

func (s *ObjectMotionSiScript) write(w *iox.Writer, _ *AnimDef) error {
	header := make([]byte, siScriptHeaderSize)
	le.PutUint32(header[0:], s.NodeIndex)
	le.PutUint32(header[4:], uint32(len(s.Frames)))
	if err := w.WriteAll(header); err != nil {
		return err
	}
	for _, frame := range s.Frames {
		var flags uint32
		if frame.Translation != nil {
			flags |= siFrameTranslate
		}
		if frame.Rotation != nil {
			flags |= siFrameRotate
		}
		if frame.Scale != nil {
			flags |= siFrameScale
		}
		fh := make([]byte, siFrameHeaderSize)
		le.PutUint32(fh[0:], flags)
		putF32(fh[4:], frame.StartTime)
		putF32(fh[8:], frame.EndTime)
		if err := w.WriteAll(fh); err != nil {
			return err
		}
		for _, block := range [][]byte{frame.Translation, frame.Rotation, frame.Scale} {
			if block == nil {
				continue
			}
			buf := make([]byte, siDataSize)
			copy(buf, block)
			if err := w.WriteAll(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	registerEvent(KindObjectMotionSiScript, variableSize, readObjectMotionSiScript)
}
