package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// FbfxColorFromTo fades the framebuffer color effect between two RGBA
// colors.
//
// On disk (52 bytes), four {from, to, delta} float triples for R/G/B/A at
// offsets 0/12/24/36 plus the run time at 48. Each delta must equal
// (to-from)/runTime bit-exactly, with one historic exception: two files
// carry an alpha delta computed with a run time one ULP lower. FudgeAlpha
// preserves those files byte-exactly; on write it takes precedence over
// recomputation.
type FbfxColorFromTo struct {
	From       prim.Vec4 `json:"from"`
	To         prim.Vec4 `json:"to"`
	RunTime    float32   `json:"run_time"`
	FudgeAlpha bool      `json:"fudge_alpha,omitempty"`
}

const fbfxColorFromToSize = 52

func (*FbfxColorFromTo) Kind() uint8         { return KindFbfxColorFromTo }
func (*FbfxColorFromTo) PayloadSize() uint32 { return fbfxColorFromToSize }

func readFbfxColorFromTo(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(fbfxColorFromToSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	channels := []struct {
		name string
		off  int
	}{
		{"red", 0},
		{"green", 12},
		{"blue", 24},
		{"alpha", 36},
	}
	var from, to, deltas [4]float32
	for i, ch := range channels {
		from[i] = f32(data[ch.off:])
		to[i] = f32(data[ch.off+4:])
		deltas[i] = f32(data[ch.off+8:])
		if err := assert.Between("fbfx color from "+ch.name, 0, 1, from[i], base+uint32(ch.off)); err != nil {
			return nil, err
		}
		if err := assert.Between("fbfx color to "+ch.name, 0, 1, to[i], base+uint32(ch.off+4)); err != nil {
			return nil, err
		}
	}
	runTime := f32(data[48:])
	if err := assert.Greater("fbfx color run time", float32(0), runTime, base+48); err != nil {
		return nil, err
	}

	for i, ch := range channels[:3] {
		expected := delta(to[i], from[i], runTime)
		if err := assert.Equal("fbfx color delta "+ch.name, expected, deltas[i], base+uint32(ch.off+8)); err != nil {
			return nil, err
		}
	}
	deltaAlpha := delta(to[3], from[3], runTime)
	fudgeAlpha := false
	if deltas[3] != deltaAlpha {
		// two historic files carry an alpha delta that is off by one ULP;
		// it matches a computation with the run time decremented one ULP
		deltaAlpha = delta(to[3], from[3], decF32(runTime))
		fudgeAlpha = true
	}
	if err := assert.Equal("fbfx color delta alpha", deltaAlpha, deltas[3], base+44); err != nil {
		return nil, err
	}

	return &FbfxColorFromTo{
		From:       prim.Vec4{X: from[0], Y: from[1], Z: from[2], W: from[3]},
		To:         prim.Vec4{X: to[0], Y: to[1], Z: to[2], W: to[3]},
		RunTime:    runTime,
		FudgeAlpha: fudgeAlpha,
	}, nil
}

func (e *FbfxColorFromTo) write(w *iox.Writer, _ *AnimDef) error {
	data := make([]byte, fbfxColorFromToSize)
	from := [4]float32{e.From.X, e.From.Y, e.From.Z, e.From.W}
	to := [4]float32{e.To.X, e.To.Y, e.To.Z, e.To.W}
	for i, off := range []int{0, 12, 24, 36} {
		runTime := e.RunTime
		if i == 3 && e.FudgeAlpha {
			runTime = decF32(e.RunTime)
		}
		putF32(data[off:], from[i])
		putF32(data[off+4:], to[i])
		putF32(data[off+8:], delta(to[i], from[i], runTime))
	}
	putF32(data[48:], e.RunTime)
	return w.WriteAll(data)
}

// FbfxCsinwave is the x/y/z csin parameter block of a csinwave effect.
type FbfxCsinwave struct {
	X FloatFromTo `json:"x"`
	Y FloatFromTo `json:"y"`
	Z FloatFromTo `json:"z"`
}

// FbfxCsinwaveScreenPos is the screen-position parameter block.
type FbfxCsinwaveScreenPos struct {
	X FloatFromTo `json:"x"`
	Y FloatFromTo `json:"y"`
}

// FbfxCsinwaveFromTo flag word.
const (
	cwAtNode       uint32 = 1 << 0
	cwScreenPos    uint32 = 1 << 1
	cwWorldRadius  uint32 = 1 << 2
	cwScreenRadius uint32 = 1 << 3
)

const cwValid = cwAtNode | cwScreenPos | cwWorldRadius | cwScreenRadius

// FbfxCsinwaveFromTo animates a screen-space sine-wave distortion.
//
// On disk (96 bytes):
//
//	flags        u32  // 0
//	nodeIndex    u32  // 4, gated by AT_NODE
//	translation  Vec3 // 8, gated by AT_NODE
//	screenPosX   f32 x2 // 20, gated
//	screenPosY   f32 x2 // 28, gated
//	worldRadius  f32 x2 // 36, gated
//	screenRadius f32 x2 // 44, gated
//	csinX        f32 x2 // 52
//	csinY        f32 x2 // 60
//	csinZ        f32 x2 // 68
//	runTime      f32  // 76, > 0
//	zero80       [16]u8 // 80
type FbfxCsinwaveFromTo struct {
	AtNode       *AtNode                `json:"at_node,omitempty"`
	ScreenPos    *FbfxCsinwaveScreenPos `json:"screen_pos,omitempty"`
	WorldRadius  *FloatFromTo           `json:"world_radius,omitempty"`
	ScreenRadius *FloatFromTo           `json:"screen_radius,omitempty"`
	Csin         FbfxCsinwave           `json:"csin"`
	RunTime      float32                `json:"run_time"`
}

const fbfxCsinwaveFromToSize = 96

func (*FbfxCsinwaveFromTo) Kind() uint8         { return KindFbfxCsinwaveFromTo }
func (*FbfxCsinwaveFromTo) PayloadSize() uint32 { return fbfxCsinwaveFromToSize }

func getFromTo(data []byte) FloatFromTo {
	return FloatFromTo{From: f32(data[0:]), To: f32(data[4:])}
}

func putFromTo(data []byte, v FloatFromTo) {
	putF32(data[0:], v.From)
	putF32(data[4:], v.To)
}

func readFbfxCsinwaveFromTo(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(fbfxCsinwaveFromToSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("fbfx csinwave flags", cwValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	wave := &FbfxCsinwaveFromTo{}

	nodeIndex := le.Uint32(data[4:])
	if flags&cwAtNode != 0 {
		node, err := ctx.NodeFromIndexOrInput(int(nodeIndex), base+4)
		if err != nil {
			return nil, err
		}
		wave.AtNode = &AtNode{Node: node, Translation: prim.GetVec3(data[8:])}
	} else {
		if err := assert.Equal("fbfx csinwave node index", uint32(0), nodeIndex, base+4); err != nil {
			return nil, err
		}
		if err := assert.Equal("fbfx csinwave translation", prim.Vec3Default, prim.GetVec3(data[8:]), base+8); err != nil {
			return nil, err
		}
	}

	zeroFromTo := FloatFromTo{}
	if flags&cwScreenPos != 0 {
		wave.ScreenPos = &FbfxCsinwaveScreenPos{
			X: getFromTo(data[20:]),
			Y: getFromTo(data[28:]),
		}
	} else {
		if err := assert.Equal("fbfx csinwave screen pos x", zeroFromTo, getFromTo(data[20:]), base+20); err != nil {
			return nil, err
		}
		if err := assert.Equal("fbfx csinwave screen pos y", zeroFromTo, getFromTo(data[28:]), base+28); err != nil {
			return nil, err
		}
	}
	if flags&cwWorldRadius != 0 {
		v := getFromTo(data[36:])
		wave.WorldRadius = &v
	} else if err := assert.Equal("fbfx csinwave world radius", zeroFromTo, getFromTo(data[36:]), base+36); err != nil {
		return nil, err
	}
	if flags&cwScreenRadius != 0 {
		v := getFromTo(data[44:])
		wave.ScreenRadius = &v
	} else if err := assert.Equal("fbfx csinwave screen radius", zeroFromTo, getFromTo(data[44:]), base+44); err != nil {
		return nil, err
	}

	wave.Csin = FbfxCsinwave{
		X: getFromTo(data[52:]),
		Y: getFromTo(data[60:]),
		Z: getFromTo(data[68:]),
	}
	wave.RunTime = f32(data[76:])
	if err := assert.Greater("fbfx csinwave run time", float32(0), wave.RunTime, base+76); err != nil {
		return nil, err
	}
	if err := assert.AllZero("fbfx csinwave field 80", data[80:96], base+80); err != nil {
		return nil, err
	}
	return wave, nil
}

func (e *FbfxCsinwaveFromTo) write(w *iox.Writer, ctx *AnimDef) error {
	data := make([]byte, fbfxCsinwaveFromToSize)
	var flags uint32
	if e.AtNode != nil {
		flags |= cwAtNode
		nodeIndex, err := ctx.NodeToIndexOrInput(e.AtNode.Node)
		if err != nil {
			return err
		}
		le.PutUint32(data[4:], uint32(nodeIndex))
		prim.PutVec3(data[8:], e.AtNode.Translation)
	}
	if e.ScreenPos != nil {
		flags |= cwScreenPos
		putFromTo(data[20:], e.ScreenPos.X)
		putFromTo(data[28:], e.ScreenPos.Y)
	}
	if e.WorldRadius != nil {
		flags |= cwWorldRadius
		putFromTo(data[36:], *e.WorldRadius)
	}
	if e.ScreenRadius != nil {
		flags |= cwScreenRadius
		putFromTo(data[44:], *e.ScreenRadius)
	}
	putFromTo(data[52:], e.Csin.X)
	putFromTo(data[60:], e.Csin.Y)
	putFromTo(data[68:], e.Csin.Z)
	putF32(data[76:], e.RunTime)
	le.PutUint32(data[0:], flags)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindFbfxColorFromTo, fbfxColorFromToSize, readFbfxColorFromTo)
	registerEvent(KindFbfxCsinwaveFromTo, fbfxCsinwaveFromToSize, readFbfxCsinwaveFromTo)
}
