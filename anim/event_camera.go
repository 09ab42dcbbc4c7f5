package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
)

// CameraState flag word. Each bit gates one float field.
const (
	csClipNear      uint32 = 1 << 0
	csClipFar       uint32 = 1 << 1
	csLodMultiplier uint32 = 1 << 2
	csFovH          uint32 = 1 << 3
	csFovV          uint32 = 1 << 4
	csZoomH         uint32 = 1 << 5
	csZoomV         uint32 = 1 << 6
)

const csValid = csClipNear | csClipFar | csLodMultiplier | csFovH | csFovV |
	csZoomH | csZoomV

// CameraState reconfigures camera parameters. Every field is flag-gated.
//
// On disk (36 bytes):
//
//	nodeIndex     u32 // 0
//	flags         u32 // 4
//	clipNear      f32 // 8
//	clipFar       f32 // 12
//	lodMultiplier f32 // 16
//	fovH          f32 // 20
//	fovV          f32 // 24
//	zoomH         f32 // 28
//	zoomV         f32 // 32
type CameraState struct {
	Name          string   `json:"name"`
	ClipNear      *float32 `json:"clip_near,omitempty"`
	ClipFar       *float32 `json:"clip_far,omitempty"`
	LodMultiplier *float32 `json:"lod_multiplier,omitempty"`
	FovH          *float32 `json:"fov_h,omitempty"`
	FovV          *float32 `json:"fov_v,omitempty"`
	ZoomH         *float32 `json:"zoom_h,omitempty"`
	ZoomV         *float32 `json:"zoom_v,omitempty"`
}

const cameraStateSize = 36

func (*CameraState) Kind() uint8         { return KindCameraState }
func (*CameraState) PayloadSize() uint32 { return cameraStateSize }

func readCameraState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(cameraStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[0:])), base+0)
	if err != nil {
		return nil, err
	}
	flags, err := assert.Flags("camera state flags", csValid, le.Uint32(data[4:]), base+4)
	if err != nil {
		return nil, err
	}
	state := &CameraState{Name: node}
	fields := []struct {
		name string
		bit  uint32
		off  int
		dst  **float32
	}{
		{"camera state clip near", csClipNear, 8, &state.ClipNear},
		{"camera state clip far", csClipFar, 12, &state.ClipFar},
		{"camera state lod multiplier", csLodMultiplier, 16, &state.LodMultiplier},
		{"camera state fov h", csFovH, 20, &state.FovH},
		{"camera state fov v", csFovV, 24, &state.FovV},
		{"camera state zoom h", csZoomH, 28, &state.ZoomH},
		{"camera state zoom v", csZoomV, 32, &state.ZoomV},
	}
	for _, field := range fields {
		if *field.dst, err = gatedF32(field.name, flags&field.bit != 0, f32(data[field.off:]), base+uint32(field.off)); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *CameraState) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(s.Name)
	if err != nil {
		return err
	}
	data := make([]byte, cameraStateSize)
	le.PutUint32(data[0:], uint32(nodeIndex))
	var flags uint32
	fields := []struct {
		bit uint32
		off int
		src *float32
	}{
		{csClipNear, 8, s.ClipNear},
		{csClipFar, 12, s.ClipFar},
		{csLodMultiplier, 16, s.LodMultiplier},
		{csFovH, 20, s.FovH},
		{csFovV, 24, s.FovV},
		{csZoomH, 28, s.ZoomH},
		{csZoomV, 32, s.ZoomV},
	}
	for _, field := range fields {
		if field.src != nil {
			flags |= field.bit
			putF32(data[field.off:], *field.src)
		}
	}
	le.PutUint32(data[4:], flags)
	return w.WriteAll(data)
}

// CameraFromTo interpolates camera parameters over a run time. Uses the
// same gate bits as CameraState, with from/to pairs per field.
//
// On disk (68 bytes):
//
//	nodeIndex u32       // 0
//	flags     u32       // 4
//	7 x {from f32, to f32} // 8..64 in CameraState field order
//	runTime   f32       // 64, > 0
type CameraFromTo struct {
	Name          string       `json:"name"`
	ClipNear      *FloatFromTo `json:"clip_near,omitempty"`
	ClipFar       *FloatFromTo `json:"clip_far,omitempty"`
	LodMultiplier *FloatFromTo `json:"lod_multiplier,omitempty"`
	FovH          *FloatFromTo `json:"fov_h,omitempty"`
	FovV          *FloatFromTo `json:"fov_v,omitempty"`
	ZoomH         *FloatFromTo `json:"zoom_h,omitempty"`
	ZoomV         *FloatFromTo `json:"zoom_v,omitempty"`
	RunTime       float32      `json:"run_time"`
}

const cameraFromToSize = 68

func (*CameraFromTo) Kind() uint8         { return KindCameraFromTo }
func (*CameraFromTo) PayloadSize() uint32 { return cameraFromToSize }

func readCameraFromTo(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(cameraFromToSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[0:])), base+0)
	if err != nil {
		return nil, err
	}
	flags, err := assert.Flags("camera from to flags", csValid, le.Uint32(data[4:]), base+4)
	if err != nil {
		return nil, err
	}
	state := &CameraFromTo{Name: node}
	fields := []struct {
		name string
		bit  uint32
		off  int
		dst  **FloatFromTo
	}{
		{"camera from to clip near", csClipNear, 8, &state.ClipNear},
		{"camera from to clip far", csClipFar, 16, &state.ClipFar},
		{"camera from to lod multiplier", csLodMultiplier, 24, &state.LodMultiplier},
		{"camera from to fov h", csFovH, 32, &state.FovH},
		{"camera from to fov v", csFovV, 40, &state.FovV},
		{"camera from to zoom h", csZoomH, 48, &state.ZoomH},
		{"camera from to zoom v", csZoomV, 56, &state.ZoomV},
	}
	for _, field := range fields {
		from := f32(data[field.off:])
		to := f32(data[field.off+4:])
		if flags&field.bit != 0 {
			*field.dst = &FloatFromTo{From: from, To: to}
			continue
		}
		if err := assert.Equal(field.name+" from", float32(0), from, base+uint32(field.off)); err != nil {
			return nil, err
		}
		if err := assert.Equal(field.name+" to", float32(0), to, base+uint32(field.off+4)); err != nil {
			return nil, err
		}
	}
	state.RunTime = f32(data[64:])
	if err := assert.Greater("camera from to run time", float32(0), state.RunTime, base+64); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *CameraFromTo) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(s.Name)
	if err != nil {
		return err
	}
	data := make([]byte, cameraFromToSize)
	le.PutUint32(data[0:], uint32(nodeIndex))
	var flags uint32
	fields := []struct {
		bit uint32
		off int
		src *FloatFromTo
	}{
		{csClipNear, 8, s.ClipNear},
		{csClipFar, 16, s.ClipFar},
		{csLodMultiplier, 24, s.LodMultiplier},
		{csFovH, 32, s.FovH},
		{csFovV, 40, s.FovV},
		{csZoomH, 48, s.ZoomH},
		{csZoomV, 56, s.ZoomV},
	}
	for _, field := range fields {
		if field.src != nil {
			flags |= field.bit
			putF32(data[field.off:], field.src.From)
			putF32(data[field.off+4:], field.src.To)
		}
	}
	le.PutUint32(data[4:], flags)
	putF32(data[64:], s.RunTime)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindCameraState, cameraStateSize, readCameraState)
	registerEvent(KindCameraFromTo, cameraFromToSize, readCameraFromTo)
}
