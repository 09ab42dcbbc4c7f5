package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Camera is the camera class payload. Most of the block is runtime state
// that must be zero on disk; only the clip ranges and fields of view vary.
type Camera struct {
	ClipNear float32 `json:"clip_near"`
	ClipFar  float32 `json:"clip_far"`
	FovH     float32 `json:"fov_h"`
	FovV     float32 `json:"fov_v"`
}

// cameraSize:
//
//	worldIndex  i32    // 000, must be 0
//	windowIndex i32    // 004, must be 1
//	focusNodeXY i32    // 008, must be -1
//	focusNodeXZ i32    // 012, must be -1
//	flags       u32    // 016, must be 0
//	translation Vec3   // 020, must be zero
//	rotation    Vec3   // 032, must be zero
//	zero044     [48]u8 // 044, runtime world state
//	clipNear    f32    // 092, > 0
//	clipFar     f32    // 096, > near
//	zero100     [24]u8 // 100
//	fovH        f32    // 124, > 0
//	fovV        f32    // 128, > 0
//	zero132     u32    // 132
const cameraSize = 136

const cameraName = "camera1"

func readCamera(r *iox.Reader) (*Camera, error) {
	data, err := r.ReadBytes(cameraSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("camera world index", int32(0), int32(le.Uint32(data[0:])), base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera window index", int32(1), int32(le.Uint32(data[4:])), base+4); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera focus node xy", int32(-1), int32(le.Uint32(data[8:])), base+8); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera focus node xz", int32(-1), int32(le.Uint32(data[12:])), base+12); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera flags", uint32(0), le.Uint32(data[16:]), base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera translation", prim.Vec3Default, prim.GetVec3(data[20:]), base+20); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera rotation", prim.Vec3Default, prim.GetVec3(data[32:]), base+32); err != nil {
		return nil, err
	}
	if err := assert.AllZero("camera field 044", data[44:92], base+44); err != nil {
		return nil, err
	}
	clipNear := f32(data[92:])
	clipFar := f32(data[96:])
	if err := assert.Greater("camera clip near", float32(0), clipNear, base+92); err != nil {
		return nil, err
	}
	if err := assert.Greater("camera clip far", clipNear, clipFar, base+96); err != nil {
		return nil, err
	}
	if err := assert.AllZero("camera field 100", data[100:124], base+100); err != nil {
		return nil, err
	}
	fovH := f32(data[124:])
	fovV := f32(data[128:])
	if err := assert.Greater("camera fov h", float32(0), fovH, base+124); err != nil {
		return nil, err
	}
	if err := assert.Greater("camera fov v", float32(0), fovV, base+128); err != nil {
		return nil, err
	}
	if err := assert.Equal("camera field 132", uint32(0), le.Uint32(data[132:]), base+132); err != nil {
		return nil, err
	}
	return &Camera{ClipNear: clipNear, ClipFar: clipFar, FovH: fovH, FovV: fovV}, nil
}

func writeCamera(w *iox.Writer, camera *Camera) error {
	data := make([]byte, cameraSize)
	le.PutUint32(data[4:], 1)
	le.PutUint32(data[8:], uint32(0xFFFFFFFF))
	le.PutUint32(data[12:], uint32(0xFFFFFFFF))
	putF32(data[92:], camera.ClipNear)
	putF32(data[96:], camera.ClipFar)
	putF32(data[124:], camera.FovH)
	putF32(data[128:], camera.FovV)
	return w.WriteAll(data)
}

func assertCameraInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("camera name", cameraName, info.Name, offset+0); err != nil {
		return err
	}
	if err := assert.Equal("camera flags", FlagsDefault, info.Flags, offset+36); err != nil {
		return err
	}
	if err := assert.Equal("camera update flags", uint32(0), info.UpdateFlags, offset+44); err != nil {
		return err
	}
	if err := assert.Equal("camera zone id", ZoneDefault, info.ZoneID, offset+48); err != nil {
		return err
	}
	if err := assert.Unequal("camera data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if err := assert.Equal("camera mesh index", int32(-1), info.MeshIndex, offset+60); err != nil {
		return err
	}
	if err := assert.Equal("camera area partition", true, info.AreaPartition == nil, offset+76); err != nil {
		return err
	}
	if err := assert.Equal("camera has parent", false, info.HasParent, offset+84); err != nil {
		return err
	}
	if err := assert.Equal("camera children count", uint32(0), info.ChildrenCount, offset+92); err != nil {
		return err
	}
	if err := assert.Equal("camera node bbox", BboxEmpty, info.NodeBbox, offset+116); err != nil {
		return err
	}
	if err := assert.Equal("camera model bbox", BboxEmpty, info.ModelBbox, offset+140); err != nil {
		return err
	}
	if err := assert.Equal("camera child bbox", BboxEmpty, info.ChildBbox, offset+164); err != nil {
		return err
	}
	return assert.Equal("camera field 196", uint32(0), info.Field196, offset+196)
}
