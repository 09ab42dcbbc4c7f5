package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Transformation is an object3d node's placement: Euler rotation plus
// translation. Matrix is only set when the on-disk matrix does not equal
// EulerToMatrix(rotation); it is then preserved verbatim ("tampered").
type Transformation struct {
	Rotation    prim.Vec3    `json:"rotation"`
	Translation prim.Vec3    `json:"translation"`
	Matrix      *prim.Matrix `json:"matrix,omitempty"`
}

// Object3d is the object3d class payload.
type Object3d struct {
	Transformation *Transformation `json:"transformation,omitempty"`
}

// object3dSize:
//
//	flags       u32    // 000, 32 = transformed, 40 = identity
//	opacity     f32    // 004, must be zero
//	zero008     f32 x4 // 008
//	rotation    Vec3   // 024, radians, each in -pi..=pi
//	scale       Vec3   // 036, must be (1,1,1)
//	matrix      Matrix // 048
//	translation Vec3   // 084
//	zero096     [48]u8 // 096
const object3dSize = 144

func readObject3d(r *iox.Reader) (*Object3d, error) {
	data, err := r.ReadBytes(object3dSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	dataFlags := le.Uint32(data[0:])
	if err := assert.In("object3d flags", []uint32{32, 40}, dataFlags, base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("object3d opacity", float32(0), f32(data[4:]), base+4); err != nil {
		return nil, err
	}
	for _, off := range []int{8, 12, 16, 20} {
		if err := assert.Equal("object3d field", float32(0), f32(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("object3d scale", prim.Vec3{X: 1, Y: 1, Z: 1}, prim.GetVec3(data[36:]), base+36); err != nil {
		return nil, err
	}
	if err := assert.AllZero("object3d field 096", data[96:144], base+96); err != nil {
		return nil, err
	}

	rotation := prim.GetVec3(data[24:])
	translation := prim.GetVec3(data[84:])
	matrix := prim.GetMatrix(data[48:])

	object3d := &Object3d{}
	if dataFlags == 40 {
		if err := assert.Equal("object3d rotation", prim.Vec3Default, rotation, base+24); err != nil {
			return nil, err
		}
		if err := assert.Equal("object3d translation", prim.Vec3Default, translation, base+84); err != nil {
			return nil, err
		}
		if err := assert.Equal("object3d matrix", prim.MatrixIdentity, matrix, base+48); err != nil {
			return nil, err
		}
	} else {
		if err := assert.Between("object3d rotation x", -Pi, Pi, rotation.X, base+24); err != nil {
			return nil, err
		}
		if err := assert.Between("object3d rotation y", -Pi, Pi, rotation.Y, base+28); err != nil {
			return nil, err
		}
		if err := assert.Between("object3d rotation z", -Pi, Pi, rotation.Z, base+32); err != nil {
			return nil, err
		}
		transformation := &Transformation{Rotation: rotation, Translation: translation}
		// for a small share of nodes the stored matrix does not match the
		// derived one; preserve it verbatim
		if EulerToMatrix(rotation) != matrix {
			transformation.Matrix = &matrix
		}
		object3d.Transformation = transformation
	}
	return object3d, nil
}

func writeObject3d(w *iox.Writer, object3d *Object3d) error {
	data := make([]byte, object3dSize)
	prim.PutVec3(data[36:], prim.Vec3{X: 1, Y: 1, Z: 1})
	if object3d.Transformation == nil {
		le.PutUint32(data[0:], 40)
		prim.PutMatrix(data[48:], prim.MatrixIdentity)
	} else {
		le.PutUint32(data[0:], 32)
		t := object3d.Transformation
		prim.PutVec3(data[24:], t.Rotation)
		matrix := EulerToMatrix(t.Rotation)
		if t.Matrix != nil {
			matrix = *t.Matrix
		}
		prim.PutMatrix(data[48:], matrix)
		prim.PutVec3(data[84:], t.Translation)
	}
	return w.WriteAll(data)
}

func assertObject3dInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("object3d base flags", FlagsBase, info.Flags&FlagsBase, offset+36); err != nil {
		return err
	}
	if err := assert.Equal("object3d update flags", uint32(1), info.UpdateFlags, offset+44); err != nil {
		return err
	}
	if err := assert.Unequal("object3d data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if info.Flags&FlagHasMesh != 0 {
		if err := assert.Greater("object3d mesh index", int32(0), info.MeshIndex, offset+60); err != nil {
			return err
		}
	}
	return assert.Equal("object3d field 196", uint32(160), info.Field196, offset+196)
}
