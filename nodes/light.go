package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Light is the light class payload (the scene's sunlight).
type Light struct {
	Direction prim.Vec3  `json:"direction"`
	Diffuse   float32    `json:"diffuse"`
	Ambient   float32    `json:"ambient"`
	Color     prim.Color `json:"color"`
	Range     prim.Range `json:"range"`
	ParentPtr prim.Ptr   `json:"parent_ptr"`
}

// lightSize:
//
//	direction   Vec3   // 000
//	diffuse     f32    // 012, 0..=1
//	ambient     f32    // 016, 0..=1
//	color       Color  // 020
//	flags       u32    // 032, must be the default light flags (sunlight)
//	range       Range  // 036, min > 0, max > min
//	rangeNearSq f32    // 044, = min^2
//	rangeFarSq  f32    // 048, = max^2
//	rangeInv    f32    // 052, = 1 / (max - min)
//	parentCount u32    // 056, must be 1
//	parentPtr   u32    // 060, non-null
//	zero064     [32]u8 // 064
const lightSize = 96

// lightFlagsSunlight is the only flag combination observed: directional,
// saturated, subdivide.
const lightFlagsSunlight uint32 = 0x0D

const lightName = "sunlight"

func readLight(r *iox.Reader) (*Light, error) {
	data, err := r.ReadBytes(lightSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	diffuse := f32(data[12:])
	ambient := f32(data[16:])
	if err := assert.Between("light diffuse", float32(0), float32(1), diffuse, base+12); err != nil {
		return nil, err
	}
	if err := assert.Between("light ambient", float32(0), float32(1), ambient, base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("light flags", lightFlagsSunlight, le.Uint32(data[32:]), base+32); err != nil {
		return nil, err
	}
	lightRange := prim.GetRange(data[36:])
	if err := assert.Greater("light range min", float32(0), lightRange.Min, base+36); err != nil {
		return nil, err
	}
	if err := assert.Greater("light range max", lightRange.Min, lightRange.Max, base+40); err != nil {
		return nil, err
	}
	// redundant fields derived from the range must match bit-exactly
	if err := assert.Equal("light range near sq", lightRange.Min*lightRange.Min, f32(data[44:]), base+44); err != nil {
		return nil, err
	}
	if err := assert.Equal("light range far sq", lightRange.Max*lightRange.Max, f32(data[48:]), base+48); err != nil {
		return nil, err
	}
	if err := assert.Equal("light range inv", 1.0/(lightRange.Max-lightRange.Min), f32(data[52:]), base+52); err != nil {
		return nil, err
	}
	if err := assert.Equal("light parent count", uint32(1), le.Uint32(data[56:]), base+56); err != nil {
		return nil, err
	}
	parentPtr := prim.Ptr(le.Uint32(data[60:]))
	if err := assert.Unequal("light parent ptr", prim.PtrNull, parentPtr, base+60); err != nil {
		return nil, err
	}
	if err := assert.AllZero("light field 064", data[64:96], base+64); err != nil {
		return nil, err
	}
	return &Light{
		Direction: prim.GetVec3(data[0:]),
		Diffuse:   diffuse,
		Ambient:   ambient,
		Color:     prim.GetColor(data[20:]),
		Range:     lightRange,
		ParentPtr: parentPtr,
	}, nil
}

func writeLight(w *iox.Writer, light *Light) error {
	data := make([]byte, lightSize)
	prim.PutVec3(data[0:], light.Direction)
	putF32(data[12:], light.Diffuse)
	putF32(data[16:], light.Ambient)
	prim.PutColor(data[20:], light.Color)
	le.PutUint32(data[32:], lightFlagsSunlight)
	prim.PutRange(data[36:], light.Range)
	putF32(data[44:], light.Range.Min*light.Range.Min)
	putF32(data[48:], light.Range.Max*light.Range.Max)
	putF32(data[52:], 1.0/(light.Range.Max-light.Range.Min))
	le.PutUint32(data[56:], 1)
	le.PutUint32(data[60:], uint32(light.ParentPtr))
	return w.WriteAll(data)
}

func assertLightInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("light name", lightName, info.Name, offset+0); err != nil {
		return err
	}
	if err := assert.Equal("light flags", FlagsDefault|FlagUnk28, info.Flags, offset+36); err != nil {
		return err
	}
	if err := assert.Equal("light update flags", uint32(0), info.UpdateFlags, offset+44); err != nil {
		return err
	}
	if err := assert.Equal("light zone id", ZoneDefault, info.ZoneID, offset+48); err != nil {
		return err
	}
	if err := assert.Unequal("light data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if err := assert.Equal("light mesh index", int32(-1), info.MeshIndex, offset+60); err != nil {
		return err
	}
	if err := assert.Equal("light area partition", true, info.AreaPartition == nil, offset+76); err != nil {
		return err
	}
	if err := assert.Equal("light has parent", false, info.HasParent, offset+84); err != nil {
		return err
	}
	if err := assert.Equal("light children count", uint32(0), info.ChildrenCount, offset+92); err != nil {
		return err
	}
	// the sunlight has a fixed, non-empty bounding box
	lightBbox := Bbox{
		Min: prim.Vec3{X: -2, Y: -2, Z: -2},
		Max: prim.Vec3{X: 2, Y: 2, Z: 2},
	}
	if err := assert.Equal("light node bbox", lightBbox, info.NodeBbox, offset+116); err != nil {
		return err
	}
	if err := assert.Equal("light model bbox", BboxEmpty, info.ModelBbox, offset+140); err != nil {
		return err
	}
	if err := assert.Equal("light child bbox", BboxEmpty, info.ChildBbox, offset+164); err != nil {
		return err
	}
	return assert.Equal("light field 196", uint32(0), info.Field196, offset+196)
}

// Lod is the level-of-detail class payload.
type Lod struct {
	Level bool `json:"level"`
	// RangeNearSq is preserved as stored; it is not always the exact
	// square of a representable near range.
	RangeNearSq float32 `json:"range_near_sq"`
	RangeFar    float32 `json:"range_far"`
	Unk60       float32 `json:"unk60"`
	Unk68       float32 `json:"unk68"`
	Unk72       bool    `json:"unk72"`
	Unk76       uint32  `json:"unk76"`
}

// lodSize:
//
//	level       u32    // 000, bool
//	rangeNearSq f32    // 004, = rangeNear^2
//	rangeFar    f32    // 008, > 0
//	rangeFarSq  f32    // 012, = rangeFar^2
//	zero016     [44]u8 // 016
//	unk60       f32    // 060
//	zero064     u32    // 064
//	unk68       f32    // 068
//	unk72       u32    // 072, bool
//	unk76       u32    // 076, non-zero iff unk72
const lodSize = 80

func readLod(r *iox.Reader) (*Lod, error) {
	data, err := r.ReadBytes(lodSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	level, err := assert.Bool("lod level", le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	rangeNearSq := f32(data[4:])
	if err := assert.GreaterEq("lod range near sq", float32(0), rangeNearSq, base+4); err != nil {
		return nil, err
	}
	rangeFar := f32(data[8:])
	if err := assert.Greater("lod range far", float32(0), rangeFar, base+8); err != nil {
		return nil, err
	}
	if err := assert.Equal("lod range far sq", rangeFar*rangeFar, f32(data[12:]), base+12); err != nil {
		return nil, err
	}
	if err := assert.AllZero("lod field 016", data[16:60], base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("lod field 064", uint32(0), le.Uint32(data[64:]), base+64); err != nil {
		return nil, err
	}
	unk72, err := assert.Bool("lod field 072", le.Uint32(data[72:]), base+72)
	if err != nil {
		return nil, err
	}
	unk76 := le.Uint32(data[76:])
	if unk72 {
		if err := assert.Unequal("lod field 076", uint32(0), unk76, base+76); err != nil {
			return nil, err
		}
	} else if err := assert.Equal("lod field 076", uint32(0), unk76, base+76); err != nil {
		return nil, err
	}
	return &Lod{
		Level:       level,
		RangeNearSq: rangeNearSq,
		RangeFar:    rangeFar,
		Unk60:       f32(data[60:]),
		Unk68:       f32(data[68:]),
		Unk72:       unk72,
		Unk76:       unk76,
	}, nil
}

func writeLod(w *iox.Writer, lod *Lod) error {
	data := make([]byte, lodSize)
	if lod.Level {
		le.PutUint32(data[0:], 1)
	}
	putF32(data[4:], lod.RangeNearSq)
	putF32(data[8:], lod.RangeFar)
	putF32(data[12:], lod.RangeFar*lod.RangeFar)
	putF32(data[60:], lod.Unk60)
	putF32(data[68:], lod.Unk68)
	if lod.Unk72 {
		le.PutUint32(data[72:], 1)
	}
	le.PutUint32(data[76:], lod.Unk76)
	return w.WriteAll(data)
}

func assertLodInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("lod base flags", FlagsBase, info.Flags&FlagsBase, offset+36); err != nil {
		return err
	}
	if err := assert.Equal("lod update flags", uint32(1), info.UpdateFlags, offset+44); err != nil {
		return err
	}
	if err := assert.Unequal("lod data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if err := assert.Equal("lod mesh index", int32(-1), info.MeshIndex, offset+60); err != nil {
		return err
	}
	if err := assert.Equal("lod has parent", true, info.HasParent, offset+84); err != nil {
		return err
	}
	if err := assert.Greater("lod children count", uint32(0), info.ChildrenCount, offset+92); err != nil {
		return err
	}
	return assert.Equal("lod field 196", uint32(160), info.Field196, offset+196)
}

func assertEmptyInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("empty base flags", FlagsBase, info.Flags&FlagsBase, offset+36); err != nil {
		return err
	}
	if err := assert.Equal("empty data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if err := assert.Equal("empty mesh index", int32(-1), info.MeshIndex, offset+60); err != nil {
		return err
	}
	if err := assert.Equal("empty has parent", false, info.HasParent, offset+84); err != nil {
		return err
	}
	return assert.Equal("empty children count", uint32(0), info.ChildrenCount, offset+92)
}
