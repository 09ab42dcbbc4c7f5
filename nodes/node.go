package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

func f32(b []byte) float32 {
	return endian.Float32(le, b)
}

func putF32(b []byte, v float32) {
	endian.PutFloat32(le, b, v)
}

// Node header sizes. The PM/CS layout inserts a virtual-partition cell
// coordinate after the area partition, shifting the remaining fields by 4.
const (
	nodeInfoSizeMW = 208
	nodeInfoSizePM = 212
)

// maxChildren is the hard cap on a node's child count.
const maxChildren = 64

// NodeInfoSize returns the header size for a variant.
func NodeInfoSize(variant Variant) uint32 {
	if variant == VariantMW {
		return nodeInfoSizeMW
	}
	return nodeInfoSizePM
}

// ReadNodeInfo reads and validates the common header.
//
// Layout (MW; PM/CS insert virtualPartition at 84 and shift by 4):
//
//	name            [36]u8 // 000, padded
//	flags           u32    // 036
//	zero040         u32    // 040
//	updateFlags     u32    // 044
//	zoneID          u32    // 048, 1..=80 or 255
//	nodeClass       u32    // 052
//	dataPtr         u32    // 056
//	meshIndex       i32    // 060
//	environmentData u32    // 064, must be null
//	actionPriority  u32    // 068, must be 1
//	actionCallback  u32    // 072, must be null
//	areaPartition   i32 x2 // 076, (-1,-1) = none
//	parentCount     u32    // 084, 0 or 1
//	parentArrayPtr  u32    // 088
//	childrenCount   u32    // 092, <= 64
//	childrenArrayPtr u32   // 096
//	zero100..zero112 u32 x4
//	nodeBbox        Bbox   // 116
//	modelBbox       Bbox   // 140
//	childBbox       Bbox   // 164
//	zero188         u32    // 188
//	zero192         u32    // 192
//	field196        u32    // 196
//	zero200         u32    // 200
//	zero204         u32    // 204
func ReadNodeInfo(r *iox.Reader, variant Variant) (NodeInfo, error) {
	data, err := r.ReadBytes(int(NodeInfoSize(variant)))
	if err != nil {
		return NodeInfo{}, err
	}
	base := r.Prev

	name, err := assert.Ascii("node name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:36])
	})
	if err != nil {
		return NodeInfo{}, err
	}
	flags, err := assert.Flags("node flags", flagsValid, le.Uint32(data[36:]), base+36)
	if err != nil {
		return NodeInfo{}, err
	}
	if err := assert.Equal("node field 040", uint32(0), le.Uint32(data[40:]), base+40); err != nil {
		return NodeInfo{}, err
	}
	class := le.Uint32(data[52:])
	if class > uint32(ClassLight) {
		return NodeInfo{}, errs.Newf(base+52, "node class", "to be a valid variant, but was %d", class)
	}
	zoneID := le.Uint32(data[48:])
	if zoneID != ZoneDefault {
		if err := assert.Between("node zone id", uint32(1), uint32(80), zoneID, base+48); err != nil {
			return NodeInfo{}, err
		}
	}
	if err := assert.Equal("node env data", uint32(0), le.Uint32(data[64:]), base+64); err != nil {
		return NodeInfo{}, err
	}
	if err := assert.Equal("node action priority", uint32(1), le.Uint32(data[68:]), base+68); err != nil {
		return NodeInfo{}, err
	}
	if err := assert.Equal("node action callback", uint32(0), le.Uint32(data[72:]), base+72); err != nil {
		return NodeInfo{}, err
	}

	info := NodeInfo{
		Name:        name,
		Flags:       flags,
		UpdateFlags: le.Uint32(data[44:]),
		ZoneID:      zoneID,
		Class:       NodeClass(class),
		DataPtr:     prim.Ptr(le.Uint32(data[56:])),
		MeshIndex:   int32(le.Uint32(data[60:])),
	}

	apX := int32(le.Uint32(data[76:]))
	apY := int32(le.Uint32(data[80:]))
	if apX != -1 && apY != -1 {
		if err := assert.Between("node area partition x", int32(0), int32(64), apX, base+76); err != nil {
			return NodeInfo{}, err
		}
		if err := assert.Between("node area partition z", int32(0), int32(64), apY, base+80); err != nil {
			return NodeInfo{}, err
		}
		info.AreaPartition = &AreaPartition{X: apX, Z: apY}
	}

	rest := data[84:]
	restBase := base + 84
	if variant != VariantMW {
		vpX := int32(int16(le.Uint16(rest[0:])))
		vpZ := int32(int16(le.Uint16(rest[2:])))
		if vpX != -1 || vpZ != -1 {
			info.VirtualPartition = &AreaPartition{X: vpX, Z: vpZ}
		}
		rest = rest[4:]
		restBase += 4
	}

	parentCount := le.Uint32(rest[0:])
	hasParent, err := assert.Bool("node parent count", parentCount, restBase+0)
	if err != nil {
		return NodeInfo{}, err
	}
	info.HasParent = hasParent
	info.ParentArrayPtr = prim.Ptr(le.Uint32(rest[4:]))
	if hasParent {
		if err := assert.Unequal("node parent array ptr", prim.PtrNull, info.ParentArrayPtr, restBase+4); err != nil {
			return NodeInfo{}, err
		}
	} else if err := assert.Equal("node parent array ptr", prim.PtrNull, info.ParentArrayPtr, restBase+4); err != nil {
		return NodeInfo{}, err
	}

	info.ChildrenCount = le.Uint32(rest[8:])
	if err := assert.LessEq("node children count", uint32(maxChildren), info.ChildrenCount, restBase+8); err != nil {
		return NodeInfo{}, err
	}
	info.ChildrenArrayPtr = prim.Ptr(le.Uint32(rest[12:]))
	if info.ChildrenCount == 0 {
		if err := assert.Equal("node children array ptr", prim.PtrNull, info.ChildrenArrayPtr, restBase+12); err != nil {
			return NodeInfo{}, err
		}
	} else if err := assert.Unequal("node children array ptr", prim.PtrNull, info.ChildrenArrayPtr, restBase+12); err != nil {
		return NodeInfo{}, err
	}

	for _, off := range []int{16, 20, 24, 28} {
		if err := assert.Equal("node field", uint32(0), le.Uint32(rest[off:]), restBase+uint32(off)); err != nil {
			return NodeInfo{}, err
		}
	}
	info.NodeBbox = getBbox(rest[32:])
	info.ModelBbox = getBbox(rest[56:])
	info.ChildBbox = getBbox(rest[80:])
	if err := assert.Equal("node field 188", uint32(0), le.Uint32(rest[104:]), restBase+104); err != nil {
		return NodeInfo{}, err
	}
	if err := assert.Equal("node field 192", uint32(0), le.Uint32(rest[108:]), restBase+108); err != nil {
		return NodeInfo{}, err
	}
	info.Field196 = le.Uint32(rest[112:])
	if err := assert.Equal("node field 200", uint32(0), le.Uint32(rest[116:]), restBase+116); err != nil {
		return NodeInfo{}, err
	}
	if err := assert.Equal("node field 204", uint32(0), le.Uint32(rest[120:]), restBase+120); err != nil {
		return NodeInfo{}, err
	}
	return info, nil
}

// WriteNodeInfo writes the common header.
func WriteNodeInfo(w *iox.Writer, variant Variant, info *NodeInfo) error {
	if info.ChildrenCount > maxChildren {
		return errs.Overflow("node children count", int(info.ChildrenCount), w.Offset)
	}
	data := make([]byte, NodeInfoSize(variant))
	if err := prim.ToPadded(info.Name, data[0:36]); err != nil {
		return err
	}
	le.PutUint32(data[36:], info.Flags)
	le.PutUint32(data[44:], info.UpdateFlags)
	le.PutUint32(data[48:], info.ZoneID)
	le.PutUint32(data[52:], uint32(info.Class))
	le.PutUint32(data[56:], uint32(info.DataPtr))
	le.PutUint32(data[60:], uint32(info.MeshIndex))
	le.PutUint32(data[68:], 1)
	apX, apY := int32(-1), int32(-1)
	if info.AreaPartition != nil {
		apX, apY = info.AreaPartition.X, info.AreaPartition.Z
	}
	le.PutUint32(data[76:], uint32(apX))
	le.PutUint32(data[80:], uint32(apY))

	rest := data[84:]
	if variant != VariantMW {
		vpX, vpZ := int16(-1), int16(-1)
		if info.VirtualPartition != nil {
			vpX, vpZ = int16(info.VirtualPartition.X), int16(info.VirtualPartition.Z)
		}
		le.PutUint16(rest[0:], uint16(vpX))
		le.PutUint16(rest[2:], uint16(vpZ))
		rest = rest[4:]
	}
	if info.HasParent {
		le.PutUint32(rest[0:], 1)
	}
	le.PutUint32(rest[4:], uint32(info.ParentArrayPtr))
	le.PutUint32(rest[8:], info.ChildrenCount)
	le.PutUint32(rest[12:], uint32(info.ChildrenArrayPtr))
	putBbox(rest[32:], info.NodeBbox)
	putBbox(rest[56:], info.ModelBbox)
	putBbox(rest[80:], info.ChildBbox)
	le.PutUint32(rest[112:], info.Field196)
	return w.WriteAll(data)
}
