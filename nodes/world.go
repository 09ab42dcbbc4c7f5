package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Area is the world's rectangle in integer world units. Right > Left and
// Bottom > Top (the Y axis points up, rows run top to bottom).
type Area struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// Partition is one cell of the world's virtual-partition grid.
type Partition struct {
	X int32 `json:"x"`
	Z int32 `json:"z"`
	// Nodes are the indices of nodes intersecting this cell.
	Nodes []uint32 `json:"nodes,omitempty"`
	// Unk carries the three cell fields that cannot be derived (the Y
	// extent and midpoint).
	Unk prim.Vec3 `json:"unk"`
	Ptr prim.Ptr  `json:"ptr"`
}

// World is the world class payload: fog state, the area rectangle, and the
// virtual-partition grid in row-major order.
type World struct {
	Area                Area          `json:"area"`
	Partitions          [][]Partition `json:"partitions"`
	VirtPartitionXCount uint32        `json:"virt_partition_x_count"`
	VirtPartitionYCount uint32        `json:"virt_partition_y_count"`
	// FudgeCount records the one observed file whose area-partition count
	// is one less than the grid size.
	FudgeCount       bool     `json:"fudge_count"`
	AreaPartitionPtr prim.Ptr `json:"area_partition_ptr"`
	VirtPartitionPtr prim.Ptr `json:"virt_partition_ptr"`
	WorldChildrenPtr prim.Ptr `json:"world_children_ptr"`
	WorldChildValue  uint32   `json:"world_child_value"`
	WorldLightsPtr   prim.Ptr `json:"world_lights_ptr"`
}

// worldSize is the fixed world data block (MW).
const worldSize = 188

// partitionSize is one cell record.
const partitionSize = 72

const fogStateLinear uint32 = 1

// partitionCellSize is the cell edge length in world units (MW/PM).
const partitionCellSize = 256

func partitionCellCount(min, max int32) uint32 {
	// cells snap outward to the 256-unit grid
	count := (max - min + partitionCellSize - 1) / partitionCellSize
	if count < 1 {
		count = 1
	}
	return uint32(count)
}

func readPartition(r *iox.Reader, x, z int32) (Partition, error) {
	data, err := r.ReadBytes(partitionSize)
	if err != nil {
		return Partition{}, err
	}
	base := r.Prev
	xf := float32(x)
	zf := float32(z)

	if err := assert.Equal("partition field 00", uint32(0x100), le.Uint32(data[0:]), base+0); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 04", int32(-1), int32(le.Uint32(data[4:])), base+4); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition x", xf, f32(data[8:]), base+8); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition z", zf, f32(data[12:]), base+12); err != nil {
		return Partition{}, err
	}
	// the cell rectangle is fully derivable from the coordinates
	if err := assert.Equal("partition field 16", xf, f32(data[16:]), base+16); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 24", zf-256.0, f32(data[24:]), base+24); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 28", xf+256.0, f32(data[28:]), base+28); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 36", zf, f32(data[36:]), base+36); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 40", xf+128.0, f32(data[40:]), base+40); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 48", zf-128.0, f32(data[48:]), base+48); err != nil {
		return Partition{}, err
	}

	// the Y extent (20/32) and midpoint (44) are not derivable; the
	// diagonal (52) uses the engine's sqrt approximation over them
	yMin := f32(data[20:])
	yMax := f32(data[32:])
	yMid := f32(data[44:])
	if err := assert.Equal("partition field 52", PartitionDiag(yMin, yMax), f32(data[52:]), base+52); err != nil {
		return Partition{}, err
	}

	if err := assert.Equal("partition field 56", uint16(0), le.Uint16(data[56:]), base+56); err != nil {
		return Partition{}, err
	}
	count := le.Uint16(data[58:])
	ptr := prim.Ptr(le.Uint32(data[60:]))
	if err := assert.Equal("partition field 64", uint32(0), le.Uint32(data[64:]), base+64); err != nil {
		return Partition{}, err
	}
	if err := assert.Equal("partition field 68", uint32(0), le.Uint32(data[68:]), base+68); err != nil {
		return Partition{}, err
	}

	partition := Partition{
		X:   x,
		Z:   z,
		Unk: prim.Vec3{X: yMin, Y: yMax, Z: yMid},
		Ptr: ptr,
	}
	if count == 0 {
		if err := assert.Equal("partition ptr", prim.PtrNull, ptr, base+60); err != nil {
			return Partition{}, err
		}
	} else {
		if err := assert.Unequal("partition ptr", prim.PtrNull, ptr, base+60); err != nil {
			return Partition{}, err
		}
		partition.Nodes = make([]uint32, count)
		for i := range partition.Nodes {
			if partition.Nodes[i], err = r.ReadU32(); err != nil {
				return Partition{}, err
			}
		}
	}
	return partition, nil
}

func writePartition(w *iox.Writer, partition *Partition) error {
	data := make([]byte, partitionSize)
	xf := float32(partition.X)
	zf := float32(partition.Z)
	le.PutUint32(data[0:], 0x100)
	le.PutUint32(data[4:], uint32(0xFFFFFFFF))
	putF32(data[8:], xf)
	putF32(data[12:], zf)
	putF32(data[16:], xf)
	putF32(data[20:], partition.Unk.X)
	putF32(data[24:], zf-256.0)
	putF32(data[28:], xf+256.0)
	putF32(data[32:], partition.Unk.Y)
	putF32(data[36:], zf)
	putF32(data[40:], xf+128.0)
	putF32(data[44:], partition.Unk.Z)
	putF32(data[48:], zf-128.0)
	putF32(data[52:], PartitionDiag(partition.Unk.X, partition.Unk.Y))
	le.PutUint16(data[58:], uint16(len(partition.Nodes)))
	le.PutUint32(data[60:], uint32(partition.Ptr))
	if err := w.WriteAll(data); err != nil {
		return err
	}
	for _, node := range partition.Nodes {
		if err := w.WriteU32(node); err != nil {
			return err
		}
	}
	return nil
}

func readWorld(r *iox.Reader) (*World, error) {
	data, err := r.ReadBytes(worldSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev

	if err := assert.Equal("world flags", uint32(0), le.Uint32(data[0:]), base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("world fog state", fogStateLinear, le.Uint32(data[16:]), base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("world fog color", prim.ColorBlack, prim.GetColor(data[20:]), base+20); err != nil {
		return nil, err
	}
	if err := assert.Equal("world fog range", prim.RangeDefault, prim.GetRange(data[32:]), base+32); err != nil {
		return nil, err
	}
	if err := assert.Equal("world fog altitude", prim.RangeDefault, prim.GetRange(data[40:]), base+40); err != nil {
		return nil, err
	}
	if err := assert.Equal("world fog density", float32(0), f32(data[48:]), base+48); err != nil {
		return nil, err
	}

	// the area bounds must be whole numbers for the partition grid
	areaLeft := int32(f32(data[52:]))
	areaBottom := int32(f32(data[56:]))
	areaRight := int32(f32(data[68:]))
	areaTop := int32(f32(data[72:]))
	if err := assert.Equal("world area left", float32(areaLeft), f32(data[52:]), base+52); err != nil {
		return nil, err
	}
	if err := assert.Equal("world area bottom", float32(areaBottom), f32(data[56:]), base+56); err != nil {
		return nil, err
	}
	if err := assert.Equal("world area right", float32(areaRight), f32(data[68:]), base+68); err != nil {
		return nil, err
	}
	if err := assert.Equal("world area top", float32(areaTop), f32(data[72:]), base+72); err != nil {
		return nil, err
	}
	if err := assert.Greater("world area right", areaLeft, areaRight, base+68); err != nil {
		return nil, err
	}
	if err := assert.Greater("world area bottom", areaTop, areaBottom, base+72); err != nil {
		return nil, err
	}
	width := areaRight - areaLeft
	height := areaTop - areaBottom
	if err := assert.Equal("world area width", float32(width), f32(data[60:]), base+60); err != nil {
		return nil, err
	}
	if err := assert.Equal("world area height", float32(height), f32(data[64:]), base+64); err != nil {
		return nil, err
	}

	if err := assert.Equal("world partition max feat", uint32(16), le.Uint32(data[76:]), base+76); err != nil {
		return nil, err
	}
	if err := assert.Equal("world virtual partition", uint32(1), le.Uint32(data[80:]), base+80); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp x min", uint32(1), le.Uint32(data[84:]), base+84); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp y min", uint32(1), le.Uint32(data[88:]), base+88); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp x size", float32(256.0), f32(data[100:]), base+100); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp y size", float32(-256.0), f32(data[104:]), base+104); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp x half", float32(128.0), f32(data[108:]), base+108); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp y half", float32(-128.0), f32(data[112:]), base+112); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp x inv", float32(1.0/256.0), f32(data[116:]), base+116); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp y inv", float32(1.0/-256.0), f32(data[120:]), base+120); err != nil {
		return nil, err
	}
	// sqrt(256^2 + 256^2) * -0.5, with the engine's approximation
	if err := assert.Equal("world vp diagonal", float32(-192.0), f32(data[124:]), base+124); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp inc tol low", float32(3.0), f32(data[128:]), base+128); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp inc tol high", float32(3.0), f32(data[132:]), base+132); err != nil {
		return nil, err
	}

	xCount := partitionCellCount(areaLeft, areaRight)
	// the vertical axis is inverted: the grid runs from bottom to top
	yCount := partitionCellCount(areaTop, areaBottom)
	if err := assert.Equal("world vp x count", xCount, le.Uint32(data[136:]), base+136); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp y count", yCount, le.Uint32(data[140:]), base+140); err != nil {
		return nil, err
	}
	if err := assert.Equal("world ap used", uint32(0), le.Uint32(data[4:]), base+4); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp x max", xCount-1, le.Uint32(data[92:]), base+92); err != nil {
		return nil, err
	}
	if err := assert.Equal("world vp y max", yCount-1, le.Uint32(data[96:]), base+96); err != nil {
		return nil, err
	}

	apCount := le.Uint32(data[8:])
	countMax := xCount * yCount
	if err := assert.Between("world ap count", countMax-1, countMax, apCount, base+8); err != nil {
		return nil, err
	}
	fudgeCount := apCount != countMax

	apPtr := prim.Ptr(le.Uint32(data[12:]))
	if err := assert.Unequal("world ap ptr", prim.PtrNull, apPtr, base+12); err != nil {
		return nil, err
	}
	vpPtr := prim.Ptr(le.Uint32(data[144:]))
	if err := assert.Unequal("world vp ptr", prim.PtrNull, vpPtr, base+144); err != nil {
		return nil, err
	}

	for _, off := range []int{148, 152, 156} {
		if err := assert.Equal("world field", float32(1.0), f32(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("world children count", uint32(1), le.Uint32(data[160:]), base+160); err != nil {
		return nil, err
	}
	childrenPtr := prim.Ptr(le.Uint32(data[164:]))
	if err := assert.Unequal("world children ptr", prim.PtrNull, childrenPtr, base+164); err != nil {
		return nil, err
	}
	lightsPtr := prim.Ptr(le.Uint32(data[168:]))
	if err := assert.Unequal("world lights ptr", prim.PtrNull, lightsPtr, base+168); err != nil {
		return nil, err
	}
	for _, off := range []int{172, 176, 180, 184} {
		if err := assert.Equal("world field", uint32(0), le.Uint32(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}

	// read as a result of the world's own children count (always 1)
	childValue, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	// cells are stored in row-major order: the row loop is the Z axis
	partitions := make([][]Partition, 0, yCount)
	for yi := uint32(0); yi < yCount; yi++ {
		z := areaBottom + int32(yi)*-partitionCellSize
		row := make([]Partition, 0, xCount)
		for xi := uint32(0); xi < xCount; xi++ {
			x := areaLeft + int32(xi)*partitionCellSize
			partition, err := readPartition(r, x, z)
			if err != nil {
				return nil, err
			}
			row = append(row, partition)
		}
		partitions = append(partitions, row)
	}

	return &World{
		Area:                Area{Left: areaLeft, Top: areaTop, Right: areaRight, Bottom: areaBottom},
		Partitions:          partitions,
		VirtPartitionXCount: xCount,
		VirtPartitionYCount: yCount,
		FudgeCount:          fudgeCount,
		AreaPartitionPtr:    apPtr,
		VirtPartitionPtr:    vpPtr,
		WorldChildrenPtr:    childrenPtr,
		WorldChildValue:     childValue,
		WorldLightsPtr:      lightsPtr,
	}, nil
}

func writeWorld(w *iox.Writer, world *World) error {
	data := make([]byte, worldSize)
	apCount := world.VirtPartitionXCount * world.VirtPartitionYCount
	if world.FudgeCount {
		apCount--
	}
	areaLeft := float32(world.Area.Left)
	areaTop := float32(world.Area.Top)
	areaRight := float32(world.Area.Right)
	areaBottom := float32(world.Area.Bottom)

	le.PutUint32(data[8:], apCount)
	le.PutUint32(data[12:], uint32(world.AreaPartitionPtr))
	le.PutUint32(data[16:], fogStateLinear)
	putF32(data[52:], areaLeft)
	putF32(data[56:], areaBottom)
	putF32(data[60:], areaRight-areaLeft)
	putF32(data[64:], areaTop-areaBottom)
	putF32(data[68:], areaRight)
	putF32(data[72:], areaTop)
	le.PutUint32(data[76:], 16)
	le.PutUint32(data[80:], 1)
	le.PutUint32(data[84:], 1)
	le.PutUint32(data[88:], 1)
	le.PutUint32(data[92:], world.VirtPartitionXCount-1)
	le.PutUint32(data[96:], world.VirtPartitionYCount-1)
	putF32(data[100:], 256.0)
	putF32(data[104:], -256.0)
	putF32(data[108:], 128.0)
	putF32(data[112:], -128.0)
	putF32(data[116:], 1.0/256.0)
	putF32(data[120:], 1.0/-256.0)
	putF32(data[124:], -192.0)
	putF32(data[128:], 3.0)
	putF32(data[132:], 3.0)
	le.PutUint32(data[136:], world.VirtPartitionXCount)
	le.PutUint32(data[140:], world.VirtPartitionYCount)
	le.PutUint32(data[144:], uint32(world.VirtPartitionPtr))
	putF32(data[148:], 1.0)
	putF32(data[152:], 1.0)
	putF32(data[156:], 1.0)
	le.PutUint32(data[160:], 1)
	le.PutUint32(data[164:], uint32(world.WorldChildrenPtr))
	le.PutUint32(data[168:], uint32(world.WorldLightsPtr))
	if err := w.WriteAll(data); err != nil {
		return err
	}
	if err := w.WriteU32(world.WorldChildValue); err != nil {
		return err
	}
	for _, row := range world.Partitions {
		for i := range row {
			if err := writePartition(w, &row[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func assertWorldInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("world name", "world1", info.Name, offset+0); err != nil {
		return err
	}
	if err := assert.Equal("world flags", FlagsDefault, info.Flags, offset+36); err != nil {
		return err
	}
	if err := assert.Equal("world update flags", uint32(0), info.UpdateFlags, offset+44); err != nil {
		return err
	}
	if err := assert.Equal("world zone id", ZoneDefault, info.ZoneID, offset+48); err != nil {
		return err
	}
	if err := assert.Unequal("world data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if err := assert.Equal("world mesh index", int32(-1), info.MeshIndex, offset+60); err != nil {
		return err
	}
	if err := assert.Equal("world area partition", true, info.AreaPartition == nil, offset+76); err != nil {
		return err
	}
	if err := assert.Equal("world has parent", false, info.HasParent, offset+84); err != nil {
		return err
	}
	if err := assert.Between("world children count", uint32(1), uint32(maxChildren), info.ChildrenCount, offset+92); err != nil {
		return err
	}
	if err := assert.Equal("world node bbox", BboxEmpty, info.NodeBbox, offset+116); err != nil {
		return err
	}
	if err := assert.Equal("world model bbox", BboxEmpty, info.ModelBbox, offset+140); err != nil {
		return err
	}
	if err := assert.Equal("world child bbox", BboxEmpty, info.ChildBbox, offset+164); err != nil {
		return err
	}
	return assert.Equal("world field 196", uint32(0), info.Field196, offset+196)
}
