// Package nodes implements the scene-graph node codec: an indexed array of
// polymorphic nodes sharing a common fixed-size header but dispatching to
// per-class data layouts.
//
// Nodes reference parents and children by index into the same array; the
// neutral form keeps the flat arena and the index arrays. The mechlib
// variant embeds meshes directly under object3d nodes instead and does not
// serialize the index arrays.
package nodes

import (
	"github.com/mechres/zbd/prim"
)

// Variant selects the game version. The caller picks it; nothing is
// auto-detected.
type Variant uint8

// Game version variants.
const (
	VariantMW Variant = iota
	VariantPM
	VariantCS
)

// NodeClass is the on-disk node class tag.
type NodeClass uint32

// Node classes, in on-disk tag order.
const (
	ClassEmpty    NodeClass = 0
	ClassCamera   NodeClass = 1
	ClassWorld    NodeClass = 2
	ClassWindow   NodeClass = 3
	ClassDisplay  NodeClass = 4
	ClassObject3d NodeClass = 5
	ClassLod      NodeClass = 6
	ClassLight    NodeClass = 7
)

// Node flag word.
const (
	FlagActive           uint32 = 1 << 2
	FlagAltitudeSurface  uint32 = 1 << 3
	FlagIntersectSurface uint32 = 1 << 4
	FlagIntersectBbox    uint32 = 1 << 5
	FlagLandmark         uint32 = 1 << 7
	FlagBboxNode         uint32 = 1 << 8
	FlagHasMesh          uint32 = 1 << 9
	FlagBboxChild        uint32 = 1 << 10
	FlagTerrain          uint32 = 1 << 15
	FlagCanModify        uint32 = 1 << 16
	FlagClipTo           uint32 = 1 << 17
	FlagTreeValid        uint32 = 1 << 19
	FlagIDZoneCheck      uint32 = 1 << 24
	FlagUnk25            uint32 = 1 << 25
	FlagUnk28            uint32 = 1 << 28
)

// FlagsBase are set on every node; FlagsDefault is the resting state of
// the singleton nodes (world, window, display, camera, light).
const (
	FlagsBase    = FlagActive | FlagTreeValid | FlagIDZoneCheck
	FlagsDefault = FlagsBase | FlagAltitudeSurface | FlagIntersectSurface
)

const flagsValid = FlagActive | FlagAltitudeSurface | FlagIntersectSurface |
	FlagIntersectBbox | FlagLandmark | FlagBboxNode | FlagHasMesh |
	FlagBboxChild | FlagTerrain | FlagCanModify | FlagClipTo |
	FlagTreeValid | FlagIDZoneCheck | FlagUnk25 | FlagUnk28

// ZoneDefault is the "always" zone id, bypassing zone culling.
const ZoneDefault uint32 = 255

// Bbox is an axis-aligned bounding box.
type Bbox struct {
	Min prim.Vec3 `json:"min"`
	Max prim.Vec3 `json:"max"`
}

// BboxEmpty is the all-zero box required on classes without bounds.
var BboxEmpty = Bbox{}

const bboxSize = 24

func getBbox(b []byte) Bbox {
	return Bbox{Min: prim.GetVec3(b[0:]), Max: prim.GetVec3(b[12:])}
}

func putBbox(b []byte, v Bbox) {
	prim.PutVec3(b[0:], v.Min)
	prim.PutVec3(b[12:], v.Max)
}

// AreaPartition is a node's cell coordinate in the world's partition grid.
type AreaPartition struct {
	X int32 `json:"x"`
	Z int32 `json:"z"`
}

// NodeInfo is the decoded common header shared by all classes.
type NodeInfo struct {
	Name          string         `json:"name"`
	Flags         uint32         `json:"flags"`
	UpdateFlags   uint32         `json:"update_flags"`
	ZoneID        uint32         `json:"zone_id"`
	Class         NodeClass      `json:"class"`
	DataPtr       prim.Ptr       `json:"data_ptr"`
	MeshIndex     int32          `json:"mesh_index"`
	AreaPartition *AreaPartition `json:"area_partition,omitempty"`
	// PM/CS only
	VirtualPartition *AreaPartition `json:"virtual_partition,omitempty"`
	HasParent        bool           `json:"has_parent"`
	ParentArrayPtr   prim.Ptr       `json:"parent_array_ptr"`
	ChildrenCount    uint32         `json:"children_count"`
	ChildrenArrayPtr prim.Ptr       `json:"children_array_ptr"`
	NodeBbox         Bbox           `json:"node_bbox"`
	ModelBbox        Bbox           `json:"model_bbox"`
	ChildBbox        Bbox           `json:"child_bbox"`
	Field196         uint32         `json:"field196"`
}

// Node is one scene-graph node: the shared header plus the class payload
// (exactly one of the pointers is set, selected by Info.Class).
type Node struct {
	Info     NodeInfo  `json:"info"`
	Camera   *Camera   `json:"camera,omitempty"`
	World    *World    `json:"world,omitempty"`
	Window   *Window   `json:"window,omitempty"`
	Display  *Display  `json:"display,omitempty"`
	Object3d *Object3d `json:"object3d,omitempty"`
	Lod      *Lod      `json:"lod,omitempty"`
	Light    *Light    `json:"light,omitempty"`
	// Parent is the parent node index when Info.HasParent.
	Parent *uint32 `json:"parent,omitempty"`
	// Children are the child node indices.
	Children []uint32 `json:"children,omitempty"`
}
