package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// LightType selects the light model of a LightState event.
type LightType uint32

// Light types.
const (
	LightTypeDirected    LightType = 0
	LightTypePointSource LightType = 1
)

// Gate bits of the LightState flag word. A clear bit requires the gated
// payload region to be all zero.
const (
	lightStateTranslation  uint32 = 1 << 0
	lightStateDirectional  uint32 = 1 << 1
	lightStateSaturated    uint32 = 1 << 2
	lightStateSubdivide    uint32 = 1 << 3
	lightStateLightmap     uint32 = 1 << 4
	lightStateStatic       uint32 = 1 << 5
	lightStateBicolored    uint32 = 1 << 6
	lightStateOrientation  uint32 = 1 << 7
	lightStateRange        uint32 = 1 << 8
	lightStateColor        uint32 = 1 << 9
	lightStateAmbientColor uint32 = 1 << 10
	lightStateAmbient      uint32 = 1 << 11
	lightStateDiffuse      uint32 = 1 << 12
)

const lightStateValid = lightStateTranslation | lightStateDirectional |
	lightStateSaturated | lightStateSubdivide | lightStateLightmap |
	lightStateStatic | lightStateBicolored | lightStateOrientation |
	lightStateRange | lightStateColor | lightStateAmbientColor |
	lightStateAmbient | lightStateDiffuse

// LightState reconfigures a named light. Every property is flag-gated.
//
// On disk (144 bytes):
//
//	name         [32]u8 // 0, padded, must match the light-table entry
//	lightIndex   u32    // 32, 1-based into the light table
//	flags        u32    // 36
//	activeState  u32    // 40, bool
//	lightType    u32    // 44
//	directional  u32    // 48, bool, gated
//	saturated    u32    // 52, bool, gated
//	subdivide    u32    // 56, bool, gated
//	lightmap     u32    // 60, bool, gated
//	static       u32    // 64, bool, gated
//	bicolored    u32    // 68, bool, gated
//	orientation  Vec3   // 72, gated
//	range        Range  // 84, gated
//	color        Color  // 92, gated
//	ambientColor Color  // 104, gated
//	ambient      f32    // 116, gated
//	diffuse      f32    // 120, gated
//	inherit      u32    // 124, 0 = none, 2 = at node
//	nodeIndex    u32    // 128
//	translation  Vec3   // 132
type LightState struct {
	Name         string      `json:"name"`
	ActiveState  bool        `json:"active_state"`
	Type         LightType   `json:"type"`
	AtNode       *AtNode     `json:"at_node,omitempty"`
	Directional  *bool       `json:"directional,omitempty"`
	Saturated    *bool       `json:"saturated,omitempty"`
	Subdivide    *bool       `json:"subdivide,omitempty"`
	Lightmap     *bool       `json:"lightmap,omitempty"`
	Static       *bool       `json:"static,omitempty"`
	Bicolored    *bool       `json:"bicolored,omitempty"`
	Orientation  *prim.Vec3  `json:"orientation,omitempty"`
	Range        *prim.Range `json:"range,omitempty"`
	Color        *prim.Color `json:"color,omitempty"`
	AmbientColor *prim.Color `json:"ambient_color,omitempty"`
	Ambient      *float32    `json:"ambient,omitempty"`
	Diffuse      *float32    `json:"diffuse,omitempty"`
}

const lightStateSize = 144

func (*LightState) Kind() uint8         { return KindLightState }
func (*LightState) PayloadSize() uint32 { return lightStateSize }

func readLightState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(lightStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("light state name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return nil, err
	}
	tableName, err := ctx.LightFromIndex(int(le.Uint32(data[32:])), base+32)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("light state light name", tableName, name, base+0); err != nil {
		return nil, err
	}
	flags, err := assert.Flags("light state flags", lightStateValid, le.Uint32(data[36:]), base+36)
	if err != nil {
		return nil, err
	}
	activeState, err := assert.Bool("light state active state", le.Uint32(data[40:]), base+40)
	if err != nil {
		return nil, err
	}
	lightType := le.Uint32(data[44:])
	if err := assert.In("light state type", []uint32{0, 1}, lightType, base+44); err != nil {
		return nil, err
	}

	state := &LightState{Name: name, ActiveState: activeState, Type: LightType(lightType)}
	if state.Directional, err = gatedBool("light state directional", flags&lightStateDirectional != 0, le.Uint32(data[48:]), base+48); err != nil {
		return nil, err
	}
	if state.Saturated, err = gatedBool("light state saturated", flags&lightStateSaturated != 0, le.Uint32(data[52:]), base+52); err != nil {
		return nil, err
	}
	if state.Subdivide, err = gatedBool("light state subdivide", flags&lightStateSubdivide != 0, le.Uint32(data[56:]), base+56); err != nil {
		return nil, err
	}
	if state.Lightmap, err = gatedBool("light state lightmap", flags&lightStateLightmap != 0, le.Uint32(data[60:]), base+60); err != nil {
		return nil, err
	}
	if state.Static, err = gatedBool("light state static", flags&lightStateStatic != 0, le.Uint32(data[64:]), base+64); err != nil {
		return nil, err
	}
	if state.Bicolored, err = gatedBool("light state bicolored", flags&lightStateBicolored != 0, le.Uint32(data[68:]), base+68); err != nil {
		return nil, err
	}
	if state.Orientation, err = gatedVec3("light state orientation", flags&lightStateOrientation != 0, prim.GetVec3(data[72:]), base+72); err != nil {
		return nil, err
	}
	if state.Range, err = gatedRange("light state range", flags&lightStateRange != 0, prim.GetRange(data[84:]), base+84); err != nil {
		return nil, err
	}
	if state.Color, err = gatedColor("light state color", flags&lightStateColor != 0, prim.GetColor(data[92:]), base+92); err != nil {
		return nil, err
	}
	if state.AmbientColor, err = gatedColor("light state ambient color", flags&lightStateAmbientColor != 0, prim.GetColor(data[104:]), base+104); err != nil {
		return nil, err
	}
	if state.Ambient, err = gatedF32("light state ambient", flags&lightStateAmbient != 0, f32(data[116:]), base+116); err != nil {
		return nil, err
	}
	if state.Diffuse, err = gatedF32("light state diffuse", flags&lightStateDiffuse != 0, f32(data[120:]), base+120); err != nil {
		return nil, err
	}

	inherit := le.Uint32(data[124:])
	if flags&lightStateTranslation != 0 {
		if err := assert.Equal("light state inherit", uint32(2), inherit, base+124); err != nil {
			return nil, err
		}
		node, err := ctx.NodeFromIndexOrInput(int(le.Uint32(data[128:])), base+128)
		if err != nil {
			return nil, err
		}
		state.AtNode = &AtNode{Node: node, Translation: prim.GetVec3(data[132:])}
	} else {
		if err := assert.Equal("light state inherit", uint32(0), inherit, base+124); err != nil {
			return nil, err
		}
		if err := assert.Equal("light state node index", uint32(0), le.Uint32(data[128:]), base+128); err != nil {
			return nil, err
		}
		if err := assert.Equal("light state translation", prim.Vec3Default, prim.GetVec3(data[132:]), base+132); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *LightState) write(w *iox.Writer, ctx *AnimDef) error {
	lightIndex, err := ctx.LightToIndex(s.Name)
	if err != nil {
		return err
	}

	data := make([]byte, lightStateSize)
	if err := prim.ToPadded(s.Name, data[0:32]); err != nil {
		return err
	}
	le.PutUint32(data[32:], uint32(lightIndex))

	var flags uint32
	le.PutUint32(data[40:], boolToU32(s.ActiveState))
	le.PutUint32(data[44:], uint32(s.Type))
	if s.Directional != nil {
		flags |= lightStateDirectional
		le.PutUint32(data[48:], boolToU32(*s.Directional))
	}
	if s.Saturated != nil {
		flags |= lightStateSaturated
		le.PutUint32(data[52:], boolToU32(*s.Saturated))
	}
	if s.Subdivide != nil {
		flags |= lightStateSubdivide
		le.PutUint32(data[56:], boolToU32(*s.Subdivide))
	}
	if s.Lightmap != nil {
		flags |= lightStateLightmap
		le.PutUint32(data[60:], boolToU32(*s.Lightmap))
	}
	if s.Static != nil {
		flags |= lightStateStatic
		le.PutUint32(data[64:], boolToU32(*s.Static))
	}
	if s.Bicolored != nil {
		flags |= lightStateBicolored
		le.PutUint32(data[68:], boolToU32(*s.Bicolored))
	}
	if s.Orientation != nil {
		flags |= lightStateOrientation
		prim.PutVec3(data[72:], *s.Orientation)
	}
	if s.Range != nil {
		flags |= lightStateRange
		prim.PutRange(data[84:], *s.Range)
	}
	if s.Color != nil {
		flags |= lightStateColor
		prim.PutColor(data[92:], *s.Color)
	}
	if s.AmbientColor != nil {
		flags |= lightStateAmbientColor
		prim.PutColor(data[104:], *s.AmbientColor)
	}
	if s.Ambient != nil {
		flags |= lightStateAmbient
		putF32(data[116:], *s.Ambient)
	}
	if s.Diffuse != nil {
		flags |= lightStateDiffuse
		putF32(data[120:], *s.Diffuse)
	}
	if s.AtNode != nil {
		flags |= lightStateTranslation
		nodeIndex, err := ctx.NodeToIndexOrInput(s.AtNode.Node)
		if err != nil {
			return err
		}
		le.PutUint32(data[124:], 2)
		le.PutUint32(data[128:], uint32(nodeIndex))
		prim.PutVec3(data[132:], s.AtNode.Translation)
	}
	le.PutUint32(data[36:], flags)
	return w.WriteAll(data)
}

// LightAnimation ramps a named light towards a range and color over time.
//
// On disk (56 bytes):
//
//	name    [32]u8 // 0, padded
//	range   Range  // 32
//	color   Color  // 40
//	runTime f32    // 52, > 0
type LightAnimation struct {
	Name    string     `json:"name"`
	Range   prim.Range `json:"range"`
	Color   prim.Color `json:"color"`
	RunTime float32    `json:"run_time"`
}

const lightAnimationSize = 56

func (*LightAnimation) Kind() uint8         { return KindLightAnimation }
func (*LightAnimation) PayloadSize() uint32 { return lightAnimationSize }

func readLightAnimation(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(lightAnimationSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("light anim name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return nil, err
	}
	runTime := f32(data[52:])
	if err := assert.Greater("light anim run time", float32(0), runTime, base+52); err != nil {
		return nil, err
	}
	return &LightAnimation{
		Name:    name,
		Range:   prim.GetRange(data[32:]),
		Color:   prim.GetColor(data[40:]),
		RunTime: runTime,
	}, nil
}

func (a *LightAnimation) write(w *iox.Writer, _ *AnimDef) error {
	data := make([]byte, lightAnimationSize)
	if err := prim.ToPadded(a.Name, data[0:32]); err != nil {
		return err
	}
	prim.PutRange(data[32:], a.Range)
	prim.PutColor(data[40:], a.Color)
	putF32(data[52:], a.RunTime)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindLightState, lightStateSize, readLightState)
	registerEvent(KindLightAnimation, lightAnimationSize, readLightAnimation)
}
