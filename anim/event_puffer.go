package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// PufferState flag word.
const (
	psTranslate         uint32 = 1 << 0
	psGrowthFactor      uint32 = 1 << 1
	psState             uint32 = 1 << 2
	psLocalVelocity     uint32 = 1 << 3
	psWorldVelocity     uint32 = 1 << 4
	psMinRandomVelocity uint32 = 1 << 5
	psMaxRandomVelocity uint32 = 1 << 6
	psIntervalType      uint32 = 1 << 7
	psIntervalValue     uint32 = 1 << 8
	psSizeRange         uint32 = 1 << 9
	psLifetimeRange     uint32 = 1 << 10
	psDeviationDistance uint32 = 1 << 11
	psFadeRange         uint32 = 1 << 12
	psActive            uint32 = 1 << 13
	psCycleTexture      uint32 = 1 << 14
	psStartAgeRange     uint32 = 1 << 15
	psWorldAcceleration uint32 = 1 << 16
	psFriction          uint32 = 1 << 17
)

const psValid = psTranslate | psGrowthFactor | psState | psLocalVelocity |
	psWorldVelocity | psMinRandomVelocity | psMaxRandomVelocity |
	psIntervalType | psIntervalValue | psSizeRange | psLifetimeRange |
	psDeviationDistance | psFadeRange | psActive | psCycleTexture |
	psStartAgeRange | psWorldAcceleration | psFriction

// IntervalType selects how a puffer emission interval is measured.
type IntervalType uint8

// Interval types.
const (
	IntervalUnset IntervalType = iota
	IntervalTime
	IntervalDistance
)

// Interval is a puffer's emission interval. Flag records the on-disk
// INTERVAL_VALUE bit, which does not appear to gate the value itself.
type Interval struct {
	Type  IntervalType `json:"type"`
	Value float32      `json:"value"`
	Flag  bool         `json:"flag"`
}

// PufferTextures are the up to six cycle-texture name slots.
type PufferTextures [6]*string

// PufferState reconfigures a particle puffer. Nearly every field is
// flag-gated; a disabled state (STATE clear) requires the whole flag word
// to be zero.
//
// On disk (580 bytes); see the field offsets in the reader. The texture
// slots are 36-byte padded names at 192/228/264/300/336/372.
type PufferState struct {
	Name        string `json:"name"`
	State       bool   `json:"state"`
	Translate   bool   `json:"translate"`
	ActiveState *int32 `json:"active_state,omitempty"`

	AtNode            *AtNode    `json:"at_node,omitempty"`
	LocalVelocity     *prim.Vec3 `json:"local_velocity,omitempty"`
	WorldVelocity     *prim.Vec3 `json:"world_velocity,omitempty"`
	MinRandomVelocity *prim.Vec3 `json:"min_random_velocity,omitempty"`
	MaxRandomVelocity *prim.Vec3 `json:"max_random_velocity,omitempty"`
	WorldAcceleration *prim.Vec3 `json:"world_acceleration,omitempty"`

	Interval          Interval        `json:"interval"`
	SizeRange         *prim.Range     `json:"size_range,omitempty"`
	LifetimeRange     *prim.Range     `json:"lifetime_range,omitempty"`
	StartAgeRange     *prim.Range     `json:"start_age_range,omitempty"`
	DeviationDistance *float32        `json:"deviation_distance,omitempty"`
	FadeRange         *prim.Range     `json:"fade_range,omitempty"`
	Friction          *float32        `json:"friction,omitempty"`
	Textures          *PufferTextures `json:"textures,omitempty"`
	GrowthFactor      *float32        `json:"growth_factor,omitempty"`
}

const pufferStateSize = 580

var pufferTexOffsets = [6]int{192, 228, 264, 300, 336, 372}

func (*PufferState) Kind() uint8         { return KindPufferState }
func (*PufferState) PayloadSize() uint32 { return pufferStateSize }

func readPufferState(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(pufferStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("puffer state name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return nil, err
	}
	expectedName, err := ctx.PufferFromIndex(int(le.Uint32(data[32:])), base+32)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("puffer state name", expectedName, name, base+0); err != nil {
		return nil, err
	}
	flags, err := assert.Flags("puffer state flags", psValid, le.Uint32(data[36:]), base+36)
	if err != nil {
		return nil, err
	}

	state := flags&psState != 0
	if !state {
		// a disabled puffer may not specify anything else, which ensures
		// all further branches check for zero values
		if err := assert.Equal("puffer state flags", uint32(0), flags, base+36); err != nil {
			return nil, err
		}
	}

	puffer := &PufferState{
		Name:      name,
		State:     state,
		Translate: flags&psTranslate != 0,
	}

	activeState := int32(le.Uint32(data[40:]))
	if flags&psActive != 0 {
		if err := assert.Between("puffer state active", int32(1), int32(5), activeState, base+40); err != nil {
			return nil, err
		}
		puffer.ActiveState = &activeState
	} else if err := assert.Equal("puffer state active", int32(-1), activeState, base+40); err != nil {
		return nil, err
	}

	nodeIndex := le.Uint32(data[44:])
	if nodeIndex != 0 {
		node, err := ctx.NodeFromIndex(int(nodeIndex), base+44)
		if err != nil {
			return nil, err
		}
		puffer.AtNode = &AtNode{Node: node, Translation: prim.GetVec3(data[48:])}
	} else if err := assert.Equal("puffer state translation", prim.Vec3Default, prim.GetVec3(data[48:]), base+48); err != nil {
		return nil, err
	}

	vecs := []struct {
		name string
		bit  uint32
		off  int
		dst  **prim.Vec3
	}{
		{"puffer state local velocity", psLocalVelocity, 60, &puffer.LocalVelocity},
		{"puffer state world velocity", psWorldVelocity, 72, &puffer.WorldVelocity},
		{"puffer state min rnd velocity", psMinRandomVelocity, 84, &puffer.MinRandomVelocity},
		{"puffer state max rnd velocity", psMaxRandomVelocity, 96, &puffer.MaxRandomVelocity},
		{"puffer state world accel", psWorldAcceleration, 108, &puffer.WorldAcceleration},
	}
	for _, v := range vecs {
		if *v.dst, err = gatedVec3(v.name, flags&v.bit != 0, prim.GetVec3(data[v.off:]), base+uint32(v.off)); err != nil {
			return nil, err
		}
	}

	intervalType := le.Uint32(data[120:])
	if flags&psIntervalType != 0 {
		isDistance, err := assert.Bool("puffer state interval type", intervalType, base+120)
		if err != nil {
			return nil, err
		}
		if isDistance {
			puffer.Interval.Type = IntervalDistance
		} else {
			puffer.Interval.Type = IntervalTime
		}
	} else if err := assert.Equal("puffer state interval type", uint32(0), intervalType, base+120); err != nil {
		return nil, err
	}
	puffer.Interval.Value = f32(data[124:])
	if err := assert.GreaterEq("puffer state interval value", float32(0), puffer.Interval.Value, base+124); err != nil {
		return nil, err
	}
	// INTERVAL_VALUE does not appear to gate the value; track the raw bit
	puffer.Interval.Flag = flags&psIntervalValue != 0

	if flags&psSizeRange != 0 {
		sizeRange := prim.GetRange(data[128:])
		if err := assert.Greater("puffer state size range min", float32(0), sizeRange.Min, base+128); err != nil {
			return nil, err
		}
		if err := assert.Greater("puffer state size range max", sizeRange.Min, sizeRange.Max, base+132); err != nil {
			return nil, err
		}
		puffer.SizeRange = &sizeRange
	} else if err := assert.Equal("puffer state size range", prim.RangeDefault, prim.GetRange(data[128:]), base+128); err != nil {
		return nil, err
	}

	if flags&psLifetimeRange != 0 {
		lifetimeRange := prim.GetRange(data[136:])
		if err := assert.Greater("puffer state lifetime range min", float32(0), lifetimeRange.Min, base+136); err != nil {
			return nil, err
		}
		// max can be below min; only positivity holds across the corpus
		if err := assert.Greater("puffer state lifetime range max", float32(0), lifetimeRange.Max, base+140); err != nil {
			return nil, err
		}
		puffer.LifetimeRange = &lifetimeRange
	} else if err := assert.Equal("puffer state lifetime range", prim.RangeDefault, prim.GetRange(data[136:]), base+136); err != nil {
		return nil, err
	}

	if flags&psStartAgeRange != 0 {
		startAge := prim.GetRange(data[144:])
		if err := assert.GreaterEq("puffer state start age range min", float32(0), startAge.Min, base+144); err != nil {
			return nil, err
		}
		if err := assert.Greater("puffer state start age range max", startAge.Min, startAge.Max, base+148); err != nil {
			return nil, err
		}
		puffer.StartAgeRange = &startAge
	} else if err := assert.Equal("puffer state start age range", prim.RangeDefault, prim.GetRange(data[144:]), base+144); err != nil {
		return nil, err
	}

	if flags&psDeviationDistance != 0 {
		dev := f32(data[152:])
		if err := assert.Greater("puffer state deviation distance", float32(0), dev, base+152); err != nil {
			return nil, err
		}
		puffer.DeviationDistance = &dev
	} else if err := assert.Equal("puffer state deviation distance", float32(0), f32(data[152:]), base+152); err != nil {
		return nil, err
	}

	if err := assert.Equal("puffer state field 156", prim.RangeDefault, prim.GetRange(data[156:]), base+156); err != nil {
		return nil, err
	}

	if flags&psFadeRange != 0 {
		fadeRange := prim.GetRange(data[164:])
		if err := assert.Greater("puffer state fade range min", float32(0), fadeRange.Min, base+164); err != nil {
			return nil, err
		}
		if err := assert.Greater("puffer state fade range max", fadeRange.Min, fadeRange.Max, base+168); err != nil {
			return nil, err
		}
		puffer.FadeRange = &fadeRange
	} else if err := assert.Equal("puffer state fade range", prim.RangeDefault, prim.GetRange(data[164:]), base+164); err != nil {
		return nil, err
	}

	if flags&psFriction != 0 {
		friction := f32(data[172:])
		if err := assert.GreaterEq("puffer state friction", float32(0), friction, base+172); err != nil {
			return nil, err
		}
		puffer.Friction = &friction
	} else if err := assert.Equal("puffer state friction", float32(0), f32(data[172:]), base+172); err != nil {
		return nil, err
	}

	for _, off := range []int{176, 180, 184, 188} {
		if err := assert.Equal("puffer state field", uint32(0), le.Uint32(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}

	if flags&psCycleTexture != 0 {
		var textures PufferTextures
		for i, off := range pufferTexOffsets {
			if data[off] == 0 {
				if err := assert.AllZero("puffer state texture", data[off:off+36], base+uint32(off)); err != nil {
					return nil, err
				}
				continue
			}
			tex, err := assert.Ascii("puffer state texture", base+uint32(off), func() (string, error) {
				return prim.FromPadded(data[off : off+36])
			})
			if err != nil {
				return nil, err
			}
			textures[i] = &tex
		}
		puffer.Textures = &textures
	} else {
		for _, off := range pufferTexOffsets {
			if err := assert.AllZero("puffer state texture", data[off:off+36], base+uint32(off)); err != nil {
				return nil, err
			}
		}
	}

	if err := assert.AllZero("puffer state field 408", data[408:528], base+408); err != nil {
		return nil, err
	}
	if err := assert.Equal("puffer state field 532", uint32(0), le.Uint32(data[532:]), base+532); err != nil {
		return nil, err
	}
	if puffer.ActiveState != nil {
		if err := assert.Equal("puffer state field 528", uint32(2), le.Uint32(data[528:]), base+528); err != nil {
			return nil, err
		}
		if err := assert.Equal("puffer state field 536", float32(1), f32(data[536:]), base+536); err != nil {
			return nil, err
		}
		if err := assert.Equal("puffer state field 540", float32(1), f32(data[540:]), base+540); err != nil {
			return nil, err
		}
	} else {
		if err := assert.Equal("puffer state field 528", uint32(0), le.Uint32(data[528:]), base+528); err != nil {
			return nil, err
		}
		if err := assert.Equal("puffer state field 536", float32(0), f32(data[536:]), base+536); err != nil {
			return nil, err
		}
		if err := assert.Equal("puffer state field 540", float32(0), f32(data[540:]), base+540); err != nil {
			return nil, err
		}
	}

	if flags&psGrowthFactor != 0 {
		growth := f32(data[544:])
		if err := assert.Greater("puffer state growth factor", float32(0), growth, base+544); err != nil {
			return nil, err
		}
		puffer.GrowthFactor = &growth
	} else if err := assert.Equal("puffer state growth factor", float32(0), f32(data[544:]), base+544); err != nil {
		return nil, err
	}
	if err := assert.AllZero("puffer state field 548", data[548:580], base+548); err != nil {
		return nil, err
	}

	return puffer, nil
}

func (p *PufferState) write(w *iox.Writer, ctx *AnimDef) error {
	pufferIndex, err := ctx.PufferToIndex(p.Name)
	if err != nil {
		return err
	}
	data := make([]byte, pufferStateSize)
	if err := prim.ToPadded(p.Name, data[0:32]); err != nil {
		return err
	}
	le.PutUint32(data[32:], uint32(pufferIndex))

	var flags uint32
	if p.State {
		flags |= psState
	}
	if p.Translate {
		flags |= psTranslate
	}
	if p.ActiveState != nil {
		flags |= psActive
		le.PutUint32(data[40:], uint32(*p.ActiveState))
		le.PutUint32(data[528:], 2)
		putF32(data[536:], 1)
		putF32(data[540:], 1)
	} else {
		le.PutUint32(data[40:], uint32(0xFFFFFFFF))
	}
	if p.AtNode != nil {
		nodeIndex, err := ctx.NodeToIndex(p.AtNode.Node)
		if err != nil {
			return err
		}
		le.PutUint32(data[44:], uint32(nodeIndex))
		prim.PutVec3(data[48:], p.AtNode.Translation)
	}
	vecs := []struct {
		bit uint32
		off int
		src *prim.Vec3
	}{
		{psLocalVelocity, 60, p.LocalVelocity},
		{psWorldVelocity, 72, p.WorldVelocity},
		{psMinRandomVelocity, 84, p.MinRandomVelocity},
		{psMaxRandomVelocity, 96, p.MaxRandomVelocity},
		{psWorldAcceleration, 108, p.WorldAcceleration},
	}
	for _, v := range vecs {
		if v.src != nil {
			flags |= v.bit
			prim.PutVec3(data[v.off:], *v.src)
		}
	}
	switch p.Interval.Type {
	case IntervalTime:
		flags |= psIntervalType
	case IntervalDistance:
		flags |= psIntervalType
		le.PutUint32(data[120:], 1)
	}
	putF32(data[124:], p.Interval.Value)
	if p.Interval.Flag {
		flags |= psIntervalValue
	}
	ranges := []struct {
		bit uint32
		off int
		src *prim.Range
	}{
		{psSizeRange, 128, p.SizeRange},
		{psLifetimeRange, 136, p.LifetimeRange},
		{psStartAgeRange, 144, p.StartAgeRange},
		{psFadeRange, 164, p.FadeRange},
	}
	for _, rg := range ranges {
		if rg.src != nil {
			flags |= rg.bit
			prim.PutRange(data[rg.off:], *rg.src)
		}
	}
	if p.DeviationDistance != nil {
		flags |= psDeviationDistance
		putF32(data[152:], *p.DeviationDistance)
	}
	if p.Friction != nil {
		flags |= psFriction
		putF32(data[172:], *p.Friction)
	}
	if p.Textures != nil {
		flags |= psCycleTexture
		for i, off := range pufferTexOffsets {
			if p.Textures[i] == nil {
				continue
			}
			if err := prim.ToPadded(*p.Textures[i], data[off:off+36]); err != nil {
				return err
			}
		}
	}
	if p.GrowthFactor != nil {
		flags |= psGrowthFactor
		putF32(data[544:], *p.GrowthFactor)
	}
	le.PutUint32(data[36:], flags)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindPufferState, pufferStateSize, readPufferState)
}
