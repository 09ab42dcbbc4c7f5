package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// FogType selects the fog falloff model.
type FogType uint32

// Fog types. Exponential is defined by the engine but never read.
const (
	FogTypeOff         FogType = 0
	FogTypeLinear      FogType = 1
	FogTypeExponential FogType = 2
)

// FogState flag word.
const (
	fogType     uint32 = 1 << 0
	fogColor    uint32 = 1 << 1
	fogAltitude uint32 = 1 << 2
	fogRange    uint32 = 1 << 3
)

const fogValid = fogType | fogColor | fogAltitude | fogRange

// FogState reconfigures the world fog. Every field is flag-gated.
//
// On disk (36 bytes):
//
//	flags    u32   // 0
//	fogType  u32   // 4, gated
//	color    Color // 8, gated
//	altitude Range // 20, gated
//	range    Range // 28, gated
type FogState struct {
	Type     *FogType    `json:"type,omitempty"`
	Color    *prim.Color `json:"color,omitempty"`
	Altitude *prim.Range `json:"altitude,omitempty"`
	Range    *prim.Range `json:"range,omitempty"`
}

const fogStateSize = 36

func (*FogState) Kind() uint8         { return KindFogState }
func (*FogState) PayloadSize() uint32 { return fogStateSize }

func readFogState(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(fogStateSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("fog state flags", fogValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	state := &FogState{}
	rawType := le.Uint32(data[4:])
	if flags&fogType != 0 {
		if err := assert.In("fog state type", []uint32{0, 1, 2}, rawType, base+4); err != nil {
			return nil, err
		}
		t := FogType(rawType)
		state.Type = &t
	} else if err := assert.Equal("fog state type", uint32(0), rawType, base+4); err != nil {
		return nil, err
	}
	if state.Color, err = gatedColor("fog state color", flags&fogColor != 0, prim.GetColor(data[8:]), base+8); err != nil {
		return nil, err
	}
	if state.Altitude, err = gatedRange("fog state altitude", flags&fogAltitude != 0, prim.GetRange(data[20:]), base+20); err != nil {
		return nil, err
	}
	if state.Range, err = gatedRange("fog state range", flags&fogRange != 0, prim.GetRange(data[28:]), base+28); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *FogState) write(w *iox.Writer, _ *AnimDef) error {
	data := make([]byte, fogStateSize)
	var flags uint32
	if s.Type != nil {
		flags |= fogType
		le.PutUint32(data[4:], uint32(*s.Type))
	}
	if s.Color != nil {
		flags |= fogColor
		prim.PutColor(data[8:], *s.Color)
	}
	if s.Altitude != nil {
		flags |= fogAltitude
		prim.PutRange(data[20:], *s.Altitude)
	}
	if s.Range != nil {
		flags |= fogRange
		prim.PutRange(data[28:], *s.Range)
	}
	le.PutUint32(data[0:], flags)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindFogState, fogStateSize, readFogState)
}
