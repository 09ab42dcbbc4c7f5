package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// AnimVerbose toggles animation logging. The engine ignores it.
//
// On disk (4 bytes): on u32, bool.
type AnimVerbose struct {
	On bool `json:"on"`
}

const animVerboseSize = 4

func (*AnimVerbose) Kind() uint8         { return KindAnimVerbose }
func (*AnimVerbose) PayloadSize() uint32 { return animVerboseSize }

func readAnimVerbose(r *iox.Reader, _ *AnimDef, _ uint32) (EventData, error) {
	raw, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	on, err := assert.Bool("anim verbose on", raw, r.Prev)
	if err != nil {
		return nil, err
	}
	return &AnimVerbose{On: on}, nil
}

func (v *AnimVerbose) write(w *iox.Writer, _ *AnimDef) error {
	return w.WriteU32(boolToU32(v.On))
}

// DetonateWeapon detonates a weapon at a node.
//
// On disk (24 bytes):
//
//	name        [10]u8 // 0, padded weapon name
//	nodeIndex   u16    // 10
//	translation Vec3   // 12
type DetonateWeapon struct {
	Name   string `json:"name"`
	AtNode AtNode `json:"at_node"`
}

const detonateWeaponSize = 24

func (*DetonateWeapon) Kind() uint8         { return KindDetonateWeapon }
func (*DetonateWeapon) PayloadSize() uint32 { return detonateWeaponSize }

func readDetonateWeapon(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(detonateWeaponSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	name, err := assert.Ascii("detonate weapon name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:10])
	})
	if err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint16(data[10:])), base+10)
	if err != nil {
		return nil, err
	}
	return &DetonateWeapon{
		Name:   name,
		AtNode: AtNode{Node: node, Translation: prim.GetVec3(data[12:])},
	}, nil
}

func (d *DetonateWeapon) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(d.AtNode.Node)
	if err != nil {
		return err
	}
	data := make([]byte, detonateWeaponSize)
	if err := prim.ToPadded(d.Name, data[0:10]); err != nil {
		return err
	}
	le.PutUint16(data[10:], uint16(nodeIndex))
	prim.PutVec3(data[12:], d.AtNode.Translation)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindAnimVerbose, animVerboseSize, readAnimVerbose)
	registerEvent(KindDetonateWeapon, detonateWeaponSize, readDetonateWeapon)
}
