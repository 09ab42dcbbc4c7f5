package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// ConnectorPos is one endpoint position of a connector: either an explicit
// position or the engine's input position.
type ConnectorPos struct {
	Pos   *prim.Vec3 `json:"pos,omitempty"`
	Input bool       `json:"input,omitempty"`
}

// ConnectorTime is one endpoint time: a scalar or a range.
type ConnectorTime struct {
	Scalar *float32    `json:"scalar,omitempty"`
	Range  *prim.Range `json:"range,omitempty"`
}

// ObjectConnector flag word.
const (
	ocFromNode     uint32 = 1 << 0
	ocToNode       uint32 = 1 << 1
	ocFromPos      uint32 = 1 << 2
	ocFromInputPos uint32 = 1 << 3
	ocToPos        uint32 = 1 << 4
	ocToInputPos   uint32 = 1 << 5
	ocFromT        uint32 = 1 << 6
	ocFromTRange   uint32 = 1 << 7
	ocToT          uint32 = 1 << 8
	ocToTRange     uint32 = 1 << 9
	ocMaxLength    uint32 = 1 << 10
)

const ocValid = ocFromNode | ocToNode | ocFromPos | ocFromInputPos | ocToPos |
	ocToInputPos | ocFromT | ocFromTRange | ocToT | ocToTRange | ocMaxLength

// ObjectConnector stretches a connector object between two endpoints.
//
// On disk (64 bytes):
//
//	flags     u32  // 0
//	nodeIndex u16  // 4, the connector node
//	fromIndex u16  // 6, gated by FROM_NODE
//	toIndex   u16  // 8, gated by TO_NODE
//	pad10     u16  // 10, must be zero
//	fromPos   Vec3 // 12, gated
//	toPos     Vec3 // 24, gated
//	fromT     f32  // 36, gated; range start when FROM_T_RANGE
//	fromTEnd  f32  // 40, range end, gated by FROM_T_RANGE
//	toT       f32  // 44
//	toTEnd    f32  // 48
//	runTime   f32  // 52, > 0
//	maxLength f32  // 56, gated
//	zero60    u32  // 60
type ObjectConnector struct {
	Name      string         `json:"name"`
	FromNode  *string        `json:"from_node,omitempty"`
	ToNode    *string        `json:"to_node,omitempty"`
	FromPos   *ConnectorPos  `json:"from_pos,omitempty"`
	ToPos     *ConnectorPos  `json:"to_pos,omitempty"`
	FromT     *ConnectorTime `json:"from_t,omitempty"`
	ToT       *ConnectorTime `json:"to_t,omitempty"`
	RunTime   float32        `json:"run_time"`
	MaxLength *float32       `json:"max_length,omitempty"`
}

const objectConnectorSize = 64

func (*ObjectConnector) Kind() uint8         { return KindObjectConnector }
func (*ObjectConnector) PayloadSize() uint32 { return objectConnectorSize }

func readConnectorPos(name string, data []byte, base uint32, off int, posBit, inputBit bool) (*ConnectorPos, error) {
	pos := prim.GetVec3(data[off:])
	if inputBit {
		if posBit {
			return nil, assert.Equal(name+" pos bits", false, true, base+0)
		}
		if err := assert.Equal(name, prim.Vec3Default, pos, base+uint32(off)); err != nil {
			return nil, err
		}
		return &ConnectorPos{Input: true}, nil
	}
	if posBit {
		v := pos
		return &ConnectorPos{Pos: &v}, nil
	}
	if err := assert.Equal(name, prim.Vec3Default, pos, base+uint32(off)); err != nil {
		return nil, err
	}
	return nil, nil
}

func readConnectorTime(name string, data []byte, base uint32, off int, tBit, rangeBit bool) (*ConnectorTime, error) {
	t1 := f32(data[off:])
	t2 := f32(data[off+4:])
	if rangeBit {
		if tBit {
			return nil, assert.Equal(name+" time bits", false, true, base+0)
		}
		return &ConnectorTime{Range: &prim.Range{Min: t1, Max: t2}}, nil
	}
	if err := assert.Equal(name+" end", float32(0), t2, base+uint32(off+4)); err != nil {
		return nil, err
	}
	if tBit {
		v := t1
		return &ConnectorTime{Scalar: &v}, nil
	}
	if err := assert.Equal(name, float32(0), t1, base+uint32(off)); err != nil {
		return nil, err
	}
	return nil, nil
}

func readObjectConnector(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectConnectorSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("object connector flags", ocValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint16(data[4:])), base+4)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("object connector field 10", uint16(0), le.Uint16(data[10:]), base+10); err != nil {
		return nil, err
	}
	if err := assert.Equal("object connector field 60", uint32(0), le.Uint32(data[60:]), base+60); err != nil {
		return nil, err
	}

	conn := &ObjectConnector{Name: node}
	if flags&ocFromNode != 0 {
		from, err := ctx.NodeFromIndexOrInput(int(le.Uint16(data[6:])), base+6)
		if err != nil {
			return nil, err
		}
		conn.FromNode = &from
	} else if err := assert.Equal("object connector from index", uint16(0), le.Uint16(data[6:]), base+6); err != nil {
		return nil, err
	}
	if flags&ocToNode != 0 {
		to, err := ctx.NodeFromIndexOrInput(int(le.Uint16(data[8:])), base+8)
		if err != nil {
			return nil, err
		}
		conn.ToNode = &to
	} else if err := assert.Equal("object connector to index", uint16(0), le.Uint16(data[8:]), base+8); err != nil {
		return nil, err
	}

	if conn.FromPos, err = readConnectorPos("object connector from pos", data, base, 12,
		flags&ocFromPos != 0, flags&ocFromInputPos != 0); err != nil {
		return nil, err
	}
	if conn.ToPos, err = readConnectorPos("object connector to pos", data, base, 24,
		flags&ocToPos != 0, flags&ocToInputPos != 0); err != nil {
		return nil, err
	}
	if conn.FromT, err = readConnectorTime("object connector from t", data, base, 36,
		flags&ocFromT != 0, flags&ocFromTRange != 0); err != nil {
		return nil, err
	}
	if conn.ToT, err = readConnectorTime("object connector to t", data, base, 44,
		flags&ocToT != 0, flags&ocToTRange != 0); err != nil {
		return nil, err
	}

	conn.RunTime = f32(data[52:])
	if err := assert.Greater("object connector run time", float32(0), conn.RunTime, base+52); err != nil {
		return nil, err
	}
	if conn.MaxLength, err = gatedF32("object connector max length",
		flags&ocMaxLength != 0, f32(data[56:]), base+56); err != nil {
		return nil, err
	}
	return conn, nil
}

func putConnectorPos(data []byte, off int, pos *ConnectorPos, posBit, inputBit uint32) uint32 {
	if pos == nil {
		return 0
	}
	if pos.Input {
		return inputBit
	}
	prim.PutVec3(data[off:], *pos.Pos)
	return posBit
}

func putConnectorTime(data []byte, off int, t *ConnectorTime, tBit, rangeBit uint32) uint32 {
	if t == nil {
		return 0
	}
	if t.Range != nil {
		putF32(data[off:], t.Range.Min)
		putF32(data[off+4:], t.Range.Max)
		return rangeBit
	}
	putF32(data[off:], *t.Scalar)
	return tBit
}

func (c *ObjectConnector) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(c.Name)
	if err != nil {
		return err
	}
	data := make([]byte, objectConnectorSize)
	var flags uint32
	le.PutUint16(data[4:], uint16(nodeIndex))
	if c.FromNode != nil {
		flags |= ocFromNode
		fromIndex, err := ctx.NodeToIndexOrInput(*c.FromNode)
		if err != nil {
			return err
		}
		le.PutUint16(data[6:], uint16(fromIndex))
	}
	if c.ToNode != nil {
		flags |= ocToNode
		toIndex, err := ctx.NodeToIndexOrInput(*c.ToNode)
		if err != nil {
			return err
		}
		le.PutUint16(data[8:], uint16(toIndex))
	}
	flags |= putConnectorPos(data, 12, c.FromPos, ocFromPos, ocFromInputPos)
	flags |= putConnectorPos(data, 24, c.ToPos, ocToPos, ocToInputPos)
	flags |= putConnectorTime(data, 36, c.FromT, ocFromT, ocFromTRange)
	flags |= putConnectorTime(data, 44, c.ToT, ocToT, ocToTRange)
	putF32(data[52:], c.RunTime)
	if c.MaxLength != nil {
		flags |= ocMaxLength
		putF32(data[56:], *c.MaxLength)
	}
	le.PutUint32(data[0:], flags)
	return w.WriteAll(data)
}

// CallObjectConnectorTarget is one endpoint of a CallObjectConnector.
type CallObjectConnectorTarget struct {
	Name string `json:"name"`
	// Pos overrides the position from the node and unsets it.
	Pos bool `json:"pos"`
}

// CallObjectConnector flag word.
const (
	cocFromNode     uint32 = 1 << 0
	cocFromNodePos  uint32 = 1 << 1
	cocToNode       uint32 = 1 << 2
	cocToNodePos    uint32 = 1 << 3
	cocFromPos      uint32 = 1 << 4
	cocFromInputPos uint32 = 1 << 5
	cocToPos        uint32 = 1 << 6
	cocToInputPos   uint32 = 1 << 7
	cocSaveIndex    uint32 = 1 << 8
)

const cocValid = cocFromNode | cocFromNodePos | cocToNode | cocToNodePos |
	cocFromPos | cocFromInputPos | cocToPos | cocToInputPos | cocSaveIndex

// CallObjectConnector calls a connector animation by name.
//
// On disk (68 bytes):
//
//	flags     u32    // 0
//	name      [32]u8 // 4, padded anim name
//	saveIndex i16    // 36, -1 unless SAVE_INDEX
//	fromIndex u16    // 38
//	toIndex   u16    // 40
//	pad42     u16    // 42, must be zero
//	fromPos   Vec3   // 44, gated
//	toPos     Vec3   // 56, gated
type CallObjectConnector struct {
	Name      string                     `json:"name"`
	SaveIndex *int16                     `json:"save_index,omitempty"`
	FromNode  *CallObjectConnectorTarget `json:"from_node,omitempty"`
	ToNode    *CallObjectConnectorTarget `json:"to_node,omitempty"`
	FromPos   *ConnectorPos              `json:"from_pos,omitempty"`
	ToPos     *ConnectorPos              `json:"to_pos,omitempty"`
}

const callObjectConnectorSize = 68

func (*CallObjectConnector) Kind() uint8         { return KindCallObjectConnector }
func (*CallObjectConnector) PayloadSize() uint32 { return callObjectConnectorSize }

func readConnectorTarget(ctx *AnimDef, index uint16, base uint32, off uint32, nodeBit, posBit bool) (*CallObjectConnectorTarget, error) {
	if !nodeBit && !posBit {
		if err := assert.Equal("call object connector node index", uint16(0), index, base+off); err != nil {
			return nil, err
		}
		return nil, nil
	}
	node, err := ctx.NodeFromIndexOrInput(int(index), base+off)
	if err != nil {
		return nil, err
	}
	return &CallObjectConnectorTarget{Name: node, Pos: posBit}, nil
}

func readCallObjectConnector(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(callObjectConnectorSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("call object connector flags", cocValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	name, err := assert.Ascii("call object connector name", base+4, func() (string, error) {
		return prim.FromPadded(data[4:36])
	})
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("call object connector field 42", uint16(0), le.Uint16(data[42:]), base+42); err != nil {
		return nil, err
	}

	conn := &CallObjectConnector{Name: name}
	saveIndex := int16(le.Uint16(data[36:]))
	if flags&cocSaveIndex != 0 {
		if err := assert.GreaterEq("call object connector save index", int16(0), saveIndex, base+36); err != nil {
			return nil, err
		}
		conn.SaveIndex = &saveIndex
	} else if err := assert.Equal("call object connector save index", int16(-1), saveIndex, base+36); err != nil {
		return nil, err
	}

	if conn.FromNode, err = readConnectorTarget(ctx, le.Uint16(data[38:]), base, 38,
		flags&cocFromNode != 0, flags&cocFromNodePos != 0); err != nil {
		return nil, err
	}
	if conn.ToNode, err = readConnectorTarget(ctx, le.Uint16(data[40:]), base, 40,
		flags&cocToNode != 0, flags&cocToNodePos != 0); err != nil {
		return nil, err
	}
	if conn.FromPos, err = readConnectorPos("call object connector from pos", data, base, 44,
		flags&cocFromPos != 0, flags&cocFromInputPos != 0); err != nil {
		return nil, err
	}
	if conn.ToPos, err = readConnectorPos("call object connector to pos", data, base, 56,
		flags&cocToPos != 0, flags&cocToInputPos != 0); err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *CallObjectConnector) write(w *iox.Writer, ctx *AnimDef) error {
	data := make([]byte, callObjectConnectorSize)
	var flags uint32
	if err := prim.ToPadded(c.Name, data[4:36]); err != nil {
		return err
	}
	if c.SaveIndex != nil {
		flags |= cocSaveIndex
		le.PutUint16(data[36:], uint16(*c.SaveIndex))
	} else {
		le.PutUint16(data[36:], 0xFFFF)
	}
	putTarget := func(off int, target *CallObjectConnectorTarget, nodeBit, posBit uint32) (uint32, error) {
		if target == nil {
			return 0, nil
		}
		index, err := ctx.NodeToIndexOrInput(target.Name)
		if err != nil {
			return 0, err
		}
		le.PutUint16(data[off:], uint16(index))
		if target.Pos {
			return posBit, nil
		}
		return nodeBit, nil
	}
	bit, err := putTarget(38, c.FromNode, cocFromNode, cocFromNodePos)
	if err != nil {
		return err
	}
	flags |= bit
	if bit, err = putTarget(40, c.ToNode, cocToNode, cocToNodePos); err != nil {
		return err
	}
	flags |= bit
	flags |= putConnectorPos(data, 44, c.FromPos, cocFromPos, cocFromInputPos)
	flags |= putConnectorPos(data, 56, c.ToPos, cocToPos, cocToInputPos)
	le.PutUint32(data[0:], flags)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindObjectConnector, objectConnectorSize, readObjectConnector)
	registerEvent(KindCallObjectConnector, callObjectConnectorSize, readCallObjectConnector)
}
