package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
)

// ObjectAddChild re-parents a node under another.
//
// On disk (4 bytes):
//
//	parentIndex u16 // 0
//	childIndex  u16 // 2
type ObjectAddChild struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

const objectChildSize = 4

func (*ObjectAddChild) Kind() uint8         { return KindObjectAddChild }
func (*ObjectAddChild) PayloadSize() uint32 { return objectChildSize }

func readParentChild(r *iox.Reader, ctx *AnimDef) (string, string, error) {
	data, err := r.ReadBytes(objectChildSize)
	if err != nil {
		return "", "", err
	}
	base := r.Prev
	parent, err := ctx.NodeFromIndex(int(le.Uint16(data[0:])), base+0)
	if err != nil {
		return "", "", err
	}
	child, err := ctx.NodeFromIndex(int(le.Uint16(data[2:])), base+2)
	if err != nil {
		return "", "", err
	}
	return parent, child, nil
}

func writeParentChild(w *iox.Writer, ctx *AnimDef, parent, child string) error {
	parentIndex, err := ctx.NodeToIndex(parent)
	if err != nil {
		return err
	}
	childIndex, err := ctx.NodeToIndex(child)
	if err != nil {
		return err
	}
	data := make([]byte, objectChildSize)
	le.PutUint16(data[0:], uint16(parentIndex))
	le.PutUint16(data[2:], uint16(childIndex))
	return w.WriteAll(data)
}

func readObjectAddChild(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	parent, child, err := readParentChild(r, ctx)
	if err != nil {
		return nil, err
	}
	return &ObjectAddChild{Parent: parent, Child: child}, nil
}

func (c *ObjectAddChild) write(w *iox.Writer, ctx *AnimDef) error {
	return writeParentChild(w, ctx, c.Parent, c.Child)
}

// ObjectDeleteChild detaches a node from its parent. Same layout as
// ObjectAddChild.
type ObjectDeleteChild struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

func (*ObjectDeleteChild) Kind() uint8         { return KindObjectDeleteChild }
func (*ObjectDeleteChild) PayloadSize() uint32 { return objectChildSize }

func readObjectDeleteChild(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	parent, child, err := readParentChild(r, ctx)
	if err != nil {
		return nil, err
	}
	return &ObjectDeleteChild{Parent: parent, Child: child}, nil
}

func (c *ObjectDeleteChild) write(w *iox.Writer, ctx *AnimDef) error {
	return writeParentChild(w, ctx, c.Parent, c.Child)
}

// ObjectCycleTexture restarts a node's texture cycle.
//
// On disk (4 bytes):
//
//	reset     u16 // 0, 0..=5
//	nodeIndex u16 // 2
type ObjectCycleTexture struct {
	Name  string `json:"name"`
	Reset uint16 `json:"reset"`
}

const objectCycleTextureSize = 4

func (*ObjectCycleTexture) Kind() uint8         { return KindObjectCycleTexture }
func (*ObjectCycleTexture) PayloadSize() uint32 { return objectCycleTextureSize }

func readObjectCycleTexture(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectCycleTextureSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	reset := le.Uint16(data[0:])
	if err := assert.LessEq("object cycle texture reset", uint16(5), reset, base+0); err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint16(data[2:])), base+2)
	if err != nil {
		return nil, err
	}
	return &ObjectCycleTexture{Name: node, Reset: reset}, nil
}

func (c *ObjectCycleTexture) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(c.Name)
	if err != nil {
		return err
	}
	data := make([]byte, objectCycleTextureSize)
	le.PutUint16(data[0:], c.Reset)
	le.PutUint16(data[2:], uint16(nodeIndex))
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindObjectAddChild, objectChildSize, readObjectAddChild)
	registerEvent(KindObjectDeleteChild, objectChildSize, readObjectDeleteChild)
	registerEvent(KindObjectCycleTexture, objectCycleTextureSize, readObjectCycleTexture)
}
