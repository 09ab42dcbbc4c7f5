package nodes

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Window is the window class payload.
type Window struct {
	ResolutionX uint32 `json:"resolution_x"`
	ResolutionY uint32 `json:"resolution_y"`
}

// windowSize:
//
//	originX     u32     // 000, must be 0
//	originY     u32     // 004, must be 0
//	resolution  u32 x2  // 008
//	zero016     [212]u8 // 016
//	bufferIndex i32     // 228, must be -1
//	bufferPtr   u32     // 232, must be null
//	zero236     u32 x3  // 236
const windowSize = 248

const windowName = "window1"

func readWindow(r *iox.Reader) (*Window, error) {
	data, err := r.ReadBytes(windowSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("window origin x", uint32(0), le.Uint32(data[0:]), base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("window origin y", uint32(0), le.Uint32(data[4:]), base+4); err != nil {
		return nil, err
	}
	resX := le.Uint32(data[8:])
	resY := le.Uint32(data[12:])
	if err := assert.Equal("window resolution x", uint32(320), resX, base+8); err != nil {
		return nil, err
	}
	if err := assert.Equal("window resolution y", uint32(200), resY, base+12); err != nil {
		return nil, err
	}
	if err := assert.AllZero("window field 016", data[16:228], base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("window buffer index", int32(-1), int32(le.Uint32(data[228:])), base+228); err != nil {
		return nil, err
	}
	if err := assert.Equal("window buffer ptr", uint32(0), le.Uint32(data[232:]), base+232); err != nil {
		return nil, err
	}
	for _, off := range []int{236, 240, 244} {
		if err := assert.Equal("window field", uint32(0), le.Uint32(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}
	return &Window{ResolutionX: resX, ResolutionY: resY}, nil
}

func writeWindow(w *iox.Writer, window *Window) error {
	data := make([]byte, windowSize)
	le.PutUint32(data[8:], window.ResolutionX)
	le.PutUint32(data[12:], window.ResolutionY)
	le.PutUint32(data[228:], uint32(0xFFFFFFFF))
	return w.WriteAll(data)
}

func assertWindowInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("window name", windowName, info.Name, offset+0); err != nil {
		return err
	}
	return assertSingletonInfo("window", info, offset)
}

// Display is the display class payload.
type Display struct {
	ResolutionX uint32     `json:"resolution_x"`
	ResolutionY uint32     `json:"resolution_y"`
	ClearColor  prim.Color `json:"clear_color"`
}

// displaySize:
//
//	originX    u32    // 000, must be 0
//	originY    u32    // 004, must be 0
//	resolution u32 x2 // 008, (640, 400)
//	clearColor Color  // 016, each channel 0..=1
const displaySize = 28

const displayName = "display"

func readDisplay(r *iox.Reader) (*Display, error) {
	data, err := r.ReadBytes(displaySize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("display origin x", uint32(0), le.Uint32(data[0:]), base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("display origin y", uint32(0), le.Uint32(data[4:]), base+4); err != nil {
		return nil, err
	}
	resX := le.Uint32(data[8:])
	resY := le.Uint32(data[12:])
	if err := assert.Equal("display resolution x", uint32(640), resX, base+8); err != nil {
		return nil, err
	}
	if err := assert.Equal("display resolution y", uint32(400), resY, base+12); err != nil {
		return nil, err
	}
	clearColor := prim.GetColor(data[16:])
	if err := assert.Between("display clear color r", float32(0), float32(1), clearColor.R, base+16); err != nil {
		return nil, err
	}
	if err := assert.Between("display clear color g", float32(0), float32(1), clearColor.G, base+20); err != nil {
		return nil, err
	}
	if err := assert.Between("display clear color b", float32(0), float32(1), clearColor.B, base+24); err != nil {
		return nil, err
	}
	return &Display{ResolutionX: resX, ResolutionY: resY, ClearColor: clearColor}, nil
}

func writeDisplay(w *iox.Writer, display *Display) error {
	data := make([]byte, displaySize)
	le.PutUint32(data[8:], display.ResolutionX)
	le.PutUint32(data[12:], display.ResolutionY)
	prim.PutColor(data[16:], display.ClearColor)
	return w.WriteAll(data)
}

func assertDisplayInfo(info *NodeInfo, offset uint32) error {
	if err := assert.Equal("display name", displayName, info.Name, offset+0); err != nil {
		return err
	}
	return assertSingletonInfo("display", info, offset)
}

// assertSingletonInfo covers the shared constant expectations of the
// window and display nodes.
func assertSingletonInfo(class string, info *NodeInfo, offset uint32) error {
	if err := assert.Equal(class+" flags", FlagsDefault, info.Flags, offset+36); err != nil {
		return err
	}
	if err := assert.Equal(class+" update flags", uint32(0), info.UpdateFlags, offset+44); err != nil {
		return err
	}
	if err := assert.Equal(class+" zone id", ZoneDefault, info.ZoneID, offset+48); err != nil {
		return err
	}
	if err := assert.Unequal(class+" data ptr", prim.PtrNull, info.DataPtr, offset+56); err != nil {
		return err
	}
	if err := assert.Equal(class+" mesh index", int32(-1), info.MeshIndex, offset+60); err != nil {
		return err
	}
	if err := assert.Equal(class+" area partition", true, info.AreaPartition == nil, offset+76); err != nil {
		return err
	}
	if err := assert.Equal(class+" has parent", false, info.HasParent, offset+84); err != nil {
		return err
	}
	if err := assert.Equal(class+" children count", uint32(0), info.ChildrenCount, offset+92); err != nil {
		return err
	}
	if err := assert.Equal(class+" node bbox", BboxEmpty, info.NodeBbox, offset+116); err != nil {
		return err
	}
	if err := assert.Equal(class+" model bbox", BboxEmpty, info.ModelBbox, offset+140); err != nil {
		return err
	}
	if err := assert.Equal(class+" child bbox", BboxEmpty, info.ChildBbox, offset+164); err != nil {
		return err
	}
	return assert.Equal(class+" field 196", uint32(0), info.Field196, offset+196)
}
