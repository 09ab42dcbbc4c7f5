// Package texture implements the texture container codec: a directory of
// image records with per-image palette modes (none/local/global) and alpha
// modes (none/simple/full), plus the file-level global palette section.
//
// Image data is converted between the on-disk 16-bit formats and 24-bit
// channels on the way through; the conversions live in internal/pixel and
// are exact inverses, so a read-then-write round-trip is byte-identical.
package texture

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/internal/pixel"
	"github.com/mechres/zbd/internal/rename"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

// Texture flag word.
const (
	// if set, 2 bytes per pixel; 1-byte pixels are not implemented
	flagBytesPerPixel2 uint32 = 1 << 0
	flagHasAlpha       uint32 = 1 << 1
	flagNoAlpha        uint32 = 1 << 2
	flagFullAlpha      uint32 = 1 << 3
	flagGlobalPalette  uint32 = 1 << 4
	// loader state, preserved verbatim when set in a file
	flagImageLoaded   uint32 = 1 << 5
	flagAlphaLoaded   uint32 = 1 << 6
	flagPaletteLoaded uint32 = 1 << 7
)

const flagsValid = flagBytesPerPixel2 | flagHasAlpha | flagNoAlpha |
	flagFullAlpha | flagGlobalPalette | flagImageLoaded | flagAlphaLoaded |
	flagPaletteLoaded

// Alpha is a texture's alpha mode.
type Alpha uint8

// Alpha modes. Simple alpha has no bytes on disk; it is derived from the
// RGB data.
const (
	AlphaNone Alpha = iota
	AlphaSimple
	AlphaFull
)

// Stretch is a texture's stretch hint.
type Stretch uint16

// Stretch variants, in on-disk tag order.
const (
	StretchNone Stretch = iota
	StretchVertical
	StretchHorizontal
	StretchBoth
)

// GlobalPalette references an entry of the file's global palette section.
type GlobalPalette struct {
	Index int32  `json:"index"`
	Count uint16 `json:"count"`
}

// Palette is a texture's palette mode: none (true color), a local palette
// (stored as expanded RGB-888), or a global palette reference.
type Palette struct {
	Local  []byte         `json:"local,omitempty"`
	Global *GlobalPalette `json:"global,omitempty"`
}

// Info is one texture's decoded header.
type Info struct {
	Name string `json:"name"`
	// Rename is set when the container holds the same name twice; it is
	// the unique filename used for on-disk extraction.
	Rename        string  `json:"rename,omitempty"`
	Alpha         Alpha   `json:"alpha"`
	Width         uint16  `json:"width"`
	Height        uint16  `json:"height"`
	Stretch       Stretch `json:"stretch"`
	ImageLoaded   bool    `json:"image_loaded"`
	AlphaLoaded   bool    `json:"alpha_loaded"`
	PaletteLoaded bool    `json:"palette_loaded"`
	Palette       Palette `json:"palette"`
}

// Image is one decoded texture: the header plus the expanded pixel data.
// Data is RGB-888 (palette modes store indices in Indices instead) and
// AlphaData the per-pixel plane for full alpha.
type Image struct {
	Info Info `json:"info"`
	// Data is RGB-888 for true-color textures, nil for paletted ones.
	Data []byte `json:"data,omitempty"`
	// Indices are the palette-index bytes for paletted textures.
	Indices []byte `json:"indices,omitempty"`
	// AlphaData is the alpha plane for full alpha; derived and not
	// round-tripped for simple alpha.
	AlphaData []byte `json:"alpha_data,omitempty"`
}

// Manifest is a decoded texture container.
type Manifest struct {
	Textures []Image `json:"textures"`
	// GlobalPalettes are the file-level palettes, expanded to RGB-888.
	GlobalPalettes [][]byte `json:"global_palettes,omitempty"`
}

// maxTextures is the hard cap on the texture count.
const maxTextures = 4096

// File header (24 bytes):
//
//	zero00             u32 // 00
//	hasEntries         u32 // 04, must be 1
//	globalPaletteCount i32 // 08
//	textureCount       u32 // 12, > 0
//	zero16             u32 // 16
//	zero20             u32 // 20
const headerSize = 24

// Directory entry (40 bytes):
//
//	name         [32]u8 // 00
//	startOffset  u32    // 32
//	paletteIndex i32    // 36, -1 or an index into the global palettes
const entrySize = 40

// Texture info (16 bytes):
//
//	flags        u32 // 00
//	width        u16 // 04
//	height       u16 // 06
//	zero08       u32 // 08
//	paletteCount u16 // 12
//	stretch      u16 // 14
const infoSize = 16

// globalPaletteSize is one global palette: 256 RGB-565 entries.
const globalPaletteSize = 512

func readTexture(r *iox.Reader, name string, globalPalette []byte, paletteIndex int32) (Image, error) {
	data, err := r.ReadBytes(infoSize)
	if err != nil {
		return Image{}, err
	}
	base := r.Prev
	flags, err := assert.Flags("texture flags", flagsValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return Image{}, err
	}
	if err := assert.Equal("texture field 08", uint32(0), le.Uint32(data[8:]), base+8); err != nil {
		return Image{}, err
	}
	// one byte per pixel support isn't implemented
	if err := assert.Equal("texture 2 bytes per pixel", flagBytesPerPixel2, flags&flagBytesPerPixel2, base+0); err != nil {
		return Image{}, err
	}
	hasGlobal := flags&flagGlobalPalette != 0
	if err := assert.Equal("texture global palette", globalPalette != nil, hasGlobal, base+0); err != nil {
		return Image{}, err
	}
	paletteCount := le.Uint16(data[12:])
	if hasGlobal {
		if err := assert.Greater("texture palette count", uint16(0), paletteCount, base+12); err != nil {
			return Image{}, err
		}
	}

	var alpha Alpha
	if flags&flagNoAlpha != 0 {
		if err := assert.Equal("texture full alpha", uint32(0), flags&flagFullAlpha, base+0); err != nil {
			return Image{}, err
		}
		if err := assert.Equal("texture has alpha", uint32(0), flags&flagHasAlpha, base+0); err != nil {
			return Image{}, err
		}
		alpha = AlphaNone
	} else {
		if err := assert.Equal("texture has alpha", flagHasAlpha, flags&flagHasAlpha, base+0); err != nil {
			return Image{}, err
		}
		if flags&flagFullAlpha != 0 {
			alpha = AlphaFull
		} else {
			alpha = AlphaSimple
		}
	}

	stretch := le.Uint16(data[14:])
	if err := assert.LessEq("texture stretch", uint16(StretchBoth), stretch, base+14); err != nil {
		return Image{}, err
	}

	image := Image{Info: Info{
		Name:          name,
		Alpha:         alpha,
		Width:         le.Uint16(data[4:]),
		Height:        le.Uint16(data[6:]),
		Stretch:       Stretch(stretch),
		ImageLoaded:   flags&flagImageLoaded != 0,
		AlphaLoaded:   flags&flagAlphaLoaded != 0,
		PaletteLoaded: flags&flagPaletteLoaded != 0,
	}}
	if image.Info.Width == 0 || image.Info.Height == 0 {
		return Image{}, errs.Newf(base+4, "texture size", "to be non-zero, but was %dx%d", image.Info.Width, image.Info.Height)
	}
	size := int(image.Info.Width) * int(image.Info.Height)

	if paletteCount == 0 {
		raw, err := r.ReadBytes(size * 2)
		if err != nil {
			return Image{}, err
		}
		image.Data = pixel.Rgb565To888(raw)
		if alpha == AlphaFull {
			if image.AlphaData, err = r.ReadBytes(size); err != nil {
				return Image{}, err
			}
		}
	} else {
		if image.Indices, err = r.ReadBytes(size); err != nil {
			return Image{}, err
		}
		// palette images never have simple alpha on disk; there is no
		// way to know which index would be transparent
		if alpha == AlphaFull {
			if image.AlphaData, err = r.ReadBytes(size); err != nil {
				return Image{}, err
			}
		}
		if hasGlobal {
			image.Info.Palette.Global = &GlobalPalette{Index: paletteIndex, Count: paletteCount}
		} else {
			raw, err := r.ReadBytes(int(paletteCount) * 2)
			if err != nil {
				return Image{}, err
			}
			image.Info.Palette.Local = pixel.Rgb565To888(raw)
		}
	}
	return image, nil
}

// ReadTextures reads a texture container.
func ReadTextures(r *iox.Reader) (*Manifest, error) {
	header, err := r.ReadBytes(headerSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assert.Equal("texture header field 00", uint32(0), le.Uint32(header[0:]), base+0); err != nil {
		return nil, err
	}
	if err := assert.Equal("texture header has entries", uint32(1), le.Uint32(header[4:]), base+4); err != nil {
		return nil, err
	}
	globalPaletteCount := int32(le.Uint32(header[8:]))
	if err := assert.GreaterEq("texture global palette count", int32(0), globalPaletteCount, base+8); err != nil {
		return nil, err
	}
	textureCount := le.Uint32(header[12:])
	if err := assert.Greater("texture count", uint32(0), textureCount, base+12); err != nil {
		return nil, err
	}
	if err := assert.Less("texture count", uint32(maxTextures), textureCount, base+12); err != nil {
		return nil, err
	}
	if err := assert.Equal("texture header field 16", uint32(0), le.Uint32(header[16:]), base+16); err != nil {
		return nil, err
	}
	if err := assert.Equal("texture header field 20", uint32(0), le.Uint32(header[20:]), base+20); err != nil {
		return nil, err
	}

	type tableEntry struct {
		name         string
		startOffset  uint32
		paletteIndex int32
	}
	table := make([]tableEntry, textureCount)
	for i := range table {
		entry, err := r.ReadBytes(entrySize)
		if err != nil {
			return nil, err
		}
		entryBase := r.Prev
		name, err := assert.Ascii("texture name", entryBase+0, func() (string, error) {
			return prim.FromPadded(entry[0:32])
		})
		if err != nil {
			return nil, err
		}
		paletteIndex := int32(le.Uint32(entry[36:]))
		if err := assert.Between("texture palette index", int32(-1), globalPaletteCount-1, paletteIndex, entryBase+36); err != nil {
			return nil, err
		}
		table[i] = tableEntry{
			name:         name,
			startOffset:  le.Uint32(entry[32:]),
			paletteIndex: paletteIndex,
		}
	}

	manifest := &Manifest{}
	for i := int32(0); i < globalPaletteCount; i++ {
		raw, err := r.ReadBytes(globalPaletteSize)
		if err != nil {
			return nil, err
		}
		manifest.GlobalPalettes = append(manifest.GlobalPalettes, pixel.Rgb565To888(raw))
	}

	tracker := rename.NewTracker()
	manifest.Textures = make([]Image, 0, textureCount)
	for _, entry := range table {
		if err := assert.Equal("texture offset", entry.startOffset, r.Offset, r.Offset); err != nil {
			return nil, err
		}
		var globalPalette []byte
		if entry.paletteIndex >= 0 {
			globalPalette = manifest.GlobalPalettes[entry.paletteIndex]
		}
		image, err := readTexture(r, entry.name, globalPalette, entry.paletteIndex)
		if err != nil {
			return nil, err
		}
		if renamed, ok := tracker.Track(entry.name); ok {
			image.Info.Rename = renamed
		}
		manifest.Textures = append(manifest.Textures, image)
	}
	if err := r.AssertEnd(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func textureDataSize(image *Image) (uint32, error) {
	size := uint32(image.Info.Width) * uint32(image.Info.Height)
	total := uint32(infoSize)
	if image.Indices == nil {
		total += size * 2
	} else {
		total += size
		if image.Info.Palette.Local != nil {
			total += uint32(len(image.Info.Palette.Local)) / 3 * 2
		}
	}
	if image.Info.Alpha == AlphaFull {
		total += size
	}
	return total, nil
}

func writeTexture(w *iox.Writer, image *Image) error {
	flags := flagBytesPerPixel2
	switch image.Info.Alpha {
	case AlphaNone:
		flags |= flagNoAlpha
	case AlphaSimple:
		flags |= flagHasAlpha
	case AlphaFull:
		flags |= flagHasAlpha | flagFullAlpha
	}
	if image.Info.Palette.Global != nil {
		flags |= flagGlobalPalette
	}
	if image.Info.ImageLoaded {
		flags |= flagImageLoaded
	}
	if image.Info.AlphaLoaded {
		flags |= flagAlphaLoaded
	}
	if image.Info.PaletteLoaded {
		flags |= flagPaletteLoaded
	}

	var paletteCount uint16
	switch {
	case image.Info.Palette.Global != nil:
		paletteCount = image.Info.Palette.Global.Count
	case image.Info.Palette.Local != nil:
		paletteCount = uint16(len(image.Info.Palette.Local) / 3)
	}

	info := make([]byte, infoSize)
	le.PutUint32(info[0:], flags)
	le.PutUint16(info[4:], image.Info.Width)
	le.PutUint16(info[6:], image.Info.Height)
	le.PutUint16(info[12:], paletteCount)
	le.PutUint16(info[14:], uint16(image.Info.Stretch))
	if err := w.WriteAll(info); err != nil {
		return err
	}

	if image.Indices == nil {
		if err := w.WriteAll(pixel.Rgb888To565(image.Data)); err != nil {
			return err
		}
	} else if err := w.WriteAll(image.Indices); err != nil {
		return err
	}
	if image.Info.Alpha == AlphaFull {
		if err := w.WriteAll(image.AlphaData); err != nil {
			return err
		}
	}
	if image.Indices != nil && image.Info.Palette.Local != nil {
		if err := w.WriteAll(pixel.Rgb888To565(image.Info.Palette.Local)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTextures writes a texture container.
func WriteTextures(w *iox.Writer, manifest *Manifest) error {
	if len(manifest.Textures) == 0 || len(manifest.Textures) >= maxTextures {
		return errs.Overflow("texture count", len(manifest.Textures), w.Offset)
	}
	header := make([]byte, headerSize)
	le.PutUint32(header[4:], 1)
	le.PutUint32(header[8:], uint32(len(manifest.GlobalPalettes)))
	le.PutUint32(header[12:], uint32(len(manifest.Textures)))
	if err := w.WriteAll(header); err != nil {
		return err
	}

	offset := uint32(headerSize) +
		uint32(len(manifest.Textures))*entrySize +
		uint32(len(manifest.GlobalPalettes))*globalPaletteSize
	for i := range manifest.Textures {
		image := &manifest.Textures[i]
		entry := make([]byte, entrySize)
		if err := prim.ToPadded(image.Info.Name, entry[0:32]); err != nil {
			return err
		}
		le.PutUint32(entry[32:], offset)
		paletteIndex := int32(-1)
		if image.Info.Palette.Global != nil {
			paletteIndex = image.Info.Palette.Global.Index
		}
		le.PutUint32(entry[36:], uint32(paletteIndex))
		if err := w.WriteAll(entry); err != nil {
			return err
		}
		size, err := textureDataSize(image)
		if err != nil {
			return err
		}
		offset += size
	}

	for _, palette := range manifest.GlobalPalettes {
		if err := w.WriteAll(pixel.Rgb888To565(palette)); err != nil {
			return err
		}
	}
	for i := range manifest.Textures {
		if err := writeTexture(w, &manifest.Textures[i]); err != nil {
			return err
		}
	}
	return nil
}
