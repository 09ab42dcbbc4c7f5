// Package pixel provides the pure pixel-format conversions used by the
// texture codec: 16-bit RGB-565 to and from 24-bit RGB-888, palette
// expansion, and the derived simple-alpha plane.
package pixel

import "encoding/binary"

// Rgb565To888 expands packed little-endian RGB-565 pixels to RGB-888.
// The channels are scaled by bit replication so full intensity maps to 255.
func Rgb565To888(data []byte) []byte {
	out := make([]byte, 0, len(data)/2*3)
	for i := 0; i+1 < len(data); i += 2 {
		v := binary.LittleEndian.Uint16(data[i:])
		r := uint8(v >> 11)
		g := uint8(v >> 5 & 0x3F)
		b := uint8(v & 0x1F)
		out = append(out, r<<3|r>>2, g<<2|g>>4, b<<3|b>>2)
	}
	return out
}

// Rgb888To565 packs RGB-888 pixels to little-endian RGB-565 by channel
// truncation, the inverse of the bit-replicating expansion.
func Rgb888To565(data []byte) []byte {
	out := make([]byte, 0, len(data)/3*2)
	for i := 0; i+2 < len(data); i += 3 {
		v := uint16(data[i]>>3)<<11 | uint16(data[i+1]>>2)<<5 | uint16(data[i+2]>>3)
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// Pal8To888 expands palette indices to RGB-888 via a 888 palette.
func Pal8To888(indices, palette []byte) []byte {
	out := make([]byte, 0, len(indices)*3)
	for _, index := range indices {
		base := int(index) * 3
		out = append(out, palette[base], palette[base+1], palette[base+2])
	}
	return out
}

// Pal8To888A expands palette indices plus a separate alpha plane to
// RGBA-8888.
func Pal8To888A(indices, palette, alpha []byte) []byte {
	out := make([]byte, 0, len(indices)*4)
	for i, index := range indices {
		base := int(index) * 3
		out = append(out, palette[base], palette[base+1], palette[base+2], alpha[i])
	}
	return out
}

// Rgb565To888A expands packed RGB-565 plus a separate alpha plane to
// RGBA-8888.
func Rgb565To888A(data, alpha []byte) []byte {
	rgb := Rgb565To888(data)
	out := make([]byte, 0, len(alpha)*4)
	for i := range alpha {
		out = append(out, rgb[i*3], rgb[i*3+1], rgb[i*3+2], alpha[i])
	}
	return out
}

// SimpleAlpha derives the implicit alpha plane of a simple-alpha texture
// from its RGB-565 data: fully transparent where the pixel is pure black,
// fully opaque otherwise. No alpha bytes exist on disk for this mode.
func SimpleAlpha(data []byte) []byte {
	out := make([]byte, len(data)/2)
	for i := range out {
		if binary.LittleEndian.Uint16(data[i*2:]) != 0 {
			out[i] = 0xFF
		}
	}
	return out
}
