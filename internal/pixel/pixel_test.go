package pixel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRgb565Roundtrip(t *testing.T) {
	// every 565 value must survive expansion and re-packing
	data := make([]byte, 0, 65536*2)
	for v := 0; v < 65536; v++ {
		data = append(data, byte(v), byte(v>>8))
	}
	require.Equal(t, data, Rgb888To565(Rgb565To888(data)))
}

func TestRgb565To888Channels(t *testing.T) {
	// 0xFFFF is white, 0x0000 black; bit replication reaches 255
	rgb := Rgb565To888([]byte{0xFF, 0xFF, 0x00, 0x00})
	require.Equal(t, []byte{255, 255, 255, 0, 0, 0}, rgb)
}

func TestPal8To888(t *testing.T) {
	palette := []byte{1, 2, 3, 4, 5, 6}
	require.Equal(t, []byte{4, 5, 6, 1, 2, 3}, Pal8To888([]byte{1, 0}, palette))
	require.Equal(t,
		[]byte{4, 5, 6, 9, 1, 2, 3, 8},
		Pal8To888A([]byte{1, 0}, palette, []byte{9, 8}))
}

func TestSimpleAlpha(t *testing.T) {
	// transparent only where the pixel is pure black
	data := []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x80}
	require.Equal(t, []byte{0, 0xFF, 0xFF}, SimpleAlpha(data))
}
