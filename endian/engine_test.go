package endian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLittleEngine(t *testing.T) {
	e := Little()
	buf := make([]byte, 4)
	e.PutUint32(buf, 0xDEADBEEF)
	require.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, buf)
	require.Equal(t, uint32(0xDEADBEEF), e.Uint32(buf))
}

func TestFloat32BitExact(t *testing.T) {
	e := Little()
	buf := make([]byte, 4)

	// NaN payloads and denormals must survive unchanged
	values := []uint32{
		0x7FC00001, // NaN with payload
		0x00000001, // smallest denormal
		0x3EDA740D, // historic alpha delta
		0x80000000, // negative zero
	}
	for _, bits := range values {
		PutFloat32(e, buf, math.Float32frombits(bits))
		require.Equal(t, bits, e.Uint32(buf))
		require.Equal(t, bits, math.Float32bits(Float32(e, buf)))
	}
}
