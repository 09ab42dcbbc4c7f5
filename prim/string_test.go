package prim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromPadded(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		buf := []byte{'f', 'o', 'o', 0, 0, 0}
		name, err := FromPadded(buf)
		require.NoError(t, err)
		require.Equal(t, "foo", name)
	})

	t.Run("empty is absent", func(t *testing.T) {
		name, err := FromPadded(make([]byte, 4))
		require.NoError(t, err)
		require.Equal(t, "", name)
	})

	t.Run("no terminator", func(t *testing.T) {
		_, err := FromPadded([]byte{'f', 'o', 'o'})
		require.ErrorIs(t, err, ErrNoTerminator)
	})

	t.Run("non-zero padding", func(t *testing.T) {
		_, err := FromPadded([]byte{'f', 0, 'x', 0})
		require.ErrorIs(t, err, ErrPadding)
	})

	t.Run("non-ascii", func(t *testing.T) {
		_, err := FromPadded([]byte{0xC3, 0xA9, 0, 0})
		require.ErrorIs(t, err, ErrNonAscii)
	})
}

func TestToPadded(t *testing.T) {
	buf := make([]byte, 6)
	require.NoError(t, ToPadded("foo", buf))
	require.Equal(t, []byte{'f', 'o', 'o', 0, 0, 0}, buf)

	require.ErrorIs(t, ToPadded("toolong", buf[:4]), ErrTooLong)
}

func TestPartitionRoundtrip(t *testing.T) {
	buf := []byte{'f', 'o', 'o', 0, 'g', 'a', 'r', 'b'}
	name, pad, err := FromPartition(buf)
	require.NoError(t, err)
	require.Equal(t, "foo", name)
	require.Equal(t, []byte{'g', 'a', 'r', 'b'}, pad)

	out := make([]byte, 8)
	require.NoError(t, ToPartition(name, pad, out))
	require.Equal(t, buf, out)
}

func TestVecRoundtrips(t *testing.T) {
	buf := make([]byte, Vec3Size)
	expected := Vec3{X: 1.5, Y: -2.25, Z: 1e10}
	PutVec3(buf, expected)
	require.Equal(t, expected, GetVec3(buf))

	buf4 := make([]byte, Vec4Size)
	expected4 := Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: -0.4}
	PutVec4(buf4, expected4)
	require.Equal(t, expected4, GetVec4(buf4))

	bufM := make([]byte, MatrixSize)
	PutMatrix(bufM, MatrixIdentity)
	require.Equal(t, MatrixIdentity, GetMatrix(bufM))
}
