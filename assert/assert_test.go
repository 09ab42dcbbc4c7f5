package assert

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/errs"
)

func TestEqual(t *testing.T) {
	require.NoError(t, Equal("foo", 1, 1, 0))
	err := Equal("foo", 1, 2, 16)
	require.Error(t, err)
	require.Equal(t, `expected "foo" == 1, but was 2 (at 16)`, err.Error())

	var assertErr *errs.AssertError
	require.ErrorAs(t, err, &assertErr)
	require.Equal(t, uint32(16), assertErr.Offset)
}

func TestUnequal(t *testing.T) {
	require.NoError(t, Unequal("foo", 1, 2, 0))
	require.Error(t, Unequal("foo", 1, 1, 0))
}

func TestOrderings(t *testing.T) {
	require.NoError(t, Less("foo", 2, 1, 0))
	require.Error(t, Less("foo", 1, 2, 0))
	require.NoError(t, LessEq("foo", 2, 2, 0))
	require.Error(t, LessEq("foo", 2, 3, 0))
	require.NoError(t, Greater("foo", 1, 2, 0))
	require.Error(t, Greater("foo", 2, 1, 0))
	require.NoError(t, GreaterEq("foo", 2, 2, 0))
	require.Error(t, GreaterEq("foo", 2, 1, 0))
}

func TestBetween(t *testing.T) {
	require.NoError(t, Between("foo", 1, 2, 1, 0))
	require.NoError(t, Between("foo", 1, 2, 2, 0))
	err := Between("foo", 1, 2, 3, 0)
	require.Error(t, err)
	require.Equal(t, `expected "foo" in 1..=2, but was 3 (at 0)`, err.Error())
}

func TestIn(t *testing.T) {
	require.NoError(t, In("foo", []uint32{0, 2}, 2, 0))
	require.Error(t, In("foo", []uint32{0, 2}, 1, 0))
}

func TestBool(t *testing.T) {
	value, err := Bool("foo", uint32(0), 0)
	require.NoError(t, err)
	require.False(t, value)

	value, err = Bool("foo", uint32(1), 0)
	require.NoError(t, err)
	require.True(t, value)

	_, err = Bool("foo", uint32(2), 0)
	require.Error(t, err)
}

func TestAllZero(t *testing.T) {
	require.NoError(t, AllZero("foo", make([]byte, 16), 0))
	buf := make([]byte, 16)
	buf[7] = 0xAB
	err := AllZero("foo", buf, 100)
	require.Error(t, err)
	require.Equal(t, `expected "foo" to be zero, but byte 7 was AB (at 100)`, err.Error())
}

func TestFlags(t *testing.T) {
	const valid = uint32(0x0F)
	value, err := Flags("foo", valid, uint32(0x05), 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x05), value)

	_, err = Flags("foo", valid, uint32(0x15), 0)
	require.Error(t, err)
}

func TestEnum(t *testing.T) {
	known := func(v uint8) bool { return v < 3 }
	value, err := Enum("foo", known, uint8(2), 0)
	require.NoError(t, err)
	require.Equal(t, uint8(2), value)

	_, err = Enum("foo", known, uint8(3), 0)
	require.Error(t, err)
}
