package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssertError(t *testing.T) {
	err := New("node flags", "to be valid", 232)
	require.Equal(t, `expected "node flags" to be valid (at 232)`, err.Error())

	var assertErr *AssertError
	require.ErrorAs(t, err, &assertErr)
	require.Equal(t, "node flags", assertErr.Name)
	require.Equal(t, uint32(232), assertErr.Offset)
}

func TestNewf(t *testing.T) {
	err := Newf(16, "zone id", "in 1..=%d, but was %d", 80, 99)
	require.Equal(t, `expected "zone id" in 1..=80, but was 99 (at 16)`, err.Error())
}

func TestOverflow(t *testing.T) {
	err := Overflow("seq def count", 300, 64)
	require.ErrorIs(t, err, ErrLenOverflow)
	require.Contains(t, err.Error(), "seq def count")
	require.Contains(t, err.Error(), "300")
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("%w (at 12)", ErrTruncated)
	require.ErrorIs(t, err, ErrTruncated)
	require.False(t, errors.Is(err, ErrTrailingData))
}
