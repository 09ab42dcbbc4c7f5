package iox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/errs"
)

func TestReader_U32Roundtrip(t *testing.T) {
	expected := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	r := NewReader(bytes.NewReader(expected))
	value, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(3735928559), value)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteU32(3735928559))
	require.Equal(t, expected, buf.Bytes())
}

func TestReader_I32Roundtrip(t *testing.T) {
	expected := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	r := NewReader(bytes.NewReader(expected))
	value, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-559038737), value)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteI32(-559038737))
	require.Equal(t, expected, buf.Bytes())
}

func TestReader_F32Roundtrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteF32(-1.0))

	r := NewReader(&buf)
	value, err := r.ReadF32()
	require.NoError(t, err)
	require.Equal(t, float32(-1.0), value)
}

func TestReader_OffsetTracking(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	r := NewReader(bytes.NewReader(data))

	_, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0), r.Prev)
	require.Equal(t, uint32(4), r.Offset)

	_, err = r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint32(4), r.Prev)
	require.Equal(t, uint32(6), r.Offset)

	// Prev points at the start of the most recent read, so a validation
	// failure inside a record reports the field, not the cursor after
	_, err = r.ReadBytes(4)
	require.NoError(t, err)
	require.Equal(t, uint32(6), r.Prev)
	require.Equal(t, uint32(10), r.Offset)
}

func TestReader_Truncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	_, err := r.ReadU32()
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReader_AssertEnd(t *testing.T) {
	t.Run("at end", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{1}))
		_, err := r.ReadU8()
		require.NoError(t, err)
		require.NoError(t, r.AssertEnd())
	})

	t.Run("trailing data", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{1, 2}))
		_, err := r.ReadU8()
		require.NoError(t, err)
		err = r.AssertEnd()
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrTrailingData)
	})
}

func TestReader_StringRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteString("Hello World"))

	r := NewReader(&buf)
	value, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "Hello World", value)
	require.Equal(t, uint32(len("Hello World")+4), r.Offset)
}

func TestWriter_Zeros(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteZeros(8))
	require.Equal(t, make([]byte, 8), buf.Bytes())
	require.Equal(t, uint32(8), w.Offset)
}
