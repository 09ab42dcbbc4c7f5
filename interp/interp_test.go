package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
)

func TestInterpRoundtrip(t *testing.T) {
	scripts := []Script{
		{
			Name:         "startup.gw",
			LastModified: 905586000,
			Lines: []string{
				"ifdef HIGH_DETAIL",
				"load world1 quad_t1",
				"endif",
			},
		},
		{
			Name:         "shutdown.gw",
			LastModified: 905586001,
			Lines:        []string{"unload all"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInterp(iox.NewWriter(&buf), scripts))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := ReadInterp(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.Equal(t, scripts, out)

	var second bytes.Buffer
	require.NoError(t, WriteInterp(iox.NewWriter(&second), out))
	require.Equal(t, first, second.Bytes())
}

func TestInterpBadSignature(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInterp(iox.NewWriter(&buf), nil))
	raw := buf.Bytes()
	raw[0] = 0
	_, err := ReadInterp(iox.NewReader(bytes.NewReader(raw)))
	require.Error(t, err)
}

func TestInterpArgCountMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInterp(iox.NewWriter(&buf), []Script{
		{Name: "a.gw", Lines: []string{"two words"}},
	}))
	raw := buf.Bytes()
	// the arg count lives right after the command size
	argCountOffset := 12 + 128 + 4
	le.PutUint32(raw[argCountOffset:], 9)
	_, err := ReadInterp(iox.NewReader(bytes.NewReader(raw)))
	require.Error(t, err)
}
