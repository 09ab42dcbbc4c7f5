package nf

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/compress"
	"github.com/mechres/zbd/prim"
)

type testRecord struct {
	Name        string    `json:"name"`
	Translation prim.Vec3 `json:"translation"`
	Pointer     prim.Ptr  `json:"pointer"`
}

func TestSinkRoundtrip(t *testing.T) {
	for _, compressionType := range []compress.Type{compress.TypeNone, compress.TypeS2, compress.TypeZstd} {
		t.Run(compressionType.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, compressionType)
			require.NoError(t, err)

			record := testRecord{
				Name:        "mech1",
				Translation: prim.Vec3{X: 1.5, Y: -2, Z: 0.25},
				Pointer:     0xDEADBEEF,
			}
			require.NoError(t, w.WriteRecord("nodes/mech1.json", record))
			require.NoError(t, w.WriteRawRecord("textures/rock01.img", []byte{1, 2, 3, 4}))
			require.NoError(t, w.Close())

			r, err := NewReader(&buf)
			require.NoError(t, err)

			var out testRecord
			name, err := r.ReadRecord(&out)
			require.NoError(t, err)
			require.Equal(t, "nodes/mech1.json", name)
			require.Equal(t, record, out)

			name, data, err := r.NextRecord()
			require.NoError(t, err)
			require.Equal(t, "textures/rock01.img", name)
			require.Equal(t, []byte{1, 2, 3, 4}, data)

			_, _, err = r.NextRecord()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestSinkBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{'N', 'O', 'P', 'E', 1}))
	require.Error(t, err)
}
