package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPayload() []byte {
	// JSON-like repetitive data, typical of neutral-form records
	var buf bytes.Buffer
	for i := 0; i < 200; i++ {
		buf.WriteString(`{"name":"node","translation":{"x":0,"y":0,"z":0}},`)
	}
	return buf.Bytes()
}

func TestCodecRoundtrips(t *testing.T) {
	payload := testPayload()
	for _, compressionType := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		t.Run(compressionType.String(), func(t *testing.T) {
			codec, err := GetCodec(compressionType)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)

			if compressionType != TypeNone {
				require.Less(t, len(compressed), len(payload))
			}
		})
	}
}

func TestGetCodecUnknown(t *testing.T) {
	_, err := GetCodec(Type(0))
	require.Error(t, err)
	_, err = GetCodec(Type(99))
	require.Error(t, err)
}

func TestEmptyPayload(t *testing.T) {
	for _, compressionType := range []Type{TypeZstd, TypeS2, TypeLZ4} {
		codec, err := GetCodec(compressionType)
		require.NoError(t, err)
		compressed, err := codec.Compress(nil)
		require.NoError(t, err)
		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}
