package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
)

func TestArchiveRoundtrip(t *testing.T) {
	garbage := make([]byte, 76)
	for i := range garbage {
		garbage[i] = byte(i * 3)
	}
	entries := []Entry{
		{Name: "mech.flt", Garbage: garbage},
		{Name: "reader.zrd", Garbage: make([]byte, 76)},
	}
	contents := map[string][]byte{
		"mech.flt":   []byte("first file body"),
		"reader.zrd": []byte("second"),
	}

	var buf bytes.Buffer
	err := WriteArchive(iox.NewWriter(&buf), entries, func(name string) ([]byte, error) {
		return contents[name], nil
	})
	require.NoError(t, err)
	first := append([]byte(nil), buf.Bytes()...)

	extracted := map[string][]byte{}
	outEntries, err := ReadArchive(first, func(name string, content []byte) error {
		extracted[name] = content
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, entries, outEntries)
	require.Equal(t, contents, extracted)

	// write(read(F)) == F
	var second bytes.Buffer
	err = WriteArchive(iox.NewWriter(&second), outEntries, func(name string) ([]byte, error) {
		return extracted[name], nil
	})
	require.NoError(t, err)
	require.Equal(t, first, second.Bytes())
}

func TestArchiveBadVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(iox.NewWriter(&buf), nil, func(string) ([]byte, error) {
		return nil, nil
	}))
	raw := buf.Bytes()
	raw[len(raw)-8] = 9
	_, err := ReadArchive(raw, func(string, []byte) error { return nil })
	require.Error(t, err)
}
