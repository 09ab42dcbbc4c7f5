package messages

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildMessageTable(t *testing.T, entries map[uint32]string) []byte {
	t.Helper()
	// one block covering all ids
	var low, high uint32 = 0xFFFFFFFF, 0
	for id := range entries {
		if id < low {
			low = id
		}
		if id > high {
			high = id
		}
	}
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], 1)
	binary.LittleEndian.PutUint32(data[4:], low)
	binary.LittleEndian.PutUint32(data[8:], high)
	binary.LittleEndian.PutUint32(data[12:], 16)
	for id := low; id <= high; id++ {
		text := entries[id]
		payload := append([]byte(text), 13, 10, 0)
		entry := make([]byte, 4)
		binary.LittleEndian.PutUint16(entry[0:], uint16(len(payload)+4))
		data = append(data, append(entry, payload...)...)
	}
	return data
}

func TestReadMessageTable(t *testing.T) {
	entries := map[uint32]string{
		100: "Reactor online.",
		101: "Weapons free.",
	}
	table, err := readMessageTable(buildMessageTable(t, entries))
	require.NoError(t, err)
	require.Equal(t, entries, table)
}

func TestReadMessageTableRejectsUnicode(t *testing.T) {
	data := buildMessageTable(t, map[uint32]string{100: "x"})
	// flip the flags word of the first entry
	data[16+2] = 1
	_, err := readMessageTable(data)
	require.Error(t, err)
}

func TestReadZlocids(t *testing.T) {
	const memStart = dllBaseAddress + 0x1000
	// section layout: 4 initterm zeros, the backwards pair table, then
	// the C strings the pairs point at
	var data []byte
	data = append(data, make([]byte, 16)...)

	// two pairs (backwards: highest address first) pointing at strings
	stringsStart := uint32(16 + 16)
	names := []string{"MSG_REACTOR", "MSG_WEAPONS"}
	offsets := []uint32{stringsStart, stringsStart + uint32(len(names[0])+1)}

	pair := func(mem, id uint32) []byte {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:], mem)
		binary.LittleEndian.PutUint32(buf[4:], id)
		return buf
	}
	data = append(data, pair(memStart+offsets[1], 101)...)
	data = append(data, pair(memStart+offsets[0], 100)...)

	for _, name := range names {
		data = append(data, name...)
		data = append(data, 0)
	}
	// the scan terminates by reading into string data beyond memEnd
	memEnd := memStart + uint32(len(data))
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	data = append(data, 0xFF, 0xFF, 0xFF, 0xFF)

	zlocids, err := readZlocids(data, memStart, memEnd)
	require.NoError(t, err)
	require.Len(t, zlocids, 2)
	// reversed into file order
	require.Equal(t, uint32(100), zlocids[0].entryID)
	require.Equal(t, "MSG_REACTOR", zlocids[0].name)
	require.Equal(t, uint32(101), zlocids[1].entryID)
	require.Equal(t, "MSG_WEAPONS", zlocids[1].name)
}
