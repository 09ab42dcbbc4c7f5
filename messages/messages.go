// Package messages extracts the game's message definitions from a message
// DLL. The outer container is a standard PE file (parsed with
// github.com/saferwall/pe); the game-specific part is a table of
// (memory offset, message id) pairs in the .data section, each naming a
// C string that keys the locale text in the Win32 message-table resource.
package messages

import (
	"bytes"
	"encoding/binary"

	peparser "github.com/saferwall/pe"
	"golang.org/x/text/encoding/charmap"

	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
)

var le = binary.LittleEndian

// dllBaseAddress is the DLL's preferred load address; the zlocid table
// stores absolute memory offsets relative to it.
const dllBaseAddress uint32 = 0x10000000

// rtMessageTable is the Win32 RT_MESSAGETABLE resource type.
const rtMessageTable = 11

// Known locale IDs: English, German, French.
var localeIDs = []uint32{1033, 1031, 1036}

// Message is one named, locale-decoded message.
type Message struct {
	Key       string `json:"key"`
	MessageID uint32 `json:"message_id"`
	// Text is empty when the id has no entry in the message table.
	Text string `json:"text"`
}

// ReadMessages parses a message DLL.
func ReadMessages(data []byte) ([]Message, error) {
	file, err := peparser.NewBytes(data, &peparser.Options{})
	if err != nil {
		return nil, err
	}
	if err := file.Parse(); err != nil {
		return nil, err
	}

	tableData, err := findMessageTable(file, data)
	if err != nil {
		return nil, err
	}
	table, err := readMessageTable(tableData)
	if err != nil {
		return nil, err
	}

	var section *peparser.Section
	for i := range file.Sections {
		if string(bytes.TrimRight(file.Sections[i].Header.Name[:], "\x00")) == ".data" {
			section = &file.Sections[i]
			break
		}
	}
	if section == nil {
		return nil, errs.New("messages data section", "to exist", 0)
	}
	start := section.Header.PointerToRawData
	size := section.Header.SizeOfRawData
	if section.Header.VirtualSize < size {
		size = section.Header.VirtualSize
	}
	sectionData := data[start : start+size]

	memStart := section.Header.VirtualAddress + dllBaseAddress
	memEnd := memStart + section.Header.VirtualSize
	zlocids, err := readZlocids(sectionData, memStart, memEnd)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(zlocids))
	for _, z := range zlocids {
		messages = append(messages, Message{
			Key:       z.name,
			MessageID: z.entryID,
			Text:      table[z.entryID],
		})
	}
	return messages, nil
}

func findMessageTable(file *peparser.File, data []byte) ([]byte, error) {
	for _, typeEntry := range file.Resources.Entries {
		if typeEntry.ID != rtMessageTable {
			continue
		}
		for _, nameEntry := range typeEntry.Directory.Entries {
			for _, langEntry := range nameEntry.Directory.Entries {
				for _, locale := range localeIDs {
					if langEntry.ID != locale {
						continue
					}
					rva := langEntry.Data.Struct.OffsetToData
					size := langEntry.Data.Struct.Size
					offset := file.GetOffsetFromRva(rva)
					if int(offset)+int(size) > len(data) {
						return nil, errs.Newf(offset, "message table", "to fit the file, but was %d bytes", size)
					}
					return data[offset : offset+size], nil
				}
			}
		}
	}
	return nil, errs.New("message table", "to exist in a known locale", 0)
}

func readMessageTable(data []byte) (map[uint32]string, error) {
	if len(data) < 4 {
		return nil, errs.ErrTruncated
	}
	count := le.Uint32(data[0:])
	decoder := charmap.Windows1252.NewDecoder()

	type block struct {
		lowID, highID, offset uint32
	}
	blocks := make([]block, count)
	pos := uint32(4)
	for i := range blocks {
		blocks[i] = block{
			lowID:  le.Uint32(data[pos:]),
			highID: le.Uint32(data[pos+4:]),
			offset: le.Uint32(data[pos+8:]),
		}
		pos += 12
	}

	entries := make(map[uint32]string)
	for _, b := range blocks {
		pos := b.offset
		for entryID := b.lowID; entryID <= b.highID; entryID++ {
			length := le.Uint16(data[pos:]) - 4
			flags := le.Uint16(data[pos+2:])
			// only ANSI entries occur; unicode would set 0x0001
			if err := assert.Equal("message unicode flags", uint16(0), flags, b.offset); err != nil {
				return nil, err
			}
			buf := data[pos+4 : pos+4+uint32(length)]
			pos += 4 + uint32(length)

			// strip trailing \0, \n and \r
			for len(buf) > 0 {
				switch buf[len(buf)-1] {
				case 0, 10, 13:
					buf = buf[:len(buf)-1]
					continue
				}
				break
			}
			text, err := decoder.Bytes(buf)
			if err != nil {
				return nil, errs.Newf(b.offset, "message text", "to decode as CP-1252: %s", err)
			}
			entries[entryID] = string(text)
		}
	}
	return entries, nil
}

type zlocid struct {
	entryID uint32
	name    string
}

// readZlocids scans the .data section for the (memory offset, message id)
// table. It is written backwards, highest address first, so the result is
// reversed into file order.
func readZlocids(data []byte, memStart, memEnd uint32) ([]zlocid, error) {
	pos := uint32(0)
	// skip the CRT initialization section
	for i := uint32(0); i < 4; i++ {
		if err := assert.Equal("messages initterm", uint32(0), le.Uint32(data[pos:]), i*4); err != nil {
			return nil, err
		}
		pos += 4
	}

	type rawEntry struct {
		entryID uint32
		start   uint32
	}
	var entries []rawEntry
	for {
		memOffset := le.Uint32(data[pos:])
		// past the table, this reads 4 bytes into the string data
		if memOffset > memEnd {
			break
		}
		if memOffset < memStart {
			return nil, errs.Newf(pos, "messages offset", "to be in the data section, but was 0x%08X", memOffset)
		}
		entryID := le.Uint32(data[pos+4:])
		entries = append(entries, rawEntry{entryID: entryID, start: memOffset - memStart})
		pos += 8
	}

	result := make([]zlocid, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		end := entry.start
		for int(end) < len(data) && data[end] != 0 {
			end++
		}
		name := data[entry.start:end]
		for j, c := range name {
			if c > 0x7F {
				return nil, errs.Newf(entry.start+uint32(j), "message name", "to be ASCII, but byte was %02X", c)
			}
		}
		result = append(result, zlocid{entryID: entry.entryID, name: string(name)})
	}
	return result, nil
}
