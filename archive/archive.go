// Package archive implements the file-bundle codec. The format is
// trailer-indexed: the file bodies come first, then a table of 148-byte
// entries, then an 8-byte trailer {version, count}. Each entry carries 76
// bytes of uninitialized garbage that is preserved verbatim.
package archive

import (
	"io"

	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

const version uint32 = 1

// entrySize: start u32, length u32, name [64]u8, garbage [76]u8.
const entrySize = 148

const trailerSize = 8

// Entry is one archived file's metadata.
type Entry struct {
	Name    string `json:"name"`
	Garbage []byte `json:"garbage"`
}

// ReadArchive reads an archive from data. saveFile receives each file's
// name and contents in table order.
func ReadArchive(data []byte, saveFile func(name string, content []byte) error) ([]Entry, error) {
	if len(data) < trailerSize {
		return nil, errs.ErrTruncated
	}
	trailer := data[len(data)-trailerSize:]
	trailerPos := uint32(len(data) - trailerSize)
	if err := assert.Equal("archive version", version, le.Uint32(trailer[0:]), trailerPos); err != nil {
		return nil, err
	}
	count := le.Uint32(trailer[4:])

	tableSize := int(count) * entrySize
	if tableSize+trailerSize > len(data) {
		return nil, errs.Newf(trailerPos+4, "archive count", "to fit the file, but was %d", count)
	}
	tableStart := uint32(len(data) - trailerSize - tableSize)

	entries := make([]Entry, 0, count)
	pos := tableStart
	for i := uint32(0); i < count; i++ {
		raw := data[pos : pos+entrySize]
		start := le.Uint32(raw[0:])
		length := le.Uint32(raw[4:])
		end := uint64(start) + uint64(length)
		if err := assert.Less("archive entry start", end, uint64(start), pos+0); err != nil {
			return nil, err
		}
		if err := assert.LessEq("archive entry end", uint64(tableStart), end, pos+4); err != nil {
			return nil, err
		}
		name, err := assert.Ascii("archive entry name", pos+8, func() (string, error) {
			return prim.FromPadded(raw[8:72])
		})
		if err != nil {
			return nil, err
		}
		garbage := make([]byte, 76)
		copy(garbage, raw[72:])

		content := make([]byte, length)
		copy(content, data[start:end])
		if err := saveFile(name, content); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Garbage: garbage})
		pos += entrySize
	}
	return entries, nil
}

// WriteArchive writes an archive. loadFile supplies each entry's contents.
func WriteArchive(w *iox.Writer, entries []Entry, loadFile func(name string) ([]byte, error)) error {
	table := make([]byte, 0, len(entries)*entrySize)
	var offset uint32
	for i := range entries {
		entry := &entries[i]
		content, err := loadFile(entry.Name)
		if err != nil {
			return err
		}
		if err := w.WriteAll(content); err != nil {
			return err
		}
		raw := make([]byte, entrySize)
		le.PutUint32(raw[0:], offset)
		le.PutUint32(raw[4:], uint32(len(content)))
		if err := prim.ToPadded(entry.Name, raw[8:72]); err != nil {
			return err
		}
		prim.CopyBytes(entry.Garbage, raw[72:])
		table = append(table, raw...)
		offset += uint32(len(content))
	}
	if err := w.WriteAll(table); err != nil {
		return err
	}
	if err := w.WriteU32(version); err != nil {
		return err
	}
	return w.WriteU32(uint32(len(entries)))
}

// ReadArchiveFrom slurps the stream and reads the archive; the trailer
// index requires the whole file.
func ReadArchiveFrom(r io.Reader, saveFile func(name string, content []byte) error) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ReadArchive(data, saveFile)
}
