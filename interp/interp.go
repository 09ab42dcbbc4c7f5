// Package interp implements the interpreter-script bundle codec: a signed
// header, a table of 128-byte entries, then each script as a sequence of
// length-prefixed commands terminated by a zero size.
//
// Command bytes tokenize by swapping spaces and nulls: on disk arguments
// are null-separated, and the argument count must equal the null count.
package interp

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/endian"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

var le = endian.Little()

const (
	signature uint32 = 0x08971119
	version   uint32 = 7
)

// entrySize: name [120]u8, lastModified u32, start u32.
const entrySize = 128

// Script is one interpreter script.
type Script struct {
	Name string `json:"name"`
	// LastModified is the raw modification timestamp (seconds since the
	// Unix epoch) preserved from the entry.
	LastModified uint32   `json:"last_modified"`
	Lines        []string `json:"lines"`
}

func readScript(r *iox.Reader) ([]string, error) {
	var lines []string
	for {
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return lines, nil
		}
		argCount, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		buf, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		zeroCount := uint32(0)
		for i, v := range buf {
			if v == 0 {
				zeroCount++
				buf[i] = ' '
			}
		}
		if err := assert.Equal("interp arg count", zeroCount, argCount, r.Offset); err != nil {
			return nil, err
		}
		last := buf[len(buf)-1]
		if err := assert.Equal("interp command end", uint8(' '), last, r.Offset); err != nil {
			return nil, err
		}
		buf = buf[:len(buf)-1]
		for i, v := range buf {
			if v > 0x7F {
				return nil, errs.Newf(r.Prev+uint32(i), "interp command", "to be ASCII, but byte was %02X", v)
			}
		}
		lines = append(lines, string(buf))
	}
}

// ReadInterp reads a script bundle.
func ReadInterp(r *iox.Reader) ([]Script, error) {
	sig, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("interp signature", signature, sig, r.Prev); err != nil {
		return nil, err
	}
	ver, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("interp version", version, ver, r.Prev); err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	type entryInfo struct {
		name         string
		lastModified uint32
		start        uint32
	}
	entries := make([]entryInfo, count)
	for i := range entries {
		data, err := r.ReadBytes(entrySize)
		if err != nil {
			return nil, err
		}
		name, err := assert.Ascii("interp entry name", r.Prev, func() (string, error) {
			return prim.FromPadded(data[0:120])
		})
		if err != nil {
			return nil, err
		}
		entries[i] = entryInfo{
			name:         name,
			lastModified: le.Uint32(data[120:]),
			start:        le.Uint32(data[124:]),
		}
	}

	scripts := make([]Script, 0, count)
	for _, entry := range entries {
		if err := assert.Equal("interp entry start", entry.start, r.Offset, r.Offset); err != nil {
			return nil, err
		}
		lines, err := readScript(r)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, Script{
			Name:         entry.name,
			LastModified: entry.lastModified,
			Lines:        lines,
		})
	}
	if err := r.AssertEnd(); err != nil {
		return nil, err
	}
	return scripts, nil
}

func encodeScript(lines []string) (uint32, [][]byte, []uint32) {
	var size uint32
	commands := make([][]byte, 0, len(lines))
	argCounts := make([]uint32, 0, len(lines))
	for _, line := range lines {
		buf := append([]byte(line), ' ')
		argCount := uint32(0)
		for i, v := range buf {
			if v == ' ' {
				argCount++
				buf[i] = 0
			}
		}
		size += 8 + uint32(len(buf))
		commands = append(commands, buf)
		argCounts = append(argCounts, argCount)
	}
	// the zero size terminator
	size += 4
	return size, commands, argCounts
}

// WriteInterp writes a script bundle.
func WriteInterp(w *iox.Writer, scripts []Script) error {
	if err := w.WriteU32(signature); err != nil {
		return err
	}
	if err := w.WriteU32(version); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(scripts))); err != nil {
		return err
	}

	type encoded struct {
		commands  [][]byte
		argCounts []uint32
	}
	offset := 12 + uint32(len(scripts))*entrySize
	encodeds := make([]encoded, 0, len(scripts))
	for _, script := range scripts {
		data := make([]byte, entrySize)
		if err := prim.ToPadded(script.Name, data[0:120]); err != nil {
			return err
		}
		le.PutUint32(data[120:], script.LastModified)
		le.PutUint32(data[124:], offset)
		if err := w.WriteAll(data); err != nil {
			return err
		}
		size, commands, argCounts := encodeScript(script.Lines)
		offset += size
		encodeds = append(encodeds, encoded{commands: commands, argCounts: argCounts})
	}

	for _, enc := range encodeds {
		for i, command := range enc.commands {
			if err := w.WriteU32(uint32(len(command))); err != nil {
				return err
			}
			if err := w.WriteU32(enc.argCounts[i]); err != nil {
				return err
			}
			if err := w.WriteAll(command); err != nil {
				return err
			}
		}
		if err := w.WriteU32(0); err != nil {
			return err
		}
	}
	return nil
}
