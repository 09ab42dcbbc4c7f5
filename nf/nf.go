// Package nf persists neutral-form records. A sink is a stream of named,
// individually compressed JSON payloads:
//
//	magic   [4]u8 // "ZNF1"
//	codec   u8    // compress.Type
//	records ...   // {nameLen u32, name, payloadLen u32, payload}
//	end           // nameLen == 0
//
// The codec surface stays ReadX/WriteX pairs over byte streams; this
// package is only how extracted data lands on disk and comes back. The
// JSON encoding must survive a round-trip structurally, which the typed
// neutral records (and the tagged event encoding in package anim)
// guarantee.
package nf

import (
	"encoding/binary"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/mechres/zbd/compress"
	"github.com/mechres/zbd/internal/pool"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var magic = [4]byte{'Z', 'N', 'F', '1'}

var le = binary.LittleEndian

// Writer writes a neutral-form sink.
type Writer struct {
	inner io.Writer
	codec compress.Codec
}

// NewWriter starts a sink on w with the given compression type.
func NewWriter(w io.Writer, compression compress.Type) (*Writer, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}
	header := []byte{magic[0], magic[1], magic[2], magic[3], byte(compression)}
	if _, err := w.Write(header); err != nil {
		return nil, err
	}
	return &Writer{inner: w, codec: codec}, nil
}

// WriteRecord marshals v as JSON, compresses it, and appends it under
// name.
func (w *Writer) WriteRecord(name string, v any) error {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	stream := json.BorrowStream(buf)
	stream.WriteVal(v)
	if stream.Error != nil {
		err := stream.Error
		json.ReturnStream(stream)
		return err
	}
	if err := stream.Flush(); err != nil {
		json.ReturnStream(stream)
		return err
	}
	json.ReturnStream(stream)

	payload, err := w.codec.Compress(buf.Bytes())
	if err != nil {
		return err
	}
	return w.writeRaw(name, payload)
}

// WriteRawRecord appends already-encoded bytes (e.g. extracted media)
// under name, compressed like any other record.
func (w *Writer) WriteRawRecord(name string, data []byte) error {
	payload, err := w.codec.Compress(data)
	if err != nil {
		return err
	}
	return w.writeRaw(name, payload)
}

func (w *Writer) writeRaw(name string, payload []byte) error {
	if name == "" {
		return fmt.Errorf("nf: empty record name")
	}
	var lenBuf [4]byte
	le.PutUint32(lenBuf[:], uint32(len(name)))
	if _, err := w.inner.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w.inner, name); err != nil {
		return err
	}
	le.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.inner.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.inner.Write(payload)
	return err
}

// Close terminates the record stream.
func (w *Writer) Close() error {
	var lenBuf [4]byte
	_, err := w.inner.Write(lenBuf[:])
	return err
}

// Reader reads a neutral-form sink.
type Reader struct {
	inner io.Reader
	codec compress.Decompressor
}

// NewReader opens a sink on r, validating the header.
func NewReader(r io.Reader) (*Reader, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if [4]byte{header[0], header[1], header[2], header[3]} != magic {
		return nil, fmt.Errorf("nf: bad magic %q", header[0:4])
	}
	codec, err := compress.GetCodec(compress.Type(header[4]))
	if err != nil {
		return nil, err
	}
	return &Reader{inner: r, codec: codec}, nil
}

// NextRecord returns the next record's name and decompressed payload, or
// io.EOF after the terminator.
func (r *Reader) NextRecord() (string, []byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.inner, lenBuf[:]); err != nil {
		return "", nil, err
	}
	nameLen := le.Uint32(lenBuf[:])
	if nameLen == 0 {
		return "", nil, io.EOF
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r.inner, name); err != nil {
		return "", nil, err
	}
	if _, err := io.ReadFull(r.inner, lenBuf[:]); err != nil {
		return "", nil, err
	}
	payload := make([]byte, le.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r.inner, payload); err != nil {
		return "", nil, err
	}
	data, err := r.codec.Decompress(payload)
	if err != nil {
		return "", nil, err
	}
	return string(name), data, nil
}

// ReadRecord reads the next record and unmarshals its JSON into v.
func (r *Reader) ReadRecord(v any) (string, error) {
	name, data, err := r.NextRecord()
	if err != nil {
		return "", err
	}
	return name, json.Unmarshal(data, v)
}

// Unmarshal decodes a payload obtained from NextRecord into v, for
// callers that dispatch on the record name before decoding.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
