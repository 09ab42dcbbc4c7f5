package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
)

// Event kinds, in on-disk tag order. Kind 29, 38 and 40 never occur.
const (
	KindSound                uint8 = 1
	KindSoundNode            uint8 = 2
	KindEffect               uint8 = 3
	KindLightState           uint8 = 4
	KindLightAnimation       uint8 = 5
	KindObjectActiveState    uint8 = 6
	KindObjectTranslateState uint8 = 7
	KindObjectScaleState     uint8 = 8
	KindObjectRotateState    uint8 = 9
	KindObjectMotion         uint8 = 10
	KindObjectMotionFromTo   uint8 = 11
	KindObjectMotionSiScript uint8 = 12
	KindObjectOpacityState   uint8 = 13
	KindObjectOpacityFromTo  uint8 = 14
	KindObjectAddChild       uint8 = 15
	KindObjectDeleteChild    uint8 = 16
	KindObjectCycleTexture   uint8 = 17
	KindObjectConnector      uint8 = 18
	KindCallObjectConnector  uint8 = 19
	KindCameraState          uint8 = 20
	KindCameraFromTo         uint8 = 21
	KindCallSequence         uint8 = 22
	KindStopSequence         uint8 = 23
	KindCallAnimation        uint8 = 24
	KindStopAnimation        uint8 = 25
	KindResetAnimation       uint8 = 26
	KindInvalidateAnimation  uint8 = 27
	KindFogState             uint8 = 28
	KindLoop                 uint8 = 30
	KindIf                   uint8 = 31
	KindElse                 uint8 = 32
	KindElseIf               uint8 = 33
	KindEndIf                uint8 = 34
	KindCallback             uint8 = 35
	KindFbfxColorFromTo      uint8 = 36
	KindFbfxCsinwaveFromTo   uint8 = 37
	KindAnimVerbose          uint8 = 39
	KindDetonateWeapon       uint8 = 41
	KindPufferState          uint8 = 42
)

// StartOffset tags the time origin of an event's optional start time.
type StartOffset uint8

// Start offset variants. When the tag is non-zero, a 4-byte start-time
// float immediately follows the envelope.
const (
	StartOffsetNone      StartOffset = 0
	StartOffsetAnimation StartOffset = 1
	StartOffsetSequence  StartOffset = 2
	StartOffsetEvent     StartOffset = 3
)

// EventStart is the decoded optional start of an event.
type EventStart struct {
	Offset StartOffset `json:"offset"`
	Time   float32     `json:"time"`
}

// EventData is one event payload. Implementations are the concrete per-kind
// records; dispatch looks the on-disk kind tag up in eventSpecs, never reflection.
type EventData interface {
	// Kind returns the on-disk kind tag.
	Kind() uint8
	// PayloadSize returns the payload byte count, excluding the envelope
	// and the optional start-time float.
	PayloadSize() uint32
	write(w *iox.Writer, ctx *AnimDef) error
}

// Event is one record in a sequence: an optional start plus a payload.
type Event struct {
	Start *EventStart `json:"start,omitempty"`
	Data  EventData   `json:"data"`
}

// variableSize marks the one kind whose payload size is not fixed.
const variableSize = ^uint32(0)

type eventReader func(r *iox.Reader, ctx *AnimDef, size uint32) (EventData, error)

type eventSpec struct {
	// fixed payload size, or variableSize
	size uint32
	read eventReader
}

// eventSpecs maps each kind to its expected payload size and reader.
// Registration lives next to each codec; see the event_*.go files.
var eventSpecs = map[uint8]eventSpec{}

func registerEvent(kind uint8, size uint32, read eventReader) {
	eventSpecs[kind] = eventSpec{size: size, read: read}
}

// envelope is the 8-byte header of every event:
//
//	kind        u8   // 0
//	startOffset u8   // 1
//	pad         u16  // 2, must be zero
//	size        u32  // 4, payload bytes incl. optional start time
const envelopeSize = 8

func readEvent(r *iox.Reader, ctx *AnimDef) (Event, error) {
	header, err := r.ReadBytes(envelopeSize)
	if err != nil {
		return Event{}, err
	}
	base := r.Prev
	kind := header[0]
	startOffset := header[1]
	pad := le.Uint16(header[2:])
	size := le.Uint32(header[4:])

	if err := assert.Equal("event pad", uint16(0), pad, base+2); err != nil {
		return Event{}, err
	}
	if err := assert.LessEq("event start offset", uint8(StartOffsetEvent), startOffset, base+1); err != nil {
		return Event{}, err
	}

	var start *EventStart
	if startOffset != uint8(StartOffsetNone) {
		time, err := r.ReadF32()
		if err != nil {
			return Event{}, err
		}
		start = &EventStart{Offset: StartOffset(startOffset), Time: time}
		size -= 4
	}

	spec, ok := eventSpecs[kind]
	if !ok {
		return Event{}, errs.Newf(base, "event kind", "to be a valid variant, but was %d", kind)
	}
	if spec.size != variableSize {
		if err := assert.Equal("event size", spec.size, size, base+4); err != nil {
			return Event{}, err
		}
	}

	payloadStart := r.Offset
	data, err := spec.read(r, ctx, size)
	if err != nil {
		return Event{}, err
	}
	// the post-payload cursor advance must equal size bytes exactly
	if err := assert.Equal("event payload end", payloadStart+size, r.Offset, r.Offset); err != nil {
		return Event{}, err
	}
	return Event{Start: start, Data: data}, nil
}

func writeEvent(w *iox.Writer, ctx *AnimDef, event Event) error {
	size := event.Data.PayloadSize()
	startOffset := StartOffsetNone
	if event.Start != nil {
		startOffset = event.Start.Offset
		size += 4
	}

	header := make([]byte, envelopeSize)
	header[0] = event.Data.Kind()
	header[1] = uint8(startOffset)
	le.PutUint16(header[2:], 0)
	le.PutUint32(header[4:], size)
	if err := w.WriteAll(header); err != nil {
		return err
	}
	if event.Start != nil {
		if err := w.WriteF32(event.Start.Time); err != nil {
			return err
		}
	}
	return event.Data.write(w, ctx)
}

// EventSize returns the full on-disk size of one event, envelope included.
func EventSize(event Event) uint32 {
	size := uint32(envelopeSize) + event.Data.PayloadSize()
	if event.Start != nil {
		size += 4
	}
	return size
}

// SizeEvents returns the total on-disk size of an event stream.
func SizeEvents(events []Event) uint32 {
	var size uint32
	for _, event := range events {
		size += EventSize(event)
	}
	return size
}

// ReadEvents reads exactly size bytes of events from r.
func ReadEvents(r *iox.Reader, ctx *AnimDef, size uint32) ([]Event, error) {
	end := r.Offset + size
	var events []Event
	for r.Offset < end {
		event, err := readEvent(r, ctx)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := assert.Equal("events end", end, r.Offset, r.Offset); err != nil {
		return nil, err
	}
	return events, nil
}

// WriteEvents writes the event stream to w.
func WriteEvents(w *iox.Writer, ctx *AnimDef, events []Event) error {
	for _, event := range events {
		if err := writeEvent(w, ctx, event); err != nil {
			return err
		}
	}
	return nil
}
