package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Animation definition flag word.
const (
	adExecutionByRange    uint32 = 1 << 1
	adExecutionByZone     uint32 = 1 << 3
	adHasCallbacks        uint32 = 1 << 4
	adResetTime           uint32 = 1 << 5
	adNetworkLogSet       uint32 = 1 << 10
	adNetworkLogOn        uint32 = 1 << 11
	adSaveLogSet          uint32 = 1 << 12
	adSaveLogOn           uint32 = 1 << 13
	adAutoResetNodeStates uint32 = 1 << 16
	adProximityDamage     uint32 = 1 << 20
)

const adValid = adExecutionByRange | adExecutionByZone | adHasCallbacks |
	adResetTime | adNetworkLogSet | adNetworkLogOn | adSaveLogSet |
	adSaveLogOn | adAutoResetNodeStates | adProximityDamage

// animDefSize is the fixed animation-definition header. Field offsets are
// documented in ReadAnimDef.
const animDefSize = 316

// seqDefInfoSize: name [32]u8, flags u32, zero36 [20]u8, pointer u32,
// size u32. Used for the embedded reset-state stub and each sequence.
const seqDefInfoSize = 64

const resetSequenceName = "RESET_SEQUENCE"

// seqDefOnCallFlags is the only non-zero sequence flag value observed.
const seqDefOnCallFlags uint32 = 0x0303

// ReadAnimDefZero consumes the file's reserved first entry: an all-zero
// header except for the activation byte at offset 153, followed by an
// all-zero reset-state stub.
func ReadAnimDefZero(r *iox.Reader) error {
	data, err := r.ReadBytes(animDefSize)
	if err != nil {
		return err
	}
	base := r.Prev
	if err := assert.Equal("anim def zero activation", uint8(ActivationOnCall), data[153], base+153); err != nil {
		return err
	}
	data[153] = 0
	if err := assert.AllZero("anim def zero header", data, base); err != nil {
		return err
	}
	reset, err := r.ReadBytes(seqDefInfoSize)
	if err != nil {
		return err
	}
	return assert.AllZero("anim def zero reset state", reset, r.Prev)
}

// WriteAnimDefZero writes the reserved first entry.
func WriteAnimDefZero(w *iox.Writer) error {
	data := make([]byte, animDefSize)
	data[153] = uint8(ActivationOnCall)
	if err := w.WriteAll(data); err != nil {
		return err
	}
	return w.WriteZeros(seqDefInfoSize)
}

func assertResetStateStub(data []byte, base uint32) error {
	name, err := assert.Ascii("anim def reset state name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return err
	}
	if err := assert.Equal("anim def reset state name", resetSequenceName, name, base+0); err != nil {
		return err
	}
	if err := assert.Equal("anim def reset state flags", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
		return err
	}
	return assert.AllZero("anim def reset state field 36", data[36:56], base+36)
}

func readResetState(r *iox.Reader, def *AnimDef, size uint32, pointer prim.Ptr) (*ResetState, error) {
	data, err := r.ReadBytes(seqDefInfoSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	if err := assertResetStateStub(data, base); err != nil {
		return nil, err
	}
	if err := assert.Equal("anim def reset state pointer", uint32(pointer), le.Uint32(data[56:]), base+56); err != nil {
		return nil, err
	}
	if err := assert.Equal("anim def reset state size", size, le.Uint32(data[60:]), base+60); err != nil {
		return nil, err
	}
	if size == 0 {
		if err := assert.Equal("anim def reset state pointer", prim.PtrNull, pointer, base+56); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := assert.Unequal("anim def reset state pointer", prim.PtrNull, pointer, base+56); err != nil {
		return nil, err
	}
	events, err := ReadEvents(r, def, size)
	if err != nil {
		return nil, err
	}
	return &ResetState{Events: events, Pointer: pointer}, nil
}

func readSequenceDef(r *iox.Reader, def *AnimDef) (SeqDef, error) {
	data, err := r.ReadBytes(seqDefInfoSize)
	if err != nil {
		return SeqDef{}, err
	}
	base := r.Prev
	name, err := assert.Ascii("anim def seq def name", base+0, func() (string, error) {
		return prim.FromPadded(data[0:32])
	})
	if err != nil {
		return SeqDef{}, err
	}
	var activation SeqActivation
	switch flags := le.Uint32(data[32:]); flags {
	case 0:
		activation = SeqActivationInitial
	case seqDefOnCallFlags:
		activation = SeqActivationOnCall
	default:
		return SeqDef{}, errs.Newf(base+32, "anim def seq def flags", "to be valid, but was 0x%08X", flags)
	}
	if err := assert.AllZero("anim def seq def field 36", data[36:56], base+36); err != nil {
		return SeqDef{}, err
	}
	pointer := prim.Ptr(le.Uint32(data[56:]))
	// it doesn't make sense for a sequence to be empty
	if err := assert.Unequal("anim def seq def pointer", prim.PtrNull, pointer, base+56); err != nil {
		return SeqDef{}, err
	}
	size := le.Uint32(data[60:])
	if err := assert.Greater("anim def seq def size", uint32(0), size, base+60); err != nil {
		return SeqDef{}, err
	}
	events, err := ReadEvents(r, def, size)
	if err != nil {
		return SeqDef{}, err
	}
	return SeqDef{Name: name, Activation: activation, Events: events, Pointer: pointer}, nil
}

// ReadAnimDef reads one animation definition, its side tables, reset state
// and sequences.
func ReadAnimDef(r *iox.Reader) (*AnimDef, *AnimPtr, error) {
	data, err := r.ReadBytes(animDefSize)
	if err != nil {
		return nil, nil, err
	}
	base := r.Prev

	var animNamePad, animRootPad []byte
	animName, err := assert.Ascii("anim def anim name", base+0, func() (string, error) {
		n, p, err := prim.FromPartition(data[0:32])
		animNamePad = p
		return n, err
	})
	if err != nil {
		return nil, nil, err
	}
	name, err := assert.Ascii("anim def name", base+32, func() (string, error) {
		return prim.FromPadded(data[32:64])
	})
	if err != nil {
		return nil, nil, err
	}
	animPtr := prim.Ptr(le.Uint32(data[64:]))
	if err := assert.Unequal("anim def anim ptr", prim.PtrNull, animPtr, base+64); err != nil {
		return nil, nil, err
	}
	animRoot, err := assert.Ascii("anim def anim root name", base+68, func() (string, error) {
		n, p, err := prim.FromPartition(data[68:100])
		animRootPad = p
		return n, err
	})
	if err != nil {
		return nil, nil, err
	}
	animRootPtr := prim.Ptr(le.Uint32(data[100:]))
	if name != animRoot {
		if err := assert.Unequal("anim def anim root ptr", animPtr, animRootPtr, base+100); err != nil {
			return nil, nil, err
		}
	} else if err := assert.Equal("anim def anim root ptr", animPtr, animRootPtr, base+100); err != nil {
		return nil, nil, err
	}
	if err := assert.AllZero("anim def field 104", data[104:148], base+104); err != nil {
		return nil, nil, err
	}

	flags, err := assert.Flags("anim def flags", adValid, le.Uint32(data[148:]), base+148)
	if err != nil {
		return nil, nil, err
	}

	var networkLog, saveLog *bool
	if flags&adNetworkLogSet != 0 {
		on := flags&adNetworkLogOn != 0
		networkLog = &on
	} else if err := assert.Equal("anim def network log on", uint32(0), flags&adNetworkLogOn, base+148); err != nil {
		return nil, nil, err
	}
	if flags&adSaveLogSet != 0 {
		on := flags&adSaveLogOn != 0
		saveLog = &on
	} else if err := assert.Equal("anim def save log on", uint32(0), flags&adSaveLogOn, base+148); err != nil {
		return nil, nil, err
	}

	if err := assert.Equal("anim def status", uint8(0), data[152], base+152); err != nil {
		return nil, nil, err
	}
	activation, err := assert.Enum("anim def activation", validActivation, data[153], base+153)
	if err != nil {
		return nil, nil, err
	}
	if err := assert.Equal("anim def action priority", uint8(4), data[154], base+154); err != nil {
		return nil, nil, err
	}
	if err := assert.Equal("anim def field 155", uint8(2), data[155], base+155); err != nil {
		return nil, nil, err
	}

	execRangeMin := f32(data[156:])
	execRangeMax := f32(data[160:])
	execByZone := flags&adExecutionByZone != 0
	var execution Execution
	if flags&adExecutionByRange != 0 {
		if err := assert.Equal("anim def exec by zone", false, execByZone, base+148); err != nil {
			return nil, nil, err
		}
		if err := assert.GreaterEq("anim def exec by range min", float32(0), execRangeMin, base+156); err != nil {
			return nil, nil, err
		}
		if err := assert.GreaterEq("anim def exec by range max", execRangeMin, execRangeMax, base+156); err != nil {
			return nil, nil, err
		}
		execution = Execution{Kind: ExecutionByRange, Range: prim.Range{Min: execRangeMin, Max: execRangeMax}}
	} else {
		if err := assert.Equal("anim def exec by range min", float32(0), execRangeMin, base+156); err != nil {
			return nil, nil, err
		}
		if err := assert.Equal("anim def exec by range max", float32(0), execRangeMax, base+156); err != nil {
			return nil, nil, err
		}
		if execByZone {
			execution = Execution{Kind: ExecutionByZone}
		} else {
			execution = Execution{Kind: ExecutionNone}
		}
	}

	var resetTime *float32
	rawResetTime := f32(data[164:])
	if flags&adResetTime != 0 {
		resetTime = &rawResetTime
	} else if err := assert.Equal("anim def reset time", float32(-1), rawResetTime, base+164); err != nil {
		return nil, nil, err
	}
	if err := assert.Equal("anim def field 168", float32(0), f32(data[168:]), base+168); err != nil {
		return nil, nil, err
	}

	maxHealth := f32(data[172:])
	if err := assert.GreaterEq("anim def max health", float32(0), maxHealth, base+172); err != nil {
		return nil, nil, err
	}
	if err := assert.Equal("anim def cur health", maxHealth, f32(data[176:]), base+176); err != nil {
		return nil, nil, err
	}
	for _, off := range []int{180, 184, 188, 192} {
		if err := assert.Equal("anim def field", uint32(0), le.Uint32(data[off:]), base+uint32(off)); err != nil {
			return nil, nil, err
		}
	}

	seqDefsPtr := prim.Ptr(le.Uint32(data[196:]))
	// the embedded reset-state stub at 200; pointer and size are used later
	if err := assertResetStateStub(data[200:264], base+200); err != nil {
		return nil, nil, err
	}
	resetStatePtr := prim.Ptr(le.Uint32(data[256:]))
	resetStateSize := le.Uint32(data[260:])

	seqDefCount := data[264]
	objectCount := data[265]
	nodeCount := data[266]
	lightCount := data[267]
	pufferCount := data[268]
	dynamicSoundCount := data[269]
	staticSoundCount := data[270]
	if err := assert.Equal("anim def field 271", uint8(0), data[271], base+271); err != nil {
		return nil, nil, err
	}
	activPrereqCount := data[272]
	activPrereqMin := data[273]
	animRefCount := data[274]
	if err := assert.Equal("anim def field 275", uint8(0), data[275], base+275); err != nil {
		return nil, nil, err
	}

	ptrs := &AnimPtr{
		AnimPtr:          animPtr,
		AnimRootPtr:      animRootPtr,
		ObjectsPtr:       prim.Ptr(le.Uint32(data[276:])),
		NodesPtr:         prim.Ptr(le.Uint32(data[280:])),
		LightsPtr:        prim.Ptr(le.Uint32(data[284:])),
		PuffersPtr:       prim.Ptr(le.Uint32(data[288:])),
		DynamicSoundsPtr: prim.Ptr(le.Uint32(data[292:])),
		StaticSoundsPtr:  prim.Ptr(le.Uint32(data[296:])),
		ActivPrereqsPtr:  prim.Ptr(le.Uint32(data[304:])),
		AnimRefsPtr:      prim.Ptr(le.Uint32(data[308:])),
		ResetStatePtr:    resetStatePtr,
		SeqDefsPtr:       seqDefsPtr,
	}
	if err := assert.Equal("anim def field 300", uint32(0), le.Uint32(data[300:]), base+300); err != nil {
		return nil, nil, err
	}
	if err := assert.Equal("anim def field 312", uint32(0), le.Uint32(data[312:]), base+312); err != nil {
		return nil, nil, err
	}

	def := &AnimDef{
		Name:                name,
		AnimName:            prim.NamePad{Name: animName, Pad: animNamePad},
		AnimRoot:            prim.NamePad{Name: animRoot, Pad: animRootPad},
		AutoResetNodeStates: flags&adAutoResetNodeStates != 0,
		Activation:          Activation(activation),
		Execution:           execution,
		NetworkLog:          networkLog,
		SaveLog:             saveLog,
		HasCallbacks:        flags&adHasCallbacks != 0,
		ResetTime:           resetTime,
		Health:              maxHealth,
		ProximityDamage:     flags&adProximityDamage != 0,
	}

	// count/pointer pairs must agree; the counts include the reserved
	// zero entry for the node-list style tables
	readTable := func(table string, count uint8, ptr prim.Ptr, off uint32, read func(uint8) error) error {
		if count > 0 {
			if err := assert.Unequal("anim def "+table+" ptr", prim.PtrNull, ptr, base+off); err != nil {
				return err
			}
			return read(count)
		}
		return assert.Equal("anim def "+table+" ptr", prim.PtrNull, ptr, base+off)
	}
	if err := readTable("objects", objectCount, ptrs.ObjectsPtr, 276, func(c uint8) error {
		def.Objects, err = readObjects(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := readTable("nodes", nodeCount, ptrs.NodesPtr, 280, func(c uint8) error {
		def.Nodes, err = readNodeTable(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := readTable("lights", lightCount, ptrs.LightsPtr, 284, func(c uint8) error {
		def.Lights, err = readLights(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := readTable("puffers", pufferCount, ptrs.PuffersPtr, 288, func(c uint8) error {
		def.Puffers, err = readPuffers(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := readTable("dynamic sounds", dynamicSoundCount, ptrs.DynamicSoundsPtr, 292, func(c uint8) error {
		def.DynamicSounds, err = readDynamicSounds(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := readTable("static sounds", staticSoundCount, ptrs.StaticSoundsPtr, 296, func(c uint8) error {
		def.StaticSounds, err = readStaticSounds(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}

	if activPrereqCount > 0 {
		if err := assert.Unequal("anim def activ prereqs ptr", prim.PtrNull, ptrs.ActivPrereqsPtr, base+304); err != nil {
			return nil, nil, err
		}
		if err := assert.In("anim def activ prereqs min", []uint8{0, 1, 2}, activPrereqMin, base+273); err != nil {
			return nil, nil, err
		}
		def.ActivPrereqMinToSatisfy = activPrereqMin
		if def.ActivPrereqs, err = readActivPrereqs(r, activPrereqCount); err != nil {
			return nil, nil, err
		}
	} else {
		if err := assert.Equal("anim def activ prereqs ptr", prim.PtrNull, ptrs.ActivPrereqsPtr, base+304); err != nil {
			return nil, nil, err
		}
		if err := assert.Equal("anim def activ prereqs min", uint8(0), activPrereqMin, base+273); err != nil {
			return nil, nil, err
		}
	}
	if err := readTable("anim refs", animRefCount, ptrs.AnimRefsPtr, 308, func(c uint8) error {
		def.AnimRefs, err = readAnimRefs(r, c)
		return err
	}); err != nil {
		return nil, nil, err
	}

	if def.ResetState, err = readResetState(r, def, resetStateSize, resetStatePtr); err != nil {
		return nil, nil, err
	}

	if err := assert.Greater("anim def seq def count", uint8(0), seqDefCount, base+264); err != nil {
		return nil, nil, err
	}
	if err := assert.Unequal("anim def seq defs pointer", prim.PtrNull, seqDefsPtr, base+196); err != nil {
		return nil, nil, err
	}
	def.Sequences = make([]SeqDef, 0, seqDefCount)
	for i := uint8(0); i < seqDefCount; i++ {
		seq, err := readSequenceDef(r, def)
		if err != nil {
			return nil, nil, err
		}
		def.Sequences = append(def.Sequences, seq)
	}

	// the Callback reader checks the flag, but also catch a set flag with
	// no callback events
	expectCallbacks := false
	for _, seq := range def.Sequences {
		for _, event := range seq.Events {
			if _, ok := event.Data.(*Callback); ok {
				expectCallbacks = true
				break
			}
		}
	}
	if err := assert.Equal("anim def has callbacks", expectCallbacks, def.HasCallbacks, base+148); err != nil {
		return nil, nil, err
	}

	return def, ptrs, nil
}

func tableCount(n int) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(n + 1)
}

// WriteAnimDef writes one animation definition using the preserved pointer
// values in ptrs.
func WriteAnimDef(w *iox.Writer, def *AnimDef, ptrs *AnimPtr) error {
	for _, table := range []int{
		len(def.Objects), len(def.Nodes), len(def.Lights), len(def.Puffers),
		len(def.DynamicSounds), len(def.StaticSounds),
	} {
		if table >= tableCap {
			return errs.Overflow("anim def table count", table, w.Offset)
		}
	}

	data := make([]byte, animDefSize)
	if err := prim.ToPartition(def.AnimName.Name, def.AnimName.Pad, data[0:32]); err != nil {
		return err
	}
	if err := prim.ToPadded(def.Name, data[32:64]); err != nil {
		return err
	}
	le.PutUint32(data[64:], uint32(ptrs.AnimPtr))
	if err := prim.ToPartition(def.AnimRoot.Name, def.AnimRoot.Pad, data[68:100]); err != nil {
		return err
	}
	le.PutUint32(data[100:], uint32(ptrs.AnimRootPtr))

	var flags uint32
	if def.NetworkLog != nil {
		flags |= adNetworkLogSet
		if *def.NetworkLog {
			flags |= adNetworkLogOn
		}
	}
	if def.SaveLog != nil {
		flags |= adSaveLogSet
		if *def.SaveLog {
			flags |= adSaveLogOn
		}
	}
	switch def.Execution.Kind {
	case ExecutionByZone:
		flags |= adExecutionByZone
	case ExecutionByRange:
		flags |= adExecutionByRange
		putF32(data[156:], def.Execution.Range.Min)
		putF32(data[160:], def.Execution.Range.Max)
	}
	if def.ResetTime != nil {
		flags |= adResetTime
		putF32(data[164:], *def.ResetTime)
	} else {
		putF32(data[164:], -1)
	}
	if def.HasCallbacks {
		flags |= adHasCallbacks
	}
	if def.AutoResetNodeStates {
		flags |= adAutoResetNodeStates
	}
	if def.ProximityDamage {
		flags |= adProximityDamage
	}
	le.PutUint32(data[148:], flags)

	data[153] = uint8(def.Activation)
	data[154] = 4
	data[155] = 2
	putF32(data[172:], def.Health)
	putF32(data[176:], def.Health)

	le.PutUint32(data[196:], uint32(ptrs.SeqDefsPtr))

	// embedded reset-state stub
	resetStateSize := uint32(0)
	if def.ResetState != nil {
		resetStateSize = SizeEvents(def.ResetState.Events)
	}
	if err := prim.ToPadded(resetSequenceName, data[200:232]); err != nil {
		return err
	}
	le.PutUint32(data[256:], uint32(ptrs.ResetStatePtr))
	le.PutUint32(data[260:], resetStateSize)

	if len(def.Sequences) > tableCap {
		return errs.Overflow("anim def seq def count", len(def.Sequences), w.Offset)
	}
	data[264] = uint8(len(def.Sequences))
	data[265] = tableCount(len(def.Objects))
	data[266] = tableCount(len(def.Nodes))
	data[267] = tableCount(len(def.Lights))
	data[268] = tableCount(len(def.Puffers))
	data[269] = tableCount(len(def.DynamicSounds))
	data[270] = tableCount(len(def.StaticSounds))
	data[272] = uint8(len(def.ActivPrereqs))
	data[273] = def.ActivPrereqMinToSatisfy
	data[274] = uint8(len(def.AnimRefs))

	le.PutUint32(data[276:], uint32(ptrs.ObjectsPtr))
	le.PutUint32(data[280:], uint32(ptrs.NodesPtr))
	le.PutUint32(data[284:], uint32(ptrs.LightsPtr))
	le.PutUint32(data[288:], uint32(ptrs.PuffersPtr))
	le.PutUint32(data[292:], uint32(ptrs.DynamicSoundsPtr))
	le.PutUint32(data[296:], uint32(ptrs.StaticSoundsPtr))
	le.PutUint32(data[304:], uint32(ptrs.ActivPrereqsPtr))
	le.PutUint32(data[308:], uint32(ptrs.AnimRefsPtr))

	if err := w.WriteAll(data); err != nil {
		return err
	}

	if len(def.Objects) > 0 {
		if err := writeObjects(w, def.Objects); err != nil {
			return err
		}
	}
	if len(def.Nodes) > 0 {
		if err := writeNodeTable(w, def.Nodes); err != nil {
			return err
		}
	}
	if len(def.Lights) > 0 {
		if err := writeLights(w, def.Lights); err != nil {
			return err
		}
	}
	if len(def.Puffers) > 0 {
		if err := writePuffers(w, def.Puffers); err != nil {
			return err
		}
	}
	if len(def.DynamicSounds) > 0 {
		if err := writeDynamicSounds(w, def.DynamicSounds); err != nil {
			return err
		}
	}
	if len(def.StaticSounds) > 0 {
		if err := writeStaticSounds(w, def.StaticSounds); err != nil {
			return err
		}
	}
	if len(def.ActivPrereqs) > 0 {
		if err := writeActivPrereqs(w, def.ActivPrereqs); err != nil {
			return err
		}
	}
	if len(def.AnimRefs) > 0 {
		if err := writeAnimRefs(w, def.AnimRefs); err != nil {
			return err
		}
	}

	// reset state
	stub := make([]byte, seqDefInfoSize)
	if err := prim.ToPadded(resetSequenceName, stub[0:32]); err != nil {
		return err
	}
	if def.ResetState != nil {
		le.PutUint32(stub[56:], uint32(def.ResetState.Pointer))
	}
	le.PutUint32(stub[60:], resetStateSize)
	if err := w.WriteAll(stub); err != nil {
		return err
	}
	if def.ResetState != nil {
		if err := WriteEvents(w, def, def.ResetState.Events); err != nil {
			return err
		}
	}

	for _, seq := range def.Sequences {
		info := make([]byte, seqDefInfoSize)
		if err := prim.ToPadded(seq.Name, info[0:32]); err != nil {
			return err
		}
		if seq.Activation == SeqActivationOnCall {
			le.PutUint32(info[32:], seqDefOnCallFlags)
		}
		le.PutUint32(info[56:], uint32(seq.Pointer))
		le.PutUint32(info[60:], SizeEvents(seq.Events))
		if err := w.WriteAll(info); err != nil {
			return err
		}
		if err := WriteEvents(w, def, seq.Events); err != nil {
			return err
		}
	}
	return nil
}
