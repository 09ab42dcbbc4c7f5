package anim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

func TestAnimDefZero(t *testing.T) {
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, WriteAnimDefZero(w))

	// a zero definition is an all-zero 316-byte header with the on-call
	// activation tag at offset 153, plus a 64-byte zero reset-state stub
	data := buf.Bytes()
	require.Len(t, data, 380)
	require.Equal(t, uint8(1), data[153])
	data[153] = 0
	require.Equal(t, make([]byte, 380), data)

	data[153] = 1
	r := iox.NewReader(bytes.NewReader(data))
	require.NoError(t, ReadAnimDefZero(r))
	require.NoError(t, r.AssertEnd())
}

func TestAnimDefZeroBadActivation(t *testing.T) {
	data := make([]byte, 380)
	data[153] = 4
	r := iox.NewReader(bytes.NewReader(data))
	require.Error(t, ReadAnimDefZero(r))
}

func testFullAnimDef() (*AnimDef, *AnimPtr) {
	def := &AnimDef{
		Name:       "impact.flt",
		AnimName:   prim.NamePad{Name: "impact"},
		AnimRoot:   prim.NamePad{Name: "impact.flt"},
		Activation: ActivationOnCall,
		Execution:  Execution{Kind: ExecutionNone},
		Health:     100.0,
		Nodes:      []prim.NamePtr{{Name: "mech1", Pointer: 0x1000}},
		StaticSounds: []prim.NamePad{
			{Name: "explode", Pad: []byte{0xAA, 0xBB}},
		},
		Objects: []prim.NamePad{{Name: "debris"}},
	}
	def.Sequences = []SeqDef{{
		Name:       "seq1",
		Activation: SeqActivationOnCall,
		Pointer:    0x2000,
		Events: []Event{
			{Data: &Sound{Name: "explode", AtNode: AtNode{Node: "mech1"}}},
			{Data: &Loop{Start: 1, LoopCount: 2}},
		},
	}}
	ptrs := &AnimPtr{
		AnimPtr:         0x4000,
		AnimRootPtr:     0x4000,
		ObjectsPtr:      0x5000,
		NodesPtr:        0x6000,
		StaticSoundsPtr: 0x7000,
		SeqDefsPtr:      0x8000,
	}
	return def, ptrs
}

func TestAnimDefRoundtrip(t *testing.T) {
	def, ptrs := testFullAnimDef()

	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, WriteAnimDef(w, def, ptrs))
	first := append([]byte(nil), buf.Bytes()...)

	r := iox.NewReader(bytes.NewReader(first))
	outDef, outPtrs, err := ReadAnimDef(r)
	require.NoError(t, err)
	require.NoError(t, r.AssertEnd())

	require.Equal(t, def.Name, outDef.Name)
	require.Equal(t, def.AnimName.Name, outDef.AnimName.Name)
	require.Equal(t, make([]byte, 25), outDef.AnimName.Pad)
	require.Equal(t, def.Activation, outDef.Activation)
	require.Equal(t, def.Health, outDef.Health)
	require.Equal(t, def.Nodes, outDef.Nodes)
	// the partition pad comes back zero-extended to the field width
	require.Equal(t, "explode", outDef.StaticSounds[0].Name)
	require.Equal(t, []byte{0xAA, 0xBB}, outDef.StaticSounds[0].Pad[0:2])
	require.Equal(t, def.Objects[0].Name, outDef.Objects[0].Name)
	require.Len(t, outDef.Sequences, 1)
	require.Equal(t, def.Sequences[0].Events[0].Data, outDef.Sequences[0].Events[0].Data)
	require.Equal(t, ptrs, outPtrs)

	// byte-exact round-trip
	var second bytes.Buffer
	require.NoError(t, WriteAnimDef(iox.NewWriter(&second), outDef, outPtrs))
	require.Equal(t, first, second.Bytes())
}

func TestAnimDefHasCallbacksInvariant(t *testing.T) {
	t.Run("flag set without callback events", func(t *testing.T) {
		def, ptrs := testFullAnimDef()
		def.HasCallbacks = true

		var buf bytes.Buffer
		require.NoError(t, WriteAnimDef(iox.NewWriter(&buf), def, ptrs))
		_, _, err := ReadAnimDef(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.Error(t, err)
	})

	t.Run("flag set with callback event", func(t *testing.T) {
		def, ptrs := testFullAnimDef()
		def.HasCallbacks = true
		def.Sequences[0].Events = append(def.Sequences[0].Events, Event{Data: &Callback{Value: 7}})

		var buf bytes.Buffer
		require.NoError(t, WriteAnimDef(iox.NewWriter(&buf), def, ptrs))
		outDef, _, err := ReadAnimDef(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.True(t, outDef.HasCallbacks)
	})
}

func TestAnimDefRejectsZeroSequences(t *testing.T) {
	def, ptrs := testFullAnimDef()
	def.Sequences = nil

	var buf bytes.Buffer
	require.NoError(t, WriteAnimDef(iox.NewWriter(&buf), def, ptrs))
	_, _, err := ReadAnimDef(iox.NewReader(bytes.NewReader(buf.Bytes())))
	require.Error(t, err)
}

func TestAnimDefResetState(t *testing.T) {
	def, ptrs := testFullAnimDef()
	def.ResetState = &ResetState{
		Pointer: 0x9000,
		Events: []Event{
			{Data: &ObjectActiveState{Node: "mech1", State: false}},
		},
	}
	ptrs.ResetStatePtr = 0x9000

	var buf bytes.Buffer
	require.NoError(t, WriteAnimDef(iox.NewWriter(&buf), def, ptrs))
	first := append([]byte(nil), buf.Bytes()...)

	outDef, outPtrs, err := ReadAnimDef(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.NotNil(t, outDef.ResetState)
	require.Equal(t, def.ResetState.Events[0].Data, outDef.ResetState.Events[0].Data)

	var second bytes.Buffer
	require.NoError(t, WriteAnimDef(iox.NewWriter(&second), outDef, outPtrs))
	require.Equal(t, first, second.Bytes())
}
