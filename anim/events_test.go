package anim

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

func testAnimDef() *AnimDef {
	return &AnimDef{
		Nodes:        []prim.NamePtr{{Name: "mech1", Pointer: 0xDEADBEEF}},
		StaticSounds: []prim.NamePad{{Name: "explode"}},
		Lights:       []prim.NamePtr{{Name: "beam", Pointer: 0x1234}},
		Puffers:      []prim.NamePtrFlags{{Name: "smoke", Pointer: 0x5678}},
	}
}

func writeEventBytes(t *testing.T, ctx *AnimDef, event Event) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, writeEvent(w, ctx, event))
	return buf.Bytes()
}

func roundtripEvent(t *testing.T, ctx *AnimDef, event Event) Event {
	t.Helper()
	data := writeEventBytes(t, ctx, event)
	require.Equal(t, EventSize(event), uint32(len(data)))

	r := iox.NewReader(bytes.NewReader(data))
	out, err := readEvent(r, ctx)
	require.NoError(t, err)

	// writing the decoded event again must be byte-identical
	require.Equal(t, data, writeEventBytes(t, ctx, out))
	return out
}

func TestSoundEvent(t *testing.T) {
	ctx := testAnimDef()
	event := Event{Data: &Sound{
		Name:   "explode",
		AtNode: AtNode{Node: "mech1"},
	}}
	data := writeEventBytes(t, ctx, event)

	// envelope {kind=1, start=0, 0x0000, size=16}, then
	// {soundIndex=1 u16, nodeIndex=1 u16, (0,0,0) Vec3}
	require.Len(t, data, 24)
	require.Equal(t, []byte{1, 0, 0, 0, 16, 0, 0, 0}, data[0:8])
	require.Equal(t, []byte{1, 0, 1, 0}, data[8:12])
	require.Equal(t, make([]byte, 12), data[12:24])

	out := roundtripEvent(t, ctx, event)
	require.Equal(t, event.Data, out.Data)
	require.Nil(t, out.Start)
}

func TestLoopEvent(t *testing.T) {
	ctx := testAnimDef()
	event := Event{Data: &Loop{Start: 1, LoopCount: 3}}
	data := writeEventBytes(t, ctx, event)

	// envelope {kind=30, start=0, 0x0000, size=8}, then {1 i32, 3 i32}
	require.Len(t, data, 16)
	require.Equal(t, []byte{30, 0, 0, 0, 8, 0, 0, 0}, data[0:8])
	require.Equal(t, []byte{1, 0, 0, 0, 3, 0, 0, 0}, data[8:16])

	out := roundtripEvent(t, ctx, event)
	require.Equal(t, event.Data, out.Data)
}

func TestIfPlayerRange(t *testing.T) {
	ctx := testAnimDef()
	distance := float32(25.0)
	event := Event{Data: &If{Condition: Condition{
		Kind:        ConditionPlayerRange,
		PlayerRange: &distance,
	}}}
	data := writeEventBytes(t, ctx, event)

	// envelope {kind=31, size=12}, then {condition=2, 0, 25.0f}
	require.Len(t, data, 20)
	require.Equal(t, []byte{31, 0, 0, 0, 12, 0, 0, 0}, data[0:8])
	require.Equal(t, uint32(2), le.Uint32(data[8:]))
	require.Equal(t, uint32(0), le.Uint32(data[12:]))
	require.Equal(t, float32(25.0), math.Float32frombits(le.Uint32(data[16:])))

	out := roundtripEvent(t, ctx, event)
	require.Equal(t, event.Data, out.Data)
}

func TestEventStartTime(t *testing.T) {
	ctx := testAnimDef()
	event := Event{
		Start: &EventStart{Offset: StartOffsetSequence, Time: 1.5},
		Data:  &Else{},
	}
	data := writeEventBytes(t, ctx, event)

	// with a start offset, exactly 4 extra bytes of start time follow the
	// envelope, and the size field includes them
	require.Len(t, data, 12)
	require.Equal(t, uint8(2), data[1])
	require.Equal(t, uint32(4), le.Uint32(data[4:]))

	out := roundtripEvent(t, ctx, event)
	require.NotNil(t, out.Start)
	require.Equal(t, StartOffsetSequence, out.Start.Offset)
	require.Equal(t, float32(1.5), out.Start.Time)
}

func TestObjectMotionGravityOnly(t *testing.T) {
	ctx := testAnimDef()
	event := Event{Data: &ObjectMotion{
		Node:    "mech1",
		Gravity: &Gravity{Mode: GravityModeLocal, Value: -9.8},
	}}
	data := writeEventBytes(t, ctx, event)

	require.Len(t, data, 8+320)
	require.Equal(t, uint32(320), le.Uint32(data[4:]))
	// only GRAVITY set; the mode refinement bits stay clear for Local
	require.Equal(t, uint32(omGravity), le.Uint32(data[8:]))

	out := roundtripEvent(t, ctx, event)
	motion := out.Data.(*ObjectMotion)
	require.NotNil(t, motion.Gravity)
	require.Equal(t, GravityModeLocal, motion.Gravity.Mode)
	require.Equal(t, float32(-9.8), motion.Gravity.Value)
	require.Nil(t, motion.Translation)
	require.Nil(t, motion.Scale)
	require.Nil(t, motion.RunTime)
}

func TestObjectMotionBounce(t *testing.T) {
	ctx := testAnimDef()
	seq := "bounce seq"
	runTime := float32(2.5)
	event := Event{Data: &ObjectMotion{
		Node:           "mech1",
		ImpactForce:    true,
		BounceSequence: &BounceSequence{SeqName0: &seq},
		BounceSound:    &BounceSound{Name: "explode", Volume: 0.75},
		RunTime:        &runTime,
	}}
	out := roundtripEvent(t, ctx, event)
	require.Equal(t, event.Data, out.Data)
}

func TestObjectMotionGravityModesExclusive(t *testing.T) {
	ctx := testAnimDef()
	event := Event{Data: &ObjectMotion{
		Node:    "mech1",
		Gravity: &Gravity{Mode: GravityModeComplex, Value: -9.8},
	}}
	data := writeEventBytes(t, ctx, event)
	// set both mode bits; the reader must reject them
	flags := le.Uint32(data[8:])
	le.PutUint32(data[8:], flags|omGravityNoAltitude)

	r := iox.NewReader(bytes.NewReader(data))
	_, err := readEvent(r, ctx)
	require.Error(t, err)
}

func TestObjectMotionZeroRegionViolation(t *testing.T) {
	ctx := testAnimDef()
	event := Event{Data: &ObjectMotion{Node: "mech1"}}
	data := writeEventBytes(t, ctx, event)
	// gravity flag clear, but gravity value region non-zero
	le.PutUint32(data[8+12:], math.Float32bits(-9.8))

	r := iox.NewReader(bytes.NewReader(data))
	_, err := readEvent(r, ctx)
	require.Error(t, err)
}

func TestUnknownEventKind(t *testing.T) {
	ctx := testAnimDef()
	data := []byte{99, 0, 0, 0, 0, 0, 0, 0}
	r := iox.NewReader(bytes.NewReader(data))
	_, err := readEvent(r, ctx)
	require.Error(t, err)
}

func TestSiScriptVariableSize(t *testing.T) {
	ctx := testAnimDef()
	translation := make([]byte, siDataSize)
	for i := range translation {
		translation[i] = byte(i)
	}
	script := &ObjectMotionSiScript{
		NodeIndex: 7,
		Frames: []ObjectMotionSiFrame{
			{StartTime: 0, EndTime: 1.5, Translation: translation},
			{StartTime: 1.5, EndTime: 2.0},
		},
	}
	require.Equal(t, uint32(24+12+76+12), script.PayloadSize())

	event := Event{Data: script}
	out := roundtripEvent(t, ctx, event)
	require.Equal(t, event.Data, out.Data)
}

func TestFbfxColorFromToFudgeAlpha(t *testing.T) {
	ctx := testAnimDef()
	// the two historic files: to=0.32, from=0, runtime=0.75 stores the
	// alpha delta computed with the runtime one ULP lower
	event := Event{Data: &FbfxColorFromTo{
		To:         prim.Vec4{W: 0.32},
		RunTime:    0.75,
		FudgeAlpha: true,
	}}
	data := writeEventBytes(t, ctx, event)
	require.Equal(t, uint32(0x3EDA740E), le.Uint32(data[8+44:]))

	out := roundtripEvent(t, ctx, event)
	fbfx := out.Data.(*FbfxColorFromTo)
	require.True(t, fbfx.FudgeAlpha)

	// without the fudge, the recomputed delta is stored
	event.Data.(*FbfxColorFromTo).FudgeAlpha = false
	data = writeEventBytes(t, ctx, event)
	require.Equal(t, uint32(0x3EDA740D), le.Uint32(data[8+44:]))
	out = roundtripEvent(t, ctx, event)
	require.False(t, out.Data.(*FbfxColorFromTo).FudgeAlpha)
}

func TestEventRoundtrips(t *testing.T) {
	ctx := testAnimDef()
	active := true
	opacity := float32(0.5)
	lightRange := prim.Range{Min: 1, Max: 100}
	waitFor := uint16(0)
	ctx.AnimRefs = []prim.NamePad{{Name: "other_anim"}}

	cases := []struct {
		name  string
		event Event
	}{
		{"sound node", Event{Data: &SoundNode{
			Name:        "amb1",
			ActiveState: true,
			AtNode:      &AtNode{Node: "mech1", Translation: prim.Vec3{X: 1, Y: 2, Z: 3}},
		}}},
		{"effect", Event{Data: &Effect{
			Name:   "sparks",
			AtNode: AtNode{Node: InputNode},
		}}},
		{"light state", Event{Data: &LightState{
			Name:        "beam",
			ActiveState: true,
			Type:        LightTypePointSource,
			Saturated:   &active,
			Range:       &lightRange,
			AtNode:      &AtNode{Node: "mech1"},
		}}},
		{"light animation", Event{Data: &LightAnimation{
			Name:    "flicker",
			Range:   lightRange,
			Color:   prim.Color{R: 1, G: 0.5, B: 0.25},
			RunTime: 2.0,
		}}},
		{"object active state", Event{Data: &ObjectActiveState{Node: "mech1", State: true}}},
		{"object translate state", Event{Data: &ObjectTranslateState{
			Node:      "mech1",
			Translate: prim.Vec3{X: 5},
			NodeIndex: 1,
		}}},
		{"object scale state", Event{Data: &ObjectScaleState{Node: "mech1", Scale: prim.Vec3{X: 2, Y: 2, Z: 2}}}},
		{"object rotate state", Event{Data: &ObjectRotateState{
			Node:   "mech1",
			State:  prim.Vec3{X: 0.5},
			Basis:  RotateBasisAtNodeMatrix,
			AtNode: "mech1",
		}}},
		{"object opacity state", Event{Data: &ObjectOpacityState{Name: "mech1", State: true, Opacity: &opacity}}},
		{"object opacity from to", Event{Data: &ObjectOpacityFromTo{
			Node:        "mech1",
			FromState:   1,
			ToState:     1,
			FromOpacity: 0,
			ToOpacity:   1,
			Delta:       0.5,
			RunTime:     2,
		}}},
		{"object add child", Event{Data: &ObjectAddChild{Parent: "mech1", Child: "mech1"}}},
		{"object cycle texture", Event{Data: &ObjectCycleTexture{Name: "mech1", Reset: 3}}},
		{"camera state", Event{Data: &CameraState{Name: "mech1", ZoomH: &opacity}}},
		{"call sequence", Event{Data: &CallSequence{Name: "seq1"}}},
		{"stop sequence", Event{Data: &StopSequence{Name: "seq1"}}},
		{"call animation", Event{Data: &CallAnimation{
			Name:              "other_anim",
			WaitForCompletion: &waitFor,
			Parameters: CallAnimationParameters{
				AtNode: &CallAnimationAtNode{Node: InputNode, Position: &prim.Vec3{X: 1}},
			},
		}}},
		{"stop animation", Event{Data: &StopAnimation{Name: "other_anim"}}},
		{"fog state", Event{Data: &FogState{Color: &prim.Color{R: 0.2, G: 0.3, B: 0.4}}}},
		{"elseif", Event{Data: &ElseIf{Condition: Condition{Kind: ConditionHwRender, HwRender: &active}}}},
		{"endif", Event{Data: &EndIf{}}},
		{"anim verbose", Event{Data: &AnimVerbose{On: true}}},
		{"detonate weapon", Event{Data: &DetonateWeapon{
			Name:   "LBXAC20",
			AtNode: AtNode{Node: "mech1", Translation: prim.Vec3{Y: -1}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := roundtripEvent(t, ctx, tc.event)
			require.Equal(t, tc.event.Data, out.Data)
		})
	}
}

func TestPufferStateRoundtrip(t *testing.T) {
	ctx := testAnimDef()
	activeState := int32(2)
	tex := "bubble"
	growth := float32(1.25)
	event := Event{Data: &PufferState{
		Name:        "smoke",
		State:       true,
		ActiveState: &activeState,
		AtNode:      &AtNode{Node: "mech1", Translation: prim.Vec3{Z: 4}},
		Interval:    Interval{Type: IntervalTime, Value: 0.5, Flag: true},
		SizeRange:   &prim.Range{Min: 1, Max: 2},
		// max below min is accepted verbatim; only positivity holds
		LifetimeRange: &prim.Range{Min: 2, Max: 1},
		Textures:      &PufferTextures{&tex, nil, nil, nil, nil, nil},
		GrowthFactor:  &growth,
	}}
	out := roundtripEvent(t, ctx, event)
	require.Equal(t, event.Data, out.Data)
}

func TestPufferStateInactiveRequiresZeroFlags(t *testing.T) {
	ctx := testAnimDef()
	event := Event{Data: &PufferState{Name: "smoke", State: false, Translate: true}}
	data := writeEventBytes(t, ctx, event)
	r := iox.NewReader(bytes.NewReader(data))
	_, err := readEvent(r, ctx)
	require.Error(t, err)
}

func TestEventJSONRoundtrip(t *testing.T) {
	runTime := float32(3.0)
	events := []Event{
		{Data: &Sound{Name: "explode", AtNode: AtNode{Node: "mech1"}}},
		{Start: &EventStart{Offset: StartOffsetAnimation, Time: 0.25}, Data: &Loop{Start: 1, LoopCount: -1}},
		{Data: &ObjectMotion{Node: "mech1", RunTime: &runTime}},
	}
	for _, event := range events {
		data, err := event.MarshalJSON()
		require.NoError(t, err)
		var out Event
		require.NoError(t, out.UnmarshalJSON(data))
		require.Equal(t, event.Data, out.Data)
		require.Equal(t, event.Start, out.Start)
	}
}
