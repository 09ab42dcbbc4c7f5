package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// ObjectMotion flag word. Fourteen bits gate eight independent optional
// features; the two gravity mode bits refine GRAVITY and are mutually
// exclusive.
const (
	omGravity           uint32 = 1 << 0
	omImpactForce       uint32 = 1 << 1
	omTranslation       uint32 = 1 << 2
	omTranslationMin    uint32 = 1 << 3
	omTranslationMax    uint32 = 1 << 4
	omXyzRotation       uint32 = 1 << 5
	omFwdRotationDist   uint32 = 1 << 6
	omFwdRotationTime   uint32 = 1 << 7
	omScale             uint32 = 1 << 8
	omRunTime           uint32 = 1 << 10
	omBounceSeq         uint32 = 1 << 11
	omBounceSound       uint32 = 1 << 12
	omGravityComplex    uint32 = 1 << 13
	omGravityNoAltitude uint32 = 1 << 14
)

const omValid = omGravity | omImpactForce | omTranslation | omTranslationMin |
	omTranslationMax | omXyzRotation | omFwdRotationDist | omFwdRotationTime |
	omScale | omRunTime | omBounceSeq | omBounceSound | omGravityComplex |
	omGravityNoAltitude

// GravityMode selects how gravity is applied.
type GravityMode uint8

// Gravity modes. Local is the default when neither refinement bit is set.
const (
	GravityModeLocal GravityMode = iota
	GravityModeComplex
	GravityModeNoAltitude
)

// Gravity is the gravity feature of an ObjectMotion.
type Gravity struct {
	Mode  GravityMode `json:"mode"`
	Value float32     `json:"value"`
}

// ObjectMotionTranslation is the translation feature.
type ObjectMotionTranslation struct {
	Delta   prim.Vec3 `json:"delta"`
	Initial prim.Vec3 `json:"initial"`
	Unk     prim.Vec3 `json:"unk"`
}

// ForwardRotation is the forward-rotation feature: exactly one of Time or
// Distance is set; the two flag bits are mutually exclusive.
type ForwardRotation struct {
	Time     *ForwardRotationTime     `json:"time,omitempty"`
	Distance *ForwardRotationDistance `json:"distance,omitempty"`
}

// ForwardRotationTime is time-based forward rotation.
type ForwardRotationTime struct {
	V1 float32 `json:"v1"`
	V2 float32 `json:"v2"`
}

// ForwardRotationDistance is distance-based forward rotation.
type ForwardRotationDistance struct {
	V1 float32 `json:"v1"`
}

// XyzRotation is the xyz-rotation feature.
type XyzRotation struct {
	Value prim.Vec3 `json:"value"`
	Unk   prim.Vec3 `json:"unk"`
}

// ObjectMotionScale is the scale feature.
type ObjectMotionScale struct {
	Value prim.Vec3 `json:"value"`
	Unk   prim.Vec3 `json:"unk"`
}

// BounceSequence names up to three sequences dispatched on impact. The
// first slot must be non-empty when the feature is enabled.
type BounceSequence struct {
	SeqName0 *string `json:"seq_name0,omitempty"`
	SeqName1 *string `json:"seq_name1,omitempty"`
	SeqName2 *string `json:"seq_name2,omitempty"`
}

// BounceSound is the impact sound feature.
type BounceSound struct {
	Name   string  `json:"name"`
	Volume float32 `json:"volume"`
}

// ObjectMotion is the physics motion event, the largest fixed event.
//
// On disk (320 bytes):
//
//	flags            u32    // 000
//	nodeIndex        u32    // 004
//	zero008          f32    // 008
//	gravity          f32    // 012, gated
//	zero016          f32    // 016
//	transRangeMin1-4 f32 x4 // 020/028/036/044 interleaved with max
//	transRangeMax1-4 f32 x4 // 024/032/040/048
//	transDelta       Vec3   // 052, gated
//	transInitial     Vec3   // 064, gated
//	transDeltaCopy   Vec3   // 076, runtime scratch, must be zero
//	transInitialCopy Vec3   // 088, runtime scratch, must be zero
//	unk100           Vec3   // 100, gated with translation
//	fwdRotation1     f32    // 112
//	fwdRotation2     f32    // 116
//	zero120          f32    // 120
//	xyzRotation      Vec3   // 124, gated
//	unk136           Vec3   // 136, gated with xyz rotation
//	xyzRotationCopy  Vec3   // 148, runtime scratch, must be zero
//	scale            Vec3   // 160, gated
//	unk172           Vec3   // 172, gated with scale
//	scaleCopy        Vec3   // 184, runtime scratch, must be zero
//	bounceSeq0Name   [32]u8 // 196
//	bounceSeq0Sent   i16    // 228, must be -1
//	bounceSnd0Index  u16    // 230
//	bounceSnd0Vol    f32    // 232
//	bounceSeq1Name   [32]u8 // 236
//	bounceSeq1Sent   i16    // 268, must be -1
//	bounceSnd1Index  u16    // 270, never used, must be zero
//	bounceSnd1Vol    f32    // 272, never used, must be zero
//	bounceSeq2Name   [32]u8 // 276
//	bounceSeq2Sent   i16    // 308, must be -1
//	bounceSnd2Index  u16    // 310, never used, must be zero
//	bounceSnd2Vol    f32    // 312, never used, must be zero
//	runTime          f32    // 316, gated
//
// The three copy regions are runtime scratch in the original engine; they
// must be zero on disk and are not preserved in neutral form.
type ObjectMotion struct {
	Node        string `json:"node"`
	ImpactForce bool   `json:"impact_force"`

	Gravity             *Gravity                 `json:"gravity,omitempty"`
	TranslationRangeMin *prim.Vec4               `json:"translation_range_min,omitempty"`
	TranslationRangeMax *prim.Vec4               `json:"translation_range_max,omitempty"`
	Translation         *ObjectMotionTranslation `json:"translation,omitempty"`
	ForwardRotation     *ForwardRotation         `json:"forward_rotation,omitempty"`
	XyzRotation         *XyzRotation             `json:"xyz_rotation,omitempty"`
	Scale               *ObjectMotionScale       `json:"scale,omitempty"`
	BounceSequence      *BounceSequence          `json:"bounce_sequence,omitempty"`
	BounceSound         *BounceSound             `json:"bounce_sound,omitempty"`
	RunTime             *float32                 `json:"run_time,omitempty"`
}

const objectMotionSize = 320

func (*ObjectMotion) Kind() uint8         { return KindObjectMotion }
func (*ObjectMotion) PayloadSize() uint32 { return objectMotionSize }

func readObjectMotion(r *iox.Reader, ctx *AnimDef, _ uint32) (EventData, error) {
	data, err := r.ReadBytes(objectMotionSize)
	if err != nil {
		return nil, err
	}
	base := r.Prev
	flags, err := assert.Flags("object motion flags", omValid, le.Uint32(data[0:]), base+0)
	if err != nil {
		return nil, err
	}
	node, err := ctx.NodeFromIndex(int(le.Uint32(data[4:])), base+4)
	if err != nil {
		return nil, err
	}
	if err := assert.Equal("object motion field 008", float32(0), f32(data[8:]), base+8); err != nil {
		return nil, err
	}
	if err := assert.Equal("object motion field 016", float32(0), f32(data[16:]), base+16); err != nil {
		return nil, err
	}

	motion := &ObjectMotion{Node: node, ImpactForce: flags&omImpactForce != 0}

	gravityComplex := flags&omGravityComplex != 0
	gravityNoAltitude := flags&omGravityNoAltitude != 0
	if flags&omGravity != 0 {
		mode := GravityModeLocal
		if gravityNoAltitude {
			if err := assert.Equal("object motion gravity complex", false, gravityComplex, base+0); err != nil {
				return nil, err
			}
			mode = GravityModeNoAltitude
		} else if gravityComplex {
			mode = GravityModeComplex
		}
		motion.Gravity = &Gravity{Mode: mode, Value: f32(data[12:])}
	} else {
		if err := assert.Equal("object motion gravity complex", false, gravityComplex, base+0); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion gravity no altitude", false, gravityNoAltitude, base+0); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion gravity value", float32(0), f32(data[12:]), base+12); err != nil {
			return nil, err
		}
	}

	// min/max components interleave: min1 max1 min2 max2 min3 max3 min4 max4
	getQuad := func(start int) prim.Vec4 {
		return prim.Vec4{
			X: f32(data[start:]),
			Y: f32(data[start+8:]),
			Z: f32(data[start+16:]),
			W: f32(data[start+24:]),
		}
	}
	if flags&omTranslationMin != 0 {
		v := getQuad(20)
		motion.TranslationRangeMin = &v
	} else if err := assert.Equal("object motion trans range min", prim.Vec4Default, getQuad(20), base+20); err != nil {
		return nil, err
	}
	if flags&omTranslationMax != 0 {
		v := getQuad(24)
		motion.TranslationRangeMax = &v
	} else if err := assert.Equal("object motion trans range max", prim.Vec4Default, getQuad(24), base+24); err != nil {
		return nil, err
	}

	if flags&omTranslation != 0 {
		motion.Translation = &ObjectMotionTranslation{
			Delta:   prim.GetVec3(data[52:]),
			Initial: prim.GetVec3(data[64:]),
			Unk:     prim.GetVec3(data[100:]),
		}
	} else {
		if err := assert.Equal("object motion trans delta", prim.Vec3Default, prim.GetVec3(data[52:]), base+52); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion trans initial", prim.Vec3Default, prim.GetVec3(data[64:]), base+64); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion field 100", prim.Vec3Default, prim.GetVec3(data[100:]), base+100); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("object motion trans delta copy", prim.Vec3Default, prim.GetVec3(data[76:]), base+76); err != nil {
		return nil, err
	}
	if err := assert.Equal("object motion trans initial copy", prim.Vec3Default, prim.GetVec3(data[88:]), base+88); err != nil {
		return nil, err
	}

	fwdTime := flags&omFwdRotationTime != 0
	fwdDist := flags&omFwdRotationDist != 0
	switch {
	case fwdTime:
		if err := assert.Equal("object motion fwd rot dist", false, fwdDist, base+0); err != nil {
			return nil, err
		}
		motion.ForwardRotation = &ForwardRotation{
			Time: &ForwardRotationTime{V1: f32(data[112:]), V2: f32(data[116:])},
		}
	case fwdDist:
		if err := assert.Equal("object motion fwd rot 2", float32(0), f32(data[116:]), base+116); err != nil {
			return nil, err
		}
		motion.ForwardRotation = &ForwardRotation{
			Distance: &ForwardRotationDistance{V1: f32(data[112:])},
		}
	default:
		if err := assert.Equal("object motion fwd rot 1", float32(0), f32(data[112:]), base+112); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion fwd rot 2", float32(0), f32(data[116:]), base+116); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("object motion field 120", float32(0), f32(data[120:]), base+120); err != nil {
		return nil, err
	}

	if flags&omXyzRotation != 0 {
		motion.XyzRotation = &XyzRotation{
			Value: prim.GetVec3(data[124:]),
			Unk:   prim.GetVec3(data[136:]),
		}
	} else {
		if err := assert.Equal("object motion xyz rot", prim.Vec3Default, prim.GetVec3(data[124:]), base+124); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion field 136", prim.Vec3Default, prim.GetVec3(data[136:]), base+136); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("object motion xyz rot copy", prim.Vec3Default, prim.GetVec3(data[148:]), base+148); err != nil {
		return nil, err
	}

	if flags&omScale != 0 {
		motion.Scale = &ObjectMotionScale{
			Value: prim.GetVec3(data[160:]),
			Unk:   prim.GetVec3(data[172:]),
		}
	} else {
		if err := assert.Equal("object motion scale", prim.Vec3Default, prim.GetVec3(data[160:]), base+160); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion field 172", prim.Vec3Default, prim.GetVec3(data[172:]), base+172); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("object motion scale copy", prim.Vec3Default, prim.GetVec3(data[184:]), base+184); err != nil {
		return nil, err
	}

	for _, off := range []int{228, 268, 308} {
		if err := assert.Equal("object motion bounce seq sentinel", int16(-1), int16(le.Uint16(data[off:])), base+uint32(off)); err != nil {
			return nil, err
		}
	}

	if flags&omBounceSeq != 0 {
		readSeqName := func(off int, slot string) (*string, error) {
			if data[off] == 0 {
				return nil, nil
			}
			name, err := assert.Ascii("object motion bounce seq "+slot, base+uint32(off), func() (string, error) {
				return prim.FromPadded(data[off : off+32])
			})
			if err != nil {
				return nil, err
			}
			return &name, nil
		}
		seq := &BounceSequence{}
		if seq.SeqName0, err = readSeqName(196, "0 name"); err != nil {
			return nil, err
		}
		if seq.SeqName0 == nil {
			return nil, errs.New("object motion bounce seq 0", "to name at least one sequence", base+196)
		}
		if seq.SeqName1, err = readSeqName(236, "1 name"); err != nil {
			return nil, err
		}
		if seq.SeqName2, err = readSeqName(276, "2 name"); err != nil {
			return nil, err
		}
		motion.BounceSequence = seq
	} else {
		for _, off := range []int{196, 236, 276} {
			if err := assert.AllZero("object motion bounce seq", data[off:off+32], base+uint32(off)); err != nil {
				return nil, err
			}
		}
	}

	if flags&omBounceSound != 0 {
		volume := f32(data[232:])
		if err := assert.Greater("object motion bounce snd 0 vol", float32(0), volume, base+232); err != nil {
			return nil, err
		}
		soundName, err := ctx.SoundFromIndex(int(le.Uint16(data[230:])), base+230)
		if err != nil {
			return nil, err
		}
		motion.BounceSound = &BounceSound{Name: soundName, Volume: volume}
	} else {
		if err := assert.Equal("object motion bounce snd 0 index", uint16(0), le.Uint16(data[230:]), base+230); err != nil {
			return nil, err
		}
		if err := assert.Equal("object motion bounce snd 0 vol", float32(0), f32(data[232:]), base+232); err != nil {
			return nil, err
		}
	}
	// sound slots 1 and 2 are never used, regardless of the flag
	for _, off := range []int{270, 310} {
		if err := assert.Equal("object motion bounce snd index", uint16(0), le.Uint16(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}
	for _, off := range []int{272, 312} {
		if err := assert.Equal("object motion bounce snd vol", float32(0), f32(data[off:]), base+uint32(off)); err != nil {
			return nil, err
		}
	}

	runTime := f32(data[316:])
	if flags&omRunTime != 0 {
		if err := assert.Greater("object motion run time", float32(0), runTime, base+316); err != nil {
			return nil, err
		}
		motion.RunTime = &runTime
	} else if err := assert.Equal("object motion run time", float32(0), runTime, base+316); err != nil {
		return nil, err
	}

	return motion, nil
}

func (m *ObjectMotion) write(w *iox.Writer, ctx *AnimDef) error {
	nodeIndex, err := ctx.NodeToIndex(m.Node)
	if err != nil {
		return err
	}
	data := make([]byte, objectMotionSize)
	var flags uint32

	le.PutUint32(data[4:], uint32(nodeIndex))
	if m.Gravity != nil {
		flags |= omGravity
		switch m.Gravity.Mode {
		case GravityModeComplex:
			flags |= omGravityComplex
		case GravityModeNoAltitude:
			flags |= omGravityNoAltitude
		}
		putF32(data[12:], m.Gravity.Value)
	}
	if m.ImpactForce {
		flags |= omImpactForce
	}

	putQuad := func(start int, v prim.Vec4) {
		putF32(data[start:], v.X)
		putF32(data[start+8:], v.Y)
		putF32(data[start+16:], v.Z)
		putF32(data[start+24:], v.W)
	}
	if m.TranslationRangeMin != nil {
		flags |= omTranslationMin
		putQuad(20, *m.TranslationRangeMin)
	}
	if m.TranslationRangeMax != nil {
		flags |= omTranslationMax
		putQuad(24, *m.TranslationRangeMax)
	}
	if m.Translation != nil {
		flags |= omTranslation
		prim.PutVec3(data[52:], m.Translation.Delta)
		prim.PutVec3(data[64:], m.Translation.Initial)
		prim.PutVec3(data[100:], m.Translation.Unk)
	}
	switch {
	case m.ForwardRotation != nil && m.ForwardRotation.Time != nil:
		flags |= omFwdRotationTime
		putF32(data[112:], m.ForwardRotation.Time.V1)
		putF32(data[116:], m.ForwardRotation.Time.V2)
	case m.ForwardRotation != nil && m.ForwardRotation.Distance != nil:
		flags |= omFwdRotationDist
		putF32(data[112:], m.ForwardRotation.Distance.V1)
	}
	if m.XyzRotation != nil {
		flags |= omXyzRotation
		prim.PutVec3(data[124:], m.XyzRotation.Value)
		prim.PutVec3(data[136:], m.XyzRotation.Unk)
	}
	if m.Scale != nil {
		flags |= omScale
		prim.PutVec3(data[160:], m.Scale.Value)
		prim.PutVec3(data[172:], m.Scale.Unk)
	}

	for _, off := range []int{228, 268, 308} {
		le.PutUint16(data[off:], uint16(0xFFFF))
	}
	if m.BounceSequence != nil {
		flags |= omBounceSeq
		for i, name := range []*string{m.BounceSequence.SeqName0, m.BounceSequence.SeqName1, m.BounceSequence.SeqName2} {
			if name == nil {
				continue
			}
			off := 196 + i*40
			if err := prim.ToPadded(*name, data[off:off+32]); err != nil {
				return err
			}
		}
	}
	if m.BounceSound != nil {
		flags |= omBounceSound
		soundIndex, err := ctx.SoundToIndex(m.BounceSound.Name)
		if err != nil {
			return err
		}
		le.PutUint16(data[230:], uint16(soundIndex))
		putF32(data[232:], m.BounceSound.Volume)
	}
	if m.RunTime != nil {
		flags |= omRunTime
		putF32(data[316:], *m.RunTime)
	}

	le.PutUint32(data[0:], flags)
	return w.WriteAll(data)
}

func init() {
	registerEvent(KindObjectMotion, objectMotionSize, readObjectMotion)
}
