package anim

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

// Side tables of an animation definition. Each table (except anim refs and
// activation prereqs) begins with an all-zero reserved entry for index 0;
// the on-disk count includes it.

// objectEntrySize: name [32]u8, zero32 u32, unk [60]u8. The trailing bytes
// are not interpretable (sometimes floats, sometimes garbage) and are
// preserved verbatim.
const objectEntrySize = 96

func readObjects(r *iox.Reader, count uint8) ([]prim.NamePad, error) {
	zero, err := r.ReadBytes(objectEntrySize)
	if err != nil {
		return nil, err
	}
	if err := assert.AllZero("anim def object zero", zero, r.Prev); err != nil {
		return nil, err
	}
	objects := make([]prim.NamePad, 0, count-1)
	for i := uint8(1); i < count; i++ {
		data, err := r.ReadBytes(objectEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		name, err := assert.Ascii("anim def object name", base+0, func() (string, error) {
			return prim.FromPadded(data[0:32])
		})
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def object field 32", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		pad := make([]byte, 60)
		copy(pad, data[36:])
		objects = append(objects, prim.NamePad{Name: name, Pad: pad})
	}
	return objects, nil
}

func writeObjects(w *iox.Writer, objects []prim.NamePad) error {
	if err := w.WriteZeros(objectEntrySize); err != nil {
		return err
	}
	for _, object := range objects {
		data := make([]byte, objectEntrySize)
		if err := prim.ToPadded(object.Name, data[0:32]); err != nil {
			return err
		}
		prim.CopyBytes(object.Pad, data[36:])
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

// nodeEntrySize: name [32]u8, zero32 u32, pointer u32.
const nodeEntrySize = 40

func readNodeTable(r *iox.Reader, count uint8) ([]prim.NamePtr, error) {
	zero, err := r.ReadBytes(nodeEntrySize)
	if err != nil {
		return nil, err
	}
	if err := assert.AllZero("anim def node zero", zero, r.Prev); err != nil {
		return nil, err
	}
	nodes := make([]prim.NamePtr, 0, count-1)
	for i := uint8(1); i < count; i++ {
		data, err := r.ReadBytes(nodeEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		name, err := assert.Ascii("anim def node name", base+0, func() (string, error) {
			return prim.FromPadded(data[0:32])
		})
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def node field 32", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		pointer := prim.Ptr(le.Uint32(data[36:]))
		if err := assert.Unequal("anim def node pointer", prim.PtrNull, pointer, base+36); err != nil {
			return nil, err
		}
		nodes = append(nodes, prim.NamePtr{Name: name, Pointer: pointer})
	}
	return nodes, nil
}

func writeNodeTable(w *iox.Writer, nodes []prim.NamePtr) error {
	if err := w.WriteZeros(nodeEntrySize); err != nil {
		return err
	}
	for _, node := range nodes {
		data := make([]byte, nodeEntrySize)
		if err := prim.ToPadded(node.Name, data[0:32]); err != nil {
			return err
		}
		le.PutUint32(data[36:], uint32(node.Pointer))
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

// lookupEntrySize: name [32]u8, flags u32, pointer u32, zero40 u32.
// Shared by the light, puffer and dynamic-sound tables.
const lookupEntrySize = 44

func readLookupZero(r *iox.Reader, table string) error {
	zero, err := r.ReadBytes(lookupEntrySize)
	if err != nil {
		return err
	}
	return assert.AllZero("anim def "+table+" zero", zero, r.Prev)
}

func readLights(r *iox.Reader, count uint8) ([]prim.NamePtr, error) {
	if err := readLookupZero(r, "light"); err != nil {
		return nil, err
	}
	lights := make([]prim.NamePtr, 0, count-1)
	for i := uint8(1); i < count; i++ {
		data, err := r.ReadBytes(lookupEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		name, err := assert.Ascii("anim def light name", base+0, func() (string, error) {
			return prim.FromPadded(data[0:32])
		})
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def light field 32", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		pointer := prim.Ptr(le.Uint32(data[36:]))
		if err := assert.Unequal("anim def light pointer", prim.PtrNull, pointer, base+36); err != nil {
			return nil, err
		}
		// a non-zero value here would remove the light instead of adding it
		if err := assert.Equal("anim def light field 40", uint32(0), le.Uint32(data[40:]), base+40); err != nil {
			return nil, err
		}
		lights = append(lights, prim.NamePtr{Name: name, Pointer: pointer})
	}
	return lights, nil
}

func writeLights(w *iox.Writer, lights []prim.NamePtr) error {
	if err := w.WriteZeros(lookupEntrySize); err != nil {
		return err
	}
	for _, light := range lights {
		data := make([]byte, lookupEntrySize)
		if err := prim.ToPadded(light.Name, data[0:32]); err != nil {
			return err
		}
		le.PutUint32(data[36:], uint32(light.Pointer))
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

func readPuffers(r *iox.Reader, count uint8) ([]prim.NamePtrFlags, error) {
	if err := readLookupZero(r, "puffer"); err != nil {
		return nil, err
	}
	puffers := make([]prim.NamePtrFlags, 0, count-1)
	for i := uint8(1); i < count; i++ {
		data, err := r.ReadBytes(lookupEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		name, err := assert.Ascii("anim def puffer name", base+0, func() (string, error) {
			return prim.FromPadded(data[0:32])
		})
		if err != nil {
			return nil, err
		}
		// only the top byte carries flag data; the rest must be clear
		rawFlags := le.Uint32(data[32:])
		if err := assert.Equal("anim def puffer flags", uint32(0), rawFlags&0x00FFFFFF, base+32); err != nil {
			return nil, err
		}
		pointer := prim.Ptr(le.Uint32(data[36:]))
		if err := assert.Unequal("anim def puffer pointer", prim.PtrNull, pointer, base+36); err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def puffer field 40", uint32(0), le.Uint32(data[40:]), base+40); err != nil {
			return nil, err
		}
		puffers = append(puffers, prim.NamePtrFlags{
			Name:    name,
			Pointer: pointer,
			Flags:   rawFlags >> 24,
		})
	}
	return puffers, nil
}

func writePuffers(w *iox.Writer, puffers []prim.NamePtrFlags) error {
	if err := w.WriteZeros(lookupEntrySize); err != nil {
		return err
	}
	for _, puffer := range puffers {
		data := make([]byte, lookupEntrySize)
		if err := prim.ToPadded(puffer.Name, data[0:32]); err != nil {
			return err
		}
		le.PutUint32(data[32:], puffer.Flags<<24)
		le.PutUint32(data[36:], uint32(puffer.Pointer))
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

func readDynamicSounds(r *iox.Reader, count uint8) ([]prim.NamePtr, error) {
	if err := readLookupZero(r, "dynamic sound"); err != nil {
		return nil, err
	}
	sounds := make([]prim.NamePtr, 0, count-1)
	for i := uint8(1); i < count; i++ {
		data, err := r.ReadBytes(lookupEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		name, err := assert.Ascii("anim def dynamic sound name", base+0, func() (string, error) {
			return prim.FromPadded(data[0:32])
		})
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def dynamic sound field 32", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		pointer := prim.Ptr(le.Uint32(data[36:]))
		if err := assert.Unequal("anim def dynamic sound pointer", prim.PtrNull, pointer, base+36); err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def dynamic sound field 40", uint32(0), le.Uint32(data[40:]), base+40); err != nil {
			return nil, err
		}
		sounds = append(sounds, prim.NamePtr{Name: name, Pointer: pointer})
	}
	return sounds, nil
}

func writeDynamicSounds(w *iox.Writer, sounds []prim.NamePtr) error {
	if err := w.WriteZeros(lookupEntrySize); err != nil {
		return err
	}
	for _, sound := range sounds {
		data := make([]byte, lookupEntrySize)
		if err := prim.ToPadded(sound.Name, data[0:32]); err != nil {
			return err
		}
		le.PutUint32(data[36:], uint32(sound.Pointer))
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

// staticSoundEntrySize: name [32]u8, zero32 u32. The names were never
// memset, so the bytes after the terminator are preserved.
const staticSoundEntrySize = 36

func readStaticSounds(r *iox.Reader, count uint8) ([]prim.NamePad, error) {
	zero, err := r.ReadBytes(staticSoundEntrySize)
	if err != nil {
		return nil, err
	}
	if err := assert.AllZero("anim def static sound zero", zero, r.Prev); err != nil {
		return nil, err
	}
	sounds := make([]prim.NamePad, 0, count-1)
	for i := uint8(1); i < count; i++ {
		data, err := r.ReadBytes(staticSoundEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		var pad []byte
		name, err := assert.Ascii("anim def static sound name", base+0, func() (string, error) {
			n, p, err := prim.FromPartition(data[0:32])
			pad = p
			return n, err
		})
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def static sound field 32", uint32(0), le.Uint32(data[32:]), base+32); err != nil {
			return nil, err
		}
		sounds = append(sounds, prim.NamePad{Name: name, Pad: pad})
	}
	return sounds, nil
}

func writeStaticSounds(w *iox.Writer, sounds []prim.NamePad) error {
	if err := w.WriteZeros(staticSoundEntrySize); err != nil {
		return err
	}
	for _, sound := range sounds {
		data := make([]byte, staticSoundEntrySize)
		if err := prim.ToPartition(sound.Name, sound.Pad, data[0:32]); err != nil {
			return err
		}
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

// animRefEntrySize: name [64]u8, zero64 u32, zero68 u32. There is no
// reserved zero entry: one ref exists per CALL_ANIMATION, duplicates
// included, so calls can be ordered.
const animRefEntrySize = 72

func readAnimRefs(r *iox.Reader, count uint8) ([]prim.NamePad, error) {
	refs := make([]prim.NamePad, 0, count)
	for i := uint8(0); i < count; i++ {
		data, err := r.ReadBytes(animRefEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		// many of these are properly zero-terminated at 32 and beyond, but
		// not all; the garbage suggests a lack of memset
		var pad []byte
		name, err := assert.Ascii("anim def anim ref name", base+0, func() (string, error) {
			n, p, err := prim.FromPartition(data[0:64])
			pad = p
			return n, err
		})
		if err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def anim ref field 64", uint32(0), le.Uint32(data[64:]), base+64); err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def anim ref field 68", uint32(0), le.Uint32(data[68:]), base+68); err != nil {
			return nil, err
		}
		refs = append(refs, prim.NamePad{Name: name, Pad: pad})
	}
	return refs, nil
}

func writeAnimRefs(w *iox.Writer, refs []prim.NamePad) error {
	for _, ref := range refs {
		data := make([]byte, animRefEntrySize)
		if err := prim.ToPartition(ref.Name, ref.Pad, data[0:64]); err != nil {
			return err
		}
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}

// prereqEntrySize: required u32, kind u32, name [32]u8, pointer u32,
// zero44 u32. Animation prerequisites carry a null pointer.
const prereqEntrySize = 48

func readActivPrereqs(r *iox.Reader, count uint8) ([]ActivPrereq, error) {
	prereqs := make([]ActivPrereq, 0, count)
	for i := uint8(0); i < count; i++ {
		data, err := r.ReadBytes(prereqEntrySize)
		if err != nil {
			return nil, err
		}
		base := r.Prev
		required, err := assert.Bool("anim def prereq required", le.Uint32(data[0:]), base+0)
		if err != nil {
			return nil, err
		}
		kind := le.Uint32(data[4:])
		if err := assert.In("anim def prereq kind", []uint32{1, 2, 3}, kind, base+4); err != nil {
			return nil, err
		}
		name, err := assert.Ascii("anim def prereq name", base+8, func() (string, error) {
			return prim.FromPadded(data[8:40])
		})
		if err != nil {
			return nil, err
		}
		pointer := prim.Ptr(le.Uint32(data[40:]))
		if ActivPrereqKind(kind) == ActivPrereqAnimation {
			if err := assert.Equal("anim def prereq pointer", prim.PtrNull, pointer, base+40); err != nil {
				return nil, err
			}
		} else if err := assert.Unequal("anim def prereq pointer", prim.PtrNull, pointer, base+40); err != nil {
			return nil, err
		}
		if err := assert.Equal("anim def prereq field 44", uint32(0), le.Uint32(data[44:]), base+44); err != nil {
			return nil, err
		}
		prereqs = append(prereqs, ActivPrereq{
			Kind:     ActivPrereqKind(kind),
			Name:     name,
			Required: required,
			Pointer:  pointer,
		})
	}
	return prereqs, nil
}

func writeActivPrereqs(w *iox.Writer, prereqs []ActivPrereq) error {
	for _, prereq := range prereqs {
		data := make([]byte, prereqEntrySize)
		le.PutUint32(data[0:], boolToU32(prereq.Required))
		le.PutUint32(data[4:], uint32(prereq.Kind))
		if err := prim.ToPadded(prereq.Name, data[8:40]); err != nil {
			return err
		}
		le.PutUint32(data[40:], uint32(prereq.Pointer))
		if err := w.WriteAll(data); err != nil {
			return err
		}
	}
	return nil
}
