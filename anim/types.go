// Package anim implements the animation-definition codec: the 316-byte
// definition header, its nine side tables, the reset-state sequence, the
// named sequence definitions, and the tagged-union event stream they carry.
//
// An AnimDef owns the name tables (objects, nodes, lights, puffers, sounds,
// animation refs) that events resolve their 1-based indices against. The
// tables are immutable during event traversal; index 0 is reserved as "none".
package anim

import (
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/prim"
)

// Activation selects how an animation definition is started.
type Activation uint8

// Activation variants, in on-disk tag order.
const (
	ActivationWeaponHit          Activation = 0
	ActivationOnCall             Activation = 1
	ActivationCollideHit         Activation = 2
	ActivationWeaponOrCollideHit Activation = 3
	ActivationOnStartup          Activation = 4
)

func validActivation(v uint8) bool {
	return v <= uint8(ActivationOnStartup)
}

// ExecutionKind selects the execution mode of an animation definition.
type ExecutionKind uint8

// Execution modes.
const (
	ExecutionNone ExecutionKind = iota
	ExecutionByZone
	ExecutionByRange
)

// Execution carries the mode and, for ExecutionByRange, the range bounds.
type Execution struct {
	Kind  ExecutionKind `json:"kind"`
	Range prim.Range    `json:"range,omitzero"`
}

// SeqActivation selects how a sequence definition is started.
type SeqActivation uint8

// Sequence activation variants.
const (
	SeqActivationInitial SeqActivation = iota
	SeqActivationOnCall
)

// SeqDef is a named, flag-tagged ordered sequence of events.
type SeqDef struct {
	Name       string        `json:"name"`
	Activation SeqActivation `json:"activation"`
	Events     []Event       `json:"events"`
	Pointer    prim.Ptr      `json:"pointer"`
}

// ResetState is the implicit sequence that initializes an animation's actors.
type ResetState struct {
	Events  []Event  `json:"events"`
	Pointer prim.Ptr `json:"pointer"`
}

// AnimPtr collects the opaque pointer values of one animation definition so
// the writer can echo them back verbatim.
type AnimPtr struct {
	AnimPtr          prim.Ptr `json:"anim_ptr"`
	AnimRootPtr      prim.Ptr `json:"anim_root_ptr"`
	ObjectsPtr       prim.Ptr `json:"objects_ptr"`
	NodesPtr         prim.Ptr `json:"nodes_ptr"`
	LightsPtr        prim.Ptr `json:"lights_ptr"`
	PuffersPtr       prim.Ptr `json:"puffers_ptr"`
	DynamicSoundsPtr prim.Ptr `json:"dynamic_sounds_ptr"`
	StaticSoundsPtr  prim.Ptr `json:"static_sounds_ptr"`
	ActivPrereqsPtr  prim.Ptr `json:"activ_prereqs_ptr"`
	AnimRefsPtr      prim.Ptr `json:"anim_refs_ptr"`
	ResetStatePtr    prim.Ptr `json:"reset_state_ptr"`
	SeqDefsPtr       prim.Ptr `json:"seq_defs_ptr"`
}

// ActivPrereqKind tags one activation prerequisite.
type ActivPrereqKind uint32

// Activation prerequisite variants.
const (
	ActivPrereqAnimation ActivPrereqKind = 1
	ActivPrereqObject    ActivPrereqKind = 2
	ActivPrereqParent    ActivPrereqKind = 3
)

// ActivPrereq is one activation prerequisite of an animation definition.
type ActivPrereq struct {
	Kind     ActivPrereqKind `json:"kind"`
	Name     string          `json:"name"`
	Required bool            `json:"required"`
	// Pointer is zero for animation prerequisites.
	Pointer prim.Ptr `json:"pointer"`
}

// AnimDef is one animation definition: execution metadata plus the name
// tables that events resolve against.
type AnimDef struct {
	Name     string       `json:"name"`
	AnimName prim.NamePad `json:"anim_name"`
	AnimRoot prim.NamePad `json:"anim_root"`

	AutoResetNodeStates bool       `json:"auto_reset_node_states"`
	Activation          Activation `json:"activation"`
	Execution           Execution  `json:"execution"`
	NetworkLog          *bool      `json:"network_log,omitempty"`
	SaveLog             *bool      `json:"save_log,omitempty"`
	HasCallbacks        bool       `json:"has_callbacks"`
	ResetTime           *float32   `json:"reset_time,omitempty"`
	Health              float32    `json:"health"`
	ProximityDamage     bool       `json:"proximity_damage"`

	ActivPrereqMinToSatisfy uint8 `json:"activ_prereq_min_to_satisfy"`

	Objects       []prim.NamePad      `json:"objects,omitempty"`
	Nodes         []prim.NamePtr      `json:"nodes,omitempty"`
	Lights        []prim.NamePtr      `json:"lights,omitempty"`
	Puffers       []prim.NamePtrFlags `json:"puffers,omitempty"`
	DynamicSounds []prim.NamePtr      `json:"dynamic_sounds,omitempty"`
	StaticSounds  []prim.NamePad      `json:"static_sounds,omitempty"`
	ActivPrereqs  []ActivPrereq       `json:"activ_prereqs,omitempty"`
	AnimRefs      []prim.NamePad      `json:"anim_refs,omitempty"`

	ResetState *ResetState `json:"reset_state,omitempty"`
	Sequences  []SeqDef    `json:"sequences"`
}

// Side tables hold at most 255 entries: the index width is 8 bits and
// index 0 is the reserved "none" entry.
const tableCap = 255

// InputNode is the reserved node name that resolves to index 0 where a
// codec explicitly allows the engine's input node.
const InputNode = "INPUT_NODE"

// NodeFromIndex resolves a 1-based node index against the node table.
func (d *AnimDef) NodeFromIndex(index int, offset uint32) (string, error) {
	if index < 1 || index > len(d.Nodes) {
		return "", errs.Newf(offset, "node index", "in 1..=%d, but was %d", len(d.Nodes), index)
	}
	return d.Nodes[index-1].Name, nil
}

// NodeToIndex resolves a node name back to its 1-based index.
func (d *AnimDef) NodeToIndex(name string) (int, error) {
	for i, node := range d.Nodes {
		if node.Name == name {
			return i + 1, nil
		}
	}
	return 0, errs.Newf(0, "node name", "to be known, but was %q", name)
}

// NodeFromIndexOrInput resolves index 0 to InputNode, otherwise like
// NodeFromIndex. Some events address the engine's input node this way.
func (d *AnimDef) NodeFromIndexOrInput(index int, offset uint32) (string, error) {
	if index == 0 {
		return InputNode, nil
	}
	return d.NodeFromIndex(index, offset)
}

// NodeToIndexOrInput maps InputNode to index 0, otherwise like NodeToIndex.
func (d *AnimDef) NodeToIndexOrInput(name string) (int, error) {
	if name == InputNode {
		return 0, nil
	}
	return d.NodeToIndex(name)
}

// SoundFromIndex resolves a 1-based static-sound index.
func (d *AnimDef) SoundFromIndex(index int, offset uint32) (string, error) {
	if index < 1 || index > len(d.StaticSounds) {
		return "", errs.Newf(offset, "sound index", "in 1..=%d, but was %d", len(d.StaticSounds), index)
	}
	return d.StaticSounds[index-1].Name, nil
}

// SoundToIndex resolves a static-sound name back to its 1-based index.
func (d *AnimDef) SoundToIndex(name string) (int, error) {
	for i, sound := range d.StaticSounds {
		if sound.Name == name {
			return i + 1, nil
		}
	}
	return 0, errs.Newf(0, "sound name", "to be known, but was %q", name)
}

// LightFromIndex resolves a 1-based light index.
func (d *AnimDef) LightFromIndex(index int, offset uint32) (string, error) {
	if index < 1 || index > len(d.Lights) {
		return "", errs.Newf(offset, "light index", "in 1..=%d, but was %d", len(d.Lights), index)
	}
	return d.Lights[index-1].Name, nil
}

// LightToIndex resolves a light name back to its 1-based index.
func (d *AnimDef) LightToIndex(name string) (int, error) {
	for i, light := range d.Lights {
		if light.Name == name {
			return i + 1, nil
		}
	}
	return 0, errs.Newf(0, "light name", "to be known, but was %q", name)
}

// PufferFromIndex resolves a 1-based puffer index.
func (d *AnimDef) PufferFromIndex(index int, offset uint32) (string, error) {
	if index < 1 || index > len(d.Puffers) {
		return "", errs.Newf(offset, "puffer index", "in 1..=%d, but was %d", len(d.Puffers), index)
	}
	return d.Puffers[index-1].Name, nil
}

// PufferToIndex resolves a puffer name back to its 1-based index.
func (d *AnimDef) PufferToIndex(name string) (int, error) {
	for i, puffer := range d.Puffers {
		if puffer.Name == name {
			return i + 1, nil
		}
	}
	return 0, errs.Newf(0, "puffer name", "to be known, but was %q", name)
}
