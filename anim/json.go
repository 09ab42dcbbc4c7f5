package anim

import (
	"encoding/json"
	"fmt"
)

// Event JSON encoding: a tagged envelope {"start": ..., "kind": "...",
// "data": {...}} where kind names the concrete payload type. The neutral
// form must survive a JSON round-trip structurally, so decoding restores
// the exact EventData implementation.

var eventKindNames = map[uint8]string{}
var eventKindFactories = map[string]func() EventData{}

func registerEventJSON(kind uint8, name string, factory func() EventData) {
	eventKindNames[kind] = name
	eventKindFactories[name] = factory
}

type eventJSON struct {
	Start *EventStart     `json:"start,omitempty"`
	Kind  string          `json:"kind"`
	Data  json.RawMessage `json:"data"`
}

// MarshalJSON encodes the event with its kind tag.
func (e Event) MarshalJSON() ([]byte, error) {
	name, ok := eventKindNames[e.Data.Kind()]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %d", e.Data.Kind())
	}
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventJSON{Start: e.Start, Kind: name, Data: data})
}

// UnmarshalJSON decodes the kind tag and dispatches to the concrete type.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	factory, ok := eventKindFactories[raw.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", raw.Kind)
	}
	payload := factory()
	if err := json.Unmarshal(raw.Data, payload); err != nil {
		return err
	}
	e.Start = raw.Start
	e.Data = payload
	return nil
}

func init() {
	registerEventJSON(KindSound, "sound", func() EventData { return &Sound{} })
	registerEventJSON(KindSoundNode, "sound_node", func() EventData { return &SoundNode{} })
	registerEventJSON(KindEffect, "effect", func() EventData { return &Effect{} })
	registerEventJSON(KindLightState, "light_state", func() EventData { return &LightState{} })
	registerEventJSON(KindLightAnimation, "light_animation", func() EventData { return &LightAnimation{} })
	registerEventJSON(KindObjectActiveState, "object_active_state", func() EventData { return &ObjectActiveState{} })
	registerEventJSON(KindObjectTranslateState, "object_translate_state", func() EventData { return &ObjectTranslateState{} })
	registerEventJSON(KindObjectScaleState, "object_scale_state", func() EventData { return &ObjectScaleState{} })
	registerEventJSON(KindObjectRotateState, "object_rotate_state", func() EventData { return &ObjectRotateState{} })
	registerEventJSON(KindObjectMotion, "object_motion", func() EventData { return &ObjectMotion{} })
	registerEventJSON(KindObjectMotionFromTo, "object_motion_from_to", func() EventData { return &ObjectMotionFromTo{} })
	registerEventJSON(KindObjectMotionSiScript, "object_motion_si_script", func() EventData { return &ObjectMotionSiScript{} })
	registerEventJSON(KindObjectOpacityState, "object_opacity_state", func() EventData { return &ObjectOpacityState{} })
	registerEventJSON(KindObjectOpacityFromTo, "object_opacity_from_to", func() EventData { return &ObjectOpacityFromTo{} })
	registerEventJSON(KindObjectAddChild, "object_add_child", func() EventData { return &ObjectAddChild{} })
	registerEventJSON(KindObjectDeleteChild, "object_delete_child", func() EventData { return &ObjectDeleteChild{} })
	registerEventJSON(KindObjectCycleTexture, "object_cycle_texture", func() EventData { return &ObjectCycleTexture{} })
	registerEventJSON(KindObjectConnector, "object_connector", func() EventData { return &ObjectConnector{} })
	registerEventJSON(KindCallObjectConnector, "call_object_connector", func() EventData { return &CallObjectConnector{} })
	registerEventJSON(KindCameraState, "camera_state", func() EventData { return &CameraState{} })
	registerEventJSON(KindCameraFromTo, "camera_from_to", func() EventData { return &CameraFromTo{} })
	registerEventJSON(KindCallSequence, "call_sequence", func() EventData { return &CallSequence{} })
	registerEventJSON(KindStopSequence, "stop_sequence", func() EventData { return &StopSequence{} })
	registerEventJSON(KindCallAnimation, "call_animation", func() EventData { return &CallAnimation{} })
	registerEventJSON(KindStopAnimation, "stop_animation", func() EventData { return &StopAnimation{} })
	registerEventJSON(KindResetAnimation, "reset_animation", func() EventData { return &ResetAnimation{} })
	registerEventJSON(KindInvalidateAnimation, "invalidate_animation", func() EventData { return &InvalidateAnimation{} })
	registerEventJSON(KindFogState, "fog_state", func() EventData { return &FogState{} })
	registerEventJSON(KindLoop, "loop", func() EventData { return &Loop{} })
	registerEventJSON(KindIf, "if", func() EventData { return &If{} })
	registerEventJSON(KindElse, "else", func() EventData { return &Else{} })
	registerEventJSON(KindElseIf, "elseif", func() EventData { return &ElseIf{} })
	registerEventJSON(KindEndIf, "endif", func() EventData { return &EndIf{} })
	registerEventJSON(KindCallback, "callback", func() EventData { return &Callback{} })
	registerEventJSON(KindFbfxColorFromTo, "fbfx_color_from_to", func() EventData { return &FbfxColorFromTo{} })
	registerEventJSON(KindFbfxCsinwaveFromTo, "fbfx_csinwave_from_to", func() EventData { return &FbfxCsinwaveFromTo{} })
	registerEventJSON(KindAnimVerbose, "anim_verbose", func() EventData { return &AnimVerbose{} })
	registerEventJSON(KindDetonateWeapon, "detonate_weapon", func() EventData { return &DetonateWeapon{} })
	registerEventJSON(KindPufferState, "puffer_state", func() EventData { return &PufferState{} })
}
