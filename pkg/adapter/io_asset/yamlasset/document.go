// 指示: miu200521358
// Package yamlasset はアニメーター関連アセットを YAML コンテナとして読み書きする。
package yamlasset

// CONTAINER_VERSION は対応するコンテナ形式の版。
const CONTAINER_VERSION = 1

const (
	kindController   = "AnimatorController"
	kindMask         = "AvatarMask"
	kindStateMachine = "AnimatorStateMachine"
	kindState        = "AnimatorState"
	kindTransition   = "AnimatorStateTransition"
	kindBlendTree    = "BlendTree"
	kindClip         = "AnimationClip"
	kindBehaviour    = "StateMachineBehaviour"
)

// containerDocument はコンテナファイル全体を表す。
type containerDocument struct {
	Version int              `yaml:"version"`
	Objects []objectDocument `yaml:"objects"`
}

// objectRef はオブジェクト参照を表す。File が空なら同じコンテナ内を指す。
type objectRef struct {
	File string `yaml:"file,omitempty"`
	ID   int64  `yaml:"id"`
}

// objectDocument はコンテナ内の1オブジェクトを表す。Kind に対応する本体だけが設定される。
type objectDocument struct {
	ID           int64                 `yaml:"id"`
	Kind         string                `yaml:"kind"`
	Controller   *controllerDocument   `yaml:"controller,omitempty"`
	Mask         *maskDocument         `yaml:"mask,omitempty"`
	StateMachine *stateMachineDocument `yaml:"state_machine,omitempty"`
	State        *stateDocument        `yaml:"state,omitempty"`
	Transition   *transitionDocument   `yaml:"transition,omitempty"`
	BlendTree    *blendTreeDocument    `yaml:"blend_tree,omitempty"`
	Clip         *clipDocument         `yaml:"clip,omitempty"`
	Behaviour    *behaviourDocument    `yaml:"behaviour,omitempty"`
}

type vec2Document [2]float64

type vec3Document [3]float64

type controllerDocument struct {
	Name       string              `yaml:"name"`
	Parameters []parameterDocument `yaml:"parameters"`
	Layers     []layerDocument     `yaml:"layers"`
}

type parameterDocument struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Default float64 `yaml:"default"`
}

type layerDocument struct {
	Name                string     `yaml:"name"`
	StateMachine        *objectRef `yaml:"state_machine,omitempty"`
	DefaultWeight       float64    `yaml:"default_weight"`
	BlendMode           string     `yaml:"blend_mode,omitempty"`
	Mask                *objectRef `yaml:"mask,omitempty"`
	IKPass              bool       `yaml:"ik_pass,omitempty"`
	SyncedLayerIndex    *int       `yaml:"synced_layer_index,omitempty"`
	SyncedAffectsTiming bool       `yaml:"synced_affects_timing,omitempty"`
}

type maskDocument struct {
	Name       string                  `yaml:"name"`
	BodyParts  []string                `yaml:"body_parts"`
	Transforms []maskTransformDocument `yaml:"transforms,omitempty"`
}

type maskTransformDocument struct {
	Path   string `yaml:"path"`
	Active bool   `yaml:"active"`
}

type stateMachineDocument struct {
	Name                       string                            `yaml:"name"`
	Position                   vec3Document                      `yaml:"position"`
	AnyStatePosition           vec3Document                      `yaml:"any_state_position"`
	EntryPosition              vec3Document                      `yaml:"entry_position"`
	ExitPosition               vec3Document                      `yaml:"exit_position"`
	ParentStateMachinePosition vec3Document                      `yaml:"parent_state_machine_position"`
	States                     []objectRef                       `yaml:"states,omitempty"`
	StateMachines              []objectRef                       `yaml:"state_machines,omitempty"`
	AnyStateTransitions        []objectRef                       `yaml:"any_state_transitions,omitempty"`
	EntryTransitions           []objectRef                       `yaml:"entry_transitions,omitempty"`
	StateMachineTransitions    []stateMachineTransitionsDocument `yaml:"state_machine_transitions,omitempty"`
	DefaultState               *objectRef                        `yaml:"default_state,omitempty"`
	Behaviours                 []objectRef                       `yaml:"behaviours,omitempty"`
}

type stateMachineTransitionsDocument struct {
	Source      objectRef   `yaml:"source"`
	Transitions []objectRef `yaml:"transitions"`
}

type stateDocument struct {
	Name                       string       `yaml:"name"`
	Tag                        string       `yaml:"tag,omitempty"`
	Position                   vec3Document `yaml:"position"`
	Speed                      float64      `yaml:"speed"`
	SpeedParameter             string       `yaml:"speed_parameter,omitempty"`
	SpeedParameterActive       bool         `yaml:"speed_parameter_active,omitempty"`
	CycleOffset                float64      `yaml:"cycle_offset,omitempty"`
	CycleOffsetParameter       string       `yaml:"cycle_offset_parameter,omitempty"`
	CycleOffsetParameterActive bool         `yaml:"cycle_offset_parameter_active,omitempty"`
	Mirror                     bool         `yaml:"mirror,omitempty"`
	MirrorParameter            string       `yaml:"mirror_parameter,omitempty"`
	MirrorParameterActive      bool         `yaml:"mirror_parameter_active,omitempty"`
	TimeParameter              string       `yaml:"time_parameter,omitempty"`
	TimeParameterActive        bool         `yaml:"time_parameter_active,omitempty"`
	WriteDefaultValues         bool         `yaml:"write_default_values"`
	IKOnFeet                   bool         `yaml:"ik_on_feet,omitempty"`
	Motion                     *objectRef   `yaml:"motion,omitempty"`
	Transitions                []objectRef  `yaml:"transitions,omitempty"`
	Behaviours                 []objectRef  `yaml:"behaviours,omitempty"`
}

type conditionDocument struct {
	Mode      string  `yaml:"mode"`
	Parameter string  `yaml:"parameter"`
	Threshold float64 `yaml:"threshold"`
}

type transitionDocument struct {
	Name                    string              `yaml:"name,omitempty"`
	Conditions              []conditionDocument `yaml:"conditions,omitempty"`
	DestinationState        *objectRef          `yaml:"destination_state,omitempty"`
	DestinationStateMachine *objectRef          `yaml:"destination_state_machine,omitempty"`
	IsExit                  bool                `yaml:"is_exit,omitempty"`
	Solo                    bool                `yaml:"solo,omitempty"`
	Mute                    bool                `yaml:"mute,omitempty"`
	HasExitTime             bool                `yaml:"has_exit_time"`
	ExitTime                float64             `yaml:"exit_time"`
	HasFixedDuration        bool                `yaml:"has_fixed_duration"`
	Duration                float64             `yaml:"duration"`
	Offset                  float64             `yaml:"offset,omitempty"`
	InterruptionSource      string              `yaml:"interruption_source,omitempty"`
	OrderedInterruption     bool                `yaml:"ordered_interruption,omitempty"`
	CanTransitionToSelf     bool                `yaml:"can_transition_to_self,omitempty"`
}

type blendTreeDocument struct {
	Name                   string                `yaml:"name"`
	BlendType              string                `yaml:"blend_type"`
	BlendParameter         string                `yaml:"blend_parameter,omitempty"`
	BlendParameterY        string                `yaml:"blend_parameter_y,omitempty"`
	MinThreshold           float64               `yaml:"min_threshold"`
	MaxThreshold           float64               `yaml:"max_threshold"`
	UseAutomaticThresholds bool                  `yaml:"use_automatic_thresholds,omitempty"`
	NormalizedBlendValues  bool                  `yaml:"normalized_blend_values,omitempty"`
	Children               []childMotionDocument `yaml:"children"`
}

type childMotionDocument struct {
	Motion               *objectRef   `yaml:"motion,omitempty"`
	Threshold            float64      `yaml:"threshold"`
	Position             vec2Document `yaml:"position"`
	TimeScale            float64      `yaml:"time_scale"`
	CycleOffset          float64      `yaml:"cycle_offset,omitempty"`
	DirectBlendParameter string       `yaml:"direct_blend_parameter,omitempty"`
	Mirror               bool         `yaml:"mirror,omitempty"`
}

type clipDocument struct {
	Name         string                `yaml:"name"`
	FrameRate    float64               `yaml:"frame_rate"`
	Loop         bool                  `yaml:"loop,omitempty"`
	LoopBlend    bool                  `yaml:"loop_blend,omitempty"`
	WrapMode     int                   `yaml:"wrap_mode,omitempty"`
	Bounds       boundsDocument        `yaml:"bounds"`
	Curves       []floatCurveDocument  `yaml:"curves,omitempty"`
	ObjectCurves []objectCurveDocument `yaml:"object_curves,omitempty"`
	Events       []eventDocument       `yaml:"events,omitempty"`
}

type boundsDocument struct {
	Center vec3Document `yaml:"center"`
	Extent vec3Document `yaml:"extent"`
}

type bindingDocument struct {
	Path     string `yaml:"path"`
	Type     string `yaml:"type"`
	Property string `yaml:"property"`
}

type keyframeDocument struct {
	Time         float64 `yaml:"time"`
	Value        float64 `yaml:"value"`
	InTangent    float64 `yaml:"in_tangent,omitempty"`
	OutTangent   float64 `yaml:"out_tangent,omitempty"`
	InWeight     float64 `yaml:"in_weight,omitempty"`
	OutWeight    float64 `yaml:"out_weight,omitempty"`
	WeightedMode int     `yaml:"weighted_mode,omitempty"`
}

type floatCurveDocument struct {
	Binding      bindingDocument    `yaml:"binding"`
	Keys         []keyframeDocument `yaml:"keys"`
	PreWrapMode  int                `yaml:"pre_wrap_mode,omitempty"`
	PostWrapMode int                `yaml:"post_wrap_mode,omitempty"`
}

type objectKeyframeDocument struct {
	Time  float64 `yaml:"time"`
	Value string  `yaml:"value"`
}

type objectCurveDocument struct {
	Binding bindingDocument          `yaml:"binding"`
	Keys    []objectKeyframeDocument `yaml:"keys"`
}

type eventDocument struct {
	Time            float64 `yaml:"time"`
	FunctionName    string  `yaml:"function_name"`
	StringParameter string  `yaml:"string_parameter,omitempty"`
	FloatParameter  float64 `yaml:"float_parameter,omitempty"`
	IntParameter    int     `yaml:"int_parameter,omitempty"`
	ObjectReference string  `yaml:"object_reference,omitempty"`
}

// behaviourDocument は振る舞いを表す。Type に対応する本体だけが設定される。
type behaviourDocument struct {
	Type                 string                     `yaml:"type"`
	ParameterDriver      *parameterDriverDocument   `yaml:"parameter_driver,omitempty"`
	LocomotionControl    *locomotionControlDocument `yaml:"locomotion_control,omitempty"`
	TrackingControl      *trackingControlDocument   `yaml:"tracking_control,omitempty"`
	PlayableLayerControl *layerControlDocument      `yaml:"playable_layer_control,omitempty"`
	AnimatorLayerControl *layerControlDocument      `yaml:"animator_layer_control,omitempty"`
	AnimatorDriver       *animatorDriverDocument    `yaml:"animator_driver,omitempty"`
	BodyControl          *bodyControlDocument       `yaml:"body_control,omitempty"`
}

type parameterDriverDocument struct {
	LocalOnly  bool                      `yaml:"local_only,omitempty"`
	DebugText  string                    `yaml:"debug_text,omitempty"`
	Parameters []driverParameterDocument `yaml:"parameters"`
}

type driverParameterDocument struct {
	Type         string  `yaml:"type"`
	Name         string  `yaml:"name"`
	Source       string  `yaml:"source,omitempty"`
	Value        float64 `yaml:"value,omitempty"`
	ValueMin     float64 `yaml:"value_min,omitempty"`
	ValueMax     float64 `yaml:"value_max,omitempty"`
	Chance       float64 `yaml:"chance,omitempty"`
	ConvertRange bool    `yaml:"convert_range,omitempty"`
	SourceMin    float64 `yaml:"source_min,omitempty"`
	SourceMax    float64 `yaml:"source_max,omitempty"`
	DestMin      float64 `yaml:"dest_min,omitempty"`
	DestMax      float64 `yaml:"dest_max,omitempty"`
}

type locomotionControlDocument struct {
	DisableLocomotion bool   `yaml:"disable_locomotion"`
	DebugText         string `yaml:"debug_text,omitempty"`
}

// trackingControlDocument は部位名からトラッキング指定への対応で表す。省略した部位は変更なし。
type trackingControlDocument struct {
	Parts     map[string]string `yaml:"parts"`
	DebugText string            `yaml:"debug_text,omitempty"`
}

type layerControlDocument struct {
	Playable      int     `yaml:"playable,omitempty"`
	Layer         int     `yaml:"layer"`
	GoalWeight    float64 `yaml:"goal_weight"`
	BlendDuration float64 `yaml:"blend_duration,omitempty"`
	DebugText     string  `yaml:"debug_text,omitempty"`
}

type animatorDriverDocument struct {
	LocalOnly  bool                 `yaml:"local_only,omitempty"`
	EnterTasks []driverTaskDocument `yaml:"enter_tasks,omitempty"`
	ExitTasks  []driverTaskDocument `yaml:"exit_tasks,omitempty"`
}

type driverOperandDocument struct {
	Type          string  `yaml:"type"`
	Value         float64 `yaml:"value,omitempty"`
	Max           float64 `yaml:"max,omitempty"`
	Parameter     string  `yaml:"parameter,omitempty"`
	ParameterType string  `yaml:"parameter_type,omitempty"`
}

type driverTaskDocument struct {
	Target     string                `yaml:"target"`
	TargetType string                `yaml:"target_type"`
	Op         string                `yaml:"op"`
	A          driverOperandDocument `yaml:"a"`
	B          driverOperandDocument `yaml:"b"`
}

type bodyControlDocument struct {
	EnterTasks []bodyControlTaskDocument `yaml:"enter_tasks,omitempty"`
	ExitTasks  []bodyControlTaskDocument `yaml:"exit_tasks,omitempty"`
}

type bodyControlTaskDocument struct {
	Target     string  `yaml:"target"`
	Assignment string  `yaml:"assignment"`
	Duration   float64 `yaml:"duration,omitempty"`
}
