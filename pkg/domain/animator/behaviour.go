// 指示: miu200521358
package animator

// Behaviour はステート/ステートマシンに付与される振る舞い。実体は本ファイルの型に限られる。
type Behaviour interface {
	BehaviourKind() string
	isBehaviour()
}

// DriverChangeType はVRCパラメータードライバーの操作種別を表す。
type DriverChangeType int

const (
	DRIVER_CHANGE_SET DriverChangeType = iota
	DRIVER_CHANGE_ADD
	DRIVER_CHANGE_RANDOM
	DRIVER_CHANGE_COPY
)

// DriverParameter はVRCパラメータードライバーの1操作を表す。
type DriverParameter struct {
	Type         DriverChangeType
	Name         string
	Source       string
	Value        float64
	ValueMin     float64
	ValueMax     float64
	Chance       float64
	ConvertRange bool
	SourceMin    float64
	SourceMax    float64
	DestMin      float64
	DestMax      float64
}

// VrcParameterDriver はVRCのパラメータードライバー。
type VrcParameterDriver struct {
	LocalOnly  bool
	DebugText  string
	Parameters []DriverParameter
}

// BehaviourKind は種別名を返す。
func (*VrcParameterDriver) BehaviourKind() string { return "VRCAvatarParameterDriver" }
func (*VrcParameterDriver) isBehaviour()          {}

// VrcLocomotionControl はVRCの移動制御。
type VrcLocomotionControl struct {
	DisableLocomotion bool
	DebugText         string
}

// BehaviourKind は種別名を返す。
func (*VrcLocomotionControl) BehaviourKind() string { return "VRCAnimatorLocomotionControl" }
func (*VrcLocomotionControl) isBehaviour()          {}

// TrackingType はVRCトラッキング制御の指定を表す。
type TrackingType int

const (
	TRACKING_TYPE_NO_CHANGE TrackingType = iota
	TRACKING_TYPE_TRACKING
	TRACKING_TYPE_ANIMATION
)

// VrcTrackingControl はVRCのトラッキング制御。
type VrcTrackingControl struct {
	TrackingHead         TrackingType
	TrackingLeftHand     TrackingType
	TrackingRightHand    TrackingType
	TrackingHip          TrackingType
	TrackingLeftFoot     TrackingType
	TrackingRightFoot    TrackingType
	TrackingLeftFingers  TrackingType
	TrackingRightFingers TrackingType
	TrackingEyes         TrackingType
	TrackingMouth        TrackingType
	DebugText            string
}

// BehaviourKind は種別名を返す。
func (*VrcTrackingControl) BehaviourKind() string { return "VRCAnimatorTrackingControl" }
func (*VrcTrackingControl) isBehaviour()          {}

// VrcPlayableLayerControl はVRCのプレイアブルレイヤー重み制御。
type VrcPlayableLayerControl struct {
	Layer         int
	GoalWeight    float64
	BlendDuration float64
	DebugText     string
}

// BehaviourKind は種別名を返す。
func (*VrcPlayableLayerControl) BehaviourKind() string { return "VRCPlayableLayerControl" }
func (*VrcPlayableLayerControl) isBehaviour()          {}

// VrcAnimatorLayerControl はVRCのアニメーターレイヤー重み制御。
type VrcAnimatorLayerControl struct {
	Playable      int
	Layer         int
	GoalWeight    float64
	BlendDuration float64
	DebugText     string
}

// BehaviourKind は種別名を返す。
func (*VrcAnimatorLayerControl) BehaviourKind() string { return "VRCAnimatorLayerControl" }
func (*VrcAnimatorLayerControl) isBehaviour()          {}

// DriverOperator はCVRアニメータードライバーの演算種別を表す。
type DriverOperator int

const (
	DRIVER_OP_SET DriverOperator = iota
	DRIVER_OP_ADDITION
	DRIVER_OP_SUBTRACTION
	DRIVER_OP_MULTIPLICATION
	DRIVER_OP_DIVISION
	DRIVER_OP_MODULO
	DRIVER_OP_POWER
	DRIVER_OP_LOG
	DRIVER_OP_EQUAL
	DRIVER_OP_LESS_THAN
	DRIVER_OP_LESS_EQUAL
	DRIVER_OP_MORE_THAN
	DRIVER_OP_MORE_EQUAL
)

// DriverSourceType はCVRアニメータードライバーの被演算子種別を表す。
type DriverSourceType int

const (
	DRIVER_SOURCE_STATIC DriverSourceType = iota
	DRIVER_SOURCE_PARAMETER
	DRIVER_SOURCE_RANDOM
)

// DriverTask はCVRアニメータードライバーの1タスク(target = A op B)を表す。
type DriverTask struct {
	TargetName string
	TargetType ParameterType
	Op         DriverOperator
	AType      DriverSourceType
	AValue     float64
	AMax       float64
	AName      string
	AParamType ParameterType
	BType      DriverSourceType
	BValue     float64
	BMax       float64
	BName      string
	BParamType ParameterType
}

// CvrAnimatorDriver はCVRのアニメータードライバー。
type CvrAnimatorDriver struct {
	LocalOnly  bool
	EnterTasks []DriverTask
	ExitTasks  []DriverTask
}

// BehaviourKind は種別名を返す。
func (*CvrAnimatorDriver) BehaviourKind() string { return "AnimatorDriver" }
func (*CvrAnimatorDriver) isBehaviour()          {}

// BodyControlTarget はCVRボディ制御の対象部位を表す。
type BodyControlTarget int

const (
	BODY_CONTROL_HEAD BodyControlTarget = iota
	BODY_CONTROL_PELVIS
	BODY_CONTROL_LEFT_ARM
	BODY_CONTROL_RIGHT_ARM
	BODY_CONTROL_LEFT_LEG
	BODY_CONTROL_RIGHT_LEG
	BODY_CONTROL_LOCOMOTION
)

// BodyControlAssignment はCVRボディ制御の割当先を表す。
type BodyControlAssignment int

const (
	BODY_CONTROL_ASSIGN_TRACKING BodyControlAssignment = iota
	BODY_CONTROL_ASSIGN_ANIMATION
)

// BodyControlTask はCVRボディ制御の1タスクを表す。
type BodyControlTask struct {
	Target     BodyControlTarget
	Assignment BodyControlAssignment
	Duration   float64
}

// CvrBodyControl はCVRのボディ制御。
type CvrBodyControl struct {
	EnterTasks []BodyControlTask
	ExitTasks  []BodyControlTask
}

// BehaviourKind は種別名を返す。
func (*CvrBodyControl) BehaviourKind() string { return "BodyControl" }
func (*CvrBodyControl) isBehaviour()          {}
