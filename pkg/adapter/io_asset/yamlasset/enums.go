// 指示: miu200521358
package yamlasset

import (
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
)

// enumTable は列挙値とコンテナ上の名前の対応表。
type enumTable[T comparable] struct {
	label  string
	names  map[T]string
	values map[string]T
}

// newEnumTable は名前の対応から逆引き付きの対応表を生成する。
func newEnumTable[T comparable](label string, names map[T]string) enumTable[T] {
	values := make(map[string]T, len(names))
	for value, name := range names {
		values[name] = value
	}
	return enumTable[T]{label: label, names: names, values: values}
}

// name は列挙値の名前を返す。
func (t enumTable[T]) name(value T) (string, error) {
	name, ok := t.names[value]
	if !ok {
		return "", merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知の%sです: %v", t.label, value)
	}
	return name, nil
}

// parse は名前から列挙値を返す。
func (t enumTable[T]) parse(name string) (T, error) {
	value, ok := t.values[name]
	if !ok {
		var zero T
		return zero, merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知の%sです: %q", t.label, name)
	}
	return value, nil
}

// parseOr は名前が空なら既定値を返す。
func (t enumTable[T]) parseOr(name string, defaultValue T) (T, error) {
	if name == "" {
		return defaultValue, nil
	}
	return t.parse(name)
}

var parameterTypes = newEnumTable("パラメーター種別", map[animator.ParameterType]string{
	animator.PARAMETER_TYPE_FLOAT:   "Float",
	animator.PARAMETER_TYPE_INT:     "Int",
	animator.PARAMETER_TYPE_BOOL:    "Bool",
	animator.PARAMETER_TYPE_TRIGGER: "Trigger",
})

var conditionModes = newEnumTable("遷移条件", map[animator.ConditionMode]string{
	animator.CONDITION_MODE_IF:        "If",
	animator.CONDITION_MODE_IF_NOT:    "IfNot",
	animator.CONDITION_MODE_GREATER:   "Greater",
	animator.CONDITION_MODE_LESS:      "Less",
	animator.CONDITION_MODE_EQUALS:    "Equals",
	animator.CONDITION_MODE_NOT_EQUAL: "NotEqual",
})

var blendTypes = newEnumTable("ブレンド方式", map[animator.BlendType]string{
	animator.BLEND_TYPE_SIMPLE_1D:               "Simple1D",
	animator.BLEND_TYPE_SIMPLE_DIRECTIONAL_2D:   "SimpleDirectional2D",
	animator.BLEND_TYPE_FREEFORM_DIRECTIONAL_2D: "FreeformDirectional2D",
	animator.BLEND_TYPE_FREEFORM_CARTESIAN_2D:   "FreeformCartesian2D",
	animator.BLEND_TYPE_DIRECT:                  "Direct",
})

var layerBlendModes = newEnumTable("レイヤー合成方式", map[animator.LayerBlendMode]string{
	animator.LAYER_BLEND_OVERRIDE: "Override",
	animator.LAYER_BLEND_ADDITIVE: "Additive",
})

var interruptionSources = newEnumTable("割り込み元", map[animator.InterruptionSource]string{
	animator.INTERRUPTION_NONE:                    "None",
	animator.INTERRUPTION_SOURCE:                  "Source",
	animator.INTERRUPTION_DESTINATION:             "Destination",
	animator.INTERRUPTION_SOURCE_THEN_DESTINATION: "SourceThenDestination",
	animator.INTERRUPTION_DESTINATION_THEN_SOURCE: "DestinationThenSource",
})

var driverChangeTypes = newEnumTable("ドライバー操作", map[animator.DriverChangeType]string{
	animator.DRIVER_CHANGE_SET:    "Set",
	animator.DRIVER_CHANGE_ADD:    "Add",
	animator.DRIVER_CHANGE_RANDOM: "Random",
	animator.DRIVER_CHANGE_COPY:   "Copy",
})

var trackingTypes = newEnumTable("トラッキング指定", map[animator.TrackingType]string{
	animator.TRACKING_TYPE_NO_CHANGE: "NoChange",
	animator.TRACKING_TYPE_TRACKING:  "Tracking",
	animator.TRACKING_TYPE_ANIMATION: "Animation",
})

var driverOperators = newEnumTable("ドライバー演算", map[animator.DriverOperator]string{
	animator.DRIVER_OP_SET:            "Set",
	animator.DRIVER_OP_ADDITION:       "Addition",
	animator.DRIVER_OP_SUBTRACTION:    "Subtraction",
	animator.DRIVER_OP_MULTIPLICATION: "Multiplication",
	animator.DRIVER_OP_DIVISION:       "Division",
	animator.DRIVER_OP_MODULO:         "Modulo",
	animator.DRIVER_OP_POWER:          "Power",
	animator.DRIVER_OP_LOG:            "Log",
	animator.DRIVER_OP_EQUAL:          "Equal",
	animator.DRIVER_OP_LESS_THAN:      "LessThan",
	animator.DRIVER_OP_LESS_EQUAL:     "LessEqual",
	animator.DRIVER_OP_MORE_THAN:      "MoreThan",
	animator.DRIVER_OP_MORE_EQUAL:     "MoreEqual",
})

var driverSources = newEnumTable("ドライバー被演算子", map[animator.DriverSourceType]string{
	animator.DRIVER_SOURCE_STATIC:    "Static",
	animator.DRIVER_SOURCE_PARAMETER: "Parameter",
	animator.DRIVER_SOURCE_RANDOM:    "Random",
})

var bodyControlTargets = newEnumTable("ボディ制御対象", map[animator.BodyControlTarget]string{
	animator.BODY_CONTROL_HEAD:       "Head",
	animator.BODY_CONTROL_PELVIS:     "Pelvis",
	animator.BODY_CONTROL_LEFT_ARM:   "LeftArm",
	animator.BODY_CONTROL_RIGHT_ARM:  "RightArm",
	animator.BODY_CONTROL_LEFT_LEG:   "LeftLeg",
	animator.BODY_CONTROL_RIGHT_LEG:  "RightLeg",
	animator.BODY_CONTROL_LOCOMOTION: "Locomotion",
})

var bodyControlAssignments = newEnumTable("ボディ制御割当", map[animator.BodyControlAssignment]string{
	animator.BODY_CONTROL_ASSIGN_TRACKING:  "Tracking",
	animator.BODY_CONTROL_ASSIGN_ANIMATION: "Animation",
})

// trackingPartNames はトラッキング制御の部位名。並びは書き出し順。
var trackingPartNames = []string{
	"Head", "LeftHand", "RightHand", "Hip", "LeftFoot", "RightFoot",
	"LeftFingers", "RightFingers", "Eyes", "Mouth",
}

// trackingParts は部位名からトラッキング制御のフィールドを返す。
func trackingParts(control *animator.VrcTrackingControl) map[string]*animator.TrackingType {
	return map[string]*animator.TrackingType{
		"Head":         &control.TrackingHead,
		"LeftHand":     &control.TrackingLeftHand,
		"RightHand":    &control.TrackingRightHand,
		"Hip":          &control.TrackingHip,
		"LeftFoot":     &control.TrackingLeftFoot,
		"RightFoot":    &control.TrackingRightFoot,
		"LeftFingers":  &control.TrackingLeftFingers,
		"RightFingers": &control.TrackingRightFingers,
		"Eyes":         &control.TrackingEyes,
		"Mouth":        &control.TrackingMouth,
	}
}
