// 指示: miu200521358
package animator

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Motion はステートが再生するモーションを表す。実体は *BlendTree か *AnimationClip のみ。
type Motion interface {
	MotionName() string
	isMotion()
}

// BlendType はブレンドツリーの合成方式を表す。
type BlendType int

const (
	BLEND_TYPE_SIMPLE_1D BlendType = iota
	BLEND_TYPE_SIMPLE_DIRECTIONAL_2D
	BLEND_TYPE_FREEFORM_DIRECTIONAL_2D
	BLEND_TYPE_FREEFORM_CARTESIAN_2D
	BLEND_TYPE_DIRECT
)

// IsValid は既知の合成方式かを返す。
func (t BlendType) IsValid() bool {
	return t >= BLEND_TYPE_SIMPLE_1D && t <= BLEND_TYPE_DIRECT
}

// ChildMotion はブレンドツリーの子要素を表す。
type ChildMotion struct {
	Motion               Motion
	Threshold            float64
	Position             r2.Vec
	TimeScale            float64
	CycleOffset          float64
	DirectBlendParameter string
	Mirror               bool
}

// BlendTree は1〜2個のパラメーターで子モーションを合成するモーション。
type BlendTree struct {
	Name                   string
	BlendType              BlendType
	BlendParameter         string
	BlendParameterY        string
	MinThreshold           float64
	MaxThreshold           float64
	UseAutomaticThresholds bool
	NormalizedBlendValues  bool
	Children               []ChildMotion
}

// MotionName はモーション名を返す。
func (b *BlendTree) MotionName() string { return b.Name }

func (*BlendTree) isMotion() {}

// Keyframe はカーブのキーを表す。
type Keyframe struct {
	Time         float64
	Value        float64
	InTangent    float64
	OutTangent   float64
	InWeight     float64
	OutWeight    float64
	WeightedMode int
}

// Curve はfloatカーブを表す。
type Curve struct {
	Keys         []Keyframe
	PreWrapMode  int
	PostWrapMode int
}

// ObjectKeyframe はオブジェクト参照カーブのキーを表す。
type ObjectKeyframe struct {
	Time  float64
	Value string
}

// CurveBinding はカーブの対象(パス・型・プロパティ)を表す。
type CurveBinding struct {
	Path     string
	Type     string
	Property string
}

// ANIMATOR_BINDING_TYPE はアニメーターパラメーター面を対象とするバインディング型。
const ANIMATOR_BINDING_TYPE = "Animator"

// IsAnimatorParameter はアニメーター面を対象とするバインディングかを返す。
func (b CurveBinding) IsAnimatorParameter() bool {
	return b.Path == "" && b.Type == ANIMATOR_BINDING_TYPE
}

// FloatCurve はバインディングとfloatカーブの組を表す。
type FloatCurve struct {
	Binding CurveBinding
	Curve   Curve
}

// ObjectCurve はバインディングとオブジェクト参照カーブの組を表す。
type ObjectCurve struct {
	Binding CurveBinding
	Keys    []ObjectKeyframe
}

// AnimationEvent はクリップの時刻付きイベントを表す。
type AnimationEvent struct {
	Time            float64
	FunctionName    string
	StringParameter string
	FloatParameter  float64
	IntParameter    int
	ObjectReference string
}

// Bounds は軸平行境界を表す。
type Bounds struct {
	Center r3.Vec
	Extent r3.Vec
}

// AnimationClip はカーブとイベントからなるモーション。
type AnimationClip struct {
	Name         string
	FrameRate    float64
	Loop         bool
	LoopBlend    bool
	WrapMode     int
	Bounds       Bounds
	Curves       []FloatCurve
	ObjectCurves []ObjectCurve
	Events       []AnimationEvent
}

// MotionName はモーション名を返す。
func (c *AnimationClip) MotionName() string { return c.Name }

func (*AnimationClip) isMotion() {}

// FindCurve はバインディングに一致するfloatカーブを返す。
func (c *AnimationClip) FindCurve(binding CurveBinding) (*FloatCurve, bool) {
	for i := range c.Curves {
		if c.Curves[i].Binding == binding {
			return &c.Curves[i], true
		}
	}
	return nil, false
}

// Length はクリップ長(最終キー時刻)を返す。
func (c *AnimationClip) Length() float64 {
	length := 0.0
	for _, curve := range c.Curves {
		for _, key := range curve.Curve.Keys {
			if key.Time > length {
				length = key.Time
			}
		}
	}
	for _, curve := range c.ObjectCurves {
		for _, key := range curve.Keys {
			if key.Time > length {
				length = key.Time
			}
		}
	}
	return length
}
