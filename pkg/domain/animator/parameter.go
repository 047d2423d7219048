// 指示: miu200521358
// Package animator はアニメーターコントローラーのグラフ構造を表す。
package animator

import "fmt"

// ParameterType はパラメーターの値種別を表す。
type ParameterType int

const (
	PARAMETER_TYPE_FLOAT   ParameterType = 1
	PARAMETER_TYPE_INT     ParameterType = 3
	PARAMETER_TYPE_BOOL    ParameterType = 4
	PARAMETER_TYPE_TRIGGER ParameterType = 9
)

// String は値種別の表示名を返す。
func (t ParameterType) String() string {
	switch t {
	case PARAMETER_TYPE_FLOAT:
		return "Float"
	case PARAMETER_TYPE_INT:
		return "Int"
	case PARAMETER_TYPE_BOOL:
		return "Bool"
	case PARAMETER_TYPE_TRIGGER:
		return "Trigger"
	default:
		return fmt.Sprintf("ParameterType(%d)", int(t))
	}
}

// IsValid は既知の値種別かどうかを返す。
func (t ParameterType) IsValid() bool {
	switch t {
	case PARAMETER_TYPE_FLOAT, PARAMETER_TYPE_INT, PARAMETER_TYPE_BOOL, PARAMETER_TYPE_TRIGGER:
		return true
	default:
		return false
	}
}

// Parameter はコントローラー内で名前が一意なパラメーターを表す。
type Parameter struct {
	Name         string
	Type         ParameterType
	DefaultFloat float64
	DefaultInt   int
	DefaultBool  bool
}

// Copy はパラメーターの複製を返す。
func (p *Parameter) Copy() *Parameter {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// DefaultValue は値種別に応じた既定値をfloatで返す。
func (p *Parameter) DefaultValue() float64 {
	switch p.Type {
	case PARAMETER_TYPE_INT:
		return float64(p.DefaultInt)
	case PARAMETER_TYPE_BOOL, PARAMETER_TYPE_TRIGGER:
		if p.DefaultBool {
			return 1
		}
		return 0
	default:
		return p.DefaultFloat
	}
}

// SetDefaultValue はfloat値から値種別に応じた既定値を設定する。
func (p *Parameter) SetDefaultValue(value float64) {
	switch p.Type {
	case PARAMETER_TYPE_INT:
		p.DefaultInt = int(value)
	case PARAMETER_TYPE_BOOL, PARAMETER_TYPE_TRIGGER:
		p.DefaultBool = value != 0
	default:
		p.DefaultFloat = value
	}
}

// ConditionMode は遷移条件の比較方法を表す。
type ConditionMode int

const (
	CONDITION_MODE_IF        ConditionMode = 1
	CONDITION_MODE_IF_NOT    ConditionMode = 2
	CONDITION_MODE_GREATER   ConditionMode = 3
	CONDITION_MODE_LESS      ConditionMode = 4
	CONDITION_MODE_EQUALS    ConditionMode = 6
	CONDITION_MODE_NOT_EQUAL ConditionMode = 7
)

// String は比較方法の表示名を返す。
func (m ConditionMode) String() string {
	switch m {
	case CONDITION_MODE_IF:
		return "If"
	case CONDITION_MODE_IF_NOT:
		return "IfNot"
	case CONDITION_MODE_GREATER:
		return "Greater"
	case CONDITION_MODE_LESS:
		return "Less"
	case CONDITION_MODE_EQUALS:
		return "Equals"
	case CONDITION_MODE_NOT_EQUAL:
		return "NotEqual"
	default:
		return fmt.Sprintf("ConditionMode(%d)", int(m))
	}
}

// Condition は遷移条件を表す。
type Condition struct {
	Mode      ConditionMode
	Parameter string
	Threshold float64
}

// Accepts は値が条件を満たすかを判定する。
func (c Condition) Accepts(value float64) bool {
	switch c.Mode {
	case CONDITION_MODE_IF:
		return value != 0
	case CONDITION_MODE_IF_NOT:
		return value == 0
	case CONDITION_MODE_GREATER:
		return value > c.Threshold
	case CONDITION_MODE_LESS:
		return value < c.Threshold
	case CONDITION_MODE_EQUALS:
		return value == c.Threshold
	case CONDITION_MODE_NOT_EQUAL:
		return value != c.Threshold
	default:
		return false
	}
}
