// 指示: miu200521358
package avatar

// ControlType はメニューコントロールの種別を表す。
type ControlType int

const (
	CONTROL_TYPE_BUTTON ControlType = iota + 101
	CONTROL_TYPE_TOGGLE
	CONTROL_TYPE_SUB_MENU
	CONTROL_TYPE_TWO_AXIS_PUPPET
	CONTROL_TYPE_FOUR_AXIS_PUPPET
	CONTROL_TYPE_RADIAL_PUPPET
)

// ControlTypeByName は種別名から解決する。
func ControlTypeByName(name string) (ControlType, bool) {
	switch name {
	case "Button":
		return CONTROL_TYPE_BUTTON, true
	case "Toggle":
		return CONTROL_TYPE_TOGGLE, true
	case "SubMenu":
		return CONTROL_TYPE_SUB_MENU, true
	case "TwoAxisPuppet":
		return CONTROL_TYPE_TWO_AXIS_PUPPET, true
	case "FourAxisPuppet":
		return CONTROL_TYPE_FOUR_AXIS_PUPPET, true
	case "RadialPuppet":
		return CONTROL_TYPE_RADIAL_PUPPET, true
	default:
		return 0, false
	}
}

// Control はメニューの1項目を表す。
type Control struct {
	Name          string
	Type          ControlType
	Parameter     string
	Value         float64
	SubParameters []string
	SubMenu       *Menu
}

// Menu はメニュー階層を表す。
type Menu struct {
	Name     string
	Controls []Control
}

// MenuParameterUse はメニュー上のパラメーター利用を表す。
type MenuParameterUse struct {
	Parameter   string
	ControlType ControlType
	MenuPath    []string
	Value       float64
}

// ParameterUses はメニュー階層を走査し、パラメーター利用を出現順に返す。
func (m *Menu) ParameterUses() []MenuParameterUse {
	uses := []MenuParameterUse{}
	m.collectParameterUses(nil, map[*Menu]struct{}{}, &uses)
	return uses
}

// collectParameterUses はメニュー名パスを積み上げながら利用を収集する。
func (m *Menu) collectParameterUses(path []string, visited map[*Menu]struct{}, uses *[]MenuParameterUse) {
	if m == nil {
		return
	}
	if _, seen := visited[m]; seen {
		return
	}
	visited[m] = struct{}{}
	for _, control := range m.Controls {
		controlPath := append(append([]string(nil), path...), control.Name)
		if control.Parameter != "" {
			*uses = append(*uses, MenuParameterUse{
				Parameter:   control.Parameter,
				ControlType: control.Type,
				MenuPath:    controlPath,
				Value:       control.Value,
			})
		}
		for _, sub := range control.SubParameters {
			if sub == "" {
				continue
			}
			*uses = append(*uses, MenuParameterUse{
				Parameter:   sub,
				ControlType: control.Type,
				MenuPath:    controlPath,
			})
		}
		if control.Type == CONTROL_TYPE_SUB_MENU {
			control.SubMenu.collectParameterUses(controlPath, visited, uses)
		}
	}
}
