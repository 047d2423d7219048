// 指示: miu200521358
// Package avatar は変換元アバターの記述子(パラメーター・メニュー・プレイアブルレイヤー)を表す。
package avatar

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
)

// LayerCategory はプレイアブルレイヤーの区分を表す。
type LayerCategory int

const (
	LAYER_CATEGORY_LOCOMOTION LayerCategory = iota
	LAYER_CATEGORY_ADDITIVE
	LAYER_CATEGORY_GESTURE
	LAYER_CATEGORY_ACTION
	LAYER_CATEGORY_EFFECTS
	LAYER_CATEGORY_COUNT
)

// LayerCategories は統合順のカテゴリ一覧。
var LayerCategories = [LAYER_CATEGORY_COUNT]LayerCategory{
	LAYER_CATEGORY_LOCOMOTION,
	LAYER_CATEGORY_ADDITIVE,
	LAYER_CATEGORY_GESTURE,
	LAYER_CATEGORY_ACTION,
	LAYER_CATEGORY_EFFECTS,
}

// String はカテゴリ名を返す。
func (c LayerCategory) String() string {
	switch c {
	case LAYER_CATEGORY_LOCOMOTION:
		return "Base"
	case LAYER_CATEGORY_ADDITIVE:
		return "Additive"
	case LAYER_CATEGORY_GESTURE:
		return "Gesture"
	case LAYER_CATEGORY_ACTION:
		return "Action"
	case LAYER_CATEGORY_EFFECTS:
		return "FX"
	default:
		return fmt.Sprintf("LayerCategory(%d)", int(c))
	}
}

// IsValid は既知のカテゴリかを返す。
func (c LayerCategory) IsValid() bool {
	return c >= LAYER_CATEGORY_LOCOMOTION && c < LAYER_CATEGORY_COUNT
}

// LayerCategoryByName はカテゴリ名(大文字小文字無視の別名含む)から解決する。
func LayerCategoryByName(name string) (LayerCategory, bool) {
	switch name {
	case "Base", "base", "locomotion", "Locomotion":
		return LAYER_CATEGORY_LOCOMOTION, true
	case "Additive", "additive":
		return LAYER_CATEGORY_ADDITIVE, true
	case "Gesture", "gesture":
		return LAYER_CATEGORY_GESTURE, true
	case "Action", "action":
		return LAYER_CATEGORY_ACTION, true
	case "FX", "fx", "effects", "Effects":
		return LAYER_CATEGORY_EFFECTS, true
	default:
		return 0, false
	}
}

// ExpressionParameter はアバターの表現パラメーター定義を表す。
type ExpressionParameter struct {
	Name          string
	ValueType     animator.ParameterType
	DefaultValue  float64
	NetworkSynced bool
	Saved         bool
}

// PlayableLayer はカテゴリとコントローラー参照の組を表す。
type PlayableLayer struct {
	Category       LayerCategory
	ControllerPath string
	IsDefault      bool
}

// Descriptor はアバター記述子を表す。
type Descriptor struct {
	Name           string
	Parameters     []ExpressionParameter
	Menu           *Menu
	PlayableLayers []PlayableLayer
	// BlinkBlendShapes はまばたき用ブレンドシェイプ名。空でも変換は続行する。
	BlinkBlendShapes []string
	// VisemeBlendShapes は口形素ブレンドシェイプ名。空でも変換は続行する。
	VisemeBlendShapes []string
	// ContactCount は変換対象のコンタクト数。
	ContactCount int
}

// FindParameter は名前で表現パラメーターを探す。
func (d *Descriptor) FindParameter(name string) (*ExpressionParameter, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			return &d.Parameters[i], true
		}
	}
	return nil, false
}

// SyncedParameterNames は同期対象パラメーター名の集合を返す。
func (d *Descriptor) SyncedParameterNames() map[string]struct{} {
	names := map[string]struct{}{}
	if d == nil {
		return names
	}
	for _, p := range d.Parameters {
		if p.NetworkSynced {
			names[p.Name] = struct{}{}
		}
	}
	return names
}

// ControllerPathOf はカテゴリのコントローラー参照を返す。
func (d *Descriptor) ControllerPathOf(category LayerCategory) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, layer := range d.PlayableLayers {
		if layer.Category == category && !layer.IsDefault && layer.ControllerPath != "" {
			return layer.ControllerPath, true
		}
	}
	return "", false
}
