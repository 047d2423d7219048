// 指示: miu200521358
// Package jsondesc はアバター記述子JSONの読み込みと変換レポートJSONの書き出しを行う。
package jsondesc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"
)

// maxMenuDepth はサブメニューの最大入れ子数。
const maxMenuDepth = 32

// DescriptorRepository はアバター記述子JSONを読み込む。
type DescriptorRepository struct{}

// NewDescriptorRepository はDescriptorRepositoryを生成する。
func NewDescriptorRepository() *DescriptorRepository {
	return &DescriptorRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *DescriptorRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// InferName はパスから表示名を推定する。
func (r *DescriptorRepository) InferName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadDescriptor は記述子JSONを読み込む。コントローラー参照は記述子のあるフォルダー基準で解決する。
func (r *DescriptorRepository) LoadDescriptor(path string) (*avatar.Descriptor, error) {
	if !r.CanLoad(path) {
		return nil, errors.Errorf("記述子の拡張子に対応していません: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.WrapConfigError(merr.ErrorIDSourceNotFound, err, "記述子ファイルが見つかりません: %s", path)
		}
		return nil, errors.Wrapf(err, "記述子ファイルの読み込みに失敗しました: %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, merr.NewConfigError(merr.ErrorIDUnexpectedAssetShape, "記述子JSONの形式が不正です: %s", path)
	}
	descriptor, err := parseDescriptor(gjson.ParseBytes(data), filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "記述子の解析に失敗しました: %s", path)
	}
	if descriptor.Name == "" {
		descriptor.Name = r.InferName(path)
	}
	logDescriptorInfo("記述子読込完了: file=%s name=%s parameters=%d layers=%d",
		path, descriptor.Name, len(descriptor.Parameters), len(descriptor.PlayableLayers))
	return descriptor, nil
}

// parseDescriptor は記述子JSONのルートを解析する。
func parseDescriptor(root gjson.Result, baseDir string) (*avatar.Descriptor, error) {
	descriptor := &avatar.Descriptor{
		Name:         normalizeName(root.Get("name").String()),
		ContactCount: int(root.Get("contact_count").Int()),
	}
	if !root.Get("contact_count").Exists() {
		descriptor.ContactCount = int(root.Get("contacts.#").Int())
	}

	parameters := root.Get("parameters")
	if parameters.Exists() && !parameters.IsArray() {
		return nil, merr.NewConfigError(merr.ErrorIDUnexpectedAssetShape, "parameters は配列である必要があります")
	}
	var parseErr error
	parameters.ForEach(func(key, value gjson.Result) bool {
		parameter, err := parseParameter(value, int(key.Int()))
		if err != nil {
			parseErr = err
			return false
		}
		descriptor.Parameters = append(descriptor.Parameters, parameter)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	layers := root.Get("playable_layers")
	if !layers.Exists() {
		return nil, merr.NewConfigError(merr.ErrorIDDescriptorFieldMissing, "playable_layers がありません")
	}
	layers.ForEach(func(key, value gjson.Result) bool {
		layer, err := parsePlayableLayer(value, int(key.Int()), baseDir)
		if err != nil {
			parseErr = err
			return false
		}
		descriptor.PlayableLayers = append(descriptor.PlayableLayers, layer)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if menu := root.Get("menu"); menu.Exists() {
		parsed, err := parseMenu(menu, 0)
		if err != nil {
			return nil, err
		}
		descriptor.Menu = parsed
	}
	descriptor.BlinkBlendShapes = stringArray(root.Get("blink_blend_shapes"))
	descriptor.VisemeBlendShapes = stringArray(root.Get("viseme_blend_shapes"))
	return descriptor, nil
}

// parseParameter は表現パラメーター定義を解析する。
func parseParameter(value gjson.Result, index int) (avatar.ExpressionParameter, error) {
	name := normalizeName(value.Get("name").String())
	if name == "" {
		return avatar.ExpressionParameter{}, merr.NewConfigError(
			merr.ErrorIDDescriptorFieldMissing, "parameters[%d].name がありません", index)
	}
	typeName := value.Get("type")
	if !typeName.Exists() {
		return avatar.ExpressionParameter{}, merr.NewConfigError(
			merr.ErrorIDDescriptorFieldMissing, "parameters[%d].type がありません: %s", index, name)
	}
	valueType, ok := parseValueType(typeName.String())
	if !ok {
		return avatar.ExpressionParameter{}, merr.NewConfigError(
			merr.ErrorIDUnknownValueType, "未知のパラメーター種別です: %s type=%q", name, typeName.String())
	}
	synced := value.Get("synced")
	return avatar.ExpressionParameter{
		Name:         name,
		ValueType:    valueType,
		DefaultValue: value.Get("default").Float(),
		// synced 省略時は同期対象とみなす。
		NetworkSynced: !synced.Exists() || synced.Bool(),
		Saved:         value.Get("saved").Bool(),
	}, nil
}

// parseValueType はパラメーター種別名を解決する。
func parseValueType(name string) (animator.ParameterType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float":
		return animator.PARAMETER_TYPE_FLOAT, true
	case "int":
		return animator.PARAMETER_TYPE_INT, true
	case "bool":
		return animator.PARAMETER_TYPE_BOOL, true
	default:
		return 0, false
	}
}

// parsePlayableLayer はプレイアブルレイヤー指定を解析する。
func parsePlayableLayer(value gjson.Result, index int, baseDir string) (avatar.PlayableLayer, error) {
	categoryName := value.Get("category").String()
	if categoryName == "" {
		return avatar.PlayableLayer{}, merr.NewConfigError(
			merr.ErrorIDDescriptorFieldMissing, "playable_layers[%d].category がありません", index)
	}
	category, ok := avatar.LayerCategoryByName(categoryName)
	if !ok {
		return avatar.PlayableLayer{}, merr.NewConfigError(
			merr.ErrorIDUnknownCategory, "未知のレイヤーカテゴリです: %q", categoryName)
	}
	layer := avatar.PlayableLayer{
		Category:  category,
		IsDefault: value.Get("is_default").Bool(),
	}
	if controller := strings.TrimSpace(value.Get("controller").String()); controller != "" {
		if !filepath.IsAbs(controller) {
			controller = filepath.Join(baseDir, filepath.FromSlash(controller))
		}
		layer.ControllerPath = filepath.Clean(controller)
	}
	return layer, nil
}

// parseMenu はメニュー階層を解析する。
func parseMenu(value gjson.Result, depth int) (*avatar.Menu, error) {
	if depth > maxMenuDepth {
		return nil, merr.NewConfigError(merr.ErrorIDUnexpectedAssetShape, "メニューの入れ子が深すぎます: %d", depth)
	}
	menu := &avatar.Menu{Name: normalizeName(value.Get("name").String())}
	var parseErr error
	value.Get("controls").ForEach(func(key, control gjson.Result) bool {
		parsed, err := parseControl(control, depth)
		if err != nil {
			parseErr = err
			return false
		}
		menu.Controls = append(menu.Controls, parsed)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return menu, nil
}

// parseControl はメニュー項目を解析する。
func parseControl(value gjson.Result, depth int) (avatar.Control, error) {
	typeName := value.Get("type").String()
	if typeName == "" {
		return avatar.Control{}, merr.NewConfigError(
			merr.ErrorIDDescriptorFieldMissing, "メニュー項目の type がありません: %s", value.Get("name").String())
	}
	controlType, ok := avatar.ControlTypeByName(typeName)
	if !ok {
		return avatar.Control{}, merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知のメニュー項目種別です: %q", typeName)
	}
	control := avatar.Control{
		Name:          normalizeName(value.Get("name").String()),
		Type:          controlType,
		Parameter:     normalizeName(value.Get("parameter").String()),
		Value:         value.Get("value").Float(),
		SubParameters: stringArray(value.Get("sub_parameters")),
	}
	if controlType == avatar.CONTROL_TYPE_SUB_MENU {
		if sub := value.Get("sub_menu"); sub.Exists() {
			menu, err := parseMenu(sub, depth+1)
			if err != nil {
				return avatar.Control{}, err
			}
			control.SubMenu = menu
		}
	}
	return control, nil
}

// stringArray は文字列配列を正規化済みの名前として取り出す。
func stringArray(value gjson.Result) []string {
	if !value.IsArray() {
		return nil
	}
	names := []string{}
	for _, item := range value.Array() {
		names = append(names, normalizeName(item.String()))
	}
	return names
}

// normalizeName は前後の空白を除き、NFCへ正規化する。
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// logDescriptorInfo は記述子入出力のINFOログを出力する。
func logDescriptorInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}
