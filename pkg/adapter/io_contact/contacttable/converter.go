// 指示: miu200521358
// Package contacttable はコンタクトコンポーネントを対象とするカーブを変換先コンポーネントへ置き換える。
package contacttable

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// SOURCE_RECEIVER_TYPE は変換元の受信側コンタクト型名。
	SOURCE_RECEIVER_TYPE = "VRCContactReceiver"
	// SOURCE_SENDER_TYPE は変換元の送信側コンタクト型名。
	SOURCE_SENDER_TYPE = "VRCContactSender"
	// TARGET_TRIGGER_TYPE は受信側に対応する変換先の型名。
	TARGET_TRIGGER_TYPE = "CVRAdvancedAvatarSettingsTrigger"
	// TARGET_POINTER_TYPE は送信側に対応する変換先の型名。
	TARGET_POINTER_TYPE = "CVRPointer"
	// ENABLED_PROPERTY はコンポーネント有効状態のプロパティ名。
	ENABLED_PROPERTY = "m_Enabled"
)

// targetTypes は変換元の型と変換先の型の対応。
var targetTypes = map[string]string{
	SOURCE_RECEIVER_TYPE: TARGET_TRIGGER_TYPE,
	SOURCE_SENDER_TYPE:   TARGET_POINTER_TYPE,
}

// componentKey はコンポーネントの配置パスと型の組。
type componentKey struct {
	path     string
	typeName string
}

// Converter はコンタクト由来のバインディングを表で置き換える。
// 表に無いコンタクトは同じパスの対応型へ置き換える。
type Converter struct {
	table map[componentKey]animator.CurveBinding
}

// NewConverter は空の表を持つConverterを生成する。
func NewConverter() *Converter {
	return &Converter{table: map[componentKey]animator.CurveBinding{}}
}

// AddMapping は変換元コンポーネントの変換先を登録する。後から登録したものが優先される。
func (c *Converter) AddMapping(sourcePath string, sourceType string, targetPath string, targetType string) {
	c.table[componentKey{path: sourcePath, typeName: sourceType}] = animator.CurveBinding{Path: targetPath, Type: targetType}
}

// Len は登録済みの対応数を返す。
func (c *Converter) Len() int {
	return len(c.table)
}

// RemapBinding はコンタクト由来のバインディングを変換後のバインディングへ置換する。
// 有効状態以外のプロパティは変換先に相当するものが無いため置換しない。
func (c *Converter) RemapBinding(binding animator.CurveBinding) (animator.CurveBinding, bool) {
	defaultType, ok := targetTypes[binding.Type]
	if !ok || binding.Property != ENABLED_PROPERTY {
		return binding, false
	}
	if target, ok := c.table[componentKey{path: binding.Path, typeName: binding.Type}]; ok {
		target.Property = binding.Property
		return target, true
	}
	return animator.CurveBinding{Path: binding.Path, Type: defaultType, Property: binding.Property}, true
}

// LoadTable は記述子JSONの contacts 配列から対応表を読み込む。contacts が無い場合は空の表を返す。
func LoadTable(descriptorPath string) (*Converter, error) {
	converter := NewConverter()
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.WrapConfigError(merr.ErrorIDSourceNotFound, err, "記述子ファイルが見つかりません: %s", descriptorPath)
		}
		return nil, errors.Wrapf(err, "記述子ファイルの読み込みに失敗しました: %s", descriptorPath)
	}
	if !gjson.ValidBytes(data) {
		return nil, merr.NewConfigError(merr.ErrorIDUnexpectedAssetShape, "記述子JSONの形式が不正です: %s", descriptorPath)
	}

	var parseErr error
	gjson.GetBytes(data, "contacts").ForEach(func(key, value gjson.Result) bool {
		sourcePath := value.Get("path").String()
		kind := strings.ToLower(value.Get("kind").String())
		var sourceType string
		switch kind {
		case "receiver":
			sourceType = SOURCE_RECEIVER_TYPE
		case "sender":
			sourceType = SOURCE_SENDER_TYPE
		case "":
			parseErr = merr.NewConfigError(merr.ErrorIDDescriptorFieldMissing, "contacts[%d].kind がありません", key.Int())
			return false
		default:
			parseErr = merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知のコンタクト種別です: %q", kind)
			return false
		}
		targetPath := sourcePath
		if target := value.Get("target_path"); target.Exists() {
			targetPath = filepath.ToSlash(target.String())
		}
		converter.AddMapping(sourcePath, sourceType, targetPath, targetTypes[sourceType])
		return true
	})
	if parseErr != nil {
		return nil, errors.Wrapf(parseErr, "コンタクト表の解析に失敗しました: %s", descriptorPath)
	}
	logContactDebug("コンタクト表読込完了: file=%s mappings=%d", descriptorPath, converter.Len())
	return converter, nil
}

// logContactDebug はコンタクト変換のDEBUGログを出力する。
func logContactDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}
