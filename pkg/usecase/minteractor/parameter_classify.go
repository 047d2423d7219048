// 指示: miu200521358
package minteractor

import (
	"sort"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"golang.org/x/text/unicode/norm"
)

const (
	// DEFAULT_DESYNC_PREFIX は非同期化したパラメーターに付与する既定の接頭辞。
	DEFAULT_DESYNC_PREFIX = "#"
	// DEFAULT_IMPULSE_SUFFIX は単発トリガー化したパラメーターに付与する既定の接尾辞。
	DEFAULT_IMPULSE_SUFFIX = "-impulse"
)

// ParameterPolicy はパラメーター分類とリネームの方針を表す。
type ParameterPolicy struct {
	PreserveSyncState bool
	DesyncPrefix      string
	ImpulseSuffix     string
}

// DefaultParameterPolicy は既定の方針を返す。
func DefaultParameterPolicy() ParameterPolicy {
	return ParameterPolicy{
		PreserveSyncState: true,
		DesyncPrefix:      DEFAULT_DESYNC_PREFIX,
		ImpulseSuffix:     DEFAULT_IMPULSE_SUFFIX,
	}
}

// ParameterClassification は1回の変換で使うパラメーター分類結果を保持する。
// 名前はNFCに正規化して照合する。
type ParameterClassification struct {
	policy       ParameterPolicy
	preserved    map[string]struct{}
	impulses     map[string]struct{}
	displayNames map[string]string
}

// NewParameterClassification は記述子とメニューからパラメーター分類を求める。
// 同期維持が有効な場合、同期対象・組み込み・マッスル名以外を非同期化対象とする。
// ボタン操作だけで使われるパラメーターを単発トリガーとする。
func NewParameterClassification(descriptor *avatar.Descriptor, policy ParameterPolicy) *ParameterClassification {
	if policy.DesyncPrefix == "" {
		policy.DesyncPrefix = DEFAULT_DESYNC_PREFIX
	}
	if policy.ImpulseSuffix == "" {
		policy.ImpulseSuffix = DEFAULT_IMPULSE_SUFFIX
	}
	c := &ParameterClassification{
		policy:       policy,
		preserved:    map[string]struct{}{},
		impulses:     map[string]struct{}{},
		displayNames: map[string]string{},
	}
	for name := range descriptor.SyncedParameterNames() {
		c.preserved[norm.NFC.String(name)] = struct{}{}
	}
	if descriptor == nil || descriptor.Menu == nil {
		return c
	}

	buttonOnly := map[string]bool{}
	for _, use := range descriptor.Menu.ParameterUses() {
		isButton := use.ControlType == avatar.CONTROL_TYPE_BUTTON
		key := norm.NFC.String(use.Parameter)
		if current, exists := buttonOnly[key]; exists {
			buttonOnly[key] = current && isButton
		} else {
			buttonOnly[key] = isButton
		}
		if _, exists := c.displayNames[key]; !exists {
			c.displayNames[key] = strings.Join(use.MenuPath, "/")
		}
	}
	for name, only := range buttonOnly {
		if only {
			c.impulses[name] = struct{}{}
		}
	}
	return c
}

// isPreserved は同期状態を維持するパラメーターかを返す。
func (c *ParameterClassification) isPreserved(name string) bool {
	name = norm.NFC.String(name)
	if _, ok := c.preserved[name]; ok {
		return true
	}
	return avatar.IsBuiltinParameter(name) || avatar.IsHumanoidMuscle(name)
}

// Classify はパラメーター名のリネーム種別を返す。
func (c *ParameterClassification) Classify(name string) RenameFlags {
	var flags RenameFlags
	if c.policy.PreserveSyncState && !c.isPreserved(name) {
		flags |= RENAME_FLAG_DESYNC
	}
	if _, ok := c.impulses[norm.NFC.String(name)]; ok {
		flags |= RENAME_FLAG_IMPULSE
	}
	return flags
}

// Rename は組み込み名の対応表を適用した上で、種別に応じた接頭辞・接尾辞を付与する。
func (c *ParameterClassification) Rename(name string, flags RenameFlags) string {
	if renamed, ok := avatar.CvrBuiltinRenames[name]; ok {
		return renamed
	}
	renamed := name
	if flags.Has(RENAME_FLAG_DESYNC) && !strings.HasPrefix(renamed, c.policy.DesyncPrefix) {
		renamed = c.policy.DesyncPrefix + renamed
	}
	if flags.Has(RENAME_FLAG_IMPULSE) && !strings.HasSuffix(renamed, c.policy.ImpulseSuffix) {
		renamed += c.policy.ImpulseSuffix
	}
	return renamed
}

// DisplayName はメニュー上の表示パスを返す。
func (c *ParameterClassification) DisplayName(name string) string {
	return c.displayNames[norm.NFC.String(name)]
}

// Impulses は単発トリガー扱いのパラメーター名を昇順で返す。
func (c *ParameterClassification) Impulses() []string {
	names := make([]string, 0, len(c.impulses))
	for name := range c.impulses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
