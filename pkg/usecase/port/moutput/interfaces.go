// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
)

// IAssetStorage はオブジェクトが独立アセットとして保存済みかを判定する契約を表す。
type IAssetStorage interface {
	// AssetPath は独立保存済みの場合に保存先パスとtrueを返す。
	AssetPath(obj any) (string, bool)
}

// IAssetSink は変換結果を単一コンテナアセットへ登録する契約を表す。
type IAssetSink interface {
	// AddObjectToAsset はオブジェクトをコンテナへ登録する。
	AddObjectToAsset(obj any, containerPath string) error
	// IsRegistered は登録済みかを返す。
	IsRegistered(obj any) bool
	// Flush はコンテナを書き出す。
	Flush(containerPath string) error
}

// IControllerReader は変換元コントローラーの読み込み契約を表す。
type IControllerReader interface {
	IAssetStorage
	// LoadController はパスからコントローラーを読み込む。
	LoadController(path string) (*animator.AnimatorController, error)
}

// IDescriptorReader はアバター記述子の読み込み契約を表す。
type IDescriptorReader interface {
	// LoadDescriptor はパスから記述子を読み込む。
	LoadDescriptor(path string) (*avatar.Descriptor, error)
}

// IBuiltinMotionProvider は変換先エンジンの組み込みモーションを提供する契約を表す。
type IBuiltinMotionProvider interface {
	// BuiltinClip はキーに対応する組み込みクリップを返す。
	BuiltinClip(key string) (*animator.AnimationClip, bool)
}

// IContactConverter はコンタクト変換後のカーブ対象を提供する契約を表す。
type IContactConverter interface {
	// RemapBinding はコンタクト由来のバインディングを変換後のバインディングへ置換する。
	RemapBinding(binding animator.CurveBinding) (animator.CurveBinding, bool)
}

// IReportWriter は変換レポートの書き込み契約を表す。
type IReportWriter interface {
	// WriteReport はレポートを書き込む。
	WriteReport(path string, report *ConvertReport) error
}

// RenamedParameter はリネームされたパラメーターの記録を表す。
type RenamedParameter struct {
	Source      string
	Target      string
	DisplayName string
	Desync      bool
	Impulse     bool
}

// ConvertReport は変換結果の要約を表す。
type ConvertReport struct {
	AvatarName        string
	ControllerName    string
	OutputPath        string
	Layers            []string
	DroppedLayers     []string
	DroppedBehaviours []string
	Parameters        []string
	Renamed           []RenamedParameter
	Warnings          []string
}
