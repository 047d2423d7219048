// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

// ConvertProgressEventType は変換処理の進捗イベント種別を表す。
type ConvertProgressEventType string

const (
	// ConvertProgressEventTypeInputValidated は入力検証完了イベントを表す。
	ConvertProgressEventTypeInputValidated ConvertProgressEventType = "input_validated"
	// ConvertProgressEventTypeOutputPathResolved は出力パス解決完了イベントを表す。
	ConvertProgressEventTypeOutputPathResolved ConvertProgressEventType = "output_path_resolved"
	// ConvertProgressEventTypeDescriptorLoaded は記述子読み込み完了イベントを表す。
	ConvertProgressEventTypeDescriptorLoaded ConvertProgressEventType = "descriptor_loaded"
	// ConvertProgressEventTypeControllersLoaded は統合元コントローラー読み込み完了イベントを表す。
	ConvertProgressEventTypeControllersLoaded ConvertProgressEventType = "controllers_loaded"
	// ConvertProgressEventTypeCategoryStarted はカテゴリ統合開始イベントを表す。
	ConvertProgressEventTypeCategoryStarted ConvertProgressEventType = "category_started"
	// ConvertProgressEventTypeLayerMerged はレイヤー追加イベントを表す。
	ConvertProgressEventTypeLayerMerged ConvertProgressEventType = "layer_merged"
	// ConvertProgressEventTypeCategoryMerged はカテゴリ統合完了イベントを表す。
	ConvertProgressEventTypeCategoryMerged ConvertProgressEventType = "category_merged"
	// ConvertProgressEventTypePersisted はアセット登録完了イベントを表す。
	ConvertProgressEventTypePersisted ConvertProgressEventType = "persisted"
	// ConvertProgressEventTypeReportWritten はレポート出力完了イベントを表す。
	ConvertProgressEventTypeReportWritten ConvertProgressEventType = "report_written"
)

// ConvertProgressEvent は変換処理の進捗イベントを表す。
type ConvertProgressEvent struct {
	Type        ConvertProgressEventType
	Category    avatar.LayerCategory
	LayerName   string
	LayerCount  int
	ObjectCount int
}

// IConvertProgressReporter は変換処理の進捗通知契約を表す。
type IConvertProgressReporter interface {
	// ReportConvertProgress は変換処理進捗を通知する。
	ReportConvertProgress(event ConvertProgressEvent)
}

// reportConvertProgress は変換処理の進捗を通知する。
func reportConvertProgress(reporter IConvertProgressReporter, event ConvertProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportConvertProgress(event)
}

// ConvertOptions は変換方針を表す。
type ConvertOptions struct {
	Policy ParameterPolicy
	// ControllerName は出力コントローラー名。空の場合は "<アバター名>_CVR"。
	ControllerName string
}

// ConvertRequest はアバター変換要求を表す。
type ConvertRequest struct {
	DescriptorPath   string
	OutputPath       string
	ReportPath       string
	Descriptor       *avatar.Descriptor
	Options          ConvertOptions
	ProgressReporter IConvertProgressReporter
}

// ConvertResult はアバター変換結果を表す。
type ConvertResult struct {
	Controller  *animator.AnimatorController
	OutputPath  string
	ReportPath  string
	Report      *moutput.ConvertReport
	ObjectCount int
}
