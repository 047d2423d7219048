// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/model"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

// BuildController は記述子と統合元コントローラーを読み込み、変換済みコントローラーを組み立てる。
// コンテナへの保存とレポート出力は行わない。
func (uc *Vrc2CvrUsecase) BuildController(request ConvertRequest) (*ConvertResult, error) {
	if strings.TrimSpace(request.DescriptorPath) == "" && request.Descriptor == nil {
		return nil, fmt.Errorf("入力記述子パスが未指定です")
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeInputValidated,
	})

	outputPath, err := resolveOutputPath(request.DescriptorPath, request.OutputPath)
	if err != nil {
		return nil, err
	}
	reportPath := strings.TrimSpace(request.ReportPath)
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeOutputPathResolved,
	})

	descriptor, err := uc.resolveDescriptor(request.DescriptorPath, request.Descriptor)
	if err != nil {
		return nil, err
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeDescriptorLoaded,
	})

	// 前回の変換のキャッシュを持ち越さないよう、開始時と終了時に必ず初期化する。
	uc.session.Reset()
	defer uc.session.Reset()
	uc.checkOptionalData(descriptor)

	sources, err := uc.LoadSources(descriptor)
	if err != nil {
		return nil, err
	}
	for _, category := range avatar.LayerCategories {
		if sources[category].Controller == nil {
			uc.session.AddWarning(model.ConvertWarningCategoryMissing)
			logConvertInfo("コントローラー未設定のカテゴリを飛ばします: %s", category)
		}
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeControllersLoaded,
		LayerCount: loadedCategoryCount(sources),
	})

	target := newTargetController(descriptor, request.Options)
	opts := MergeOptions{
		Storage:          uc.controllerReader,
		Builtins:         uc.builtins,
		Contacts:         uc.contacts,
		Classification:   NewParameterClassification(descriptor, request.Options.Policy),
		ProgressReporter: request.ProgressReporter,
	}
	if err := uc.session.MergeAll(sources, target, opts); err != nil {
		return nil, err
	}

	return &ConvertResult{
		Controller: target,
		OutputPath: outputPath,
		ReportPath: reportPath,
		Report:     uc.session.buildReport(descriptor, target, outputPath),
	}, nil
}

// resolveDescriptor は変換対象の記述子を解決し、必須項目を検証する。
func (uc *Vrc2CvrUsecase) resolveDescriptor(path string, descriptor *avatar.Descriptor) (*avatar.Descriptor, error) {
	resolved := descriptor
	if resolved == nil {
		loaded, err := uc.LoadDescriptor(path)
		if err != nil {
			return nil, err
		}
		resolved = loaded
	}
	if resolved == nil {
		return nil, fmt.Errorf("記述子読み込み結果が空です")
	}
	return resolved, nil
}

// checkOptionalData は任意項目の欠落を警告として記録する。変換は続行する。
func (uc *Vrc2CvrUsecase) checkOptionalData(descriptor *avatar.Descriptor) {
	if len(descriptor.BlinkBlendShapes) == 0 {
		uc.session.AddWarning(model.ConvertWarningBlinkMissing)
		logConvertWarn("まばたきブレンドシェイプが設定されていません: %s", descriptor.Name)
	}
	if len(descriptor.VisemeBlendShapes) == 0 {
		uc.session.AddWarning(model.ConvertWarningVisemeMissing)
		logConvertWarn("口形素ブレンドシェイプが設定されていません: %s", descriptor.Name)
	}
	if descriptor.ContactCount == 0 {
		uc.session.AddWarning(model.ConvertWarningNoContacts)
		logConvertWarn("コンタクトが設定されていません: %s", descriptor.Name)
	}
}

// buildReport は変換結果の要約を組み立てる。
func (s *ConversionSession) buildReport(descriptor *avatar.Descriptor, controller *animator.AnimatorController, outputPath string) *moutput.ConvertReport {
	report := &moutput.ConvertReport{
		AvatarName:        descriptor.Name,
		ControllerName:    controller.Name,
		OutputPath:        outputPath,
		DroppedLayers:     s.DroppedLayers(),
		DroppedBehaviours: s.DroppedBehaviours(),
		Renamed:           s.RenamedParameters(),
		Warnings:          s.Warnings(),
	}
	for _, layer := range controller.Layers {
		report.Layers = append(report.Layers, layer.Name)
	}
	for _, p := range controller.Parameters {
		report.Parameters = append(report.Parameters, p.Name)
	}
	return report
}
