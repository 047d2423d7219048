// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"

// Vrc2CvrUsecaseDeps はアバター変換ユースケースの依存を表す。
type Vrc2CvrUsecaseDeps struct {
	DescriptorReader moutput.IDescriptorReader
	ControllerReader moutput.IControllerReader
	AssetSink        moutput.IAssetSink
	Builtins         moutput.IBuiltinMotionProvider
	Contacts         moutput.IContactConverter
	ReportWriter     moutput.IReportWriter
}

// Vrc2CvrUsecase はVRCアバターのアニメーター構成をCVR向けに変換する処理をまとめたユースケースを表す。
type Vrc2CvrUsecase struct {
	descriptorReader moutput.IDescriptorReader
	controllerReader moutput.IControllerReader
	assetSink        moutput.IAssetSink
	builtins         moutput.IBuiltinMotionProvider
	contacts         moutput.IContactConverter
	reportWriter     moutput.IReportWriter
	session          *ConversionSession
}

// NewVrc2CvrUsecase はアバター変換ユースケースを生成する。
func NewVrc2CvrUsecase(deps Vrc2CvrUsecaseDeps) *Vrc2CvrUsecase {
	return &Vrc2CvrUsecase{
		descriptorReader: deps.DescriptorReader,
		controllerReader: deps.ControllerReader,
		assetSink:        deps.AssetSink,
		builtins:         deps.Builtins,
		contacts:         deps.Contacts,
		reportWriter:     deps.ReportWriter,
		session:          NewConversionSession(),
	}
}
