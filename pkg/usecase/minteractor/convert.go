// 指示: miu200521358
package minteractor

// Convert は記述子を読み込み、変換済みコントローラーをコンテナとして保存する。
// レポートパスが指定されている場合はレポートも書き出す。
func (uc *Vrc2CvrUsecase) Convert(request ConvertRequest) (*ConvertResult, error) {
	result, err := uc.BuildController(request)
	if err != nil {
		return nil, err
	}

	count, err := uc.SaveController(result.OutputPath, result.Controller)
	if err != nil {
		return nil, err
	}
	result.ObjectCount = count
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:        ConvertProgressEventTypePersisted,
		ObjectCount: count,
	})

	if err := uc.SaveReport(result.ReportPath, result.Report); err != nil {
		return nil, err
	}
	if result.ReportPath != "" {
		reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
			Type: ConvertProgressEventTypeReportWritten,
		})
	}
	logConvertInfo("変換完了: %s layers=%d parameters=%d objects=%d",
		result.OutputPath, len(result.Controller.Layers), len(result.Controller.Parameters), count)
	return result, nil
}
