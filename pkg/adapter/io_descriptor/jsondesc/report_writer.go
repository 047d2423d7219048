// 指示: miu200521358
package jsondesc

import (
	"os"
	"path/filepath"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/model"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

const reportFileMode = 0o644

// ReportWriter は変換レポートをJSONとして書き出す。
type ReportWriter struct{}

// NewReportWriter はReportWriterを生成する。
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport はレポートをJSONファイルへ書き出す。
func (w *ReportWriter) WriteReport(path string, report *moutput.ConvertReport) error {
	if report == nil {
		return errors.New("レポートが未設定です")
	}
	data, err := encodeReport(report)
	if err != nil {
		return errors.Wrapf(err, "レポートの符号化に失敗しました: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "レポート出力先フォルダーの作成に失敗しました: %s", path)
	}
	if err := os.WriteFile(path, data, reportFileMode); err != nil {
		return errors.Wrapf(err, "レポートの書き込みに失敗しました: %s", path)
	}
	logDescriptorInfo("レポート書き出し完了: file=%s renamed=%d warnings=%d", path, len(report.Renamed), len(report.Warnings))
	return nil
}

// encodeReport はレポートをJSONへ変換する。
func encodeReport(report *moutput.ConvertReport) ([]byte, error) {
	data := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		data, err = sjson.SetBytes(data, path, value)
	}

	set("avatar", report.AvatarName)
	set("controller", report.ControllerName)
	set("output", filepath.ToSlash(report.OutputPath))
	set("layers", nonNil(report.Layers))
	set("parameters", nonNil(report.Parameters))
	set("dropped_layers", nonNil(report.DroppedLayers))
	set("dropped_behaviours", nonNil(report.DroppedBehaviours))
	set(model.ConvertWarningReportKey, nonNil(report.Warnings))
	set("renamed", []any{})
	for _, renamed := range report.Renamed {
		set("renamed.-1", map[string]any{
			"source":       renamed.Source,
			"target":       renamed.Target,
			"display_name": renamed.DisplayName,
			"desync":       renamed.Desync,
			"impulse":      renamed.Impulse,
		})
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// nonNil は空配列として書き出すため nil を空スライスへ置き換える。
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
