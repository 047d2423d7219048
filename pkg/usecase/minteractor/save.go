// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

// SaveController は変換済みコントローラーを単一コンテナへ登録して書き出す。戻り値は新規登録数。
func (uc *Vrc2CvrUsecase) SaveController(path string, controller *animator.AnimatorController) (int, error) {
	if uc.assetSink == nil {
		return 0, fmt.Errorf("アセット保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("保存先パスが未指定です")
	}
	if controller == nil {
		return 0, fmt.Errorf("保存対象コントローラーが未設定です")
	}
	if err := prepareOutputLayout(path); err != nil {
		return 0, err
	}
	count, err := PersistController(uc.controllerReader, uc.assetSink, controller, path)
	if err != nil {
		return count, err
	}
	if err := uc.assetSink.Flush(path); err != nil {
		return count, fmt.Errorf("コンテナの書き出しに失敗しました: %w", err)
	}
	return count, nil
}

// SaveReport は変換レポートを書き出す。レポート出力先が無い場合は何もしない。
func (uc *Vrc2CvrUsecase) SaveReport(path string, report *moutput.ConvertReport) error {
	if strings.TrimSpace(path) == "" || report == nil {
		return nil
	}
	if uc.reportWriter == nil {
		return fmt.Errorf("レポート保存リポジトリが設定されていません")
	}
	return uc.reportWriter.WriteReport(path, report)
}
