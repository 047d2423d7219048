// 指示: miu200521358
package minteractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	outputDirFileMode      = 0o755
	outputControllerSuffix = "_CVR"
	outputContainerExt     = ".yaml"
	outputReportSuffix     = "_report.json"
)

var nowFunc = time.Now

// BuildDefaultOutputPath は記述子パスから既定の出力コンテナパスを生成する。
func BuildDefaultOutputPath(descriptorPath string) string {
	return buildDefaultOutputPathAt(descriptorPath, nowFunc())
}

// buildDefaultOutputPathAt は指定時刻で既定の出力コンテナパスを生成する。
func buildDefaultOutputPathAt(descriptorPath string, now time.Time) string {
	dir := filepath.Dir(descriptorPath)
	base := strings.TrimSuffix(filepath.Base(descriptorPath), filepath.Ext(descriptorPath))
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	stamp := now.Format("20060102150405")
	outDir := filepath.Join(dir, fmt.Sprintf("%s_%s", base, stamp))
	return filepath.Join(outDir, base+outputControllerSuffix+outputContainerExt)
}

// BuildDefaultReportPath は出力コンテナパスから既定のレポートパスを生成する。
func BuildDefaultReportPath(outputPath string) string {
	trimmed := strings.TrimSpace(outputPath)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSuffix(trimmed, filepath.Ext(trimmed)) + outputReportSuffix
}

// resolveOutputPath は出力コンテナパスを解決し、拡張子を検証する。
func resolveOutputPath(descriptorPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(descriptorPath)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", fmt.Errorf("保存先パスが未指定です")
	}
	ext := strings.ToLower(filepath.Ext(resolved))
	if ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("保存先拡張子が .yaml ではありません: %s", resolved)
	}
	return resolved, nil
}

// prepareOutputLayout は出力先ディレクトリを作成する。
func prepareOutputLayout(outputPath string) error {
	outputDir := filepath.Dir(outputPath)
	if outputDir == "" {
		return fmt.Errorf("保存先ディレクトリの解決に失敗しました")
	}
	if err := os.MkdirAll(outputDir, outputDirFileMode); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}
