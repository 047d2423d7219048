// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/io_asset/yamlasset"
	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/io_contact/contacttable"
	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/io_descriptor/jsondesc"
	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vrc2cvr/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/infra/mconfig"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
)

// batchConfig はバッチ変換の実行設定を表す。
type batchConfig struct {
	InputRoot  string
	OutputRoot string
	ConfigPath string
	DryRun     bool
	FailFast   bool
}

// conversionEntry は1アバター分の変換入力情報を表す。
type conversionEntry struct {
	Index      int
	SourcePath string
	AvatarName string
	CaseDir    string
	OutputPath string
	ReportPath string
}

// conversionResult は1アバター分の変換結果を表す。
type conversionResult struct {
	Entry       conversionEntry
	Status      string
	Duration    time.Duration
	Err         error
	Warnings    int
	ProgressLog string
}

// convertProgressCollector は Convert の進捗イベントを収集する。
type convertProgressCollector struct {
	eventCounts map[minteractor.ConvertProgressEventType]int
	layerTotal  int
	objectTotal int
}

// main は入力フォルダー配下の記述子を一括でCVR向けに変換する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括変換を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	convertConfig, err := mconfig.LoadConfig(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "変換設定の読み込みに失敗しました: %v\n", err)
		return 2
	}
	logger := mlogging.NewLogger(os.Stderr)
	logger.SetLevel(convertConfig.Level())
	logging.SetDefaultLogger(logger)
	defer func() {
		_ = logger.Sync()
	}()

	descriptorPaths, err := collectDescriptorPaths(config.InputRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "入力の走査に失敗しました: %v\n", err)
		return 2
	}
	entries := buildConversionEntries(config.OutputRoot, descriptorPaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "変換対象の記述子がありません")
		return 2
	}

	results := executeBatchConversion(config, convertConfig, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	inputRoot := flag.String("input-root", "", "記述子JSONを探す入力ルートディレクトリ")
	outputRoot := flag.String("output-root", defaultOutputRoot, "変換結果の出力ルートディレクトリ")
	configPath := flag.String("config", "", "変換設定YAMLファイルパス")
	dryRun := flag.Bool("dry-run", false, "実変換せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedInputRoot := strings.TrimSpace(*inputRoot)
	if trimmedInputRoot == "" && flag.NArg() > 0 {
		trimmedInputRoot = strings.TrimSpace(flag.Arg(0))
	}
	if trimmedInputRoot == "" {
		return batchConfig{}, errors.New("input-root が空です")
	}
	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		InputRoot:  normalizeInputPath(trimmedInputRoot),
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		ConfigPath: strings.TrimSpace(*configPath),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// collectDescriptorPaths は入力ルート配下の記述子JSONを名前順に集める。
func collectDescriptorPaths(root string) ([]string, error) {
	paths := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") && !strings.HasSuffix(path, "_report.json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// buildConversionEntries は入力パス一覧から変換対象エントリを生成する。
func buildConversionEntries(outputRoot string, inputPaths []string) []conversionEntry {
	entries := make([]conversionEntry, 0, len(inputPaths))
	for i, rawPath := range inputPaths {
		avatarName := resolveAvatarName(rawPath)
		safeName := sanitizePathComponent(avatarName)
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", i+1, safeName))
		outputPath := filepath.Join(caseDir, safeName+"_CVR.yaml")
		entries = append(entries, conversionEntry{
			Index:      i + 1,
			SourcePath: rawPath,
			AvatarName: avatarName,
			CaseDir:    caseDir,
			OutputPath: outputPath,
			ReportPath: minteractor.BuildDefaultReportPath(outputPath),
		})
	}
	return entries
}

// executeBatchConversion は全アバターの変換処理を順次実行する。
func executeBatchConversion(config batchConfig, convertConfig *mconfig.Config, entries []conversionEntry) []conversionResult {
	results := make([]conversionResult, 0, len(entries))
	total := len(entries)
	for _, entry := range entries {
		fmt.Printf(messages.LogBatchTarget, fmt.Sprintf("%d/%d", entry.Index, total), entry.SourcePath)
		result := convertAvatarEntry(config, convertConfig, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 変換成功: avatar=%s output=%s warnings=%d elapsed=%s\n",
				entry.Index, total, entry.AvatarName, entry.OutputPath, result.Warnings, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.ProgressLog) != "" {
				fmt.Printf("[%d/%d] Convert進捗: %s\n", entry.Index, total, result.ProgressLog)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: avatar=%s input=%s output=%s\n", entry.Index, total, entry.AvatarName, entry.SourcePath, entry.OutputPath)
		default:
			fmt.Printf(messages.LogBatchItemFailed, fmt.Sprintf("%d/%d", entry.Index, total), entry.AvatarName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// convertAvatarEntry は1アバター分の変換を実行する。アセットの保存先記録を持ち越さないよう毎回リポジトリを作り直す。
func convertAvatarEntry(config batchConfig, convertConfig *mconfig.Config, entry conversionEntry) conversionResult {
	result := conversionResult{
		Entry:  entry,
		Status: "failed",
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	assets := yamlasset.NewAssetRepository()
	if convertConfig.BuiltinLibrary != "" {
		if _, err := assets.LoadBuiltinLibrary(convertConfig.BuiltinLibrary); err != nil {
			result.Err = fmt.Errorf("組み込みクリップ集の読み込みに失敗しました: %w", err)
			return result
		}
	}
	contacts, err := contacttable.LoadTable(entry.SourcePath)
	if err != nil {
		result.Err = fmt.Errorf("コンタクト表の読み込みに失敗しました: %w", err)
		return result
	}
	usecase := minteractor.NewVrc2CvrUsecase(minteractor.Vrc2CvrUsecaseDeps{
		DescriptorReader: jsondesc.NewDescriptorRepository(),
		ControllerReader: assets,
		AssetSink:        assets,
		Builtins:         assets,
		Contacts:         contacts,
		ReportWriter:     jsondesc.NewReportWriter(),
	})

	startedAt := time.Now()
	progressCollector := newConvertProgressCollector()
	converted, err := usecase.Convert(minteractor.ConvertRequest{
		DescriptorPath: entry.SourcePath,
		OutputPath:     entry.OutputPath,
		ReportPath:     entry.ReportPath,
		Options: minteractor.ConvertOptions{
			Policy: minteractor.ParameterPolicy{
				PreserveSyncState: convertConfig.PreserveSync(),
				DesyncPrefix:      convertConfig.DesyncPrefix,
				ImpulseSuffix:     convertConfig.ImpulseSuffix,
			},
			ControllerName: convertConfig.Output.ControllerName,
		},
		ProgressReporter: progressCollector,
	})
	if err != nil {
		result.Err = fmt.Errorf("Convertに失敗しました: %w", err)
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.Warnings = len(converted.Report.Warnings)
	result.ProgressLog = progressCollector.Summary()
	return result
}

// printBatchSummary は変換結果の集計を標準出力へ表示する。
func printBatchSummary(results []conversionResult) {
	succeeded := 0
	failed := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		default:
			failed++
		}
	}
	fmt.Printf(messages.LogBatchSummary, messages.AppName, succeeded, failed)
	fmt.Printf("バッチ変換サマリ: total=%d succeeded=%d failed=%d dry_run=%d\n", len(results), succeeded, failed, dryRun)
}

// resolveAvatarName は入力パスから拡張子を除いたアバター名を返す。
func resolveAvatarName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "avatar"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(path))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "avatar"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "avatar"
	}
	return replaced
}

// newConvertProgressCollector は Convert 進捗収集器を生成する。
func newConvertProgressCollector() *convertProgressCollector {
	return &convertProgressCollector{
		eventCounts: map[minteractor.ConvertProgressEventType]int{},
	}
}

// ReportConvertProgress は Convert の進捗イベントを収集する。
func (collector *convertProgressCollector) ReportConvertProgress(event minteractor.ConvertProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[minteractor.ConvertProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.Type == minteractor.ConvertProgressEventTypeLayerMerged {
		collector.layerTotal++
	}
	collector.objectTotal += event.ObjectCount
}

// Summary は収集した Convert 進捗の要約文字列を返す。
func (collector *convertProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d layers=%d objects=%d stages=%s",
		len(collector.eventCounts),
		collector.layerTotal,
		collector.objectTotal,
		strings.Join(types, ","),
	)
}
