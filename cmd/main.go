// 指示: miu200521358
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/io_asset/yamlasset"
	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/io_contact/contacttable"
	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/io_descriptor/jsondesc"
	"github.com/miu200521358/mu_vrc2cvr/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vrc2cvr/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/infra/mconfig"
	"github.com/miu200521358/mu_vrc2cvr/pkg/infra/watch"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/minteractor"
)

// options はCLI引数を保持する。
type options struct {
	configPath     string
	descriptorPath string
	outputPath     string
	reportPath     string
	watch          bool
	verbose        bool
}

// main はVRCアバターのアニメーター構成をCVR向けに変換する。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。監視モードでは ctx が終了するまで再変換を続ける。
func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}
	cfg, err := mconfig.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf(messages.MessageConfigFailed, err)
	}

	logger := mlogging.NewLogger(errOut)
	logger.SetLevel(cfg.Level())
	if opts.verbose {
		logger.SetLevel(logging.LOG_LEVEL_DEBUG)
	}
	logging.SetDefaultLogger(logger)
	defer func() {
		_ = logger.Sync()
	}()

	if !opts.watch {
		return convertOnce(opts, cfg, out)
	}
	return watchAndConvert(ctx, opts, cfg, out, errOut)
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet(messages.AppName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	configPath := fs.String("config", "", messages.FlagConfig)
	desc := fs.String("desc", "", messages.FlagDesc)
	out := fs.String("out", "", messages.FlagOut)
	report := fs.String("report", "", messages.FlagReport)
	watchFlag := fs.Bool("watch", false, messages.FlagWatch)
	verbose := fs.Bool("v", false, messages.FlagV)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *desc == "" && fs.NArg() > 0 {
		*desc = fs.Arg(0)
	}
	if *out == "" && fs.NArg() > 1 {
		*out = fs.Arg(1)
	}
	if *desc == "" {
		return options{}, fmt.Errorf(messages.MessageInputRequired)
	}
	if !strings.EqualFold(filepath.Ext(*desc), ".json") {
		return options{}, fmt.Errorf(messages.MessageInputUnsupported, *desc)
	}

	return options{
		configPath:     *configPath,
		descriptorPath: *desc,
		outputPath:     *out,
		reportPath:     *report,
		watch:          *watchFlag,
		verbose:        *verbose,
	}, nil
}

// newUsecase は1回の変換に使うリポジトリ群を新しく組み立てる。
// 読み込み済みオブジェクトの保存先を持ち越さないよう、再変換のたびに作り直す。
func newUsecase(opts options, cfg *mconfig.Config) (*minteractor.Vrc2CvrUsecase, error) {
	assets := yamlasset.NewAssetRepository()
	if cfg.BuiltinLibrary != "" {
		if _, err := assets.LoadBuiltinLibrary(cfg.BuiltinLibrary); err != nil {
			return nil, fmt.Errorf(messages.MessageBuiltinFailed, err)
		}
	}
	contacts, err := contacttable.LoadTable(opts.descriptorPath)
	if err != nil {
		return nil, fmt.Errorf(messages.MessageContactFailed, err)
	}
	return minteractor.NewVrc2CvrUsecase(minteractor.Vrc2CvrUsecaseDeps{
		DescriptorReader: jsondesc.NewDescriptorRepository(),
		ControllerReader: assets,
		AssetSink:        assets,
		Builtins:         assets,
		Contacts:         contacts,
		ReportWriter:     jsondesc.NewReportWriter(),
	}), nil
}

// convertOnce は1回分の変換を実行し、結果を out へ表示する。
func convertOnce(opts options, cfg *mconfig.Config, out io.Writer) error {
	uc, err := newUsecase(opts, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, messages.LogConvertStart, messages.AppName, opts.descriptorPath)
	result, err := uc.Convert(minteractor.ConvertRequest{
		DescriptorPath: opts.descriptorPath,
		OutputPath:     opts.outputPath,
		ReportPath:     opts.reportPath,
		Options: minteractor.ConvertOptions{
			Policy: minteractor.ParameterPolicy{
				PreserveSyncState: cfg.PreserveSync(),
				DesyncPrefix:      cfg.DesyncPrefix,
				ImpulseSuffix:     cfg.ImpulseSuffix,
			},
			ControllerName: cfg.Output.ControllerName,
		},
		ProgressReporter: &cliProgressReporter{out: out},
	})
	if err != nil {
		return fmt.Errorf(messages.MessageConvertFailed, err)
	}

	for _, warning := range result.Report.Warnings {
		fmt.Fprintf(out, messages.LogWarning, messages.AppName, warning)
	}
	fmt.Fprintf(out, messages.LogConvertSuccess, messages.AppName, result.OutputPath,
		len(result.Controller.Layers), len(result.Controller.Parameters), result.ObjectCount)
	if result.ReportPath != "" {
		fmt.Fprintf(out, messages.LogReportWritten, messages.AppName, result.ReportPath)
	}
	return nil
}

// watchAndConvert は変換後、入力ファイルの変更を検知するたびに再変換する。
// 再変換の失敗は表示だけして監視を続ける。
func watchAndConvert(ctx context.Context, opts options, cfg *mconfig.Config, out io.Writer, errOut io.Writer) error {
	if err := convertOnce(opts, cfg, out); err != nil {
		fmt.Fprintf(errOut, messages.LogWatchRunFailed, messages.AppName, err)
	}

	files := watchTargets(opts)
	watcher, err := watch.NewWatcher(watch.DEFAULT_DEBOUNCE, files...)
	if err != nil {
		return fmt.Errorf(messages.MessageWatchFailed, err)
	}
	defer watcher.Close()
	fmt.Fprintf(out, messages.LogWatchStart, messages.AppName, strings.Join(files, ", "))

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, messages.LogWatchChanged, messages.AppName, name)
			if name == absPath(opts.configPath) {
				reloaded, err := mconfig.LoadConfig(opts.configPath)
				if err != nil {
					fmt.Fprintf(errOut, messages.LogWatchRunFailed, messages.AppName, err)
					continue
				}
				cfg = reloaded
			}
			if err := convertOnce(opts, cfg, out); err != nil {
				fmt.Fprintf(errOut, messages.LogWatchRunFailed, messages.AppName, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf(messages.MessageWatchFailed, err)
		}
	}
}

// watchTargets は監視対象のファイル一覧を返す。記述子が参照するコントローラーも含める。
func watchTargets(opts options) []string {
	files := []string{opts.descriptorPath}
	if opts.configPath != "" {
		files = append(files, opts.configPath)
	}
	descriptor, err := jsondesc.NewDescriptorRepository().LoadDescriptor(opts.descriptorPath)
	if err != nil {
		return files
	}
	for _, layer := range descriptor.PlayableLayers {
		if layer.ControllerPath != "" && !layer.IsDefault {
			files = append(files, layer.ControllerPath)
		}
	}
	return files
}

// absPath は比較用の絶対パスを返す。空の場合は空文字。
func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// cliProgressReporter は変換の進捗を表示する。
type cliProgressReporter struct {
	out io.Writer
}

// ReportConvertProgress はカテゴリ開始とレイヤー追加を表示する。
func (r *cliProgressReporter) ReportConvertProgress(event minteractor.ConvertProgressEvent) {
	switch event.Type {
	case minteractor.ConvertProgressEventTypeCategoryStarted:
		fmt.Fprintf(r.out, messages.LogCategoryStart, messages.AppName, event.Category)
	case minteractor.ConvertProgressEventTypeLayerMerged:
		fmt.Fprintf(r.out, messages.LogLayerMerged, messages.AppName, event.LayerName)
	}
}
