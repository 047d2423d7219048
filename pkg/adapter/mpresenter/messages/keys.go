// 指示: miu200521358
// Package messages はCLI表示とログに使うメッセージを提供する。
package messages

// メッセージ一覧。
const (
	AppName = "mu_vrc2cvr"

	FlagConfig = "変換設定YAMLファイルパス"
	FlagDesc   = "入力アバター記述子JSONファイルパス"
	FlagOut    = "出力コンテナファイルパス"
	FlagReport = "変換レポートJSONファイルパス"
	FlagWatch  = "入力ファイルの変更を監視して再変換する"
	FlagV      = "詳細ログを出力する"

	MessageInputRequired    = "アバター記述子JSONを指定してください (-desc)"
	MessageInputUnsupported = "入力拡張子が .json ではありません: %s"
	MessageConfigFailed     = "設定の読み込みに失敗しました: %w"
	MessageBuiltinFailed    = "組み込みクリップ集の読み込みに失敗しました: %w"
	MessageContactFailed    = "コンタクト表の読み込みに失敗しました: %w"
	MessageConvertFailed    = "変換に失敗しました: %w"
	MessageWatchFailed      = "ファイル監視に失敗しました: %w"

	LogConvertStart    = "[%s] 変換開始: %s\n"
	LogCategoryStart   = "[%s] カテゴリ統合: %s\n"
	LogLayerMerged     = "[%s]   レイヤー追加: %s\n"
	LogConvertSuccess  = "[%s] 変換完了: %s (layers=%d parameters=%d objects=%d)\n"
	LogReportWritten   = "[%s] レポート出力: %s\n"
	LogWarning         = "[%s] 警告: %s\n"
	LogWatchStart      = "[%s] 監視開始: %s\n"
	LogWatchChanged    = "[%s] 変更検知: %s\n"
	LogWatchRunFailed  = "[%s] 再変換に失敗しました: %v\n"
	LogBatchTarget     = "[%s] 対象: %s\n"
	LogBatchSummary    = "[%s] 完了: success=%d failed=%d\n"
	LogBatchItemFailed = "[%s] 失敗: %s: %v\n"
)
