// 指示: miu200521358
package model

const (
	// ConvertWarningReportKey は変換レポート内で警告ID集合を保持するキー。
	ConvertWarningReportKey = "MU_VRC2CVR_warnings"

	// ConvertWarningBlinkMissing はまばたきブレンドシェイプ未設定警告。
	ConvertWarningBlinkMissing = "ConvertWarningBlinkMissing"
	// ConvertWarningVisemeMissing は口形素ブレンドシェイプ未設定警告。
	ConvertWarningVisemeMissing = "ConvertWarningVisemeMissing"
	// ConvertWarningNoContacts はコンタクト未設定警告。
	ConvertWarningNoContacts = "ConvertWarningNoContacts"
	// ConvertWarningEmptyLayerDropped は空レイヤー除外警告。
	ConvertWarningEmptyLayerDropped = "ConvertWarningEmptyLayerDropped"
	// ConvertWarningBehaviourDropped は変換先の無い振る舞い除外警告。
	ConvertWarningBehaviourDropped = "ConvertWarningBehaviourDropped"
	// ConvertWarningDriverTargetMissing はドライバー対象パラメーター未定義警告。
	ConvertWarningDriverTargetMissing = "ConvertWarningDriverTargetMissing"
	// ConvertWarningBuiltinMotionMissing は組み込みモーション未登録警告。
	ConvertWarningBuiltinMotionMissing = "ConvertWarningBuiltinMotionMissing"
	// ConvertWarningCategoryMissing はカテゴリのコントローラー未設定警告。
	ConvertWarningCategoryMissing = "ConvertWarningCategoryMissing"
	// ConvertWarningTrackingPartIgnored は変換先の無いトラッキング部位警告。
	ConvertWarningTrackingPartIgnored = "ConvertWarningTrackingPartIgnored"
)
