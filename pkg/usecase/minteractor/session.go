// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

// maskPairKey はマスク合成キャッシュのキーを表す。
type maskPairKey struct {
	base  *animator.AvatarMask
	layer *animator.AvatarMask
}

// ConversionSession は1回の変換で共有する可変状態を保持する。
// 変換開始前と終了後に Reset で必ず初期化する。
type ConversionSession struct {
	maskCache       map[maskPairKey]*animator.AvatarMask
	categoryMasks   map[avatar.LayerCategory]*animator.AvatarMask
	gestureBaseMask *animator.AvatarMask
	proxyClips      map[string]*animator.AnimationClip
	createdMasks    []*animator.AvatarMask

	warnings          []string
	warningSet        map[string]struct{}
	droppedLayers     []string
	droppedBehaviours []string
	renamed           []moutput.RenamedParameter
	renamedSet        map[string]struct{}
}

// NewConversionSession は空の変換セッションを生成する。
func NewConversionSession() *ConversionSession {
	s := &ConversionSession{}
	s.Reset()
	return s
}

// Reset はキャッシュと記録を全て破棄する。
func (s *ConversionSession) Reset() {
	s.maskCache = map[maskPairKey]*animator.AvatarMask{}
	s.categoryMasks = map[avatar.LayerCategory]*animator.AvatarMask{}
	s.gestureBaseMask = nil
	s.proxyClips = map[string]*animator.AnimationClip{}
	s.createdMasks = nil
	s.warnings = nil
	s.warningSet = map[string]struct{}{}
	s.droppedLayers = nil
	s.droppedBehaviours = nil
	s.renamed = nil
	s.renamedSet = map[string]struct{}{}
}

// AddWarning は警告IDを重複なしで記録する。
func (s *ConversionSession) AddWarning(warningID string) {
	if _, exists := s.warningSet[warningID]; exists {
		return
	}
	s.warningSet[warningID] = struct{}{}
	s.warnings = append(s.warnings, warningID)
}

// Warnings は記録済み警告IDを記録順に返す。
func (s *ConversionSession) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// HasWarning は警告IDが記録済みかを返す。
func (s *ConversionSession) HasWarning(warningID string) bool {
	_, exists := s.warningSet[warningID]
	return exists
}

// DroppedLayers は除外したレイヤー名を返す。
func (s *ConversionSession) DroppedLayers() []string {
	return append([]string(nil), s.droppedLayers...)
}

// DroppedBehaviours は除外した振る舞いの記録を返す。
func (s *ConversionSession) DroppedBehaviours() []string {
	return append([]string(nil), s.droppedBehaviours...)
}

// CreatedMasks は合成で新規生成したマスクを返す。
func (s *ConversionSession) CreatedMasks() []*animator.AvatarMask {
	return append([]*animator.AvatarMask(nil), s.createdMasks...)
}

// recordDroppedLayer は除外したレイヤーを記録する。
func (s *ConversionSession) recordDroppedLayer(name string) {
	s.droppedLayers = append(s.droppedLayers, name)
}

// recordDroppedBehaviour は除外した振る舞いを記録する。
func (s *ConversionSession) recordDroppedBehaviour(owner string, kind string) {
	s.droppedBehaviours = append(s.droppedBehaviours, owner+": "+kind)
}

// recordRenamed はリネームしたパラメーターを元の名前で重複なしに記録する。
func (s *ConversionSession) recordRenamed(renamed moutput.RenamedParameter) {
	if _, exists := s.renamedSet[renamed.Source]; exists {
		return
	}
	s.renamedSet[renamed.Source] = struct{}{}
	s.renamed = append(s.renamed, renamed)
}

// RenamedParameters はリネームしたパラメーターを記録順に返す。
func (s *ConversionSession) RenamedParameters() []moutput.RenamedParameter {
	return append([]moutput.RenamedParameter(nil), s.renamed...)
}

// logConvertInfo は変換処理のINFOログを出力する。
func logConvertInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logConvertDebug は変換処理のDEBUGログを出力する。
func logConvertDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logConvertWarn は変換処理のWARNログを出力する。
func logConvertWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
