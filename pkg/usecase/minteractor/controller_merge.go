// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/model"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

// MergeSource はカテゴリ1つ分の統合元コントローラーを表す。
type MergeSource struct {
	Controller *animator.AnimatorController
	// Path は統合元コントローラーの保存先。埋め込みモーションの判定に使う。
	Path string
}

// MergeOptions は統合処理の協調先と方針を表す。
type MergeOptions struct {
	Storage          moutput.IAssetStorage
	Builtins         moutput.IBuiltinMotionProvider
	Contacts         moutput.IContactConverter
	Classification   *ParameterClassification
	ProgressReporter IConvertProgressReporter
}

// MergeAll はカテゴリ順に統合元コントローラーを統合先へ追加する。未設定のカテゴリは飛ばす。
func (s *ConversionSession) MergeAll(
	sources [avatar.LAYER_CATEGORY_COUNT]MergeSource,
	target *animator.AnimatorController,
	opts MergeOptions,
) error {
	for _, category := range avatar.LayerCategories {
		source := sources[category]
		if source.Controller == nil {
			continue
		}
		if err := s.MergeController(category, source, target, opts); err != nil {
			return err
		}
	}
	return nil
}

// MergeController は1カテゴリ分のコントローラーを複製・変換して統合先へ追加する。
// パラメーターは同名が既にあれば統合先を優先する。
func (s *ConversionSession) MergeController(
	category avatar.LayerCategory,
	source MergeSource,
	target *animator.AnimatorController,
	opts MergeOptions,
) error {
	if !category.IsValid() {
		return merr.NewConfigError(merr.ErrorIDUnknownCategory, "未知のレイヤーカテゴリです: %d", int(category))
	}
	if target == nil {
		return fmt.Errorf("統合先コントローラーが未設定です")
	}
	if source.Controller == nil {
		return nil
	}
	reportConvertProgress(opts.ProgressReporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeCategoryStarted,
		Category:   category,
		LayerCount: len(source.Controller.Layers),
	})

	for _, layer := range source.Controller.Layers {
		if layer == nil || layer.StateMachine == nil {
			continue
		}
		if err := layer.StateMachine.CheckClosed(); err != nil {
			return merr.WrapConfigError(merr.ErrorIDUnexpectedAssetShape, err,
				"レイヤーのグラフが配下で閉じていません: %s %s", category, layer.Name)
		}
	}

	cloned := CloneController(source.Controller, opts.Storage, source.Path)
	for _, p := range cloned.Parameters {
		if !p.Type.IsValid() {
			return merr.NewConfigError(merr.ErrorIDUnknownValueType,
				"パラメーター種別が不正です: %s %s %d", category, p.Name, int(p.Type))
		}
	}
	cloned.Parameters = withoutGestureWeights(cloned.Parameters)

	layers, err := s.convertLayers(category, cloned, opts, len(target.Layers))
	if err != nil {
		return err
	}
	cloned.Layers = layers

	classification := opts.Classification
	if classification == nil {
		classification = NewParameterClassification(nil, ParameterPolicy{})
	}
	s.recordRenamedParameters(cloned, classification)
	clones := RewriteParametersAndBindings(
		cloned,
		classification.Classify,
		classification.Rename,
		ContactBindingRemapper(opts.Contacts),
	)
	logConvertDebug("パラメーター書き換え: category=%s remappedMotions=%d", category, clones)
	convertGestureParametersToFloat(cloned.Parameters)

	for _, layer := range cloned.Layers {
		layer.Name = uniqueLayerName(target, layer.Name)
		target.AddLayer(layer)
		reportConvertProgress(opts.ProgressReporter, ConvertProgressEvent{
			Type:      ConvertProgressEventTypeLayerMerged,
			Category:  category,
			LayerName: layer.Name,
		})
	}
	for _, p := range cloned.Parameters {
		if !target.AddParameter(p) {
			logConvertDebug("既存パラメーターを優先しました: %s", p.Name)
		}
	}

	reportConvertProgress(opts.ProgressReporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeCategoryMerged,
		Category:   category,
		LayerCount: len(cloned.Layers),
	})
	logConvertInfo("カテゴリを統合しました: %s layers=%d", category, len(cloned.Layers))
	return nil
}

// convertLayers はレイヤーごとに遷移・振る舞い・モーション・マスクを変換し、残すレイヤーを返す。
// 空のレイヤーは除外し、同期レイヤーの参照先を統合先での位置に付け替える。
func (s *ConversionSession) convertLayers(
	category avatar.LayerCategory,
	cloned *animator.AnimatorController,
	opts MergeOptions,
	offset int,
) ([]*animator.Layer, error) {
	indexMap := make(map[int]int, len(cloned.Layers))
	kept := make([]*animator.Layer, 0, len(cloned.Layers))
	for i, layer := range cloned.Layers {
		if !layer.IsSynced() && (layer.StateMachine == nil || layer.StateMachine.StateCount() == 0) {
			s.dropLayer(category, layer.Name)
			continue
		}
		if err := s.convertLayerGraph(category, cloned, layer, opts); err != nil {
			return nil, err
		}
		mask, err := s.effectiveLayerMask(category, layer.Mask)
		if err != nil {
			return nil, err
		}
		layer.Mask = mask
		indexMap[i] = offset + len(kept)
		kept = append(kept, layer)
	}

	rebased := kept[:0]
	for _, layer := range kept {
		if layer.IsSynced() {
			if index, ok := indexMap[layer.SyncedLayerIndex]; ok {
				layer.SyncedLayerIndex = index
			} else {
				logConvertWarn("同期元レイヤーが見つからないため同期を解除しました: %s %s", category, layer.Name)
				layer.SyncedLayerIndex = animator.NO_SYNCED_LAYER
				if layer.StateMachine == nil || layer.StateMachine.StateCount() == 0 {
					s.dropLayer(category, layer.Name)
					continue
				}
			}
		}
		rebased = append(rebased, layer)
	}
	if len(rebased) > 0 {
		rebased[0].DefaultWeight = 1
	}
	return rebased, nil
}

// convertLayerGraph はレイヤーのグラフにジェスチャー変換・振る舞い変換・組み込みモーション置換を適用する。
func (s *ConversionSession) convertLayerGraph(
	category avatar.LayerCategory,
	cloned *animator.AnimatorController,
	layer *animator.Layer,
	opts MergeOptions,
) error {
	if layer.StateMachine == nil {
		return nil
	}
	dropped, err := RemapGestureConditions(layer.StateMachine)
	if err != nil {
		return err
	}
	if dropped > 0 {
		logConvertDebug("成立しないジェスチャー遷移を除外しました: %s %s count=%d", category, layer.Name, dropped)
	}
	if err := s.ConvertBehaviours(layer.StateMachine, cloned, layer.Name); err != nil {
		return err
	}
	s.SubstituteProxyMotions(layer.StateMachine, opts.Builtins)
	return nil
}

// dropLayer は空レイヤーの除外を記録する。
func (s *ConversionSession) dropLayer(category avatar.LayerCategory, name string) {
	s.recordDroppedLayer(category.String() + "/" + name)
	s.AddWarning(model.ConvertWarningEmptyLayerDropped)
	logConvertWarn("ステートの無いレイヤーを除外しました: %s %s", category, name)
}

// recordRenamedParameters はリネーム対象のパラメーターを記録する。
func (s *ConversionSession) recordRenamedParameters(controller *animator.AnimatorController, classification *ParameterClassification) {
	for _, p := range controller.Parameters {
		flags := classification.Classify(p.Name)
		renamed := classification.Rename(p.Name, flags)
		if renamed == p.Name {
			continue
		}
		s.recordRenamed(moutput.RenamedParameter{
			Source:      p.Name,
			Target:      renamed,
			DisplayName: classification.DisplayName(p.Name),
			Desync:      flags.Has(RENAME_FLAG_DESYNC),
			Impulse:     flags.Has(RENAME_FLAG_IMPULSE),
		})
	}
}

// withoutGestureWeights はジェスチャー重みパラメーターを除いた一覧を返す。重みは基底パラメーターへ統合される。
func withoutGestureWeights(parameters []*animator.Parameter) []*animator.Parameter {
	kept := make([]*animator.Parameter, 0, len(parameters))
	for _, p := range parameters {
		if _, isWeight := avatar.GestureParameterOfWeight(p.Name); isWeight {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// convertGestureParametersToFloat はジェスチャー基底パラメーターをfloatに変換する。
func convertGestureParametersToFloat(parameters []*animator.Parameter) {
	for _, p := range parameters {
		if !avatar.IsGestureParameter(p.Name) || p.Type == animator.PARAMETER_TYPE_FLOAT {
			continue
		}
		value := p.DefaultValue()
		p.Type = animator.PARAMETER_TYPE_FLOAT
		p.DefaultInt = 0
		p.DefaultBool = false
		p.DefaultFloat = value
	}
}

// uniqueLayerName は統合先で重複しないレイヤー名を返す。
func uniqueLayerName(target *animator.AnimatorController, name string) string {
	if _, exists := target.FindLayer(name); !exists {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s %d", name, i)
		if _, exists := target.FindLayer(candidate); !exists {
			return candidate
		}
	}
}
