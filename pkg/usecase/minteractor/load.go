// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
)

// LoadDescriptor はアバター記述子を読み込む。
func (uc *Vrc2CvrUsecase) LoadDescriptor(path string) (*avatar.Descriptor, error) {
	if uc.descriptorReader == nil {
		return nil, fmt.Errorf("記述子読み込みリポジトリが設定されていません")
	}
	return uc.descriptorReader.LoadDescriptor(path)
}

// LoadSources は記述子が参照するカテゴリごとのコントローラーを読み込む。
// 既定レイヤーのカテゴリは飛ばす。
func (uc *Vrc2CvrUsecase) LoadSources(descriptor *avatar.Descriptor) ([avatar.LAYER_CATEGORY_COUNT]MergeSource, error) {
	var sources [avatar.LAYER_CATEGORY_COUNT]MergeSource
	if uc.controllerReader == nil {
		return sources, fmt.Errorf("コントローラー読み込みリポジトリが設定されていません")
	}
	for _, layer := range descriptor.PlayableLayers {
		if !layer.Category.IsValid() {
			return sources, merr.NewConfigError(merr.ErrorIDUnknownCategory, "未知のレイヤーカテゴリです: %d", int(layer.Category))
		}
	}
	for _, category := range avatar.LayerCategories {
		path, ok := descriptor.ControllerPathOf(category)
		if !ok {
			continue
		}
		controller, err := uc.controllerReader.LoadController(path)
		if err != nil {
			return sources, err
		}
		sources[category] = MergeSource{Controller: controller, Path: path}
	}
	return sources, nil
}

// loadedCategoryCount は読み込めたカテゴリ数を返す。
func loadedCategoryCount(sources [avatar.LAYER_CATEGORY_COUNT]MergeSource) int {
	count := 0
	for _, source := range sources {
		if source.Controller != nil {
			count++
		}
	}
	return count
}

// newTargetController は出力コントローラーを生成する。
func newTargetController(descriptor *avatar.Descriptor, opts ConvertOptions) *animator.AnimatorController {
	name := opts.ControllerName
	if name == "" {
		name = descriptor.Name + outputControllerSuffix
	}
	return animator.NewAnimatorController(name)
}
