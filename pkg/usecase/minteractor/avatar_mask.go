// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
)

// CombineMasks は2つのマスクを部位ごとの論理積で合成する。
// nilは全身有効として扱い、同じ入力の組には同一インスタンスを返す。
func (s *ConversionSession) CombineMasks(base *animator.AvatarMask, layer *animator.AvatarMask) *animator.AvatarMask {
	if base == nil {
		return layer
	}
	if layer == nil {
		return base
	}
	key := maskPairKey{base: base, layer: layer}
	if cached, ok := s.maskCache[key]; ok {
		return cached
	}

	combined := &animator.AvatarMask{Name: base.Name + "_" + layer.Name}
	for i := range combined.BodyParts {
		combined.BodyParts[i] = base.BodyParts[i] && layer.BodyParts[i]
	}
	combined.Transforms = combineMaskTransforms(base.Transforms, layer.Transforms)

	s.maskCache[key] = combined
	s.createdMasks = append(s.createdMasks, combined)
	return combined
}

// combineMaskTransforms はトランスフォーム指定を合成する。
// レイヤー側の指定を基準に、基底側で無効なパスだけを無効化する。
func combineMaskTransforms(base []animator.MaskTransform, layer []animator.MaskTransform) []animator.MaskTransform {
	if len(layer) == 0 {
		return append([]animator.MaskTransform(nil), base...)
	}
	baseActive := make(map[string]bool, len(base))
	for _, tr := range base {
		baseActive[tr.Path] = tr.Active
	}
	combined := make([]animator.MaskTransform, 0, len(layer))
	for _, tr := range layer {
		active := tr.Active
		if b, exists := baseActive[tr.Path]; exists {
			active = active && b
		}
		combined = append(combined, animator.MaskTransform{Path: tr.Path, Active: active})
	}
	return combined
}

// categoryBaseMask はカテゴリ固定の基底マスクを返す。セッション内で同一インスタンスを使い回す。
func (s *ConversionSession) categoryBaseMask(category avatar.LayerCategory) (*animator.AvatarMask, error) {
	if mask, ok := s.categoryMasks[category]; ok {
		return mask, nil
	}
	var mask *animator.AvatarMask
	switch category {
	case avatar.LAYER_CATEGORY_LOCOMOTION:
		mask = animator.NewFullBodyMask("CVR_Locomotion")
		mask.BodyParts[animator.BODY_PART_LEFT_FINGERS] = false
		mask.BodyParts[animator.BODY_PART_RIGHT_FINGERS] = false
	case avatar.LAYER_CATEGORY_ADDITIVE:
		mask = animator.NewFullBodyMask("CVR_Additive")
	case avatar.LAYER_CATEGORY_GESTURE:
		mask = animator.NewAvatarMask(
			"CVR_Gesture",
			animator.BODY_PART_LEFT_ARM,
			animator.BODY_PART_RIGHT_ARM,
			animator.BODY_PART_LEFT_FINGERS,
			animator.BODY_PART_RIGHT_FINGERS,
			animator.BODY_PART_LEFT_HAND_IK,
			animator.BODY_PART_RIGHT_HAND_IK,
		)
	case avatar.LAYER_CATEGORY_ACTION:
		mask = animator.NewFullBodyMask("CVR_Action")
	case avatar.LAYER_CATEGORY_EFFECTS:
		mask = animator.NewAvatarMask("CVR_FX")
	default:
		return nil, merr.NewConfigError(merr.ErrorIDUnknownCategory, "未知のレイヤーカテゴリです: %d", int(category))
	}
	s.categoryMasks[category] = mask
	s.createdMasks = append(s.createdMasks, mask)
	return mask, nil
}

// effectiveLayerMask はカテゴリ基底マスクとレイヤー元マスクから実効マスクを求める。
// ジェスチャーカテゴリでは最初のレイヤーの実効マスクを以降のレイヤーの基底とする。
func (s *ConversionSession) effectiveLayerMask(category avatar.LayerCategory, layerMask *animator.AvatarMask) (*animator.AvatarMask, error) {
	base, err := s.categoryBaseMask(category)
	if err != nil {
		return nil, err
	}
	if category != avatar.LAYER_CATEGORY_GESTURE {
		return s.CombineMasks(base, layerMask), nil
	}
	if s.gestureBaseMask != nil {
		return s.CombineMasks(s.gestureBaseMask, layerMask), nil
	}
	combined := s.CombineMasks(base, layerMask)
	s.gestureBaseMask = combined
	return combined, nil
}
