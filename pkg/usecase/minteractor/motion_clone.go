// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
	"github.com/tiendc/go-deepcopy"
)

// motionCloner は埋め込みモーションだけを複製する。
type motionCloner struct {
	storage        moutput.IAssetStorage
	controllerPath string
}

// newMotionCloner は複製元コントローラーの保存先を基準とするモーション複製器を生成する。
func newMotionCloner(storage moutput.IAssetStorage, controllerPath string) *motionCloner {
	return &motionCloner{storage: storage, controllerPath: controllerPath}
}

// isPersistedElsewhere はオブジェクトが複製元コントローラーとは別のアセットとして保存済みかを返す。
func (c *motionCloner) isPersistedElsewhere(obj any) bool {
	if c == nil || c.storage == nil {
		return false
	}
	path, ok := c.storage.AssetPath(obj)
	if !ok {
		return false
	}
	return path != c.controllerPath
}

// CloneMotionIfInline は埋め込みモーションなら深く複製し、独立アセットならそのまま返す。
func (c *motionCloner) CloneMotionIfInline(motion animator.Motion) animator.Motion {
	switch m := motion.(type) {
	case nil:
		return nil
	case *animator.BlendTree:
		if m == nil || c.isPersistedElsewhere(m) {
			return m
		}
		return c.cloneBlendTree(m, true)
	case *animator.AnimationClip:
		if m == nil || c.isPersistedElsewhere(m) {
			return m
		}
		return CloneAnimationClip(m)
	default:
		panic(fmt.Sprintf("未知のモーション型です: %T", motion))
	}
}

// cloneBlendTree はブレンドツリーを複製する。deepがfalseの場合は子モーションを共有する。
func (c *motionCloner) cloneBlendTree(tree *animator.BlendTree, deep bool) *animator.BlendTree {
	cp := *tree
	cp.Children = make([]animator.ChildMotion, len(tree.Children))
	for i, child := range tree.Children {
		cp.Children[i] = child
		if deep {
			cp.Children[i].Motion = c.CloneMotionIfInline(child.Motion)
		}
	}
	return &cp
}

// CloneAnimationClip はカーブ・参照カーブ・イベント・クリップ設定を全て複製する。
func CloneAnimationClip(clip *animator.AnimationClip) *animator.AnimationClip {
	if clip == nil {
		return nil
	}
	var cp animator.AnimationClip
	if err := deepcopy.Copy(&cp, *clip); err != nil {
		panic(fmt.Sprintf("アニメーションクリップの複製に失敗しました: %s: %v", clip.Name, err))
	}
	return &cp
}
