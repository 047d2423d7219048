// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
)

// RenameFlags はパラメーターに必要なリネーム種別を表す。
type RenameFlags uint8

const (
	// RENAME_FLAG_DESYNC は同期対象から外す必要があることを表す。
	RENAME_FLAG_DESYNC RenameFlags = 1 << iota
	// RENAME_FLAG_IMPULSE は単発トリガーとして扱う必要があることを表す。
	RENAME_FLAG_IMPULSE
)

// Has はフラグを含むかを返す。
func (f RenameFlags) Has(flag RenameFlags) bool {
	return f&flag != 0
}

// ParameterClassifier はパラメーター名からリネーム種別を判定する。
type ParameterClassifier func(name string) RenameFlags

// ParameterRenamer はパラメーター名とリネーム種別から新しい名前を返す。
type ParameterRenamer func(name string, flags RenameFlags) string

// BindingRemapper はパラメーター以外のカーブ対象を置換する。置換しない場合はfalse。
type BindingRemapper func(binding animator.CurveBinding) (animator.CurveBinding, bool)

const remappedMotionSuffix = "_Remapped"

// parameterRewriter は1回のリライトで使う変換関数とモーションのメモを保持する。
type parameterRewriter struct {
	classify   ParameterClassifier
	rename     ParameterRenamer
	remapBind  BindingRemapper
	remapped   map[animator.Motion]animator.Motion
	cloneCount int
}

// newParameterRewriter はリライターを生成する。
func newParameterRewriter(classify ParameterClassifier, rename ParameterRenamer, remapBind BindingRemapper) *parameterRewriter {
	return &parameterRewriter{
		classify:  classify,
		rename:    rename,
		remapBind: remapBind,
		remapped:  map[animator.Motion]animator.Motion{},
	}
}

// RewriteParameters はコントローラー全体のパラメーター参照をリネームする。
// パラメーター一覧・条件・振る舞いはその場で書き換え、モーションは変更が必要なものだけ複製する。
// 戻り値は新規に生成したモーション数。
func RewriteParameters(controller *animator.AnimatorController, classify ParameterClassifier, rename ParameterRenamer) int {
	return RewriteParametersAndBindings(controller, classify, rename, nil)
}

// RewriteParametersAndBindings は RewriteParameters に加え、パラメーター以外のカーブ対象も remapBind で置換する。
func RewriteParametersAndBindings(
	controller *animator.AnimatorController,
	classify ParameterClassifier,
	rename ParameterRenamer,
	remapBind BindingRemapper,
) int {
	r := newParameterRewriter(classify, rename, remapBind)
	r.rewriteController(controller)
	return r.cloneCount
}

// renamed はパラメーター名をリネームする。空名はそのまま返す。
func (r *parameterRewriter) renamed(name string) string {
	if name == "" {
		return name
	}
	var flags RenameFlags
	if r.classify != nil {
		flags = r.classify(name)
	}
	if r.rename == nil {
		return name
	}
	return r.rename(name, flags)
}

// rewriteController はパラメーター一覧と全レイヤーを書き換える。
func (r *parameterRewriter) rewriteController(controller *animator.AnimatorController) {
	if controller == nil {
		return
	}
	r.rewriteParameterList(controller)
	for _, layer := range controller.Layers {
		r.rewriteStateMachine(layer.StateMachine)
	}
}

// rewriteParameterList はパラメーター名を書き換え、リネームで衝突した後続を除外する。
func (r *parameterRewriter) rewriteParameterList(controller *animator.AnimatorController) {
	changed := false
	for _, p := range controller.Parameters {
		name := r.renamed(p.Name)
		if name != p.Name {
			p.Name = name
			changed = true
		}
	}
	if !changed {
		return
	}
	seen := make(map[string]struct{}, len(controller.Parameters))
	kept := controller.Parameters[:0]
	for _, p := range controller.Parameters {
		if _, exists := seen[p.Name]; exists {
			continue
		}
		seen[p.Name] = struct{}{}
		kept = append(kept, p)
	}
	controller.Parameters = kept
}

// rewriteStateMachine はグラフ配下の条件・ステート・振る舞いを書き換える。
func (r *parameterRewriter) rewriteStateMachine(machine *animator.StateMachine) {
	if machine == nil {
		return
	}
	machine.WalkTransitions(func(t *animator.Transition) {
		for i := range t.Conditions {
			t.Conditions[i].Parameter = r.renamed(t.Conditions[i].Parameter)
		}
	})
	machine.WalkStateMachines(func(m *animator.StateMachine) {
		r.rewriteBehaviours(m.Behaviours)
	})
	machine.WalkStates(func(_ *animator.StateMachine, state *animator.State) {
		state.SpeedParameter = r.renamed(state.SpeedParameter)
		state.CycleOffsetParameter = r.renamed(state.CycleOffsetParameter)
		state.MirrorParameter = r.renamed(state.MirrorParameter)
		state.TimeParameter = r.renamed(state.TimeParameter)
		state.Motion = r.rewriteMotion(state.Motion)
		r.rewriteBehaviours(state.Behaviours)
	})
}

// rewriteBehaviours はドライバー系の振る舞いの被演算子名を書き換える。
func (r *parameterRewriter) rewriteBehaviours(behaviours []animator.Behaviour) {
	for _, behaviour := range behaviours {
		switch b := behaviour.(type) {
		case *animator.VrcParameterDriver:
			for i := range b.Parameters {
				b.Parameters[i].Name = r.renamed(b.Parameters[i].Name)
				b.Parameters[i].Source = r.renamed(b.Parameters[i].Source)
			}
		case *animator.CvrAnimatorDriver:
			r.rewriteDriverTasks(b.EnterTasks)
			r.rewriteDriverTasks(b.ExitTasks)
		case *animator.VrcLocomotionControl, *animator.VrcTrackingControl, *animator.VrcPlayableLayerControl,
			*animator.VrcAnimatorLayerControl, *animator.CvrBodyControl:
		default:
			panic(fmt.Sprintf("未知の振る舞い型です: %T", behaviour))
		}
	}
}

// rewriteDriverTasks はCVRドライバータスクの対象名と被演算子名を書き換える。
func (r *parameterRewriter) rewriteDriverTasks(tasks []animator.DriverTask) {
	for i := range tasks {
		tasks[i].TargetName = r.renamed(tasks[i].TargetName)
		if tasks[i].AType == animator.DRIVER_SOURCE_PARAMETER {
			tasks[i].AName = r.renamed(tasks[i].AName)
		}
		if tasks[i].BType == animator.DRIVER_SOURCE_PARAMETER {
			tasks[i].BName = r.renamed(tasks[i].BName)
		}
	}
}

// rewriteMotion はモーションを書き換える。変更が無ければ同じインスタンスを返す。
func (r *parameterRewriter) rewriteMotion(motion animator.Motion) animator.Motion {
	if motion == nil {
		return nil
	}
	if done, ok := r.remapped[motion]; ok {
		return done
	}
	var result animator.Motion
	switch m := motion.(type) {
	case *animator.BlendTree:
		result = r.rewriteBlendTree(m)
	case *animator.AnimationClip:
		result = r.rewriteClip(m)
	default:
		panic(fmt.Sprintf("未知のモーション型です: %T", motion))
	}
	r.remapped[motion] = result
	return result
}

// rewriteBlendTree はブレンドパラメーターと子モーションを書き換える。変更時だけ浅い複製を作る。
func (r *parameterRewriter) rewriteBlendTree(tree *animator.BlendTree) animator.Motion {
	blendParameter := r.renamed(tree.BlendParameter)
	blendParameterY := r.renamed(tree.BlendParameterY)
	changed := blendParameter != tree.BlendParameter || blendParameterY != tree.BlendParameterY

	children := make([]animator.ChildMotion, len(tree.Children))
	for i, child := range tree.Children {
		children[i] = child
		children[i].Motion = r.rewriteMotion(child.Motion)
		children[i].DirectBlendParameter = r.renamed(child.DirectBlendParameter)
		if children[i].Motion != child.Motion || children[i].DirectBlendParameter != child.DirectBlendParameter {
			changed = true
		}
	}
	if !changed {
		return tree
	}

	copied := (&motionCloner{}).cloneBlendTree(tree, false)
	copied.Name = tree.Name + remappedMotionSuffix
	copied.BlendParameter = blendParameter
	copied.BlendParameterY = blendParameterY
	copied.Children = children
	r.cloneCount++
	return copied
}

// rewriteClip はアニメーター面のカーブ対象をリネームし、その他の対象を置換する。変更時だけ複製を作る。
func (r *parameterRewriter) rewriteClip(clip *animator.AnimationClip) animator.Motion {
	bindings := make([]animator.CurveBinding, len(clip.Curves))
	changed := false
	for i, curve := range clip.Curves {
		bindings[i] = r.rewriteBinding(curve.Binding)
		if bindings[i] != curve.Binding {
			changed = true
		}
	}
	objectBindings := make([]animator.CurveBinding, len(clip.ObjectCurves))
	for i, curve := range clip.ObjectCurves {
		objectBindings[i] = r.rewriteBinding(curve.Binding)
		if objectBindings[i] != curve.Binding {
			changed = true
		}
	}
	if !changed {
		return clip
	}

	copied := CloneAnimationClip(clip)
	copied.Name = clip.Name + remappedMotionSuffix
	for i := range copied.Curves {
		copied.Curves[i].Binding = bindings[i]
	}
	for i := range copied.ObjectCurves {
		copied.ObjectCurves[i].Binding = objectBindings[i]
	}
	r.cloneCount++
	return copied
}

// rewriteBinding はカーブ対象を書き換える。
func (r *parameterRewriter) rewriteBinding(binding animator.CurveBinding) animator.CurveBinding {
	if binding.IsAnimatorParameter() {
		binding.Property = r.renamed(binding.Property)
		return binding
	}
	if r.remapBind != nil {
		if remapped, ok := r.remapBind(binding); ok {
			return remapped
		}
	}
	return binding
}
