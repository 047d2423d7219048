// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/model"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

const (
	// PROXY_MOTION_PREFIX は組み込みモーションの代理クリップ名の接頭辞。
	PROXY_MOTION_PREFIX = "proxy_"
	// proxyHandsPrefix は両手ポーズの代理クリップ名の接頭辞。
	proxyHandsPrefix = PROXY_MOTION_PREFIX + "hands_"

	// BUILTIN_LEFT_HAND_PREFIX は左手ポーズの組み込みクリップキーの接頭辞。
	BUILTIN_LEFT_HAND_PREFIX = "left_hand_"
	// BUILTIN_RIGHT_HAND_PREFIX は右手ポーズの組み込みクリップキーの接頭辞。
	BUILTIN_RIGHT_HAND_PREFIX = "right_hand_"
	// BUILTIN_HANDS_RELAXED は脱力した手ポーズの組み込みクリップキー。
	BUILTIN_HANDS_RELAXED = "hands_relaxed"
)

// proxyMotionSource は代理クリップを置き換える組み込みクリップのキーを表す。
type proxyMotionSource struct {
	primary   string
	secondary string
	relaxed   string
}

// proxyMotionSourceOf は代理クリップ名から置換元キーを求める。代理クリップでなければfalse。
func proxyMotionSourceOf(name string) (proxyMotionSource, bool) {
	switch {
	case strings.HasPrefix(name, proxyHandsPrefix):
		pose := strings.TrimPrefix(name, proxyHandsPrefix)
		return proxyMotionSource{
			primary:   BUILTIN_LEFT_HAND_PREFIX + pose,
			secondary: BUILTIN_RIGHT_HAND_PREFIX + pose,
			relaxed:   BUILTIN_HANDS_RELAXED,
		}, pose != ""
	case strings.HasPrefix(name, PROXY_MOTION_PREFIX):
		key := strings.TrimPrefix(name, PROXY_MOTION_PREFIX)
		return proxyMotionSource{primary: key}, key != ""
	default:
		return proxyMotionSource{}, false
	}
}

// proxyMotionSubstituter は1回の置換で使う組み込みクリップ提供元とモーションのメモを保持する。
type proxyMotionSubstituter struct {
	session  *ConversionSession
	builtins moutput.IBuiltinMotionProvider
	done     map[animator.Motion]animator.Motion
}

// SubstituteProxyMotions はステートマシン配下の代理クリップを組み込みクリップに置き換える。
// ブレンドツリー内で置換が発生した場合はツリーを複製する。
func (s *ConversionSession) SubstituteProxyMotions(machine *animator.StateMachine, builtins moutput.IBuiltinMotionProvider) {
	if machine == nil || builtins == nil {
		return
	}
	p := &proxyMotionSubstituter{session: s, builtins: builtins, done: map[animator.Motion]animator.Motion{}}
	machine.WalkStates(func(_ *animator.StateMachine, state *animator.State) {
		state.Motion = p.substitute(state.Motion)
	})
}

// substitute はモーションを置換する。変更が無ければ同じインスタンスを返す。
func (p *proxyMotionSubstituter) substitute(motion animator.Motion) animator.Motion {
	if motion == nil {
		return nil
	}
	if result, ok := p.done[motion]; ok {
		return result
	}
	var result animator.Motion
	switch m := motion.(type) {
	case *animator.AnimationClip:
		result = m
		if clip, ok := p.session.builtinClipFor(m.Name, p.builtins); ok {
			result = clip
		}
	case *animator.BlendTree:
		result = p.substituteBlendTree(m)
	default:
		panic(fmt.Sprintf("未知のモーション型です: %T", motion))
	}
	p.done[motion] = result
	return result
}

// substituteBlendTree は子モーションを置換し、変更時だけ浅い複製を返す。
func (p *proxyMotionSubstituter) substituteBlendTree(tree *animator.BlendTree) animator.Motion {
	var copied *animator.BlendTree
	for i, child := range tree.Children {
		replaced := p.substitute(child.Motion)
		if replaced == child.Motion {
			continue
		}
		if copied == nil {
			copied = (&motionCloner{}).cloneBlendTree(tree, false)
		}
		copied.Children[i].Motion = replaced
	}
	if copied == nil {
		return tree
	}
	return copied
}

// builtinClipFor は代理クリップ名に対応する組み込みクリップを返す。
// 両手ポーズは左右のクリップを合成し、結果はセッション内で使い回す。
func (s *ConversionSession) builtinClipFor(name string, builtins moutput.IBuiltinMotionProvider) (*animator.AnimationClip, bool) {
	source, ok := proxyMotionSourceOf(name)
	if !ok {
		return nil, false
	}
	if cached, ok := s.proxyClips[name]; ok {
		return cached, cached != nil
	}

	primary, ok := builtins.BuiltinClip(source.primary)
	if !ok {
		s.proxyClips[name] = nil
		s.AddWarning(model.ConvertWarningBuiltinMotionMissing)
		logConvertWarn("組み込みモーションが見つかりません: %s (%s)", name, source.primary)
		return nil, false
	}
	result := primary
	if source.secondary != "" {
		secondary, ok := builtins.BuiltinClip(source.secondary)
		if !ok {
			s.proxyClips[name] = nil
			s.AddWarning(model.ConvertWarningBuiltinMotionMissing)
			logConvertWarn("組み込みモーションが見つかりません: %s (%s)", name, source.secondary)
			return nil, false
		}
		var relaxed *animator.AnimationClip
		if source.relaxed != "" {
			relaxed, _ = builtins.BuiltinClip(source.relaxed)
		}
		result = CombineClips(primary, secondary, relaxed)
		result.Name = strings.TrimPrefix(name, PROXY_MOTION_PREFIX)
	}
	s.proxyClips[name] = result
	return result, true
}

// CombineClips は2つのクリップのカーブを和集合で合成した新しいクリップを返す。
// 同じ対象のカーブは primary を優先する。2キーのカーブは1キー目を relaxed の同じ対象の1キー目から取り、
// relaxed に無い場合は元のカーブの1キー目を使う。2キー目は常に元のカーブの2キー目とする。
func CombineClips(primary *animator.AnimationClip, secondary *animator.AnimationClip, relaxed *animator.AnimationClip) *animator.AnimationClip {
	combined := CloneAnimationClip(primary)
	combined.Name = primary.Name + "_" + secondary.Name
	combined.Curves = combined.Curves[:0]

	appendCurve := func(curve animator.FloatCurve) {
		keys := append([]animator.Keyframe(nil), curve.Curve.Keys...)
		if len(keys) == 2 && relaxed != nil {
			if rest, ok := relaxed.FindCurve(curve.Binding); ok && len(rest.Curve.Keys) > 0 {
				first := rest.Curve.Keys[0]
				first.Time = keys[0].Time
				keys[0] = first
			}
		}
		curve.Curve.Keys = keys
		combined.Curves = append(combined.Curves, curve)
	}
	for _, curve := range primary.Curves {
		appendCurve(curve)
	}
	for _, curve := range secondary.Curves {
		if _, exists := primary.FindCurve(curve.Binding); exists {
			continue
		}
		appendCurve(curve)
	}

	seen := make(map[animator.CurveBinding]struct{}, len(combined.ObjectCurves))
	for _, curve := range combined.ObjectCurves {
		seen[curve.Binding] = struct{}{}
	}
	for _, curve := range secondary.ObjectCurves {
		if _, exists := seen[curve.Binding]; exists {
			continue
		}
		combined.ObjectCurves = append(combined.ObjectCurves, animator.ObjectCurve{
			Binding: curve.Binding,
			Keys:    append([]animator.ObjectKeyframe(nil), curve.Keys...),
		})
	}
	combined.Events = append(combined.Events, secondary.Events...)
	return combined
}
