// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
	"github.com/pkg/errors"
)

// controllerPersister は1回の登録走査で使う保存先と訪問済み集合を保持する。
type controllerPersister struct {
	storage       moutput.IAssetStorage
	sink          moutput.IAssetSink
	containerPath string
	visited       map[any]struct{}
	count         int
}

// PersistController はコントローラーが所有する全オブジェクトを単一コンテナへ登録する。
// 独立アセットとして保存済みのものと登録済みのものは飛ばすため、同じ入力で何度呼んでも二重登録しない。
// 戻り値は新規登録数。
func PersistController(
	storage moutput.IAssetStorage,
	sink moutput.IAssetSink,
	controller *animator.AnimatorController,
	containerPath string,
) (int, error) {
	if controller == nil {
		return 0, nil
	}
	p := &controllerPersister{
		storage:       storage,
		sink:          sink,
		containerPath: containerPath,
		visited:       map[any]struct{}{},
	}
	if err := p.register(controller); err != nil {
		return p.count, err
	}
	for _, layer := range controller.Layers {
		if layer.Mask != nil {
			if err := p.register(layer.Mask); err != nil {
				return p.count, err
			}
		}
		if err := p.persistStateMachine(layer.StateMachine); err != nil {
			return p.count, err
		}
	}
	return p.count, nil
}

// register は未登録かつ独立保存されていないオブジェクトを登録する。
func (p *controllerPersister) register(obj any) error {
	if _, seen := p.visited[obj]; seen {
		return nil
	}
	p.visited[obj] = struct{}{}
	if p.isSkipped(obj) {
		return nil
	}
	if err := p.sink.AddObjectToAsset(obj, p.containerPath); err != nil {
		return errors.Wrapf(err, "アセット登録に失敗しました: %T", obj)
	}
	p.count++
	return nil
}

// isSkipped は独立アセットまたは登録済みのオブジェクトかを返す。
func (p *controllerPersister) isSkipped(obj any) bool {
	return p.sink.IsRegistered(obj) || p.isExternal(obj)
}

// persistStateMachine はステートマシン配下を深さ優先で登録する。
func (p *controllerPersister) persistStateMachine(machine *animator.StateMachine) error {
	if machine == nil {
		return nil
	}
	if err := p.register(machine); err != nil {
		return err
	}
	if err := p.persistBehaviours(machine.Behaviours); err != nil {
		return err
	}
	if err := p.persistTransitions(machine.AnyStateTransitions); err != nil {
		return err
	}
	if err := p.persistTransitions(machine.EntryTransitions); err != nil {
		return err
	}
	for _, set := range machine.StateMachineTransitions {
		if err := p.persistTransitions(set.Transitions); err != nil {
			return err
		}
	}
	for _, state := range machine.States {
		if err := p.register(state); err != nil {
			return err
		}
		if err := p.persistTransitions(state.Transitions); err != nil {
			return err
		}
		if err := p.persistBehaviours(state.Behaviours); err != nil {
			return err
		}
		if err := p.persistMotion(state.Motion); err != nil {
			return err
		}
	}
	for _, child := range machine.StateMachines {
		if err := p.persistStateMachine(child); err != nil {
			return err
		}
	}
	return nil
}

// persistTransitions は遷移を登録する。
func (p *controllerPersister) persistTransitions(transitions []*animator.Transition) error {
	for _, t := range transitions {
		if err := p.register(t); err != nil {
			return err
		}
	}
	return nil
}

// persistBehaviours は振る舞いを登録する。
func (p *controllerPersister) persistBehaviours(behaviours []animator.Behaviour) error {
	for _, b := range behaviours {
		if err := p.register(b); err != nil {
			return err
		}
	}
	return nil
}

// persistMotion は埋め込みモーションを登録する。独立アセットのブレンドツリーは子も辿らない。
func (p *controllerPersister) persistMotion(motion animator.Motion) error {
	switch m := motion.(type) {
	case nil:
		return nil
	case *animator.AnimationClip:
		return p.register(m)
	case *animator.BlendTree:
		if p.isExternal(m) {
			return nil
		}
		if err := p.register(m); err != nil {
			return err
		}
		for _, child := range m.Children {
			if err := p.persistMotion(child.Motion); err != nil {
				return err
			}
		}
		return nil
	default:
		panic(fmt.Sprintf("未知のモーション型です: %T", motion))
	}
}

// isExternal は別アセットとして保存済みかを返す。
func (p *controllerPersister) isExternal(obj any) bool {
	if p.storage == nil {
		return false
	}
	path, ok := p.storage.AssetPath(obj)
	return ok && path != p.containerPath
}
