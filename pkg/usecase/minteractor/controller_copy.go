// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

// StateMap は複製元ステートから複製先ステートへの対応表。
type StateMap map[*animator.State]*animator.State

// StateMachineMap は複製元ステートマシンから複製先ステートマシンへの対応表。
type StateMachineMap map[*animator.StateMachine]*animator.StateMachine

// stateMachineCloner は1回の複製で使う対応表を保持する。
type stateMachineCloner struct {
	motions  *motionCloner
	states   StateMap
	machines StateMachineMap
}

// CloneStateMachine はステートマシンを同型に複製し、対応表と共に返す。
// 構造(ステート・サブステートマシン)を全て作ってから遷移を張るため、前方参照や上位への遷移も解決できる。
func CloneStateMachine(
	source *animator.StateMachine,
	storage moutput.IAssetStorage,
	controllerPath string,
) (*animator.StateMachine, StateMap, StateMachineMap) {
	return cloneStateMachineWith(source, newMotionCloner(storage, controllerPath))
}

// cloneStateMachineWith は指定のモーション複製器で複製する。
func cloneStateMachineWith(source *animator.StateMachine, motions *motionCloner) (*animator.StateMachine, StateMap, StateMachineMap) {
	if source == nil {
		return nil, StateMap{}, StateMachineMap{}
	}
	c := &stateMachineCloner{
		motions:  motions,
		states:   StateMap{},
		machines: StateMachineMap{},
	}
	copied := c.copyStructure(source)
	c.copyEdges(source)
	c.copyBehaviours(source)
	return copied, c.states, c.machines
}

// copyStructure はステートマシンとステートを遷移なしで再帰的に複製する。
func (c *stateMachineCloner) copyStructure(source *animator.StateMachine) *animator.StateMachine {
	copied := &animator.StateMachine{
		Name:                       source.Name,
		Position:                   source.Position,
		AnyStatePosition:           source.AnyStatePosition,
		EntryPosition:              source.EntryPosition,
		ExitPosition:               source.ExitPosition,
		ParentStateMachinePosition: source.ParentStateMachinePosition,
		States:                     make([]*animator.State, 0, len(source.States)),
		StateMachines:              make([]*animator.StateMachine, 0, len(source.StateMachines)),
	}
	c.machines[source] = copied

	for _, state := range source.States {
		copiedState := c.copyState(state)
		c.states[state] = copiedState
		copied.States = append(copied.States, copiedState)
	}
	for _, child := range source.StateMachines {
		copied.StateMachines = append(copied.StateMachines, c.copyStructure(child))
	}
	return copied
}

// copyState はステートのスカラー値とモーションを複製する。
func (c *stateMachineCloner) copyState(source *animator.State) *animator.State {
	return &animator.State{
		Name:                       source.Name,
		Tag:                        source.Tag,
		Position:                   source.Position,
		Speed:                      source.Speed,
		SpeedParameter:             source.SpeedParameter,
		SpeedParameterActive:       source.SpeedParameterActive,
		CycleOffset:                source.CycleOffset,
		CycleOffsetParameter:       source.CycleOffsetParameter,
		CycleOffsetParameterActive: source.CycleOffsetParameterActive,
		Mirror:                     source.Mirror,
		MirrorParameter:            source.MirrorParameter,
		MirrorParameterActive:      source.MirrorParameterActive,
		TimeParameter:              source.TimeParameter,
		TimeParameterActive:        source.TimeParameterActive,
		WriteDefaultValues:         source.WriteDefaultValues,
		IKOnFeet:                   source.IKOnFeet,
		Motion:                     c.motions.CloneMotionIfInline(source.Motion),
		Transitions:                make([]*animator.Transition, 0, len(source.Transitions)),
	}
}

// copyEdges は遷移と既定ステートを対応表経由で張り直す。
func (c *stateMachineCloner) copyEdges(source *animator.StateMachine) {
	copied := c.mustMachine(source)

	for _, t := range source.AnyStateTransitions {
		copied.AnyStateTransitions = append(copied.AnyStateTransitions, c.copyTransition(t))
	}
	for _, t := range source.EntryTransitions {
		copied.EntryTransitions = append(copied.EntryTransitions, c.copyTransition(t))
	}
	for _, set := range source.StateMachineTransitions {
		copiedSource := c.mustMachine(set.Source)
		for _, t := range set.Transitions {
			copied.AddStateMachineTransition(copiedSource, c.copyTransition(t))
		}
	}
	for _, state := range source.States {
		copiedState := c.mustState(state)
		for _, t := range state.Transitions {
			copiedState.AddTransition(c.copyTransition(t))
		}
	}
	if source.DefaultState != nil {
		if state, ok := c.states[source.DefaultState]; ok && copied.HasState(state) {
			copied.DefaultState = state
		}
	}

	for _, child := range source.StateMachines {
		c.copyEdges(child)
	}
}

// copyTransition は遷移を複製し、遷移先を対応表で解決する。
func (c *stateMachineCloner) copyTransition(source *animator.Transition) *animator.Transition {
	copied := source.CopySettings()
	copied.Conditions = append([]animator.Condition(nil), source.Conditions...)
	switch {
	case source.DestinationState() != nil:
		copied.SetDestinationState(c.mustState(source.DestinationState()))
	case source.DestinationStateMachine() != nil:
		copied.SetDestinationStateMachine(c.mustMachine(source.DestinationStateMachine()))
	}
	return copied
}

// copyBehaviours はステートとステートマシンの振る舞いを種別ごとに複製する。
func (c *stateMachineCloner) copyBehaviours(source *animator.StateMachine) {
	copied := c.mustMachine(source)
	copied.Behaviours = cloneBehaviours(source.Behaviours)
	for _, state := range source.States {
		c.mustState(state).Behaviours = cloneBehaviours(state.Behaviours)
	}
	for _, child := range source.StateMachines {
		c.copyBehaviours(child)
	}
}

// mustState は対応表からステートを引く。見つからない場合は複製手順の不整合なので停止する。
func (c *stateMachineCloner) mustState(source *animator.State) *animator.State {
	copied, ok := c.states[source]
	if !ok {
		panic(fmt.Sprintf("複製対応表にステートがありません: %s", source.Name))
	}
	return copied
}

// mustMachine は対応表からステートマシンを引く。見つからない場合は複製手順の不整合なので停止する。
func (c *stateMachineCloner) mustMachine(source *animator.StateMachine) *animator.StateMachine {
	copied, ok := c.machines[source]
	if !ok {
		panic(fmt.Sprintf("複製対応表にステートマシンがありません: %s", source.Name))
	}
	return copied
}

// CloneController はパラメーター・レイヤー・各レイヤーのグラフを複製したコントローラーを返す。
// マスクは参照を引き継ぐ。
func CloneController(
	source *animator.AnimatorController,
	storage moutput.IAssetStorage,
	controllerPath string,
) *animator.AnimatorController {
	if source == nil {
		return nil
	}
	motions := newMotionCloner(storage, controllerPath)
	copied := animator.NewAnimatorController(source.Name)
	for _, p := range source.Parameters {
		copied.Parameters = append(copied.Parameters, p.Copy())
	}
	for _, layer := range source.Layers {
		machine, _, _ := cloneStateMachineWith(layer.StateMachine, motions)
		copied.Layers = append(copied.Layers, &animator.Layer{
			Name:                layer.Name,
			StateMachine:        machine,
			DefaultWeight:       layer.DefaultWeight,
			BlendMode:           layer.BlendMode,
			Mask:                layer.Mask,
			IKPass:              layer.IKPass,
			SyncedLayerIndex:    layer.SyncedLayerIndex,
			SyncedAffectsTiming: layer.SyncedAffectsTiming,
		})
	}
	return copied
}
