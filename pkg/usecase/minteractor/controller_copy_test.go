// 指示: miu200521358
package minteractor

import (
	"reflect"
	"testing"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"gonum.org/v1/gonum/spatial/r3"
)

// assertIsomorphic は同じ深さごとにステート・サブステートマシン・遷移の数と既定ステート有無が一致するかを検証する。
func assertIsomorphic(t *testing.T, source *animator.StateMachine, copied *animator.StateMachine) {
	t.Helper()
	if source.Name != copied.Name {
		t.Fatalf("machine name mismatch: got=%s want=%s", copied.Name, source.Name)
	}
	if len(source.States) != len(copied.States) {
		t.Fatalf("state count mismatch in %s: got=%d want=%d", source.Name, len(copied.States), len(source.States))
	}
	if len(source.StateMachines) != len(copied.StateMachines) {
		t.Fatalf("sub machine count mismatch in %s: got=%d want=%d", source.Name, len(copied.StateMachines), len(source.StateMachines))
	}
	if len(source.AnyStateTransitions) != len(copied.AnyStateTransitions) ||
		len(source.EntryTransitions) != len(copied.EntryTransitions) ||
		len(source.StateMachineTransitions) != len(copied.StateMachineTransitions) {
		t.Fatalf("machine transition count mismatch in %s", source.Name)
	}
	if (source.DefaultState == nil) != (copied.DefaultState == nil) {
		t.Fatalf("default state presence mismatch in %s", source.Name)
	}
	for i, state := range source.States {
		if state.Name != copied.States[i].Name {
			t.Fatalf("state order mismatch: got=%s want=%s", copied.States[i].Name, state.Name)
		}
		if len(state.Transitions) != len(copied.States[i].Transitions) {
			t.Fatalf("state transition count mismatch in %s: got=%d want=%d", state.Name, len(copied.States[i].Transitions), len(state.Transitions))
		}
	}
	for i, child := range source.StateMachines {
		assertIsomorphic(t, child, copied.StateMachines[i])
	}
}

func TestCloneStateMachineIsIsomorphic(t *testing.T) {
	source := buildNestedMachine()
	copied, states, machines := CloneStateMachine(source, nil, "")

	assertIsomorphic(t, source, copied)
	if len(states) != source.StateCount() {
		t.Fatalf("state map size mismatch: got=%d want=%d", len(states), source.StateCount())
	}
	if len(machines) != len(collectMachines(source)) {
		t.Fatalf("machine map size mismatch: got=%d want=%d", len(machines), len(collectMachines(source)))
	}
	if countTransitions(copied) != countTransitions(source) {
		t.Fatalf("transition count mismatch: got=%d want=%d", countTransitions(copied), countTransitions(source))
	}
	if copied.DefaultState != states[source.DefaultState] {
		t.Fatalf("default state should resolve through state map")
	}
}

func TestCloneStateMachineHasNoDanglingReferences(t *testing.T) {
	source := buildNestedMachine()
	copied, _, _ := CloneStateMachine(source, nil, "")

	copiedStates := collectStates(copied)
	copiedMachines := collectMachines(copied)
	sourceStates := collectStates(source)
	sourceMachines := collectMachines(source)

	copied.WalkTransitions(func(transition *animator.Transition) {
		if state := transition.DestinationState(); state != nil {
			if _, ok := copiedStates[state]; !ok {
				t.Fatalf("transition destination state is outside cloned graph: %s", state.Name)
			}
			if _, ok := sourceStates[state]; ok {
				t.Fatalf("transition destination points into source graph: %s", state.Name)
			}
		}
		if machine := transition.DestinationStateMachine(); machine != nil {
			if _, ok := copiedMachines[machine]; !ok {
				t.Fatalf("transition destination machine is outside cloned graph: %s", machine.Name)
			}
			if _, ok := sourceMachines[machine]; ok {
				t.Fatalf("transition destination machine points into source graph: %s", machine.Name)
			}
		}
	})
	for _, set := range copied.StateMachineTransitions {
		if _, ok := copiedMachines[set.Source]; !ok {
			t.Fatalf("state machine transition source is outside cloned graph: %s", set.Source.Name)
		}
	}
	copied.WalkStateMachines(func(machine *animator.StateMachine) {
		if machine.DefaultState != nil && !machine.HasState(machine.DefaultState) {
			t.Fatalf("default state must be a direct member: %s", machine.Name)
		}
	})
}

func TestCloneStateMachinePreservesTransitionSettings(t *testing.T) {
	source := buildNestedMachine()
	copied, _, _ := CloneStateMachine(source, nil, "")

	sourceTransition := source.States[1].Transitions[0]
	copiedTransition := copied.States[1].Transitions[0]
	if copiedTransition == sourceTransition {
		t.Fatalf("transition should be a new instance")
	}
	if copiedTransition.ExitTime != sourceTransition.ExitTime || copiedTransition.Duration != sourceTransition.Duration {
		t.Fatalf("transition settings mismatch: got=%+v want=%+v", copiedTransition, sourceTransition)
	}
	if !reflect.DeepEqual(copiedTransition.Conditions, sourceTransition.Conditions) {
		t.Fatalf("conditions mismatch: got=%v want=%v", copiedTransition.Conditions, sourceTransition.Conditions)
	}
	copiedTransition.Conditions[0].Parameter = "Changed"
	if sourceTransition.Conditions[0].Parameter != "Back" {
		t.Fatalf("conditions should not be shared with source")
	}

	exit := copied.StateMachines[0].StateMachines[0].States[0].Transitions[0]
	if !exit.IsExit || exit.HasDestination() {
		t.Fatalf("exit transition should keep exit flag without destination: %+v", exit)
	}
}

func TestCloneStateMachineCopiesBehavioursPerKind(t *testing.T) {
	source := buildNestedMachine()
	copied, states, machines := CloneStateMachine(source, nil, "")

	sourceDriver := source.States[0].Behaviours[0].(*animator.VrcParameterDriver)
	copiedDriver, ok := states[source.States[0]].Behaviours[0].(*animator.VrcParameterDriver)
	if !ok {
		t.Fatalf("behaviour kind mismatch: %T", states[source.States[0]].Behaviours[0])
	}
	if copiedDriver == sourceDriver {
		t.Fatalf("behaviour should be a new instance")
	}
	if !reflect.DeepEqual(copiedDriver, sourceDriver) {
		t.Fatalf("behaviour fields mismatch: got=%+v want=%+v", copiedDriver, sourceDriver)
	}
	copiedDriver.Parameters[0].Name = "Changed"
	if sourceDriver.Parameters[0].Name != "Back" {
		t.Fatalf("driver parameters should not be shared with source")
	}

	sub := source.StateMachines[0]
	if _, ok := machines[sub].Behaviours[0].(*animator.VrcLocomotionControl); !ok {
		t.Fatalf("state machine behaviour kind mismatch: %T", machines[sub].Behaviours[0])
	}
	if copied.StateMachines[0] != machines[sub] {
		t.Fatalf("machine map should point at cloned sub machine")
	}
}

func TestCloneStateMachinePanicsOnDestinationOutsideGraph(t *testing.T) {
	outside := animator.NewStateMachine("Outside").AddState("X", r3.Vec{})
	source := animator.NewStateMachine("Root")
	state := source.AddState("A", r3.Vec{})
	state.AddTransition(newTransitionTo(outside))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for destination outside graph")
		}
	}()
	CloneStateMachine(source, nil, "")
}

func TestCloneControllerKeepsLayerSettings(t *testing.T) {
	mask := animator.NewAvatarMask("Arms", animator.BODY_PART_LEFT_ARM)
	source := animator.NewAnimatorController("Src")
	source.AddParameter(&animator.Parameter{Name: "Speed", Type: animator.PARAMETER_TYPE_FLOAT, DefaultFloat: 2})
	layer := newSingleStateLayer("Base", nil)
	layer.Mask = mask
	layer.IKPass = true
	layer.BlendMode = animator.LAYER_BLEND_ADDITIVE
	source.AddLayer(layer)

	copied := CloneController(source, nil, "")
	if copied.Parameters[0] == source.Parameters[0] {
		t.Fatalf("parameters should be copied")
	}
	if copied.Parameters[0].DefaultFloat != 2 {
		t.Fatalf("parameter default mismatch: got=%v", copied.Parameters[0].DefaultFloat)
	}
	got := copied.Layers[0]
	if got.Mask != mask || !got.IKPass || got.BlendMode != animator.LAYER_BLEND_ADDITIVE || got.SyncedLayerIndex != animator.NO_SYNCED_LAYER {
		t.Fatalf("layer settings mismatch: %+v", got)
	}
	if got.StateMachine == layer.StateMachine {
		t.Fatalf("layer graph should be cloned")
	}
}
