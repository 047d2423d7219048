// 指示: miu200521358
package animator

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// newClosedMachine は入れ子を含む閉じたグラフを生成する。
func newClosedMachine() (*StateMachine, *State, *StateMachine) {
	root := NewStateMachine("Root")
	idle := root.AddState("Idle", r3.Vec{})
	sub := root.AddStateMachine("Sub", r3.Vec{})
	inner := sub.AddState("Inner", r3.Vec{})
	root.DefaultState = idle
	sub.DefaultState = inner

	toSub := &Transition{}
	toSub.SetDestinationStateMachine(sub)
	idle.AddTransition(toSub)
	back := &Transition{}
	back.SetDestinationState(idle)
	inner.AddTransition(back)
	fromSub := &Transition{}
	fromSub.SetDestinationState(idle)
	root.AddStateMachineTransition(sub, fromSub)
	return root, idle, sub
}

func TestCheckClosedAcceptsNestedGraph(t *testing.T) {
	root, _, _ := newClosedMachine()
	if err := root.CheckClosed(); err != nil {
		t.Fatalf("closed graph should pass: %v", err)
	}
}

func TestCheckClosedRejectsOutsideReferences(t *testing.T) {
	tests := []struct {
		name  string
		build func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine)
	}{
		{
			name: "state destination",
			build: func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine) {
				tr := &Transition{}
				tr.SetDestinationState(other.States[0])
				idle.AddTransition(tr)
			},
		},
		{
			name: "state machine destination",
			build: func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine) {
				tr := &Transition{}
				tr.SetDestinationStateMachine(other)
				root.AddAnyStateTransition(tr)
			},
		},
		{
			name: "state machine transition source",
			build: func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine) {
				tr := &Transition{}
				tr.SetDestinationState(idle)
				root.AddStateMachineTransition(other, tr)
			},
		},
		{
			name: "default state",
			build: func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine) {
				sub.DefaultState = other.States[0]
			},
		},
		{
			name: "cycle",
			build: func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine) {
				sub.StateMachines = append(sub.StateMachines, root)
			},
		},
		{
			name: "state owned twice",
			build: func(root *StateMachine, idle *State, sub *StateMachine, other *StateMachine) {
				sub.States = append(sub.States, idle)
			},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			root, idle, sub := newClosedMachine()
			other := NewStateMachine("Other")
			other.AddState("Elsewhere", r3.Vec{})
			tc.build(root, idle, sub, other)
			if err := root.CheckClosed(); err == nil {
				t.Fatalf("outside reference should be rejected")
			}
		})
	}
}
