// 指示: miu200521358
package minteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/model"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

// newDriverController はドライバー変換用のパラメーターを持つコントローラーを生成する。
func newDriverController() *animator.AnimatorController {
	controller := animator.NewAnimatorController("Driver")
	controller.AddParameter(&animator.Parameter{Name: "Toggle", Type: animator.PARAMETER_TYPE_BOOL})
	controller.AddParameter(&animator.Parameter{Name: "Count", Type: animator.PARAMETER_TYPE_INT})
	controller.AddParameter(&animator.Parameter{Name: "Blend", Type: animator.PARAMETER_TYPE_FLOAT})
	controller.AddParameter(&animator.Parameter{Name: "Source", Type: animator.PARAMETER_TYPE_FLOAT})
	return controller
}

// convertSingleState は1ステートに振る舞いを付けて変換し、変換後の振る舞いを返す。
func convertSingleState(
	t *testing.T,
	s *ConversionSession,
	controller *animator.AnimatorController,
	behaviours ...animator.Behaviour,
) []animator.Behaviour {
	t.Helper()
	machine := animator.NewStateMachine("Root")
	state := machine.AddState("S", r3.Vec{})
	state.Behaviours = behaviours
	if err := s.ConvertBehaviours(machine, controller, "Layer"); err != nil {
		t.Fatalf("ConvertBehaviours failed: %v", err)
	}
	return state.Behaviours
}

func singleDriverTasks(t *testing.T, behaviours []animator.Behaviour) []animator.DriverTask {
	t.Helper()
	if len(behaviours) != 1 {
		t.Fatalf("behaviour count mismatch: got=%d want=1", len(behaviours))
	}
	driver, ok := behaviours[0].(*animator.CvrAnimatorDriver)
	if !ok {
		t.Fatalf("behaviour type mismatch: got=%T", behaviours[0])
	}
	return driver.EnterTasks
}

func TestConvertParameterDriverOperations(t *testing.T) {
	tests := []struct {
		name   string
		param  animator.DriverParameter
		expect animator.DriverTask
	}{
		{
			name:  "set",
			param: animator.DriverParameter{Type: animator.DRIVER_CHANGE_SET, Name: "Count", Value: 3},
			expect: animator.DriverTask{TargetName: "Count", TargetType: animator.PARAMETER_TYPE_INT,
				Op: animator.DRIVER_OP_SET, AType: animator.DRIVER_SOURCE_STATIC, AValue: 3},
		},
		{
			name:  "add",
			param: animator.DriverParameter{Type: animator.DRIVER_CHANGE_ADD, Name: "Blend", Value: 0.25},
			expect: animator.DriverTask{TargetName: "Blend", TargetType: animator.PARAMETER_TYPE_FLOAT,
				Op: animator.DRIVER_OP_ADDITION, AType: animator.DRIVER_SOURCE_PARAMETER, AName: "Blend",
				AParamType: animator.PARAMETER_TYPE_FLOAT, BType: animator.DRIVER_SOURCE_STATIC, BValue: 0.25},
		},
		{
			name:  "random bool",
			param: animator.DriverParameter{Type: animator.DRIVER_CHANGE_RANDOM, Name: "Toggle", Chance: 0.3},
			expect: animator.DriverTask{TargetName: "Toggle", TargetType: animator.PARAMETER_TYPE_BOOL,
				Op: animator.DRIVER_OP_LESS_THAN, AType: animator.DRIVER_SOURCE_RANDOM, AValue: 0, AMax: 1,
				BType: animator.DRIVER_SOURCE_STATIC, BValue: 0.3},
		},
		{
			name:  "random int",
			param: animator.DriverParameter{Type: animator.DRIVER_CHANGE_RANDOM, Name: "Count", ValueMin: 2, ValueMax: 5},
			expect: animator.DriverTask{TargetName: "Count", TargetType: animator.PARAMETER_TYPE_INT,
				Op: animator.DRIVER_OP_SET, AType: animator.DRIVER_SOURCE_RANDOM, AValue: 2, AMax: 5},
		},
		{
			name:  "copy",
			param: animator.DriverParameter{Type: animator.DRIVER_CHANGE_COPY, Name: "Blend", Source: "Source"},
			expect: animator.DriverTask{TargetName: "Blend", TargetType: animator.PARAMETER_TYPE_FLOAT,
				Op: animator.DRIVER_OP_SET, AType: animator.DRIVER_SOURCE_PARAMETER, AName: "Source",
				AParamType: animator.PARAMETER_TYPE_FLOAT},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := NewConversionSession()
			got := singleDriverTasks(t, convertSingleState(t, s, newDriverController(),
				&animator.VrcParameterDriver{Parameters: []animator.DriverParameter{tc.param}}))
			if len(got) != 1 {
				t.Fatalf("task count mismatch: got=%d want=1", len(got))
			}
			if got[0] != tc.expect {
				t.Fatalf("task mismatch: got=%+v want=%+v", got[0], tc.expect)
			}
		})
	}
}

func TestConvertCopyWithRangeSplitsIntoScaleAndOffset(t *testing.T) {
	s := NewConversionSession()
	param := animator.DriverParameter{
		Type: animator.DRIVER_CHANGE_COPY, Name: "Blend", Source: "Source", ConvertRange: true,
		SourceMin: 0, SourceMax: 10, DestMin: -1, DestMax: 1,
	}
	tasks := singleDriverTasks(t, convertSingleState(t, s, newDriverController(),
		&animator.VrcParameterDriver{LocalOnly: true, Parameters: []animator.DriverParameter{param}}))
	if len(tasks) != 2 {
		t.Fatalf("task count mismatch: got=%d want=2", len(tasks))
	}
	scale, offset := tasks[0], tasks[1]
	if scale.Op != animator.DRIVER_OP_MULTIPLICATION || scale.AName != "Source" || math.Abs(scale.BValue-0.2) > 1e-9 {
		t.Fatalf("scale task mismatch: %+v", scale)
	}
	if offset.Op != animator.DRIVER_OP_ADDITION || offset.AName != "Blend" || math.Abs(offset.BValue-(-1)) > 1e-9 {
		t.Fatalf("offset task mismatch: %+v", offset)
	}

	// src=5 -> 0 を2タスクの順次適用で確認する
	dst := 5 * scale.BValue
	dst += offset.BValue
	if math.Abs(dst) > 1e-9 {
		t.Fatalf("range conversion mismatch: got=%v want=0", dst)
	}
}

func TestConvertCopyWithDegenerateRangeUsesZeroFactor(t *testing.T) {
	s := NewConversionSession()
	param := animator.DriverParameter{
		Type: animator.DRIVER_CHANGE_COPY, Name: "Blend", Source: "Source", ConvertRange: true,
		SourceMin: 2, SourceMax: 2, DestMin: 0.5, DestMax: 1,
	}
	tasks := singleDriverTasks(t, convertSingleState(t, s, newDriverController(),
		&animator.VrcParameterDriver{Parameters: []animator.DriverParameter{param}}))
	if tasks[0].BValue != 0 {
		t.Fatalf("factor mismatch: got=%v want=0", tasks[0].BValue)
	}
	if tasks[1].BValue != 0.5 {
		t.Fatalf("offset mismatch: got=%v want=0.5", tasks[1].BValue)
	}
}

func TestConvertParameterDriverMissingTargetIsSkipped(t *testing.T) {
	s := NewConversionSession()
	got := convertSingleState(t, s, newDriverController(), &animator.VrcParameterDriver{
		Parameters: []animator.DriverParameter{
			{Type: animator.DRIVER_CHANGE_SET, Name: "Missing", Value: 1},
			{Type: animator.DRIVER_CHANGE_COPY, Name: "Blend", Source: "AlsoMissing"},
		},
	})
	if len(got) != 0 {
		t.Fatalf("driver without tasks should be removed: %v", got)
	}
	if !s.HasWarning(model.ConvertWarningDriverTargetMissing) {
		t.Fatalf("missing target warning should be recorded: %v", s.Warnings())
	}
}

func TestConvertParameterDriverInvalidTypeFails(t *testing.T) {
	s := NewConversionSession()
	controller := newDriverController()
	controller.AddParameter(&animator.Parameter{Name: "Broken", Type: animator.ParameterType(7)})

	machine := animator.NewStateMachine("Root")
	state := machine.AddState("S", r3.Vec{})
	state.Behaviours = []animator.Behaviour{&animator.VrcParameterDriver{
		Parameters: []animator.DriverParameter{{Type: animator.DRIVER_CHANGE_SET, Name: "Broken"}},
	}}
	err := s.ConvertBehaviours(machine, controller, "Layer")
	if merr.ExtractErrorID(err) != merr.ErrorIDUnknownValueType {
		t.Fatalf("invalid type should be rejected: %v", err)
	}
}

func TestConvertBehavioursDropsLayerControls(t *testing.T) {
	s := NewConversionSession()
	kept := &animator.CvrBodyControl{EnterTasks: []animator.BodyControlTask{{Target: animator.BODY_CONTROL_HEAD}}}
	got := convertSingleState(t, s, newDriverController(),
		&animator.VrcPlayableLayerControl{Layer: 1, GoalWeight: 1},
		kept,
		&animator.VrcAnimatorLayerControl{Layer: 2},
	)
	if len(got) != 1 || got[0] != kept {
		t.Fatalf("only existing body control should remain: %v", got)
	}
	dropped := s.DroppedBehaviours()
	if len(dropped) != 2 || dropped[0] != "Layer/Root/S: VRCPlayableLayerControl" {
		t.Fatalf("dropped record mismatch: %v", dropped)
	}
	if !s.HasWarning(model.ConvertWarningBehaviourDropped) {
		t.Fatalf("dropped behaviour warning should be recorded")
	}
}

func TestConvertLocomotionAndTrackingControl(t *testing.T) {
	s := NewConversionSession()
	got := convertSingleState(t, s, newDriverController(),
		&animator.VrcLocomotionControl{DisableLocomotion: true},
		&animator.VrcTrackingControl{
			TrackingHead:        animator.TRACKING_TYPE_ANIMATION,
			TrackingLeftHand:    animator.TRACKING_TYPE_TRACKING,
			TrackingLeftFingers: animator.TRACKING_TYPE_ANIMATION,
		},
	)
	if len(got) != 2 {
		t.Fatalf("behaviour count mismatch: got=%d want=2", len(got))
	}
	locomotion := got[0].(*animator.CvrBodyControl)
	if locomotion.EnterTasks[0] != (animator.BodyControlTask{Target: animator.BODY_CONTROL_LOCOMOTION, Assignment: animator.BODY_CONTROL_ASSIGN_ANIMATION}) {
		t.Fatalf("locomotion task mismatch: %+v", locomotion.EnterTasks)
	}
	tracking := got[1].(*animator.CvrBodyControl)
	want := []animator.BodyControlTask{
		{Target: animator.BODY_CONTROL_HEAD, Assignment: animator.BODY_CONTROL_ASSIGN_ANIMATION},
		{Target: animator.BODY_CONTROL_LEFT_ARM, Assignment: animator.BODY_CONTROL_ASSIGN_TRACKING},
	}
	if len(tracking.EnterTasks) != len(want) {
		t.Fatalf("tracking task count mismatch: got=%+v want=%+v", tracking.EnterTasks, want)
	}
	for i := range want {
		if tracking.EnterTasks[i] != want[i] {
			t.Fatalf("tracking task %d mismatch: got=%+v want=%+v", i, tracking.EnterTasks[i], want[i])
		}
	}
	if !s.HasWarning(model.ConvertWarningTrackingPartIgnored) {
		t.Fatalf("ignored tracking part warning should be recorded")
	}
}

func TestConvertBehavioursCoversStateMachines(t *testing.T) {
	s := NewConversionSession()
	root := buildNestedMachine()
	controller := animator.NewAnimatorController("Nested")
	controller.AddParameter(&animator.Parameter{Name: "Back", Type: animator.PARAMETER_TYPE_BOOL})

	if err := s.ConvertBehaviours(root, controller, "Base"); err != nil {
		t.Fatalf("ConvertBehaviours failed: %v", err)
	}
	if _, ok := root.StateMachines[0].Behaviours[0].(*animator.CvrBodyControl); !ok {
		t.Fatalf("state machine behaviour should be converted: %T", root.StateMachines[0].Behaviours[0])
	}
	driver, ok := root.States[0].Behaviours[0].(*animator.CvrAnimatorDriver)
	if !ok || !driver.LocalOnly {
		t.Fatalf("state driver should be converted with local flag: %#v", root.States[0].Behaviours[0])
	}
}
