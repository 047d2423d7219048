// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
	"gonum.org/v1/gonum/spatial/r3"
)

// memoryStorage はテスト用の保存先判定。
type memoryStorage struct {
	paths map[any]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{paths: map[any]string{}}
}

func (s *memoryStorage) AssetPath(obj any) (string, bool) {
	path, ok := s.paths[obj]
	return path, ok
}

// memorySink はテスト用の登録先。
type memorySink struct {
	registered map[any]string
	order      []any
	flushed    []string
}

func newMemorySink() *memorySink {
	return &memorySink{registered: map[any]string{}}
}

func (s *memorySink) AddObjectToAsset(obj any, containerPath string) error {
	if _, exists := s.registered[obj]; exists {
		return fmt.Errorf("double registration: %T", obj)
	}
	s.registered[obj] = containerPath
	s.order = append(s.order, obj)
	return nil
}

func (s *memorySink) IsRegistered(obj any) bool {
	_, ok := s.registered[obj]
	return ok
}

func (s *memorySink) Flush(containerPath string) error {
	s.flushed = append(s.flushed, containerPath)
	return nil
}

// memoryBuiltins はテスト用の組み込みモーション提供元。
type memoryBuiltins map[string]*animator.AnimationClip

func (b memoryBuiltins) BuiltinClip(key string) (*animator.AnimationClip, bool) {
	clip, ok := b[key]
	return clip, ok
}

// memoryControllerReader はテスト用のコントローラー読み込み。
type memoryControllerReader struct {
	*memoryStorage
	controllers map[string]*animator.AnimatorController
}

func (r *memoryControllerReader) LoadController(path string) (*animator.AnimatorController, error) {
	controller, ok := r.controllers[path]
	if !ok {
		return nil, fmt.Errorf("controller not found: %s", path)
	}
	return controller, nil
}

// memoryDescriptorReader はテスト用の記述子読み込み。
type memoryDescriptorReader map[string]*avatar.Descriptor

func (r memoryDescriptorReader) LoadDescriptor(path string) (*avatar.Descriptor, error) {
	descriptor, ok := r[path]
	if !ok {
		return nil, fmt.Errorf("descriptor not found: %s", path)
	}
	return descriptor, nil
}

// memoryReportWriter はテスト用のレポート出力先。
type memoryReportWriter struct {
	reports map[string]*moutput.ConvertReport
}

func (w *memoryReportWriter) WriteReport(path string, report *moutput.ConvertReport) error {
	if w.reports == nil {
		w.reports = map[string]*moutput.ConvertReport{}
	}
	w.reports[path] = report
	return nil
}

// progressRecorder はテスト用の進捗記録。
type progressRecorder struct {
	events []ConvertProgressEvent
}

func (r *progressRecorder) ReportConvertProgress(event ConvertProgressEvent) {
	r.events = append(r.events, event)
}

func (r *progressRecorder) count(eventType ConvertProgressEventType) int {
	n := 0
	for _, event := range r.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

// newTransitionTo は遷移先ステートと条件を持つ遷移を生成する。
func newTransitionTo(state *animator.State, conditions ...animator.Condition) *animator.Transition {
	t := &animator.Transition{Conditions: conditions, HasExitTime: true, ExitTime: 0.75, Duration: 0.25}
	t.SetDestinationState(state)
	return t
}

// newSingleStateLayer はステート1つのレイヤーを生成する。
func newSingleStateLayer(name string, motion animator.Motion) *animator.Layer {
	machine := animator.NewStateMachine(name)
	state := machine.AddState("Idle", r3.Vec{})
	state.Motion = motion
	return &animator.Layer{Name: name, StateMachine: machine, DefaultWeight: 0.5, SyncedLayerIndex: animator.NO_SYNCED_LAYER}
}

// buildNestedMachine は入れ子のステートマシンと前方・上位への遷移を持つグラフを生成する。
//
//	Root: A(default) -> Sub, B -> A, AnyState -> B, Entry -> A
//	Sub:  C(default) -> D, D -> B (上位への遷移), Sub起点 -> A
//	Sub/Deep: E
func buildNestedMachine() *animator.StateMachine {
	root := animator.NewStateMachine("Root")
	a := root.AddState("A", r3.Vec{X: 1})
	b := root.AddState("B", r3.Vec{X: 2})
	sub := root.AddStateMachine("Sub", r3.Vec{Y: 1})
	c := sub.AddState("C", r3.Vec{})
	d := sub.AddState("D", r3.Vec{})
	deep := sub.AddStateMachine("Deep", r3.Vec{})
	e := deep.AddState("E", r3.Vec{})

	toSub := &animator.Transition{Name: "toSub"}
	toSub.SetDestinationStateMachine(sub)
	a.AddTransition(toSub)
	b.AddTransition(newTransitionTo(a, animator.Condition{Mode: animator.CONDITION_MODE_IF, Parameter: "Back"}))
	c.AddTransition(newTransitionTo(d))
	d.AddTransition(newTransitionTo(b))
	d.AddTransition(newTransitionTo(e))
	root.AddAnyStateTransition(newTransitionTo(b, animator.Condition{Mode: animator.CONDITION_MODE_GREATER, Parameter: "Speed", Threshold: 0.5}))
	root.AddEntryTransition(newTransitionTo(a))
	root.AddStateMachineTransition(sub, newTransitionTo(a))
	exit := &animator.Transition{IsExit: true}
	e.AddTransition(exit)

	a.Behaviours = []animator.Behaviour{&animator.VrcParameterDriver{
		LocalOnly:  true,
		Parameters: []animator.DriverParameter{{Type: animator.DRIVER_CHANGE_SET, Name: "Back", Value: 1}},
	}}
	sub.Behaviours = []animator.Behaviour{&animator.VrcLocomotionControl{DisableLocomotion: true}}
	return root
}

// collectMachines は配下全てのステートマシンを集める。
func collectMachines(machine *animator.StateMachine) map[*animator.StateMachine]struct{} {
	machines := map[*animator.StateMachine]struct{}{}
	machine.WalkStateMachines(func(m *animator.StateMachine) {
		machines[m] = struct{}{}
	})
	return machines
}

// collectStates は配下全てのステートを集める。
func collectStates(machine *animator.StateMachine) map[*animator.State]struct{} {
	states := map[*animator.State]struct{}{}
	machine.WalkStates(func(_ *animator.StateMachine, state *animator.State) {
		states[state] = struct{}{}
	})
	return states
}

// countTransitions は配下全ての遷移数を数える。
func countTransitions(machine *animator.StateMachine) int {
	n := 0
	machine.WalkTransitions(func(*animator.Transition) {
		n++
	})
	return n
}

// newTestClip は2キーのカーブを持つクリップを生成する。
func newTestClip(name string, bindings ...animator.CurveBinding) *animator.AnimationClip {
	clip := &animator.AnimationClip{Name: name, FrameRate: 60, Loop: true}
	for i, binding := range bindings {
		clip.Curves = append(clip.Curves, animator.FloatCurve{
			Binding: binding,
			Curve: animator.Curve{Keys: []animator.Keyframe{
				{Time: 0, Value: float64(i)},
				{Time: 1, Value: float64(i) + 1},
			}},
		})
	}
	return clip
}

// animatorBinding はアニメーターパラメーター面のバインディングを生成する。
func animatorBinding(parameter string) animator.CurveBinding {
	return animator.CurveBinding{Type: animator.ANIMATOR_BINDING_TYPE, Property: parameter}
}
