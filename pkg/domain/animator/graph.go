// 指示: miu200521358
package animator

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// InterruptionSource は遷移の割り込み元を表す。
type InterruptionSource int

const (
	INTERRUPTION_NONE InterruptionSource = iota
	INTERRUPTION_SOURCE
	INTERRUPTION_DESTINATION
	INTERRUPTION_SOURCE_THEN_DESTINATION
	INTERRUPTION_DESTINATION_THEN_SOURCE
)

// Transition はステート遷移を表す。遷移先はステートかステートマシンのどちらか一方。
type Transition struct {
	Name                string
	Conditions          []Condition
	destinationState    *State
	destinationMachine  *StateMachine
	IsExit              bool
	Solo                bool
	Mute                bool
	HasExitTime         bool
	ExitTime            float64
	HasFixedDuration    bool
	Duration            float64
	Offset              float64
	InterruptionSource  InterruptionSource
	OrderedInterruption bool
	CanTransitionToSelf bool
}

// DestinationState は遷移先ステートを返す。
func (t *Transition) DestinationState() *State {
	return t.destinationState
}

// DestinationStateMachine は遷移先ステートマシンを返す。
func (t *Transition) DestinationStateMachine() *StateMachine {
	return t.destinationMachine
}

// SetDestinationState は遷移先をステートに設定する。
func (t *Transition) SetDestinationState(state *State) {
	t.destinationState = state
	t.destinationMachine = nil
}

// SetDestinationStateMachine は遷移先をステートマシンに設定する。
func (t *Transition) SetDestinationStateMachine(machine *StateMachine) {
	t.destinationMachine = machine
	t.destinationState = nil
}

// HasDestination は遷移先が設定済みかを返す。
func (t *Transition) HasDestination() bool {
	return t.destinationState != nil || t.destinationMachine != nil
}

// CopySettings は遷移先と条件以外の設定を複製した遷移を返す。
func (t *Transition) CopySettings() *Transition {
	return &Transition{
		Name:                t.Name,
		IsExit:              t.IsExit,
		Solo:                t.Solo,
		Mute:                t.Mute,
		HasExitTime:         t.HasExitTime,
		ExitTime:            t.ExitTime,
		HasFixedDuration:    t.HasFixedDuration,
		Duration:            t.Duration,
		Offset:              t.Offset,
		InterruptionSource:  t.InterruptionSource,
		OrderedInterruption: t.OrderedInterruption,
		CanTransitionToSelf: t.CanTransitionToSelf,
	}
}

// State はアニメーターステートを表す。
type State struct {
	Name                       string
	Tag                        string
	Position                   r3.Vec
	Speed                      float64
	SpeedParameter             string
	SpeedParameterActive       bool
	CycleOffset                float64
	CycleOffsetParameter       string
	CycleOffsetParameterActive bool
	Mirror                     bool
	MirrorParameter            string
	MirrorParameterActive      bool
	TimeParameter              string
	TimeParameterActive        bool
	WriteDefaultValues         bool
	IKOnFeet                   bool
	Motion                     Motion
	Transitions                []*Transition
	Behaviours                 []Behaviour
}

// AddTransition は遷移を追加する。
func (s *State) AddTransition(transition *Transition) {
	s.Transitions = append(s.Transitions, transition)
}

// StateMachineTransitions はサブステートマシンを起点とする遷移群を表す。
type StateMachineTransitions struct {
	Source      *StateMachine
	Transitions []*Transition
}

// StateMachine はステートとサブステートマシンを所有するグラフノード。
type StateMachine struct {
	Name                       string
	Position                   r3.Vec
	AnyStatePosition           r3.Vec
	EntryPosition              r3.Vec
	ExitPosition               r3.Vec
	ParentStateMachinePosition r3.Vec
	States                     []*State
	StateMachines              []*StateMachine
	AnyStateTransitions        []*Transition
	EntryTransitions           []*Transition
	StateMachineTransitions    []*StateMachineTransitions
	DefaultState               *State
	Behaviours                 []Behaviour
}

// NewStateMachine は空のステートマシンを生成する。
func NewStateMachine(name string) *StateMachine {
	return &StateMachine{Name: name}
}

// AddState はステートを追加する。最初のステートは既定ステートとなる。
func (m *StateMachine) AddState(name string, position r3.Vec) *State {
	state := &State{Name: name, Position: position, Speed: 1, WriteDefaultValues: true}
	m.States = append(m.States, state)
	if m.DefaultState == nil {
		m.DefaultState = state
	}
	return state
}

// AddStateMachine はサブステートマシンを追加する。
func (m *StateMachine) AddStateMachine(name string, position r3.Vec) *StateMachine {
	child := &StateMachine{Name: name, Position: position}
	m.StateMachines = append(m.StateMachines, child)
	return child
}

// AddAnyStateTransition はAnyStateからの遷移を追加する。
func (m *StateMachine) AddAnyStateTransition(transition *Transition) {
	m.AnyStateTransitions = append(m.AnyStateTransitions, transition)
}

// AddEntryTransition はEntryからの遷移を追加する。
func (m *StateMachine) AddEntryTransition(transition *Transition) {
	m.EntryTransitions = append(m.EntryTransitions, transition)
}

// AddStateMachineTransition はサブステートマシン起点の遷移を追加する。
func (m *StateMachine) AddStateMachineTransition(source *StateMachine, transition *Transition) {
	for _, set := range m.StateMachineTransitions {
		if set.Source == source {
			set.Transitions = append(set.Transitions, transition)
			return
		}
	}
	m.StateMachineTransitions = append(m.StateMachineTransitions, &StateMachineTransitions{
		Source:      source,
		Transitions: []*Transition{transition},
	})
}

// StateMachineTransitionsOf はサブステートマシン起点の遷移群を返す。
func (m *StateMachine) StateMachineTransitionsOf(source *StateMachine) []*Transition {
	for _, set := range m.StateMachineTransitions {
		if set.Source == source {
			return set.Transitions
		}
	}
	return nil
}

// HasState は自身が直接所有するステートかを返す。
func (m *StateMachine) HasState(state *State) bool {
	for _, s := range m.States {
		if s == state {
			return true
		}
	}
	return false
}

// StateCount は配下全体のステート数を返す。
func (m *StateMachine) StateCount() int {
	count := len(m.States)
	for _, child := range m.StateMachines {
		count += child.StateCount()
	}
	return count
}

// WalkStates は配下全体のステートを深さ優先順に走査する。
func (m *StateMachine) WalkStates(fn func(machine *StateMachine, state *State)) {
	for _, state := range m.States {
		fn(m, state)
	}
	for _, child := range m.StateMachines {
		child.WalkStates(fn)
	}
}

// WalkStateMachines は自身を含む配下全体のステートマシンを深さ優先順に走査する。
func (m *StateMachine) WalkStateMachines(fn func(machine *StateMachine)) {
	fn(m)
	for _, child := range m.StateMachines {
		child.WalkStateMachines(fn)
	}
}

// WalkTransitions は配下全体の遷移(AnyState・Entry・ステート・サブステートマシン起点)を走査する。
func (m *StateMachine) WalkTransitions(fn func(transition *Transition)) {
	m.WalkStateMachines(func(machine *StateMachine) {
		for _, t := range machine.AnyStateTransitions {
			fn(t)
		}
		for _, t := range machine.EntryTransitions {
			fn(t)
		}
		for _, set := range machine.StateMachineTransitions {
			for _, t := range set.Transitions {
				fn(t)
			}
		}
		for _, state := range machine.States {
			for _, t := range state.Transitions {
				fn(t)
			}
		}
	})
}

// CheckClosed は配下のグラフが自身の中で閉じているかを検査する。
// 遷移先・サブステートマシン遷移の起点・既定ステートが配下外を指す場合や、ノードが重複して所有されている場合はエラーを返す。
func (m *StateMachine) CheckClosed() error {
	owned := &graphOwnership{
		states:   map[*State]struct{}{},
		machines: map[*StateMachine]struct{}{},
	}
	if err := owned.collect(m); err != nil {
		return err
	}
	for _, machine := range owned.order {
		for _, t := range machine.AnyStateTransitions {
			if err := owned.checkTransition(machine.Name+"/AnyState", t); err != nil {
				return err
			}
		}
		for _, t := range machine.EntryTransitions {
			if err := owned.checkTransition(machine.Name+"/Entry", t); err != nil {
				return err
			}
		}
		for _, set := range machine.StateMachineTransitions {
			if set.Source == nil {
				return fmt.Errorf("サブステートマシン遷移の起点が未設定です: %s", machine.Name)
			}
			if _, ok := owned.machines[set.Source]; !ok {
				return fmt.Errorf("サブステートマシン遷移の起点が配下にありません: %s <- %s", machine.Name, set.Source.Name)
			}
			for _, t := range set.Transitions {
				if err := owned.checkTransition(set.Source.Name, t); err != nil {
					return err
				}
			}
		}
		for _, state := range machine.States {
			for _, t := range state.Transitions {
				if err := owned.checkTransition(machine.Name+"/"+state.Name, t); err != nil {
					return err
				}
			}
		}
		if machine.DefaultState != nil {
			if _, ok := owned.states[machine.DefaultState]; !ok {
				return fmt.Errorf("既定ステートが配下にありません: %s -> %s", machine.Name, machine.DefaultState.Name)
			}
		}
	}
	return nil
}

// graphOwnership はステートマシン配下の所有ノードを保持する。
type graphOwnership struct {
	states   map[*State]struct{}
	machines map[*StateMachine]struct{}
	order    []*StateMachine
}

// collect は配下のノードを集める。重複所有(循環を含む)はエラーとする。
func (o *graphOwnership) collect(m *StateMachine) error {
	if m == nil {
		return fmt.Errorf("サブステートマシンが未設定です")
	}
	if _, exists := o.machines[m]; exists {
		return fmt.Errorf("ステートマシンが重複して所有されています: %s", m.Name)
	}
	o.machines[m] = struct{}{}
	o.order = append(o.order, m)
	for _, state := range m.States {
		if state == nil {
			return fmt.Errorf("ステートが未設定です: %s", m.Name)
		}
		if _, exists := o.states[state]; exists {
			return fmt.Errorf("ステートが重複して所有されています: %s/%s", m.Name, state.Name)
		}
		o.states[state] = struct{}{}
	}
	for _, child := range m.StateMachines {
		if err := o.collect(child); err != nil {
			return err
		}
	}
	return nil
}

// checkTransition は遷移先が配下に含まれるかを検査する。
func (o *graphOwnership) checkTransition(owner string, t *Transition) error {
	if t == nil {
		return fmt.Errorf("遷移が未設定です: %s", owner)
	}
	if state := t.DestinationState(); state != nil {
		if _, ok := o.states[state]; !ok {
			return fmt.Errorf("遷移先ステートが配下にありません: %s -> %s", owner, state.Name)
		}
	}
	if machine := t.DestinationStateMachine(); machine != nil {
		if _, ok := o.machines[machine]; !ok {
			return fmt.Errorf("遷移先ステートマシンが配下にありません: %s -> %s", owner, machine.Name)
		}
	}
	return nil
}

// LayerBlendMode はレイヤー合成方式を表す。
type LayerBlendMode int

const (
	LAYER_BLEND_OVERRIDE LayerBlendMode = iota
	LAYER_BLEND_ADDITIVE
)

// NO_SYNCED_LAYER は同期元レイヤーを持たないことを表す。
const NO_SYNCED_LAYER = -1

// Layer はアニメーターコントローラーのレイヤーを表す。
type Layer struct {
	Name                string
	StateMachine        *StateMachine
	DefaultWeight       float64
	BlendMode           LayerBlendMode
	Mask                *AvatarMask
	IKPass              bool
	SyncedLayerIndex    int
	SyncedAffectsTiming bool
}

// IsSynced は他レイヤーに同期するレイヤーかを返す。
func (l *Layer) IsSynced() bool {
	return l.SyncedLayerIndex >= 0
}

// AnimatorController はレイヤーとパラメーターを所有する最上位コンテナ。
type AnimatorController struct {
	Name       string
	Parameters []*Parameter
	Layers     []*Layer
}

// NewAnimatorController は空のコントローラーを生成する。
func NewAnimatorController(name string) *AnimatorController {
	return &AnimatorController{Name: name}
}

// FindParameter は名前でパラメーターを探す。
func (c *AnimatorController) FindParameter(name string) (*Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddParameter は同名が無い場合だけパラメーターを追加し、追加したかを返す。
func (c *AnimatorController) AddParameter(parameter *Parameter) bool {
	if _, exists := c.FindParameter(parameter.Name); exists {
		return false
	}
	c.Parameters = append(c.Parameters, parameter)
	return true
}

// AddLayer はレイヤーを追加する。
func (c *AnimatorController) AddLayer(layer *Layer) {
	c.Layers = append(c.Layers, layer)
}

// FindLayer は名前でレイヤーを探す。
func (c *AnimatorController) FindLayer(name string) (*Layer, bool) {
	for _, l := range c.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}
