// 指示: miu200521358
package yamlasset

import (
	"fmt"
	"path/filepath"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/pkg/errors"
)

// containerEncoder は登録済みオブジェクトをコンテナ文書へ変換する。
type containerEncoder struct {
	repo *AssetRepository
	path string
	ids  map[any]int64
}

// encode は登録順に文書化する。
func (e *containerEncoder) encode(objects []any) (*containerDocument, error) {
	doc := &containerDocument{Version: CONTAINER_VERSION}
	for _, obj := range objects {
		objectDoc, err := e.encodeObject(obj)
		if err != nil {
			return nil, errors.Wrapf(err, "オブジェクトの書き出しに失敗しました: %T", obj)
		}
		doc.Objects = append(doc.Objects, objectDoc)
	}
	return doc, nil
}

// ref はオブジェクト参照を返す。同じコンテナに無いものは保存先コンテナへの相対参照とする。
func (e *containerEncoder) ref(obj any) (objectRef, error) {
	if id, ok := e.ids[obj]; ok {
		return objectRef{ID: id}, nil
	}
	path, ok := e.repo.paths[obj]
	if !ok {
		return objectRef{}, newShapeError("保存先の無いオブジェクトを参照しています: %T", obj)
	}
	file := path
	if rel, err := filepath.Rel(filepath.Dir(e.path), path); err == nil {
		file = filepath.ToSlash(rel)
	}
	return objectRef{File: file, ID: e.repo.ids[obj]}, nil
}

// optionalRef は nil を許す参照を返す。
func (e *containerEncoder) optionalRef(obj any, isNil bool) (*objectRef, error) {
	if isNil {
		return nil, nil
	}
	ref, err := e.ref(obj)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// refs は参照列を返す。
func refs[T any](e *containerEncoder, objects []T) ([]objectRef, error) {
	if len(objects) == 0 {
		return nil, nil
	}
	result := make([]objectRef, 0, len(objects))
	for _, obj := range objects {
		ref, err := e.ref(obj)
		if err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, nil
}

func (e *containerEncoder) encodeObject(obj any) (objectDocument, error) {
	doc := objectDocument{ID: e.ids[obj]}
	var err error
	switch o := obj.(type) {
	case *animator.AnimatorController:
		doc.Kind = kindController
		doc.Controller, err = e.encodeController(o)
	case *animator.AvatarMask:
		doc.Kind = kindMask
		doc.Mask = encodeMask(o)
	case *animator.StateMachine:
		doc.Kind = kindStateMachine
		doc.StateMachine, err = e.encodeStateMachine(o)
	case *animator.State:
		doc.Kind = kindState
		doc.State, err = e.encodeState(o)
	case *animator.Transition:
		doc.Kind = kindTransition
		doc.Transition, err = e.encodeTransition(o)
	case *animator.BlendTree:
		doc.Kind = kindBlendTree
		doc.BlendTree, err = e.encodeBlendTree(o)
	case *animator.AnimationClip:
		doc.Kind = kindClip
		doc.Clip = encodeClip(o)
	case animator.Behaviour:
		doc.Kind = kindBehaviour
		doc.Behaviour, err = encodeBehaviour(o)
	default:
		panic(fmt.Sprintf("未知のオブジェクト型です: %T", obj))
	}
	return doc, err
}

func (e *containerEncoder) encodeController(c *animator.AnimatorController) (*controllerDocument, error) {
	doc := &controllerDocument{Name: c.Name}
	for _, p := range c.Parameters {
		typeName, err := parameterTypes.name(p.Type)
		if err != nil {
			return nil, err
		}
		doc.Parameters = append(doc.Parameters, parameterDocument{Name: p.Name, Type: typeName, Default: p.DefaultValue()})
	}
	for _, l := range c.Layers {
		blendMode, err := layerBlendModes.name(l.BlendMode)
		if err != nil {
			return nil, err
		}
		layer := layerDocument{
			Name:                l.Name,
			DefaultWeight:       l.DefaultWeight,
			BlendMode:           blendMode,
			IKPass:              l.IKPass,
			SyncedAffectsTiming: l.SyncedAffectsTiming,
		}
		if l.IsSynced() {
			index := l.SyncedLayerIndex
			layer.SyncedLayerIndex = &index
		}
		if layer.StateMachine, err = e.optionalRef(l.StateMachine, l.StateMachine == nil); err != nil {
			return nil, err
		}
		if layer.Mask, err = e.optionalRef(l.Mask, l.Mask == nil); err != nil {
			return nil, err
		}
		doc.Layers = append(doc.Layers, layer)
	}
	return doc, nil
}

func encodeMask(m *animator.AvatarMask) *maskDocument {
	doc := &maskDocument{Name: m.Name, BodyParts: []string{}}
	for _, part := range m.ActiveParts() {
		doc.BodyParts = append(doc.BodyParts, part.String())
	}
	for _, tr := range m.Transforms {
		doc.Transforms = append(doc.Transforms, maskTransformDocument{Path: tr.Path, Active: tr.Active})
	}
	return doc
}

func (e *containerEncoder) encodeStateMachine(m *animator.StateMachine) (*stateMachineDocument, error) {
	var err error
	doc := &stateMachineDocument{
		Name:                       m.Name,
		Position:                   fromVec3(m.Position),
		AnyStatePosition:           fromVec3(m.AnyStatePosition),
		EntryPosition:              fromVec3(m.EntryPosition),
		ExitPosition:               fromVec3(m.ExitPosition),
		ParentStateMachinePosition: fromVec3(m.ParentStateMachinePosition),
	}
	if doc.States, err = refs(e, m.States); err != nil {
		return nil, err
	}
	if doc.StateMachines, err = refs(e, m.StateMachines); err != nil {
		return nil, err
	}
	if doc.AnyStateTransitions, err = refs(e, m.AnyStateTransitions); err != nil {
		return nil, err
	}
	if doc.EntryTransitions, err = refs(e, m.EntryTransitions); err != nil {
		return nil, err
	}
	for _, set := range m.StateMachineTransitions {
		source, err := e.ref(set.Source)
		if err != nil {
			return nil, err
		}
		transitions, err := refs(e, set.Transitions)
		if err != nil {
			return nil, err
		}
		doc.StateMachineTransitions = append(doc.StateMachineTransitions, stateMachineTransitionsDocument{
			Source:      source,
			Transitions: transitions,
		})
	}
	if doc.DefaultState, err = e.optionalRef(m.DefaultState, m.DefaultState == nil); err != nil {
		return nil, err
	}
	if doc.Behaviours, err = refs(e, m.Behaviours); err != nil {
		return nil, err
	}
	return doc, nil
}

func (e *containerEncoder) encodeState(s *animator.State) (*stateDocument, error) {
	var err error
	doc := &stateDocument{
		Name:                       s.Name,
		Tag:                        s.Tag,
		Position:                   fromVec3(s.Position),
		Speed:                      s.Speed,
		SpeedParameter:             s.SpeedParameter,
		SpeedParameterActive:       s.SpeedParameterActive,
		CycleOffset:                s.CycleOffset,
		CycleOffsetParameter:       s.CycleOffsetParameter,
		CycleOffsetParameterActive: s.CycleOffsetParameterActive,
		Mirror:                     s.Mirror,
		MirrorParameter:            s.MirrorParameter,
		MirrorParameterActive:      s.MirrorParameterActive,
		TimeParameter:              s.TimeParameter,
		TimeParameterActive:        s.TimeParameterActive,
		WriteDefaultValues:         s.WriteDefaultValues,
		IKOnFeet:                   s.IKOnFeet,
	}
	if doc.Motion, err = e.optionalRef(s.Motion, s.Motion == nil); err != nil {
		return nil, err
	}
	if doc.Transitions, err = refs(e, s.Transitions); err != nil {
		return nil, err
	}
	if doc.Behaviours, err = refs(e, s.Behaviours); err != nil {
		return nil, err
	}
	return doc, nil
}

func (e *containerEncoder) encodeTransition(t *animator.Transition) (*transitionDocument, error) {
	interruption, err := interruptionSources.name(t.InterruptionSource)
	if err != nil {
		return nil, err
	}
	doc := &transitionDocument{
		Name:                t.Name,
		IsExit:              t.IsExit,
		Solo:                t.Solo,
		Mute:                t.Mute,
		HasExitTime:         t.HasExitTime,
		ExitTime:            t.ExitTime,
		HasFixedDuration:    t.HasFixedDuration,
		Duration:            t.Duration,
		Offset:              t.Offset,
		InterruptionSource:  interruption,
		OrderedInterruption: t.OrderedInterruption,
		CanTransitionToSelf: t.CanTransitionToSelf,
	}
	for _, c := range t.Conditions {
		mode, err := conditionModes.name(c.Mode)
		if err != nil {
			return nil, err
		}
		doc.Conditions = append(doc.Conditions, conditionDocument{Mode: mode, Parameter: c.Parameter, Threshold: c.Threshold})
	}
	if state := t.DestinationState(); state != nil {
		if doc.DestinationState, err = e.optionalRef(state, false); err != nil {
			return nil, err
		}
	}
	if machine := t.DestinationStateMachine(); machine != nil {
		if doc.DestinationStateMachine, err = e.optionalRef(machine, false); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (e *containerEncoder) encodeBlendTree(b *animator.BlendTree) (*blendTreeDocument, error) {
	blendType, err := blendTypes.name(b.BlendType)
	if err != nil {
		return nil, err
	}
	doc := &blendTreeDocument{
		Name:                   b.Name,
		BlendType:              blendType,
		BlendParameter:         b.BlendParameter,
		BlendParameterY:        b.BlendParameterY,
		MinThreshold:           b.MinThreshold,
		MaxThreshold:           b.MaxThreshold,
		UseAutomaticThresholds: b.UseAutomaticThresholds,
		NormalizedBlendValues:  b.NormalizedBlendValues,
		Children:               []childMotionDocument{},
	}
	for _, child := range b.Children {
		motion, err := e.optionalRef(child.Motion, child.Motion == nil)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, childMotionDocument{
			Motion:               motion,
			Threshold:            child.Threshold,
			Position:             vec2Document{child.Position.X, child.Position.Y},
			TimeScale:            child.TimeScale,
			CycleOffset:          child.CycleOffset,
			DirectBlendParameter: child.DirectBlendParameter,
			Mirror:               child.Mirror,
		})
	}
	return doc, nil
}

func encodeClip(c *animator.AnimationClip) *clipDocument {
	doc := &clipDocument{
		Name:      c.Name,
		FrameRate: c.FrameRate,
		Loop:      c.Loop,
		LoopBlend: c.LoopBlend,
		WrapMode:  c.WrapMode,
		Bounds:    boundsDocument{Center: fromVec3(c.Bounds.Center), Extent: fromVec3(c.Bounds.Extent)},
	}
	for _, curve := range c.Curves {
		keys := make([]keyframeDocument, 0, len(curve.Curve.Keys))
		for _, k := range curve.Curve.Keys {
			keys = append(keys, keyframeDocument(k))
		}
		doc.Curves = append(doc.Curves, floatCurveDocument{
			Binding:      bindingDocument(curve.Binding),
			Keys:         keys,
			PreWrapMode:  curve.Curve.PreWrapMode,
			PostWrapMode: curve.Curve.PostWrapMode,
		})
	}
	for _, curve := range c.ObjectCurves {
		keys := make([]objectKeyframeDocument, 0, len(curve.Keys))
		for _, k := range curve.Keys {
			keys = append(keys, objectKeyframeDocument(k))
		}
		doc.ObjectCurves = append(doc.ObjectCurves, objectCurveDocument{Binding: bindingDocument(curve.Binding), Keys: keys})
	}
	for _, event := range c.Events {
		doc.Events = append(doc.Events, eventDocument(event))
	}
	return doc
}

func encodeBehaviour(behaviour animator.Behaviour) (*behaviourDocument, error) {
	doc := &behaviourDocument{Type: behaviour.BehaviourKind()}
	switch b := behaviour.(type) {
	case *animator.VrcParameterDriver:
		driver := &parameterDriverDocument{LocalOnly: b.LocalOnly, DebugText: b.DebugText, Parameters: []driverParameterDocument{}}
		for _, p := range b.Parameters {
			changeType, err := driverChangeTypes.name(p.Type)
			if err != nil {
				return nil, err
			}
			driver.Parameters = append(driver.Parameters, driverParameterDocument{
				Type:         changeType,
				Name:         p.Name,
				Source:       p.Source,
				Value:        p.Value,
				ValueMin:     p.ValueMin,
				ValueMax:     p.ValueMax,
				Chance:       p.Chance,
				ConvertRange: p.ConvertRange,
				SourceMin:    p.SourceMin,
				SourceMax:    p.SourceMax,
				DestMin:      p.DestMin,
				DestMax:      p.DestMax,
			})
		}
		doc.ParameterDriver = driver
	case *animator.VrcLocomotionControl:
		doc.LocomotionControl = &locomotionControlDocument{DisableLocomotion: b.DisableLocomotion, DebugText: b.DebugText}
	case *animator.VrcTrackingControl:
		control := &trackingControlDocument{Parts: map[string]string{}, DebugText: b.DebugText}
		parts := trackingParts(b)
		for _, name := range trackingPartNames {
			if *parts[name] == animator.TRACKING_TYPE_NO_CHANGE {
				continue
			}
			value, err := trackingTypes.name(*parts[name])
			if err != nil {
				return nil, err
			}
			control.Parts[name] = value
		}
		doc.TrackingControl = control
	case *animator.VrcPlayableLayerControl:
		doc.PlayableLayerControl = &layerControlDocument{Layer: b.Layer, GoalWeight: b.GoalWeight, BlendDuration: b.BlendDuration, DebugText: b.DebugText}
	case *animator.VrcAnimatorLayerControl:
		doc.AnimatorLayerControl = &layerControlDocument{
			Playable: b.Playable, Layer: b.Layer, GoalWeight: b.GoalWeight, BlendDuration: b.BlendDuration, DebugText: b.DebugText,
		}
	case *animator.CvrAnimatorDriver:
		enter, err := encodeDriverTasks(b.EnterTasks)
		if err != nil {
			return nil, err
		}
		exit, err := encodeDriverTasks(b.ExitTasks)
		if err != nil {
			return nil, err
		}
		doc.AnimatorDriver = &animatorDriverDocument{LocalOnly: b.LocalOnly, EnterTasks: enter, ExitTasks: exit}
	case *animator.CvrBodyControl:
		enter, err := encodeBodyControlTasks(b.EnterTasks)
		if err != nil {
			return nil, err
		}
		exit, err := encodeBodyControlTasks(b.ExitTasks)
		if err != nil {
			return nil, err
		}
		doc.BodyControl = &bodyControlDocument{EnterTasks: enter, ExitTasks: exit}
	default:
		panic(fmt.Sprintf("未知の振る舞い型です: %T", behaviour))
	}
	return doc, nil
}

func encodeDriverTasks(tasks []animator.DriverTask) ([]driverTaskDocument, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	docs := make([]driverTaskDocument, 0, len(tasks))
	for _, task := range tasks {
		targetType, err := parameterTypes.name(task.TargetType)
		if err != nil {
			return nil, err
		}
		op, err := driverOperators.name(task.Op)
		if err != nil {
			return nil, err
		}
		a, err := encodeDriverOperand(task.AType, task.AValue, task.AMax, task.AName, task.AParamType)
		if err != nil {
			return nil, err
		}
		b, err := encodeDriverOperand(task.BType, task.BValue, task.BMax, task.BName, task.BParamType)
		if err != nil {
			return nil, err
		}
		docs = append(docs, driverTaskDocument{Target: task.TargetName, TargetType: targetType, Op: op, A: a, B: b})
	}
	return docs, nil
}

func encodeDriverOperand(
	sourceType animator.DriverSourceType,
	value float64,
	maxValue float64,
	name string,
	paramType animator.ParameterType,
) (driverOperandDocument, error) {
	typeName, err := driverSources.name(sourceType)
	if err != nil {
		return driverOperandDocument{}, err
	}
	doc := driverOperandDocument{Type: typeName, Value: value, Max: maxValue, Parameter: name}
	if sourceType == animator.DRIVER_SOURCE_PARAMETER {
		if doc.ParameterType, err = parameterTypes.name(paramType); err != nil {
			return driverOperandDocument{}, err
		}
	}
	return doc, nil
}

func encodeBodyControlTasks(tasks []animator.BodyControlTask) ([]bodyControlTaskDocument, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	docs := make([]bodyControlTaskDocument, 0, len(tasks))
	for _, task := range tasks {
		target, err := bodyControlTargets.name(task.Target)
		if err != nil {
			return nil, err
		}
		assignment, err := bodyControlAssignments.name(task.Assignment)
		if err != nil {
			return nil, err
		}
		docs = append(docs, bodyControlTaskDocument{Target: target, Assignment: assignment, Duration: task.Duration})
	}
	return docs, nil
}
