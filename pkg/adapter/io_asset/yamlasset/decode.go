// 指示: miu200521358
package yamlasset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// loadedContainer は読み込み済みコンテナのオブジェクトを保持する。
type loadedContainer struct {
	path    string
	objects map[int64]any
	order   []int64
}

// containerDecoder は1コンテナ分の文書をドメインオブジェクトへ変換する。
type containerDecoder struct {
	repo      *AssetRepository
	container *loadedContainer
	docs      []objectDocument
}

// newShapeError はアセット形状不正のエラーを生成する。
func newShapeError(format string, params ...any) error {
	return merr.NewConfigError(merr.ErrorIDUnexpectedAssetShape, format, params...)
}

// loadContainer はコンテナを読み込む。読み込み済みなら同じ結果を返す。
// 全オブジェクトを確保してから参照を解決するため、循環参照や他コンテナからの相互参照も解決できる。
func (r *AssetRepository) loadContainer(path string) (*loadedContainer, error) {
	key := filepath.Clean(path)
	if loaded, ok := r.containers[key]; ok {
		return loaded, nil
	}
	b, err := os.ReadFile(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.WrapConfigError(merr.ErrorIDSourceNotFound, err, "アセットファイルが見つかりません: %s", key)
		}
		return nil, errors.Wrapf(err, "アセットファイルの読み取りに失敗しました: %s", key)
	}
	doc := containerDocument{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, merr.WrapConfigError(merr.ErrorIDUnexpectedAssetShape, err, "アセットファイルの解析に失敗しました: %s", key)
	}
	if doc.Version != CONTAINER_VERSION {
		return nil, newShapeError("未対応のコンテナ版です: %s version=%d", key, doc.Version)
	}

	d := &containerDecoder{
		repo:      r,
		container: &loadedContainer{path: key, objects: map[int64]any{}},
		docs:      doc.Objects,
	}
	if err := d.allocate(); err != nil {
		return nil, err
	}
	r.containers[key] = d.container
	if err := d.fill(); err != nil {
		delete(r.containers, key)
		return nil, err
	}
	logAssetDebug("コンテナ読込完了: file=%s objects=%d", key, len(d.container.order))
	return d.container, nil
}

// allocate は全オブジェクトを空の状態で確保する。
func (d *containerDecoder) allocate() error {
	for i := range d.docs {
		doc := &d.docs[i]
		if _, exists := d.container.objects[doc.ID]; exists {
			return newShapeError("オブジェクトIDが重複しています: %s id=%d", d.container.path, doc.ID)
		}
		obj, err := newObject(doc)
		if err != nil {
			return errors.Wrapf(err, "オブジェクトの生成に失敗しました: %s id=%d", d.container.path, doc.ID)
		}
		d.container.objects[doc.ID] = obj
		d.container.order = append(d.container.order, doc.ID)
		d.repo.paths[obj] = d.container.path
		d.repo.ids[obj] = doc.ID
	}
	return nil
}

// newObject は種別に応じた空のオブジェクトを生成する。
func newObject(doc *objectDocument) (any, error) {
	switch doc.Kind {
	case kindController:
		if doc.Controller == nil {
			return nil, newShapeError("controller がありません")
		}
		return &animator.AnimatorController{}, nil
	case kindMask:
		if doc.Mask == nil {
			return nil, newShapeError("mask がありません")
		}
		return &animator.AvatarMask{}, nil
	case kindStateMachine:
		if doc.StateMachine == nil {
			return nil, newShapeError("state_machine がありません")
		}
		return &animator.StateMachine{}, nil
	case kindState:
		if doc.State == nil {
			return nil, newShapeError("state がありません")
		}
		return &animator.State{}, nil
	case kindTransition:
		if doc.Transition == nil {
			return nil, newShapeError("transition がありません")
		}
		return &animator.Transition{}, nil
	case kindBlendTree:
		if doc.BlendTree == nil {
			return nil, newShapeError("blend_tree がありません")
		}
		return &animator.BlendTree{}, nil
	case kindClip:
		if doc.Clip == nil {
			return nil, newShapeError("clip がありません")
		}
		return &animator.AnimationClip{}, nil
	case kindBehaviour:
		if doc.Behaviour == nil {
			return nil, newShapeError("behaviour がありません")
		}
		return newBehaviour(doc.Behaviour)
	default:
		return nil, merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知のオブジェクト種別です: %q", doc.Kind)
	}
}

// newBehaviour は振る舞い種別に応じた空の振る舞いを生成する。
func newBehaviour(doc *behaviourDocument) (animator.Behaviour, error) {
	var (
		behaviour animator.Behaviour
		present   bool
	)
	switch doc.Type {
	case "VRCAvatarParameterDriver":
		behaviour, present = &animator.VrcParameterDriver{}, doc.ParameterDriver != nil
	case "VRCAnimatorLocomotionControl":
		behaviour, present = &animator.VrcLocomotionControl{}, doc.LocomotionControl != nil
	case "VRCAnimatorTrackingControl":
		behaviour, present = &animator.VrcTrackingControl{}, doc.TrackingControl != nil
	case "VRCPlayableLayerControl":
		behaviour, present = &animator.VrcPlayableLayerControl{}, doc.PlayableLayerControl != nil
	case "VRCAnimatorLayerControl":
		behaviour, present = &animator.VrcAnimatorLayerControl{}, doc.AnimatorLayerControl != nil
	case "AnimatorDriver":
		behaviour, present = &animator.CvrAnimatorDriver{}, doc.AnimatorDriver != nil
	case "BodyControl":
		behaviour, present = &animator.CvrBodyControl{}, doc.BodyControl != nil
	default:
		return nil, merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知の振る舞い種別です: %q", doc.Type)
	}
	if !present {
		return nil, newShapeError("振る舞いの本体がありません: %s", doc.Type)
	}
	return behaviour, nil
}

// fill は確保済みオブジェクトに内容と参照を設定する。
func (d *containerDecoder) fill() error {
	for i := range d.docs {
		doc := &d.docs[i]
		var err error
		switch obj := d.container.objects[doc.ID].(type) {
		case *animator.AnimatorController:
			err = d.fillController(obj, doc.Controller)
		case *animator.AvatarMask:
			err = fillMask(obj, doc.Mask)
		case *animator.StateMachine:
			err = d.fillStateMachine(obj, doc.StateMachine)
		case *animator.State:
			err = d.fillState(obj, doc.State)
		case *animator.Transition:
			err = d.fillTransition(obj, doc.Transition)
		case *animator.BlendTree:
			err = d.fillBlendTree(obj, doc.BlendTree)
		case *animator.AnimationClip:
			fillClip(obj, doc.Clip)
		case animator.Behaviour:
			err = fillBehaviour(obj, doc.Behaviour)
		default:
			panic(fmt.Sprintf("未知のオブジェクト型です: %T", obj))
		}
		if err != nil {
			return errors.Wrapf(err, "%s id=%d", d.container.path, doc.ID)
		}
	}
	return nil
}

// resolve は参照先オブジェクトを返す。別ファイルの参照はこのコンテナからの相対パスで解決する。
func (d *containerDecoder) resolve(ref objectRef) (any, error) {
	container := d.container
	if ref.File != "" {
		path := ref.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(d.container.path), path)
		}
		loaded, err := d.repo.loadContainer(path)
		if err != nil {
			return nil, err
		}
		container = loaded
	}
	obj, ok := container.objects[ref.ID]
	if !ok {
		return nil, newShapeError("参照先オブジェクトが見つかりません: file=%s id=%d", container.path, ref.ID)
	}
	return obj, nil
}

// resolveAs は参照先を指定型で返す。
func resolveAs[T any](d *containerDecoder, ref objectRef) (T, error) {
	var zero T
	obj, err := d.resolve(ref)
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, newShapeError("参照先の種別が不正です: id=%d want=%T got=%T", ref.ID, zero, obj)
	}
	return typed, nil
}

// resolveAll は参照列を指定型で返す。
func resolveAll[T any](d *containerDecoder, refs []objectRef) ([]T, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	resolved := make([]T, 0, len(refs))
	for _, ref := range refs {
		obj, err := resolveAs[T](d, ref)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, obj)
	}
	return resolved, nil
}

// resolveMotion はモーション参照を解決する。参照が無ければnil。
func (d *containerDecoder) resolveMotion(ref *objectRef) (animator.Motion, error) {
	if ref == nil {
		return nil, nil
	}
	obj, err := d.resolve(*ref)
	if err != nil {
		return nil, err
	}
	switch m := obj.(type) {
	case *animator.BlendTree:
		return m, nil
	case *animator.AnimationClip:
		return m, nil
	default:
		return nil, newShapeError("モーション参照の種別が不正です: id=%d got=%T", ref.ID, obj)
	}
}

func (d *containerDecoder) fillController(c *animator.AnimatorController, doc *controllerDocument) error {
	c.Name = doc.Name
	for _, p := range doc.Parameters {
		valueType, err := parameterTypes.parse(p.Type)
		if err != nil {
			return err
		}
		parameter := &animator.Parameter{Name: p.Name, Type: valueType}
		parameter.SetDefaultValue(p.Default)
		c.Parameters = append(c.Parameters, parameter)
	}
	for _, l := range doc.Layers {
		blendMode, err := layerBlendModes.parseOr(l.BlendMode, animator.LAYER_BLEND_OVERRIDE)
		if err != nil {
			return err
		}
		layer := &animator.Layer{
			Name:                l.Name,
			DefaultWeight:       l.DefaultWeight,
			BlendMode:           blendMode,
			IKPass:              l.IKPass,
			SyncedLayerIndex:    animator.NO_SYNCED_LAYER,
			SyncedAffectsTiming: l.SyncedAffectsTiming,
		}
		if l.SyncedLayerIndex != nil {
			layer.SyncedLayerIndex = *l.SyncedLayerIndex
		}
		if l.StateMachine != nil {
			if layer.StateMachine, err = resolveAs[*animator.StateMachine](d, *l.StateMachine); err != nil {
				return err
			}
		}
		if l.Mask != nil {
			if layer.Mask, err = resolveAs[*animator.AvatarMask](d, *l.Mask); err != nil {
				return err
			}
		}
		c.Layers = append(c.Layers, layer)
	}
	return nil
}

func fillMask(m *animator.AvatarMask, doc *maskDocument) error {
	m.Name = doc.Name
	for _, name := range doc.BodyParts {
		part, ok := animator.BodyPartByName(name)
		if !ok {
			return merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知の部位です: %q", name)
		}
		m.BodyParts[part] = true
	}
	for _, tr := range doc.Transforms {
		m.Transforms = append(m.Transforms, animator.MaskTransform{Path: tr.Path, Active: tr.Active})
	}
	return nil
}

func (d *containerDecoder) fillStateMachine(m *animator.StateMachine, doc *stateMachineDocument) error {
	var err error
	m.Name = doc.Name
	m.Position = toVec3(doc.Position)
	m.AnyStatePosition = toVec3(doc.AnyStatePosition)
	m.EntryPosition = toVec3(doc.EntryPosition)
	m.ExitPosition = toVec3(doc.ExitPosition)
	m.ParentStateMachinePosition = toVec3(doc.ParentStateMachinePosition)
	if m.States, err = resolveAll[*animator.State](d, doc.States); err != nil {
		return err
	}
	if m.StateMachines, err = resolveAll[*animator.StateMachine](d, doc.StateMachines); err != nil {
		return err
	}
	if m.AnyStateTransitions, err = resolveAll[*animator.Transition](d, doc.AnyStateTransitions); err != nil {
		return err
	}
	if m.EntryTransitions, err = resolveAll[*animator.Transition](d, doc.EntryTransitions); err != nil {
		return err
	}
	for _, set := range doc.StateMachineTransitions {
		source, err := resolveAs[*animator.StateMachine](d, set.Source)
		if err != nil {
			return err
		}
		transitions, err := resolveAll[*animator.Transition](d, set.Transitions)
		if err != nil {
			return err
		}
		m.StateMachineTransitions = append(m.StateMachineTransitions, &animator.StateMachineTransitions{
			Source:      source,
			Transitions: transitions,
		})
	}
	if doc.DefaultState != nil {
		if m.DefaultState, err = resolveAs[*animator.State](d, *doc.DefaultState); err != nil {
			return err
		}
	}
	m.Behaviours, err = resolveAll[animator.Behaviour](d, doc.Behaviours)
	return err
}

func (d *containerDecoder) fillState(s *animator.State, doc *stateDocument) error {
	var err error
	s.Name = doc.Name
	s.Tag = doc.Tag
	s.Position = toVec3(doc.Position)
	s.Speed = doc.Speed
	s.SpeedParameter = doc.SpeedParameter
	s.SpeedParameterActive = doc.SpeedParameterActive
	s.CycleOffset = doc.CycleOffset
	s.CycleOffsetParameter = doc.CycleOffsetParameter
	s.CycleOffsetParameterActive = doc.CycleOffsetParameterActive
	s.Mirror = doc.Mirror
	s.MirrorParameter = doc.MirrorParameter
	s.MirrorParameterActive = doc.MirrorParameterActive
	s.TimeParameter = doc.TimeParameter
	s.TimeParameterActive = doc.TimeParameterActive
	s.WriteDefaultValues = doc.WriteDefaultValues
	s.IKOnFeet = doc.IKOnFeet
	if s.Motion, err = d.resolveMotion(doc.Motion); err != nil {
		return err
	}
	if s.Transitions, err = resolveAll[*animator.Transition](d, doc.Transitions); err != nil {
		return err
	}
	s.Behaviours, err = resolveAll[animator.Behaviour](d, doc.Behaviours)
	return err
}

func (d *containerDecoder) fillTransition(t *animator.Transition, doc *transitionDocument) error {
	interruption, err := interruptionSources.parseOr(doc.InterruptionSource, animator.INTERRUPTION_NONE)
	if err != nil {
		return err
	}
	t.Name = doc.Name
	t.IsExit = doc.IsExit
	t.Solo = doc.Solo
	t.Mute = doc.Mute
	t.HasExitTime = doc.HasExitTime
	t.ExitTime = doc.ExitTime
	t.HasFixedDuration = doc.HasFixedDuration
	t.Duration = doc.Duration
	t.Offset = doc.Offset
	t.InterruptionSource = interruption
	t.OrderedInterruption = doc.OrderedInterruption
	t.CanTransitionToSelf = doc.CanTransitionToSelf
	for _, c := range doc.Conditions {
		mode, err := conditionModes.parse(c.Mode)
		if err != nil {
			return err
		}
		t.Conditions = append(t.Conditions, animator.Condition{Mode: mode, Parameter: c.Parameter, Threshold: c.Threshold})
	}
	switch {
	case doc.DestinationState != nil && doc.DestinationStateMachine != nil:
		return newShapeError("遷移先がステートとステートマシンの両方に設定されています: %s", doc.Name)
	case doc.DestinationState != nil:
		state, err := resolveAs[*animator.State](d, *doc.DestinationState)
		if err != nil {
			return err
		}
		t.SetDestinationState(state)
	case doc.DestinationStateMachine != nil:
		machine, err := resolveAs[*animator.StateMachine](d, *doc.DestinationStateMachine)
		if err != nil {
			return err
		}
		t.SetDestinationStateMachine(machine)
	}
	return nil
}

func (d *containerDecoder) fillBlendTree(b *animator.BlendTree, doc *blendTreeDocument) error {
	blendType, err := blendTypes.parse(doc.BlendType)
	if err != nil {
		return err
	}
	b.Name = doc.Name
	b.BlendType = blendType
	b.BlendParameter = doc.BlendParameter
	b.BlendParameterY = doc.BlendParameterY
	b.MinThreshold = doc.MinThreshold
	b.MaxThreshold = doc.MaxThreshold
	b.UseAutomaticThresholds = doc.UseAutomaticThresholds
	b.NormalizedBlendValues = doc.NormalizedBlendValues
	for _, child := range doc.Children {
		motion, err := d.resolveMotion(child.Motion)
		if err != nil {
			return err
		}
		b.Children = append(b.Children, animator.ChildMotion{
			Motion:               motion,
			Threshold:            child.Threshold,
			Position:             r2.Vec{X: child.Position[0], Y: child.Position[1]},
			TimeScale:            child.TimeScale,
			CycleOffset:          child.CycleOffset,
			DirectBlendParameter: child.DirectBlendParameter,
			Mirror:               child.Mirror,
		})
	}
	return nil
}

func fillClip(c *animator.AnimationClip, doc *clipDocument) {
	c.Name = doc.Name
	c.FrameRate = doc.FrameRate
	c.Loop = doc.Loop
	c.LoopBlend = doc.LoopBlend
	c.WrapMode = doc.WrapMode
	c.Bounds = animator.Bounds{Center: toVec3(doc.Bounds.Center), Extent: toVec3(doc.Bounds.Extent)}
	for _, curve := range doc.Curves {
		keys := make([]animator.Keyframe, 0, len(curve.Keys))
		for _, k := range curve.Keys {
			keys = append(keys, animator.Keyframe(k))
		}
		c.Curves = append(c.Curves, animator.FloatCurve{
			Binding: animator.CurveBinding(curve.Binding),
			Curve:   animator.Curve{Keys: keys, PreWrapMode: curve.PreWrapMode, PostWrapMode: curve.PostWrapMode},
		})
	}
	for _, curve := range doc.ObjectCurves {
		keys := make([]animator.ObjectKeyframe, 0, len(curve.Keys))
		for _, k := range curve.Keys {
			keys = append(keys, animator.ObjectKeyframe(k))
		}
		c.ObjectCurves = append(c.ObjectCurves, animator.ObjectCurve{Binding: animator.CurveBinding(curve.Binding), Keys: keys})
	}
	for _, e := range doc.Events {
		c.Events = append(c.Events, animator.AnimationEvent(e))
	}
}

func fillBehaviour(behaviour animator.Behaviour, doc *behaviourDocument) error {
	switch b := behaviour.(type) {
	case *animator.VrcParameterDriver:
		b.LocalOnly = doc.ParameterDriver.LocalOnly
		b.DebugText = doc.ParameterDriver.DebugText
		for _, p := range doc.ParameterDriver.Parameters {
			changeType, err := driverChangeTypes.parse(p.Type)
			if err != nil {
				return err
			}
			b.Parameters = append(b.Parameters, animator.DriverParameter{
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
	case *animator.VrcLocomotionControl:
		b.DisableLocomotion = doc.LocomotionControl.DisableLocomotion
		b.DebugText = doc.LocomotionControl.DebugText
	case *animator.VrcTrackingControl:
		b.DebugText = doc.TrackingControl.DebugText
		parts := trackingParts(b)
		for name, value := range doc.TrackingControl.Parts {
			field, ok := parts[name]
			if !ok {
				return merr.NewConfigError(merr.ErrorIDUnknownEnumValue, "未知のトラッキング部位です: %q", name)
			}
			tracking, err := trackingTypes.parse(value)
			if err != nil {
				return err
			}
			*field = tracking
		}
	case *animator.VrcPlayableLayerControl:
		c := doc.PlayableLayerControl
		b.Layer, b.GoalWeight, b.BlendDuration, b.DebugText = c.Layer, c.GoalWeight, c.BlendDuration, c.DebugText
	case *animator.VrcAnimatorLayerControl:
		c := doc.AnimatorLayerControl
		b.Playable, b.Layer, b.GoalWeight, b.BlendDuration, b.DebugText = c.Playable, c.Layer, c.GoalWeight, c.BlendDuration, c.DebugText
	case *animator.CvrAnimatorDriver:
		var err error
		b.LocalOnly = doc.AnimatorDriver.LocalOnly
		if b.EnterTasks, err = parseDriverTasks(doc.AnimatorDriver.EnterTasks); err != nil {
			return err
		}
		if b.ExitTasks, err = parseDriverTasks(doc.AnimatorDriver.ExitTasks); err != nil {
			return err
		}
	case *animator.CvrBodyControl:
		var err error
		if b.EnterTasks, err = parseBodyControlTasks(doc.BodyControl.EnterTasks); err != nil {
			return err
		}
		if b.ExitTasks, err = parseBodyControlTasks(doc.BodyControl.ExitTasks); err != nil {
			return err
		}
	default:
		panic(fmt.Sprintf("未知の振る舞い型です: %T", behaviour))
	}
	return nil
}

func parseDriverTasks(docs []driverTaskDocument) ([]animator.DriverTask, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	tasks := make([]animator.DriverTask, 0, len(docs))
	for _, doc := range docs {
		targetType, err := parameterTypes.parse(doc.TargetType)
		if err != nil {
			return nil, err
		}
		op, err := driverOperators.parse(doc.Op)
		if err != nil {
			return nil, err
		}
		task := animator.DriverTask{TargetName: doc.Target, TargetType: targetType, Op: op}
		if task.AType, task.AValue, task.AMax, task.AName, task.AParamType, err = parseDriverOperand(doc.A); err != nil {
			return nil, err
		}
		if task.BType, task.BValue, task.BMax, task.BName, task.BParamType, err = parseDriverOperand(doc.B); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func parseDriverOperand(doc driverOperandDocument) (animator.DriverSourceType, float64, float64, string, animator.ParameterType, error) {
	sourceType, err := driverSources.parseOr(doc.Type, animator.DRIVER_SOURCE_STATIC)
	if err != nil {
		return 0, 0, 0, "", 0, err
	}
	var paramType animator.ParameterType
	if doc.ParameterType != "" {
		if paramType, err = parameterTypes.parse(doc.ParameterType); err != nil {
			return 0, 0, 0, "", 0, err
		}
	}
	return sourceType, doc.Value, doc.Max, doc.Parameter, paramType, nil
}

func parseBodyControlTasks(docs []bodyControlTaskDocument) ([]animator.BodyControlTask, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	tasks := make([]animator.BodyControlTask, 0, len(docs))
	for _, doc := range docs {
		target, err := bodyControlTargets.parse(doc.Target)
		if err != nil {
			return nil, err
		}
		assignment, err := bodyControlAssignments.parse(doc.Assignment)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, animator.BodyControlTask{Target: target, Assignment: assignment, Duration: doc.Duration})
	}
	return tasks, nil
}

func toVec3(v vec3Document) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func fromVec3(v r3.Vec) vec3Document {
	return vec3Document{v.X, v.Y, v.Z}
}
