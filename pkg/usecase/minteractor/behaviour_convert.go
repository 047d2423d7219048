// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/model"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
)

// parameterLookup はパラメーター名から定義を引く。
type parameterLookup func(name string) (*animator.Parameter, bool)

// behaviourConverter は1レイヤー分の振る舞い変換に必要な情報を保持する。
type behaviourConverter struct {
	session   *ConversionSession
	lookup    parameterLookup
	layerName string
}

// ConvertBehaviours はステートマシン配下の振る舞いを変換先の種別へ変換する。
// 変換先の無い種別は除外して警告を記録する。
func (s *ConversionSession) ConvertBehaviours(
	machine *animator.StateMachine,
	controller *animator.AnimatorController,
	layerName string,
) error {
	if machine == nil {
		return nil
	}
	c := &behaviourConverter{session: s, lookup: controller.FindParameter, layerName: layerName}
	var walkErr error
	machine.WalkStateMachines(func(m *animator.StateMachine) {
		if walkErr != nil {
			return
		}
		converted, err := c.convertAll(m.Behaviours, layerName+"/"+m.Name)
		if err != nil {
			walkErr = err
			return
		}
		m.Behaviours = converted
	})
	if walkErr != nil {
		return walkErr
	}
	machine.WalkStates(func(m *animator.StateMachine, state *animator.State) {
		if walkErr != nil {
			return
		}
		converted, err := c.convertAll(state.Behaviours, layerName+"/"+m.Name+"/"+state.Name)
		if err != nil {
			walkErr = err
			return
		}
		state.Behaviours = converted
	})
	return walkErr
}

// convertAll は振る舞い列を変換する。
func (c *behaviourConverter) convertAll(behaviours []animator.Behaviour, owner string) ([]animator.Behaviour, error) {
	if len(behaviours) == 0 {
		return behaviours, nil
	}
	converted := make([]animator.Behaviour, 0, len(behaviours))
	for _, behaviour := range behaviours {
		switch b := behaviour.(type) {
		case *animator.VrcParameterDriver:
			driver, err := c.convertParameterDriver(b, owner)
			if err != nil {
				return nil, err
			}
			if len(driver.EnterTasks) > 0 {
				converted = append(converted, driver)
			}
		case *animator.VrcLocomotionControl:
			converted = append(converted, convertLocomotionControl(b))
		case *animator.VrcTrackingControl:
			if body := c.convertTrackingControl(b, owner); len(body.EnterTasks) > 0 {
				converted = append(converted, body)
			}
		case *animator.VrcPlayableLayerControl, *animator.VrcAnimatorLayerControl:
			c.session.recordDroppedBehaviour(owner, b.BehaviourKind())
			c.session.AddWarning(model.ConvertWarningBehaviourDropped)
			logConvertWarn("変換先の無い振る舞いを除外しました: %s %s", owner, b.BehaviourKind())
		case *animator.CvrAnimatorDriver, *animator.CvrBodyControl:
			converted = append(converted, b)
		default:
			panic(fmt.Sprintf("未知の振る舞い型です: %T", behaviour))
		}
	}
	return converted, nil
}

// convertParameterDriver はVRCパラメータードライバーをCVRアニメータードライバーに変換する。
func (c *behaviourConverter) convertParameterDriver(driver *animator.VrcParameterDriver, owner string) (*animator.CvrAnimatorDriver, error) {
	converted := &animator.CvrAnimatorDriver{LocalOnly: driver.LocalOnly}
	for _, p := range driver.Parameters {
		target, ok := c.lookup(p.Name)
		if !ok {
			c.session.AddWarning(model.ConvertWarningDriverTargetMissing)
			logConvertWarn("ドライバー対象のパラメーターが見つかりません: %s %s", owner, p.Name)
			continue
		}
		if !target.Type.IsValid() {
			return nil, merr.NewConfigError(merr.ErrorIDUnknownValueType,
				"ドライバー対象のパラメーター種別が不正です: %s %d", p.Name, int(target.Type))
		}
		tasks, err := c.convertDriverParameter(p, target, owner)
		if err != nil {
			return nil, err
		}
		converted.EnterTasks = append(converted.EnterTasks, tasks...)
	}
	return converted, nil
}

// convertDriverParameter はドライバーの1操作をタスク列に変換する。
func (c *behaviourConverter) convertDriverParameter(
	p animator.DriverParameter,
	target *animator.Parameter,
	owner string,
) ([]animator.DriverTask, error) {
	task := animator.DriverTask{TargetName: target.Name, TargetType: target.Type}
	switch p.Type {
	case animator.DRIVER_CHANGE_SET:
		task.Op = animator.DRIVER_OP_SET
		task.AType = animator.DRIVER_SOURCE_STATIC
		task.AValue = p.Value
		return []animator.DriverTask{task}, nil
	case animator.DRIVER_CHANGE_ADD:
		task.Op = animator.DRIVER_OP_ADDITION
		task.AType = animator.DRIVER_SOURCE_PARAMETER
		task.AName = target.Name
		task.AParamType = target.Type
		task.BType = animator.DRIVER_SOURCE_STATIC
		task.BValue = p.Value
		return []animator.DriverTask{task}, nil
	case animator.DRIVER_CHANGE_RANDOM:
		task.AType = animator.DRIVER_SOURCE_RANDOM
		if target.Type == animator.PARAMETER_TYPE_BOOL || target.Type == animator.PARAMETER_TYPE_TRIGGER {
			task.Op = animator.DRIVER_OP_LESS_THAN
			task.AValue = 0
			task.AMax = 1
			task.BType = animator.DRIVER_SOURCE_STATIC
			task.BValue = p.Chance
		} else {
			task.Op = animator.DRIVER_OP_SET
			task.AValue = p.ValueMin
			task.AMax = p.ValueMax
		}
		return []animator.DriverTask{task}, nil
	case animator.DRIVER_CHANGE_COPY:
		return c.convertCopy(p, task, owner)
	default:
		return nil, merr.NewConfigError(merr.ErrorIDUnknownEnumValue,
			"未知のドライバー操作です: %s %d", p.Name, int(p.Type))
	}
}

// convertCopy はコピー操作を変換する。範囲変換付きの場合は乗算と加算の2タスクに分ける。
// dst = (src - srcMin) * (dstMax - dstMin) / (srcMax - srcMin) + dstMin
func (c *behaviourConverter) convertCopy(
	p animator.DriverParameter,
	task animator.DriverTask,
	owner string,
) ([]animator.DriverTask, error) {
	source, ok := c.lookup(p.Source)
	if !ok {
		c.session.AddWarning(model.ConvertWarningDriverTargetMissing)
		logConvertWarn("コピー元のパラメーターが見つかりません: %s %s", owner, p.Source)
		return nil, nil
	}
	if !source.Type.IsValid() {
		return nil, merr.NewConfigError(merr.ErrorIDUnknownValueType,
			"コピー元のパラメーター種別が不正です: %s %d", p.Source, int(source.Type))
	}

	task.AType = animator.DRIVER_SOURCE_PARAMETER
	task.AName = source.Name
	task.AParamType = source.Type
	if !p.ConvertRange {
		task.Op = animator.DRIVER_OP_SET
		return []animator.DriverTask{task}, nil
	}

	factor := 0.0
	if p.SourceMax != p.SourceMin {
		factor = (p.DestMax - p.DestMin) / (p.SourceMax - p.SourceMin)
	}
	scale := task
	scale.Op = animator.DRIVER_OP_MULTIPLICATION
	scale.BType = animator.DRIVER_SOURCE_STATIC
	scale.BValue = factor

	offset := animator.DriverTask{
		TargetName: task.TargetName,
		TargetType: task.TargetType,
		Op:         animator.DRIVER_OP_ADDITION,
		AType:      animator.DRIVER_SOURCE_PARAMETER,
		AName:      task.TargetName,
		AParamType: task.TargetType,
		BType:      animator.DRIVER_SOURCE_STATIC,
		BValue:     p.DestMin - p.SourceMin*factor,
	}
	return []animator.DriverTask{scale, offset}, nil
}

// convertLocomotionControl は移動制御をボディ制御に変換する。
func convertLocomotionControl(control *animator.VrcLocomotionControl) *animator.CvrBodyControl {
	assignment := animator.BODY_CONTROL_ASSIGN_TRACKING
	if control.DisableLocomotion {
		assignment = animator.BODY_CONTROL_ASSIGN_ANIMATION
	}
	return &animator.CvrBodyControl{
		EnterTasks: []animator.BodyControlTask{{Target: animator.BODY_CONTROL_LOCOMOTION, Assignment: assignment}},
	}
}

// convertTrackingControl はトラッキング制御をボディ制御に変換する。変換先の無い部位は警告して無視する。
func (c *behaviourConverter) convertTrackingControl(control *animator.VrcTrackingControl, owner string) *animator.CvrBodyControl {
	body := &animator.CvrBodyControl{}
	parts := []struct {
		tracking animator.TrackingType
		target   animator.BodyControlTarget
	}{
		{control.TrackingHead, animator.BODY_CONTROL_HEAD},
		{control.TrackingHip, animator.BODY_CONTROL_PELVIS},
		{control.TrackingLeftHand, animator.BODY_CONTROL_LEFT_ARM},
		{control.TrackingRightHand, animator.BODY_CONTROL_RIGHT_ARM},
		{control.TrackingLeftFoot, animator.BODY_CONTROL_LEFT_LEG},
		{control.TrackingRightFoot, animator.BODY_CONTROL_RIGHT_LEG},
	}
	for _, part := range parts {
		switch part.tracking {
		case animator.TRACKING_TYPE_TRACKING:
			body.EnterTasks = append(body.EnterTasks, animator.BodyControlTask{Target: part.target, Assignment: animator.BODY_CONTROL_ASSIGN_TRACKING})
		case animator.TRACKING_TYPE_ANIMATION:
			body.EnterTasks = append(body.EnterTasks, animator.BodyControlTask{Target: part.target, Assignment: animator.BODY_CONTROL_ASSIGN_ANIMATION})
		}
	}

	ignored := []animator.TrackingType{
		control.TrackingLeftFingers,
		control.TrackingRightFingers,
		control.TrackingEyes,
		control.TrackingMouth,
	}
	for _, tracking := range ignored {
		if tracking != animator.TRACKING_TYPE_NO_CHANGE {
			c.session.AddWarning(model.ConvertWarningTrackingPartIgnored)
			logConvertWarn("変換先の無いトラッキング部位を無視しました: %s", owner)
			break
		}
	}
	return body
}
