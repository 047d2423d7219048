// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
)

// cloneBehaviours は振る舞い列を種別ごとの複製関数で複製する。
func cloneBehaviours(source []animator.Behaviour) []animator.Behaviour {
	if len(source) == 0 {
		return nil
	}
	copied := make([]animator.Behaviour, 0, len(source))
	for _, behaviour := range source {
		copied = append(copied, cloneBehaviour(behaviour))
	}
	return copied
}

// cloneBehaviour は振る舞いを同じ種別の新しいインスタンスへ複製する。
func cloneBehaviour(source animator.Behaviour) animator.Behaviour {
	switch b := source.(type) {
	case *animator.VrcParameterDriver:
		return &animator.VrcParameterDriver{
			LocalOnly:  b.LocalOnly,
			DebugText:  b.DebugText,
			Parameters: append([]animator.DriverParameter(nil), b.Parameters...),
		}
	case *animator.VrcLocomotionControl:
		return &animator.VrcLocomotionControl{
			DisableLocomotion: b.DisableLocomotion,
			DebugText:         b.DebugText,
		}
	case *animator.VrcTrackingControl:
		cp := *b
		return &cp
	case *animator.VrcPlayableLayerControl:
		return &animator.VrcPlayableLayerControl{
			Layer:         b.Layer,
			GoalWeight:    b.GoalWeight,
			BlendDuration: b.BlendDuration,
			DebugText:     b.DebugText,
		}
	case *animator.VrcAnimatorLayerControl:
		return &animator.VrcAnimatorLayerControl{
			Playable:      b.Playable,
			Layer:         b.Layer,
			GoalWeight:    b.GoalWeight,
			BlendDuration: b.BlendDuration,
			DebugText:     b.DebugText,
		}
	case *animator.CvrAnimatorDriver:
		return &animator.CvrAnimatorDriver{
			LocalOnly:  b.LocalOnly,
			EnterTasks: append([]animator.DriverTask(nil), b.EnterTasks...),
			ExitTasks:  append([]animator.DriverTask(nil), b.ExitTasks...),
		}
	case *animator.CvrBodyControl:
		return &animator.CvrBodyControl{
			EnterTasks: append([]animator.BodyControlTask(nil), b.EnterTasks...),
			ExitTasks:  append([]animator.BodyControlTask(nil), b.ExitTasks...),
		}
	default:
		panic(fmt.Sprintf("未知の振る舞い型です: %T", source))
	}
}
