// 指示: miu200521358
package minteractor

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

func gestureCondition(mode animator.ConditionMode, parameter string, threshold float64) animator.Condition {
	return animator.Condition{Mode: mode, Parameter: parameter, Threshold: threshold}
}

// acceptsAll は条件を全て満たすかを返す。
func acceptsAll(conditions []animator.Condition, parameter string, value float64) bool {
	for _, c := range conditions {
		if c.Parameter != parameter {
			continue
		}
		if !c.Accepts(value) {
			return false
		}
	}
	return true
}

func TestRemapGestureEqualsBrackets(t *testing.T) {
	testCases := []struct {
		name      string
		threshold float64
		want      []animator.Condition
	}{
		{
			name:      "fist",
			threshold: 1,
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 1.1),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 0.01),
			},
		},
		{
			name:      "open",
			threshold: 2,
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", -0.9),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", -1.1),
			},
		},
		{
			name:      "neutral",
			threshold: 0,
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 0.01),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", -0.1),
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			alternatives, found, err := remapGestureConditions([]animator.Condition{
				gestureCondition(animator.CONDITION_MODE_EQUALS, "GestureLeft", tc.threshold),
			})
			if err != nil || !found {
				t.Fatalf("remap failed: found=%t err=%v", found, err)
			}
			if len(alternatives) != 1 {
				t.Fatalf("alternative count mismatch: got=%d want=1", len(alternatives))
			}
			assertConditionsNear(t, alternatives[0], tc.want)
		})
	}
}

// assertConditionsNear は浮動小数の誤差を許容して条件列を比較する。
func assertConditionsNear(t *testing.T, got []animator.Condition, want []animator.Condition) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("condition count mismatch: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i].Mode != want[i].Mode || got[i].Parameter != want[i].Parameter || math.Abs(got[i].Threshold-want[i].Threshold) > 1e-9 {
			t.Fatalf("condition %d mismatch: got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestRemapGestureNotEqualSplitsIntoComplement(t *testing.T) {
	for gesture := 0; gesture < 8; gesture++ {
		source := animator.NewStateMachine("Gesture")
		from := source.AddState("From", r3.Vec{})
		to := source.AddState("To", r3.Vec{})
		original := newTransitionTo(to,
			gestureCondition(animator.CONDITION_MODE_NOT_EQUAL, "GestureRight", float64(gesture)),
			gestureCondition(animator.CONDITION_MODE_IF, "Enabled", 0),
		)
		original.Duration = 0.3
		original.InterruptionSource = animator.INTERRUPTION_DESTINATION
		from.AddTransition(original)

		if _, err := RemapGestureConditions(source); err != nil {
			t.Fatalf("remap failed: %v", err)
		}
		if len(from.Transitions) != 2 {
			t.Fatalf("not-equal should split into 2 transitions: gesture=%d got=%d", gesture, len(from.Transitions))
		}
		primary, duplicate := from.Transitions[0], from.Transitions[1]
		if primary != original {
			t.Fatalf("primary transition should be kept in place")
		}
		if duplicate.DestinationState() != to || duplicate.Duration != 0.3 || duplicate.InterruptionSource != animator.INTERRUPTION_DESTINATION {
			t.Fatalf("duplicate should keep destination and settings: %+v", duplicate)
		}
		if duplicate.Conditions[0] != (animator.Condition{Mode: animator.CONDITION_MODE_IF, Parameter: "Enabled"}) {
			t.Fatalf("non-gesture condition should be kept first: %+v", duplicate.Conditions)
		}

		value, _ := cvrValueOf(avatar.Gesture(gesture))
		bracket := bracketOfValue(value)
		for v := -2.0; v <= 7.0; v += 0.05 {
			inBracket := v > bracket.lower && v < bracket.upper
			onEdge := math.Abs(v-bracket.lower) < 1e-9 || math.Abs(v-bracket.upper) < 1e-9
			if onEdge {
				continue
			}
			accepted := acceptsAll(primary.Conditions, "GestureRight", v) || acceptsAll(duplicate.Conditions, "GestureRight", v)
			if accepted == inBracket {
				t.Fatalf("not-equal complement mismatch: gesture=%d value=%v accepted=%t", gesture, v, accepted)
			}
			if acceptsAll(primary.Conditions, "GestureRight", v) && acceptsAll(duplicate.Conditions, "GestureRight", v) {
				t.Fatalf("split transitions should not overlap: gesture=%d value=%v", gesture, v)
			}
		}
	}
}

func TestRemapGestureWeightNarrowsFist(t *testing.T) {
	alternatives, _, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_EQUALS, "GestureLeft", 1),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeftWeight", 0.5),
	})
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	assertConditionsNear(t, alternatives[0], []animator.Condition{
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 1.1),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 0.5),
	})

	alternatives, _, err = remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_EQUALS, "GestureLeft", 1),
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeftWeight", 0.4),
	})
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	assertConditionsNear(t, alternatives[0], []animator.Condition{
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 0.4),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 0.01),
	})
}

// debugRecorder はDEBUGログを記録するロガー。
type debugRecorder struct {
	messages []string
}

func (r *debugRecorder) Debug(format string, params ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, params...))
}
func (r *debugRecorder) Info(string, ...any)       {}
func (r *debugRecorder) Warn(string, ...any)       {}
func (r *debugRecorder) Error(string, ...any)      {}
func (r *debugRecorder) SetLevel(logging.LogLevel) {}
func (r *debugRecorder) Level() logging.LogLevel   { return logging.LOG_LEVEL_DEBUG }

// useDebugRecorder はテスト中だけ既定ロガーを差し替える。
func useDebugRecorder(t *testing.T) *debugRecorder {
	t.Helper()
	previous := logging.DefaultLogger()
	recorder := &debugRecorder{}
	logging.SetDefaultLogger(recorder)
	t.Cleanup(func() {
		logging.SetDefaultLogger(previous)
	})
	return recorder
}

func TestRemapGestureWeightWithOtherGestureIsIgnored(t *testing.T) {
	recorder := useDebugRecorder(t)
	alternatives, _, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_EQUALS, "GestureLeft", 3),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeftWeight", 0.5),
	})
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	assertConditionsNear(t, alternatives[0], []animator.Condition{
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 4.1),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 3.9),
	})
	if len(recorder.messages) != 1 || !strings.Contains(recorder.messages[0], "GestureLeft") {
		t.Fatalf("ignored weight should be logged: got=%v", recorder.messages)
	}
}

func TestRemapGestureWeightWithNotEqualFistIsIgnored(t *testing.T) {
	recorder := useDebugRecorder(t)
	alternatives, _, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_NOT_EQUAL, "GestureRight", 1),
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureRightWeight", 0.5),
	})
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	if len(alternatives) != 2 {
		t.Fatalf("not-equal should still split: got=%v", alternatives)
	}
	if len(recorder.messages) != 1 {
		t.Fatalf("ignored weight should be logged: got=%v", recorder.messages)
	}
}

func TestRemapGestureWeightBracketsFistOnly(t *testing.T) {
	testCases := []struct {
		name       string
		conditions []animator.Condition
		want       []animator.Condition
		fistWeight float64
	}{
		{
			name: "standalone greater",
			conditions: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRightWeight", 0.25),
			},
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRight", 1.1),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRight", 0.25),
			},
			fistWeight: 0.6,
		},
		{
			name: "standalone less",
			conditions: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRightWeight", 0.5),
			},
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRight", 0.5),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRight", 0.01),
			},
			fistWeight: 0.3,
		},
		{
			name: "not equal accepting fist",
			conditions: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_NOT_EQUAL, "GestureRight", 3),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRightWeight", 0.5),
			},
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRight", 1.1),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRight", 0.5),
			},
			fistWeight: 0.9,
		},
		{
			name: "range accepting fist",
			conditions: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRight", 4),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRightWeight", 0.5),
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRightWeight", 0.8),
			},
			want: []animator.Condition{
				gestureCondition(animator.CONDITION_MODE_LESS, "GestureRight", 0.8),
				gestureCondition(animator.CONDITION_MODE_GREATER, "GestureRight", 0.5),
			},
			fistWeight: 0.7,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			alternatives, found, err := remapGestureConditions(tc.conditions)
			if err != nil || !found {
				t.Fatalf("remap failed: found=%t err=%v", found, err)
			}
			if len(alternatives) != 1 {
				t.Fatalf("alternative count mismatch: got=%v want=1", alternatives)
			}
			assertConditionsNear(t, alternatives[0], tc.want)

			for gesture := avatar.GESTURE_NEUTRAL; gesture < avatar.GESTURE_COUNT; gesture++ {
				value, err := cvrValueOf(gesture)
				if err != nil {
					t.Fatalf("gesture value failed: %v", err)
				}
				if gesture == avatar.GESTURE_FIST {
					value = tc.fistWeight
				}
				accepted := acceptsAll(alternatives[0], "GestureRight", value)
				if accepted != (gesture == avatar.GESTURE_FIST) {
					t.Fatalf("weight bracket should accept fist only: gesture=%d value=%v accepted=%t", gesture, value, accepted)
				}
			}
		})
	}
}

func TestRemapGestureEmptyWeightBracketIsDropped(t *testing.T) {
	alternatives, found, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeftWeight", 0.7),
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeftWeight", 0.3),
	})
	if err != nil || !found {
		t.Fatalf("remap failed: found=%t err=%v", found, err)
	}
	if len(alternatives) != 0 {
		t.Fatalf("empty weight bracket should be unsatisfiable: got=%v", alternatives)
	}
}

func TestRemapGestureGreaterEnumeratesRanges(t *testing.T) {
	// ID 4(peace)以上 = 5, 6(rock), 3(gun), 2(thumbs) -> 変換先では 2..3 と 5..6 の2区間。
	alternatives, _, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 3),
	})
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	if len(alternatives) != 2 {
		t.Fatalf("range count mismatch: got=%v", alternatives)
	}
	assertConditionsNear(t, alternatives[0], []animator.Condition{
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 3.1),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 1.9),
	})
	assertConditionsNear(t, alternatives[1], []animator.Condition{
		gestureCondition(animator.CONDITION_MODE_LESS, "GestureLeft", 6.1),
		gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 4.9),
	})
}

func TestRemapGestureUnsatisfiableTransitionIsDropped(t *testing.T) {
	source := animator.NewStateMachine("Gesture")
	from := source.AddState("From", r3.Vec{})
	from.AddTransition(newTransitionTo(from, gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", 7)))
	from.AddTransition(newTransitionTo(from, gestureCondition(animator.CONDITION_MODE_GREATER, "GestureLeft", -1)))

	dropped, err := RemapGestureConditions(source)
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	if dropped != 1 || len(from.Transitions) != 1 {
		t.Fatalf("unsatisfiable transition should be dropped: dropped=%d remaining=%d", dropped, len(from.Transitions))
	}
	if len(from.Transitions[0].Conditions) != 0 {
		t.Fatalf("always-true gesture condition should vanish: %v", from.Transitions[0].Conditions)
	}
}

func TestRemapGestureBothHandsProduceProduct(t *testing.T) {
	alternatives, _, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_NOT_EQUAL, "GestureLeft", 0),
		gestureCondition(animator.CONDITION_MODE_NOT_EQUAL, "GestureRight", 0),
	})
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}
	if len(alternatives) != 4 {
		t.Fatalf("product size mismatch: got=%d want=4", len(alternatives))
	}
}

func TestRemapGestureRejectsUnknownGesture(t *testing.T) {
	_, _, err := remapGestureConditions([]animator.Condition{
		gestureCondition(animator.CONDITION_MODE_EQUALS, "GestureLeft", 8),
	})
	if err == nil {
		t.Fatalf("expected error for unknown gesture")
	}
	if got := merr.ExtractErrorID(err); got != merr.ErrorIDUnknownEnumValue {
		t.Fatalf("error id mismatch: got=%s want=%s", got, merr.ErrorIDUnknownEnumValue)
	}
}

func TestRemapGestureIgnoresOtherParameters(t *testing.T) {
	conditions := []animator.Condition{gestureCondition(animator.CONDITION_MODE_EQUALS, "Outfit", 2)}
	_, found, err := remapGestureConditions(conditions)
	if err != nil || found {
		t.Fatalf("non gesture conditions should be left alone: found=%t err=%v", found, err)
	}
}
