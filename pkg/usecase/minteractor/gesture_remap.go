// 指示: miu200521358
package minteractor

import (
	"math"
	"sort"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
)

const (
	// gestureBracketMargin は目標値を挟む開区間の幅。
	gestureBracketMargin = 0.1
	// gestureFistLower はグー(連続値)の下限。重み0付近を除外する。
	gestureFistLower = 0.01
	// gestureFistUpper はグー(連続値)の上限。
	gestureFistUpper = 1.1
)

// gestureSides は左右のジェスチャーパラメーターと重みパラメーターの組。
var gestureSides = [...]struct {
	base   string
	weight string
}{
	{base: avatar.GESTURE_LEFT, weight: avatar.GESTURE_LEFT_WEIGHT},
	{base: avatar.GESTURE_RIGHT, weight: avatar.GESTURE_RIGHT_WEIGHT},
}

// gestureBracket は変換先ジェスチャー値を挟む開区間を表す。
type gestureBracket struct {
	lower float64
	upper float64
}

// conditions は区間を Less(upper), Greater(lower) の順で条件化する。
func (b gestureBracket) conditions(parameter string) []animator.Condition {
	return []animator.Condition{
		{Mode: animator.CONDITION_MODE_LESS, Parameter: parameter, Threshold: b.upper},
		{Mode: animator.CONDITION_MODE_GREATER, Parameter: parameter, Threshold: b.lower},
	}
}

// bracketOfValue は変換先ジェスチャー値1つ分の区間を返す。
// グーは重みで連続的に変化するため0より上全体、ニュートラルはグーと重ならない上限とする。
func bracketOfValue(value float64) gestureBracket {
	switch value {
	case 1:
		return gestureBracket{lower: gestureFistLower, upper: gestureFistUpper}
	case 0:
		return gestureBracket{lower: -gestureBracketMargin, upper: gestureFistLower}
	default:
		return gestureBracket{lower: value - gestureBracketMargin, upper: value + gestureBracketMargin}
	}
}

// sourceGestureOf は条件しきい値をVRCジェスチャーIDとして解釈する。
func sourceGestureOf(condition animator.Condition) (avatar.Gesture, error) {
	threshold := condition.Threshold
	if threshold != math.Trunc(threshold) || threshold < 0 || threshold >= float64(avatar.GESTURE_COUNT) {
		return 0, merr.NewConfigError(merr.ErrorIDUnknownEnumValue,
			"ジェスチャー条件のしきい値が範囲外です: %s %s %v", condition.Parameter, condition.Mode, threshold)
	}
	return avatar.Gesture(int(threshold)), nil
}

// cvrValueOf はVRCジェスチャーIDを変換先の値に変換する。
func cvrValueOf(gesture avatar.Gesture) (float64, error) {
	value, err := avatar.CvrGestureValue(gesture)
	if err != nil {
		return 0, merr.WrapConfigError(merr.ErrorIDUnknownEnumValue, err, "ジェスチャー値を変換できません")
	}
	return value, nil
}

// gestureConditionSet は1遷移の片手分のジェスチャー条件を表す。
type gestureConditionSet struct {
	base    string
	conds   []animator.Condition
	weights []animator.Condition
}

// fistBracket は重み条件でグーの区間を狭めた区間を返す。
// 変換先では重みはグーの連続値として表されるため、重み条件はグー以外を受け付けない。
func (g gestureConditionSet) fistBracket() gestureBracket {
	bracket := gestureBracket{lower: gestureFistLower, upper: gestureFistUpper}
	for _, w := range g.weights {
		switch w.Mode {
		case animator.CONDITION_MODE_GREATER:
			bracket.lower = math.Max(bracket.lower, w.Threshold)
		case animator.CONDITION_MODE_LESS:
			bracket.upper = math.Min(bracket.upper, w.Threshold)
		}
	}
	return bracket
}

// fistAlternatives はグーの区間1つを候補とする。区間が空なら成立しない。
func (g gestureConditionSet) fistAlternatives() [][]animator.Condition {
	bracket := g.fistBracket()
	if bracket.lower >= bracket.upper {
		return nil
	}
	return [][]animator.Condition{bracket.conditions(g.base)}
}

// ignoreWeights はグーを含まない条件と組になった重み条件を無視したことを記録する。
func (g gestureConditionSet) ignoreWeights() {
	if len(g.weights) == 0 {
		return
	}
	logConvertDebug("グー以外のジェスチャー条件と組になった重み条件を無視しました: %s count=%d", g.base, len(g.weights))
}

// acceptsGesture はジェスチャー条件を全て満たすかを返す。
func (g gestureConditionSet) acceptsGesture(gesture avatar.Gesture) bool {
	for _, c := range g.conds {
		if !c.Accepts(float64(gesture)) {
			return false
		}
	}
	return true
}

// alternatives は片手分の条件を変換先の条件候補(論理和)に展開する。
// 候補が0件の場合は決して成立しない条件を表す。
func (g gestureConditionSet) alternatives() ([][]animator.Condition, error) {
	if len(g.conds) == 0 {
		if len(g.weights) == 0 {
			return [][]animator.Condition{{}}, nil
		}
		return g.fistAlternatives(), nil
	}
	if len(g.weights) > 0 {
		for _, c := range g.conds {
			if c.Mode != animator.CONDITION_MODE_EQUALS && c.Mode != animator.CONDITION_MODE_NOT_EQUAL {
				continue
			}
			if _, err := sourceGestureOf(c); err != nil {
				return nil, err
			}
		}
		if g.acceptsGesture(avatar.GESTURE_FIST) {
			return g.fistAlternatives(), nil
		}
		g.ignoreWeights()
	}

	if len(g.conds) == 1 {
		switch g.conds[0].Mode {
		case animator.CONDITION_MODE_EQUALS:
			return g.equalsAlternatives(g.conds[0])
		case animator.CONDITION_MODE_NOT_EQUAL:
			return g.notEqualAlternatives(g.conds[0])
		}
	}
	return g.enumeratedAlternatives()
}

// equalsAlternatives は一致条件を区間条件に変換する。
func (g gestureConditionSet) equalsAlternatives(condition animator.Condition) ([][]animator.Condition, error) {
	gesture, err := sourceGestureOf(condition)
	if err != nil {
		return nil, err
	}
	value, err := cvrValueOf(gesture)
	if err != nil {
		return nil, err
	}
	return [][]animator.Condition{bracketOfValue(value).conditions(g.base)}, nil
}

// notEqualAlternatives は不一致条件を区間の下側と上側の2候補に分割する。
func (g gestureConditionSet) notEqualAlternatives(condition animator.Condition) ([][]animator.Condition, error) {
	gesture, err := sourceGestureOf(condition)
	if err != nil {
		return nil, err
	}
	value, err := cvrValueOf(gesture)
	if err != nil {
		return nil, err
	}
	bracket := bracketOfValue(value)
	below := []animator.Condition{{Mode: animator.CONDITION_MODE_LESS, Parameter: g.base, Threshold: bracket.lower}}
	above := []animator.Condition{{Mode: animator.CONDITION_MODE_GREATER, Parameter: g.base, Threshold: bracket.upper}}
	return [][]animator.Condition{below, above}, nil
}

// enumeratedAlternatives は全条件を満たすVRCジェスチャーIDを列挙し、変換先で連続する値ごとの区間候補にする。
func (g gestureConditionSet) enumeratedAlternatives() ([][]animator.Condition, error) {
	allValues := make([]float64, 0, avatar.GESTURE_COUNT)
	accepted := map[float64]bool{}
	for gesture := avatar.GESTURE_NEUTRAL; gesture < avatar.GESTURE_COUNT; gesture++ {
		value, err := cvrValueOf(gesture)
		if err != nil {
			return nil, err
		}
		allValues = append(allValues, value)
		if g.acceptsGesture(gesture) {
			accepted[value] = true
		}
	}
	if len(accepted) == 0 {
		return nil, nil
	}
	if len(accepted) == len(allValues) {
		return [][]animator.Condition{{}}, nil
	}

	sort.Float64s(allValues)
	alternatives := [][]animator.Condition{}
	for i := 0; i < len(allValues); {
		if !accepted[allValues[i]] {
			i++
			continue
		}
		j := i
		for j+1 < len(allValues) && accepted[allValues[j+1]] {
			j++
		}
		bracket := gestureBracket{
			lower: bracketOfValue(allValues[i]).lower,
			upper: bracketOfValue(allValues[j]).upper,
		}
		alternatives = append(alternatives, bracket.conditions(g.base))
		i = j + 1
	}
	return alternatives, nil
}

// splitGestureConditions は遷移条件をジェスチャー以外と左右のジェスチャー条件に分ける。
func splitGestureConditions(conditions []animator.Condition) ([]animator.Condition, []gestureConditionSet, bool) {
	others := make([]animator.Condition, 0, len(conditions))
	sets := make([]gestureConditionSet, len(gestureSides))
	found := false
	for i, side := range gestureSides {
		sets[i].base = side.base
	}
	for _, c := range conditions {
		matched := false
		for i, side := range gestureSides {
			switch c.Parameter {
			case side.base:
				sets[i].conds = append(sets[i].conds, c)
				matched = true
			case side.weight:
				sets[i].weights = append(sets[i].weights, c)
				matched = true
			}
		}
		if matched {
			found = true
			continue
		}
		others = append(others, c)
	}
	return others, sets, found
}

// remapGestureConditions は1遷移の条件を変換先の条件候補に展開する。
// 戻り値が0件の場合は成立しない遷移を表す。
func remapGestureConditions(conditions []animator.Condition) ([][]animator.Condition, bool, error) {
	others, sets, found := splitGestureConditions(conditions)
	if !found {
		return nil, false, nil
	}
	product := [][]animator.Condition{others}
	for _, set := range sets {
		alternatives, err := set.alternatives()
		if err != nil {
			return nil, true, err
		}
		next := make([][]animator.Condition, 0, len(product)*len(alternatives))
		for _, prefix := range product {
			for _, alt := range alternatives {
				combined := make([]animator.Condition, 0, len(prefix)+len(alt))
				combined = append(combined, prefix...)
				combined = append(combined, alt...)
				next = append(next, combined)
			}
		}
		product = next
	}
	return product, true, nil
}

// remapGestureTransitions は遷移列のジェスチャー条件を変換し、分割した遷移を元の直後に挿入する。
// 成立しなくなった遷移は除外し、除外数を返す。
func remapGestureTransitions(transitions []*animator.Transition) ([]*animator.Transition, int, error) {
	remapped := make([]*animator.Transition, 0, len(transitions))
	dropped := 0
	for _, t := range transitions {
		alternatives, found, err := remapGestureConditions(t.Conditions)
		if err != nil {
			return nil, 0, err
		}
		if !found {
			remapped = append(remapped, t)
			continue
		}
		if len(alternatives) == 0 {
			dropped++
			continue
		}
		t.Conditions = alternatives[0]
		remapped = append(remapped, t)
		for _, alt := range alternatives[1:] {
			remapped = append(remapped, duplicateTransition(t, alt))
		}
	}
	return remapped, dropped, nil
}

// duplicateTransition は遷移設定と遷移先を引き継ぎ、条件だけ差し替えた遷移を返す。
func duplicateTransition(source *animator.Transition, conditions []animator.Condition) *animator.Transition {
	duplicate := source.CopySettings()
	duplicate.Conditions = conditions
	switch {
	case source.DestinationState() != nil:
		duplicate.SetDestinationState(source.DestinationState())
	case source.DestinationStateMachine() != nil:
		duplicate.SetDestinationStateMachine(source.DestinationStateMachine())
	}
	return duplicate
}

// RemapGestureConditions はステートマシン配下全ての遷移のジェスチャー条件を変換先の表現に変換する。
// 戻り値は成立しなくなり除外した遷移数。
func RemapGestureConditions(machine *animator.StateMachine) (int, error) {
	if machine == nil {
		return 0, nil
	}
	dropped := 0
	var walkErr error
	remap := func(transitions []*animator.Transition) []*animator.Transition {
		if walkErr != nil {
			return transitions
		}
		remapped, n, err := remapGestureTransitions(transitions)
		if err != nil {
			walkErr = err
			return transitions
		}
		dropped += n
		return remapped
	}
	machine.WalkStateMachines(func(m *animator.StateMachine) {
		m.AnyStateTransitions = remap(m.AnyStateTransitions)
		m.EntryTransitions = remap(m.EntryTransitions)
		for _, set := range m.StateMachineTransitions {
			set.Transitions = remap(set.Transitions)
		}
		for _, state := range m.States {
			state.Transitions = remap(state.Transitions)
		}
	})
	if walkErr != nil {
		return 0, walkErr
	}
	return dropped, nil
}
