// 指示: miu200521358
package avatar

import "fmt"

const (
	GESTURE_LEFT         = "GestureLeft"
	GESTURE_RIGHT        = "GestureRight"
	GESTURE_LEFT_WEIGHT  = "GestureLeftWeight"
	GESTURE_RIGHT_WEIGHT = "GestureRightWeight"
)

// VrcBuiltinParameterNames はVRC側で組み込みのパラメーター名集合。
var VrcBuiltinParameterNames = map[string]struct{}{
	"IsLocal":            {},
	"Viseme":             {},
	"Voice":              {},
	GESTURE_LEFT:         {},
	GESTURE_RIGHT:        {},
	GESTURE_LEFT_WEIGHT:  {},
	GESTURE_RIGHT_WEIGHT: {},
	"AngularY":           {},
	"VelocityX":          {},
	"VelocityY":          {},
	"VelocityZ":          {},
	"VelocityMagnitude":  {},
	"Upright":            {},
	"Grounded":           {},
	"Seated":             {},
	"AFK":                {},
	"TrackingType":       {},
	"VRMode":             {},
	"MuteSelf":           {},
	"InStation":          {},
	"Earmuffs":           {},
	"IsOnFriendsList":    {},
	"AvatarVersion":      {},
	"ScaleModified":      {},
	"ScaleFactor":        {},
	"ScaleFactorInverse": {},
	"EyeHeightAsMeters":  {},
	"EyeHeightAsPercent": {},
}

// CvrBuiltinRenames はVRC組み込みパラメーターからCVR組み込みパラメーターへの名称対応。
var CvrBuiltinRenames = map[string]string{
	"VelocityX":          "MovementX",
	"VelocityZ":          "MovementY",
	"Seated":             "Sitting",
	"Viseme":             "VisemeIdx",
	"Voice":              "VisemeLoudness",
	GESTURE_LEFT_WEIGHT:  GESTURE_LEFT,
	GESTURE_RIGHT_WEIGHT: GESTURE_RIGHT,
}

// IsBuiltinParameter はVRCまたはCVRの組み込みパラメーター名かを返す。
func IsBuiltinParameter(name string) bool {
	if _, ok := VrcBuiltinParameterNames[name]; ok {
		return true
	}
	for _, renamed := range CvrBuiltinRenames {
		if renamed == name {
			return true
		}
	}
	return false
}

// GestureParameterOfWeight はジェスチャー重みパラメーターに対応する基底パラメーター名を返す。
func GestureParameterOfWeight(name string) (string, bool) {
	switch name {
	case GESTURE_LEFT_WEIGHT:
		return GESTURE_LEFT, true
	case GESTURE_RIGHT_WEIGHT:
		return GESTURE_RIGHT, true
	default:
		return "", false
	}
}

// IsGestureParameter はジェスチャー基底パラメーター名かを返す。
func IsGestureParameter(name string) bool {
	return name == GESTURE_LEFT || name == GESTURE_RIGHT
}

// Gesture はVRCのジェスチャーIDを表す。
type Gesture int

const (
	GESTURE_NEUTRAL Gesture = iota
	GESTURE_FIST
	GESTURE_HAND_OPEN
	GESTURE_FINGER_POINT
	GESTURE_VICTORY
	GESTURE_ROCK_N_ROLL
	GESTURE_HAND_GUN
	GESTURE_THUMBS_UP
	GESTURE_COUNT
)

// cvrGestureValues はVRCジェスチャーIDからCVRのジェスチャー値への対応。
var cvrGestureValues = [GESTURE_COUNT]float64{
	GESTURE_NEUTRAL:      0,
	GESTURE_FIST:         1,
	GESTURE_HAND_OPEN:    -1,
	GESTURE_FINGER_POINT: 4,
	GESTURE_VICTORY:      5,
	GESTURE_ROCK_N_ROLL:  6,
	GESTURE_HAND_GUN:     3,
	GESTURE_THUMBS_UP:    2,
}

// CvrGestureValue はVRCジェスチャーIDに対応するCVRのジェスチャー値を返す。
func CvrGestureValue(gesture Gesture) (float64, error) {
	if gesture < 0 || gesture >= GESTURE_COUNT {
		return 0, fmt.Errorf("ジェスチャーIDが範囲外です: %d", int(gesture))
	}
	return cvrGestureValues[gesture], nil
}

// HumanoidMuscleNames はヒューマノイドのマッスル名集合。
var HumanoidMuscleNames = buildHumanoidMuscleNames()

// buildHumanoidMuscleNames はマッスル名(体幹・四肢・指)の集合を組み立てる。
func buildHumanoidMuscleNames() map[string]struct{} {
	names := map[string]struct{}{}
	add := func(name string) {
		names[name] = struct{}{}
	}
	for _, part := range []string{"Spine", "Chest", "UpperChest"} {
		add(part + " Front-Back")
		add(part + " Left-Right")
		add(part + " Twist Left-Right")
	}
	for _, part := range []string{"Neck", "Head"} {
		add(part + " Nod Down-Up")
		add(part + " Tilt Left-Right")
		add(part + " Turn Left-Right")
	}
	for _, side := range []string{"Left", "Right"} {
		add(side + " Eye Down-Up")
		add(side + " Eye In-Out")
	}
	add("Jaw Close")
	add("Jaw Left-Right")
	for _, side := range []string{"Left", "Right"} {
		add(side + " Upper Leg Front-Back")
		add(side + " Upper Leg In-Out")
		add(side + " Upper Leg Twist In-Out")
		add(side + " Lower Leg Stretch")
		add(side + " Lower Leg Twist In-Out")
		add(side + " Foot Up-Down")
		add(side + " Foot Twist In-Out")
		add(side + " Toes Up-Down")
	}
	for _, side := range []string{"Left", "Right"} {
		add(side + " Shoulder Down-Up")
		add(side + " Shoulder Front-Back")
		add(side + " Arm Down-Up")
		add(side + " Arm Front-Back")
		add(side + " Arm Twist In-Out")
		add(side + " Forearm Stretch")
		add(side + " Forearm Twist In-Out")
		add(side + " Hand Down-Up")
		add(side + " Hand In-Out")
	}
	for _, side := range []string{"Left", "Right"} {
		for _, finger := range []string{"Thumb", "Index", "Middle", "Ring", "Little"} {
			add(fmt.Sprintf("%s %s 1 Stretched", side, finger))
			add(fmt.Sprintf("%s %s Spread", side, finger))
			add(fmt.Sprintf("%s %s 2 Stretched", side, finger))
			add(fmt.Sprintf("%s %s 3 Stretched", side, finger))
			// クリップ上の指カーブ名は "LeftHand.Index.1 Stretched" 形式で記録される。
			add(fmt.Sprintf("%sHand.%s.1 Stretched", side, finger))
			add(fmt.Sprintf("%sHand.%s.Spread", side, finger))
			add(fmt.Sprintf("%sHand.%s.2 Stretched", side, finger))
			add(fmt.Sprintf("%sHand.%s.3 Stretched", side, finger))
		}
	}
	return names
}

// IsHumanoidMuscle はマッスル名かを返す。
func IsHumanoidMuscle(name string) bool {
	_, ok := HumanoidMuscleNames[name]
	return ok
}
