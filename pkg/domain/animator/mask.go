// 指示: miu200521358
package animator

// BodyPart はアバターマスクの部位スロットを表す。
type BodyPart int

const (
	BODY_PART_ROOT BodyPart = iota
	BODY_PART_BODY
	BODY_PART_HEAD
	BODY_PART_LEFT_LEG
	BODY_PART_RIGHT_LEG
	BODY_PART_LEFT_ARM
	BODY_PART_RIGHT_ARM
	BODY_PART_LEFT_FINGERS
	BODY_PART_RIGHT_FINGERS
	BODY_PART_LEFT_FOOT_IK
	BODY_PART_RIGHT_FOOT_IK
	BODY_PART_LEFT_HAND_IK
	BODY_PART_RIGHT_HAND_IK
	BODY_PART_COUNT
)

// bodyPartNames は部位スロットの表示名を保持する。
var bodyPartNames = [BODY_PART_COUNT]string{
	"Root",
	"Body",
	"Head",
	"LeftLeg",
	"RightLeg",
	"LeftArm",
	"RightArm",
	"LeftFingers",
	"RightFingers",
	"LeftFootIK",
	"RightFootIK",
	"LeftHandIK",
	"RightHandIK",
}

// String は部位スロットの表示名を返す。
func (p BodyPart) String() string {
	if p < 0 || p >= BODY_PART_COUNT {
		return "Unknown"
	}
	return bodyPartNames[p]
}

// BodyPartByName は表示名から部位スロットを解決する。
func BodyPartByName(name string) (BodyPart, bool) {
	for i, n := range bodyPartNames {
		if n == name {
			return BodyPart(i), true
		}
	}
	return 0, false
}

// MaskTransform はトランスフォーム単位のマスク指定を表す。
type MaskTransform struct {
	Path   string
	Active bool
}

// AvatarMask は部位ごとの有効/無効を表す固定長ビット列。
type AvatarMask struct {
	Name       string
	BodyParts  [BODY_PART_COUNT]bool
	Transforms []MaskTransform
}

// NewAvatarMask は指定部位だけが有効なマスクを生成する。
func NewAvatarMask(name string, parts ...BodyPart) *AvatarMask {
	mask := &AvatarMask{Name: name}
	for _, part := range parts {
		mask.BodyParts[part] = true
	}
	return mask
}

// NewFullBodyMask は全部位が有効なマスクを生成する。
func NewFullBodyMask(name string) *AvatarMask {
	mask := &AvatarMask{Name: name}
	for i := range mask.BodyParts {
		mask.BodyParts[i] = true
	}
	return mask
}

// IsActive は部位が有効かを返す。
func (m *AvatarMask) IsActive(part BodyPart) bool {
	if m == nil {
		return true
	}
	return m.BodyParts[part]
}

// ActiveParts は有効な部位の一覧を返す。
func (m *AvatarMask) ActiveParts() []BodyPart {
	parts := make([]BodyPart, 0, BODY_PART_COUNT)
	for i := BodyPart(0); i < BODY_PART_COUNT; i++ {
		if m.IsActive(i) {
			parts = append(parts, i)
		}
	}
	return parts
}

// Copy はマスクの複製を返す。
func (m *AvatarMask) Copy() *AvatarMask {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Transforms = append([]MaskTransform(nil), m.Transforms...)
	return &cp
}
