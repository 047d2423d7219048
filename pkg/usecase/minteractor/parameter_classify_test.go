// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/avatar"
)

func newClassifyDescriptor() *avatar.Descriptor {
	return &avatar.Descriptor{
		Name: "Kikyo",
		Parameters: []avatar.ExpressionParameter{
			{Name: "Hat", ValueType: animator.PARAMETER_TYPE_BOOL, NetworkSynced: true},
			{Name: "Wave", ValueType: animator.PARAMETER_TYPE_BOOL, NetworkSynced: true},
			{Name: "Local", ValueType: animator.PARAMETER_TYPE_FLOAT},
		},
		Menu: &avatar.Menu{Name: "Root", Controls: []avatar.Control{
			{Name: "Hat", Type: avatar.CONTROL_TYPE_TOGGLE, Parameter: "Hat", Value: 1},
			{Name: "Emotes", Type: avatar.CONTROL_TYPE_SUB_MENU, SubMenu: &avatar.Menu{Name: "Emotes", Controls: []avatar.Control{
				{Name: "Wave", Type: avatar.CONTROL_TYPE_BUTTON, Parameter: "Wave", Value: 1},
				{Name: "Poke", Type: avatar.CONTROL_TYPE_BUTTON, Parameter: "Local", Value: 1},
			}}},
			{Name: "HatAgain", Type: avatar.CONTROL_TYPE_BUTTON, Parameter: "Hat", Value: 0},
		}},
	}
}

func TestParameterClassificationFlags(t *testing.T) {
	c := NewParameterClassification(newClassifyDescriptor(), DefaultParameterPolicy())

	testCases := []struct {
		name string
		want RenameFlags
	}{
		{name: "Hat", want: 0},
		{name: "Wave", want: RENAME_FLAG_IMPULSE},
		{name: "Local", want: RENAME_FLAG_DESYNC | RENAME_FLAG_IMPULSE},
		{name: "Unknown", want: RENAME_FLAG_DESYNC},
		{name: "VelocityX", want: 0},
		{name: "Left Arm Down-Up", want: 0},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Classify(tc.name); got != tc.want {
				t.Fatalf("flags mismatch: got=%b want=%b", got, tc.want)
			}
		})
	}
}

func TestParameterClassificationRename(t *testing.T) {
	c := NewParameterClassification(newClassifyDescriptor(), DefaultParameterPolicy())

	testCases := []struct {
		name  string
		flags RenameFlags
		want  string
	}{
		{name: "Hat", flags: 0, want: "Hat"},
		{name: "Wave", flags: RENAME_FLAG_IMPULSE, want: "Wave-impulse"},
		{name: "Local", flags: RENAME_FLAG_DESYNC | RENAME_FLAG_IMPULSE, want: "#Local-impulse"},
		{name: "#Local-impulse", flags: RENAME_FLAG_DESYNC | RENAME_FLAG_IMPULSE, want: "#Local-impulse"},
		{name: "VelocityZ", flags: 0, want: "MovementY"},
		{name: "GestureLeftWeight", flags: 0, want: "GestureLeft"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Rename(tc.name, tc.flags); got != tc.want {
				t.Fatalf("rename mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestParameterClassificationWithoutPreserveSync(t *testing.T) {
	policy := DefaultParameterPolicy()
	policy.PreserveSyncState = false
	c := NewParameterClassification(newClassifyDescriptor(), policy)

	if got := c.Classify("Unknown"); got != 0 {
		t.Fatalf("desync should be disabled: got=%b", got)
	}
	if got := c.Classify("Wave"); got != RENAME_FLAG_IMPULSE {
		t.Fatalf("impulse should still apply: got=%b", got)
	}
}

func TestParameterClassificationDisplayNames(t *testing.T) {
	c := NewParameterClassification(newClassifyDescriptor(), DefaultParameterPolicy())
	if got := c.DisplayName("Wave"); got != "Emotes/Wave" {
		t.Fatalf("display name mismatch: got=%s", got)
	}
	if got := c.DisplayName("Hat"); got != "Hat" {
		t.Fatalf("first menu use should win: got=%s", got)
	}
	impulses := c.Impulses()
	if len(impulses) != 2 || impulses[0] != "Local" || impulses[1] != "Wave" {
		t.Fatalf("impulses mismatch: got=%v", impulses)
	}
}

func TestParameterClassificationNilDescriptor(t *testing.T) {
	c := NewParameterClassification(nil, ParameterPolicy{})
	if got := c.Classify("Anything"); got != 0 {
		t.Fatalf("nil descriptor should classify nothing: got=%b", got)
	}
	if got := c.Rename("Seated", 0); got != "Sitting" {
		t.Fatalf("builtin rename should still apply: got=%s", got)
	}
}

func TestParameterClassificationMatchesNormalizedNames(t *testing.T) {
	descriptor := &avatar.Descriptor{
		Name: "Kikyo",
		Parameters: []avatar.ExpressionParameter{
			{Name: "Caf\u00e9", ValueType: animator.PARAMETER_TYPE_BOOL, NetworkSynced: true},
		},
		Menu: &avatar.Menu{Name: "Root", Controls: []avatar.Control{
			{Name: "Drink", Type: avatar.CONTROL_TYPE_BUTTON, Parameter: "Caf\u00e9", Value: 1},
		}},
	}
	c := NewParameterClassification(descriptor, DefaultParameterPolicy())

	decomposed := "Cafe\u0301"
	if got := c.Classify(decomposed); got != RENAME_FLAG_IMPULSE {
		t.Fatalf("decomposed name should match synced parameter: got=%b want=%b", got, RENAME_FLAG_IMPULSE)
	}
	if got := c.DisplayName(decomposed); got != "Drink" {
		t.Fatalf("display name mismatch: got=%q want=%q", got, "Drink")
	}
}
