// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/usecase/port/moutput"
)

const (
	// CONTACT_RECEIVER_TYPE はコンタクト受信側コンポーネントの型名。
	CONTACT_RECEIVER_TYPE = "VRCContactReceiver"
	// CONTACT_SENDER_TYPE はコンタクト送信側コンポーネントの型名。
	CONTACT_SENDER_TYPE = "VRCContactSender"
)

// IsContactBinding はコンタクトコンポーネントを対象とするバインディングかを返す。
func IsContactBinding(binding animator.CurveBinding) bool {
	return binding.Type == CONTACT_RECEIVER_TYPE || binding.Type == CONTACT_SENDER_TYPE
}

// ContactBindingRemapper はコンタクト対象のバインディングだけを変換器へ委譲する置換関数を返す。
func ContactBindingRemapper(converter moutput.IContactConverter) BindingRemapper {
	if converter == nil {
		return nil
	}
	return func(binding animator.CurveBinding) (animator.CurveBinding, bool) {
		if !IsContactBinding(binding) {
			return binding, false
		}
		return converter.RemapBinding(binding)
	}
}
