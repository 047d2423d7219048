// 指示: miu200521358
// Package merr はエラーIDを伴うエラーを提供する。
package merr

import (
	"fmt"

	"github.com/pkg/errors"
)

// エラーID一覧。
const (
	ErrorIDUnknownCategory        = "21001"
	ErrorIDUnknownValueType       = "21002"
	ErrorIDSourceNotFound         = "21003"
	ErrorIDDescriptorFieldMissing = "21004"
	ErrorIDUnexpectedAssetShape   = "21005"
	ErrorIDUnknownEnumValue       = "21006"
	ErrorIDConfigInvalid          = "21007"
)

// CodedError はエラーIDを持つエラーを表す。
type CodedError struct {
	id      string
	message string
	cause   error
}

// Error はエラーメッセージを返す。
func (e *CodedError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.id, e.message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.id, e.message, e.cause)
}

// ID はエラーIDを返す。
func (e *CodedError) ID() string {
	return e.id
}

// Unwrap は原因エラーを返す。
func (e *CodedError) Unwrap() error {
	return e.cause
}

// Cause はpkg/errors互換の原因エラーを返す。
func (e *CodedError) Cause() error {
	return e.cause
}

// NewConfigError は変換を中断する設定エラーを生成する。
func NewConfigError(id string, format string, params ...any) error {
	return errors.WithStack(&CodedError{id: id, message: fmt.Sprintf(format, params...)})
}

// WrapConfigError は原因エラーを伴う設定エラーを生成する。
func WrapConfigError(id string, cause error, format string, params ...any) error {
	return errors.WithStack(&CodedError{id: id, message: fmt.Sprintf(format, params...), cause: cause})
}

// ExtractErrorID はエラー連鎖からエラーIDを取り出す。見つからない場合は空文字。
func ExtractErrorID(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.id
	}
	return ""
}

// IsConfigError は設定エラーかどうかを判定する。
func IsConfigError(err error) bool {
	return ExtractErrorID(err) != ""
}
