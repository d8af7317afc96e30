package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthentication
	KindForbidden
	KindNotFound
	KindInvalidToken
	KindNotificationDelivery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidToken:
		return "invalid_token"
	case KindNotificationDelivery:
		return "notification_delivery"
	default:
		return "unexpected"
	}
}

// 消息 key（渲染交给 i18n）
const (
	MsgUsernameNull        = "username_null"
	MsgUsernameSize        = "username_size"
	MsgEmailNull           = "email_null"
	MsgEmailInvalid        = "email_invalid"
	MsgEmailInUse          = "email_inuse"
	MsgPasswordNull        = "password_null"
	MsgPasswordSize        = "password_size"
	MsgPasswordPattern     = "password_pattern"
	MsgValidationFailure   = "validation_failure"
	MsgUserCreateSuccess   = "user_create_success"
	MsgEmailFailure        = "email_failure"
	MsgActivationSuccess   = "account_activation_success"
	MsgActivationFailure   = "account_activation_failure"
	MsgAuthFailure         = "authentication_failure"
	MsgInactiveAuthFailure = "inactive_authentication_failure"
	MsgUnauthorizedUpdate  = "unauthorized_user_update"
	MsgUserNotFound        = "user_not_found"
	MsgUnexpected          = "default_error_message"
)

type FieldError struct {
	Field string
	Key   string
}

// FieldErrors 保持插入顺序的 field -> message key
type FieldErrors []FieldError

func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (fe FieldErrors) Get(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Key, true
		}
	}
	return "", false
}

// Add 同一字段只记录第一条
func (fe FieldErrors) Add(field, key string) FieldErrors {
	if fe.Has(field) {
		return fe
	}
	return append(fe, FieldError{Field: field, Key: key})
}

func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for _, e := range fe {
		out = append(out, e.Field)
	}
	return out
}

// Translate 逐条渲染 key，顺序不变
func (fe FieldErrors) Translate(render func(key string) string) FieldErrors {
	out := make(FieldErrors, 0, len(fe))
	for _, e := range fe {
		out = append(out, FieldError{Field: e.Field, Key: render(e.Key)})
	}
	return out
}

// MarshalJSON 输出为有序 JSON object
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fe {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Error 业务错误，由 HTTP 边界按 Kind 映射状态码
type Error struct {
	Kind   Kind
	Key    string
	Fields FieldErrors
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(fields FieldErrors) error {
	return &Error{Kind: KindValidation, Key: MsgValidationFailure, Fields: fields}
}

func Authentication() error {
	return &Error{Kind: KindAuthentication, Key: MsgAuthFailure}
}

func Forbidden(key string) error { return &Error{Kind: KindForbidden, Key: key} }

func NotFound(key string) error { return &Error{Kind: KindNotFound, Key: key} }

func InvalidToken() error {
	return &Error{Kind: KindInvalidToken, Key: MsgActivationFailure}
}

func NotificationDelivery(err error) error {
	return &Error{Kind: KindNotificationDelivery, Key: MsgEmailFailure, Err: err}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindUnexpected, Key: MsgUnexpected, Err: fmt.Errorf("%s: %w", msg, err)}
}

// As 非 *Error 一律视为 Unexpected
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnexpected, Key: MsgUnexpected, Err: err}
}

func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	return As(err).Kind
}
