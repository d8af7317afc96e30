package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"identity-service/internal/domain"
)

// RegisterInput 只接收这三个字段，调用方传的 inactive 等一律忽略
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateInput struct {
	Username string `json:"username"`
}

type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

var errEmailInUse = errors.New(domain.MsgEmailInUse)

var (
	usernameRules = []validation.Rule{
		validation.Required.Error(domain.MsgUsernameNull),
		validation.RuneLength(4, 32).Error(domain.MsgUsernameSize),
	}
	passwordRules = []validation.Rule{
		validation.Required.Error(domain.MsgPasswordNull),
		validation.RuneLength(6, 0).Error(domain.MsgPasswordSize),
		validation.By(passwordPattern),
	}
)

type Validator struct {
	users EmailLookup
}

func NewValidator(users EmailLookup) *Validator { return &Validator{users: users} }

// ValidateRegistration 规则按固定顺序执行：同一字段失败后跳过其余规则，其他字段继续。
// 返回的 error 仅表示存储查询失败
func (v *Validator) ValidateRegistration(ctx context.Context, in RegisterInput) (domain.FieldErrors, error) {
	var lookupErr error
	emailRules := []validation.Rule{
		validation.Required.Error(domain.MsgEmailNull),
		is.Email.Error(domain.MsgEmailInvalid),
		validation.By(func(value interface{}) error {
			u, err := v.users.FindByEmail(ctx, value.(string))
			if err != nil {
				lookupErr = err
				return err
			}
			if u != nil {
				return errEmailInUse
			}
			return nil
		}),
	}

	var fe domain.FieldErrors
	fe = check(fe, "username", in.Username, usernameRules)
	fe = check(fe, "email", in.Email, emailRules)
	if lookupErr != nil {
		return nil, fmt.Errorf("email uniqueness lookup: %w", lookupErr)
	}
	fe = check(fe, "password", in.Password, passwordRules)
	return fe, nil
}

func (v *Validator) ValidateUpdate(in UpdateInput) domain.FieldErrors {
	return check(nil, "username", in.Username, usernameRules)
}

// check validation.Validate 在第一条失败规则处返回，即 bail 语义
func check(fe domain.FieldErrors, field string, value string, rules []validation.Rule) domain.FieldErrors {
	if err := validation.Validate(value, rules...); err != nil {
		return fe.Add(field, err.Error())
	}
	return fe
}

func passwordPattern(value interface{}) error {
	s, _ := value.(string)
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if upper && lower && digit {
		return nil
	}
	return errors.New(domain.MsgPasswordPattern)
}
