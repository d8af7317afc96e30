package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"identity-service/internal/domain"
)

type Notifier interface {
	SendAccountActivation(ctx context.Context, email, token string) error
}

type PasswordHasher interface {
	Hash(pw string) (string, error)
	Compare(hashed, pw string) bool
}

// Registration 注册 + 激活
type Registration struct {
	users     domain.UserRepository
	validator *Validator
	tokens    *TokenService
	hasher    PasswordHasher
	notifier  Notifier
	log       *zap.Logger
}

func NewRegistration(users domain.UserRepository, v *Validator, t *TokenService, h PasswordHasher, n Notifier, l *zap.Logger) *Registration {
	return &Registration{users: users, validator: v, tokens: t, hasher: h, notifier: n, log: l}
}

// Register 写库与发信在同一事务内：发信失败整体回滚，不留下任何 User 行。
// 事务本身不跟随请求取消：信一旦发出就必须提交，只有发信前的步骤受请求截止时间约束
func (r *Registration) Register(ctx context.Context, in RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)

	fe, err := r.validator.ValidateRegistration(ctx, in)
	if err != nil {
		registrationsTotal.WithLabelValues("error").Inc()
		return domain.Internal("validate registration", err)
	}
	if len(fe) > 0 {
		registrationsTotal.WithLabelValues("invalid").Inc()
		return domain.Validation(fe)
	}

	txCtx := context.WithoutCancel(ctx)
	err = r.users.Transaction(txCtx, func(tx domain.UserRepository) error {
		hash, err := r.hasher.Hash(in.Password)
		if err != nil {
			return domain.Internal("hash password", err)
		}
		token, err := r.tokens.NewActivationToken()
		if err != nil {
			return domain.Internal("generate activation token", err)
		}
		u := &domain.User{
			Username:        in.Username,
			Email:           in.Email,
			PasswordHash:    hash,
			Inactive:        true,
			ActivationToken: &token,
		}
		if err := tx.Create(txCtx, u); err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) {
				// 校验通过后被并发注册抢先：按 email 已占用处理
				return domain.Validation(domain.FieldErrors{}.Add("email", domain.MsgEmailInUse))
			}
			return domain.Internal("create user", err)
		}
		if err := r.notifier.SendAccountActivation(ctx, u.Email, token); err != nil {
			return domain.NotificationDelivery(err)
		}
		return nil
	})
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.Internal("registration transaction", err)
		}
		kind := domain.KindOf(err)
		registrationsTotal.WithLabelValues(kind.String()).Inc()
		r.log.Warn("registration rolled back", zap.String("kind", kind.String()), zap.Error(err))
		return err
	}
	registrationsTotal.WithLabelValues("ok").Inc()
	r.log.Info("user registered", zap.String("email", in.Email))
	return nil
}

// Activate 未知 token 与已消费 token 返回同样的错误
func (r *Registration) Activate(ctx context.Context, token string) error {
	err := r.users.Transaction(ctx, func(tx domain.UserRepository) error {
		u, err := tx.FindByActivationToken(ctx, token)
		if err != nil {
			return domain.Internal("find by activation token", err)
		}
		if u == nil {
			return domain.InvalidToken()
		}
		ok, err := tx.ConsumeActivationToken(ctx, u.ID, token)
		if err != nil {
			return domain.Internal("consume activation token", err)
		}
		if !ok {
			return domain.InvalidToken()
		}
		return nil
	})
	if err != nil {
		activationsTotal.WithLabelValues(domain.KindOf(err).String()).Inc()
		if domain.KindOf(err) == domain.KindUnexpected {
			r.log.Error("activation failed", zap.Error(err))
		}
		return err
	}
	activationsTotal.WithLabelValues("ok").Inc()
	return nil
}
