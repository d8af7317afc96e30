package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"identity-service/internal/domain"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Identity 请求上附带的已认证身份
type Identity struct {
	UserID string
	Scheme string
}

// Strategy 按 Authorization 头声明的 scheme 选择
type Strategy interface {
	Scheme() string
	Authenticate(ctx context.Context, credential string) (string, error)
}

var errBadCredential = errors.New("bad credential")

type Authentication struct {
	users      domain.UserRepository
	hasher     PasswordHasher
	tokens     *TokenService
	strategies map[string]Strategy
	log        *zap.Logger
}

func NewAuthentication(users domain.UserRepository, h PasswordHasher, t *TokenService, l *zap.Logger) *Authentication {
	a := &Authentication{users: users, hasher: h, tokens: t, log: l, strategies: map[string]Strategy{}}
	a.Register(bearerStrategy{tokens: t})
	a.Register(basicStrategy{auth: a})
	return a
}

func (a *Authentication) Register(s Strategy) {
	a.strategies[strings.ToLower(s.Scheme())] = s
}

// Login 邮箱不存在与密码错误返回同一个错误，避免账号枚举；未激活账号返回 Forbidden
func (a *Authentication) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	u, err := a.verifyCredentials(ctx, in.Email, in.Password)
	if err != nil {
		loginsTotal.WithLabelValues(domain.KindOf(err).String()).Inc()
		return nil, err
	}
	if u.Inactive {
		loginsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.Forbidden(domain.MsgInactiveAuthFailure)
	}
	tok, err := a.tokens.IssueAuthToken(u.ID)
	if err != nil {
		return nil, domain.Internal("issue auth token", err)
	}
	loginsTotal.WithLabelValues("ok").Inc()
	return &LoginResult{ID: u.ID, Username: u.Username, Token: tok}, nil
}

func (a *Authentication) verifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, domain.Authentication()
	}
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("find user by email", err)
	}
	if u == nil || !a.hasher.Compare(u.PasswordHash, password) {
		return nil, domain.Authentication()
	}
	return u, nil
}

// Identify 解析 Authorization 头；任何失败都只是"没有身份"，不中断请求
func (a *Authentication) Identify(ctx context.Context, header string) (Identity, bool) {
	scheme, credential, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || credential == "" {
		return Identity{}, false
	}
	s, ok := a.strategies[strings.ToLower(scheme)]
	if !ok {
		return Identity{}, false
	}
	uid, err := s.Authenticate(ctx, strings.TrimSpace(credential))
	if err != nil {
		a.log.Debug("credential rejected", zap.String("scheme", s.Scheme()), zap.Error(err))
		return Identity{}, false
	}
	return Identity{UserID: uid, Scheme: s.Scheme()}, true
}

// AuthorizeUpdate 只有本人可以修改
func (a *Authentication) AuthorizeUpdate(id *Identity, targetID string) error {
	if id == nil || id.UserID == "" || id.UserID != targetID {
		return domain.Forbidden(domain.MsgUnauthorizedUpdate)
	}
	return nil
}

type bearerStrategy struct{ tokens *TokenService }

func (bearerStrategy) Scheme() string { return "Bearer" }

func (s bearerStrategy) Authenticate(_ context.Context, credential string) (string, error) {
	return s.tokens.VerifyAuthToken(credential)
}

// basicStrategy base64(email:password)，要求账号已激活
type basicStrategy struct{ auth *Authentication }

func (basicStrategy) Scheme() string { return "Basic" }

func (s basicStrategy) Authenticate(ctx context.Context, credential string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return "", errBadCredential
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", errBadCredential
	}
	u, err := s.auth.verifyCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	if u.Inactive {
		return "", errBadCredential
	}
	return u.ID, nil
}
