package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"identity-service/internal/core/cache"
	"identity-service/internal/domain"
)

// UserView 对外只暴露 id / username / email
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type PageResult struct {
	Content    []UserView `json:"content"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalPages int        `json:"totalPages"`
}

func viewOf(u *domain.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Users 列表 / 查询 / 本人更新；只对已激活账号可见
type Users struct {
	users     domain.UserRepository
	validator *Validator
	auth      *Authentication
	cache     cache.Store // 可为 nil
	cacheTTL  time.Duration
	log       *zap.Logger
}

func NewUsers(users domain.UserRepository, v *Validator, a *Authentication, c cache.Store, ttl time.Duration, l *zap.Logger) *Users {
	return &Users{users: users, validator: v, auth: a, cache: c, cacheTTL: ttl, log: l}
}

func (s *Users) List(ctx context.Context, p Page) (*PageResult, error) {
	rows, total, err := s.users.ListActive(ctx, p.Offset(), p.Size)
	if err != nil {
		return nil, domain.Internal("list active users", err)
	}
	out := &PageResult{
		Content:    make([]UserView, 0, len(rows)),
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: int((total + int64(p.Size) - 1) / int64(p.Size)),
	}
	for i := range rows {
		out.Content = append(out.Content, viewOf(&rows[i]))
	}
	return out, nil
}

func (s *Users) Get(ctx context.Context, id string) (*UserView, error) {
	if s.cache == nil {
		return s.load(ctx, id)
	}
	v, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKey(id), s.cacheTTL, func(ctx context.Context) (*UserView, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			return nil, domain.Internal("user cache", err)
		}
		return nil, err
	}
	return v, nil
}

func (s *Users) load(ctx context.Context, id string) (*UserView, error) {
	u, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("find active user", err)
	}
	if u == nil {
		return nil, domain.NotFound(domain.MsgUserNotFound)
	}
	v := viewOf(u)
	return &v, nil
}

// Update 先鉴权（非本人一律 403），再校验
func (s *Users) Update(ctx context.Context, id *Identity, targetID string, in UpdateInput) (*UserView, error) {
	if err := s.auth.AuthorizeUpdate(id, targetID); err != nil {
		return nil, err
	}
	if fe := s.validator.ValidateUpdate(in); len(fe) > 0 {
		return nil, domain.Validation(fe)
	}
	u, err := s.users.FindActiveByID(ctx, targetID)
	if err != nil {
		return nil, domain.Internal("find user", err)
	}
	if u == nil {
		return nil, domain.Forbidden(domain.MsgUnauthorizedUpdate)
	}
	u.Username = in.Username
	if err := s.users.Update(ctx, u); err != nil {
		return nil, domain.Internal("update user", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(targetID)); err != nil {
			s.log.Warn("user cache invalidate failed", zap.String("id", targetID), zap.Error(err))
		}
	}
	v := viewOf(u)
	return &v, nil
}

func cacheKey(id string) string { return "identity:user:" + id }
