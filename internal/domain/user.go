package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"identity-service/pkg/utils"
)

// ErrDuplicateEmail 存储层唯一索引冲突
var ErrDuplicateEmail = errors.New("duplicate email")

type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Username        string    `gorm:"size:32;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash    string    `gorm:"size:100;not null" json:"-"`
	Inactive        bool      `gorm:"not null;index" json:"-"`
	ActivationToken *string   `gorm:"size:64;index" json:"-"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// BeforeCreate 主键由存储层分配
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	return nil
}

// UserRepository 查不到时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByActivationToken(ctx context.Context, token string) (*User, error)
	// ConsumeActivationToken 原子地清空 token 并激活；token 已被消费时返回 false
	ConsumeActivationToken(ctx context.Context, id, token string) (bool, error)
	Update(ctx context.Context, u *User) error
	ListActive(ctx context.Context, offset, limit int) ([]User, int64, error)
	FindActiveByID(ctx context.Context, id string) (*User, error)
	// Transaction fn 返回错误即回滚
	Transaction(ctx context.Context, fn func(tx UserRepository) error) error
}
