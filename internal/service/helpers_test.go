package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"identity-service/internal/core/auth"
	"identity-service/internal/core/database"
	"identity-service/internal/domain"
	"identity-service/internal/repo"
	"identity-service/pkg/utils"
)

type sentMail struct{ email, token string }

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentMail
	err    error
	onSent func() // 发送成功后调用
}

func (f *fakeNotifier) SendAccountActivation(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{email, token})
	if f.onSent != nil {
		f.onSent()
	}
	return nil
}

type fixture struct {
	repo     *repo.UserRepo
	hasher   *utils.PasswordHasher
	tokens   *TokenService
	notifier *fakeNotifier
	reg      *Registration
	auth     *Authentication
	users    *Users
}

func newTestRepo(t *testing.T) *repo.UserRepo {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.NewUserRepo(db)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newTestRepo(t),
		hasher:   utils.NewPasswordHasher(bcrypt.MinCost),
		tokens:   NewTokenService(auth.NewJWTer("test-secret", "test", 0), 8),
		notifier: &fakeNotifier{},
	}
	v := NewValidator(f.repo)
	f.reg = NewRegistration(f.repo, v, f.tokens, f.hasher, f.notifier, zap.NewNop())
	f.auth = NewAuthentication(f.repo, f.hasher, f.tokens, zap.NewNop())
	f.users = NewUsers(f.repo, v, f.auth, nil, 0, zap.NewNop())
	return f
}

// addUsers 直接写库：前 active 个已激活，其余未激活
func (f *fixture) addUsers(t *testing.T, active, inactive int) []domain.User {
	t.Helper()
	hash, err := f.hasher.Hash("P4ssword")
	require.NoError(t, err)
	var out []domain.User
	for i := 0; i < active+inactive; i++ {
		u := domain.User{
			Username:     "user" + strconv.Itoa(i+1),
			Email:        "user" + strconv.Itoa(i+1) + "@mail.com",
			PasswordHash: hash,
			Inactive:     i >= active,
		}
		if u.Inactive {
			tok := "tok" + strconv.Itoa(i+1)
			u.ActivationToken = &tok
		}
		require.NoError(t, f.repo.Create(context.Background(), &u))
		out = append(out, u)
	}
	return out
}

func allUsers(t *testing.T, r *repo.UserRepo) []domain.User {
	t.Helper()
	us, err := r.FindAll(context.Background())
	require.NoError(t, err)
	return us
}
