package service

import (
	"identity-service/internal/core/auth"
	"identity-service/pkg/utils"
)

// TokenService 两种 token：存库的一次性激活 token，和无状态签名的认证 token
type TokenService struct {
	jwt             *auth.JWTer
	activationBytes int
}

func NewTokenService(j *auth.JWTer, activationBytes int) *TokenService {
	if activationBytes <= 0 {
		activationBytes = 8
	}
	return &TokenService{jwt: j, activationBytes: activationBytes}
}

func (t *TokenService) NewActivationToken() (string, error) {
	return utils.RandomHex(t.activationBytes)
}

func (t *TokenService) IssueAuthToken(userID string) (string, error) {
	return t.jwt.Issue(userID)
}

// VerifyAuthToken 不查库；空串返回 auth.ErrTokenMissing，其余失败为 auth.ErrTokenInvalid
func (t *TokenService) VerifyAuthToken(token string) (string, error) {
	c, err := t.jwt.Parse(token)
	if err != nil {
		return "", err
	}
	return c.UID, nil
}
