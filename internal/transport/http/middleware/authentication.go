package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"identity-service/internal/service"
)

const KeyIdentity = "identity"

// IdentityResolver 由 service.Authentication 实现
type IdentityResolver interface {
	Identify(ctx context.Context, header string) (service.Identity, bool)
}

// TokenAuthentication 被动认证：凭证有效就挂上身份，无效或缺失都放行，由具体接口决定是否拒绝
func TokenAuthentication(a IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h := c.GetHeader("Authorization"); h != "" {
			if id, ok := a.Identify(c.Request.Context(), h); ok {
				c.Set(KeyIdentity, &id)
			}
		}
		c.Next()
	}
}

// IdentityFrom 未认证时返回 nil
func IdentityFrom(c *gin.Context) *service.Identity {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*service.Identity)
	return id
}
