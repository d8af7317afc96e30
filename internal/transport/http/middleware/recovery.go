package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"identity-service/internal/domain"
	"identity-service/internal/transport/http/response"
)

var errPanic = errors.New("panic recovered")

// Recovery 交给 ginzap.CustomRecoveryWithZap：堆栈由 ginzap 记录，这里只负责统一的 500 响应体
func Recovery(r *response.Renderer) gin.RecoveryFunc {
	return func(c *gin.Context, rec any) {
		r.Fail(c, domain.Internal("handler", fmt.Errorf("%w: %v", errPanic, rec)))
	}
}
