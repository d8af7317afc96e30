package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"identity-service/internal/transport/http/response"
)

// Timeout 给下游（DB / SMTP）一个截止时间；handler 未写响应时补 503
func Timeout(r *response.Renderer, d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			r.Abort(c, http.StatusServiceUnavailable, response.MsgRequestTimeout)
		}
	}
}
