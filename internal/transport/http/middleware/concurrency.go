package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"identity-service/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）；等到请求 ctx 结束仍拿不到就返回 503
func ConcurrencyLimit(r *response.Renderer, max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			r.Abort(c, http.StatusServiceUnavailable, response.MsgServerBusy)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
