package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/transport/http/response"
)

// MaxBodyBytes 声明长度超限直接 413；未声明长度的由 MaxBytesReader 在读取时截断
func MaxBodyBytes(r *response.Renderer, n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > n {
			r.Abort(c, http.StatusRequestEntityTooLarge, response.MsgRequestTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
