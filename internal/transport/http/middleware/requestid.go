package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"identity-service/internal/transport/http/response"
)

const KeyRequestID = response.KeyRequestID

// 上游透传的 id 超过该长度就重新生成
const maxRequestIDLen = 64

// RequestID 透传或生成请求 id，写回响应头并放入 gin.Context 供日志使用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
