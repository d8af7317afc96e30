package middleware

import (
	"github.com/gin-gonic/gin"

	"identity-service/internal/transport/http/response"
)

// Locale ?lang= 优先于 Accept-Language
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		loc := c.Query("lang")
		if loc == "" {
			loc = c.GetHeader("Accept-Language")
		}
		if loc != "" {
			c.Set(response.KeyLocale, loc)
			c.Header("Vary", "Accept-Language")
		}
		c.Next()
	}
}
