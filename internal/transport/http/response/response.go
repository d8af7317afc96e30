package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-service/internal/core/i18n"
	"identity-service/internal/domain"
)

// gin.Context 中的共享 key
const (
	KeyLocale    = "locale"
	KeyRequestID = "X-Request-ID"
)

// ErrorBody 所有失败响应的统一结构
type ErrorBody struct {
	Path             string             `json:"path"`
	Timestamp        int64              `json:"timestamp"`
	Message          string             `json:"message"`
	ValidationErrors domain.FieldErrors `json:"validationErrors,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

// LocaleOf 优先取中间件写入的值，其次 Accept-Language 原文
func LocaleOf(c *gin.Context) string {
	if v := c.GetString(KeyLocale); v != "" {
		return v
	}
	return c.GetHeader("Accept-Language")
}

type Renderer struct {
	tr  i18n.Translator
	log *zap.Logger
}

func NewRenderer(tr i18n.Translator, l *zap.Logger) *Renderer {
	return &Renderer{tr: tr, log: l}
}

func (r *Renderer) Text(c *gin.Context, key string) string {
	return r.tr.Translate(key, LocaleOf(c))
}

// Message 成功时只返回一条已翻译的提示
func (r *Renderer) Message(c *gin.Context, status int, key string) {
	c.JSON(status, Message{Message: r.Text(c, key)})
}

// Fail 按错误 Kind 选择状态码；Unexpected 的细节只进日志
func (r *Renderer) Fail(c *gin.Context, err error) {
	de := domain.As(err)
	status := StatusOf(de.Kind)
	if status >= 500 {
		r.log.Error("request failed",
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("path", c.Request.URL.Path),
			zap.String("kind", de.Kind.String()),
			zap.Error(err),
		)
	}
	body := r.body(c, de.Key)
	if len(de.Fields) > 0 {
		body.ValidationErrors = de.Fields.Translate(func(key string) string { return r.Text(c, key) })
	}
	c.AbortWithStatusJSON(status, body)
}

// Abort 中间件直接拒绝请求时使用
func (r *Renderer) Abort(c *gin.Context, status int, key string) {
	c.AbortWithStatusJSON(status, r.body(c, key))
}

func (r *Renderer) body(c *gin.Context, key string) ErrorBody {
	return ErrorBody{
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UnixMilli(),
		Message:   r.Text(c, key),
	}
}
