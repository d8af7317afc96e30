package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRouter panic 由 ginzap 记录堆栈（请求头中的凭证已脱敏），响应体交给 onPanic
func NewRouter(l *zap.Logger, onPanic gin.RecoveryFunc) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(redactingLogger{l}, true, onPanic))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))
	return r
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// ginzap 恢复时把整个请求 dump 到 "request" 字段
var sensitiveHeaders = []string{"authorization:", "proxy-authorization:", "cookie:"}

type redactingLogger struct{ l *zap.Logger }

func (r redactingLogger) Info(msg string, fields ...zapcore.Field) {
	r.l.Info(msg, redactFields(fields)...)
}

func (r redactingLogger) Error(msg string, fields ...zapcore.Field) {
	r.l.Error(msg, redactFields(fields)...)
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	for i, f := range fields {
		if f.Key == "request" && f.Type == zapcore.StringType {
			fields[i].String = redactRequestDump(f.String)
		}
	}
	return fields
}

func redactRequestDump(dump string) string {
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, h := range sensitiveHeaders {
			if strings.HasPrefix(lower, h) {
				masked := line[:len(h)] + " ****"
				if strings.HasSuffix(line, "\r") {
					masked += "\r"
				}
				lines[i] = masked
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
