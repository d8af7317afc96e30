package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"identity-service/internal/core/config"
	"identity-service/internal/core/i18n"
	"identity-service/internal/core/server"
	"identity-service/internal/service"
	"identity-service/internal/transport/http/handler"
	mdw "identity-service/internal/transport/http/middleware"
	"identity-service/internal/transport/http/response"
)

// APIPrefix 所有业务接口的前缀
const APIPrefix = "/api/1.0"

type Deps struct {
	Log          *zap.Logger
	Translator   i18n.Translator
	HTTP         config.HTTP
	Registration *service.Registration
	Auth         *service.Authentication
	Users        *service.Users
}

func NewAPIEngine(d Deps) *gin.Engine {
	rend := response.NewRenderer(d.Translator, d.Log)
	r := server.NewRouter(d.Log, mdw.Recovery(rend))

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		mdw.Timeout(rend, time.Duration(d.HTTP.RequestTimeoutSec)*time.Second), // 排队等待也计入超时
		mdw.ConcurrencyLimit(rend, d.HTTP.MaxConcurrent),
		mdw.MaxBodyBytes(rend, d.HTTP.MaxBodyBytes),
		mdw.Locale(),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(APIPrefix)
	api.Use(mdw.TokenAuthentication(d.Auth))
	MountAll(api,
		handler.NewUserHandler(rend, d.Registration, d.Users),
		handler.NewAuthHandler(rend, d.Auth),
	)

	r.NoRoute(func(c *gin.Context) { rend.Abort(c, http.StatusNotFound, response.MsgNotFound) })
	return r
}
