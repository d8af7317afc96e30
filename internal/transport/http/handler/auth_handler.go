package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/domain"
	"identity-service/internal/service"
	httpez "identity-service/internal/transport/http/ez"
	"identity-service/internal/transport/http/response"
)

// AuthHandler POST /auth 凭证登录
type AuthHandler struct {
	r    *response.Renderer
	auth *service.Authentication
}

func NewAuthHandler(r *response.Renderer, a *service.Authentication) *AuthHandler {
	return &AuthHandler{r: r, auth: a}
}

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(api, h.r), httpez.Action[service.LoginInput, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth",
		Binder: httpez.BindJSON,
		// body 解析失败与凭证错误不做区分
		OnBindError: func(error) error { return domain.Authentication() },
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.LoginResult, error) {
			return h.auth.Login(c.Request.Context(), *in)
		},
	})
}
