package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/domain"
	"identity-service/internal/service"
	httpez "identity-service/internal/transport/http/ez"
	mdw "identity-service/internal/transport/http/middleware"
	"identity-service/internal/transport/http/response"
)

// UserHandler /users 下的注册、激活、列表、查询、本人更新
type UserHandler struct {
	r     *response.Renderer
	reg   *service.Registration
	users *service.Users
}

func NewUserHandler(r *response.Renderer, reg *service.Registration, users *service.Users) *UserHandler {
	return &UserHandler{r: r, reg: reg, users: users}
}

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.r)

	httpez.RegisterAction(ez, httpez.Action[service.RegisterInput, response.Message]{
		Method:  http.MethodPost,
		Path:    "/users",
		Binder:  httpez.BindJSON,
		Handler: h.register,
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, response.Message]{
		Method:  http.MethodPost,
		Path:    "/users/token/:token",
		Binder:  httpez.BindNone,
		Handler: h.activate,
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.PageResult]{
		Method:  http.MethodGet,
		Path:    "/users",
		Binder:  httpez.BindNone,
		Handler: h.list,
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.UserView]{
		Method:  http.MethodGet,
		Path:    "/users/:id",
		Binder:  httpez.BindNone,
		Handler: h.get,
	})
	// 非本人的请求即使 body 有问题也应得到 403
	httpez.RegisterAction(ez, httpez.Action[service.UpdateInput, *service.UserView]{
		Method:      http.MethodPut,
		Path:        "/users/:id",
		Binder:      httpez.BindJSON,
		OnBindError: httpez.ContinueOnBindError,
		Handler:     h.update,
	})
}

func (h *UserHandler) register(c *gin.Context, in *service.RegisterInput) (response.Message, error) {
	if err := h.reg.Register(c.Request.Context(), *in); err != nil {
		return response.Message{}, err
	}
	return response.Message{Message: h.r.Text(c, domain.MsgUserCreateSuccess)}, nil
}

func (h *UserHandler) activate(c *gin.Context, _ *struct{}) (response.Message, error) {
	if err := h.reg.Activate(c.Request.Context(), c.Param("token")); err != nil {
		return response.Message{}, err
	}
	return response.Message{Message: h.r.Text(c, domain.MsgActivationSuccess)}, nil
}

func (h *UserHandler) list(c *gin.Context, _ *struct{}) (*service.PageResult, error) {
	return h.users.List(c.Request.Context(), service.NormalizePage(c.Query("page"), c.Query("size")))
}

func (h *UserHandler) get(c *gin.Context, _ *struct{}) (*service.UserView, error) {
	return h.users.Get(c.Request.Context(), c.Param("id"))
}

func (h *UserHandler) update(c *gin.Context, in *service.UpdateInput) (*service.UserView, error) {
	return h.users.Update(c.Request.Context(), mdw.IdentityFrom(c), c.Param("id"), *in)
}
