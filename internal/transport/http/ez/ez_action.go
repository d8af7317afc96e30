// Package ez 把 "绑定入参 → 调用 service → 渲染结果/错误" 收敛为一行注册
package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"identity-service/internal/domain"
	"identity-service/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.Query 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/users/token/:token"
	Binder Binder
	Status int // 成功状态码，默认 200

	// OnBindError 返回 nil 表示按零值入参继续；未设置时按 Validation 处理
	OnBindError func(err error) error

	// Handler 返回的 error 交给 Renderer.Fail
	Handler func(c *gin.Context, in *I) (O, error)
}

type EZ struct {
	g *gin.RouterGroup
	r *response.Renderer
}

func New(g *gin.RouterGroup, r *response.Renderer) EZ { return EZ{g: g, r: r} }

func (e EZ) Renderer() *response.Renderer { return e.r }

// RegisterAction 在当前分组下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				e.r.Abort(c, http.StatusRequestEntityTooLarge, response.MsgRequestTooLarge)
				return
			}
			if err = onBindError(a.OnBindError, err); err != nil {
				e.r.Fail(c, err)
				return
			}
			in = *new(I)
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.r.Fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		err := c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			return nil // 空 body 视为 {}
		}
		return err
	case BindQuery:
		return c.ShouldBindQuery(in)
	default:
		return nil
	}
}

func onBindError(fn func(error) error, err error) error {
	if fn != nil {
		return fn(err)
	}
	return domain.Validation(nil)
}

// ContinueOnBindError 入参格式错误时按零值继续，让 service 自己给出校验结果
func ContinueOnBindError(error) error { return nil }
