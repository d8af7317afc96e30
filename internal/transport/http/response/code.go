package response

import (
	"net/http"

	"identity-service/internal/domain"
)

// 传输层自身的消息 key（与 domain 的 key 共用同一套 locales）
const (
	MsgNotFound        = "not_found"
	MsgRequestTooLarge = "request_too_large"
	MsgServerBusy      = "server_busy"
	MsgRequestTimeout  = "request_timeout"
)

// StatusOf 每个 Kind 对应唯一的 HTTP 状态码；新增 Kind 必须在这里补上
func StatusOf(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidToken:
		return http.StatusBadRequest
	case domain.KindNotificationDelivery:
		return http.StatusBadGateway
	case domain.KindUnexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
