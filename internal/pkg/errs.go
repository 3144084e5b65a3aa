package pkg

import (
	"context"
	"errors"
	"net/http"
)

// 业务错误分类：校验/冲突/权限/不存在/超时，handler 统一映射为 HTTP 状态码。
// 这几类错误直接同步返回调用方，服务端不做自动重试。
var (
	ErrAlreadyMember   = errors.New("already a member")
	ErrNotMember       = errors.New("not a member")
	ErrAdminRequired   = errors.New("admin required")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrInvalidCapacity = errors.New("capacity must be >= 1")
	ErrEventFull       = errors.New("event full")
	ErrEventExpired    = errors.New("event expired")
	ErrNotFound        = errors.New("not found")
	ErrInvalidParam    = errors.New("invalid params")
	ErrTimeout         = errors.New("timeout")
)

// HTTPStatus 错误到状态码的唯一映射口
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParam), errors.Is(err, ErrInvalidCapacity):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrNotMember),
		errors.Is(err, ErrEventFull):
		return http.StatusConflict
	case errors.Is(err, ErrAdminRequired), errors.Is(err, ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEventExpired):
		return http.StatusGone
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
