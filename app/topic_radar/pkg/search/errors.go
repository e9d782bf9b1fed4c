package search

import (
	"net/http"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
)

// 第三方搜索相关错误原因
const (
	ReasonUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ReasonUpstreamFailure     = "UPSTREAM_FAILURE"
	ReasonMalformedResponse   = "MALFORMED_RESPONSE"
)

// ErrUpstreamUnavailable 第三方服务不可达或返回非 2xx 状态
func ErrUpstreamUnavailable(message string, cause error) *errors.Error {
	return errors.New(http.StatusBadGateway, ReasonUpstreamUnavailable, message).WithCause(cause)
}

// ErrUpstreamFailure 第三方服务返回成功状态但业务码异常
func ErrUpstreamFailure(code int, message string) *errors.Error {
	if message == "" {
		message = "第三方服务返回异常"
	}
	return errors.New(http.StatusBadGateway, ReasonUpstreamFailure, message).
		WithMetadata(map[string]string{"code": strconv.Itoa(code)})
}

// ErrMalformedResponse 响应体无法解析
func ErrMalformedResponse(cause error) *errors.Error {
	return errors.New(http.StatusBadGateway, ReasonMalformedResponse, "第三方服务响应格式异常").WithCause(cause)
}

// IsUpstream 判断是否为第三方服务错误（含响应格式异常）
func IsUpstream(err error) bool {
	switch errors.Reason(err) {
	case ReasonUpstreamUnavailable, ReasonUpstreamFailure, ReasonMalformedResponse:
		return true
	}
	return false
}
