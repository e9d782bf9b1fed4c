package domain

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

// 历史记录相关错误原因
const (
	ReasonInvalidID       = "INVALID_ID"
	ReasonInvalidBody     = "INVALID_BODY"
	ReasonStoreFailure    = "STORE_FAILURE"
	ReasonHistoryNotFound = "HISTORY_NOT_FOUND"
)

// ErrInvalidID 缺少有效的 id
var ErrInvalidID = errors.BadRequest(ReasonInvalidID, "缺少有效的 id")

// ErrInvalidBody 请求体无法解析
func ErrInvalidBody(cause error) *errors.Error {
	return errors.BadRequest(ReasonInvalidBody, "请求体需要为JSON格式").WithCause(cause)
}

// ErrStoreFailure 存储读写失败
func ErrStoreFailure(message string, cause error) *errors.Error {
	return errors.InternalServer(ReasonStoreFailure, message).WithCause(cause)
}

// ErrHistoryNotFound 历史记录不存在
func ErrHistoryNotFound(id int64) *errors.Error {
	return errors.NotFound(ReasonHistoryNotFound, fmt.Sprintf("历史记录 %d 不存在", id))
}
