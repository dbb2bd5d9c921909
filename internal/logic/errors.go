package logic

import (
	"errors"

	"github.com/shared-tw/backend/internal/repository"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = repository.ErrNotFound
	// ErrItemClosed 需求物资已不在募集中
	ErrItemClosed = errors.New("required item is not collecting")
	// ErrInvalidArgument 参数校验失败
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPermissionDenied 用户无权操作该资源
	ErrPermissionDenied = errors.New("permission denied")
)
