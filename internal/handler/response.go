package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/logic"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailResponse 按业务错误类型返回对应的 HTTP 状态码
func FailResponse(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		ErrorResponse(c, status, "internal server error")
		return
	}
	ErrorResponse(c, status, err.Error())
}

// StatusOf 业务错误到 HTTP 状态码的映射
func StatusOf(err error) int {
	switch {
	case errors.Is(err, event.ErrInvalidUser):
		return http.StatusUnauthorized
	case errors.Is(err, event.ErrForbiddenEvent), errors.Is(err, logic.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, logic.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, event.ErrLockContention):
		return http.StatusConflict
	case errors.Is(err, event.ErrUnknownEvent),
		errors.Is(err, event.ErrInvalidTransition),
		errors.Is(err, event.ErrTerminalState),
		errors.Is(err, logic.ErrItemClosed),
		errors.Is(err, logic.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
