package handler

import (
	"errors"
	"net/http"

	"github.com/ShamirSecret/invest/internal/apperr"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/gin-gonic/gin"
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

// AppErrorResponse 按业务错误的状态码和错误码返回。
// 内部错误细节只记日志，不回传给调用方。
func AppErrorResponse(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Error("%s %s failed: %s: %v", c.Request.Method, c.FullPath(), appErr.Code, appErr.Internal)
		}
		c.JSON(appErr.StatusCode, Response{
			Success: false,
			Message: appErr.Message,
			Code:    appErr.Code,
		})
		return
	}

	logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}
