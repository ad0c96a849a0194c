// Package apperr 定义服务层统一的业务错误类型。
// 所有 logic 层错误都以 AppError 返回，保证对外响应只暴露错误码和可读信息，
// 内部细节只进日志。
package apperr

import "net/http"

// AppError 业务错误
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string { return e.Message }

// Unwrap 返回内部错误，供 errors.Is/As 使用
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap 包装内部错误，保留错误码与状态码
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage 使用自定义消息创建同类错误
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// 通用错误
var (
	ErrValidation  = &AppError{Code: "VALIDATION_ERROR", Message: "Missing or malformed input", StatusCode: http.StatusBadRequest}
	ErrNotFound    = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrPersistence = &AppError{Code: "PERSISTENCE_ERROR", Message: "An internal storage error occurred", StatusCode: http.StatusInternalServerError}
)

// 投资流程错误
var (
	ErrInvalidAmount    = &AppError{Code: "INVALID_AMOUNT", Message: "Investment amount must be a positive decimal", StatusCode: http.StatusBadRequest}
	ErrInvalidSelection = &AppError{Code: "INVALID_SELECTION", Message: "Invalid asset or term selected", StatusCode: http.StatusBadRequest}
	ErrSettlement       = &AppError{Code: "SETTLEMENT_FAILED", Message: "Settlement gateway call failed", StatusCode: http.StatusBadGateway}
	ErrNotRedeemable    = &AppError{Code: "NOT_REDEEMABLE", Message: "Investment is not redeemable", StatusCode: http.StatusBadRequest}
)
