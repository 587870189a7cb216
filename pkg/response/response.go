package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 响应状态标识
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusDuplicate  = "duplicate"
	StatusRestricted = "restricted"
)

// 通用业务码
const (
	CodeOK            = 0
	CodeInvalidParam  = 10001
	CodeUnauthorized  = 10002
	CodeForbidden     = 10003
	CodeTooManyReq    = 10004
	CodeBodyTooLarge  = 10005
	CodeInternalError = 50000
)

// Response 统一响应结构
type Response struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status:  StatusSuccess,
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// Message 200 仅返回提示信息
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Code:    CodeOK,
		Message: message,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Status:  StatusError,
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Status:  StatusError,
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Duplicate 409 唯一性冲突
func Duplicate(c *gin.Context, code int, message string) {
	c.JSON(http.StatusConflict, Response{
		Status:  StatusDuplicate,
		Code:    code,
		Message: message,
	})
}

// Restricted 受保护记录拒绝操作，httpStatus 为 202 或 409
func Restricted(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Status:  StatusRestricted,
		Code:    code,
		Message: message,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// InvalidParam 400 参数绑定或校验失败，details 携带校验器的错误描述
func InvalidParam(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, CodeInvalidParam, "参数校验失败", err.Error())
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalError 500，不暴露内部细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternalError, "服务器内部错误")
}
