package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code      int         `json:"code"`                // 业务码
	Message   string      `json:"message"`             // 提示信息
	Data      interface{} `json:"data"`                // 数据
	Retryable bool        `json:"retryable,omitempty"` // 客户端是否可以重试
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// ErrorRetryable 带重试提示的错误响应
func ErrorRetryable(c *gin.Context, httpCode int, errCode int, msg string, retryable bool) {
	c.JSON(httpCode, Response{
		Code:      errCode,
		Message:   msg,
		Retryable: retryable,
	})
}
