package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess           = 0
	CodeParamError        = 1000
	CodeAuthFailed        = 1001
	CodePermissionDenied  = 1002
	CodeResourceNotFound  = 1003
	CodeQuotaExceeded     = 1004
	CodeDuplicateAction   = 1005
	CodeTransferLocked    = 1006
	CodeInsufficientFunds = 1007
	CodePaymentClosed     = 1008
	CodeInvalidPlan       = 1009
	CodeConflict          = 1010
	CodeServerError       = 5000
	CodeUnavailable       = 5003
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:           "success",
	CodeParamError:        "参数错误",
	CodeAuthFailed:        "认证失败",
	CodePermissionDenied:  "权限不足",
	CodeResourceNotFound:  "资源不存在",
	CodeQuotaExceeded:     "配额不足",
	CodeDuplicateAction:   "重复操作",
	CodeTransferLocked:    "积分未达到转账门槛",
	CodeInsufficientFunds: "积分不足",
	CodePaymentClosed:     "当前不在支付时段内",
	CodeInvalidPlan:       "套餐无效",
	CodeConflict:          "操作冲突，请重试",
	CodeServerError:       "服务器内部错误",
	CodeUnavailable:       "服务暂不可用",
}

// 错误码对应的 HTTP 状态码，未登记的按 500 处理
var codeStatus = map[int]int{
	CodeSuccess:           http.StatusOK,
	CodeParamError:        http.StatusBadRequest,
	CodeAuthFailed:        http.StatusUnauthorized,
	CodePermissionDenied:  http.StatusForbidden,
	CodeResourceNotFound:  http.StatusNotFound,
	CodeQuotaExceeded:     http.StatusForbidden,
	CodeDuplicateAction:   http.StatusBadRequest,
	CodeTransferLocked:    http.StatusForbidden,
	CodeInsufficientFunds: http.StatusBadRequest,
	CodePaymentClosed:     http.StatusForbidden,
	CodeInvalidPlan:       http.StatusBadRequest,
	CodeConflict:          http.StatusConflict,
	CodeServerError:       http.StatusInternalServerError,
	CodeUnavailable:       http.StatusServiceUnavailable,
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageData 分页数据结构
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// StatusOf 错误码对应的 HTTP 状态码
func StatusOf(code int) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 资源创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error 错误响应，HTTP 状态码由错误码决定
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(StatusOf(code), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Abort 中间件中使用，终止后续处理
func Abort(c *gin.Context, code int, message string) {
	Error(c, code, message)
	c.Abort()
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// QuotaError 配额不足
func QuotaError(c *gin.Context, message string) {
	Error(c, CodeQuotaExceeded, message)
}

// DuplicateError 重复操作
func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

func ConflictError(c *gin.Context, message string) {
	Error(c, CodeConflict, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
