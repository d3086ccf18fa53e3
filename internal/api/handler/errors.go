package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/api/middleware"
	"github.com/qs3c/codequest_server/internal/pkg/oss"
	"github.com/qs3c/codequest_server/internal/pkg/otp"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/pkg/vote"
	"github.com/qs3c/codequest_server/internal/service"
)

// errorCodes 业务错误到响应码的映射，按顺序匹配
var errorCodes = []struct {
	err  error
	code int
}{
	{service.ErrUserNotFound, response.CodeResourceNotFound},
	{service.ErrQuestionNotFound, response.CodeResourceNotFound},
	{service.ErrAnswerNotFound, response.CodeResourceNotFound},
	{service.ErrPostNotFound, response.CodeResourceNotFound},
	{service.ErrCommentNotFound, response.CodeResourceNotFound},
	{service.ErrParentNotFound, response.CodeResourceNotFound},
	{service.ErrReceiverNotFound, response.CodeResourceNotFound},

	{service.ErrQuestionPermission, response.CodePermissionDenied},
	{service.ErrAnswerPermission, response.CodePermissionDenied},
	{service.ErrCommentPermission, response.CodePermissionDenied},
	{service.ErrIdentityMismatch, response.CodePermissionDenied},

	{service.ErrQuotaExceeded, response.CodeQuotaExceeded},
	{service.ErrPublicSpaceLocked, response.CodeQuotaExceeded},

	{service.ErrTransferLocked, response.CodeTransferLocked},
	{service.ErrInsufficientPoints, response.CodeInsufficientFunds},
	{service.ErrPaymentWindowClosed, response.CodePaymentClosed},
	{service.ErrInvalidPlan, response.CodeInvalidPlan},
	{service.ErrPlanNotUpgrade, response.CodeInvalidPlan},

	{service.ErrAlreadyFriends, response.CodeDuplicateAction},
	{service.ErrSelfFriend, response.CodeDuplicateAction},
	{service.ErrEmailExists, response.CodeDuplicateAction},
	{service.ErrUsernameExists, response.CodeDuplicateAction},

	{service.ErrInvalidCredentials, response.CodeAuthFailed},
	{otp.ErrInvalidCode, response.CodeAuthFailed},

	{service.ErrSelfTransfer, response.CodeParamError},
	{service.ErrInvalidAmount, response.CodeParamError},
	{service.ErrParentNotInPost, response.CodeParamError},
	{service.ErrInvalidMediaType, response.CodeParamError},
	{service.ErrFileTooLarge, response.CodeParamError},
	{vote.ErrInvalidDirection, response.CodeParamError},

	{service.ErrConcurrentUpdate, response.CodeConflict},

	{oss.ErrNotConfigured, response.CodeUnavailable},
}

// handleError 按错误类型返回对应的响应，未知错误记日志后返回 500
func handleError(c *gin.Context, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			response.Error(c, e.code, e.err.Error())
			return
		}
	}

	log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	response.ServerError(c, "")
}

// currentUser 已登录用户 ID，未登录时直接写入 401
func currentUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
	}
	return userID, ok
}

// pathID 解析路径中的 ID 参数
func pathID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, message)
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
