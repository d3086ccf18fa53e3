package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

// QuotaCheck 额度预检，用于上传等先于内容创建的请求。
// 真正的扣减仍在创建内容的事务里完成。
func QuotaCheck(quotaService *service.QuotaService, feature service.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Abort(c, response.CodeAuthFailed, "")
			return
		}

		err := quotaService.Check(userID, feature)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, service.ErrQuotaExceeded), errors.Is(err, service.ErrPublicSpaceLocked):
			response.Abort(c, response.CodeQuotaExceeded, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.Abort(c, response.CodeResourceNotFound, err.Error())
		default:
			response.Abort(c, response.CodeServerError, "配额检查失败")
		}
	}
}
