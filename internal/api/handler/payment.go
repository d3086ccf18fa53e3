package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type PaymentHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewPaymentHandler(subscriptionService *service.SubscriptionService) *PaymentHandler {
	return &PaymentHandler{
		subscriptionService: subscriptionService,
	}
}

// Plans 套餐列表
// GET /api/v1/payment/plans
func (h *PaymentHandler) Plans(c *gin.Context) {
	response.Success(c, h.subscriptionService.ListPlans())
}

// Subscribe 购买套餐，仅在支付窗口内可用
// POST /api/v1/payment/subscribe
func (h *PaymentHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.subscriptionService.Subscribe(c.Request.Context(), userID, req.PlanType)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅成功", resp)
}
