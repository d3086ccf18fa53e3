package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	ledger      *service.LedgerService
}

func NewUserHandler(userService *service.UserService, ledger *service.LedgerService) *UserHandler {
	return &UserHandler{
		userService: userService,
		ledger:      ledger,
	}
}

// GetProfile 获取当前用户信息
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, info)
}

// AddFriend 添加好友
// PATCH /api/v1/user/friend/:id
func (h *UserHandler) AddFriend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	friendID, ok := pathID(c, "id", "无效的用户ID")
	if !ok {
		return
	}

	if err := h.userService.AddFriend(userID, friendID); err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "添加好友成功", nil)
}

// ListFriends 好友列表
// GET /api/v1/user/friends
func (h *UserHandler) ListFriends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	items, total, err := h.userService.ListFriends(userID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// TransferPoints 积分转账
// POST /api/v1/user/transfer-points
func (h *UserHandler) TransferPoints(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.ledger.Transfer(c.Request.Context(), userID, req.ReceiverEmail, req.Amount)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "转账成功", resp)
}

// PointsHistory 积分流水
// GET /api/v1/user/points/history
func (h *UserHandler) PointsHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	items, total, err := h.ledger.History(userID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// List 用户目录
// GET /api/v1/user/getalluser
func (h *UserHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	items, total, err := h.userService.List(userID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// UpdateProfile 修改个人资料，只能改自己的
// PATCH /api/v1/user/update/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	targetID, ok := pathID(c, "id", "无效的用户ID")
	if !ok {
		return
	}
	if err := service.CheckIdentity(userID, &targetID); err != nil {
		handleError(c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "资料已更新", info)
}
