package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type AnswerHandler struct {
	answerService *service.AnswerService
	voteService   *service.VoteService
}

func NewAnswerHandler(answerService *service.AnswerService, voteService *service.VoteService) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
		voteService:   voteService,
	}
}

// Post 回答问题
// PATCH /api/v1/answer/post/:questionId
func (h *AnswerHandler) Post(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	questionID, ok := pathID(c, "questionId", "无效的问题ID")
	if !ok {
		return
	}

	var req dto.PostAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if err := service.CheckIdentity(userID, req.UserID); err != nil {
		handleError(c, err)
		return
	}

	question, err := h.answerService.Post(c.Request.Context(), userID, questionID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, question)
}

// Delete 删除回答
// PATCH /api/v1/answer/delete/:questionId
func (h *AnswerHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	questionID, ok := pathID(c, "questionId", "无效的问题ID")
	if !ok {
		return
	}

	var req dto.DeleteAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	question, err := h.answerService.Delete(c.Request.Context(), userID, questionID, req.AnswerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, question)
}

// Vote 回答投票
// PATCH /api/v1/answer/vote/:questionId
func (h *AnswerHandler) Vote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	questionID, ok := pathID(c, "questionId", "无效的问题ID")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if req.AnswerID <= 0 {
		response.ParamError(c, "缺少回答ID")
		return
	}
	if err := service.CheckIdentity(userID, req.UserID); err != nil {
		handleError(c, err)
		return
	}

	result, err := h.voteService.VoteAnswer(c.Request.Context(), userID, questionID, req.AnswerID, req.Value)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, result)
}
