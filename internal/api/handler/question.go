package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/api/middleware"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	voteService     *service.VoteService
}

func NewQuestionHandler(questionService *service.QuestionService, voteService *service.VoteService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		voteService:     voteService,
	}
}

// Ask 提问
// POST /api/v1/question/Ask
func (h *QuestionHandler) Ask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	question, err := h.questionService.Ask(userID, &req.PostQuestionData)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, question)
}

// List 问题列表
// GET /api/v1/question/get
func (h *QuestionHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	questions, total, err := h.questionService.List(page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, questions)
}

// Get 问题详情，携带 token 时返回自己的投票立场
// GET /api/v1/question/:questionId
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, ok := pathID(c, "questionId", "无效的问题ID")
	if !ok {
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	question, err := h.questionService.Get(questionID, viewerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, question)
}

// Delete 删除问题
// DELETE /api/v1/question/delete/:questionId
func (h *QuestionHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	questionID, ok := pathID(c, "questionId", "无效的问题ID")
	if !ok {
		return
	}

	if err := h.questionService.Delete(userID, questionID); err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Vote 问题投票
// PATCH /api/v1/question/vote/:questionId
func (h *QuestionHandler) Vote(c *gin.Context) {
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
	if err := service.CheckIdentity(userID, req.UserID); err != nil {
		handleError(c, err)
		return
	}

	result, err := h.voteService.VoteQuestion(userID, questionID, req.Value)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, result)
}
