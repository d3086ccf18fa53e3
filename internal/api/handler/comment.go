package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 获取评论列表
// GET /api/v1/posts/:postId/comments
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := pathID(c, "postId", "无效的帖子ID")
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	items, total, err := h.commentService.ListByPostID(postID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 发表评论
// POST /api/v1/posts/:postId/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	postID, ok := pathID(c, "postId", "无效的帖子ID")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(userID, postID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "评论成功", comment)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	commentID, ok := pathID(c, "id", "无效的评论ID")
	if !ok {
		return
	}

	if err := h.commentService.Delete(userID, commentID); err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
