package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create 发帖
// POST /api/v1/posts/create
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	post, err := h.postService.Create(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, post)
}

// Feed 好友动态（包含自己的帖子）
// GET /api/v1/posts/feed
func (h *PostHandler) Feed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	items, total, err := h.postService.Feed(userID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Like 点赞/取消点赞
// PATCH /api/v1/posts/:postId/like
func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	postID, ok := pathID(c, "postId", "无效的帖子ID")
	if !ok {
		return
	}

	resp, err := h.postService.ToggleLike(userID, postID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}

// Share 分享，重复分享不计数
// PATCH /api/v1/posts/:postId/share
func (h *PostHandler) Share(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	postID, ok := pathID(c, "postId", "无效的帖子ID")
	if !ok {
		return
	}

	resp, err := h.postService.Share(userID, postID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}
