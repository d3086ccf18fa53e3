package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type UploadHandler struct {
	postService *service.PostService
	cfg         *config.UploadConfig
}

func NewUploadHandler(postService *service.PostService, cfg *config.UploadConfig) *UploadHandler {
	return &UploadHandler{
		postService: postService,
		cfg:         cfg,
	}
}

// Media 上传帖子图片或视频
// POST /api/v1/posts/media
func (h *UploadHandler) Media(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传文件")
		return
	}
	defer file.Close()

	if h.cfg.MaxSize > 0 && header.Size > h.cfg.MaxSize {
		response.ParamError(c, service.ErrFileTooLarge.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}

	resp, err := h.postService.UploadMedia(userID, header.Filename, data)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}
