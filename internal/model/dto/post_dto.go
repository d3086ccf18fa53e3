package dto

// CreatePostRequest 发帖请求
type CreatePostRequest struct {
	Content   string `json:"content" binding:"required_without=MediaURL,max=5000"`
	MediaType string `json:"mediaType,omitempty" binding:"omitempty,oneof=image video"`
	MediaURL  string `json:"mediaUrl,omitempty" binding:"omitempty,url,max=500"`
}

// PostAuthor 帖子作者
type PostAuthor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PostItem 帖子项
type PostItem struct {
	ID           int64       `json:"id"`
	Author       *PostAuthor `json:"author,omitempty"`
	Content      string      `json:"content"`
	MediaType    string      `json:"media_type,omitempty"`
	MediaURL     string      `json:"media_url,omitempty"`
	LikeCount    int         `json:"like_count"`
	CommentCount int         `json:"comment_count"`
	ShareCount   int         `json:"share_count"`
	CreatedAt    string      `json:"created_at"`
}

// LikeResponse 点赞响应
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// ShareResponse 分享响应
type ShareResponse struct {
	Shared     bool `json:"shared"`
	ShareCount int  `json:"share_count"`
}

// MediaUploadResponse 媒体上传响应
type MediaUploadResponse struct {
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
}
