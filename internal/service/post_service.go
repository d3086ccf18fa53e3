package service

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrInvalidMediaType = errors.New("不支持的媒体格式")
	ErrFileTooLarge     = errors.New("文件过大")
)

// MediaUploader 帖子媒体存储
type MediaUploader interface {
	UploadPostMedia(userID int64, data []byte, ext string) (string, error)
}

type PostService struct {
	db              *gorm.DB
	postRepo        *repository.PostRepository
	interactionRepo *repository.InteractionRepository
	friendRepo      *repository.FriendshipRepository
	quota           *QuotaService
	uploader        MediaUploader
	cfg             *config.UploadConfig
}

func NewPostService(
	db *gorm.DB,
	postRepo *repository.PostRepository,
	interactionRepo *repository.InteractionRepository,
	friendRepo *repository.FriendshipRepository,
	quota *QuotaService,
	uploader MediaUploader,
	cfg *config.UploadConfig,
) *PostService {
	return &PostService{
		db:              db,
		postRepo:        postRepo,
		interactionRepo: interactionRepo,
		friendRepo:      friendRepo,
		quota:           quota,
		uploader:        uploader,
		cfg:             cfg,
	}
}

// Create 发帖，受好友数决定的每日额度限制
func (s *PostService) Create(userID int64, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	var post *model.Post

	err := s.quota.Consume(userID, FeaturePost, func(tx *gorm.DB) error {
		post = &model.Post{
			UserID:    userID,
			Content:   req.Content,
			MediaType: req.MediaType,
			MediaURL:  req.MediaURL,
		}
		return s.postRepo.WithTx(tx).Create(post)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(post.ID)
	if err != nil {
		return nil, err
	}
	return s.buildPostItem(created), nil
}

// Feed 自己和好友的帖子
func (s *PostService) Feed(userID int64, page, pageSize int) ([]*dto.PostItem, int64, error) {
	ids, err := s.friendRepo.FriendIDs(userID)
	if err != nil {
		return nil, 0, err
	}
	ids = append(ids, userID)

	posts, total, err := s.postRepo.ListFeed(ids, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PostItem, len(posts))
	for i, p := range posts {
		items[i] = s.buildPostItem(p)
	}
	return items, total, nil
}

// ToggleLike 点赞或取消点赞
func (s *PostService) ToggleLike(userID, postID int64) (*dto.LikeResponse, error) {
	resp := &dto.LikeResponse{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		interactions := s.interactionRepo.WithTx(tx)

		if _, err := posts.GetByID(postID); err != nil {
			return notFound(err, ErrPostNotFound)
		}

		removed, err := interactions.Delete(userID, postID, model.InteractionLike)
		if err != nil {
			return err
		}

		delta := -1
		if !removed {
			err := interactions.Create(&model.Interaction{UserID: userID, PostID: postID, Type: model.InteractionLike})
			if err != nil {
				return err
			}
			delta = 1
		}
		if err := posts.IncrementLikeCount(postID, delta); err != nil {
			return err
		}

		post, err := posts.GetByID(postID)
		if err != nil {
			return err
		}
		resp.Liked = !removed
		resp.LikeCount = post.LikeCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Share 分享，同一用户重复分享不重复计数
func (s *PostService) Share(userID, postID int64) (*dto.ShareResponse, error) {
	resp := &dto.ShareResponse{Shared: true}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		interactions := s.interactionRepo.WithTx(tx)

		post, err := posts.GetByID(postID)
		if err != nil {
			return notFound(err, ErrPostNotFound)
		}

		exists, err := interactions.Exists(userID, postID, model.InteractionShare)
		if err != nil {
			return err
		}
		if exists {
			resp.ShareCount = post.ShareCount
			return nil
		}

		if err := interactions.Create(&model.Interaction{UserID: userID, PostID: postID, Type: model.InteractionShare}); err != nil {
			return err
		}
		if err := posts.IncrementShareCount(postID, 1); err != nil {
			return err
		}
		resp.ShareCount = post.ShareCount + 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UploadMedia 上传帖子图片或视频，返回可直接用于发帖的 URL
func (s *PostService) UploadMedia(userID int64, filename string, data []byte) (*dto.MediaUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowed(ext) {
		return nil, ErrInvalidMediaType
	}
	if s.cfg.MaxSize > 0 && int64(len(data)) > s.cfg.MaxSize {
		return nil, ErrFileTooLarge
	}

	url, err := s.uploader.UploadPostMedia(userID, data, ext)
	if err != nil {
		return nil, err
	}

	return &dto.MediaUploadResponse{
		MediaType: MediaTypeOf(ext),
		MediaURL:  url,
	}, nil
}

func (s *PostService) allowed(ext string) bool {
	for _, e := range s.cfg.AllowedExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// MediaTypeOf 按扩展名区分图片和视频
func MediaTypeOf(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp4", ".webm", ".mov":
		return "video"
	}
	return "image"
}

func (s *PostService) buildPostItem(p *model.Post) *dto.PostItem {
	item := &dto.PostItem{
		ID:           p.ID,
		Content:      p.Content,
		MediaType:    p.MediaType,
		MediaURL:     p.MediaURL,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}

	if p.User != nil {
		item.Author = &dto.PostAuthor{
			ID:       p.User.ID,
			Username: p.User.Username,
		}
	}

	return item
}
