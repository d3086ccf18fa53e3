package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
	ErrParentNotFound    = errors.New("父评论不存在")
	ErrParentNotInPost   = errors.New("父评论不属于该帖子")
)

type CommentService struct {
	db          *gorm.DB
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
}

func NewCommentService(
	db *gorm.DB,
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// Create 创建评论
func (s *CommentService) Create(userID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	exists, err := s.postRepo.Exists(postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	// 如果是回复，验证父评论
	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(*parentID)
		if err != nil {
			return nil, notFound(err, ErrParentNotFound)
		}

		if parent.PostID != postID {
			return nil, ErrParentNotInPost
		}

		// 只支持一级回复
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	comment := &model.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: parentID,
		Content:  req.Content,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.WithTx(tx).Create(comment); err != nil {
			return err
		}
		return s.postRepo.WithTx(tx).IncrementCommentCount(postID, 1)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CommentItem{
		ID:       comment.ID,
		ParentID: comment.ParentID,
		Content:  comment.Content,
		User: &dto.CommentUser{
			ID:       user.ID,
			Username: user.Username,
		},
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}, nil
}

// Delete 删除评论及其回复
func (s *CommentService) Delete(userID, commentID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)

		comment, err := comments.GetByID(commentID)
		if err != nil {
			return notFound(err, ErrCommentNotFound)
		}

		if comment.UserID != userID {
			return ErrCommentPermission
		}

		deletedReplies, err := comments.DeleteByParentID(commentID)
		if err != nil {
			return err
		}
		if err := comments.Delete(commentID); err != nil {
			return err
		}

		return s.postRepo.WithTx(tx).IncrementCommentCount(comment.PostID, -(1 + int(deletedReplies)))
	})
}

// ListByPostID 获取帖子的评论列表，回复挂在一级评论下
func (s *CommentService) ListByPostID(postID int64, page, pageSize int) ([]*dto.CommentItem, int64, error) {
	exists, err := s.postRepo.Exists(postID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, ErrPostNotFound
	}

	comments, total, err := s.commentRepo.ListByPostID(postID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if len(comments) == 0 {
		return []*dto.CommentItem{}, 0, nil
	}

	// 收集一级评论ID
	parentIDs := make([]int64, len(comments))
	for i, c := range comments {
		parentIDs[i] = c.ID
	}

	replies, err := s.commentRepo.GetRepliesByParentIDs(parentIDs)
	if err != nil {
		return nil, 0, err
	}

	// 构建回复映射
	repliesMap := make(map[int64][]*model.Comment)
	for _, r := range replies {
		if r.ParentID != nil {
			repliesMap[*r.ParentID] = append(repliesMap[*r.ParentID], r)
		}
	}

	// 组装结果
	items := make([]*dto.CommentItem, len(comments))
	for i, c := range comments {
		items[i] = s.buildCommentItem(c)

		// 添加回复
		if childReplies, ok := repliesMap[c.ID]; ok {
			items[i].Replies = make([]*dto.CommentItem, len(childReplies))
			for j, r := range childReplies {
				items[i].Replies[j] = s.buildCommentItem(r)
			}
		}
	}

	return items, total, nil
}

func (s *CommentService) buildCommentItem(c *model.Comment) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}

	if c.User != nil {
		item.User = &dto.CommentUser{
			ID:       c.User.ID,
			Username: c.User.Username,
		}
	}

	return item
}
