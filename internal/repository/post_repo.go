package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("User").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListFeed 按作者集合分页获取帖子，userIDs 为空时返回全部
func (r *PostRepository) ListFeed(userIDs []int64, page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.Model(&model.Post{})
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("User").Order("created_at DESC").Order("id DESC").Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, total, err
}

// IncrementLikeCount 增加点赞数
func (r *PostRepository) IncrementLikeCount(id int64, delta int) error {
	return r.incr(id, "like_count", delta)
}

// IncrementCommentCount 增加评论数
func (r *PostRepository) IncrementCommentCount(id int64, delta int) error {
	return r.incr(id, "comment_count", delta)
}

// IncrementShareCount 增加分享数
func (r *PostRepository) IncrementShareCount(id int64, delta int) error {
	return r.incr(id, "share_count", delta)
}

func (r *PostRepository) incr(id int64, column string, delta int) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}
