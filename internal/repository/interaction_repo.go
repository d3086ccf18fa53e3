package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) WithTx(tx *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: tx}
}

// Create 创建互动记录
func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	return r.db.Create(interaction).Error
}

// Delete 删除互动记录，返回是否确有删除
func (r *InteractionRepository) Delete(userID, postID int64, interactionType string) (bool, error) {
	result := r.db.Where("user_id = ? AND post_id = ? AND type = ?", userID, postID, interactionType).
		Delete(&model.Interaction{})
	return result.RowsAffected > 0, result.Error
}

// Exists 检查互动是否存在
func (r *InteractionRepository) Exists(userID, postID int64, interactionType string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Interaction{}).
		Where("user_id = ? AND post_id = ? AND type = ?", userID, postID, interactionType).
		Count(&count).Error
	return count > 0, err
}

// LikedPostIDs 返回 postIDs 中用户已点赞的帖子
func (r *InteractionRepository) LikedPostIDs(userID int64, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := r.db.Model(&model.Interaction{}).
		Where("user_id = ? AND type = ? AND post_id IN ?", userID, model.InteractionLike, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
