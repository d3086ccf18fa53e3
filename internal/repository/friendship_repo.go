package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

func (r *FriendshipRepository) WithTx(tx *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: tx}
}

// CreatePair 同时写入双向关系
func (r *FriendshipRepository) CreatePair(userID, friendID int64) error {
	pair := []*model.Friendship{
		{UserID: userID, FriendID: friendID},
		{UserID: friendID, FriendID: userID},
	}
	return r.db.Create(&pair).Error
}

func (r *FriendshipRepository) Exists(userID, friendID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// CountFriends 好友数量
func (r *FriendshipRepository) CountFriends(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// FriendIDs 全部好友 ID
func (r *FriendshipRepository) FriendIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Friendship{}).Where("user_id = ?", userID).Pluck("friend_id", &ids).Error
	return ids, err
}

// ListByUserID 分页获取好友列表
func (r *FriendshipRepository) ListByUserID(userID int64, page, pageSize int) ([]*model.Friendship, int64, error) {
	var friendships []*model.Friendship
	var total int64

	query := r.db.Model(&model.Friendship{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Friend").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&friendships).Error
	return friendships, total, err
}
