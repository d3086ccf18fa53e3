package model

import (
	"time"
)

// Friendship 好友关系，每对好友保存两条方向相反的记录
type Friendship struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_friend_pair" json:"user_id"`
	FriendID  int64     `gorm:"not null;uniqueIndex:idx_friend_pair;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`

	Friend *User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}

func (Friendship) TableName() string {
	return "friendships"
}
