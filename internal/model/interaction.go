package model

import (
	"time"
)

// 帖子互动类型
const (
	InteractionLike  = "like"
	InteractionShare = "share"
)

type Interaction struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_interaction" json:"user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:idx_interaction;index" json:"post_id"`
	Type      string    `gorm:"size:20;not null;uniqueIndex:idx_interaction" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}
