package model

import (
	"time"
)

type Post struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Content      string    `gorm:"type:text" json:"content"`
	MediaType    string    `gorm:"size:20" json:"media_type,omitempty"` // image, video
	MediaURL     string    `gorm:"size:500" json:"media_url,omitempty"`
	LikeCount    int       `gorm:"default:0" json:"like_count"`
	CommentCount int       `gorm:"default:0" json:"comment_count"`
	ShareCount   int       `gorm:"default:0" json:"share_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
