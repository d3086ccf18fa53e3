package model

import (
	"time"
)

// 订阅套餐
const (
	PlanFree   = "free"
	PlanBronze = "bronze"
	PlanSilver = "silver"
	PlanGold   = "gold"
)

type User struct {
	ID               int64       `gorm:"primaryKey" json:"id"`
	Username         string      `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email            *string     `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PhoneNumber      string      `gorm:"size:30" json:"phone_number,omitempty"`
	PasswordHash     *string     `gorm:"size:255" json:"-"`
	About            string      `gorm:"type:text" json:"about"`
	Tags             StringArray `gorm:"type:json" json:"tags"`
	Points           int64       `gorm:"not null;default:0" json:"points"`
	SubscriptionPlan string      `gorm:"size:20;not null;default:free" json:"subscription_plan"`
	PostsToday       int         `gorm:"not null;default:0" json:"posts_today"`
	LastPostDate     string      `gorm:"size:10;not null;default:''" json:"last_post_date"`
	QuestionsToday   int         `gorm:"not null;default:0" json:"questions_today"`
	LastQuestionDate string      `gorm:"size:10;not null;default:''" json:"last_question_date"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
