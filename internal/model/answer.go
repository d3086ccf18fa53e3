package model

import (
	"time"

	"github.com/qs3c/codequest_server/internal/pkg/vote"
)

type Answer struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	QuestionID   int64     `gorm:"not null;index" json:"question_id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	UserAnswered string    `gorm:"size:50" json:"user_answered"`
	Body         string    `gorm:"type:text;not null" json:"answer_body"`
	UpVotes      vote.Set  `gorm:"type:json" json:"up_vote"`
	DownVotes    vote.Set  `gorm:"type:json" json:"down_vote"`
	RewardPaid   bool      `gorm:"not null;default:false" json:"reward_paid"`
	Version      int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `json:"answered_on"`
	UpdatedAt    time.Time `json:"updated_at"`

	UserVote string `gorm:"-" json:"user_vote,omitempty"`
}

func (Answer) TableName() string {
	return "answers"
}
