package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/qs3c/codequest_server/internal/pkg/vote"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return nil
}

type Question struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	UserPosted  string      `gorm:"size:50" json:"user_posted"`
	Title       string      `gorm:"size:200;not null" json:"question_title"`
	Body        string      `gorm:"type:text;not null" json:"question_body"`
	Tags        StringArray `gorm:"type:json" json:"question_tags"`
	NoOfAnswers int         `gorm:"not null;default:0" json:"no_of_answers"`
	UpVotes     vote.Set    `gorm:"type:json" json:"up_vote"`
	DownVotes   vote.Set    `gorm:"type:json" json:"down_vote"`
	Version     int64       `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time   `gorm:"index" json:"asked_on"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Answers []*Answer `gorm:"foreignKey:QuestionID" json:"answer,omitempty"`

	// 查看者的投票立场，仅登录访问详情时填充
	UserVote string `gorm:"-" json:"user_vote,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
