package model

import (
	"time"
)

// 积分流水原因
const (
	PointReasonAnswerPosted  = "answer_posted"
	PointReasonAnswerDeleted = "answer_deleted"
	PointReasonTransferOut   = "transfer_out"
	PointReasonTransferIn    = "transfer_in"
)

// PointTransaction 积分流水，每次余额变动记录一条
type PointTransaction struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	Delta          int64     `gorm:"not null" json:"delta"`
	BalanceAfter   int64     `gorm:"not null" json:"balance_after"`
	Reason         string    `gorm:"size:32;not null" json:"reason"`
	Reference      string    `gorm:"size:64;index" json:"reference,omitempty"`
	CounterpartyID *int64    `json:"counterparty_id,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}
