package model

import (
	"time"
)

// Subscription 套餐购买记录
type Subscription struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Plan         string    `gorm:"size:20;not null" json:"plan"`
	PreviousPlan string    `gorm:"size:20;not null" json:"previous_plan"`
	Amount       float64   `gorm:"type:decimal(10,2)" json:"amount"`
	Status       string    `gorm:"size:20;default:paid;index" json:"status"` // paid, refunded
	PaidAt       time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
