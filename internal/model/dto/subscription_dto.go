package dto

// SubscribeRequest 购买套餐请求
type SubscribeRequest struct {
	PlanType string `json:"planType" binding:"required"`
}

// SubscribeResponse 购买结果
type SubscribeResponse struct {
	Plan         string  `json:"plan"`
	PreviousPlan string  `json:"previous_plan"`
	Amount       float64 `json:"amount"`
	PaidAt       string  `json:"paid_at"`
}

// PlanItem 套餐信息
type PlanItem struct {
	Name           string  `json:"name"`
	Weight         int     `json:"weight"`
	DailyQuestions int     `json:"daily_questions"`
	Unlimited      bool    `json:"unlimited"`
	Price          float64 `json:"price"`
}

// PlansResponse 套餐列表及支付窗口状态
type PlansResponse struct {
	Plans         []*PlanItem `json:"plans"`
	PaymentOpen   bool        `json:"payment_open"`
	PaymentWindow string      `json:"payment_window"`
}
