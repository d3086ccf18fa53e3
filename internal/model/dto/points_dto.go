package dto

// TransferRequest 积分转账请求
type TransferRequest struct {
	ReceiverEmail string `json:"receiverEmail" binding:"required,email"`
	Amount        int64  `json:"amount"`
}

// TransferResponse 积分转账结果
type TransferResponse struct {
	Reference     string `json:"reference"`
	Amount        int64  `json:"amount"`
	ReceiverID    int64  `json:"receiver_id"`
	ReceiverName  string `json:"receiver_name"`
	SenderBalance int64  `json:"sender_balance"`
}

// PointTransactionItem 积分流水项
type PointTransactionItem struct {
	ID             int64  `json:"id"`
	Delta          int64  `json:"delta"`
	BalanceAfter   int64  `json:"balance_after"`
	Reason         string `json:"reason"`
	Reference      string `json:"reference,omitempty"`
	CounterpartyID *int64 `json:"counterparty_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}
