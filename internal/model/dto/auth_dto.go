package dto

// SignupRequest 注册请求
type SignupRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=32"`
	PhoneNumber string `json:"phone_number,omitempty" binding:"omitempty,max=30"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// GenerateOTPRequest 发送验证码请求
type GenerateOTPRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email sms"`
	Contact string `json:"contact" binding:"required,max=100"`
}

// VerifyOTPRequest 校验验证码请求
type VerifyOTPRequest struct {
	Contact string `json:"contact" binding:"required,max=100"`
	OTP     string `json:"otp" binding:"required"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email,omitempty"`
	About            string     `json:"about"`
	Tags             []string   `json:"tags"`
	Points           int64      `json:"points"`
	SubscriptionPlan string     `json:"subscription_plan"`
	FriendCount      int64      `json:"friend_count"`
	Quota            *QuotaInfo `json:"quota,omitempty"`
	CreatedAt        string     `json:"created_at,omitempty"`
}

// FriendItem 好友列表项
type FriendItem struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Since    string `json:"since"`
}

// UpdateProfileRequest 修改资料请求，未传的字段保持不变
type UpdateProfileRequest struct {
	Username *string  `json:"username" binding:"omitempty,min=3,max=50"`
	About    *string  `json:"about" binding:"omitempty,max=500"`
	Tags     []string `json:"tags" binding:"omitempty,max=10,dive,min=1,max=30"`
}

// UserListItem 用户目录项
type UserListItem struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	About    string   `json:"about"`
	Tags     []string `json:"tags"`
	Points   int64    `json:"points"`
	IsFriend bool     `json:"is_friend"`
}
